package report

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/caixa/internal/category"
	"github.com/MrJamesThe3rd/caixa/internal/report"
	"github.com/MrJamesThe3rd/caixa/internal/transaction"
)

var today = time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

func day(m time.Month, d int) time.Time {
	return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC)
}

func fixtures() []*transaction.Transaction {
	return []*transaction.Transaction{
		{ID: uuid.New(), Description: "Consulting", Amount: decimal.NewFromInt(10000), DueDate: day(3, 5), Type: transaction.TypeCompanyRevenue, Status: transaction.StatusPaid},
		{ID: uuid.New(), Description: "Rent", Amount: decimal.NewFromInt(2000), DueDate: day(3, 10), Type: transaction.TypeCompanyExpense, Status: transaction.StatusPaid, Category: "Rent"},
		{ID: uuid.New(), Description: "Internet", Amount: decimal.NewFromInt(150), DueDate: day(3, 17), Type: transaction.TypeCompanyExpense, Status: transaction.StatusOpen},
		{ID: uuid.New(), Description: "Old bill", Amount: decimal.NewFromInt(90), DueDate: day(1, 20), Type: transaction.TypeCompanyExpense, Status: transaction.StatusOverdue},
	}
}

type env struct {
	router http.Handler
	repo   *transaction.MockRepository
	cats   *category.MockRepository
}

func setup(t *testing.T) env {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	repo := transaction.NewMockRepository(ctrl)
	cats := category.NewMockRepository(ctrl)

	h := NewHandler(transaction.NewService(repo, nil), category.NewService(cats), report.DefaultTaxConfig())
	h.now = func() time.Time { return today }

	r := chi.NewRouter()
	r.Route("/reports", h.Routes)

	return env{router: r, repo: repo, cats: cats}
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	return rec
}

func TestHandler_Dashboard(t *testing.T) {
	e := setup(t)

	e.repo.EXPECT().ListTransactions(gomock.Any(), transaction.ListFilter{}).Return(fixtures(), nil)
	e.cats.EXPECT().ListCategories(gomock.Any()).Return([]*category.Category{
		{ID: uuid.New(), Name: "Rent", Color: "#ff0000", Budget: new(decimal.NewFromInt(1500)), Scope: category.ScopeCompany},
	}, nil)

	rec := get(e.router, "/reports/dashboard?granularity=monthly")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp dashboardResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, rangeResponse{Start: "2024-03-01", End: "2024-03-31"}, resp.Range)
	assert.Equal(t, "10000", resp.Summary.Revenue.String())
	assert.Equal(t, "2150", resp.Summary.Expenses.String())
	require.Len(t, resp.CashFlow, 1)

	require.Len(t, resp.Budgets, 1)
	assert.True(t, resp.Budgets[0].OverBudget)
	assert.Equal(t, "500", resp.Budgets[0].Over.String())

	require.Len(t, resp.Notifications, 2)
	assert.Equal(t, report.UrgencyOverdue, resp.Notifications[0].Urgency)
	assert.Equal(t, "Old bill", resp.Notifications[0].Description)
	assert.Equal(t, report.UrgencyUpcoming, resp.Notifications[1].Urgency)
}

func TestHandler_Dashboard_BadGranularity(t *testing.T) {
	e := setup(t)

	rec := get(e.router, "/reports/dashboard?granularity=weekly")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Dashboard_RangeTooLong(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{name: "DailyOverYear", query: "start_date=2024-01-01&end_date=2025-01-01"},
		{name: "DailyHugeSpan", query: "start_date=0001-01-01&end_date=9999-12-31"},
		{name: "MonthlyHugeSpan", query: "start_date=0001-01-01&end_date=9999-12-31&granularity=monthly"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := setup(t)

			rec := get(e.router, "/reports/dashboard?"+tt.query)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestHandler_DRE(t *testing.T) {
	tests := []struct {
		name          string
		query         string
		wantStatus    int
		wantDeduction string
		wantNet       string
	}{
		{
			name:          "SimplifiedDefaults",
			query:         "start_date=2024-03-01&end_date=2024-03-31",
			wantStatus:    http.StatusOK,
			wantDeduction: "600",
			wantNet:       "9400",
		},
		{
			name:          "OverriddenRate",
			query:         "start_date=2024-03-01&end_date=2024-03-31&simplified_rate=10",
			wantStatus:    http.StatusOK,
			wantDeduction: "1000",
			wantNet:       "9000",
		},
		{
			name:       "UnknownRegime",
			query:      "regime=lucro",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "BadRate",
			query:      "iss=abc",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := setup(t)

			if tt.wantStatus == http.StatusOK {
				e.repo.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).Return(fixtures(), nil)
			}

			rec := get(e.router, "/reports/dre?"+tt.query)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			if tt.wantStatus != http.StatusOK {
				return
			}

			var resp dreResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantDeduction, resp.TaxDeduction.Value.String())
			assert.Equal(t, tt.wantNet, resp.NetRevenue.Value.String())
		})
	}
}
