package transaction

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/caixa/internal/transaction"
)

func newRouter(repo transaction.Repository) http.Handler {
	h := NewHandler(transaction.NewService(repo, nil))
	h.now = func() time.Time { return time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC) }

	r := chi.NewRouter()
	r.Route("/transactions", h.Routes)

	return r
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func TestHandler_Create(t *testing.T) {
	type testCase struct {
		name       string
		body       string
		setupMock  func(m *transaction.MockRepository, b *transaction.MockBatchTx)
		wantStatus int
		verify     func(t *testing.T, body []byte)
	}

	tests := []testCase{
		{
			name: "Single",
			body: `{"description":"Consulting","amount":"1500.50","due_date":"2024-03-10","type":"company_revenue"}`,
			setupMock: func(m *transaction.MockRepository, _ *transaction.MockBatchTx) {
				m.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
						tx.ID = uuid.New()
						return nil
					})
			},
			wantStatus: http.StatusCreated,
			verify: func(t *testing.T, body []byte) {
				var resp Response
				require.NoError(t, json.Unmarshal(body, &resp))
				assert.Equal(t, "2024-03-10", resp.DueDate)
				assert.Equal(t, "1500.5", resp.Amount.String())
				assert.Equal(t, transaction.StatusOpen, resp.Status)
			},
		},
		{
			name: "RecurringDefaultsToTwo",
			body: `{"description":"Rent","amount":2000,"due_date":"2024-01-31","type":"company_expense","recurring":true}`,
			setupMock: func(m *transaction.MockRepository, b *transaction.MockBatchTx) {
				m.EXPECT().BeginBatch(gomock.Any(), gomock.Any(), gomock.Any()).Return(b, nil)
				b.EXPECT().CreateTransactions(gomock.Any(), gomock.Len(2)).Return(nil)
				b.EXPECT().Commit().Return(nil)
				b.EXPECT().Rollback().Return(nil)
			},
			wantStatus: http.StatusCreated,
			verify: func(t *testing.T, body []byte) {
				var resp []Response
				require.NoError(t, json.Unmarshal(body, &resp))
				require.Len(t, resp, 2)
				assert.Equal(t, "Rent (1/2)", resp[0].Description)
				assert.Equal(t, "2024-02-29", resp[1].DueDate)
			},
		},
		{
			name:       "CountOutOfRange",
			body:       `{"description":"Rent","amount":2000,"due_date":"2024-01-31","type":"company_expense","recurring":true,"count":121}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "AmountTooSmall",
			body:       `{"description":"Fee","amount":"0","due_date":"2024-01-31","type":"company_expense"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "BadDate",
			body:       `{"description":"Fee","amount":"10","due_date":"31/01/2024","type":"company_expense"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "MalformedJSON",
			body:       `{`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			batch := transaction.NewMockBatchTx(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(repo, batch)
			}

			rec := do(t, newRouter(repo), http.MethodPost, "/transactions/", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			if tt.verify != nil {
				tt.verify(t, rec.Body.Bytes())
			}
		})
	}
}

func TestHandler_Get_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().GetTransaction(gomock.Any(), gomock.Any()).Return(nil, transaction.ErrNotFound)

	rec := do(t, newRouter(repo), http.MethodGet, "/transactions/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, newRouter(repo), http.MethodGet, "/transactions/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_List_Filters(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, f transaction.ListFilter) ([]*transaction.Transaction, error) {
			require.NotNil(t, f.Status)
			assert.Equal(t, transaction.StatusPaid, *f.Status)
			require.NotNil(t, f.StartDate)
			assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *f.StartDate)
			assert.Nil(t, f.EndDate)

			return []*transaction.Transaction{}, nil
		})

	rec := do(t, newRouter(repo), http.MethodGet, "/transactions/?status=paid&start_date=2024-03-01", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(t, newRouter(repo), http.MethodGet, "/transactions/?start_date=bogus", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Ledger(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, f transaction.ListFilter) ([]*transaction.Transaction, error) {
			assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *f.StartDate)
			assert.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), *f.EndDate)

			return []*transaction.Transaction{
				{ID: uuid.New(), Description: "Rent", Amount: decimal.NewFromInt(2000), DueDate: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), Type: transaction.TypeCompanyExpense, Status: transaction.StatusOpen},
				{ID: uuid.New(), Description: "Withdrawal", Amount: decimal.NewFromInt(500), DueDate: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), Type: transaction.TypePartnerExpense, Status: transaction.StatusPaid},
				{ID: uuid.New(), Description: "Withdrawal", Amount: decimal.NewFromInt(700), DueDate: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), Type: transaction.TypePartnerExpense, Status: transaction.StatusPaid},
			}, nil
		})

	rec := do(t, newRouter(repo), http.MethodGet, "/transactions/ledger", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []ledgerRowResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 2)

	assert.True(t, rows[0].Summary)
	assert.Equal(t, "Partner Withdrawal (03/2024) - paid", rows[0].Description)
	assert.Equal(t, "1200", rows[0].Amount.String())
	assert.Equal(t, 2, rows[0].Count)
	assert.Equal(t, "Rent", rows[1].Description)
}

func TestHandler_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()

	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().GetTransaction(gomock.Any(), id).Return(&transaction.Transaction{
		ID:          id,
		Description: "Old",
		Amount:      decimal.NewFromInt(10),
		DueDate:     time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		Type:        transaction.TypeCompanyExpense,
		Status:      transaction.StatusOpen,
	}, nil)
	repo.EXPECT().UpdateTransaction(gomock.Any(), gomock.Any()).Return(nil)

	rec := do(t, newRouter(repo), http.MethodPatch, "/transactions/"+id.String(), `{"description":"New","due_date":"2024-04-01"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp updateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Affected)
	assert.Equal(t, "New", resp.Transaction.Description)
	assert.Equal(t, "2024-04-01", resp.Transaction.DueDate)
}

func TestHandler_UpdateStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()

	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().UpdateStatus(gomock.Any(), id, transaction.StatusPaid, gomock.Not(gomock.Nil())).Return(nil)

	rec := do(t, newRouter(repo), http.MethodPatch, "/transactions/"+id.String()+"/status", `{"status":"paid"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, newRouter(repo), http.MethodPatch, "/transactions/"+id.String()+"/status", `{"status":"cancelled"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_DeleteBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ids := []uuid.UUID{uuid.New(), uuid.New()}

	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().DeleteTransactions(gomock.Any(), ids).Return(int64(2), nil)

	body, err := json.Marshal(deleteBatchRequest{IDs: ids})
	require.NoError(t, err)

	rec := do(t, newRouter(repo), http.MethodPost, "/transactions/batch-delete", string(body))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"deleted":2}`, rec.Body.String())

	rec = do(t, newRouter(repo), http.MethodPost, "/transactions/batch-delete", `{"ids":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
