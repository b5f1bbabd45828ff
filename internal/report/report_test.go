package report_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/caixa/internal/category"
	"github.com/MrJamesThe3rd/caixa/internal/report"
	"github.com/MrJamesThe3rd/caixa/internal/transaction"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func tx(typ transaction.Type, amount string, due time.Time, status transaction.Status, cat string) *transaction.Transaction {
	return &transaction.Transaction{
		ID:          uuid.New(),
		Description: string(typ) + " " + amount,
		Amount:      decimal.RequireFromString(amount),
		DueDate:     due,
		Type:        typ,
		Status:      status,
		Category:    cat,
	}
}

func TestRange_Contains(t *testing.T) {
	r := report.NewRange(day(2024, 3, 1), day(2024, 3, 31))

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{name: "Start", at: day(2024, 3, 1), want: true},
		{name: "EndLateInDay", at: time.Date(2024, 3, 31, 23, 59, 0, 0, time.UTC), want: true},
		{name: "Middle", at: day(2024, 3, 15), want: true},
		{name: "DayBefore", at: day(2024, 2, 29), want: false},
		{name: "DayAfter", at: day(2024, 4, 1), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Contains(tt.at))
		})
	}
}

func TestNewRange_SingleDay(t *testing.T) {
	r := report.NewRange(time.Date(2024, 5, 5, 14, 0, 0, 0, time.UTC), time.Time{})
	assert.Equal(t, day(2024, 5, 5), r.Start)
	assert.Equal(t, day(2024, 5, 5), r.End)
}

func TestDefaultRange(t *testing.T) {
	r := report.DefaultRange(time.Date(2024, 2, 17, 10, 0, 0, 0, time.UTC))
	assert.Equal(t, day(2024, 2, 1), r.Start)
	assert.Equal(t, day(2024, 2, 29), r.End)
}

func TestFilter(t *testing.T) {
	txs := []*transaction.Transaction{
		tx(transaction.TypeCompanyRevenue, "1", day(2024, 1, 31), transaction.StatusOpen, ""),
		tx(transaction.TypeCompanyRevenue, "2", day(2024, 2, 1), transaction.StatusOpen, ""),
		tx(transaction.TypeCompanyRevenue, "3", day(2024, 2, 29), transaction.StatusOpen, ""),
		tx(transaction.TypeCompanyRevenue, "4", day(2024, 3, 1), transaction.StatusOpen, ""),
	}

	got := report.Filter(txs, report.NewRange(day(2024, 2, 1), day(2024, 2, 29)))
	require.Len(t, got, 2)
	assert.Equal(t, txs[1], got[0])
	assert.Equal(t, txs[2], got[1])
}

func TestSummarize(t *testing.T) {
	txs := []*transaction.Transaction{
		tx(transaction.TypeCompanyRevenue, "1000", day(2024, 3, 1), transaction.StatusPaid, ""),
		tx(transaction.TypeCompanyRevenue, "500", day(2024, 3, 2), transaction.StatusOpen, ""),
		tx(transaction.TypeCompanyExpense, "300", day(2024, 3, 3), transaction.StatusPaid, "Rent"),
		tx(transaction.TypeCompanyExpense, "200", day(2024, 3, 4), transaction.StatusOverdue, "Rent"),
		tx(transaction.TypePartnerExpense, "150", day(2024, 3, 5), transaction.StatusPaid, ""),
	}

	s := report.Summarize(txs)
	assert.Equal(t, "1500.00", s.Revenue.StringFixed(2))
	assert.Equal(t, "500.00", s.Expenses.StringFixed(2))
	assert.Equal(t, "150.00", s.PartnerWithdrawals.StringFixed(2))
	assert.Equal(t, "1000.00", s.Balance.StringFixed(2))
	assert.Equal(t, "1000.00", s.Received.StringFixed(2))
	assert.Equal(t, "500.00", s.Receivable.StringFixed(2))
	assert.Equal(t, "300.00", s.Paid.StringFixed(2))
	assert.Equal(t, "200.00", s.Payable.StringFixed(2))
	assert.Equal(t, "200.00", s.Overdue.StringFixed(2))
}

func TestByCategory(t *testing.T) {
	cats := []*category.Category{{Name: "Rent", Color: "#ff0000"}}
	txs := []*transaction.Transaction{
		tx(transaction.TypeCompanyExpense, "100", day(2024, 3, 1), transaction.StatusOpen, "Rent"),
		tx(transaction.TypeCompanyExpense, "250.50", day(2024, 3, 1), transaction.StatusOpen, ""),
		tx(transaction.TypePartnerExpense, "40", day(2024, 3, 1), transaction.StatusOpen, "Food"),
		tx(transaction.TypeCompanyExpense, "60", day(2024, 3, 1), transaction.StatusOpen, "Rent"),
		tx(transaction.TypeCompanyRevenue, "9999", day(2024, 3, 1), transaction.StatusOpen, "Rent"),
	}

	got := report.ByCategory(txs, cats)
	require.Len(t, got, 3)

	assert.Equal(t, report.Uncategorized, got[0].Name)
	assert.Equal(t, report.FallbackColor, got[0].Color)
	assert.Equal(t, "Rent", got[1].Name)
	assert.Equal(t, "#ff0000", got[1].Color)
	assert.Equal(t, "160.00", got[1].Value.StringFixed(2))
	assert.Equal(t, "Food", got[2].Name)

	total := decimal.Zero
	for _, s := range got {
		total = total.Add(s.Value)
	}

	assert.Equal(t, "450.50", total.StringFixed(2))
}

func TestCashFlow_Daily(t *testing.T) {
	r := report.NewRange(day(2024, 3, 1), day(2024, 3, 5))
	txs := []*transaction.Transaction{
		tx(transaction.TypeCompanyRevenue, "100", day(2024, 3, 1), transaction.StatusOpen, ""),
		tx(transaction.TypeCompanyExpense, "40", day(2024, 3, 1), transaction.StatusOpen, ""),
		tx(transaction.TypePartnerExpense, "30", day(2024, 3, 2), transaction.StatusOpen, ""),
		tx(transaction.TypeCompanyExpense, "10", day(2024, 3, 5), transaction.StatusOpen, ""),
		tx(transaction.TypeCompanyExpense, "99", day(2024, 3, 6), transaction.StatusOpen, ""),
	}

	got := report.CashFlow(txs, r, report.Daily)
	require.Len(t, got, 5)
	assert.Equal(t, "01", got[0].Label)
	assert.Equal(t, "100.00", got[0].Revenue.StringFixed(2))
	assert.Equal(t, "40.00", got[0].Expense.StringFixed(2))
	assert.True(t, got[1].Expense.IsZero())
	assert.Equal(t, "10.00", got[4].Expense.StringFixed(2))
}

func TestCashFlow_Monthly(t *testing.T) {
	r := report.NewRange(day(2024, 1, 15), day(2024, 4, 10))
	txs := []*transaction.Transaction{
		tx(transaction.TypeCompanyRevenue, "100", day(2024, 1, 20), transaction.StatusOpen, ""),
		tx(transaction.TypeCompanyRevenue, "50", day(2024, 3, 31), transaction.StatusOpen, ""),
	}

	got := report.CashFlow(txs, r, report.Monthly)
	require.Len(t, got, 4)
	assert.Equal(t, day(2024, 1, 1), got[0].Date)
	assert.Equal(t, "100.00", got[0].Revenue.StringFixed(2))
	assert.True(t, got[1].Revenue.IsZero())
	assert.Equal(t, "50.00", got[2].Revenue.StringFixed(2))
}

func TestCheckSpan(t *testing.T) {
	tests := []struct {
		name       string
		r          report.Range
		g          report.Granularity
		wantPoints int
		wantErr    bool
	}{
		{name: "LeapYearDaily", r: report.NewRange(day(2024, 1, 1), day(2024, 12, 31)), g: report.Daily, wantPoints: 366},
		{name: "OverYearDaily", r: report.NewRange(day(2024, 1, 1), day(2025, 1, 1)), g: report.Daily, wantPoints: 367, wantErr: true},
		{name: "TenYearsMonthly", r: report.NewRange(day(2015, 1, 1), day(2024, 12, 31)), g: report.Monthly, wantPoints: 120},
		{name: "OverTenYearsMonthly", r: report.NewRange(day(2015, 1, 1), day(2025, 1, 1)), g: report.Monthly, wantPoints: 121, wantErr: true},
		{name: "SingleDay", r: report.NewRange(day(2024, 3, 5), time.Time{}), g: report.Daily, wantPoints: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantPoints, report.Points(tt.r, tt.g))

			err := report.CheckSpan(tt.r, tt.g)
			if tt.wantErr {
				assert.ErrorIs(t, err, report.ErrRangeTooLong)
				return
			}

			assert.NoError(t, err)
		})
	}

	huge := report.NewRange(day(1, 1, 1), day(9999, 12, 31))
	assert.ErrorIs(t, report.CheckSpan(huge, report.Daily), report.ErrRangeTooLong)
	assert.ErrorIs(t, report.CheckSpan(huge, report.Monthly), report.ErrRangeTooLong)
}

func TestBudgets(t *testing.T) {
	cats := []*category.Category{
		{Name: "Rent", Budget: new(decimal.NewFromInt(1000))},
		{Name: "Food", Budget: new(decimal.NewFromInt(100))},
		{Name: "Misc"},
	}
	txs := []*transaction.Transaction{
		tx(transaction.TypeCompanyExpense, "250", day(2024, 3, 1), transaction.StatusOpen, "Rent"),
		tx(transaction.TypePartnerExpense, "130", day(2024, 3, 1), transaction.StatusOpen, "Food"),
	}

	got := report.Budgets(txs, cats)
	require.Len(t, got, 2)

	assert.Equal(t, "25.00", got[0].Percent.StringFixed(2))
	assert.False(t, got[0].OverBudget())

	assert.Equal(t, "100.00", got[1].Percent.StringFixed(2))
	assert.True(t, got[1].OverBudget())
	assert.Equal(t, "30.00", got[1].Over.StringFixed(2))
}

func TestNotifications(t *testing.T) {
	txs := []*transaction.Transaction{
		tx(transaction.TypeCompanyExpense, "1", day(2024, 3, 12), transaction.StatusOpen, ""),
		tx(transaction.TypeCompanyExpense, "2", day(2024, 3, 10), transaction.StatusOpen, ""),
		tx(transaction.TypePartnerExpense, "3", day(2024, 3, 1), transaction.StatusOverdue, ""),
		tx(transaction.TypeCompanyExpense, "4", day(2024, 3, 14), transaction.StatusOpen, ""),
		tx(transaction.TypeCompanyExpense, "5", day(2024, 3, 9), transaction.StatusPaid, ""),
		tx(transaction.TypeCompanyRevenue, "6", day(2024, 3, 9), transaction.StatusOpen, ""),
		tx(transaction.TypeCompanyExpense, "7", day(2024, 3, 13), transaction.StatusOpen, ""),
	}

	got := report.Notifications(txs, time.Date(2024, 3, 10, 22, 0, 0, 0, time.UTC))
	require.Len(t, got, 4)

	assert.Equal(t, report.UrgencyOverdue, got[0].Urgency)
	assert.Equal(t, -9, got[0].Days)
	assert.Equal(t, report.UrgencyToday, got[1].Urgency)
	assert.Equal(t, report.UrgencyUpcoming, got[2].Urgency)
	assert.Equal(t, 2, got[2].Days)
	assert.Equal(t, 3, got[3].Days)
}

func TestMargin(t *testing.T) {
	m := report.Margin([]*transaction.Transaction{
		tx(transaction.TypeCompanyRevenue, "1000", day(2024, 3, 1), transaction.StatusOpen, ""),
		tx(transaction.TypeCompanyExpense, "300", day(2024, 3, 1), transaction.StatusOpen, ""),
		tx(transaction.TypePartnerExpense, "200", day(2024, 3, 1), transaction.StatusOpen, ""),
	})
	assert.Equal(t, "500.00", m.Result.StringFixed(2))
	assert.Equal(t, "50.00", m.Percent.StringFixed(2))

	assert.True(t, report.Margin(nil).Percent.IsZero())
}

func TestCompanyLedger(t *testing.T) {
	txs := []*transaction.Transaction{
		tx(transaction.TypeCompanyExpense, "100", day(2024, 3, 5), transaction.StatusOpen, "Rent"),
		tx(transaction.TypePartnerExpense, "50", day(2024, 3, 20), transaction.StatusPaid, ""),
		tx(transaction.TypePartnerExpense, "70", day(2024, 3, 2), transaction.StatusPaid, ""),
		tx(transaction.TypePartnerExpense, "30", day(2024, 3, 8), transaction.StatusOpen, ""),
		tx(transaction.TypePartnerExpense, "10", day(2024, 4, 1), transaction.StatusPaid, ""),
		tx(transaction.TypeCompanyRevenue, "999", day(2024, 3, 1), transaction.StatusOpen, ""),
	}

	got := report.CompanyLedger(txs)
	require.Len(t, got, 4)

	assert.True(t, got[0].Summary)
	assert.Equal(t, "Partner Withdrawal (03/2024) - paid", got[0].Description)
	assert.Equal(t, day(2024, 3, 2), got[0].DueDate)
	assert.Equal(t, "120.00", got[0].Amount.StringFixed(2))
	assert.Equal(t, 2, got[0].Count)

	assert.False(t, got[1].Summary)
	assert.Equal(t, "Rent", got[1].Category)

	assert.Equal(t, "Partner Withdrawal (03/2024) - open", got[2].Description)
	assert.Equal(t, "Partner Withdrawal (04/2024) - paid", got[3].Description)
}
