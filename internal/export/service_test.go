package export

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/caixa/internal/transaction"
)

type listerFunc func(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error)

func (f listerFunc) List(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	return f(ctx, filter)
}

func sampleTransactions() []*transaction.Transaction {
	paid := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	return []*transaction.Transaction{
		{
			ID:          uuid.New(),
			Description: "Consulting",
			Amount:      decimal.NewFromInt(10000),
			DueDate:     time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
			Type:        transaction.TypeCompanyRevenue,
			Status:      transaction.StatusPaid,
			PaidAt:      &paid,
			Attachment:  "https://files.example.com/nf-123.pdf",
		},
		{
			ID:          uuid.New(),
			Description: "Office rent",
			Amount:      decimal.RequireFromString("2500.50"),
			DueDate:     time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
			Type:        transaction.TypeCompanyExpense,
			Status:      transaction.StatusOpen,
			Category:    "Rent",
		},
	}
}

func TestService_Export(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	var gotFilter transaction.ListFilter

	svc := NewService(listerFunc(func(_ context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
		gotFilter = filter
		return sampleTransactions(), nil
	}))

	var buf bytes.Buffer

	n, err := svc.Export(context.Background(), transaction.ListFilter{StartDate: &start}, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, &start, gotFilter.StartDate)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)

	defer f.Close()

	assert.Equal(t, []string{transactionsSheet, summarySheet}, f.GetSheetList())

	rows, err := f.GetRows(transactionsSheet, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, header, rows[0])
	assert.Equal(t, "Consulting", rows[1][0])
	assert.Equal(t, "10000", rows[1][2])
	assert.Equal(t, "Company revenue", rows[1][3])
	assert.Equal(t, "paid", rows[1][5])
	assert.Equal(t, "Rent", rows[2][4])
	assert.Equal(t, "2500.5", rows[2][2])

	ok, target, err := f.GetCellHyperLink(transactionsSheet, "H2")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "https://files.example.com/nf-123.pdf", target)

	balance, err := f.GetCellValue(summarySheet, "B4", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "7499.5", balance)
}

func TestService_Export_ListError(t *testing.T) {
	svc := NewService(listerFunc(func(context.Context, transaction.ListFilter) ([]*transaction.Transaction, error) {
		return nil, errors.New("db error")
	}))

	var buf bytes.Buffer

	_, err := svc.Export(context.Background(), transaction.ListFilter{}, &buf)
	assert.Error(t, err)
	assert.Zero(t, buf.Len())
}

func TestWrite_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)

	defer f.Close()

	rows, err := f.GetRows(transactionsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "transactions_20240305_143000.xlsx", Filename(time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)))
}
