package export

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/caixa/internal/report"
	"github.com/MrJamesThe3rd/caixa/internal/transaction"
)

const (
	transactionsSheet = "Transactions"
	summarySheet      = "Summary"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var header = []string{"Description", "Due date", "Amount", "Type", "Category", "Status", "Paid at", "Attachment"}

var typeLabels = map[transaction.Type]string{
	transaction.TypeCompanyRevenue: "Company revenue",
	transaction.TypeCompanyExpense: "Company expense",
	transaction.TypePartnerExpense: "Partner expense",
}

type Lister interface {
	List(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error)
}

// Service writes transactions to XLSX workbooks.
type Service struct {
	transactions Lister
}

func NewService(transactions Lister) *Service {
	return &Service{transactions: transactions}
}

// Export lists transactions matching filter and writes them as a workbook to w.
func (s *Service) Export(ctx context.Context, filter transaction.ListFilter, w io.Writer) (int, error) {
	txs, err := s.transactions.List(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("listing transactions: %w", err)
	}

	if err := Write(w, txs); err != nil {
		return 0, err
	}

	return len(txs), nil
}

// Filename names a download for the given moment.
func Filename(now time.Time) string {
	return fmt.Sprintf("transactions_%s.xlsx", now.Format("20060102_150405"))
}

// Write renders txs into a two-sheet workbook: one row per transaction, and the
// KPI totals.
func Write(w io.Writer, txs []*transaction.Transaction) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), transactionsSheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	if err := writeTransactions(f, txs); err != nil {
		return err
	}

	if err := writeSummary(f, report.Summarize(txs)); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}

	return nil
}

func writeTransactions(f *excelize.File, txs []*transaction.Transaction) error {
	if err := f.SetSheetRow(transactionsSheet, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	dateStyle, err := f.NewStyle(&excelize.Style{NumFmt: 14})
	if err != nil {
		return fmt.Errorf("creating date style: %w", err)
	}

	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return fmt.Errorf("creating money style: %w", err)
	}

	for i, tx := range txs {
		row := i + 2

		var paidAt any
		if tx.PaidAt != nil {
			paidAt = *tx.PaidAt
		}

		values := []any{
			tx.Description,
			tx.DueDate,
			tx.Amount.InexactFloat64(),
			typeLabels[tx.Type],
			tx.Category,
			string(tx.Status),
			paidAt,
			tx.Attachment,
		}

		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(transactionsSheet, cell, &values); err != nil {
			return fmt.Errorf("writing row %d: %w", row, err)
		}

		if tx.Attachment != "" {
			link := fmt.Sprintf("H%d", row)
			if err := f.SetCellHyperLink(transactionsSheet, link, tx.Attachment, "External"); err != nil {
				return fmt.Errorf("linking attachment on row %d: %w", row, err)
			}
		}
	}

	if len(txs) > 0 {
		last := len(txs) + 1

		if err := f.SetCellStyle(transactionsSheet, "B2", fmt.Sprintf("B%d", last), dateStyle); err != nil {
			return fmt.Errorf("styling dates: %w", err)
		}

		if err := f.SetCellStyle(transactionsSheet, "G2", fmt.Sprintf("G%d", last), dateStyle); err != nil {
			return fmt.Errorf("styling dates: %w", err)
		}

		if err := f.SetCellStyle(transactionsSheet, "C2", fmt.Sprintf("C%d", last), moneyStyle); err != nil {
			return fmt.Errorf("styling amounts: %w", err)
		}
	}

	return f.SetColWidth(transactionsSheet, "A", "A", 40)
}

func writeSummary(f *excelize.File, s report.Summary) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("creating summary sheet: %w", err)
	}

	lines := []struct {
		label string
		value decimal.Decimal
	}{
		{"Revenue", s.Revenue},
		{"Company expenses", s.Expenses},
		{"Partner withdrawals", s.PartnerWithdrawals},
		{"Balance", s.Balance},
		{"Received", s.Received},
		{"Receivable", s.Receivable},
		{"Paid", s.Paid},
		{"Payable", s.Payable},
		{"Overdue", s.Overdue},
	}

	for i, l := range lines {
		row := []any{l.label, l.value.Round(2).InexactFloat64()}

		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("writing summary: %w", err)
		}
	}

	return f.SetColWidth(summarySheet, "A", "A", 24)
}
