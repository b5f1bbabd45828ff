package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/caixa/internal/transaction"
)

// LedgerRow is a line in the company expense view. Summary rows stand in for a
// month of partner withdrawals sharing one status.
type LedgerRow struct {
	ID          string
	Description string
	Amount      decimal.Decimal
	DueDate     time.Time
	Status      transaction.Status
	Category    string
	Summary     bool
	Count       int
}

// CompanyLedger merges company expenses with one consolidated row per
// (month, status) of partner expenses, sorted by due date.
func CompanyLedger(txs []*transaction.Transaction) []LedgerRow {
	type groupKey struct {
		Year   int
		Month  time.Month
		Status transaction.Status
	}

	var rows []LedgerRow

	groups := make(map[groupKey]*LedgerRow)

	for _, tx := range txs {
		switch tx.Type {
		case transaction.TypeCompanyExpense:
			rows = append(rows, LedgerRow{
				ID:          tx.ID.String(),
				Description: tx.Description,
				Amount:      tx.Amount,
				DueDate:     tx.DueDate,
				Status:      tx.Status,
				Category:    tx.Category,
				Count:       1,
			})
		case transaction.TypePartnerExpense:
			k := groupKey{Year: tx.DueDate.Year(), Month: tx.DueDate.Month(), Status: tx.Status}

			g, ok := groups[k]
			if !ok {
				g = &LedgerRow{
					ID:          fmt.Sprintf("partner-%04d-%02d-%s", k.Year, k.Month, k.Status),
					Description: fmt.Sprintf("Partner Withdrawal (%02d/%04d) - %s", k.Month, k.Year, k.Status),
					DueDate:     tx.DueDate,
					Status:      tx.Status,
					Category:    "Partner",
					Summary:     true,
				}
				groups[k] = g
			}

			g.Amount = g.Amount.Add(tx.Amount)
			g.Count++

			if tx.DueDate.Before(g.DueDate) {
				g.DueDate = tx.DueDate
			}
		}
	}

	for _, g := range groups {
		rows = append(rows, *g)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].DueDate.Equal(rows[j].DueDate) {
			return rows[i].DueDate.Before(rows[j].DueDate)
		}

		return rows[i].ID < rows[j].ID
	})

	return rows
}
