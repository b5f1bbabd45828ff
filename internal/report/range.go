package report

import (
	"time"

	"github.com/MrJamesThe3rd/caixa/internal/transaction"
)

// Range is an inclusive span of calendar days.
type Range struct {
	Start time.Time
	End   time.Time
}

// NewRange builds a range from two dates, dropping their clock. A zero end means
// a single-day range.
func NewRange(start, end time.Time) Range {
	start = transaction.DateOnly(start)
	if end.IsZero() {
		return Range{Start: start, End: start}
	}

	return Range{Start: start, End: transaction.DateOnly(end)}
}

// DefaultRange is the calendar month containing now.
func DefaultRange(now time.Time) Range {
	y, m, _ := now.Date()
	start := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)

	return Range{Start: start, End: start.AddDate(0, 1, -1)}
}

func (r Range) Contains(t time.Time) bool {
	d := transaction.DateOnly(t)
	return !d.Before(r.Start) && !d.After(r.End)
}

// Filter returns the transactions whose due date falls inside r.
func Filter(txs []*transaction.Transaction, r Range) []*transaction.Transaction {
	out := make([]*transaction.Transaction, 0, len(txs))

	for _, tx := range txs {
		if r.Contains(tx.DueDate) {
			out = append(out, tx)
		}
	}

	return out
}
