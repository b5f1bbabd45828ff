package transaction

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	MinOccurrences = 2
	MaxOccurrences = 120
)

// RecurringParams describes a template that is expanded into monthly occurrences.
type RecurringParams struct {
	CreateParams
	Count int
}

// Expand turns a recurring template into Count monthly occurrences sharing a fresh
// series id. Only the first occurrence keeps the requested status; the rest start open.
func Expand(p RecurringParams) ([]CreateParams, error) {
	if p.Count < MinOccurrences || p.Count > MaxOccurrences {
		return nil, invalid("count", fmt.Sprintf("must be between %d and %d, got %d", MinOccurrences, MaxOccurrences, p.Count))
	}

	seriesID := uuid.New()
	out := make([]CreateParams, p.Count)

	for i := range p.Count {
		occ := p.CreateParams
		occ.Description = p.Description + installment(i+1, p.Count)
		occ.DueDate = AddMonths(p.DueDate, i)
		occ.SeriesID = &seriesID

		if i > 0 {
			occ.Status = StatusOpen
			occ.PaidAt = nil
		}

		out[i] = occ
	}

	return out, nil
}

func installment(i, n int) string {
	return fmt.Sprintf(" (%d/%d)", i, n)
}

// AddMonths moves t forward by n calendar months keeping the day of month.
// When the target month is shorter the day is clamped to its last day,
// so Jan 31 + 1 month is Feb 28 (or 29) rather than early March.
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()

	first := time.Date(y, m+time.Month(n), 1, hh, mm, ss, t.Nanosecond(), t.Location())
	if last := daysIn(first.Year(), first.Month(), t.Location()); d > last {
		d = last
	}

	return time.Date(first.Year(), first.Month(), d, hh, mm, ss, t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}
