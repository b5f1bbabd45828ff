package respond

import (
	"fmt"
	"net/http"
	"time"

	"github.com/MrJamesThe3rd/caixa/internal/report"
)

// Date parses an optional YYYY-MM-DD value. Empty input yields nil.
func Date(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}

	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}

	return &t, nil
}

// Range reads start_date and end_date from the query string. Without a start
// the calendar month containing now is used; a start without an end covers a
// single day.
func Range(r *http.Request, now time.Time) (report.Range, error) {
	q := r.URL.Query()

	start, err := Date(q.Get("start_date"))
	if err != nil {
		return report.Range{}, err
	}

	end, err := Date(q.Get("end_date"))
	if err != nil {
		return report.Range{}, err
	}

	if start == nil {
		if end != nil {
			return report.Range{}, fmt.Errorf("end_date requires start_date")
		}

		return report.DefaultRange(now), nil
	}

	var to time.Time
	if end != nil {
		to = *end
	}

	rng := report.NewRange(*start, to)
	if rng.End.Before(rng.Start) {
		return report.Range{}, fmt.Errorf("end_date is before start_date")
	}

	return rng, nil
}
