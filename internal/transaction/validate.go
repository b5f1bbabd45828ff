package transaction

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

var minAmount = decimal.RequireFromString("0.01")

// MaxDescriptionLen is the column width of transactions.description, counted in
// characters.
const MaxDescriptionLen = 255

// DateOnly drops the clock and zone of t, keeping its calendar date in UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// normalize fills defaults and trims input before validation.
func (p *CreateParams) normalize() {
	p.Description = strings.TrimSpace(p.Description)
	p.Category = strings.TrimSpace(p.Category)

	if p.Status == "" {
		p.Status = StatusOpen
	}

	if !p.DueDate.IsZero() {
		p.DueDate = DateOnly(p.DueDate)
	}

	if p.Status == StatusPaid && p.PaidAt == nil {
		p.PaidAt = new(DateOnly(p.DueDate))
	}
}

func (p CreateParams) validate() error {
	if p.Description == "" {
		return invalid("description", "is required")
	}

	if err := checkDescription(p.Description); err != nil {
		return err
	}

	if p.Amount.LessThan(minAmount) {
		return invalid("amount", "must be at least 0.01")
	}

	if p.DueDate.IsZero() {
		return invalid("due_date", "is required")
	}

	if !p.Type.Valid() {
		return invalid("type", "unknown transaction type "+quote(string(p.Type)))
	}

	if !p.Status.Valid() {
		return invalid("status", "unknown status "+quote(string(p.Status)))
	}

	return nil
}

func (p UpdateParams) validate() error {
	if p.Description != nil && strings.TrimSpace(*p.Description) == "" {
		return invalid("description", "cannot be empty")
	}

	if p.Description != nil {
		if err := checkDescription(strings.TrimSpace(*p.Description)); err != nil {
			return err
		}
	}

	if p.Amount != nil && p.Amount.LessThan(minAmount) {
		return invalid("amount", "must be at least 0.01")
	}

	if p.Type != nil && !p.Type.Valid() {
		return invalid("type", "unknown transaction type "+quote(string(*p.Type)))
	}

	if p.DueDate != nil && p.DueDate.IsZero() {
		return invalid("due_date", "cannot be empty")
	}

	return nil
}

// validate also reserves room for the longest "(i/N)" suffix Expand appends.
func (p RecurringParams) validate() error {
	if err := p.CreateParams.validate(); err != nil {
		return err
	}

	limit := MaxDescriptionLen - utf8.RuneCountInString(installment(p.Count, p.Count))
	if utf8.RuneCountInString(p.Description) > limit {
		return invalid("description", fmt.Sprintf("must be at most %d characters for a %d-month series", limit, p.Count))
	}

	return nil
}

func checkDescription(desc string) error {
	if utf8.RuneCountInString(desc) > MaxDescriptionLen {
		return invalid("description", fmt.Sprintf("must be at most %d characters", MaxDescriptionLen))
	}

	return nil
}

func quote(s string) string {
	return `"` + s + `"`
}
