package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type represents who a transaction belongs to and which direction money flows.
type Type string

const (
	TypeCompanyRevenue Type = "company_revenue"
	TypeCompanyExpense Type = "company_expense"
	TypePartnerExpense Type = "partner_expense"
)

func (t Type) Valid() bool {
	switch t {
	case TypeCompanyRevenue, TypeCompanyExpense, TypePartnerExpense:
		return true
	}

	return false
}

// IsExpense reports whether the type is one of the two expense types.
func (t Type) IsExpense() bool {
	return t == TypeCompanyExpense || t == TypePartnerExpense
}

// Status represents the payment state of a transaction.
type Status string

const (
	StatusOpen    Status = "open"
	StatusPaid    Status = "paid"
	StatusOverdue Status = "overdue"
)

func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusPaid, StatusOverdue:
		return true
	}

	return false
}

// Transaction represents a single receivable or payable.
type Transaction struct {
	ID          uuid.UUID
	Description string
	Amount      decimal.Decimal
	DueDate     time.Time
	Type        Type
	Status      Status
	CategoryID  *uuid.UUID
	Category    string // Label kept even after the category is deleted
	SeriesID    *uuid.UUID
	Attachment  string
	PaidAt      *time.Time
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// InSeries reports whether the transaction was generated as part of a recurrence.
func (t *Transaction) InSeries() bool {
	return t.SeriesID != nil
}
