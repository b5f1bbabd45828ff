package category

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound  = errors.New("category not found")
	ErrNameTaken = errors.New("category name already exists")
)

// Scope tells whether a category tracks company or partner spending.
type Scope string

const (
	ScopeCompany Scope = "company"
	ScopePartner Scope = "partner"
)

func (s Scope) Valid() bool {
	return s == ScopeCompany || s == ScopePartner
}

const DefaultColor = "#64748b"

// Category groups transactions for budgeting and reporting.
type Category struct {
	ID        uuid.UUID
	Name      string
	Color     string
	Budget    *decimal.Decimal // Monthly, nil when no budget is set
	Scope     Scope
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// HasBudget reports whether a positive monthly budget is configured.
func (c *Category) HasBudget() bool {
	return c.Budget != nil && c.Budget.IsPositive()
}
