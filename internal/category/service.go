package category

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=category
type Repository interface {
	CreateCategory(ctx context.Context, c *Category) error
	GetCategory(ctx context.Context, id uuid.UUID) (*Category, error)
	ListCategories(ctx context.Context) ([]*Category, error)
	UpdateCategory(ctx context.Context, c *Category) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Name   string
	Color  string
	Budget *decimal.Decimal
	Scope  Scope
}

type UpdateParams struct {
	Name   *string
	Color  *string
	Budget *decimal.Decimal
	Scope  *Scope
}

var colorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// InvalidError describes a rejected field.
type InvalidError struct {
	Field  string
	Reason string
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Category, error) {
	c := &Category{
		Name:   strings.TrimSpace(params.Name),
		Color:  params.Color,
		Budget: params.Budget,
		Scope:  params.Scope,
	}

	if c.Color == "" {
		c.Color = DefaultColor
	}

	if c.Scope == "" {
		c.Scope = ScopeCompany
	}

	if c.Budget != nil && c.Budget.IsZero() {
		c.Budget = nil
	}

	if err := validate(c); err != nil {
		return nil, err
	}

	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

// List returns every category ordered by name.
func (s *Service) List(ctx context.Context) ([]*Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Category, error) {
	return s.repo.GetCategory(ctx, id)
}

// Name returns the current name of the category.
func (s *Service) Name(ctx context.Context, id uuid.UUID) (string, error) {
	c, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return "", err
	}

	return c.Name, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Category, error) {
	c, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		c.Name = strings.TrimSpace(*params.Name)
	}

	if params.Color != nil {
		c.Color = *params.Color
	}

	if params.Budget != nil {
		// A zero budget clears it.
		c.Budget = params.Budget
		if params.Budget.IsZero() {
			c.Budget = nil
		}
	}

	if params.Scope != nil {
		c.Scope = *params.Scope
	}

	if err := validate(c); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateCategory(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

// Delete removes the category. Transactions keep their category label.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteCategory(ctx, id)
}

func validate(c *Category) error {
	if c.Name == "" {
		return &InvalidError{Field: "name", Reason: "is required"}
	}

	if !colorRe.MatchString(c.Color) {
		return &InvalidError{Field: "color", Reason: "must be a #rrggbb hex color"}
	}

	if c.Budget != nil && c.Budget.IsNegative() {
		return &InvalidError{Field: "budget", Reason: "cannot be negative"}
	}

	if !c.Scope.Valid() {
		return &InvalidError{Field: "scope", Reason: "must be company or partner"}
	}

	return nil
}
