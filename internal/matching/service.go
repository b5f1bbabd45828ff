package matching

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/caixa/internal/transaction"
)

var ErrEmptyPattern = errors.New("pattern is required")

// Rule maps a fragment of a raw description to a category.
type Rule struct {
	ID         uuid.UUID
	Pattern    string
	CategoryID uuid.UUID
	Category   string
}

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=matching
type Repository interface {
	// FindRule returns the longest pattern contained in description, or nil.
	FindRule(ctx context.Context, description string) (*Rule, error)
	CreateRule(ctx context.Context, r *Rule) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Suggest finds a category for the given raw description. Returns nil if no rule matches.
func (s *Service) Suggest(ctx context.Context, description string) (*Rule, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, nil
	}

	return s.repo.FindRule(ctx, description)
}

// Learn remembers that descriptions containing pattern belong to categoryID.
func (s *Service) Learn(ctx context.Context, pattern string, categoryID uuid.UUID) (*Rule, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return nil, ErrEmptyPattern
	}

	r := &Rule{Pattern: pattern, CategoryID: categoryID}
	if err := s.repo.CreateRule(ctx, r); err != nil {
		return nil, err
	}

	return r, nil
}

// Apply fills in the category of rows that have none. Returns how many rows were matched.
func (s *Service) Apply(ctx context.Context, rows []transaction.CreateParams) (int, error) {
	matched := 0

	for i := range rows {
		if rows[i].CategoryID != nil || rows[i].Category != "" {
			continue
		}

		r, err := s.Suggest(ctx, rows[i].Description)
		if err != nil {
			return matched, fmt.Errorf("row %d: %w", i+1, err)
		}

		if r == nil {
			continue
		}

		rows[i].CategoryID = &r.CategoryID
		rows[i].Category = r.Category
		matched++
	}

	return matched, nil
}
