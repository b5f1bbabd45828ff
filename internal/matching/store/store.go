package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrJamesThe3rd/caixa/internal/category"
	"github.com/MrJamesThe3rd/caixa/internal/matching"
)

const foreignKeyViolation = "23503"

// findRuleQuery matches patterns as literal substrings, so % and _ carry no
// wildcard meaning.
const findRuleQuery = `
	SELECT r.id, r.pattern, r.category_id, c.name
	FROM category_rules r
	JOIN categories c ON c.id = r.category_id
	WHERE POSITION(LOWER(r.pattern) IN LOWER($1)) > 0
	ORDER BY LENGTH(r.pattern) DESC, r.created_at DESC
	LIMIT 1
`

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FindRule(ctx context.Context, description string) (*matching.Rule, error) {
	var r matching.Rule

	err := s.db.QueryRowContext(ctx, findRuleQuery, description).Scan(&r.ID, &r.Pattern, &r.CategoryID, &r.Category)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("finding rule: %w", err)
	}

	return &r, nil
}

func (s *Store) CreateRule(ctx context.Context, r *matching.Rule) error {
	query := `
		WITH inserted AS (
			INSERT INTO category_rules (pattern, category_id, created_at)
			VALUES ($1, $2, NOW())
			ON CONFLICT ((LOWER(pattern))) DO UPDATE SET category_id = EXCLUDED.category_id
			RETURNING id, category_id
		)
		SELECT i.id, c.name FROM inserted i JOIN categories c ON c.id = i.category_id
	`

	if err := s.db.QueryRowContext(ctx, query, r.Pattern, r.CategoryID).Scan(&r.ID, &r.Category); err != nil {
		if isForeignKeyViolation(err) {
			return category.ErrNotFound
		}

		return fmt.Errorf("creating rule: %w", err)
	}

	return nil
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation
}
