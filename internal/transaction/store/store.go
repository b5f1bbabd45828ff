package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/caixa/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// scanTransaction reads a transaction row from the scanner.
// Expected column order: id, description, amount, due_date, type, status, category_id,
// category, series_id, attachment_url, paid_at, created_at, updated_at
func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var tx transaction.Transaction

	var typeStr, statusStr string

	var label, attachment sql.NullString

	if err := s.Scan(
		&tx.ID, &tx.Description, &tx.Amount, &tx.DueDate, &typeStr, &statusStr,
		&tx.CategoryID, &label, &tx.SeriesID, &attachment, &tx.PaidAt,
		&tx.CreatedAt, &tx.UpdatedAt,
	); err != nil {
		return nil, err
	}

	tx.Type = transaction.Type(typeStr)
	tx.Status = transaction.Status(statusStr)
	tx.Category = label.String
	tx.Attachment = attachment.String
	tx.DueDate = transaction.DateOnly(tx.DueDate)

	return &tx, nil
}

const selectTransactionColumns = `
	t.id, t.description, t.amount, t.due_date, t.type, t.status, t.category_id,
	t.category, t.series_id, t.attachment_url, t.paid_at, t.created_at, t.updated_at
`

const insertTransaction = `
	INSERT INTO transactions (description, amount, due_date, type, status, category_id, category, series_id, attachment_url, paid_at, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
	RETURNING id, created_at, updated_at
`

func insert(ctx context.Context, q queryer, tx *transaction.Transaction) error {
	return q.QueryRowContext(ctx, insertTransaction,
		tx.Description,
		tx.Amount,
		tx.DueDate,
		tx.Type,
		tx.Status,
		tx.CategoryID,
		nullString(tx.Category),
		tx.SeriesID,
		nullString(tx.Attachment),
		tx.PaidAt,
	).Scan(&tx.ID, &tx.CreatedAt, &tx.UpdatedAt)
}

const updateTransaction = `
	UPDATE transactions
	SET description = $1, amount = $2, due_date = $3, type = $4, category_id = $5, category = $6,
		attachment_url = $7, updated_at = NOW()
	WHERE id = $8 AND deleted_at IS NULL
	RETURNING updated_at
`

func update(ctx context.Context, q queryer, tx *transaction.Transaction) error {
	err := q.QueryRowContext(ctx, updateTransaction,
		tx.Description,
		tx.Amount,
		tx.DueDate,
		tx.Type,
		tx.CategoryID,
		nullString(tx.Category),
		nullString(tx.Attachment),
		tx.ID,
	).Scan(&tx.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return transaction.ErrNotFound
	}

	return err
}

func (s *Store) CreateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	if err := insert(ctx, s.db, tx); err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}

	return nil
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		WHERE t.id = $1 AND t.deleted_at IS NULL`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return tx, nil
}

func (s *Store) ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		WHERE t.deleted_at IS NULL`

	var args []any

	argIdx := 1

	if filter.Type != nil {
		query += fmt.Sprintf(" AND t.type = $%d", argIdx)

		args = append(args, *filter.Type)
		argIdx++
	}

	if filter.Status != nil {
		query += fmt.Sprintf(" AND t.status = $%d", argIdx)

		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND t.due_date >= $%d", argIdx)

		args = append(args, transaction.DateOnly(*filter.StartDate))
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND t.due_date <= $%d", argIdx)

		args = append(args, transaction.DateOnly(*filter.EndDate))
		argIdx++
	}

	if filter.SeriesID != nil {
		query += fmt.Sprintf(" AND t.series_id = $%d", argIdx)

		args = append(args, *filter.SeriesID)
	}

	query += " ORDER BY t.due_date ASC, t.created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transactions: %w", err)
	}

	return txs, nil
}

func (s *Store) UpdateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	if err := update(ctx, s.db, tx); err != nil {
		if errors.Is(err, transaction.ErrNotFound) {
			return err
		}

		return fmt.Errorf("updating transaction: %w", err)
	}

	return nil
}

func (s *Store) UpdateStatus(ctx context.Context, id uuid.UUID, status transaction.Status, paidAt *time.Time) error {
	query := `
		UPDATE transactions
		SET status = $1, paid_at = $2, updated_at = NOW()
		WHERE id = $3 AND deleted_at IS NULL
	`

	res, err := s.db.ExecContext(ctx, query, status, paidAt, id)
	if err != nil {
		return fmt.Errorf("updating status: %w", err)
	}

	return expectRows(res)
}

func (s *Store) MarkOverdue(ctx context.Context, today time.Time) (int64, error) {
	query := `
		UPDATE transactions
		SET status = 'overdue', updated_at = NOW()
		WHERE status = 'open' AND due_date < $1 AND deleted_at IS NULL
	`

	res, err := s.db.ExecContext(ctx, query, today)
	if err != nil {
		return 0, fmt.Errorf("marking overdue: %w", err)
	}

	return res.RowsAffected()
}

func (s *Store) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE transactions
		SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	return expectRows(res)
}

func (s *Store) DeleteTransactions(ctx context.Context, ids []uuid.UUID) (int64, error) {
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))

	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := `
		UPDATE transactions
		SET deleted_at = NOW()
		WHERE deleted_at IS NULL AND id IN (` + strings.Join(placeholders, ", ") + `)`

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("deleting transactions: %w", err)
	}

	return res.RowsAffected()
}

func batchLockKey(minDate, maxDate time.Time) int64 {
	h := fnv.New64a()
	h.Write([]byte(minDate.Format(time.DateOnly)))
	h.Write([]byte{0})
	h.Write([]byte(maxDate.Format(time.DateOnly)))

	return int64(h.Sum64())
}

type batchTx struct {
	tx *sql.Tx
}

// BeginBatch opens a transaction holding an advisory lock on the date range so
// concurrent imports over the same period cannot both pass duplicate detection.
func (s *Store) BeginBatch(ctx context.Context, minDate, maxDate time.Time) (transaction.BatchTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning batch tx: %w", err)
	}

	lockKey := batchLockKey(minDate, maxDate)
	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", lockKey); err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("acquiring batch lock: %w", err)
	}

	return &batchTx{tx: dbTx}, nil
}

func (b *batchTx) Commit() error   { return b.tx.Commit() }
func (b *batchTx) Rollback() error { return b.tx.Rollback() }

func (b *batchTx) FindDuplicates(ctx context.Context, params []transaction.CreateParams) ([]*transaction.Transaction, error) {
	if len(params) == 0 {
		return nil, nil
	}

	type lookupKey struct {
		DueDate     string
		Amount      string
		Type        transaction.Type
		Description string
	}

	minDate := params[0].DueDate
	maxDate := params[0].DueDate
	keySet := make(map[lookupKey]struct{}, len(params))

	for _, p := range params {
		if p.DueDate.Before(minDate) {
			minDate = p.DueDate
		}

		if p.DueDate.After(maxDate) {
			maxDate = p.DueDate
		}

		keySet[lookupKey{
			DueDate:     p.DueDate.Format(time.DateOnly),
			Amount:      p.Amount.StringFixed(2),
			Type:        p.Type,
			Description: strings.ToLower(p.Description),
		}] = struct{}{}
	}

	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		WHERE t.deleted_at IS NULL AND t.due_date >= $1 AND t.due_date <= $2
		ORDER BY t.due_date ASC`

	rows, err := b.tx.QueryContext(ctx, query, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("finding duplicates: %w", err)
	}
	defer rows.Close()

	var duplicates []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		k := lookupKey{
			DueDate:     tx.DueDate.Format(time.DateOnly),
			Amount:      tx.Amount.StringFixed(2),
			Type:        tx.Type,
			Description: strings.ToLower(tx.Description),
		}

		if _, found := keySet[k]; !found {
			continue
		}

		duplicates = append(duplicates, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating duplicate rows: %w", err)
	}

	return duplicates, nil
}

func (b *batchTx) CreateTransactions(ctx context.Context, txs []*transaction.Transaction) error {
	for _, tx := range txs {
		if err := insert(ctx, b.tx, tx); err != nil {
			return fmt.Errorf("creating transaction: %w", err)
		}
	}

	return nil
}

func (b *batchTx) UpdateTransactions(ctx context.Context, txs []*transaction.Transaction) error {
	for _, tx := range txs {
		if err := update(ctx, b.tx, tx); err != nil {
			return fmt.Errorf("updating transaction %s: %w", tx.ID, err)
		}
	}

	return nil
}

func expectRows(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return transaction.ErrNotFound
	}

	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
