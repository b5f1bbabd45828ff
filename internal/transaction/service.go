package transaction

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/caixa/internal/category"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	UpdateTransaction(ctx context.Context, tx *Transaction) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status, paidAt *time.Time) error
	MarkOverdue(ctx context.Context, today time.Time) (int64, error)

	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)
	DeleteTransaction(ctx context.Context, id uuid.UUID) error
	DeleteTransactions(ctx context.Context, ids []uuid.UUID) (int64, error)

	BeginBatch(ctx context.Context, minDate, maxDate time.Time) (BatchTx, error)
}

// BatchTx groups multi-row writes into one database transaction.
type BatchTx interface {
	FindDuplicates(ctx context.Context, params []CreateParams) ([]*Transaction, error)
	CreateTransactions(ctx context.Context, txs []*Transaction) error
	UpdateTransactions(ctx context.Context, txs []*Transaction) error
	Commit() error
	Rollback() error
}

// Categories resolves a category id to its current name.
type Categories interface {
	Name(ctx context.Context, id uuid.UUID) (string, error)
}

type Service struct {
	repo       Repository
	categories Categories
}

func NewService(repo Repository, categories Categories) *Service {
	return &Service{repo: repo, categories: categories}
}

type CreateParams struct {
	Description string
	Amount      decimal.Decimal
	DueDate     time.Time
	Type        Type
	Status      Status
	CategoryID  *uuid.UUID
	Category    string
	SeriesID    *uuid.UUID
	Attachment  string
	PaidAt      *time.Time
}

// UpdateParams carries a partial edit. Nil fields are left untouched.
type UpdateParams struct {
	Description   *string
	Amount        *decimal.Decimal
	Type          *Type
	CategoryID    *uuid.UUID
	ClearCategory bool
	DueDate       *time.Time
	// ApplyToAll propagates every change except DueDate to the whole series.
	ApplyToAll bool
}

type ListFilter struct {
	Type      *Type
	Status    *Status
	StartDate *time.Time
	EndDate   *time.Time
	SeriesID  *uuid.UUID
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Transaction, error) {
	params.normalize()

	if err := s.resolveCategory(ctx, &params); err != nil {
		return nil, err
	}

	if err := params.validate(); err != nil {
		return nil, err
	}

	tx := newTransaction(params)
	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

// CreateRecurring expands the template into monthly occurrences and stores them atomically.
func (s *Service) CreateRecurring(ctx context.Context, params RecurringParams) ([]*Transaction, error) {
	params.normalize()

	if err := s.resolveCategory(ctx, &params.CreateParams); err != nil {
		return nil, err
	}

	if err := params.validate(); err != nil {
		return nil, err
	}

	occurrences, err := Expand(params)
	if err != nil {
		return nil, err
	}

	return s.createBatch(ctx, occurrences)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

// UpdateResult reports the edited record and how many rows the edit touched.
type UpdateResult struct {
	Transaction *Transaction
	Affected    int
}

// Update applies a partial edit to one transaction, or to its whole series when
// ApplyToAll is set. Due dates are never propagated across a series.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*UpdateResult, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	current, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	label, err := s.categoryLabel(ctx, params)
	if err != nil {
		return nil, err
	}

	if !params.ApplyToAll || !current.InSeries() {
		applyEdit(current, params, label)

		if err := checkDescription(current.Description); err != nil {
			return nil, err
		}

		if params.DueDate != nil {
			current.DueDate = DateOnly(*params.DueDate)
		}

		if err := s.repo.UpdateTransaction(ctx, current); err != nil {
			return nil, err
		}

		return &UpdateResult{Transaction: current, Affected: 1}, nil
	}

	series, err := s.repo.ListTransactions(ctx, ListFilter{SeriesID: current.SeriesID})
	if err != nil {
		return nil, fmt.Errorf("listing series: %w", err)
	}

	var edited *Transaction

	for _, member := range series {
		applyEdit(member, params, label)

		if err := checkDescription(member.Description); err != nil {
			return nil, err
		}

		if member.ID == id {
			if params.DueDate != nil {
				member.DueDate = DateOnly(*params.DueDate)
			}

			edited = member
		}
	}

	if edited == nil {
		return nil, ErrNotFound
	}

	minDate, maxDate := seriesRange(series)

	btx, err := s.repo.BeginBatch(ctx, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("begin series update: %w", err)
	}
	defer btx.Rollback()

	if err := btx.UpdateTransactions(ctx, series); err != nil {
		return nil, fmt.Errorf("update series: %w", err)
	}

	if err := btx.Commit(); err != nil {
		return nil, fmt.Errorf("commit series update: %w", err)
	}

	return &UpdateResult{Transaction: edited, Affected: len(series)}, nil
}

// UpdateStatus changes the payment state of a single transaction.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	if !status.Valid() {
		return invalid("status", "unknown status "+quote(string(status)))
	}

	var paidAt *time.Time
	if status == StatusPaid {
		paidAt = new(DateOnly(time.Now()))
	}

	return s.repo.UpdateStatus(ctx, id, status, paidAt)
}

// MarkOverdue flips open transactions due before today to overdue.
func (s *Service) MarkOverdue(ctx context.Context, today time.Time) (int64, error) {
	return s.repo.MarkOverdue(ctx, DateOnly(today))
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteTransaction(ctx, id)
}

func (s *Service) DeleteBatch(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, invalid("ids", "at least one id is required")
	}

	return s.repo.DeleteTransactions(ctx, ids)
}

type ImportResult struct {
	Imported  []*Transaction
	New       []CreateParams
	Conflicts []Conflict
}

type Conflict struct {
	Incoming CreateParams
	Existing *Transaction
}

// ImportBatch stores imported rows unless some of them look like rows already on
// file, in which case nothing is written and the caller gets the split back.
func (s *Service) ImportBatch(ctx context.Context, params []CreateParams) (*ImportResult, error) {
	if len(params) == 0 {
		return &ImportResult{}, nil
	}

	if err := s.prepare(ctx, params); err != nil {
		return nil, err
	}

	minDate, maxDate := dateRange(params)

	btx, err := s.repo.BeginBatch(ctx, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer btx.Rollback()

	duplicates, err := btx.FindDuplicates(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("find duplicates: %w", err)
	}

	lookup := make(map[dupKey]*Transaction, len(duplicates))
	for _, d := range duplicates {
		lookup[keyOf(d.DueDate, d.Amount, d.Type, d.Description)] = d
	}

	var newParams []CreateParams

	var conflicts []Conflict

	for _, p := range params {
		existing, found := lookup[keyOf(p.DueDate, p.Amount, p.Type, p.Description)]
		if found {
			conflicts = append(conflicts, Conflict{Incoming: p, Existing: existing})
			continue
		}

		newParams = append(newParams, p)
	}

	if len(conflicts) > 0 {
		return &ImportResult{New: newParams, Conflicts: conflicts}, nil
	}

	txs := paramsToTransactions(newParams)
	if err := btx.CreateTransactions(ctx, txs); err != nil {
		return nil, fmt.Errorf("create transactions: %w", err)
	}

	if err := btx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	return &ImportResult{Imported: txs}, nil
}

// CreateBatch stores rows without duplicate detection, e.g. after the user
// confirmed an import that had conflicts.
func (s *Service) CreateBatch(ctx context.Context, params []CreateParams) ([]*Transaction, error) {
	if len(params) == 0 {
		return nil, nil
	}

	if err := s.prepare(ctx, params); err != nil {
		return nil, err
	}

	return s.createBatch(ctx, params)
}

func (s *Service) createBatch(ctx context.Context, params []CreateParams) ([]*Transaction, error) {
	minDate, maxDate := dateRange(params)

	btx, err := s.repo.BeginBatch(ctx, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("begin batch: %w", err)
	}
	defer btx.Rollback()

	txs := paramsToTransactions(params)
	if err := btx.CreateTransactions(ctx, txs); err != nil {
		return nil, fmt.Errorf("create transactions: %w", err)
	}

	if err := btx.Commit(); err != nil {
		return nil, fmt.Errorf("commit batch: %w", err)
	}

	return txs, nil
}

// prepare normalizes and validates every row in place, reporting the first bad row.
func (s *Service) prepare(ctx context.Context, params []CreateParams) error {
	for i := range params {
		params[i].normalize()

		if err := s.resolveCategory(ctx, &params[i]); err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}

		if err := params[i].validate(); err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
	}

	return nil
}

func (s *Service) resolveCategory(ctx context.Context, p *CreateParams) error {
	if p.CategoryID == nil || p.Category != "" || s.categories == nil {
		return nil
	}

	name, err := s.categories.Name(ctx, *p.CategoryID)
	if err != nil {
		if errors.Is(err, category.ErrNotFound) {
			return invalid("category_id", "unknown category")
		}

		return fmt.Errorf("resolving category: %w", err)
	}

	p.Category = name

	return nil
}

// categoryLabel resolves the label an edit should write, or "" when the edit
// does not touch the category.
func (s *Service) categoryLabel(ctx context.Context, p UpdateParams) (string, error) {
	if p.CategoryID == nil {
		return "", nil
	}

	cp := CreateParams{CategoryID: p.CategoryID}
	if err := s.resolveCategory(ctx, &cp); err != nil {
		return "", err
	}

	return cp.Category, nil
}

var installmentRe = regexp.MustCompile(`\s\(\d+/\d+\)$`)

// applyEdit copies the shared fields of an edit onto tx. Series members keep
// their own "(i/N)" suffix when the description changes.
func applyEdit(tx *Transaction, p UpdateParams, label string) {
	if p.Description != nil {
		desc := strings.TrimSpace(*p.Description)
		if tx.InSeries() && !installmentRe.MatchString(desc) {
			desc += installmentRe.FindString(tx.Description)
		}

		tx.Description = desc
	}

	if p.Amount != nil {
		tx.Amount = *p.Amount
	}

	if p.Type != nil {
		tx.Type = *p.Type
	}

	switch {
	case p.ClearCategory:
		tx.CategoryID = nil
		tx.Category = ""
	case p.CategoryID != nil:
		tx.CategoryID = p.CategoryID
		tx.Category = label
	}
}

type dupKey struct {
	DueDate     string
	Amount      string
	Type        Type
	Description string
}

func keyOf(due time.Time, amount decimal.Decimal, t Type, desc string) dupKey {
	return dupKey{
		DueDate:     due.Format(time.DateOnly),
		Amount:      amount.StringFixed(2),
		Type:        t,
		Description: strings.ToLower(strings.TrimSpace(desc)),
	}
}

func dateRange(params []CreateParams) (time.Time, time.Time) {
	minDate := params[0].DueDate
	maxDate := params[0].DueDate

	for _, p := range params[1:] {
		if p.DueDate.Before(minDate) {
			minDate = p.DueDate
		}

		if p.DueDate.After(maxDate) {
			maxDate = p.DueDate
		}
	}

	return minDate, maxDate
}

func seriesRange(txs []*Transaction) (time.Time, time.Time) {
	minDate := txs[0].DueDate
	maxDate := txs[0].DueDate

	for _, t := range txs[1:] {
		if t.DueDate.Before(minDate) {
			minDate = t.DueDate
		}

		if t.DueDate.After(maxDate) {
			maxDate = t.DueDate
		}
	}

	return minDate, maxDate
}

func newTransaction(p CreateParams) *Transaction {
	return &Transaction{
		Description: p.Description,
		Amount:      p.Amount,
		DueDate:     p.DueDate,
		Type:        p.Type,
		Status:      p.Status,
		CategoryID:  p.CategoryID,
		Category:    p.Category,
		SeriesID:    p.SeriesID,
		Attachment:  p.Attachment,
		PaidAt:      p.PaidAt,
	}
}

func paramsToTransactions(params []CreateParams) []*Transaction {
	txs := make([]*Transaction, len(params))
	for i, p := range params {
		txs[i] = newTransaction(p)
	}

	return txs
}
