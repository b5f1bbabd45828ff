package view

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/caixa/internal/category"
	"github.com/MrJamesThe3rd/caixa/internal/transaction"
)

// txFormInput holds the raw values bound to the new transaction form.
type txFormInput struct {
	Description string
	Amount      string
	DueDate     string
	Type        transaction.Type
	Status      transaction.Status
	CategoryID  string
	Repeat      string
}

func newTxFormInput(now time.Time) *txFormInput {
	return &txFormInput{
		DueDate: FormatDate(now),
		Type:    transaction.TypeCompanyExpense,
		Status:  transaction.StatusOpen,
		Repeat:  "1",
	}
}

func (in *txFormInput) form(cats []*category.Category) *huh.Form {
	catOptions := []huh.Option[string]{huh.NewOption("None", "")}
	for _, c := range cats {
		catOptions = append(catOptions, huh.NewOption(c.Name, c.ID.String()))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("description").
				Title("Description").
				Value(&in.Description).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("description cannot be empty")
					}

					return nil
				}),

			huh.NewInput().
				Key("amount").
				Title("Amount").
				Placeholder("1234,56").
				Value(&in.Amount).
				Validate(func(s string) error {
					_, err := parseAmount(s)
					return err
				}),

			huh.NewInput().
				Key("due_date").
				Title("Due date").
				Placeholder("DD/MM/YYYY").
				Value(&in.DueDate).
				Validate(func(s string) error {
					_, err := time.Parse("02/01/2006", strings.TrimSpace(s))
					if err != nil {
						return errors.New("use DD/MM/YYYY")
					}

					return nil
				}),
		),
		huh.NewGroup(
			huh.NewSelect[transaction.Type]().
				Key("type").
				Title("Type").
				Options(
					huh.NewOption("Company revenue", transaction.TypeCompanyRevenue),
					huh.NewOption("Company expense", transaction.TypeCompanyExpense),
					huh.NewOption("Partner withdrawal", transaction.TypePartnerExpense),
				).
				Value(&in.Type),

			huh.NewSelect[transaction.Status]().
				Key("status").
				Title("Status").
				Options(
					huh.NewOption("Open", transaction.StatusOpen),
					huh.NewOption("Paid", transaction.StatusPaid),
				).
				Value(&in.Status),

			huh.NewSelect[string]().
				Key("category").
				Title("Category").
				Options(catOptions...).
				Value(&in.CategoryID),

			huh.NewInput().
				Key("repeat").
				Title("Monthly occurrences").
				Description("1 for a one-off entry").
				Value(&in.Repeat).
				Validate(func(s string) error {
					_, err := parseRepeat(s)
					return err
				}),
		),
	).WithWidth(48).WithShowHelp(false)
}

// params converts the form values into create params plus the number of
// monthly occurrences requested.
func (in *txFormInput) params() (transaction.CreateParams, int, error) {
	amount, err := parseAmount(in.Amount)
	if err != nil {
		return transaction.CreateParams{}, 0, err
	}

	due, err := time.Parse("02/01/2006", strings.TrimSpace(in.DueDate))
	if err != nil {
		return transaction.CreateParams{}, 0, fmt.Errorf("invalid due date: %w", err)
	}

	count, err := parseRepeat(in.Repeat)
	if err != nil {
		return transaction.CreateParams{}, 0, err
	}

	p := transaction.CreateParams{
		Description: strings.TrimSpace(in.Description),
		Amount:      amount,
		DueDate:     due,
		Type:        in.Type,
		Status:      in.Status,
	}

	if in.CategoryID != "" {
		id, err := uuid.Parse(in.CategoryID)
		if err != nil {
			return transaction.CreateParams{}, 0, fmt.Errorf("invalid category: %w", err)
		}

		p.CategoryID = &id
	}

	return p, count, nil
}

// parseAmount accepts both "1234.56" and the Brazilian "1.234,56".
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "R$"))

	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errors.New("not a valid amount")
	}

	if !d.IsPositive() {
		return decimal.Zero, errors.New("amount must be greater than zero")
	}

	return d, nil
}

func parseRepeat(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > transaction.MaxOccurrences {
		return 0, fmt.Errorf("enter a number between 1 and %d", transaction.MaxOccurrences)
	}

	return n, nil
}
