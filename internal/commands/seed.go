package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/caixa/internal/category"
	"github.com/MrJamesThe3rd/caixa/internal/transaction"
)

type seedTransaction struct {
	Description string
	Amount      string
	Day         int
	Type        transaction.Type
	Status      transaction.Status
	Category    string
}

var seedCategories = []category.CreateParams{
	{Name: "Alimentação", Color: "#FF6B6B"},
	{Name: "Transporte", Color: "#4ECDC4"},
	{Name: "Energia", Color: "#FFE66D"},
	{Name: "Serviços", Color: "#A8E6CF"},
}

var seedTransactions = []seedTransaction{
	{"Venda de Produtos", "5000", 5, transaction.TypeCompanyRevenue, transaction.StatusPaid, "Alimentação"},
	{"Aluguel do Escritório", "1500", 10, transaction.TypeCompanyExpense, transaction.StatusPaid, "Transporte"},
	{"Compra de Materiais", "800", 15, transaction.TypeCompanyExpense, transaction.StatusOpen, "Energia"},
	{"Salário do Funcionário", "3000", 20, transaction.TypeCompanyExpense, transaction.StatusOpen, "Serviços"},
	{"Retirada Pessoal - Sócio", "2000", 8, transaction.TypePartnerExpense, transaction.StatusPaid, "Alimentação"},
	{"Venda de Serviços", "3500", 25, transaction.TypeCompanyRevenue, transaction.StatusOpen, "Serviços"},
	{"Servidor VPS", "150", 10, transaction.TypeCompanyExpense, transaction.StatusPaid, ""},
	{"Licença Software", "299.90", 15, transaction.TypeCompanyExpense, transaction.StatusOpen, ""},
	{"Uber Pessoal", "100", 12, transaction.TypePartnerExpense, transaction.StatusPaid, ""},
	{"Almoço Domingo", "50", 12, transaction.TypePartnerExpense, transaction.StatusPaid, ""},
}

// seedParams places the sample transactions inside month, linking them to the
// given categories by name.
func seedParams(month time.Time, cats map[string]*category.Category) []transaction.CreateParams {
	y, m, _ := month.Date()

	out := make([]transaction.CreateParams, 0, len(seedTransactions))
	for _, s := range seedTransactions {
		p := transaction.CreateParams{
			Description: s.Description,
			Amount:      decimal.RequireFromString(s.Amount),
			DueDate:     time.Date(y, m, s.Day, 0, 0, 0, 0, time.UTC),
			Type:        s.Type,
			Status:      s.Status,
		}

		if c, ok := cats[s.Category]; ok {
			p.CategoryID = &c.ID
			p.Category = c.Name
		}

		out = append(out, p)
	}

	return out
}

func newSeedCommand() *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate sample categories and transactions for one month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			target := time.Now()
			if month != "" {
				t, err := time.Parse("2006-01", month)
				if err != nil {
					return fmt.Errorf("invalid --month %q, expected YYYY-MM", month)
				}

				target = t
			}

			rt, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			cats, err := ensureCategories(cmd.Context(), rt.svc.Categories)
			if err != nil {
				return err
			}

			txs, err := rt.svc.Transactions.CreateBatch(cmd.Context(), seedParams(target, cats))
			if err != nil {
				return fmt.Errorf("creating transactions: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d categories and %d transactions for %s\n",
				len(cats), len(txs), target.Format("01/2006"))

			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month to fill, as YYYY-MM (default current month)")

	return cmd
}

// ensureCategories creates the sample categories that don't exist yet.
func ensureCategories(ctx context.Context, svc *category.Service) (map[string]*category.Category, error) {
	existing, err := svc.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}

	byName := make(map[string]*category.Category, len(existing))
	for _, c := range existing {
		byName[strings.ToLower(c.Name)] = c
	}

	out := make(map[string]*category.Category, len(seedCategories))

	for _, p := range seedCategories {
		if c, ok := byName[strings.ToLower(p.Name)]; ok {
			out[p.Name] = c
			continue
		}

		c, err := svc.Create(ctx, p)
		if err != nil && !errors.Is(err, category.ErrNameTaken) {
			return nil, fmt.Errorf("creating category %s: %w", p.Name, err)
		}

		if c != nil {
			out[p.Name] = c
		}
	}

	return out, nil
}
