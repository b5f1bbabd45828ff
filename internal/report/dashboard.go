package report

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/caixa/internal/category"
	"github.com/MrJamesThe3rd/caixa/internal/transaction"
)

const (
	Uncategorized = "Uncategorized"
	FallbackColor = "#94a3b8"

	// NoticeWindow is how many days ahead an unpaid bill starts showing up.
	NoticeWindow = 3
)

var hundred = decimal.NewFromInt(100)

// Summary holds the KPI card figures.
type Summary struct {
	Revenue            decimal.Decimal
	Expenses           decimal.Decimal
	PartnerWithdrawals decimal.Decimal
	Balance            decimal.Decimal

	Received   decimal.Decimal
	Receivable decimal.Decimal
	Paid       decimal.Decimal
	Payable    decimal.Decimal
	Overdue    decimal.Decimal
}

// Summarize computes KPI totals. Expenses and the balance cover company expenses
// only; partner withdrawals are reported on their own.
func Summarize(txs []*transaction.Transaction) Summary {
	var s Summary

	for _, tx := range txs {
		switch tx.Type {
		case transaction.TypeCompanyRevenue:
			s.Revenue = s.Revenue.Add(tx.Amount)

			if tx.Status == transaction.StatusPaid {
				s.Received = s.Received.Add(tx.Amount)
			} else {
				s.Receivable = s.Receivable.Add(tx.Amount)
			}
		case transaction.TypeCompanyExpense:
			s.Expenses = s.Expenses.Add(tx.Amount)

			if tx.Status == transaction.StatusPaid {
				s.Paid = s.Paid.Add(tx.Amount)
			} else {
				s.Payable = s.Payable.Add(tx.Amount)
			}
		case transaction.TypePartnerExpense:
			s.PartnerWithdrawals = s.PartnerWithdrawals.Add(tx.Amount)
		}

		if tx.Status == transaction.StatusOverdue {
			s.Overdue = s.Overdue.Add(tx.Amount)
		}
	}

	s.Balance = s.Revenue.Sub(s.Expenses)

	return s
}

// Slice is one wedge of the expense pie chart.
type Slice struct {
	Name  string
	Value decimal.Decimal
	Color string
}

// ByCategory groups both expense types by category label. Slices are sorted by
// value descending and sum to the total expense of txs.
func ByCategory(txs []*transaction.Transaction, cats []*category.Category) []Slice {
	colors := make(map[string]string, len(cats))
	for _, c := range cats {
		colors[c.Name] = c.Color
	}

	index := make(map[string]int)

	var slices []Slice

	for _, tx := range txs {
		if !tx.Type.IsExpense() {
			continue
		}

		name := strings.TrimSpace(tx.Category)
		if name == "" {
			name = Uncategorized
		}

		i, ok := index[name]
		if !ok {
			color, found := colors[name]
			if !found || color == "" {
				color = FallbackColor
			}

			i = len(slices)
			index[name] = i
			slices = append(slices, Slice{Name: name, Color: color})
		}

		slices[i].Value = slices[i].Value.Add(tx.Amount)
	}

	sort.SliceStable(slices, func(i, j int) bool {
		return slices[i].Value.GreaterThan(slices[j].Value)
	})

	return slices
}

type Granularity string

const (
	Daily   Granularity = "daily"
	Monthly Granularity = "monthly"
)

func (g Granularity) Valid() bool {
	return g == Daily || g == Monthly
}

// Longest cash-flow series a single report may build.
const (
	MaxDailyPoints   = 366
	MaxMonthlyPoints = 120
)

var ErrRangeTooLong = errors.New("date range too long")

// Points counts the cash-flow buckets r spans at granularity g.
func Points(r Range, g Granularity) int {
	if g == Monthly {
		return (r.End.Year()-r.Start.Year())*12 + int(r.End.Month()) - int(r.Start.Month()) + 1
	}

	// Sub saturates on very wide ranges, which still lands above the limit.
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// CheckSpan rejects ranges whose cash flow would exceed MaxDailyPoints or
// MaxMonthlyPoints.
func CheckSpan(r Range, g Granularity) error {
	limit, unit := MaxDailyPoints, "days"
	if g == Monthly {
		limit, unit = MaxMonthlyPoints, "months"
	}

	if Points(r, g) > limit {
		return fmt.Errorf("%w: %s granularity allows at most %d %s", ErrRangeTooLong, g, limit, unit)
	}

	return nil
}

// Point is one cash-flow bucket.
type Point struct {
	Date    time.Time
	Label   string
	Revenue decimal.Decimal
	Expense decimal.Decimal
}

// CashFlow buckets company revenue and company expense by day or month over the
// whole range. Empty buckets are included.
func CashFlow(txs []*transaction.Transaction, r Range, g Granularity) []Point {
	var points []Point

	bucket := func(t time.Time) time.Time {
		d := transaction.DateOnly(t)
		if g == Monthly {
			return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
		}

		return d
	}

	index := make(map[time.Time]int)

	for d := bucket(r.Start); !d.After(r.End); {
		index[d] = len(points)

		label := d.Format("02")
		if g == Monthly {
			label = d.Format("Jan 2006")
		}

		points = append(points, Point{Date: d, Label: label})

		if g == Monthly {
			d = d.AddDate(0, 1, 0)
		} else {
			d = d.AddDate(0, 0, 1)
		}
	}

	for _, tx := range txs {
		if !r.Contains(tx.DueDate) {
			continue
		}

		i, ok := index[bucket(tx.DueDate)]
		if !ok {
			continue
		}

		switch tx.Type {
		case transaction.TypeCompanyRevenue:
			points[i].Revenue = points[i].Revenue.Add(tx.Amount)
		case transaction.TypeCompanyExpense:
			points[i].Expense = points[i].Expense.Add(tx.Amount)
		}
	}

	return points
}

// BudgetStatus compares a category's spending with its monthly budget.
type BudgetStatus struct {
	Category string
	Color    string
	Budget   decimal.Decimal
	Spent    decimal.Decimal
	// Percent is clamped to 100.
	Percent decimal.Decimal
	Over    decimal.Decimal
}

func (b BudgetStatus) OverBudget() bool {
	return b.Over.IsPositive()
}

// Budgets reports spending against every category that has a positive budget.
func Budgets(txs []*transaction.Transaction, cats []*category.Category) []BudgetStatus {
	spent := make(map[string]decimal.Decimal)

	for _, tx := range txs {
		if tx.Type.IsExpense() {
			spent[tx.Category] = spent[tx.Category].Add(tx.Amount)
		}
	}

	var out []BudgetStatus

	for _, c := range cats {
		if !c.HasBudget() {
			continue
		}

		b := BudgetStatus{
			Category: c.Name,
			Color:    c.Color,
			Budget:   *c.Budget,
			Spent:    spent[c.Name],
		}

		b.Percent = decimal.Min(b.Spent.Div(b.Budget).Mul(hundred), hundred).Round(2)

		if b.Spent.GreaterThan(b.Budget) {
			b.Over = b.Spent.Sub(b.Budget)
		}

		out = append(out, b)
	}

	return out
}

type Urgency string

const (
	UrgencyOverdue  Urgency = "overdue"
	UrgencyToday    Urgency = "today"
	UrgencyUpcoming Urgency = "upcoming"
)

func (u Urgency) rank() int {
	switch u {
	case UrgencyOverdue:
		return 0
	case UrgencyToday:
		return 1
	}

	return 2
}

// Notice flags an unpaid bill that needs attention.
type Notice struct {
	TransactionID string
	Description   string
	Amount        decimal.Decimal
	DueDate       time.Time
	Urgency       Urgency
	// Days until due; negative once overdue.
	Days int
}

// Notifications lists unpaid expense bills that are overdue, due today, or due
// within NoticeWindow days of today, most urgent first.
func Notifications(txs []*transaction.Transaction, today time.Time) []Notice {
	today = transaction.DateOnly(today)

	var out []Notice

	for _, tx := range txs {
		if !tx.Type.IsExpense() || tx.Status == transaction.StatusPaid {
			continue
		}

		days := int(transaction.DateOnly(tx.DueDate).Sub(today).Hours() / 24)

		var u Urgency

		switch {
		case days < 0:
			u = UrgencyOverdue
		case days == 0:
			u = UrgencyToday
		case days <= NoticeWindow:
			u = UrgencyUpcoming
		default:
			continue
		}

		out = append(out, Notice{
			TransactionID: tx.ID.String(),
			Description:   tx.Description,
			Amount:        tx.Amount,
			DueDate:       tx.DueDate,
			Urgency:       u,
			Days:          days,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Urgency != out[j].Urgency {
			return out[i].Urgency.rank() < out[j].Urgency.rank()
		}

		return out[i].DueDate.Before(out[j].DueDate)
	})

	return out
}

// MarginCard is the simplified result shown on the dashboard.
type MarginCard struct {
	Revenue  decimal.Decimal
	Expenses decimal.Decimal
	Result   decimal.Decimal
	// Percent of revenue, zero when there is no revenue.
	Percent decimal.Decimal
}

// Margin subtracts both expense types from company revenue.
func Margin(txs []*transaction.Transaction) MarginCard {
	var m MarginCard

	for _, tx := range txs {
		switch {
		case tx.Type == transaction.TypeCompanyRevenue:
			m.Revenue = m.Revenue.Add(tx.Amount)
		case tx.Type.IsExpense():
			m.Expenses = m.Expenses.Add(tx.Amount)
		}
	}

	m.Result = m.Revenue.Sub(m.Expenses)
	m.Percent = percentOf(m.Result, m.Revenue)

	return m
}

// Dashboard bundles every widget for one period.
type Dashboard struct {
	Range         Range
	Summary       Summary
	Categories    []Slice
	CashFlow      []Point
	Budgets       []BudgetStatus
	Notifications []Notice
	Margin        MarginCard
}

// BuildDashboard filters txs to r and computes every widget. Notifications are
// computed over all of txs regardless of r.
func BuildDashboard(txs []*transaction.Transaction, cats []*category.Category, r Range, g Granularity, today time.Time) Dashboard {
	filtered := Filter(txs, r)

	return Dashboard{
		Range:         r,
		Summary:       Summarize(filtered),
		Categories:    ByCategory(filtered, cats),
		CashFlow:      CashFlow(filtered, r, g),
		Budgets:       Budgets(filtered, cats),
		Notifications: Notifications(txs, today),
		Margin:        Margin(filtered),
	}
}

func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}

	return part.Div(whole).Mul(hundred).Round(2)
}
