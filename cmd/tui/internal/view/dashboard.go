package view

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/caixa/internal/category"
	"github.com/MrJamesThe3rd/caixa/internal/report"
	"github.com/MrJamesThe3rd/caixa/internal/transaction"
)

const barWidth = 24

var (
	cardStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Width(22)
	sectionStyle = lipgloss.NewStyle().Bold(true).MarginTop(1)
	faint        = lipgloss.NewStyle().Faint(true)
	positive     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	negative     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warning      = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

type DashboardModel struct {
	CommonModel
	txService       *transaction.Service
	categoryService *category.Service
	tax             report.TaxConfig
	now             func() time.Time

	picker  PeriodPicker
	dash    report.Dashboard
	dre     report.DRE
	loading bool
	err     error
}

func NewDashboardModel(txSvc *transaction.Service, catSvc *category.Service, tax report.TaxConfig) DashboardModel {
	return DashboardModel{
		txService:       txSvc,
		categoryService: catSvc,
		tax:             tax,
		now:             time.Now,
		picker:          NewPeriodPicker(),
		loading:         true,
	}
}

func (m DashboardModel) Title() string { return "Dashboard" }

func (m DashboardModel) ShortHelp() string {
	if m.picker.Editing() {
		return "Enter: apply | Tab: switch | Esc: cancel"
	}

	return "Esc: back | ←/→: period | r: refresh"
}

func (m DashboardModel) Init() tea.Cmd {
	return m.loadCmd(m.picker.Range())
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		m.loading = false
		m.err = msg.err

		if msg.err == nil {
			m.dash = msg.dash
			m.dre = msg.dre
		}

		return m, nil

	case PeriodSelectedMsg:
		m.loading = true
		return m, m.loadCmd(msg.Range)

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		if !m.picker.Editing() {
			switch msg.String() {
			case "esc":
				return m, Back
			case "r":
				m.loading = true
				return m, m.loadCmd(m.picker.Range())
			}
		}
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	return m, cmd
}

type dashboardLoadedMsg struct {
	dash report.Dashboard
	dre  report.DRE
	err  error
}

func (m DashboardModel) loadCmd(r report.Range) tea.Cmd {
	txSvc, catSvc, tax, now := m.txService, m.categoryService, m.tax, m.now()

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		// Unfiltered so notifications can see bills outside the period.
		txs, err := txSvc.List(ctx, transaction.ListFilter{})
		if err != nil {
			return dashboardLoadedMsg{err: err}
		}

		cats, err := catSvc.List(ctx)
		if err != nil {
			return dashboardLoadedMsg{err: err}
		}

		return dashboardLoadedMsg{
			dash: report.BuildDashboard(txs, cats, r, granularityFor(r), now),
			dre:  report.ComputeDRE(txs, r, tax),
		}
	}
}

// granularityFor switches the cash flow to monthly points once the range spans
// more than two months.
func granularityFor(r report.Range) report.Granularity {
	if r.End.Sub(r.Start) > 62*24*time.Hour {
		return report.Monthly
	}

	return report.Daily
}

func (m DashboardModel) View() string {
	header := lipgloss.NewStyle().PaddingBottom(1).Render(m.picker.View())

	if m.loading {
		return lipgloss.NewStyle().Padding(1).Render(header + "\nLoading dashboard...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(header + "\n" + negative.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	left := lipgloss.JoinVertical(lipgloss.Left,
		m.kpiView(),
		m.categoriesView(),
		m.budgetsView(),
		m.cashFlowView(),
	)

	right := lipgloss.JoinVertical(lipgloss.Left,
		m.notificationsView(),
		m.dreView(),
	)

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, lipgloss.NewStyle().PaddingLeft(4).Render(right))

	return lipgloss.NewStyle().Padding(1).Render(header + "\n" + body)
}

func (m DashboardModel) kpiView() string {
	s := m.dash.Summary

	card := func(title string, v decimal.Decimal, style lipgloss.Style) string {
		return cardStyle.Render(faint.Render(title) + "\n" + style.Render(FormatAmount(v)))
	}

	balanceStyle := positive
	if s.Balance.IsNegative() {
		balanceStyle = negative
	}

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card("Revenue", s.Revenue, positive),
		card("Expenses", s.Expenses, negative),
		card("Partner Withdrawals", s.PartnerWithdrawals, warning),
		card("Balance", s.Balance, balanceStyle),
	)

	detail := faint.Render(fmt.Sprintf(
		"Received %s | Receivable %s | Paid %s | Payable %s | Overdue %s",
		FormatAmount(s.Received), FormatAmount(s.Receivable),
		FormatAmount(s.Paid), FormatAmount(s.Payable), FormatAmount(s.Overdue),
	))

	margin := fmt.Sprintf("Operating margin: %s (%s)", FormatAmount(m.dash.Margin.Result), FormatPercent(m.dash.Margin.Percent))

	return lipgloss.JoinVertical(lipgloss.Left, cards, detail, margin)
}

func (m DashboardModel) categoriesView() string {
	var b strings.Builder

	b.WriteString(sectionStyle.Render("Expenses by category"))
	b.WriteString("\n")

	if len(m.dash.Categories) == 0 {
		b.WriteString(faint.Render("No expenses in this period."))
		return b.String()
	}

	top := m.dash.Categories[0].Value
	for _, c := range m.dash.Categories {
		if c.Value.GreaterThan(top) {
			top = c.Value
		}
	}

	for _, c := range m.dash.Categories {
		fmt.Fprintf(&b, "%-18s %s %s\n",
			truncate(c.Name, 18),
			lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color)).Render(bar(c.Value, top, barWidth)),
			FormatAmount(c.Value),
		)
	}

	return b.String()
}

func (m DashboardModel) budgetsView() string {
	if len(m.dash.Budgets) == 0 {
		return ""
	}

	var b strings.Builder

	b.WriteString(sectionStyle.Render("Budgets"))
	b.WriteString("\n")

	for _, bs := range m.dash.Budgets {
		style := positive
		note := ""

		if bs.OverBudget() {
			style = negative
			note = negative.Render(" over by " + FormatAmount(bs.Over))
		}

		fmt.Fprintf(&b, "%-18s %s %s / %s%s\n",
			truncate(bs.Category, 18),
			style.Render(bar(bs.Percent, decimal.NewFromInt(100), barWidth)),
			FormatAmount(bs.Spent),
			FormatAmount(bs.Budget),
			note,
		)
	}

	return b.String()
}

func (m DashboardModel) cashFlowView() string {
	var b strings.Builder

	b.WriteString(sectionStyle.Render("Cash flow"))
	b.WriteString("\n")

	points := m.dash.CashFlow
	if len(points) > 12 {
		points = points[len(points)-12:]
	}

	top := decimal.Zero
	for _, p := range points {
		top = decimal.Max(top, p.Revenue, p.Expense)
	}

	for _, p := range points {
		if p.Revenue.IsZero() && p.Expense.IsZero() {
			continue
		}

		fmt.Fprintf(&b, "%-8s %s %s\n", p.Label,
			positive.Render(bar(p.Revenue, top, barWidth/2)),
			negative.Render(bar(p.Expense, top, barWidth/2)),
		)
	}

	return b.String()
}

func (m DashboardModel) notificationsView() string {
	var b strings.Builder

	b.WriteString(sectionStyle.Render("Due soon"))
	b.WriteString("\n")

	if len(m.dash.Notifications) == 0 {
		b.WriteString(faint.Render("Nothing due."))
		return b.String()
	}

	for _, n := range m.dash.Notifications {
		var label string

		switch n.Urgency {
		case report.UrgencyOverdue:
			label = negative.Render(fmt.Sprintf("%d day(s) late", -n.Days))
		case report.UrgencyToday:
			label = warning.Render("today")
		default:
			label = faint.Render(fmt.Sprintf("in %d day(s)", n.Days))
		}

		fmt.Fprintf(&b, "%s  %-24s %s  %s\n", FormatDate(n.DueDate), truncate(n.Description, 24), FormatAmount(n.Amount), label)
	}

	return b.String()
}

func (m DashboardModel) dreView() string {
	d := m.dre

	rows := []struct {
		label string
		line  report.Line
	}{
		{"Gross revenue", d.GrossRevenue},
		{fmt.Sprintf("(-) Taxes %s", FormatPercent(d.SalesTaxRate)), d.TaxDeduction},
		{"Net revenue", d.NetRevenue},
		{"(-) Operating expenses", d.OperatingExpenses},
		{"Operating result", d.OperatingResult},
		{"(-) IRPJ/CSLL", d.IncomeTax},
		{"Net result", d.NetResult},
		{"Partner withdrawals", d.PartnerWithdrawals},
	}

	var b strings.Builder

	b.WriteString(sectionStyle.Render(fmt.Sprintf("DRE (%s)", d.Regime)))
	b.WriteString("\n")

	for _, r := range rows {
		fmt.Fprintf(&b, "%-26s %16s %8s\n", r.label, FormatAmount(r.line.Value), FormatPercent(r.line.Percent))
	}

	return b.String()
}

// bar draws v as a horizontal bar scaled so that top fills width cells.
func bar(v, top decimal.Decimal, width int) string {
	if !top.IsPositive() || !v.IsPositive() {
		return strings.Repeat(" ", width)
	}

	n := int(v.Mul(decimal.NewFromInt(int64(width))).Div(top).Round(0).IntPart())
	n = max(1, min(n, width))

	return strings.Repeat("█", n) + strings.Repeat(" ", width-n)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}

	return string(r[:n-1]) + "…"
}
