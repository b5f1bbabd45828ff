package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/caixa/internal/category"
	"github.com/MrJamesThe3rd/caixa/internal/report"
	"github.com/MrJamesThe3rd/caixa/internal/transaction"
)

type txState int

const (
	txStateBrowse txState = iota
	txStateCreate
	txStateConfirmDelete
)

var (
	statusFilters = []*transaction.Status{nil, new(transaction.StatusOpen), new(transaction.StatusPaid), new(transaction.StatusOverdue)}
	typeFilters   = []*transaction.Type{nil, new(transaction.TypeCompanyRevenue), new(transaction.TypeCompanyExpense), new(transaction.TypePartnerExpense)}
)

type TransactionsModel struct {
	CommonModel
	txService       *transaction.Service
	categoryService *category.Service

	state  txState
	picker PeriodPicker
	table  table.Model
	txs    []*transaction.Transaction
	form   *huh.Form
	input  *txFormInput

	statusFilterIdx int
	typeFilterIdx   int

	loading bool
	err     error
	status  string
}

func NewTransactionsModel(txSvc *transaction.Service, catSvc *category.Service) TransactionsModel {
	columns := []table.Column{
		{Title: "Due", Width: 10},
		{Title: "Type", Width: 9},
		{Title: "Status", Width: 8},
		{Title: "Amount", Width: 14},
		{Title: "Category", Width: 16},
		{Title: "Description", Width: 36},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return TransactionsModel{
		txService:       txSvc,
		categoryService: catSvc,
		picker:          NewPeriodPicker(),
		table:           t,
		loading:         true,
	}
}

func (m TransactionsModel) Title() string { return "Transactions" }

func (m TransactionsModel) ShortHelp() string {
	switch m.state {
	case txStateCreate:
		return "Navigate form | Esc: cancel"
	case txStateConfirmDelete:
		return "y: delete | any other key: cancel"
	}

	return "Esc: back | ←/→: period | s: status | t: type | n: new | p: paid | o: reopen | x: delete | r: refresh"
}

func (m TransactionsModel) Init() tea.Cmd {
	return m.loadTxsCmd()
}

func (m TransactionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadTxsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.txs = msg.txs
		m.refreshTable()

		return m, nil

	case categoriesLoadedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error loading categories: %v", msg.err)
			return m, nil
		}

		return m.enterCreateMode(msg.cats)

	case txSavedMsg:
		m.status = msg.text
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}

		m.state = txStateBrowse
		m.form = nil
		m.input = nil
		m.table.Focus()

		return m, m.loadTxsCmd()

	case PeriodSelectedMsg:
		m.loading = true
		return m, m.loadTxsCmd()

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(max(5, msg.Height-12))

		return m, nil
	}

	switch m.state {
	case txStateCreate:
		return m.updateCreate(msg)
	case txStateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	return m.updateBrowse(msg)
}

func (m TransactionsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.picker.Editing() {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)

		return m, cmd
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadTxsCmd()
		case "s":
			m.statusFilterIdx = (m.statusFilterIdx + 1) % len(statusFilters)
			return m, m.loadTxsCmd()
		case "t":
			m.typeFilterIdx = (m.typeFilterIdx + 1) % len(typeFilters)
			return m, m.loadTxsCmd()
		case "n":
			return m, m.loadCategoriesCmd()
		case "p":
			return m, m.setStatusCmd(transaction.StatusPaid)
		case "o":
			return m, m.setStatusCmd(transaction.StatusOpen)
		case "x":
			if m.selected() != nil {
				m.state = txStateConfirmDelete
			}

			return m, nil
		case "left", "right", "h", "l":
			var cmd tea.Cmd
			m.picker, cmd = m.picker.Update(msg)

			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m TransactionsModel) enterCreateMode(cats []*category.Category) (tea.Model, tea.Cmd) {
	m.input = newTxFormInput(m.picker.now())
	m.form = m.input.form(cats)
	m.state = txStateCreate
	m.table.Blur()

	return m, m.form.Init()
}

func (m TransactionsModel) updateCreate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = txStateBrowse
		m.form = nil
		m.input = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.createCmd()
}

func (m TransactionsModel) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	m.state = txStateBrowse
	if keyMsg.String() != "y" {
		return m, nil
	}

	return m, m.deleteCmd()
}

func (m TransactionsModel) selected() *transaction.Transaction {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.txs) {
		return nil
	}

	return m.txs[idx]
}

func (m TransactionsModel) filter() transaction.ListFilter {
	r := m.picker.Range()

	return transaction.ListFilter{
		Status:    statusFilters[m.statusFilterIdx],
		Type:      typeFilters[m.typeFilterIdx],
		StartDate: &r.Start,
		EndDate:   &r.End,
	}
}

func (m TransactionsModel) View() string {
	header := fmt.Sprintf(
		"%s  |  [s] Status: %s  |  [t] Type: %s",
		m.picker.View(),
		activeStyle(filterLabel(statusFilters[m.statusFilterIdx])),
		activeStyle(filterLabel(typeFilters[m.typeFilterIdx])),
	)

	if m.loading {
		return lipgloss.NewStyle().Padding(1).Render(header + "\n\nLoading transactions...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(header + "\n\n" + negative.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	s := report.Summarize(m.txs)
	totals := faint.Render(fmt.Sprintf("%d transactions | Revenue %s | Expenses %s | Partner %s",
		len(m.txs), FormatAmount(s.Revenue), FormatAmount(s.Expenses), FormatAmount(s.PartnerWithdrawals)))

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
		totals,
	)

	switch m.state {
	case txStateCreate:
		if m.form != nil {
			panel := lipgloss.NewStyle().
				Padding(1, 2).
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("63")).
				Width(52).
				Render("New Transaction\n\n" + m.form.View())

			content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
		}
	case txStateConfirmDelete:
		if tx := m.selected(); tx != nil {
			content += "\n" + warning.Render(fmt.Sprintf("Delete %q (%s)? [y/N]", tx.Description, FormatAmount(tx.Amount)))
		}
	}

	if m.status != "" {
		content = faint.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func filterLabel[T ~string](v *T) string {
	if v == nil {
		return "All"
	}

	return string(*v)
}

var typeLabels = map[transaction.Type]string{
	transaction.TypeCompanyRevenue: "Revenue",
	transaction.TypeCompanyExpense: "Expense",
	transaction.TypePartnerExpense: "Partner",
}

func (m *TransactionsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.txs))
	for _, tx := range m.txs {
		desc := tx.Description
		if tx.InSeries() {
			desc = "↻ " + desc
		}

		rows = append(rows, table.Row{
			FormatDate(tx.DueDate),
			typeLabels[tx.Type],
			string(tx.Status),
			FormatAmount(tx.Amount),
			tx.Category,
			desc,
		})
	}

	m.table.SetRows(rows)

	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(0, len(rows)-1))
	}
}

// Messages

type loadTxsMsg struct {
	txs []*transaction.Transaction
	err error
}

func (m TransactionsModel) loadTxsCmd() tea.Cmd {
	svc, filter := m.txService, m.filter()

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		txs, err := svc.List(ctx, filter)
		return loadTxsMsg{txs: txs, err: err}
	}
}

type categoriesLoadedMsg struct {
	cats []*category.Category
	err  error
}

func (m TransactionsModel) loadCategoriesCmd() tea.Cmd {
	svc := m.categoryService

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		cats, err := svc.List(ctx)
		return categoriesLoadedMsg{cats: cats, err: err}
	}
}

type txSavedMsg struct {
	text string
	err  error
}

func (m TransactionsModel) createCmd() tea.Cmd {
	svc, in := m.txService, m.input

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		params, count, err := in.params()
		if err != nil {
			return txSavedMsg{err: err}
		}

		if count > 1 {
			txs, err := svc.CreateRecurring(ctx, transaction.RecurringParams{CreateParams: params, Count: count})
			if err != nil {
				return txSavedMsg{err: err}
			}

			return txSavedMsg{text: fmt.Sprintf("Created %d monthly occurrences.", len(txs))}
		}

		if _, err := svc.Create(ctx, params); err != nil {
			return txSavedMsg{err: err}
		}

		return txSavedMsg{text: "Transaction created."}
	}
}

func (m TransactionsModel) setStatusCmd(status transaction.Status) tea.Cmd {
	tx := m.selected()
	if tx == nil || tx.Status == status {
		return nil
	}

	svc := m.txService

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := svc.UpdateStatus(ctx, tx.ID, status); err != nil {
			return txSavedMsg{err: err}
		}

		return txSavedMsg{text: fmt.Sprintf("%q marked %s.", tx.Description, status)}
	}
}

func (m TransactionsModel) deleteCmd() tea.Cmd {
	tx := m.selected()
	if tx == nil {
		return nil
	}

	svc := m.txService

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := svc.Delete(ctx, tx.ID); err != nil {
			return txSavedMsg{err: err}
		}

		return txSavedMsg{text: fmt.Sprintf("%q deleted.", tx.Description)}
	}
}
