package main

import (
	"context"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/caixa/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/caixa/internal/app"
	"github.com/MrJamesThe3rd/caixa/internal/category"
	"github.com/MrJamesThe3rd/caixa/internal/config"
	"github.com/MrJamesThe3rd/caixa/internal/report"
	"github.com/MrJamesThe3rd/caixa/internal/transaction"
)

type model struct {
	txService       *transaction.Service
	categoryService *category.Service
	tax             report.TaxConfig

	currentView View
	size        tea.WindowSizeMsg

	dashboardView    view.DashboardModel
	transactionsView view.TransactionsModel
}

type View int

const (
	ViewMenu         View = 0
	ViewDashboard    View = 1
	ViewTransactions View = 2
)

func initialModel(svc *app.Services, tax report.TaxConfig) model {
	return model{
		txService:       svc.Transactions,
		categoryService: svc.Categories,
		tax:             tax,
		currentView:     ViewMenu,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewDashboard
				m.dashboardView = view.NewDashboardModel(m.txService, m.categoryService, m.tax)

				return m, tea.Batch(m.dashboardView.Init(), m.resize)
			case "2":
				m.currentView = ViewTransactions
				m.transactionsView = view.NewTransactionsModel(m.txService, m.categoryService)

				return m, tea.Batch(m.transactionsView.Init(), m.resize)
			}
		}
	case tea.WindowSizeMsg:
		m.size = msg
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewDashboard:
		var newModel tea.Model
		newModel, cmd = m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)
	case ViewTransactions:
		var newModel tea.Model
		newModel, cmd = m.transactionsView.Update(msg)
		m.transactionsView = newModel.(view.TransactionsModel)
	}

	return m, cmd
}

// resize replays the last known window size to a freshly opened view.
func (m model) resize() tea.Msg {
	return m.size
}

func (m model) View() string {
	var current view.View

	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Caixa\n\n" +
				"1. Dashboard\n" +
				"2. Transactions\n\n" +
				"q. Quit",
		)
	case ViewDashboard:
		current = m.dashboardView
	case ViewTransactions:
		current = m.transactionsView
	default:
		return "Unknown View"
	}

	title := lipgloss.NewStyle().Bold(true).PaddingLeft(1).Render(current.Title())
	help := lipgloss.NewStyle().Faint(true).PaddingLeft(1).Render(current.ShortHelp())

	return lipgloss.JoinVertical(lipgloss.Left, title, current.View(), help)
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logFile, err := tea.LogToFile("caixa-tui.log", "")
	if err != nil {
		slog.Error("failed to open log file", "error", err)
		os.Exit(1)
	}
	defer logFile.Close()

	app.InstallLogger(cfg, logFile)

	db, err := app.Open(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	svc := app.NewServices(cfg, db, nil)

	p := tea.NewProgram(initialModel(svc, cfg.TaxConfig()), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
