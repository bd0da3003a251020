// Package tui is the terminal dashboard served over SSH: portfolio,
// recommendation report and dividend screen behind single-key views.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"acionista/internal/domain"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// AnalysisQuerier is the slice of the analysis service the TUI needs.
type AnalysisQuerier interface {
	Run(ctx context.Context, availableCash float64) (domain.Report, error)
	Positions(ctx context.Context) ([]domain.Position, error)
}

// ScreenQuerier runs the dividend screen for the screen view.
type ScreenQuerier interface {
	DividendScreen(ctx context.Context) ([]domain.ScreenRow, error)
}

// Services carries everything a TUI session depends on.
type Services struct {
	Analysis AnalysisQuerier
	Screens  ScreenQuerier
	Cash     float64
	Username string
}

type view int

const (
	viewPositions view = iota
	viewReport
	viewScreen
)

const requestTimeout = 2 * time.Minute

type positionsMsg []domain.Position
type reportMsg domain.Report
type screenMsg []domain.ScreenRow
type errMsg struct{ err error }

var (
	appTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	tableStyle    = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#4B5563"))
)

type AppModel struct {
	svc     Services
	view    view
	table   table.Model
	width   int
	height  int
	loading bool
	err     error

	positions []domain.Position
	report    *domain.Report
	screen    []domain.ScreenRow
}

func NewAppModel(svc Services) *AppModel {
	t := table.New(table.WithFocused(true), table.WithHeight(15))
	s := table.DefaultStyles()
	s.Header = s.Header.Bold(true).Foreground(lipgloss.Color("#3B82F6"))
	s.Selected = s.Selected.Foreground(lipgloss.Color("#10B981")).Bold(true)
	t.SetStyles(s)

	return &AppModel{svc: svc, table: t, loading: true}
}

func (m *AppModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	if height > 10 {
		m.table.SetHeight(height - 8)
	}
}

func (m *AppModel) Init() tea.Cmd {
	return m.loadPositions()
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "1":
			m.view = viewPositions
			m.loading = true
			return m, m.loadPositions()
		case "2":
			m.view = viewReport
			if m.report == nil {
				m.loading = true
				return m, m.loadReport()
			}
			m.rebuildTable()
			return m, nil
		case "3":
			m.view = viewScreen
			if m.screen == nil {
				m.loading = true
				return m, m.loadScreen()
			}
			m.rebuildTable()
			return m, nil
		case "r":
			m.loading = true
			switch m.view {
			case viewPositions:
				return m, m.loadPositions()
			case viewReport:
				return m, m.loadReport()
			case viewScreen:
				return m, m.loadScreen()
			}
		}

	case positionsMsg:
		m.positions = msg
		m.loading = false
		m.err = nil
		m.rebuildTable()
		return m, nil

	case reportMsg:
		r := domain.Report(msg)
		m.report = &r
		m.loading = false
		m.err = nil
		m.rebuildTable()
		return m, nil

	case screenMsg:
		m.screen = msg
		m.loading = false
		m.err = nil
		m.rebuildTable()
		return m, nil

	case errMsg:
		m.err = msg.err
		m.loading = false
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *AppModel) View() string {
	var b strings.Builder

	title := fmt.Sprintf("acionista — %s", m.viewTitle())
	if m.svc.Username != "" {
		title += fmt.Sprintf(" (%s)", m.svc.Username)
	}
	b.WriteString(appTitleStyle.Render(title))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString("carregando...\n")
	case m.err != nil:
		b.WriteString(errStyle.Render(fmt.Sprintf("erro: %v", m.err)))
		b.WriteString("\n")
	default:
		b.WriteString(tableStyle.Render(m.table.View()))
		b.WriteString("\n")
		if m.view == viewReport && m.report != nil {
			b.WriteString(helpStyle.Render(fmt.Sprintf(
				"vendido no mês R$ %.2f | restante até o limite R$ %.2f",
				m.report.SoldThisMonth, m.report.RemainingToSell)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("1 carteira · 2 análise · 3 dividendos · r recarregar · q sair"))
	return b.String()
}

func (m *AppModel) viewTitle() string {
	switch m.view {
	case viewReport:
		return "análise"
	case viewScreen:
		return "ranking por dividendos"
	default:
		return "carteira"
	}
}

func (m *AppModel) rebuildTable() {
	switch m.view {
	case viewPositions:
		m.table.SetColumns([]table.Column{
			{Title: "Papel", Width: 8},
			{Title: "Qtd", Width: 8},
			{Title: "Preço médio", Width: 12},
		})
		rows := make([]table.Row, len(m.positions))
		for i, p := range m.positions {
			rows[i] = table.Row{p.Ticker, fmt.Sprintf("%d", p.Quantity), fmt.Sprintf("R$ %.2f", p.AverageCost)}
		}
		m.table.SetRows(rows)

	case viewReport:
		m.table.SetColumns([]table.Column{
			{Title: "Ação", Width: 8},
			{Title: "Papel", Width: 8},
			{Title: "Qtd", Width: 8},
			{Title: "Preço", Width: 10},
			{Title: "Motivo", Width: 40},
		})
		var rows []table.Row
		if m.report != nil {
			for _, rec := range m.report.Sells {
				rows = append(rows, table.Row{"VENDER", rec.Ticker, fmt.Sprintf("%d", rec.Quantity),
					fmt.Sprintf("R$ %.2f", rec.SuggestedPrice), strings.Join(rec.Reasons, "; ")})
			}
			for _, rec := range m.report.Buys {
				rows = append(rows, table.Row{"COMPRAR", rec.Ticker, fmt.Sprintf("%d", rec.Quantity),
					fmt.Sprintf("R$ %.2f", rec.SuggestedPrice), strings.Join(rec.Reasons, "; ")})
			}
		}
		m.table.SetRows(rows)

	case viewScreen:
		m.table.SetColumns([]table.Column{
			{Title: "Papel", Width: 8},
			{Title: "Cotação", Width: 10},
			{Title: "DY %", Width: 8},
			{Title: "Liquidez", Width: 12},
			{Title: "Score", Width: 6},
		})
		rows := make([]table.Row, len(m.screen))
		for i, r := range m.screen {
			ticker := r.Ticker
			if r.Outlier {
				ticker += " !"
			}
			rows[i] = table.Row{ticker, fmt.Sprintf("R$ %.2f", r.Quote),
				fmt.Sprintf("%.2f", r.Yield), fmt.Sprintf("%.0f", r.Liquidity), fmt.Sprintf("%d", r.Score)}
		}
		m.table.SetRows(rows)
	}
}

func (m *AppModel) loadPositions() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		positions, err := m.svc.Analysis.Positions(ctx)
		if err != nil {
			return errMsg{err}
		}
		return positionsMsg(positions)
	}
}

func (m *AppModel) loadReport() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		report, err := m.svc.Analysis.Run(ctx, m.svc.Cash)
		if err != nil {
			return errMsg{err}
		}
		return reportMsg(report)
	}
}

func (m *AppModel) loadScreen() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		rows, err := m.svc.Screens.DividendScreen(ctx)
		if err != nil {
			return errMsg{err}
		}
		return screenMsg(rows)
	}
}
