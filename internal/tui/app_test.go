package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"acionista/internal/domain"

	tea "github.com/charmbracelet/bubbletea"
)

type stubAnalysis struct {
	positions []domain.Position
	report    domain.Report
	err       error
}

func (s *stubAnalysis) Run(_ context.Context, _ float64) (domain.Report, error) {
	return s.report, s.err
}

func (s *stubAnalysis) Positions(_ context.Context) ([]domain.Position, error) {
	return s.positions, s.err
}

type stubScreens struct {
	rows []domain.ScreenRow
	err  error
}

func (s *stubScreens) DividendScreen(_ context.Context) ([]domain.ScreenRow, error) {
	return s.rows, s.err
}

func newTestModel() *AppModel {
	return NewAppModel(Services{
		Analysis: &stubAnalysis{
			positions: []domain.Position{{Ticker: "WEGE3", Quantity: 100, AverageCost: 35}},
			report: domain.Report{
				Sells: []domain.Recommendation{{Ticker: "LOSS3", Quantity: 50, SuggestedPrice: 30,
					Reasons: []string{"below stop loss"}}},
			},
		},
		Screens:  &stubScreens{rows: []domain.ScreenRow{{Ticker: "TAEE11", Quote: 38, Yield: 9, Score: 3}}},
		Cash:     1000,
		Username: "tester",
	})
}

func TestInitLoadsPositions(t *testing.T) {
	m := newTestModel()
	cmd := m.Init()
	if cmd == nil {
		t.Fatal("expected an initial load command")
	}

	msg := cmd()
	positions, ok := msg.(positionsMsg)
	if !ok {
		t.Fatalf("expected positionsMsg, got %T", msg)
	}
	if len(positions) != 1 || positions[0].Ticker != "WEGE3" {
		t.Fatalf("unexpected positions: %+v", positions)
	}
}

func TestPositionsViewRendersHoldings(t *testing.T) {
	m := newTestModel()
	model, _ := m.Update(positionsMsg{{Ticker: "WEGE3", Quantity: 100, AverageCost: 35}})
	out := model.View()

	if !strings.Contains(out, "WEGE3") || !strings.Contains(out, "carteira") {
		t.Fatalf("positions view incomplete:\n%s", out)
	}
	if !strings.Contains(out, "tester") {
		t.Fatalf("expected username in title:\n%s", out)
	}
}

func TestSwitchToReportViewLoadsReport(t *testing.T) {
	m := newTestModel()
	m.Update(positionsMsg{})

	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}})
	if cmd == nil {
		t.Fatal("expected a report load command on first visit")
	}

	msg := cmd()
	model, _ = model.Update(msg)
	out := model.View()
	if !strings.Contains(out, "LOSS3") || !strings.Contains(out, "VENDER") {
		t.Fatalf("report view incomplete:\n%s", out)
	}
}

func TestSwitchToScreenView(t *testing.T) {
	m := newTestModel()
	m.Update(positionsMsg{})

	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'3'}})
	if cmd == nil {
		t.Fatal("expected a screen load command on first visit")
	}

	model, _ = model.Update(cmd())
	out := model.View()
	if !strings.Contains(out, "TAEE11") {
		t.Fatalf("screen view incomplete:\n%s", out)
	}
}

func TestErrorsAreShown(t *testing.T) {
	m := newTestModel()
	model, _ := m.Update(errMsg{errors.New("fetch fundamentus: HTTP 503")})
	out := model.View()
	if !strings.Contains(out, "erro") || !strings.Contains(out, "HTTP 503") {
		t.Fatalf("expected error message in view:\n%s", out)
	}
}

func TestQuitKey(t *testing.T) {
	m := newTestModel()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if msg := cmd(); msg != (tea.QuitMsg{}) {
		t.Fatalf("expected tea.QuitMsg, got %T", msg)
	}
}
