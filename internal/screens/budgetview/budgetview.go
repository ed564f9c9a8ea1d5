// Package budgetview shows the budget imported from a bank statement.
package budgetview

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/finquest/finquest/internal/budget"
	"github.com/finquest/finquest/internal/engine"
	"github.com/finquest/finquest/internal/screen"
	"github.com/finquest/finquest/internal/ui/components"
	"github.com/finquest/finquest/internal/ui/layout"
	"github.com/finquest/finquest/internal/ui/theme"
)

// BudgetScreen lists inflows and outflows with totals.
type BudgetScreen struct {
	engine *engine.Engine
	scroll int
}

var _ screen.Screen = (*BudgetScreen)(nil)
var _ screen.KeyHintProvider = (*BudgetScreen)(nil)

// New creates a BudgetScreen.
func New(eng *engine.Engine) *BudgetScreen {
	return &BudgetScreen{engine: eng}
}

func (s *BudgetScreen) Init() tea.Cmd { return nil }

func (s *BudgetScreen) Title() string { return "Budget" }

func (s *BudgetScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "↑↓", Description: "Scroll"}}
}

func (s *BudgetScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "up", "k":
			s.scroll = max(s.scroll-1, 0)
		case "down", "j":
			s.scroll++
		}
	}
	return s, nil
}

func (s *BudgetScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	b, ok := s.engine.Budget()
	if !ok {
		return components.Message("\n\nNo budget yet. Import a statement with `finquest import <file.csv>`.", false, width)
	}

	amountWidth := 12
	descWidth := cw - amountWidth - 4

	var lines []string
	entry := func(e budget.Entry, style lipgloss.Style) string {
		desc := e.Description
		if r := []rune(desc); len(r) > descWidth {
			desc = string(r[:descWidth-1]) + "…"
		}
		return fmt.Sprintf("  %-*s %s", descWidth, desc, style.Render(fmt.Sprintf("%*s", amountWidth, budget.FormatCents(e.AmountCents))))
	}
	lines = append(lines, theme.Selected.Render("Inflows"))
	for _, e := range b.Inflows {
		lines = append(lines, entry(e, theme.Inflow))
	}
	lines = append(lines, "", theme.Selected.Render("Outflows"))
	for _, e := range b.Outflows {
		lines = append(lines, entry(e, theme.Outflow))
	}

	// Keep the totals pinned below the scrolled entries.
	visible := max(height-8, 3)
	s.scroll = min(s.scroll, max(len(lines)-visible, 0))
	lines = lines[s.scroll:min(s.scroll+visible, len(lines))]

	totals := fmt.Sprintf("In %s   Out %s   Balance %s",
		theme.Inflow.Render(budget.FormatCents(b.TotalIn())),
		theme.Outflow.Render(budget.FormatCents(b.TotalOut())),
		theme.Amount(b.Balance).Bold(true).Render(budget.FormatCents(b.Balance)))

	body := "\n" + strings.Join(lines, "\n") + "\n\n" + totals
	if len(b.Skipped) > 0 {
		body += "\n" + theme.Hint.Render(fmt.Sprintf("%d rows skipped during import", len(b.Skipped)))
	}
	return components.Centered(lipgloss.NewStyle().Width(cw).Render(body), width)
}
