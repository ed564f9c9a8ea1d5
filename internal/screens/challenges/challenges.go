// Package challenges lets the learner mark challenges complete.
package challenges

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/finquest/finquest/internal/catalog"
	"github.com/finquest/finquest/internal/engine"
	"github.com/finquest/finquest/internal/escrow"
	"github.com/finquest/finquest/internal/screen"
	"github.com/finquest/finquest/internal/ui/components"
	"github.com/finquest/finquest/internal/ui/layout"
	"github.com/finquest/finquest/internal/ui/theme"
)

// ChallengesScreen lists every challenge with its completion state.
type ChallengesScreen struct {
	engine *engine.Engine
	items  []catalog.Challenge
	cursor components.Cursor
	status string
	isErr  bool
}

var _ screen.Screen = (*ChallengesScreen)(nil)
var _ screen.KeyHintProvider = (*ChallengesScreen)(nil)

// New creates a ChallengesScreen.
func New(eng *engine.Engine) *ChallengesScreen {
	items := eng.Catalog().Challenges()
	return &ChallengesScreen{
		engine: eng,
		items:  items,
		cursor: components.Cursor{Len: len(items)},
	}
}

func (s *ChallengesScreen) Init() tea.Cmd { return nil }

func (s *ChallengesScreen) Title() string { return "Challenges" }

func (s *ChallengesScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Mark done"},
	}
}

func (s *ChallengesScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	if kmsg.String() != "enter" {
		s.cursor = s.cursor.Update(msg)
		return s, nil
	}
	if len(s.items) == 0 {
		return s, nil
	}

	c := s.items[s.cursor.Index]
	out, err := s.engine.CompleteChallenge(c.ID)
	switch {
	case err != nil:
		s.status, s.isErr = err.Error(), true
	case !out.Recorded:
		s.status, s.isErr = "Already done. Pick another challenge!", false
	case out.EscrowReady:
		s.status, s.isErr = fmt.Sprintf("+%d XP. Your escrow is ready to release!", out.XPGranted), false
	default:
		s.status, s.isErr = fmt.Sprintf("+%d XP. %d challenges done.", out.XPGranted, out.Total), false
	}
	return s, nil
}

func (s *ChallengesScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	p := s.engine.Progress()

	var b strings.Builder
	b.WriteString("\n")

	if esc := s.engine.Escrow(); esc.Active && esc.Status != escrow.StatusReleased {
		bar := components.NewProgressBar("Escrow quota", esc.CompletedCount, esc.RequiredCount, cw)
		b.WriteString(bar.View() + "\n\n")
	}

	start, end := s.cursor.Window(height - 8)
	for i := start; i < end; i++ {
		c := s.items[i]
		mark, style := "○", theme.Unselected
		if p.Ledger.ChallengeCompleted(c.ID) {
			mark, style = "✓", lipgloss.NewStyle().Foreground(theme.Success)
		}
		line := fmt.Sprintf("%s %-38s %3d XP", mark, c.Title, c.XPReward)
		b.WriteString(components.Row(line, i == s.cursor.Index, style) + "\n")
	}

	if s.cursor.Index < len(s.items) {
		b.WriteString("\n" + theme.Hint.Width(cw).Render(s.items[s.cursor.Index].Description) + "\n")
	}
	if s.status != "" {
		style := lipgloss.NewStyle().Foreground(theme.Gold)
		if s.isErr {
			style = lipgloss.NewStyle().Foreground(theme.Error)
		}
		b.WriteString("\n" + style.Render(s.status) + "\n")
	}

	return components.Centered(lipgloss.NewStyle().Width(cw).Render(b.String()), width)
}
