// Package learn lists module groups and their units.
package learn

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/finquest/finquest/internal/catalog"
	"github.com/finquest/finquest/internal/engine"
	"github.com/finquest/finquest/internal/router"
	"github.com/finquest/finquest/internal/screen"
	"github.com/finquest/finquest/internal/screens/lesson"
	"github.com/finquest/finquest/internal/ui/components"
	"github.com/finquest/finquest/internal/ui/layout"
	"github.com/finquest/finquest/internal/ui/theme"
	"github.com/finquest/finquest/internal/unlock"
)

// LearnScreen shows every unit grouped by module, with lock state.
type LearnScreen struct {
	engine *engine.Engine
	units  []catalog.Unit
	cursor components.Cursor
	errMsg string
}

var _ screen.Screen = (*LearnScreen)(nil)
var _ screen.KeyHintProvider = (*LearnScreen)(nil)

// New creates a LearnScreen.
func New(eng *engine.Engine) *LearnScreen {
	var units []catalog.Unit
	for _, g := range eng.Catalog().Groups() {
		units = append(units, g.Units...)
	}
	return &LearnScreen{
		engine: eng,
		units:  units,
		cursor: components.Cursor{Len: len(units)},
	}
}

func (s *LearnScreen) Init() tea.Cmd { return nil }

func (s *LearnScreen) Title() string { return "Learn" }

func (s *LearnScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Start unit"},
	}
}

func (s *LearnScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	if kmsg.String() != "enter" {
		s.cursor = s.cursor.Update(msg)
		s.errMsg = ""
		return s, nil
	}
	if len(s.units) == 0 {
		return s, nil
	}

	u, err := s.engine.SelectUnit(s.units[s.cursor.Index].ID)
	if err != nil {
		s.errMsg = err.Error()
		return s, nil
	}
	s.errMsg = ""
	next := lesson.New(s.engine, u)
	return s, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
}

func (s *LearnScreen) View(width, height int) string {
	p := s.engine.Progress()
	cw := components.ContentWidth(width)

	var lines []string
	cursorLine, idx := 0, 0
	for _, g := range s.engine.Catalog().Groups() {
		header := theme.Subtitle.Render(g.Title)
		if !p.GroupUnlocked[g.ID] {
			header = theme.Locked.Render(fmt.Sprintf("%s  (locked until %d units are done)", g.Title, g.UnlockThreshold))
		}
		lines = append(lines, header)

		for _, u := range g.Units {
			st := p.UnitStatus[u.ID]
			if idx == s.cursor.Index {
				cursorLine = len(lines)
			}
			line := fmt.Sprintf("%s %-34s %3d XP", statusIcon(st), u.Title, u.XPReward)
			lines = append(lines, components.Row(line, idx == s.cursor.Index, statusStyle(st)))
			idx++
		}
		lines = append(lines, "")
	}

	// Leave room for the summary and error lines.
	view := components.Cursor{Index: cursorLine, Len: len(lines)}
	start, end := view.Window(height - 5)
	lines = lines[start:end]

	if u := s.current(); u != nil && u.Summary != "" {
		lines = append(lines, theme.Hint.Width(cw).Render(u.Summary))
	}
	if s.errMsg != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg))
	}

	body := lipgloss.NewStyle().Width(cw).Render("\n" + strings.Join(lines, "\n"))
	return components.Centered(body, width)
}

func (s *LearnScreen) current() *catalog.Unit {
	if s.cursor.Index < 0 || s.cursor.Index >= len(s.units) {
		return nil
	}
	return &s.units[s.cursor.Index]
}

func statusIcon(st unlock.UnitStatus) string {
	switch st {
	case unlock.UnitCompleted:
		return "✓"
	case unlock.UnitInProgress:
		return "○"
	default:
		return "×"
	}
}

func statusStyle(st unlock.UnitStatus) lipgloss.Style {
	switch st {
	case unlock.UnitCompleted:
		return lipgloss.NewStyle().Foreground(theme.Success)
	case unlock.UnitInProgress:
		return theme.Unselected
	default:
		return theme.Locked
	}
}
