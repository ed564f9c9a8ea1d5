package history

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/finquest/finquest/internal/screen"
	"github.com/finquest/finquest/internal/store"
	"github.com/finquest/finquest/internal/ui/components"
	"github.com/finquest/finquest/internal/ui/layout"
	"github.com/finquest/finquest/internal/ui/theme"
)

const pageSize = 100

type historyLoadedMsg struct {
	Events []store.EventRecord
	Counts map[string]int
	Err    error
}

// HistoryScreen displays the engine event log, newest first.
type HistoryScreen struct {
	eventRepo store.EventRepo
	events    []store.EventRecord
	counts    map[string]int
	cursor    components.Cursor
	expanded  map[int]bool
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(eventRepo store.EventRepo) *HistoryScreen {
	return &HistoryScreen{
		eventRepo: eventRepo,
		expanded:  make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.eventRepo
	return func() tea.Msg {
		ctx := context.Background()
		events, err := repo.Query(ctx, store.QueryOpts{Limit: pageSize})
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		counts, err := repo.Counts(ctx)
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		return historyLoadedMsg{Events: events, Counts: counts}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.events = msg.Events
			s.counts = msg.Counts
			s.cursor = components.Cursor{Len: len(msg.Events)}
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		if msg.String() == "enter" {
			s.expanded[s.cursor.Index] = !s.expanded[s.cursor.Index]
			return s, nil
		}
		s.cursor = s.cursor.Update(msg)
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return components.Message("\n\nError: "+s.errMsg, true, width)
	}
	if !s.loaded {
		return components.Message("\n\nLoading history...", false, width)
	}
	if len(s.events) == 0 {
		return components.Message("\n\nNothing here yet. Go finish a unit!", false, width)
	}

	var b strings.Builder
	b.WriteString("\n")

	total := 0
	for _, n := range s.counts {
		total += n
	}
	b.WriteString(components.Centered(theme.Hint.Render(fmt.Sprintf("%d events recorded", total)), width) + "\n\n")

	start, end := s.cursor.Window(height - 6)
	for i := start; i < end; i++ {
		ev := s.events[i]
		line := fmt.Sprintf("%s  %-20s %-26s %s",
			ev.Timestamp.Format("Jan 02 15:04"), ev.Kind, ev.Subject, ev.Outcome)

		style := lipgloss.NewStyle().Foreground(outcomeColor(ev.Outcome))
		b.WriteString(components.Centered(components.Row(line, i == s.cursor.Index, style), width) + "\n")

		if s.expanded[i] {
			detail := "no details"
			if len(ev.Payload) > 0 {
				detail = string(ev.Payload)
			}
			b.WriteString(components.Centered(theme.Hint.Render("    "+detail), width) + "\n")
		}
	}

	return b.String()
}

func outcomeColor(outcome string) color.Color {
	if outcome == "ok" {
		return theme.Text
	}
	return theme.Error
}
