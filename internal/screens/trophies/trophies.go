// Package trophies shows the badge board and collects earned badges.
package trophies

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/finquest/finquest/internal/badges"
	"github.com/finquest/finquest/internal/engine"
	"github.com/finquest/finquest/internal/screen"
	"github.com/finquest/finquest/internal/ui/components"
	"github.com/finquest/finquest/internal/ui/layout"
	"github.com/finquest/finquest/internal/ui/theme"
)

type collectDoneMsg struct {
	badge badges.Badge
	err   error
}

// TrophiesScreen is a category by tier grid of badges.
type TrophiesScreen struct {
	engine     *engine.Engine
	catalog    *badges.Catalog
	row, col   int
	collecting string // badge ID being minted
	status     string
	isErr      bool
}

var _ screen.Screen = (*TrophiesScreen)(nil)
var _ screen.KeyHintProvider = (*TrophiesScreen)(nil)
var _ screen.Closer = (*TrophiesScreen)(nil)

// New creates a TrophiesScreen.
func New(eng *engine.Engine) *TrophiesScreen {
	return &TrophiesScreen{engine: eng, catalog: eng.BadgeCatalog()}
}

func (s *TrophiesScreen) Init() tea.Cmd { return nil }

func (s *TrophiesScreen) Title() string { return "Badges" }

func (s *TrophiesScreen) KeyHints() []layout.KeyHint {
	if s.collecting != "" {
		return []layout.KeyHint{{Key: "c", Description: "Cancel mint"}}
	}
	return []layout.KeyHint{
		{Key: "←↑↓→", Description: "Navigate"},
		{Key: "Enter", Description: "Collect"},
	}
}

// Close cancels an in-flight mint when the screen is left.
func (s *TrophiesScreen) Close() {
	if s.collecting != "" {
		s.engine.Cancel(engine.BadgeResource(s.collecting))
	}
}

func (s *TrophiesScreen) selectedID() string {
	cats, tiers := badges.AllCategories(), badges.AllTiers()
	return badges.ID(cats[s.row], tiers[s.col])
}

func (s *TrophiesScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case collectDoneMsg:
		s.collecting = ""
		if msg.err != nil {
			s.status, s.isErr = msg.err.Error(), true
		} else {
			s.status, s.isErr = fmt.Sprintf("Collected %s!", msg.badge.Name), false
		}
		return s, nil

	case tea.KeyMsg:
		if s.collecting != "" {
			if msg.String() == "c" {
				s.Close()
			}
			return s, nil
		}
		switch msg.String() {
		case "up", "k":
			s.row = max(s.row-1, 0)
		case "down", "j":
			s.row = min(s.row+1, len(badges.AllCategories())-1)
		case "left", "h":
			s.col = max(s.col-1, 0)
		case "right", "l":
			s.col = min(s.col+1, len(badges.AllTiers())-1)
		case "enter":
			return s, s.collect(s.selectedID())
		}
	}
	return s, nil
}

func (s *TrophiesScreen) collect(id string) tea.Cmd {
	s.collecting = id
	s.status = ""
	eng := s.engine
	return func() tea.Msg {
		b, err := eng.CollectBadge(context.Background(), id)
		return collectDoneMsg{badge: b, err: err}
	}
}

const cellWidth = 16

func (s *TrophiesScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	snap := s.engine.Badges()
	p := s.engine.Progress().Ledger

	var b strings.Builder
	b.WriteString("\n")

	header := theme.Hint.Render(fmt.Sprintf("%-14s", ""))
	for i, t := range badges.AllTiers() {
		header += lipgloss.NewStyle().Width(cellWidth).Align(lipgloss.Center).Foreground(theme.TierColor(i)).Render(t.DisplayName())
	}
	b.WriteString(header + "\n")

	for r, c := range badges.AllCategories() {
		line := fmt.Sprintf("%-14s", c.Icon()+" "+c.DisplayName())
		for col, t := range badges.AllTiers() {
			id := badges.ID(c, t)
			def, _ := s.catalog.Badge(id)
			st := snap.StatusByID[id]
			label := fmt.Sprintf("%d/%d", min(badges.Counter(c, p), def.Threshold), def.Threshold)
			switch {
			case id == s.collecting:
				label = "minting"
			case st == badges.StatusEarned:
				label = "★ earned"
			case st == badges.StatusInProgress:
				label = "! collect"
			}
			cell := lipgloss.NewStyle().Width(cellWidth).Align(lipgloss.Center).Foreground(statusColor(st))
			if r == s.row && col == s.col {
				cell = cell.Bold(true).Reverse(true)
			}
			line += cell.Render(label)
		}
		b.WriteString(line + "\n")
	}

	if def, ok := s.catalog.Badge(s.selectedID()); ok {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(def.Name) + "\n")
		b.WriteString(theme.Hint.Render(fmt.Sprintf("Reach %d in %s.", def.Threshold, def.Category.DisplayName())) + "\n")
		if at, ok := s.engine.BadgeCollectedAt(def.ID); ok {
			b.WriteString(theme.Hint.Render("Collected "+at.Format("Jan 02, 2006")) + "\n")
		}
	}

	if s.status != "" {
		style := lipgloss.NewStyle().Foreground(theme.Gold)
		if s.isErr {
			style = lipgloss.NewStyle().Foreground(theme.Error)
		}
		b.WriteString("\n" + style.Render(s.status) + "\n")
	}

	return components.Centered(lipgloss.NewStyle().Width(cw+8).Render(b.String()), width)
}

func statusColor(st badges.Status) color.Color {
	switch st {
	case badges.StatusEarned:
		return theme.Gold
	case badges.StatusInProgress:
		return theme.Success
	default:
		return theme.TextDim
	}
}
