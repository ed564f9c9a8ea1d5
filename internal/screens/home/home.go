package home

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/finquest/finquest/internal/badges"
	"github.com/finquest/finquest/internal/engine"
	"github.com/finquest/finquest/internal/escrow"
	"github.com/finquest/finquest/internal/router"
	"github.com/finquest/finquest/internal/screen"
	"github.com/finquest/finquest/internal/screens/budgetview"
	"github.com/finquest/finquest/internal/screens/challenges"
	"github.com/finquest/finquest/internal/screens/community"
	"github.com/finquest/finquest/internal/screens/connect"
	"github.com/finquest/finquest/internal/screens/history"
	"github.com/finquest/finquest/internal/screens/learn"
	"github.com/finquest/finquest/internal/screens/news"
	"github.com/finquest/finquest/internal/screens/trophies"
	"github.com/finquest/finquest/internal/screens/vault"
	"github.com/finquest/finquest/internal/store"
	"github.com/finquest/finquest/internal/ui/components"
	"github.com/finquest/finquest/internal/ui/theme"
)

const buttonWidth = 24

// Deps are what the home screen and the screens it opens need.
type Deps struct {
	Engine       *engine.Engine
	Events       store.EventRepo // nil hides history
	DefaultQuota int
}

// HomeScreen is the main menu with a progress summary.
type HomeScreen struct {
	deps Deps
	menu components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(d Deps) *HomeScreen {
	h := &HomeScreen{deps: d}
	h.menu = components.NewMenu(h.items())
	return h
}

func push(s func() screen.Screen) func() tea.Cmd {
	return func() tea.Cmd {
		return func() tea.Msg { return router.PushScreenMsg{Screen: s()} }
	}
}

func (h *HomeScreen) items() []components.MenuItem {
	eng := h.deps.Engine
	return []components.MenuItem{
		{Label: "LEARN", Action: push(func() screen.Screen { return learn.New(eng) })},
		{Label: "CHALLENGES", Action: push(func() screen.Screen { return challenges.New(eng) })},
		{Label: "ESCROW", Action: push(func() screen.Screen { return vault.New(eng, h.deps.DefaultQuota) })},
		{Label: "BADGES", Action: push(func() screen.Screen { return trophies.New(eng) })},
		{Label: "WALLET", Action: push(func() screen.Screen { return connect.New(eng) })},
		{Label: "NEWS", Action: push(func() screen.Screen { return news.New(eng) })},
		{Label: "COMMUNITY", Action: push(func() screen.Screen { return community.New(eng) })},
		{Label: "BUDGET", Action: push(func() screen.Screen { return budgetview.New(eng) })},
		{Label: "HISTORY", Disabled: h.deps.Events == nil, Action: push(func() screen.Screen { return history.New(h.deps.Events) })},
		{Label: "QUIT", Action: func() tea.Cmd { return tea.Quit }},
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	h.refreshBadges()
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

// refreshBadges marks menu entries that have something waiting.
func (h *HomeScreen) refreshBadges() {
	eng := h.deps.Engine
	esc := eng.Escrow()
	ready := ""
	if esc.Active && esc.Status == escrow.StatusReady {
		ready = "READY"
	}
	collectible := ""
	if n := eng.Badges().Count(badges.StatusInProgress); n > 0 {
		collectible = fmt.Sprintf("%d NEW", n)
	}
	for i := range h.menu.Items {
		switch h.menu.Items[i].Label {
		case "ESCROW":
			h.menu.Items[i].Badge = ready
		case "BADGES":
			h.menu.Items[i].Badge = collectible
		}
	}
}

func (h *HomeScreen) View(width, height int) string {
	h.refreshBadges()
	cw := components.ContentWidth(width)

	sections := []string{
		lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).
			Render(theme.Title.Render("F I N Q U E S T")),
		h.renderStats(cw),
		lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(h.menu.View(buttonWidth)),
	}
	return components.CabinetFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) renderStats(cw int) string {
	p := h.deps.Engine.Progress()
	total := h.deps.Engine.Catalog().UnitCount()

	gold := lipgloss.NewStyle().Foreground(theme.Gold).Bold(true)
	sky := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	stats := fmt.Sprintf("%s   %s   %s",
		gold.Render(fmt.Sprintf("%d XP", p.XP)),
		sky.Render(fmt.Sprintf("%d/%d UNITS", p.CompletedUnits, total)),
		sky.Render(fmt.Sprintf("%d CHALLENGES", p.CompletedChallenges)),
	)
	next := dim.Render("Every module is unlocked")
	if p.NextGroup != "" {
		g, _ := h.deps.Engine.Catalog().Group(p.NextGroup)
		next = dim.Render(fmt.Sprintf("%s unlocks in %d more units", g.Title, p.UnitsToUnlock))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats + "\n" + next)
}
