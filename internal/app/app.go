package app

import (
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/finquest/finquest/internal/engine"
	"github.com/finquest/finquest/internal/logger"
	"github.com/finquest/finquest/internal/notify"
	"github.com/finquest/finquest/internal/router"
	"github.com/finquest/finquest/internal/screen"
	"github.com/finquest/finquest/internal/screens/home"
	"github.com/finquest/finquest/internal/screens/welcome"
	"github.com/finquest/finquest/internal/store"
	"github.com/finquest/finquest/internal/ui/layout"
)

// bannerDuration is how long a celebration stays on screen.
const bannerDuration = 3 * time.Second

// Options configures the app.
type Options struct {
	Engine       *engine.Engine
	Events       store.EventRepo // optional, enables the history screen
	DefaultQuota int
	Log          *logger.Logger
	SkipWelcome  bool
}

type bannerExpiredMsg struct{ id string }

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	engine *engine.Engine
	log    *logger.Logger
	banner *notify.Celebration
	width  int
	height int
}

// newAppModel creates a new AppModel starting at the welcome screen.
func newAppModel(opts Options) AppModel {
	if opts.Log == nil {
		opts.Log = logger.Nop()
	}
	homeFactory := func() screen.Screen {
		return home.New(home.Deps{
			Engine:       opts.Engine,
			Events:       opts.Events,
			DefaultQuota: opts.DefaultQuota,
		})
	}

	var first screen.Screen
	if opts.SkipWelcome {
		first = homeFactory()
	} else {
		first = welcome.New(homeFactory)
	}
	return AppModel{
		router: router.New(first),
		engine: opts.Engine,
		log:    opts.Log.With("component", "app"),
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.router.CloseAll()
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}

	case bannerExpiredMsg:
		if m.banner != nil && m.banner.ID == msg.id {
			m.banner = nil
		}
		next := m.nextBanner()
		return m, next

	case router.PopScreenMsg:
		// Leaving a screen discards celebrations it never got to show.
		if n := m.engine.DropCelebrations(); n > 0 {
			m.log.Debug("celebrations dropped on navigation", "count", n)
		}
		m.banner = nil
	}

	cmd := m.router.Update(msg)
	next := m.nextBanner()
	return m, tea.Batch(cmd, next)
}

// nextBanner shows the oldest queued celebration when no banner is up.
func (m *AppModel) nextBanner() tea.Cmd {
	if m.banner != nil {
		return nil
	}
	c, ok := m.engine.NextCelebration()
	if !ok {
		return nil
	}
	m.banner = &c
	id := c.ID
	return tea.Tick(bannerDuration, func(time.Time) tea.Msg {
		return bannerExpiredMsg{id: id}
	})
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	p := m.engine.Progress()
	header := layout.RenderHeader(title, p.XP, p.StreakDays, m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	banner := ""
	if m.banner != nil {
		banner = layout.RenderBanner(m.banner.Title, m.banner.Message, m.width)
	}

	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if banner != "" {
		contentHeight -= lipgloss.Height(banner)
	}
	contentHeight = max(contentHeight, 0)

	content := m.router.View(m.width, contentHeight)
	if banner != "" {
		content = banner + "\n" + content
	}

	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	var hints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		hints = p.KeyHints()
	} else {
		hints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
		}
	}
	if m.router.Depth() > 1 {
		hints = append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
	}
	return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	if opts.Engine == nil {
		return fmt.Errorf("app: engine is required")
	}
	p := tea.NewProgram(newAppModel(opts))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
