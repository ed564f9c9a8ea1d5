// Package news lists finance news articles.
package news

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/finquest/finquest/internal/catalog"
	"github.com/finquest/finquest/internal/engine"
	"github.com/finquest/finquest/internal/screen"
	"github.com/finquest/finquest/internal/ui/components"
	"github.com/finquest/finquest/internal/ui/theme"
)

// NewsScreen lists articles. Opening one marks it read.
type NewsScreen struct {
	engine   *engine.Engine
	articles []catalog.Article
	cursor   components.Cursor
	status   string
}

var _ screen.Screen = (*NewsScreen)(nil)

// New creates a NewsScreen.
func New(eng *engine.Engine) *NewsScreen {
	a := eng.Catalog().Articles()
	return &NewsScreen{engine: eng, articles: a, cursor: components.Cursor{Len: len(a)}}
}

func (s *NewsScreen) Init() tea.Cmd { return nil }

func (s *NewsScreen) Title() string { return "News" }

func (s *NewsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	if kmsg.String() != "enter" || len(s.articles) == 0 {
		s.cursor = s.cursor.Update(msg)
		return s, nil
	}

	a := s.articles[s.cursor.Index]
	first, err := s.engine.ReadArticle(a.ID)
	switch {
	case err != nil:
		s.status = err.Error()
	case first:
		s.status = "Nice read! " + a.Title
	default:
		s.status = "You've read this one before."
	}
	return s, nil
}

func (s *NewsScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	p := s.engine.Progress()

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render(fmt.Sprintf("%d of %d read", p.ArticlesRead, len(s.articles))) + "\n\n")

	start, end := s.cursor.Window(height - 6)
	for i := start; i < end; i++ {
		a := s.articles[i]
		mark, style := "○", theme.Unselected
		if p.Ledger.ArticleRead(a.ID) {
			mark, style = "✓", lipgloss.NewStyle().Foreground(theme.TextDim)
		}
		b.WriteString(components.Row(fmt.Sprintf("%s %s  (%s)", mark, a.Title, a.Source), i == s.cursor.Index, style) + "\n")
	}
	if s.status != "" {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(theme.Gold).Render(s.status) + "\n")
	}
	return components.Centered(lipgloss.NewStyle().Width(cw).Render(b.String()), width)
}
