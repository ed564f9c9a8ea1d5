// Package community lets the learner vote on community proposals.
package community

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/finquest/finquest/internal/catalog"
	"github.com/finquest/finquest/internal/engine"
	"github.com/finquest/finquest/internal/screen"
	"github.com/finquest/finquest/internal/ui/components"
	"github.com/finquest/finquest/internal/ui/layout"
	"github.com/finquest/finquest/internal/ui/theme"
)

// CommunityScreen lists proposals with their choices. One vote per proposal.
type CommunityScreen struct {
	engine    *engine.Engine
	proposals []catalog.Proposal
	cursor    components.Cursor
	choice    int
	status    string
	isErr     bool
}

var _ screen.Screen = (*CommunityScreen)(nil)
var _ screen.KeyHintProvider = (*CommunityScreen)(nil)

// New creates a CommunityScreen.
func New(eng *engine.Engine) *CommunityScreen {
	p := eng.Catalog().Proposals()
	return &CommunityScreen{engine: eng, proposals: p, cursor: components.Cursor{Len: len(p)}}
}

func (s *CommunityScreen) Init() tea.Cmd { return nil }

func (s *CommunityScreen) Title() string { return "Community" }

func (s *CommunityScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Proposal"},
		{Key: "←→", Description: "Choice"},
		{Key: "Enter", Description: "Vote"},
	}
}

func (s *CommunityScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(s.proposals) == 0 {
		return s, nil
	}
	p := s.proposals[s.cursor.Index]

	switch kmsg.String() {
	case "left", "h":
		s.choice = max(s.choice-1, 0)
	case "right", "l":
		s.choice = min(s.choice+1, len(p.Choices)-1)
	case "enter":
		choice := p.Choices[s.choice]
		if err := s.engine.CastVote(p.ID, choice); err != nil {
			s.status, s.isErr = err.Error(), true
		} else {
			s.status, s.isErr = fmt.Sprintf("Voted %q. Thanks for taking part!", choice), false
		}
	default:
		prev := s.cursor.Index
		s.cursor = s.cursor.Update(msg)
		if s.cursor.Index != prev {
			s.choice = 0
			s.status = ""
		}
	}
	return s, nil
}

func (s *CommunityScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	ledger := s.engine.Progress().Ledger

	var b strings.Builder
	b.WriteString("\n")
	for i, p := range s.proposals {
		voted, hasVote := ledger.Vote(p.ID)
		title := p.Title
		if hasVote {
			title += "  " + theme.Hint.Render("(you voted "+voted+")")
		}
		b.WriteString(components.Row(title, i == s.cursor.Index, theme.Unselected) + "\n")

		if i != s.cursor.Index {
			continue
		}
		tally := ledger.Tally(p.ID)
		var opts []string
		for j, c := range p.Choices {
			label := fmt.Sprintf(" %s (%d) ", c, tally[c])
			style := lipgloss.NewStyle().Foreground(theme.TextDim)
			if j == s.choice {
				style = lipgloss.NewStyle().Foreground(theme.BgDark).Background(theme.Primary).Bold(true)
			}
			opts = append(opts, style.Render(label))
		}
		b.WriteString("    " + strings.Join(opts, " ") + "\n")
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
