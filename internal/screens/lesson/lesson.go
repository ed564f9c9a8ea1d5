// Package lesson runs one unit's quiz and shows the graded result.
package lesson

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/finquest/finquest/internal/catalog"
	"github.com/finquest/finquest/internal/engine"
	"github.com/finquest/finquest/internal/quiz"
	"github.com/finquest/finquest/internal/router"
	"github.com/finquest/finquest/internal/screen"
	"github.com/finquest/finquest/internal/ui/components"
	"github.com/finquest/finquest/internal/ui/layout"
	"github.com/finquest/finquest/internal/ui/theme"
)

// LessonScreen asks each question in turn, then submits all answers at once.
type LessonScreen struct {
	engine  *engine.Engine
	unit    catalog.Unit
	choices []components.MultiChoice
	current int

	outcome *engine.QuizOutcome
	errMsg  string
}

var _ screen.Screen = (*LessonScreen)(nil)
var _ screen.KeyHintProvider = (*LessonScreen)(nil)

// New creates a LessonScreen for u.
func New(eng *engine.Engine, u catalog.Unit) *LessonScreen {
	s := &LessonScreen{engine: eng, unit: u}
	s.reset()
	return s
}

func (s *LessonScreen) reset() {
	s.choices = make([]components.MultiChoice, len(s.unit.Quiz.Questions))
	for i, q := range s.unit.Quiz.Questions {
		s.choices[i] = components.NewMultiChoice(q.Prompt, q.Options)
	}
	s.current = 0
	s.outcome = nil
	s.errMsg = ""
}

func (s *LessonScreen) Init() tea.Cmd { return nil }

func (s *LessonScreen) Title() string { return s.unit.Title }

func (s *LessonScreen) KeyHints() []layout.KeyHint {
	if s.outcome != nil {
		hints := []layout.KeyHint{{Key: "Enter", Description: "Done"}}
		if !s.outcome.Result.Passed {
			hints = append(hints, layout.KeyHint{Key: "r", Description: "Retry"})
		}
		return hints
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Choose"},
		{Key: "Enter", Description: "Answer"},
	}
}

func (s *LessonScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	if s.outcome != nil || s.errMsg != "" {
		switch kmsg.String() {
		case "enter":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "r":
			if s.outcome == nil || !s.outcome.Result.Passed {
				s.reset()
			}
		}
		return s, nil
	}

	if s.current >= len(s.choices) {
		return s, nil
	}
	s.choices[s.current], _ = s.choices[s.current].Update(msg)
	if !s.choices[s.current].Answered() {
		return s, nil
	}
	s.current++
	if s.current == len(s.choices) {
		s.submit()
	}
	return s, nil
}

func (s *LessonScreen) submit() {
	answers := make([]int, len(s.choices))
	for i, c := range s.choices {
		answers[i] = c.Chosen
	}
	out, err := s.engine.SubmitQuiz(s.unit.ID, answers)
	if err != nil {
		s.errMsg = err.Error()
		return
	}
	for i := range s.choices {
		s.choices[i].Reveal(out.Result.PerIndex[i])
	}
	s.outcome = &out
}

func (s *LessonScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	if s.errMsg != "" {
		return components.Message("\n\n"+s.errMsg, true, width)
	}
	if s.outcome != nil {
		return components.Centered(s.renderResult(cw), width)
	}
	if s.current >= len(s.choices) {
		return ""
	}

	progress := components.NewProgressBar("Question", s.current, len(s.choices), cw)
	body := progress.View() + "\n\n" + s.choices[s.current].View()
	return components.Centered(lipgloss.NewStyle().Width(cw).Render("\n"+body), width)
}

func (s *LessonScreen) renderResult(cw int) string {
	out := s.outcome
	res := out.Result

	var b strings.Builder
	b.WriteString("\n")
	pct := displayPercent(res.Correct, res.Total)
	verdict := theme.Incorrect.Render(fmt.Sprintf("Not yet: %s. You need %d%% to pass.", pct, quiz.PassThreshold))
	if res.Passed {
		verdict = theme.Correct.Render(fmt.Sprintf("Passed with %s!", pct))
	}
	b.WriteString(verdict + "\n")
	b.WriteString(theme.Hint.Render(fmt.Sprintf("%d of %d correct", res.Correct, res.Total)) + "\n\n")

	if out.Unit.XPGranted > 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Gold).Render(fmt.Sprintf("+%d XP", out.Unit.XPGranted)) + "\n")
	}
	for _, g := range out.NewlyUnlocked {
		grp, _ := s.engine.Catalog().Group(g)
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("Unlocked: "+grp.Title) + "\n")
	}
	for _, id := range out.NewlyCollectible {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Gold).Render("Badge ready to collect: "+id) + "\n")
	}
	b.WriteString("\n")

	for i, q := range s.unit.Quiz.Questions {
		mark := theme.Correct.Render("✓")
		if !res.PerIndex[i] {
			mark = theme.Incorrect.Render("✗")
		}
		b.WriteString(fmt.Sprintf("%s %s\n", mark, q.Prompt))
		if !res.PerIndex[i] && q.Explanation != "" {
			b.WriteString(theme.Hint.Render("   "+q.Explanation) + "\n")
		}
	}
	return lipgloss.NewStyle().Width(cw).Render(b.String())
}

// displayPercent renders correct/total as a percentage floored to one
// decimal, so a failing score never prints as the pass mark.
func displayPercent(correct, total int) string {
	if total <= 0 {
		return "0%"
	}
	tenths := correct * 1000 / total
	if tenths%10 == 0 {
		return fmt.Sprintf("%d%%", tenths/10)
	}
	return fmt.Sprintf("%d.%d%%", tenths/10, tenths%10)
}
