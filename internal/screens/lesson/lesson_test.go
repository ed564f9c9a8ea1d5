package lesson

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finquest/finquest/internal/catalog"
	"github.com/finquest/finquest/internal/engine"
	"github.com/finquest/finquest/internal/router"
)

func newLesson(t *testing.T) (*LessonScreen, *engine.Engine, catalog.Unit) {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	eng := engine.New(engine.Deps{Catalog: cat})
	u := cat.Groups()[0].Units[0]
	require.Len(t, u.Quiz.Questions, 3)
	return New(eng, u), eng, u
}

// answer moves the cursor to option idx and confirms it.
func answer(s *LessonScreen, idx int) {
	for range idx {
		s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
}

func wrong(u catalog.Unit, i int) int {
	q := u.Quiz.Questions[i]
	return (q.CorrectIndex + 1) % len(q.Options)
}

func TestTwoOfThreeFailsWithHalfXP(t *testing.T) {
	s, eng, u := newLesson(t)

	answer(s, u.Quiz.Questions[0].CorrectIndex)
	answer(s, u.Quiz.Questions[1].CorrectIndex)
	require.Nil(t, s.outcome, "nothing is submitted before the last answer")
	answer(s, wrong(u, 2))

	require.NotNil(t, s.outcome)
	res := s.outcome.Result
	assert.False(t, res.Passed)
	assert.Equal(t, 2, res.Correct)
	assert.Equal(t, []bool{true, true, false}, res.PerIndex)
	assert.Equal(t, u.XPReward/2, s.outcome.Unit.XPGranted)
	assert.Equal(t, u.XPReward/2, eng.Progress().XP)
	assert.Zero(t, eng.Progress().CompletedUnits)

	view := s.View(100, 40)
	assert.Contains(t, view, "Not yet")
	assert.Contains(t, view, "66.6%")
}

func TestRetryAfterFail(t *testing.T) {
	s, eng, u := newLesson(t)
	for i := range u.Quiz.Questions {
		answer(s, wrong(u, i))
	}
	require.NotNil(t, s.outcome)
	require.False(t, s.outcome.Result.Passed)

	s.Update(tea.KeyPressMsg{Code: 'r'})
	assert.Nil(t, s.outcome)
	assert.Zero(t, s.current)
	for _, c := range s.choices {
		assert.False(t, c.Answered())
	}

	for _, q := range u.Quiz.Questions {
		answer(s, q.CorrectIndex)
	}
	require.NotNil(t, s.outcome)
	assert.True(t, s.outcome.Result.Passed)
	assert.Equal(t, u.XPReward/2+u.XPReward, eng.Progress().XP)
	assert.Equal(t, 1, eng.Progress().CompletedUnits)
}

func TestRetryIgnoredAfterPass(t *testing.T) {
	s, _, u := newLesson(t)
	for _, q := range u.Quiz.Questions {
		answer(s, q.CorrectIndex)
	}
	require.True(t, s.outcome.Result.Passed)

	s.Update(tea.KeyPressMsg{Code: 'r'})
	assert.NotNil(t, s.outcome)

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	_, ok := cmd().(router.PopScreenMsg)
	assert.True(t, ok)
}

func TestDisplayPercent(t *testing.T) {
	tests := []struct {
		correct, total int
		want           string
	}{
		{2, 3, "66.6%"},
		{139, 200, "69.5%"},
		{1399, 2000, "69.9%"},
		{7, 10, "70%"},
		{3, 3, "100%"},
		{0, 0, "0%"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, displayPercent(tt.correct, tt.total), "%d/%d", tt.correct, tt.total)
	}
}
