package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finquest/finquest/internal/apperr"
	"github.com/finquest/finquest/internal/progress"
)

func threeQuestions() Quiz {
	q := Question{Prompt: "?", Options: []string{"a", "b", "c"}, CorrectIndex: 1}
	return Quiz{Questions: []Question{q, q, q}, Reward: Reward{XP: 50, Badge: "education-baby"}}
}

func tenQuestions() Quiz {
	q := Question{Prompt: "?", Options: []string{"a", "b"}, CorrectIndex: 0}
	qs := make([]Question, 10)
	for i := range qs {
		qs[i] = q
	}
	return Quiz{Questions: qs}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name    string
		quiz    Quiz
		answers []int
		correct int
		passed  bool
	}{
		{"all correct", threeQuestions(), []int{1, 1, 1}, 3, true},
		{"two of three", threeQuestions(), []int{1, 1, 0}, 2, false},
		{"missing answers", threeQuestions(), []int{1}, 1, false},
		{"out of range", threeQuestions(), []int{1, 9, -1}, 1, false},
		{"exactly seventy", tenQuestions(), []int{0, 0, 0, 0, 0, 0, 0, 1, 1, 1}, 7, true},
		{"sixty nine", tenQuestions(), []int{0, 0, 0, 0, 0, 0, 1, 1, 1, 1}, 6, false},
		{"empty quiz", Quiz{}, nil, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Score(tt.answers, tt.quiz)
			assert.Equal(t, tt.correct, res.Correct)
			assert.Equal(t, tt.passed, res.Passed)
			assert.Len(t, res.PerIndex, len(tt.quiz.Questions))
		})
	}
}

func TestScore_PercentUnrounded(t *testing.T) {
	res := Score([]int{1, 1, 0}, threeQuestions())
	assert.InDelta(t, 66.666, res.Percent, 0.01)
	assert.False(t, res.Passed)

	res = Score([]int{0, 0, 0, 0, 0, 0, 0, 1, 1, 1}, tenQuestions())
	assert.Equal(t, 70.0, res.Percent)
}

type rewards map[string]int

func (r rewards) UnitReward(id string) (int, bool) {
	xp, ok := r[id]
	return xp, ok
}

func (r rewards) ChallengeReward(string) (int, bool) { return 0, false }

func TestGrader_Submit(t *testing.T) {
	ledger := progress.NewLedger(rewards{"budgeting-101": 50})
	g := NewGrader(ledger)

	out, err := g.Submit("budgeting-101", threeQuestions(), []int{1, 1, 0})
	require.NoError(t, err)
	assert.False(t, out.Result.Passed)
	assert.Equal(t, 25, out.Unit.XPGranted)
	assert.Empty(t, out.Badge)
	assert.False(t, ledger.IsUnitCompleted("budgeting-101"))

	out, err = g.Submit("budgeting-101", threeQuestions(), []int{1, 1, 1})
	require.NoError(t, err)
	assert.True(t, out.Unit.NewlyCompleted)
	assert.Equal(t, 50, out.Unit.XPGranted)
	assert.Equal(t, "education-baby", out.Badge)
	assert.Equal(t, 75, ledger.XP())
}

func TestGrader_Errors(t *testing.T) {
	ledger := progress.NewLedger(rewards{"budgeting-101": 50})
	g := NewGrader(ledger)

	_, err := g.Submit("budgeting-101", Quiz{}, nil)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = g.Submit("nope", threeQuestions(), []int{1, 1, 1})
	assert.Equal(t, apperr.ReasonUnknownUnit, apperr.ReasonOf(err))
	assert.Zero(t, ledger.XP())
}
