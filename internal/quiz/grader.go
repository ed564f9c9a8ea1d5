package quiz

import (
	"github.com/finquest/finquest/internal/apperr"
	"github.com/finquest/finquest/internal/progress"
)

// Recorder is the slice of the progress ledger the grader writes to.
type Recorder interface {
	RecordUnitCompletion(unitID string, score float64) (progress.UnitResult, error)
}

// Outcome is what one graded submission produced.
type Outcome struct {
	UnitID string
	Result Result
	Unit   progress.UnitResult
	// Badge is the unit's badge hint, set only when the attempt passed.
	Badge string
}

// Grader scores submissions and forwards the score to the ledger.
type Grader struct {
	rec Recorder
}

// NewGrader creates a grader bound to rec.
func NewGrader(rec Recorder) *Grader {
	return &Grader{rec: rec}
}

// Submit grades answers for the unit's quiz and records the attempt.
// An empty quiz cannot be submitted.
func (g *Grader) Submit(unitID string, q Quiz, answers []int) (Outcome, error) {
	if len(q.Questions) == 0 {
		return Outcome{}, apperr.Validation(apperr.ReasonInvalidScore, "unit %q has no questions", unitID)
	}

	res := Score(answers, q)
	ur, err := g.rec.RecordUnitCompletion(unitID, res.Percent)
	if err != nil {
		return Outcome{}, err
	}

	out := Outcome{UnitID: unitID, Result: res, Unit: ur}
	if res.Passed {
		out.Badge = q.Reward.Badge
	}
	return out, nil
}
