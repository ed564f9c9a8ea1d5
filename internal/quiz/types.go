package quiz

import "github.com/finquest/finquest/internal/progress"

// PassThreshold is the minimum percentage needed to pass a quiz. It is the
// same line the ledger uses to mark a unit completed.
const PassThreshold = progress.PassScore

// Question is a single multiple-choice question.
type Question struct {
	Prompt       string
	Options      []string
	CorrectIndex int
	Explanation  string // shown after answering; may be empty
}

// Reward is what a passing submission earns.
type Reward struct {
	XP    int
	Badge string // optional badge ID re-evaluated on pass
}

// Quiz is the assessment attached to a learning unit.
type Quiz struct {
	Questions []Question
	Reward    Reward
}

// Result is the outcome of scoring one submission.
type Result struct {
	Correct  int
	Total    int
	Percent  float64 // unrounded correct/total*100
	Passed   bool
	PerIndex []bool // per-question correctness, len == Total
}

// Fraction returns correct/total, or 0 for an empty quiz.
func (r Result) Fraction() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Total)
}
