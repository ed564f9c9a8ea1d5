package catalog

import "github.com/finquest/finquest/internal/quiz"

// Unit is a single learning unit inside a module group.
type Unit struct {
	ID       string
	Title    string
	Summary  string
	XPReward int
	Badge    string // optional badge granted on completion
	Quiz     quiz.Quiz
}

// Group is an ordered collection of units sharing one unlock threshold.
// UnlockThreshold counts completed units across every group.
type Group struct {
	ID              string
	Title           string
	UnlockThreshold int
	Units           []Unit
}

// Challenge is a standalone task that counts toward the escrow quota.
type Challenge struct {
	ID          string
	Title       string
	Description string
	XPReward    int
}

// Article is a news item the learner can read.
type Article struct {
	ID     string
	Title  string
	Source string
}

// Proposal is a community vote.
type Proposal struct {
	ID      string
	Title   string
	Choices []string
}
