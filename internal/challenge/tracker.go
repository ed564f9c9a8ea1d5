// Package challenge records challenge completions and feeds the escrow quota.
package challenge

import (
	"time"

	"github.com/finquest/finquest/internal/escrow"
	"github.com/finquest/finquest/internal/progress"
)

// Tracker records challenge completions through the ledger and advances the
// attached escrow, if any.
type Tracker struct {
	ledger *progress.Ledger
	escrow *escrow.Escrow
}

// NewTracker creates a tracker over the given ledger.
func NewTracker(ledger *progress.Ledger) *Tracker {
	return &Tracker{ledger: ledger}
}

// Attach points the tracker at the escrow whose quota it should advance.
// Passing nil detaches.
func (t *Tracker) Attach(e *escrow.Escrow) {
	t.escrow = e
}

// Completion is the outcome of one Complete call.
type Completion struct {
	progress.ChallengeResult
	Transition *escrow.Transition // non-nil when this call made the escrow ready
}

// Complete records a challenge. Completing an already recorded challenge is
// a no-op and never advances the escrow.
func (t *Tracker) Complete(challengeID string, now time.Time) (Completion, error) {
	boundary := 0
	if t.escrow != nil && t.escrow.Status == escrow.StatusLocked {
		boundary = t.escrow.Boundary()
	}

	res, err := t.ledger.RecordChallengeCompletion(challengeID, boundary)
	if err != nil {
		return Completion{}, err
	}

	c := Completion{ChallengeResult: res}
	if res.Recorded && t.escrow != nil {
		c.Transition = t.escrow.Advance(res.Previous, res.Current, now)
	}
	return c, nil
}

// Total returns the uncapped number of distinct completed challenges. It
// drives badge and XP progress independently of any escrow.
func (t *Tracker) Total() int {
	return t.ledger.ChallengeCount()
}

// CurrentCount returns the escrow-facing count, capped at the attached
// escrow's quota. Without an escrow it equals Total.
func (t *Tracker) CurrentCount() int {
	if t.escrow == nil {
		return t.Total()
	}
	return t.escrow.CompletedCount()
}
