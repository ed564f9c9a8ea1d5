// Package escrow implements the conditional value release: an amount is
// locked against a challenge quota, becomes ready once the quota is met, and
// is released by an explicit action.
package escrow

import (
	"time"

	"github.com/google/uuid"

	"github.com/finquest/finquest/internal/apperr"
)

// Status is the escrow lifecycle state.
type Status string

const (
	StatusLocked   Status = "locked"
	StatusReady    Status = "ready"
	StatusReleased Status = "released" // terminal
)

var (
	ErrNotReady        = apperr.Invalid(apperr.ReasonNotReady, "escrow quota not yet met")
	ErrAlreadyReleased = apperr.Invalid(apperr.ReasonAlreadyReleased, "escrow already released")
	ErrInvalidAmount   = apperr.Validation(apperr.ReasonInvalidAmount, "locked amount must be positive")
	ErrInvalidQuota    = apperr.Validation(apperr.ReasonInvalidQuota, "required challenge count must be positive")
)

// Escrow is a locked reward amount tied to a challenge quota.
//
// Challenges are counted from the moment of locking: Baseline is the
// learner's completed-challenge total when the escrow was created.
type Escrow struct {
	ID            string
	LockedAmount  int64
	RequiredCount int
	Baseline      int
	Status        Status
	LockedAt      time.Time
	ReadyAt       *time.Time
	ReleasedAt    *time.Time

	completed int // challenges since lock, capped at RequiredCount
}

// Transition records a state change for notification and logging.
type Transition struct {
	EscrowID string
	From     Status
	To       Status
	Amount   int64
}

// Lock creates an escrow in the Locked state. total is the learner's current
// completed-challenge count, used as the baseline.
func Lock(amount int64, required, total int, now time.Time) (*Escrow, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if required <= 0 {
		return nil, ErrInvalidQuota
	}
	return &Escrow{
		ID:            uuid.NewString(),
		LockedAmount:  amount,
		RequiredCount: required,
		Baseline:      total,
		Status:        StatusLocked,
		LockedAt:      now,
	}, nil
}

// Boundary is the absolute completed-challenge total at which the quota is met.
func (e *Escrow) Boundary() int {
	return e.Baseline + e.RequiredCount
}

// CompletedCount returns challenges completed since lock, capped at the quota.
func (e *Escrow) CompletedCount() int {
	return e.completed
}

// Advance applies a change in the learner's completed-challenge total from
// prevTotal to curTotal. The Locked→Ready transition fires only for the call
// whose previous count is below the quota and whose new count reaches it, so
// repeated or out-of-order calls can never fire it twice.
func (e *Escrow) Advance(prevTotal, curTotal int, now time.Time) *Transition {
	if e.Status == StatusReleased {
		return nil
	}
	prev := e.sinceLock(prevTotal)
	cur := e.sinceLock(curTotal)
	if cur > e.completed {
		e.completed = cur
	}
	if e.Status != StatusLocked || !(prev < e.RequiredCount && cur >= e.RequiredCount) {
		return nil
	}
	e.Status = StatusReady
	e.ReadyAt = &now
	return &Transition{EscrowID: e.ID, From: StatusLocked, To: StatusReady, Amount: e.LockedAmount}
}

// CanRelease reports whether Release would succeed.
func (e *Escrow) CanRelease() error {
	switch e.Status {
	case StatusLocked:
		return ErrNotReady
	case StatusReleased:
		return ErrAlreadyReleased
	}
	return nil
}

// Release moves a Ready escrow to Released. Any other state is rejected and
// left unchanged.
func (e *Escrow) Release(now time.Time) (*Transition, error) {
	if err := e.CanRelease(); err != nil {
		return nil, err
	}
	e.Status = StatusReleased
	e.ReleasedAt = &now
	return &Transition{EscrowID: e.ID, From: StatusReady, To: StatusReleased, Amount: e.LockedAmount}, nil
}

// Snapshot is the read-only escrow view for the presentation layer.
type Snapshot struct {
	ID             string
	Status         Status
	LockedAmount   int64
	RequiredCount  int
	CompletedCount int
}

// Snapshot returns the presentation view.
func (e *Escrow) Snapshot() Snapshot {
	return Snapshot{
		ID:             e.ID,
		Status:         e.Status,
		LockedAmount:   e.LockedAmount,
		RequiredCount:  e.RequiredCount,
		CompletedCount: e.completed,
	}
}

func (e *Escrow) sinceLock(total int) int {
	n := total - e.Baseline
	if n < 0 {
		return 0
	}
	return min(n, e.RequiredCount)
}
