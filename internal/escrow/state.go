package escrow

import "time"

// State is the serializable form of an escrow.
type State struct {
	ID             string     `json:"id"`
	LockedAmount   int64      `json:"locked_amount"`
	RequiredCount  int        `json:"required_count"`
	Baseline       int        `json:"baseline"`
	CompletedCount int        `json:"completed_count"`
	Status         string     `json:"status"`
	LockedAt       time.Time  `json:"locked_at"`
	ReadyAt        *time.Time `json:"ready_at,omitempty"`
	ReleasedAt     *time.Time `json:"released_at,omitempty"`
}

// Export captures the escrow's state.
func (e *Escrow) Export() State {
	return State{
		ID:             e.ID,
		LockedAmount:   e.LockedAmount,
		RequiredCount:  e.RequiredCount,
		Baseline:       e.Baseline,
		CompletedCount: e.completed,
		Status:         string(e.Status),
		LockedAt:       e.LockedAt,
		ReadyAt:        e.ReadyAt,
		ReleasedAt:     e.ReleasedAt,
	}
}

// Restore rebuilds an escrow from saved state. The status is re-derived so
// the Ready invariant holds even for hand-edited state.
func Restore(st State) (*Escrow, error) {
	if st.LockedAmount <= 0 {
		return nil, ErrInvalidAmount
	}
	if st.RequiredCount <= 0 {
		return nil, ErrInvalidQuota
	}
	e := &Escrow{
		ID:            st.ID,
		LockedAmount:  st.LockedAmount,
		RequiredCount: st.RequiredCount,
		Baseline:      st.Baseline,
		LockedAt:      st.LockedAt,
		ReadyAt:       st.ReadyAt,
		ReleasedAt:    st.ReleasedAt,
		completed:     min(max(st.CompletedCount, 0), st.RequiredCount),
	}
	switch {
	case Status(st.Status) == StatusReleased:
		e.Status = StatusReleased
	case e.completed >= e.RequiredCount:
		e.Status = StatusReady
	default:
		e.Status = StatusLocked
	}
	return e, nil
}
