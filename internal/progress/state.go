package progress

import (
	"maps"
	"time"
)

// State is the serializable form of a ledger, used for persistence and for
// seeding a session with imported progress.
type State struct {
	XP                  int                       `json:"xp"`
	StreakDays          int                       `json:"streak_days"`
	LastActivity        *time.Time                `json:"last_activity,omitempty"`
	CompletedUnits      []string                  `json:"completed_units"`
	CompletedChallenges []string                  `json:"completed_challenges"`
	ArticlesRead        []string                  `json:"articles_read,omitempty"`
	DeFiActions         []string                  `json:"defi_actions,omitempty"`
	Votes               map[string]string         `json:"votes,omitempty"`
	Tallies             map[string]map[string]int `json:"tallies,omitempty"`
}

// Export captures the ledger's state.
func (s Snapshot) Export() State {
	st := State{
		XP:                  s.xp,
		StreakDays:          s.streakDays,
		CompletedUnits:      s.CompletedUnits(),
		CompletedChallenges: s.CompletedChallenges(),
		ArticlesRead:        s.ArticlesRead(),
		DeFiActions:         s.DeFiActions(),
		Votes:               maps.Clone(s.votes),
	}
	if !s.lastActivity.IsZero() {
		t := s.lastActivity
		st.LastActivity = &t
	}
	if len(s.tallies) > 0 {
		st.Tallies = make(map[string]map[string]int, len(s.tallies))
		for id, t := range s.tallies {
			st.Tallies[id] = maps.Clone(t)
		}
	}
	return st
}

// RestoreLedger builds a ledger from a saved state. Units and challenges the
// reward table no longer knows are dropped.
func RestoreLedger(rewards RewardTable, st State) *Ledger {
	l := NewLedger(rewards)
	l.xp = max(st.XP, 0)
	l.streakDays = max(st.StreakDays, 0)
	if st.LastActivity != nil {
		l.lastActivity = truncateDay(*st.LastActivity)
	}
	for _, id := range st.CompletedUnits {
		if _, ok := rewards.UnitReward(id); ok {
			l.completedUnits[id] = struct{}{}
		}
	}
	for _, id := range st.CompletedChallenges {
		if _, ok := rewards.ChallengeReward(id); ok {
			l.completedChalls[id] = struct{}{}
		}
	}
	for _, id := range st.ArticlesRead {
		l.articlesRead[id] = struct{}{}
	}
	for _, key := range st.DeFiActions {
		l.defiActions[key] = struct{}{}
	}
	for id, choice := range st.Votes {
		l.votes[id] = choice
	}
	for id, t := range st.Tallies {
		l.tallies[id] = maps.Clone(t)
	}
	return l
}
