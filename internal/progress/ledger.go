// Package progress holds the learner's cumulative achievement. The Ledger is
// the only component allowed to mutate it.
package progress

import (
	"maps"
	"time"

	"github.com/finquest/finquest/internal/apperr"
)

// PassScore is the minimum unit score that marks a unit completed.
const PassScore = 70

// RewardTable resolves XP rewards for units and challenges.
type RewardTable interface {
	UnitReward(id string) (int, bool)
	ChallengeReward(id string) (int, bool)
}

// Ledger is the sole mutator of learner progress. XP and every completed
// set only ever grow.
type Ledger struct {
	rewards RewardTable

	xp              int
	streakDays      int
	lastActivity    time.Time
	completedUnits  map[string]struct{}
	completedChalls map[string]struct{}
	articlesRead    map[string]struct{}
	defiActions     map[string]struct{}
	votes           map[string]string         // proposalID → chosen option
	tallies         map[string]map[string]int // proposalID → option → count
}

// NewLedger creates an empty ledger.
func NewLedger(rewards RewardTable) *Ledger {
	return &Ledger{
		rewards:         rewards,
		completedUnits:  make(map[string]struct{}),
		completedChalls: make(map[string]struct{}),
		articlesRead:    make(map[string]struct{}),
		defiActions:     make(map[string]struct{}),
		votes:           make(map[string]string),
		tallies:         make(map[string]map[string]int),
	}
}

// UnitResult describes the effect of one RecordUnitCompletion call.
type UnitResult struct {
	UnitID         string
	Passed         bool
	NewlyCompleted bool
	XPGranted      int
}

// RecordUnitCompletion records a scored attempt at a unit. A score at or
// above PassScore marks the unit completed and grants its full reward once;
// a lower score grants half the reward (rounded down) and leaves the unit
// open for retry. Calls for an already completed unit have no effect.
func (l *Ledger) RecordUnitCompletion(unitID string, score float64) (UnitResult, error) {
	reward, ok := l.rewards.UnitReward(unitID)
	if !ok {
		return UnitResult{}, apperr.Validation(apperr.ReasonUnknownUnit, "unknown unit %q", unitID)
	}
	if score < 0 || score > 100 {
		return UnitResult{}, apperr.Validation(apperr.ReasonInvalidScore, "score %.2f outside [0, 100]", score)
	}

	res := UnitResult{UnitID: unitID, Passed: score >= PassScore}
	if _, done := l.completedUnits[unitID]; done {
		return res, nil
	}

	if res.Passed {
		l.completedUnits[unitID] = struct{}{}
		res.NewlyCompleted = true
		res.XPGranted = reward
	} else {
		res.XPGranted = reward / 2
	}
	l.xp += res.XPGranted
	return res, nil
}

// ChallengeResult describes the effect of one RecordChallengeCompletion call.
type ChallengeResult struct {
	ChallengeID  string
	Recorded     bool // false when the challenge was already completed
	Previous     int  // completed count before the call
	Current      int  // completed count after the call
	XPGranted    int
	CrossedQuota bool
}

// RecordChallengeCompletion adds a challenge to the completed set. boundary
// is the absolute completed count at which the escrow quota is met (0 when
// no escrow is waiting); CrossedQuota is true only for the call that moves
// the count from below boundary to at or above it.
func (l *Ledger) RecordChallengeCompletion(challengeID string, boundary int) (ChallengeResult, error) {
	reward, ok := l.rewards.ChallengeReward(challengeID)
	if !ok {
		return ChallengeResult{}, apperr.Validation(apperr.ReasonUnknownChallenge, "unknown challenge %q", challengeID)
	}

	prev := len(l.completedChalls)
	res := ChallengeResult{ChallengeID: challengeID, Previous: prev, Current: prev}
	if _, done := l.completedChalls[challengeID]; done {
		return res, nil
	}

	l.completedChalls[challengeID] = struct{}{}
	l.xp += reward
	res.Recorded = true
	res.Current = prev + 1
	res.XPGranted = reward
	res.CrossedQuota = boundary > 0 && prev < boundary && res.Current >= boundary
	return res, nil
}

// RecordArticleRead adds an article to the read set. Returns false if it was
// already read.
func (l *Ledger) RecordArticleRead(articleID string) bool {
	if _, ok := l.articlesRead[articleID]; ok {
		return false
	}
	l.articlesRead[articleID] = struct{}{}
	return true
}

// RecordDeFiAction adds a DeFi action key (wallet connect, escrow release,
// badge mint). Returns false if the action was already recorded.
func (l *Ledger) RecordDeFiAction(key string) bool {
	if _, ok := l.defiActions[key]; ok {
		return false
	}
	l.defiActions[key] = struct{}{}
	return true
}

// RecordVote records the learner's single vote on a proposal.
func (l *Ledger) RecordVote(proposalID, choice string) error {
	if prior, ok := l.votes[proposalID]; ok {
		return apperr.Invalid(apperr.ReasonAlreadyVoted, "already voted %q on %q", prior, proposalID)
	}
	l.votes[proposalID] = choice
	if l.tallies[proposalID] == nil {
		l.tallies[proposalID] = make(map[string]int)
	}
	l.tallies[proposalID][choice]++
	return nil
}

// RecordActivity updates the daily streak. Activity on the same calendar day
// changes nothing, the next day extends the streak, and any longer gap
// restarts it at 1.
func (l *Ledger) RecordActivity(now time.Time) {
	today := truncateDay(now)
	switch {
	case l.lastActivity.IsZero():
		l.streakDays = 1
	case today.Equal(l.lastActivity):
		return
	case today.Equal(l.lastActivity.AddDate(0, 0, 1)):
		l.streakDays++
	case today.Before(l.lastActivity):
		// Clock moved backwards; keep the streak as it is.
		return
	default:
		l.streakDays = 1
	}
	l.lastActivity = today
}

// XP returns the current XP total.
func (l *Ledger) XP() int { return l.xp }

// ChallengeCount returns the number of distinct completed challenges.
func (l *Ledger) ChallengeCount() int { return len(l.completedChalls) }

// IsUnitCompleted reports whether a unit is in the completed set.
func (l *Ledger) IsUnitCompleted(unitID string) bool {
	_, ok := l.completedUnits[unitID]
	return ok
}

// Snapshot returns an immutable copy of the current progress.
func (l *Ledger) Snapshot() Snapshot {
	tallies := make(map[string]map[string]int, len(l.tallies))
	for id, t := range l.tallies {
		tallies[id] = maps.Clone(t)
	}
	return Snapshot{
		xp:              l.xp,
		streakDays:      l.streakDays,
		lastActivity:    l.lastActivity,
		completedUnits:  maps.Clone(l.completedUnits),
		completedChalls: maps.Clone(l.completedChalls),
		articlesRead:    maps.Clone(l.articlesRead),
		defiActions:     maps.Clone(l.defiActions),
		votes:           maps.Clone(l.votes),
		tallies:         tallies,
	}
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
