package progress

import (
	"maps"
	"slices"
	"time"
)

// Snapshot is a read-only view of learner progress. It shares no memory
// with the Ledger it was taken from.
type Snapshot struct {
	xp              int
	streakDays      int
	lastActivity    time.Time
	completedUnits  map[string]struct{}
	completedChalls map[string]struct{}
	articlesRead    map[string]struct{}
	defiActions     map[string]struct{}
	votes           map[string]string
	tallies         map[string]map[string]int
}

func (s Snapshot) XP() int                 { return s.xp }
func (s Snapshot) StreakDays() int         { return s.streakDays }
func (s Snapshot) LastActivity() time.Time { return s.lastActivity }

// CompletedUnitCount returns the cumulative completed-unit count across all groups.
func (s Snapshot) CompletedUnitCount() int { return len(s.completedUnits) }

// CompletedChallengeCount returns the number of distinct completed challenges.
func (s Snapshot) CompletedChallengeCount() int { return len(s.completedChalls) }

// ArticlesReadCount returns the number of distinct articles read.
func (s Snapshot) ArticlesReadCount() int { return len(s.articlesRead) }

// DeFiActionCount returns the number of distinct DeFi actions.
func (s Snapshot) DeFiActionCount() int { return len(s.defiActions) }

// VoteCount returns the number of proposals voted on.
func (s Snapshot) VoteCount() int { return len(s.votes) }

// UnitCompleted reports whether the unit is completed.
func (s Snapshot) UnitCompleted(id string) bool {
	_, ok := s.completedUnits[id]
	return ok
}

// ChallengeCompleted reports whether the challenge is completed.
func (s Snapshot) ChallengeCompleted(id string) bool {
	_, ok := s.completedChalls[id]
	return ok
}

// ArticleRead reports whether the article has been read.
func (s Snapshot) ArticleRead(id string) bool {
	_, ok := s.articlesRead[id]
	return ok
}

// Vote returns the learner's choice on a proposal.
func (s Snapshot) Vote(proposalID string) (string, bool) {
	v, ok := s.votes[proposalID]
	return v, ok
}

// Tally returns a copy of the vote counts for a proposal.
func (s Snapshot) Tally(proposalID string) map[string]int {
	return maps.Clone(s.tallies[proposalID])
}

// CompletedUnits returns the completed unit IDs in sorted order.
func (s Snapshot) CompletedUnits() []string { return sortedKeys(s.completedUnits) }

// CompletedChallenges returns the completed challenge IDs in sorted order.
func (s Snapshot) CompletedChallenges() []string { return sortedKeys(s.completedChalls) }

// ArticlesRead returns the read article IDs in sorted order.
func (s Snapshot) ArticlesRead() []string { return sortedKeys(s.articlesRead) }

// DeFiActions returns the DeFi action keys in sorted order.
func (s Snapshot) DeFiActions() []string { return sortedKeys(s.defiActions) }

// Votes returns a copy of proposalID → choice.
func (s Snapshot) Votes() map[string]string { return maps.Clone(s.votes) }

func sortedKeys(m map[string]struct{}) []string {
	return slices.Sorted(maps.Keys(m))
}
