// Package unlock decides which module groups and units a learner can access.
// Everything here is a pure function of the catalog and a progress snapshot.
package unlock

import (
	"github.com/finquest/finquest/internal/catalog"
	"github.com/finquest/finquest/internal/progress"
)

// UnitStatus is the derived state of a unit.
type UnitStatus string

const (
	UnitLocked     UnitStatus = "locked"
	UnitInProgress UnitStatus = "in-progress" // selectable, not yet completed
	UnitCompleted  UnitStatus = "completed"
)

// Progress is the subset of a progress snapshot the policy reads.
type Progress interface {
	CompletedUnitCount() int
	UnitCompleted(id string) bool
}

var _ Progress = progress.Snapshot{}

// GroupUnlocked reports whether a group is accessible. The first group is
// always unlocked; every other group unlocks once the completed-unit count
// across all groups reaches its threshold.
func GroupUnlocked(c *catalog.Catalog, groupID string, p Progress) bool {
	idx, ok := c.GroupIndex(groupID)
	if !ok {
		return false
	}
	if idx == 0 {
		return true
	}
	g, _ := c.Group(groupID)
	return p.CompletedUnitCount() >= g.UnlockThreshold
}

// Status returns the derived status of a unit. A completed unit reports
// UnitCompleted even when its group is no longer reachable.
func Status(c *catalog.Catalog, unitID string, p Progress) UnitStatus {
	if p.UnitCompleted(unitID) {
		return UnitCompleted
	}
	if Selectable(c, unitID, p) {
		return UnitInProgress
	}
	return UnitLocked
}

// Selectable reports whether the learner may open a unit: its group is
// unlocked and it is either the first unit or its predecessor is completed.
func Selectable(c *catalog.Catalog, unitID string, p Progress) bool {
	groupID, ok := c.GroupOf(unitID)
	if !ok || !GroupUnlocked(c, groupID, p) {
		return false
	}
	prev, hasPrev := c.Previous(unitID)
	return !hasPrev || p.UnitCompleted(prev.ID)
}

// Result is a full evaluation of the catalog against one snapshot.
type Result struct {
	Groups map[string]bool
	Units  map[string]UnitStatus
}

// Evaluate computes every group and unit status in a single pass. Progress
// that already exceeds several thresholds unlocks all qualifying groups at
// once.
func Evaluate(c *catalog.Catalog, p Progress) Result {
	res := Result{
		Groups: make(map[string]bool),
		Units:  make(map[string]UnitStatus, c.UnitCount()),
	}
	completed := p.CompletedUnitCount()
	for i, g := range c.Groups() {
		unlocked := i == 0 || completed >= g.UnlockThreshold
		res.Groups[g.ID] = unlocked
		for j, u := range g.Units {
			switch {
			case p.UnitCompleted(u.ID):
				res.Units[u.ID] = UnitCompleted
			case unlocked && (j == 0 || p.UnitCompleted(g.Units[j-1].ID)):
				res.Units[u.ID] = UnitInProgress
			default:
				res.Units[u.ID] = UnitLocked
			}
		}
	}
	return res
}

// NextUnlock returns the first locked group and how many more completed
// units it needs. ok is false when every group is unlocked.
func NextUnlock(c *catalog.Catalog, p Progress) (groupID string, remaining int, ok bool) {
	completed := p.CompletedUnitCount()
	for i, g := range c.Groups() {
		if i == 0 {
			continue
		}
		if completed < g.UnlockThreshold {
			return g.ID, g.UnlockThreshold - completed, true
		}
	}
	return "", 0, false
}
