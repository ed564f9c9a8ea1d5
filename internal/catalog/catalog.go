package catalog

import (
	"fmt"
	"slices"
)

// unitRef locates a unit by group index and position within the group.
type unitRef struct {
	group int
	pos   int
}

// Catalog holds the learning content with indices built once at load.
type Catalog struct {
	version    string
	groups     []Group
	challenges []Challenge
	articles   []Article
	proposals  []Proposal

	groupIndex     map[string]int
	unitIndex      map[string]unitRef
	challengeIndex map[string]int
	articleIndex   map[string]int
	proposalIndex  map[string]int
}

// New validates the given content and builds the lookup indices.
func New(version string, groups []Group, challenges []Challenge, articles []Article, proposals []Proposal) (*Catalog, error) {
	if err := validate(groups, challenges, articles, proposals); err != nil {
		return nil, err
	}

	c := &Catalog{
		version:        version,
		groups:         groups,
		challenges:     challenges,
		articles:       articles,
		proposals:      proposals,
		groupIndex:     make(map[string]int, len(groups)),
		unitIndex:      make(map[string]unitRef),
		challengeIndex: make(map[string]int, len(challenges)),
		articleIndex:   make(map[string]int, len(articles)),
		proposalIndex:  make(map[string]int, len(proposals)),
	}
	for gi := range c.groups {
		g := &c.groups[gi]
		c.groupIndex[g.ID] = gi
		for ui := range g.Units {
			u := &g.Units[ui]
			// The quiz reward mirrors the unit so grading never consults two sources.
			u.Quiz.Reward.XP = u.XPReward
			u.Quiz.Reward.Badge = u.Badge
			c.unitIndex[u.ID] = unitRef{group: gi, pos: ui}
		}
	}
	for i, ch := range c.challenges {
		c.challengeIndex[ch.ID] = i
	}
	for i, a := range c.articles {
		c.articleIndex[a.ID] = i
	}
	for i, p := range c.proposals {
		c.proposalIndex[p.ID] = i
	}
	return c, nil
}

// Version returns the catalog's semantic version.
func (c *Catalog) Version() string { return c.version }

// Groups returns all groups in unlock order.
func (c *Catalog) Groups() []Group { return slices.Clone(c.groups) }

// Challenges returns all challenges in display order.
func (c *Catalog) Challenges() []Challenge { return slices.Clone(c.challenges) }

// Articles returns all news articles.
func (c *Catalog) Articles() []Article { return slices.Clone(c.articles) }

// Proposals returns all community proposals.
func (c *Catalog) Proposals() []Proposal { return slices.Clone(c.proposals) }

// Group returns a group by ID.
func (c *Catalog) Group(id string) (Group, bool) {
	i, ok := c.groupIndex[id]
	if !ok {
		return Group{}, false
	}
	return c.groups[i], true
}

// GroupIndex returns the position of a group in unlock order.
func (c *Catalog) GroupIndex(id string) (int, bool) {
	i, ok := c.groupIndex[id]
	return i, ok
}

// Unit returns a unit by ID.
func (c *Catalog) Unit(id string) (Unit, bool) {
	ref, ok := c.unitIndex[id]
	if !ok {
		return Unit{}, false
	}
	return c.groups[ref.group].Units[ref.pos], true
}

// GroupOf returns the ID of the group containing the unit.
func (c *Catalog) GroupOf(unitID string) (string, bool) {
	ref, ok := c.unitIndex[unitID]
	if !ok {
		return "", false
	}
	return c.groups[ref.group].ID, true
}

// Position returns the unit's index within its group.
func (c *Catalog) Position(unitID string) (int, bool) {
	ref, ok := c.unitIndex[unitID]
	if !ok {
		return 0, false
	}
	return ref.pos, true
}

// Previous returns the unit preceding unitID in its group. ok is false for
// the first unit of a group and for unknown units.
func (c *Catalog) Previous(unitID string) (Unit, bool) {
	ref, found := c.unitIndex[unitID]
	if !found || ref.pos == 0 {
		return Unit{}, false
	}
	return c.groups[ref.group].Units[ref.pos-1], true
}

// Challenge returns a challenge by ID.
func (c *Catalog) Challenge(id string) (Challenge, bool) {
	i, ok := c.challengeIndex[id]
	if !ok {
		return Challenge{}, false
	}
	return c.challenges[i], true
}

// Article returns an article by ID.
func (c *Catalog) Article(id string) (Article, bool) {
	i, ok := c.articleIndex[id]
	if !ok {
		return Article{}, false
	}
	return c.articles[i], true
}

// Proposal returns a proposal by ID.
func (c *Catalog) Proposal(id string) (Proposal, bool) {
	i, ok := c.proposalIndex[id]
	if !ok {
		return Proposal{}, false
	}
	return c.proposals[i], true
}

// UnitReward returns the XP reward for a unit.
func (c *Catalog) UnitReward(id string) (int, bool) {
	u, ok := c.Unit(id)
	return u.XPReward, ok
}

// ChallengeReward returns the XP reward for a challenge.
func (c *Catalog) ChallengeReward(id string) (int, bool) {
	ch, ok := c.Challenge(id)
	return ch.XPReward, ok
}

// UnitCount returns the total number of units across all groups.
func (c *Catalog) UnitCount() int {
	return len(c.unitIndex)
}

// CheckBadgeRefs verifies that every unit badge is known to the badge catalog.
func (c *Catalog) CheckBadgeRefs(known func(id string) bool) error {
	for _, g := range c.groups {
		for _, u := range g.Units {
			if u.Badge != "" && !known(u.Badge) {
				return fmt.Errorf("unit %q references unknown badge %q", u.ID, u.Badge)
			}
		}
	}
	return nil
}
