package badges

import (
	"fmt"
	"slices"
	"strings"
)

// Badge is a static badge definition.
type Badge struct {
	ID        string
	Category  Category
	Tier      Tier
	Threshold int
	Name      string
}

// Counters exposes the per-category progress counters badges are measured
// against. progress.Snapshot satisfies it.
type Counters interface {
	CompletedChallengeCount() int
	CompletedUnitCount() int
	ArticlesReadCount() int
	DeFiActionCount() int
	VoteCount() int
}

// Counter returns the value of the counter backing category c.
func Counter(c Category, p Counters) int {
	switch c {
	case CategoryChallenges:
		return p.CompletedChallengeCount()
	case CategoryEducation:
		return p.CompletedUnitCount()
	case CategoryNews:
		return p.ArticlesReadCount()
	case CategoryDeFi:
		return p.DeFiActionCount()
	case CategoryCommunity:
		return p.VoteCount()
	default:
		return 0
	}
}

var defaultThresholds = map[Category][3]int{
	CategoryChallenges: {1, 3, 6},
	CategoryEducation:  {1, 6, 12},
	CategoryNews:       {1, 3, 5},
	CategoryDeFi:       {1, 3, 6},
	CategoryCommunity:  {1, 2, 3},
}

// DefaultBadges returns the built-in five categories by three tiers.
func DefaultBadges() []Badge {
	var out []Badge
	for _, c := range AllCategories() {
		th := defaultThresholds[c]
		for i, t := range AllTiers() {
			out = append(out, Badge{
				ID:        ID(c, t),
				Category:  c,
				Tier:      t,
				Threshold: th[i],
				Name:      t.DisplayName() + " " + c.DisplayName(),
			})
		}
	}
	return out
}

// Catalog is a validated, indexed set of badge definitions.
type Catalog struct {
	badges []Badge
	byID   map[string]int
}

// NewCatalog validates defs and builds a catalog. Thresholds must be
// positive and strictly increase with tier inside each category.
func NewCatalog(defs []Badge) (*Catalog, error) {
	var errs []string
	byID := make(map[string]int, len(defs))
	perCategory := make(map[Category][]Badge)

	for i, b := range defs {
		if b.ID == "" {
			errs = append(errs, fmt.Sprintf("badge %d: empty id", i))
			continue
		}
		if _, dup := byID[b.ID]; dup {
			errs = append(errs, fmt.Sprintf("badge %q: duplicate id", b.ID))
			continue
		}
		if b.Tier.rank() < 0 {
			errs = append(errs, fmt.Sprintf("badge %q: unknown tier %q", b.ID, b.Tier))
		}
		if !slices.Contains(AllCategories(), b.Category) {
			errs = append(errs, fmt.Sprintf("badge %q: unknown category %q", b.ID, b.Category))
		}
		if b.Threshold <= 0 {
			errs = append(errs, fmt.Sprintf("badge %q: threshold must be positive", b.ID))
		}
		byID[b.ID] = i
		perCategory[b.Category] = append(perCategory[b.Category], b)
	}

	for c, list := range perCategory {
		slices.SortFunc(list, func(a, b Badge) int { return a.Tier.rank() - b.Tier.rank() })
		for i := 1; i < len(list); i++ {
			if list[i].Tier == list[i-1].Tier {
				errs = append(errs, fmt.Sprintf("category %q: tier %q defined twice", c, list[i].Tier))
			} else if list[i].Threshold <= list[i-1].Threshold {
				errs = append(errs, fmt.Sprintf("category %q: %s threshold %d not above %s threshold %d",
					c, list[i].Tier, list[i].Threshold, list[i-1].Tier, list[i-1].Threshold))
			}
		}
	}

	if len(errs) > 0 {
		slices.Sort(errs)
		return nil, fmt.Errorf("badge validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return &Catalog{badges: slices.Clone(defs), byID: byID}, nil
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := NewCatalog(DefaultBadges())
	if err != nil {
		panic(err)
	}
	return c
}

// All returns every badge in definition order.
func (c *Catalog) All() []Badge { return slices.Clone(c.badges) }

// Badge returns the definition with the given ID.
func (c *Catalog) Badge(id string) (Badge, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Badge{}, false
	}
	return c.badges[i], true
}

// Known reports whether id names a badge.
func (c *Catalog) Known(id string) bool {
	_, ok := c.byID[id]
	return ok
}
