package badges

import (
	"maps"
	"slices"
	"time"

	"github.com/finquest/finquest/internal/apperr"
)

// Book tracks which badges the learner has collected. Collected badges are
// permanent: nothing removes them once added.
type Book struct {
	catalog   *Catalog
	collected map[string]time.Time
}

// NewBook creates an empty book over catalog.
func NewBook(catalog *Catalog) *Book {
	return &Book{catalog: catalog, collected: make(map[string]time.Time)}
}

// Catalog returns the catalog the book evaluates against.
func (b *Book) Catalog() *Catalog { return b.catalog }

// Status derives one badge's status. Meeting the threshold only makes a badge
// collectible; it is Earned after Collect.
func (b *Book) Status(badge Badge, p Counters) Status {
	if _, ok := b.collected[badge.ID]; ok {
		return StatusEarned
	}
	if Counter(badge.Category, p) >= badge.Threshold {
		return StatusInProgress
	}
	return StatusLocked
}

// Evaluate derives every badge's status. Each tier is judged on its own
// threshold, so several tiers may become collectible in a single call.
func (b *Book) Evaluate(p Counters) map[string]Status {
	out := make(map[string]Status, len(b.catalog.badges))
	for _, badge := range b.catalog.badges {
		out[badge.ID] = b.Status(badge, p)
	}
	return out
}

// CanCollect reports why id cannot be collected yet, or nil.
func (b *Book) CanCollect(id string, p Counters) error {
	badge, ok := b.catalog.Badge(id)
	if !ok {
		return apperr.Validation(apperr.ReasonUnknownBadge, "unknown badge %q", id)
	}
	switch b.Status(badge, p) {
	case StatusEarned:
		return apperr.Invalid(apperr.ReasonAlreadyCollected, "badge %q already collected", id)
	case StatusLocked:
		return apperr.Invalid(apperr.ReasonThresholdNotMet, "badge %q needs %d, have %d",
			id, badge.Threshold, Counter(badge.Category, p))
	}
	return nil
}

// Collect marks id as Earned after checking CanCollect.
func (b *Book) Collect(id string, p Counters, now time.Time) (Badge, error) {
	if err := b.CanCollect(id, p); err != nil {
		return Badge{}, err
	}
	b.collected[id] = now
	badge, _ := b.catalog.Badge(id)
	return badge, nil
}

// IsCollected reports whether id has been collected.
func (b *Book) IsCollected(id string) bool {
	_, ok := b.collected[id]
	return ok
}

// CollectedAt returns when id was collected.
func (b *Book) CollectedAt(id string) (time.Time, bool) {
	t, ok := b.collected[id]
	return t, ok
}

// Collected returns the collected badge IDs, sorted.
func (b *Book) Collected() []string {
	return slices.Sorted(maps.Keys(b.collected))
}

// Snapshot is the read-only badge view handed to the presentation layer.
type Snapshot struct {
	StatusByID map[string]Status
}

// Snapshot evaluates every badge against p.
func (b *Book) Snapshot(p Counters) Snapshot {
	return Snapshot{StatusByID: b.Evaluate(p)}
}

// Count returns how many badges have status s.
func (s Snapshot) Count(st Status) int {
	n := 0
	for _, v := range s.StatusByID {
		if v == st {
			n++
		}
	}
	return n
}

// NewlyCollectible returns badges that are InProgress in after but were
// Locked in before, sorted.
func NewlyCollectible(before, after Snapshot) []string {
	var out []string
	for id, st := range after.StatusByID {
		if st == StatusInProgress && before.StatusByID[id] == StatusLocked {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return out
}

// State is the persisted form of a Book.
type State struct {
	Collected map[string]time.Time `json:"collected"`
}

// Export returns the persisted form of the book.
func (b *Book) Export() State {
	return State{Collected: maps.Clone(b.collected)}
}

// Restore rebuilds a book from st. Unknown badge IDs are dropped.
func Restore(catalog *Catalog, st State) *Book {
	b := NewBook(catalog)
	for id, at := range st.Collected {
		if catalog.Known(id) {
			b.collected[id] = at
		}
	}
	return b
}
