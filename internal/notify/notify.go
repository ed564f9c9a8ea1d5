// Package notify turns engine transitions into one-shot celebrations.
package notify

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind identifies what a celebration is for.
type Kind string

const (
	KindBadgeEarned    Kind = "badge-earned"
	KindEscrowReady    Kind = "escrow-ready"
	KindEscrowReleased Kind = "escrow-released"
)

// Celebration is a single displayable notification.
type Celebration struct {
	ID   string
	Kind Kind
	// Key identifies the logical transition. Two celebrations with the same
	// key describe the same transition.
	Key     string
	Title   string
	Message string
	At      time.Time
}

// BadgeKey returns the transition key for a badge reaching Earned.
func BadgeKey(badgeID string) string { return "badge:" + badgeID }

// EscrowReadyKey returns the transition key for an escrow reaching Ready.
func EscrowReadyKey(escrowID string) string { return "escrow-ready:" + escrowID }

// EscrowReleasedKey returns the transition key for an escrow reaching Released.
func EscrowReleasedKey(escrowID string) string { return "escrow-released:" + escrowID }

// Notifier queues celebrations. A key is accepted at most once for the life
// of the notifier, so a dropped celebration is never offered again.
type Notifier struct {
	mu      sync.Mutex
	queue   []Celebration
	seen    map[string]struct{}
	dropped int
}

// New creates an empty notifier.
func New() *Notifier {
	return &Notifier{seen: make(map[string]struct{})}
}

// Publish enqueues c unless its key was already seen. It assigns an ID when
// c has none and reports whether c was enqueued.
func (n *Notifier) Publish(c Celebration) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, ok := n.seen[c.Key]; ok {
		return false
	}
	n.seen[c.Key] = struct{}{}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	n.queue = append(n.queue, c)
	return true
}

// Next pops the oldest pending celebration.
func (n *Notifier) Next() (Celebration, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if len(n.queue) == 0 {
		return Celebration{}, false
	}
	c := n.queue[0]
	n.queue = n.queue[1:]
	return c, true
}

// Pending returns the number of queued celebrations.
func (n *Notifier) Pending() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.queue)
}

// DropPending discards every queued celebration and returns how many were
// dropped. Their keys stay seen.
func (n *Notifier) DropPending() int {
	n.mu.Lock()
	defer n.mu.Unlock()

	d := len(n.queue)
	n.queue = nil
	n.dropped += d
	return d
}

// Dropped returns the total number of celebrations discarded so far.
func (n *Notifier) Dropped() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.dropped
}

// Seen reports whether key was ever published.
func (n *Notifier) Seen(key string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, ok := n.seen[key]
	return ok
}

// SeenKeys returns every published key, sorted. The queue itself is never
// part of persisted state.
func (n *Notifier) SeenKeys() []string {
	n.mu.Lock()
	defer n.mu.Unlock()

	keys := make([]string, 0, len(n.seen))
	for k := range n.seen {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Restore creates a notifier that treats keys as already published.
func Restore(keys []string) *Notifier {
	n := New()
	for _, k := range keys {
		n.seen[k] = struct{}{}
	}
	return n
}
