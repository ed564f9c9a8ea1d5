// Package engine is the progression and reward facade. It routes inbound
// learner events to the ledger, quiz grader, challenge tracker, escrow and
// badge book, and hands read-only snapshots back to the presentation layer.
//
// Every operation validates before it mutates, so a rejected call leaves
// progress, escrow and badge state exactly as it was.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/finquest/finquest/internal/badges"
	"github.com/finquest/finquest/internal/budget"
	"github.com/finquest/finquest/internal/catalog"
	"github.com/finquest/finquest/internal/challenge"
	"github.com/finquest/finquest/internal/escrow"
	"github.com/finquest/finquest/internal/logger"
	"github.com/finquest/finquest/internal/notify"
	"github.com/finquest/finquest/internal/progress"
	"github.com/finquest/finquest/internal/quiz"
	"github.com/finquest/finquest/internal/store"
	"github.com/finquest/finquest/internal/task"
	"github.com/finquest/finquest/internal/unlock"
	"github.com/finquest/finquest/internal/wallet"
)

// BudgetKey is the KV key holding the imported statement budget.
const BudgetKey = "budget"

// Deps wires the engine to its collaborators. Catalog is required; every
// other field has a usable zero value.
type Deps struct {
	Catalog *catalog.Catalog
	Badges  *badges.Catalog // nil means badges.Default()
	Remote  task.Ledger     // nil means an instant simulator
	Events  store.EventRepo // nil disables the event log
	KV      store.KVRepo    // nil disables budget persistence
	Log     *logger.Logger  // nil means logger.Nop()
	Now     func() time.Time
}

// Engine is safe for concurrent use. Long-running ledger calls run without
// holding the engine lock.
type Engine struct {
	mu sync.Mutex

	cat      *catalog.Catalog
	ledger   *progress.Ledger
	grader   *quiz.Grader
	tracker  *challenge.Tracker
	book     *badges.Book
	notifier *notify.Notifier

	escrow  *escrow.Escrow
	history []escrow.State // released escrows, oldest first
	wallet  *wallet.Connection
	budget  *budget.Budget

	selected string

	remote  task.Ledger
	pending *task.Reservations
	events  store.EventRepo
	kv      store.KVRepo
	log     *logger.Logger
	now     func() time.Time
}

// New creates an engine with empty progress.
func New(d Deps) *Engine {
	d = d.withDefaults()
	return build(d, progress.NewLedger(d.Catalog), badges.NewBook(d.Badges), notify.New())
}

func (d Deps) withDefaults() Deps {
	if d.Badges == nil {
		d.Badges = badges.Default()
	}
	if d.Remote == nil {
		d.Remote = task.NewSimulator(task.SimConfig{})
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

func build(d Deps, l *progress.Ledger, book *badges.Book, n *notify.Notifier) *Engine {
	return &Engine{
		cat:      d.Catalog,
		ledger:   l,
		grader:   quiz.NewGrader(l),
		tracker:  challenge.NewTracker(l),
		book:     book,
		notifier: n,
		remote:   d.Remote,
		pending:  task.NewReservations(),
		events:   d.Events,
		kv:       d.KV,
		log:      d.Log.With("component", "engine"),
		now:      d.Now,
	}
}

// Catalog returns the content catalog the engine runs on.
func (e *Engine) Catalog() *catalog.Catalog { return e.cat }

// BadgeCatalog returns the badge definitions.
func (e *Engine) BadgeCatalog() *badges.Catalog { return e.book.Catalog() }

// ProgressSnapshot is the learner-facing progress view.
type ProgressSnapshot struct {
	XP            int
	StreakDays    int
	GroupUnlocked map[string]bool
	UnitStatus    map[string]unlock.UnitStatus
	Selected      string

	CompletedUnits      int
	CompletedChallenges int
	ArticlesRead        int
	DeFiActions         int
	Votes               int

	// NextGroup is the first locked group and the units still needed to
	// open it; empty when every group is open.
	NextGroup     string
	UnitsToUnlock int
	Ledger        progress.Snapshot
}

// Progress returns the current progress snapshot.
func (e *Engine) Progress() ProgressSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.progressLocked()
}

func (e *Engine) progressLocked() ProgressSnapshot {
	snap := e.ledger.Snapshot()
	res := unlock.Evaluate(e.cat, snap)
	ps := ProgressSnapshot{
		XP:                  snap.XP(),
		StreakDays:          snap.StreakDays(),
		GroupUnlocked:       res.Groups,
		UnitStatus:          res.Units,
		Selected:            e.selected,
		CompletedUnits:      snap.CompletedUnitCount(),
		CompletedChallenges: snap.CompletedChallengeCount(),
		ArticlesRead:        snap.ArticlesReadCount(),
		DeFiActions:         snap.DeFiActionCount(),
		Votes:               snap.VoteCount(),
		Ledger:              snap,
	}
	if g, n, ok := unlock.NextUnlock(e.cat, snap); ok {
		ps.NextGroup, ps.UnitsToUnlock = g, n
	}
	return ps
}

// EscrowSnapshot is the escrow view. Active is false when no escrow has
// been locked yet.
type EscrowSnapshot struct {
	Active bool
	escrow.Snapshot
	// Releasing is true while a release call is in flight.
	Releasing bool
	History   []escrow.State
}

// Escrow returns the current escrow snapshot.
func (e *Engine) Escrow() EscrowSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.escrowLocked()
}

func (e *Engine) escrowLocked() EscrowSnapshot {
	s := EscrowSnapshot{History: append([]escrow.State(nil), e.history...)}
	if e.escrow != nil {
		s.Active = true
		s.Snapshot = e.escrow.Snapshot()
		s.Releasing = e.pending.Pending(EscrowResource(e.escrow.ID))
	}
	return s
}

// Badges returns the status of every badge.
func (e *Engine) Badges() badges.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.book.Snapshot(e.ledger.Snapshot())
}

// BadgeCollectedAt returns when badgeID was collected.
func (e *Engine) BadgeCollectedAt(badgeID string) (time.Time, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.book.CollectedAt(badgeID)
}

// Wallet returns the connected wallet, if any.
func (e *Engine) Wallet() (wallet.Connection, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.wallet == nil {
		return wallet.Connection{}, false
	}
	return *e.wallet, true
}

// Budget returns the imported budget, if any.
func (e *Engine) Budget() (budget.Budget, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.budget == nil {
		return budget.Budget{}, false
	}
	return *e.budget, true
}

// NextCelebration pops the oldest undisplayed celebration.
func (e *Engine) NextCelebration() (notify.Celebration, bool) {
	return e.notifier.Next()
}

// DropCelebrations discards undisplayed celebrations, e.g. when the learner
// navigates away before they were shown.
func (e *Engine) DropCelebrations() int {
	n := e.notifier.DropPending()
	if n > 0 {
		e.log.Debug("celebrations dropped", "count", n)
	}
	return n
}

// Pending reports whether an operation on resource is in flight.
func (e *Engine) Pending(resource string) bool {
	return e.pending.Pending(resource)
}

// Cancel aborts the in-flight operation on resource. The operation's
// result, if it still arrives, is discarded.
func (e *Engine) Cancel(resource string) bool {
	ok := e.pending.Cancel(resource)
	if ok {
		e.log.Info("operation cancelled", "resource", resource)
	}
	return ok
}

// CancelAll aborts every in-flight operation.
func (e *Engine) CancelAll() int {
	return e.pending.CancelAll()
}

// WalletResource names the in-flight wallet connection.
const WalletResource = "wallet"

// EscrowResource names the in-flight release of escrow id.
func EscrowResource(id string) string { return "escrow:" + id }

// BadgeResource names the in-flight mint of badge id.
func BadgeResource(id string) string { return "badge:" + id }

// record appends to the event log. It touches no engine state and may be
// called with or without e.mu held.
func (e *Engine) record(kind, subject string, err error, payload any) {
	if e.events == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = reasonOrKind(err)
	}
	data := store.EventData{Kind: kind, Subject: subject, Outcome: outcome, Payload: payload}
	if aerr := e.events.Append(context.Background(), data); aerr != nil {
		e.log.Warn("event log append failed", "kind", kind, "error", aerr)
	}
}
