package engine

import (
	"context"
	"fmt"

	"github.com/finquest/finquest/internal/badges"
	"github.com/finquest/finquest/internal/escrow"
	"github.com/finquest/finquest/internal/notify"
	"github.com/finquest/finquest/internal/progress"
	"github.com/finquest/finquest/internal/store"
)

// snapshotsKept is how many progress snapshots Save retains.
const snapshotsKept = 5

// Export captures the persistent engine state. The celebration queue is
// not part of it; only the keys already published are, so a restored
// session never celebrates the same transition again.
func (e *Engine) Export() store.SnapshotData {
	e.mu.Lock()
	defer e.mu.Unlock()

	data := store.SnapshotData{
		Version:        store.SnapshotVersion,
		CatalogVersion: e.cat.Version(),
		Progress:       e.ledger.Snapshot().Export(),
		EscrowHistory:  append([]escrow.State(nil), e.history...),
		Badges:         e.book.Export(),
		Celebrated:     e.notifier.SeenKeys(),
	}
	if e.escrow != nil {
		st := e.escrow.Export()
		data.Escrow = &st
	}
	if e.wallet != nil {
		w := *e.wallet
		data.Wallet = &w
	}
	return data
}

// Restore builds an engine from exported state. Every badge tier is
// evaluated on its own, so a bulk restore can make several tiers
// collectible at once.
func Restore(d Deps, data store.SnapshotData) (*Engine, error) {
	if data.Version > store.SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d is newer than supported %d", data.Version, store.SnapshotVersion)
	}
	d = d.withDefaults()

	l := progress.RestoreLedger(d.Catalog, data.Progress)
	e := build(d, l, badges.Restore(d.Badges, data.Badges), notify.Restore(data.Celebrated))
	e.history = append([]escrow.State(nil), data.EscrowHistory...)

	if data.Escrow != nil {
		esc, err := escrow.Restore(*data.Escrow)
		if err != nil {
			return nil, fmt.Errorf("restore escrow: %w", err)
		}
		e.escrow = esc
		e.tracker.Attach(esc)
	}
	if data.Wallet != nil {
		w := *data.Wallet
		e.wallet = &w
	}
	return e, nil
}

// Save writes a snapshot of the engine state and prunes old ones.
func (e *Engine) Save(ctx context.Context, repo store.SnapshotRepo) error {
	if err := repo.Save(ctx, &store.Snapshot{Timestamp: e.now(), Data: e.Export()}); err != nil {
		return err
	}
	if err := repo.Prune(ctx, snapshotsKept); err != nil {
		e.log.Warn("snapshot prune failed", "error", err)
	}
	return nil
}

// Load restores the latest saved snapshot, or returns a fresh engine when
// none exists. The bool reports whether a snapshot was found.
func Load(ctx context.Context, d Deps, repo store.SnapshotRepo) (*Engine, bool, error) {
	snap, err := repo.Latest(ctx)
	if err != nil {
		return nil, false, err
	}
	if snap == nil {
		return New(d), false, nil
	}
	e, err := Restore(d, snap.Data)
	if err != nil {
		return nil, false, err
	}
	return e, true, nil
}
