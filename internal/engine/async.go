package engine

import (
	"context"
	"fmt"

	"github.com/finquest/finquest/internal/apperr"
	"github.com/finquest/finquest/internal/badges"
	"github.com/finquest/finquest/internal/budget"
	"github.com/finquest/finquest/internal/notify"
	"github.com/finquest/finquest/internal/task"
	"github.com/finquest/finquest/internal/wallet"
)

// The operations below settle through the external ledger. Each one checks
// its preconditions, reserves its resource, calls the ledger without holding
// the engine lock, and commits only if its token is still current and the
// preconditions still hold. A cancelled or failed call changes nothing.

// ReleaseEscrow releases the Ready escrow.
func (e *Engine) ReleaseEscrow(ctx context.Context) (EscrowSnapshot, error) {
	e.mu.Lock()
	if e.escrow == nil {
		e.mu.Unlock()
		err := apperr.Invalid(apperr.ReasonNoEscrow, "no escrow has been locked")
		e.record("escrow_release", "", err, nil)
		return EscrowSnapshot{}, err
	}
	esc := e.escrow
	if err := esc.CanRelease(); err != nil {
		e.record("escrow_release", esc.ID, err, nil)
		e.mu.Unlock()
		return EscrowSnapshot{}, err
	}
	e.mu.Unlock()

	op := task.Operation{Kind: task.OpRelease, Reference: esc.ID, Amount: esc.LockedAmount}
	rec, err := e.settle(ctx, EscrowResource(esc.ID), op)

	e.mu.Lock()
	defer e.mu.Unlock()
	if err == nil && e.escrow != esc {
		err = apperr.Transient(apperr.ReasonStaleOperation, nil, "escrow %s was replaced", esc.ID)
	}
	if err == nil {
		err = esc.CanRelease()
	}
	if err != nil {
		e.record("escrow_release", esc.ID, err, nil)
		e.log.Warn("escrow release failed", "escrow", esc.ID, "error", err, "retryable", apperr.IsRetryable(err))
		return EscrowSnapshot{}, err
	}

	tr, err := esc.Release(rec.SettledAt)
	if err != nil {
		return EscrowSnapshot{}, err
	}
	e.ledger.RecordDeFiAction("release:" + esc.ID)
	e.ledger.RecordActivity(e.now())
	e.notifier.Publish(notify.Celebration{
		Kind:    notify.KindEscrowReleased,
		Key:     notify.EscrowReleasedKey(esc.ID),
		Title:   "Escrow released",
		Message: fmt.Sprintf("%s released to your wallet.", budget.FormatCents(tr.Amount)),
		At:      e.now(),
	})

	e.record("escrow_release", esc.ID, nil, map[string]string{"tx": rec.TxHash})
	e.log.Info("escrow released", "escrow", esc.ID, "amount", tr.Amount, "tx", rec.TxHash)
	return e.escrowLocked(), nil
}

// CollectBadge mints a badge whose threshold has been met, making it Earned.
func (e *Engine) CollectBadge(ctx context.Context, badgeID string) (badges.Badge, error) {
	e.mu.Lock()
	if err := e.book.CanCollect(badgeID, e.ledger.Snapshot()); err != nil {
		e.record("badge_collect", badgeID, err, nil)
		e.mu.Unlock()
		return badges.Badge{}, err
	}
	e.mu.Unlock()

	rec, err := e.settle(ctx, BadgeResource(badgeID), task.Operation{Kind: task.OpMint, Reference: badgeID})

	e.mu.Lock()
	defer e.mu.Unlock()
	var b badges.Badge
	if err == nil {
		b, err = e.book.Collect(badgeID, e.ledger.Snapshot(), rec.SettledAt)
	}
	if err != nil {
		e.record("badge_collect", badgeID, err, nil)
		e.log.Warn("badge collect failed", "badge", badgeID, "error", err, "retryable", apperr.IsRetryable(err))
		return badges.Badge{}, err
	}

	e.ledger.RecordDeFiAction("mint:" + badgeID)
	e.ledger.RecordActivity(e.now())
	e.notifier.Publish(notify.Celebration{
		Kind:    notify.KindBadgeEarned,
		Key:     notify.BadgeKey(badgeID),
		Title:   "Badge earned",
		Message: fmt.Sprintf("%s %s collected.", b.Category.Icon(), b.Name),
		At:      e.now(),
	})

	e.record("badge_collect", badgeID, nil, map[string]string{"tx": rec.TxHash})
	e.log.Info("badge collected", "badge", badgeID, "tx", rec.TxHash)
	return b, nil
}

// ConnectWallet verifies and links a wallet address. Reconnecting the same
// address is a no-op.
func (e *Engine) ConnectWallet(ctx context.Context, address string) (wallet.Connection, error) {
	addr, err := wallet.Normalize(address)
	if err != nil {
		e.record("wallet_connect", address, err, nil)
		return wallet.Connection{}, err
	}

	e.mu.Lock()
	if e.wallet != nil && e.wallet.Address == addr {
		c := *e.wallet
		e.mu.Unlock()
		return c, nil
	}
	e.mu.Unlock()

	rec, err := e.settle(ctx, WalletResource, task.Operation{Kind: task.OpConnect, Reference: addr})

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		e.record("wallet_connect", addr, err, nil)
		e.log.Warn("wallet connect failed", "address", addr, "error", err)
		return wallet.Connection{}, err
	}

	c := wallet.Connection{Address: addr, TxHash: rec.TxHash, ConnectedAt: rec.SettledAt}
	e.wallet = &c
	// One DeFi action however many addresses the learner connects.
	e.ledger.RecordDeFiAction("wallet")
	e.ledger.RecordActivity(e.now())

	e.record("wallet_connect", addr, nil, nil)
	e.log.Info("wallet connected", "address", addr)
	return c, nil
}

// settle runs op through the remote ledger under a reservation on resource.
// It must be called without holding e.mu.
func (e *Engine) settle(ctx context.Context, resource string, op task.Operation) (task.Receipt, error) {
	tok, err := e.pending.Reserve(ctx, resource)
	if err != nil {
		return task.Receipt{}, err
	}
	e.log.Debug("ledger call started", "resource", resource, "token", tok.ID)

	rec, err := e.remote.Submit(tok.Context(), op)
	if ferr := e.pending.Finish(tok); ferr != nil {
		// Cancelled or superseded: the result is discarded even on success.
		if err == nil || apperr.ReasonOf(err) != apperr.ReasonCancelled {
			err = ferr
		}
	}
	return rec, err
}
