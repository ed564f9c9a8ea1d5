package store

import (
	"context"
	"errors"
	"time"

	"github.com/finquest/finquest/internal/badges"
	"github.com/finquest/finquest/internal/escrow"
	"github.com/finquest/finquest/internal/progress"
	"github.com/finquest/finquest/internal/wallet"
)

// ErrNotFound is returned by KVRepo.Get when the key is absent.
var ErrNotFound = errors.New("not found")

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit int       // max results (0 = unlimited)
	Kind  string    // exact kind match (empty = all)
	After int64     // sequence > After
	From  time.Time // timestamp >= From
}

// KVRepo stores small JSON documents under string keys.
type KVRepo interface {
	// Put overwrites the value stored at key.
	Put(ctx context.Context, key string, value any) error

	// Get decodes the value at key into dst. Returns ErrNotFound if absent.
	Get(ctx context.Context, key string, dst any) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// SnapshotData captures the full learner state at a point in time.
type SnapshotData struct {
	Version        int                `json:"version"`
	CatalogVersion string             `json:"catalog_version,omitempty"`
	Progress       progress.State     `json:"progress"`
	Escrow         *escrow.State      `json:"escrow,omitempty"`
	EscrowHistory  []escrow.State     `json:"escrow_history,omitempty"`
	Badges         badges.State       `json:"badges"`
	Celebrated     []string           `json:"celebrated,omitempty"`
	Wallet         *wallet.Connection `json:"wallet,omitempty"`
}

// SnapshotVersion is the current SnapshotData layout version.
const SnapshotVersion = 1

// Snapshot represents a point-in-time capture of learner state.
type Snapshot struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	Data      SnapshotData
}

// SnapshotRepo manages learner state snapshots.
type SnapshotRepo interface {
	// Save stores a new snapshot. A zero Sequence is assigned from the
	// store's global counter.
	Save(ctx context.Context, snap *Snapshot) error

	// Latest returns the most recent snapshot, or nil if none exist.
	Latest(ctx context.Context) (*Snapshot, error)

	// Prune deletes all but the N most recent snapshots.
	Prune(ctx context.Context, keep int) error

	// Clear deletes every snapshot.
	Clear(ctx context.Context) error
}

// EventData is one engine event to append.
type EventData struct {
	Kind    string
	Subject string // unit, challenge, badge or escrow ID
	Outcome string // "ok" or the rejection reason
	Payload any    // optional, stored as JSON
}

// EventRecord is a stored event.
type EventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	Kind      string
	Subject   string
	Outcome   string
	Payload   []byte
}

// EventRepo provides append and query access to the engine event log.
type EventRepo interface {
	// Append records an event with the next global sequence number.
	Append(ctx context.Context, data EventData) error

	// Query returns events newest first.
	Query(ctx context.Context, opts QueryOpts) ([]EventRecord, error)

	// Counts returns the number of events per kind.
	Counts(ctx context.Context) (map[string]int, error)

	// Clear deletes every event.
	Clear(ctx context.Context) error
}
