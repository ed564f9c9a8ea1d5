// Package task runs the simulated external ledger calls behind escrow
// release, badge minting and wallet verification, and tracks which of them
// are in flight.
package task

import (
	"context"
	"encoding/hex"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/sha3"

	"github.com/finquest/finquest/internal/apperr"
)

// OpKind identifies a ledger operation.
type OpKind string

const (
	OpRelease OpKind = "release"
	OpMint    OpKind = "mint"
	OpConnect OpKind = "connect"
)

// Operation is one request to the simulated ledger.
type Operation struct {
	Kind      OpKind
	Reference string // escrow ID, badge ID or wallet address
	Amount    int64
}

// Receipt is what the ledger returns for a settled operation.
type Receipt struct {
	TxHash    string
	SettledAt time.Time
}

// Ledger settles operations. Implementations must honor ctx cancellation.
type Ledger interface {
	Submit(ctx context.Context, op Operation) (Receipt, error)
}

// SimConfig configures a Simulator.
type SimConfig struct {
	Latency     time.Duration
	FailureRate float64 // probability in [0, 1] that a call fails
}

// Simulator is an in-process Ledger with artificial latency and failures.
type Simulator struct {
	cfg SimConfig

	mu   sync.Mutex
	rng  *rand.Rand
	now  func() time.Time
	hits int
}

// NewSimulator creates a simulator seeded from the wall clock.
func NewSimulator(cfg SimConfig) *Simulator {
	seed := uint64(time.Now().UnixNano())
	return &Simulator{
		cfg: cfg,
		rng: rand.New(rand.NewPCG(seed, seed>>1)),
		now: time.Now,
	}
}

// Submit waits for the configured latency, then settles or fails op.
func (s *Simulator) Submit(ctx context.Context, op Operation) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, cancelled(op, err)
	}

	if s.cfg.Latency > 0 {
		timer := time.NewTimer(s.cfg.Latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Receipt{}, cancelled(op, ctx.Err())
		case <-timer.C:
		}
	}

	s.mu.Lock()
	s.hits++
	fail := s.cfg.FailureRate > 0 && s.rng.Float64() < s.cfg.FailureRate
	s.mu.Unlock()

	if fail {
		return Receipt{}, apperr.Transient(apperr.ReasonLedgerUnavailable, nil, "ledger did not settle %s %s", op.Kind, op.Reference)
	}
	return Receipt{TxHash: TxHash(op), SettledAt: s.now()}, nil
}

// Calls returns how many submissions reached the settle step.
func (s *Simulator) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits
}

// TxHash derives a transaction-hash-shaped identifier for op.
func TxHash(op Operation) string {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(string(op.Kind) + ":" + op.Reference + ":" + uuid.NewString()))
	return "0x" + hex.EncodeToString(h.Sum(nil))
}

func cancelled(op Operation, cause error) error {
	return apperr.Transient(apperr.ReasonCancelled, cause, "%s %s cancelled", op.Kind, op.Reference)
}
