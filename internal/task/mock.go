package task

import (
	"context"
	"sync"
	"time"
)

// MockLedger is a deterministic Ledger for testing. It returns queued
// errors in FIFO order and succeeds once the queue is empty.
type MockLedger struct {
	mu    sync.Mutex
	errs  []error
	Calls []Operation

	// Block, when set, makes Submit wait until it is closed or ctx is done.
	Block chan struct{}
}

// NewMockLedger creates a MockLedger that fails with errs before succeeding.
func NewMockLedger(errs ...error) *MockLedger {
	return &MockLedger{errs: errs}
}

func (m *MockLedger) Submit(ctx context.Context, op Operation) (Receipt, error) {
	if m.Block != nil {
		select {
		case <-ctx.Done():
			return Receipt{}, cancelled(op, ctx.Err())
		case <-m.Block:
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, op)
	if len(m.errs) > 0 {
		err := m.errs[0]
		m.errs = m.errs[1:]
		if err != nil {
			return Receipt{}, err
		}
	}
	return Receipt{TxHash: TxHash(op), SettledAt: time.Now()}, nil
}

// CallCount returns how many operations were submitted.
func (m *MockLedger) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
