package task

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/finquest/finquest/internal/apperr"
)

// Token is a cancellation handle for one in-flight operation on a resource.
type Token struct {
	ID       string
	Resource string

	ctx    context.Context
	cancel context.CancelFunc
}

// Context returns the context the operation must run under.
func (t *Token) Context() context.Context { return t.ctx }

// Cancel aborts the operation. The token becomes stale.
func (t *Token) Cancel() { t.cancel() }

// Reservations allows at most one in-flight operation per resource. A
// result may only be committed through the token that reserved it.
type Reservations struct {
	mu     sync.Mutex
	active map[string]*Token
}

// NewReservations creates an empty reservation table.
func NewReservations() *Reservations {
	return &Reservations{active: make(map[string]*Token)}
}

// Reserve claims resource for a new operation derived from parent.
func (r *Reservations) Reserve(parent context.Context, resource string) (*Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cur, ok := r.active[resource]; ok && cur.ctx.Err() == nil {
		return nil, apperr.Invalid(apperr.ReasonOperationPending, "%s already has an operation in flight", resource)
	}
	ctx, cancel := context.WithCancel(parent)
	t := &Token{ID: uuid.NewString(), Resource: resource, ctx: ctx, cancel: cancel}
	r.active[resource] = t
	return t, nil
}

// Valid reports whether t still holds its resource and was not cancelled.
func (r *Reservations) Valid(t *Token) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active[t.Resource] == t && t.ctx.Err() == nil
}

// Finish releases t's reservation. It returns a StaleOperation error when t
// was cancelled or superseded, in which case its result must be discarded.
func (r *Reservations) Finish(t *Token) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stale := r.active[t.Resource] != t || t.ctx.Err() != nil
	if r.active[t.Resource] == t {
		delete(r.active, t.Resource)
	}
	t.cancel()
	if stale {
		return apperr.Transient(apperr.ReasonStaleOperation, t.ctx.Err(), "%s result discarded", t.Resource)
	}
	return nil
}

// Pending reports whether resource has a live operation.
func (r *Reservations) Pending(resource string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.active[resource]
	return ok && t.ctx.Err() == nil
}

// Cancel aborts the operation on resource, if any.
func (r *Reservations) Cancel(resource string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.active[resource]
	if !ok {
		return false
	}
	t.cancel()
	delete(r.active, resource)
	return true
}

// CancelAll aborts every in-flight operation and returns how many there were.
func (r *Reservations) CancelAll() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.active)
	for id, t := range r.active {
		t.cancel()
		delete(r.active, id)
	}
	return n
}
