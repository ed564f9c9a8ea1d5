package task

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/finquest/finquest/internal/apperr"
)

func retryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Multiplier:  2.0,
	}
}

func unavailable() error {
	return apperr.Transient(apperr.ReasonLedgerUnavailable, nil, "down")
}

func TestSimulator_Settles(t *testing.T) {
	s := NewSimulator(SimConfig{})
	rec, err := s.Submit(context.Background(), Operation{Kind: OpMint, Reference: "news-baby"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(rec.TxHash, "0x") || len(rec.TxHash) != 66 {
		t.Errorf("unexpected tx hash %q", rec.TxHash)
	}
}

func TestSimulator_AlwaysFails(t *testing.T) {
	s := NewSimulator(SimConfig{FailureRate: 1})
	_, err := s.Submit(context.Background(), Operation{Kind: OpRelease, Reference: "e1"})
	if apperr.ReasonOf(err) != apperr.ReasonLedgerUnavailable {
		t.Fatalf("expected ledger-unavailable, got %v", err)
	}
	if !apperr.IsRetryable(err) {
		t.Error("expected failure to be retryable")
	}
}

func TestSimulator_Cancelled(t *testing.T) {
	s := NewSimulator(SimConfig{Latency: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())
	go cancel()

	_, err := s.Submit(ctx, Operation{Kind: OpRelease, Reference: "e1"})
	if apperr.ReasonOf(err) != apperr.ReasonCancelled {
		t.Fatalf("expected cancelled, got %v", err)
	}
	if s.Calls() != 0 {
		t.Errorf("cancelled call must not settle, got %d", s.Calls())
	}
}

func TestRetry_TransientThenSuccess(t *testing.T) {
	mock := NewMockLedger(unavailable())
	l := WithRetry(mock, retryConfig())

	if _, err := l.Submit(context.Background(), Operation{Kind: OpMint}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.CallCount() != 2 {
		t.Fatalf("expected 2 calls, got %d", mock.CallCount())
	}
}

func TestRetry_AllAttemptsFail(t *testing.T) {
	mock := NewMockLedger(unavailable(), unavailable(), unavailable())
	l := WithRetry(mock, retryConfig())

	_, err := l.Submit(context.Background(), Operation{Kind: OpMint})
	if !apperr.IsRetryable(err) {
		t.Fatalf("expected transient error, got %v", err)
	}
	if mock.CallCount() != 3 {
		t.Fatalf("expected 3 calls, got %d", mock.CallCount())
	}
}

func TestRetry_NonTransientNotRetried(t *testing.T) {
	mock := NewMockLedger(apperr.Invalid(apperr.ReasonNotReady, "nope"))
	l := WithRetry(mock, retryConfig())

	if _, err := l.Submit(context.Background(), Operation{Kind: OpRelease}); err == nil {
		t.Fatal("expected error")
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
}

func TestRetry_CancelledNotRetried(t *testing.T) {
	mock := NewMockLedger(apperr.Transient(apperr.ReasonCancelled, context.Canceled, "stop"))
	l := WithRetry(mock, retryConfig())

	if _, err := l.Submit(context.Background(), Operation{Kind: OpRelease}); err == nil {
		t.Fatal("expected error")
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
}

func TestReservations_OnePerResource(t *testing.T) {
	r := NewReservations()
	tok, err := r.Reserve(context.Background(), "escrow:e1")
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}

	_, err = r.Reserve(context.Background(), "escrow:e1")
	if apperr.ReasonOf(err) != apperr.ReasonOperationPending {
		t.Fatalf("expected operation-pending, got %v", err)
	}
	if _, err := r.Reserve(context.Background(), "badge:news-baby"); err != nil {
		t.Fatalf("other resource should be free: %v", err)
	}

	if !r.Valid(tok) {
		t.Fatal("expected token valid")
	}
	if err := r.Finish(tok); err != nil {
		t.Fatalf("finish: %v", err)
	}
	if r.Pending("escrow:e1") {
		t.Error("expected reservation released")
	}
}

func TestReservations_CancelledTokenIsStale(t *testing.T) {
	r := NewReservations()
	tok, _ := r.Reserve(context.Background(), "escrow:e1")

	if !r.Cancel("escrow:e1") {
		t.Fatal("expected cancel to find the reservation")
	}
	if r.Valid(tok) {
		t.Error("cancelled token must not be valid")
	}
	if err := r.Finish(tok); apperr.ReasonOf(err) != apperr.ReasonStaleOperation {
		t.Errorf("expected stale-operation, got %v", err)
	}
	if tok.Context().Err() == nil {
		t.Error("expected token context cancelled")
	}

	if _, err := r.Reserve(context.Background(), "escrow:e1"); err != nil {
		t.Errorf("resource should be reservable again: %v", err)
	}
}

func TestReservations_CancelAll(t *testing.T) {
	r := NewReservations()
	a, _ := r.Reserve(context.Background(), "a")
	b, _ := r.Reserve(context.Background(), "b")

	if n := r.CancelAll(); n != 2 {
		t.Errorf("expected 2 cancelled, got %d", n)
	}
	if r.Valid(a) || r.Valid(b) {
		t.Error("expected both tokens stale")
	}
}
