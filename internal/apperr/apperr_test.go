package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindAndReasonThroughWrapping(t *testing.T) {
	base := Invalid(ReasonAlreadyReleased, "escrow %s already released", "e-1")
	wrapped := fmt.Errorf("release escrow: %w", base)

	if got := KindOf(wrapped); got != KindInvalidTransition {
		t.Errorf("KindOf = %q, want %q", got, KindInvalidTransition)
	}
	if got := ReasonOf(wrapped); got != ReasonAlreadyReleased {
		t.Errorf("ReasonOf = %q, want %q", got, ReasonAlreadyReleased)
	}
	if !errors.Is(wrapped, base) {
		t.Error("errors.Is should match the sentinel through wrapping")
	}
}

func TestIsRetryable(t *testing.T) {
	cause := errors.New("timeout")
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"transient", Transient(ReasonLedgerUnavailable, cause, "mint"), true},
		{"validation", Validation(ReasonInvalidRow, "bad row"), false},
		{"invalid", Invalid(ReasonNotReady, "locked"), false},
		{"plain", cause, false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		if got := IsRetryable(tt.err); got != tt.want {
			t.Errorf("%s: IsRetryable = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestErrorString(t *testing.T) {
	err := Transient(ReasonCancelled, errors.New("context canceled"), "escrow release")
	want := "Cancelled: escrow release: context canceled"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, err.Err) {
		t.Error("Unwrap should expose the cause")
	}
}
