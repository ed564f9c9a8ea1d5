// Package apperr defines the error taxonomy shared by the progression engine.
//
// Every rejected operation carries a Kind that tells the presentation layer
// how to react (skip, disable the control, offer a retry) and a Reason code
// that identifies the condition.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error by how the caller should recover.
type Kind string

const (
	// KindValidation marks malformed input. The offending item is skipped.
	KindValidation Kind = "validation"
	// KindInvalidTransition marks an operation the current state does not allow.
	KindInvalidTransition Kind = "invalid-transition"
	// KindTransient marks a simulated external failure. State is untouched and
	// the operation may be retried.
	KindTransient Kind = "transient"
)

// Reason is a stable machine-readable code for a rejected operation.
type Reason string

const (
	ReasonAlreadyReleased   Reason = "AlreadyReleased"
	ReasonNotReady          Reason = "NotReady"
	ReasonEscrowActive      Reason = "EscrowActive"
	ReasonNoEscrow          Reason = "NoEscrow"
	ReasonThresholdNotMet   Reason = "ThresholdNotMet"
	ReasonAlreadyCollected  Reason = "AlreadyCollected"
	ReasonUnitLocked        Reason = "UnitLocked"
	ReasonUnknownUnit       Reason = "UnknownUnit"
	ReasonUnknownChallenge  Reason = "UnknownChallenge"
	ReasonUnknownBadge      Reason = "UnknownBadge"
	ReasonUnknownArticle    Reason = "UnknownArticle"
	ReasonUnknownProposal   Reason = "UnknownProposal"
	ReasonInvalidAmount     Reason = "InvalidAmount"
	ReasonInvalidQuota      Reason = "InvalidQuota"
	ReasonInvalidScore      Reason = "InvalidScore"
	ReasonInvalidAddress    Reason = "InvalidAddress"
	ReasonInvalidRow        Reason = "InvalidRow"
	ReasonAlreadyVoted      Reason = "AlreadyVoted"
	ReasonOperationPending  Reason = "OperationPending"
	ReasonStaleOperation    Reason = "StaleOperation"
	ReasonCancelled         Reason = "Cancelled"
	ReasonLedgerUnavailable Reason = "LedgerUnavailable"
)

// Error is a categorized engine error.
type Error struct {
	Kind   Kind
	Reason Reason
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Reason, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Validation returns a KindValidation error.
func Validation(reason Reason, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Reason: reason, Msg: fmt.Sprintf(format, args...)}
}

// Invalid returns a KindInvalidTransition error.
func Invalid(reason Reason, format string, args ...any) *Error {
	return &Error{Kind: KindInvalidTransition, Reason: reason, Msg: fmt.Sprintf(format, args...)}
}

// Transient returns a KindTransient error wrapping cause.
func Transient(reason Reason, cause error, format string, args ...any) *Error {
	return &Error{Kind: KindTransient, Reason: reason, Msg: fmt.Sprintf(format, args...), Err: cause}
}

// KindOf returns the Kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// ReasonOf returns the Reason of the first *Error in err's chain, or "".
func ReasonOf(err error) Reason {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}
	return ""
}

// IsRetryable reports whether err is a transient failure.
func IsRetryable(err error) bool {
	return KindOf(err) == KindTransient
}
