package providers

import (
	"context"
	"errors"
	"fmt"
)

// FailureKind classifies a provider failure. The set is closed: adapters must
// map every backend-specific fault onto one of these values, and anything the
// router cannot recognize is coerced to FailureUnknown.
type FailureKind string

const (
	FailureTimeout           FailureKind = "TIMEOUT"
	FailureRateLimit         FailureKind = "RATE_LIMIT"
	FailureProviderError     FailureKind = "PROVIDER_ERROR"
	FailureInvalidResponse   FailureKind = "INVALID_RESPONSE"
	FailureContractViolation FailureKind = "CONTRACT_VIOLATION"
	FailureCancelled         FailureKind = "CANCELLED"
	FailureUnknown           FailureKind = "UNKNOWN"
)

// Retryable reports whether a failure of this kind permits another attempt,
// either against the same provider or the next candidate in the chain.
//
// CONTRACT_VIOLATION means the response could not satisfy the caller's
// contract (schema mismatch, unparseable output); switching providers will
// not fix it. CANCELLED requests must never resume. Everything else,
// including UNKNOWN, is retry-eligible.
func (k FailureKind) Retryable() bool {
	switch k {
	case FailureContractViolation, FailureCancelled:
		return false
	default:
		return true
	}
}

// Error is the classified failure every adapter returns. The router fills in
// Provider and Attempt before surfacing it to the caller.
type Error struct {
	Kind     FailureKind
	Message  string
	Provider string
	Attempt  int
	Err      error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.Provider != "" {
		msg = fmt.Sprintf("%s: %s", e.Provider, msg)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s (%v)", msg, e.Err)
	}
	return msg
}

// Unwrap implements errors.Unwrap.
func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether this failure permits another attempt.
func (e *Error) Retryable() bool {
	return e.Kind.Retryable()
}

// NewError creates a classified provider error.
func NewError(kind FailureKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError creates a classified provider error wrapping an underlying cause.
func WrapError(kind FailureKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Classify coerces an arbitrary error into a classified *Error. Already
// classified errors pass through unchanged; context cancellation and deadline
// faults map to CANCELLED and TIMEOUT; anything else becomes UNKNOWN rather
// than leaking a backend-specific error to the orchestrator.
func Classify(err error) *Error {
	var perr *Error
	if errors.As(err, &perr) {
		return perr
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return WrapError(FailureTimeout, "request deadline exceeded", err)
	case errors.Is(err, context.Canceled):
		return WrapError(FailureCancelled, "request cancelled", err)
	default:
		return WrapError(FailureUnknown, err.Error(), err)
	}
}

// ShouldRetry reports whether the orchestrator may try the next candidate
// after this failure. Unclassified errors count as UNKNOWN and are
// retry-eligible, favoring availability over silent failure.
func ShouldRetry(err error) bool {
	return Classify(err).Retryable()
}
