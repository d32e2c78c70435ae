// Package errors defines the ledger's tagged error kinds. Every failure that
// leaves the payment, deposit or reporting engines is either a *DomainError
// or is converted to one of kind KindInternal by KindOf.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies a failure for callers. Transport layers map each kind to a
// distinct status.
type Kind string

const (
	KindNotFound             Kind = "NOT_FOUND"
	KindForbidden            Kind = "FORBIDDEN"
	KindConflict             Kind = "CONFLICT"
	KindInsufficientFunds    Kind = "INSUFFICIENT_FUNDS"
	KindDepositLimitExceeded Kind = "DEPOSIT_LIMIT_EXCEEDED"
	KindValidation           Kind = "VALIDATION"
	KindInternal             Kind = "INTERNAL"
)

// DomainError carries a Kind, a human-readable message and an optional cause.
// Fatal marks failures where the store may hold partial state, such as a
// rollback that could not complete.
type DomainError struct {
	Kind    Kind
	Message string
	Err     error
	Fatal   bool
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a *DomainError of the same Kind, so sentinels
// compare by classification rather than identity.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrJobNotFound = &DomainError{
		Kind:    KindNotFound,
		Message: "job not found",
	}
	ErrProfileNotFound = &DomainError{
		Kind:    KindNotFound,
		Message: "profile not found",
	}
	ErrNoReportData = &DomainError{
		Kind:    KindNotFound,
		Message: "no paid jobs in period",
	}
	ErrNotClient = &DomainError{
		Kind:    KindForbidden,
		Message: "profile is not a client",
	}
	ErrJobAlreadyPaid = &DomainError{
		Kind:    KindConflict,
		Message: "job is already paid",
	}
	ErrInsufficientFunds = &DomainError{
		Kind:    KindInsufficientFunds,
		Message: "insufficient funds",
	}
	ErrDepositLimitExceeded = &DomainError{
		Kind:    KindDepositLimitExceeded,
		Message: "amount exceeds the allowable deposit amount",
	}
	ErrInvalidAmount = &DomainError{
		Kind:    KindValidation,
		Message: "amount must be a positive value",
	}
	ErrInvalidPeriod = &DomainError{
		Kind:    KindValidation,
		Message: "start must be before end",
	}
)

// New builds a DomainError of the given kind.
func New(kind Kind, format string, args ...interface{}) *DomainError {
	return &DomainError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Internal wraps a storage or infrastructure failure.
func Internal(err error) *DomainError {
	return &DomainError{Kind: KindInternal, Message: "internal error", Err: err}
}

// RollbackFailed reports a unit of work whose rollback did not complete.
func RollbackFailed(cause, rollbackErr error) *DomainError {
	return &DomainError{
		Kind:    KindInternal,
		Message: "rollback failed",
		Err:     stderrors.Join(cause, rollbackErr),
		Fatal:   true,
	}
}

// Ensure returns err unchanged when it already carries a DomainError and
// wraps it as KindInternal otherwise.
func Ensure(err error) error {
	if err == nil {
		return nil
	}
	var de *DomainError
	if stderrors.As(err, &de) {
		return err
	}
	return Internal(err)
}

// KindOf returns the Kind of the first DomainError in err's chain, or
// KindInternal when there is none.
func KindOf(err error) Kind {
	var de *DomainError
	if stderrors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// IsFatal reports whether err carries a fatal DomainError.
func IsFatal(err error) bool {
	var de *DomainError
	return stderrors.As(err, &de) && de.Fatal
}

// Message returns the caller-safe message for err. Internal causes are never
// exposed.
func Message(err error) string {
	var de *DomainError
	if stderrors.As(err, &de) && de.Kind != KindInternal {
		return de.Message
	}
	return "internal server error"
}
