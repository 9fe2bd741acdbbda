package domain

import (
	"errors"
	"fmt"
)

// Common domain errors
var (
	// ErrNotFound is returned when a requested resource is not found
	ErrNotFound = errors.New("resource not found")
	// ErrAlreadyExists is returned when trying to create a resource whose unique key is taken
	ErrAlreadyExists = errors.New("resource already exists")
	// ErrInvalidField is returned when a required field is empty or malformed
	ErrInvalidField = errors.New("invalid field")
	// ErrInvalidAmount is returned when a transaction amount is negative
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInvalidBalance is returned when an account balance would be non-positive at creation or negative afterwards
	ErrInvalidBalance = errors.New("invalid balance")
	// ErrInsufficientFunds is returned when a withdrawal exceeds the account balance
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrStorageFailure is returned when the backing store fails (I/O, commit)
	ErrStorageFailure = errors.New("storage failure")
	// ErrConflict is returned when an account row changed between read and write
	ErrConflict = errors.New("concurrent modification")
	// ErrLockTimeout is returned when an account lock could not be acquired in time
	ErrLockTimeout = errors.New("lock acquisition timed out")
)

var (
	// ErrAccountNotFound is returned when a transaction references an unknown account.
	ErrAccountNotFound = fmt.Errorf("account not found: %w", ErrNotFound)
	// ErrDuplicateAccount is returned when an account number is already taken.
	ErrDuplicateAccount = fmt.Errorf("duplicate account number: %w", ErrAlreadyExists)
	// ErrDuplicateTransaction is returned when a transaction id is already taken.
	ErrDuplicateTransaction = fmt.Errorf("duplicate transaction id: %w", ErrAlreadyExists)
)

// FieldError reports which input was rejected and why. It unwraps to Kind so
// callers keep matching with errors.Is.
type FieldError struct {
	Field  string
	Reason string
	Kind   error
}

// NewFieldError builds a FieldError of the given kind.
func NewFieldError(kind error, field, reason string) *FieldError {
	return &FieldError{Field: field, Reason: reason, Kind: kind}
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error {
	return e.Kind
}

// StorageError wraps an infrastructure error as ErrStorageFailure while
// keeping the cause reachable.
func StorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, errors.Join(ErrStorageFailure, err))
}
