package domain

import (
	"errors"
	"fmt"
)

// WindowClosedError is returned when a claim arrives while no window is open
// or the current window has already expired, even if the close timer has not
// fired yet.
type WindowClosedError struct{}

func (WindowClosedError) Error() string {
	return "claim window is closed"
}

// ValidationError is returned when a submitted claim fails field validation
// or captcha verification. No ledger mutation happens for a rejected claim.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError is returned when an operation references an entity that does
// not exist in the ledger.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// UnauthorizedError is returned when a caller fails the admin gate.
type UnauthorizedError struct {
	Reason string
}

func (e UnauthorizedError) Error() string {
	return fmt.Sprintf("unauthorized: %s", e.Reason)
}

// StorageError wraps a ledger I/O failure. It is transient from the caller's
// perspective; the core never retries it because a retry could double-insert
// a claim.
type StorageError struct {
	Op  string
	Err error
}

func (e StorageError) Error() string {
	return fmt.Sprintf("storage failure: %s: %v", e.Op, e.Err)
}

func (e StorageError) Unwrap() error {
	return e.Err
}

// IsWindowClosed reports whether err is a WindowClosedError.
func IsWindowClosed(err error) bool {
	var target WindowClosedError
	return errors.As(err, &target)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

// IsUnauthorized reports whether err is an UnauthorizedError.
func IsUnauthorized(err error) bool {
	var target UnauthorizedError
	return errors.As(err, &target)
}

// IsStorage reports whether err is a StorageError.
func IsStorage(err error) bool {
	var target StorageError
	return errors.As(err, &target)
}
