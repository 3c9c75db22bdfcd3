package catalog

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by stores when a looked-up document does not exist.
var ErrNotFound = errors.New("not found")

// ErrCacheMiss is returned by featured caches when no entry exists for a key.
var ErrCacheMiss = errors.New("cache miss")

// ValidationError reports a malformed or out-of-range request parameter.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// NotFoundError reports that a specific entity requested by id is absent.
// A filter that matches nothing is not a NotFoundError.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// StoreUnavailableError wraps connectivity failures of the backing store.
type StoreUnavailableError struct {
	Op  string
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("store unavailable during %s: %v", e.Op, e.Err)
}

func (e *StoreUnavailableError) Unwrap() error {
	return e.Err
}
