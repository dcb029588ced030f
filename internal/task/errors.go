package task

import (
	"errors"
	"fmt"
)

// ErrNotFound is the sentinel matched by errors.Is for unknown task ids.
var ErrNotFound = errors.New("task not found")

// NotFoundError reports an operation against an id not present in the store.
type NotFoundError struct {
	ID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task %d not found", e.ID)
}

// Unwrap returns ErrNotFound so callers can use errors.Is.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// ValidationError reports rejected input with the field it concerns.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
