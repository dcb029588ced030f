// Package task defines the task record and its value types.
package task

import (
	"fmt"
	"time"
)

// Priority represents a task priority.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// DefaultPriority is assigned when a task is created without one.
const DefaultPriority = PriorityMedium

// ParsePriority converts a string to a Priority.
func ParsePriority(s string) (Priority, error) {
	switch Priority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return Priority(s), nil
	}
	return "", &ValidationError{
		Field: "priority",
		Err:   fmt.Errorf("invalid priority %q, must be one of: low, medium, high", s),
	}
}

// Valid reports whether p is a known priority value.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Status represents a task status.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// ParseStatus converts a string to a Status.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusCompleted:
		return Status(s), nil
	}
	return "", &ValidationError{
		Field: "status",
		Err:   fmt.Errorf("invalid status %q, must be one of: pending, completed", s),
	}
}

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusCompleted
}

// Task represents a single task in the store.
//
// ID is assigned by the store and never changes. CompletedAt is non-nil
// exactly when Status is StatusCompleted. DueDate is a date-only string
// kept as the user supplied it; empty means no due date.
type Task struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    Priority   `json:"priority"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	DueDate     string     `json:"due_date,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Patch names each mutable task field as an optional value. A nil field
// is left untouched; a non-nil field overwrites the current value.
type Patch struct {
	Title       *string
	Description *string
	Priority    *Priority
	Status      *Status
	DueDate     *string
}

// IsZero returns true if the patch changes nothing.
func (p Patch) IsZero() bool {
	return p.Title == nil && p.Description == nil && p.Priority == nil &&
		p.Status == nil && p.DueDate == nil
}
