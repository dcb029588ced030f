// Package query provides read-only views over the task collection.
//
// Every function is pure: it never mutates its input and never touches
// the backing file.
package query

import (
	"math"
	"strings"

	"github.com/mslade/todos/internal/task"
)

// Filter narrows a listing. Zero-valued fields match everything;
// set fields must all match (logical AND).
type Filter struct {
	Status   task.Status
	Priority task.Priority
}

// List returns the tasks matching the filter, preserving insertion order.
func List(tasks []task.Task, f Filter) []task.Task {
	matched := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.Priority != "" && t.Priority != f.Priority {
			continue
		}
		matched = append(matched, t)
	}
	return matched
}

// Search returns the tasks whose title or description contains the
// query, case-insensitively, preserving insertion order. An empty query
// matches everything: the empty string is a substring of anything.
func Search(tasks []task.Task, query string) []task.Task {
	q := strings.ToLower(query)
	matched := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Title), q) ||
			strings.Contains(strings.ToLower(t.Description), q) {
			matched = append(matched, t)
		}
	}
	return matched
}

// Stats aggregates the collection.
type Stats struct {
	Total          int
	Completed      int
	Pending        int
	CompletionRate float64 // percentage, rounded to one decimal; 0 when Total is 0
	ByPriority     map[task.Priority]int
}

// Statistics computes aggregate counts in a single pass over the
// collection. ByPriority only carries priorities that actually occur.
func Statistics(tasks []task.Task) Stats {
	s := Stats{
		Total:      len(tasks),
		ByPriority: make(map[task.Priority]int),
	}
	for _, t := range tasks {
		if t.Status == task.StatusCompleted {
			s.Completed++
		}
		s.ByPriority[t.Priority]++
	}
	s.Pending = s.Total - s.Completed

	if s.Total > 0 {
		rate := float64(s.Completed) / float64(s.Total) * 100
		s.CompletionRate = math.Round(rate*10) / 10
	}
	return s
}
