package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mslade/todos/internal/task"
)

// Store owns the in-memory task collection and is the only writer of
// the backing file. Every successful mutation rewrites the whole file
// before returning.
//
// Ids come from a monotonically increasing counter persisted in the
// store file, so an id is never reused after a delete.
type Store struct {
	path   string
	file   *File
	logger *log.Logger
}

// Open loads the store at path. A missing file yields an empty store;
// a corrupt one is reported on the logger and also yields an empty
// store.
func Open(path string, logger *log.Logger) (*Store, error) {
	f, err := Load(path, logger)
	if err != nil {
		return nil, err
	}
	return &Store{path: path, file: f, logger: logger}, nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Tasks returns the current collection in insertion order.
func (s *Store) Tasks() []task.Task {
	return s.file.Tasks
}

// Add creates a new task and persists the collection. The title must be
// non-empty; an empty priority defaults to task.DefaultPriority.
func (s *Store) Add(title, description string, priority task.Priority, dueDate string) (task.Task, error) {
	if strings.TrimSpace(title) == "" {
		return task.Task{}, &task.ValidationError{
			Field: "title",
			Err:   fmt.Errorf("must not be empty"),
		}
	}
	if priority == "" {
		priority = task.DefaultPriority
	}
	if !priority.Valid() {
		return task.Task{}, &task.ValidationError{
			Field: "priority",
			Err:   fmt.Errorf("invalid priority %q, must be one of: low, medium, high", priority),
		}
	}

	t := task.Task{
		ID:          s.file.NextID,
		Title:       title,
		Description: description,
		Priority:    priority,
		Status:      task.StatusPending,
		CreatedAt:   time.Now().UTC(),
		DueDate:     dueDate,
	}

	s.file.NextID++
	s.file.Tasks = append(s.file.Tasks, t)

	if err := s.save(); err != nil {
		return task.Task{}, err
	}
	return t, nil
}

// Get returns the task with the given id.
func (s *Store) Get(id int) (task.Task, error) {
	if i := s.index(id); i >= 0 {
		return s.file.Tasks[i], nil
	}
	return task.Task{}, &task.NotFoundError{ID: id}
}

// Update applies a patch to the task with the given id and persists the
// collection. Nothing is mutated when the id is unknown or the patch is
// rejected.
//
// Setting status to completed stamps CompletedAt, unless the task is
// already completed, in which case the original stamp is kept. Setting
// status back to pending clears it.
func (s *Store) Update(id int, patch task.Patch) (task.Task, error) {
	if patch.IsZero() {
		return task.Task{}, &task.ValidationError{
			Field: "patch",
			Err:   fmt.Errorf("at least one field must be set"),
		}
	}

	i := s.index(id)
	if i < 0 {
		return task.Task{}, &task.NotFoundError{ID: id}
	}

	updated := s.file.Tasks[i]
	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return task.Task{}, &task.ValidationError{
				Field: "title",
				Err:   fmt.Errorf("must not be empty"),
			}
		}
		updated.Title = *patch.Title
	}
	if patch.Description != nil {
		updated.Description = *patch.Description
	}
	if patch.Priority != nil {
		if !patch.Priority.Valid() {
			return task.Task{}, &task.ValidationError{
				Field: "priority",
				Err:   fmt.Errorf("invalid priority %q, must be one of: low, medium, high", *patch.Priority),
			}
		}
		updated.Priority = *patch.Priority
	}
	if patch.DueDate != nil {
		updated.DueDate = *patch.DueDate
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return task.Task{}, &task.ValidationError{
				Field: "status",
				Err:   fmt.Errorf("invalid status %q, must be one of: pending, completed", *patch.Status),
			}
		}
		switch *patch.Status {
		case task.StatusCompleted:
			if updated.Status != task.StatusCompleted {
				now := time.Now().UTC()
				updated.CompletedAt = &now
			}
		case task.StatusPending:
			updated.CompletedAt = nil
		}
		updated.Status = *patch.Status
	}

	s.file.Tasks[i] = updated
	if err := s.save(); err != nil {
		return task.Task{}, err
	}
	return updated, nil
}

// Complete marks the task with the given id as completed.
func (s *Store) Complete(id int) (task.Task, error) {
	status := task.StatusCompleted
	return s.Update(id, task.Patch{Status: &status})
}

// Delete permanently removes the task with the given id and persists
// the collection. It returns the removed task.
func (s *Store) Delete(id int) (task.Task, error) {
	i := s.index(id)
	if i < 0 {
		return task.Task{}, &task.NotFoundError{ID: id}
	}

	removed := s.file.Tasks[i]
	s.file.Tasks = append(s.file.Tasks[:i], s.file.Tasks[i+1:]...)

	if err := s.save(); err != nil {
		return task.Task{}, err
	}
	return removed, nil
}

// index returns the position of the task with the given id, or -1.
func (s *Store) index(id int) int {
	for i, t := range s.file.Tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// save rewrites the backing file. Write failures are hard errors;
// silently losing a mutation would be worse than reporting one.
func (s *Store) save() error {
	if err := s.file.Save(s.path); err != nil {
		return fmt.Errorf("persist store: %w", err)
	}
	return nil
}
