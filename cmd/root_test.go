// Package cmd provides tests for CLI command handlers.
package cmd

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mslade/todos/internal/store"
	"github.com/mslade/todos/internal/task"
)

func TestRun(t *testing.T) {
	t.Run("shows help with --help flag", func(t *testing.T) {
		if err := Run(context.Background(), []string{"--help"}); err != nil {
			t.Errorf("expected no error with --help, got %v", err)
		}
	})

	t.Run("shows help with no arguments", func(t *testing.T) {
		if err := Run(context.Background(), nil); err != nil {
			t.Errorf("expected no error with no arguments, got %v", err)
		}
	})

	t.Run("shows version with --version flag", func(t *testing.T) {
		if err := Run(context.Background(), []string{"--version"}); err != nil {
			t.Errorf("expected no error with --version, got %v", err)
		}
	})

	t.Run("unknown command returns error", func(t *testing.T) {
		err := Run(context.Background(), []string{"frobnicate"})
		if err == nil {
			t.Fatal("expected error for unknown command, got nil")
		}
		if !strings.Contains(err.Error(), "unknown command") {
			t.Errorf("expected 'unknown command' error, got %v", err)
		}
	})
}

// TestCommandFlow drives the full command surface against a temp store.
func TestCommandFlow(t *testing.T) {
	ctx := context.Background()
	storePath := filepath.Join(t.TempDir(), "todos.json")
	t.Setenv("TODOS_FILE", storePath)

	run := func(args ...string) error {
		return Run(ctx, args)
	}

	if err := run("add", "-p", "high", "-d", "two liters", "Buy milk"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := run("add", "Write report"); err != nil {
		t.Fatalf("add second: %v", err)
	}

	f, err := store.Load(storePath, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(f.Tasks) != 2 {
		t.Fatalf("expected 2 tasks in store, got %d", len(f.Tasks))
	}
	if f.Tasks[0].Title != "Buy milk" || f.Tasks[0].Priority != task.PriorityHigh {
		t.Errorf("first task: %+v", f.Tasks[0])
	}
	if f.Tasks[0].Description != "two liters" {
		t.Errorf("description: got %q", f.Tasks[0].Description)
	}

	if err := run("list", "-status", "pending"); err != nil {
		t.Errorf("list: %v", err)
	}
	if err := run("search", "milk"); err != nil {
		t.Errorf("search: %v", err)
	}
	if err := run("stats"); err != nil {
		t.Errorf("stats: %v", err)
	}
	if err := run("show", "1"); err != nil {
		t.Errorf("show: %v", err)
	}
	if err := run("doctor"); err != nil {
		t.Errorf("doctor: %v", err)
	}

	if err := run("complete", "1"); err != nil {
		t.Fatalf("complete: %v", err)
	}
	f, err = store.Load(storePath, nil)
	if err != nil {
		t.Fatal(err)
	}
	if f.Tasks[0].Status != task.StatusCompleted || f.Tasks[0].CompletedAt == nil {
		t.Errorf("completion not persisted: %+v", f.Tasks[0])
	}

	if err := run("update", "-t", "Buy oat milk", "1"); err != nil {
		t.Fatalf("update: %v", err)
	}
	f, err = store.Load(storePath, nil)
	if err != nil {
		t.Fatal(err)
	}
	if f.Tasks[0].Title != "Buy oat milk" {
		t.Errorf("update not persisted: %+v", f.Tasks[0])
	}

	if err := run("delete", "1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	f, err = store.Load(storePath, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(f.Tasks) != 1 {
		t.Fatalf("expected 1 task after delete, got %d", len(f.Tasks))
	}
}

func TestRunErrors(t *testing.T) {
	ctx := context.Background()
	storePath := filepath.Join(t.TempDir(), "todos.json")
	t.Setenv("TODOS_FILE", storePath)

	t.Run("add without title", func(t *testing.T) {
		err := Run(ctx, []string{"add"})
		var verr *task.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("add with bad priority", func(t *testing.T) {
		if err := Run(ctx, []string{"add", "-p", "urgent", "Task"}); err == nil {
			t.Fatal("expected error for bad priority")
		}
	})

	t.Run("show unknown id", func(t *testing.T) {
		err := Run(ctx, []string{"show", "42"})
		if !errors.Is(err, task.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("complete unknown id", func(t *testing.T) {
		if err := Run(ctx, []string{"complete", "42"}); !errors.Is(err, task.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("delete unknown id", func(t *testing.T) {
		if err := Run(ctx, []string{"delete", "42"}); !errors.Is(err, task.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("update without fields", func(t *testing.T) {
		if err := Run(ctx, []string{"add", "placeholder"}); err != nil {
			t.Fatal(err)
		}
		err := Run(ctx, []string{"update", "1"})
		var verr *task.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("non-numeric id", func(t *testing.T) {
		if err := Run(ctx, []string{"show", "abc"}); err == nil {
			t.Fatal("expected error for non-numeric id")
		}
	})

	t.Run("list with bad status", func(t *testing.T) {
		if err := Run(ctx, []string{"list", "-status", "done"}); err == nil {
			t.Fatal("expected error for bad status filter")
		}
	})
}
