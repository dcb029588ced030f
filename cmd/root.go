// Package cmd implements the CLI command structure for todos.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/mslade/todos/internal/config"
	"github.com/mslade/todos/internal/logging"
	"github.com/mslade/todos/internal/query"
	"github.com/mslade/todos/internal/store"
	"github.com/mslade/todos/internal/task"
	"github.com/mslade/todos/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Run executes the todos CLI.
func Run(ctx context.Context, args []string) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("todos", flag.ContinueOnError)
	fs.Usage = func() {
		printUsage(fs, os.Stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cfg, err := config.Load(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, os.Stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	logger := logging.New(cfg)

	remainingArgs := fs.Args()
	if len(remainingArgs) == 0 {
		printUsage(fs, os.Stdout)
		return nil
	}
	subcommand := remainingArgs[0]
	remainingArgs = remainingArgs[1:]

	switch subcommand {
	case "add":
		return addCommand(cfg, logger, remainingArgs)
	case "list":
		return listCommand(cfg, logger, remainingArgs)
	case "update":
		return updateCommand(cfg, logger, remainingArgs)
	case "delete":
		return deleteCommand(cfg, logger, remainingArgs)
	case "complete":
		return completeCommand(cfg, logger, remainingArgs)
	case "show":
		return showCommand(cfg, logger, remainingArgs)
	case "search":
		return searchCommand(cfg, logger, remainingArgs)
	case "stats":
		return statsCommand(cfg, logger, remainingArgs)
	case "doctor":
		return doctorCommand(cfg, remainingArgs)
	case "tui":
		return ui.RunTUI(ctx, cfg)
	case "version", "--version", "-v":
		return versionCommand()
	case "help", "--help", "-h":
		printUsage(fs, os.Stdout)
		return nil
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, os.Stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// addCommand creates a new task.
func addCommand(cfg *config.Config, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("todos add", flag.ContinueOnError)
	description := fs.String("d", "", "Task description")
	fs.StringVar(description, "description", "", "Task description")
	priority := fs.String("p", "", "Task priority (low|medium|high)")
	fs.StringVar(priority, "priority", "", "Task priority (low|medium|high)")
	dueDate := fs.String("due", "", "Due date (YYYY-MM-DD)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	title := strings.Join(fs.Args(), " ")

	var p task.Priority
	if *priority != "" {
		var err error
		if p, err = task.ParsePriority(*priority); err != nil {
			return err
		}
	}

	s, err := store.Open(cfg.StoreFile, logger)
	if err != nil {
		return err
	}
	created, err := s.Add(title, *description, p, *dueDate)
	if err != nil {
		return err
	}

	fmt.Printf("✅ Added task %d: %s\n", created.ID, created.Title)
	return nil
}

// listCommand prints tasks, optionally filtered by status and priority.
func listCommand(cfg *config.Config, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("todos list", flag.ContinueOnError)
	statusFilter := fs.String("status", "", "Filter by status (pending|completed)")
	fs.StringVar(statusFilter, "s", "", "Filter by status (pending|completed)")
	priorityFilter := fs.String("priority", "", "Filter by priority (low|medium|high)")
	fs.StringVar(priorityFilter, "p", "", "Filter by priority (low|medium|high)")
	verbose := fs.Bool("v", false, "Show more details")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	var filter query.Filter
	if *statusFilter != "" {
		status, err := task.ParseStatus(*statusFilter)
		if err != nil {
			return err
		}
		filter.Status = status
	}
	if *priorityFilter != "" {
		priority, err := task.ParsePriority(*priorityFilter)
		if err != nil {
			return err
		}
		filter.Priority = priority
	}

	s, err := store.Open(cfg.StoreFile, logger)
	if err != nil {
		return err
	}

	tasks := query.List(s.Tasks(), filter)
	if len(tasks) == 0 {
		fmt.Println("No tasks found.")
		return nil
	}

	fmt.Printf("📋 Tasks (%d):\n", len(tasks))
	for _, t := range tasks {
		printTask(t, *verbose)
	}
	return nil
}

// updateCommand patches the named fields of a task.
func updateCommand(cfg *config.Config, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("todos update", flag.ContinueOnError)
	title := fs.String("t", "", "New title")
	fs.StringVar(title, "title", "", "New title")
	description := fs.String("d", "", "New description")
	fs.StringVar(description, "description", "", "New description")
	priority := fs.String("p", "", "New priority (low|medium|high)")
	fs.StringVar(priority, "priority", "", "New priority (low|medium|high)")
	dueDate := fs.String("due", "", "New due date (YYYY-MM-DD)")
	status := fs.String("status", "", "New status (pending|completed)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	id, err := parseID(fs.Args())
	if err != nil {
		return err
	}

	// Only flags the user actually set become part of the patch, so an
	// empty -d "" still clears the description.
	var patch task.Patch
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t", "title":
			patch.Title = title
		case "d", "description":
			patch.Description = description
		case "due":
			patch.DueDate = dueDate
		}
	})
	if *priority != "" {
		p, err := task.ParsePriority(*priority)
		if err != nil {
			return err
		}
		patch.Priority = &p
	}
	if *status != "" {
		st, err := task.ParseStatus(*status)
		if err != nil {
			return err
		}
		patch.Status = &st
	}

	if patch.IsZero() {
		return &task.ValidationError{
			Field: "update",
			Err:   fmt.Errorf("specify at least one field to update"),
		}
	}

	s, err := store.Open(cfg.StoreFile, logger)
	if err != nil {
		return err
	}
	updated, err := s.Update(id, patch)
	if err != nil {
		return err
	}

	fmt.Printf("✅ Updated task %d: %s\n", updated.ID, updated.Title)
	return nil
}

// deleteCommand permanently removes a task.
func deleteCommand(cfg *config.Config, logger *log.Logger, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}

	s, err := store.Open(cfg.StoreFile, logger)
	if err != nil {
		return err
	}
	removed, err := s.Delete(id)
	if err != nil {
		return err
	}

	fmt.Printf("🗑️  Deleted task %d: %s\n", removed.ID, removed.Title)
	return nil
}

// completeCommand marks a task as completed.
func completeCommand(cfg *config.Config, logger *log.Logger, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}

	s, err := store.Open(cfg.StoreFile, logger)
	if err != nil {
		return err
	}
	completed, err := s.Complete(id)
	if err != nil {
		return err
	}

	fmt.Printf("✅ Completed task %d: %s\n", completed.ID, completed.Title)
	return nil
}

// showCommand prints the full record of one task.
func showCommand(cfg *config.Config, logger *log.Logger, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}

	s, err := store.Open(cfg.StoreFile, logger)
	if err != nil {
		return err
	}
	t, err := s.Get(id)
	if err != nil {
		return err
	}

	fmt.Println("📋 Task details:")
	fmt.Printf("  ID:          %d\n", t.ID)
	fmt.Printf("  Title:       %s\n", t.Title)
	fmt.Printf("  Description: %s\n", t.Description)
	fmt.Printf("  Status:      %s\n", t.Status)
	fmt.Printf("  Priority:    %s\n", t.Priority)
	fmt.Printf("  Created:     %s\n", t.CreatedAt.Format("2006-01-02 15:04:05"))
	if t.DueDate != "" {
		fmt.Printf("  Due:         %s\n", t.DueDate)
	}
	if t.CompletedAt != nil {
		fmt.Printf("  Completed:   %s\n", t.CompletedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

// searchCommand matches tasks by substring on title or description.
func searchCommand(cfg *config.Config, logger *log.Logger, args []string) error {
	queryText := strings.Join(args, " ")

	s, err := store.Open(cfg.StoreFile, logger)
	if err != nil {
		return err
	}

	matches := query.Search(s.Tasks(), queryText)
	if len(matches) == 0 {
		fmt.Printf("No tasks matching %q.\n", queryText)
		return nil
	}

	fmt.Printf("🔍 Results for %q (%d):\n", queryText, len(matches))
	for _, t := range matches {
		printTask(t, false)
	}
	return nil
}

// statsCommand prints aggregate statistics.
func statsCommand(cfg *config.Config, logger *log.Logger, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}

	s, err := store.Open(cfg.StoreFile, logger)
	if err != nil {
		return err
	}

	stats := query.Statistics(s.Tasks())
	fmt.Println("📊 Statistics:")
	fmt.Printf("  Total:     %d\n", stats.Total)
	fmt.Printf("  Completed: %d\n", stats.Completed)
	fmt.Printf("  Pending:   %d\n", stats.Pending)
	if stats.Total > 0 {
		fmt.Printf("  Completion rate: %.1f%%\n", stats.CompletionRate)
	} else {
		fmt.Println("  Completion rate: n/a")
	}

	if len(stats.ByPriority) > 0 {
		fmt.Println("  Priority breakdown:")
		for _, p := range []task.Priority{task.PriorityHigh, task.PriorityMedium, task.PriorityLow} {
			if count, ok := stats.ByPriority[p]; ok {
				fmt.Printf("    %s: %d\n", p, count)
			}
		}
	}
	return nil
}

// doctorCommand checks config, store file, and schema validity.
func doctorCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todos doctor", flag.ContinueOnError)
	verbose := fs.Bool("v", false, "Show more details")
	if err := fs.Parse(args); err != nil {
		return err
	}

	allOK := true

	fmt.Printf("Store file: %s\n", cfg.StoreFile)
	info, err := os.Stat(cfg.StoreFile)
	switch {
	case os.IsNotExist(err):
		fmt.Println("  ⚠️  Not found (will be created on first add)")
	case err != nil:
		fmt.Printf("  ❌ Error: %v\n", err)
		allOK = false
	case info.IsDir():
		fmt.Println("  ❌ Error: path is a directory")
		allOK = false
	default:
		fmt.Println("  ✅ OK")
		f, loadErr := store.Load(cfg.StoreFile, nil)
		if loadErr != nil {
			fmt.Printf("  ❌ Load error: %v\n", loadErr)
			allOK = false
			break
		}
		result := f.Validate(store.ValidationOptions{SchemaPath: cfg.SchemaFile})
		for _, w := range result.Warnings {
			fmt.Printf("  ⚠️  %s\n", w)
		}
		if result.Valid {
			fmt.Println("  ✅ Valid")
		} else {
			fmt.Println("  ❌ Validation failed:")
			for _, e := range result.Errors {
				fmt.Printf("     - %v\n", e)
			}
			allOK = false
		}
		if *verbose {
			fmt.Printf("  Tasks: %d\n", len(f.Tasks))
			for _, t := range f.Tasks {
				fmt.Printf("    - [%s] %d: %s\n", t.Status, t.ID, t.Title)
			}
		}
	}
	fmt.Println()

	if cfg.SchemaFile != "" {
		fmt.Printf("Schema file: %s\n", cfg.SchemaFile)
		if info, err := os.Stat(cfg.SchemaFile); err != nil {
			fmt.Printf("  ❌ Error: %v\n", err)
			allOK = false
		} else if info.IsDir() {
			fmt.Println("  ❌ Error: path is a directory")
			allOK = false
		} else {
			fmt.Println("  ✅ OK")
		}
		fmt.Println()
	}

	if allOK {
		fmt.Println("✅ All checks passed!")
		return nil
	}
	fmt.Println("⚠️  Some checks failed.")
	return fmt.Errorf("doctor checks failed")
}

// versionCommand prints version information.
func versionCommand() error {
	fmt.Printf("todos version %s\n", Version)
	return nil
}

// parseID extracts the task id from the remaining positional arguments.
func parseID(args []string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("expected exactly one task id, got %d arguments", len(args))
	}
	id, err := strconv.Atoi(args[0])
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid task id %q", args[0])
	}
	return id, nil
}

// printTask prints a single task line.
func printTask(t task.Task, verbose bool) {
	statusIcon := "⏳"
	if t.Status == task.StatusCompleted {
		statusIcon = "✅"
	}

	priorityIcon := "🟡"
	switch t.Priority {
	case task.PriorityHigh:
		priorityIcon = "🔴"
	case task.PriorityLow:
		priorityIcon = "🟢"
	}

	fmt.Printf("  %s %s %d. %s\n", statusIcon, priorityIcon, t.ID, t.Title)

	if verbose {
		if t.Description != "" {
			fmt.Printf("      Description: %s\n", t.Description)
		}
		fmt.Printf("      Created: %s\n", t.CreatedAt.Format("2006-01-02"))
		if t.DueDate != "" {
			fmt.Printf("      Due: %s\n", t.DueDate)
		}
		if t.CompletedAt != nil {
			fmt.Printf("      Completed: %s\n", t.CompletedAt.Format("2006-01-02"))
		}
	}
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Todos - A single-user task list manager")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  todos [global options] <command> [options] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  add [options] <title>     Add a new task")
	fmt.Fprintln(w, "  list [options]            List tasks")
	fmt.Fprintln(w, "  update [options] <id>     Update fields of a task")
	fmt.Fprintln(w, "  complete <id>             Mark a task as completed")
	fmt.Fprintln(w, "  delete <id>               Delete a task")
	fmt.Fprintln(w, "  show <id>                 Show one task in detail")
	fmt.Fprintln(w, "  search <query>            Search titles and descriptions")
	fmt.Fprintln(w, "  stats                     Show aggregate statistics")
	fmt.Fprintln(w, "  doctor                    Check config and store file validity")
	fmt.Fprintln(w, "  tui                       Launch terminal UI")
	fmt.Fprintln(w, "  version                   Show version information")
	fmt.Fprintln(w, "  help                      Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Add Options (use with 'add'):")
	fmt.Fprintln(w, "  -d, -description string")
	fmt.Fprintln(w, "        Task description")
	fmt.Fprintln(w, "  -p, -priority string")
	fmt.Fprintln(w, "        Task priority (low|medium|high, default medium)")
	fmt.Fprintln(w, "  -due string")
	fmt.Fprintln(w, "        Due date (YYYY-MM-DD)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "List Options (use with 'list'):")
	fmt.Fprintln(w, "  -s, -status string")
	fmt.Fprintln(w, "        Filter by status (pending|completed)")
	fmt.Fprintln(w, "  -p, -priority string")
	fmt.Fprintln(w, "        Filter by priority (low|medium|high)")
	fmt.Fprintln(w, "  -v    Show more details")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Update Options (use with 'update'):")
	fmt.Fprintln(w, "  -t, -title string")
	fmt.Fprintln(w, "        New title")
	fmt.Fprintln(w, "  -d, -description string")
	fmt.Fprintln(w, "        New description")
	fmt.Fprintln(w, "  -p, -priority string")
	fmt.Fprintln(w, "        New priority (low|medium|high)")
	fmt.Fprintln(w, "  -due string")
	fmt.Fprintln(w, "        New due date (YYYY-MM-DD)")
	fmt.Fprintln(w, "  -status string")
	fmt.Fprintln(w, "        New status (pending|completed)")
}
