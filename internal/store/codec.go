// Package store persists and owns the task collection.
package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/mslade/todos/internal/task"
)

// SchemaVersion is the store file format version written by Save.
const SchemaVersion = 1

// File represents the on-disk store structure.
type File struct {
	SchemaVersion int         `json:"schema_version"`
	NextID        int         `json:"next_id"`
	Tasks         []task.Task `json:"tasks"`
}

// NewFile returns an empty store file.
func NewFile() *File {
	return &File{
		SchemaVersion: SchemaVersion,
		NextID:        1,
		Tasks:         []task.Task{},
	}
}

// Load reads and parses a store file from path.
//
// A missing file is not an error: it yields an empty store. A file that
// cannot be parsed is reported on the logger and also yields an empty
// store, so a corrupt file never takes the whole command down. Only
// unexpected read failures propagate.
func Load(path string, logger *log.Logger) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewFile(), nil
		}
		return nil, fmt.Errorf("read store file: %w", err)
	}

	f, err := decode(data)
	if err != nil {
		if logger != nil {
			logger.Warn("store file is unreadable, starting with an empty list",
				"path", path, "err", err)
		}
		return NewFile(), nil
	}
	return f, nil
}

// decode parses store file bytes, accepting both the current envelope
// format and the legacy bare-array format.
func decode(data []byte) (*File, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return decodeLegacy(data)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse store file: %w", err)
	}
	// Valid JSON that carries none of the store fields is some other
	// document; refusing it keeps the next save from clobbering it
	// without a reported warning.
	if f.SchemaVersion == 0 && f.NextID == 0 && f.Tasks == nil {
		return nil, fmt.Errorf("parse store file: no store fields present")
	}
	if f.Tasks == nil {
		f.Tasks = []task.Task{}
	}
	f.repairNextID()
	return &f, nil
}

// decodeLegacy parses the bare top-level array written by earlier
// versions and recovers the id counter from the highest stored id.
func decodeLegacy(data []byte) (*File, error) {
	var tasks []task.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("parse legacy store file: %w", err)
	}
	f := &File{
		SchemaVersion: SchemaVersion,
		NextID:        1,
		Tasks:         tasks,
	}
	f.repairNextID()
	return f, nil
}

// repairNextID bumps NextID above every stored id so hand-edited and
// legacy files never cause an id collision.
func (f *File) repairNextID() {
	if f.NextID < 1 {
		f.NextID = 1
	}
	for _, t := range f.Tasks {
		if t.ID >= f.NextID {
			f.NextID = t.ID + 1
		}
	}
}

// Save writes the store file to path with 2-space indentation.
//
// The file is written to a temp file in the same directory and renamed
// into place, so a crash mid-write leaves the previous contents intact.
func (f *File) Save(path string) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store file: %w", err)
	}

	// Add trailing newline
	data = append(data, '\n')

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp store file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write store file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close store file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod store file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename store file: %w", err)
	}

	return nil
}
