package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/notexe/quick-remind/internal/reminder"
	"github.com/spf13/afero"
)

// JSONFile keeps the active set as a JSON array in a single file.
type JSONFile struct {
	fs   afero.Fs
	path string
}

// NewJSONFile returns an adapter for the file at path on fs.
func NewJSONFile(fs afero.Fs, path string) *JSONFile {
	return &JSONFile{fs: fs, path: path}
}

// Path returns the file location.
func (j *JSONFile) Path() string {
	return j.path
}

func (j *JSONFile) Load(_ context.Context) ([]reminder.Reminder, error) {
	data, err := afero.ReadFile(j.fs, j.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", j.path, err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var rs []reminder.Reminder
	if err := json.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", j.path, err)
	}

	rs = reminder.ActiveOnly(rs)
	for i := range rs {
		rs[i].DueTime = rs[i].DueTime.Local()
		rs[i].CreatedAt = rs[i].CreatedAt.Local()
	}
	reminder.SortByDue(rs)
	return rs, nil
}

// SaveActiveSet writes to a temporary sibling file and renames it over the
// previous snapshot, so a crash mid-write leaves the old file intact.
func (j *JSONFile) SaveActiveSet(_ context.Context, rs []reminder.Reminder) error {
	active := reminder.ActiveOnly(rs)

	data, err := json.MarshalIndent(active, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode reminders: %w", err)
	}

	dir := dirOf(j.path)
	if err := j.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	tmp, err := afero.TempFile(j.fs, dir, filepath.Base(j.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		j.fs.Remove(tmpName)
		return fmt.Errorf("failed to write reminders: %w", err)
	}
	if err := tmp.Close(); err != nil {
		j.fs.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := j.fs.Chmod(tmpName, 0o600); err != nil {
		j.fs.Remove(tmpName)
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := j.fs.Rename(tmpName, j.path); err != nil {
		j.fs.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", j.path, err)
	}
	return nil
}

// Close is a no-op; the file is opened per operation.
func (j *JSONFile) Close() error {
	return nil
}

func dirOf(path string) string {
	dir := filepath.Dir(path)
	if dir == "" {
		return "."
	}
	return dir
}
