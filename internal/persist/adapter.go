// Package persist holds the durable storage adapters for the active
// reminder set. Adapters own only serialized snapshots; the live reminders
// belong to the scheduler.
package persist

import (
	"context"
	"errors"
	"fmt"

	"github.com/notexe/quick-remind/internal/config"
	"github.com/notexe/quick-remind/internal/reminder"
	"github.com/spf13/afero"
)

// ErrUnknownBackend is returned by Open for an unsupported storage backend.
var ErrUnknownBackend = errors.New("unknown storage backend")

// Adapter loads and saves the active reminder set.
//
// Load returns only non-completed reminders. A store that does not exist yet
// is an empty set with a nil error. Unreadable or malformed content yields
// whatever could be recovered (possibly nothing) together with an error the
// caller is expected to log and otherwise ignore.
//
// SaveActiveSet drops completed entries before writing.
type Adapter interface {
	Load(ctx context.Context) ([]reminder.Reminder, error)
	SaveActiveSet(ctx context.Context, rs []reminder.Reminder) error
	Close() error
}

// Open returns the adapter selected by cfg.Backend. fs is used by the JSON
// backend only.
func Open(cfg config.StorageConfig, fs afero.Fs) (Adapter, error) {
	switch cfg.Backend {
	case config.BackendJSON, "":
		return NewJSONFile(fs, cfg.Path), nil
	case config.BackendSQLite:
		if err := fs.MkdirAll(dirOf(cfg.Path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
		return NewSQLite(cfg.Path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, cfg.Backend)
	}
}
