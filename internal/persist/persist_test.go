package persist

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/notexe/quick-remind/internal/config"
	"github.com/notexe/quick-remind/internal/reminder"
	"github.com/spf13/afero"
)

var base = time.Date(2026, 3, 14, 9, 0, 0, 0, time.Local)

// key is the comparable part of a reminder after a round trip.
type key struct {
	ID      uuid.UUID
	Message string
	Due     int64
}

func keys(rs []reminder.Reminder) []key {
	out := make([]key, 0, len(rs))
	for _, r := range rs {
		out = append(out, key{ID: r.ID, Message: r.Message, Due: r.DueTime.Unix()})
	}
	return out
}

func sample() []reminder.Reminder {
	done := reminder.New("done", base.Add(-time.Minute), base)
	done.IsCompleted = true
	return []reminder.Reminder{
		reminder.New("later", base.Add(time.Hour), base),
		done,
		reminder.New("soon", base.Add(5*time.Minute), base),
	}
}

func wantActive(rs []reminder.Reminder) []key {
	active := reminder.ActiveOnly(rs)
	reminder.SortByDue(active)
	return keys(active)
}

func adapters(t *testing.T) map[string]Adapter {
	t.Helper()
	db, err := NewSQLite(filepath.Join(t.TempDir(), "reminders.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return map[string]Adapter{
		"json":   NewJSONFile(afero.NewMemMapFs(), "/state/reminders.json"),
		"sqlite": db,
	}
}

func TestRoundTripPrunesCompleted(t *testing.T) {
	ctx := context.Background()
	for name, a := range adapters(t) {
		t.Run(name, func(t *testing.T) {
			empty, err := a.Load(ctx)
			if err != nil || len(empty) != 0 {
				t.Fatalf("fresh load: rs=%v err=%v", empty, err)
			}

			in := sample()
			if err := a.SaveActiveSet(ctx, in); err != nil {
				t.Fatalf("save: %v", err)
			}
			got, err := a.Load(ctx)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if diff := cmp.Diff(wantActive(in), keys(got)); diff != "" {
				t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
			}

			// Saving what was loaded is a fixed point.
			if err := a.SaveActiveSet(ctx, got); err != nil {
				t.Fatalf("resave: %v", err)
			}
			again, err := a.Load(ctx)
			if err != nil {
				t.Fatalf("reload: %v", err)
			}
			if diff := cmp.Diff(keys(got), keys(again)); diff != "" {
				t.Fatalf("second round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSaveReplacesPreviousSet(t *testing.T) {
	ctx := context.Background()
	for name, a := range adapters(t) {
		t.Run(name, func(t *testing.T) {
			if err := a.SaveActiveSet(ctx, sample()); err != nil {
				t.Fatalf("save: %v", err)
			}
			only := []reminder.Reminder{reminder.New("only", base, base)}
			if err := a.SaveActiveSet(ctx, only); err != nil {
				t.Fatalf("save: %v", err)
			}
			got, err := a.Load(ctx)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if diff := cmp.Diff(keys(only), keys(got)); diff != "" {
				t.Fatalf("mismatch (-want +got):\n%s", diff)
			}

			if err := a.SaveActiveSet(ctx, nil); err != nil {
				t.Fatalf("save empty: %v", err)
			}
			got, err = a.Load(ctx)
			if err != nil || len(got) != 0 {
				t.Fatalf("after empty save: rs=%v err=%v", got, err)
			}
		})
	}
}

func TestJSONFileMalformedIsEmptyWithError(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/state/reminders.json", []byte("{not json"), 0o600); err != nil {
		t.Fatalf("seed: %v", err)
	}
	rs, err := NewJSONFile(fs, "/state/reminders.json").Load(context.Background())
	if err == nil {
		t.Fatal("expected a parse error")
	}
	if len(rs) != 0 {
		t.Fatalf("expected no reminders, got %d", len(rs))
	}
}

func TestJSONFileEmptyFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/r.json", nil, 0o600); err != nil {
		t.Fatalf("seed: %v", err)
	}
	rs, err := NewJSONFile(fs, "/r.json").Load(context.Background())
	if err != nil || len(rs) != 0 {
		t.Fatalf("empty file: rs=%v err=%v", rs, err)
	}
}

func TestJSONFileLayout(t *testing.T) {
	fs := afero.NewMemMapFs()
	j := NewJSONFile(fs, "/cfg/quick-remind/reminders.json")
	r := reminder.New("Buy milk", base.Add(5*time.Minute), base)
	if err := j.SaveActiveSet(context.Background(), []reminder.Reminder{r}); err != nil {
		t.Fatalf("save: %v", err)
	}

	data, err := afero.ReadFile(fs, j.Path())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(raw) != 1 {
		t.Fatalf("expected one record, got %d", len(raw))
	}
	for _, field := range []string{"id", "message", "due_time", "is_completed", "created_at"} {
		if _, ok := raw[0][field]; !ok {
			t.Errorf("record missing field %q: %v", field, raw[0])
		}
	}

	info, err := fs.Stat(j.Path())
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("file mode = %o, want 600", perm)
	}

	leftovers, err := afero.Glob(fs, "/cfg/quick-remind/*.tmp")
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(leftovers) != 0 {
		t.Errorf("temp files left behind: %v", leftovers)
	}
}

func TestSQLiteSkipsUndecodableRows(t *testing.T) {
	db, err := NewSQLite(filepath.Join(t.TempDir(), "bad.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	good := reminder.New("good", base, base)
	if err := db.SaveActiveSet(context.Background(), []reminder.Reminder{good}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := db.db.Exec(`INSERT INTO reminders (id, message, due_time, is_completed, created_at)
		VALUES ('not-a-uuid', 'bad', 'yesterday', 0, '')`); err != nil {
		t.Fatalf("seed bad row: %v", err)
	}

	rs, err := db.Load(context.Background())
	if err == nil {
		t.Fatal("expected a decode error for the bad row")
	}
	if diff := cmp.Diff(keys([]reminder.Reminder{good}), keys(rs)); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestOpen(t *testing.T) {
	fs := afero.NewMemMapFs()
	a, err := Open(config.StorageConfig{Backend: config.BackendJSON, Path: "/x/r.json"}, fs)
	if err != nil {
		t.Fatalf("open json: %v", err)
	}
	if _, ok := a.(*JSONFile); !ok {
		t.Fatalf("expected *JSONFile, got %T", a)
	}

	dbPath := filepath.Join(t.TempDir(), "nested", "r.db")
	a, err = Open(config.StorageConfig{Backend: config.BackendSQLite, Path: dbPath}, afero.NewOsFs())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	a.Close()

	_, err = Open(config.StorageConfig{Backend: "etcd"}, fs)
	if !errors.Is(err, ErrUnknownBackend) {
		t.Fatalf("expected ErrUnknownBackend, got %v", err)
	}
}
