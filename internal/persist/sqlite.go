package persist

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/notexe/quick-remind/internal/reminder"

	_ "modernc.org/sqlite"
)

// SQLite stores the active reminder set in a SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the SQLite database at dbPath and
// ensures the reminders table exists.
func NewSQLite(dbPath string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	if err := createTable(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func createTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS reminders (
			id           TEXT    PRIMARY KEY,
			message      TEXT    NOT NULL,
			due_time     TEXT    NOT NULL,
			is_completed INTEGER NOT NULL DEFAULT 0,
			created_at   TEXT    NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Load returns the persisted active reminders ordered by due time.
// Rows that cannot be decoded are skipped; the first decode problem is
// returned alongside the rows that did load.
func (s *SQLite) Load(ctx context.Context) ([]reminder.Reminder, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, message, due_time, is_completed, created_at
		FROM reminders WHERE is_completed = 0
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load reminders: %w", err)
	}
	defer rows.Close()

	reminders, err := scanReminders(rows)
	reminder.SortByDue(reminders)
	return reminders, err
}

// SaveActiveSet replaces the table contents with the non-completed
// entries of rs inside a single transaction.
func (s *SQLite) SaveActiveSet(ctx context.Context, rs []reminder.Reminder) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM reminders`); err != nil {
		return fmt.Errorf("failed to clear reminders: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO reminders (id, message, due_time, is_completed, created_at)
		VALUES (?, ?, ?, 0, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range reminder.ActiveOnly(rs) {
		if _, err := stmt.ExecContext(ctx, r.ID.String(), r.Message,
			r.DueTime.Format(time.RFC3339), r.CreatedAt.Format(time.RFC3339)); err != nil {
			return fmt.Errorf("failed to insert reminder %s: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reminders: %w", err)
	}
	return nil
}

// scanReminders reads multiple rows into a slice of Reminder.
func scanReminders(rows *sql.Rows) ([]reminder.Reminder, error) {
	var (
		reminders []reminder.Reminder
		firstErr  error
	)
	for rows.Next() {
		var (
			r                      reminder.Reminder
			id, dueTime, createdAt string
			completed              int
		)

		if err := rows.Scan(&id, &r.Message, &dueTime, &completed, &createdAt); err != nil {
			return reminders, fmt.Errorf("failed to scan reminder: %w", err)
		}

		if err := decodeRow(&r, id, dueTime, createdAt); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		r.IsCompleted = completed != 0

		reminders = append(reminders, r)
	}
	if err := rows.Err(); err != nil {
		return reminders, err
	}
	return reminders, firstErr
}

func decodeRow(r *reminder.Reminder, id, dueTime, createdAt string) error {
	var err error
	if r.ID, err = uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid reminder id %q: %w", id, err)
	}
	if r.DueTime, err = time.Parse(time.RFC3339, dueTime); err != nil {
		return fmt.Errorf("invalid due_time for %s: %w", id, err)
	}
	r.DueTime = r.DueTime.Local()
	// created_at is informational; an unreadable value is left zero.
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		r.CreatedAt = t.Local()
	}
	return nil
}
