// Package quicknote turns user input into engine calls: it validates the
// note text, parses "when" expressions and composes snooze out of Remove
// and Add.
package quicknote

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyMessage = errors.New("please enter a reminder message")
	ErrInvalidWhen  = errors.New("invalid time")
)

// Engine is the part of the scheduler the calling layer mutates through.
type Engine interface {
	Add(message string, due time.Time) uuid.UUID
	Remove(id uuid.UUID)
}

// Create schedules a trimmed, non-empty message for due.
func Create(e Engine, message string, due time.Time) (uuid.UUID, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return uuid.Nil, ErrEmptyMessage
	}
	return e.Add(message, due), nil
}

// Snooze replaces the reminder id with a new one carrying the same message
// and due at until. The returned id is unrelated to the old one.
func Snooze(e Engine, id uuid.UUID, message string, until time.Time) uuid.UUID {
	e.Remove(id)
	return e.Add(message, until)
}

// SnoozeFor snoozes for d counted from now, the way the snooze dialog
// extends a reminder.
func SnoozeFor(e Engine, id uuid.UUID, message string, d time.Duration, now time.Time) uuid.UUID {
	return Snooze(e, id, message, now.Add(d))
}

var clockLayouts = []string{"15:04", "3:04pm", "3:04 pm", "3pm", "3 pm"}

// ParseWhen understands bare minutes ("15"), Go durations ("90s",
// "1h30m") and a wall-clock time today ("17:30", "5:30pm"). A clock time
// that has already passed today means tomorrow.
func ParseWhen(s string, now time.Time) (time.Time, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidWhen)
	}

	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return time.Time{}, fmt.Errorf("%w: negative delay %q", ErrInvalidWhen, s)
		}
		return now.Add(time.Duration(n) * time.Minute), nil
	}

	if d, err := time.ParseDuration(s); err == nil {
		if d < 0 {
			return time.Time{}, fmt.Errorf("%w: negative delay %q", ErrInvalidWhen, s)
		}
		return now.Add(d), nil
	}

	for _, layout := range clockLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		at := time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, now.Location())
		if !at.After(now) {
			at = at.AddDate(0, 0, 1)
		}
		return at, nil
	}

	return time.Time{}, fmt.Errorf("%w: %q (use minutes, a duration like 1h30m, or a time like 17:30)", ErrInvalidWhen, s)
}

// FormatMinutes renders a delay the way the quick note slider labels it.
func FormatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d %s", minutes, plural(minutes, "minute"))
	}
	hours := minutes / 60
	rest := minutes % 60
	if rest == 0 {
		return fmt.Sprintf("%d %s", hours, plural(hours, "hour"))
	}
	return fmt.Sprintf("%dh %dm", hours, rest)
}

// FormatClock renders t as a 12-hour wall clock, e.g. "3:04 PM".
func FormatClock(t time.Time) string {
	return t.Format("3:04 PM")
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
