package reminder

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Reminder represents one scheduled note.
type Reminder struct {
	ID          uuid.UUID `json:"id"`
	Message     string    `json:"message"`
	DueTime     time.Time `json:"due_time"`
	IsCompleted bool      `json:"is_completed"`
	CreatedAt   time.Time `json:"created_at"`
}

// New builds a pending reminder with a fresh id.
// Neither the message nor the due time is validated; a due time in the
// past simply makes the reminder due on the next check.
func New(message string, due, now time.Time) Reminder {
	return Reminder{
		ID:        uuid.New(),
		Message:   message,
		DueTime:   due,
		CreatedAt: now,
	}
}

// IsDue reports whether r is still active and its due time has been reached.
func (r Reminder) IsDue(now time.Time) bool {
	return !r.IsCompleted && !r.DueTime.After(now)
}

// DueEvent is handed to notification sinks once per completed reminder.
type DueEvent struct {
	ID      uuid.UUID `json:"id"`
	Message string    `json:"message"`
	DueTime time.Time `json:"due_time"`
}

// Event returns the due event describing r.
func (r Reminder) Event() DueEvent {
	return DueEvent{ID: r.ID, Message: r.Message, DueTime: r.DueTime}
}

// SortByDue orders rs by ascending due time, keeping the relative order of
// reminders that share a due time.
func SortByDue(rs []Reminder) {
	sort.SliceStable(rs, func(i, j int) bool {
		return rs[i].DueTime.Before(rs[j].DueTime)
	})
}

// ActiveOnly returns the non-completed reminders of rs in their original order.
func ActiveOnly(rs []Reminder) []Reminder {
	out := make([]Reminder, 0, len(rs))
	for _, r := range rs {
		if !r.IsCompleted {
			out = append(out, r)
		}
	}
	return out
}
