package reminder

import (
	"time"

	"github.com/google/uuid"
)

// Store is the in-memory, insertion-ordered set of reminders.
// It is not safe for concurrent use; the scheduler serialises access.
type Store struct {
	items []Reminder
	index map[uuid.UUID]int
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{index: make(map[uuid.UUID]int)}
}

// Len returns the number of reminders held, completed ones included.
func (s *Store) Len() int {
	return len(s.items)
}

// Insert appends r. It reports false and leaves the store untouched when a
// reminder with the same id is already present.
func (s *Store) Insert(r Reminder) bool {
	if _, ok := s.index[r.ID]; ok {
		return false
	}
	s.index[r.ID] = len(s.items)
	s.items = append(s.items, r)
	return true
}

// Delete removes the reminder with the given id and reports whether it existed.
func (s *Store) Delete(id uuid.UUID) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.items); j++ {
		s.index[s.items[j].ID] = j
	}
	return true
}

// Get returns a copy of the reminder with the given id.
func (s *Store) Get(id uuid.UUID) (Reminder, bool) {
	i, ok := s.index[id]
	if !ok {
		return Reminder{}, false
	}
	return s.items[i], true
}

// Active returns copies of the non-completed reminders, earliest due first.
func (s *Store) Active() []Reminder {
	out := ActiveOnly(s.items)
	SortByDue(out)
	return out
}

// MarkDue completes every active reminder whose due time is at or before
// now and returns them earliest due first. A reminder is returned by at most
// one call.
func (s *Store) MarkDue(now time.Time) []Reminder {
	var due []Reminder
	for i := range s.items {
		if s.items[i].IsDue(now) {
			s.items[i].IsCompleted = true
			due = append(due, s.items[i])
		}
	}
	SortByDue(due)
	return due
}
