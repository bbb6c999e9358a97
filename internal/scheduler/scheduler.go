// Package scheduler is the reminder lifecycle engine. It owns the reminder
// store, fires due events on a fixed cadence and keeps the persisted active
// set in sync with every mutation.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/notexe/quick-remind/internal/persist"
	"github.com/notexe/quick-remind/internal/reminder"
	"github.com/rs/zerolog"
)

// checkInterval bounds the delay between a reminder's due time and its
// due event.
const checkInterval = 10 * time.Second

// loadTimeout caps the one-off read of the persisted set at startup.
const loadTimeout = 30 * time.Second

// Sink receives one due event per completed reminder. Events of a single
// check cycle arrive in ascending due time order. Sinks run outside the
// store lock and may call Add and Remove, but not CheckDue.
type Sink interface {
	ReminderDue(ev reminder.DueEvent)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ev reminder.DueEvent)

func (f SinkFunc) ReminderDue(ev reminder.DueEvent) { f(ev) }

// Scheduler is the single mutation gateway for reminders.
type Scheduler struct {
	// mu guards store. Add, Remove and the marking step of CheckDue take
	// it exclusively; readers share it.
	mu    sync.RWMutex
	store *reminder.Store

	// cycleMu serialises whole CheckDue cycles, event delivery included.
	cycleMu sync.Mutex

	sink     Sink
	adapter  persist.Adapter
	writer   *snapshotWriter
	now       func() time.Time
	newTicker func(d time.Duration) (<-chan time.Time, func())
	interval  time.Duration
	log       zerolog.Logger
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock replaces time.Now as the source of "now".
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// WithLogger sets the logger used for persistence and lifecycle messages.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Scheduler) { s.log = l }
}

// New creates a Scheduler, seeding it once from adapter.Load. A failed or
// partial load is logged and the scheduler starts from whatever was
// recovered. A nil sink discards due events.
func New(adapter persist.Adapter, sink Sink, opts ...Option) *Scheduler {
	s := &Scheduler{
		store:    reminder.NewStore(),
		sink:     sink,
		adapter:  adapter,
		now:       time.Now,
		newTicker: realTicker,
		interval:  checkInterval,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.sink == nil {
		s.sink = SinkFunc(func(reminder.DueEvent) {})
	}
	s.log = s.log.With().Str("component", "scheduler").Logger()

	s.seed()
	s.writer = newSnapshotWriter(adapter, s.log)
	return s
}

func (s *Scheduler) seed() {
	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()

	loaded, err := s.adapter.Load(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to load persisted reminders, continuing from memory")
	}

	for _, r := range loaded {
		if r.IsCompleted {
			continue
		}
		if !s.store.Insert(r) {
			s.log.Warn().Str("id", r.ID.String()).Msg("skipping duplicate persisted reminder")
		}
	}
	s.log.Debug().Int("count", s.store.Len()).Msg("seeded reminders")
}

// Add schedules message for due and returns the new reminder's id. A due
// time in the past makes the reminder fire on the next check.
func (s *Scheduler) Add(message string, due time.Time) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := reminder.New(message, due, s.now())
	// Ids are never reused within a store.
	for !s.store.Insert(r) {
		r.ID = uuid.New()
	}
	s.log.Debug().Str("id", r.ID.String()).Time("due", due).Msg("reminder added")

	s.persistLocked()
	return r.ID
}

// Remove deletes the reminder with the given id. Unknown ids are ignored.
// The persisted set is rewritten either way.
func (s *Scheduler) Remove(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store.Delete(id) {
		s.log.Debug().Str("id", id.String()).Msg("reminder removed")
	}
	s.persistLocked()
}

// Get returns the reminder with the given id, completed or not, as long as
// it has not been removed.
func (s *Scheduler) Get(id uuid.UUID) (reminder.Reminder, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.Get(id)
}

// ActiveReminders returns a snapshot of the non-completed reminders,
// earliest due first.
func (s *Scheduler) ActiveReminders() []reminder.Reminder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.Active()
}

// CheckDue completes every active reminder whose due time has been reached,
// delivers their due events in ascending due order and returns them.
func (s *Scheduler) CheckDue() []reminder.Reminder {
	s.cycleMu.Lock()
	defer s.cycleMu.Unlock()

	s.mu.Lock()
	now := s.now()
	fired := s.store.MarkDue(now)
	if len(fired) > 0 {
		s.persistLocked()
	}
	s.mu.Unlock()

	for _, r := range fired {
		s.log.Info().Str("id", r.ID.String()).Time("due", r.DueTime).Msg("reminder due")
		s.sink.ReminderDue(r.Event())
	}
	return fired
}

// Run checks immediately and then on every tick until ctx is cancelled.
// Reminders not yet due at shutdown stay persisted as active.
func (s *Scheduler) Run(ctx context.Context) error {
	s.log.Info().Dur("interval", s.interval).Msg("started")

	s.CheckDue()

	ticks, stop := s.newTicker(s.interval)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("shutting down")
			return nil
		case <-ticks:
			s.CheckDue()
		}
	}
}

func realTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// Flush blocks until the most recent snapshot has been handed to the
// adapter.
func (s *Scheduler) Flush() {
	s.writer.flush()
}

// Close writes any pending snapshot, stops the writer and closes the
// adapter.
func (s *Scheduler) Close() error {
	s.writer.close()
	return s.adapter.Close()
}

// persistLocked queues the current active set for writing. Called with mu
// held so snapshots are queued in mutation order.
func (s *Scheduler) persistLocked() {
	s.writer.submit(s.store.Active())
}
