// Package notify provides the sinks that due reminders are delivered to.
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/notexe/quick-remind/internal/reminder"
	"github.com/notexe/quick-remind/internal/scheduler"
	"github.com/notexe/quick-remind/internal/ui"
	"github.com/rs/zerolog"
)

// Console prints a toast for every due reminder.
type Console struct {
	mu        sync.Mutex
	out       io.Writer
	formatter *ui.Formatter
	bell      bool
}

// NewConsole writes toasts to out, optionally ringing the terminal bell.
func NewConsole(out io.Writer, formatter *ui.Formatter, bell bool) *Console {
	return &Console{out: out, formatter: formatter, bell: bell}
}

func (c *Console) ReminderDue(ev reminder.DueEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.bell {
		fmt.Fprint(c.out, "\a")
	}
	fmt.Fprintln(c.out, c.formatter.FormatDue(ev))
}

// Log records each due reminder as a structured log line.
type Log struct {
	log zerolog.Logger
}

func NewLog(log zerolog.Logger) *Log {
	return &Log{log: log.With().Str("component", "notify").Logger()}
}

func (l *Log) ReminderDue(ev reminder.DueEvent) {
	l.log.Info().
		Str("id", ev.ID.String()).
		Str("text", ev.Message).
		Time("due", ev.DueTime).
		Msg("reminder fired")
}

// Fanout delivers each event to every sink, in order.
type Fanout []scheduler.Sink

func (f Fanout) ReminderDue(ev reminder.DueEvent) {
	for _, s := range f {
		s.ReminderDue(ev)
	}
}

// Recorder keeps every event it receives.
type Recorder struct {
	mu     sync.Mutex
	events []reminder.DueEvent
}

func (r *Recorder) ReminderDue(ev reminder.DueEvent) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []reminder.DueEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]reminder.DueEvent(nil), r.events...)
}

// Last returns the most recent event.
func (r *Recorder) Last() (reminder.DueEvent, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return reminder.DueEvent{}, false
	}
	return r.events[len(r.events)-1], true
}
