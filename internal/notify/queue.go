package notify

import (
	"sync"

	"github.com/notexe/quick-remind/internal/reminder"
	"github.com/notexe/quick-remind/internal/scheduler"
	"github.com/rs/zerolog"
)

// Queued hands events to a wrapped sink on its own goroutine, in arrival
// order. ReminderDue never blocks, so a slow sink such as Telegram cannot
// hold up the check cycle or the sinks after it.
type Queued struct {
	next scheduler.Sink
	log  zerolog.Logger

	mu      sync.Mutex
	pending []reminder.DueEvent
	closed  bool

	kick chan struct{}
	stop chan struct{}
	done chan struct{}
}

func NewQueued(next scheduler.Sink, log zerolog.Logger) *Queued {
	q := &Queued{
		next: next,
		log:  log,
		kick: make(chan struct{}, 1),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go q.loop()
	return q
}

func (q *Queued) ReminderDue(ev reminder.DueEvent) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		q.log.Warn().Str("id", ev.ID.String()).Msg("event after close, dropping")
		return
	}
	q.pending = append(q.pending, ev)
	q.mu.Unlock()

	select {
	case q.kick <- struct{}{}:
	default:
	}
}

func (q *Queued) loop() {
	defer close(q.done)
	for {
		select {
		case <-q.kick:
			q.drain()
		case <-q.stop:
			q.drain()
			return
		}
	}
}

func (q *Queued) drain() {
	for {
		q.mu.Lock()
		if len(q.pending) == 0 {
			q.mu.Unlock()
			return
		}
		ev := q.pending[0]
		q.pending = q.pending[1:]
		q.mu.Unlock()

		q.next.ReminderDue(ev)
	}
}

// Close delivers whatever is still queued and stops the goroutine.
func (q *Queued) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		<-q.done
		return
	}
	q.closed = true
	q.mu.Unlock()

	close(q.stop)
	<-q.done
}
