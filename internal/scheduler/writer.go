package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/notexe/quick-remind/internal/persist"
	"github.com/notexe/quick-remind/internal/reminder"
	"github.com/rs/zerolog"
)

const saveTimeout = 30 * time.Second

// snapshotWriter persists active sets on its own goroutine. Only the newest
// submitted snapshot is written; older ones still waiting are superseded.
type snapshotWriter struct {
	adapter persist.Adapter
	log     zerolog.Logger

	mu      sync.Mutex
	pending []reminder.Reminder
	dirty   bool
	closed  bool

	kick     chan struct{}
	flushReq chan chan struct{}
	stop     chan struct{}
	done     chan struct{}
}

func newSnapshotWriter(adapter persist.Adapter, log zerolog.Logger) *snapshotWriter {
	w := &snapshotWriter{
		adapter:  adapter,
		log:      log,
		kick:     make(chan struct{}, 1),
		flushReq: make(chan chan struct{}),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go w.loop()
	return w
}

// submit never blocks on I/O.
func (w *snapshotWriter) submit(rs []reminder.Reminder) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		w.log.Warn().Msg("snapshot submitted after close, dropping")
		return
	}
	w.pending = rs
	w.dirty = true
	w.mu.Unlock()

	select {
	case w.kick <- struct{}{}:
	default:
	}
}

func (w *snapshotWriter) loop() {
	defer close(w.done)
	for {
		select {
		case <-w.kick:
			w.writePending()
		case reply := <-w.flushReq:
			w.writePending()
			close(reply)
		case <-w.stop:
			w.writePending()
			return
		}
	}
}

func (w *snapshotWriter) writePending() {
	w.mu.Lock()
	if !w.dirty {
		w.mu.Unlock()
		return
	}
	rs := w.pending
	w.pending = nil
	w.dirty = false
	w.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	if err := w.adapter.SaveActiveSet(ctx, rs); err != nil {
		w.log.Warn().Err(err).Int("count", len(rs)).Msg("failed to persist reminders, keeping in-memory state")
		return
	}
	w.log.Debug().Int("count", len(rs)).Msg("persisted reminders")
}

func (w *snapshotWriter) flush() {
	reply := make(chan struct{})
	select {
	case w.flushReq <- reply:
		<-reply
	case <-w.done:
	}
}

func (w *snapshotWriter) close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		<-w.done
		return
	}
	w.closed = true
	w.mu.Unlock()

	close(w.stop)
	<-w.done
}
