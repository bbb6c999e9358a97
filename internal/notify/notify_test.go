package notify

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/notexe/quick-remind/internal/reminder"
	"github.com/notexe/quick-remind/internal/scheduler"
	"github.com/notexe/quick-remind/internal/ui"
	"github.com/rs/zerolog"
)

func event(msg string) reminder.DueEvent {
	return reminder.DueEvent{
		ID:      uuid.New(),
		Message: msg,
		DueTime: time.Date(2026, 3, 14, 15, 4, 0, 0, time.Local),
	}
}

func TestConsolePlain(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, ui.NewFormatter(false), true)
	c.ReminderDue(event("Buy milk"))

	got := buf.String()
	if !strings.HasPrefix(got, "\a") {
		t.Errorf("expected bell, got %q", got)
	}
	if !strings.Contains(got, "[Reminder] Buy milk (due 3:04 PM)") {
		t.Errorf("unexpected toast %q", got)
	}
}

func TestFanoutOrderAndRecorder(t *testing.T) {
	var order []string
	first := &Recorder{}
	second := &Recorder{}
	f := Fanout{
		first,
		scheduler.SinkFunc(func(ev reminder.DueEvent) { order = append(order, "mid:"+ev.Message) }),
		second,
	}

	f.ReminderDue(event("a"))
	f.ReminderDue(event("b"))

	if len(first.Events()) != 2 || len(second.Events()) != 2 {
		t.Fatalf("recorders: %d and %d events", len(first.Events()), len(second.Events()))
	}
	if strings.Join(order, ",") != "mid:a,mid:b" {
		t.Fatalf("order = %v", order)
	}
	last, ok := second.Last()
	if !ok || last.Message != "b" {
		t.Fatalf("last = %+v ok=%v", last, ok)
	}
	if _, ok := (&Recorder{}).Last(); ok {
		t.Fatal("empty recorder reported a last event")
	}
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	NewLog(zerolog.New(&buf)).ReminderDue(event("Call Bob"))

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if line["text"] != "Call Bob" || line["component"] != "notify" {
		t.Fatalf("unexpected log line %v", line)
	}
}

func TestTelegramSendsEscapedHTML(t *testing.T) {
	var (
		mu   sync.Mutex
		path string
		req  map[string]string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		path = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	tg := NewTelegram(srv.URL+"/", "TOKEN", "42", zerolog.Nop())
	tg.ReminderDue(event("a < b & c"))

	mu.Lock()
	defer mu.Unlock()
	if path != "/botTOKEN/sendMessage" {
		t.Errorf("path = %q", path)
	}
	if req["chat_id"] != "42" || req["parse_mode"] != "HTML" {
		t.Errorf("request = %+v", req)
	}
	if !strings.Contains(req["text"], "a &lt; b &amp; c") {
		t.Errorf("message not escaped: %q", req["text"])
	}
}

func TestTelegramAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":false,"description":"chat not found"}`))
	}))
	defer srv.Close()

	var logs bytes.Buffer
	tg := NewTelegram(srv.URL, "T", "1", zerolog.New(&logs))
	err := tg.deliver(event("hi"))
	if err == nil || !strings.Contains(err.Error(), "chat not found") {
		t.Fatalf("expected API error, got %v", err)
	}

	// As a sink the failure is only logged.
	tg.ReminderDue(event("x"))
	if !strings.Contains(logs.String(), "failed to deliver reminder") {
		t.Fatalf("failure not logged: %q", logs.String())
	}
}

func TestQueuedSlowTelegramDoesNotDelayOtherSinks(t *testing.T) {
	var (
		mu    sync.Mutex
		texts []string
	)
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req)
		mu.Lock()
		texts = append(texts, req["text"])
		mu.Unlock()
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	queued := NewQueued(NewTelegram(srv.URL, "T", "1", zerolog.Nop()), zerolog.Nop())
	local := &Recorder{}
	f := Fanout{queued, local}

	start := time.Now()
	for _, msg := range []string{"one", "two", "three"} {
		f.ReminderDue(event(msg))
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("fanout blocked for %v", elapsed)
	}
	if n := len(local.Events()); n != 3 {
		t.Fatalf("local sink got %d events while telegram was stalled", n)
	}

	close(release)
	queued.Close()

	mu.Lock()
	defer mu.Unlock()
	if len(texts) != 3 {
		t.Fatalf("telegram got %d messages", len(texts))
	}
	for i, want := range []string{"one", "two", "three"} {
		if !strings.Contains(texts[i], want) {
			t.Errorf("message %d = %q, want %q", i, texts[i], want)
		}
	}
}

func TestQueuedDropsAfterClose(t *testing.T) {
	rec := &Recorder{}
	q := NewQueued(rec, zerolog.Nop())
	q.ReminderDue(event("before"))
	q.Close()
	q.ReminderDue(event("after"))
	q.Close()

	events := rec.Events()
	if len(events) != 1 || events[0].Message != "before" {
		t.Fatalf("events = %+v", events)
	}
}
