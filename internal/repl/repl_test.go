package repl

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/notexe/quick-remind/internal/config"
	"github.com/notexe/quick-remind/internal/persist"
	"github.com/notexe/quick-remind/internal/reminder"
	"github.com/notexe/quick-remind/internal/scheduler"
	"github.com/spf13/afero"
)

type harness struct {
	shell *Shell
	sched *scheduler.Scheduler
	out   *bytes.Buffer
	now   time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	cfg.UI.ColoredOutput = false
	cfg.Notify.Bell = false
	cfg.QuickNote.DefaultMinutes = 5
	cfg.QuickNote.SnoozeMinutes = 10

	h := &harness{
		out: &bytes.Buffer{},
		now: time.Date(2026, 3, 14, 16, 20, 0, 0, time.Local),
	}
	clock := func() time.Time { return h.now }

	var shell *Shell
	sink := scheduler.SinkFunc(func(ev reminder.DueEvent) { shell.ReminderDue(ev) })
	h.sched = scheduler.New(persist.NewJSONFile(afero.NewMemMapFs(), "/reminders.json"), sink, scheduler.WithClock(clock))
	t.Cleanup(func() { h.sched.Close() })

	shell = NewShell(h.sched, cfg, h.out)
	shell.now = clock
	h.shell = shell
	return h
}

func (h *harness) run(t *testing.T, line string) string {
	t.Helper()
	h.out.Reset()
	if _, err := h.shell.Execute(line); err != nil {
		t.Fatalf("%q: %v", line, err)
	}
	return h.out.String()
}

func (h *harness) active() []string {
	var out []string
	for _, r := range h.sched.ActiveReminders() {
		out = append(out, r.Message)
	}
	return out
}

func TestQuickNoteUsesDefaultDelay(t *testing.T) {
	h := newHarness(t)

	out := h.run(t, "Buy milk")
	if !strings.Contains(out, "[Timer Started!] I'll remind you in 5 minutes") {
		t.Fatalf("unexpected toast %q", out)
	}

	active := h.sched.ActiveReminders()
	if len(active) != 1 || active[0].Message != "Buy milk" || !active[0].DueTime.Equal(h.now.Add(5*time.Minute)) {
		t.Fatalf("active = %+v", active)
	}
}

func TestAddParsesWhen(t *testing.T) {
	h := newHarness(t)

	h.run(t, "/add 5 pm Call Bob")
	h.run(t, "/add 90s Tea")
	h.run(t, "/add 17:30 Gym bag")

	if diff := cmp.Diff([]string{"Tea", "Call Bob", "Gym bag"}, h.active()); diff != "" {
		t.Fatalf("active mismatch (-want +got):\n%s", diff)
	}
	if _, err := h.shell.Execute("/add soonish Nope"); err == nil {
		t.Fatal("expected parse error")
	}
	if _, err := h.shell.Execute("/add 15"); err == nil {
		t.Fatal("expected usage error")
	}
}

func TestListAndDismissByIndex(t *testing.T) {
	h := newHarness(t)
	h.run(t, "/add 30 second")
	h.run(t, "/add 10 first")

	out := h.run(t, "/list")
	if !strings.Contains(out, "| 1 | first |") || !strings.Contains(out, "| 2 | second |") {
		t.Fatalf("unexpected list %q", out)
	}

	out = h.run(t, "/dismiss 1")
	if !strings.Contains(out, "Dismissed: first") {
		t.Fatalf("unexpected output %q", out)
	}
	if diff := cmp.Diff([]string{"second"}, h.active()); diff != "" {
		t.Fatalf("active mismatch (-want +got):\n%s", diff)
	}

	if _, err := h.shell.Execute("/dismiss 5"); err == nil {
		t.Fatal("expected out of range error")
	}
	if _, err := h.shell.Execute("/dismiss"); err == nil {
		t.Fatal("expected usage error")
	}
}

func TestDismissByID(t *testing.T) {
	h := newHarness(t)
	id := h.sched.Add("X", h.now.Add(time.Hour))

	h.run(t, "/dismiss "+id.String())
	if len(h.active()) != 0 {
		t.Fatal("reminder not dismissed")
	}
	if _, err := h.shell.Execute("/dismiss " + id.String()); err == nil {
		t.Fatal("expected not found")
	}
}

func TestSnoozeLastFired(t *testing.T) {
	h := newHarness(t)

	if _, err := h.shell.Execute("/snooze"); err == nil {
		t.Fatal("expected error before anything fired")
	}

	id := h.sched.Add("Stretch", h.now)
	h.out.Reset()
	h.sched.CheckDue()
	if !strings.Contains(h.out.String(), "[Reminder] Stretch") {
		t.Fatalf("due toast not printed: %q", h.out.String())
	}

	out := h.run(t, "/snooze")
	if !strings.Contains(out, "[Snoozed] Stretch until 4:30 PM") {
		t.Fatalf("unexpected output %q", out)
	}
	if _, ok := h.sched.Get(id); ok {
		t.Fatal("original reminder still present")
	}
	active := h.sched.ActiveReminders()
	if len(active) != 1 || active[0].ID == id || !active[0].DueTime.Equal(h.now.Add(10*time.Minute)) {
		t.Fatalf("active = %+v", active)
	}

	// The fired reminder was replaced, so it cannot be snoozed again.
	if _, err := h.shell.Execute("/snooze last"); err == nil {
		t.Fatal("expected error for already snoozed reminder")
	}
}

func TestSnoozeByIndexWithWhen(t *testing.T) {
	h := newHarness(t)
	h.sched.Add("Laundry", h.now.Add(time.Minute))

	h.run(t, "/snooze 1 1h")
	active := h.sched.ActiveReminders()
	if len(active) != 1 || !active[0].DueTime.Equal(h.now.Add(time.Hour)) {
		t.Fatalf("active = %+v", active)
	}
}

func TestEmptyQuickNoteRejected(t *testing.T) {
	h := newHarness(t)
	if _, err := h.shell.Execute("/add 5    "); err == nil {
		t.Fatal("expected usage error")
	}
	if len(h.active()) != 0 {
		t.Fatal("empty note created a reminder")
	}
}

func TestSettingsHelpQuit(t *testing.T) {
	h := newHarness(t)

	out := h.run(t, "/settings")
	for _, want := range []string{"Win+Shift+L", "5 minutes", "10 minutes", "json"} {
		if !strings.Contains(out, want) {
			t.Errorf("settings missing %q in %q", want, out)
		}
	}

	if out := h.run(t, "/help"); !strings.Contains(out, "/snooze") {
		t.Errorf("help missing /snooze: %q", out)
	}

	h.out.Reset()
	quit, err := h.shell.Execute("/quit")
	if err != nil || !quit {
		t.Fatalf("quit = %v, %v", quit, err)
	}
	if !strings.Contains(h.out.String(), "Goodbye!") {
		t.Errorf("quit output %q", h.out.String())
	}

	if _, err := h.shell.Execute("/nope"); err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestSplitWhen(t *testing.T) {
	tests := []struct {
		in, when, msg string
	}{
		{"5 pm Call Bob", "5 pm", "Call Bob"},
		{"15 Tea time", "15", "Tea time"},
		{"5 pm", "5", "pm"},
		{"", "", ""},
	}
	for _, tt := range tests {
		when, msg := splitWhen(tt.in)
		if when != tt.when || msg != tt.msg {
			t.Errorf("splitWhen(%q) = %q, %q", tt.in, when, msg)
		}
	}
}
