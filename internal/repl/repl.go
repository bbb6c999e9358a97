// Package repl is the interactive shell: quick notes, the active reminder
// list and snoozing, with due reminders popping up between prompts.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/google/uuid"
	"github.com/notexe/quick-remind/internal/config"
	"github.com/notexe/quick-remind/internal/notify"
	"github.com/notexe/quick-remind/internal/quicknote"
	"github.com/notexe/quick-remind/internal/reminder"
	"github.com/notexe/quick-remind/internal/ui"
)

// Engine is the scheduler surface the shell drives.
type Engine interface {
	quicknote.Engine
	Get(id uuid.UUID) (reminder.Reminder, bool)
	ActiveReminders() []reminder.Reminder
}

var errQuit = errors.New("quit")

// Shell executes commands against the engine and writes results to out.
// It is also a due-event sink: fired reminders are printed and the latest
// one becomes the default /snooze target.
type Shell struct {
	engine    Engine
	config    *config.Config
	out       io.Writer
	formatter *ui.Formatter
	toast     *notify.Console
	fired     *notify.Recorder
	now       func() time.Time
}

func NewShell(engine Engine, cfg *config.Config, out io.Writer) *Shell {
	formatter := ui.NewFormatter(cfg.UI.ColoredOutput)
	return &Shell{
		engine:    engine,
		config:    cfg,
		out:       out,
		formatter: formatter,
		toast:     notify.NewConsole(out, formatter, cfg.Notify.Bell),
		fired:     &notify.Recorder{},
		now:       time.Now,
	}
}

func (s *Shell) ReminderDue(ev reminder.DueEvent) {
	s.fired.ReminderDue(ev)
	s.toast.ReminderDue(ev)
}

// Execute runs one line of input. It reports true when the user asked to
// quit.
func (s *Shell) Execute(input string) (bool, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return false, nil
	}

	isCommand, command, args := parseCommand(input)
	if !isCommand {
		return false, s.handleQuickNote(input)
	}

	err := s.handleCommand(command, args)
	if errors.Is(err, errQuit) {
		return true, nil
	}
	return false, err
}

func (s *Shell) handleQuickNote(message string) error {
	minutes := s.config.QuickNote.DefaultMinutes
	if _, err := quicknote.Create(s.engine, message, s.now().Add(time.Duration(minutes)*time.Minute)); err != nil {
		return err
	}
	s.displayToast("Timer Started!", fmt.Sprintf("I'll remind you in %s", quicknote.FormatMinutes(minutes)))
	return nil
}

func (s *Shell) handleCommand(command, args string) error {
	switch command {
	case "/help", "/h":
		s.displayHelp()
		return nil

	case "/add", "/a":
		return s.handleAdd(args)

	case "/list", "/l", "/ls":
		s.displayList()
		return nil

	case "/dismiss", "/d", "/rm":
		return s.handleDismiss(args)

	case "/snooze", "/s":
		return s.handleSnooze(args)

	case "/settings":
		s.displaySettings()
		return nil

	case "/quit", "/exit", "/q":
		s.displaySystem("Goodbye!")
		return errQuit

	default:
		return fmt.Errorf("unknown command: %s (type /help for available commands)", command)
	}
}

func (s *Shell) handleAdd(args string) error {
	when, message := splitWhen(args)
	if when == "" || message == "" {
		return fmt.Errorf("usage: /add <when> <message>")
	}

	due, err := quicknote.ParseWhen(when, s.now())
	if err != nil {
		return err
	}
	if _, err := quicknote.Create(s.engine, message, due); err != nil {
		return err
	}

	s.displayToast("Timer Started!", fmt.Sprintf("I'll remind you at %s", quicknote.FormatClock(due)))
	return nil
}

func (s *Shell) handleDismiss(args string) error {
	if args == "" {
		return fmt.Errorf("usage: /dismiss <n|id>")
	}

	r, err := s.resolve(args)
	if err != nil {
		return err
	}
	s.engine.Remove(r.ID)

	s.displaySuccess(fmt.Sprintf("Dismissed: %s", r.Message))
	return nil
}

func (s *Shell) handleSnooze(args string) error {
	fields := strings.Fields(args)

	var (
		target reminder.Reminder
		err    error
	)
	if len(fields) == 0 || strings.EqualFold(fields[0], "last") {
		target, err = s.lastFired()
	} else {
		target, err = s.resolve(fields[0])
	}
	if err != nil {
		return err
	}

	until := s.now().Add(time.Duration(s.config.QuickNote.SnoozeMinutes) * time.Minute)
	if len(fields) > 1 {
		until, err = quicknote.ParseWhen(strings.Join(fields[1:], " "), s.now())
		if err != nil {
			return err
		}
	}

	quicknote.Snooze(s.engine, target.ID, target.Message, until)
	s.displayToast("Snoozed", fmt.Sprintf("%s until %s", target.Message, quicknote.FormatClock(until)))
	return nil
}

// resolve accepts a 1-based position in the active list or a reminder id.
func (s *Shell) resolve(ref string) (reminder.Reminder, error) {
	if n, err := strconv.Atoi(ref); err == nil {
		active := s.engine.ActiveReminders()
		if n < 1 || n > len(active) {
			return reminder.Reminder{}, fmt.Errorf("no reminder #%d (%d active)", n, len(active))
		}
		return active[n-1], nil
	}

	id, err := uuid.Parse(ref)
	if err != nil {
		return reminder.Reminder{}, fmt.Errorf("expected a list number or reminder id, got %q", ref)
	}
	r, ok := s.engine.Get(id)
	if !ok {
		return reminder.Reminder{}, fmt.Errorf("reminder %s not found", id)
	}
	return r, nil
}

func (s *Shell) lastFired() (reminder.Reminder, error) {
	ev, ok := s.fired.Last()
	if !ok {
		return reminder.Reminder{}, fmt.Errorf("no reminder has fired yet; use /snooze <n|id>")
	}
	r, ok := s.engine.Get(ev.ID)
	if !ok {
		return reminder.Reminder{}, fmt.Errorf("%q was already dismissed or snoozed", ev.Message)
	}
	return r, nil
}

// REPL couples a Shell with a readline terminal.
type REPL struct {
	*Shell
	rl *readline.Instance
}

func NewREPL(engine Engine, cfg *config.Config) (*REPL, error) {
	formatter := ui.NewFormatter(cfg.UI.ColoredOutput)
	rl, err := setupReadline(formatter.FormatPrompt())
	if err != nil {
		return nil, fmt.Errorf("failed to setup readline: %w", err)
	}

	return &REPL{
		Shell: NewShell(engine, cfg, rl.Stdout()),
		rl:    rl,
	}, nil
}

func (r *REPL) Start(ctx context.Context) error {
	defer r.rl.Close()

	r.displayWelcome()

	for {
		if ctx.Err() != nil {
			return nil
		}

		input, err := r.readInput()
		if err != nil {
			if isEOF(err) {
				r.displaySystem("Goodbye!")
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		quit, err := r.Execute(input)
		if err != nil {
			r.displayError(err)
		}
		if quit {
			return nil
		}
	}
}
