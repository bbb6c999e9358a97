package repl

import (
	"fmt"

	"github.com/notexe/quick-remind/internal/quicknote"
)

func (s *Shell) displayError(err error) {
	fmt.Fprintln(s.out, s.formatter.FormatError(err))
	fmt.Fprintln(s.out)
}

func (s *Shell) displayWelcome() {
	fmt.Fprint(s.out, s.formatter.FormatWelcome(s.config.Hotkey.DisplayString(), len(s.engine.ActiveReminders())))
}

func (s *Shell) displayHelp() {
	fmt.Fprint(s.out, s.formatter.FormatHelp())
}

func (s *Shell) displayList() {
	fmt.Fprintln(s.out, s.formatter.FormatReminderTable(s.engine.ActiveReminders(), s.now()))
	fmt.Fprintln(s.out)
}

func (s *Shell) displayToast(title, body string) {
	fmt.Fprintln(s.out, s.formatter.FormatToast(title, body))
	fmt.Fprintln(s.out)
}

func (s *Shell) displaySuccess(msg string) {
	fmt.Fprintln(s.out, s.formatter.FormatSuccess(msg))
	fmt.Fprintln(s.out)
}

func (s *Shell) displaySystem(msg string) {
	fmt.Fprintln(s.out, s.formatter.FormatSystem(msg))
	fmt.Fprintln(s.out)
}

func (s *Shell) displaySettings() {
	telegram := "off"
	if s.config.Notify.Telegram.Enabled() {
		telegram = "on"
	}

	content := fmt.Sprintf(
		"Hotkey:          %s\nQuick note:      %s\nSnooze:          %s\nStorage:         %s (%s)\nTelegram:        %s",
		s.config.Hotkey.DisplayString(),
		quicknote.FormatMinutes(s.config.QuickNote.DefaultMinutes),
		quicknote.FormatMinutes(s.config.QuickNote.SnoozeMinutes),
		s.config.Storage.Backend,
		s.config.Storage.Path,
		telegram,
	)
	fmt.Fprintln(s.out, s.formatter.FormatBox("Settings", content))
	fmt.Fprintln(s.out)
}
