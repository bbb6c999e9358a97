package repl

import (
	"io"
	"strings"

	"github.com/chzyer/readline"
)

func (r *REPL) readInput() (string, error) {
	line, err := r.rl.Readline()
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(line), nil
}

func parseCommand(input string) (bool, string, string) {
	if !strings.HasPrefix(input, "/") {
		return false, "", ""
	}

	parts := strings.SplitN(input, " ", 2)
	command := strings.ToLower(parts[0])

	args := ""
	if len(parts) > 1 {
		args = strings.TrimSpace(parts[1])
	}

	return true, command, args
}

// splitWhen separates the leading time expression of /add from the message.
// "5 pm" style times span two words.
func splitWhen(args string) (string, string) {
	fields := strings.Fields(args)
	switch {
	case len(fields) == 0:
		return "", ""
	case len(fields) >= 3 && isMeridiem(fields[1]):
		return fields[0] + " " + fields[1], strings.Join(fields[2:], " ")
	default:
		return fields[0], strings.Join(fields[1:], " ")
	}
}

func isMeridiem(s string) bool {
	s = strings.ToLower(s)
	return s == "am" || s == "pm"
}

func setupReadline(prompt string) (*readline.Instance, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:              prompt,
		HistoryFile:         "",
		InterruptPrompt:     "^C",
		EOFPrompt:           "exit",
		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})

	return rl, err
}

func filterInput(r rune) (rune, bool) {
	switch r {
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func isEOF(err error) bool {
	return err == io.EOF || err == readline.ErrInterrupt
}
