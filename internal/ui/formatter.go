package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/notexe/quick-remind/internal/quicknote"
	"github.com/notexe/quick-remind/internal/reminder"
)

var (
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")). // Coral red
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("222")) // Warm yellow

	SystemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("183")). // Soft purple
			Italic(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("114")). // Green
			Bold(true)

	// Toasts mirror the desktop pop-up: rounded border, bold title.
	ToastStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("215")). // Orange
			Padding(0, 2)

	ToastTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("215")).
			Bold(true)
)

type Formatter struct {
	colored bool
}

func NewFormatter(colored bool) *Formatter {
	return &Formatter{colored: colored}
}

func (f *Formatter) FormatError(err error) string {
	prefix := "Error: "
	if f.colored {
		prefix = ErrorStyle.Render("Error: ")
	}
	return prefix + err.Error()
}

func (f *Formatter) FormatInfo(info string) string {
	if f.colored {
		return InfoStyle.Render(info)
	}
	return info
}

func (f *Formatter) FormatSystem(msg string) string {
	if f.colored {
		return SystemStyle.Render(msg)
	}
	return msg
}

func (f *Formatter) FormatSuccess(msg string) string {
	if f.colored {
		return SuccessStyle.Render(msg)
	}
	return msg
}

// FormatToast renders a short-lived notification such as "Timer Started!".
func (f *Formatter) FormatToast(title, body string) string {
	if f.colored {
		return ToastStyle.Render(ToastTitleStyle.Render(title) + "\n" + body)
	}
	return fmt.Sprintf("[%s] %s", title, body)
}

// FormatDue renders the pop-up shown when a reminder fires.
func (f *Formatter) FormatDue(ev reminder.DueEvent) string {
	when := "due " + quicknote.FormatClock(ev.DueTime)
	if f.colored {
		return ToastStyle.Render(
			ToastTitleStyle.Render("⏰ Reminder") + "\n" +
				ev.Message + "\n" +
				DimStyle.Render(when))
	}
	return fmt.Sprintf("[Reminder] %s (%s)", ev.Message, when)
}

// FormatReminderTable renders the active reminders as a numbered table.
// Numbers are 1-based and match the order of rs.
func (f *Formatter) FormatReminderTable(rs []reminder.Reminder, now time.Time) string {
	if len(rs) == 0 {
		return f.FormatInfo("No active reminders")
	}

	var b strings.Builder
	noun := "reminders"
	if len(rs) == 1 {
		noun = "reminder"
	}
	fmt.Fprintf(&b, "**%d active %s**\n\n", len(rs), noun)
	b.WriteString("| # | Message | At | In |\n|---|---|---|---|\n")
	for i, r := range rs {
		fmt.Fprintf(&b, "| %d | %s | %s | %s |\n",
			i+1, escapeCell(r.Message), quicknote.FormatClock(r.DueTime), formatRemaining(r.DueTime.Sub(now)))
	}

	if !f.colored {
		return b.String()
	}
	return RenderMarkdown(b.String())
}

func formatRemaining(d time.Duration) string {
	if d <= 0 {
		return "now"
	}
	minutes := int((d + time.Minute - 1) / time.Minute)
	return quicknote.FormatMinutes(minutes)
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

// RenderMarkdown renders md for the terminal, falling back to the raw text
// when the renderer is unavailable.
func RenderMarkdown(md string) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return md
	}

	rendered, err := renderer.Render(md)
	if err != nil {
		return md
	}

	return strings.TrimSpace(rendered)
}

func (f *Formatter) FormatWelcome(hotkey string, active int) string {
	title := "Quick Remind"
	hotkeyLine := fmt.Sprintf("Desktop hotkey: %s", hotkey)
	activeLine := fmt.Sprintf("Active reminders: %d", active)
	helpLine := "Type a note to be reminded, or /help for commands"

	if !f.colored {
		return strings.Join([]string{title, hotkeyLine, activeLine, helpLine, ""}, "\n")
	}

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("81")).
		Bold(true)

	subtitleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(0, 1)

	content := strings.Join([]string{
		titleStyle.Render(title),
		DimStyle.Render(hotkeyLine),
		DimStyle.Render(activeLine),
		subtitleStyle.Render(helpLine),
	}, "\n")

	return boxStyle.Render(content) + "\n"
}

func (f *Formatter) FormatHelp() string {
	commands := [][2]string{
		{"<message>", "Remind me with the default delay"},
		{"/add <when> <message>", "Remind at a delay (15, 90s, 1h30m) or clock time (17:30, 5:30pm)"},
		{"/list", "Show active reminders"},
		{"/dismiss <n|id>", "Remove a reminder"},
		{"/snooze [n|id] [when]", "Push a reminder back; defaults to the last one that fired"},
		{"/settings", "Show current settings"},
		{"/help", "Show this help"},
		{"/quit", "Exit"},
	}

	if !f.colored {
		lines := []string{"", "Commands", ""}
		for _, c := range commands {
			lines = append(lines, fmt.Sprintf("  %-24s %s", c[0], c[1]))
		}
		return strings.Join(lines, "\n") + "\n\n"
	}

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("81")).
		Bold(true)

	cmdStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("114")).
		Width(24)

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	lines := []string{"", headerStyle.Render("Commands"), ""}
	for _, c := range commands {
		lines = append(lines, "  "+cmdStyle.Render(c[0])+" "+descStyle.Render(c[1]))
	}

	return strings.Join(lines, "\n") + "\n\n"
}

// FormatPrompt returns a styled input prompt
func (f *Formatter) FormatPrompt() string {
	if f.colored {
		promptStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("62"))
		arrowStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("114")).
			Bold(true)
		return promptStyle.Render("remind") + arrowStyle.Render(" > ")
	}
	return "remind > "
}

// FormatBox wraps content in a styled box
func (f *Formatter) FormatBox(title, content string) string {
	if f.colored {
		titleStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")).
			Bold(true)

		borderStyle := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

		header := titleStyle.Render(title)
		box := borderStyle.Render(content)

		return header + "\n" + box
	}
	return title + "\n" + content
}
