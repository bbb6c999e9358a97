// Package mcpserver exposes the reminder engine as MCP tools so assistants
// can schedule, list, dismiss and snooze reminders.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/notexe/quick-remind/internal/quicknote"
	"github.com/notexe/quick-remind/internal/reminder"
)

const (
	serverName    = "quick-remind"
	serverVersion = "1.0.0"
)

// Engine is the scheduler surface the tools drive.
type Engine interface {
	quicknote.Engine
	Get(id uuid.UUID) (reminder.Reminder, bool)
	ActiveReminders() []reminder.Reminder
	CheckDue() []reminder.Reminder
}

// Server is the MCP server for reminder management.
type Server struct {
	mcpServer     *server.MCPServer
	engine        Engine
	snoozeMinutes int
	now           func() time.Time
}

// NewServer creates an MCP server over engine. snoozeMinutes is used when
// snooze_reminder is called without minutes.
func NewServer(engine Engine, snoozeMinutes int) *Server {
	s := &Server{
		engine:        engine,
		snoozeMinutes: snoozeMinutes,
		now:           time.Now,
	}

	s.mcpServer = server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(false),
	)

	s.registerTools()
	return s
}

// MCPServer returns the underlying MCP server for serving.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) registerTools() {
	// add_reminder
	s.mcpServer.AddTool(
		mcp.NewTool("add_reminder",
			mcp.WithDescription("Schedule a reminder message"),
			mcp.WithString("message", mcp.Required(), mcp.Description("Text shown when the reminder fires")),
			mcp.WithString("when", mcp.Required(), mcp.Description("Minutes from now (15), a duration (90s, 1h30m) or a clock time (17:30, 5:30pm)")),
		),
		s.handleAddReminder,
	)

	// list_reminders
	s.mcpServer.AddTool(
		mcp.NewTool("list_reminders",
			mcp.WithDescription("List active reminders, earliest due first"),
		),
		s.handleListReminders,
	)

	// dismiss_reminder
	s.mcpServer.AddTool(
		mcp.NewTool("dismiss_reminder",
			mcp.WithDescription("Remove a reminder, fired or not"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Reminder ID")),
		),
		s.handleDismissReminder,
	)

	// snooze_reminder
	s.mcpServer.AddTool(
		mcp.NewTool("snooze_reminder",
			mcp.WithDescription("Replace a reminder with a copy due later; the copy gets a new ID"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Reminder ID")),
			mcp.WithNumber("minutes", mcp.Description("Minutes from now (default from settings)")),
		),
		s.handleSnoozeReminder,
	)

	// check_due
	s.mcpServer.AddTool(
		mcp.NewTool("check_due",
			mcp.WithDescription("Fire every reminder that is due now and report them"),
		),
		s.handleCheckDue,
	)
}

func (s *Server) handleAddReminder(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message := req.GetString("message", "")
	when := req.GetString("when", "")

	if when == "" {
		return mcp.NewToolResultError("when is required"), nil
	}
	due, err := quicknote.ParseWhen(when, s.now())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	id, err := quicknote.Create(s.engine, message, due)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	r, _ := s.engine.Get(id)
	output, _ := json.MarshalIndent(r, "", "  ")
	return mcp.NewToolResultText(string(output)), nil
}

func (s *Server) handleListReminders(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reminders := s.engine.ActiveReminders()
	if len(reminders) == 0 {
		return mcp.NewToolResultText("No active reminders."), nil
	}

	output, _ := json.MarshalIndent(reminders, "", "  ")
	return mcp.NewToolResultText(string(output)), nil
}

func (s *Server) handleDismissReminder(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := s.lookupID(req)
	if errResult != nil {
		return errResult, nil
	}

	if _, ok := s.engine.Get(id); !ok {
		return mcp.NewToolResultError(fmt.Sprintf("reminder %s not found", id)), nil
	}
	s.engine.Remove(id)

	return mcp.NewToolResultText(fmt.Sprintf("Reminder %s dismissed.", id)), nil
}

func (s *Server) handleSnoozeReminder(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := s.lookupID(req)
	if errResult != nil {
		return errResult, nil
	}

	minutes := int(req.GetFloat("minutes", float64(s.snoozeMinutes)))
	if minutes <= 0 {
		return mcp.NewToolResultError("minutes must be a positive number"), nil
	}

	r, ok := s.engine.Get(id)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("reminder %s not found", id)), nil
	}

	newID := quicknote.SnoozeFor(s.engine, id, r.Message, time.Duration(minutes)*time.Minute, s.now())
	snoozed, _ := s.engine.Get(newID)

	output, _ := json.MarshalIndent(snoozed, "", "  ")
	return mcp.NewToolResultText(string(output)), nil
}

func (s *Server) handleCheckDue(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	fired := s.engine.CheckDue()
	if len(fired) == 0 {
		return mcp.NewToolResultText("No due reminders."), nil
	}

	output, _ := json.MarshalIndent(fired, "", "  ")
	return mcp.NewToolResultText(string(output)), nil
}

func (s *Server) lookupID(req mcp.CallToolRequest) (uuid.UUID, *mcp.CallToolResult) {
	raw := req.GetString("id", "")
	if raw == "" {
		return uuid.Nil, mcp.NewToolResultError("id is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, mcp.NewToolResultError(fmt.Sprintf("invalid id %q: %v", raw, err))
	}
	return id, nil
}
