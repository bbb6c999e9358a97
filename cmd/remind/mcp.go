package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/notexe/quick-remind/internal/mcpserver"
	"github.com/urfave/cli"
)

func runMCP(ctx *cli.Context) error {
	// stdout carries the protocol.
	cfg, log, err := bootstrap(ctx, os.Stderr)
	if err != nil {
		return err
	}

	sinks, drain := remoteSinks(cfg, log)
	sched, err := openScheduler(cfg, log, sinks)
	if err != nil {
		drain()
		return err
	}
	defer sched.Close()
	defer drain()

	stop := runInBackground(sched)
	defer stop()

	s := mcpserver.NewServer(sched, cfg.QuickNote.SnoozeMinutes)
	if err := server.ServeStdio(s.MCPServer()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
