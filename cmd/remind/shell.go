package main

import (
	"context"
	"os"

	"github.com/notexe/quick-remind/internal/reminder"
	"github.com/notexe/quick-remind/internal/repl"
	"github.com/notexe/quick-remind/internal/scheduler"
	"github.com/urfave/cli"
)

func runShell(ctx *cli.Context) error {
	cfg, log, err := bootstrap(ctx, os.Stderr)
	if err != nil {
		return err
	}

	// The shell prints due toasts itself; it is bound once created.
	var shell *repl.REPL
	sinks, drain := remoteSinks(cfg, log)
	sinks = append(sinks, scheduler.SinkFunc(func(ev reminder.DueEvent) {
		shell.ReminderDue(ev)
	}))

	sched, err := openScheduler(cfg, log, sinks)
	if err != nil {
		drain()
		return err
	}
	defer sched.Close()
	defer drain()

	shell, err = repl.NewREPL(sched, cfg)
	if err != nil {
		return err
	}

	stop := runInBackground(sched)
	defer stop()

	return shell.Start(context.Background())
}
