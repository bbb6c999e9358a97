package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/notexe/quick-remind/internal/notify"
	"github.com/urfave/cli"
)

func runDaemon(ctx *cli.Context) error {
	cfg, log, err := bootstrap(ctx, os.Stderr)
	if err != nil {
		return err
	}

	var sinks notify.Fanout
	if cfg.Notify.Console {
		sinks = append(sinks, notify.NewConsole(ctx.App.Writer, formatter(cfg), cfg.Notify.Bell))
	}
	remote, drain := remoteSinks(cfg, log)
	sinks = append(sinks, remote...)

	sched, err := openScheduler(cfg, log, sinks)
	if err != nil {
		drain()
		return err
	}

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().Int("active", len(sched.ActiveReminders())).Msg("quick-remind running, press Ctrl+C to stop")
	err = sched.Run(runCtx)

	drain()
	if cerr := sched.Close(); err == nil {
		err = cerr
	}
	return err
}
