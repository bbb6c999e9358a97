package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/notexe/quick-remind/internal/config"
	"github.com/notexe/quick-remind/internal/logging"
	"github.com/notexe/quick-remind/internal/notify"
	"github.com/notexe/quick-remind/internal/persist"
	"github.com/notexe/quick-remind/internal/scheduler"
	"github.com/notexe/quick-remind/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/urfave/cli"
)

func newApp(out io.Writer) *cli.App {
	app := cli.NewApp()
	app.Name = "remind"
	app.HelpName = "remind"
	app.Usage = "quick reminders that pop up when they are due"
	app.UsageText = "remind [--config FILE] <command>"
	app.Version = version
	app.Writer = out
	app.ErrWriter = os.Stderr
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "config, c",
			Usage:  "path to the YAML config file",
			EnvVar: "QUICK_REMIND_CONFIG",
			Value:  config.GetDefaultConfigPath(),
		},
	}
	app.Commands = []cli.Command{
		{
			Name:   "run",
			Usage:  "run the scheduler and deliver due reminders until interrupted",
			Action: runDaemon,
		},
		{
			Name:    "shell",
			Aliases: []string{"sh"},
			Usage:   "interactive quick note shell",
			Action:  runShell,
		},
		{
			Name:   "mcp",
			Usage:  "serve the reminder tools over MCP on stdio",
			Action: runMCP,
		},
		{
			Name:    "list",
			Aliases: []string{"l", "ls"},
			Usage:   "print the persisted active reminders",
			Action:  list,
		},
	}
	return app
}

// bootstrap loads and validates the config and builds the process logger.
func bootstrap(ctx *cli.Context, logOut io.Writer) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(ctx.GlobalString("config"))
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	if err := cfg.Validate(); err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("invalid config: %w", err)
	}

	log, err := logging.New(cfg.Log, logOut)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	return cfg, log, nil
}

func openScheduler(cfg *config.Config, log zerolog.Logger, sink scheduler.Sink) (*scheduler.Scheduler, error) {
	adapter, err := persist.Open(cfg.Storage, afero.NewOsFs())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Backend, err)
	}
	log.Debug().Str("backend", cfg.Storage.Backend).Str("path", cfg.Storage.Path).Msg("storage opened")

	return scheduler.New(adapter, sink, scheduler.WithLogger(log)), nil
}

// remoteSinks are the sinks that do not own the terminal. Network sinks run
// behind a queue; the returned func drains it and must run after the
// scheduler has stopped.
func remoteSinks(cfg *config.Config, log zerolog.Logger) (notify.Fanout, func()) {
	sinks := notify.Fanout{notify.NewLog(log)}
	if tg := cfg.Notify.Telegram; tg.Enabled() {
		queued := notify.NewQueued(notify.NewTelegram(tg.BaseURL, tg.BotToken, tg.ChatID, log), log)
		return append(sinks, queued), queued.Close
	}
	return sinks, func() {}
}

// runInBackground starts the check loop and returns a func that stops it
// and waits for the last cycle to finish.
func runInBackground(sched *scheduler.Scheduler) func() {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		sched.Run(ctx)
	}()
	return func() {
		cancel()
		<-done
	}
}

func formatter(cfg *config.Config) *ui.Formatter {
	return ui.NewFormatter(cfg.UI.ColoredOutput)
}
