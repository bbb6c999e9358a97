package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/notexe/quick-remind/internal/persist"
	"github.com/notexe/quick-remind/internal/reminder"
	"github.com/spf13/afero"
	"github.com/urfave/cli"
)

func list(ctx *cli.Context) error {
	cfg, log, err := bootstrap(ctx, io.Discard)
	if err != nil {
		return err
	}

	adapter, err := persist.Open(cfg.Storage, afero.NewOsFs())
	if err != nil {
		return fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Backend, err)
	}
	defer adapter.Close()

	loaded, err := adapter.Load(context.Background())
	if err != nil {
		log.Warn().Err(err).Msg("failed to load persisted reminders")
		fmt.Fprintln(ctx.App.Writer, formatter(cfg).FormatError(err))
	}

	active := reminder.ActiveOnly(loaded)
	reminder.SortByDue(active)
	fmt.Fprintln(ctx.App.Writer, formatter(cfg).FormatReminderTable(active, time.Now()))
	return nil
}
