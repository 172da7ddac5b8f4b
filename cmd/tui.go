package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/nibzard/kanban-go/internal/logging"
	"github.com/nibzard/kanban-go/internal/session"
	"github.com/nibzard/kanban-go/internal/storage"
	"github.com/nibzard/kanban-go/internal/ui"
)

// tuiCommand launches the terminal board. The TUI owns the terminal, so
// logs go to the data directory instead of stderr.
func (a *app) tuiCommand(ctx context.Context, args []string) error {
	fs := newFlagSet("tui", a.stderr)
	rest, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return fmt.Errorf("unexpected arguments: %v", rest)
	}
	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if !ui.IsTTY(a.stdout) {
		return ui.ErrNotTTY
	}

	var logOut io.Writer = io.Discard
	if a.cfg.DataDir != "" {
		f, err := logging.OpenFile(a.cfg.DataDir)
		if err != nil {
			return err
		}
		defer f.Close()
		logOut = f
	}
	logger := logging.FromConfig(logOut, a.cfg)

	opts := a.cfg.StorageOptions()
	store, err := storage.Open(ctx, opts)
	if err != nil {
		return fmt.Errorf("opening %s: %w", storage.Describe(opts), err)
	}
	defer store.Close()

	sess, report := session.Open(ctx, store, logger)
	if !report.OK() {
		// Printed before the alternate screen, so it stays visible afterwards.
		fmt.Fprintf(a.stderr, "warning: %v\n", report.Err())
	}

	runErr := ui.Run(ctx, sess,
		ui.WithAutosave(a.cfg.AutosaveInterval()),
		ui.WithLogger(logger),
	)
	if err := sess.Close(context.WithoutCancel(ctx)); err != nil {
		logger.Error("final save failed", "err", err)
		if runErr == nil {
			return err
		}
	}
	return runErr
}
