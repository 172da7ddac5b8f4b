package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/nibzard/kanban-go/internal/board"
	"github.com/nibzard/kanban-go/internal/logging"
	"github.com/nibzard/kanban-go/internal/snapshot"
	"github.com/nibzard/kanban-go/internal/storage"
)

// doctorCommand checks the config, storage reachability and every saved
// list.
func (a *app) doctorCommand(ctx context.Context, args []string) error {
	fs := newFlagSet("doctor", a.stderr)
	verbose := fs.Bool("v", false, "Verbose output")
	rest, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return fmt.Errorf("unexpected arguments: %v", rest)
	}

	w := a.stdout
	fmt.Fprintln(w, "Kanban Doctor")
	fmt.Fprintln(w, "=============")
	fmt.Fprintln(w)

	allOK := true

	// Check config
	fmt.Fprintln(w, "Config:")
	if f := a.cws.GetConfigFile(); f != "" {
		fmt.Fprintf(w, "  File: %s\n", f)
	} else {
		fmt.Fprintln(w, "  File: (none, using defaults)")
	}
	if err := a.cfg.Validate(); err != nil {
		for _, e := range splitJoined(err) {
			fmt.Fprintf(w, "  ❌ %v\n", e)
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, "⚠️  Some checks failed.")
		return errors.New("doctor checks failed")
	}
	fmt.Fprintln(w, "  ✅ OK")
	fmt.Fprintln(w)

	// Check storage
	opts := a.cfg.StorageOptions()
	fmt.Fprintf(w, "Storage: %s\n", storage.Describe(opts))
	store, err := storage.Open(ctx, opts)
	if err != nil {
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		fmt.Fprintln(w)
		fmt.Fprintln(w, "⚠️  Some checks failed.")
		return errors.New("doctor checks failed")
	}
	defer store.Close()
	fmt.Fprintln(w, "  ✅ Reachable")
	fmt.Fprintln(w)

	// Check saved lists
	fmt.Fprintln(w, "Lists:")
	b, report := snapshot.Load(ctx, store, snapshot.WithLogger(logging.Discard()))
	for _, l := range board.Lists {
		r := report.List(l)
		switch r.Status {
		case snapshot.StatusLoaded:
			fmt.Fprintf(w, "  ✅ %-6s %d tasks\n", l, r.Count)
		case snapshot.StatusMissing:
			fmt.Fprintf(w, "  ⚠️  %-6s not saved yet (starts empty)\n", l)
		case snapshot.StatusFailed:
			fmt.Fprintf(w, "  ❌ %-6s %v\n", l, r.Err)
			allOK = false
		}
		if *verbose && r.Status == snapshot.StatusLoaded {
			for i, t := range b.GetList(l) {
				fmt.Fprintf(w, "       %d  %s  %-6s  %s\n", i, t.ID, t.Color, t.Text)
			}
		}
	}
	fmt.Fprintln(w)

	if *verbose {
		fmt.Fprintln(w, "List schema:")
		fmt.Fprintln(w, snapshot.Schema())
	}

	if allOK {
		fmt.Fprintln(w, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(w, "⚠️  Some checks failed. Failed lists load empty and keep their stored data until they gain a task or `kanban reset <list>` is run.")
	return errors.New("doctor checks failed")
}

// splitJoined unpacks an errors.Join result.
func splitJoined(err error) []error {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}
	return []error{err}
}
