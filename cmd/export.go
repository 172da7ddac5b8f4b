package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/nibzard/kanban-go/internal/board"
	"github.com/nibzard/kanban-go/internal/snapshot"
)

// exportCommand prints all three lists as one JSON or YAML document.
func (a *app) exportCommand(ctx context.Context, args []string) error {
	fs := newFlagSet("export", a.stderr)
	format := fs.String("format", snapshot.FormatJSON, "Output format (json|yaml)")
	output := fs.String("o", "", "Write to file instead of stdout")
	rest, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return fmt.Errorf("unexpected arguments: %v", rest)
	}

	sess, closeStore, err := a.openSession(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	var doc *snapshot.Document
	sess.View(func(b *board.Board) {
		doc, err = snapshot.NewDocument(b)
	})
	if err != nil {
		return fmt.Errorf("building export: %w", err)
	}
	data, err := doc.Encode(strings.ToLower(*format))
	if err != nil {
		return err
	}

	if *output == "" || *output == "-" {
		_, err = a.stdout.Write(data)
		return err
	}
	if err := os.WriteFile(*output, data, 0o644); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	a.logger.Info("exported board", "file", *output, "format", *format)
	return nil
}
