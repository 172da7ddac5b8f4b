package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/google/uuid"

	"github.com/nibzard/kanban-go/internal/board"
)

// mutate loads the board, applies fn and saves. A failed fn saves nothing.
func (a *app) mutate(ctx context.Context, fn func(*board.Board) error) error {
	sess, closeStore, err := a.openSession(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := sess.Update(fn); err != nil {
		return err
	}
	if err := sess.Save(ctx); err != nil {
		return fmt.Errorf("saving board: %w", err)
	}
	return nil
}

// lsCommand prints one list or all three in board order.
func (a *app) lsCommand(ctx context.Context, args []string) error {
	fs := newFlagSet("ls", a.stderr)
	verbose := fs.Bool("v", false, "Show full task ids")
	rest, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(rest) > 1 {
		return fmt.Errorf("unexpected arguments: %v", rest[1:])
	}

	lists := board.Lists[:]
	if len(rest) == 1 {
		l, err := board.ParseList(rest[0])
		if err != nil {
			return err
		}
		lists = []board.List{l}
	}

	sess, closeStore, err := a.openSession(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	sess.View(func(b *board.Board) {
		for i, l := range lists {
			if i > 0 {
				fmt.Fprintln(a.stdout)
			}
			printList(a.stdout, l, b.GetList(l), *verbose)
		}
	})
	return nil
}

func printList(w io.Writer, l board.List, tasks []board.Task, verbose bool) {
	fmt.Fprintf(w, "%s (%d)\n", l, len(tasks))
	for i, t := range tasks {
		id := t.Short()
		if verbose {
			id = t.ID.String()
		}
		fmt.Fprintf(w, "  %d  %s  %-6s  %s\n", i, id, t.Color, t.Text)
	}
}

// addCommand appends a task to a list.
func (a *app) addCommand(ctx context.Context, args []string) error {
	fs := newFlagSet("add", a.stderr)
	colorName := fs.String("color", board.Yellow.String(), "Task color (yellow|pink|blue|green)")
	rest, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(rest) < 1 {
		return errors.New("usage: kanban add <list> [text...] [-color c]")
	}
	list, err := board.ParseList(rest[0])
	if err != nil {
		return err
	}
	color, err := board.ParseColor(*colorName)
	if err != nil {
		return err
	}
	text := joinText(rest[1:])

	var id uuid.UUID
	err = a.mutate(ctx, func(b *board.Board) error {
		id = b.CreateTask(list)
		if err := b.EditText(id, text); err != nil {
			return err
		}
		return b.SetColor(id, color)
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Added %s to %s\n", id, list)
	return nil
}

// editCommand replaces the text of a task found by id or prefix.
func (a *app) editCommand(ctx context.Context, args []string) error {
	rest, err := parseArgs(newFlagSet("edit", a.stderr), args)
	if err != nil {
		return err
	}
	if len(rest) < 1 {
		return errors.New("usage: kanban edit <id> <text...>")
	}
	ref, text := rest[0], joinText(rest[1:])

	return a.mutate(ctx, func(b *board.Board) error {
		id, err := b.ResolveID(ref)
		if err != nil {
			return err
		}
		return b.EditText(id, text)
	})
}

// colorCommand sets the color of a task found by id or prefix.
func (a *app) colorCommand(ctx context.Context, args []string) error {
	rest, err := parseArgs(newFlagSet("color", a.stderr), args)
	if err != nil {
		return err
	}
	if len(rest) != 2 {
		return errors.New("usage: kanban color <id> <yellow|pink|blue|green>")
	}
	color, err := board.ParseColor(rest[1])
	if err != nil {
		return err
	}

	return a.mutate(ctx, func(b *board.Board) error {
		id, err := b.ResolveID(rest[0])
		if err != nil {
			return err
		}
		return b.SetColor(id, color)
	})
}

// rmCommand deletes the task at a position.
func (a *app) rmCommand(ctx context.Context, args []string) error {
	rest, err := parseArgs(newFlagSet("rm", a.stderr), args)
	if err != nil {
		return err
	}
	if len(rest) != 2 {
		return errors.New("usage: kanban rm <list> <position>")
	}
	list, err := board.ParseList(rest[0])
	if err != nil {
		return err
	}
	pos, err := parsePosition(rest[1])
	if err != nil {
		return err
	}

	var removed board.Task
	if err := a.mutate(ctx, func(b *board.Board) error {
		var err error
		removed, err = b.DeleteTask(list, pos)
		return err
	}); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Deleted %s from %s\n", removed.Short(), list)
	return nil
}

// reorderCommand moves a task within its list.
func (a *app) reorderCommand(ctx context.Context, args []string) error {
	rest, err := parseArgs(newFlagSet("reorder", a.stderr), args)
	if err != nil {
		return err
	}
	if len(rest) != 3 {
		return errors.New("usage: kanban reorder <list> <from> <to>")
	}
	list, err := board.ParseList(rest[0])
	if err != nil {
		return err
	}
	from, err := parsePosition(rest[1])
	if err != nil {
		return err
	}
	to, err := parsePosition(rest[2])
	if err != nil {
		return err
	}

	return a.mutate(ctx, func(b *board.Board) error {
		return b.ReorderWithinList(list, from, to)
	})
}

// mvCommand advances a task along todo -> doing -> done -> doing, or moves
// it to the list named by -to.
func (a *app) mvCommand(ctx context.Context, args []string) error {
	fs := newFlagSet("mv", a.stderr)
	toName := fs.String("to", "", "Destination list (default: the next list)")
	rest, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(rest) != 2 {
		return errors.New("usage: kanban mv <list> <position> [-to list]")
	}
	src, err := board.ParseList(rest[0])
	if err != nil {
		return err
	}
	pos, err := parsePosition(rest[1])
	if err != nil {
		return err
	}
	var dst board.List
	explicit := *toName != ""
	if explicit {
		if dst, err = board.ParseList(*toName); err != nil {
			return err
		}
	}

	var moved board.Task
	err = a.mutate(ctx, func(b *board.Board) error {
		tasks := b.GetList(src)
		if explicit {
			if err := b.MoveToList(src, pos, dst); err != nil {
				return err
			}
		} else {
			var err error
			if dst, err = b.Advance(src, pos); err != nil {
				return err
			}
		}
		moved = tasks[pos]
		return nil
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Moved %s to %s\n", moved.Short(), dst)
	return nil
}

func parsePosition(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid position %q: want a 0-based index", s)
	}
	return n, nil
}

// resetCommand replaces the stored snapshot of a list that failed to load
// with an empty list. Lists that loaded are left as they are.
func (a *app) resetCommand(ctx context.Context, args []string) error {
	rest, err := parseArgs(newFlagSet("reset", a.stderr), args)
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		return errors.New("usage: kanban reset <list>")
	}
	list, err := board.ParseList(rest[0])
	if err != nil {
		return err
	}

	sess, closeStore, err := a.openSession(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	if !slices.Contains(sess.Held(), list) {
		fmt.Fprintf(a.stdout, "%s loaded fine, nothing to reset\n", list)
		return nil
	}
	sess.Release(list)
	if err := sess.Save(ctx); err != nil {
		return fmt.Errorf("saving board: %w", err)
	}
	fmt.Fprintf(a.stdout, "Reset %s\n", list)
	return nil
}
