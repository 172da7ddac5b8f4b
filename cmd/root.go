// Package cmd implements the CLI command structure for kanban.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/kanban-go/internal/config"
	"github.com/nibzard/kanban-go/internal/logging"
	"github.com/nibzard/kanban-go/internal/session"
	"github.com/nibzard/kanban-go/internal/storage"
)

// Version is set via ldflags at build time.
var Version = "dev"

// app carries what every command needs.
type app struct {
	cfg    *config.Config
	cws    *config.ConfigWithSources
	stdout io.Writer
	stderr io.Writer
	logger *log.Logger
}

// Run executes the kanban CLI.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("kanban", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	a := &app{
		cfg:    cws.Config,
		cws:    cws,
		stdout: stdout,
		stderr: stderr,
		logger: logging.FromConfig(stderr, cws.Config),
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return a.versionCommand()
	}

	remaining := fs.Args()
	if len(remaining) == 0 {
		printUsage(fs, stdout)
		return nil
	}
	subcommand, remaining := remaining[0], remaining[1:]

	switch subcommand {
	case "ls", "list":
		return a.lsCommand(ctx, remaining)
	case "add":
		return a.addCommand(ctx, remaining)
	case "edit":
		return a.editCommand(ctx, remaining)
	case "color":
		return a.colorCommand(ctx, remaining)
	case "rm", "delete":
		return a.rmCommand(ctx, remaining)
	case "reorder":
		return a.reorderCommand(ctx, remaining)
	case "mv", "move":
		return a.mvCommand(ctx, remaining)
	case "reset":
		return a.resetCommand(ctx, remaining)
	case "tui":
		return a.tuiCommand(ctx, remaining)
	case "export":
		return a.exportCommand(ctx, remaining)
	case "doctor":
		return a.doctorCommand(ctx, remaining)
	case "config":
		return a.configCommand(remaining)
	case "version", "--version":
		return a.versionCommand()
	case "help", "--help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// openSession validates the config, opens the configured store and loads
// the board. Load problems are logged as warnings and do not fail the call;
// lists that failed to load are not written back until they gain a task.
// The returned func closes the store.
func (a *app) openSession(ctx context.Context) (*session.Session, func(), error) {
	if err := a.cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}
	opts := a.cfg.StorageOptions()
	store, err := storage.Open(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", storage.Describe(opts), err)
	}
	sess, _ := session.Open(ctx, store, a.logger)
	closeStore := func() {
		if err := store.Close(); err != nil {
			a.logger.Warn("closing storage", "err", err)
		}
	}
	return sess, closeStore, nil
}

// versionCommand prints version information.
func (a *app) versionCommand() error {
	fmt.Fprintf(a.stdout, "kanban version %s\n", Version)
	return nil
}

// parseArgs parses fs from args, allowing flags after positional
// arguments. Everything after "--" is positional.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		if consumed := len(args) - len(rest); consumed > 0 && args[consumed-1] == "--" {
			return append(positional, rest...), nil
		}
		if len(rest) == 0 {
			return positional, nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("kanban "+name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "kanban - a three-list task board (todo, doing, done)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  kanban [global options] <command> [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  ls [list]                     List tasks (-v shows full ids)")
	fmt.Fprintln(w, "  add <list> [text...]          Add a task (-color yellow|pink|blue|green)")
	fmt.Fprintln(w, "  edit <id> <text...>           Replace a task's text")
	fmt.Fprintln(w, "  color <id> <color>            Set a task's color")
	fmt.Fprintln(w, "  rm <list> <pos>               Delete the task at a position")
	fmt.Fprintln(w, "  reorder <list> <from> <to>    Move a task within its list")
	fmt.Fprintln(w, "  mv <list> <pos>               Advance a task (todo->doing->done->doing, -to list)")
	fmt.Fprintln(w, "  reset <list>                  Overwrite a list that failed to load with an empty one")
	fmt.Fprintln(w, "  tui                           Launch the terminal board")
	fmt.Fprintln(w, "  export                        Print all lists (-format json|yaml, -o file)")
	fmt.Fprintln(w, "  doctor                        Check config, storage and saved lists (-v)")
	fmt.Fprintln(w, "  config                        Show effective config and sources (-example)")
	fmt.Fprintln(w, "  version                       Show version information")
	fmt.Fprintln(w, "  help                          Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Positions are 0-based as shown by ls. Ids accept a unique prefix of 4+ hex digits.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
}

func joinText(words []string) string {
	return strings.Join(words, " ")
}
