package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/nibzard/kanban-go/internal/config"
)

// configCommand prints the effective configuration and where each value
// came from.
func (a *app) configCommand(args []string) error {
	fs := newFlagSet("config", a.stderr)
	example := fs.Bool("example", false, "Print an example config file")
	rest, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return fmt.Errorf("unexpected arguments: %v", rest)
	}

	if *example {
		fmt.Fprint(a.stdout, config.ExampleConfig())
		return nil
	}

	if len(a.cws.Files) == 0 {
		fmt.Fprintln(a.stdout, "Config files: (none)")
	} else {
		fmt.Fprintln(a.stdout, "Config files:")
		for _, f := range a.cws.Files {
			fmt.Fprintf(a.stdout, "  %s\n", f)
		}
	}
	fmt.Fprintln(a.stdout)

	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tVALUE\tSOURCE")
	for _, s := range a.cws.Settings() {
		value := s.Value
		if value == "" {
			value = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Key, value, s.Source)
	}
	return tw.Flush()
}
