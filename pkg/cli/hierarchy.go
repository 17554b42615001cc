package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/screenmatch/pkg/hierarchy"
)

var hierarchyCommand = &cli.Command{
	Name:  "hierarchy",
	Usage: "Print the elements extracted from the UI hierarchy",
	Description: `Print the elements extracted from a hierarchy dump in JSON or CSV format.

Examples:
  screenmatch hierarchy
  screenmatch hierarchy --compact
  screenmatch hierarchy --dump window.xml --tuples`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "dump",
			Aliases: []string{"f"},
			Usage:   "Read the hierarchy dump from a file (- for stdin) instead of the device",
		},
		&cli.BoolFlag{
			Name:  "compact",
			Usage: "Output in CSV format",
		},
		&cli.BoolFlag{
			Name:  "tuples",
			Usage: "Output the labelled element list sent to the vision model",
		},
	},
	Action: runHierarchy,
}

func runHierarchy(c *cli.Context) error {
	sess, err := newSession(c)
	if err != nil {
		return err
	}
	src, err := sess.dumpSource(c)
	if err != nil {
		return err
	}
	dump, err := src.DumpUI(c.Context)
	if err != nil {
		return fmt.Errorf("dump ui: %w", err)
	}

	elems, err := hierarchy.Inspect(dump)
	if err != nil {
		return err
	}

	w := c.App.Writer
	switch {
	case c.Bool("tuples"):
		for _, t := range hierarchy.Tuples(elems) {
			fmt.Fprintln(w, t.String())
		}
		return nil
	case c.Bool("compact"):
		return hierarchy.WriteCSV(w, elems)
	default:
		return hierarchy.WriteJSON(w, elems)
	}
}
