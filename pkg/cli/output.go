package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/devicelab-dev/screenmatch/pkg/locator"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
)

// colorsEnabled determines if ANSI colors should be used
var colorsEnabled = true

func init() {
	// Respect NO_COLOR environment variable
	if os.Getenv("NO_COLOR") != "" {
		colorsEnabled = false
		return
	}
	// Check if stderr is a terminal; explanations go there
	if fileInfo, err := os.Stderr.Stat(); err == nil {
		if (fileInfo.Mode() & os.ModeCharDevice) == 0 {
			colorsEnabled = false
		}
	}
}

// color returns the color code if colors are enabled, empty string otherwise
func color(c string) string {
	if colorsEnabled {
		return c
	}
	return ""
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printCandidates writes the ranking table shown by --explain.
func printCandidates(w io.Writer, q locator.Query, candidates []locator.Candidate, limit int) {
	fmt.Fprintf(w, "%sQuery:%s %q", color(colorBold), color(colorReset), q.Description)
	if q.TargetDigit != "" {
		fmt.Fprintf(w, " (keypad digit %s)", q.TargetDigit)
	}
	fmt.Fprintln(w)

	if len(candidates) == 0 {
		fmt.Fprintf(w, "  %sno labelled elements%s\n", color(colorDim), color(colorReset))
		return
	}
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	for _, c := range candidates {
		mark := color(colorDim)
		if c.Score >= locator.AcceptThreshold {
			mark = color(colorGreen)
		} else if c.Score >= locator.BoostFloor {
			mark = color(colorYellow)
		}
		x, y := c.Element.Bounds.Center()
		fmt.Fprintf(w, "  %s%5.2f%s  base %.2f  %-8s #%-3d %q at (%d, %d)\n",
			mark, c.Score, color(colorReset), c.Base, c.Branch, c.Index, c.Element.Label(), x, y)
	}
}
