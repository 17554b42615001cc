package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/devicelab-dev/screenmatch/pkg/config"
	"github.com/devicelab-dev/screenmatch/pkg/core"
	"github.com/devicelab-dev/screenmatch/pkg/hierarchy"
	"github.com/devicelab-dev/screenmatch/pkg/locator"
	"github.com/devicelab-dev/screenmatch/pkg/logger"
	"github.com/devicelab-dev/screenmatch/pkg/vision"
)

// matchFlags are shared by resolve and tap.
var matchFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "dump",
		Aliases: []string{"f"},
		Usage:   "Read the hierarchy dump from a file (- for stdin) instead of the device",
	},
	&cli.BoolFlag{
		Name:  "explain",
		Usage: "Print the candidate ranking to stderr",
	},
	&cli.BoolFlag{
		Name:  "fallback-ai",
		Usage: "Ask the vision model when the dump heuristics find nothing",
	},
	&cli.StringFlag{
		Name:  "screenshot",
		Usage: "PNG sent to the vision model (default: captured from the device)",
	},
	&cli.BoolFlag{
		Name:  "save-dump",
		Usage: "Keep a copy of the dump under $SCREENMATCH_HOME/dumps",
	},
}

var resolveCommand = &cli.Command{
	Name:      "resolve",
	Usage:     "Find an element by description and print its center",
	ArgsUsage: "<description>",
	Description: `Resolve a description against the UI hierarchy and print the result
as JSON: found, x, y, element_type, confidence, description.

Exits with status 2 when nothing matches.

Examples:
  screenmatch resolve "login button"
  screenmatch resolve --dump window.xml "press digit 3"
  adb exec-out uiautomator dump /dev/tty | screenmatch resolve --dump - "continue"`,
	Flags:  matchFlags,
	Action: runResolve,
}

func runResolve(c *cli.Context) error {
	description := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(description) == "" {
		return fmt.Errorf("an element description is required")
	}

	sess, err := newSession(c)
	if err != nil {
		return err
	}

	res, err := sess.resolve(c, description)
	if werr := writeJSON(c.App.Writer, res); werr != nil {
		return werr
	}
	return err
}

// fileSource reads a dump from disk or stdin.
type fileSource struct {
	path  string
	stdin io.Reader
}

func (f fileSource) DumpUI(context.Context) (string, error) {
	if f.path == "-" {
		data, err := io.ReadAll(f.stdin)
		return string(data), err
	}
	data, err := os.ReadFile(f.path) //#nosec G304 -- user-provided dump file
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// recordingSource keeps the last dump text for the vision fallback.
type recordingSource struct {
	src  core.DumpSource
	text string
}

func (r *recordingSource) DumpUI(ctx context.Context) (string, error) {
	text, err := r.src.DumpUI(ctx)
	r.text = text
	return text, err
}

// dumpSource picks the --dump file or the live device.
func (s *session) dumpSource(c *cli.Context) (core.DumpSource, error) {
	if path := c.String("dump"); path != "" {
		return fileSource{path: path, stdin: c.App.Reader}, nil
	}
	if s.platform() == core.PlatformIOS {
		return nil, core.ErrMissingRequired.WithMessage("iOS simulators have no hierarchy dump command; pass --dump")
	}
	d, err := s.android(c.Context)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// resolve runs the heuristic locator and, when allowed, the vision fallback.
func (s *session) resolve(c *cli.Context, description string) (locator.Result, error) {
	ctx := c.Context
	src, err := s.dumpSource(c)
	if err != nil {
		return locator.NotFound("No hierarchy dump available"), err
	}
	rec := &recordingSource{src: src}
	loc := &locator.Locator{Ranker: s.ranker, Source: rec}

	start := time.Now()
	res, err := loc.Locate(ctx, locator.Request{QueryDescription: description})
	logger.L().Info("resolved",
		zap.String("query", description),
		zap.Bool("found", res.Found),
		zap.Float32("confidence", res.Confidence),
		zap.Duration("took", time.Since(start)),
		zap.Error(err))

	if c.Bool("save-dump") && rec.text != "" {
		if path, serr := saveDump(rec.text); serr != nil {
			logger.L().Warn("save dump failed", zap.Error(serr))
		} else {
			fmt.Fprintf(c.App.ErrWriter, "Dump saved to %s\n", path)
		}
	}

	elems := hierarchy.Extract(rec.text)
	if c.Bool("explain") {
		q := locator.ParseQuery(description)
		printCandidates(c.App.ErrWriter, q, loc.Ranker.Rank(q, elems), 10)
	}

	if err == nil || !c.Bool("fallback-ai") || !core.IsFallbackable(err) {
		return res, err
	}
	return s.visionFallback(c, description, elems, err)
}

func (s *session) visionFallback(c *cli.Context, description string, elems []hierarchy.Element, cause error) (locator.Result, error) {
	ctx := c.Context
	m, err := vision.New(vision.Options{
		APIKey:    s.cfg.Vision.APIKey,
		Model:     s.cfg.Vision.Model,
		MaxTokens: s.cfg.Vision.MaxTokens,
		BaseURL:   s.cfg.Vision.BaseURL,
	})
	if err != nil {
		return locator.NotFound("Vision fallback unavailable"), fmt.Errorf("%w (fallback: %v)", cause, err)
	}

	png, err := s.screenshot(c)
	if err != nil {
		logger.L().Warn("screenshot unavailable, sending element list only", zap.Error(err))
	}

	logger.L().Info("falling back to vision matcher", zap.String("query", description))
	res, err := m.Match(ctx, png, description, hierarchy.Tuples(elems))
	if err != nil {
		return res, err
	}
	if !res.Found {
		return res, cause
	}
	return res, nil
}

// screenshot reads --screenshot or captures one when a device is in use.
func (s *session) screenshot(c *cli.Context) ([]byte, error) {
	if path := c.String("screenshot"); path != "" {
		return os.ReadFile(path) //#nosec G304 -- user-provided screenshot
	}
	if c.String("dump") != "" {
		return nil, fmt.Errorf("no --screenshot given for an offline dump")
	}
	if s.platform() == core.PlatformIOS {
		sim, err := s.simulator()
		if err != nil {
			return nil, err
		}
		return sim.Screenshot(c.Context)
	}
	d, err := s.android(c.Context)
	if err != nil {
		return nil, err
	}
	return d.Screenshot(c.Context)
}

func saveDump(text string) (string, error) {
	dir := config.GetDumpDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, time.Now().Format("20060102-150405.000")+".xml")
	return path, os.WriteFile(path, []byte(text), 0644)
}
