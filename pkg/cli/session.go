package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/devicelab-dev/screenmatch/pkg/config"
	"github.com/devicelab-dev/screenmatch/pkg/core"
	"github.com/devicelab-dev/screenmatch/pkg/device"
	"github.com/devicelab-dev/screenmatch/pkg/locator"
	"github.com/devicelab-dev/screenmatch/pkg/logger"
	"github.com/devicelab-dev/screenmatch/pkg/similarity"
	"github.com/devicelab-dev/screenmatch/pkg/simulator"
)

// session is the resolved configuration for one command invocation.
type session struct {
	cfg    *config.Config
	ranker locator.Ranker
	dev    *device.AndroidDevice
}

// flagString reads a flag from the command or, for global flags, from
// the parent context.
func flagString(c *cli.Context, name string) string {
	for _, ctx := range c.Lineage() {
		if ctx.IsSet(name) {
			return ctx.String(name)
		}
	}
	return c.String(name)
}

func flagBool(c *cli.Context, name string) bool {
	for _, ctx := range c.Lineage() {
		if ctx.IsSet(name) {
			return ctx.Bool(name)
		}
	}
	return c.Bool(name)
}

func flagInt(c *cli.Context, name string) int {
	for _, ctx := range c.Lineage() {
		if ctx.IsSet(name) {
			return ctx.Int(name)
		}
	}
	return c.Int(name)
}

// newSession layers configuration: config.yaml, then .env files and the
// environment, then explicit flags. It also sets up logging.
func newSession(c *cli.Context) (*session, error) {
	if err := config.LoadDotEnv(c.StringSlice("env-file")...); err != nil {
		return nil, err
	}

	cfg, err := config.LoadFromDir(flagString(c, "config-dir"))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.ApplyEnv()

	if v := flagString(c, "platform"); v != "" {
		cfg.Platform = v
	}
	if v := flagString(c, "device"); v != "" {
		cfg.Device = v
	}
	if v := flagString(c, "adb-path"); v != "" {
		cfg.ADBPath = v
	}
	if v := flagString(c, "log-file"); v != "" {
		cfg.LogFile = v
	}
	if tb := flagInt(c, "title-bar"); tb >= 0 {
		h := int32(tb)
		cfg.TitleBarHeight = &h
	}
	if flagBool(c, "verbose") {
		cfg.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := setupLogging(cfg); err != nil {
		return nil, err
	}

	sess := &session{cfg: cfg}
	if cfg.SynonymsFile != "" {
		data, err := os.ReadFile(cfg.SynonymsFile)
		if err != nil {
			return nil, core.ErrInvalidConfig.WithMessage("cannot read synonyms file").WithCause(err)
		}
		table, err := similarity.ParseSynonyms(data)
		if err != nil {
			return nil, core.ErrInvalidConfig.WithMessage("invalid synonyms file").WithCause(err)
		}
		sess.ranker.Scorer.Synonyms = table
		logger.L().Debug("loaded synonyms", zap.String("file", cfg.SynonymsFile), zap.Int("terms", len(table.Terms())))
	}
	return sess, nil
}

// synonyms returns the table the ranker scores with.
func (s *session) synonyms() *similarity.SynonymTable {
	if s.ranker.Scorer.Synonyms != nil {
		return s.ranker.Scorer.Synonyms
	}
	return similarity.DefaultSynonyms()
}

// setupLogging sends JSON logs to the configured file, or console logs
// to stderr when verbose. Otherwise logging stays a no-op so stdout
// carries only command output.
func setupLogging(cfg *config.Config) error {
	if cfg.LogFile != "" {
		if err := logger.Init(cfg.LogFile); err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		return nil
	}
	if cfg.LogLevel != "debug" {
		return nil
	}
	l, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		return err
	}
	logger.Setup(l)
	return nil
}

// platform returns the configured platform, defaulting to android.
func (s *session) platform() string {
	if s.cfg.Platform == "" {
		return core.PlatformAndroid
	}
	return s.cfg.Platform
}

func (s *session) android(ctx context.Context) (*device.AndroidDevice, error) {
	if s.dev != nil {
		return s.dev, nil
	}
	d, err := device.New(ctx, s.cfg.Device, s.cfg.ADBPath)
	if err != nil {
		return nil, err
	}
	logger.L().Debug("using android device", zap.String("serial", d.Serial()))
	s.dev = d
	return d, nil
}

func (s *session) simulator() (*simulator.Simulator, error) {
	return simulator.New(s.cfg.Device, s.cfg.TitleBar())
}

// exitCode maps errors to process exit codes: 2 when nothing matched,
// 3 for configuration problems, 1 otherwise.
func exitCode(err error) int {
	var ee *core.ExecutionError
	if !errors.As(err, &ee) {
		return 1
	}
	switch ee.Category {
	case core.ErrCategoryMatch, core.ErrCategoryQuery:
		return 2
	case core.ErrCategoryConfig:
		return 3
	}
	return 1
}
