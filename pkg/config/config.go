// Package config handles configuration for screenmatch.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/devicelab-dev/screenmatch/pkg/core"
	"github.com/devicelab-dev/screenmatch/pkg/geometry"
)

// Defaults
const (
	DefaultVisionModel     = "gpt-4o"
	DefaultVisionMaxTokens = 256
	DefaultLogLevel        = "info"
	DefaultEnv             = "dev"
)

// Config represents the workspace configuration (config.yaml).
type Config struct {
	// Device settings
	Platform string `yaml:"platform"` // android or ios
	Device   string `yaml:"device"`   // ADB serial or simulator UDID
	ADBPath  string `yaml:"adbPath"`  // adb binary, looked up in PATH when empty

	// Simulator window title bar in host pixels; 28 when unset
	TitleBarHeight *int32 `yaml:"titleBarHeight"`

	// YAML term -> equivalents table replacing the built-in synonyms
	SynonymsFile string `yaml:"synonymsFile"`

	// Logging
	Env      string `yaml:"env"`      // dev or prod console preset
	LogLevel string `yaml:"logLevel"` // debug, info, warn, error
	LogFile  string `yaml:"logFile"`  // optional JSON log file

	Vision Vision `yaml:"vision"`
}

// Vision configures the optional AI vision matcher.
type Vision struct {
	APIKey    string `yaml:"-"` // only from OPENAI_API_KEY
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"maxTokens"`
	BaseURL   string `yaml:"baseURL"`
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- user-provided config file
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadFromDir looks for config.yaml or config.yml in the directory.
func LoadFromDir(dir string) (*Config, error) {
	// Try config.yaml first
	configPath := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(configPath); err == nil {
		return Load(configPath)
	}

	// Try config.yml
	configPath = filepath.Join(dir, "config.yml")
	if _, err := os.Stat(configPath); err == nil {
		return Load(configPath)
	}

	// No config file found, return empty config
	return &Config{}, nil
}

// LoadDotEnv loads KEY=VALUE files into the process environment.
// Missing files are ignored and variables already set are kept.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides fields from SCREENMATCH_* and OPENAI_* variables,
// then fills defaults.
func (c *Config) ApplyEnv() {
	c.Platform = env("SCREENMATCH_PLATFORM", c.Platform)
	c.Device = env("SCREENMATCH_DEVICE", c.Device)
	c.ADBPath = env("SCREENMATCH_ADB_PATH", c.ADBPath)
	c.Env = env("SCREENMATCH_ENV", c.Env)
	c.LogLevel = env("SCREENMATCH_LOG_LEVEL", c.LogLevel)
	c.LogFile = env("SCREENMATCH_LOG_FILE", c.LogFile)
	c.SynonymsFile = env("SCREENMATCH_SYNONYMS", c.SynonymsFile)
	if v, ok := envInt("SCREENMATCH_TITLE_BAR"); ok {
		tb := int32(v)
		c.TitleBarHeight = &tb
	}

	c.Vision.APIKey = env("OPENAI_API_KEY", c.Vision.APIKey)
	c.Vision.Model = env("OPENAI_MODEL", c.Vision.Model)
	c.Vision.BaseURL = env("OPENAI_BASE_URL", c.Vision.BaseURL)
	if v, ok := envInt("OPENAI_MAX_TOKENS"); ok {
		c.Vision.MaxTokens = v
	}

	c.applyDefaults()
}

func (c *Config) applyDefaults() {
	if c.Env == "" {
		c.Env = DefaultEnv
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.Vision.Model == "" {
		c.Vision.Model = DefaultVisionModel
	}
	if c.Vision.MaxTokens == 0 {
		c.Vision.MaxTokens = DefaultVisionMaxTokens
	}
}

// TitleBar returns the configured title bar height or the default.
func (c *Config) TitleBar() int32 {
	if c.TitleBarHeight == nil {
		return geometry.DefaultTitleBarHeight
	}
	return *c.TitleBarHeight
}

// Validate checks field values.
func (c *Config) Validate() error {
	switch c.Platform {
	case "", core.PlatformAndroid, core.PlatformIOS:
	default:
		return core.ErrInvalidConfig.WithMessage(fmt.Sprintf("unknown platform %q (want android or ios)", c.Platform))
	}
	if c.TitleBarHeight != nil && *c.TitleBarHeight < 0 {
		return core.ErrInvalidConfig.WithMessage(fmt.Sprintf("titleBarHeight must not be negative, got %d", *c.TitleBarHeight))
	}
	if c.Vision.MaxTokens < 0 {
		return core.ErrInvalidConfig.WithMessage("vision.maxTokens must not be negative")
	}
	return nil
}

func env(key, defaultValue string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return defaultValue
}

func envInt(key string) (int, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}
