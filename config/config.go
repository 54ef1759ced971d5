package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/lexandro/authortree/gitquery"
)

// FileName is the config file looked up under the user config directory.
const FileName = "config.yaml"

type Config struct {
	Server ServerConfig `yaml:"server"`
	Git    GitConfig    `yaml:"git"`
	Search SearchConfig `yaml:"search"`
	Log    LogConfig    `yaml:"log"`
}

type ServerConfig struct {
	Addr              string  `yaml:"addr"`
	AllowedOrigin     string  `yaml:"allowed_origin"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

type GitConfig struct {
	Binary        string        `yaml:"binary"`
	Timeout       time.Duration `yaml:"timeout"`
	Workers       int           `yaml:"workers"`
	DefaultEditor string        `yaml:"default_editor"`
	DateLayout    string        `yaml:"date_layout"`
	Exclude       []string      `yaml:"exclude"`
	LaunchGrace   time.Duration `yaml:"launch_grace"`
	MaxFileSize   int64         `yaml:"max_file_size"`

	// IgnoreEmailCase folds case when matching commit author emails.
	IgnoreEmailCase bool `yaml:"ignore_email_case"`
}

type SearchConfig struct {
	MaxResults   int `yaml:"max_results"`
	ContextLines int `yaml:"context_lines"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

func DefaultConfig() *Config {
	git := gitquery.DefaultOptions()
	return &Config{
		Server: ServerConfig{
			Addr:              "localhost:3000",
			AllowedOrigin:     "http://localhost:8080",
			RequestsPerSecond: 20,
			Burst:             40,
		},
		Git: GitConfig{
			Binary:        "git",
			Timeout:       git.Timeout,
			Workers:       git.Workers,
			DefaultEditor: git.DefaultEditor,
			DateLayout:    git.DateLayout,
			Exclude:       []string{},
			LaunchGrace:   git.LaunchGrace,
			MaxFileSize:   git.MaxFileSize,
		},
		Search: SearchConfig{
			MaxResults:   50,
			ContextLines: 2,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/authortree/config.yaml or the
// platform equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating user config directory: %w", err)
	}
	return filepath.Join(dir, "authortree", FileName), nil
}

// LoadConfig reads path over the defaults. A missing file yields DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	if cfg.Git.Exclude == nil {
		cfg.Git.Exclude = []string{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values no component can run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if c.Server.RequestsPerSecond < 0 || c.Server.Burst < 0 {
		return fmt.Errorf("server rate limits must not be negative")
	}
	if c.Git.Workers < 0 {
		return fmt.Errorf("git.workers must not be negative")
	}
	if c.Git.Timeout < 0 || c.Git.LaunchGrace < 0 {
		return fmt.Errorf("git durations must not be negative")
	}
	for _, pattern := range c.Git.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("git.exclude: bad pattern %q", pattern)
		}
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// GitOptions converts the git section into service options.
func (c *Config) GitOptions() gitquery.Options {
	return gitquery.Options{
		Timeout:       c.Git.Timeout,
		Workers:       c.Git.Workers,
		DefaultEditor: c.Git.DefaultEditor,
		DateLayout:    c.Git.DateLayout,
		Exclude:       append([]string(nil), c.Git.Exclude...),
		LaunchGrace:   c.Git.LaunchGrace,
		MaxFileSize:   c.Git.MaxFileSize,

		IgnoreEmailCase: c.Git.IgnoreEmailCase,
	}
}

// ParseLevel maps debug|info|warn|error to a slog level; empty means info.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", level)
}
