// Package config provides configuration management for the ACL migration
// tool. It handles loading and validating settings from a YAML file and
// provides sensible defaults; CLI flags override file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/glorpus-work/aclshift/pkg/errors"
)

// Config represents the application configuration.
type Config struct {
	Settings Settings    `yaml:"settings"`
	Tools    ToolsConfig `yaml:"tools"`
	Hooks    HooksConfig `yaml:"hooks"`
}

// Settings represents general migration settings.
type Settings struct {
	// Workers is the size of the migration worker pool.
	Workers int `yaml:"workers"`

	// Incremental skips paths whose ledger record shows prior success at
	// the same modification time.
	Incremental bool `yaml:"incremental"`

	// Ownership also migrates the owning user and group.
	Ownership bool `yaml:"ownership"`

	// Background suppresses console output; logs go to the log file only.
	Background bool `yaml:"background"`

	// Domain, when set, qualifies every NFSv4 principal as name@domain.
	Domain string `yaml:"domain,omitempty"`

	// LedgerPath is the SQLite ledger database path. Defaults to
	// <log_dir>/acl_migration.db.
	LedgerPath string `yaml:"ledger_path,omitempty"`

	// Logging settings.
	LogDir   string `yaml:"log_dir,omitempty"`
	LogLevel string `yaml:"log_level"` // error, warn, info, debug
}

// ToolsConfig names the external filesystem commands and their optional
// minimum versions.
type ToolsConfig struct {
	Query  ToolConfig `yaml:"query"`  // POSIX ACL query (getfacl)
	Mutate ToolConfig `yaml:"mutate"` // NFSv4 ACL mutation (nfs4_setfacl)
	Chown  ToolConfig `yaml:"chown"`  // ownership change
}

// ToolConfig describes one external command.
type ToolConfig struct {
	Name       string `yaml:"name"`
	MinVersion string `yaml:"min_version,omitempty"`
}

// HooksConfig points at optional Tengo scripts run around a migration.
type HooksConfig struct {
	PreRun  string `yaml:"pre_run,omitempty"`
	PostRun string `yaml:"post_run,omitempty"`
}

// Default configuration values.
const (
	DefaultWorkers  = 4
	DefaultLogDir   = "logs"
	DefaultLogLevel = "info"

	// DefaultLedgerName is the ledger filename inside the log directory
	// when no explicit ledger path is configured.
	DefaultLedgerName = "acl_migration.db"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Settings: Settings{
			Workers:  DefaultWorkers,
			LogDir:   DefaultLogDir,
			LogLevel: DefaultLogLevel,
		},
		Tools: ToolsConfig{
			Query:  ToolConfig{Name: "getfacl"},
			Mutate: ToolConfig{Name: "nfs4_setfacl"},
			Chown:  ToolConfig{Name: "chown"},
		},
	}
}

// LoadConfig loads configuration from a YAML file, layered over defaults.
// An empty path returns the defaults unchanged.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrConfigParse, "read %s: %v", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(errors.ErrConfigParse, "parse %s: %v", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Settings.Workers <= 0 {
		return errors.Wrapf(errors.ErrConfigValidation, "workers must be positive, got %d", c.Settings.Workers)
	}
	switch c.Settings.LogLevel {
	case "error", "warn", "warning", "info", "debug":
	default:
		return errors.Wrapf(errors.ErrConfigValidation, "unknown log level %q", c.Settings.LogLevel)
	}
	for _, tool := range []ToolConfig{c.Tools.Query, c.Tools.Mutate, c.Tools.Chown} {
		if tool.Name == "" {
			return fmt.Errorf("tool name cannot be empty: %w", errors.ErrConfigValidation)
		}
	}
	return nil
}

// LedgerPath resolves the effective ledger database path.
func (c *Config) LedgerPath() string {
	if c.Settings.LedgerPath != "" {
		return c.Settings.LedgerPath
	}
	return filepath.Join(c.Settings.LogDir, DefaultLedgerName)
}
