package config

import (
	"errors"
	"flag"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/nibzard/kanban-go/internal/kanbandir"
	"github.com/nibzard/kanban-go/internal/storage"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceDotEnv   ConfigSource = ".env file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, lowest priority first.
	Files []string
}

// Default values.
const (
	DefaultDataDir         = "~/" + kanbandir.Dir
	DefaultBackend         = storage.BackendFile
	DefaultRedisAddr       = "localhost:6379"
	DefaultRedisPrefix     = storage.DefaultRedisPrefix
	DefaultAutosaveSeconds = 30
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
)

// Config holds the full configuration for kanban.
type Config struct {
	// Directory holding snapshot files, the default SQLite database and
	// the TUI log file.
	DataDir string `toml:"data_dir"`

	// Storage backend: file, sqlite, redis, postgres or memory.
	Backend    string `toml:"backend"`
	SQLitePath string `toml:"sqlite_path"`

	Redis    RedisConfig    `toml:"redis"`
	Postgres PostgresConfig `toml:"postgres"`

	// Seconds between TUI autosaves; 0 disables autosave.
	AutosaveSeconds int `toml:"autosave_seconds"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// PostgresConfig configures the postgres backend.
type PostgresConfig struct {
	DSN string `toml:"dsn"`
}

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file (~/.kanban/kanban.toml or OS-specific config dir)
// 3. Project config file (kanban.toml or .kanban.toml in current directory)
// 4. .env file in the current directory
// 5. Environment variables
// 6. CLI flags
//
// The config flags are registered on fs, which is then parsed with args;
// fs.Args() holds the remaining arguments afterwards.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cws, err := LoadWithSources(fs, args)
	if err != nil {
		return nil, err
	}
	return cws.Config, nil
}

// LoadWithSources loads configuration and tracks the source of each value.
func LoadWithSources(fs *flag.FlagSet, args []string) (*ConfigWithSources, error) {
	cfg := &Config{}
	setDefaults(cfg)
	cws := &ConfigWithSources{Config: cfg, Sources: make(map[string]ConfigSource)}
	for _, f := range fields {
		cws.Sources[f.key] = SourceDefault
	}

	if path := findUserConfigFile(); path != "" {
		if err := loadConfigFile(cws, path, SourceUserFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", path, err)
		}
	}
	if path := findProjectConfigFile(); path != "" {
		if err := loadConfigFile(cws, path, SourceProjFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", path, err)
		}
	}

	fromDotEnv, err := loadDotEnv(dotEnvFile)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", dotEnvFile, err)
	}
	if err := loadFromEnv(cws, fromDotEnv); err != nil {
		return nil, err
	}

	if err := parseFlags(cws, fs, args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	finalizeConfig(cfg)
	return cws, nil
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.DataDir = DefaultDataDir
	cfg.Backend = DefaultBackend
	cfg.Redis.Addr = DefaultRedisAddr
	cfg.Redis.Prefix = DefaultRedisPrefix
	cfg.AutosaveSeconds = DefaultAutosaveSeconds
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
}

// finalizeConfig computes derived values.
func finalizeConfig(cfg *Config) {
	cfg.DataDir = expandPath(cfg.DataDir)
	cfg.SQLitePath = expandPath(cfg.SQLitePath)
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))
}

var (
	logLevels  = []string{"debug", "info", "warn", "warning", "error", "fatal"}
	logFormats = []string{"text", "json", "logfmt"}
)

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if !slices.Contains(storage.Backends, c.Backend) {
		errs = append(errs, fmt.Errorf("backend %q: %w (want one of %s)", c.Backend, storage.ErrUnknownBackend, strings.Join(storage.Backends, ", ")))
	}
	if c.Backend == storage.BackendFile && c.DataDir == "" {
		errs = append(errs, errors.New("data_dir must be set for the file backend"))
	}
	if c.Backend == storage.BackendPostgres && c.Postgres.DSN == "" {
		errs = append(errs, errors.New("postgres.dsn must be set for the postgres backend"))
	}
	if c.Redis.DB < 0 {
		errs = append(errs, fmt.Errorf("redis.db must not be negative, got %d", c.Redis.DB))
	}
	if c.AutosaveSeconds < 0 {
		errs = append(errs, fmt.Errorf("autosave_seconds must not be negative, got %d", c.AutosaveSeconds))
	}
	if !slices.Contains(logLevels, c.LogLevel) {
		errs = append(errs, fmt.Errorf("log_level %q: want one of %s", c.LogLevel, strings.Join(logLevels, ", ")))
	}
	if !slices.Contains(logFormats, c.LogFormat) {
		errs = append(errs, fmt.Errorf("log_format %q: want one of %s", c.LogFormat, strings.Join(logFormats, ", ")))
	}
	return errors.Join(errs...)
}

// StorageOptions returns the options for storage.Open.
func (c *Config) StorageOptions() storage.Options {
	return storage.Options{
		Backend:       c.Backend,
		Dir:           c.DataDir,
		SQLitePath:    c.SQLitePath,
		RedisAddr:     c.Redis.Addr,
		RedisPassword: c.Redis.Password,
		RedisDB:       c.Redis.DB,
		RedisPrefix:   c.Redis.Prefix,
		PostgresDSN:   c.Postgres.DSN,
	}
}

// AutosaveInterval returns the autosave period, or 0 when disabled.
func (c *Config) AutosaveInterval() time.Duration {
	if c.AutosaveSeconds <= 0 {
		return 0
	}
	return time.Duration(c.AutosaveSeconds) * time.Second
}

// GetConfigFile returns the highest-priority config file that was read.
func (cws *ConfigWithSources) GetConfigFile() string {
	if len(cws.Files) == 0 {
		return ""
	}
	return cws.Files[len(cws.Files)-1]
}

// Setting is one configuration value with its origin, for display.
type Setting struct {
	Key    string
	Value  string
	Source ConfigSource
}

// Settings returns every setting in a stable order. Secrets are masked.
func (cws *ConfigWithSources) Settings() []Setting {
	out := make([]Setting, 0, len(fields))
	for _, f := range fields {
		value := f.get(cws.Config)
		if f.secret && value != "" {
			value = "********"
		}
		out = append(out, Setting{Key: f.key, Value: value, Source: cws.Sources[f.key]})
	}
	return out
}
