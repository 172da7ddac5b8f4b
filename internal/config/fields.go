package config

import (
	"fmt"
	"strconv"
	"strings"
)

// field ties one setting to its TOML key, environment variable and flag.
// key doubles as the name used in ConfigWithSources.Sources.
type field struct {
	key    string
	env    string
	flag   string // empty: not settable from the command line
	usage  string
	secret bool
	isBool bool

	get  func(*Config) string
	set  func(*Config, string) error
	copy func(dst, src *Config)
}

func stringField(key, env, flagName, usage string, ptr func(*Config) *string) field {
	return field{
		key: key, env: env, flag: flagName, usage: usage,
		get:  func(c *Config) string { return *ptr(c) },
		set:  func(c *Config, v string) error { *ptr(c) = v; return nil },
		copy: func(dst, src *Config) { *ptr(dst) = *ptr(src) },
	}
}

func intField(key, env, flagName, usage string, ptr func(*Config) *int) field {
	return field{
		key: key, env: env, flag: flagName, usage: usage,
		get: func(c *Config) string { return strconv.Itoa(*ptr(c)) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("invalid integer %q", v)
			}
			*ptr(c) = n
			return nil
		},
		copy: func(dst, src *Config) { *ptr(dst) = *ptr(src) },
	}
}

func boolField(key, env, flagName, usage string, ptr func(*Config) *bool) field {
	return field{
		key: key, env: env, flag: flagName, usage: usage, isBool: true,
		get:  func(c *Config) string { return strconv.FormatBool(*ptr(c)) },
		set:  func(c *Config, v string) error { *ptr(c) = boolFromString(v); return nil },
		copy: func(dst, src *Config) { *ptr(dst) = *ptr(src) },
	}
}

func secret(f field) field {
	f.secret = true
	return f
}

// fields lists every setting in display order.
var fields = []field{
	stringField("data_dir", "KANBAN_DATA_DIR", "data-dir",
		"Data directory for snapshots and logs",
		func(c *Config) *string { return &c.DataDir }),
	stringField("backend", "KANBAN_BACKEND", "backend",
		"Storage backend (file|sqlite|redis|postgres|memory)",
		func(c *Config) *string { return &c.Backend }),
	stringField("sqlite_path", "KANBAN_SQLITE_PATH", "sqlite-path",
		"SQLite database path (default <data-dir>/board.db)",
		func(c *Config) *string { return &c.SQLitePath }),
	stringField("redis.addr", "KANBAN_REDIS_ADDR", "redis-addr",
		"Redis address",
		func(c *Config) *string { return &c.Redis.Addr }),
	secret(stringField("redis.password", "KANBAN_REDIS_PASSWORD", "",
		"Redis password",
		func(c *Config) *string { return &c.Redis.Password })),
	intField("redis.db", "KANBAN_REDIS_DB", "redis-db",
		"Redis database number",
		func(c *Config) *int { return &c.Redis.DB }),
	stringField("redis.prefix", "KANBAN_REDIS_PREFIX", "redis-prefix",
		"Prefix for Redis keys",
		func(c *Config) *string { return &c.Redis.Prefix }),
	secret(stringField("postgres.dsn", "KANBAN_POSTGRES_DSN", "postgres-dsn",
		"PostgreSQL connection string",
		func(c *Config) *string { return &c.Postgres.DSN })),
	intField("autosave_seconds", "KANBAN_AUTOSAVE", "autosave",
		"TUI autosave interval in seconds (0 disables)",
		func(c *Config) *int { return &c.AutosaveSeconds }),
	stringField("log_level", "KANBAN_LOG_LEVEL", "log-level",
		"Log level (debug|info|warn|error|fatal)",
		func(c *Config) *string { return &c.LogLevel }),
	stringField("log_format", "KANBAN_LOG_FORMAT", "log-format",
		"Log format (text|json|logfmt)",
		func(c *Config) *string { return &c.LogFormat }),
	boolField("log_timestamps", "KANBAN_LOG_TIMESTAMPS", "log-timestamps",
		"Include timestamps in log output",
		func(c *Config) *bool { return &c.LogTimestamps }),
	boolField("log_caller", "KANBAN_LOG_CALLER", "log-caller",
		"Include caller location in log output",
		func(c *Config) *bool { return &c.LogCaller }),
}

func boolFromString(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
