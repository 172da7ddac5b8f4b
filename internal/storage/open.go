package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/redis/go-redis/v9"
)

// Backend names accepted by Open.
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Backends lists every backend name in documentation order.
var Backends = []string{BackendFile, BackendSQLite, BackendRedis, BackendPostgres, BackendMemory}

// DefaultSQLiteFile is the database file name used when Options.SQLitePath
// is empty.
const DefaultSQLiteFile = "board.db"

// Options selects and configures a backend.
type Options struct {
	Backend string

	// Dir holds the snapshot files of the file backend and the default
	// SQLite database.
	Dir string

	SQLitePath string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	PostgresDSN string
}

// Open returns the Store named by opts.Backend. An empty name selects the
// file backend.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "", BackendFile:
		if opts.Dir == "" {
			return nil, errors.New("file backend: data directory is empty")
		}
		return NewFileStore(opts.Dir), nil
	case BackendSQLite:
		path := opts.SQLitePath
		if path == "" {
			if opts.Dir == "" {
				return nil, errors.New("sqlite backend: neither sqlite path nor data directory is set")
			}
			path = filepath.Join(opts.Dir, DefaultSQLiteFile)
		}
		s, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendRedis:
		s, err := OpenRedis(ctx, &redis.Options{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
		}, opts.RedisPrefix)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendPostgres:
		if opts.PostgresDSN == "" {
			return nil, errors.New("postgres backend: dsn is empty")
		}
		s, err := OpenPostgres(ctx, opts.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w %q (want one of %v)", ErrUnknownBackend, opts.Backend, Backends)
	}
}

// Describe returns a short human-readable location for opts, for doctor
// output and log lines.
func Describe(opts Options) string {
	switch opts.Backend {
	case "", BackendFile:
		return "file " + opts.Dir
	case BackendSQLite:
		if opts.SQLitePath != "" {
			return "sqlite " + opts.SQLitePath
		}
		return "sqlite " + filepath.Join(opts.Dir, DefaultSQLiteFile)
	case BackendRedis:
		return fmt.Sprintf("redis %s/%d prefix %q", opts.RedisAddr, opts.RedisDB, opts.RedisPrefix)
	case BackendPostgres:
		return "postgres"
	case BackendMemory:
		return "memory (not persisted)"
	default:
		return opts.Backend
	}
}
