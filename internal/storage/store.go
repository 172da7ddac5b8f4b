// Package storage provides the key-value byte stores that board snapshots
// are written to.
//
// Every backend implements Store. Put replaces the value of a key
// atomically: a reader sees either the old bytes or the new bytes, never a
// mix. Get of a key that was never written returns an error matching
// ErrNotExist.
package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

var (
	// ErrNotExist means the key has never been written.
	ErrNotExist = errors.New("key does not exist")
	// ErrInvalidKey means a key contains characters outside [a-z0-9_-].
	ErrInvalidKey = errors.New("invalid storage key")
	// ErrUnknownBackend is returned by Open for an unrecognized backend name.
	ErrUnknownBackend = errors.New("unknown storage backend")
)

// Store is a durable key-value byte store.
type Store interface {
	// Get returns the bytes stored under key, or an error matching
	// ErrNotExist when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put atomically replaces the bytes stored under key.
	Put(ctx context.Context, key string, data []byte) error
	// Close releases the store's resources.
	Close() error
}

var keyPattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

// ValidateKey reports whether key is usable by every backend.
func ValidateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("%w %q", ErrInvalidKey, key)
	}
	return nil
}
