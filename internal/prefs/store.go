// Package prefs persists the user-controlled state that outlives a comparison:
// the ignored language columns and the two acknowledgement lists.
//
// Storage is pluggable through [Store]. Reads never fail from the caller's
// point of view: a missing, unreadable or corrupt value is replaced by an
// empty default and logged.
package prefs

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Store is a namespaced key-value string store that survives restarts.
type Store interface {
	// Get returns the value under key and whether it exists.
	Get(ctx context.Context, namespace, key string) (string, bool, error)
	// Set creates or replaces the value under key.
	Set(ctx context.Context, namespace, key, value string) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, namespace, key string) error
	// Close releases the backend's resources.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
)

// ErrUnknownBackend is returned by Open for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown preference backend")

// Options selects and configures a backend.
type Options struct {
	Backend     string
	PostgresURL string
	SQLitePath  string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	KeyPrefix   string
}

// Open builds the Store named by opts.Backend.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch strings.ToLower(opts.Backend) {
	case "", BackendMemory:
		return NewMemoryStore(), nil
	case BackendPostgres:
		s, err := NewPostgresStore(ctx, opts.PostgresURL)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendSQLite:
		s, err := NewSQLiteStore(opts.SQLitePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendRedis:
		s, err := NewRedisStore(ctx, RedisOptions{
			Addr:      opts.RedisAddr,
			Password:  opts.RedisPass,
			DB:        opts.RedisDB,
			KeyPrefix: opts.KeyPrefix,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}
