// Package backend selects and constructs the key-value persistence backend
// from configuration.
package backend

import (
	"context"

	"fintrack/internal/kv"
)

// Type identifies a persistence backend.
type Type string

const (
	SQLiteBackend Type = "sqlite"
	RedisBackend  Type = "redis"
	MemoryBackend Type = "memory"
)

// String implements fmt.Stringer.
func (t Type) String() string {
	return string(t)
}

// IsValid reports whether the backend type is known.
func (t Type) IsValid() bool {
	switch t {
	case SQLiteBackend, RedisBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// Config holds backend construction settings.
type Config struct {
	Type Type

	// SQLite specific
	SQLiteDBPath string

	// Redis specific
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// CleanupFunc releases backend resources.
type CleanupFunc func() error

// Result carries the constructed store and its optional cleanup.
type Result struct {
	KV      kv.Store
	Cleanup CleanupFunc
}

// Factory creates key-value backends from configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}
