// Package kv provides the byte-keyed, byte-valued store the vault is built
// on. Backends only guarantee single-key atomicity; anything that has to
// update more than one key consistently is the caller's problem.
package kv

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("key not found")

// Store is an opaque key-value byte store.
type Store interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set writes the value for key, creating or overwriting it.
	Set(ctx context.Context, key string, value []byte) error

	// Has reports whether key has a stored value.
	Has(ctx context.Context, key string) (bool, error)

	Close() error
}

// Open opens a store using the given driver ("bolt" or "sqlite").
func Open(ctx context.Context, driver, path string) (Store, error) {
	switch driver {
	case "bolt":
		return OpenBolt(path)
	case "sqlite":
		return OpenSQLite(ctx, path)
	default:
		return nil, fmt.Errorf("unknown kv driver %q", driver)
	}
}
