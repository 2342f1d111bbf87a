// Package blob provides the object-store binding: flat key/value blob
// storage with filesystem and Redis backends.
package blob

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no object exists under the requested key.
var ErrNotFound = errors.New("blob: object not found")

// Store is a flat keyspace of binary objects. Keys use "/" as a path
// separator by convention; implementations treat them as opaque beyond
// prefix matching.
type Store interface {
	// Put stores data under key, replacing any existing object.
	Put(ctx context.Context, key string, data []byte) error

	// Get returns the object stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes the object under key. Deleting a missing key is
	// not an error.
	Delete(ctx context.Context, key string) error

	// List returns the keys beginning with prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
}
