// Package docstore provides a hierarchical JSON document store addressed by
// slash-separated paths, with whole-value change subscriptions and atomic
// multi-path updates. The first path segment names a collection.
package docstore

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Value is a JSON-shaped tree: map[string]interface{}, []interface{},
// string, float64, bool or nil.
type Value = interface{}

// Listener receives the full value at a subscribed path. exists is false when
// nothing is stored there.
type Listener func(value Value, exists bool)

// Unsubscribe detaches a listener. Calling it more than once is a no-op.
type Unsubscribe func()

var (
	ErrInvalidPath        = errors.New("docstore: invalid path")
	ErrOverlappingPaths   = errors.New("docstore: update paths overlap")
	ErrUnsupportedValue   = errors.New("docstore: unsupported value")
	ErrCollectionNotAnObj = errors.New("docstore: collection value must be an object")
)

// Store is the contract shared by every backing engine.
type Store interface {
	// Get reads the value at path once.
	Get(ctx context.Context, path string) (Value, bool, error)
	// Subscribe invokes fn immediately with the current value at path and
	// again after every committed write to the path's collection.
	Subscribe(ctx context.Context, path string, fn Listener) (Unsubscribe, error)
	// Set replaces the value at path. A nil value deletes it.
	Set(ctx context.Context, path string, value interface{}) error
	// Push stores value under a freshly generated child key of path.
	Push(ctx context.Context, path string, value interface{}) (string, error)
	// Update applies every path/value pair atomically. Nil values delete.
	Update(ctx context.Context, updates map[string]interface{}) error
	// Remove deletes the value at path.
	Remove(ctx context.Context, path string) error
	// NewKey reserves a unique child key without writing anything.
	NewKey() string
	Close() error
}

// NewKey generates a child key suitable for Push.
func NewKey() string {
	return uuid.NewString()
}
