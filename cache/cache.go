package cache

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a key is absent or its TTL has elapsed.
	ErrNotFound = errors.New("cache: key not found")

	// ErrEmptyKey is returned when the caller supplied no key.
	ErrEmptyKey = errors.New("cache: key must not be empty")

	// ErrEmptyPayload is returned when the caller supplied an empty payload.
	ErrEmptyPayload = errors.New("cache: payload must not be empty")
)

// Store is the contract the HTTP boundary consumes. Entries carry a fixed
// store-wide TTL set at construction; an expired entry is invisible to Get,
// Delete, and Keys whether or not the sweeper has physically removed it yet.
type Store interface {
	// Put inserts or replaces the entry for key and resets its expiration.
	// The returned flag reports whether a new entry was created rather than
	// an existing one replaced; it is advisory, for logging.
	Put(ctx context.Context, key string, payload []byte) (created bool, err error)

	// Get returns the stored payload, or ErrNotFound if the key was never
	// set, was deleted, or has expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes the entry for key; ErrNotFound if nothing live existed.
	Delete(ctx context.Context, key string) error

	// ClearAll atomically removes every entry and reports how many live
	// entries were removed.
	ClearAll(ctx context.Context) (removed int, err error)

	// Keys lists the currently live keys in sorted order.
	Keys(ctx context.Context) ([]string, error)

	// StartSweeper launches the background expiration sweep. It is
	// idempotent: only the first call starts the task.
	StartSweeper()
}
