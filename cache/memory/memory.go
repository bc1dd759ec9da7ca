// Package memory implements cache.Store as a single-process in-memory map.
//
// One mutex guards the map and the expiration metadata together, so an entry
// and its deadline are never observable out of sync. Expiry is enforced
// lazily on every access; the background sweep only reclaims memory for
// entries nobody reads again.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/adeilh/go-stash/cache"
)

// Store implements cache.Store backed by a mutex-guarded map.
type Store struct {
	opts Options

	mu      sync.Mutex
	entries map[string]entry

	sweepOnce sync.Once
}

type entry struct {
	payload   []byte
	expiresAt time.Time
}

// NewStore builds an empty store. The zero Options value yields the
// production defaults (15m TTL, 15m sweep interval).
func NewStore(opts Options) *Store {
	return &Store{
		opts:    opts.withDefaults(),
		entries: make(map[string]entry),
	}
}

var _ cache.Store = (*Store)(nil)

func (s *Store) Put(ctx context.Context, key string, payload []byte) (bool, error) {
	if err := ctxErr(ctx); err != nil {
		return false, err
	}
	if key == "" {
		return false, cache.ErrEmptyKey
	}
	if len(payload) == 0 {
		return false, cache.ErrEmptyPayload
	}

	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	old, existed := s.entries[key]
	created := !existed || !old.expiresAt.After(now)
	s.entries[key] = entry{
		payload:   cloneBytes(payload),
		expiresAt: now.Add(s.opts.TTL),
	}
	return created, nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	if key == "" {
		return nil, cache.ErrEmptyKey
	}

	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, cache.ErrNotFound
	}
	if !e.expiresAt.After(now) {
		// Lazy eviction: expired entries are gone as far as callers can
		// tell, regardless of sweep timing.
		delete(s.entries, key)
		return nil, cache.ErrNotFound
	}
	return cloneBytes(e.payload), nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	if key == "" {
		return cache.ErrEmptyKey
	}

	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return cache.ErrNotFound
	}
	delete(s.entries, key)
	if !e.expiresAt.After(now) {
		// Already dead; the caller deleted nothing observable.
		return cache.ErrNotFound
	}
	return nil
}

func (s *Store) ClearAll(ctx context.Context) (int, error) {
	if err := ctxErr(ctx); err != nil {
		return 0, err
	}

	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for _, e := range s.entries {
		if e.expiresAt.After(now) {
			removed++
		}
	}
	s.entries = make(map[string]entry)
	return removed, nil
}

func (s *Store) Keys(ctx context.Context) ([]string, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}

	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.entries))
	for key, e := range s.entries {
		if !e.expiresAt.After(now) {
			delete(s.entries, key)
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// len reports the raw map size, expired stragglers included.
func (s *Store) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

func ctxErr(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
