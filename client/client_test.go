package client

import (
	"context"
	"errors"
	"testing"

	"github.com/adeilh/go-stash/api"
	"github.com/adeilh/go-stash/cache"
	"github.com/adeilh/go-stash/cache/memory"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	server := api.NewServer(memory.NewStore(memory.Options{}))
	ts := api.NewTestServer(server.Handler())
	t.Cleanup(ts.Close)
	return New(WithBaseURL(ts.BaseURL()))
}

func TestClientRoundTrip(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	if err := c.Save(ctx, "a", []byte("hello")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	payload, err := c.Fetch(ctx, "a")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if string(payload) != "hello" {
		t.Fatalf("Fetch() = %q, want %q", payload, "hello")
	}

	keys, count, err := c.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}
	if count != 1 || len(keys) != 1 || keys[0] != "a" {
		t.Fatalf("Keys() = %v (count %d), want [a] (count 1)", keys, count)
	}

	if err := c.Clear(ctx, "a"); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, err := c.Fetch(ctx, "a"); !errors.Is(err, cache.ErrNotFound) {
		t.Fatalf("Fetch() after clear error = %v, want ErrNotFound", err)
	}
}

func TestClientFetchJSONPayloadVerbatim(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	stored := `{"answer":42}`
	if err := c.Save(ctx, "doc", []byte(stored)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	payload, err := c.Fetch(ctx, "doc")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if string(payload) != stored {
		t.Fatalf("Fetch() = %q, want stored bytes %q", payload, stored)
	}
}

func TestClientNotFound(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	if _, err := c.Fetch(ctx, "ghost"); !errors.Is(err, cache.ErrNotFound) {
		t.Fatalf("Fetch() error = %v, want ErrNotFound", err)
	}
	if err := c.Clear(ctx, "ghost"); !errors.Is(err, cache.ErrNotFound) {
		t.Fatalf("Clear() error = %v, want ErrNotFound", err)
	}
}

func TestClientClearAll(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	for _, key := range []string{"x", "y", "z"} {
		if err := c.Save(ctx, key, []byte(key)); err != nil {
			t.Fatalf("Save(%q) error = %v", key, err)
		}
	}

	if err := c.ClearAll(ctx); err != nil {
		t.Fatalf("ClearAll() error = %v", err)
	}

	keys, count, err := c.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}
	if count != 0 || len(keys) != 0 {
		t.Fatalf("Keys() after ClearAll = %v (count %d), want empty", keys, count)
	}
}

func TestClientSaveValidationErrors(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	if err := c.Save(ctx, "", []byte("v")); err == nil {
		t.Fatalf("Save() with empty key succeeded, want http 400")
	}
	if err := c.Save(ctx, "k", nil); err == nil {
		t.Fatalf("Save() with empty payload succeeded, want http 400")
	}
}
