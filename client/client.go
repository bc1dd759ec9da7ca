// Package client is a Go client for the go-stash HTTP API.
package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/adeilh/go-stash/cache"
)

type Options struct {
	BaseURL string
	Timeout time.Duration
	Headers map[string]string
}

type Option func(*Options)

func defaultOptions() Options {
	return Options{Timeout: 10 * time.Second}
}

func WithBaseURL(url string) Option {
	return func(o *Options) {
		if url != "" {
			o.BaseURL = url
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		if d > 0 {
			o.Timeout = d
		}
	}
}

func WithHeaders(headers map[string]string) Option {
	return func(o *Options) {
		if len(headers) == 0 {
			return
		}
		o.Headers = make(map[string]string, len(headers))
		for k, v := range headers {
			o.Headers[k] = v
		}
	}
}

// Client talks to a go-stash server.
type Client struct {
	resty *resty.Client
}

func New(opts ...Option) *Client {
	cfg := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	rc := resty.New()
	if cfg.BaseURL != "" {
		rc.SetBaseURL(cfg.BaseURL)
	}
	if cfg.Timeout > 0 {
		rc.SetTimeout(cfg.Timeout)
	}
	if len(cfg.Headers) > 0 {
		rc.SetHeaders(cfg.Headers)
	}

	return &Client{resty: rc}
}

// Save stores payload under key. The payload travels as the raw request
// body, exactly as the server stores it.
func (c *Client) Save(ctx context.Context, key string, payload []byte) error {
	resp, err := c.resty.R().
		SetContext(ctx).
		SetQueryParam("cacheKey", key).
		SetBody(payload).
		Post("/save")
	if err != nil {
		return err
	}
	return responseError(resp)
}

// Fetch returns the raw stored bytes for key. A 404 maps to
// cache.ErrNotFound so callers can errors.Is on it.
func (c *Client) Fetch(ctx context.Context, key string) ([]byte, error) {
	resp, err := c.resty.R().
		SetContext(ctx).
		SetBody(map[string]string{"cacheKey": key}).
		Post("/get")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, cache.ErrNotFound
	}
	if err := responseError(resp); err != nil {
		return nil, err
	}
	return resp.Body(), nil
}

// Clear removes one entry; cache.ErrNotFound if the server had no live
// entry for key.
func (c *Client) Clear(ctx context.Context, key string) error {
	resp, err := c.resty.R().
		SetContext(ctx).
		SetBody(map[string]string{"cacheKey": key}).
		Post("/clear")
	if err != nil {
		return err
	}
	if resp.StatusCode() == http.StatusNotFound {
		return cache.ErrNotFound
	}
	return responseError(resp)
}

// ClearAll empties the whole store.
func (c *Client) ClearAll(ctx context.Context) error {
	resp, err := c.resty.R().
		SetContext(ctx).
		Post("/clear")
	if err != nil {
		return err
	}
	return responseError(resp)
}

// Keys lists the live keys and their count.
func (c *Client) Keys(ctx context.Context) ([]string, int, error) {
	var out struct {
		Keys  []string `json:"keys"`
		Count int      `json:"count"`
	}
	resp, err := c.resty.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/keys")
	if err != nil {
		return nil, 0, err
	}
	if err := responseError(resp); err != nil {
		return nil, 0, err
	}
	return out.Keys, out.Count, nil
}

func responseError(resp *resty.Response) error {
	if !resp.IsError() {
		return nil
	}
	return fmt.Errorf("http %d: %s", resp.StatusCode(), strings.TrimSpace(resp.String()))
}
