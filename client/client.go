// Package client performs conditional GET requests backed by a cache.Backend.
//
// A cached ETag is sent as If-None-Match and a 304 reply is served from the
// cache. Cache failures are logged and never fail a request: the client falls
// back to an unconditional fetch instead.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/briangreenhill/apicache/cache"
)

// DefaultMaxPages bounds how many continuation links Each follows.
const DefaultMaxPages = 100

// ErrPageLimit is returned by Each when a collection has more pages than
// the client's page limit.
var ErrPageLimit = errors.New("page limit reached")

// Response is the payload of a successful GET, from the network or the cache.
type Response struct {
	Body      []byte
	ETag      string
	NextLink  string
	FromCache bool
}

// StatusError is returned for non-2xx, non-304 replies.
type StatusError struct {
	URI    string
	Code   int
	Status string
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %s: %s", e.URI, e.Status, e.Body)
}

type Client struct {
	http     *http.Client
	cache    cache.Backend
	log      zerolog.Logger
	header   http.Header
	maxPages int
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithCache sets the backend; a nil backend disables caching.
func WithCache(b cache.Backend) Option {
	return func(c *Client) {
		if b == nil {
			b = cache.NewNoop()
		}
		c.cache = b
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithHeader adds a header sent on every request.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.header.Add(key, value) }
}

// WithMaxPages bounds how many pages Each visits. n <= 0 selects
// DefaultMaxPages.
func WithMaxPages(n int) Option {
	return func(c *Client) {
		if n <= 0 {
			n = DefaultMaxPages
		}
		c.maxPages = n
	}
}

func New(opts ...Option) *Client {
	c := &Client{
		http:     http.DefaultClient,
		cache:    cache.NewNoop(),
		log:      zerolog.Nop(),
		header:   make(http.Header),
		maxPages: DefaultMaxPages,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Cache returns the backend the client reads and writes.
func (c *Client) Cache() cache.Backend { return c.cache }

// Get fetches uri, revalidating any cached copy.
//
// A 200 without a Link header replaces the cached body and ETag but keeps
// the previously cached continuation link, so a later 304 for the same uri
// reports that stale NextLink.
func (c *Client) Get(ctx context.Context, uri string) (*Response, error) {
	etag, err := c.cache.ETag(uri)
	if err != nil {
		c.cacheError(err, uri, "lookup etag")
		etag = ""
	}

	resp, err := c.fetch(ctx, uri, etag)
	if err != nil {
		return nil, err
	}
	if resp != nil {
		return resp, nil
	}

	// 304 but the cached copy is gone or unreadable
	c.log.Warn().Str("uri", uri).Msg("not modified but no cached body, refetching")
	resp, err = c.fetch(ctx, uri, "")
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, fmt.Errorf("GET %s: unexpected 304 for unconditional request", uri)
	}
	return resp, nil
}

// GetJSON fetches uri and decodes the body into out. It returns the
// continuation link of the page, if any.
func (c *Client) GetJSON(ctx context.Context, uri string, out any) (string, error) {
	resp, err := c.Get(ctx, uri)
	if err != nil {
		return "", err
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return "", fmt.Errorf("decode %s: %w", uri, err)
	}
	return resp.NextLink, nil
}

// Each calls fn for uri and for every page reachable through continuation
// links. Pages revalidated with a 304 continue through the cached link, which
// may be stale if the collection shrank (see Get). Walking stops with
// ErrPageLimit after the configured number of pages.
func (c *Client) Each(ctx context.Context, uri string, fn func(*Response) error) error {
	for page := 0; uri != ""; page++ {
		if page >= c.maxPages {
			return fmt.Errorf("%w: %d pages from %s", ErrPageLimit, c.maxPages, uri)
		}
		resp, err := c.Get(ctx, uri)
		if err != nil {
			return err
		}
		if err := fn(resp); err != nil {
			return err
		}
		uri = resp.NextLink
	}
	return nil
}

// fetch issues one GET. A nil response with a nil error means the server
// answered 304 and the cached body could not be used.
func (c *Client) fetch(ctx context.Context, uri, etag string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, err
	}
	for k, vs := range c.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotModified:
		_, _ = io.Copy(io.Discard, resp.Body)
		return c.fromCache(uri, etag), nil
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		r := &Response{
			Body:     body,
			ETag:     resp.Header.Get("ETag"),
			NextLink: ParseNextLink(resp.Header.Get("Link")),
		}
		if r.ETag != "" {
			if err := c.cache.Store(uri, r.Body, r.ETag, r.NextLink); err != nil {
				c.cacheError(err, uri, "store")
			}
		}
		c.log.Debug().Str("uri", uri).Int("status", resp.StatusCode).Bool("from_cache", false).Msg("fetched")
		return r, nil
	default:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{URI: uri, Code: resp.StatusCode, Status: resp.Status, Body: string(b)}
	}
}

func (c *Client) fromCache(uri, etag string) *Response {
	body, err := c.cache.Body(uri)
	if err != nil {
		c.cacheError(err, uri, "lookup body")
		return nil
	}
	link, _, err := c.cache.NextLink(uri)
	if err != nil {
		c.cacheError(err, uri, "lookup next link")
		link = ""
	}
	c.log.Debug().Str("uri", uri).Int("status", http.StatusNotModified).Bool("from_cache", true).Msg("fetched")
	return &Response{Body: body, ETag: etag, NextLink: link, FromCache: true}
}

// cacheError logs a cache failure. Misses are expected and logged quietly.
func (c *Client) cacheError(err error, uri, op string) {
	if errors.Is(err, cache.ErrNotFound) {
		c.log.Trace().Str("uri", uri).Str("op", op).Msg("cache miss")
		return
	}
	c.log.Warn().Err(err).Str("uri", uri).Str("op", op).Msg("cache unavailable")
}
