package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/metafates/gache"
	"github.com/tunedeck/tunedeck/constant"
	"github.com/tunedeck/tunedeck/filesystem"
	"github.com/tunedeck/tunedeck/log"
	"github.com/tunedeck/tunedeck/network"
	"github.com/tunedeck/tunedeck/where"
)

// Client is a media library server client.
type Client struct {
	base   *url.URL
	http   *http.Client
	dialer *websocket.Dialer
	cache  bool

	mu     sync.Mutex
	caches map[string]*gache.Cache[[]Track]
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces network.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.http = c
	}
}

// WithTimeout bounds every HTTP request and the websocket handshake.
func WithTimeout(d time.Duration) Option {
	return func(client *Client) {
		if d <= 0 {
			return
		}
		c := *client.http
		c.Timeout = d
		client.http = &c

		dialer := *client.dialer
		dialer.HandshakeTimeout = d
		client.dialer = &dialer
	}
}

// WithCache toggles the offline copy of listings.
func WithCache(enabled bool) Option {
	return func(client *Client) {
		client.cache = enabled
	}
}

// New returns a client for the server at base, e.g. http://127.0.0.1:8000.
func New(base string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(base), "/"))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server url must be http or https, got %q", base)
	}

	dialer := *websocket.DefaultDialer
	c := &Client{
		base:   u,
		http:   network.Client,
		dialer: &dialer,
		cache:  true,
		caches: make(map[string]*gache.Cache[[]Track]),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Base returns the server URL.
func (c *Client) Base() string {
	return c.base.String()
}

// ListTracks fetches the playlist of kind and refreshes the offline copy.
func (c *Client) ListTracks(ctx context.Context, kind string) ([]Track, error) {
	if !ValidKind(kind) {
		return nil, fmt.Errorf("unknown library kind %q", kind)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/api/"+kind+"/playlist"), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", constant.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("list %s: %s %s", kind, resp.Status, strings.TrimSpace(string(body)))
	}

	var tracks []Track
	if err := json.NewDecoder(resp.Body).Decode(&tracks); err != nil {
		return nil, fmt.Errorf("decode %s playlist: %w", kind, err)
	}

	if tracks == nil {
		tracks = []Track{}
	}

	if c.cache {
		if err := c.cacheFor(kind).Set(tracks); err != nil {
			log.Warnf("catalog: cache %s: %v", kind, err)
		}
	}

	return tracks, nil
}

// Cached returns the last listing of kind saved on disk.
func (c *Client) Cached(kind string) ([]Track, bool) {
	if !c.cache || !ValidKind(kind) {
		return nil, false
	}

	tracks, _, err := c.cacheFor(kind).Get()
	if err != nil || tracks == nil {
		return nil, false
	}
	return tracks, true
}

// StreamURL resolves a track's stream path against the server.
func (c *Client) StreamURL(t Track) string {
	path := t.StreamPath()
	if path == "" {
		return ""
	}

	ref, err := url.Parse(path)
	if err != nil {
		return path
	}
	return c.base.ResolveReference(ref).String()
}

func (c *Client) endpoint(path string) string {
	return c.base.JoinPath(path).String()
}

func (c *Client) cacheFor(kind string) *gache.Cache[[]Track] {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cache, ok := c.caches[kind]; ok {
		return cache
	}

	cache := gache.New[[]Track](&gache.Options{
		Path:       where.Catalog(kind),
		FileSystem: &filesystem.GacheFs{},
	})
	c.caches[kind] = cache
	return cache
}
