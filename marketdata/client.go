// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/btcsuite/go-socks/socks"
	"github.com/decred/dcrd/lru"
)

const (
	// DefaultAPIURL is the base URL of the public mempool.space API.
	DefaultAPIURL = "https://mempool.space/api/v1"

	// DefaultTimeout is the default timeout of a single request.
	DefaultTimeout = 10 * time.Second

	// DefaultUserAgent is sent with every request unless overridden.
	DefaultUserAgent = "blockspacesim"

	projectedBlocksPath = "/fees/mempool-blocks"
	recommendedFeesPath = "/fees/recommended"

	// maxResponseSize limits how much of a response body is read.
	maxResponseSize = 4 << 20

	// maxErrorBodySize limits how much of an error body is kept.
	maxErrorBodySize = 256

	// penaltyCacheSize is the number of failing servers remembered.
	penaltyCacheSize = 32
)

// ProxyConfig describes an optional SOCKS5 proxy.
type ProxyConfig struct {
	// Addr is the host:port of the proxy.  No proxy is used when empty.
	Addr string

	// Username and Password authenticate with the proxy.
	Username string
	Password string

	// TorIsolation randomizes the credentials for every connection so Tor
	// uses a new circuit for each of them.
	TorIsolation bool
}

// dialer returns the dial function for the proxy, or nil when no proxy is
// configured.
func (p *ProxyConfig) dialer() func(ctx context.Context, network, addr string) (net.Conn, error) {
	if p == nil || p.Addr == "" {
		return nil
	}
	proxy := &socks.Proxy{
		Addr:         p.Addr,
		Username:     p.Username,
		Password:     p.Password,
		TorIsolation: p.TorIsolation,
	}
	return func(_ context.Context, network, addr string) (net.Conn, error) {
		return proxy.Dial(network, addr)
	}
}

// ClientConfig houses the configuration of a REST client.
type ClientConfig struct {
	// APIURLs are the base URLs of the API servers to query.  The first
	// server is preferred; the others are tried when it fails.
	// DefaultAPIURL is used when empty.
	APIURLs []string

	// Timeout bounds each request.  DefaultTimeout is used when zero.
	Timeout time.Duration

	// Proxy routes all connections through a SOCKS5 proxy.
	Proxy *ProxyConfig

	// UserAgent overrides DefaultUserAgent.
	UserAgent string
}

// Client queries the REST API of a mempool.space compatible server.  Servers
// that fail with a network error or a temporary HTTP status are penalized and
// tried last until they succeed again.
//
// Client is safe for concurrent access.
type Client struct {
	urls       []string
	userAgent  string
	httpClient *http.Client

	mtx       sync.Mutex
	penalized lru.Cache
}

// Ensure Client implements the Source interface.
var _ Source = (*Client)(nil)

// NewClient returns a client for the passed configuration.  A nil
// configuration selects the defaults.
func NewClient(cfg *ClientConfig) (*Client, error) {
	if cfg == nil {
		cfg = &ClientConfig{}
	}

	urls := cfg.APIURLs
	if len(urls) == 0 {
		urls = []string{DefaultAPIURL}
	}
	normalized := make([]string, 0, len(urls))
	for _, u := range urls {
		parsed, err := url.Parse(u)
		if err != nil {
			return nil, fmt.Errorf("invalid API URL %q: %w", u, err)
		}
		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			return nil, fmt.Errorf("invalid API URL %q: scheme must be "+
				"http or https", u)
		}
		normalized = append(normalized, strings.TrimRight(u, "/"))
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if dial := cfg.Proxy.dialer(); dial != nil {
		transport.Proxy = nil
		transport.DialContext = dial
	}

	return &Client{
		urls:      normalized,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		penalized: lru.NewCache(penaltyCacheSize),
	}, nil
}

// FetchProjectedBlocks returns the projected mempool blocks.
func (c *Client) FetchProjectedBlocks(ctx context.Context) ([]ProjectedBlock, error) {
	var blocks []ProjectedBlock
	if err := c.get(ctx, projectedBlocksPath, &blocks); err != nil {
		return nil, err
	}
	log.Debugf("Fetched %d projected mempool blocks", len(blocks))
	return blocks, nil
}

// FetchRecommendedFees returns the recommended fee rates.
func (c *Client) FetchRecommendedFees(ctx context.Context) (*RecommendedFees, error) {
	var fees RecommendedFees
	if err := c.get(ctx, recommendedFeesPath, &fees); err != nil {
		return nil, err
	}
	log.Debugf("Fetched recommended fees: %+v", fees)
	return &fees, nil
}

// candidates returns the servers in the order they should be tried.
// Penalized servers are moved to the end but never skipped so a request is
// still attempted when every server failed recently.
func (c *Client) candidates() []string {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	res := make([]string, 0, len(c.urls))
	var penalized []string
	for _, u := range c.urls {
		if c.penalized.Contains(u) {
			penalized = append(penalized, u)
			continue
		}
		res = append(res, u)
	}
	return append(res, penalized...)
}

func (c *Client) penalize(base string) {
	c.mtx.Lock()
	c.penalized.Add(base)
	c.mtx.Unlock()
}

func (c *Client) forgive(base string) {
	c.mtx.Lock()
	c.penalized.Delete(base)
	c.mtx.Unlock()
}

// get requests path from each candidate server in turn until one succeeds
// and decodes the JSON response into v.
func (c *Client) get(ctx context.Context, path string, v interface{}) error {
	var lastErr error
	for _, base := range c.candidates() {
		err := c.getFrom(ctx, base, path, v)
		if err == nil {
			c.forgive(base)
			return nil
		}
		lastErr = err

		// Stop when the caller gave up or the server rejected the
		// request outright.
		if ctx.Err() != nil {
			return ctx.Err()
		}
		var apiErr *APIError
		if errors.As(err, &apiErr) && !apiErr.Temporary() {
			return err
		}

		log.Warnf("Request to %s failed: %v", base, err)
		c.penalize(base)
	}
	return lastErr
}

func (c *Client) getFrom(ctx context.Context, base, path string, v interface{}) error {
	endpoint := base + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body := io.LimitReader(resp.Body, maxResponseSize)
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(body, maxErrorBodySize))
		return &APIError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(msg)),
		}
	}

	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}
	log.Tracef("GET %s took %v", endpoint, time.Since(start))
	return nil
}
