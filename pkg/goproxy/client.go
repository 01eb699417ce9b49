package goproxy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/mod/module"
)

const (
	defaultProxy      = "https://proxy.golang.org,direct"
	httpClientTimeout = 30 * time.Second
	defaultUserAgent  = "surfacediff/0.1.0"
)

// ErrNotFound is returned when no proxy in the chain has the module version.
var ErrNotFound = errors.New("module version not found on any proxy")

// Client downloads module zip files from the Go module proxy.
type Client struct {
	httpClient *http.Client
	userAgent  string
	proxies    []string
	log        *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithProxy overrides the GOPROXY-style proxy list.
func WithProxy(goproxy string) Option {
	return func(c *Client) {
		c.proxies = parseProxyList(goproxy)
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger used for proxy chain diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// NewClient creates a Client that reads the GOPROXY environment variable to
// determine the proxy chain. If GOPROXY is unset, it defaults to
// "https://proxy.golang.org,direct".
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: httpClientTimeout},
		userAgent:  defaultUserAgent,
		proxies:    parseProxyList(os.Getenv("GOPROXY")),
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// parseProxyList splits a comma- or pipe-separated GOPROXY value.
func parseProxyList(goproxy string) []string {
	if strings.TrimSpace(goproxy) == "" {
		goproxy = defaultProxy
	}
	parts := strings.Split(strings.ReplaceAll(goproxy, "|", ","), ",")
	proxies := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimRight(strings.TrimSpace(p), "/"); trimmed != "" {
			proxies = append(proxies, trimmed)
		}
	}
	return proxies
}

// DownloadZip fetches the zip archive for the given module and version from
// the proxy chain and returns the raw bytes.
func (c *Client) DownloadZip(ctx context.Context, mod, version string) ([]byte, error) {
	escapedMod, err := module.EscapePath(mod)
	if err != nil {
		return nil, fmt.Errorf("escaping module path %q: %w", mod, err)
	}
	escapedVersion, err := module.EscapeVersion(version)
	if err != nil {
		return nil, fmt.Errorf("escaping version %q: %w", version, err)
	}

	var lastErr error
	for _, proxy := range c.proxies {
		switch proxy {
		case "direct":
			c.log.Debug("goproxy: direct mode not supported, skipping")
			continue
		case "off":
			c.log.Debug("goproxy: proxy chain contains 'off', stopping")
			return nil, fmt.Errorf("%s@%s: %w", mod, version, ErrNotFound)
		}

		zipURL := fmt.Sprintf("%s/%s/@v/%s.zip", proxy, escapedMod, escapedVersion)
		c.log.Debug("goproxy: fetching", "url", zipURL)

		data, tryNext, fetchErr := c.fetch(ctx, zipURL)
		if fetchErr == nil {
			return data, nil
		}
		if !tryNext {
			return nil, fetchErr
		}
		lastErr = fetchErr
	}

	if lastErr != nil {
		return nil, fmt.Errorf("%s@%s: %w (last error: %v)", mod, version, ErrNotFound, lastErr)
	}
	return nil, fmt.Errorf("%s@%s: %w", mod, version, ErrNotFound)
}

// fetch performs a single HTTP GET for the given URL. tryNext signals that
// the caller should attempt the next proxy in the chain.
func (c *Client) fetch(ctx context.Context, url string) (data []byte, tryNext bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("building request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		// Network-level error; the next proxy may still answer.
		return nil, true, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound, http.StatusGone:
		return nil, true, fmt.Errorf("proxy returned %d for %s", resp.StatusCode, url)
	default:
		return nil, false, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	data, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("reading response body from %s: %w", url, err)
	}
	return data, false, nil
}
