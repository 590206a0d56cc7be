// Package fetch provides HTTP page fetching for the racing site.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/net/html/charset"

	"github.com/keibalab/oddsget/internal/config"
)

// TransportError represents a failed page fetch: a transport-level failure or
// a non-success HTTP status. Fetches are never retried; the caller decides
// whether the failure is fatal.
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Client fetches a URL and returns the decoded page body. Implementations
// must honor context cancellation.
type Client interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// HTTPClient is the net/http backed Client used against the live site.
type HTTPClient struct {
	client         *http.Client
	userAgent      string
	acceptLanguage string
}

// NewHTTPClient creates an HTTPClient from scraper configuration.
func NewHTTPClient(cfg *config.ScraperConfig) *HTTPClient {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &HTTPClient{
		client:         &http.Client{Timeout: timeout},
		userAgent:      cfg.UserAgent,
		acceptLanguage: cfg.AcceptLanguage,
	}
}

// Fetch performs a single GET request. The body is decoded to UTF-8 using the
// charset declared in the response headers or sniffed from the content; the
// site still serves EUC-JP on some pages.
func (c *HTTPClient) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &TransportError{URL: url, Err: err}
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.acceptLanguage != "" {
		req.Header.Set("Accept-Language", c.acceptLanguage)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &TransportError{URL: url, StatusCode: resp.StatusCode}
	}

	reader, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", &TransportError{URL: url, Err: fmt.Errorf("charset detection: %w", err)}
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return "", &TransportError{URL: url, Err: err}
	}

	return string(body), nil
}
