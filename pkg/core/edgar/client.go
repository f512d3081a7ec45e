// Package edgar talks to SEC EDGAR: ticker resolution, filing discovery,
// submission download, and document extraction.
package edgar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	archivesBaseURL = "https://www.sec.gov"
	dataBaseURL     = "https://data.sec.gov"

	// SEC fair-access policy caps automated clients at 10 req/s and
	// requires a descriptive User-Agent.
	defaultRateLimit = 10
	defaultUserAgent = "edgar_statements/1.0"
	defaultTimeout   = 30 * time.Second
	defaultRetries   = 3
)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithUserAgent sets the User-Agent header sent to SEC endpoints.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) { c.userAgent = ua }
}

// WithRateLimit overrides the requests-per-second cap.
func WithRateLimit(rps float64, burst int) ClientOption {
	if burst <= 0 {
		burst = 1
	}
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

// WithHTTPClient swaps the underlying HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// WithBaseURLs points the client at alternate hosts, mainly for tests.
func WithBaseURLs(archives, data string) ClientOption {
	return func(c *Client) {
		c.archivesBase = archives
		c.dataBase = data
	}
}

// WithRetries sets the number of retry attempts after a failed request.
func WithRetries(n int) ClientOption {
	return func(c *Client) { c.maxRetries = n }
}

// Client is a rate-limited SEC EDGAR HTTP client with retries. All
// requests across all goroutines share one limiter so the process as a
// whole stays under the SEC cap.
type Client struct {
	http         *http.Client
	limiter      *rate.Limiter
	userAgent    string
	archivesBase string
	dataBase     string
	maxRetries   int
}

// NewClient builds a client with SEC-safe defaults.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		http:         &http.Client{Timeout: defaultTimeout},
		limiter:      rate.NewLimiter(rate.Limit(defaultRateLimit), defaultRateLimit),
		userAgent:    defaultUserAgent,
		archivesBase: archivesBaseURL,
		dataBase:     dataBaseURL,
		maxRetries:   defaultRetries,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get fetches a URL, honoring the rate limit and retrying transient
// failures with exponential backoff.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<(attempt-1)) * time.Second
			log.Printf("[EDGAR] Request failed (attempt %d/%d), retrying in %s: %v",
				attempt, c.maxRetries, backoff, lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		body, err := c.doGet(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err
	}

	return nil, fmt.Errorf("GET %s: %w", url, lastErr)
}

func (c *Client) doGet(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept-Encoding", "gzip, deflate")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// GetJSON fetches a URL and decodes the JSON body into v.
func (c *Client) GetJSON(ctx context.Context, url string, v interface{}) error {
	body, err := c.Get(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}
