// Package scryfall fetches card data from the Scryfall API for cube imports.
package scryfall

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL   = "https://api.scryfall.com"
	DefaultUserAgent = "cubedraft/1.0"

	requestTimeout = 30 * time.Second
	maxRetries     = 3
	maxBackoff     = 16 * time.Second
)

// Options configures a Client. Zero values take the defaults.
type Options struct {
	BaseURL           string
	UserAgent         string
	RequestsPerSecond float64
	InitialBackoff    time.Duration
	HTTPClient        *http.Client
}

// Client is a rate-limited Scryfall API client.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	rateLimiter    *rate.Limiter
	userAgent      string
	initialBackoff time.Duration
}

// NewClient creates a new Scryfall API client.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.RequestsPerSecond <= 0 {
		// Scryfall asks for 50-100ms between requests.
		opts.RequestsPerSecond = 10
	}
	if opts.InitialBackoff <= 0 {
		opts.InitialBackoff = time.Second
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: requestTimeout}
	}

	return &Client{
		baseURL:        opts.BaseURL,
		httpClient:     opts.HTTPClient,
		rateLimiter:    rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1),
		userAgent:      opts.UserAgent,
		initialBackoff: opts.InitialBackoff,
	}
}

// GetCardByName retrieves a card by exact name.
func (c *Client) GetCardByName(ctx context.Context, name string) (*Card, error) {
	endpoint := fmt.Sprintf("%s/cards/named?exact=%s", c.baseURL, url.QueryEscape(name))

	var card Card
	if err := c.doRequest(ctx, http.MethodGet, endpoint, nil, &card); err != nil {
		return nil, fmt.Errorf("failed to get card %q: %w", name, err)
	}
	return &card, nil
}

// doRequest performs a request with rate limiting and retries on network
// errors, 429 and 5xx responses.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, body any, result any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	var lastErr error
	backoff := c.initialBackoff

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, backoff); err != nil {
				return err
			}
			backoff = min(backoff*2, maxBackoff)
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		retry, err := c.attempt(ctx, method, endpoint, payload, result, &backoff)
		if err == nil {
			return nil
		}
		if !retry {
			return err
		}
		lastErr = err
		log.Debug().Err(err).Int("attempt", attempt+1).Str("url", endpoint).Msg("retrying Scryfall request")
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// attempt performs one HTTP round trip and reports whether a failure is retryable.
// A Retry-After header overrides the next backoff.
func (c *Client) attempt(ctx context.Context, method, endpoint string, payload []byte, result any, backoff *time.Duration) (bool, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return true, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return true, fmt.Errorf("failed to read response body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		if err := json.Unmarshal(data, result); err != nil {
			return false, fmt.Errorf("failed to parse JSON response: %w", err)
		}
		return false, nil

	case resp.StatusCode == http.StatusTooManyRequests:
		if seconds, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && seconds > 0 {
			*backoff = time.Duration(seconds) * time.Second
		}
		return true, fmt.Errorf("rate limited (HTTP 429)")

	case resp.StatusCode == http.StatusNotFound:
		return false, &NotFoundError{URL: endpoint}

	case resp.StatusCode >= 500:
		return true, fmt.Errorf("server error (HTTP %d)", resp.StatusCode)

	default:
		var apiErr APIError
		if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Details != "" {
			return false, &apiErr
		}
		return false, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(data))
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
