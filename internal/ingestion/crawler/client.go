package crawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	initialBackoff = time.Second
	maxBackoff     = 16 * time.Second
	// pages larger than this are truncated before parsing
	maxBodyBytes = 4 << 20
)

// HTTPError is returned for a non-2xx response that was not retried.
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("GET %s: HTTP %d", e.URL, e.StatusCode)
}

// Client fetches pages politely: one request per Delay across all workers,
// with retries and exponential backoff on 429 and 5xx.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	userAgent   string
	maxRetries  int
	backoff     time.Duration
	logger      *zap.Logger
}

func NewClient(cfg Config, logger *zap.Logger) *Client {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		rateLimiter: rate.NewLimiter(rate.Every(cfg.Delay), 1),
		userAgent:   cfg.UserAgent,
		maxRetries:  cfg.MaxRetries,
		backoff:     initialBackoff,
		logger:      logger,
	}
}

// Fetch returns the body of url.
func (c *Client) Fetch(ctx context.Context, url string) (string, int, error) {
	var lastErr error
	delay := c.backoff

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return "", 0, fmt.Errorf("rate limiter: %w", err)
		}

		body, status, wait, err := c.get(ctx, url)
		if err == nil {
			return body, status, nil
		}
		lastErr = err

		var httpErr *HTTPError
		retryable := !errors.As(err, &httpErr) || shouldRetry(httpErr.StatusCode)
		if !retryable || attempt == c.maxRetries || ctx.Err() != nil {
			return "", status, err
		}

		if wait > 0 {
			delay = wait
		}
		c.logger.Debug("retrying fetch",
			zap.String("url", url),
			zap.Int("attempt", attempt+1),
			zap.Duration("delay", delay),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return "", status, ctx.Err()
		case <-time.After(delay):
		}
		delay = min(delay*2, maxBackoff)
	}

	return "", 0, fmt.Errorf("fetch %s failed after %d attempts: %w", url, c.maxRetries+1, lastErr)
}

func (c *Client) get(ctx context.Context, url string) (string, int, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", 0, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", 0, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return "", resp.StatusCode, retryAfter(resp.Header.Get("Retry-After")),
			&HTTPError{StatusCode: resp.StatusCode, URL: url}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", resp.StatusCode, 0, fmt.Errorf("read body: %w", err)
	}
	return string(raw), resp.StatusCode, 0, nil
}

func shouldRetry(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || statusCode >= 500
}

// retryAfter parses a Retry-After header given in seconds.
func retryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return 0
	}
	return min(time.Duration(secs)*time.Second, maxBackoff)
}
