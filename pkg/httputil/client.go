package httputil

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/wonny/investo/pkg/config"
	"github.com/wonny/investo/pkg/logger"
	"github.com/wonny/investo/pkg/redis"
)

// DefaultUserAgent is sent when a request sets none. Yahoo rejects the Go default.
const DefaultUserAgent = "Mozilla/5.0 (compatible; Investo/1.0; +https://github.com/wonny/investo)"

// maxBodyBytes caps how much of an upstream response is read
const maxBodyBytes = 8 << 20

// Client is an HTTP client wrapper with retry, rate limiting and logging
// ⭐ SSOT: every upstream request goes through this client
type Client struct {
	httpClient   *http.Client
	logger       *logger.Logger
	retryConfig  RetryConfig
	localLimiter *rate.Limiter
	rateLimiter  *redis.RateLimiter
	rateLimitCfg *redis.RateLimitConfig
}

// RetryConfig holds retry configuration
type RetryConfig struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Enabled      bool
}

// StatusError reports a non-2xx upstream answer
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
}

// New creates a client whose timeout comes from config
// ⭐ SSOT: http.Client instances are only created here
func New(cfg *config.Config, log *logger.Logger) *Client {
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 12 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		logger:     log,
		retryConfig: RetryConfig{
			MaxRetries:   2,
			InitialDelay: 500 * time.Millisecond,
			MaxDelay:     5 * time.Second,
			Enabled:      true,
		},
	}
}

// WithRetry configures retry behavior
func (c *Client) WithRetry(maxRetries int, initialDelay time.Duration) *Client {
	c.retryConfig.MaxRetries = maxRetries
	c.retryConfig.InitialDelay = initialDelay
	c.retryConfig.Enabled = true
	return c
}

// DisableRetry disables automatic retry
func (c *Client) DisableRetry() *Client {
	c.retryConfig.Enabled = false
	return c
}

// WithLocalLimit adds an in-process token bucket (requests per second, burst)
func (c *Client) WithLocalLimit(perSecond float64, burst int) *Client {
	c.localLimiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	return c
}

// WithRateLimiter adds the Redis-backed quota shared across processes
func (c *Client) WithRateLimiter(limiter *redis.RateLimiter, cfg redis.RateLimitConfig) *Client {
	c.rateLimiter = limiter
	c.rateLimitCfg = &cfg
	return c
}

// Get performs a GET request with optional headers
func (c *Client) Get(ctx context.Context, url string, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create GET request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", DefaultUserAgent)
	}

	return c.do(req)
}

// GetBody performs a GET and returns the body of a 2xx response
func (c *Client) GetBody(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	resp, err := c.Get(ctx, url, headers)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

// GetJSON performs a GET and decodes a 2xx JSON response into dest
func (c *Client) GetJSON(ctx context.Context, url string, headers map[string]string, dest interface{}) error {
	if headers == nil {
		headers = map[string]string{}
	}
	if _, ok := headers["Accept"]; !ok {
		headers["Accept"] = "application/json"
	}

	body, err := c.GetBody(ctx, url, headers)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("failed to decode JSON from %s: %w", url, err)
	}
	return nil
}

// do executes the request with limits, retry logic and logging
func (c *Client) do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	if c.localLimiter != nil {
		if err := c.localLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("local rate limit wait failed: %w", err)
		}
	}
	if c.rateLimiter != nil && c.rateLimitCfg != nil {
		if err := c.rateLimiter.Wait(ctx, *c.rateLimitCfg); err != nil {
			return nil, fmt.Errorf("rate limit wait failed: %w", err)
		}
	}

	startTime := time.Now()
	url := req.URL.Redacted()

	c.logger.WithFields(map[string]interface{}{
		"method": req.Method,
		"url":    url,
	}).Debug("HTTP request started")

	var (
		resp *http.Response
		err  error
	)
	if c.retryConfig.Enabled {
		resp, err = c.doWithRetry(req)
	} else {
		resp, err = c.httpClient.Do(req)
	}

	duration := time.Since(startTime)

	if err != nil {
		c.logger.WithError(err).WithFields(map[string]interface{}{
			"method":   req.Method,
			"url":      url,
			"duration": duration.String(),
		}).Warn("HTTP request failed")
		return nil, err
	}

	c.logger.WithFields(map[string]interface{}{
		"method":      req.Method,
		"url":         url,
		"status_code": resp.StatusCode,
		"duration":    duration.String(),
	}).Debug("HTTP request completed")

	return resp, nil
}

// doWithRetry retries transport errors and retryable statuses with exponential backoff
func (c *Client) doWithRetry(req *http.Request) (*http.Response, error) {
	var (
		resp *http.Response
		err  error
	)
	delay := c.retryConfig.InitialDelay

	for attempt := 0; attempt <= c.retryConfig.MaxRetries; attempt++ {
		resp, err = c.httpClient.Do(req)
		if err == nil && !IsRetryableError(resp.StatusCode) {
			return resp, nil
		}

		if attempt == c.retryConfig.MaxRetries {
			break
		}

		if resp != nil {
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
		}

		c.logger.WithFields(map[string]interface{}{
			"attempt": attempt + 1,
			"delay":   delay.String(),
			"url":     req.URL.Redacted(),
		}).Warn("Retrying HTTP request")

		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		case <-time.After(delay):
		}

		delay *= 2
		if delay > c.retryConfig.MaxDelay {
			delay = c.retryConfig.MaxDelay
		}
	}

	return resp, err
}

// IsRetryableError checks if a status code should be retried
func IsRetryableError(statusCode int) bool {
	return statusCode >= 500 || statusCode == http.StatusTooManyRequests
}
