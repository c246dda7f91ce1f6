package finnhub

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/wonny/investo/pkg/config"
	"github.com/wonny/investo/pkg/httputil"
	"github.com/wonny/investo/pkg/logger"
)

// ErrNoAPIKey is returned by every call when no key is configured
var ErrNoAPIKey = errors.New("finnhub: api key not configured")

// ErrNotFound is returned when Finnhub answers with an empty payload
var ErrNotFound = errors.New("finnhub: symbol not found")

// Client talks to the Finnhub REST API.
// The key travels in the X-Finnhub-Token header so it never shows up in logged URLs.
// ⭐ SSOT: Finnhub calls are made from this client only
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	apiKey     string
}

// NewClient creates a new Finnhub client
func NewClient(httpClient *httputil.Client, cfg config.FinnhubConfig, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log.Component("finnhub"),
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
	}
}

// Enabled reports whether a key is configured
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// get decodes GET {baseURL}{path}?{params} into dest
func (c *Client) get(ctx context.Context, path string, params url.Values, dest interface{}) error {
	if !c.Enabled() {
		return ErrNoAPIKey
	}

	fullURL := c.baseURL + path
	if len(params) > 0 {
		fullURL = fmt.Sprintf("%s?%s", fullURL, params.Encode())
	}

	headers := map[string]string{"X-Finnhub-Token": c.apiKey}
	if err := c.httpClient.GetJSON(ctx, fullURL, headers, dest); err != nil {
		return fmt.Errorf("finnhub %s: %w", path, err)
	}
	return nil
}
