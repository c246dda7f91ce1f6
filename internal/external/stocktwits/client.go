package stocktwits

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/wonny/investo/internal/contracts"
	"github.com/wonny/investo/pkg/config"
	"github.com/wonny/investo/pkg/httputil"
	"github.com/wonny/investo/pkg/logger"
)

// MaxMessages caps how many stream messages are tallied
const MaxMessages = 100

// ErrNotFound is returned when StockTwits has no stream for the symbol
var ErrNotFound = errors.New("stocktwits: symbol not found")

// Client reads public symbol streams from StockTwits
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new StockTwits client
func NewClient(httpClient *httputil.Client, cfg config.StockTwitsConfig, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log.Component("stocktwits"),
		baseURL:    cfg.BaseURL,
	}
}

// Message is one stream post
type Message struct {
	ID        int64  `json:"id"`
	Body      string `json:"body"`
	CreatedAt string `json:"created_at"`
	Entities  struct {
		Sentiment *struct {
			Basic string `json:"basic"`
		} `json:"sentiment"`
	} `json:"entities"`
}

// Sentiment returns "Bullish", "Bearish" or "" when the author set no tag
func (m Message) Sentiment() string {
	if m.Entities.Sentiment == nil {
		return ""
	}
	return m.Entities.Sentiment.Basic
}

type streamResponse struct {
	Messages []Message `json:"messages"`
}

// Stream fetches the most recent messages for a symbol
func (c *Client) Stream(ctx context.Context, symbol string) ([]Message, error) {
	endpoint := fmt.Sprintf("%s/streams/symbol/%s.json", c.baseURL, url.PathEscape(symbol))

	var resp streamResponse
	if err := c.httpClient.GetJSON(ctx, endpoint, nil, &resp); err != nil {
		var statusErr *httputil.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("stocktwits stream %s: %w", symbol, err)
	}
	return resp.Messages, nil
}

// Tally counts bullish and bearish tags over at most MaxMessages messages
func Tally(messages []Message) contracts.CrowdTally {
	if len(messages) > MaxMessages {
		messages = messages[:MaxMessages]
	}

	tally := contracts.CrowdTally{Mentions: len(messages)}
	for _, m := range messages {
		switch m.Sentiment() {
		case "Bullish":
			tally.Bullish++
		case "Bearish":
			tally.Bearish++
		}
	}
	return tally
}

// CrowdTally fetches the stream and tallies it
func (c *Client) CrowdTally(ctx context.Context, symbol string) (contracts.CrowdTally, error) {
	messages, err := c.Stream(ctx, symbol)
	if err != nil {
		return contracts.CrowdTally{}, err
	}

	tally := Tally(messages)
	c.logger.WithFields(map[string]interface{}{
		"symbol":   symbol,
		"mentions": tally.Mentions,
		"bullish":  tally.Bullish,
		"bearish":  tally.Bearish,
	}).Debug("Crowd tally computed")
	return tally, nil
}
