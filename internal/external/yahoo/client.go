package yahoo

import (
	"errors"
	"net/http"

	"github.com/wonny/investo/pkg/config"
	"github.com/wonny/investo/pkg/httputil"
	"github.com/wonny/investo/pkg/logger"
)

// ErrNotFound is returned when Yahoo does not know the symbol
var ErrNotFound = errors.New("yahoo: symbol not found")

// Client reads quotes, key statistics and statement timeseries from Yahoo Finance
// ⭐ SSOT: Yahoo Finance calls are made from this client only
type Client struct {
	httpClient    *httputil.Client
	logger        *logger.Logger
	chartURL      string
	quoteURL      string
	timeseriesURL string
}

// NewClient creates a new Yahoo Finance client
func NewClient(httpClient *httputil.Client, cfg config.YahooConfig, log *logger.Logger) *Client {
	return &Client{
		httpClient:    httpClient,
		logger:        log.Component("yahoo"),
		chartURL:      cfg.ChartURL,
		quoteURL:      cfg.QuoteURL,
		timeseriesURL: cfg.TimeseriesURL,
	}
}

func isNotFound(err error) bool {
	var statusErr *httputil.StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound
}
