package collector

import (
	"context"
	"time"

	"github.com/wonny/investo/internal/contracts"
	"github.com/wonny/investo/internal/external/finnhub"
	"github.com/wonny/investo/internal/external/yahoo"
)

// YahooSource is the subset of the Yahoo client the collector reads
type YahooSource interface {
	FetchChart(ctx context.Context, symbol, period string) (*yahoo.Chart, error)
	FetchKeyStatistics(ctx context.Context, symbol string) (*yahoo.KeyStatistics, error)
	FetchFundamentals(ctx context.Context, symbol string) (*yahoo.Fundamentals, error)
}

// FinnhubSource is the subset of the Finnhub client the collector reads
type FinnhubSource interface {
	Enabled() bool
	Profile(ctx context.Context, symbol string) (*finnhub.CompanyProfile, error)
	BasicFinancials(ctx context.Context, symbol string) (*finnhub.BasicFinancials, error)
	Quote(ctx context.Context, symbol string) (*finnhub.Quote, error)
	CompanyNews(ctx context.Context, symbol string, now time.Time) ([]contracts.NewsItem, error)
	GeneralNews(ctx context.Context, category string) ([]contracts.NewsItem, error)
	Peers(ctx context.Context, symbol string, limit int) ([]string, error)
}

// CrowdSource tallies bullish/bearish tags from a social stream
type CrowdSource interface {
	CrowdTally(ctx context.Context, symbol string) (contracts.CrowdTally, error)
}

// Sources bundles the upstreams. Any of them may be nil.
type Sources struct {
	Yahoo   YahooSource
	Finnhub FinnhubSource
	Crowd   CrowdSource
}

// Source names used in logs, metrics and StockRecord.Sources
const (
	SourceYahooChart        = "yahoo_chart"
	SourceFinnhubProfile    = "finnhub_profile"
	SourceFinnhubMetrics    = "finnhub_metrics"
	SourceFinnhubQuote      = "finnhub_quote"
	SourceYahooStatistics   = "yahoo_statistics"
	SourceYahooFundamentals = "yahoo_fundamentals"
	SourceFinnhubNews       = "finnhub_news"
	SourceFinnhubPeers      = "finnhub_peers"
	SourceStockTwits        = "stocktwits"
)
