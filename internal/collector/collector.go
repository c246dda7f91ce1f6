package collector

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/wonny/investo/internal/contracts"
	"github.com/wonny/investo/internal/external/finnhub"
	"github.com/wonny/investo/internal/external/stocktwits"
	"github.com/wonny/investo/internal/external/yahoo"
	"github.com/wonny/investo/internal/profile"
	"github.com/wonny/investo/pkg/logger"
	"github.com/wonny/investo/pkg/metrics"
	"github.com/wonny/investo/pkg/redis"
)

var (
	// ErrInvalidTicker is returned for symbols that fail the ticker pattern
	ErrInvalidTicker = errors.New("invalid ticker symbol")
	// ErrTickerNotFound is returned when no source recognised the symbol
	ErrTickerNotFound = errors.New("ticker not found")
)

// tickerPattern accepts plain tickers plus one class suffix: AAPL, BRK.B, RDS-A
var tickerPattern = regexp.MustCompile(`^[A-Z]{1,5}([.-][A-Z]{1,2})?$`)

// NormalizeSymbol trims and upper-cases a ticker and validates it
func NormalizeSymbol(raw string) (string, error) {
	symbol := strings.ToUpper(strings.TrimSpace(raw))
	if !tickerPattern.MatchString(symbol) {
		return "", fmt.Errorf("%w: %q", ErrInvalidTicker, raw)
	}
	return symbol, nil
}

// yahooSymbol converts class shares to Yahoo's dash form (BRK.B -> BRK-B)
func yahooSymbol(symbol string) string {
	return strings.ReplaceAll(symbol, ".", "-")
}

// Collector merges every upstream into one StockRecord.
// Sources are fetched concurrently and merged in a fixed priority order:
// an earlier source's value is never overwritten by a later one.
// ⭐ SSOT: the only producer of contracts.StockRecord
type Collector struct {
	sources Sources
	cache   *redis.Cache
	cfg     profile.Collector
	metrics *metrics.Recorder
	logger  *logger.Logger
	now     func() time.Time
}

// New creates a collector. cache and m may be nil.
func New(sources Sources, cache *redis.Cache, cfg profile.Collector, m *metrics.Recorder, log *logger.Logger) *Collector {
	return &Collector{
		sources: sources,
		cache:   cache,
		cfg:     cfg,
		metrics: m,
		logger:  log.Component("collector"),
		now:     time.Now,
	}
}

func (c *Collector) finnhubEnabled() bool {
	return c.sources.Finnhub != nil && c.sources.Finnhub.Enabled()
}

// fetched holds every raw upstream answer for one symbol
type fetched struct {
	chart        *yahoo.Chart
	profile      *finnhub.CompanyProfile
	financials   *finnhub.BasicFinancials
	quote        *finnhub.Quote
	statistics   *yahoo.KeyStatistics
	fundamentals *yahoo.Fundamentals
	news         []contracts.NewsItem
	peers        []string
	crowd        *contracts.CrowdTally
}

// Collect returns the merged record for symbol
func (c *Collector) Collect(ctx context.Context, raw string) (*contracts.StockRecord, error) {
	symbol, err := NormalizeSymbol(raw)
	if err != nil {
		return nil, err
	}

	key := redis.StockRecordKey(symbol)
	if c.cache != nil {
		var cached contracts.StockRecord
		if found, err := c.cache.Get(ctx, key, &cached); err == nil && found {
			c.logger.WithField("symbol", symbol).Debug("Stock record served from cache")
			return &cached, nil
		}
	}

	start := c.now()
	f := c.fetchAll(ctx, symbol)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	record := merge(symbol, f)
	record.FetchedAt = c.now().UTC()
	if !record.HasIdentity() {
		return nil, fmt.Errorf("%w: %s", ErrTickerNotFound, symbol)
	}

	if c.cache != nil {
		ttl := c.cfg.RecordCacheTTL
		if ttl <= 0 {
			ttl = redis.TTLRecord
		}
		if err := c.cache.Set(ctx, key, record, ttl); err != nil {
			c.logger.WithError(err).Warn("Failed to cache stock record")
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol":   symbol,
		"sources":  record.Sources,
		"duration": c.now().Sub(start).String(),
	}).Info("Stock record collected")
	return record, nil
}

// fetchAll runs every enabled upstream call concurrently
func (c *Collector) fetchAll(ctx context.Context, symbol string) *fetched {
	var (
		f  fetched
		wg sync.WaitGroup
	)

	if y := c.sources.Yahoo; y != nil {
		ys := yahooSymbol(symbol)
		c.fetch(ctx, &wg, SourceYahooChart, symbol, func(ctx context.Context) (err error) {
			f.chart, err = y.FetchChart(ctx, ys, c.cfg.HistoryPeriod)
			return err
		})
		c.fetch(ctx, &wg, SourceYahooStatistics, symbol, func(ctx context.Context) (err error) {
			f.statistics, err = y.FetchKeyStatistics(ctx, ys)
			return err
		})
		c.fetch(ctx, &wg, SourceYahooFundamentals, symbol, func(ctx context.Context) (err error) {
			f.fundamentals, err = y.FetchFundamentals(ctx, ys)
			return err
		})
	}

	if c.finnhubEnabled() {
		fh := c.sources.Finnhub
		c.fetch(ctx, &wg, SourceFinnhubProfile, symbol, func(ctx context.Context) (err error) {
			f.profile, err = fh.Profile(ctx, symbol)
			return err
		})
		c.fetch(ctx, &wg, SourceFinnhubMetrics, symbol, func(ctx context.Context) (err error) {
			f.financials, err = fh.BasicFinancials(ctx, symbol)
			return err
		})
		c.fetch(ctx, &wg, SourceFinnhubQuote, symbol, func(ctx context.Context) (err error) {
			f.quote, err = fh.Quote(ctx, symbol)
			return err
		})
		c.fetch(ctx, &wg, SourceFinnhubNews, symbol, func(ctx context.Context) (err error) {
			f.news, err = fh.CompanyNews(ctx, symbol, c.now())
			return err
		})
		if c.cfg.PeersLimit > 0 {
			c.fetch(ctx, &wg, SourceFinnhubPeers, symbol, func(ctx context.Context) (err error) {
				f.peers, err = fh.Peers(ctx, symbol, c.cfg.PeersLimit)
				return err
			})
		}
	}

	if cs := c.sources.Crowd; cs != nil {
		c.fetch(ctx, &wg, SourceStockTwits, symbol, func(ctx context.Context) error {
			tally, err := cs.CrowdTally(ctx, symbol)
			if err != nil {
				return err
			}
			f.crowd = &tally
			return nil
		})
	}

	wg.Wait()
	return &f
}

// fetch runs fn in its own goroutine; failures are logged and counted, never returned
func (c *Collector) fetch(ctx context.Context, wg *sync.WaitGroup, source, symbol string, fn func(context.Context) error) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				c.metrics.RecordUpstreamError(source)
				c.logger.WithFields(map[string]interface{}{
					"source": source,
					"symbol": symbol,
					"panic":  fmt.Sprint(r),
				}).Error("Upstream fetch panicked")
			}
		}()

		err := fn(ctx)
		switch {
		case err == nil:
		case isNotFound(err):
			c.logger.WithFields(map[string]interface{}{
				"source": source,
				"symbol": symbol,
			}).Debug("Symbol unknown to source")
		default:
			c.metrics.RecordUpstreamError(source)
			c.logger.WithError(err).WithFields(map[string]interface{}{
				"source": source,
				"symbol": symbol,
			}).Warn("Upstream fetch failed")
		}
	}()
}

func isNotFound(err error) bool {
	return errors.Is(err, yahoo.ErrNotFound) ||
		errors.Is(err, finnhub.ErrNotFound) ||
		errors.Is(err, stocktwits.ErrNotFound)
}

// GlobalNews returns market-wide headlines, cached per category
func (c *Collector) GlobalNews(ctx context.Context) ([]contracts.NewsItem, error) {
	if !c.finnhubEnabled() {
		return nil, finnhub.ErrNoAPIKey
	}

	category := c.cfg.NewsCategory
	load := func() (interface{}, error) {
		items, err := c.sources.Finnhub.GeneralNews(ctx, category)
		if err != nil {
			c.metrics.RecordUpstreamError(SourceFinnhubNews)
			return nil, err
		}
		return items, nil
	}

	var items []contracts.NewsItem
	if c.cache == nil {
		v, err := load()
		if err != nil {
			return nil, err
		}
		return v.([]contracts.NewsItem), nil
	}
	if err := c.cache.GetOrSet(ctx, redis.NewsKey(category), &items, redis.TTLNews, load); err != nil {
		return nil, err
	}
	return items, nil
}

// Peers returns same-industry tickers for symbol
func (c *Collector) Peers(ctx context.Context, raw string) ([]string, error) {
	symbol, err := NormalizeSymbol(raw)
	if err != nil {
		return nil, err
	}
	if !c.finnhubEnabled() {
		return nil, finnhub.ErrNoAPIKey
	}

	peers, err := c.sources.Finnhub.Peers(ctx, symbol, c.cfg.PeersLimit)
	if err != nil {
		c.metrics.RecordUpstreamError(SourceFinnhubPeers)
		return nil, err
	}
	return peers, nil
}
