package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/wonny/investo/internal/collector"
	"github.com/wonny/investo/internal/external/finnhub"
	"github.com/wonny/investo/internal/external/reddit"
	"github.com/wonny/investo/internal/external/stocktwits"
	"github.com/wonny/investo/internal/external/yahoo"
	"github.com/wonny/investo/internal/pipeline"
	"github.com/wonny/investo/internal/profile"
	"github.com/wonny/investo/internal/report"
	"github.com/wonny/investo/internal/scoring"
	"github.com/wonny/investo/internal/sentiment"
	"github.com/wonny/investo/pkg/config"
	"github.com/wonny/investo/pkg/httputil"
	"github.com/wonny/investo/pkg/logger"
	"github.com/wonny/investo/pkg/metrics"
	"github.com/wonny/investo/pkg/redis"
)

// cachePrefix namespaces every Redis key of this app
const cachePrefix = "investo"

// deps is the wired object graph shared by the commands
type deps struct {
	cfg          *config.Config
	log          *logger.Logger
	profile      *profile.Profile
	metrics      *metrics.Recorder
	redis        *redis.Client
	cache        *redis.Cache
	collector    *collector.Collector
	analyzer     *sentiment.Analyzer
	renderer     *report.Renderer
	orchestrator *pipeline.Orchestrator
}

// buildDeps loads config and the analysis profile and wires every component.
// Logs go to logOut.
func buildDeps(ctx context.Context, logOut io.Writer) (*deps, error) {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if profilePath != "" {
		cfg.ProfilePath = profilePath
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	// 2. Initialize logger
	log := logger.NewTo(cfg, logOut)

	// 3. Load analysis profile
	prof, err := profile.Load(cfg.ProfilePath)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	// 4. Redis (optional; falls back to the in-process cache)
	rc, err := redis.New(ctx, cfg)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, using in-process cache")
		rc = redis.Disabled()
	}
	cache := redis.NewCache(rc, cachePrefix)
	limiter := redis.NewRateLimiter(rc, cachePrefix)

	var m *metrics.Recorder
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	// 5. HTTP clients, one per upstream so quotas stay separate
	newHTTP := func(quota redis.RateLimitConfig, perSecond float64, burst int) *httputil.Client {
		return httputil.New(cfg, log).
			WithLocalLimit(perSecond, burst).
			WithRateLimiter(limiter, quota)
	}

	// 6. External API clients
	yahooClient := yahoo.NewClient(newHTTP(redis.YahooRateLimit, 5, 5), cfg.Yahoo, log)
	finnhubClient := finnhub.NewClient(newHTTP(redis.FinnhubRateLimit, 1, 5), cfg.Finnhub, log)
	stocktwitsClient := stocktwits.NewClient(newHTTP(redis.StockTwitsRateLimit, 0.5, 2), cfg.StockTwits, log)
	redditClient := reddit.NewClient(newHTTP(redis.RedditRateLimit, 1, 4), cfg.Reddit, log)

	if !cfg.HasFinnhub() {
		log.Warn("FINNHUB_API_KEY not set: profile, metrics, news and peers are skipped")
	}

	// 7. Core components
	col := collector.New(collector.Sources{
		Yahoo:   yahooClient,
		Finnhub: finnhubClient,
		Crowd:   stocktwitsClient,
	}, cache, prof.Collector, m, log)
	analyzer := sentiment.NewAnalyzer(redditClient, cache, prof.Sentiment, m, log)
	renderer := report.NewRenderer(cfg.Reports.Dir, log)

	orchestrator := pipeline.NewOrchestrator(col, analyzer, scoring.NewEngine(log), renderer, *prof, m, log)

	return &deps{
		cfg:          cfg,
		log:          log,
		profile:      prof,
		metrics:      m,
		redis:        rc,
		cache:        cache,
		collector:    col,
		analyzer:     analyzer,
		renderer:     renderer,
		orchestrator: orchestrator,
	}, nil
}

// Close releases the Redis connection
func (d *deps) Close() {
	if err := d.redis.Close(); err != nil {
		d.log.WithError(err).Warn("Failed to close redis")
	}
}
