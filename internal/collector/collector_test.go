package collector

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/investo/internal/contracts"
	"github.com/wonny/investo/internal/external/finnhub"
	"github.com/wonny/investo/internal/external/yahoo"
	"github.com/wonny/investo/internal/profile"
	"github.com/wonny/investo/pkg/logger"
	"github.com/wonny/investo/pkg/metrics"
	"github.com/wonny/investo/pkg/redis"
)

var f = contracts.Float

type fakeYahoo struct {
	chart        *yahoo.Chart
	stats        *yahoo.KeyStatistics
	fundamentals *yahoo.Fundamentals
	err          error
	symbols      []string
	calls        atomic.Int32
}

func (y *fakeYahoo) FetchChart(_ context.Context, symbol, _ string) (*yahoo.Chart, error) {
	y.calls.Add(1)
	y.symbols = append(y.symbols, symbol)
	if y.chart == nil {
		return nil, yahoo.ErrNotFound
	}
	return y.chart, nil
}

func (y *fakeYahoo) FetchKeyStatistics(context.Context, string) (*yahoo.KeyStatistics, error) {
	y.calls.Add(1)
	if y.err != nil {
		return nil, y.err
	}
	return y.stats, nil
}

func (y *fakeYahoo) FetchFundamentals(context.Context, string) (*yahoo.Fundamentals, error) {
	y.calls.Add(1)
	if y.err != nil {
		return nil, y.err
	}
	return y.fundamentals, nil
}

type fakeFinnhub struct {
	enabled    bool
	profile    *finnhub.CompanyProfile
	financials *finnhub.BasicFinancials
	quote      *finnhub.Quote
	news       []contracts.NewsItem
	peers      []string
	newsCalls  atomic.Int32
}

func (h *fakeFinnhub) Enabled() bool { return h.enabled }

func (h *fakeFinnhub) Profile(context.Context, string) (*finnhub.CompanyProfile, error) {
	if h.profile == nil {
		return nil, finnhub.ErrNotFound
	}
	return h.profile, nil
}

func (h *fakeFinnhub) BasicFinancials(context.Context, string) (*finnhub.BasicFinancials, error) {
	if h.financials == nil {
		return nil, errors.New("metric endpoint down")
	}
	return h.financials, nil
}

func (h *fakeFinnhub) Quote(context.Context, string) (*finnhub.Quote, error) {
	if h.quote == nil {
		return nil, finnhub.ErrNotFound
	}
	return h.quote, nil
}

func (h *fakeFinnhub) CompanyNews(context.Context, string, time.Time) ([]contracts.NewsItem, error) {
	return h.news, nil
}

func (h *fakeFinnhub) GeneralNews(context.Context, string) ([]contracts.NewsItem, error) {
	h.newsCalls.Add(1)
	return h.news, nil
}

func (h *fakeFinnhub) Peers(_ context.Context, _ string, limit int) ([]string, error) {
	if len(h.peers) > limit {
		return h.peers[:limit], nil
	}
	return h.peers, nil
}

type fakeCrowd struct{ tally contracts.CrowdTally }

func (c fakeCrowd) CrowdTally(context.Context, string) (contracts.CrowdTally, error) {
	return c.tally, nil
}

func newTestCollector(src Sources, cache *redis.Cache, m *metrics.Recorder) *Collector {
	return New(src, cache, profile.Default().Collector, m, logger.NewNop())
}

func TestNormalizeSymbol(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{" aapl ", "AAPL", false},
		{"brk.b", "BRK.B", false},
		{"RDS-A", "RDS-A", false},
		{"GOOGL", "GOOGL", false},
		{"", "", true},
		{"TOOLONG", "", true},
		{"AAPL1", "", true},
		{"BRK.BBB", "", true},
		{"../etc", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := NormalizeSymbol(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTicker)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCollect_MergePriority(t *testing.T) {
	y := &fakeYahoo{
		chart: &yahoo.Chart{Name: "Apple Inc.", Price: f(189.5), High52W: f(199.6)},
		stats: &yahoo.KeyStatistics{
			ForwardPE:     f(28.1),
			TrailingPE:    f(31.0),
			PriceToBook:   f(99),
			InsiderHeld:   f(0.0007),
			DividendYield: f(0.0051),
			High52W:       f(1),
		},
		fundamentals: &yahoo.Fundamentals{
			TotalCurrentAssets: f(143e9),
			TotalLiabilities:   f(290e9),
			FreeCashFlow:       f(99e9),
		},
	}
	h := &fakeFinnhub{
		enabled:    true,
		profile:    &finnhub.CompanyProfile{Name: "APPLE INC", Industry: "Technology", MarketCapMillions: 2950000},
		financials: &finnhub.BasicFinancials{TrailingPE: f(30.5), PriceToBook: f(45.2), DividendYield: f(0)},
		quote:      &finnhub.Quote{Current: 1, Timestamp: 1},
		news:       []contracts.NewsItem{{Headline: "Apple ships"}},
		peers:      []string{"DELL", "HPQ", "SMCI", "HPE", "NTAP", "WDC"},
	}
	c := newTestCollector(Sources{Yahoo: y, Finnhub: h, Crowd: fakeCrowd{contracts.CrowdTally{Mentions: 30, Bullish: 20, Bearish: 5}}}, nil, nil)

	r, err := c.Collect(context.Background(), "aapl")
	require.NoError(t, err)

	assert.Equal(t, "AAPL", r.Symbol)
	assert.Equal(t, "Apple Inc.", r.Name, "chart name wins over profile")
	assert.Equal(t, "Technology", r.Sector)
	assert.Equal(t, 189.5, *r.Price, "quote does not override chart price")
	assert.Equal(t, 199.6, *r.High52W)
	assert.InDelta(t, 2.95e12, *r.MarketCap, 1)
	assert.Equal(t, 45.2, *r.PriceToBook, "finnhub metrics precede scraped statistics")
	assert.Equal(t, 0.0, *r.DividendYield, "zero is a present value")
	assert.Equal(t, 30.5, *r.PE)
	assert.Equal(t, 28.1, *r.PEChain(), "forward P/E preferred")
	assert.Equal(t, 0.0007, *r.InsiderHeld)
	assert.Equal(t, 143e9, *r.TotalCurrentAssets)
	assert.Equal(t, 99e9, *r.FreeCashFlow)
	assert.Len(t, r.News, 1)
	assert.Equal(t, []string{"DELL", "HPQ", "SMCI", "HPE", "NTAP"}, r.Peers)
	assert.Equal(t, 20, r.Crowd.Bullish)
	assert.False(t, r.FetchedAt.IsZero())

	assert.Equal(t, []string{
		SourceYahooChart,
		SourceFinnhubProfile,
		SourceFinnhubMetrics,
		SourceYahooStatistics,
		SourceYahooFundamentals,
		SourceFinnhubNews,
		SourceFinnhubPeers,
		SourceStockTwits,
	}, r.Sources, "quote contributed nothing")
}

func TestCollect_QuoteFallback(t *testing.T) {
	h := &fakeFinnhub{enabled: true, quote: &finnhub.Quote{Current: 42.5, Timestamp: 1}}
	c := newTestCollector(Sources{Yahoo: &fakeYahoo{}, Finnhub: h}, nil, nil)

	r, err := c.Collect(context.Background(), "KO")
	require.NoError(t, err)
	assert.Equal(t, 42.5, *r.Price)
	assert.Contains(t, r.Sources, SourceFinnhubQuote)
}

func TestCollect_ClassShareUsesYahooForm(t *testing.T) {
	y := &fakeYahoo{chart: &yahoo.Chart{Price: f(410)}}
	c := newTestCollector(Sources{Yahoo: y}, nil, nil)

	_, err := c.Collect(context.Background(), "brk.b")
	require.NoError(t, err)
	assert.Equal(t, []string{"BRK-B"}, y.symbols)
}

func TestCollect_Errors(t *testing.T) {
	c := newTestCollector(Sources{Yahoo: &fakeYahoo{}, Finnhub: &fakeFinnhub{}}, nil, nil)

	_, err := c.Collect(context.Background(), "$$$")
	assert.ErrorIs(t, err, ErrInvalidTicker)

	_, err = c.Collect(context.Background(), "ZZZZ")
	assert.ErrorIs(t, err, ErrTickerNotFound)
}

func TestCollect_CountsUpstreamFailures(t *testing.T) {
	m := metrics.New()
	y := &fakeYahoo{chart: &yahoo.Chart{Price: f(10)}, err: errors.New("boom")}
	h := &fakeFinnhub{enabled: true}
	c := newTestCollector(Sources{Yahoo: y, Finnhub: h}, nil, m)

	_, err := c.Collect(context.Background(), "T")
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(m.Registry(), "investo_upstream_errors_total")
	require.NoError(t, err)
	assert.Equal(t, 3, count, "statistics, fundamentals and metrics failed; not-found answers are not failures")
}

func TestCollect_Cached(t *testing.T) {
	y := &fakeYahoo{chart: &yahoo.Chart{Price: f(10)}}
	cache := redis.NewCache(redis.Disabled(), "test")
	c := newTestCollector(Sources{Yahoo: y}, cache, nil)

	first, err := c.Collect(context.Background(), "T")
	require.NoError(t, err)
	calls := y.calls.Load()

	second, err := c.Collect(context.Background(), "t")
	require.NoError(t, err)
	assert.Equal(t, calls, y.calls.Load())
	assert.Equal(t, *first.Price, *second.Price)
}

func TestGlobalNews(t *testing.T) {
	h := &fakeFinnhub{enabled: true, news: []contracts.NewsItem{{Headline: "Markets rally"}}}
	cache := redis.NewCache(redis.Disabled(), "test")
	c := newTestCollector(Sources{Finnhub: h}, cache, nil)

	items, err := c.GlobalNews(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Markets rally", items[0].Headline)

	_, err = c.GlobalNews(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), h.newsCalls.Load(), "second call served from cache")

	disabled := newTestCollector(Sources{Finnhub: &fakeFinnhub{}}, nil, nil)
	_, err = disabled.GlobalNews(context.Background())
	assert.ErrorIs(t, err, finnhub.ErrNoAPIKey)
}

func TestPeers(t *testing.T) {
	h := &fakeFinnhub{enabled: true, peers: []string{"PEP", "KDP"}}
	c := newTestCollector(Sources{Finnhub: h}, nil, nil)

	peers, err := c.Peers(context.Background(), "ko")
	require.NoError(t, err)
	assert.Equal(t, []string{"PEP", "KDP"}, peers)

	_, err = c.Peers(context.Background(), "bad ticker")
	assert.ErrorIs(t, err, ErrInvalidTicker)
}
