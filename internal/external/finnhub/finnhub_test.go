package finnhub

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/investo/pkg/config"
	"github.com/wonny/investo/pkg/httputil"
	"github.com/wonny/investo/pkg/logger"
)

func newTestClient(serverURL, apiKey string) *Client {
	log := logger.NewNop()
	httpClient := httputil.New(&config.Config{HTTPTimeout: 2 * time.Second}, log).DisableRetry()
	return NewClient(httpClient, config.FinnhubConfig{APIKey: apiKey, BaseURL: serverURL}, log)
}

// newTestServer answers each path with a fixed body and records the token header
func newTestServer(t *testing.T, bodies map[string]string) (*httptest.Server, *[]string) {
	t.Helper()
	var tokens []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokens = append(tokens, r.Header.Get("X-Finnhub-Token"))
		assert.Empty(t, r.URL.Query().Get("token"))
		body, ok := bodies[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &tokens
}

func TestClient_NoAPIKey(t *testing.T) {
	c := newTestClient("http://127.0.0.1:1", "")
	assert.False(t, c.Enabled())

	_, err := c.Profile(context.Background(), "AAPL")
	assert.ErrorIs(t, err, ErrNoAPIKey)
	_, err = c.Quote(context.Background(), "AAPL")
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestProfile(t *testing.T) {
	srv, tokens := newTestServer(t, map[string]string{
		"/stock/profile2": `{"ticker":"AAPL","name":"Apple Inc","finnhubIndustry":"Technology","marketCapitalization":2950000.5,"shareOutstanding":15550.06}`,
	})
	c := newTestClient(srv.URL, "secret")

	profile, err := c.Profile(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc", profile.Name)
	assert.Equal(t, "Technology", profile.Industry)
	require.NotNil(t, profile.MarketCap())
	assert.InDelta(t, 2.9500005e12, *profile.MarketCap(), 1)
	require.NotNil(t, profile.SharesOutstanding())
	assert.InDelta(t, 15550.06e6, *profile.SharesOutstanding(), 1)
	assert.Equal(t, []string{"secret"}, *tokens)
}

func TestProfile_Empty(t *testing.T) {
	srv, _ := newTestServer(t, map[string]string{"/stock/profile2": `{}`})
	c := newTestClient(srv.URL, "secret")

	_, err := c.Profile(context.Background(), "ZZZZ")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestQuote(t *testing.T) {
	srv, _ := newTestServer(t, map[string]string{
		"/quote": `{"c":189.5,"d":1.2,"dp":0.64,"h":190.1,"l":187.3,"o":188,"pc":188.3,"t":1700179200}`,
	})
	c := newTestClient(srv.URL, "secret")

	q, err := c.Quote(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 189.5, q.Current)
	assert.Equal(t, 188.3, q.PreviousClose)

	srv2, _ := newTestServer(t, map[string]string{"/quote": `{"c":0,"d":null,"dp":null,"h":0,"l":0,"o":0,"pc":0,"t":0}`})
	_, err = newTestClient(srv2.URL, "secret").Quote(context.Background(), "ZZZZ")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPeers(t *testing.T) {
	srv, _ := newTestServer(t, map[string]string{
		"/stock/peers": `["AAPL","DELL","HPQ","SMCI","HPE","NTAP"]`,
	})
	c := newTestClient(srv.URL, "secret")

	peers, err := c.Peers(context.Background(), "aapl", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"DELL", "HPQ", "SMCI"}, peers)
}

func TestParseMetrics(t *testing.T) {
	raw := `{
		"peTTM": 30.5,
		"epsTTM": 6.13,
		"epsGrowthQuarterlyYoy": 12.5,
		"pbAnnual": 45.2,
		"psTTM": 7.6,
		"roeTTM": 147.2,
		"roaTTM": 28.3,
		"netProfitMarginTTM": 25.3,
		"currentRatioQuarterly": 0.99,
		"quickRatioQuarterly": 0.84,
		"totalDebt/totalEquityQuarterly": 1.8,
		"currentDividendYieldTTM": 0.5,
		"revenueGrowthQuarterlyYoy": -1.4,
		"52WeekHigh": 199.62,
		"52WeekLow": 164.08,
		"marketCapitalization": 2950000,
		"beta": null
	}`
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &m))

	bf := parseMetrics(m)
	require.NotNil(t, bf.TrailingPE)
	assert.Equal(t, 30.5, *bf.TrailingPE)
	assert.InDelta(t, 0.125, *bf.EPSGrowth, 1e-12)
	assert.Equal(t, 45.2, *bf.PriceToBook, "falls back to the annual key")
	assert.Equal(t, 147.2, *bf.ReturnOnEquity, "returns stay in points")
	assert.InDelta(t, 0.005, *bf.DividendYield, 1e-12)
	assert.InDelta(t, -0.014, *bf.RevenueGrowth, 1e-12)
	assert.Equal(t, 1.8, *bf.DebtToEquity)
	assert.InDelta(t, 2.95e12, *bf.MarketCap, 1)
}

func TestParseMetrics_ZeroIsPresent(t *testing.T) {
	bf := parseMetrics(map[string]interface{}{"currentDividendYieldTTM": 0.0})
	require.NotNil(t, bf.DividendYield)
	assert.Equal(t, 0.0, *bf.DividendYield)
	assert.Nil(t, bf.TrailingPE)
}

func TestBasicFinancials(t *testing.T) {
	srv, _ := newTestServer(t, map[string]string{
		"/stock/metric": `{"metric":{"peTTM":12.1,"epsTTM":3.2},"series":{}}`,
	})
	c := newTestClient(srv.URL, "secret")

	bf, err := c.BasicFinancials(context.Background(), "KO")
	require.NoError(t, err)
	assert.Equal(t, 12.1, *bf.TrailingPE)

	srv2, _ := newTestServer(t, map[string]string{"/stock/metric": `{"metric":{}}`})
	_, err = newTestClient(srv2.URL, "secret").BasicFinancials(context.Background(), "ZZZZ")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHeadlines(t *testing.T) {
	long := strings.Repeat("x", 200)
	articles := []newsArticle{
		{Datetime: 100, Headline: "Old news"},
		{Datetime: 500, Headline: "Fresh news", Source: "Reuters"},
		{Datetime: 400, Headline: "fresh news"},
		{Datetime: 300, Headline: "  "},
		{Datetime: 450, Headline: long},
		{Datetime: 50, Headline: "A"},
		{Datetime: 40, Headline: "B"},
		{Datetime: 30, Headline: "C"},
	}

	items := headlines(articles)
	require.Len(t, items, MaxHeadlines)
	assert.Equal(t, "Fresh news", items[0].Headline)
	assert.Equal(t, "Reuters", items[0].Source)
	assert.Equal(t, time.Unix(500, 0).UTC(), items[0].PublishedAt)
	assert.Len(t, []rune(items[1].Headline), MaxHeadlineRunes)
	assert.True(t, strings.HasSuffix(items[1].Headline, "..."))
	assert.Equal(t, "Old news", items[2].Headline)
	assert.Equal(t, "A", items[3].Headline)
	assert.Equal(t, "B", items[4].Headline)
}

func TestCompanyNews(t *testing.T) {
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		_, _ = w.Write([]byte(`[{"datetime":1700000000,"headline":"Apple ships","source":"CNBC","url":"https://example.com/a"}]`))
	}))
	defer srv.Close()

	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	items, err := newTestClient(srv.URL, "secret").CompanyNews(context.Background(), "AAPL", now)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Apple ships", items[0].Headline)
	assert.Contains(t, query, "from=2024-03-08")
	assert.Contains(t, query, "to=2024-03-15")
}
