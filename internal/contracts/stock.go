package contracts

import "time"

// StockRecord is the normalized bag of upstream fields for one ticker.
// Every numeric field is optional: nil means the upstream did not supply it,
// while a zero value is a real measurement.
// ⭐ SSOT: collector → scoring data contract
type StockRecord struct {
	// Identity
	Symbol   string `json:"symbol"`
	Name     string `json:"name,omitempty"`
	Sector   string `json:"sector,omitempty"`
	Industry string `json:"industry,omitempty"`
	Summary  string `json:"summary,omitempty"`

	// Pricing
	Price     *float64 `json:"price"`
	High52W   *float64 `json:"high_52w"`
	Low52W    *float64 `json:"low_52w"`
	MarketCap *float64 `json:"market_cap"`

	// Earnings
	TrailingEPS             *float64 `json:"trailing_eps"`
	ForwardEPS              *float64 `json:"forward_eps"`
	EPS                     *float64 `json:"eps"` // generic, provider-defined period
	TrailingPE              *float64 `json:"trailing_pe"`
	ForwardPE               *float64 `json:"forward_pe"`
	PE                      *float64 `json:"pe"`                        // generic
	EarningsQuarterlyGrowth *float64 `json:"earnings_quarterly_growth"` // fraction
	EPSGrowth               *float64 `json:"eps_growth"`                // fraction, generic

	// Balance sheet
	TotalAssets             *float64 `json:"total_assets"`
	TotalCurrentAssets      *float64 `json:"total_current_assets"`
	TotalCurrentLiabilities *float64 `json:"total_current_liabilities"`
	TotalLiabilities        *float64 `json:"total_liabilities"`
	Inventory               *float64 `json:"inventory"`
	TotalCash               *float64 `json:"total_cash"`
	DebtToEquity            *float64 `json:"debt_to_equity"` // ratio, 1.5 = 150%
	CurrentRatio            *float64 `json:"current_ratio"`
	QuickRatio              *float64 `json:"quick_ratio"`

	// Profitability, percentage points (20 = 20%)
	ReturnOnEquity *float64 `json:"return_on_equity"`
	ReturnOnAssets *float64 `json:"return_on_assets"`
	ProfitMargin   *float64 `json:"profit_margin"`

	// Multiples
	PriceToBook  *float64 `json:"price_to_book"`
	PriceToSales *float64 `json:"price_to_sales"`

	// Cash flow & ownership
	FreeCashFlow      *float64 `json:"free_cash_flow"`
	InsiderHeld       *float64 `json:"insider_held"` // fraction
	SharesOutstanding *float64 `json:"shares_outstanding"`

	// Growth extras (fractions)
	InventoryGrowth *float64 `json:"inventory_growth"`
	SalesGrowth     *float64 `json:"sales_growth"`
	RevenueGrowth   *float64 `json:"revenue_growth"`

	// Dividends
	DividendYield *float64 `json:"dividend_yield"` // fraction, 0.02 = 2%

	// Display-only collections
	News    []NewsItem    `json:"news,omitempty"`
	Crowd   CrowdTally    `json:"crowd"`
	History *PriceHistory `json:"history,omitempty"`
	Peers   []string      `json:"peers,omitempty"`

	// Sources lists the upstreams that contributed at least one field
	Sources   []string  `json:"sources,omitempty"`
	FetchedAt time.Time `json:"fetched_at"`
}

// NewsItem is one company headline
type NewsItem struct {
	Headline    string    `json:"headline"`
	Source      string    `json:"source,omitempty"`
	URL         string    `json:"url,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

// CrowdTally counts bullish/bearish tags from the social stream
type CrowdTally struct {
	Mentions int `json:"mentions"`
	Bullish  int `json:"bullish"`
	Bearish  int `json:"bearish"`
}

// PriceHistory is a chronological OHLCV series for charting
type PriceHistory struct {
	Period  string      `json:"period"`
	Dates   []time.Time `json:"dates"`
	Closes  []float64   `json:"closes"`
	Highs   []float64   `json:"highs"`
	Lows    []float64   `json:"lows"`
	Volumes []float64   `json:"volumes"`
}

// Len returns the number of points in the series
func (h *PriceHistory) Len() int {
	if h == nil {
		return 0
	}
	return len(h.Closes)
}

// Float returns a pointer to v; used to build optional fields
func Float(v float64) *float64 {
	return &v
}

// Fallback chains. Each returns the first present field in order.

// PEChain: forward P/E, then trailing, then generic
func (r *StockRecord) PEChain() *float64 {
	return firstPresent(r.ForwardPE, r.TrailingPE, r.PE)
}

// EPSForValue: trailing EPS, then generic
func (r *StockRecord) EPSForValue() *float64 {
	return firstPresent(r.TrailingEPS, r.EPS)
}

// GrowthFraction: quarterly earnings growth, then generic EPS growth
func (r *StockRecord) GrowthFraction() *float64 {
	return firstPresent(r.EarningsQuarterlyGrowth, r.EPSGrowth)
}

// SalesGrowthChain: sales growth, then revenue growth
func (r *StockRecord) SalesGrowthChain() *float64 {
	return firstPresent(r.SalesGrowth, r.RevenueGrowth)
}

// HasIdentity reports whether any upstream recognised the ticker
func (r *StockRecord) HasIdentity() bool {
	return r.Price != nil || r.Name != ""
}

func firstPresent(vals ...*float64) *float64 {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}
