package finnhub

import (
	"context"
	"net/url"
)

// BasicFinancials is /stock/metric?metric=all, normalised to StockRecord units
type BasicFinancials struct {
	TrailingPE     *float64
	TrailingEPS    *float64
	EPSGrowth      *float64 // fraction, quarterly yoy
	PriceToBook    *float64
	PriceToSales   *float64
	ReturnOnEquity *float64 // percentage points
	ReturnOnAssets *float64 // percentage points
	ProfitMargin   *float64 // percentage points
	CurrentRatio   *float64
	QuickRatio     *float64
	DebtToEquity   *float64 // ratio
	DividendYield  *float64 // fraction
	RevenueGrowth  *float64 // fraction, quarterly yoy
	High52W        *float64
	Low52W         *float64
	MarketCap      *float64
}

type metricResponse struct {
	Metric map[string]interface{} `json:"metric"`
}

// BasicFinancials fetches the metric=all snapshot
func (c *Client) BasicFinancials(ctx context.Context, symbol string) (*BasicFinancials, error) {
	var resp metricResponse
	params := url.Values{"symbol": {symbol}, "metric": {"all"}}
	if err := c.get(ctx, "/stock/metric", params, &resp); err != nil {
		return nil, err
	}
	if len(resp.Metric) == 0 {
		return nil, ErrNotFound
	}
	return parseMetrics(resp.Metric), nil
}

// parseMetrics picks the first present key of each chain. Finnhub reports
// growth, yield and margins in percent; fractions are derived here.
func parseMetrics(m map[string]interface{}) *BasicFinancials {
	num := func(keys ...string) *float64 {
		for _, k := range keys {
			if v, ok := m[k].(float64); ok {
				return &v
			}
		}
		return nil
	}
	fraction := func(keys ...string) *float64 {
		v := num(keys...)
		if v == nil {
			return nil
		}
		f := *v / 100
		return &f
	}

	bf := &BasicFinancials{
		TrailingPE:     num("peTTM", "peBasicExclExtraTTM", "peExclExtraTTM"),
		TrailingEPS:    num("epsTTM", "epsBasicExclExtraItemsTTM", "epsExclExtraItemsTTM"),
		EPSGrowth:      fraction("epsGrowthQuarterlyYoy", "epsGrowthTTMYoy"),
		PriceToBook:    num("pbQuarterly", "pbAnnual", "pb"),
		PriceToSales:   num("psTTM", "psAnnual"),
		ReturnOnEquity: num("roeTTM", "roeRfy"),
		ReturnOnAssets: num("roaTTM", "roaRfy"),
		ProfitMargin:   num("netProfitMarginTTM", "netProfitMarginAnnual"),
		CurrentRatio:   num("currentRatioQuarterly", "currentRatioAnnual"),
		QuickRatio:     num("quickRatioQuarterly", "quickRatioAnnual"),
		DebtToEquity:   num("totalDebt/totalEquityQuarterly", "totalDebt/totalEquityAnnual"),
		DividendYield:  fraction("currentDividendYieldTTM", "dividendYieldIndicatedAnnual"),
		RevenueGrowth:  fraction("revenueGrowthQuarterlyYoy", "revenueGrowthTTMYoy"),
		High52W:        num("52WeekHigh"),
		Low52W:         num("52WeekLow"),
	}
	if mc := num("marketCapitalization"); mc != nil {
		v := *mc * 1e6
		bf.MarketCap = &v
	}
	return bf
}
