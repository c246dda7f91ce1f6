package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Fundamentals are the latest annual balance-sheet and cash-flow figures
type Fundamentals struct {
	AsOf                    string
	TotalAssets             *float64
	TotalCurrentAssets      *float64
	TotalCurrentLiabilities *float64
	TotalLiabilities        *float64
	Inventory               *float64
	FreeCashFlow            *float64
	InventoryGrowth         *float64 // year over year, fraction
}

// Timeseries type names requested from the fundamentals endpoint
const (
	seriesTotalAssets      = "annualTotalAssets"
	seriesCurrentAssets    = "annualCurrentAssets"
	seriesCurrentLiabs     = "annualCurrentLiabilities"
	seriesTotalLiabs       = "annualTotalLiabilitiesNetMinorityInterest"
	seriesInventory        = "annualInventory"
	seriesFreeCashFlow     = "annualFreeCashFlow"
	fundamentalsLookbackYr = 5
)

type timeseriesResponse struct {
	Timeseries struct {
		Result []map[string]json.RawMessage `json:"result"`
	} `json:"timeseries"`
}

type timeseriesMeta struct {
	Type []string `json:"type"`
}

type timeseriesPoint struct {
	AsOfDate      string `json:"asOfDate"`
	ReportedValue struct {
		Raw float64 `json:"raw"`
	} `json:"reportedValue"`
}

// FetchFundamentals loads the annual statement timeseries for symbol
func (c *Client) FetchFundamentals(ctx context.Context, symbol string) (*Fundamentals, error) {
	now := time.Now().UTC()
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("type", strings.Join([]string{
		seriesTotalAssets, seriesCurrentAssets, seriesCurrentLiabs,
		seriesTotalLiabs, seriesInventory, seriesFreeCashFlow,
	}, ","))
	params.Set("period1", strconv.FormatInt(now.AddDate(-fundamentalsLookbackYr, 0, 0).Unix(), 10))
	params.Set("period2", strconv.FormatInt(now.Unix(), 10))
	fullURL := fmt.Sprintf("%s/%s?%s", c.timeseriesURL, url.PathEscape(symbol), params.Encode())

	var resp timeseriesResponse
	if err := c.httpClient.GetJSON(ctx, fullURL, nil, &resp); err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch fundamentals %s: %w", symbol, err)
	}

	return parseTimeseries(resp), nil
}

// parseTimeseries keeps the most recent reported value of every series
func parseTimeseries(resp timeseriesResponse) *Fundamentals {
	series := make(map[string][]timeseriesPoint)

	for _, result := range resp.Timeseries.Result {
		var meta timeseriesMeta
		if err := json.Unmarshal(result["meta"], &meta); err != nil || len(meta.Type) == 0 {
			continue
		}
		name := meta.Type[0]

		var points []*timeseriesPoint
		if err := json.Unmarshal(result[name], &points); err != nil {
			continue
		}
		for _, p := range points {
			if p != nil && p.AsOfDate != "" {
				series[name] = append(series[name], *p)
			}
		}
	}

	f := &Fundamentals{}
	var asOf string
	latest := func(name string) *float64 {
		pts := series[name]
		if len(pts) == 0 {
			return nil
		}
		best := pts[0]
		for _, p := range pts[1:] {
			if p.AsOfDate > best.AsOfDate {
				best = p
			}
		}
		if best.AsOfDate > asOf {
			asOf = best.AsOfDate
		}
		v := best.ReportedValue.Raw
		return &v
	}

	f.TotalAssets = latest(seriesTotalAssets)
	f.TotalCurrentAssets = latest(seriesCurrentAssets)
	f.TotalCurrentLiabilities = latest(seriesCurrentLiabs)
	f.TotalLiabilities = latest(seriesTotalLiabs)
	f.Inventory = latest(seriesInventory)
	f.FreeCashFlow = latest(seriesFreeCashFlow)
	f.InventoryGrowth = yearOverYear(series[seriesInventory])
	f.AsOf = asOf

	return f
}

// yearOverYear compares the two most recent points; nil when the prior is zero or missing
func yearOverYear(pts []timeseriesPoint) *float64 {
	if len(pts) < 2 {
		return nil
	}
	var last, prev *timeseriesPoint
	for i := range pts {
		p := &pts[i]
		switch {
		case last == nil || p.AsOfDate > last.AsOfDate:
			prev, last = last, p
		case prev == nil || p.AsOfDate > prev.AsOfDate:
			prev = p
		}
	}
	if prev == nil || prev.ReportedValue.Raw == 0 {
		return nil
	}
	g := (last.ReportedValue.Raw - prev.ReportedValue.Raw) / prev.ReportedValue.Raw
	return &g
}
