package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/wonny/investo/internal/contracts"
)

// Chart is the quote snapshot plus daily history from the chart endpoint
type Chart struct {
	Symbol   string
	Name     string
	Currency string
	Price    *float64
	High52W  *float64
	Low52W   *float64
	History  *contracts.PriceHistory
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string   `json:"symbol"`
				Currency           string   `json:"currency"`
				LongName           string   `json:"longName"`
				ShortName          string   `json:"shortName"`
				RegularMarketPrice *float64 `json:"regularMarketPrice"`
				FiftyTwoWeekHigh   *float64 `json:"fiftyTwoWeekHigh"`
				FiftyTwoWeekLow    *float64 `json:"fiftyTwoWeekLow"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close  []*float64 `json:"close"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchChart loads the quote meta and daily bars for period ("1y", "6mo", ...)
func (c *Client) FetchChart(ctx context.Context, symbol, period string) (*Chart, error) {
	params := url.Values{}
	params.Set("interval", "1d")
	params.Set("range", period)
	fullURL := fmt.Sprintf("%s/%s?%s", c.chartURL, url.PathEscape(symbol), params.Encode())

	var resp chartResponse
	if err := c.httpClient.GetJSON(ctx, fullURL, nil, &resp); err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch chart %s: %w", symbol, err)
	}

	chart, err := parseChart(resp, period)
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"points": chart.History.Len(),
	}).Debug("Fetched chart")

	return chart, nil
}

// parseChart drops bars whose close is null; Yahoo emits those for halted sessions
func parseChart(resp chartResponse, period string) (*Chart, error) {
	if resp.Chart.Error != nil || len(resp.Chart.Result) == 0 {
		return nil, ErrNotFound
	}
	result := resp.Chart.Result[0]
	meta := result.Meta

	chart := &Chart{
		Symbol:   meta.Symbol,
		Name:     meta.LongName,
		Currency: meta.Currency,
		Price:    meta.RegularMarketPrice,
		High52W:  meta.FiftyTwoWeekHigh,
		Low52W:   meta.FiftyTwoWeekLow,
	}
	if chart.Name == "" {
		chart.Name = meta.ShortName
	}

	if len(result.Indicators.Quote) == 0 || len(result.Timestamp) == 0 {
		return chart, nil
	}

	q := result.Indicators.Quote[0]
	history := &contracts.PriceHistory{Period: period}
	for i, ts := range result.Timestamp {
		closeVal := at(q.Close, i)
		if closeVal == nil {
			continue
		}
		history.Dates = append(history.Dates, time.Unix(ts, 0).UTC())
		history.Closes = append(history.Closes, *closeVal)
		history.Highs = append(history.Highs, valueOr(at(q.High, i), *closeVal))
		history.Lows = append(history.Lows, valueOr(at(q.Low, i), *closeVal))
		history.Volumes = append(history.Volumes, valueOr(at(q.Volume, i), 0))
	}
	if history.Len() > 0 {
		chart.History = history
	}

	return chart, nil
}

func at(vals []*float64, i int) *float64 {
	if i < len(vals) {
		return vals[i]
	}
	return nil
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}
