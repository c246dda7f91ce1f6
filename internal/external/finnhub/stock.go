package finnhub

import (
	"context"
	"net/url"
	"strings"
)

// CompanyProfile is /stock/profile2
type CompanyProfile struct {
	Ticker            string  `json:"ticker"`
	Name              string  `json:"name"`
	Country           string  `json:"country"`
	Currency          string  `json:"currency"`
	Exchange          string  `json:"exchange"`
	Industry          string  `json:"finnhubIndustry"`
	WebURL            string  `json:"weburl"`
	MarketCapMillions float64 `json:"marketCapitalization"`
	SharesMillions    float64 `json:"shareOutstanding"`
}

// MarketCap in currency units
func (p *CompanyProfile) MarketCap() *float64 {
	if p.MarketCapMillions == 0 {
		return nil
	}
	v := p.MarketCapMillions * 1e6
	return &v
}

// SharesOutstanding in shares
func (p *CompanyProfile) SharesOutstanding() *float64 {
	if p.SharesMillions == 0 {
		return nil
	}
	v := p.SharesMillions * 1e6
	return &v
}

// Profile fetches the company profile
func (c *Client) Profile(ctx context.Context, symbol string) (*CompanyProfile, error) {
	var profile CompanyProfile
	if err := c.get(ctx, "/stock/profile2", url.Values{"symbol": {symbol}}, &profile); err != nil {
		return nil, err
	}
	if profile.Name == "" && profile.Ticker == "" {
		return nil, ErrNotFound
	}
	return &profile, nil
}

// Quote is /quote
type Quote struct {
	Current       float64 `json:"c"`
	Change        float64 `json:"d"`
	ChangePercent float64 `json:"dp"`
	High          float64 `json:"h"`
	Low           float64 `json:"l"`
	Open          float64 `json:"o"`
	PreviousClose float64 `json:"pc"`
	Timestamp     int64   `json:"t"`
}

// Quote fetches the latest quote. Unknown symbols come back as all zeros.
func (c *Client) Quote(ctx context.Context, symbol string) (*Quote, error) {
	var q Quote
	if err := c.get(ctx, "/quote", url.Values{"symbol": {symbol}}, &q); err != nil {
		return nil, err
	}
	if q.Current == 0 && q.Timestamp == 0 {
		return nil, ErrNotFound
	}
	return &q, nil
}

// Peers fetches same-industry tickers, excluding the symbol itself
func (c *Client) Peers(ctx context.Context, symbol string, limit int) ([]string, error) {
	var peers []string
	if err := c.get(ctx, "/stock/peers", url.Values{"symbol": {symbol}}, &peers); err != nil {
		return nil, err
	}

	out := make([]string, 0, len(peers))
	for _, p := range peers {
		if strings.EqualFold(p, symbol) {
			continue
		}
		out = append(out, p)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}
