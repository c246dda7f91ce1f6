package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// KeyStatistics holds the figures scraped from the key-statistics page.
// Units follow contracts.StockRecord: percentages of return/margin in points,
// growth/yield/ownership as fractions, debt/equity as a ratio.
type KeyStatistics struct {
	MarketCap               *float64
	TrailingPE              *float64
	ForwardPE               *float64
	PriceToSales            *float64
	PriceToBook             *float64
	ProfitMargin            *float64
	ReturnOnAssets          *float64
	ReturnOnEquity          *float64
	RevenueGrowth           *float64
	EarningsQuarterlyGrowth *float64
	TotalCash               *float64
	DebtToEquity            *float64
	CurrentRatio            *float64
	TrailingEPS             *float64
	FreeCashFlow            *float64
	SharesOutstanding       *float64
	InsiderHeld             *float64
	DividendYield           *float64
	High52W                 *float64
	Low52W                  *float64
}

// FetchKeyStatistics scrapes /quote/{symbol}/key-statistics
func (c *Client) FetchKeyStatistics(ctx context.Context, symbol string) (*KeyStatistics, error) {
	fullURL := fmt.Sprintf("%s/%s/key-statistics", c.quoteURL, url.PathEscape(symbol))

	body, err := c.httpClient.GetBody(ctx, fullURL, map[string]string{"Accept": "text/html"})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch key statistics %s: %w", symbol, err)
	}

	stats, found := parseKeyStatistics(string(body))
	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"fields": found,
	}).Debug("Parsed key statistics")

	return stats, nil
}

// footnote matches the superscript digits Yahoo appends to labels ("Forward Annual Dividend Yield 4")
var footnote = regexp.MustCompile(`\s+\d+$`)

type statField struct {
	prefix string
	target func(s *KeyStatistics) **float64
	unit   statUnit
}

type statUnit int

const (
	unitRaw      statUnit = iota // number as shown, suffixes expanded
	unitPoints                   // "15.3%" → 15.3
	unitFraction                 // "15.3%" → 0.153
	unitRatioPct                 // "151.86%" or "151.86" → 1.5186
)

// statFields maps lower-cased label prefixes to fields, checked in order
var statFields = []statField{
	{"market cap", func(s *KeyStatistics) **float64 { return &s.MarketCap }, unitRaw},
	{"trailing p/e", func(s *KeyStatistics) **float64 { return &s.TrailingPE }, unitRaw},
	{"forward p/e", func(s *KeyStatistics) **float64 { return &s.ForwardPE }, unitRaw},
	{"price/sales", func(s *KeyStatistics) **float64 { return &s.PriceToSales }, unitRaw},
	{"price/book", func(s *KeyStatistics) **float64 { return &s.PriceToBook }, unitRaw},
	{"profit margin", func(s *KeyStatistics) **float64 { return &s.ProfitMargin }, unitPoints},
	{"return on assets", func(s *KeyStatistics) **float64 { return &s.ReturnOnAssets }, unitPoints},
	{"return on equity", func(s *KeyStatistics) **float64 { return &s.ReturnOnEquity }, unitPoints},
	{"quarterly revenue growth", func(s *KeyStatistics) **float64 { return &s.RevenueGrowth }, unitFraction},
	{"quarterly earnings growth", func(s *KeyStatistics) **float64 { return &s.EarningsQuarterlyGrowth }, unitFraction},
	{"total cash (", func(s *KeyStatistics) **float64 { return &s.TotalCash }, unitRaw},
	{"total debt/equity", func(s *KeyStatistics) **float64 { return &s.DebtToEquity }, unitRatioPct},
	{"current ratio", func(s *KeyStatistics) **float64 { return &s.CurrentRatio }, unitRaw},
	{"diluted eps", func(s *KeyStatistics) **float64 { return &s.TrailingEPS }, unitRaw},
	{"levered free cash flow", func(s *KeyStatistics) **float64 { return &s.FreeCashFlow }, unitRaw},
	{"shares outstanding", func(s *KeyStatistics) **float64 { return &s.SharesOutstanding }, unitRaw},
	{"% held by insiders", func(s *KeyStatistics) **float64 { return &s.InsiderHeld }, unitFraction},
	{"forward annual dividend yield", func(s *KeyStatistics) **float64 { return &s.DividendYield }, unitFraction},
	{"52 week high", func(s *KeyStatistics) **float64 { return &s.High52W }, unitRaw},
	{"52 week low", func(s *KeyStatistics) **float64 { return &s.Low52W }, unitRaw},
}

// parseKeyStatistics walks every two-cell table row; the first match of a label wins.
// Returns the statistics and how many fields were filled.
func parseKeyStatistics(html string) (*KeyStatistics, int) {
	stats := &KeyStatistics{}
	found := 0

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return stats, 0
	}

	doc.Find("table tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}

		label := strings.ToLower(strings.TrimSpace(cells.First().Text()))
		label = footnote.ReplaceAllString(label, "")
		raw := strings.TrimSpace(cells.Last().Text())

		for _, field := range statFields {
			if !strings.HasPrefix(label, field.prefix) {
				continue
			}
			dst := field.target(stats)
			if *dst != nil {
				return
			}
			if v, ok := parseStatValue(raw, field.unit); ok {
				*dst = &v
				found++
			}
			return
		}
	})

	return stats, found
}

// parseStatValue handles "1.23B", "-4.5%", "2,345.10", "N/A" and "--"
func parseStatValue(raw string, unit statUnit) (float64, bool) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "$", "")
	if s == "" || strings.EqualFold(s, "N/A") || s == "--" || s == "-" {
		return 0, false
	}

	isPct := strings.HasSuffix(s, "%")
	s = strings.TrimSuffix(s, "%")

	multiplier := 1.0
	if n := len(s); n > 0 {
		switch s[n-1] {
		case 'k', 'K':
			multiplier = 1e3
		case 'M':
			multiplier = 1e6
		case 'B':
			multiplier = 1e9
		case 'T':
			multiplier = 1e12
		}
		if multiplier != 1 {
			s = s[:n-1]
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	v *= multiplier

	switch unit {
	case unitFraction:
		if isPct {
			v /= 100
		}
	case unitRatioPct:
		v /= 100
	}
	return v, true
}
