package finnhub

import (
	"context"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/wonny/investo/internal/contracts"
)

const (
	// NewsLookback is how far back company news is requested
	NewsLookback = 7 * 24 * time.Hour
	// MaxHeadlines caps the list handed to reports
	MaxHeadlines = 5
	// MaxHeadlineRunes truncates long headlines
	MaxHeadlineRunes = 150
)

type newsArticle struct {
	Category string `json:"category"`
	Datetime int64  `json:"datetime"`
	Headline string `json:"headline"`
	ID       int64  `json:"id"`
	Source   string `json:"source"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
}

// CompanyNews fetches headlines for the symbol over the last NewsLookback
func (c *Client) CompanyNews(ctx context.Context, symbol string, now time.Time) ([]contracts.NewsItem, error) {
	params := url.Values{
		"symbol": {symbol},
		"from":   {now.Add(-NewsLookback).Format("2006-01-02")},
		"to":     {now.Format("2006-01-02")},
	}

	var articles []newsArticle
	if err := c.get(ctx, "/company-news", params, &articles); err != nil {
		return nil, err
	}
	return headlines(articles), nil
}

// GeneralNews fetches market-wide headlines for a category (general, forex, crypto, merger)
func (c *Client) GeneralNews(ctx context.Context, category string) ([]contracts.NewsItem, error) {
	if category == "" {
		category = "general"
	}

	var articles []newsArticle
	if err := c.get(ctx, "/news", url.Values{"category": {category}}, &articles); err != nil {
		return nil, err
	}
	return headlines(articles), nil
}

// headlines orders articles newest first, drops empty and repeated headlines,
// truncates long ones and keeps at most MaxHeadlines
func headlines(articles []newsArticle) []contracts.NewsItem {
	sorted := make([]newsArticle, len(articles))
	copy(sorted, articles)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Datetime > sorted[j].Datetime
	})

	seen := make(map[string]bool)
	items := make([]contracts.NewsItem, 0, MaxHeadlines)
	for _, a := range sorted {
		headline := strings.TrimSpace(a.Headline)
		if headline == "" {
			continue
		}
		key := strings.ToLower(headline)
		if seen[key] {
			continue
		}
		seen[key] = true

		items = append(items, contracts.NewsItem{
			Headline:    truncate(headline, MaxHeadlineRunes),
			Source:      a.Source,
			URL:         a.URL,
			PublishedAt: time.Unix(a.Datetime, 0).UTC(),
		})
		if len(items) == MaxHeadlines {
			break
		}
	}
	return items
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimSpace(string(runes[:max-3])) + "..."
}
