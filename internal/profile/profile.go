package profile

import (
	"strings"
	"time"
)

// Profile holds the analysis tunables that are not secrets or endpoints.
// Zero values in a YAML file are kept; only absent keys take defaults.
type Profile struct {
	Name      string    `yaml:"name" json:"name" default:"default" validate:"required"`
	Sentiment Sentiment `yaml:"sentiment" json:"sentiment"`
	Collector Collector `yaml:"collector" json:"collector"`
	Report    Report    `yaml:"report" json:"report"`
}

// Sentiment tunes the social-sentiment scorer
type Sentiment struct {
	Subreddits       []string           `yaml:"subreddits" json:"subreddits" default:"[\"investing\",\"stocks\",\"StockMarket\",\"wallstreetbets\"]" validate:"required,min=1,dive,required"`
	SubredditWeights map[string]float64 `yaml:"subreddit_weights" json:"subreddit_weights" default:"{\"investing\":1.0,\"stocks\":0.9,\"StockMarket\":0.8,\"wallstreetbets\":0.5}" validate:"dive,keys,required,endkeys,gt=0,lte=1"`
	DefaultWeight    float64            `yaml:"default_weight" json:"default_weight" default:"0.7" validate:"gt=0,lte=1"`
	LookbackDays     int                `yaml:"lookback_days" json:"lookback_days" default:"14" validate:"gte=2,lte=90"`
	MinPostScore     int                `yaml:"min_post_score" json:"min_post_score" default:"5" validate:"gte=0"`
	PostLimit        int                `yaml:"post_limit" json:"post_limit" default:"100" validate:"gte=1,lte=100"`
	QualityKeywords  []string           `yaml:"quality_keywords" json:"quality_keywords" default:"[\"dd\",\"earnings\",\"guidance\",\"undervalued\",\"buyback\",\"forecast\",\"results\"]" validate:"dive,required"`
	CacheTTL         time.Duration      `yaml:"cache_ttl" json:"cache_ttl" default:"30m"`
}

// Weight returns the credibility weight of a subreddit
func (s Sentiment) Weight(subreddit string) float64 {
	if w, ok := s.SubredditWeights[subreddit]; ok {
		return w
	}
	for name, w := range s.SubredditWeights {
		if strings.EqualFold(name, subreddit) {
			return w
		}
	}
	return s.DefaultWeight
}

// Collector tunes the data-fetch stage
type Collector struct {
	HistoryPeriod  string        `yaml:"history_period" json:"history_period" default:"1y" validate:"oneof=1mo 3mo 6mo 1y 2y 5y 10y ytd max"`
	PeersLimit     int           `yaml:"peers_limit" json:"peers_limit" default:"5" validate:"gte=0,lte=20"`
	NewsCategory   string        `yaml:"news_category" json:"news_category" default:"general" validate:"oneof=general forex crypto merger"`
	RecordCacheTTL time.Duration `yaml:"record_cache_ttl" json:"record_cache_ttl" default:"10m"`
}

// Report tunes rendering
type Report struct {
	Formats      []string `yaml:"formats" json:"formats" default:"[\"html\"]" validate:"required,min=1,dive,oneof=html pdf"`
	HistoryChart bool     `yaml:"history_chart" json:"history_chart" default:"true"`
}
