package contracts

import "time"

// Sentiment verdicts
const (
	SentimentBullish = "Bullish"
	SentimentNeutral = "Neutral"
	SentimentBearish = "Bearish"
)

// NeutralSentimentScore substitutes for an unavailable sentiment source
const NeutralSentimentScore = 50.0

// SentimentScorecard is the social-listening summary for one ticker.
// Score is 0-100; Verdict is empty when no sentiment could be measured.
type SentimentScorecard struct {
	Symbol  string  `json:"symbol"`
	Score   float64 `json:"score"`
	Verdict string  `json:"verdict,omitempty"`

	// Tone classifies the weighted average post polarity
	Tone              string  `json:"tone,omitempty"`
	Mentions          int     `json:"mentions"`
	AvgSentiment      float64 `json:"avg_sentiment"`
	StdDev            float64 `json:"std_dev"`
	Momentum          float64 `json:"momentum"`
	Buzz              float64 `json:"buzz"`
	ReliabilityWeight float64 `json:"reliability_weight"`
	DDRatio           float64 `json:"dd_ratio"`
	Engagement        float64 `json:"engagement"`
	Confidence        float64 `json:"confidence"`
	WeightedBias      float64 `json:"weighted_bias"`
	ReliabilityIndex  float64 `json:"reliability_index"`

	Subreddits map[string]int `json:"subreddits,omitempty"`
	TopPosts   []SocialPost   `json:"top_posts,omitempty"`

	Note        string    `json:"note,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
}

// SocialPost is one scored forum post
type SocialPost struct {
	Title     string    `json:"title"`
	Subreddit string    `json:"subreddit"`
	Score     int       `json:"score"`
	Comments  int       `json:"comments"`
	Sentiment float64   `json:"sentiment"`
	Quality   bool      `json:"quality"`
	URL       string    `json:"url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NeutralSentiment is the stand-in when no sentiment source answered
func NeutralSentiment(symbol, note string) *SentimentScorecard {
	return &SentimentScorecard{
		Symbol:      symbol,
		Score:       NeutralSentimentScore,
		Note:        note,
		GeneratedAt: time.Now().UTC(),
	}
}

// Available reports whether the scorecard carries a measured verdict
func (s *SentimentScorecard) Available() bool {
	return s != nil && s.Verdict != ""
}
