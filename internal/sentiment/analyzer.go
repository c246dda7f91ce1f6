package sentiment

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/wonny/investo/internal/contracts"
	"github.com/wonny/investo/internal/external/reddit"
	"github.com/wonny/investo/internal/profile"
	"github.com/wonny/investo/pkg/logger"
	"github.com/wonny/investo/pkg/metrics"
	"github.com/wonny/investo/pkg/redis"
)

const (
	titleWeight   = 0.6
	bodyWeight    = 0.4
	toneThreshold = 0.2

	maxTopPosts      = 3
	maxTitleRunes    = 120
	fullCoverageHits = 30.0
)

// PostSource searches one forum for a query
type PostSource interface {
	Search(ctx context.Context, subreddit, query string, limit int) ([]reddit.Post, error)
}

// Analyzer turns forum posts into a SentimentScorecard.
// It never fails: when nothing can be measured it returns a neutral scorecard with a note.
type Analyzer struct {
	source  PostSource
	cache   *redis.Cache
	cfg     profile.Sentiment
	metrics *metrics.Recorder
	logger  *logger.Logger
	now     func() time.Time
}

// NewAnalyzer creates an analyzer. source and cache may be nil.
func NewAnalyzer(source PostSource, cache *redis.Cache, cfg profile.Sentiment, m *metrics.Recorder, log *logger.Logger) *Analyzer {
	return &Analyzer{
		source:  source,
		cache:   cache,
		cfg:     cfg,
		metrics: m,
		logger:  log.Component("sentiment"),
		now:     time.Now,
	}
}

// Analyze scores social sentiment for symbol, serving from cache when fresh
func (a *Analyzer) Analyze(ctx context.Context, symbol string) *contracts.SentimentScorecard {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if a.source == nil {
		return contracts.NeutralSentiment(symbol, "Reddit source not configured")
	}

	key := redis.SentimentKey(symbol, a.cfg.LookbackDays)
	if a.cache != nil {
		var cached contracts.SentimentScorecard
		if found, err := a.cache.Get(ctx, key, &cached); err == nil && found {
			a.logger.WithField("symbol", symbol).Debug("Sentiment served from cache")
			return &cached
		}
	}

	posts, err := a.collect(ctx, symbol)
	if len(posts) == 0 {
		note := fmt.Sprintf("No relevant Reddit posts found for %s.", symbol)
		if err != nil {
			note = fmt.Sprintf("Reddit unavailable: %v", err)
		}
		return contracts.NeutralSentiment(symbol, note)
	}

	card := a.score(symbol, posts)

	if a.cache != nil {
		ttl := a.cfg.CacheTTL
		if ttl <= 0 {
			ttl = redis.TTLSentiment
		}
		if err := a.cache.Set(ctx, key, card, ttl); err != nil {
			a.logger.WithError(err).Warn("Failed to cache sentiment")
		}
	}

	a.logger.WithFields(map[string]interface{}{
		"symbol":   symbol,
		"mentions": card.Mentions,
		"score":    card.Score,
		"verdict":  card.Verdict,
	}).Info("Sentiment analyzed")
	return card
}

// scoredPost is a relevant post with its derived values
type scoredPost struct {
	post      reddit.Post
	sentiment float64
	weight    float64
	quality   bool
}

// collect fetches every configured subreddit and keeps relevant, recent, upvoted posts.
// The returned error is the last fetch failure and only matters when no posts came back.
func (a *Analyzer) collect(ctx context.Context, symbol string) ([]scoredPost, error) {
	pattern := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(symbol) + `\b`)
	cutoff := a.now().Add(-time.Duration(a.cfg.LookbackDays) * 24 * time.Hour)

	var (
		posts   []scoredPost
		lastErr error
	)
	seen := make(map[string]bool)

	for _, sub := range a.cfg.Subreddits {
		if ctx.Err() != nil {
			return posts, ctx.Err()
		}

		results, err := a.source.Search(ctx, sub, symbol, a.cfg.PostLimit)
		if err != nil {
			a.metrics.RecordUpstreamError("reddit")
			a.logger.WithError(err).WithField("subreddit", sub).Warn("Subreddit search failed")
			lastErr = err
			continue
		}

		for _, p := range results {
			if p.CreatedAt.Before(cutoff) || p.Score < a.cfg.MinPostScore {
				continue
			}
			text := p.Title + " " + p.Body
			if !pattern.MatchString(text) {
				continue
			}
			if p.ID != "" {
				if seen[p.ID] {
					continue
				}
				seen[p.ID] = true
			}
			if p.Subreddit == "" {
				p.Subreddit = sub
			}

			posts = append(posts, scoredPost{
				post:      p,
				sentiment: PostSentiment(p.Title, p.Body),
				weight:    a.cfg.Weight(p.Subreddit) * math.Log1p(float64(max(p.Score, 0))),
				quality:   hasKeyword(text, a.cfg.QualityKeywords),
			})
		}
	}
	return posts, lastErr
}

// PostSentiment blends title and body polarity, clamped to [-1, 1]
func PostSentiment(title, body string) float64 {
	s := titleWeight*Polarity(title) + bodyWeight*Polarity(body)
	return math.Max(-1, math.Min(1, s))
}

func hasKeyword(text string, keywords []string) bool {
	tokens := tokenize(text)
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		if strings.Contains(kw, " ") {
			if strings.Contains(lower, kw) {
				return true
			}
			continue
		}
		for _, tok := range tokens {
			if tok == kw {
				return true
			}
		}
	}
	return false
}

// score aggregates relevant posts into the scorecard
func (a *Analyzer) score(symbol string, posts []scoredPost) *contracts.SentimentScorecard {
	now := a.now()
	mid := now.Add(-time.Duration(a.cfg.LookbackDays) * 12 * time.Hour)

	var recent, prior, all window
	var qualityCount, totalPostScore int
	sentiments := make([]float64, 0, len(posts))
	subCounts := make(map[string]int)
	for _, p := range posts {
		all.add(p)
		if p.post.CreatedAt.Before(mid) {
			prior.add(p)
		} else {
			recent.add(p)
		}
		sentiments = append(sentiments, p.sentiment)
		subCounts[p.post.Subreddit]++
		if p.quality {
			qualityCount++
		}
		totalPostScore += p.post.Score
	}

	mentions := len(posts)
	avg := all.average()
	std := populationStdDev(sentiments)

	momentum := 0.0
	if priorAvg := prior.average(); prior.count > 0 && math.Abs(priorAvg) > 0.001 {
		momentum = (recent.average() - priorAvg) / math.Abs(priorAvg)
	}
	buzz := 1.0
	if prior.count > 0 {
		buzz = float64(recent.count) / float64(prior.count)
	}

	var weightedSubs float64
	for sub, n := range subCounts {
		weightedSubs += a.cfg.Weight(sub) * float64(n)
	}
	reliability := weightedSubs / float64(max(1, mentions))
	ddRatio := float64(qualityCount) / float64(max(1, mentions))
	engagement := normalizeRange(float64(totalPostScore)/float64(max(1, mentions)), 10, 1000)

	score := 100 * (0.4*normalizeRange(avg, -1, 1) +
		0.25*normalizeRange(buzz, 0.5, 3) +
		0.15*reliability +
		0.1*ddRatio +
		0.1*engagement)

	return &contracts.SentimentScorecard{
		Symbol:            symbol,
		Score:             score,
		Verdict:           scoreVerdict(score),
		Tone:              tone(avg),
		Mentions:          mentions,
		AvgSentiment:      avg,
		StdDev:            std,
		Momentum:          momentum,
		Buzz:              buzz,
		ReliabilityWeight: reliability,
		DDRatio:           ddRatio,
		Engagement:        engagement,
		Confidence:        1 - math.Min(std, 1),
		WeightedBias:      avg * reliability,
		ReliabilityIndex:  100 * (0.5*reliability + 0.4*ddRatio + 0.1*math.Min(1, float64(mentions)/fullCoverageHits)),
		Subreddits:        subCounts,
		TopPosts:          topPosts(posts),
		GeneratedAt:       now.UTC(),
	}
}

// window accumulates a weighted sentiment average
type window struct {
	count     int
	sum       float64
	weightSum float64
}

func (w *window) add(p scoredPost) {
	w.count++
	w.sum += p.sentiment * p.weight
	w.weightSum += p.weight
}

func (w window) average() float64 {
	if w.weightSum == 0 {
		return 0
	}
	return w.sum / w.weightSum
}

func populationStdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var mean float64
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	var variance float64
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	return math.Sqrt(variance / float64(len(values)))
}

// normalizeRange maps value into [0, 1] over [low, high]
func normalizeRange(value, low, high float64) float64 {
	if high == low {
		return 0.5
	}
	return math.Max(0, math.Min(1, (value-low)/(high-low)))
}

func scoreVerdict(score float64) string {
	switch {
	case score > 70:
		return contracts.SentimentBullish
	case score >= 40:
		return contracts.SentimentNeutral
	default:
		return contracts.SentimentBearish
	}
}

func tone(avg float64) string {
	switch {
	case avg > toneThreshold:
		return contracts.SentimentBullish
	case avg < -toneThreshold:
		return contracts.SentimentBearish
	default:
		return contracts.SentimentNeutral
	}
}

func topPosts(posts []scoredPost) []contracts.SocialPost {
	sorted := make([]scoredPost, len(posts))
	copy(sorted, posts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].post.Score > sorted[j].post.Score
	})
	if len(sorted) > maxTopPosts {
		sorted = sorted[:maxTopPosts]
	}

	out := make([]contracts.SocialPost, 0, len(sorted))
	for _, p := range sorted {
		title := p.post.Title
		if r := []rune(title); len(r) > maxTitleRunes {
			title = string(r[:maxTitleRunes])
		}
		out = append(out, contracts.SocialPost{
			Title:     title,
			Subreddit: p.post.Subreddit,
			Score:     p.post.Score,
			Comments:  p.post.NumComments,
			Sentiment: p.sentiment,
			Quality:   p.quality,
			URL:       p.post.URL(),
			CreatedAt: p.post.CreatedAt,
		})
	}
	return out
}
