package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/wonny/investo/internal/contracts"
)

const (
	chartWidth  = 720
	chartHeight = 220
	chartPad    = 10
)

// view is the flattened, pre-formatted form both renderers draw from
type view struct {
	Symbol      string
	Name        string
	Sector      string
	Industry    string
	Price       string
	MarketCap   string
	Range52W    string
	GeneratedAt string
	ProfileName string
	Sources     string

	Label          string
	Tone           string
	Composite      string
	ValueScore     string
	GrowthScore    string
	SentimentScore string
	Summary        string
	Rationale      []string

	ValueRows      []Row
	ValuePassed    int
	ValueMeasured  int
	GrowthRows     []Row
	GrowthPassed   int
	GrowthMeasured int
	IntrinsicValue string
	MarginOfSafety string
	NetNetComment  string

	Sentiment sentimentView
	Crowd     *contracts.CrowdTally
	News      []contracts.NewsItem
	Global    []contracts.NewsItem
	Peers     string
	Chart     *chartView
}

type sentimentView struct {
	Available        bool
	Score            string
	Verdict          string
	Tone             string
	Mentions         int
	Average          string
	Confidence       string
	Momentum         string
	Buzz             string
	ReliabilityIndex string
	WeightedBias     string
	Subreddits       []subredditCount
	TopPosts         []contracts.SocialPost
	Note             string
}

type subredditCount struct {
	Name  string
	Count int
}

type chartView struct {
	Period string
	Points string
	Width  int
	Height int
	Low    string
	High   string
	First  string
	Last   string
}

func buildView(d Data) view {
	r := d.Record
	v := view{
		Symbol:      r.Symbol,
		Name:        r.Name,
		Sector:      orNA(r.Sector),
		Industry:    orNA(r.Industry),
		Price:       Currency(r.Price),
		MarketCap:   LargeNumber(r.MarketCap),
		Range52W:    Currency(r.Low52W) + " - " + Currency(r.High52W),
		GeneratedAt: d.GeneratedAt.Format("2006-01-02 15:04 MST"),
		ProfileName: d.ProfileName,
		Sources:     strings.Join(r.Sources, ", "),

		Label:          d.Verdict.Label,
		Tone:           d.Verdict.Tone(),
		Composite:      Score(d.Verdict.CompositeScore),
		ValueScore:     Score(d.Verdict.Breakdown.ValueScore),
		GrowthScore:    Score(d.Verdict.Breakdown.GrowthScore),
		SentimentScore: Score(d.Verdict.Breakdown.SentimentScore),
		Summary:        d.Verdict.Summary,
		Rationale:      d.Verdict.Rationale,

		ValueRows:      ValueRows(d.Value),
		GrowthRows:     GrowthRows(d.Growth),
		IntrinsicValue: Currency(&d.Value.IntrinsicValue),
		MarginOfSafety: Percent(d.Value.MarginOfSafetyPct),
		NetNetComment:  d.Value.NetNetComment,

		Sentiment: buildSentiment(d.Sentiment),
		News:      r.News,
		Global:    d.GlobalNews,
		Peers:     strings.Join(r.Peers, ", "),
	}
	if v.Name == "" {
		v.Name = r.Symbol
	}
	v.ValuePassed, v.ValueMeasured = PassCount(v.ValueRows)
	v.GrowthPassed, v.GrowthMeasured = PassCount(v.GrowthRows)

	if r.Crowd.Mentions > 0 {
		crowd := r.Crowd
		v.Crowd = &crowd
	}
	if d.HistoryChart {
		v.Chart = buildChart(r.History)
	}
	return v
}

func buildSentiment(s *contracts.SentimentScorecard) sentimentView {
	if s == nil {
		return sentimentView{Score: Score(contracts.NeutralSentimentScore), Note: "Sentiment was not requested."}
	}

	sv := sentimentView{
		Available: s.Available(),
		Score:     Score(s.Score),
		Verdict:   s.Verdict,
		Tone:      s.Tone,
		Mentions:  s.Mentions,
		Note:      s.Note,
	}
	if !sv.Available {
		return sv
	}

	sv.Average = fmt.Sprintf("%+.3f", s.AvgSentiment)
	sv.Confidence = fmt.Sprintf("%.0f%%", s.Confidence*100)
	sv.Momentum = fmt.Sprintf("%+.1f%%", s.Momentum*100)
	sv.Buzz = fmt.Sprintf("%.2fx", s.Buzz)
	sv.ReliabilityIndex = fmt.Sprintf("%.1f", s.ReliabilityIndex)
	sv.WeightedBias = fmt.Sprintf("%+.3f", s.WeightedBias)
	sv.TopPosts = s.TopPosts

	for name, n := range s.Subreddits {
		sv.Subreddits = append(sv.Subreddits, subredditCount{Name: name, Count: n})
	}
	sort.Slice(sv.Subreddits, func(i, j int) bool {
		if sv.Subreddits[i].Count != sv.Subreddits[j].Count {
			return sv.Subreddits[i].Count > sv.Subreddits[j].Count
		}
		return sv.Subreddits[i].Name < sv.Subreddits[j].Name
	})
	return sv
}

// buildChart scales closes into an SVG polyline; nil with fewer than two points
func buildChart(h *contracts.PriceHistory) *chartView {
	if h.Len() < 2 {
		return nil
	}

	low, high := h.Closes[0], h.Closes[0]
	for _, c := range h.Closes {
		if c < low {
			low = c
		}
		if c > high {
			high = c
		}
	}
	span := high - low
	if span == 0 {
		span = 1
	}

	innerW := float64(chartWidth - 2*chartPad)
	innerH := float64(chartHeight - 2*chartPad)
	step := innerW / float64(h.Len()-1)

	var b strings.Builder
	for i, c := range h.Closes {
		x := float64(chartPad) + float64(i)*step
		y := float64(chartPad) + innerH - (c-low)/span*innerH
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%.1f,%.1f", x, y)
	}

	first, last := h.Closes[0], h.Closes[h.Len()-1]
	return &chartView{
		Period: h.Period,
		Points: b.String(),
		Width:  chartWidth,
		Height: chartHeight,
		Low:    Currency(&low),
		High:   Currency(&high),
		First:  Currency(&first),
		Last:   Currency(&last),
	}
}

func orNA(s string) string {
	if s == "" {
		return NA
	}
	return s
}
