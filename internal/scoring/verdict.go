package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/wonny/investo/internal/contracts"
)

// Blend weights and label cut-offs
const (
	valueWeight     = 0.4
	growthWeight    = 0.4
	sentimentWeight = 0.2

	buyThreshold  = 70.0
	holdThreshold = 45.0

	combinedTestPoints = 70.0
	mosClamp           = 50.0
	cheapPEG           = 1.5
	fairPEG            = 2.0
	cheapPEGPoints     = 40.0
	fairPEGPoints      = 25.0
	roeCap             = 30.0
	roeMultiplier      = 1.5
	leverageFloor      = 0.5
	leveragePenalty    = 20.0
)

// Aggregate blends the two scorecards and the sentiment scorecard into a verdict.
// A nil sentiment counts as the neutral score with no verdict.
// ⭐ SSOT: the BUY/HOLD/SELL rule lives here only
func Aggregate(value contracts.ValueScorecard, growth contracts.GrowthScorecard, sentiment *contracts.SentimentScorecard) contracts.Verdict {
	valueSub := ValueSubScore(value)
	growthSub := GrowthSubScore(growth)
	sentimentSub := contracts.NeutralSentimentScore
	if sentiment != nil {
		sentimentSub = sentiment.Score
	}

	breakdown := contracts.Breakdown{
		ValueScore:     valueSub,
		GrowthScore:    growthSub,
		SentimentScore: sentimentSub,
	}
	composite := Composite(breakdown)
	label := Label(composite)

	rationale := make([]string, 0, 4)
	if value.CombinedTest {
		rationale = append(rationale, "value fundamentals pass the defensive screen")
	} else {
		rationale = append(rationale, "fails the defensive value screen")
	}
	if growth.PEG != nil {
		if *growth.PEG < cheapPEG {
			rationale = append(rationale, fmt.Sprintf("PEG %.2f indicates fair or undervalued growth", *growth.PEG))
		} else {
			rationale = append(rationale, fmt.Sprintf("PEG %.2f suggests modest valuation risk", *growth.PEG))
		}
	}
	if sentiment.Available() {
		rationale = append(rationale, fmt.Sprintf("social sentiment is %s (%.0f/100)",
			strings.ToLower(sentiment.Verdict), sentiment.Score))
	}
	if !value.HasInputs() && !growth.HasInputs() {
		rationale = append(rationale, "could not evaluate fundamentals: no balance-sheet or earnings data")
	}

	return contracts.Verdict{
		CompositeScore: composite,
		Label:          label,
		Rationale:      rationale,
		Summary: fmt.Sprintf("Composite score %.1f/100 → %s. %s.",
			composite, label, strings.Join(rationale, "; ")),
		Breakdown: breakdown,
	}
}

// Composite applies the 40/40/20 blend
func Composite(b contracts.Breakdown) float64 {
	return valueWeight*b.ValueScore + growthWeight*b.GrowthScore + sentimentWeight*b.SentimentScore
}

// ValueSubScore: 70 for passing the combined test plus half the clamped margin of safety
func ValueSubScore(v contracts.ValueScorecard) float64 {
	score := 0.0
	if v.CombinedTest {
		score += combinedTestPoints
	}
	if v.MarginOfSafetyPct != nil {
		score += clamp(*v.MarginOfSafetyPct, -mosClamp, mosClamp) / 2
	}
	return clamp(score, 0, 100)
}

// GrowthSubScore: PEG band points plus capped ROE, minus a leverage penalty
func GrowthSubScore(g contracts.GrowthScorecard) float64 {
	score := 0.0
	if g.PEG != nil {
		switch {
		case *g.PEG < cheapPEG:
			score += cheapPEGPoints
		case *g.PEG < fairPEG:
			score += fairPEGPoints
		}
	}

	roe := 0.0
	if g.ROEPct != nil {
		roe = *g.ROEPct
	}
	score += math.Min(roe, roeCap) * roeMultiplier

	debt := 0.0
	if g.DebtToEquity != nil {
		debt = *g.DebtToEquity
	}
	score -= math.Max(0, (debt-leverageFloor)*leveragePenalty)

	return clamp(score, 0, 100)
}

// Label maps an unrounded composite score to BUY/HOLD/SELL
func Label(composite float64) string {
	switch {
	case composite >= buyThreshold:
		return contracts.LabelBuy
	case composite >= holdThreshold:
		return contracts.LabelHold
	default:
		return contracts.LabelSell
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
