package contracts

// Verdict labels
const (
	LabelBuy  = "BUY"
	LabelHold = "HOLD"
	LabelSell = "SELL"
)

// Verdict is the blended recommendation. Built once by the aggregator.
type Verdict struct {
	CompositeScore float64   `json:"composite_score"` // unrounded, [0,100]
	Label          string    `json:"label"`
	Rationale      []string  `json:"rationale"`
	Summary        string    `json:"summary"`
	Breakdown      Breakdown `json:"breakdown"`
}

// Breakdown holds the three sub-scores, each in [0,100]
type Breakdown struct {
	ValueScore     float64 `json:"value_score"`
	GrowthScore    float64 `json:"growth_score"`
	SentimentScore float64 `json:"sentiment_score"`
}

// Tone maps the label to the report colour class
func (v *Verdict) Tone() string {
	switch v.Label {
	case LabelBuy:
		return "bullish"
	case LabelHold:
		return "neutral"
	default:
		return "bearish"
	}
}
