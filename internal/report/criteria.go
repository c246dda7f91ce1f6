package report

import "github.com/wonny/investo/internal/contracts"

// Row statuses
const (
	StatusPass = "pass"
	StatusFail = "fail"
	StatusNA   = "na"
)

// Row is one line of a scorecard table
type Row struct {
	Metric    string
	Value     string
	Criterion string
	// Status is empty for informational metrics without a criterion
	Status string
}

type criterion struct {
	text string
	pass func(v interface{}) bool
}

func below(limit float64) func(interface{}) bool {
	return func(v interface{}) bool { x, ok := v.(float64); return ok && x < limit }
}

func above(limit float64) func(interface{}) bool {
	return func(v interface{}) bool { x, ok := v.(float64); return ok && x > limit }
}

func atLeast(limit float64) func(interface{}) bool {
	return func(v interface{}) bool { x, ok := v.(float64); return ok && x >= limit }
}

func isTrue(v interface{}) bool {
	b, ok := v.(bool)
	return ok && b
}

// valueCriteria are the defensive-investor thresholds
var valueCriteria = map[string]criterion{
	"P/E":                   {"< 15", below(15)},
	"P/B":                   {"< 1.5", below(1.5)},
	"Debt/Equity":           {"< 0.5", below(0.5)},
	"Current Ratio":         {"> 2.0", above(2)},
	"Dividend Record Years": {">= 20", atLeast(20)},
	"Earnings Stability":    {"Yes", isTrue},
	"Margin of Safety %":    {"> 30%", above(30)},
	"Net-Net Buy Candidate": {"Yes for deep value", isTrue},
	"Combined Test":         {"Yes", isTrue},
}

// growthCriteria are the growth-at-a-reasonable-price thresholds
var growthCriteria = map[string]criterion{
	"P/E":           {"< 15", below(15)},
	"PEG":           {"< 1.0", below(1)},
	"EPS Growth %":  {"> 15%", above(15)},
	"ROE %":         {"> 15%", above(15)},
	"Debt/Equity":   {"< 0.5", below(0.5)},
	"Current Ratio": {"> 2.0", above(2)},
	"Price/Book":    {"< 1.5", below(1.5)},
	"Price/Sales":   {"< 1.0", below(1)},
}

// ValueRows lays the value scorecard out in display order
func ValueRows(s contracts.ValueScorecard) []Row {
	return rows(contracts.ValueMetricOrder, s.Metrics(), valueCriteria)
}

// GrowthRows lays the growth scorecard out in display order
func GrowthRows(s contracts.GrowthScorecard) []Row {
	return rows(contracts.GrowthMetricOrder, s.Metrics(), growthCriteria)
}

func rows(order []string, metrics map[string]interface{}, criteria map[string]criterion) []Row {
	out := make([]Row, 0, len(order))
	for _, name := range order {
		v := metrics[name]
		row := Row{Metric: name, Value: formatMetric(name, v)}
		if c, ok := criteria[name]; ok {
			row.Criterion = c.text
			switch {
			case v == nil:
				row.Status = StatusNA
			case c.pass(v):
				row.Status = StatusPass
			default:
				row.Status = StatusFail
			}
		}
		out = append(out, row)
	}
	return out
}

// PassCount counts passing rows out of those with a measurable criterion
func PassCount(rows []Row) (passed, measured int) {
	for _, r := range rows {
		switch r.Status {
		case StatusPass:
			passed++
			measured++
		case StatusFail:
			measured++
		}
	}
	return passed, measured
}
