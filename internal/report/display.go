package report

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NA is shown for every absent value
const NA = "N/A"

var printer = message.NewPrinter(language.English)

// Currency renders "$1,234.56"
func Currency(v *float64) string {
	if v == nil {
		return NA
	}
	return signed(*v, func(x float64) string { return "$" + printer.Sprintf("%.2f", x) })
}

// LargeNumber renders money with a K/M/B/T suffix: "$2.95T"
func LargeNumber(v *float64) string {
	if v == nil {
		return NA
	}
	return signed(*v, func(x float64) string {
		switch {
		case x >= 1e12:
			return fmt.Sprintf("$%.2fT", x/1e12)
		case x >= 1e9:
			return fmt.Sprintf("$%.2fB", x/1e9)
		case x >= 1e6:
			return fmt.Sprintf("$%.2fM", x/1e6)
		case x >= 1e3:
			return fmt.Sprintf("$%.2fK", x/1e3)
		default:
			return fmt.Sprintf("$%.2f", x)
		}
	})
}

// Percent renders a value already in percentage points: 15.3 -> "15.30%"
func Percent(v *float64) string {
	if v == nil {
		return NA
	}
	return fmt.Sprintf("%.2f%%", *v)
}

// FractionPercent renders a fraction as percent: 0.153 -> "15.30%"
func FractionPercent(v *float64) string {
	if v == nil {
		return NA
	}
	return fmt.Sprintf("%.2f%%", *v*100)
}

// Ratio renders a plain multiple: "1.52"
func Ratio(v *float64) string {
	if v == nil {
		return NA
	}
	return fmt.Sprintf("%.2f", *v)
}

// YesNo renders an optional flag
func YesNo(v *bool) string {
	if v == nil {
		return NA
	}
	if *v {
		return "Yes"
	}
	return "No"
}

// Score renders a 0-100 score with one decimal
func Score(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

func signed(v float64, format func(float64) string) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NA
	}
	if v < 0 {
		return "-" + format(-v)
	}
	return format(v)
}

// formatMetric renders one scorecard entry by its metric name
func formatMetric(name string, v interface{}) string {
	switch x := v.(type) {
	case nil:
		return NA
	case bool:
		return YesNo(&x)
	case float64:
		switch {
		case name == "Intrinsic Value" || name == "Net-Net Value":
			return Currency(&x)
		case name == "Dividend Record Years":
			return fmt.Sprintf("%.0f", x)
		case strings.HasSuffix(name, "%"):
			return Percent(&x)
		default:
			return Ratio(&x)
		}
	default:
		return fmt.Sprint(v)
	}
}
