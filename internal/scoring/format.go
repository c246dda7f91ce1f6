package scoring

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// dollars renders v with thousands separators, e.g. "$1,234" or "-$12.50"
func dollars(v float64, decimals int) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	if decimals == 0 {
		return sign + "$" + printer.Sprintf("%.0f", v)
	}
	return sign + "$" + printer.Sprintf("%.2f", v)
}
