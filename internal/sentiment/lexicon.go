package sentiment

import (
	"math"
	"strings"
	"unicode"
)

// normalizationAlpha approximates the maximum expected raw valence sum
const normalizationAlpha = 15.0

// negationScalar flips and dampens a word preceded by a negation
const negationScalar = -0.74

// negationWindow is how many preceding tokens are checked for a negation
const negationWindow = 3

// valence scores on a -4..4 scale, general words plus market slang
var valence = map[string]float64{
	// positive
	"good": 1.9, "great": 3.1, "excellent": 3.2, "amazing": 2.8, "awesome": 3.1,
	"love": 3.2, "like": 1.5, "best": 3.2, "better": 1.9, "strong": 2.3,
	"positive": 2.6, "win": 2.8, "winning": 2.4, "gain": 2.4, "gains": 2.4,
	"profit": 1.9, "profitable": 1.9, "growth": 1.6, "growing": 1.4, "beat": 1.6,
	"beats": 1.6, "bull": 1.9, "bullish": 2.6, "buy": 1.2, "buying": 1.2,
	"long": 0.9, "calls": 1.0, "moon": 2.2, "mooning": 2.4, "rocket": 2.0,
	"rally": 2.1, "rallies": 2.1, "soar": 2.4, "soaring": 2.4, "surge": 2.1,
	"surging": 2.1, "upgrade": 2.0, "upgraded": 2.0, "outperform": 2.1, "undervalued": 1.8,
	"cheap": 0.8, "opportunity": 1.8, "solid": 1.9, "record": 1.1, "exceeded": 1.7,
	"impressive": 2.5, "recovery": 1.6, "recover": 1.6, "happy": 2.7, "confident": 2.2,
	"optimistic": 2.3, "upside": 1.8, "breakout": 1.6, "dividend": 0.6, "buyback": 1.2,
	"innovative": 2.0, "robust": 2.0, "hold": 0.3, "hodl": 1.2, "tendies": 2.0,

	// negative
	"bad": -2.5, "terrible": -3.4, "awful": -3.1, "horrible": -3.3, "worst": -3.1,
	"worse": -2.1, "hate": -2.7, "weak": -1.9, "negative": -2.7, "loss": -1.3,
	"losses": -1.5, "lose": -1.7, "losing": -1.6, "lost": -1.3, "miss": -1.2,
	"missed": -1.5, "bear": -1.4, "bearish": -2.6, "sell": -1.2, "selling": -1.1,
	"short": -0.9, "puts": -1.0, "crash": -3.0, "crashing": -3.0, "dump": -2.0,
	"dumping": -2.0, "plunge": -2.4, "plunging": -2.4, "drop": -1.1, "dropped": -1.3,
	"fall": -1.2, "falling": -1.3, "decline": -1.5, "declining": -1.5, "downgrade": -2.0,
	"downgraded": -2.0, "underperform": -2.1, "overvalued": -1.8, "expensive": -0.9, "risk": -1.1,
	"risky": -1.4, "fraud": -3.4, "scam": -3.2, "lawsuit": -1.9, "bankrupt": -3.0,
	"bankruptcy": -3.0, "debt": -1.1, "dilution": -1.8, "layoffs": -2.0, "recession": -2.3,
	"fear": -2.2, "worried": -1.9, "worry": -1.9, "concern": -1.2, "concerns": -1.3,
	"disappointing": -2.2, "disappointed": -2.1, "bagholder": -2.0, "bagholding": -2.0, "rekt": -2.5,
	"overhyped": -1.6, "bubble": -1.8, "downside": -1.6, "sucks": -1.5, "fail": -2.5,
}

var negations = map[string]bool{
	"not": true, "no": true, "never": true, "none": true, "nobody": true,
	"nothing": true, "neither": true, "nor": true, "without": true, "cannot": true,
	"isnt": true, "arent": true, "wasnt": true, "werent": true, "dont": true,
	"doesnt": true, "didnt": true, "wont": true, "wouldnt": true, "cant": true,
	"couldnt": true, "shouldnt": true, "hardly": true, "aint": true,
}

// Polarity scores text in [-1, 1] from lexicon valences with negation handling
func Polarity(text string) float64 {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return 0
	}

	var sum float64
	for i, tok := range tokens {
		v, ok := valence[tok]
		if !ok {
			continue
		}
		for j := i - 1; j >= 0 && j >= i-negationWindow; j-- {
			if negations[tokens[j]] {
				v *= negationScalar
				break
			}
		}
		sum += v
	}
	return normalize(sum)
}

// normalize maps an unbounded sum into (-1, 1)
func normalize(x float64) float64 {
	if x == 0 {
		return 0
	}
	return x / math.Sqrt(x*x+normalizationAlpha)
}

// tokenize lowercases and splits on anything that is not a letter or digit.
// Apostrophes are dropped so "don't" becomes "dont".
func tokenize(text string) []string {
	text = strings.ToLower(strings.NewReplacer("'", "", "’", "").Replace(text))
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
