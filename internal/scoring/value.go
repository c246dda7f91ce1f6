package scoring

import (
	"fmt"

	"github.com/wonny/investo/internal/contracts"
)

// Value thresholds for the defensive-investor screen
const (
	maxDefensivePE      = 15.0
	maxDefensivePB      = 1.5
	maxPETimesPB        = 22.5
	minDividendYears    = 20.0
	maxDefensiveDebt    = 0.5
	netNetCapFraction   = 2.0 / 3.0
	noGrowthPE          = 8.5
	defaultGrowthPct    = 4.0
	defaultEPSForValue  = 1.0
	dividendRecordProxy = 20.0
)

// ComputeValue builds the value scorecard. It never fails: metrics whose
// inputs are missing stay nil and every other metric is still computed.
// ⭐ SSOT: value-investing metrics are computed here only
func ComputeValue(r contracts.StockRecord) contracts.ValueScorecard {
	pe := r.PEChain()
	pb := r.PriceToBook
	growthPct := epsGrowthPct(r)
	stable := earningsStable(r)
	debt := r.DebtToEquity
	divYears := dividendRecordYears(r)
	iv := intrinsicValue(r, growthPct)
	mos := marginOfSafety(r.Price, iv)
	ncav := netNetValue(r)

	sc := contracts.ValueScorecard{
		PE:                  pe,
		PB:                  pb,
		EPSGrowth10YPct:     growthPct,
		EarningsStable:      stable,
		DebtToEquity:        debt,
		CurrentRatio:        currentRatio(r),
		DividendRecordYears: divYears,
		DividendYieldPct:    dividendYield(r),
		IntrinsicValue:      iv,
		MarginOfSafetyPct:   mos,
		NetNetValue:         ncav,
		NetNetBuyCandidate:  netNetBuyCandidate(ncav, r.MarketCap),
		NetNetComment:       netNetComment(r, ncav),
		Sector:              r.Sector,
		Industry:            r.Industry,
		Price:               r.Price,
		MarketCap:           r.MarketCap,
	}

	sc.CombinedTest = lessThan(pe, maxDefensivePE) &&
		lessThan(pb, maxDefensivePB) &&
		(pe != nil && pb != nil && (*pe)*(*pb) < maxPETimesPB) &&
		divYears >= minDividendYears &&
		stable &&
		lessThan(debt, maxDefensiveDebt)

	sc.ExpectedReturnPct = expectedReturn(sc.DividendYieldPct, growthPct, mos)

	return sc
}

// epsGrowthPct converts the growth fraction to percent
func epsGrowthPct(r contracts.StockRecord) *float64 {
	g := r.GrowthFraction()
	if g == nil {
		return nil
	}
	return contracts.Float(*g * 100)
}

func earningsStable(r contracts.StockRecord) bool {
	eps := r.EPSForValue()
	g := r.GrowthFraction()
	return eps != nil && *eps > 0 && g != nil && *g > 0
}

// currentRatio prefers the balance-sheet computation over the upstream figure
func currentRatio(r contracts.StockRecord) *float64 {
	ca, cl := r.TotalCurrentAssets, r.TotalCurrentLiabilities
	if ca != nil && cl != nil && *cl > 0 {
		return contracts.Float(*ca / *cl)
	}
	return r.CurrentRatio
}

// dividendRecordYears approximates 20 years of uninterrupted dividends from
// the current yield alone. Upstreams do not expose dividend history.
func dividendRecordYears(r contracts.StockRecord) float64 {
	if r.DividendYield != nil && *r.DividendYield > 0 {
		return dividendRecordProxy
	}
	return 0
}

// dividendYield is the yield fraction, zero when absent
func dividendYield(r contracts.StockRecord) float64 {
	if r.DividendYield == nil {
		return 0
	}
	return *r.DividendYield
}

// intrinsicValue applies EPS × (8.5 + 2g)
func intrinsicValue(r contracts.StockRecord, growthPct *float64) float64 {
	eps := defaultEPSForValue
	if v := r.EPSForValue(); v != nil {
		eps = *v
	}
	g := defaultGrowthPct
	if growthPct != nil {
		g = *growthPct
	}
	return eps * (noGrowthPE + 2*g)
}

func marginOfSafety(price *float64, iv float64) *float64 {
	if price == nil || iv == 0 {
		return nil
	}
	return contracts.Float(100 * (1 - *price/iv))
}

// netNetValue is current assets minus all liabilities (NCAV)
func netNetValue(r contracts.StockRecord) *float64 {
	if r.TotalCurrentAssets == nil || r.TotalLiabilities == nil {
		return nil
	}
	return contracts.Float(*r.TotalCurrentAssets - *r.TotalLiabilities)
}

func netNetBuyCandidate(ncav, marketCap *float64) *bool {
	if ncav == nil || marketCap == nil {
		return nil
	}
	ok := *ncav > 0 && *marketCap < netNetCapFraction*(*ncav)
	return &ok
}

func netNetComment(r contracts.StockRecord, ncav *float64) string {
	if ncav == nil {
		return "Net-Net calculation not possible: missing total current assets or total liabilities."
	}

	var comment string
	if *ncav < 0 {
		comment = fmt.Sprintf("NCAV (net current asset value) is negative (%s): liabilities exceed current assets. "+
			"The stock fails the liquidation-value test, which is common for large companies financed with debt "+
			"and priced on earnings power.", dollars(*ncav, 0))
	} else {
		comment = fmt.Sprintf("NCAV is positive (%s). ", dollars(*ncav, 0))
		if r.MarketCap == nil {
			comment += "Market cap unavailable for the net-net screen."
		} else {
			threshold := netNetCapFraction * (*ncav)
			if *r.MarketCap < threshold {
				comment += fmt.Sprintf("Market cap (%s) < 2/3×NCAV (%s). This is a rare deep-value candidate.",
					dollars(*r.MarketCap, 0), dollars(threshold, 0))
			} else {
				comment += fmt.Sprintf("Market cap (%s) >= 2/3×NCAV (%s). Not a net-net candidate.",
					dollars(*r.MarketCap, 0), dollars(threshold, 0))
			}
		}
	}

	if r.SharesOutstanding != nil && *r.SharesOutstanding > 0 {
		comment += fmt.Sprintf(" NCAV per share: %s.", dollars((*ncav)/(*r.SharesOutstanding), 2))
	}
	return comment
}

// expectedReturn = yield + growth(default 4) + MoS(default 0)/3
func expectedReturn(divYield float64, growthPct, mos *float64) float64 {
	g := defaultGrowthPct
	if growthPct != nil {
		g = *growthPct
	}
	m := 0.0
	if mos != nil {
		m = *mos
	}
	return divYield + g + m/3
}

// lessThan fails when the input is absent
func lessThan(v *float64, limit float64) bool {
	return v != nil && *v < limit
}
