package scoring

import "github.com/wonny/investo/internal/contracts"

// ComputeGrowth builds the growth/quality scorecard, independent of the value one.
// ⭐ SSOT: growth-investing metrics are computed here only
func ComputeGrowth(r contracts.StockRecord) contracts.GrowthScorecard {
	pe := r.PEChain()
	growthPct := epsGrowthPct(r)

	return contracts.GrowthScorecard{
		PE:                   pe,
		EPSGrowthPct:         growthPct,
		PEG:                  peg(pe, growthPct),
		DebtToEquity:         r.DebtToEquity,
		DividendYield:        dividendYield(r),
		ROEPct:               r.ReturnOnEquity,
		ROAPct:               r.ReturnOnAssets,
		ProfitMarginPct:      r.ProfitMargin,
		PriceToBook:          r.PriceToBook,
		PriceToSales:         r.PriceToSales,
		CurrentRatio:         currentRatio(r),
		QuickRatio:           quickRatio(r),
		CashToAssetsPct:      cashToAssets(r),
		InventorySalesGrowth: inventorySalesGrowth(r),
		InsiderOwnershipPct:  insiderOwnership(r),
		EarningsYieldPct:     earningsYield(pe),
		FreeCashFlowYieldPct: fcfYield(r),
		Sector:               r.Sector,
		Industry:             r.Industry,
	}
}

// peg needs strictly positive growth
func peg(pe, growthPct *float64) *float64 {
	if pe == nil || growthPct == nil || *growthPct <= 0 {
		return nil
	}
	return contracts.Float(*pe / *growthPct)
}

func quickRatio(r contracts.StockRecord) *float64 {
	ca, inv, cl := r.TotalCurrentAssets, r.Inventory, r.TotalCurrentLiabilities
	if ca != nil && inv != nil && cl != nil && *cl > 0 {
		return contracts.Float((*ca - *inv) / *cl)
	}
	return r.QuickRatio
}

func cashToAssets(r contracts.StockRecord) *float64 {
	if r.TotalCash == nil || r.TotalAssets == nil || *r.TotalAssets <= 0 {
		return nil
	}
	return contracts.Float(*r.TotalCash / *r.TotalAssets * 100)
}

func inventorySalesGrowth(r contracts.StockRecord) *float64 {
	sales := r.SalesGrowthChain()
	if r.InventoryGrowth == nil || sales == nil || *sales == 0 {
		return nil
	}
	return contracts.Float(*r.InventoryGrowth / *sales * 100)
}

func insiderOwnership(r contracts.StockRecord) *float64 {
	if r.InsiderHeld == nil {
		return nil
	}
	return contracts.Float(*r.InsiderHeld * 100)
}

func earningsYield(pe *float64) *float64 {
	if pe == nil || *pe == 0 {
		return nil
	}
	return contracts.Float(100 / *pe)
}

func fcfYield(r contracts.StockRecord) *float64 {
	if r.FreeCashFlow == nil || r.MarketCap == nil || *r.MarketCap == 0 {
		return nil
	}
	return contracts.Float(*r.FreeCashFlow / *r.MarketCap * 100)
}
