package contracts

// ValueScorecard holds the defensive value-investing metrics for one ticker.
// Pointer fields are absent when their inputs were missing.
// ⭐ SSOT: scoring → verdict/report data contract
type ValueScorecard struct {
	PE                  *float64 `json:"pe"`
	PB                  *float64 `json:"pb"`
	EPSGrowth10YPct     *float64 `json:"eps_growth_10y_pct"`
	EarningsStable      bool     `json:"earnings_stable"`
	DebtToEquity        *float64 `json:"debt_to_equity"`
	CurrentRatio        *float64 `json:"current_ratio"`
	DividendRecordYears float64  `json:"dividend_record_years"` // 20 or 0, derived from current yield only
	DividendYieldPct    float64  `json:"dividend_yield_pct"`
	IntrinsicValue      float64  `json:"intrinsic_value"`
	MarginOfSafetyPct   *float64 `json:"margin_of_safety_pct"`
	NetNetValue         *float64 `json:"net_net_value"`
	NetNetBuyCandidate  *bool    `json:"net_net_buy_candidate"`
	NetNetComment       string   `json:"net_net_comment"`
	CombinedTest        bool     `json:"combined_test"`
	ExpectedReturnPct   float64  `json:"expected_return_pct"`

	Sector    string   `json:"sector,omitempty"`
	Industry  string   `json:"industry,omitempty"`
	Price     *float64 `json:"price"`
	MarketCap *float64 `json:"market_cap"`
}

// ValueMetricOrder is the display order of ValueScorecard.Metrics keys
var ValueMetricOrder = []string{
	"P/E", "P/B", "EPS Growth 10Y %", "Earnings Stability", "Debt/Equity",
	"Current Ratio", "Dividend Record Years", "Dividend Yield %", "Intrinsic Value",
	"Margin of Safety %", "Net-Net Value", "Net-Net Buy Candidate", "Combined Test",
	"Expected Return %",
}

// Metrics flattens the scorecard into name → value; absent metrics map to nil
func (s *ValueScorecard) Metrics() map[string]interface{} {
	return map[string]interface{}{
		"P/E":                   optional(s.PE),
		"P/B":                   optional(s.PB),
		"EPS Growth 10Y %":      optional(s.EPSGrowth10YPct),
		"Earnings Stability":    s.EarningsStable,
		"Debt/Equity":           optional(s.DebtToEquity),
		"Current Ratio":         optional(s.CurrentRatio),
		"Dividend Record Years": s.DividendRecordYears,
		"Dividend Yield %":      s.DividendYieldPct,
		"Intrinsic Value":       s.IntrinsicValue,
		"Margin of Safety %":    optional(s.MarginOfSafetyPct),
		"Net-Net Value":         optional(s.NetNetValue),
		"Net-Net Buy Candidate": optionalBool(s.NetNetBuyCandidate),
		"Combined Test":         s.CombinedTest,
		"Expected Return %":     s.ExpectedReturnPct,
	}
}

// HasInputs reports whether any balance-sheet or earnings metric was computable
func (s *ValueScorecard) HasInputs() bool {
	return s.PE != nil || s.PB != nil || s.EPSGrowth10YPct != nil ||
		s.DebtToEquity != nil || s.CurrentRatio != nil || s.NetNetValue != nil ||
		s.DividendYieldPct > 0
}

// GrowthScorecard holds the growth/quality metrics for one ticker
type GrowthScorecard struct {
	PE                   *float64 `json:"pe"`
	EPSGrowthPct         *float64 `json:"eps_growth_pct"`
	PEG                  *float64 `json:"peg"`
	DebtToEquity         *float64 `json:"debt_to_equity"`
	DividendYield        float64  `json:"dividend_yield"`
	ROEPct               *float64 `json:"roe_pct"`
	ROAPct               *float64 `json:"roa_pct"`
	ProfitMarginPct      *float64 `json:"profit_margin_pct"`
	PriceToBook          *float64 `json:"price_to_book"`
	PriceToSales         *float64 `json:"price_to_sales"`
	CurrentRatio         *float64 `json:"current_ratio"`
	QuickRatio           *float64 `json:"quick_ratio"`
	CashToAssetsPct      *float64 `json:"cash_to_assets_pct"`
	InventorySalesGrowth *float64 `json:"inventory_sales_growth_pct"`
	InsiderOwnershipPct  *float64 `json:"insider_ownership_pct"`
	EarningsYieldPct     *float64 `json:"earnings_yield_pct"`
	FreeCashFlowYieldPct *float64 `json:"fcf_yield_pct"`

	Sector   string `json:"sector,omitempty"`
	Industry string `json:"industry,omitempty"`
}

// GrowthMetricOrder is the display order of GrowthScorecard.Metrics keys
var GrowthMetricOrder = []string{
	"P/E", "EPS Growth %", "PEG", "Debt/Equity", "Dividend Yield", "ROE %", "ROA %",
	"Profit Margin %", "Price/Book", "Price/Sales", "Current Ratio", "Quick Ratio",
	"Cash/Assets %", "Inventory/Sales Growth %", "Insider Ownership %",
	"Earnings Yield %", "FCF Yield %",
}

// Metrics flattens the scorecard into name → value; absent metrics map to nil
func (s *GrowthScorecard) Metrics() map[string]interface{} {
	return map[string]interface{}{
		"P/E":                      optional(s.PE),
		"EPS Growth %":             optional(s.EPSGrowthPct),
		"PEG":                      optional(s.PEG),
		"Debt/Equity":              optional(s.DebtToEquity),
		"Dividend Yield":           s.DividendYield,
		"ROE %":                    optional(s.ROEPct),
		"ROA %":                    optional(s.ROAPct),
		"Profit Margin %":          optional(s.ProfitMarginPct),
		"Price/Book":               optional(s.PriceToBook),
		"Price/Sales":              optional(s.PriceToSales),
		"Current Ratio":            optional(s.CurrentRatio),
		"Quick Ratio":              optional(s.QuickRatio),
		"Cash/Assets %":            optional(s.CashToAssetsPct),
		"Inventory/Sales Growth %": optional(s.InventorySalesGrowth),
		"Insider Ownership %":      optional(s.InsiderOwnershipPct),
		"Earnings Yield %":         optional(s.EarningsYieldPct),
		"FCF Yield %":              optional(s.FreeCashFlowYieldPct),
	}
}

// HasInputs reports whether any growth metric was computable
func (s *GrowthScorecard) HasInputs() bool {
	for _, v := range []*float64{
		s.PE, s.EPSGrowthPct, s.DebtToEquity, s.ROEPct, s.ROAPct, s.ProfitMarginPct,
		s.PriceToBook, s.PriceToSales, s.CurrentRatio, s.QuickRatio, s.CashToAssetsPct,
		s.InsiderOwnershipPct, s.FreeCashFlowYieldPct,
	} {
		if v != nil {
			return true
		}
	}
	return s.DividendYield > 0
}

// optional unwraps to an untyped nil so map consumers can test `v == nil`
func optional(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func optionalBool(v *bool) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
