package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/investo/internal/contracts"
)

func TestComputeGrowth_PEGExample(t *testing.T) {
	sc := ComputeGrowth(contracts.StockRecord{ForwardPE: f(25), EarningsQuarterlyGrowth: f(0.15)})

	require.NotNil(t, sc.PEG)
	assert.InDelta(t, 1.667, *sc.PEG, 1e-3)
	require.NotNil(t, sc.EarningsYieldPct)
	assert.InDelta(t, 4.0, *sc.EarningsYieldPct, 1e-9)
}

func TestComputeGrowth_PEG(t *testing.T) {
	tests := []struct {
		name   string
		record contracts.StockRecord
		want   *float64
	}{
		{"positive growth", contracts.StockRecord{TrailingPE: f(20), EPSGrowth: f(0.25)}, f(0.8)},
		{"zero growth", contracts.StockRecord{TrailingPE: f(20), EPSGrowth: f(0)}, nil},
		{"negative growth", contracts.StockRecord{TrailingPE: f(20), EPSGrowth: f(-0.1)}, nil},
		{"missing pe", contracts.StockRecord{EPSGrowth: f(0.25)}, nil},
		{"missing growth", contracts.StockRecord{TrailingPE: f(20)}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeGrowth(tt.record).PEG
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}

func TestComputeGrowth_Ratios(t *testing.T) {
	r := contracts.StockRecord{
		TotalCurrentAssets:      f(500),
		Inventory:               f(100),
		TotalCurrentLiabilities: f(200),
		TotalCash:               f(50),
		TotalAssets:             f(1000),
		InventoryGrowth:         f(0.05),
		RevenueGrowth:           f(0.10),
		InsiderHeld:             f(0.021),
		FreeCashFlow:            f(3e9),
		MarketCap:               f(1e11),
		ReturnOnEquity:          f(22),
		ReturnOnAssets:          f(9),
		ProfitMargin:            f(18),
		PriceToSales:            f(2.5),
	}

	sc := ComputeGrowth(r)

	require.NotNil(t, sc.QuickRatio)
	assert.InDelta(t, 2.0, *sc.QuickRatio, 1e-9)
	require.NotNil(t, sc.CurrentRatio)
	assert.InDelta(t, 2.5, *sc.CurrentRatio, 1e-9)
	require.NotNil(t, sc.CashToAssetsPct)
	assert.InDelta(t, 5.0, *sc.CashToAssetsPct, 1e-9)
	require.NotNil(t, sc.InventorySalesGrowth)
	assert.InDelta(t, 50.0, *sc.InventorySalesGrowth, 1e-9)
	require.NotNil(t, sc.InsiderOwnershipPct)
	assert.InDelta(t, 2.1, *sc.InsiderOwnershipPct, 1e-9)
	require.NotNil(t, sc.FreeCashFlowYieldPct)
	assert.InDelta(t, 3.0, *sc.FreeCashFlowYieldPct, 1e-9)
	assert.Equal(t, f(22), sc.ROEPct)
	assert.Equal(t, f(9), sc.ROAPct)
	assert.Equal(t, f(18), sc.ProfitMarginPct)
	assert.Equal(t, f(2.5), sc.PriceToSales)
	assert.Equal(t, 0.0, sc.DividendYield)
	assert.True(t, sc.HasInputs())
}

func TestComputeGrowth_Guards(t *testing.T) {
	tests := []struct {
		name   string
		record contracts.StockRecord
		check  func(t *testing.T, sc contracts.GrowthScorecard)
	}{
		{
			name:   "quick ratio falls back to upstream figure",
			record: contracts.StockRecord{TotalCurrentAssets: f(500), TotalCurrentLiabilities: f(200), QuickRatio: f(1.1)},
			check: func(t *testing.T, sc contracts.GrowthScorecard) {
				assert.Equal(t, f(1.1), sc.QuickRatio)
			},
		},
		{
			name:   "zero inventory is present",
			record: contracts.StockRecord{TotalCurrentAssets: f(500), Inventory: f(0), TotalCurrentLiabilities: f(250)},
			check: func(t *testing.T, sc contracts.GrowthScorecard) {
				assert.Equal(t, f(2), sc.QuickRatio)
			},
		},
		{
			name:   "cash ratio needs positive assets",
			record: contracts.StockRecord{TotalCash: f(10), TotalAssets: f(0)},
			check: func(t *testing.T, sc contracts.GrowthScorecard) {
				assert.Nil(t, sc.CashToAssetsPct)
			},
		},
		{
			name:   "sales growth zero",
			record: contracts.StockRecord{InventoryGrowth: f(0.1), SalesGrowth: f(0), RevenueGrowth: f(0.2)},
			check: func(t *testing.T, sc contracts.GrowthScorecard) {
				assert.Nil(t, sc.InventorySalesGrowth)
			},
		},
		{
			name:   "earnings yield needs nonzero pe",
			record: contracts.StockRecord{ForwardPE: f(0)},
			check: func(t *testing.T, sc contracts.GrowthScorecard) {
				assert.Nil(t, sc.EarningsYieldPct)
				assert.Equal(t, f(0), sc.PE)
			},
		},
		{
			name:   "fcf yield needs nonzero market cap",
			record: contracts.StockRecord{FreeCashFlow: f(1e9), MarketCap: f(0)},
			check: func(t *testing.T, sc contracts.GrowthScorecard) {
				assert.Nil(t, sc.FreeCashFlowYieldPct)
			},
		},
		{
			name:   "negative fcf is reported",
			record: contracts.StockRecord{FreeCashFlow: f(-2e9), MarketCap: f(1e11)},
			check: func(t *testing.T, sc contracts.GrowthScorecard) {
				require.NotNil(t, sc.FreeCashFlowYieldPct)
				assert.InDelta(t, -2.0, *sc.FreeCashFlowYieldPct, 1e-9)
			},
		},
		{
			name:   "dividend yield passes through",
			record: contracts.StockRecord{DividendYield: f(0.018)},
			check: func(t *testing.T, sc contracts.GrowthScorecard) {
				assert.Equal(t, 0.018, sc.DividendYield)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, ComputeGrowth(tt.record))
		})
	}
}

func TestComputeGrowth_Empty(t *testing.T) {
	sc := ComputeGrowth(contracts.StockRecord{Sector: "Technology", Industry: "Software"})

	assert.False(t, sc.HasInputs())
	assert.Equal(t, "Technology", sc.Sector)
	assert.Equal(t, "Software", sc.Industry)
	for _, key := range contracts.GrowthMetricOrder {
		if key == "Dividend Yield" {
			continue
		}
		assert.Nil(t, sc.Metrics()[key], key)
	}
}
