package collector

import "github.com/wonny/investo/internal/contracts"

// filler sets fields only while they are still empty and counts what it set
type filler struct {
	n int
}

func (f *filler) num(dst **float64, v *float64) {
	if *dst == nil && v != nil {
		val := *v
		*dst = &val
		f.n++
	}
}

func (f *filler) str(dst *string, v string) {
	if *dst == "" && v != "" {
		*dst = v
		f.n++
	}
}

// merge folds the fetched answers into a record in priority order
func merge(symbol string, f *fetched) *contracts.StockRecord {
	r := &contracts.StockRecord{Symbol: symbol}

	apply := func(source string, fn func(fl *filler)) {
		var fl filler
		fn(&fl)
		if fl.n > 0 {
			r.Sources = append(r.Sources, source)
		}
	}

	if ch := f.chart; ch != nil {
		apply(SourceYahooChart, func(fl *filler) {
			fl.str(&r.Name, ch.Name)
			fl.num(&r.Price, ch.Price)
			fl.num(&r.High52W, ch.High52W)
			fl.num(&r.Low52W, ch.Low52W)
			if ch.History.Len() > 0 && r.History == nil {
				r.History = ch.History
				fl.n++
			}
		})
	}

	if p := f.profile; p != nil {
		apply(SourceFinnhubProfile, func(fl *filler) {
			fl.str(&r.Name, p.Name)
			fl.str(&r.Sector, p.Industry)
			fl.str(&r.Industry, p.Industry)
			fl.num(&r.MarketCap, p.MarketCap())
			fl.num(&r.SharesOutstanding, p.SharesOutstanding())
		})
	}

	if m := f.financials; m != nil {
		apply(SourceFinnhubMetrics, func(fl *filler) {
			fl.num(&r.PE, m.TrailingPE)
			fl.num(&r.EPS, m.TrailingEPS)
			fl.num(&r.EPSGrowth, m.EPSGrowth)
			fl.num(&r.PriceToBook, m.PriceToBook)
			fl.num(&r.PriceToSales, m.PriceToSales)
			fl.num(&r.ReturnOnEquity, m.ReturnOnEquity)
			fl.num(&r.ReturnOnAssets, m.ReturnOnAssets)
			fl.num(&r.ProfitMargin, m.ProfitMargin)
			fl.num(&r.CurrentRatio, m.CurrentRatio)
			fl.num(&r.QuickRatio, m.QuickRatio)
			fl.num(&r.DebtToEquity, m.DebtToEquity)
			fl.num(&r.DividendYield, m.DividendYield)
			fl.num(&r.RevenueGrowth, m.RevenueGrowth)
			fl.num(&r.High52W, m.High52W)
			fl.num(&r.Low52W, m.Low52W)
			fl.num(&r.MarketCap, m.MarketCap)
		})
	}

	if q := f.quote; q != nil {
		apply(SourceFinnhubQuote, func(fl *filler) {
			fl.num(&r.Price, contracts.Float(q.Current))
		})
	}

	if s := f.statistics; s != nil {
		apply(SourceYahooStatistics, func(fl *filler) {
			fl.num(&r.ForwardPE, s.ForwardPE)
			fl.num(&r.TrailingPE, s.TrailingPE)
			fl.num(&r.TrailingEPS, s.TrailingEPS)
			fl.num(&r.EarningsQuarterlyGrowth, s.EarningsQuarterlyGrowth)
			fl.num(&r.InsiderHeld, s.InsiderHeld)
			fl.num(&r.TotalCash, s.TotalCash)
			fl.num(&r.FreeCashFlow, s.FreeCashFlow)
			fl.num(&r.RevenueGrowth, s.RevenueGrowth)
			fl.num(&r.MarketCap, s.MarketCap)
			fl.num(&r.PriceToBook, s.PriceToBook)
			fl.num(&r.PriceToSales, s.PriceToSales)
			fl.num(&r.ReturnOnEquity, s.ReturnOnEquity)
			fl.num(&r.ReturnOnAssets, s.ReturnOnAssets)
			fl.num(&r.ProfitMargin, s.ProfitMargin)
			fl.num(&r.DebtToEquity, s.DebtToEquity)
			fl.num(&r.CurrentRatio, s.CurrentRatio)
			fl.num(&r.SharesOutstanding, s.SharesOutstanding)
			fl.num(&r.DividendYield, s.DividendYield)
			fl.num(&r.High52W, s.High52W)
			fl.num(&r.Low52W, s.Low52W)
		})
	}

	if fd := f.fundamentals; fd != nil {
		apply(SourceYahooFundamentals, func(fl *filler) {
			fl.num(&r.TotalAssets, fd.TotalAssets)
			fl.num(&r.TotalCurrentAssets, fd.TotalCurrentAssets)
			fl.num(&r.TotalCurrentLiabilities, fd.TotalCurrentLiabilities)
			fl.num(&r.TotalLiabilities, fd.TotalLiabilities)
			fl.num(&r.Inventory, fd.Inventory)
			fl.num(&r.FreeCashFlow, fd.FreeCashFlow)
			fl.num(&r.InventoryGrowth, fd.InventoryGrowth)
		})
	}

	if len(f.news) > 0 {
		r.News = f.news
		r.Sources = append(r.Sources, SourceFinnhubNews)
	}
	if len(f.peers) > 0 {
		r.Peers = f.peers
		r.Sources = append(r.Sources, SourceFinnhubPeers)
	}
	if f.crowd != nil {
		r.Crowd = *f.crowd
		r.Sources = append(r.Sources, SourceStockTwits)
	}

	return r
}
