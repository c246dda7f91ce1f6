package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-pdf/fpdf"
)

const (
	pdfFont     = "Arial"
	pdfBodySize = 9.0
	pdfLineH    = 5.0
)

// pdfWriter draws the view onto an A4 page flow
type pdfWriter struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func writePDF(w io.Writer, d Data) error {
	v := buildView(d)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(12, 12, 12)
	pdf.SetAutoPageBreak(true, 12)
	pdf.SetTitle(fmt.Sprintf("Investo - %s analysis", v.Symbol), true)
	pdf.SetCreator("investo", true)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-10)
		pdf.SetFont(pdfFont, "I", 7)
		pdf.CellFormat(0, 4, "Page "+strconv.Itoa(pdf.PageNo())+"/{nb}  -  For information only. Not investment advice.", "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pw := &pdfWriter{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	pw.header(v)
	pw.verdict(v)
	pw.snapshot(v)
	pw.table(fmt.Sprintf("Value scorecard (%d/%d criteria met)", v.ValuePassed, v.ValueMeasured), v.ValueRows)
	if v.NetNetComment != "" {
		pw.paragraph(v.NetNetComment)
	}
	pw.table(fmt.Sprintf("Growth scorecard (%d/%d criteria met)", v.GrowthPassed, v.GrowthMeasured), v.GrowthRows)
	pw.sentiment(v)
	pw.news(v)

	if v.Peers != "" {
		pw.heading("Peers")
		pw.paragraph(v.Peers)
	}
	pw.paragraph("Sources: " + v.Sources)

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}

func (p *pdfWriter) heading(text string) {
	p.pdf.Ln(3)
	p.pdf.SetFont(pdfFont, "B", 12)
	p.pdf.CellFormat(0, 7, p.tr(text), "", 1, "L", false, 0, "")
	p.pdf.SetFont(pdfFont, "", pdfBodySize)
}

func (p *pdfWriter) paragraph(text string) {
	p.pdf.SetFont(pdfFont, "", pdfBodySize)
	p.pdf.MultiCell(0, pdfLineH, p.tr(text), "", "L", false)
}

func (p *pdfWriter) keyValues(pairs [][2]string) {
	for _, kv := range pairs {
		p.pdf.SetFont(pdfFont, "B", pdfBodySize)
		p.pdf.CellFormat(45, pdfLineH, p.tr(kv[0]), "", 0, "L", false, 0, "")
		p.pdf.SetFont(pdfFont, "", pdfBodySize)
		p.pdf.CellFormat(0, pdfLineH, p.tr(kv[1]), "", 1, "L", false, 0, "")
	}
}

func (p *pdfWriter) header(v view) {
	p.pdf.SetFont(pdfFont, "B", 18)
	p.pdf.CellFormat(0, 10, p.tr(fmt.Sprintf("%s (%s)", v.Name, v.Symbol)), "", 1, "L", false, 0, "")
	p.pdf.SetFont(pdfFont, "", 8)
	p.pdf.CellFormat(0, 4, p.tr(fmt.Sprintf("%s / %s - generated %s", v.Sector, v.Industry, v.GeneratedAt)), "", 1, "L", false, 0, "")
}

func (p *pdfWriter) verdict(v view) {
	r, g, b := toneColor(v.Tone)
	p.pdf.Ln(3)
	p.pdf.SetFillColor(r, g, b)
	p.pdf.SetTextColor(255, 255, 255)
	p.pdf.SetFont(pdfFont, "B", 16)
	p.pdf.CellFormat(0, 10, p.tr(fmt.Sprintf("%s  %s/100", v.Label, v.Composite)), "", 1, "C", true, 0, "")
	p.pdf.SetTextColor(0, 0, 0)

	p.pdf.Ln(2)
	p.keyValues([][2]string{
		{"Value score", v.ValueScore},
		{"Growth score", v.GrowthScore},
		{"Sentiment score", v.SentimentScore},
	})
	p.paragraph(v.Summary)
	for _, reason := range v.Rationale {
		p.paragraph("- " + reason)
	}
}

func (p *pdfWriter) snapshot(v view) {
	p.heading("Snapshot")
	p.keyValues([][2]string{
		{"Price", v.Price},
		{"Market cap", v.MarketCap},
		{"52-week range", v.Range52W},
		{"Intrinsic value", v.IntrinsicValue},
		{"Margin of safety", v.MarginOfSafety},
	})
	if c := v.Chart; c != nil {
		p.keyValues([][2]string{
			{"History (" + c.Period + ")", fmt.Sprintf("start %s, last %s, low %s, high %s", c.First, c.Last, c.Low, c.High)},
		})
	}
}

func (p *pdfWriter) table(title string, rows []Row) {
	p.heading(title)
	widths := []float64{60, 40, 50, 26}

	p.pdf.SetFont(pdfFont, "B", pdfBodySize)
	p.pdf.SetFillColor(230, 233, 237)
	for i, h := range []string{"Metric", "Value", "Criterion", ""} {
		p.pdf.CellFormat(widths[i], 6, h, "1", 0, "L", true, 0, "")
	}
	p.pdf.Ln(-1)

	p.pdf.SetFont(pdfFont, "", pdfBodySize)
	for _, row := range rows {
		p.pdf.CellFormat(widths[0], 6, p.tr(row.Metric), "1", 0, "L", false, 0, "")
		p.pdf.CellFormat(widths[1], 6, p.tr(row.Value), "1", 0, "L", false, 0, "")
		p.pdf.CellFormat(widths[2], 6, p.tr(row.Criterion), "1", 0, "L", false, 0, "")

		r, g, b := statusColor(row.Status)
		p.pdf.SetTextColor(r, g, b)
		p.pdf.CellFormat(widths[3], 6, statusMark(row.Status), "1", 1, "C", false, 0, "")
		p.pdf.SetTextColor(0, 0, 0)
	}
}

func (p *pdfWriter) sentiment(v view) {
	p.heading("Social sentiment")
	s := v.Sentiment
	if !s.Available {
		p.paragraph(fmt.Sprintf("Score %s (neutral stand-in). %s", s.Score, s.Note))
	} else {
		p.keyValues([][2]string{
			{"Score", fmt.Sprintf("%s (%s)", s.Score, s.Verdict)},
			{"Tone", s.Tone},
			{"Mentions", strconv.Itoa(s.Mentions)},
			{"Avg sentiment", s.Average},
			{"Confidence", s.Confidence},
			{"Momentum", s.Momentum},
			{"Buzz", s.Buzz},
			{"Reliability index", s.ReliabilityIndex},
			{"Weighted bias", s.WeightedBias},
		})
		for _, post := range s.TopPosts {
			p.paragraph(fmt.Sprintf("- %s (r/%s, %d points, %+.2f)", post.Title, post.Subreddit, post.Score, post.Sentiment))
		}
	}
	if c := v.Crowd; c != nil {
		p.paragraph(fmt.Sprintf("StockTwits: %d messages, %d bullish, %d bearish.", c.Mentions, c.Bullish, c.Bearish))
	}
}

func (p *pdfWriter) news(v view) {
	if len(v.News) > 0 {
		p.heading("Company news")
		for _, n := range v.News {
			p.paragraph("- " + n.Headline)
		}
	}
	if len(v.Global) > 0 {
		p.heading("Market headlines")
		for _, n := range v.Global {
			p.paragraph("- " + n.Headline)
		}
	}
}

func toneColor(tone string) (int, int, int) {
	switch tone {
	case "bullish":
		return 47, 158, 68
	case "neutral":
		return 245, 159, 0
	default:
		return 224, 49, 49
	}
}

func statusColor(status string) (int, int, int) {
	switch status {
	case StatusPass:
		return 47, 158, 68
	case StatusFail:
		return 224, 49, 49
	default:
		return 130, 140, 150
	}
}
