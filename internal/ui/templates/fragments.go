package templates

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"orders-dashboard/internal/models"
	"orders-dashboard/internal/ui/format"
)

// SummaryView is what the section fragments render: one bundle plus the head/tail
// selections derived from it for display.
type SummaryView struct {
	Bundle models.SummaryBundle
	Best   []models.CategoryPopularity
	Worst  []models.CategoryPopularity
	Cities []models.CityOrders
	Notice string
	Format *format.Formatter
}

var fallbackFormat, _ = format.NewFormatter("AUD", "en")

func (v SummaryView) formatter() *format.Formatter {
	if v.Format != nil {
		return v.Format
	}
	return fallbackFormat
}

// Notice renders the banner shown when a requested range was replaced.
func Notice(message string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{w: w}
		p.printf(`<div id="%s">`, NoticeID)
		if message != "" {
			p.printf(`<p class="notice" role="status">%s</p>`, templ.EscapeString(message))
		}
		p.printf(`</div>`)
		return p.err
	})
}

func Metrics(v SummaryView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		f := v.formatter()
		p := &printer{w: w}
		p.printf(`<div id="%s" class="metrics">`, MetricsID)
		metric(p, "Total orders", f.Count(v.Bundle.TotalOrders))
		metric(p, "Total revenue", f.Money(v.Bundle.TotalRevenue))
		p.printf(`<div class="range-label">%s &ndash; %s</div>`,
			format.DateLabel(v.Bundle.Range.Start), format.DateLabel(v.Bundle.Range.End))
		p.printf(`</div>`)
		return p.err
	})
}

func metric(p *printer, label, value string) {
	p.printf(`<div class="metric"><div class="label">%s</div><div class="value">%s</div></div>`,
		templ.EscapeString(label), templ.EscapeString(value))
}

const (
	chartWidth  = 1000
	chartHeight = 240
	chartPad    = 20
)

// DailyChart draws distinct orders per day as an SVG polyline.
func DailyChart(v SummaryView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		rows := v.Bundle.DailyOrders
		p := &printer{w: w}
		p.printf(`<div id="%s">`, DailyID)
		if len(rows) == 0 {
			p.printf(`<p class="empty">No orders in this range.</p></div>`)
			return p.err
		}

		peak := 0
		for _, row := range rows {
			peak = max(peak, row.DistinctOrderCount)
		}

		points := make([]string, 0, len(rows))
		for i, row := range rows {
			x := chartPad
			if len(rows) > 1 {
				x += i * (chartWidth - 2*chartPad) / (len(rows) - 1)
			}
			y := chartHeight - chartPad
			if peak > 0 {
				y -= row.DistinctOrderCount * (chartHeight - 2*chartPad) / peak
			}
			points = append(points, strconv.Itoa(x)+","+strconv.Itoa(y))
		}

		p.printf(`<svg class="line" viewBox="0 0 %d %d" role="img" aria-label="Daily orders">`, chartWidth, chartHeight)
		p.printf(`<polyline fill="none" stroke="#2b6cb0" stroke-width="2" points="%s"/>`, strings.Join(points, " "))
		p.printf(`<text x="%d" y="%d" font-size="12">%s</text>`, chartPad, chartHeight-2, format.ShortDateLabel(rows[0].Day))
		p.printf(`<text x="%d" y="%d" font-size="12" text-anchor="end">%s</text>`, chartWidth-chartPad, chartHeight-2, format.ShortDateLabel(rows[len(rows)-1].Day))
		p.printf(`<text x="%d" y="14" font-size="12">peak %d</text>`, chartPad, peak)
		p.printf(`</svg></div>`)
		return p.err
	})
}

type bar struct {
	label string
	value float64
	text  string
}

// Categories renders the best and worst selections side by side.
func Categories(v SummaryView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		f := v.formatter()
		p := &printer{w: w}
		p.printf(`<div id="%s" class="pair">`, CategoriesID)
		p.printf(`<div><h3>Best performing</h3>`)
		bars(p, categoryBars(v.Best, f))
		p.printf(`</div><div><h3>Worst performing</h3>`)
		bars(p, categoryBars(v.Worst, f))
		p.printf(`</div></div>`)
		return p.err
	})
}

func categoryBars(rows []models.CategoryPopularity, f *format.Formatter) []bar {
	out := make([]bar, 0, len(rows))
	for _, row := range rows {
		out = append(out, bar{label: row.CategoryName, value: float64(row.ItemCount), text: f.Count(row.ItemCount)})
	}
	return out
}

func Cities(v SummaryView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		f := v.formatter()
		rows := make([]bar, 0, len(v.Cities))
		for _, row := range v.Cities {
			rows = append(rows, bar{label: row.City, value: float64(row.OrderCount), text: f.Count(row.OrderCount)})
		}

		p := &printer{w: w}
		p.printf(`<div id="%s">`, CitiesID)
		bars(p, rows)
		p.printf(`</div>`)
		return p.err
	})
}

// Payments renders the three payment overview metrics and one bar group per
// payment table column.
func Payments(v SummaryView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		f := v.formatter()
		overview := v.Bundle.PaymentOverview
		table := v.Bundle.PaymentMethods

		p := &printer{w: w}
		p.printf(`<div id="%s">`, PaymentsID)
		p.printf(`<div class="metrics">`)
		metric(p, "Average buyers per payment type", f.Decimal1(overview.MeanRecordCount))
		metric(p, "Average of mean payment value", f.Decimal1(overview.MeanOfMeanPayment))
		metric(p, "Average total price", f.Decimal1(overview.MeanTotalPrice))
		p.printf(`</div>`)

		counts := make([]bar, 0, len(table))
		means := make([]bar, 0, len(table))
		totals := make([]bar, 0, len(table))
		for _, row := range table {
			counts = append(counts, bar{label: row.PaymentType, value: float64(row.RecordCount), text: f.Count(row.RecordCount)})
			means = append(means, bar{label: row.PaymentType, value: row.MeanPaymentValue, text: f.Decimal1(row.MeanPaymentValue)})
			totals = append(totals, bar{label: row.PaymentType, value: row.TotalPrice, text: f.Decimal1(row.TotalPrice)})
		}

		p.printf(`<h3>Buyers</h3>`)
		bars(p, counts)
		p.printf(`<h3>Mean payment value</h3>`)
		bars(p, means)
		p.printf(`<h3>Total price</h3>`)
		bars(p, totals)
		p.printf(`</div>`)
		return p.err
	})
}

// bars draws a horizontal bar list scaled to its largest value. The first row is
// highlighted.
func bars(p *printer, rows []bar) {
	if len(rows) == 0 {
		p.printf(`<p class="empty">No data.</p>`)
		return
	}

	peak := 0.0
	for _, row := range rows {
		peak = max(peak, row.value)
	}

	p.printf(`<div class="bars">`)
	for i, row := range rows {
		width := 0.0
		if peak > 0 && row.value > 0 {
			width = row.value / peak * 100
		}
		class := "bar"
		if i == 0 {
			class += " highlight"
		}
		label := row.label
		if label == "" {
			label = "(unknown)"
		}
		p.printf(`<span class="label">%s</span><div class="%s" style="width:%s%%"></div><span class="value">%s</span>`,
			templ.EscapeString(label), class, format.Round1String(width), templ.EscapeString(row.text))
	}
	p.printf(`</div>`)
}

// Sections renders every fragment in page order.
func Sections(v SummaryView) []templ.Component {
	return []templ.Component{
		Notice(v.Notice),
		Metrics(v),
		DailyChart(v),
		Categories(v),
		Cities(v),
		Payments(v),
	}
}
