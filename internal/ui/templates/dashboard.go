package templates

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/a-h/templ"

	"orders-dashboard/internal/ui/format"
)

const datastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.5/bundles/datastar.js"

// Fragment ids patched by the SSE handlers.
const (
	NoticeID     = "notice"
	MetricsID    = "metrics"
	DailyID      = "daily-orders"
	CategoriesID = "categories"
	CitiesID     = "cities"
	PaymentsID   = "payments"
)

type DashboardView struct {
	Title   string
	MinDate time.Time
	MaxDate time.Time
	HasData bool
}

// Dashboard renders the page shell. Every section starts as a placeholder and is
// filled by /sse/refresh-all once the page initialises.
func Dashboard(view DashboardView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		title := view.Title
		if title == "" {
			title = "Orders Dashboard"
		}
		minDate := format.DateLabel(view.MinDate)
		maxDate := format.DateLabel(view.MaxDate)

		p := &printer{w: w}
		p.printf(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		p.printf(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		p.printf(`<title>%s</title>`, templ.EscapeString(title))
		p.printf(`<script type="module" src="%s"></script>`, datastarScript)
		p.printf(`<style>%s</style></head>`, stylesheet)

		p.printf(`<body><main data-signals='{"start":"%s","end":"%s"}'`, minDate, maxDate)
		if view.HasData {
			p.printf(` data-init="@get('/sse/refresh-all')"`)
		}
		p.printf(`>`)
		p.printf(`<header><h1>%s</h1>`, templ.EscapeString(title))
		p.printf(`<form class="range" data-on-submit__prevent="@get('/sse/refresh-all')">`)
		p.printf(`<label>From <input type="date" name="start" min="%s" max="%s" data-bind-start></label>`, minDate, maxDate)
		p.printf(`<label>To <input type="date" name="end" min="%s" max="%s" data-bind-end></label>`, minDate, maxDate)
		p.printf(`<button type="submit">Apply</button>`)
		p.printf(`<a class="export" data-attr-href="'/api/export.xlsx?start=' + $start + '&end=' + $end" href="/api/export.xlsx">Download XLSX</a>`)
		p.printf(`</form></header>`)

		p.printf(`<div id="%s"></div>`, NoticeID)
		if !view.HasData {
			p.printf(`<p class="empty">No orders loaded.</p>`)
		}

		section(p, "Daily orders", MetricsID, DailyID)
		section(p, "Best and worst product categories", CategoriesID)
		section(p, "Top customer cities", CitiesID)
		section(p, "Payment methods", PaymentsID)

		p.printf(`</main></body></html>`)
		return p.err
	})
}

func section(p *printer, heading string, ids ...string) {
	p.printf(`<section><h2>%s</h2>`, templ.EscapeString(heading))
	for _, id := range ids {
		p.printf(`<div id="%s" class="placeholder">Loading&hellip;</div>`, id)
	}
	p.printf(`</section>`)
}

// printer keeps the first write error so components can emit markup without
// checking every call.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(layout string, args ...any) {
	if p.err != nil {
		return
	}
	if len(args) == 0 {
		_, p.err = io.WriteString(p.w, layout)
		return
	}
	_, p.err = fmt.Fprintf(p.w, layout, args...)
}

const stylesheet = `
body{font-family:system-ui,sans-serif;margin:0;background:#f6f7f9;color:#1f2933}
main{max-width:1100px;margin:0 auto;padding:1.5rem}
header{display:flex;flex-wrap:wrap;align-items:baseline;justify-content:space-between;gap:1rem}
form.range{display:flex;gap:.75rem;align-items:center}
section{background:#fff;border-radius:8px;padding:1rem 1.25rem;margin:1rem 0;box-shadow:0 1px 2px rgba(0,0,0,.08)}
.metrics{display:flex;gap:2rem}
.metric .label{font-size:.8rem;color:#52606d}
.metric .value{font-size:1.6rem;font-weight:600}
.notice{background:#fff4e5;border:1px solid #f0b429;padding:.5rem 1rem;border-radius:6px}
.bars{display:grid;grid-template-columns:minmax(8rem,14rem) 1fr auto;gap:.3rem .75rem;align-items:center}
.bar{height:1rem;background:#90cdf4;border-radius:3px}
.bar.highlight{background:#2b6cb0}
.pair{display:grid;grid-template-columns:1fr 1fr;gap:1.5rem}
svg.line{width:100%;height:260px}
.placeholder{color:#9aa5b1}
`
