package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/keydrift/internal/compare"
	"github.com/JonMunkholm/keydrift/internal/core"
)

// PageData is everything the full page needs on first render.
type PageData struct {
	Status    core.Status
	Languages core.LanguageView
	Report    *compare.AnnotatedReport
}

const copyScript = `document.addEventListener("click", function (e) {
  var b = e.target.closest("button.copy");
  if (b && navigator.clipboard) { navigator.clipboard.writeText(b.dataset.key); }
});`

// Page renders the full document.
func Page(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>keydrift</title>`)
		h.raw(`<meta name="htmx-config" content='{"responseHandling":[{"code":"204","swap":false},{"code":".*","swap":true}]}'>`)
		h.raw(`<script src="https://unpkg.com/htmx.org@2.0.4"></script>`)
		h.raw(`</head><body><main>`)
		h.raw(`<h1>Translation key drift</h1>`)

		h.raw(`<form hx-post="/api/keys" hx-encoding="multipart/form-data" hx-target="#status" hx-swap="outerHTML">`)
		h.raw(`<label>Application keys (JSON) <input type="file" name="file" accept=".json"></label>`)
		h.raw(`<button>Upload</button></form>`)

		h.raw(`<form hx-post="/api/table" hx-encoding="multipart/form-data" hx-target="#status" hx-swap="outerHTML">`)
		h.raw(`<label>Translation table (CSV or XLSX) <input type="file" name="file" accept=".csv,.xlsx"></label>`)
		h.raw(`<label>Sheet <input type="text" name="sheet"></label>`)
		h.raw(`<button>Upload</button></form>`)

		h.raw(`<div id="errors"></div>`)
		if h.err != nil {
			return h.err
		}
		if err := StatusPanel(data.Status).Render(ctx, w); err != nil {
			return err
		}
		if err := LanguageList(data.Languages).Render(ctx, w); err != nil {
			return err
		}

		h.raw(`<section id="report">`)
		if h.err != nil {
			return h.err
		}
		var report templ.Component = EmptyReport()
		if data.Report != nil {
			report = ReportView(*data.Report)
		}
		if err := report.Render(ctx, w); err != nil {
			return err
		}
		h.raw(`</section></main><script>` + copyScript + `</script></body></html>`)
		return h.err
	})
}
