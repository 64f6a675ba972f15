package templates

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/keydrift/internal/compare"
	"github.com/JonMunkholm/keydrift/internal/core"
)

// ErrorAlert renders a dismissible error box with the support code.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<div class="alert alert-error" role="alert">`)
		h.raw(`<strong>`)
		h.text(message)
		h.raw(`</strong>`)
		if action != "" {
			h.raw(`<p>`)
			h.text(action)
			h.raw(`</p>`)
		}
		if code != "" {
			h.raw(`<small>Code: `)
			h.text(code)
			h.raw(`</small>`)
		}
		h.raw(`</div>`)
		return h.err
	})
}

// StatusPanel shows which files are loaded and whether compare is possible.
func StatusPanel(st core.Status) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<section id="status" class="status">`)

		h.raw(`<p>Keys: `)
		if st.KeysLoaded {
			h.text(st.KeysFile)
			h.raw(` (` + strconv.Itoa(st.KeyCount) + ` keys)`)
		} else {
			h.raw(`<em>not loaded</em>`)
		}
		h.raw(`</p>`)

		h.raw(`<p>Table: `)
		if st.TableLoaded {
			h.text(st.TableFile)
			h.raw(` (` + strconv.Itoa(st.RowCount) + ` rows, ` + strconv.Itoa(st.ColumnCount) + ` columns)`)
		} else {
			h.raw(`<em>not loaded</em>`)
		}
		h.raw(`</p>`)

		h.raw(`<button hx-post="/api/compare" hx-target="#report" hx-swap="innerHTML"`)
		if !st.Ready() {
			h.raw(` disabled`)
		}
		h.raw(`>Compare</button>`)
		h.raw(`</section>`)
		return h.err
	})
}

// LanguageList renders one toggle per language column.
func LanguageList(view core.LanguageView) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<section id="languages" class="languages">`)
		if len(view.Languages) == 0 {
			h.raw(`<p><em>No language columns.</em></p>`)
		}
		h.raw(`<ul>`)
		for _, lang := range view.Languages {
			h.raw(`<li><label><input type="checkbox"`)
			h.attr("hx-post", "/api/ignore/"+pathSegment(lang.Name))
			h.raw(` hx-target="#languages" hx-swap="outerHTML"`)
			if !lang.Ignored {
				h.raw(` checked`)
			}
			h.raw(`> `)
			h.text(lang.Name)
			h.raw(`</label></li>`)
		}
		h.raw(`</ul>`)
		if len(view.Ignored) > 0 {
			h.raw(`<button hx-delete="/api/ignore" hx-target="#languages" hx-swap="outerHTML">Include all</button>`)
		}
		h.raw(`</section>`)
		return h.err
	})
}

// ReportView renders both report lists with acknowledgement checkboxes and
// copy buttons.
func ReportView(report compare.AnnotatedReport) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<div class="report">`)

		h.raw(`<h2>Missing keys <small>(` + strconv.Itoa(report.AckedMissing) + `/` +
			strconv.Itoa(len(report.MissingKeys)) + ` reviewed)</small></h2>`)
		if len(report.MissingKeys) == 0 {
			h.raw(`<p><em>Every key is present in the table.</em></p>`)
		}
		h.raw(`<ul class="missing">`)
		for _, e := range report.MissingKeys {
			entry(h, compare.TrackMissing, e.Key, e.Acknowledged, nil)
		}
		h.raw(`</ul>`)

		h.raw(`<h2>Translation issues <small>(` + strconv.Itoa(report.AckedIssues) + `/` +
			strconv.Itoa(len(report.TranslationIssues)) + ` reviewed)</small></h2>`)
		if len(report.TranslationIssues) == 0 {
			h.raw(`<p><em>Every matched key is translated.</em></p>`)
		}
		h.raw(`<ul class="issues">`)
		for _, e := range report.TranslationIssues {
			entry(h, compare.TrackIssues, e.Key, e.Acknowledged, e.MissingLanguages)
		}
		h.raw(`</ul>`)

		h.raw(`<p class="stats">`)
		h.raw(strconv.Itoa(report.Stats.Keys) + ` keys, ` +
			strconv.Itoa(report.Stats.Rows) + ` rows, ` +
			strconv.Itoa(report.Stats.ActiveLanguages) + ` active languages`)
		h.raw(`</p>`)

		h.raw(`<p><a href="/api/report/export">Download CSV</a> `)
		h.raw(`<button hx-delete="/api/ack" hx-target="#report">Clear reviews</button> `)
		h.raw(`<button hx-delete="/api/report" hx-target="#report">Clear report</button></p>`)
		h.raw(`</div>`)
		return h.err
	})
}

func entry(h *htmlWriter, track compare.Track, key string, acked bool, missing []string) {
	h.raw(`<li><input type="checkbox"`)
	h.attr("hx-post", "/api/ack/"+string(track)+"/"+pathSegment(key))
	h.raw(` hx-target="#report"`)
	if acked {
		h.raw(` checked`)
	}
	h.raw(`> <code>`)
	h.text(key)
	h.raw(`</code>`)
	if len(missing) > 0 {
		h.raw(` missing: `)
		h.text(strings.Join(missing, ", "))
	}
	h.raw(` <button type="button" class="copy"`)
	h.attr("data-key", key)
	h.raw(`>Copy</button></li>`)
}

// EmptyReport is shown in place of a report that has been cleared.
func EmptyReport() templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<p><em>No comparison yet.</em></p>`)
		return err
	})
}
