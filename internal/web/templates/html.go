// Package templates renders the HTML page and the HTMX partials.
//
// Components are plain templ.ComponentFunc values; every dynamic string goes
// through templ.EscapeString before it reaches the writer.
package templates

import (
	"io"
	"net/url"

	"github.com/a-h/templ"
)

// htmlWriter accumulates the first write error so components can emit
// markup without checking every call.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

// attr writes name="value" with value escaped, preceded by a space.
func (h *htmlWriter) attr(name, value string) {
	h.raw(" " + name + `="`)
	h.text(value)
	h.raw(`"`)
}

// pathSegment escapes s for use as one URL path segment.
func pathSegment(s string) string {
	return url.PathEscape(s)
}
