package propview

import (
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/pthm/propview/lib/dom"
	"github.com/pthm/propview/lib/reactive"
)

// Render writes a templ component to the HTTP response.
//
// Sets Content-Type to text/html and renders the component using the
// request's context. Views are templ components, so a rendered record can
// be written directly:
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    h := propview.NewMemoryHost(nil)
//	    propview.Render(w, r, CardProps{Title: "Home"}.Render(h))
//	}
func Render(w http.ResponseWriter, r *http.Request, component templ.Component) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(r.Context(), w)
}

// NewMemoryHost creates a Host rendering into a fresh in-memory document
// with its own reactive runtime. Use one per request.
func NewMemoryHost(logger *slog.Logger) *Host {
	h := NewHost(dom.NewDocument(), reactive.NewRuntime())
	h.Logger = logger
	return h
}

// ViewFunc builds a view for a request.
type ViewFunc func(r *http.Request, h *Host) (View, error)

// Handle adapts a view builder to an http.Handler. Each request renders
// into its own in-memory host, disposed once the response is written. A
// build error becomes a 500 response.
func Handle(build ViewFunc, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := NewMemoryHost(logger)
		defer h.Dispose()

		v, err := build(r, h)
		if err != nil {
			h.logger().Error("render failed", "path", r.URL.Path, "error", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if err := Render(w, r, v); err != nil {
			h.logger().Error("write failed", "path", r.URL.Path, "error", err)
		}
	})
}
