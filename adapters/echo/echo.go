// Package propviewecho provides Echo framework integration for propview
// views.
//
// Each request renders into a fresh in-memory document:
//
//	card := propview.MustCompile[CardProps]()
//	e.GET("/card", propviewecho.Handler(card, func(c echo.Context) (CardProps, error) {
//	    return CardProps{Title: c.QueryParam("title")}, nil
//	}))
//
// Or build the view by hand:
//
//	e.GET("/", propviewecho.Page(func(c echo.Context, h *propview.Host) (propview.View, error) {
//	    return CardProps{Title: "Home"}.Render(h), nil
//	}))
package propviewecho

import (
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/pthm/propview"
)

// Option configures handlers.
type Option func(*options)

type options struct {
	logger *slog.Logger
	status int
}

// WithLogger sets the logger handed to each request's Host.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithStatus sets the response status code. Defaults to 200.
func WithStatus(code int) Option {
	return func(o *options) {
		o.status = code
	}
}

func newOptions(opts []Option) *options {
	o := &options{status: http.StatusOK}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// NewHost creates a request-scoped host rendering into an in-memory
// document.
func NewHost(logger *slog.Logger) *propview.Host {
	return propview.NewMemoryHost(logger)
}

// Page adapts a view builder to an Echo handler.
func Page(build func(c echo.Context, h *propview.Host) (propview.View, error), opts ...Option) echo.HandlerFunc {
	o := newOptions(opts)
	return func(c echo.Context) error {
		h := NewHost(o.logger)
		defer h.Dispose()

		v, err := build(c, h)
		if err != nil {
			return err
		}
		return RenderStatus(c, o.status, v)
	}
}

// Handler renders a compiled record with props bound from the request.
// Records that accept children render without any.
func Handler[P any](compiled *propview.Compiled[P], bind func(c echo.Context) (P, error), opts ...Option) echo.HandlerFunc {
	return Page(func(c echo.Context, h *propview.Host) (propview.View, error) {
		props, err := bind(c)
		if err != nil {
			return propview.View{}, echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return compiled.Render(h, props, nil), nil
	}, opts...)
}

// Render writes a templ component to the Echo response.
//
//	func handler(c echo.Context) error {
//	    return propviewecho.Render(c, myTemplate())
//	}
func Render(c echo.Context, component templ.Component) error {
	return RenderStatus(c, http.StatusOK, component)
}

// RenderStatus writes a templ component with the given status code.
func RenderStatus(c echo.Context, code int, component templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return component.Render(c.Request().Context(), c.Response())
}
