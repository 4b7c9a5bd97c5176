package propviewecho

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pthm/propview"
)

type badgeProps struct {
	_     propview.Record `view:"span,nochildren"`
	Class string
	Title string
}

func serve(e *echo.Echo, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHandler(t *testing.T) {
	e := echo.New()
	badge := propview.MustCompile[badgeProps]()
	e.GET("/badge", Handler(badge, func(c echo.Context) (badgeProps, error) {
		return badgeProps{Class: "badge", Title: c.QueryParam("title")}, nil
	}))

	rec := serve(e, "/badge?title=New")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get(echo.HeaderContentType); !strings.HasPrefix(got, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", got)
	}
	if got, want := rec.Body.String(), `<span class="badge" title="New"></span>`; got != want {
		t.Errorf("body = %q, want %q", got, want)
	}
}

func TestHandlerBindError(t *testing.T) {
	e := echo.New()
	badge := propview.MustCompile[badgeProps]()
	e.GET("/badge", Handler(badge, func(c echo.Context) (badgeProps, error) {
		return badgeProps{}, errors.New("missing title")
	}))

	rec := serve(e, "/badge")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestPageWithStatus(t *testing.T) {
	e := echo.New()
	badge := propview.MustCompile[badgeProps]()
	e.GET("/missing", Page(func(c echo.Context, h *propview.Host) (propview.View, error) {
		return badge.Render(h, badgeProps{Title: "Not found"}, nil), nil
	}, WithStatus(http.StatusNotFound)))

	rec := serve(e, "/missing")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `title="Not found"`) {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestRenderText(t *testing.T) {
	e := echo.New()
	e.GET("/", Page(func(c echo.Context, h *propview.Host) (propview.View, error) {
		return propview.Text("a < b").View(h), nil
	}))

	rec := serve(e, "/")
	if got := rec.Body.String(); got != "a &lt; b" {
		t.Errorf("body = %q, want escaped text", got)
	}
}
