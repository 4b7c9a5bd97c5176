package propview

import (
	"log/slog"

	"github.com/pthm/propview/lib/dom"
	"github.com/pthm/propview/lib/plan"
	"github.com/pthm/propview/lib/reactive"
)

// FallbackTag is constructed when a dynamic tag resolves to an empty or
// malformed name.
const FallbackTag = "div"

// Host carries the element document and reactive runtime into render
// procedures. A Host and everything rendered through it belong to one
// goroutine.
type Host struct {
	Doc     dom.Document
	Runtime *reactive.Runtime
	Logger  *slog.Logger

	disposers []func()
}

// NewHost creates a Host rendering into doc. A nil runtime renders
// reactive values once without tracking.
func NewHost(doc dom.Document, rt *reactive.Runtime) *Host {
	return &Host{Doc: doc, Runtime: rt}
}

func (h *Host) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return h.Logger
}

// Element constructs an element for tag.
func (h *Host) Element(tag string) dom.Element {
	if !plan.ValidTag(tag) {
		h.logger().Warn("invalid element tag, using fallback", "tag", tag, "fallback", FallbackTag)
		tag = FallbackTag
	}
	return h.Doc.CreateElement(tag)
}

// Effect runs fn as a tracked effect owned by h.
func (h *Host) Effect(fn func()) {
	h.disposers = append(h.disposers, h.Runtime.Effect(fn))
}

// Dispose stops every effect created through h.
func (h *Host) Dispose() {
	for _, d := range h.disposers {
		d()
	}
	h.disposers = nil
}
