package propview

import (
	"bytes"
	"context"
	"strings"

	"github.com/pthm/propview/lib/dom"
	"github.com/pthm/propview/lib/reactive"
)

// TestResult holds the result of rendering a view for testing.
//
// Provides convenience methods for asserting on HTML content, attributes
// and bound events of the root element.
type TestResult struct {
	HTML    string
	View    View
	Host    *Host
	Doc     *dom.MemDocument
	Runtime *reactive.Runtime
}

// TestRender renders a view into a fresh in-memory host and returns
// testable output.
//
//	result, err := propview.TestRender(func(h *propview.Host) propview.View {
//	    return CardProps{Title: "Hi"}.Render(h)
//	})
//	if !result.HTMLContains("Hi") {
//	    t.Fatal("missing title")
//	}
func TestRender(build func(h *Host) View) (*TestResult, error) {
	return TestRenderWithContext(context.Background(), build)
}

// TestRenderWithContext renders a view and serializes it with ctx.
//
// Use this when the view embeds templ components that read values from
// context.
func TestRenderWithContext(ctx context.Context, build func(h *Host) View) (*TestResult, error) {
	doc := dom.NewDocument()
	rt := reactive.NewRuntime()
	h := NewHost(doc, rt)

	r := &TestResult{
		View:    build(h),
		Host:    h,
		Doc:     doc,
		Runtime: rt,
	}
	if err := r.RefreshWithContext(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// TestRenderRecord renders a compiled record.
func TestRenderRecord[P any](c *Compiled[P], props P, children Children) (*TestResult, error) {
	return TestRender(func(h *Host) View {
		return c.Render(h, props, children)
	})
}

// Refresh re-serializes the view into HTML. Call it after changing signals
// the view reads.
func (r *TestResult) Refresh() error {
	return r.RefreshWithContext(context.Background())
}

// RefreshWithContext is Refresh with a custom context.
func (r *TestResult) RefreshWithContext(ctx context.Context) error {
	var buf bytes.Buffer
	if err := r.View.Render(ctx, &buf); err != nil {
		return err
	}
	r.HTML = buf.String()
	return nil
}

// HTMLContains checks if the rendered HTML contains the given substring.
func (r *TestResult) HTMLContains(substr string) bool {
	return strings.Contains(r.HTML, substr)
}

// HTMLContainsAll checks if the rendered HTML contains all given substrings.
func (r *TestResult) HTMLContainsAll(substrs ...string) bool {
	for _, s := range substrs {
		if !strings.Contains(r.HTML, s) {
			return false
		}
	}
	return true
}

// HTMLContainsAny checks if the rendered HTML contains any of the given substrings.
func (r *TestResult) HTMLContainsAny(substrs ...string) bool {
	for _, s := range substrs {
		if strings.Contains(r.HTML, s) {
			return true
		}
	}
	return false
}

// Root returns the first node of the view when it is an in-memory element.
func (r *TestResult) Root() *dom.MemElement {
	el, ok := r.View.First()
	if !ok {
		return nil
	}
	m, _ := el.(*dom.MemElement)
	return m
}

// Attr returns an attribute of the root element.
func (r *TestResult) Attr(name string) (string, bool) {
	root := r.Root()
	if root == nil {
		return "", false
	}
	return root.GetAttribute(name)
}

// HasAttr checks if the root element carries name with the given value.
func (r *TestResult) HasAttr(name, value string) bool {
	v, ok := r.Attr(name)
	return ok && v == value
}

// HasEvent checks if the root element has a handler bound for event.
func (r *TestResult) HasEvent(event string) bool {
	root := r.Root()
	return root != nil && root.Listeners(event) > 0
}

// Dispatch fires event on the root element and returns how many handlers
// ran.
func (r *TestResult) Dispatch(event string, ev dom.Event) int {
	root := r.Root()
	if root == nil {
		return 0
	}
	return root.Dispatch(event, ev)
}

// EventRecorder collects the events delivered to its callback.
//
//	var clicks propview.EventRecorder[dom.Event]
//	props := ButtonProps{OnClick: clicks.Callback()}
type EventRecorder[E any] struct {
	Events []E
}

// Callback returns a handler appending to r.Events.
func (r *EventRecorder[E]) Callback() Callback[E] {
	return func(e E) {
		r.Events = append(r.Events, e)
	}
}

// Count returns how many events were recorded.
func (r *EventRecorder[E]) Count() int {
	return len(r.Events)
}

// Last returns the most recent event.
func (r *EventRecorder[E]) Last() (E, bool) {
	if len(r.Events) == 0 {
		var zero E
		return zero, false
	}
	return r.Events[len(r.Events)-1], true
}
