package propview

import (
	"context"
	"encoding"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/pthm/propview/lib/dom"
)

// View is the output of a render procedure: zero or more host nodes.
// Views of the in-memory host render as HTML.
type View struct {
	nodes []dom.Node
}

var _ templ.Component = View{}

// ViewOf collects nodes into a View, dropping nils.
func ViewOf(nodes ...dom.Node) View {
	var v View
	for _, n := range nodes {
		if n != nil {
			v.nodes = append(v.nodes, n)
		}
	}
	return v
}

// Nodes returns the view's nodes.
func (v View) Nodes() []dom.Node {
	return v.nodes
}

// IsEmpty reports whether the view has no nodes.
func (v View) IsEmpty() bool {
	return len(v.nodes) == 0
}

// First returns the first node as an element, if it is one.
func (v View) First() (dom.Element, bool) {
	if len(v.nodes) == 0 {
		return nil, false
	}
	el, ok := v.nodes[0].(dom.Element)
	return el, ok
}

// Render writes every node that can render itself.
func (v View) Render(ctx context.Context, w io.Writer) error {
	for _, n := range v.nodes {
		c, ok := n.(templ.Component)
		if !ok {
			continue
		}
		if err := c.Render(ctx, w); err != nil {
			return err
		}
	}
	return nil
}

// Children produces the child content of an element. A nil Children
// renders nothing.
type Children func(h *Host) View

// View renders the children, or an empty view when c is nil.
func (c Children) View(h *Host) View {
	if c == nil {
		return View{}
	}
	return c(h)
}

// Fragment combines children in order.
func Fragment(parts ...Children) Children {
	return func(h *Host) View {
		var out View
		for _, p := range parts {
			out.nodes = append(out.nodes, p.View(h).nodes...)
		}
		return out
	}
}

// Text returns children consisting of one text node.
func Text(s string) Children {
	return func(h *Host) View {
		return ViewOf(h.Doc.CreateText(s))
	}
}

// Component returns children embedding a templ component. Hosts that cannot
// embed components render nothing.
func Component(c templ.Component) Children {
	return func(h *Host) View {
		rc, ok := h.Doc.(dom.RawCreator)
		if !ok || c == nil {
			h.logger().Debug("host cannot embed templ components")
			return View{}
		}
		return ViewOf(rc.CreateRaw(c))
	}
}

// AttachRef loads el into ref.
func AttachRef(el dom.Element, ref Loader) {
	if ref != nil {
		ref.LoadElement(el)
	}
}

// DynamicTag returns the tag selected by v.
func DynamicTag[T Tagger](v T) string {
	return v.Tag()
}

// AnyTag returns the text rendering of v as a tag.
func AnyTag(v any) string {
	if t, ok := v.(Tagger); ok {
		return t.Tag()
	}
	if s, ok := FormatAttr(v, true); ok {
		return s
	}
	return ""
}

// SetAttr applies a plain property value. Zero values, nil pointers and
// false remove the attribute.
func SetAttr(el dom.Element, name string, v any) {
	applyAttr(el, name, v, false)
}

// Computed binds a reactive property to an attribute. The attribute follows
// the value whenever signals read by p change. An unset p leaves the
// attribute alone.
func Computed[T any](h *Host, el dom.Element, name string, p MaybeProp[T]) {
	if !p.IsSet() {
		return
	}
	h.Effect(func() {
		v, ok := p.Get()
		if !ok {
			el.RemoveAttribute(name)
			return
		}
		applyAttr(el, name, v, true)
	})
}

// Spread applies an attribute map.
func Spread(el dom.Element, attrs Attributes) {
	attrs.Apply(el)
}

// On binds a handler. A nil handler binds nothing.
func On[E any](h *Host, el dom.Element, event string, cb Callback[E]) {
	if cb == nil {
		return
	}
	el.AddEventListener(event, adapt(h, event, cb))
}

// OnMaybe binds the handler in m, if any.
func OnMaybe[E any](h *Host, el dom.Element, event string, m MaybeCallback[E]) {
	if m.IsNone() {
		return
	}
	el.AddEventListener(event, adapt(h, event, m.AsCallback()))
}

// adapt narrows host events to the handler's event type. Events of another
// type are dropped.
func adapt[E any](h *Host, event string, cb Callback[E]) func(dom.Event) {
	return func(ev dom.Event) {
		e, ok := any(ev).(E)
		if !ok {
			h.logger().Debug("event type mismatch", "event", event, "got", fmt.Sprintf("%T", ev))
			return
		}
		cb(e)
	}
}

// AppendChildren renders children into el.
func AppendChildren(h *Host, el dom.Element, children Children) {
	for _, n := range children.View(h).nodes {
		el.AppendChild(n)
	}
}

func (cb Callback[E]) bindEvent(h *Host, el dom.Element, event string) {
	On(h, el, event, cb)
}

func (m MaybeCallback[E]) bindEvent(h *Host, el dom.Element, event string) {
	OnMaybe(h, el, event, m)
}

func applyAttr(el dom.Element, name string, v any, explicit bool) {
	if s, ok := FormatAttr(v, explicit); ok {
		el.SetAttribute(name, s)
		return
	}
	el.RemoveAttribute(name)
}

// FormatAttr renders a property value as attribute text. It reports false
// when the attribute should be absent: nil, nil pointers, false, and, unless
// explicit is set, zero values. A true bool renders as the empty string.
func FormatAttr(v any, explicit bool) (string, bool) {
	if v == nil {
		return "", false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", false
		}
		// Only a String method declared on the pointer itself keeps the
		// pointer; everything else formats the pointee.
		elem := rv.Elem().Interface()
		_, ptrStringer := v.(fmt.Stringer)
		_, elemStringer := elem.(fmt.Stringer)
		if !ptrStringer || elemStringer {
			return FormatAttr(elem, true)
		}
	}
	if !explicit && rv.IsZero() {
		return "", false
	}

	switch x := v.(type) {
	case bool:
		return "", x
	case string:
		return x, true
	case []string:
		if len(x) == 0 {
			return "", false
		}
		return strings.Join(x, " "), true
	case Style:
		s := x.String()
		return s, s != ""
	case fmt.Stringer:
		return x.String(), true
	case encoding.TextMarshaler:
		b, err := x.MarshalText()
		if err != nil {
			return "", false
		}
		return string(b), true
	}

	switch rv.Kind() {
	case reflect.Bool:
		return "", rv.Bool()
	case reflect.String:
		return rv.String(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 32), true
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 64), true
	default:
		return fmt.Sprint(v), true
	}
}
