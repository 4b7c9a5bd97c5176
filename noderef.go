package propview

import (
	"reflect"

	"github.com/pthm/propview/lib/dom"
	"github.com/pthm/propview/lib/reactive"
)

// AnyNodeRef is a reactive handle to a host element of any kind. It is empty
// until a render procedure loads an element into it.
//
// The zero AnyNodeRef is unbound: reads report no element and loads are
// dropped. Use NewAnyNodeRef to get a handle that can be populated.
//
// Handles belong to the goroutine that owns their reactive runtime.
type AnyNodeRef struct {
	cell *reactive.Signal[dom.Element]
}

// NewAnyNodeRef creates an empty handle on rt.
func NewAnyNodeRef(rt *reactive.Runtime) AnyNodeRef {
	return AnyNodeRef{cell: reactive.NewSignal[dom.Element](rt, nil)}
}

// Bound reports whether the handle can hold an element.
func (r AnyNodeRef) Bound() bool {
	return r.cell != nil
}

// Get returns the current element and subscribes the running effect.
func (r AnyNodeRef) Get() (dom.Element, bool) {
	if r.cell == nil {
		return nil, false
	}
	el := r.cell.Get()
	return el, el != nil
}

// GetUntracked returns the current element without subscribing.
func (r AnyNodeRef) GetUntracked() (dom.Element, bool) {
	if r.cell == nil {
		return nil, false
	}
	el := r.cell.GetUntracked()
	return el, el != nil
}

// Track subscribes the running effect to changes of the handle.
func (r AnyNodeRef) Track() {
	if r.cell != nil {
		r.cell.Track()
	}
}

// Load stores el. The last load wins. Loading the element the handle
// already holds does not notify subscribers.
func (r AnyNodeRef) Load(el dom.Element) {
	if r.cell == nil || el == nil {
		return
	}
	if cur := r.cell.GetUntracked(); cur != nil && cur.Equal(el) {
		return
	}
	r.cell.Set(el)
}

// Unload empties the handle.
func (r AnyNodeRef) Unload() {
	if r.cell == nil || r.cell.GetUntracked() == nil {
		return
	}
	r.cell.Set(nil)
}

// ToAny returns r itself.
func (r AnyNodeRef) ToAny() AnyNodeRef {
	return r
}

// NodeRef is a handle to a host element of a known kind.
type NodeRef[E dom.Element] struct {
	cell *reactive.Signal[E]
	rt   *reactive.Runtime
}

// NewNodeRef creates an empty typed handle on rt.
func NewNodeRef[E dom.Element](rt *reactive.Runtime) NodeRef[E] {
	var zero E
	return NodeRef[E]{cell: reactive.NewSignal(rt, zero), rt: rt}
}

// Get returns the element and subscribes the running effect.
func (r NodeRef[E]) Get() (E, bool) {
	var zero E
	if r.cell == nil {
		return zero, false
	}
	el := r.cell.Get()
	return el, !isNilElement(el)
}

// GetUntracked returns the element without subscribing.
func (r NodeRef[E]) GetUntracked() (E, bool) {
	var zero E
	if r.cell == nil {
		return zero, false
	}
	el := r.cell.GetUntracked()
	return el, !isNilElement(el)
}

// Track subscribes the running effect to changes of the handle.
func (r NodeRef[E]) Track() {
	if r.cell != nil {
		r.cell.Track()
	}
}

// Load stores el.
func (r NodeRef[E]) Load(el E) {
	if r.cell != nil {
		r.cell.Set(el)
	}
}

// ToAny returns a new erased handle holding the element r holds now, or
// an empty one. Later loads into r are not reflected.
func (r NodeRef[E]) ToAny() AnyNodeRef {
	if r.cell == nil {
		return AnyNodeRef{}
	}
	out := NewAnyNodeRef(r.rt)
	if el, ok := r.GetUntracked(); ok {
		out.cell.Set(el)
	}
	return out
}

// As returns the element held by r when it has concrete type E.
func As[E dom.Element](r AnyNodeRef) (E, bool) {
	el, ok := r.GetUntracked()
	if !ok {
		var zero E
		return zero, false
	}
	typed, ok := el.(E)
	return typed, ok
}

// Equal reports whether two handles hold the same value: both empty, or
// both holding elements the host considers equal.
func Equal(a, b AnyNodeRef) bool {
	x, okA := a.GetUntracked()
	y, okB := b.GetUntracked()
	if !okA || !okB {
		return okA == okB
	}
	return x.Equal(y)
}

// Same reports whether a and b are the same handle. Two unbound handles
// are the same.
func Same(a, b AnyNodeRef) bool {
	return a.cell == b.cell
}

func isNilElement[E dom.Element](el E) bool {
	v := any(el)
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
