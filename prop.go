package propview

import (
	"github.com/pthm/propview/lib/dom"
	"github.com/pthm/propview/lib/reactive"
)

// MaybeProp is an optional, possibly reactive property value. The zero
// value is unset. A set MaybeProp binds its attribute through an effect, so
// signal-backed values keep the attribute current.
type MaybeProp[T any] struct {
	get func() (T, bool)
}

// Static returns a MaybeProp that always yields v.
func Static[T any](v T) MaybeProp[T] {
	return MaybeProp[T]{get: func() (T, bool) { return v, true }}
}

// Derived returns a MaybeProp computed by fn on every read. Signals read by
// fn are tracked.
func Derived[T any](fn func() T) MaybeProp[T] {
	if fn == nil {
		return MaybeProp[T]{}
	}
	return MaybeProp[T]{get: func() (T, bool) { return fn(), true }}
}

// FromSignal returns a MaybeProp reading c.
func FromSignal[T any](c reactive.Cell[T]) MaybeProp[T] {
	if c == nil {
		return MaybeProp[T]{}
	}
	return MaybeProp[T]{get: func() (T, bool) { return c.Get(), true }}
}

// Unset returns an unset MaybeProp.
func Unset[T any]() MaybeProp[T] {
	return MaybeProp[T]{}
}

// Get reads the value, tracking any signals behind it.
func (p MaybeProp[T]) Get() (T, bool) {
	if p.get == nil {
		var zero T
		return zero, false
	}
	return p.get()
}

// IsSet reports whether a value source is present.
func (p MaybeProp[T]) IsSet() bool {
	return p.get != nil
}

func (p MaybeProp[T]) bindAttr(h *Host, el dom.Element, name string) {
	Computed(h, el, name, p)
}
