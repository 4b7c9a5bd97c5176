package propview

// Callback is an event handler. Running a nil Callback does nothing.
type Callback[E any] func(E)

// Run invokes the handler.
func (cb Callback[E]) Run(e E) {
	if cb != nil {
		cb(e)
	}
}

// Runner is anything that can handle an event.
type Runner[E any] interface {
	Run(E)
}

// MaybeCallback is a slot that may hold a handler. The zero value is empty.
// Slots are immutable: mapping or dispatching never changes the original.
type MaybeCallback[E any] struct {
	cb Callback[E]
}

// Some returns a slot holding cb. A nil cb gives an empty slot.
func Some[E any](cb Callback[E]) MaybeCallback[E] {
	return MaybeCallback[E]{cb: cb}
}

// None returns an empty slot.
func None[E any]() MaybeCallback[E] {
	return MaybeCallback[E]{}
}

// FromOption wraps an optional handler.
func FromOption[E any](cb *Callback[E]) MaybeCallback[E] {
	if cb == nil {
		return MaybeCallback[E]{}
	}
	return Some(*cb)
}

// Flatten collapses an optional slot: a nil pointer and a pointer to an
// empty slot both give an empty slot.
func Flatten[E any](m *MaybeCallback[E]) MaybeCallback[E] {
	if m == nil {
		return MaybeCallback[E]{}
	}
	return *m
}

// MaybeFrom builds a slot from any handler-like value. Supported shapes:
//
//	Callback[E], func(E), *Callback[E], MaybeCallback[E],
//	*MaybeCallback[E], Runner[E], nil
//
// Anything else gives an empty slot.
func MaybeFrom[E any](v any) MaybeCallback[E] {
	switch h := v.(type) {
	case nil:
		return MaybeCallback[E]{}
	case Callback[E]:
		return Some(h)
	case func(E):
		return Some(Callback[E](h))
	case *Callback[E]:
		return FromOption(h)
	case MaybeCallback[E]:
		return h
	case *MaybeCallback[E]:
		return Flatten(h)
	case Runner[E]:
		return Some(Callback[E](h.Run))
	default:
		return MaybeCallback[E]{}
	}
}

// Run invokes the handler if present.
func (m MaybeCallback[E]) Run(e E) {
	if m.cb != nil {
		m.cb(e)
	}
}

// IsSome reports whether the slot holds a handler.
func (m MaybeCallback[E]) IsSome() bool {
	return m.cb != nil
}

// IsNone reports whether the slot is empty.
func (m MaybeCallback[E]) IsNone() bool {
	return m.cb == nil
}

// Get returns the handler and whether one is present.
func (m MaybeCallback[E]) Get() (Callback[E], bool) {
	return m.cb, m.cb != nil
}

// MapCallback transforms the handler of a slot. An empty slot stays empty
// and fn is not called.
func MapCallback[E, F any](m MaybeCallback[E], fn func(Callback[E]) Callback[F]) MaybeCallback[F] {
	if m.cb == nil {
		return MaybeCallback[F]{}
	}
	return Some(fn(m.cb))
}

// Dispatcher returns a standalone function that forwards to the handler the
// slot holds now. It keeps working after the slot is replaced or dropped.
func (m MaybeCallback[E]) Dispatcher() func(E) {
	cb := m.cb
	return func(e E) {
		if cb != nil {
			cb(e)
		}
	}
}

// AsCallback is Dispatcher typed as a Callback.
func (m MaybeCallback[E]) AsCallback() Callback[E] {
	return Callback[E](m.Dispatcher())
}
