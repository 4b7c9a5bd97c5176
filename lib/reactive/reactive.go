// Package reactive is a minimal single-threaded signal runtime.
//
// It implements the host reactive-signal contract that propview consumes:
// a read/write cell with tracked reads, untracked reads, explicit tracking and
// writes that re-run dependent effects synchronously. Real applications
// usually bridge to their own runtime; this one keeps propview testable
// without a browser.
//
// A Runtime and everything created from it belong to one goroutine. Nothing
// here is safe for concurrent use.
package reactive

// Cell is the contract propview needs from a host signal.
type Cell[T any] interface {
	Get() T
	GetUntracked() T
	Track()
	Set(v T)
}

// Runtime owns the observer stack used to attribute tracked reads to the
// effect that is currently running.
type Runtime struct {
	stack []*observer
}

// NewRuntime creates an empty runtime.
func NewRuntime() *Runtime {
	return &Runtime{}
}

type source interface {
	unsubscribe(o *observer)
}

type observer struct {
	run      func()
	sources  []source
	running  bool
	disposed bool
}

func (o *observer) clear() {
	for _, s := range o.sources {
		s.unsubscribe(o)
	}
	o.sources = o.sources[:0]
}

// current returns the observer of the running effect, or nil.
func (rt *Runtime) current() *observer {
	if rt == nil || len(rt.stack) == 0 {
		return nil
	}
	return rt.stack[len(rt.stack)-1]
}

// Effect runs fn immediately and again whenever a signal it read with Get
// (or Track) changes. Dependencies are collected afresh on every run.
//
// The returned dispose func stops further runs.
// On a nil runtime fn runs once and is never re-run.
func (rt *Runtime) Effect(fn func()) (dispose func()) {
	if rt == nil {
		fn()
		return func() {}
	}
	o := &observer{}
	o.run = func() {
		if o.disposed || o.running {
			return
		}
		o.clear()
		o.running = true
		rt.stack = append(rt.stack, o)
		defer func() {
			rt.stack = rt.stack[:len(rt.stack)-1]
			o.running = false
		}()
		fn()
	}
	o.run()
	return func() {
		o.disposed = true
		o.clear()
	}
}

// Untrack runs fn with tracking suspended, so reads inside fn do not
// subscribe the surrounding effect.
func (rt *Runtime) Untrack(fn func()) {
	if rt == nil {
		fn()
		return
	}
	saved := rt.stack
	rt.stack = nil
	defer func() { rt.stack = saved }()
	fn()
}

// Signal is a reactive value. A Signal created with a nil runtime still
// stores values but never tracks.
type Signal[T any] struct {
	rt    *Runtime
	value T
	subs  []*observer
}

var _ Cell[int] = (*Signal[int])(nil)

// NewSignal creates a Signal with an initial value.
func NewSignal[T any](rt *Runtime, initial T) *Signal[T] {
	return &Signal[T]{rt: rt, value: initial}
}

// Runtime returns the runtime the signal was created with.
func (s *Signal[T]) Runtime() *Runtime {
	return s.rt
}

// Get returns the current value and subscribes the running effect.
func (s *Signal[T]) Get() T {
	s.Track()
	return s.value
}

// GetUntracked returns the current value without subscribing anything.
func (s *Signal[T]) GetUntracked() T {
	return s.value
}

// Track subscribes the running effect without reading the value.
func (s *Signal[T]) Track() {
	o := s.rt.current()
	if o == nil {
		return
	}
	for _, sub := range s.subs {
		if sub == o {
			return
		}
	}
	s.subs = append(s.subs, o)
	o.sources = append(o.sources, s)
}

// Set stores v and re-runs every subscribed effect in subscription order.
func (s *Signal[T]) Set(v T) {
	s.value = v
	subs := make([]*observer, len(s.subs))
	copy(subs, s.subs)
	for _, o := range subs {
		o.run()
	}
}

// Update applies fn to the stored value and notifies subscribers.
func (s *Signal[T]) Update(fn func(v T) T) {
	s.Set(fn(s.value))
}

// Subscribe registers fn to run after every Set. Unlike Effect it does not
// run immediately and does not track reads made by fn.
func (s *Signal[T]) Subscribe(fn func()) (unsubscribe func()) {
	o := &observer{}
	o.run = func() {
		if o.disposed {
			return
		}
		s.rt.Untrack(fn)
	}
	s.subs = append(s.subs, o)
	o.sources = append(o.sources, s)
	return func() {
		o.disposed = true
		o.clear()
	}
}

func (s *Signal[T]) unsubscribe(o *observer) {
	for i, sub := range s.subs {
		if sub == o {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}
