package propview

// Show renders children when when reports true and fallback otherwise. A
// missing side renders nothing. The condition is read untracked, once, when
// the view is built; put reactive state on attributes of a surrounding
// element when it must switch live.
func Show(when func() bool, children, fallback Children) Children {
	return func(h *Host) View {
		show := false
		if when != nil {
			h.Runtime.Untrack(func() { show = when() })
		}
		if show {
			return children.View(h)
		}
		return fallback.View(h)
	}
}

// When is Show with a fixed condition.
func When(cond bool, children, fallback Children) Children {
	return Show(func() bool { return cond }, children, fallback)
}
