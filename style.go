package propview

import "github.com/pthm/propview/lib/cascade"

// Style is a style property: free-form CSS text or an ordered set of
// declarations. It renders as the element's style attribute.
//
//	props.Style = propview.Styles(cascade.Decl("color", "red"), cascade.Unset("margin"))
//	el := props.Style.WithDefaults(propview.StyleText("pointer-events: none;"))
type Style = cascade.Map

// StyleText returns a Style holding CSS text verbatim.
func StyleText(css string) Style {
	return cascade.Text(css)
}

// Styles returns a structured Style.
func Styles(decls ...cascade.Declaration) Style {
	return cascade.Structured(decls...)
}
