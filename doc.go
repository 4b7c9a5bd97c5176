// Package propview compiles declarative property records into view
// construction procedures.
//
// A property record is a plain Go struct marked with a blank
// propview.Record field. Each exported field is classified by its name and
// type, and the record is compiled once into a render procedure that
// creates a host element, attaches a reference, applies attributes, binds
// event handlers and inserts children, always in that order.
//
// # Declaring Records
//
//	type ButtonProps struct {
//	    _          propview.Record `view:"button"`
//	    NodeRef    propview.AnyNodeRef
//	    Disabled   bool
//	    Class      propview.MaybeProp[string]
//	    Style      propview.Style
//	    Aria_Label string `view:"aria-label"`
//	    Attributes propview.Attributes
//	    OnClick    propview.Callback[dom.MouseEvent]
//	    OnFocus    propview.MaybeCallback[dom.Event]
//	}
//
// Field classification:
//   - NodeRef (AnyNodeRef or NodeRef[E]) receives the constructed element
//   - On<Event> fields bind the lower-cased event; Callback is required,
//     MaybeCallback and *Callback are optional
//   - MaybeProp[T] fields become attributes that follow their signals
//   - Attributes fields spread extra attributes in declaration order
//   - Children (type Children) supplies child content from the record
//   - everything else renderable is a plain attribute named after the
//     field: lower-cased, X_ prefix dropped, underscores as hyphens
//
// Record options go on the marker tag: the element tag, nochildren, and
// anytag. A field tagged `view:",dynamictag"` selects the tag at render
// time instead.
//
// # Compiling
//
// Run 'propview generate' to write a Render method per record next to its
// declaration. Records marked nochildren or carrying a Children field get
//
//	func (p ImageProps) Render(h *propview.Host) propview.View
//
// and all others
//
//	func (p CardProps) Render(h *propview.Host, children propview.Children) propview.View
//
// so passing children where none are accepted does not compile.
//
// Compile builds the same procedure at run time by reflection:
//
//	img := propview.MustCompile[ImageProps]()
//	view := img.Render(host, ImageProps{ID: &id}, nil)
//
// Configuration mistakes (no tag, two tag sources, a field that cannot be
// rendered, an event field that is not a callback) are reported at compile
// time as *plan.Error values. Render itself never fails: absent values
// render nothing.
//
// # Runtime Pieces
//
// MaybeCallback holds an optional handler, AnyNodeRef is a reactive
// type-erased element handle, and Style and Attributes are cascades a
// component merges with its defaults through WithDefaults. A Host carries
// the element document and reactive runtime into render procedures.
//
// # Serving and Testing
//
// Views of the in-memory host are templ components. Handle serves a view
// per request and Render writes one to any http.ResponseWriter.
// TestRender and TestRenderRecord render into a fresh host and return a
// TestResult for assertions.
package propview
