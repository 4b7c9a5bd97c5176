package propview

import "github.com/pthm/propview/lib/dom"

// Record marks a struct as a property record. Embed it as a blank field and
// put record options in its view tag:
//
//	type ImageProps struct {
//		_       propview.Record `view:"img,nochildren"`
//		NodeRef propview.AnyNodeRef
//		Class   propview.MaybeProp[string]
//		ID      *string
//		OnClick propview.MaybeCallback[dom.Event]
//	}
//
// Record options: a fixed tag name, nochildren, anytag. Field options: a
// name override, dynamictag, or "-" to skip the field.
type Record struct{}

// Tagger supplies an element tag at render time. A field marked dynamictag
// must implement it unless the record is marked anytag.
type Tagger interface {
	Tag() string
}

// Loader receives the element a render procedure constructs. AnyNodeRef and
// NodeRef implement it.
type Loader interface {
	LoadElement(el dom.Element)
}

var (
	_ Loader = AnyNodeRef{}
	_ Loader = NodeRef[dom.Element]{}
)

// LoadElement stores el in the handle.
func (r AnyNodeRef) LoadElement(el dom.Element) {
	r.Load(el)
}

// LoadElement stores el when it has the handle's element type.
func (r NodeRef[E]) LoadElement(el dom.Element) {
	if typed, ok := el.(E); ok {
		r.Load(typed)
	}
}
