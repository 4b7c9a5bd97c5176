package propview

import (
	"github.com/a-h/templ"
	"github.com/pthm/propview/lib/cascade"
	"github.com/pthm/propview/lib/dom"
	"github.com/vmihailenco/msgpack/v5"
)

// Attributes is a structured cascade of extra element attributes. Entries
// whose value is explicitly unset remove the attribute when applied, which
// lets a caller suppress an attribute a component would set by default.
type Attributes struct {
	m cascade.Map
}

var (
	_ msgpack.CustomEncoder = Attributes{}
	_ msgpack.CustomDecoder = (*Attributes)(nil)
)

// Attrs builds Attributes from declarations in order.
func Attrs(decls ...cascade.Declaration) Attributes {
	return Attributes{m: cascade.Structured(decls...)}
}

// AttrsFromMap builds Attributes from a plain map, keys sorted.
func AttrsFromMap(m map[string]string) Attributes {
	if len(m) == 0 {
		return Attributes{}
	}
	return Attributes{m: cascade.FromMap(m)}
}

// IsZero reports whether no attributes were given.
func (a Attributes) IsZero() bool {
	return a.m.IsZero()
}

// Len returns the number of entries, unset ones included.
func (a Attributes) Len() int {
	return a.m.Len()
}

// Get returns the value for key. A nil value with present true means the
// attribute is explicitly unset.
func (a Attributes) Get(key string) (value *string, present bool) {
	return a.m.Get(key)
}

// Each calls fn for every entry in order.
func (a Attributes) Each(fn func(key string, value *string)) {
	a.m.Each(fn)
}

// WithDefaults merges a onto defaults. Keys present in a win, explicit
// unsets included; the remaining defaults keep their positions.
func (a Attributes) WithDefaults(defaults Attributes) Attributes {
	return Attributes{m: a.m.WithDefaults(defaults.m)}
}

// Map returns the underlying cascade.
func (a Attributes) Map() cascade.Map {
	return a.m
}

// String renders the entries as "key: value;" pairs.
func (a Attributes) String() string {
	return a.m.String()
}

// Apply sets every present entry on el and removes every explicitly unset
// one.
func (a Attributes) Apply(el dom.Element) {
	if el == nil {
		return
	}
	a.m.Each(func(key string, value *string) {
		if value == nil {
			el.RemoveAttribute(key)
			return
		}
		el.SetAttribute(key, *value)
	})
}

// Templ returns the present entries as templ attributes, for spreading into
// a templ template with { attrs... }.
func (a Attributes) Templ() templ.Attributes {
	out := templ.Attributes{}
	a.m.Each(func(key string, value *string) {
		if value != nil {
			out[key] = *value
		}
	})
	return out
}

// EncodeMsgpack encodes the underlying cascade.
func (a Attributes) EncodeMsgpack(enc *msgpack.Encoder) error {
	return a.m.EncodeMsgpack(enc)
}

// DecodeMsgpack decodes a cascade, keeping only a structured or absent one.
func (a *Attributes) DecodeMsgpack(dec *msgpack.Decoder) error {
	var m cascade.Map
	if err := m.DecodeMsgpack(dec); err != nil {
		return err
	}
	if m.Form() == cascade.FormText {
		m = cascade.Map{}
	}
	a.m = m
	return nil
}
