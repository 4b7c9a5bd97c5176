// Package cascade implements the key/value cascade behind style and
// attribute properties.
//
// A Map is absent, free-form text, or an ordered set of declarations whose
// values may be explicitly unset. WithDefaults combines a map with the
// defaults a component supplies, the map's own entries winning.
//
// Merging two structured maps is a key-wise override. Merging across
// representations flattens the structured side to text and concatenates,
// defaults first. Chains evaluate left to right, flattening at the merge
// where the representations first differ, so
//
//	a.WithDefaults(b).WithDefaults(c)
//
// and
//
//	a.WithDefaults(b.WithDefaults(c))
//
// can differ once one of the three is text. The package does not try to
// make them agree.
package cascade

import (
	"sort"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Form is the representation of a Map.
type Form int

const (
	FormAbsent Form = iota
	FormText
	FormStructured
)

func (f Form) String() string {
	switch f {
	case FormAbsent:
		return "absent"
	case FormText:
		return "text"
	case FormStructured:
		return "structured"
	default:
		return "unknown"
	}
}

// Declaration is one key of a structured map. A nil Value is an explicit
// "no value": it renders as nothing but still overrides a default.
type Declaration struct {
	Key   string
	Value *string
}

// Decl declares key with value.
func Decl(key, value string) Declaration {
	return Declaration{Key: key, Value: Some(value)}
}

// Unset declares key with no value.
func Unset(key string) Declaration {
	return Declaration{Key: key}
}

// Some returns a pointer to v.
func Some(v string) *string {
	return &v
}

// Map is an immutable cascade value. The zero Map is absent.
type Map struct {
	form  Form
	text  string
	decls *orderedmap.OrderedMap[string, *string]
}

// Text returns a free-form map holding s verbatim.
func Text(s string) Map {
	return Map{form: FormText, text: s}
}

// FromOptional returns an absent map for nil, otherwise Text(*s).
func FromOptional(s *string) Map {
	if s == nil {
		return Map{}
	}
	return Text(*s)
}

// Structured returns a map of the given declarations in order. A repeated
// key keeps its first position and its last value.
func Structured(decls ...Declaration) Map {
	om := orderedmap.New[string, *string](len(decls))
	for _, d := range decls {
		om.Set(d.Key, d.Value)
	}
	return Map{form: FormStructured, decls: om}
}

// FromMap builds a structured map from a Go map. Keys are sorted so the
// result is deterministic.
func FromMap(m map[string]string) Map {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	decls := make([]Declaration, 0, len(keys))
	for _, k := range keys {
		decls = append(decls, Decl(k, m[k]))
	}
	return Structured(decls...)
}

// Form returns the representation of m.
func (m Map) Form() Form {
	return m.form
}

// IsZero reports whether m is absent.
func (m Map) IsZero() bool {
	return m.form == FormAbsent
}

// Len returns the number of declarations of a structured map, counting
// unset ones, and 0 otherwise.
func (m Map) Len() int {
	if m.form != FormStructured {
		return 0
	}
	return m.decls.Len()
}

// Get returns the value declared for key. present is false when the key
// is not declared at all; a declared but unset key returns (nil, true).
func (m Map) Get(key string) (value *string, present bool) {
	if m.form != FormStructured {
		return nil, false
	}
	return m.decls.Get(key)
}

// Each calls fn for every declaration of a structured map in order.
func (m Map) Each(fn func(key string, value *string)) {
	if m.form != FormStructured {
		return
	}
	for pair := m.decls.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Key, pair.Value)
	}
}

// Declarations returns the declarations of a structured map in order.
func (m Map) Declarations() []Declaration {
	var out []Declaration
	m.Each(func(key string, value *string) {
		out = append(out, Declaration{Key: key, Value: value})
	})
	return out
}

// WithDefaults returns m layered over defaults.
//
//   - absent over anything: defaults
//   - anything over absent: m
//   - structured over structured: defaults' keys in their order with m's
//     values replacing conflicting ones, then m's own keys in m's order
//   - text over text: "defaults m"
//   - mixed: the structured side is flattened with String, then as text
func (m Map) WithDefaults(defaults Map) Map {
	switch {
	case m.form == FormAbsent:
		return defaults
	case defaults.form == FormAbsent:
		return m
	case m.form == FormStructured && defaults.form == FormStructured:
		om := orderedmap.New[string, *string](defaults.decls.Len() + m.decls.Len())
		for pair := defaults.decls.Oldest(); pair != nil; pair = pair.Next() {
			om.Set(pair.Key, pair.Value)
		}
		for pair := m.decls.Oldest(); pair != nil; pair = pair.Next() {
			om.Set(pair.Key, pair.Value)
		}
		return Map{form: FormStructured, decls: om}
	default:
		return Text(join(defaults.String(), m.String()))
	}
}

// String renders m. Structured maps render as "key: value;" declarations
// separated by single spaces, skipping unset and empty values. Text renders
// verbatim; absent renders as "".
func (m Map) String() string {
	switch m.form {
	case FormText:
		return m.text
	case FormStructured:
		parts := make([]string, 0, m.decls.Len())
		for pair := m.decls.Oldest(); pair != nil; pair = pair.Next() {
			if pair.Value == nil || *pair.Value == "" {
				continue
			}
			parts = append(parts, pair.Key+": "+*pair.Value+";")
		}
		return strings.Join(parts, " ")
	default:
		return ""
	}
}

// Equal reports whether m and o hold the same content. Structured maps
// compare as key sets, ignoring order.
func (m Map) Equal(o Map) bool {
	if m.form != o.form {
		return false
	}
	switch m.form {
	case FormText:
		return m.text == o.text
	case FormStructured:
		if m.decls.Len() != o.decls.Len() {
			return false
		}
		for pair := m.decls.Oldest(); pair != nil; pair = pair.Next() {
			other, ok := o.decls.Get(pair.Key)
			if !ok || !sameValue(pair.Value, other) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

func sameValue(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// join concatenates two rendered cascades with one space, dropping empty
// sides so an all-unset structured map leaves no stray separator.
func join(first, second string) string {
	switch {
	case first == "":
		return second
	case second == "":
		return first
	default:
		return first + " " + second
	}
}
