// Package plan turns a property record description into a RenderPlan.
//
// A front end (the source generator or the reflection interpreter) reads a
// struct declaration and reports each field's name, view tag and Shape. Build
// interprets names and tags, validates the record and fixes the order in
// which a render procedure performs its steps. Emitters walk Steps.
package plan

import (
	"slices"
	"strings"
)

// Field is one exported struct field as seen by a front end.
type Field struct {
	Name  string // Go field name
	Type  string // declared type as written, for messages
	Shape Shape
	// Tagger is true when the field type implements propview.Tagger.
	Tagger bool
	// Tag is the raw `view` struct tag value.
	Tag string
	// Index is the field's position in the struct.
	Index int
}

// Record is a property record as seen by a front end.
type Record struct {
	Name string // Go type name
	// Tag is the raw `view` tag of the propview.Record marker field.
	Tag    string
	Fields []Field
}

// Options tune Build.
type Options struct {
	// EventPrefix marks event fields. Defaults to "On".
	EventPrefix string
	// AnyTag makes every record behave as if marked anytag.
	AnyTag bool
	// Tags, when non-empty, restricts fixed tags to this vocabulary.
	Tags []string
}

// Binding ties one record field to one render step.
type Binding struct {
	Field string
	Type  string
	Index int
	Kind  Kind
	// Name is the attribute or event name. Empty for references, tag
	// selectors, children and attribute maps.
	Name string
}

// RenderPlan is a validated, ordered description of a render procedure.
type RenderPlan struct {
	Type     string
	Tag      string
	TagMode  TagMode
	TagField *Binding
	Ref      *Binding
	// Attrs holds plain, reactive and attribute map bindings in
	// declaration order.
	Attrs []Binding
	// Events holds callback bindings in declaration order.
	Events        []Binding
	Children      ChildrenMode
	ChildrenField *Binding
}

// AcceptsChildren reports whether the render procedure takes a children
// argument.
func (p *RenderPlan) AcceptsChildren() bool {
	return p.Children == ChildrenArgument
}

// Step is one emitted operation.
type Step struct {
	Op      Op
	Binding *Binding
}

// Steps returns the render procedure in emission order: element
// construction, reference attachment, attribute bindings, event bindings,
// then children.
func (p *RenderPlan) Steps() []Step {
	steps := make([]Step, 0, 3+len(p.Attrs)+len(p.Events))
	steps = append(steps, Step{Op: OpElement, Binding: p.TagField})
	if p.Ref != nil {
		steps = append(steps, Step{Op: OpRef, Binding: p.Ref})
	}
	for i := range p.Attrs {
		b := &p.Attrs[i]
		switch b.Kind {
		case KindReactive:
			steps = append(steps, Step{Op: OpComputed, Binding: b})
		case KindAttributeMap:
			steps = append(steps, Step{Op: OpSpread, Binding: b})
		default:
			steps = append(steps, Step{Op: OpAttr, Binding: b})
		}
	}
	for i := range p.Events {
		b := &p.Events[i]
		if b.Kind == KindOptionalCallback {
			steps = append(steps, Step{Op: OpOptionalEvent, Binding: b})
		} else {
			steps = append(steps, Step{Op: OpEvent, Binding: b})
		}
	}
	if p.Children != ChildrenNone {
		steps = append(steps, Step{Op: OpChildren, Binding: p.ChildrenField})
	}
	return steps
}

// Build classifies and validates rec. It is deterministic: the same record
// always gives the same plan or the same error.
func Build(rec Record, opts Options) (*RenderPlan, error) {
	rt, err := parseRecordTag(rec.Name, rec.Tag)
	if err != nil {
		return nil, err
	}
	anyTag := rt.anyTag || opts.AnyTag

	p := &RenderPlan{Type: rec.Name, Tag: rt.tag}
	if rt.noChildren {
		p.Children = ChildrenNone
	}

	attrNames := map[string]string{}
	eventNames := map[string]string{}

	for _, f := range rec.Fields {
		ft, err := parseFieldTag(rec.Name, f)
		if err != nil {
			return nil, err
		}
		if ft.skip {
			continue
		}
		b := Binding{Field: f.Name, Type: f.Type, Index: f.Index}

		if ft.dynamicTag {
			if p.TagField != nil {
				return nil, newError(rec.Name, f.Name, ErrTagConflict, "%s is already the dynamic tag field", p.TagField.Field)
			}
			if !f.Tagger && !anyTag {
				return nil, newError(rec.Name, f.Name, ErrTagShape, "type %s", f.Type)
			}
			b.Kind = KindTagSelector
			p.TagField = &b
			p.TagMode = TagDynamic
			if !f.Tagger {
				p.TagMode = TagDynamicAny
			}
			continue
		}

		switch {
		case f.Name == ChildrenField:
			if f.Shape != ShapeChildren {
				return nil, newError(rec.Name, f.Name, ErrUnclassifiable, "Children must have type propview.Children, got %s", f.Type)
			}
			if rt.noChildren {
				return nil, newError(rec.Name, f.Name, ErrChildrenConflict, "")
			}
			b.Kind = KindChildren
			p.ChildrenField = &b
			p.Children = ChildrenField

		case f.Name == ReferenceField:
			if f.Shape != ShapeNodeRef {
				return nil, newError(rec.Name, f.Name, ErrUnclassifiable, "NodeRef must be a propview.AnyNodeRef or propview.NodeRef, got %s", f.Type)
			}
			b.Kind = KindReference
			p.Ref = &b

		case isEvent(f.Name, opts.EventPrefix):
			name, _ := EventName(f.Name, opts.EventPrefix)
			if ft.name != "" {
				name = ft.name
			}
			switch f.Shape {
			case ShapeCallback:
				b.Kind = KindCallback
			case ShapeMaybeCallback:
				b.Kind = KindOptionalCallback
			default:
				return nil, newError(rec.Name, f.Name, ErrEventShape, "type %s", f.Type)
			}
			if prev, ok := eventNames[name]; ok {
				return nil, newError(rec.Name, f.Name, ErrDuplicate, "event %q is also bound by %s", name, prev)
			}
			eventNames[name] = f.Name
			b.Name = name
			p.Events = append(p.Events, b)

		case f.Shape == ShapeAttributes:
			b.Kind = KindAttributeMap
			p.Attrs = append(p.Attrs, b)

		case f.Shape == ShapeMaybeProp, f.Shape == ShapeValue:
			b.Kind = KindPlain
			if f.Shape == ShapeMaybeProp {
				b.Kind = KindReactive
			}
			name := AttrName(f.Name)
			if ft.name != "" {
				name = ft.name
			}
			if !validName(name) {
				return nil, newError(rec.Name, f.Name, ErrBadAnnotation, "invalid attribute name %q", name)
			}
			if prev, ok := attrNames[name]; ok {
				return nil, newError(rec.Name, f.Name, ErrDuplicate, "attribute %q is also set by %s", name, prev)
			}
			attrNames[name] = f.Name
			b.Name = name
			p.Attrs = append(p.Attrs, b)

		default:
			return nil, newError(rec.Name, f.Name, ErrUnclassifiable, "%s", misplaced(f, opts.EventPrefix))
		}
	}

	switch {
	case p.TagField != nil && p.Tag != "":
		return nil, newError(rec.Name, p.TagField.Field, ErrTagConflict, "record also declares fixed tag %q", p.Tag)
	case p.TagField == nil && p.Tag == "":
		return nil, newError(rec.Name, "", ErrNoTag, "")
	case p.Tag != "" && len(opts.Tags) > 0 && !slices.Contains(opts.Tags, p.Tag):
		return nil, newError(rec.Name, "", ErrUnknownTag, "%q", p.Tag)
	}

	return p, nil
}

func isEvent(name, prefix string) bool {
	_, ok := EventName(name, prefix)
	return ok
}

// misplaced explains why a field with a recognised shape still has no kind.
func misplaced(f Field, prefix string) string {
	if prefix == "" {
		prefix = DefaultEventPrefix
	}
	switch f.Shape {
	case ShapeCallback, ShapeMaybeCallback:
		return "callback fields must be named " + prefix + "<Event>"
	case ShapeNodeRef:
		return "references must be named " + ReferenceField
	case ShapeChildren:
		return "children must be named " + ChildrenField
	default:
		return "type " + f.Type + " cannot be rendered as an attribute"
	}
}

type recordTag struct {
	tag        string
	noChildren bool
	anyTag     bool
}

func parseRecordTag(typ, raw string) (recordTag, error) {
	var rt recordTag
	parts := strings.Split(raw, ",")
	rt.tag = strings.TrimSpace(parts[0])
	if rt.tag != "" && !ValidTag(rt.tag) {
		return rt, newError(typ, "", ErrBadAnnotation, "invalid tag %q", rt.tag)
	}
	for _, opt := range parts[1:] {
		switch strings.TrimSpace(opt) {
		case "nochildren":
			rt.noChildren = true
		case "anytag":
			rt.anyTag = true
		case "":
		default:
			return rt, newError(typ, "", ErrBadAnnotation, "unknown record option %q", opt)
		}
	}
	return rt, nil
}

type fieldTag struct {
	name       string
	dynamicTag bool
	skip       bool
}

func parseFieldTag(typ string, f Field) (fieldTag, error) {
	var ft fieldTag
	if f.Tag == "-" {
		ft.skip = true
		return ft, nil
	}
	parts := strings.Split(f.Tag, ",")
	ft.name = strings.TrimSpace(parts[0])
	if ft.name != "" && !validName(ft.name) {
		return ft, newError(typ, f.Name, ErrBadAnnotation, "invalid name %q", ft.name)
	}
	for _, opt := range parts[1:] {
		switch strings.TrimSpace(opt) {
		case "dynamictag":
			ft.dynamicTag = true
		case "":
		default:
			return ft, newError(typ, f.Name, ErrBadAnnotation, "unknown field option %q", opt)
		}
	}
	return ft, nil
}
