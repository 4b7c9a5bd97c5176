package propview

import (
	"encoding"
	"fmt"
	"reflect"
	"sync"

	"github.com/pthm/propview/lib/dom"
	"github.com/pthm/propview/lib/plan"
)

// Compiled is a property record compiled at run time. It renders the same
// procedure the generator would emit for the record.
type Compiled[P any] struct {
	plan  *plan.RenderPlan
	steps []plan.Step
}

var (
	recordType     = reflect.TypeFor[Record]()
	childrenType   = reflect.TypeFor[Children]()
	attributesType = reflect.TypeFor[Attributes]()
	loaderType     = reflect.TypeFor[Loader]()
	taggerType     = reflect.TypeFor[Tagger]()
	stringerType   = reflect.TypeFor[fmt.Stringer]()
	textType       = reflect.TypeFor[encoding.TextMarshaler]()
	callbackType   = reflect.TypeFor[callbackShape]()
	maybeCbType    = reflect.TypeFor[maybeCallbackShape]()
	maybePropType  = reflect.TypeFor[maybePropShape]()
)

type eventBinder interface {
	bindEvent(h *Host, el dom.Element, event string)
}

type callbackShape interface {
	eventBinder
	isCallback()
}

type maybeCallbackShape interface {
	eventBinder
	isMaybeCallback()
}

type maybePropShape interface {
	bindAttr(h *Host, el dom.Element, name string)
}

func (Callback[E]) isCallback()           {}
func (MaybeCallback[E]) isMaybeCallback() {}

var compileCache sync.Map // reflect.Type -> *plan.RenderPlan

// Compile builds the render plan for P with default options. Plans are
// cached per type.
func Compile[P any]() (*Compiled[P], error) {
	t := reflect.TypeFor[P]()
	if p, ok := compileCache.Load(t); ok {
		return newCompiled[P](p.(*plan.RenderPlan)), nil
	}
	c, err := CompileWith[P](plan.Options{})
	if err != nil {
		return nil, err
	}
	compileCache.Store(t, c.plan)
	return c, nil
}

// MustCompile is Compile that panics on a configuration error.
func MustCompile[P any]() *Compiled[P] {
	c, err := Compile[P]()
	if err != nil {
		panic(err)
	}
	return c
}

// CompileWith builds the render plan for P with opts.
func CompileWith[P any](opts plan.Options) (*Compiled[P], error) {
	rec, err := Describe(reflect.TypeFor[P]())
	if err != nil {
		return nil, err
	}
	p, err := plan.Build(rec, opts)
	if err != nil {
		return nil, err
	}
	return newCompiled[P](p), nil
}

func newCompiled[P any](p *plan.RenderPlan) *Compiled[P] {
	return &Compiled[P]{plan: p, steps: p.Steps()}
}

// Plan returns the compiled plan.
func (c *Compiled[P]) Plan() *plan.RenderPlan {
	return c.plan
}

// AcceptsChildren reports whether Render uses its children argument.
func (c *Compiled[P]) AcceptsChildren() bool {
	return c.plan.AcceptsChildren()
}

// Render runs the plan for props. It never fails: absent values render as
// nothing. Children passed to a record that does not accept them are
// ignored.
func (c *Compiled[P]) Render(h *Host, props P, children Children) View {
	v := reflect.ValueOf(props)
	if c.plan.Children != plan.ChildrenArgument && children != nil {
		h.logger().Debug("children ignored", "record", c.plan.Type, "mode", c.plan.Children)
	}

	var el dom.Element
	for _, s := range c.steps {
		var fv reflect.Value
		if s.Binding != nil {
			fv = v.Field(s.Binding.Index)
		}
		switch s.Op {
		case plan.OpElement:
			el = h.Element(c.tag(v))
		case plan.OpRef:
			AttachRef(el, fv.Interface().(Loader))
		case plan.OpAttr:
			SetAttr(el, s.Binding.Name, fv.Interface())
		case plan.OpComputed:
			fv.Interface().(maybePropShape).bindAttr(h, el, s.Binding.Name)
		case plan.OpSpread:
			Spread(el, fv.Interface().(Attributes))
		case plan.OpEvent, plan.OpOptionalEvent:
			if fv.Kind() == reflect.Pointer {
				if fv.IsNil() {
					continue
				}
				fv = fv.Elem()
			}
			fv.Interface().(eventBinder).bindEvent(h, el, s.Binding.Name)
		case plan.OpChildren:
			if s.Binding != nil {
				children = fv.Interface().(Children)
			}
			AppendChildren(h, el, children)
		}
	}
	return ViewOf(el)
}

func (c *Compiled[P]) tag(v reflect.Value) string {
	switch c.plan.TagMode {
	case plan.TagDynamic:
		return v.Field(c.plan.TagField.Index).Interface().(Tagger).Tag()
	case plan.TagDynamicAny:
		return AnyTag(v.Field(c.plan.TagField.Index).Interface())
	default:
		return c.plan.Tag
	}
}

// Describe reads a property record type into the form plan.Build takes.
func Describe(t reflect.Type) (plan.Record, error) {
	if t.Kind() != reflect.Struct {
		return plan.Record{}, &plan.Error{Type: t.String(), Err: plan.ErrNoMarker, Detail: "not a struct"}
	}
	rec := plan.Record{Name: t.Name()}
	if rec.Name == "" {
		rec.Name = t.String()
	}

	marked := false
	for i := range t.NumField() {
		f := t.Field(i)
		if f.Type == recordType {
			if marked {
				return plan.Record{}, &plan.Error{Type: rec.Name, Field: f.Name, Err: plan.ErrBadAnnotation, Detail: "more than one propview.Record marker"}
			}
			marked = true
			rec.Tag = f.Tag.Get("view")
			continue
		}
		if !f.IsExported() || f.Anonymous {
			continue
		}
		rec.Fields = append(rec.Fields, plan.Field{
			Name:   f.Name,
			Type:   f.Type.String(),
			Shape:  shapeOf(f.Type),
			Tagger: f.Type.Implements(taggerType),
			Tag:    f.Tag.Get("view"),
			Index:  i,
		})
	}
	if !marked {
		return plan.Record{}, &plan.Error{Type: rec.Name, Err: plan.ErrNoMarker}
	}
	return rec, nil
}

func shapeOf(t reflect.Type) plan.Shape {
	switch {
	case t == childrenType:
		return plan.ShapeChildren
	case t == attributesType:
		return plan.ShapeAttributes
	case t.Kind() == reflect.Pointer:
		// *Callback[E] and *MaybeCallback[E] are optional handlers.
		if t.Elem().Implements(callbackType) || t.Elem().Implements(maybeCbType) {
			return plan.ShapeMaybeCallback
		}
		if t.Elem() == attributesType {
			return plan.ShapeUnknown
		}
	case t.Implements(loaderType):
		return plan.ShapeNodeRef
	case t.Implements(callbackType):
		return plan.ShapeCallback
	case t.Implements(maybeCbType):
		return plan.ShapeMaybeCallback
	case t.Implements(maybePropType):
		return plan.ShapeMaybeProp
	case t.Implements(stringerType), t.Implements(textType):
		return plan.ShapeValue
	}

	switch t.Kind() {
	case reflect.Pointer:
		e := t.Elem()
		if isScalar(e.Kind()) || e.Implements(stringerType) || e.Implements(textType) {
			return plan.ShapeValue
		}
	case reflect.Slice:
		if t.Elem().Kind() == reflect.String {
			return plan.ShapeValue
		}
	default:
		if isScalar(t.Kind()) {
			return plan.ShapeValue
		}
	}
	return plan.ShapeUnknown
}

func isScalar(k reflect.Kind) bool {
	switch k {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
