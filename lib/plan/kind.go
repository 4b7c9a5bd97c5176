package plan

// Kind classifies a property record field.
type Kind int

const (
	KindInvalid Kind = iota
	KindTagSelector
	KindReference
	KindCallback
	KindOptionalCallback
	KindReactive
	KindPlain
	KindChildren
	KindAttributeMap
)

func (k Kind) String() string {
	switch k {
	case KindTagSelector:
		return "tag"
	case KindReference:
		return "reference"
	case KindCallback:
		return "callback"
	case KindOptionalCallback:
		return "optional-callback"
	case KindReactive:
		return "reactive"
	case KindPlain:
		return "plain"
	case KindChildren:
		return "children"
	case KindAttributeMap:
		return "attribute-map"
	default:
		return "invalid"
	}
}

// Shape is what a front end could tell about a field's declared type.
// Front ends decide shapes from types alone; names are interpreted here.
type Shape int

const (
	// ShapeUnknown marks a type no render step can consume.
	ShapeUnknown Shape = iota
	// ShapeValue is a scalar, pointer to scalar, string slice, Style or
	// a type with a text rendering.
	ShapeValue
	ShapeCallback
	// ShapeMaybeCallback covers MaybeCallback[E] and *Callback[E].
	ShapeMaybeCallback
	ShapeNodeRef
	ShapeMaybeProp
	ShapeAttributes
	ShapeChildren
)

func (s Shape) String() string {
	switch s {
	case ShapeValue:
		return "value"
	case ShapeCallback:
		return "callback"
	case ShapeMaybeCallback:
		return "maybe-callback"
	case ShapeNodeRef:
		return "node-ref"
	case ShapeMaybeProp:
		return "maybe-prop"
	case ShapeAttributes:
		return "attributes"
	case ShapeChildren:
		return "children"
	default:
		return "unknown"
	}
}

// TagMode says where the element tag comes from.
type TagMode int

const (
	TagFixed TagMode = iota
	// TagDynamic reads the tag from a field implementing propview.Tagger.
	TagDynamic
	// TagDynamicAny reads the tag from any field value's text rendering.
	TagDynamicAny
)

func (m TagMode) String() string {
	switch m {
	case TagFixed:
		return "fixed"
	case TagDynamic:
		return "dynamic"
	case TagDynamicAny:
		return "dynamic-any"
	default:
		return "unknown"
	}
}

// ChildrenMode says how the render procedure obtains children.
type ChildrenMode int

const (
	// ChildrenArgument: the procedure takes a children argument.
	ChildrenArgument ChildrenMode = iota
	// ChildrenField: children come from the record's Children field and
	// the procedure takes no argument.
	ChildrenField
	// ChildrenNone: the record is marked nochildren.
	ChildrenNone
)

func (m ChildrenMode) String() string {
	switch m {
	case ChildrenArgument:
		return "argument"
	case ChildrenField:
		return "field"
	case ChildrenNone:
		return "none"
	default:
		return "unknown"
	}
}

// Op is one step of a render procedure.
type Op int

const (
	OpElement Op = iota
	OpRef
	OpAttr
	OpComputed
	OpSpread
	OpEvent
	OpOptionalEvent
	OpChildren
)

func (o Op) String() string {
	switch o {
	case OpElement:
		return "element"
	case OpRef:
		return "ref"
	case OpAttr:
		return "attr"
	case OpComputed:
		return "computed"
	case OpSpread:
		return "spread"
	case OpEvent:
		return "on"
	case OpOptionalEvent:
		return "on?"
	case OpChildren:
		return "children"
	default:
		return "unknown"
	}
}
