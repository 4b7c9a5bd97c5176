package generator

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"reflect"
	"strconv"
	"strings"

	"github.com/pthm/propview/lib/plan"
)

// ImportPath is the import path of the propview runtime.
const ImportPath = "github.com/pthm/propview"

// scanner classifies the records declared in one file. Type information is
// optional: without it classification works from syntax alone and is
// looser about plain values, leaving the compiler to reject them.
type scanner struct {
	file *ast.File
	info *types.Info
	// pv is the file's local name for the propview import, or "" when the
	// file does not import it.
	pv string
	// taggers holds local type names with a Tag() string method, mapped to
	// whether the method has a pointer receiver.
	taggers map[string]bool
}

func newScanner(file *ast.File, info *types.Info) *scanner {
	s := &scanner{file: file, info: info, taggers: map[string]bool{}}
	for _, imp := range file.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil || path != ImportPath {
			continue
		}
		s.pv = "propview"
		if imp.Name != nil {
			s.pv = imp.Name.Name
		}
	}
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Recv == nil || fn.Name.Name != "Tag" {
			continue
		}
		if fn.Type.Params.NumFields() != 0 || fn.Type.Results.NumFields() != 1 {
			continue
		}
		if id, ok := fn.Type.Results.List[0].Type.(*ast.Ident); !ok || id.Name != "string" {
			continue
		}
		recv := fn.Recv.List[0].Type
		if name := receiverName(recv); name != "" {
			_, ptr := recv.(*ast.StarExpr)
			s.taggers[name] = ptr
		}
	}
	return s
}

// records finds every struct in the file carrying a propview.Record marker
// and builds its plan.
func (s *scanner) records(filename string, opts plan.Options) ([]*RecordInfo, error) {
	if s.pv == "" || s.pv == "_" || s.pv == "." {
		return nil, nil
	}

	var out []*RecordInfo
	for _, decl := range s.file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			continue
		}
		for _, spec := range genDecl.Specs {
			typeSpec, ok := spec.(*ast.TypeSpec)
			if !ok || typeSpec.TypeParams != nil {
				continue
			}
			structType, ok := typeSpec.Type.(*ast.StructType)
			if !ok {
				continue
			}
			rec, ok, err := s.describe(typeSpec.Name.Name, structType)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			p, err := plan.Build(rec, opts)
			if err != nil {
				return nil, err
			}
			out = append(out, &RecordInfo{
				SourceFile: filename,
				TypeName:   rec.Name,
				Record:     rec,
				Plan:       p,
			})
		}
	}
	return out, nil
}

// describe reads a struct into a plan.Record. ok is false when the struct
// has no marker.
func (s *scanner) describe(name string, st *ast.StructType) (rec plan.Record, ok bool, err error) {
	rec.Name = name
	index := 0
	for _, field := range st.Fields.List {
		tag := viewTag(field.Tag)

		if s.isMarker(field) {
			if ok {
				return rec, false, &plan.Error{Type: name, Field: "_", Err: plan.ErrBadAnnotation, Detail: "more than one propview.Record marker"}
			}
			ok = true
			rec.Tag = tag
			index++
			continue
		}

		// Embedded fields do not participate.
		if len(field.Names) == 0 {
			index++
			continue
		}

		for _, ident := range field.Names {
			if !ident.IsExported() {
				index++
				continue
			}
			rec.Fields = append(rec.Fields, plan.Field{
				Name:   ident.Name,
				Type:   typeToString(field.Type),
				Shape:  s.shape(field.Type),
				Tagger: s.isTagger(field.Type),
				Tag:    tag,
				Index:  index,
			})
			index++
		}
	}
	return rec, ok, nil
}

func (s *scanner) isMarker(field *ast.Field) bool {
	if len(field.Names) != 1 || field.Names[0].Name != "_" {
		return false
	}
	return s.propviewType(field.Type) == "Record"
}

// propviewType returns the propview type name expr refers to, ignoring
// type arguments, or "".
func (s *scanner) propviewType(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.IndexExpr:
		return s.propviewType(t.X)
	case *ast.IndexListExpr:
		return s.propviewType(t.X)
	case *ast.SelectorExpr:
		if id, ok := t.X.(*ast.Ident); ok && id.Name == s.pv {
			return t.Sel.Name
		}
	}
	return ""
}

func (s *scanner) shape(expr ast.Expr) plan.Shape {
	switch s.propviewType(expr) {
	case "Children":
		return plan.ShapeChildren
	case "Attributes":
		return plan.ShapeAttributes
	case "AnyNodeRef", "NodeRef":
		return plan.ShapeNodeRef
	case "Callback":
		return plan.ShapeCallback
	case "MaybeCallback":
		return plan.ShapeMaybeCallback
	case "MaybeProp":
		return plan.ShapeMaybeProp
	case "Style":
		return plan.ShapeValue
	case "":
	default:
		return plan.ShapeUnknown
	}

	switch t := expr.(type) {
	case *ast.StarExpr:
		switch s.propviewType(t.X) {
		case "Callback", "MaybeCallback":
			return plan.ShapeMaybeCallback
		case "Style":
			return plan.ShapeValue
		case "":
			return s.pointeeShape(t.X)
		}
		return plan.ShapeUnknown
	case *ast.ArrayType:
		if t.Len == nil && s.isString(t.Elt) {
			return plan.ShapeValue
		}
		return plan.ShapeUnknown
	case *ast.Ident:
		if isScalarType(t.Name) {
			return plan.ShapeValue
		}
		return s.namedShape(expr)
	case *ast.SelectorExpr:
		return s.namedShape(expr)
	default:
		// func, chan, map, interface and struct literals
		return plan.ShapeUnknown
	}
}

// namedShape classifies a named type that is not a propview type. With type
// information the type must have a text rendering or a scalar underlying
// type; without it every named type is accepted.
func (s *scanner) namedShape(expr ast.Expr) plan.Shape {
	t := s.typeOf(expr)
	if t == nil {
		return plan.ShapeValue
	}
	if hasMethod(t, "String", "string") || hasMethod(t, "MarshalText", "") {
		return plan.ShapeValue
	}
	switch u := t.Underlying().(type) {
	case *types.Basic:
		if isScalarType(u.Name()) {
			return plan.ShapeValue
		}
	case *types.Slice:
		if b, ok := u.Elem().Underlying().(*types.Basic); ok && b.Info()&types.IsString != 0 {
			return plan.ShapeValue
		}
	}
	return plan.ShapeUnknown
}

// pointeeShape classifies the target of a pointer field: a scalar or a
// type with a text rendering. Pointers to slices are not values.
func (s *scanner) pointeeShape(expr ast.Expr) plan.Shape {
	if id, ok := expr.(*ast.Ident); ok && isScalarType(id.Name) {
		return plan.ShapeValue
	}
	switch expr.(type) {
	case *ast.Ident, *ast.SelectorExpr:
	default:
		return plan.ShapeUnknown
	}
	t := s.typeOf(expr)
	if t == nil {
		return plan.ShapeValue
	}
	if hasMethod(t, "String", "string") || hasMethod(t, "MarshalText", "") {
		return plan.ShapeValue
	}
	if b, ok := t.Underlying().(*types.Basic); ok && isScalarType(b.Name()) {
		return plan.ShapeValue
	}
	return plan.ShapeUnknown
}

// isString reports whether expr is a string type. Without type information
// only the predeclared string counts.
func (s *scanner) isString(expr ast.Expr) bool {
	if t := s.typeOf(expr); t != nil {
		b, ok := t.Underlying().(*types.Basic)
		return ok && b.Info()&types.IsString != 0
	}
	id, ok := expr.(*ast.Ident)
	return ok && id.Name == "string"
}

func (s *scanner) isTagger(expr ast.Expr) bool {
	if t := s.typeOf(expr); t != nil {
		return hasMethod(t, "Tag", "string")
	}
	switch t := expr.(type) {
	case *ast.Ident:
		ptr, ok := s.taggers[t.Name]
		return ok && !ptr
	case *ast.StarExpr:
		if id, ok := t.X.(*ast.Ident); ok {
			_, found := s.taggers[id.Name]
			return found
		}
		return s.isTagger(t.X)
	case *ast.SelectorExpr:
		// Another package's type; the generated DynamicTag call makes the
		// compiler check it.
		return true
	}
	return false
}

func (s *scanner) typeOf(expr ast.Expr) types.Type {
	if s.info == nil {
		return nil
	}
	t := s.info.TypeOf(expr)
	if t == nil || t == types.Typ[types.Invalid] {
		return nil
	}
	return t
}

// hasMethod reports whether the method set of t has a niladic method name.
// Pointer-receiver methods count only when t is itself a pointer, matching
// what an interface conversion of a value of type t accepts. When result
// is non-empty the method must return a single value of that basic type.
func hasMethod(t types.Type, name, result string) bool {
	sel := types.NewMethodSet(t).Lookup(nil, name)
	if sel == nil {
		return false
	}
	sig, ok := sel.Type().(*types.Signature)
	if !ok || sig.Params().Len() != 0 {
		return false
	}
	if result == "" {
		return true
	}
	if sig.Results().Len() != 1 {
		return false
	}
	b, ok := sig.Results().At(0).Type().(*types.Basic)
	return ok && b.Name() == result
}

func receiverName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return receiverName(t.X)
	}
	return ""
}

func viewTag(lit *ast.BasicLit) string {
	if lit == nil {
		return ""
	}
	raw, err := strconv.Unquote(lit.Value)
	if err != nil {
		return ""
	}
	return reflect.StructTag(raw).Get("view")
}

// typeToString converts an AST type to a string representation.
func typeToString(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return "*" + typeToString(t.X)
	case *ast.SelectorExpr:
		return typeToString(t.X) + "." + t.Sel.Name
	case *ast.ArrayType:
		if t.Len == nil {
			return "[]" + typeToString(t.Elt)
		}
		return "[...]" + typeToString(t.Elt)
	case *ast.MapType:
		return "map[" + typeToString(t.Key) + "]" + typeToString(t.Value)
	case *ast.IndexExpr:
		return typeToString(t.X) + "[" + typeToString(t.Index) + "]"
	case *ast.IndexListExpr:
		args := make([]string, len(t.Indices))
		for i, ix := range t.Indices {
			args[i] = typeToString(ix)
		}
		return typeToString(t.X) + "[" + strings.Join(args, ", ") + "]"
	case *ast.FuncType:
		return "func(...)"
	case *ast.ChanType:
		return "chan " + typeToString(t.Value)
	case *ast.InterfaceType:
		return "interface{...}"
	case *ast.StructType:
		return "struct{...}"
	default:
		return fmt.Sprintf("%T", expr)
	}
}

// isScalarType checks if a predeclared type renders as attribute text.
func isScalarType(typeName string) bool {
	switch typeName {
	case "bool",
		"int", "int8", "int16", "int32", "int64",
		"uint", "uint8", "uint16", "uint32", "uint64",
		"float32", "float64",
		"string", "byte", "rune":
		return true
	default:
		return false
	}
}
