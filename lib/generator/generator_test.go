package generator

import (
	"errors"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm/propview/lib/plan"
)

const recordsSource = `
package ui

import (
	pv "github.com/pthm/propview"
	"github.com/pthm/propview/lib/dom"
)

type Level int

func (l Level) Tag() string { return "h2" }

type ImageProps struct {
	_       pv.Record ` + "`view:\"img,nochildren\"`" + `
	NodeRef pv.AnyNodeRef
	Class   pv.MaybeProp[string]
	ID      *string
	OnClick pv.MaybeCallback[dom.Event]
}

type HeadingProps struct {
	_      pv.Record
	Level  Level ` + "`view:\",dynamictag\"`" + `
	OnCopy *pv.Callback[dom.Event]
	hidden string
}

type CardProps struct {
	_          pv.Record ` + "`view:\"section\"`" + `
	Title      string
	Attributes pv.Attributes
	Children   pv.Children
}

// Plain structs are ignored.
type Options struct {
	Debug bool
}
`

func parseRecords(t *testing.T, code string, opts plan.Options) ([]*RecordInfo, error) {
	t.Helper()
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "records.go", code, parser.ParseComments)
	if err != nil {
		t.Fatalf("Failed to parse code: %v", err)
	}
	return newScanner(file, nil).records("records.go", opts)
}

func TestScannerFindsRecords(t *testing.T) {
	recs, err := parseRecords(t, recordsSource, plan.Options{})
	if err != nil {
		t.Fatalf("records() error = %v", err)
	}

	var names []string
	for _, r := range recs {
		names = append(names, r.TypeName)
	}
	if got := strings.Join(names, ","); got != "ImageProps,HeadingProps,CardProps" {
		t.Fatalf("records() = %s, want ImageProps,HeadingProps,CardProps", got)
	}

	img := recs[0].Plan
	if img.Tag != "img" || img.AcceptsChildren() {
		t.Errorf("ImageProps plan = tag %q, children %v", img.Tag, img.Children)
	}
	if img.Ref == nil || img.Ref.Field != "NodeRef" {
		t.Errorf("ImageProps reference = %+v, want NodeRef", img.Ref)
	}
	wantKinds := []plan.Kind{plan.KindReactive, plan.KindPlain}
	for i, b := range img.Attrs {
		if b.Kind != wantKinds[i] {
			t.Errorf("ImageProps attr %d kind = %v, want %v", i, b.Kind, wantKinds[i])
		}
	}
	if len(img.Events) != 1 || img.Events[0].Kind != plan.KindOptionalCallback || img.Events[0].Name != "click" {
		t.Errorf("ImageProps events = %+v", img.Events)
	}

	heading := recs[1].Plan
	if heading.TagMode != plan.TagDynamic {
		t.Errorf("HeadingProps tag mode = %v, want dynamic", heading.TagMode)
	}
	if len(heading.Events) != 1 || heading.Events[0].Type != "*pv.Callback[dom.Event]" {
		t.Errorf("HeadingProps events = %+v", heading.Events)
	}
	if !heading.AcceptsChildren() {
		t.Error("HeadingProps should accept children")
	}

	card := recs[2].Plan
	if card.Children != plan.ChildrenField {
		t.Errorf("CardProps children = %v, want field", card.Children)
	}
	if len(card.Attrs) != 2 || card.Attrs[1].Kind != plan.KindAttributeMap {
		t.Errorf("CardProps attrs = %+v", card.Attrs)
	}
}

func TestScannerWithoutImport(t *testing.T) {
	code := `
package ui

type Record struct{}

type Props struct {
	_ Record ` + "`view:\"div\"`" + `
}
`
	recs, err := parseRecords(t, code, plan.Options{})
	if err != nil {
		t.Fatalf("records() error = %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("records() found %d records in a file without the propview import", len(recs))
	}
}

func TestScannerErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"func field", "Fn func()", plan.ErrUnclassifiable},
		{"map field", "Data map[string]string", plan.ErrUnclassifiable},
		{"pointer to slice", "Classes *[]string", plan.ErrUnclassifiable},
		{"pointer to attribute map", "Attributes *propview.Attributes", plan.ErrUnclassifiable},
		{"complex field", "Phase complex128", plan.ErrUnclassifiable},
		{"event not callback", "OnClick string", plan.ErrEventShape},
		{"children conflict", "Children propview.Children", plan.ErrChildrenConflict},
		{"duplicate name", "ID string\n\tX_ID string", plan.ErrDuplicate},
		{"second marker", "_ propview.Record", plan.ErrBadAnnotation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code := "package ui\nimport \"github.com/pthm/propview\"\ntype Props struct {\n\t_ propview.Record `view:\"img,nochildren\"`\n\t" + tt.body + "\n}\n"
			_, err := parseRecords(t, code, plan.Options{})
			if !errors.Is(err, tt.want) {
				t.Errorf("records() error = %v, want %v", err, tt.want)
			}
		})
	}

	_, err := parseRecords(t, "package ui\nimport \"github.com/pthm/propview\"\ntype Props struct {\n\t_ propview.Record\n}\n", plan.Options{})
	if !errors.Is(err, plan.ErrNoTag) {
		t.Errorf("records() error = %v, want ErrNoTag", err)
	}
}

func TestScannerPointerReceivers(t *testing.T) {
	const header = "package ui\nimport pv \"github.com/pthm/propview\"\n"

	t.Run("pointer receiver tag", func(t *testing.T) {
		code := header + "type Level int\nfunc (l *Level) Tag() string { return \"h1\" }\n" +
			"type Props struct {\n\t_ pv.Record\n\tLevel Level `view:\",dynamictag\"`\n}\n"
		_, err := parseRecords(t, code, plan.Options{})
		if !errors.Is(err, plan.ErrTagShape) {
			t.Errorf("records() error = %v, want ErrTagShape", err)
		}
	})

	t.Run("pointer to pointer receiver tag", func(t *testing.T) {
		code := header + "type Level int\nfunc (l *Level) Tag() string { return \"h1\" }\n" +
			"type Props struct {\n\t_ pv.Record\n\tLevel *Level `view:\",dynamictag\"`\n}\n"
		recs, err := parseRecords(t, code, plan.Options{})
		if err != nil {
			t.Fatalf("records() error = %v", err)
		}
		if recs[0].Plan.TagMode != plan.TagDynamic {
			t.Errorf("tag mode = %v, want dynamic", recs[0].Plan.TagMode)
		}
	})

	t.Run("style pointer", func(t *testing.T) {
		code := header + "type Props struct {\n\t_ pv.Record `view:\"div\"`\n\tStyle *pv.Style\n}\n"
		recs, err := parseRecords(t, code, plan.Options{})
		if err != nil {
			t.Fatalf("records() error = %v", err)
		}
		if attrs := recs[0].Plan.Attrs; len(attrs) != 1 || attrs[0].Kind != plan.KindPlain || attrs[0].Name != "style" {
			t.Errorf("attrs = %+v, want one plain style binding", attrs)
		}
	})
}

func TestStepOrder(t *testing.T) {
	recs, err := parseRecords(t, recordsSource, plan.Options{})
	if err != nil {
		t.Fatalf("records() error = %v", err)
	}

	code, err := renderFile("ui", &FileInfo{SourceFile: "records.go", Records: recs})
	if err != nil {
		t.Fatalf("renderFile() error = %v", err)
	}
	src := string(code)

	if _, err := parser.ParseFile(token.NewFileSet(), "records_view.go", code, 0); err != nil {
		t.Fatalf("generated code does not parse: %v\n%s", err, src)
	}

	ordered := []string{
		"func (p ImageProps) Render(h *propview.Host) propview.View {",
		`el := h.Element("img")`,
		"propview.AttachRef(el, p.NodeRef)",
		`propview.Computed(h, el, "class", p.Class)`,
		`propview.SetAttr(el, "id", p.ID)`,
		`propview.OnMaybe(h, el, "click", p.OnClick)`,
		"return propview.ViewOf(el)",
		"func (p HeadingProps) Render(h *propview.Host, children propview.Children) propview.View {",
		"el := h.Element(propview.DynamicTag(p.Level))",
		`propview.OnMaybe(h, el, "copy", propview.FromOption(p.OnCopy))`,
		"propview.AppendChildren(h, el, children)",
		"func (p CardProps) Render(h *propview.Host) propview.View {",
		`propview.SetAttr(el, "title", p.Title)`,
		"propview.Spread(el, p.Attributes)",
		"propview.AppendChildren(h, el, p.Children)",
	}
	pos := 0
	for _, want := range ordered {
		i := strings.Index(src[pos:], want)
		if i < 0 {
			t.Fatalf("generated code missing %q after offset %d:\n%s", want, pos, src)
		}
		pos += i + len(want)
	}

	if strings.Contains(src, "hidden") {
		t.Error("unexported fields must not be rendered")
	}
	if !strings.HasPrefix(src, "// Code generated by propview. DO NOT EDIT.") {
		t.Error("generated code should carry the generated-code header")
	}
}

func TestGenerateFile(t *testing.T) {
	dir := t.TempDir()
	recs, err := parseRecords(t, recordsSource, plan.Options{})
	if err != nil {
		t.Fatalf("records() error = %v", err)
	}

	source := filepath.Join(dir, "records.go")
	g := New(Options{})
	if err := g.generateFile("ui", &FileInfo{SourceFile: source, Records: recs}); err != nil {
		t.Fatalf("generateFile() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "records_view.go"))
	if err != nil {
		t.Fatalf("generated file not written: %v", err)
	}
	if !strings.Contains(string(data), "func (p ImageProps) Render(") {
		t.Errorf("generated file missing ImageProps.Render:\n%s", data)
	}

	dry := New(Options{DryRun: true, Suffix: "_dry.go"})
	if err := dry.generateFile("ui", &FileInfo{SourceFile: source, Records: recs}); err != nil {
		t.Fatalf("generateFile() dry run error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "records_dry.go")); !os.IsNotExist(err) {
		t.Error("dry run should not write files")
	}
}

func TestClean(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "ui")
	hidden := filepath.Join(dir, "_skip")
	for _, d := range []string{sub, hidden} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatal(err)
		}
	}

	files := map[string]bool{
		filepath.Join(sub, "card.go"):                  true,
		filepath.Join(sub, "card_view.go"):             false,
		filepath.Join(sub, "card_view.go.unformatted"): false,
		filepath.Join(hidden, "other_view.go"):         true,
		filepath.Join(dir, "root_view.go"):             false,
	}
	for path := range files {
		if err := os.WriteFile(path, []byte("package x\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	if err := New(Options{DryRun: true, Dir: dir}).Clean("./..."); err != nil {
		t.Fatalf("Clean() dry run error = %v", err)
	}
	for path := range files {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("dry run removed %s", path)
		}
	}

	if err := New(Options{Dir: dir}).Clean("./..."); err != nil {
		t.Fatalf("Clean() error = %v", err)
	}
	for path, keep := range files {
		_, err := os.Stat(path)
		if exists := err == nil; exists != keep {
			t.Errorf("%s exists = %v, want %v", path, exists, keep)
		}
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		suffix string
		source string
		want   string
	}{
		{"", filepath.Join("ui", "card.go"), filepath.Join("ui", "card_view.go")},
		{"_gen.go", filepath.Join("ui", "card.go"), filepath.Join("ui", "card_gen.go")},
		{"", "records.go", "records_view.go"},
	}

	for _, tt := range tests {
		if got := New(Options{Suffix: tt.suffix}).outputPath(tt.source); got != tt.want {
			t.Errorf("outputPath(%q) = %q, want %q", tt.source, got, tt.want)
		}
	}
}
