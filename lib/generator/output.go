package generator

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"

	"github.com/pthm/propview/lib/plan"
	"golang.org/x/tools/imports"
)

// generateFile writes the generated file for one source file.
func (g *Generator) generateFile(pkgName string, f *FileInfo) error {
	outputFile := g.outputPath(f.SourceFile)

	g.log.Info("generating", "file", outputFile, "records", len(f.Records))

	if g.opts.DryRun {
		return nil
	}

	code, err := renderFile(pkgName, f)
	if err != nil {
		return fmt.Errorf("render template: %w", err)
	}

	formatted, err := imports.Process(outputFile, code, nil)
	if err != nil {
		// Write unformatted for debugging
		if writeErr := os.WriteFile(outputFile+".unformatted", code, 0644); writeErr == nil {
			g.log.Warn("wrote unformatted code for debugging", "file", outputFile+".unformatted")
		}
		return fmt.Errorf("format source: %w", err)
	}

	return os.WriteFile(outputFile, formatted, 0644)
}

// outputPath names the generated file for a source file.
func (g *Generator) outputPath(sourceFile string) string {
	baseName := strings.TrimSuffix(filepath.Base(sourceFile), ".go")
	return filepath.Join(filepath.Dir(sourceFile), baseName+g.opts.Suffix)
}

// source returns the formatted code Generate would write for f.
func (g *Generator) source(pkgName string, f *FileInfo) ([]byte, error) {
	code, err := renderFile(pkgName, f)
	if err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}
	return imports.Process(g.outputPath(f.SourceFile), code, nil)
}

// renderFile renders the generated code for f.
func renderFile(pkgName string, f *FileInfo) ([]byte, error) {
	tmpl, err := template.New("view").Funcs(template.FuncMap{
		"step":   stepCode,
		"params": params,
		"source": func(path string) string { return filepath.Base(path) },
	}).Parse(viewTemplate)
	if err != nil {
		return nil, err
	}

	data := struct {
		Package string
		File    *FileInfo
	}{
		Package: pkgName,
		File:    f,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// params returns the Render parameter list for p.
func params(p *plan.RenderPlan) string {
	if p.AcceptsChildren() {
		return "h *propview.Host, children propview.Children"
	}
	return "h *propview.Host"
}

// stepCode generates the statement for one render step.
func stepCode(p *plan.RenderPlan, s plan.Step) string {
	b := s.Binding
	switch s.Op {
	case plan.OpElement:
		switch p.TagMode {
		case plan.TagDynamic:
			return fmt.Sprintf("el := h.Element(propview.DynamicTag(p.%s))", b.Field)
		case plan.TagDynamicAny:
			return fmt.Sprintf("el := h.Element(propview.AnyTag(p.%s))", b.Field)
		default:
			return fmt.Sprintf("el := h.Element(%s)", strconv.Quote(p.Tag))
		}
	case plan.OpRef:
		return fmt.Sprintf("propview.AttachRef(el, p.%s)", b.Field)
	case plan.OpAttr:
		return fmt.Sprintf("propview.SetAttr(el, %s, p.%s)", strconv.Quote(b.Name), b.Field)
	case plan.OpComputed:
		return fmt.Sprintf("propview.Computed(h, el, %s, p.%s)", strconv.Quote(b.Name), b.Field)
	case plan.OpSpread:
		return fmt.Sprintf("propview.Spread(el, p.%s)", b.Field)
	case plan.OpEvent:
		return fmt.Sprintf("propview.On(h, el, %s, p.%s)", strconv.Quote(b.Name), b.Field)
	case plan.OpOptionalEvent:
		slot := "p." + b.Field
		if strings.HasPrefix(b.Type, "*") {
			if strings.Contains(b.Type, "MaybeCallback") {
				slot = "propview.Flatten(" + slot + ")"
			} else {
				slot = "propview.FromOption(" + slot + ")"
			}
		}
		return fmt.Sprintf("propview.OnMaybe(h, el, %s, %s)", strconv.Quote(b.Name), slot)
	case plan.OpChildren:
		if b != nil {
			return fmt.Sprintf("propview.AppendChildren(h, el, p.%s)", b.Field)
		}
		return "propview.AppendChildren(h, el, children)"
	default:
		return fmt.Sprintf("// unknown step %s", s.Op)
	}
}

const viewTemplate = `// Code generated by propview. DO NOT EDIT.
// Source: {{source .File.SourceFile}}

package {{.Package}}

import (
	"github.com/pthm/propview"
)
{{range .File.Records}}{{$plan := .Plan}}
// Render builds the {{.TypeName}} element.
func (p {{.TypeName}}) Render({{params $plan}}) propview.View {
{{- range $plan.Steps}}
	{{step $plan .}}
{{- end}}
	return propview.ViewOf(el)
}
{{end}}`
