// Package gen renders taxonomy groups into generated Go source files
// declaring read-only option tables.
//
// Rendering is a pure function of its inputs: the same group and spec
// always produce byte-identical output, so regenerated files only show
// up in diffs when the taxonomy actually changed. The header line
// carries no timestamp or version for the same reason.
package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"go/token"
	"strconv"
	"text/template"

	"github.com/formfield/taxgen/internal/taxonomy"
)

// FileSpec names one generated module: the package it belongs to and
// the exported accessor it declares.
type FileSpec struct {
	Package string
	Name    string
}

// EscapeError is returned when an input cannot be rendered as valid Go
// source: a malformed identifier, or rendered text that fails to
// format.
type EscapeError struct {
	Reason string
	Err    error
}

func (e *EscapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gen: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("gen: %s", e.Reason)
}

// Unwrap returns the underlying formatting error, if any.
func (e *EscapeError) Unwrap() error { return e.Err }

// moduleTemplate is the shape of every generated option module. Entry
// strings pass through quote so quotes and control characters in
// taxonomy data always yield parseable Go.
const moduleTemplate = `// Code generated by taxgen; DO NOT EDIT.

package {{.Package}}

// {{.Name}} returns the generated option list in taxonomy order.
// The slice is freshly allocated on each call.
func {{.Name}}() []Option {
{{- if .Entries}}
	return []Option{
{{- range .Entries}}
		{Type: {{quote .Type}}, Label: {{quote .Name}}, Value: {{quote .Name}}},
{{- end}}
	}
{{- else}}
	return []Option{}
{{- end}}
}
`

// optionTypeTemplate is the scaffold for the hand-maintained Option
// type the generated modules compile against. Written once by init,
// never touched by generate.
const optionTypeTemplate = `package {{.Package}}

// Option is one selectable entry of a generated option table. Label is
// the display text and Value the stored value; the generator keeps the
// two equal, both taken from the taxonomy entry name.
type Option struct {
	Type  string
	Label string
	Value string
}
`

var (
	moduleTmpl = template.Must(template.New("module").
			Funcs(template.FuncMap{"quote": strconv.Quote}).
			Parse(moduleTemplate))
	optionTypeTmpl = template.Must(template.New("optiontype").Parse(optionTypeTemplate))
)

type moduleData struct {
	Package string
	Name    string
	Entries []taxonomy.Entry
}

// Render produces the generated source for one option module: the
// machine-generated header, the package clause, and one exported
// accessor returning the group's options in order. An empty group
// renders the same module with an empty list.
func Render(entries []taxonomy.Entry, spec FileSpec) ([]byte, error) {
	if err := validateSpec(spec); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	err := moduleTmpl.Execute(&buf, moduleData{
		Package: spec.Package,
		Name:    spec.Name,
		Entries: entries,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render module: %w", err)
	}

	return formatSource(buf.Bytes())
}

// RenderOptionType produces the scaffold source declaring the Option
// type for the target package.
func RenderOptionType(pkg string) ([]byte, error) {
	if !token.IsIdentifier(pkg) {
		return nil, &EscapeError{Reason: fmt.Sprintf("package name %q is not a valid identifier", pkg)}
	}

	var buf bytes.Buffer
	if err := optionTypeTmpl.Execute(&buf, struct{ Package string }{pkg}); err != nil {
		return nil, fmt.Errorf("failed to render option type: %w", err)
	}

	return formatSource(buf.Bytes())
}

func validateSpec(spec FileSpec) error {
	if !token.IsIdentifier(spec.Package) {
		return &EscapeError{Reason: fmt.Sprintf("package name %q is not a valid identifier", spec.Package)}
	}
	if !token.IsIdentifier(spec.Name) || !token.IsExported(spec.Name) {
		return &EscapeError{Reason: fmt.Sprintf("accessor name %q is not a valid exported identifier", spec.Name)}
	}
	return nil
}

// formatSource runs the rendered text through go/format. The templates
// already emit gofmt-clean text, so this is a parse check as much as a
// formatting pass; with identifier inputs validated it cannot fail on
// entry data, however hostile.
func formatSource(src []byte) ([]byte, error) {
	out, err := format.Source(src)
	if err != nil {
		return nil, &EscapeError{Reason: "rendered source does not parse", Err: err}
	}
	return out, nil
}
