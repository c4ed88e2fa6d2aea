package gen_test

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formfield/taxgen/internal/gen"
	"github.com/formfield/taxgen/internal/taxonomy"
)

func TestRenderConditionsGroup(t *testing.T) {
	entries := []taxonomy.Entry{
		{Name: "B", Type: "condition"},
		{Name: "C", Type: "condition"},
	}

	src, err := gen.Render(entries, gen.FileSpec{Package: "options", Name: "ConditionOptions"})
	require.NoError(t, err)

	want := `// Code generated by taxgen; DO NOT EDIT.

package options

// ConditionOptions returns the generated option list in taxonomy order.
// The slice is freshly allocated on each call.
func ConditionOptions() []Option {
	return []Option{
		{Type: "condition", Label: "B", Value: "B"},
		{Type: "condition", Label: "C", Value: "C"},
	}
}
`
	assert.Equal(t, want, string(src))
}

func TestRenderEmptyGroup(t *testing.T) {
	src, err := gen.Render(nil, gen.FileSpec{Package: "options", Name: "RequirementOptions"})
	require.NoError(t, err)

	want := `// Code generated by taxgen; DO NOT EDIT.

package options

// RequirementOptions returns the generated option list in taxonomy order.
// The slice is freshly allocated on each call.
func RequirementOptions() []Option {
	return []Option{}
}
`
	assert.Equal(t, want, string(src))

	// An empty group must still be a valid module, not a skipped file.
	assert.Empty(t, parseOptions(t, src, "RequirementOptions"))
}

func TestRenderHeaderMarker(t *testing.T) {
	src, err := gen.Render(nil, gen.FileSpec{Package: "options", Name: "RequirementOptions"})
	require.NoError(t, err)

	first, _, _ := strings.Cut(string(src), "\n")
	assert.Equal(t, "// Code generated by taxgen; DO NOT EDIT.", first)
}

func TestRenderDeterminism(t *testing.T) {
	entries := []taxonomy.Entry{
		{Name: "Age", Type: "requirement"},
		{Name: "Diagnosis", Type: "condition"},
	}
	spec := gen.FileSpec{Package: "options", Name: "ConditionOptions"}

	first, err := gen.Render(entries, spec)
	require.NoError(t, err)
	second, err := gen.Render(entries, spec)
	require.NoError(t, err)

	assert.Equal(t, first, second, "same input must render byte-identical output")
}

func TestRenderRoundTrip(t *testing.T) {
	entries := []taxonomy.Entry{
		{Name: `He said "no"`, Type: "condition"},
		{Name: "tab\there", Type: "line\nbreak"},
		{Name: "ünïcode", Type: "condition"},
	}

	src, err := gen.Render(entries, gen.FileSpec{Package: "options", Name: "ConditionOptions"})
	require.NoError(t, err)

	opts := parseOptions(t, src, "ConditionOptions")
	require.Len(t, opts, len(entries))
	for i, e := range entries {
		assert.Equal(t, e.Type, opts[i].Type, "entry %d type", i)
		assert.Equal(t, e.Name, opts[i].Label, "entry %d label", i)
		assert.Equal(t, e.Name, opts[i].Value, "entry %d value", i)
	}
}

func TestRenderEscapesQuotes(t *testing.T) {
	entries := []taxonomy.Entry{{Name: `5" reach`, Type: "condition"}}

	src, err := gen.Render(entries, gen.FileSpec{Package: "options", Name: "ConditionOptions"})
	require.NoError(t, err)

	opts := parseOptions(t, src, "ConditionOptions")
	require.Len(t, opts, 1)
	assert.Equal(t, `5" reach`, opts[0].Label)
	assert.Equal(t, `5" reach`, opts[0].Value)
}

func TestRenderBadIdentifiers(t *testing.T) {
	tests := []struct {
		name string
		spec gen.FileSpec
	}{
		{name: "unexported accessor", spec: gen.FileSpec{Package: "options", Name: "conditionOptions"}},
		{name: "accessor starts with digit", spec: gen.FileSpec{Package: "options", Name: "2Fast"}},
		{name: "accessor contains space", spec: gen.FileSpec{Package: "options", Name: "Bad Name"}},
		{name: "empty accessor", spec: gen.FileSpec{Package: "options", Name: ""}},
		{name: "hyphenated package", spec: gen.FileSpec{Package: "my-pkg", Name: "ConditionOptions"}},
		{name: "keyword package", spec: gen.FileSpec{Package: "func", Name: "ConditionOptions"}},
		{name: "empty package", spec: gen.FileSpec{Package: "", Name: "ConditionOptions"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := gen.Render(nil, tt.spec)
			var escErr *gen.EscapeError
			require.ErrorAs(t, err, &escErr)
		})
	}
}

func TestRenderOptionType(t *testing.T) {
	src, err := gen.RenderOptionType("options")
	require.NoError(t, err)

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "options.go", src, 0)
	require.NoError(t, err, "scaffold must parse")
	assert.Equal(t, "options", file.Name.Name)
	assert.Contains(t, string(src), "type Option struct")

	_, err = gen.RenderOptionType("not valid")
	var escErr *gen.EscapeError
	require.ErrorAs(t, err, &escErr)
}

// parsedOption is an option record read back out of generated source.
type parsedOption struct {
	Type  string
	Label string
	Value string
}

// parseOptions parses generated source and extracts the option records
// returned by the named accessor, verifying the fixed field order along
// the way.
func parseOptions(t *testing.T, src []byte, funcName string) []parsedOption {
	t.Helper()

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "generated.go", src, 0)
	require.NoError(t, err, "generated source must parse")

	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Name.Name != funcName {
			continue
		}

		require.Len(t, fn.Body.List, 1, "accessor body should be a single return")
		ret, ok := fn.Body.List[0].(*ast.ReturnStmt)
		require.True(t, ok, "accessor body should be a return statement")
		lit, ok := ret.Results[0].(*ast.CompositeLit)
		require.True(t, ok, "accessor should return a composite literal")

		var opts []parsedOption
		for _, elt := range lit.Elts {
			record, ok := elt.(*ast.CompositeLit)
			require.True(t, ok, "each element should be a composite literal")

			var keys []string
			var opt parsedOption
			for _, kv := range record.Elts {
				pair, ok := kv.(*ast.KeyValueExpr)
				require.True(t, ok, "each field should be keyed")
				key := pair.Key.(*ast.Ident).Name
				keys = append(keys, key)

				basic, ok := pair.Value.(*ast.BasicLit)
				require.True(t, ok, "each value should be a string literal")
				val, err := strconv.Unquote(basic.Value)
				require.NoError(t, err)

				switch key {
				case "Type":
					opt.Type = val
				case "Label":
					opt.Label = val
				case "Value":
					opt.Value = val
				}
			}
			assert.Equal(t, []string{"Type", "Label", "Value"}, keys, "fields must keep their fixed order")
			opts = append(opts, opt)
		}
		return opts
	}

	t.Fatalf("function %s not found in generated source", funcName)
	return nil
}
