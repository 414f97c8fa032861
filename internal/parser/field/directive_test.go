package field

import (
	"go/ast"
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDirective(t *testing.T) {
	t.Run("should ignore ordinary comments", func(t *testing.T) {
		_, ok, err := ParseDirective("// OrderDto is an order.")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("should split args, options and quoted values", func(t *testing.T) {
		d, ok, err := ParseDirective(`//apidoc:property formatted_total type=string example="$99.99" description="Formatted \"total\"" nullable`)
		require.NoError(t, err)
		require.True(t, ok)

		assert.Equal(t, DirectiveProperty, d.Name)
		assert.Equal(t, []string{"formatted_total", "nullable"}, d.Args)
		assert.Equal(t, "string", d.Options["type"])
		assert.Equal(t, "$99.99", d.Options["example"])
		assert.Equal(t, `Formatted "total"`, d.Options["description"])
		assert.True(t, d.HasFlag("nullable"))
	})

	t.Run("should parse a bare marker", func(t *testing.T) {
		d, ok, err := ParseDirective("//apidoc:schema")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, DirectiveSchema, d.Name)
		assert.Empty(t, d.Args)
	})

	t.Run("should reject unterminated quotes", func(t *testing.T) {
		_, _, err := ParseDirective(`//apidoc:schema title="Order`)
		assert.Error(t, err)
	})
}

func TestDirectives(t *testing.T) {
	src := `package p

// OrderDto is an order.
//
//apidoc:schema title="Order"
//apidoc:datetime created_at type=date
type OrderDto struct{}
`
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "p.go", src, parser.ParseComments)
	require.NoError(t, err)

	gen := f.Decls[0].(*ast.GenDecl)
	ds, err := Directives(gen.Doc)
	require.NoError(t, err)

	require.Len(t, ds, 2)
	assert.Equal(t, "Order", ds[0].Options["title"])
	assert.Equal(t, DirectiveDateTime, ds[1].Name)
	assert.Equal(t, []string{"created_at"}, ds[1].Args)
	assert.Equal(t, "date", ds[1].Options["type"])
}
