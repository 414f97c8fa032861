package domain

import (
	"strings"
	"testing"

	"github.com/go-openapi/spec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderedProperty(typ string, position int) spec.Schema {
	s := *new(spec.Schema).Typed(typ, "")
	s.AddExtension(ExtensionOrder, float64(position))
	return s
}

func orderedDocument() *Document {
	doc := NewDocument()
	doc.Info = Info{Title: "Orders API", Version: "1.0.0", Description: "First line\nSecond line"}

	order := *new(spec.Schema).Typed(TypeObject, "")
	order.Properties = spec.SchemaProperties{
		"zulu":  orderedProperty(TypeString, 0),
		"mike":  orderedProperty(TypeInteger, 1),
		"alpha": orderedProperty(TypeBoolean, 2),
	}
	// a property named like the marker keeps its own schema
	order.Properties["x-order"] = orderedProperty(TypeString, 3)
	doc.Components.Schemas["OrderDto"] = order

	doc.Extensions = map[string]interface{}{"x-logo": map[string]interface{}{"url": "logo.png"}}
	return doc
}

func indexes(text string, keys ...string) []int {
	out := make([]int, len(keys))
	for i, k := range keys {
		out[i] = strings.Index(text, k)
	}
	return out
}

func TestDocument_MarshalJSON(t *testing.T) {
	t.Run("should append extensions after the document fields", func(t *testing.T) {
		b, err := orderedDocument().MarshalJSON()
		require.NoError(t, err)

		at := indexes(string(b), `"openapi"`, `"info"`, `"components"`, `"x-logo"`)
		assert.True(t, at[0] < at[1] && at[1] < at[2] && at[2] < at[3], "%v", at)
	})
}

func TestDocument_Tree(t *testing.T) {
	tree, err := orderedDocument().Tree()
	require.NoError(t, err)

	t.Run("should encode properties by position without markers in json", func(t *testing.T) {
		b, err := EncodeJSON(tree, "  ")
		require.NoError(t, err)
		out := string(b)

		at := indexes(out, `"zulu"`, `"mike"`, `"alpha"`)
		assert.True(t, at[0] < at[1] && at[1] < at[2], "%v", at)
		assert.Equal(t, 1, strings.Count(out, `"x-order"`), "only the property named x-order should remain")
		assert.Contains(t, out, `"url": "logo.png"`)
		assert.Contains(t, out, `"openapi": "3.0.3"`)
	})

	t.Run("should encode block yaml in the same order", func(t *testing.T) {
		b, err := EncodeYAML(tree)
		require.NoError(t, err)
		out := string(b)

		at := indexes(out, "zulu:", "mike:", "alpha:")
		assert.True(t, at[0] < at[1] && at[1] < at[2], "%v", at)
		assert.Contains(t, out, "openapi: 3.0.3\n")
		assert.Contains(t, out, "description: |-\n")
		assert.Contains(t, out, "components:\n  schemas:\n    OrderDto:\n")
	})

	t.Run("should keep scalar types", func(t *testing.T) {
		doc := NewDocument()
		doc.Info = Info{Title: "123", Version: "true"}
		tree, err := doc.Tree()
		require.NoError(t, err)

		b, err := EncodeJSON(tree, "")
		require.NoError(t, err)
		assert.Contains(t, string(b), `"title":"123"`)
		assert.Contains(t, string(b), `"version":"true"`)

		y, err := EncodeYAML(tree)
		require.NoError(t, err)
		assert.Contains(t, string(y), `title: "123"`)
		assert.Contains(t, string(y), `version: "true"`)
	})
}
