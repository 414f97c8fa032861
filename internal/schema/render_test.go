package schema

import (
	"strings"
	"testing"

	"github.com/go-openapi/spec"
	json "github.com/goccy/go-json"
	"github.com/griffnb/core-apidoc/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// schemaAsserter chains property assertions on a rendered schema.
type schemaAsserter struct {
	t      *testing.T
	schema spec.Schema
}

func assertSchema(t *testing.T, schema spec.Schema) *schemaAsserter {
	return &schemaAsserter{t: t, schema: schema}
}

func (sa *schemaAsserter) hasProperty(name string) *schemaAsserter {
	assert.Contains(sa.t, sa.schema.Properties, name, "property %s should exist", name)
	return sa
}

func (sa *schemaAsserter) propertyType(name, expected string) *schemaAsserter {
	prop, ok := sa.schema.Properties[name]
	if assert.True(sa.t, ok, "property %s should exist", name) {
		assert.Equal(sa.t, spec.StringOrArray{expected}, prop.Type, "property %s type", name)
	}
	return sa
}

func (sa *schemaAsserter) propertyRef(name, expected string) *schemaAsserter {
	prop, ok := sa.schema.Properties[name]
	if assert.True(sa.t, ok, "property %s should exist", name) {
		assert.Equal(sa.t, ComponentPrefix+expected, prop.Ref.String(), "property %s ref", name)
	}
	return sa
}

func (sa *schemaAsserter) requiredFields(names ...string) *schemaAsserter {
	assert.Equal(sa.t, names, sa.schema.Required)
	return sa
}

func TestRenderClass(t *testing.T) {
	cs := &domain.ClassSchema{
		Name:        "OrderDto",
		Title:       "Order",
		Description: "Schema for OrderDto",
		Properties: []domain.PropertySchema{
			{Name: "id", Type: domain.TypeInteger, Example: 123},
			{Name: "customer", Ref: "CustomerDto"},
			{Name: "tags", Type: domain.TypeArray},
			{Name: "lines", Type: domain.TypeArray, Items: &domain.PropertySchema{Ref: "LineDto"}},
		},
		Required: []string{"id", "customer"},
	}

	out := RenderClass(cs)

	assert.Equal(t, spec.StringOrArray{domain.TypeObject}, out.Type)
	assert.Equal(t, "Order", out.Title)
	assertSchema(t, out).
		propertyType("id", domain.TypeInteger).
		propertyRef("customer", "CustomerDto").
		propertyType("tags", domain.TypeArray).
		hasProperty("lines").
		requiredFields("id", "customer")

	tags := out.Properties["tags"]
	require.NotNil(t, tags.Items)
	assert.Equal(t, spec.StringOrArray{domain.TypeString}, tags.Items.Schema.Type)

	lines := out.Properties["lines"]
	require.NotNil(t, lines.Items)
	assert.Equal(t, ComponentPrefix+"LineDto", lines.Items.Schema.Ref.String())
}

func TestRenderClass_PropertyOrder(t *testing.T) {
	out := RenderClass(&domain.ClassSchema{
		Name: "OrderDto",
		Properties: []domain.PropertySchema{
			{Name: "zeta", Type: domain.TypeString},
			{Name: "id", Type: domain.TypeInteger},
			{Name: "alpha", Ref: "CustomerDto"},
		},
	})

	b, err := json.Marshal(out.Properties)
	require.NoError(t, err)

	zeta := strings.Index(string(b), `"zeta"`)
	id := strings.Index(string(b), `"id"`)
	alpha := strings.Index(string(b), `"alpha"`)
	assert.True(t, zeta < id && id < alpha, "got %s", b)
}

func TestAddProperty(t *testing.T) {
	t.Run("should number properties in insertion order", func(t *testing.T) {
		s := new(spec.Schema)
		AddProperty(s, "b", *PrimitiveSchema(domain.TypeString))
		AddProperty(s, "a", *PrimitiveSchema(domain.TypeString))

		pos, ok := s.Properties["a"].Extensions.GetInt(domain.ExtensionOrder)
		require.True(t, ok)
		assert.Equal(t, 1, pos)
	})

	t.Run("should keep the position of a replaced property", func(t *testing.T) {
		s := new(spec.Schema)
		AddProperty(s, "b", *PrimitiveSchema(domain.TypeString))
		AddProperty(s, "a", *PrimitiveSchema(domain.TypeString))
		AddProperty(s, "b", *PrimitiveSchema(domain.TypeInteger))

		pos, _ := s.Properties["b"].Extensions.GetInt(domain.ExtensionOrder)
		assert.Equal(t, 0, pos)
		assert.Equal(t, spec.StringOrArray{domain.TypeInteger}, s.Properties["b"].Type)
	})

	t.Run("should not share extensions with the source schema", func(t *testing.T) {
		prop := *PrimitiveSchema(domain.TypeString)
		prop.AddExtension(domain.ExtensionDateFormat, "YYYY")

		s := new(spec.Schema)
		AddProperty(s, "a", prop)
		assert.NotContains(t, prop.Extensions, domain.ExtensionOrder)
	})
}

func TestRenderProperty_NullableRef(t *testing.T) {
	out := RenderProperty(domain.PropertySchema{Name: "customer", Ref: "CustomerDto", Nullable: true})

	assert.Empty(t, out.Ref.String())
	assert.True(t, out.Nullable)
	require.Len(t, out.AllOf, 1)
	assert.Equal(t, ComponentPrefix+"CustomerDto", out.AllOf[0].Ref.String())
}

func TestRenderProperty_DateTimeExtension(t *testing.T) {
	out := RenderProperty(domain.PropertySchema{
		Name:       "createdAt",
		Type:       domain.TypeString,
		Format:     "date-time",
		Example:    "2024-01-15 14:30:00",
		Extensions: map[string]any{domain.ExtensionDateFormat: "YYYY-MM-DD HH:mm:ss"},
	})

	assert.Equal(t, "date-time", out.Format)
	assert.Equal(t, "2024-01-15 14:30:00", out.Example)
	v, ok := out.Extensions.GetString(domain.ExtensionDateFormat)
	require.True(t, ok)
	assert.Equal(t, "YYYY-MM-DD HH:mm:ss", v)
}

func TestRenderEnum(t *testing.T) {
	t.Run("should carry var names when integer backed", func(t *testing.T) {
		out := RenderEnum(&domain.EnumSchema{
			Name:      "Priority",
			Backing:   domain.BackingInteger,
			Values:    []any{int64(1), int64(2)},
			CaseNames: []string{"PriorityLow", "PriorityHigh"},
		})
		assert.Equal(t, spec.StringOrArray{domain.TypeInteger}, out.Type)
		assert.Equal(t, []any{int64(1), int64(2)}, out.Enum)
		assert.Contains(t, out.Extensions, domain.ExtensionEnumVarNames)
	})

	t.Run("should omit var names when string backed", func(t *testing.T) {
		out := RenderEnum(&domain.EnumSchema{
			Name:      "Status",
			Backing:   domain.BackingString,
			Values:    []any{"active", "closed"},
			CaseNames: []string{"StatusActive", "StatusClosed"},
		})
		assert.Equal(t, spec.StringOrArray{domain.TypeString}, out.Type)
		assert.NotContains(t, out.Extensions, domain.ExtensionEnumVarNames)
	})

	t.Run("should list case names when unbacked", func(t *testing.T) {
		out := RenderEnum(&domain.EnumSchema{
			Name:      "Suit",
			Backing:   domain.BackingNone,
			Values:    []any{"Hearts", "Spades"},
			CaseNames: []string{"Hearts", "Spades"},
		})
		assert.Equal(t, spec.StringOrArray{domain.TypeString}, out.Type)
		assert.Equal(t, []any{"Hearts", "Spades"}, out.Enum)
	})
}
