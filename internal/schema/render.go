package schema

import (
	"github.com/go-openapi/spec"
	"github.com/griffnb/core-apidoc/internal/domain"
)

// RenderClass renders a compiled struct schema as a component.
func RenderClass(c *domain.ClassSchema) spec.Schema {
	out := spec.Schema{
		SchemaProps: spec.SchemaProps{
			Type:        []string{domain.TypeObject},
			Title:       c.Title,
			Description: c.Description,
			Properties:  spec.SchemaProperties{},
		},
	}

	for _, p := range c.Properties {
		AddProperty(&out, p.Name, RenderProperty(p))
	}
	if len(c.Required) > 0 {
		out.Required = append([]string(nil), c.Required...)
	}

	return out
}

// RenderProperty renders one property. A ref carrying nullability or a
// description is wrapped in allOf, since OpenAPI 3.0 ignores $ref siblings.
func RenderProperty(p domain.PropertySchema) spec.Schema {
	if p.IsRef() {
		ref := RefSchema(p.Ref)
		if !p.Nullable && p.Description == "" {
			return *ref
		}
		out := spec.Schema{SchemaProps: spec.SchemaProps{
			AllOf:       []spec.Schema{*ref},
			Nullable:    p.Nullable,
			Description: p.Description,
		}}
		return out
	}

	out := *PrimitiveSchema(p.Type)
	out.Format = p.Format
	out.Description = p.Description
	out.Nullable = p.Nullable
	out.Example = p.Example

	if p.Items != nil {
		items := RenderProperty(*p.Items)
		out.Items = &spec.SchemaOrArray{Schema: &items}
	} else if p.Type == domain.TypeArray {
		out.Items = &spec.SchemaOrArray{Schema: PrimitiveSchema(domain.TypeString)}
	}

	for k, v := range p.Extensions {
		out.AddExtension(k, v)
	}

	return out
}

// RenderEnum renders an enum component. Integer backed enums carry
// x-enum-varnames; string and unbacked enums are self-describing.
func RenderEnum(e *domain.EnumSchema) spec.Schema {
	out := spec.Schema{
		SchemaProps: spec.SchemaProps{
			Type:        []string{e.OpenAPIType()},
			Title:       e.Title,
			Description: e.Description,
			Enum:        append([]any(nil), e.Values...),
		},
	}

	if e.Backing == domain.BackingInteger {
		out.AddExtension(domain.ExtensionEnumVarNames, append([]string(nil), e.CaseNames...))
	}

	return out
}
