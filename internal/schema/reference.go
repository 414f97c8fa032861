package schema

import (
	"strings"

	"github.com/go-openapi/spec"
	"github.com/griffnb/core-apidoc/internal/domain"
)

// ComponentPrefix is the JSON pointer prefix of component schemas.
const ComponentPrefix = "#/components/schemas/"

// RefSchema builds a reference schema.
func RefSchema(refType string) *spec.Schema {
	return spec.RefSchema(ComponentPrefix + refType)
}

// AddProperty appends prop to the properties of s. Properties encode in
// the order they were added.
func AddProperty(s *spec.Schema, name string, prop spec.Schema) {
	if s.Properties == nil {
		s.Properties = spec.SchemaProperties{}
	}

	ext := make(spec.Extensions, len(prop.Extensions)+1)
	for k, v := range prop.Extensions {
		ext[k] = v
	}
	position := len(s.Properties)
	if existing, ok := s.Properties[name]; ok {
		position, _ = existing.Extensions.GetInt(domain.ExtensionOrder)
	}
	ext.Add(domain.ExtensionOrder, float64(position))
	prop.Extensions = ext

	s.Properties[name] = prop
}

// IsRefSchema determines whether a schema is a reference schema.
func IsRefSchema(schema *spec.Schema) bool {
	if schema == nil {
		return false
	}
	return schema.Ref.Ref.GetURL() != nil
}

// RefName extracts the component name from a $ref string like
// "#/components/schemas/OrderDto".
func RefName(ref string) string {
	name, ok := strings.CutPrefix(ref, ComponentPrefix)
	if !ok {
		return ""
	}
	return name
}

// CollectRefs returns the component names referenced anywhere in s.
func CollectRefs(s *spec.Schema, into map[string]struct{}) {
	if s == nil {
		return
	}
	if name := RefName(s.Ref.String()); name != "" {
		into[name] = struct{}{}
	}
	for _, p := range s.Properties {
		p := p
		CollectRefs(&p, into)
	}
	if s.Items != nil {
		CollectRefs(s.Items.Schema, into)
		for i := range s.Items.Schemas {
			CollectRefs(&s.Items.Schemas[i], into)
		}
	}
	for i := range s.AllOf {
		CollectRefs(&s.AllOf[i], into)
	}
	if s.AdditionalProperties != nil {
		CollectRefs(s.AdditionalProperties.Schema, into)
	}
}
