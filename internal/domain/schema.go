// Package domain contains the schema model shared across the apidoc packages.
// Values here are created fresh on every generation run and never persisted.
package domain

// OpenAPI property types.
const (
	TypeString  = "string"
	TypeInteger = "integer"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeArray   = "array"
	TypeObject  = "object"
)

// ExtensionDateFormat carries the literal date pattern of a date-time property.
const ExtensionDateFormat = "x-format"

// ExtensionEnumVarNames lists the case names of an integer backed enum.
const ExtensionEnumVarNames = "x-enum-varnames"

// ExtensionOrder positions a property within its object. It orders the
// encoded properties and never appears in a written document.
const ExtensionOrder = "x-order"

// PropertySchema is one documented field. Exactly one of Type or Ref is set.
type PropertySchema struct {
	Name        string
	Type        string
	Format      string
	Example     any
	Description string
	Nullable    bool
	Required    bool

	// Ref is the component schema name this property points to.
	Ref string

	// Items describes array elements.
	Items *PropertySchema

	Extensions map[string]any
}

// IsRef reports whether the property is a named reference.
func (p PropertySchema) IsRef() bool {
	return p.Ref != ""
}

// Clone returns a deep copy of the property.
func (p PropertySchema) Clone() PropertySchema {
	out := p
	if p.Items != nil {
		items := p.Items.Clone()
		out.Items = &items
	}
	if p.Extensions != nil {
		out.Extensions = make(map[string]any, len(p.Extensions))
		for k, v := range p.Extensions {
			out.Extensions[k] = v
		}
	}
	return out
}

// PropertyOverride is an explicit replacement for one named property.
// It has the highest merge priority.
type PropertyOverride PropertySchema

// ClassSchema is one documented struct type.
type ClassSchema struct {
	Name        string
	PkgPath     string
	Title       string
	Description string

	// Properties are kept in serialization order when it could be inferred,
	// otherwise in declaration order.
	Properties []PropertySchema

	// Required is a subset of property names, in property order.
	Required []string
}

// Property looks up a property by name.
func (c *ClassSchema) Property(name string) (*PropertySchema, bool) {
	for i := range c.Properties {
		if c.Properties[i].Name == name {
			return &c.Properties[i], true
		}
	}
	return nil, false
}

// PropertyNames returns the property names in order.
func (c *ClassSchema) PropertyNames() []string {
	names := make([]string, 0, len(c.Properties))
	for _, p := range c.Properties {
		names = append(names, p.Name)
	}
	return names
}

// BackingKind is the primitive type of enum case values.
type BackingKind string

const (
	BackingString  BackingKind = "string"
	BackingInteger BackingKind = "integer"
	BackingNone    BackingKind = "none"
)

// EnumSchema is one documented enum. Values and CaseNames are parallel.
type EnumSchema struct {
	Name        string
	PkgPath     string
	Title       string
	Description string
	Backing     BackingKind
	Values      []any
	CaseNames   []string
}

// OpenAPIType returns the property type used for the enum values.
func (e *EnumSchema) OpenAPIType() string {
	if e.Backing == BackingInteger {
		return TypeInteger
	}
	return TypeString
}

// FormatSpec is the resolved format of a date-time property.
type FormatSpec struct {
	OpenAPIFormat string
	LiteralFormat string
	Example       string
}

// DocumentableKind says how a type participates in schema generation.
type DocumentableKind int

const (
	KindNone DocumentableKind = iota
	KindSchema
	KindEnum
)

func (k DocumentableKind) String() string {
	switch k {
	case KindSchema:
		return "schema"
	case KindEnum:
		return "enum"
	default:
		return "none"
	}
}
