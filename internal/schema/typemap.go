package schema

import (
	"go/types"
	"strings"

	"github.com/griffnb/core-apidoc/internal/domain"
	"github.com/griffnb/core-apidoc/internal/model"
)

// Kind says how a Go type is documented.
type Kind int

const (
	// KindPrimitive is string, integer, number, boolean or object.
	KindPrimitive Kind = iota
	// KindArray has Items.
	KindArray
	// KindDateTime is resolved by the datetime resolver.
	KindDateTime
	// KindEnum references an enum schema.
	KindEnum
	// KindRef references another documented struct.
	KindRef
)

// Mapping is the result of mapping a declared Go type.
type Mapping struct {
	Kind     Kind
	Type     string
	Format   string
	Example  any
	Nullable bool

	// Named is set for KindEnum, KindRef and KindDateTime.
	Named *types.Named
	Items *Mapping
}

// Classifier tells the mapper which named types are documented.
type Classifier interface {
	IsEnum(named *types.Named) bool
	IsSchema(named *types.Named) bool
}

// TypeMapper maps Go types to OpenAPI types.
type TypeMapper struct {
	classifier Classifier
}

// NewTypeMapper creates a mapper. A nil classifier treats every named type
// as undocumented.
func NewTypeMapper(classifier Classifier) *TypeMapper {
	return &TypeMapper{classifier: classifier}
}

// Map maps t. Unknown named types fall back to string.
func (m *TypeMapper) Map(t types.Type) Mapping {
	switch tt := t.(type) {
	case *types.Pointer:
		inner := m.Map(tt.Elem())
		inner.Nullable = true
		return inner

	case *types.Alias:
		return m.Map(types.Unalias(tt))

	case *types.Named:
		return m.mapNamed(tt)

	case *types.Basic:
		return primitive(basicType(tt))

	case *types.Slice:
		return m.mapList(tt.Elem())

	case *types.Array:
		return m.mapList(tt.Elem())

	case *types.Map:
		return primitive(domain.TypeObject)

	case *types.Struct:
		return primitive(domain.TypeObject)

	default:
		// interfaces, funcs and channels have no stable JSON shape.
		return primitive(domain.TypeString)
	}
}

func (m *TypeMapper) mapNamed(named *types.Named) Mapping {
	if model.IsDateTime(named) {
		return Mapping{Kind: KindDateTime, Type: domain.TypeString, Named: named}
	}

	if mapping, ok := extendedPrimitive(named); ok {
		return mapping
	}

	if m.classifier != nil {
		if m.classifier.IsSchema(named) {
			return Mapping{Kind: KindRef, Named: named}
		}
		if m.classifier.IsEnum(named) {
			return Mapping{Kind: KindEnum, Named: named, Type: m.MapUnderlying(named).Type}
		}
	}

	switch u := named.Underlying().(type) {
	case *types.Basic:
		return primitive(basicType(u))
	case *types.Slice:
		return m.mapList(u.Elem())
	case *types.Array:
		return m.mapList(u.Elem())
	case *types.Map:
		return primitive(domain.TypeObject)
	default:
		// undocumented struct and interface types
		return primitive(domain.TypeString)
	}
}

// MapUnderlying maps the underlying primitive of an enum type without cases.
func (m *TypeMapper) MapUnderlying(named *types.Named) Mapping {
	if b, ok := named.Underlying().(*types.Basic); ok {
		return primitive(basicType(b))
	}
	return primitive(domain.TypeString)
}

func (m *TypeMapper) mapList(elem types.Type) Mapping {
	if b, ok := elem.(*types.Basic); ok && b.Kind() == types.Byte {
		return Mapping{Kind: KindPrimitive, Type: domain.TypeString, Format: "byte", Example: DefaultExample(domain.TypeString)}
	}
	items := m.Map(elem)
	return Mapping{Kind: KindArray, Type: domain.TypeArray, Example: DefaultExample(domain.TypeArray), Items: &items}
}

func primitive(openAPIType string) Mapping {
	return Mapping{Kind: KindPrimitive, Type: openAPIType, Example: DefaultExample(openAPIType)}
}

func basicType(b *types.Basic) string {
	info := b.Info()
	switch {
	case info&types.IsBoolean != 0:
		return domain.TypeBoolean
	case info&types.IsInteger != 0:
		return domain.TypeInteger
	case info&types.IsFloat != 0:
		return domain.TypeNumber
	default:
		return domain.TypeString
	}
}

// extendedPrimitive covers well known library types with a string or number
// JSON form.
func extendedPrimitive(named *types.Named) (Mapping, bool) {
	obj := named.Obj()
	if obj.Pkg() == nil {
		return Mapping{}, false
	}
	pkg := obj.Pkg().Path()

	switch {
	case obj.Name() == "UUID" && (strings.HasSuffix(pkg, "/uuid") || strings.HasSuffix(pkg, "/types")):
		m := primitive(domain.TypeString)
		m.Format = "uuid"
		m.Example = "550e8400-e29b-41d4-a716-446655440000"
		return m, true
	case obj.Name() == "Decimal" && strings.HasSuffix(pkg, "/decimal"):
		return primitive(domain.TypeNumber), true
	case pkg == "encoding/json" && obj.Name() == "RawMessage":
		return primitive(domain.TypeObject), true
	case pkg == "time" && obj.Name() == "Duration":
		return primitive(domain.TypeInteger), true
	}
	return Mapping{}, false
}

// MapName maps a declared primitive type name. ok is false for names that
// need class resolution.
func MapName(name string) (openAPIType string, example any, ok bool) {
	switch strings.ToLower(name) {
	case "string", "str":
		openAPIType = domain.TypeString
	case "int", "integer", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64":
		openAPIType = domain.TypeInteger
	case "float", "double", "number", "float32", "float64":
		openAPIType = domain.TypeNumber
	case "bool", "boolean":
		openAPIType = domain.TypeBoolean
	case "array":
		openAPIType = domain.TypeArray
	case "object", "map":
		openAPIType = domain.TypeObject
	default:
		return "", nil, false
	}
	return openAPIType, DefaultExample(openAPIType), true
}

// DefaultExample returns the example documented for a bare OpenAPI type.
func DefaultExample(openAPIType string) any {
	switch openAPIType {
	case domain.TypeString:
		return "string"
	case domain.TypeInteger:
		return 123
	case domain.TypeNumber:
		return 123.45
	case domain.TypeBoolean:
		return true
	case domain.TypeArray:
		return []any{}
	default:
		return nil
	}
}
