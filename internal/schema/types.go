package schema

import (
	"errors"
	"strings"

	"github.com/go-openapi/spec"
	"github.com/griffnb/core-apidoc/internal/domain"
)

const (
	// PRIMITIVE prefixes a primitive type in a type expression.
	PRIMITIVE = "primitive"
	// FUNC represent a function value.
	FUNC = "func"
)

// IsSimplePrimitiveType determines whether the type name is a simple primitive type.
func IsSimplePrimitiveType(typeName string) bool {
	switch typeName {
	case domain.TypeString, domain.TypeNumber, domain.TypeInteger, domain.TypeBoolean:
		return true
	}
	return false
}

// PrimitiveSchema builds a primitive schema.
func PrimitiveSchema(refType string) *spec.Schema {
	return &spec.Schema{SchemaProps: spec.SchemaProps{Type: []string{refType}}}
}

// ParseTypeExpr parses an override type expression such as "integer",
// "array,integer", "array,OrderDto" or "primitive,string". A name that is not
// a primitive becomes a component reference.
func ParseTypeExpr(expr string) (domain.PropertySchema, error) {
	var parts []string
	for _, p := range strings.Split(expr, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return buildCustomProperty(parts)
}

func buildCustomProperty(parts []string) (domain.PropertySchema, error) {
	if len(parts) == 0 {
		return domain.PropertySchema{}, errors.New("empty type expression")
	}

	switch parts[0] {
	case PRIMITIVE:
		if len(parts) == 1 {
			return domain.PropertySchema{}, errors.New("need primitive type after primitive")
		}
		if !IsSimplePrimitiveType(parts[1]) {
			return domain.PropertySchema{}, errors.New(parts[1] + " is not a primitive type")
		}
		return buildCustomProperty(parts[1:])
	case domain.TypeArray:
		if len(parts) == 1 {
			return domain.PropertySchema{}, errors.New("need array item type after array")
		}
		items, err := buildCustomProperty(parts[1:])
		if err != nil {
			return domain.PropertySchema{}, err
		}
		return domain.PropertySchema{Type: domain.TypeArray, Items: &items}, nil
	case FUNC:
		return domain.PropertySchema{}, errors.New("func is not a documentable type")
	default:
		if openAPIType, _, ok := MapName(parts[0]); ok {
			if len(parts) > 1 {
				return domain.PropertySchema{}, errors.New("unexpected type after " + parts[0])
			}
			return domain.PropertySchema{Type: openAPIType}, nil
		}
		if len(parts) > 1 {
			return domain.PropertySchema{}, errors.New(parts[0] + " is not a container type")
		}
		return domain.PropertySchema{Ref: parts[0]}, nil
	}
}
