// Package request derives request body schemas from the validation rules
// declared on request structs.
package request

import (
	"go/types"

	"github.com/griffnb/core-apidoc/internal/model"
)

// Go kind tokens prepended to the validate tag tokens of each field.
const (
	TokenString   = "string"
	TokenInteger  = "integer"
	TokenNumber   = "number"
	TokenBoolean  = "boolean"
	TokenArray    = "array"
	TokenObject   = "object"
	TokenDateTime = "datetime"
	TokenNullable = "nullable"

	diveToken = "dive"
)

// RefNamer names the component schema of documented types, such as enums.
type RefNamer interface {
	RefName(t types.Type) (string, bool)
}

// FieldRules are the rule tokens of one request field.
type FieldRules struct {
	Name string

	// Rules holds the Go kind tokens followed by the validate tokens
	// up to dive.
	Rules []string

	// Items holds the element kind tokens followed by the validate tokens
	// after dive. It is empty for non array fields.
	Items []string

	// Ref and ItemsRef name the component of a documented field or element type.
	Ref      string
	ItemsRef string
}

// RulesFor returns the rule tokens of every serialized field of a request
// struct, in declaration order. refs may be nil.
func RulesFor(named *types.Named, strategy string, refs RefNamer) ([]FieldRules, error) {
	fields, err := model.StructFields(named, strategy)
	if err != nil {
		return nil, err
	}

	out := make([]FieldRules, 0, len(fields))
	for _, f := range fields {
		own, dive := splitDive(f.Tags.Validate)

		fr := FieldRules{Name: f.Name}
		fr.Rules = append(kindTokens(f.Type), own...)
		fr.Ref = refName(refs, f.Type)

		if elem, ok := elemType(f.Type); ok {
			fr.Items = append(kindTokens(elem), dive...)
			fr.ItemsRef = refName(refs, elem)
		}

		out = append(out, fr)
	}
	return out, nil
}

func splitDive(tokens []string) (own, dive []string) {
	for i, t := range tokens {
		if t == diveToken {
			return tokens[:i], tokens[i+1:]
		}
	}
	return tokens, nil
}

func refName(refs RefNamer, t types.Type) string {
	if refs == nil {
		return ""
	}
	if ptr, ok := t.(*types.Pointer); ok {
		t = ptr.Elem()
	}
	name, _ := refs.RefName(t)
	return name
}

func elemType(t types.Type) (types.Type, bool) {
	if ptr, ok := t.(*types.Pointer); ok {
		t = ptr.Elem()
	}
	switch u := t.Underlying().(type) {
	case *types.Slice:
		if isByte(u.Elem()) {
			return nil, false
		}
		return u.Elem(), true
	case *types.Array:
		return u.Elem(), true
	}
	return nil, false
}

func isByte(t types.Type) bool {
	b, ok := t.(*types.Basic)
	return ok && b.Kind() == types.Byte
}

func kindTokens(t types.Type) []string {
	var tokens []string
	if ptr, ok := t.(*types.Pointer); ok {
		tokens = append(tokens, TokenNullable)
		t = ptr.Elem()
	}

	if model.IsDateTime(t) {
		return append(tokens, TokenDateTime)
	}

	switch u := t.Underlying().(type) {
	case *types.Basic:
		switch {
		case u.Info()&types.IsBoolean != 0:
			tokens = append(tokens, TokenBoolean)
		case u.Info()&types.IsInteger != 0:
			tokens = append(tokens, TokenInteger)
		case u.Info()&types.IsFloat != 0:
			tokens = append(tokens, TokenNumber)
		case u.Info()&types.IsString != 0:
			tokens = append(tokens, TokenString)
		}
	case *types.Slice:
		if isByte(u.Elem()) {
			tokens = append(tokens, TokenString)
		} else {
			tokens = append(tokens, TokenArray)
		}
	case *types.Array:
		tokens = append(tokens, TokenArray)
	case *types.Map, *types.Struct:
		tokens = append(tokens, TokenObject)
	}
	return tokens
}
