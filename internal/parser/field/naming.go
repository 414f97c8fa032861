package field

import (
	"strings"
	"unicode"
)

// ToSnakeCase converts a name to snake_case
func ToSnakeCase(in string) string {
	var (
		runes  = []rune(in)
		length = len(runes)
		out    []rune
	)

	for idx := 0; idx < length; idx++ {
		if idx > 0 && unicode.IsUpper(runes[idx]) &&
			((idx+1 < length && unicode.IsLower(runes[idx+1])) || unicode.IsLower(runes[idx-1])) {
			out = append(out, '_')
		}

		out = append(out, unicode.ToLower(runes[idx]))
	}

	return string(out)
}

// ToLowerCamelCase converts a name to lowerCamelCase
func ToLowerCamelCase(in string) string {
	var flag bool

	out := make([]rune, len(in))

	runes := []rune(in)
	for i, curr := range runes {
		if (i == 0 && unicode.IsUpper(curr)) || (flag && unicode.IsUpper(curr)) {
			out[i] = unicode.ToLower(curr)
			flag = true

			continue
		}

		out[i] = curr
		flag = false
	}

	return string(out)
}

// ApplyNamingStrategy applies the specified naming strategy to a field name
func ApplyNamingStrategy(name string, strategy string) string {
	switch strategy {
	case SnakeCase:
		return ToSnakeCase(name)
	case PascalCase:
		return name
	default:
		return ToLowerCamelCase(name)
	}
}

// IsNamingStrategy reports whether s names a supported strategy.
func IsNamingStrategy(s string) bool {
	switch s {
	case CamelCase, SnakeCase, PascalCase:
		return true
	}
	return false
}

// BridgeName turns a serialized key into the camelCase form used to match
// it against struct property names: underscores are removed, the rune after
// each underscore is upper-cased and the first rune is lower-cased.
//
//	total_amount -> totalAmount
//	_id          -> id
//	a__b         -> aB
//	user_ID      -> userID
//	trailing_    -> trailing
func BridgeName(key string) string {
	var (
		b     strings.Builder
		upper bool
		first = true
	)

	for _, r := range key {
		if r == '_' {
			upper = true
			continue
		}

		switch {
		case first:
			r = unicode.ToLower(r)
		case upper:
			r = unicode.ToUpper(r)
		}

		b.WriteRune(r)
		upper = false
		first = false
	}

	return b.String()
}
