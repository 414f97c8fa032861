package field

import (
	"reflect"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"
)

// TagInfo is what the struct tags of one field declare.
type TagInfo struct {
	JSONName   string
	Skip       bool
	OmitEmpty  bool
	Example    string
	HasExample bool

	Description string

	// DateTime holds the datetime:"type=...,format=..." override.
	DateTime    DateTimeTag
	HasDateTime bool

	// Validate holds the tokenized validate tag.
	Validate []string
}

// DateTimeTag is a property level date format override.
type DateTimeTag struct {
	Type   string
	Format string
}

// ParseTags reads the raw tag literal of a struct field, without backquotes.
func ParseTags(raw string) TagInfo {
	tag := reflect.StructTag(raw)
	info := TagInfo{}

	if jsonValue, ok := tag.Lookup(jsonTag); ok {
		parts := strings.Split(jsonValue, ",")
		if parts[0] == "-" && len(parts) == 1 {
			info.Skip = true
		} else {
			info.JSONName = parts[0]
		}
		for _, opt := range parts[1:] {
			if opt == omitEmptyLabel {
				info.OmitEmpty = true
			}
		}
	}

	info.Example, info.HasExample = tag.Lookup(exampleTag)
	info.Description = tag.Get(descriptionTag)

	if dt, ok := tag.Lookup(datetimeTag); ok {
		kv := KeyValues(dt, "format")
		info.DateTime = DateTimeTag{Type: kv["type"], Format: kv["format"]}
		info.HasDateTime = true
	}

	if v := tag.Get(validateTag); v != "" {
		info.Validate = ValidateTokens(v)
	}

	return info
}

// KeyValues parses "type=date,format=DD/MM/YYYY". Bare keys map to "".
// A single quoted value may contain commas. The unquoted value of a key
// listed in greedy runs to the end of s, so `format=MMM D, YYYY` keeps its
// comma when format comes last.
func KeyValues(s string, greedy ...string) map[string]string {
	out := map[string]string{}
	rest := s
	for {
		rest = strings.TrimLeft(rest, ", ")
		if rest == "" {
			return out
		}

		end := strings.IndexAny(rest, ",=")
		if end < 0 {
			out[strings.TrimSpace(rest)] = ""
			return out
		}
		if rest[end] == ',' {
			out[strings.TrimSpace(rest[:end])] = ""
			rest = rest[end:]
			continue
		}

		key := strings.TrimSpace(rest[:end])
		value := strings.TrimLeft(rest[end+1:], " ")
		switch {
		case strings.HasPrefix(value, "'"):
			closing := strings.IndexByte(value[1:], '\'')
			if closing < 0 {
				value, rest = value[1:], ""
			} else {
				value, rest = value[1:closing+1], value[closing+2:]
			}
			out[key] = value
			continue
		case slices.Contains(greedy, key):
			rest = ""
		default:
			if i := strings.IndexByte(value, ','); i >= 0 {
				value, rest = value[:i], value[i:]
			} else {
				rest = ""
			}
		}
		out[key] = strings.TrimSpace(value)
	}
}

// ValidateTokens splits a validate tag into rule tokens.
// `validate:"required,max=10,oneof=a b"` -> [required max=10 oneof=a b]
func ValidateTokens(validTag string) []string {
	var tokens []string
	for _, val := range strings.Split(validTag, ",") {
		val = strings.TrimSpace(val)
		if val == "" {
			continue
		}
		val = strings.ReplaceAll(strings.ReplaceAll(val, utf8HexComma, ","), utf8Pipe, "|")
		tokens = append(tokens, val)
	}
	return tokens
}

// HasRequired reports whether tokens contain the required rule.
func HasRequired(tokens []string) bool {
	for _, t := range tokens {
		if t == requiredLabel {
			return true
		}
	}
	return false
}

// ConvertExample converts a tag example to the given OpenAPI type. Values
// that do not parse stay strings.
func ConvertExample(value, openAPIType string) any {
	switch openAPIType {
	case "integer":
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	case "number":
		if n, err := strconv.ParseFloat(value, 64); err == nil {
			return n
		}
	case "boolean":
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	case "array":
		parts := strings.Split(value, ",")
		out := make([]any, 0, len(parts))
		for _, p := range parts {
			out = append(out, strings.TrimSpace(p))
		}
		return out
	}
	return value
}

// Cache for oneOf parameter parsing
var (
	oneofValsCache       = map[string][]string{}
	oneofValsCacheRWLock = sync.RWMutex{}
	splitParamsRegex     = regexp.MustCompile(`'[^']*'|\S+`)
)

// ParseOneOf parses the oneof validation parameter.
// Code copied from github.com/go-playground/validator
func ParseOneOf(param string) []string {
	oneofValsCacheRWLock.RLock()
	values, ok := oneofValsCache[param]
	oneofValsCacheRWLock.RUnlock()

	if !ok {
		oneofValsCacheRWLock.Lock()
		values = splitParamsRegex.FindAllString(param, -1)

		for i := 0; i < len(values); i++ {
			values[i] = strings.ReplaceAll(values[i], "'", "")
		}

		oneofValsCache[param] = values

		oneofValsCacheRWLock.Unlock()
	}

	return values
}
