package request

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/go-openapi/spec"
	"github.com/griffnb/core-apidoc/internal/domain"
	"github.com/griffnb/core-apidoc/internal/schema"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Description is the description of every generated request body.
const Description = "Request body"

type typeFormat struct {
	Type   string
	Format string
}

// tokenTypes maps a rule token to the OpenAPI type it implies. The first
// rule of a field found here decides its type.
var tokenTypes = map[string]typeFormat{
	TokenString:    {domain.TypeString, ""},
	"alpha":        {domain.TypeString, ""},
	"alphanum":     {domain.TypeString, ""},
	"alphaunicode": {domain.TypeString, ""},
	"ascii":        {domain.TypeString, ""},
	"lowercase":    {domain.TypeString, ""},
	"uppercase":    {domain.TypeString, ""},
	"contains":     {domain.TypeString, ""},
	"startswith":   {domain.TypeString, ""},
	"endswith":     {domain.TypeString, ""},
	"hostname":     {domain.TypeString, "hostname"},
	"timezone":     {domain.TypeString, ""},
	"e164":         {domain.TypeString, ""},
	"ulid":         {domain.TypeString, ""},
	"email":        {domain.TypeString, "email"},
	"url":          {domain.TypeString, "uri"},
	"uri":          {domain.TypeString, "uri"},
	"uuid":         {domain.TypeString, "uuid"},
	"uuid4":        {domain.TypeString, "uuid"},
	"uuid5":        {domain.TypeString, "uuid"},
	"ip":           {domain.TypeString, ""},
	"ipv4":         {domain.TypeString, "ipv4"},
	"ipv6":         {domain.TypeString, "ipv6"},
	"base64":       {domain.TypeString, "byte"},
	"date":         {domain.TypeString, "date"},
	TokenDateTime:  {domain.TypeString, "date-time"},
	TokenInteger:   {domain.TypeInteger, ""},
	"int":          {domain.TypeInteger, ""},
	"digits":       {domain.TypeInteger, ""},
	TokenNumber:    {domain.TypeNumber, ""},
	"numeric":      {domain.TypeNumber, ""},
	"float":        {domain.TypeNumber, ""},
	"decimal":      {domain.TypeNumber, ""},
	TokenBoolean:   {domain.TypeBoolean, ""},
	"bool":         {domain.TypeBoolean, ""},
	"accepted":     {domain.TypeBoolean, ""},
	TokenArray:     {domain.TypeArray, ""},
	TokenObject:    {domain.TypeObject, ""},
	"json":         {domain.TypeObject, ""},
}

// Build renders the object schema of a request body. Fields with the
// required rule are listed as required, in field order.
func Build(fields []FieldRules) *spec.Schema {
	out := &spec.Schema{
		SchemaProps: spec.SchemaProps{
			Type:       []string{domain.TypeObject},
			Properties: spec.SchemaProperties{},
		},
	}

	for _, f := range fields {
		schema.AddProperty(out, f.Name, property(f))
		if hasToken(f.Rules, "required") {
			out.Required = append(out.Required, f.Name)
		}
	}

	return out
}

func property(f FieldRules) spec.Schema {
	description := "The " + Title(f.Name)
	nullable := hasToken(f.Rules, TokenNullable)

	// $ref siblings are ignored in OpenAPI 3.0.
	if f.Ref != "" {
		return spec.Schema{SchemaProps: spec.SchemaProps{
			AllOf:       []spec.Schema{*schema.RefSchema(f.Ref)},
			Description: description,
			Nullable:    nullable,
		}}
	}

	out := fromRules(f.Rules)
	out.Description = description
	out.Nullable = nullable

	if len(out.Type) > 0 && out.Type[0] == domain.TypeArray {
		var items spec.Schema
		switch {
		case f.ItemsRef != "":
			items = *schema.RefSchema(f.ItemsRef)
		case len(f.Items) > 0:
			items = fromRules(f.Items)
		}
		if len(items.Type) == 0 && items.Ref.String() == "" {
			items = *schema.PrimitiveSchema(domain.TypeString)
		}
		out.Items = &spec.SchemaOrArray{Schema: &items}
	}

	return out
}

// fromRules applies the type table and the constraint rules.
func fromRules(rules []string) spec.Schema {
	var out spec.Schema
	for _, rule := range rules {
		base, _, _ := strings.Cut(rule, "=")
		if tf, ok := tokenTypes[base]; ok {
			out.Type = []string{tf.Type}
			out.Format = tf.Format
			break
		}
	}

	typ := ""
	if len(out.Type) > 0 {
		typ = out.Type[0]
	}

	for _, rule := range rules {
		base, arg, ok := strings.Cut(rule, "=")
		if !ok {
			continue
		}
		switch base {
		case "oneof":
			for _, v := range strings.Fields(arg) {
				out.Enum = append(out.Enum, enumValue(strings.Trim(v, "'"), typ))
			}
		case "min", "gte":
			bound(&out, typ, arg, true, false)
		case "max", "lte":
			bound(&out, typ, arg, false, false)
		case "gt":
			bound(&out, typ, arg, true, true)
		case "lt":
			bound(&out, typ, arg, false, true)
		case "len":
			bound(&out, typ, arg, true, false)
			bound(&out, typ, arg, false, false)
		}
	}

	return out
}

// bound sets a length, item count or value limit depending on the type.
func bound(s *spec.Schema, typ, arg string, lower, exclusive bool) {
	switch typ {
	case domain.TypeInteger, domain.TypeNumber:
		f, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return
		}
		if lower {
			s.WithMinimum(f, exclusive)
		} else {
			s.WithMaximum(f, exclusive)
		}
	case domain.TypeString, domain.TypeArray:
		n, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return
		}
		if exclusive {
			if lower {
				n++
			} else {
				n--
			}
		}
		switch {
		case typ == domain.TypeString && lower:
			s.WithMinLength(n)
		case typ == domain.TypeString:
			s.WithMaxLength(n)
		case lower:
			s.WithMinItems(n)
		default:
			s.WithMaxItems(n)
		}
	}
}

func enumValue(v, typ string) any {
	switch typ {
	case domain.TypeInteger:
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	case domain.TypeNumber:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return v
}

func hasToken(rules []string, token string) bool {
	for _, r := range rules {
		if r == token {
			return true
		}
	}
	return false
}

// Title turns a property name into title cased words:
// "first_name" and "firstName" both become "First Name".
func Title(name string) string {
	var words []string
	var current []rune
	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
	}

	runes := []rune(name)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || r == ' ' || r == '.':
			flush()
			continue
		case unicode.IsUpper(r) && i > 0 && unicode.IsLower(runes[i-1]):
			flush()
		}
		current = append(current, r)
	}
	flush()

	return cases.Title(language.English).String(strings.Join(words, " "))
}
