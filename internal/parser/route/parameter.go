package route

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/griffnb/core-apidoc/internal/parser/route/domain"
)

var (
	paramPattern = regexp.MustCompile(`^(\S+)\s+(\w+)\s+(\S+)\s+(\w+)\s+"([^"]*)"`)
	attrPattern  = regexp.MustCompile(`(\w+)\(([^)]+)\)`)
)

var paramLocations = map[string]bool{"path": true, "query": true, "header": true}

// parseParam parses the @param annotation.
// Format: @param name in type required "description" [Attribute(value)]...
// Example: @param id path int true "User ID" Minimum(1)
// Request bodies are declared with @request instead.
func (s *Service) parseParam(op *operation, line string) error {
	matches := paramPattern.FindStringSubmatch(line)
	if len(matches) != 6 {
		return fmt.Errorf("invalid param format: %s", line)
	}

	name := matches[1]
	in := strings.ToLower(matches[2])
	dataType := matches[3]
	requiredStr := strings.ToLower(matches[4])

	if !paramLocations[in] {
		return fmt.Errorf("param %s: unsupported location %q", name, matches[2])
	}

	isArray := strings.HasPrefix(dataType, "[]")
	if isArray {
		dataType = strings.TrimPrefix(dataType, "[]")
	}
	schemaType, format := convertType(dataType)

	param := domain.Parameter{
		Name:        name,
		In:          in,
		Required:    requiredStr == "true" || requiredStr == "required" || in == "path",
		Description: matches[5],
		Format:      format,
	}

	if rest := line[len(matches[0]):]; strings.TrimSpace(rest) != "" {
		parseParamAttributes(&param, rest)
	}

	if isArray {
		param.Type = "array"
		param.Items = &domain.Items{Type: schemaType, Format: param.Format}
		param.Format = ""
	} else {
		param.Type = schemaType
	}

	op.parameters = append(op.parameters, param)
	return nil
}

// parseParamAttributes applies modifiers like Format(uuid), Enums(a,b) or Minimum(1).
// Unknown attributes are ignored.
func parseParamAttributes(param *domain.Parameter, attrs string) {
	for _, match := range attrPattern.FindAllStringSubmatch(attrs, -1) {
		value := strings.TrimSpace(match[2])

		switch strings.ToLower(match[1]) {
		case "format":
			param.Format = value
		case "enums", "enum":
			var enums []interface{}
			for _, e := range strings.Split(value, ",") {
				enums = append(enums, literal(strings.TrimSpace(e)))
			}
			param.Enum = enums
		case "minimum", "min":
			param.Minimum = parseNumber(value)
		case "maximum", "max":
			param.Maximum = parseNumber(value)
		case "minlength":
			param.MinLength = parseNumber(value)
		case "maxlength":
			param.MaxLength = parseNumber(value)
		case "default":
			param.Default = literal(value)
		}
	}
}

// literal reads an attribute value as a number, boolean or unquoted string.
func literal(s string) interface{} {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	switch s {
	case "true":
		return true
	case "false":
		return false
	}
	return strings.Trim(s, "\"'")
}

func parseNumber(s string) *float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

// convertType maps a Go type name to an OpenAPI type and format.
// Unknown names are documented as strings.
func convertType(goType string) (schemaType string, format string) {
	switch goType {
	case "int", "int8", "int16", "int32", "uint", "uint8", "uint16", "uint32", "integer":
		return "integer", ""
	case "int64", "uint64":
		return "integer", "int64"
	case "float32":
		return "number", "float"
	case "float64", "number":
		return "number", "double"
	case "bool", "boolean":
		return "boolean", ""
	case "uuid", "UUID":
		return "string", "uuid"
	case "time.Time", "datetime":
		return "string", "date-time"
	default:
		return "string", ""
	}
}
