package route

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/griffnb/core-apidoc/internal/parser/route/domain"
)

// operation represents a parsed operation (before being split into routes)
type operation struct {
	functionName string
	controller   string
	packageName  string // Package name for type resolution
	filePath     string
	lineNumber   int
	summary      string
	description  string
	tags         []string
	operationID  string
	routerPaths  []routerPath
	parameters   []domain.Parameter
	success      domain.Success
	hasSuccess   bool
	envelope     string
	request      string
	errors       domain.ErrorFilter
	deprecated   bool
}

// routerPath represents a single @router annotation
type routerPath struct {
	path       string
	method     string
	deprecated bool
}

var (
	routerPattern   = regexp.MustCompile(`^(/[\w./\-{}\(\)+:$~]*)[[:blank:]]+\[(\w+)]`)
	successPattern  = regexp.MustCompile(`^(\w+)(?:\s+([\w./\[\]]+))?(?:\s+"([^"]*)")?\s*$`)
	typeNamePattern =regexp.MustCompile(`^[A-Za-z_][\w]*(\.[A-Za-z_][\w]*)?$`)
)

var successKinds = map[string]bool{
	domain.KindSingle:     true,
	domain.KindCollection: true,
	domain.KindPaginated:  true,
	domain.KindCreated:    true,
	domain.KindUpdated:    true,
	domain.KindEmpty:      true,
}

// parseComment parses a single comment line and updates the operation
func (s *Service) parseComment(op *operation, comment string) error {
	// Comments from AST come as "// text" or "/* text */"
	commentLine := strings.TrimSpace(comment)

	// Remove comment markers
	if strings.HasPrefix(commentLine, "//") {
		commentLine = strings.TrimSpace(commentLine[2:])
	} else if strings.HasPrefix(commentLine, "/*") {
		commentLine = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(commentLine, "/*"), "*/"))
	}

	if len(commentLine) == 0 {
		return nil
	}

	// Split into fields
	allFields := strings.Fields(commentLine)
	if len(allFields) == 0 {
		return nil
	}

	attribute := strings.ToLower(allFields[0])
	var lineRemainder string
	if len(allFields) > 1 {
		lineRemainder = strings.Join(allFields[1:], " ")
	}

	switch attribute {
	case "@summary":
		op.summary = lineRemainder
	case "@description":
		if op.description == "" {
			op.description = lineRemainder
		} else {
			op.description += "\n" + lineRemainder
		}
	case "@id":
		op.operationID = lineRemainder
	case "@tags":
		op.tags = parseTags(lineRemainder)
	case "@param":
		return s.parseParam(op, lineRemainder)
	case "@success":
		return parseSuccess(op, lineRemainder)
	case "@request":
		return parseRequest(op, lineRemainder)
	case "@envelope":
		if !typeNamePattern.MatchString(lineRemainder) {
			return fmt.Errorf("invalid envelope schema %q", lineRemainder)
		}
		op.envelope = lineRemainder
	case "@errors":
		return parseErrors(op, lineRemainder)
	case "@router":
		return s.parseRouter(op, lineRemainder, false)
	case "@deprecatedrouter":
		return s.parseRouter(op, lineRemainder, true)
	case "@deprecated":
		op.deprecated = true
	}

	return nil
}

// parseTags parses a comma-separated list of tags
func parseTags(line string) []string {
	var tags []string
	for _, tag := range strings.Split(line, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// parseRouter parses the @router or @deprecatedrouter annotation
func (s *Service) parseRouter(op *operation, line string, deprecated bool) error {
	matches := routerPattern.FindStringSubmatch(line)
	if len(matches) != 3 {
		return fmt.Errorf("can not parse router comment \"%s\"", line)
	}

	path := matches[1]
	method := strings.ToUpper(matches[2])

	// Validate HTTP method
	validMethods := map[string]bool{
		"GET": true, "POST": true, "PUT": true, "DELETE": true,
		"PATCH": true, "HEAD": true, "OPTIONS": true,
	}
	if !validMethods[method] {
		return fmt.Errorf("invalid HTTP method: %s", method)
	}

	op.routerPaths = append(op.routerPaths, routerPath{
		path:       path,
		method:     method,
		deprecated: deprecated,
	})

	return nil
}

// parseSuccess parses `@success <kind> [Type] ["description"]`.
// A collection of T may also be written `[]T` with kind single.
func parseSuccess(op *operation, line string) error {
	matches := successPattern.FindStringSubmatch(line)
	if matches == nil {
		return fmt.Errorf("invalid success format: %s", line)
	}

	kind := strings.ToLower(matches[1])
	if !successKinds[kind] {
		return fmt.Errorf("unknown response kind %q", matches[1])
	}

	typeName := matches[2]
	if strings.HasPrefix(typeName, "[]") {
		typeName = strings.TrimPrefix(typeName, "[]")
		if kind == domain.KindSingle {
			kind = domain.KindCollection
		}
	}
	if typeName != "" && !typeNamePattern.MatchString(typeName) {
		return fmt.Errorf("invalid response type %q", matches[2])
	}
	if kind == domain.KindEmpty && typeName != "" {
		return fmt.Errorf("empty response cannot have type %s", typeName)
	}

	op.success = domain.Success{Kind: kind, Type: typeName, Description: matches[3]}
	op.hasSuccess = true
	return nil
}

// parseRequest parses `@request <Type>`.
func parseRequest(op *operation, line string) error {
	if !typeNamePattern.MatchString(line) {
		return fmt.Errorf("invalid request type %q", line)
	}
	op.request = line
	return nil
}

// parseErrors parses `@errors only=401,404` or `@errors except=429`.
func parseErrors(op *operation, line string) error {
	for _, part := range strings.Fields(line) {
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			return fmt.Errorf("invalid errors option %q", part)
		}

		codes, err := parseStatusCodes(value)
		if err != nil {
			return err
		}

		switch strings.ToLower(key) {
		case "only":
			op.errors.Only = codes
		case "except":
			op.errors.Except = codes
		default:
			return fmt.Errorf("unknown errors option %q", key)
		}
	}
	return nil
}

func parseStatusCodes(s string) ([]int, error) {
	var codes []int
	for _, codeStr := range strings.Split(s, ",") {
		codeStr = strings.TrimSpace(codeStr)
		if codeStr == "" {
			continue
		}
		code, err := strconv.Atoi(codeStr)
		if err != nil || code < 100 || code > 599 {
			return nil, fmt.Errorf("invalid status code: %s", codeStr)
		}
		codes = append(codes, code)
	}
	return codes, nil
}
