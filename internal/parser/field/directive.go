package field

import (
	"fmt"
	"go/ast"
	"strconv"
	"strings"
)

// Directive is one `//apidoc:<name> args...` doc-comment line.
//
//	//apidoc:property formatted_total type=string example="$99.99"
type Directive struct {
	Name    string
	Args    []string
	Options map[string]string
}

// Option returns a named option value.
func (d Directive) Option(key string) (string, bool) {
	v, ok := d.Options[key]
	return v, ok
}

// HasFlag reports whether a bare word was given, e.g. `nullable` or `unbacked`.
func (d Directive) HasFlag(flag string) bool {
	for _, a := range d.Args {
		if a == flag {
			return true
		}
	}
	return false
}

// Directives collects the apidoc directives of the given comment groups in
// order. Go strips directive lines from CommentGroup.Text, so the raw
// comment list is read.
func Directives(groups ...*ast.CommentGroup) ([]Directive, error) {
	var out []Directive
	for _, cg := range groups {
		if cg == nil {
			continue
		}
		for _, c := range cg.List {
			d, ok, err := ParseDirective(c.Text)
			if err != nil {
				return nil, err
			}
			if ok {
				out = append(out, d)
			}
		}
	}
	return out, nil
}

// ParseDirective parses a single comment line. ok is false when the line is
// not an apidoc directive.
func ParseDirective(line string) (Directive, bool, error) {
	rest, found := strings.CutPrefix(strings.TrimSpace(line), DirectivePrefix)
	if !found {
		return Directive{}, false, nil
	}

	tokens, err := splitDirectiveArgs(rest)
	if err != nil {
		return Directive{}, false, fmt.Errorf("invalid directive %q: %w", line, err)
	}
	if len(tokens) == 0 {
		return Directive{}, false, fmt.Errorf("invalid directive %q: missing name", line)
	}

	d := Directive{Name: tokens[0], Options: map[string]string{}}
	for _, tok := range tokens[1:] {
		key, value, isOption := strings.Cut(tok, "=")
		if !isOption || strings.HasPrefix(tok, `"`) {
			d.Args = append(d.Args, unquote(tok))
			continue
		}
		d.Options[key] = unquote(value)
	}

	return d, true, nil
}

// splitDirectiveArgs splits on whitespace outside double quotes.
func splitDirectiveArgs(s string) ([]string, error) {
	var (
		tokens  []string
		current strings.Builder
		quoted  bool
		escaped bool
	)

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	for _, r := range s {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case quoted && r == '\\':
			current.WriteRune(r)
			escaped = true
		case r == '"':
			current.WriteRune(r)
			quoted = !quoted
		case !quoted && (r == ' ' || r == '\t'):
			flush()
		default:
			current.WriteRune(r)
		}
	}

	if quoted {
		return nil, fmt.Errorf("unterminated quote")
	}
	flush()

	return tokens, nil
}

func unquote(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		if u, err := strconv.Unquote(s); err == nil {
			return u
		}
		return s[1 : len(s)-1]
	}
	return s
}
