// Package datetime resolves the documented format and example of date-time
// properties.
//
// Patterns use moment style tokens (YYYY-MM-DD HH:mm:ss). Text inside square
// brackets is literal. Go reference layouts such as 2006-01-02 are accepted
// as well.
package datetime

import (
	"fmt"
	"strings"
	"time"

	"github.com/nleeper/goment"
)

// OpenAPI string formats.
const (
	FormatDate     = "date"
	FormatTime     = "time"
	FormatDateTime = "date-time"
)

// ReferenceInstant is rendered through every pattern to build examples.
var ReferenceInstant = time.Date(2024, time.January, 15, 14, 30, 0, 0, time.UTC)

// FallbackExample is used when a pattern cannot be rendered.
const FallbackExample = "2024-01-15T14:30:00"

type tokenClass int

const (
	classNone tokenClass = iota
	classDate
	classTime
	classInstant
)

type token struct {
	text  string
	class tokenClass
}

// tokens lists the accepted moment tokens, longest first within each
// leading letter. Rendering is left to goment.
var tokens = []token{
	{"YYYY", classDate},
	{"YY", classDate},
	{"MMMM", classDate},
	{"MMM", classDate},
	{"MM", classDate},
	{"M", classDate},
	{"DDDD", classDate},
	{"DD", classDate},
	{"Do", classDate},
	{"D", classDate},
	{"dddd", classDate},
	{"ddd", classDate},
	{"dd", classDate},
	{"HH", classTime},
	{"H", classTime},
	{"hh", classTime},
	{"h", classTime},
	{"kk", classTime},
	{"k", classTime},
	{"mm", classTime},
	{"m", classTime},
	{"ss", classTime},
	{"s", classTime},
	{"SSS", classTime},
	{"A", classTime},
	{"a", classTime},
	{"X", classInstant},
	{"x", classInstant},
	{"ZZ", classNone},
	{"Z", classNone},
}

// Pattern is a parsed literal date format.
type Pattern struct {
	raw     string
	goStyle bool
	hasDate bool
	hasTime bool
}

// Parse classifies the tokens of a pattern. Unknown letters outside
// brackets are an error.
func Parse(raw string) (*Pattern, error) {
	p := &Pattern{raw: raw}

	if isGoLayout(raw) {
		p.goStyle = true
		p.hasDate, p.hasTime = classifyGoLayout(raw)
		return p, nil
	}

	for i := 0; i < len(raw); {
		c := raw[i]

		if c == '[' {
			end := strings.IndexByte(raw[i:], ']')
			if end < 0 {
				return nil, fmt.Errorf("unterminated literal in %q", raw)
			}
			i += end + 1
			continue
		}

		if !isLetter(c) {
			i++
			continue
		}

		tok := matchToken(raw[i:])
		if tok == nil {
			return nil, fmt.Errorf("unknown token %q in %q", string(c), raw)
		}
		switch tok.class {
		case classDate:
			p.hasDate = true
		case classTime:
			p.hasTime = true
		case classInstant:
			p.hasDate, p.hasTime = true, true
		}
		i += len(tok.text)
	}

	return p, nil
}

func matchToken(s string) *token {
	for i := range tokens {
		if strings.HasPrefix(s, tokens[i].text) {
			return &tokens[i]
		}
	}
	return nil
}

// OpenAPIFormat infers the string format from the token classes.
func (p *Pattern) OpenAPIFormat() string {
	switch {
	case p.hasDate && !p.hasTime:
		return FormatDate
	case p.hasTime && !p.hasDate:
		return FormatTime
	default:
		return FormatDateTime
	}
}

// Render formats t with the pattern.
func (p *Pattern) Render(t time.Time) (string, error) {
	if p.goStyle {
		return t.Format(p.raw), nil
	}

	g, err := goment.New(t)
	if err != nil {
		return "", fmt.Errorf("cannot render %q: %w", p.raw, err)
	}
	return g.Format(p.raw), nil
}

// Example renders the reference instant, falling back to FallbackExample.
func Example(raw string) string {
	p, err := Parse(raw)
	if err != nil {
		return FallbackExample
	}
	s, err := p.Render(ReferenceInstant)
	if err != nil {
		return FallbackExample
	}
	return s
}

// InferFormat returns the OpenAPI format implied by a literal pattern.
func InferFormat(raw string) string {
	p, err := Parse(raw)
	if err != nil {
		return FormatDateTime
	}
	return p.OpenAPIFormat()
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isGoLayout(raw string) bool {
	return strings.Contains(raw, "2006") || strings.Contains(raw, "15:04") || strings.Contains(raw, "03:04")
}

func classifyGoLayout(raw string) (hasDate, hasTime bool) {
	for _, t := range []string{"2006", "Jan", "Mon", "01", "02", "_2"} {
		if strings.Contains(raw, t) {
			hasDate = true
			break
		}
	}
	for _, t := range []string{"15", "03", "04", "05", "PM", "pm"} {
		if strings.Contains(raw, t) {
			hasTime = true
			break
		}
	}
	return hasDate, hasTime
}
