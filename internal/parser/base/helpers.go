package base

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/griffnb/core-apidoc/internal/domain"
)

var securityPairSepPattern = regexp.MustCompile(`\|\||&&`)

// isGeneralAPIComment checks if comments contain general API info
func isGeneralAPIComment(comments []string) bool {
	for _, commentLine := range comments {
		commentLine = strings.TrimSpace(commentLine)
		if len(commentLine) == 0 {
			continue
		}
		attribute := strings.ToLower(fieldsByAnySpace(commentLine, 2)[0])
		switch attribute {
		case "@summary", "@router", "@success", "@request", "@param":
			return false
		}
	}
	return true
}

// fieldsByAnySpace splits s around runs of white space into at most n fields.
// The last field keeps the remainder of the line.
func fieldsByAnySpace(s string, n int) []string {
	s = strings.TrimSpace(s)
	var fields []string
	for len(fields) < n-1 {
		i := strings.IndexFunc(s, unicode.IsSpace)
		if i < 0 {
			break
		}
		fields = append(fields, s[:i])
		s = strings.TrimLeftFunc(s[i:], unicode.IsSpace)
	}
	if s != "" || len(fields) == 0 {
		fields = append(fields, s)
	}
	return fields
}

func appendDescription(description, line string) string {
	if description == "" {
		return line
	}
	return description + "\n" + line
}

// parseServer reads "@server https://api.example.com Production".
func parseServer(value string) domain.Server {
	fields := fieldsByAnySpace(value, 2)
	srv := domain.Server{URL: fields[0]}
	if len(fields) > 1 {
		srv.Description = fields[1]
	}
	return srv
}

// parseSecurity parses security requirements from comment line
func parseSecurity(commentLine string) domain.SecurityRequirement {
	securityMap := make(domain.SecurityRequirement)

	for _, securityOption := range securityPairSepPattern.Split(commentLine, -1) {
		securityOption = strings.TrimSpace(securityOption)

		left, right := strings.Index(securityOption, "["), strings.Index(securityOption, "]")

		if left != -1 && right > left {
			options := []string{}
			for _, scope := range strings.Split(securityOption[left+1:right], ",") {
				if scope = strings.TrimSpace(scope); scope != "" {
					options = append(options, scope)
				}
			}
			securityKey := strings.TrimSpace(securityOption[:left])
			securityMap[securityKey] = append(securityMap[securityKey], options...)
		} else {
			securityMap[securityOption] = []string{}
		}
	}

	return securityMap
}
