package base

import (
	"fmt"
	"strings"

	"github.com/griffnb/core-apidoc/internal/domain"
)

func (s *Service) parseSecurityDefinition(context string, lines []string, index *int) (*domain.SecurityScheme, error) {
	const (
		in               = "@in"
		name             = "@name"
		descriptionAttr  = "@description"
		bearerFormat     = "@bearerformat"
		tokenURL         = "@tokenurl"
		authorizationURL = "@authorizationurl"
	)

	var search, optional []string

	attribute := strings.ToLower(fieldsByAnySpace(lines[*index], 2)[0])
	switch attribute {
	case "@securitydefinitions.bearer":
		optional = []string{bearerFormat}
	case "@securitydefinitions.apikey":
		search = []string{in, name}
	case "@securitydefinitions.oauth2.application", "@securitydefinitions.oauth2.password":
		search = []string{tokenURL}
	case "@securitydefinitions.oauth2.implicit":
		search = []string{authorizationURL}
	case "@securitydefinitions.oauth2.accesscode":
		search = []string{tokenURL, authorizationURL}
	}

	// For the first line we get the attributes in the context parameter, so we skip to the next one
	*index++

	attrMap, scopes := make(map[string]string), make(map[string]string)
	description := ""

loopline:
	for ; *index < len(lines); *index++ {
		v := strings.TrimSpace(lines[*index])
		if len(v) == 0 {
			continue
		}

		fields := fieldsByAnySpace(v, 2)
		securityAttr := strings.ToLower(fields[0])
		var value string
		if len(fields) > 1 {
			value = fields[1]
		}

		for _, findterm := range append(search, optional...) {
			if securityAttr == findterm {
				attrMap[securityAttr] = value
				continue loopline
			}
		}

		if isExists, err := isExistsScope(securityAttr); err != nil {
			return nil, err
		} else if isExists {
			scopes[securityAttr[len("@scope."):]] = value
			continue
		}

		if securityAttr == descriptionAttr {
			description = appendDescription(description, value)
			continue
		}

		// Anything else belongs to the next block.
		*index--
		break
	}

	for _, required := range search {
		if _, ok := attrMap[required]; !ok {
			return nil, fmt.Errorf("%s is %v required", context, search)
		}
	}

	scheme := &domain.SecurityScheme{Description: description}

	switch attribute {
	case "@securitydefinitions.basic":
		scheme.Type = domain.SecurityHTTP
		scheme.Scheme = "basic"
	case "@securitydefinitions.bearer":
		scheme.Type = domain.SecurityHTTP
		scheme.Scheme = "bearer"
		scheme.BearerFormat = attrMap[bearerFormat]
	case "@securitydefinitions.apikey":
		scheme.Type = domain.SecurityAPIKey
		scheme.Name = attrMap[name]
		scheme.In = strings.ToLower(attrMap[in])
	case "@securitydefinitions.oauth2.application":
		scheme.Type = domain.SecurityOAuth2
		scheme.Flows = &domain.OAuthFlows{ClientCredentials: &domain.OAuthFlow{TokenURL: attrMap[tokenURL], Scopes: scopes}}
	case "@securitydefinitions.oauth2.implicit":
		scheme.Type = domain.SecurityOAuth2
		scheme.Flows = &domain.OAuthFlows{Implicit: &domain.OAuthFlow{AuthorizationURL: attrMap[authorizationURL], Scopes: scopes}}
	case "@securitydefinitions.oauth2.password":
		scheme.Type = domain.SecurityOAuth2
		scheme.Flows = &domain.OAuthFlows{Password: &domain.OAuthFlow{TokenURL: attrMap[tokenURL], Scopes: scopes}}
	case "@securitydefinitions.oauth2.accesscode":
		scheme.Type = domain.SecurityOAuth2
		scheme.Flows = &domain.OAuthFlows{AuthorizationCode: &domain.OAuthFlow{
			AuthorizationURL: attrMap[authorizationURL],
			TokenURL:         attrMap[tokenURL],
			Scopes:           scopes,
		}}
	}

	return scheme, nil
}

func isExistsScope(scope string) (bool, error) {
	s := strings.Fields(scope)
	for _, v := range s {
		if strings.HasPrefix(v, "@scope.") {
			if strings.Contains(v, ",") {
				return false, fmt.Errorf("@scope can't use comma(,) get=%s", v)
			}
		}
	}

	return strings.HasPrefix(scope, "@scope."), nil
}
