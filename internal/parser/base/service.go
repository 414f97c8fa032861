// Package base parses the general API information (@title, @version,
// @description, @server, tags and security schemes) from the comments of
// the main API file.
package base

import (
	"fmt"
	"go/parser"
	"go/token"
	"strings"

	"github.com/griffnb/core-apidoc/internal/config"
	"github.com/griffnb/core-apidoc/internal/domain"
)

// Debugger interface for logging
type Debugger interface {
	Printf(format string, v ...interface{})
}

type noOpDebugger struct{}

func (noOpDebugger) Printf(string, ...interface{}) {}

// Service handles parsing of general API information from comments
type Service struct {
	doc             *domain.Document
	markdownFileDir string
	debug           Debugger
}

// NewService creates a new base parser service writing into doc.
func NewService(doc *domain.Document) *Service {
	return &Service{
		doc:   doc,
		debug: noOpDebugger{},
	}
}

// SetMarkdownFileDir sets the directory for markdown files
func (s *Service) SetMarkdownFileDir(dir string) {
	s.markdownFileDir = dir
}

// SetDebugger sets the debugger for logging
func (s *Service) SetDebugger(debug Debugger) {
	if debug != nil {
		s.debug = debug
	}
}

// ParseGeneralInfo parses general API info from comment lines
func (s *Service) ParseGeneralInfo(comments []string) error {
	previousAttribute := ""
	var tag *domain.Tag

	for line := 0; line < len(comments); line++ {
		commentLine := strings.TrimSpace(comments[line])
		if len(commentLine) == 0 {
			continue
		}
		fields := fieldsByAnySpace(commentLine, 2)

		attribute := fields[0]
		var value string
		if len(fields) > 1 {
			value = fields[1]
		}

		switch attr := strings.ToLower(attribute); attr {
		case "@version", "@title", "@termsofservice", "@license.name", "@license.url",
			"@contact.name", "@contact.url", "@contact.email":
			s.setInfo(attr, value)

		case "@description":
			if previousAttribute == attribute {
				s.doc.Info.Description = appendDescription(s.doc.Info.Description, value)
				continue
			}
			s.setInfo(attr, value)

		case "@description.markdown":
			commentInfo, err := s.getMarkdownForTag("api")
			if err != nil {
				return err
			}
			s.setInfo("@description", string(commentInfo))

		case "@server":
			s.doc.Servers = append(s.doc.Servers, parseServer(value))

		case "@tag.name":
			s.doc.Tags = append(s.doc.Tags, domain.Tag{Name: value})
			tag = &s.doc.Tags[len(s.doc.Tags)-1]

		case "@tag.description":
			if tag != nil {
				tag.Description = value
			}

		case "@tag.description.markdown":
			if tag != nil {
				commentInfo, err := s.getMarkdownForTag(tag.Name)
				if err != nil {
					return err
				}
				tag.Description = string(commentInfo)
			}

		case "@tag.docs.url":
			if tag != nil {
				tag.ExternalDocs = &domain.ExternalDocs{URL: value}
			}

		case "@tag.docs.description":
			if tag != nil {
				if tag.ExternalDocs == nil {
					return fmt.Errorf("%s needs to come after a @tag.docs.url", attribute)
				}
				tag.ExternalDocs.Description = value
			}

		case "@securitydefinitions.basic", "@securitydefinitions.bearer", "@securitydefinitions.apikey",
			"@securitydefinitions.oauth2.application", "@securitydefinitions.oauth2.implicit",
			"@securitydefinitions.oauth2.password", "@securitydefinitions.oauth2.accesscode":
			if value == "" {
				return fmt.Errorf("%s needs a scheme name", attribute)
			}
			scheme, err := s.parseSecurityDefinition(attribute, comments, &line)
			if err != nil {
				return err
			}
			s.doc.Components.SecuritySchemes[value] = scheme

		case "@security":
			s.doc.Security = append(s.doc.Security, parseSecurity(value))

		case "@externaldocs.description", "@externaldocs.url":
			if s.doc.ExternalDocs == nil {
				s.doc.ExternalDocs = new(domain.ExternalDocs)
			}
			switch attr {
			case "@externaldocs.description":
				s.doc.ExternalDocs.Description = value
			case "@externaldocs.url":
				s.doc.ExternalDocs.URL = value
			}

		default:
			if strings.HasPrefix(attr, "@x-") {
				if err := s.parseExtension(attribute, value); err != nil {
					return err
				}
			}
		}

		previousAttribute = attribute
	}

	return nil
}

// ParseGeneralAPIInfo parses general api info for given mainAPIFile path
func (s *Service) ParseGeneralAPIInfo(mainAPIFile string) error {
	fileTree, err := parser.ParseFile(token.NewFileSet(), mainAPIFile, nil, parser.ParseComments)
	if err != nil {
		return fmt.Errorf("cannot parse source files %s: %s", mainAPIFile, err)
	}

	for _, comment := range fileTree.Comments {
		comments := strings.Split(comment.Text(), "\n")
		if !isGeneralAPIComment(comments) {
			continue
		}

		s.debug.Printf("general info: parsing comment block at %s", mainAPIFile)
		if err := s.ParseGeneralInfo(comments); err != nil {
			return err
		}
	}

	return nil
}

// ApplyConfig fills the info and servers from cfg. Values set in the
// config file win over annotations; the defaults apply only when neither
// set a value.
func (s *Service) ApplyConfig(cfg *config.Config) {
	defaults := config.Default().Info
	info := &s.doc.Info

	info.Title = pick(cfg.Info.Title, info.Title, defaults.Title)
	info.Version = pick(cfg.Info.Version, info.Version, defaults.Version)
	info.Description = pick(cfg.Info.Description, info.Description, "")

	if len(cfg.Servers) > 0 {
		s.doc.Servers = s.doc.Servers[:0]
		for _, srv := range cfg.Servers {
			s.doc.Servers = append(s.doc.Servers, domain.Server{URL: srv.URL, Description: srv.Description})
		}
	}
}

// pick returns the config value unless it is the default, then the
// annotation, then the default.
func pick(configured, annotated, fallback string) string {
	if configured != "" && configured != fallback {
		return configured
	}
	if annotated != "" {
		return annotated
	}
	return fallback
}
