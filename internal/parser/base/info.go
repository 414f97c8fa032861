package base

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/griffnb/core-apidoc/internal/domain"
)

// setInfo sets the info field named by attribute
func (s *Service) setInfo(attribute, value string) {
	info := &s.doc.Info
	switch attribute {
	case "@version":
		info.Version = value
	case "@title":
		info.Title = value
	case "@termsofservice":
		info.TermsOfService = value
	case "@description":
		info.Description = value
	case "@contact.name":
		info.Contact = initContact(info.Contact)
		info.Contact.Name = value
	case "@contact.email":
		info.Contact = initContact(info.Contact)
		info.Contact.Email = value
	case "@contact.url":
		info.Contact = initContact(info.Contact)
		info.Contact.URL = value
	case "@license.name":
		info.License = initLicense(info.License)
		info.License.Name = value
	case "@license.url":
		info.License = initLicense(info.License)
		info.License.URL = value
	}
}

// getMarkdownForTag reads markdown content for a given tag name
func (s *Service) getMarkdownForTag(tagName string) ([]byte, error) {
	if tagName == "" {
		return make([]byte, 0), nil
	}

	dirEntries, err := os.ReadDir(s.markdownFileDir)
	if err != nil {
		return nil, err
	}

	expectedFileName := tagName
	if !strings.HasSuffix(tagName, ".md") {
		expectedFileName = tagName + ".md"
	}

	for _, entry := range dirEntries {
		if entry.IsDir() || entry.Name() != expectedFileName {
			continue
		}

		fullPath := filepath.Join(s.markdownFileDir, entry.Name())
		commentInfo, err := os.ReadFile(fullPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read markdown file %s: %w", fullPath, err)
		}
		return commentInfo, nil
	}

	return nil, fmt.Errorf("unable to find markdown file for tag %s in the given directory", tagName)
}

func initContact(contact *domain.Contact) *domain.Contact {
	if contact == nil {
		return new(domain.Contact)
	}
	return contact
}

func initLicense(license *domain.License) *domain.License {
	if license == nil {
		return new(domain.License)
	}
	return license
}
