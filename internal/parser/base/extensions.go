package base

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// parseExtension parses a document level @x- extension whose value is JSON.
func (s *Service) parseExtension(attribute, value string) error {
	if len(value) == 0 {
		return fmt.Errorf("annotation %s need a value", attribute)
	}

	var valueJSON interface{}
	if err := json.Unmarshal([]byte(value), &valueJSON); err != nil {
		return fmt.Errorf("annotation %s need a valid json value", attribute)
	}

	if s.doc.Extensions == nil {
		s.doc.Extensions = make(map[string]interface{})
	}
	s.doc.Extensions[attribute[1:]] = valueJSON

	return nil
}
