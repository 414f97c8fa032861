package orchestrator

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"github.com/griffnb/core-apidoc/internal/domain"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// docSchemaURL is the resource name of the embedded document shape schema.
const docSchemaURL = "docschema.json"

//go:embed docschema.json
var docSchemaJSON []byte

var (
	docSchemaOnce sync.Once
	docSchema     *jsonschema.Schema
	docSchemaErr  error
)

// compileDocSchema compiles the embedded schema once per process.
func compileDocSchema() (*jsonschema.Schema, error) {
	docSchemaOnce.Do(func() {
		raw, err := jsonschema.UnmarshalJSON(bytes.NewReader(docSchemaJSON))
		if err != nil {
			docSchemaErr = fmt.Errorf("invalid document schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource(docSchemaURL, raw); err != nil {
			docSchemaErr = fmt.Errorf("failed to add document schema: %w", err)
			return
		}
		docSchema, docSchemaErr = c.Compile(docSchemaURL)
	})
	return docSchema, docSchemaErr
}

// validateDocument checks the document, as it will be written, against the
// document shape schema.
func validateDocument(doc *domain.Document) error {
	sch, err := compileDocSchema()
	if err != nil {
		return err
	}

	tree, err := doc.Tree()
	if err != nil {
		return err
	}
	b, err := domain.EncodeJSON(tree, "")
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}

	if err := sch.Validate(inst); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("generated document is invalid: %s", verr.Error())
		}
		return err
	}
	return nil
}
