// Package response builds the success and error responses of an operation.
package response

import (
	"fmt"

	"github.com/go-openapi/spec"
	"github.com/griffnb/core-apidoc/internal/config"
	"github.com/griffnb/core-apidoc/internal/domain"
	route "github.com/griffnb/core-apidoc/internal/parser/route/domain"
	"github.com/griffnb/core-apidoc/internal/schema"
)

// Response is one documented response. A nil Schema means no body.
type Response struct {
	Status      int
	Description string
	Schema      *spec.Schema
}

var kindStatus = map[string]int{
	route.KindSingle:     200,
	route.KindCollection: 200,
	route.KindPaginated:  200,
	route.KindCreated:    201,
	route.KindUpdated:    200,
	route.KindEmpty:      204,
}

var kindDescriptions = map[string]string{
	route.KindSingle:     "Successful response",
	route.KindCollection: "List of resources",
	route.KindPaginated:  "Paginated list of resources",
	route.KindCreated:    "Resource created",
	route.KindUpdated:    "Resource updated",
	route.KindEmpty:      "No content",
}

// ShapeBuilder wraps success payloads in their envelope.
type ShapeBuilder struct {
	cfg *config.Config
}

// NewShapeBuilder creates a success response builder.
func NewShapeBuilder(cfg *config.Config) *ShapeBuilder {
	if cfg == nil {
		cfg = config.Default()
	}
	return &ShapeBuilder{cfg: cfg}
}

// Wrap builds the success response of kind around the component ref.
// An empty ref documents a free-form object. override, or the configured
// override of kind, replaces the envelope with a component while the
// status stays that of kind.
func (b *ShapeBuilder) Wrap(ref, kind, override string) (Response, error) {
	status, ok := kindStatus[kind]
	if !ok {
		return Response{}, fmt.Errorf("unknown response kind %q", kind)
	}

	resp := Response{Status: status, Description: kindDescriptions[kind]}

	if override == "" {
		override, _ = b.cfg.SuccessOverride(kind)
	}
	if override != "" {
		resp.Schema = schema.RefSchema(override)
		return resp, nil
	}

	switch kind {
	case route.KindEmpty:
	case route.KindCollection:
		resp.Schema = arrayOf(payload(ref))
	case route.KindPaginated:
		resp.Schema = paginated(payload(ref))
	default:
		resp.Schema = payload(ref)
	}

	return resp, nil
}

func payload(ref string) *spec.Schema {
	if ref == "" {
		return schema.PrimitiveSchema(domain.TypeObject)
	}
	return schema.RefSchema(ref)
}

func arrayOf(items *spec.Schema) *spec.Schema {
	out := schema.PrimitiveSchema(domain.TypeArray)
	out.Items = &spec.SchemaOrArray{Schema: items}
	return out
}

func paginated(items *spec.Schema) *spec.Schema {
	data := arrayOf(items)
	data.Description = "Data"

	page := pagination()
	page.Description = "Pagination"

	out := &spec.Schema{SchemaProps: spec.SchemaProps{
		Type:     []string{domain.TypeObject},
		Required: []string{"data", "pagination"},
	}}
	schema.AddProperty(out, "data", *data)
	schema.AddProperty(out, "pagination", page)
	return out
}

// pagination is the fixed pagination block; every field is required.
func pagination() spec.Schema {
	field := func(description string, example int) spec.Schema {
		s := *schema.PrimitiveSchema(domain.TypeInteger)
		s.Description = description
		s.Example = example
		return s
	}

	out := spec.Schema{SchemaProps: spec.SchemaProps{
		Type:     []string{domain.TypeObject},
		Title:    "Pagination",
		Required: []string{"total", "count", "perPage", "currentPage", "totalPages"},
	}}
	schema.AddProperty(&out, "total", field("Total number of items", 15))
	schema.AddProperty(&out, "count", field("Number of items on this page", 10))
	schema.AddProperty(&out, "perPage", field("Number of items per page", 10))
	schema.AddProperty(&out, "currentPage", field("Current page number", 1))
	schema.AddProperty(&out, "totalPages", field("Total number of pages", 2))
	return out
}
