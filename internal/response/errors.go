package response

import (
	"fmt"
	"slices"

	"github.com/go-openapi/spec"
	"github.com/griffnb/core-apidoc/internal/config"
	"github.com/griffnb/core-apidoc/internal/domain"
	route "github.com/griffnb/core-apidoc/internal/parser/route/domain"
	"github.com/griffnb/core-apidoc/internal/schema"
)

// ErrorSchema is the component name of the default error envelope.
const ErrorSchema = "Error"

var statusDescriptions = map[int]string{
	400: "Bad request",
	401: "Unauthorized",
	403: "Forbidden",
	404: "Not found",
	405: "Method not allowed",
	422: "Validation failed",
	429: "Too many requests",
	500: "Internal server error",
}

// ErrorBuilder documents the error responses of an operation.
type ErrorBuilder struct {
	cfg *config.Config
}

// NewErrorBuilder creates an error response builder.
func NewErrorBuilder(cfg *config.Config) *ErrorBuilder {
	if cfg == nil {
		cfg = config.Default()
	}
	return &ErrorBuilder{cfg: cfg}
}

// Statuses returns the error statuses of a verb narrowed by filter, sorted.
// Only replaces the defaults; Except removes from them.
func (b *ErrorBuilder) Statuses(method string, filter route.ErrorFilter) []int {
	var codes []int
	switch {
	case len(filter.Only) > 0:
		codes = append(codes, filter.Only...)
	case len(filter.Except) > 0:
		except := make(map[int]bool, len(filter.Except))
		for _, c := range filter.Except {
			except[c] = true
		}
		for _, c := range b.cfg.ErrorStatuses(method) {
			if !except[c] {
				codes = append(codes, c)
			}
		}
	default:
		codes = b.cfg.ErrorStatuses(method)
	}

	slices.Sort(codes)
	return slices.Compact(codes)
}

// Build returns one response per error status of the operation.
func (b *ErrorBuilder) Build(method string, filter route.ErrorFilter) []Response {
	codes := b.Statuses(method, filter)
	out := make([]Response, 0, len(codes))
	for _, code := range codes {
		out = append(out, b.Response(code))
	}
	return out
}

// Response documents one error status. The schema is the per status
// override, then the global override, then the default envelope.
func (b *ErrorBuilder) Response(status int) Response {
	name := ErrorSchema
	if override, ok := b.cfg.ErrorSchema(status); ok {
		name = override
	}
	return Response{
		Status:      status,
		Description: b.Description(status),
		Schema:      schema.RefSchema(name),
	}
}

// Description returns the configured or default description of status.
func (b *ErrorBuilder) Description(status int) string {
	if d, ok := b.cfg.ErrorDescription(status); ok {
		return d
	}
	if d, ok := statusDescriptions[status]; ok {
		return d
	}
	return fmt.Sprintf("Error %d", status)
}

// UsesDefaultEnvelope reports whether any status can fall back to the
// default envelope, so the document must carry it as a component.
func (b *ErrorBuilder) UsesDefaultEnvelope(statuses []int) bool {
	for _, code := range statuses {
		if _, ok := b.cfg.ErrorSchema(code); !ok {
			return true
		}
	}
	return false
}

// Envelope is the default error envelope component.
func Envelope() spec.Schema {
	statusCode := *schema.PrimitiveSchema(domain.TypeInteger)
	statusCode.Description = "Status Code"

	messages := *schema.PrimitiveSchema(domain.TypeArray)
	messages.Items = &spec.SchemaOrArray{Schema: schema.PrimitiveSchema(domain.TypeString)}

	exception := *schema.PrimitiveSchema(domain.TypeObject)
	exception.Description = "Exception (only visible in debug mode)"

	out := spec.Schema{SchemaProps: spec.SchemaProps{
		Type:        []string{domain.TypeObject},
		Title:       ErrorSchema,
		Description: "Error schema",
		Required:    []string{"statusCode", "messages"},
	}}
	schema.AddProperty(&out, "statusCode", statusCode)
	schema.AddProperty(&out, "messages", messages)
	schema.AddProperty(&out, "exception", exception)
	return out
}
