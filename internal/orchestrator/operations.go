package orchestrator

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/go-openapi/spec"
	"github.com/griffnb/core-apidoc/internal/domain"
	routedomain "github.com/griffnb/core-apidoc/internal/parser/route/domain"
	"github.com/griffnb/core-apidoc/internal/parser/request"
	"github.com/griffnb/core-apidoc/internal/response"
)

// operationBuilder turns cataloged routes into document operations. It
// records whether any error response needs the default envelope.
type operationBuilder struct {
	s     *Service
	types *typeResolver

	usesDefaultEnvelope bool
}

func newOperationBuilder(s *Service, types *typeResolver) *operationBuilder {
	return &operationBuilder{s: s, types: types}
}

func (b *operationBuilder) build(r *routedomain.Route) (*domain.Operation, error) {
	op := &domain.Operation{
		Tags:        operationTags(r),
		Summary:     r.Summary,
		Description: r.Description,
		OperationID: r.OperationID,
		Deprecated:  r.Deprecated,
		Responses:   map[string]*domain.Response{},
	}

	for _, p := range r.Parameters {
		op.Parameters = append(op.Parameters, parameter(p))
	}

	if r.Request != "" {
		body, err := b.requestBody(r)
		if err != nil {
			return nil, err
		}
		op.RequestBody = body
	}

	success, err := b.success(r)
	if err != nil {
		return nil, err
	}
	op.Responses[strconv.Itoa(success.Status)] = documentResponse(success)

	statuses := b.s.errors.Statuses(r.Method, r.Errors)
	for _, resp := range b.s.errors.Build(r.Method, r.Errors) {
		key := strconv.Itoa(resp.Status)
		if _, taken := op.Responses[key]; taken {
			continue
		}
		op.Responses[key] = documentResponse(resp)
	}
	if b.s.errors.UsesDefaultEnvelope(statuses) {
		b.usesDefaultEnvelope = true
	}

	return op, nil
}

func (b *operationBuilder) requestBody(r *routedomain.Route) (*domain.RequestBody, error) {
	named, err := b.types.Resolve(r.FilePath, r.Request)
	if err != nil {
		return nil, fmt.Errorf("request type: %w", err)
	}

	rules, err := request.RulesFor(named, b.s.app.Schema.NamingStrategy, b.types)
	if err != nil {
		return nil, fmt.Errorf("request type %s: %w", r.Request, err)
	}

	return &domain.RequestBody{
		Description: request.Description,
		Required:    true,
		Content: map[string]*domain.MediaType{
			domain.MediaTypeJSON: {Schema: request.Build(rules)},
		},
	}, nil
}

func (b *operationBuilder) success(r *routedomain.Route) (response.Response, error) {
	ref := ""
	if r.Success.Type != "" && r.Success.Kind != routedomain.KindEmpty {
		named, err := b.types.Resolve(r.FilePath, r.Success.Type)
		if err != nil {
			return response.Response{}, fmt.Errorf("response type: %w", err)
		}
		name, ok := b.types.ComponentName(named)
		if !ok {
			return response.Response{}, fmt.Errorf("response type %s is not documented: add a //apidoc:schema directive to its declaration", r.Success.Type)
		}
		ref = name
	}

	resp, err := b.s.shapes.Wrap(ref, r.Success.Kind, r.Success.Envelope)
	if err != nil {
		return response.Response{}, err
	}
	if r.Success.Description != "" {
		resp.Description = r.Success.Description
	}
	return resp, nil
}

func documentResponse(resp response.Response) *domain.Response {
	out := &domain.Response{Description: resp.Description}
	if resp.Schema != nil {
		out.Content = map[string]*domain.MediaType{
			domain.MediaTypeJSON: {Schema: resp.Schema},
		}
	}
	return out
}

// operationTags falls back to the controller name without its suffix.
func operationTags(r *routedomain.Route) []string {
	if len(r.Tags) > 0 {
		return r.Tags
	}
	if tag := strings.TrimSuffix(r.Controller, "Controller"); tag != "" {
		return []string{tag}
	}
	return nil
}

func parameter(p routedomain.Parameter) domain.Parameter {
	s := &spec.Schema{}
	s.Typed(p.Type, p.Format)
	s.Enum = p.Enum
	s.Default = p.Default
	s.Minimum = p.Minimum
	s.Maximum = p.Maximum
	s.MinLength = toInt64(p.MinLength)
	s.MaxLength = toInt64(p.MaxLength)
	if p.Items != nil {
		items := &spec.Schema{}
		items.Typed(p.Items.Type, p.Items.Format)
		s.Items = &spec.SchemaOrArray{Schema: items}
	}

	return domain.Parameter{
		Name:        p.Name,
		In:          p.In,
		Description: p.Description,
		Required:    p.Required,
		Schema:      s,
	}
}

func toInt64(f *float64) *int64 {
	if f == nil {
		return nil
	}
	v := int64(*f)
	return &v
}

// addOperationTags appends the tags used by operations but not declared in
// the general info, sorted by name.
func addOperationTags(doc *domain.Document) {
	declared := map[string]bool{}
	for _, t := range doc.Tags {
		declared[t.Name] = true
	}

	var extra []string
	for _, item := range doc.Paths {
		for _, op := range item.Operations() {
			for _, tag := range op.Tags {
				if !declared[tag] {
					declared[tag] = true
					extra = append(extra, tag)
				}
			}
		}
	}

	sort.Strings(extra)
	for _, name := range extra {
		doc.Tags = append(doc.Tags, domain.Tag{Name: name})
	}
}
