package orchestrator

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-openapi/spec"
	"github.com/griffnb/core-apidoc/internal/domain"
	routedomain "github.com/griffnb/core-apidoc/internal/parser/route/domain"
	"github.com/griffnb/core-apidoc/internal/schema"
)

// collectReferencedTypes walks every operation and component and returns
// the component names referenced by $ref. Values are the location where
// the reference was first seen, e.g. "GET /orders" or "schema OrderDto".
func collectReferencedTypes(doc *domain.Document) map[string]string {
	refs := make(map[string]string)
	record := func(s *spec.Schema, source string) {
		found := map[string]struct{}{}
		schema.CollectRefs(s, found)
		for name := range found {
			if _, exists := refs[name]; !exists {
				refs[name] = source
			}
		}
	}

	for _, path := range sortedPaths(doc) {
		ops := doc.Paths[path].Operations()
		methods := make([]string, 0, len(ops))
		for method := range ops {
			methods = append(methods, method)
		}
		sort.Strings(methods)

		for _, method := range methods {
			op := ops[method]
			source := method + " " + path
			for _, p := range op.Parameters {
				record(p.Schema, source)
			}
			if op.RequestBody != nil {
				for _, media := range op.RequestBody.Content {
					record(media.Schema, source)
				}
			}
			for _, resp := range op.Responses {
				for _, media := range resp.Content {
					record(media.Schema, source)
				}
			}
		}
	}

	for _, name := range doc.Components.SchemaNames() {
		s := doc.Components.Schemas[name]
		record(&s, "schema "+name)
	}
	return refs
}

// checkRefs fails for every $ref without a component and for operation ids
// used more than once.
func checkRefs(doc *domain.Document) error {
	var errs []error

	refs := collectReferencedTypes(doc)
	names := make([]string, 0, len(refs))
	for name := range refs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, ok := doc.Components.Schemas[name]; !ok {
			errs = append(errs, fmt.Errorf("unresolved reference %s%s used by %s", schema.ComponentPrefix, name, refs[name]))
		}
	}

	ids := map[string]string{}
	for _, path := range sortedPaths(doc) {
		for method, op := range doc.Paths[path].Operations() {
			if op.OperationID == "" {
				continue
			}
			source := method + " " + path
			if prev, ok := ids[op.OperationID]; ok {
				first, second := prev, source
				if second < first {
					first, second = second, first
				}
				errs = append(errs, fmt.Errorf("operation id %q is used by both %s and %s", op.OperationID, first, second))
				continue
			}
			ids[op.OperationID] = source
		}
	}

	return errors.Join(errs...)
}

func sortedPaths(doc *domain.Document) []string {
	paths := make([]string, 0, len(doc.Paths))
	for path := range doc.Paths {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// routeSource builds a human-readable location string for a route.
func routeSource(r *routedomain.Route) string {
	loc := strings.TrimSpace(r.Method + " " + r.Path)

	handler := r.Action
	if r.Controller != "" {
		handler = r.Controller + "." + r.Action
	}
	if handler != "" {
		loc += " (" + handler
		if r.FilePath != "" {
			loc += fmt.Sprintf(" at %s:%d", filepath.Base(r.FilePath), r.LineNumber)
		}
		loc += ")"
	}
	return loc
}
