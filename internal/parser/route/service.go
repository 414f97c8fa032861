// Package route provides parsing functionality for route annotations in Go source files.
// It extracts HTTP route information from handler comments including @router, @param,
// @success, @request, @errors and other route-related annotations.
package route

import (
	"fmt"
	"go/ast"
	"go/token"
	"regexp"
	"sort"

	"github.com/griffnb/core-apidoc/internal/config"
	"github.com/griffnb/core-apidoc/internal/parser/route/domain"
)

// Debugger interface for logging
type Debugger interface {
	Printf(format string, v ...interface{})
}

type noOpDebugger struct{}

func (noOpDebugger) Printf(string, ...interface{}) {}

// Service is the route catalog: it parses annotated handlers and applies
// the configured file, path and controller filters.
type Service struct {
	cfg   *config.Config
	debug Debugger
}

// NewService creates a new route parser service
func NewService(cfg *config.Config) *Service {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Service{cfg: cfg, debug: noOpDebugger{}}
}

// SetDebugger sets the debug logger.
func (s *Service) SetDebugger(debug Debugger) {
	if debug != nil {
		s.debug = debug
	}
}

// ParseRoutes extracts all routes from an AST file.
// filePath is the source file path and fset is used to resolve line numbers.
// Files outside the configured allow list yield no routes.
func (s *Service) ParseRoutes(astFile *ast.File, filePath string, fset *token.FileSet) ([]*domain.Route, error) {
	if !s.cfg.IsAllowedFile(filePath) {
		s.debug.Printf("routes: skipping %s, not an allowed file", filePath)
		return nil, nil
	}

	var routes []*domain.Route

	// Get package name from the file
	packageName := ""
	if astFile.Name != nil {
		packageName = astFile.Name.Name
	}

	// Iterate through all declarations in the file
	for _, decl := range astFile.Decls {
		// Only process function declarations
		funcDecl, ok := decl.(*ast.FuncDecl)
		if !ok || funcDecl.Doc == nil {
			continue
		}

		operation, err := s.parseOperation(funcDecl, packageName, filePath, fset)
		if err != nil {
			return nil, err
		}
		if operation == nil {
			continue
		}

		for _, r := range s.operationToRoutes(operation) {
			if s.cfg.IsExcludedPath(r.Path) {
				s.debug.Printf("routes: excluding %s %s", r.Method, r.Path)
				continue
			}
			if s.cfg.Routes.SkipControllerLess && r.Controller == "" {
				s.debug.Printf("routes: skipping %s %s, handler %s has no controller", r.Method, r.Path, r.Action)
				continue
			}
			routes = append(routes, r)
		}
	}

	return routes, nil
}

// parseOperation parses a function declaration into an operation
func (s *Service) parseOperation(funcDecl *ast.FuncDecl, packageName string, filePath string, fset *token.FileSet) (*operation, error) {
	op := &operation{
		functionName: funcDecl.Name.Name,
		controller:   receiverName(funcDecl),
		packageName:  packageName,
		filePath:     filePath,
		routerPaths:  []routerPath{},
		parameters:   []domain.Parameter{},
		tags:         []string{},
	}

	// Resolve line number from FileSet if available
	if fset != nil {
		position := fset.Position(funcDecl.Pos())
		op.lineNumber = position.Line
	}

	// Parse each comment line
	for _, comment := range funcDecl.Doc.List {
		if err := s.parseComment(op, comment.Text); err != nil {
			return nil, fmt.Errorf("%s:%d %s: %w", filePath, op.lineNumber, op.functionName, err)
		}
	}

	// Only return if we have at least one router path
	if len(op.routerPaths) == 0 {
		return nil, nil
	}

	return op, nil
}

// operationToRoutes converts an operation into one or more routes
func (s *Service) operationToRoutes(op *operation) []*domain.Route {
	var routes []*domain.Route

	// Create one route for each router path
	for _, routerPath := range op.routerPaths {
		success := op.success
		if !op.hasSuccess {
			success = defaultSuccess(routerPath.method)
		}
		success.Envelope = op.envelope

		route := &domain.Route{
			Controller:  op.controller,
			Action:      op.functionName,
			Method:      routerPath.method,
			Path:        routerPath.path,
			Summary:     op.summary,
			Description: op.description,
			Tags:        op.tags,
			Parameters:  pathParameters(routerPath.path, op.parameters),
			Success:     success,
			Request:     op.request,
			Errors:      op.errors,
			Deprecated:  routerPath.deprecated || op.deprecated,
			OperationID: op.operationID,
			FilePath:    op.filePath,
			PackageName: op.packageName,
			LineNumber:  op.lineNumber,
		}

		routes = append(routes, route)
	}

	return routes
}

// defaultSuccess applies when a handler has no @success annotation.
func defaultSuccess(method string) domain.Success {
	if method == "DELETE" {
		return domain.Success{Kind: domain.KindEmpty}
	}
	return domain.Success{Kind: domain.KindSingle}
}

var pathParamPattern = regexp.MustCompile(`\{([^{}/]+)\}`)

// pathParameters lists one parameter per {name} segment, in path order,
// typed by a matching @param when declared and string otherwise. Non-path
// @param declarations follow.
func pathParameters(path string, declared []domain.Parameter) []domain.Parameter {
	byName := map[string]domain.Parameter{}
	for _, p := range declared {
		if p.In == "path" {
			byName[p.Name] = p
		}
	}

	var out []domain.Parameter
	seen := map[string]bool{}
	for _, m := range pathParamPattern.FindAllStringSubmatch(path, -1) {
		name := m[1]
		if seen[name] {
			continue
		}
		seen[name] = true

		p, ok := byName[name]
		if !ok {
			p = domain.Parameter{Name: name, In: "path", Type: "string"}
		}
		p.Required = true
		out = append(out, p)
	}

	for _, p := range declared {
		if p.In != "path" {
			out = append(out, p)
		}
	}
	return out
}

// SortRoutes orders routes by path then method and rejects duplicates.
func SortRoutes(routes []*domain.Route) error {
	sort.SliceStable(routes, func(i, j int) bool {
		if routes[i].Path != routes[j].Path {
			return routes[i].Path < routes[j].Path
		}
		return routes[i].Method < routes[j].Method
	})

	for i := 1; i < len(routes); i++ {
		prev, curr := routes[i-1], routes[i]
		if prev.Path == curr.Path && prev.Method == curr.Method {
			return fmt.Errorf("route %s %s is declared by both %s and %s", curr.Method, curr.Path, handlerName(prev), handlerName(curr))
		}
	}
	return nil
}

func handlerName(r *domain.Route) string {
	if r.Controller == "" {
		return r.Action
	}
	return r.Controller + "." + r.Action
}

func receiverName(fd *ast.FuncDecl) string {
	if fd.Recv == nil || len(fd.Recv.List) == 0 {
		return ""
	}
	t := fd.Recv.List[0].Type
	if star, ok := t.(*ast.StarExpr); ok {
		t = star.X
	}
	switch tt := t.(type) {
	case *ast.Ident:
		return tt.Name
	case *ast.IndexExpr:
		if id, ok := tt.X.(*ast.Ident); ok {
			return id.Name
		}
	}
	return ""
}
