// Package structural infers serialized field names and types from the body
// of a struct's serialization method.
package structural

import (
	"go/ast"
	goparser "go/parser"
	"go/token"
	"go/types"
	"strconv"

	"github.com/griffnb/core-apidoc/internal/domain"
	"github.com/griffnb/core-apidoc/internal/model"
	"golang.org/x/tools/go/packages"
)

// Field is one key of the returned map literal. Known is nil when the value
// expression could not be classified.
type Field struct {
	Key   string
	Known *domain.PropertySchema
}

// Classifier turns declared Go types into property shapes.
type Classifier interface {
	// Member maps a receiver field serialized under key. tag is the raw
	// struct tag of the field, empty when it declares none.
	Member(key string, t types.Type, tag string) *domain.PropertySchema
	// EnumBacking returns the backing primitive of an enum type.
	EnumBacking(t types.Type) (*domain.PropertySchema, bool)
}

// Debugger interface for logging
type Debugger interface {
	Printf(format string, v ...interface{})
}

type noOpDebugger struct{}

func (noOpDebugger) Printf(string, ...interface{}) {}

// Service reads serialization methods from loaded syntax, or from disk
// when the declaring package was loaded from export data.
type Service struct {
	fset       *token.FileSet
	packages   map[string]*packages.Package
	classifier Classifier
	debug      Debugger
}

// NewService indexes pkgs by import path.
func NewService(fset *token.FileSet, pkgs []*packages.Package, classifier Classifier) *Service {
	s := &Service{
		fset:       fset,
		packages:   map[string]*packages.Package{},
		classifier: classifier,
		debug:      noOpDebugger{},
	}
	for _, p := range pkgs {
		s.packages[p.PkgPath] = p
	}
	return s
}

// SetDebugger sets the debug logger.
func (s *Service) SetDebugger(debug Debugger) {
	if debug != nil {
		s.debug = debug
	}
}

// ExtractFields returns the keys of the map literal returned by fn, in
// source order. Any failure to locate or read the method yields no fields.
func (s *Service) ExtractFields(fn *types.Func) []Field {
	return s.ExtractFieldsWith(fn, s.classifier)
}

// ExtractFieldsWith is ExtractFields with a classifier bound to one struct.
func (s *Service) ExtractFieldsWith(fn *types.Func, classifier Classifier) []Field {
	decl, info := s.findDecl(fn)
	if decl == nil || decl.Body == nil {
		return nil
	}

	lit, varName := returnedMap(decl.Body)
	if lit == nil {
		return nil
	}

	x := &extractor{
		info:       info,
		classifier: classifier,
		receiver:   receiverIdent(decl),
	}
	return x.fields(lit, decl.Body, varName)
}

// findDecl locates the declaration of fn. Loaded syntax carries type
// information; the on-disk fallback does not.
func (s *Service) findDecl(fn *types.Func) (*ast.FuncDecl, *types.Info) {
	if fn.Pkg() == nil {
		return nil, nil
	}

	if pkg, ok := s.packages[fn.Pkg().Path()]; ok && pkg.TypesInfo != nil {
		for _, file := range pkg.Syntax {
			if fn.Pos() < file.Pos() || fn.Pos() > file.End() {
				continue
			}
			for _, d := range file.Decls {
				fd, ok := d.(*ast.FuncDecl)
				if ok && pkg.TypesInfo.Defs[fd.Name] == fn {
					return fd, pkg.TypesInfo
				}
			}
		}
	}

	if s.fset == nil || !fn.Pos().IsValid() {
		return nil, nil
	}
	path := s.fset.Position(fn.Pos()).Filename
	file, err := goparser.ParseFile(token.NewFileSet(), path, nil, goparser.SkipObjectResolution)
	if err != nil {
		s.debug.Printf("structural: could not parse %s: %v", path, err)
		return nil, nil
	}

	recv := model.ReceiverName(fn)
	for _, d := range file.Decls {
		fd, ok := d.(*ast.FuncDecl)
		if !ok || fd.Recv == nil || fd.Name.Name != fn.Name() {
			continue
		}
		if declReceiverType(fd) == recv {
			return fd, nil
		}
	}
	return nil, nil
}

// returnedMap finds the map literal the method returns, either directly or
// through a local variable whose name is returned too.
func returnedMap(body *ast.BlockStmt) (*ast.CompositeLit, string) {
	var (
		found   *ast.CompositeLit
		varName string
	)
	ast.Inspect(body, func(n ast.Node) bool {
		if found != nil {
			return false
		}
		if _, ok := n.(*ast.FuncLit); ok {
			return false
		}
		ret, ok := n.(*ast.ReturnStmt)
		if !ok || len(ret.Results) != 1 {
			return true
		}
		switch r := ret.Results[0].(type) {
		case *ast.CompositeLit:
			if isMapLit(r) {
				found = r
			}
		case *ast.Ident:
			if found = assignedMap(body, r.Name); found != nil {
				varName = r.Name
			}
		}
		return true
	})
	return found, varName
}

func assignedMap(body *ast.BlockStmt, name string) *ast.CompositeLit {
	for _, stmt := range body.List {
		switch st := stmt.(type) {
		case *ast.AssignStmt:
			for i, lhs := range st.Lhs {
				id, ok := lhs.(*ast.Ident)
				if !ok || id.Name != name || i >= len(st.Rhs) {
					continue
				}
				if lit, ok := st.Rhs[i].(*ast.CompositeLit); ok && isMapLit(lit) {
					return lit
				}
			}
		case *ast.DeclStmt:
			gen, ok := st.Decl.(*ast.GenDecl)
			if !ok {
				continue
			}
			for _, spec := range gen.Specs {
				vs, ok := spec.(*ast.ValueSpec)
				if !ok {
					continue
				}
				for i, id := range vs.Names {
					if id.Name != name || i >= len(vs.Values) {
						continue
					}
					if lit, ok := vs.Values[i].(*ast.CompositeLit); ok && isMapLit(lit) {
						return lit
					}
				}
			}
		}
	}
	return nil
}

func isMapLit(lit *ast.CompositeLit) bool {
	_, ok := lit.Type.(*ast.MapType)
	return ok
}

func receiverIdent(fd *ast.FuncDecl) string {
	if fd.Recv == nil || len(fd.Recv.List) == 0 || len(fd.Recv.List[0].Names) == 0 {
		return ""
	}
	return fd.Recv.List[0].Names[0].Name
}

func declReceiverType(fd *ast.FuncDecl) string {
	if fd.Recv == nil || len(fd.Recv.List) == 0 {
		return ""
	}
	t := fd.Recv.List[0].Type
	if star, ok := t.(*ast.StarExpr); ok {
		t = star.X
	}
	if id, ok := t.(*ast.Ident); ok {
		return id.Name
	}
	return ""
}

func stringKey(e ast.Expr) (string, bool) {
	lit, ok := e.(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return "", false
	}
	key, err := strconv.Unquote(lit.Value)
	if err != nil {
		return "", false
	}
	return key, true
}
