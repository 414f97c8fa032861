package registry

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"sort"

	"github.com/griffnb/core-apidoc/internal/domain"
	"github.com/griffnb/core-apidoc/internal/loader"
	"github.com/griffnb/core-apidoc/internal/parser/field"
)

// Documentable is a type declaration opted in to schema generation.
type Documentable struct {
	Kind    domain.DocumentableKind
	Name    string
	PkgPath string
	Obj     *types.TypeName
	Spec    *ast.TypeSpec
	Path    string

	// Directives are all apidoc directives on the declaration, marker first.
	Directives []field.Directive
}

// FullName is the package qualified type name.
func (d *Documentable) FullName() string {
	return d.PkgPath + "." + d.Name
}

// Marker returns the schema or enum directive.
func (d *Documentable) Marker() field.Directive {
	for _, dir := range d.Directives {
		if dir.Name == field.DirectiveSchema || dir.Name == field.DirectiveEnum {
			return dir
		}
	}
	return field.Directive{}
}

// DirectivesNamed returns the directives with the given name in order.
func (d *Documentable) DirectivesNamed(name string) []field.Directive {
	var out []field.Directive
	for _, dir := range d.Directives {
		if dir.Name == name {
			out = append(out, dir)
		}
	}
	return out
}

// Service records documentable types found in loaded packages.
type Service struct {
	byName map[string]*Documentable
	debug  Debugger
}

// NewService creates a new registry service.
func NewService() *Service {
	return &Service{
		byName: make(map[string]*Documentable),
		debug:  noOpDebugger{},
	}
}

// SetDebugger sets the debugger.
func (s *Service) SetDebugger(debug Debugger) {
	s.debug = debug
}

// Collect scans the type declarations of files for apidoc markers.
func (s *Service) Collect(files []*loader.AstFileInfo) error {
	for _, info := range files {
		for _, decl := range info.File.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.TYPE {
				continue
			}

			for _, spec := range gen.Specs {
				typeSpec := spec.(*ast.TypeSpec)
				if err := s.collectSpec(info, gen, typeSpec); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (s *Service) collectSpec(info *loader.AstFileInfo, gen *ast.GenDecl, typeSpec *ast.TypeSpec) error {
	docs := []*ast.CommentGroup{typeSpec.Doc}
	if !gen.Lparen.IsValid() {
		docs = append(docs, gen.Doc)
	}

	directives, err := field.Directives(docs...)
	if err != nil {
		return fmt.Errorf("%s: %w", info.Path, err)
	}

	kind := domain.KindNone
	for _, d := range directives {
		switch d.Name {
		case field.DirectiveSchema:
			kind = domain.KindSchema
		case field.DirectiveEnum:
			kind = domain.KindEnum
		default:
			continue
		}
		break
	}
	if kind == domain.KindNone {
		return nil
	}

	obj, _ := info.Package.TypesInfo.Defs[typeSpec.Name].(*types.TypeName)
	if obj == nil {
		return fmt.Errorf("%s: no type information for %s", info.Path, typeSpec.Name.Name)
	}

	d := &Documentable{
		Kind:       kind,
		Name:       typeSpec.Name.Name,
		PkgPath:    info.Package.PkgPath,
		Obj:        obj,
		Spec:       typeSpec,
		Path:       info.Path,
		Directives: directives,
	}
	s.byName[d.FullName()] = d
	s.debug.Printf("found %s %s", kind, d.FullName())

	return nil
}

// Lookup returns the documentable for a type name object.
func (s *Service) Lookup(obj *types.TypeName) (*Documentable, bool) {
	if obj == nil || obj.Pkg() == nil {
		return nil, false
	}
	d, ok := s.byName[obj.Pkg().Path()+"."+obj.Name()]
	return d, ok
}

// Schemas returns the opted-in struct types sorted by name.
func (s *Service) Schemas() []*Documentable {
	return s.ofKind(domain.KindSchema)
}

// Enums returns the opted-in enum types sorted by name.
func (s *Service) Enums() []*Documentable {
	return s.ofKind(domain.KindEnum)
}

// FindByName returns every documentable with the short name.
func (s *Service) FindByName(name string) []*Documentable {
	var out []*Documentable
	for _, d := range s.sorted() {
		if d.Name == name {
			out = append(out, d)
		}
	}
	return out
}

func (s *Service) ofKind(kind domain.DocumentableKind) []*Documentable {
	var out []*Documentable
	for _, d := range s.sorted() {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

func (s *Service) sorted() []*Documentable {
	out := make([]*Documentable, 0, len(s.byName))
	for _, d := range s.byName {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].PkgPath < out[j].PkgPath
	})
	return out
}
