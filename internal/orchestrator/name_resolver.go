package orchestrator

import (
	"fmt"
	"go/types"
	"strconv"
	"strings"

	"github.com/griffnb/core-apidoc/internal/loader"
	"github.com/griffnb/core-apidoc/internal/registry"
)

// typeResolver turns the type names written in route annotations into type
// checked types and their component schema names.
//
// Strategy:
//  1. An unqualified name is looked up in the package of the handler file.
//  2. A "pkg.Name" qualifier is matched against the imports of that file,
//     honouring import aliases.
//  3. Otherwise the documented types are searched by short name; the
//     qualifier, when present, must equal the package name.
type typeResolver struct {
	files        map[string]*loader.AstFileInfo
	documentable *registry.Service
	schemas      *registry.SchemaRegistry
}

func newTypeResolver(result *loader.LoadResult, documentable *registry.Service, schemas *registry.SchemaRegistry) *typeResolver {
	files := make(map[string]*loader.AstFileInfo, len(result.Files))
	for _, info := range result.Files {
		files[info.Path] = info
	}
	return &typeResolver{files: files, documentable: documentable, schemas: schemas}
}

// Resolve finds the named type a handler file refers to by name.
func (r *typeResolver) Resolve(filePath, name string) (*types.Named, error) {
	qualifier, short := splitTypeName(name)

	if info, ok := r.files[filePath]; ok && info.Package != nil && info.Package.Types != nil {
		if scope := r.scopeFor(info, qualifier); scope != nil {
			if named, ok := namedIn(scope, short); ok {
				return named, nil
			}
		}
	}

	var candidates []*types.Named
	for _, d := range r.documentable.FindByName(short) {
		if qualifier != "" && d.Obj.Pkg().Name() != qualifier {
			continue
		}
		if named, ok := d.Obj.Type().(*types.Named); ok {
			candidates = append(candidates, named)
		}
	}

	switch len(candidates) {
	case 0:
		return nil, fmt.Errorf("type %s not found", name)
	case 1:
		return candidates[0], nil
	default:
		paths := make([]string, len(candidates))
		for i, c := range candidates {
			paths[i] = c.Obj().Pkg().Path() + "." + c.Obj().Name()
		}
		return nil, fmt.Errorf("type %s is ambiguous: %s", name, strings.Join(paths, ", "))
	}
}

// scopeFor returns the scope a qualifier names from the file's point of view.
func (r *typeResolver) scopeFor(info *loader.AstFileInfo, qualifier string) *types.Scope {
	pkg := info.Package.Types
	if qualifier == "" {
		return pkg.Scope()
	}

	for _, imp := range info.File.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}
		for _, dep := range pkg.Imports() {
			if dep.Path() != path {
				continue
			}
			local := dep.Name()
			if imp.Name != nil {
				local = imp.Name.Name
			}
			if local == qualifier {
				return dep.Scope()
			}
		}
	}
	return nil
}

// ComponentName returns the component schema registered for named.
func (r *typeResolver) ComponentName(named *types.Named) (string, bool) {
	d, ok := r.documentable.Lookup(named.Obj())
	if !ok {
		return "", false
	}
	entry, ok := r.schemas.Get(d.Name)
	if !ok || entry.PkgPath != d.PkgPath {
		return "", false
	}
	return entry.Name, true
}

// RefName names the component of documented request field types.
func (r *typeResolver) RefName(t types.Type) (string, bool) {
	named, ok := t.(*types.Named)
	if !ok {
		return "", false
	}
	return r.ComponentName(named)
}

func splitTypeName(name string) (qualifier, short string) {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}

func namedIn(scope *types.Scope, name string) (*types.Named, bool) {
	obj, ok := scope.Lookup(name).(*types.TypeName)
	if !ok {
		return nil, false
	}
	named, ok := obj.Type().(*types.Named)
	return named, ok
}
