package model

import (
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"
	"sort"
	"sync"

	"golang.org/x/tools/go/packages"
)

// EnumValue is one typed constant of an enum type.
type EnumValue struct {
	Key   string
	Value any
	Kind  constant.Kind
}

// PackageIndex maps package paths to loaded packages, including transitive
// imports, so enum constants can be read in declaration order.
type PackageIndex struct {
	mu   sync.RWMutex
	pkgs map[string]*packages.Package
}

// NewPackageIndex indexes pkgs and everything they import.
func NewPackageIndex(pkgs []*packages.Package) *PackageIndex {
	idx := &PackageIndex{pkgs: make(map[string]*packages.Package)}

	var walk func(pkg *packages.Package)
	walk = func(pkg *packages.Package) {
		if pkg == nil {
			return
		}
		if _, ok := idx.pkgs[pkg.PkgPath]; ok {
			return
		}
		idx.pkgs[pkg.PkgPath] = pkg

		for _, imp := range pkg.Imports {
			walk(imp)
		}
	}

	for _, pkg := range pkgs {
		walk(pkg)
	}
	return idx
}

// Package returns the indexed package for path.
func (p *PackageIndex) Package(path string) (*packages.Package, bool) {
	if p == nil {
		return nil, false
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	pkg, ok := p.pkgs[path]
	return pkg, ok
}

// Len returns the number of indexed packages.
func (p *PackageIndex) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.pkgs)
}

// GetEnumsForType returns the package level constants of the named type in
// declaration order. Constants repeating an earlier value are dropped.
func (p *PackageIndex) GetEnumsForType(named *types.Named) []EnumValue {
	obj := named.Obj()
	if obj.Pkg() == nil {
		return nil
	}

	var consts []*types.Const
	if pkg, ok := p.Package(obj.Pkg().Path()); ok && len(pkg.Syntax) > 0 && pkg.TypesInfo != nil {
		consts = constsFromSyntax(pkg, named)
	} else {
		consts = constsFromScope(obj.Pkg().Scope(), named)
	}

	enums := make([]EnumValue, 0, len(consts))
	seenValues := make(map[any]bool)
	for _, c := range consts {
		value := constantValue(c.Val())
		if seenValues[value] {
			continue
		}
		seenValues[value] = true

		enums = append(enums, EnumValue{
			Key:   c.Name(),
			Value: value,
			Kind:  c.Val().Kind(),
		})
	}

	return enums
}

// HasConstants reports whether the package declares any constant of the type.
func (p *PackageIndex) HasConstants(named *types.Named) bool {
	obj := named.Obj()
	if obj.Pkg() == nil {
		return false
	}
	scope := obj.Pkg().Scope()
	for _, name := range scope.Names() {
		if c, ok := scope.Lookup(name).(*types.Const); ok && sameNamed(c.Type(), named) {
			return true
		}
	}
	return false
}

func constsFromSyntax(pkg *packages.Package, named *types.Named) []*types.Const {
	var out []*types.Const
	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			genDecl, ok := decl.(*ast.GenDecl)
			if !ok || genDecl.Tok != token.CONST {
				continue
			}

			for _, spec := range genDecl.Specs {
				valueSpec, ok := spec.(*ast.ValueSpec)
				if !ok {
					continue
				}

				for _, name := range valueSpec.Names {
					// TypesInfo resolves both explicit types and iota repetition.
					constObj, ok := pkg.TypesInfo.Defs[name].(*types.Const)
					if !ok || !sameNamed(constObj.Type(), named) {
						continue
					}
					out = append(out, constObj)
				}
			}
		}
	}
	return out
}

func constsFromScope(scope *types.Scope, named *types.Named) []*types.Const {
	var out []*types.Const
	for _, name := range scope.Names() {
		if c, ok := scope.Lookup(name).(*types.Const); ok && sameNamed(c.Type(), named) {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Pos() < out[j].Pos() })
	return out
}

// sameNamed compares by package path and name. A package type-checked from
// source and the same package read from export data yield distinct objects.
func sameNamed(t types.Type, named *types.Named) bool {
	n, ok := t.(*types.Named)
	if !ok {
		return false
	}
	a, b := n.Obj(), named.Obj()
	if a == b {
		return true
	}
	return a.Name() == b.Name() && a.Pkg() != nil && b.Pkg() != nil && a.Pkg().Path() == b.Pkg().Path()
}

func constantValue(value constant.Value) any {
	switch value.Kind() {
	case constant.Int:
		if v, ok := constant.Int64Val(value); ok {
			return int(v)
		}
	case constant.String:
		// ExactString includes quotes, so use StringVal
		return constant.StringVal(value)
	case constant.Float:
		if v, ok := constant.Float64Val(value); ok {
			return v
		}
	case constant.Bool:
		return constant.BoolVal(value)
	}
	return value.ExactString()
}
