package model

import (
	"go/constant"
	"go/types"

	"github.com/griffnb/core-apidoc/internal/domain"
	"github.com/griffnb/core-apidoc/internal/registry"
)

// unbackedFlag on the enum directive documents case names only.
const unbackedFlag = "unbacked"

// EnumResolver builds EnumSchemas for opted-in enum types.
type EnumResolver struct {
	index        *PackageIndex
	documentable *registry.Service
}

// NewEnumResolver creates a resolver reading constants from index.
func NewEnumResolver(index *PackageIndex, documentable *registry.Service) *EnumResolver {
	return &EnumResolver{index: index, documentable: documentable}
}

// IsEnum reports whether named looks like an enum: a basic underlying type
// with at least one typed constant, or an explicit enum marker.
func (r *EnumResolver) IsEnum(named *types.Named) bool {
	if _, ok := named.Underlying().(*types.Basic); !ok {
		return false
	}
	if d, ok := r.documentable.Lookup(named.Obj()); ok && d.Kind == domain.KindEnum {
		return true
	}
	return r.index.HasConstants(named)
}

// Resolve returns the EnumSchema of named. The error is a
// MissingEnumOptInError when the type lacks the enum directive; Class and
// Property are left for the caller. A nil schema with a nil error means the
// enum has no cases.
func (r *EnumResolver) Resolve(named *types.Named) (*domain.EnumSchema, error) {
	obj := named.Obj()
	d, ok := r.documentable.Lookup(obj)
	if !ok || d.Kind != domain.KindEnum {
		return nil, &domain.MissingEnumOptInError{Enum: qualifiedName(obj)}
	}

	cases := r.index.GetEnumsForType(named)
	if len(cases) == 0 {
		return nil, nil
	}

	marker := d.Marker()
	schema := &domain.EnumSchema{
		Name:        obj.Name(),
		PkgPath:     d.PkgPath,
		Title:       obj.Name(),
		Description: "Enum for " + obj.Name(),
		Backing:     backingKind(cases[0].Kind),
	}
	if title, ok := marker.Option("title"); ok {
		schema.Title = title
	}
	if desc, ok := marker.Option("description"); ok {
		schema.Description = desc
	}
	if marker.HasFlag(unbackedFlag) {
		schema.Backing = domain.BackingNone
	}

	for _, c := range cases {
		schema.CaseNames = append(schema.CaseNames, c.Key)
		if schema.Backing == domain.BackingNone {
			schema.Values = append(schema.Values, c.Key)
			continue
		}
		schema.Values = append(schema.Values, c.Value)
	}

	return schema, nil
}

// backingKind is decided by the first case.
func backingKind(kind constant.Kind) domain.BackingKind {
	switch kind {
	case constant.Int:
		return domain.BackingInteger
	case constant.String:
		return domain.BackingString
	default:
		return domain.BackingNone
	}
}

func qualifiedName(obj *types.TypeName) string {
	if obj.Pkg() == nil {
		return obj.Name()
	}
	return obj.Pkg().Path() + "." + obj.Name()
}
