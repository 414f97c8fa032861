package schema

import (
	"github.com/griffnb/core-apidoc/internal/config"
	"github.com/griffnb/core-apidoc/internal/domain"
	"github.com/griffnb/core-apidoc/internal/parser/field"
)

// Warner receives best-effort degradation messages.
type Warner interface {
	Warn(format string, args ...any)
}

// StructuralProp is one key of the serialization method's literal map.
// Known is nil when the value expression could not be classified.
type StructuralProp struct {
	Key   string
	Known *domain.PropertySchema
}

// MergeOptions drive SchemaMerger.
type MergeOptions struct {
	Class          string
	Strict         bool
	RequiredPolicy string
	Warner         Warner
}

// Merge reconciles struct properties, structurally inferred keys and
// explicit overrides into one schema. Precedence per key: override, then
// struct property (exact or bridged name), then a known structural type.
// Unknown keys without a struct counterpart are computed fields.
func Merge(constructor []domain.PropertySchema, structural []StructuralProp, overrides []domain.PropertyOverride, opts MergeOptions) (*domain.ClassSchema, error) {
	byName := make(map[string]domain.PropertySchema, len(constructor))
	for _, p := range constructor {
		byName[p.Name] = p
	}

	overrideByName := make(map[string]domain.PropertyOverride, len(overrides))
	for _, o := range overrides {
		overrideByName[o.Name] = o
	}
	used := make(map[string]bool, len(overrides))

	var props []domain.PropertySchema
	seen := map[string]bool{}

	if len(structural) > 0 {
		for _, sp := range structural {
			if seen[sp.Key] {
				continue
			}
			seen[sp.Key] = true

			base, hasBase := matchConstructor(byName, sp.Key)
			if !hasBase && sp.Known != nil {
				base, hasBase = sp.Known.Clone(), true
			}

			if o, ok := overrideByName[sp.Key]; ok {
				used[sp.Key] = true
				props = append(props, applyOverride(sp.Key, o, base, hasBase))
				continue
			}

			if hasBase {
				base.Name = sp.Key
				props = append(props, base)
				continue
			}

			if opts.Strict {
				return nil, &domain.UndefinedComputedFieldError{Field: sp.Key, Class: opts.Class}
			}
			warn(opts.Warner, "%s: computed field %q has no inferable type, documenting it as string", opts.Class, sp.Key)
			props = append(props, domain.PropertySchema{
				Name:    sp.Key,
				Type:    domain.TypeString,
				Example: DefaultExample(domain.TypeString),
			})
		}

		for _, o := range overrides {
			if !used[o.Name] {
				warn(opts.Warner, "%s: override for %q matches no serialized field and was dropped", opts.Class, o.Name)
			}
		}
	} else {
		for _, p := range constructor {
			if o, ok := overrideByName[p.Name]; ok {
				used[p.Name] = true
				props = append(props, applyOverride(p.Name, o, p, true))
				continue
			}
			props = append(props, p.Clone())
		}

		for _, o := range overrides {
			if used[o.Name] {
				continue
			}
			used[o.Name] = true
			props = append(props, applyOverride(o.Name, o, domain.PropertySchema{}, false))
		}
	}

	cs := &domain.ClassSchema{Name: opts.Class, Properties: props}
	for i := range cs.Properties {
		p := &cs.Properties[i]
		p.Required = opts.RequiredPolicy != config.RequiredNonNullable || !p.Nullable
		if p.Required {
			cs.Required = append(cs.Required, p.Name)
		}
	}

	return cs, nil
}

// matchConstructor looks the key up by exact name, then by its bridged
// camelCase form.
func matchConstructor(byName map[string]domain.PropertySchema, key string) (domain.PropertySchema, bool) {
	if p, ok := byName[key]; ok {
		return p.Clone(), true
	}
	if p, ok := byName[field.BridgeName(key)]; ok {
		return p.Clone(), true
	}
	return domain.PropertySchema{}, false
}

// applyOverride returns the override as the property. An override naming
// neither a type nor a ref keeps the inferred shape, or string without one.
func applyOverride(name string, o domain.PropertyOverride, base domain.PropertySchema, hasBase bool) domain.PropertySchema {
	p := domain.PropertySchema(o).Clone()
	p.Name = name

	if p.Type != "" || p.Ref != "" {
		return p
	}

	if hasBase {
		p.Type = base.Type
		p.Ref = base.Ref
		if p.Format == "" {
			p.Format = base.Format
		}
		if p.Items == nil && base.Items != nil {
			items := base.Items.Clone()
			p.Items = &items
		}
		if p.Extensions == nil && base.Extensions != nil {
			p.Extensions = base.Clone().Extensions
		}
		if p.Type != "" || p.Ref != "" {
			return p
		}
	}

	p.Type = domain.TypeString
	return p
}

func warn(w Warner, format string, args ...any) {
	if w == nil {
		return
	}
	w.Warn(format, args...)
}
