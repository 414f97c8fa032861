package compiler

import (
	"fmt"

	"github.com/griffnb/core-apidoc/internal/datetime"
	"github.com/griffnb/core-apidoc/internal/domain"
	"github.com/griffnb/core-apidoc/internal/model"
	"github.com/griffnb/core-apidoc/internal/parser/field"
	"github.com/griffnb/core-apidoc/internal/registry"
	"github.com/griffnb/core-apidoc/internal/schema"
)

// property builds the schema of one struct field.
func (s *Service) property(class string, f model.FieldInfo, classDates []datetime.Override) (domain.PropertySchema, error) {
	m := s.mapper.Map(f.Type)

	var dateOverride *datetime.Override
	if f.Tags.HasDateTime {
		dateOverride = &datetime.Override{Type: f.Tags.DateTime.Type, Format: f.Tags.DateTime.Format}
	}

	p, err := s.shape(class, m, &dateContext{property: f.Name, override: dateOverride, class: classDates})
	if err != nil {
		return domain.PropertySchema{}, err
	}

	p.Name = f.Name
	p.Description = f.Tags.Description
	if f.Tags.HasExample && !p.IsRef() {
		p.Example = field.ConvertExample(f.Tags.Example, p.Type)
	}

	return p, nil
}

// dateContext carries the override sources of the field being shaped.
type dateContext struct {
	property string
	override *datetime.Override
	class    []datetime.Override
}

// shape converts a type mapping into a property. Enums are resolved and
// registered on the way; a nil dateContext resolves dates by the global
// default.
func (s *Service) shape(class string, m schema.Mapping, dates *dateContext) (domain.PropertySchema, error) {
	p := domain.PropertySchema{Nullable: m.Nullable}

	switch m.Kind {
	case schema.KindDateTime:
		var spec domain.FormatSpec
		if dates == nil {
			spec = s.dates.Resolve("", nil, nil)
		} else {
			spec = s.dates.Resolve(dates.property, dates.override, dates.class)
		}
		p.Type = domain.TypeString
		p.Format = spec.OpenAPIFormat
		p.Example = spec.Example
		p.Extensions = map[string]any{domain.ExtensionDateFormat: spec.LiteralFormat}

	case schema.KindEnum:
		property := ""
		if dates != nil {
			property = dates.property
		}
		e, err := s.resolveEnum(m.Named, class, property)
		if err != nil {
			return p, err
		}
		if e == nil {
			under := s.mapper.MapUnderlying(m.Named)
			p.Type = under.Type
			p.Example = under.Example
			break
		}
		p.Ref = e.Name

	case schema.KindRef:
		p.Ref = m.Named.Obj().Name()

	case schema.KindArray:
		p.Type = domain.TypeArray
		p.Example = m.Example
		if m.Items != nil {
			items, err := s.shape(class, *m.Items, dates)
			if err != nil {
				return p, err
			}
			p.Items = &items
		}

	default:
		p.Type = m.Type
		p.Format = m.Format
		p.Example = m.Example
	}

	return p, nil
}

// dateOverrides reads class level `//apidoc:datetime <property> type= format=`
// directives.
func dateOverrides(d *registry.Documentable) ([]datetime.Override, error) {
	var out []datetime.Override
	for _, dir := range d.DirectivesNamed(field.DirectiveDateTime) {
		if len(dir.Args) == 0 {
			return nil, fmt.Errorf("%s: datetime directive needs a property name", d.Name)
		}
		typ, _ := dir.Option("type")
		format, _ := dir.Option("format")
		out = append(out, datetime.Override{Property: dir.Args[0], Type: typ, Format: format})
	}
	return out, nil
}

// propertyOverrides reads `//apidoc:property <name> ...` directives.
func propertyOverrides(d *registry.Documentable) ([]domain.PropertyOverride, error) {
	var out []domain.PropertyOverride
	for _, dir := range d.DirectivesNamed(field.DirectiveProperty) {
		o, err := PropertyOverride(dir)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", d.Name, err)
		}
		out = append(out, o)
	}
	return out, nil
}

// PropertyOverride converts one property directive. Recognized options are
// type, format, example, description, ref and items; the bare word nullable
// marks the property nullable.
//
//	//apidoc:property formatted_total type=string example="$99.99"
//	//apidoc:property line_ids type=array items=integer
func PropertyOverride(dir field.Directive) (domain.PropertyOverride, error) {
	if len(dir.Args) == 0 || dir.Args[0] == "nullable" {
		return domain.PropertyOverride{}, fmt.Errorf("property directive needs a property name")
	}

	p := domain.PropertySchema{Name: dir.Args[0]}

	if expr, ok := dir.Option("type"); ok {
		parsed, err := schema.ParseTypeExpr(expr)
		if err != nil {
			return domain.PropertyOverride{}, fmt.Errorf("property %s: %w", p.Name, err)
		}
		p.Type, p.Ref, p.Items = parsed.Type, parsed.Ref, parsed.Items
	}
	if ref, ok := dir.Option("ref"); ok {
		p.Type, p.Ref = "", ref
	}
	if items, ok := dir.Option("items"); ok {
		parsed, err := schema.ParseTypeExpr(items)
		if err != nil {
			return domain.PropertyOverride{}, fmt.Errorf("property %s items: %w", p.Name, err)
		}
		p.Type = domain.TypeArray
		p.Ref = ""
		p.Items = &parsed
	}

	p.Format, _ = dir.Option("format")
	p.Description, _ = dir.Option("description")
	if example, ok := dir.Option("example"); ok {
		p.Example = field.ConvertExample(example, p.Type)
	}
	p.Nullable = dir.HasFlag("nullable")

	return domain.PropertyOverride(p), nil
}
