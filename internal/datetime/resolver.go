package datetime

import (
	"github.com/griffnb/core-apidoc/internal/config"
	"github.com/griffnb/core-apidoc/internal/domain"
	"github.com/griffnb/core-apidoc/internal/parser/field"
)

// Override is a (semantic type, literal format) pair. Property names the
// target field for class level overrides and is empty at property level.
type Override struct {
	Property string
	Type     string
	Format   string
}

// IsZero reports whether the override carries neither a type nor a format.
func (o Override) IsZero() bool {
	return o.Type == "" && o.Format == ""
}

// Resolver picks the FormatSpec of a date-time property.
type Resolver struct {
	cfg *config.Config
}

// NewResolver creates a resolver reading date format defaults from cfg.
func NewResolver(cfg *config.Config) *Resolver {
	return &Resolver{cfg: cfg}
}

// Resolve applies, first match wins: the property level override, the class
// level override list matched by exact or snake_case name, then the global
// datetime default.
func (r *Resolver) Resolve(property string, propertyLevel *Override, classLevel []Override) domain.FormatSpec {
	if propertyLevel != nil && !propertyLevel.IsZero() {
		return r.fromOverride(*propertyLevel)
	}

	snake := field.ToSnakeCase(property)
	for _, o := range classLevel {
		if o.IsZero() {
			continue
		}
		if o.Property == property || o.Property == snake {
			return r.fromOverride(o)
		}
	}

	literal := r.cfg.DateFormat(config.DateTimeType)
	return domain.FormatSpec{
		OpenAPIFormat: FormatDateTime,
		LiteralFormat: literal,
		Example:       Example(literal),
	}
}

func (r *Resolver) fromOverride(o Override) domain.FormatSpec {
	if o.Format != "" {
		return domain.FormatSpec{
			OpenAPIFormat: InferFormat(o.Format),
			LiteralFormat: o.Format,
			Example:       Example(o.Format),
		}
	}

	literal := r.cfg.DateFormat(o.Type)
	return domain.FormatSpec{
		OpenAPIFormat: semanticFormat(o.Type),
		LiteralFormat: literal,
		Example:       Example(literal),
	}
}

func semanticFormat(semanticType string) string {
	switch semanticType {
	case config.DateType:
		return FormatDate
	case config.TimeType:
		return FormatTime
	default:
		return FormatDateTime
	}
}
