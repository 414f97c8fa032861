// Package compiler turns documentable struct types into component schemas.
package compiler

import (
	"errors"
	"go/types"
	"runtime"
	"sort"
	"sync"

	"github.com/griffnb/core-apidoc/internal/config"
	"github.com/griffnb/core-apidoc/internal/datetime"
	"github.com/griffnb/core-apidoc/internal/domain"
	"github.com/griffnb/core-apidoc/internal/loader"
	"github.com/griffnb/core-apidoc/internal/model"
	"github.com/griffnb/core-apidoc/internal/parser/field"
	"github.com/griffnb/core-apidoc/internal/parser/structural"
	"github.com/griffnb/core-apidoc/internal/registry"
	"github.com/griffnb/core-apidoc/internal/schema"
	"golang.org/x/sync/errgroup"
)

// Logger receives warnings and debug output.
type Logger interface {
	Warn(format string, args ...any)
	Printf(format string, v ...interface{})
}

type noOpLogger struct{}

func (noOpLogger) Warn(string, ...any)           {}
func (noOpLogger) Printf(string, ...interface{}) {}

// Service is the DataSchemaCompiler. It is safe for concurrent Compile calls.
type Service struct {
	cfg          *config.Config
	documentable *registry.Service
	schemas      *registry.SchemaRegistry
	enums        *model.EnumResolver
	mapper       *schema.TypeMapper
	dates        *datetime.Resolver
	structural   *structural.Service
	log          Logger
}

// NewService wires a compiler over the loaded packages.
func NewService(cfg *config.Config, result *loader.LoadResult, documentable *registry.Service, schemas *registry.SchemaRegistry) *Service {
	s := &Service{
		cfg:          cfg,
		documentable: documentable,
		schemas:      schemas,
		enums:        model.NewEnumResolver(model.NewPackageIndex(result.Packages), documentable),
		dates:        datetime.NewResolver(cfg),
		log:          noOpLogger{},
	}
	s.mapper = schema.NewTypeMapper(classifier{s})
	s.structural = structural.NewService(result.Fset, result.Packages, memberClassifier{s: s})
	return s
}

// SetLogger sets the warning and debug sink.
func (s *Service) SetLogger(log Logger) {
	if log != nil {
		s.log = log
		s.structural.SetDebugger(log)
	}
}

// Schemas returns the registry compiled schemas are stored in.
func (s *Service) Schemas() *registry.SchemaRegistry {
	return s.schemas
}

// Compile builds and registers the schema of one documentable struct.
// Caller overrides win over directive overrides of the same name.
func (s *Service) Compile(d *registry.Documentable, overrides []domain.PropertyOverride) (*domain.ClassSchema, error) {
	if d == nil || d.Obj == nil {
		return nil, &domain.ReflectionFailureError{Class: "<nil>", Err: errors.New("no type information")}
	}

	named, ok := d.Obj.Type().(*types.Named)
	if !ok {
		return nil, &domain.ReflectionFailureError{Class: d.Name, Err: errors.New("not a named type")}
	}

	fields, err := model.StructFields(named, s.cfg.Schema.NamingStrategy)
	if err != nil {
		return nil, &domain.ReflectionFailureError{Class: d.Name, Err: err}
	}

	classDates, err := dateOverrides(d)
	if err != nil {
		return nil, err
	}

	props := make([]domain.PropertySchema, 0, len(fields))
	for _, f := range fields {
		p, err := s.property(d.Name, f, classDates)
		if err != nil {
			return nil, err
		}
		props = append(props, p)
	}

	var inferred []schema.StructuralProp
	if fn, ok := model.SerializeMethod(named, s.cfg.Schema.SerializeMethod); ok {
		members := memberClassifier{s: s, class: d.Name, dates: classDates}
		for _, f := range s.structural.ExtractFieldsWith(fn, members) {
			inferred = append(inferred, schema.StructuralProp{Key: f.Key, Known: f.Known})
		}
		s.log.Printf("%s: %d serialized keys inferred from %s", d.Name, len(inferred), fn.Name())
	}

	directiveOverrides, err := propertyOverrides(d)
	if err != nil {
		return nil, err
	}

	cs, err := schema.Merge(props, inferred, append(directiveOverrides, overrides...), schema.MergeOptions{
		Class:          d.Name,
		Strict:         s.cfg.Schema.StrictMode,
		RequiredPolicy: s.cfg.Schema.RequiredPolicy,
		Warner:         s.log,
	})
	if err != nil {
		return nil, err
	}

	cs.PkgPath = d.PkgPath
	cs.Title = d.Name
	cs.Description = "Schema for " + d.Name
	marker := d.Marker()
	if title, ok := marker.Option("title"); ok {
		cs.Title = title
	}
	if desc, ok := marker.Option("description"); ok {
		cs.Description = desc
	}

	if err := s.schemas.RegisterClass(cs); err != nil {
		return nil, err
	}

	return cs, nil
}

// CompileEnum registers the schema of a documentable enum. An enum without
// cases registers nothing.
func (s *Service) CompileEnum(d *registry.Documentable) (*domain.EnumSchema, error) {
	named, ok := d.Obj.Type().(*types.Named)
	if !ok {
		return nil, &domain.ReflectionFailureError{Class: d.Name, Err: errors.New("not a named type")}
	}
	return s.resolveEnum(named, "", "")
}

// CompileAll compiles every documentable enum and struct concurrently.
// A struct that cannot be introspected is logged and skipped; every other
// failure is returned, sorted by message, once all work has finished.
func (s *Service) CompileAll() error {
	var (
		mu   sync.Mutex
		errs []error
	)
	record := func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())

	for _, d := range s.documentable.Enums() {
		d := d
		g.Go(func() error {
			if _, err := s.CompileEnum(d); err != nil {
				record(err)
			}
			return nil
		})
	}

	for _, d := range s.documentable.Schemas() {
		d := d
		g.Go(func() error {
			_, err := s.Compile(d, nil)
			var reflectErr *domain.ReflectionFailureError
			switch {
			case err == nil:
			case errors.As(err, &reflectErr):
				s.log.Warn("skipping schema: %v", err)
			default:
				record(err)
			}
			return nil
		})
	}

	_ = g.Wait()

	if len(errs) == 0 {
		return nil
	}
	sort.Slice(errs, func(i, j int) bool { return errs[i].Error() < errs[j].Error() })
	return errors.Join(errs...)
}

// resolveEnum resolves and registers an enum, filling the referencing
// class and property into a missing opt-in error.
func (s *Service) resolveEnum(named *types.Named, class, property string) (*domain.EnumSchema, error) {
	e, err := s.enums.Resolve(named)
	if err != nil {
		var optIn *domain.MissingEnumOptInError
		if errors.As(err, &optIn) {
			optIn.Class = class
			optIn.Property = property
		}
		return nil, err
	}
	if e == nil {
		return nil, nil
	}
	if err := s.schemas.RegisterEnum(e); err != nil {
		return nil, err
	}
	return e, nil
}

type classifier struct{ s *Service }

func (c classifier) IsEnum(named *types.Named) bool {
	return c.s.enums.IsEnum(named)
}

func (c classifier) IsSchema(named *types.Named) bool {
	d, ok := c.s.documentable.Lookup(named.Obj())
	return ok && d.Kind == domain.KindSchema
}

// memberClassifier maps receiver fields met by structural inference. The
// field's tags and the class date overrides apply under the serialized key.
type memberClassifier struct {
	s     *Service
	class string
	dates []datetime.Override
}

func (c memberClassifier) Member(key string, t types.Type, tag string) *domain.PropertySchema {
	tags := field.ParseTags(tag)

	var dateOverride *datetime.Override
	if tags.HasDateTime {
		dateOverride = &datetime.Override{Type: tags.DateTime.Type, Format: tags.DateTime.Format}
	}

	p, err := c.s.shape(c.class, c.s.mapper.Map(t), &dateContext{property: key, override: dateOverride, class: c.dates})
	if err != nil {
		return nil
	}

	p.Name = key
	p.Description = tags.Description
	if tags.HasExample && !p.IsRef() {
		p.Example = field.ConvertExample(tags.Example, p.Type)
	}
	return &p
}

func (c memberClassifier) EnumBacking(t types.Type) (*domain.PropertySchema, bool) {
	if ptr, ok := t.(*types.Pointer); ok {
		t = ptr.Elem()
	}
	named, ok := t.(*types.Named)
	if !ok || !c.s.enums.IsEnum(named) {
		return nil, false
	}
	return &domain.PropertySchema{Type: c.s.mapper.MapUnderlying(named).Type}, true
}
