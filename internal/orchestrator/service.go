// Package orchestrator assembles the OpenAPI document. It loads the
// packages, compiles the opted-in schemas, catalogs the routes and builds
// one operation per route before validating the result.
package orchestrator

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/griffnb/core-apidoc/internal/compiler"
	"github.com/griffnb/core-apidoc/internal/config"
	"github.com/griffnb/core-apidoc/internal/domain"
	"github.com/griffnb/core-apidoc/internal/loader"
	"github.com/griffnb/core-apidoc/internal/parser/base"
	"github.com/griffnb/core-apidoc/internal/parser/route"
	"github.com/griffnb/core-apidoc/internal/registry"
	"github.com/griffnb/core-apidoc/internal/response"
	"github.com/griffnb/core-apidoc/internal/schema"
)

// Logger is satisfied by console.Logger.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Printf(format string, args ...any)
}

type noOpLogger struct{}

func (noOpLogger) Debug(string, ...any)  {}
func (noOpLogger) Info(string, ...any)   {}
func (noOpLogger) Warn(string, ...any)   {}
func (noOpLogger) Printf(string, ...any) {}

// Config holds orchestrator configuration options.
type Config struct {
	// Dir is the root of the module to document.
	Dir string

	// MainAPIFile holds the general API annotations. Relative paths are
	// resolved against Dir. Empty skips the annotations.
	MainAPIFile string

	MarkdownFileDir string
	Excludes        map[string]struct{}
	PackagePrefix   []string
	ParseVendor     bool

	// App is the loaded configuration file. Nil uses the defaults.
	App *config.Config

	Log Logger
}

// Service coordinates one generation run. A Service is used once.
type Service struct {
	cfg          *Config
	app          *config.Config
	log          Logger
	loader       *loader.Service
	documentable *registry.Service
	schemas      *registry.SchemaRegistry
	routeParser  *route.Service
	shapes       *response.ShapeBuilder
	errors       *response.ErrorBuilder
}

// New creates a new orchestrator service with the given configuration.
func New(cfg *Config) *Service {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.Dir == "" {
		cfg.Dir = "."
	}
	if cfg.Excludes == nil {
		cfg.Excludes = make(map[string]struct{})
	}

	app := cfg.App
	if app == nil {
		app = config.Default()
	}

	var log Logger = noOpLogger{}
	if cfg.Log != nil {
		log = cfg.Log
	}

	documentable := registry.NewService()
	documentable.SetDebugger(log)

	routeParser := route.NewService(app)
	routeParser.SetDebugger(log)

	return &Service{
		cfg: cfg,
		app: app,
		log: log,
		loader: loader.NewService(
			loader.WithParseVendor(cfg.ParseVendor),
			loader.WithExcludes(cfg.Excludes),
			loader.WithPackagePrefix(cfg.PackagePrefix),
			loader.WithDebugger(log),
		),
		documentable: documentable,
		schemas:      registry.NewSchemaRegistry(),
		routeParser:  routeParser,
		shapes:       response.NewShapeBuilder(app),
		errors:       response.NewErrorBuilder(app),
	}
}

// Parse runs the whole pipeline and returns a validated document. Nothing
// is returned when any stage fails.
func (s *Service) Parse(ctx context.Context) (*domain.Document, error) {
	s.log.Debug("orchestrator: loading packages in %s", s.cfg.Dir)
	result, err := s.loader.Load(ctx, s.cfg.Dir)
	if err != nil {
		return nil, err
	}

	if err := s.documentable.Collect(result.Files); err != nil {
		return nil, err
	}

	comp := compiler.NewService(s.app, result, s.documentable, s.schemas)
	comp.SetLogger(s.log)
	if err := comp.CompileAll(); err != nil {
		return nil, err
	}
	s.log.Debug("orchestrator: compiled %d schemas", s.schemas.Len())

	doc := domain.NewDocument()
	if err := s.parseGeneralInfo(doc); err != nil {
		return nil, err
	}

	routes, err := s.parseRoutesParallel(result)
	if err != nil {
		return nil, err
	}
	s.log.Debug("orchestrator: cataloged %d routes", len(routes))

	assembler := newOperationBuilder(s, newTypeResolver(result, s.documentable, s.schemas))
	for _, r := range routes {
		op, err := assembler.build(r)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", routeSource(r), err)
		}
		item, ok := doc.Paths[r.Path]
		if !ok {
			item = &domain.PathItem{}
			doc.Paths[r.Path] = item
		}
		item.SetOperation(r.Method, op)
	}
	addOperationTags(doc)

	if err := s.addComponents(doc, assembler.usesDefaultEnvelope); err != nil {
		return nil, err
	}

	if err := checkRefs(doc); err != nil {
		return nil, err
	}
	if err := validateDocument(doc); err != nil {
		return nil, err
	}

	s.log.Info("documented %d paths and %d schemas", len(doc.Paths), len(doc.Components.Schemas))
	return doc, nil
}

func (s *Service) parseGeneralInfo(doc *domain.Document) error {
	info := base.NewService(doc)
	info.SetDebugger(s.log)
	if s.cfg.MarkdownFileDir != "" {
		info.SetMarkdownFileDir(s.cfg.MarkdownFileDir)
	}

	if s.cfg.MainAPIFile != "" {
		mainFile := s.cfg.MainAPIFile
		if !filepath.IsAbs(mainFile) {
			mainFile = filepath.Join(s.cfg.Dir, mainFile)
		}
		if err := info.ParseGeneralAPIInfo(mainFile); err != nil {
			return err
		}
	}

	info.ApplyConfig(s.app)
	return nil
}

// addComponents renders every registered schema. The default error
// envelope is added under its fixed name when a response uses it.
func (s *Service) addComponents(doc *domain.Document, withErrorEnvelope bool) error {
	for _, name := range s.schemas.Names() {
		entry, _ := s.schemas.Get(name)
		switch {
		case entry.Class != nil:
			doc.Components.Schemas[name] = schema.RenderClass(entry.Class)
		case entry.Enum != nil:
			doc.Components.Schemas[name] = schema.RenderEnum(entry.Enum)
		}
	}

	if !withErrorEnvelope {
		return nil
	}
	if entry, ok := s.schemas.Get(response.ErrorSchema); ok {
		return &domain.NameCollisionError{
			Name:     response.ErrorSchema,
			Existing: entry.PkgPath + "." + entry.Name,
			Incoming: "the default error envelope",
		}
	}
	doc.Components.Schemas[response.ErrorSchema] = response.Envelope()
	return nil
}
