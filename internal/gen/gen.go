// Package gen runs a generation and writes the document files.
package gen

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/griffnb/core-apidoc/internal/config"
	"github.com/griffnb/core-apidoc/internal/console"
	"github.com/griffnb/core-apidoc/internal/domain"
	"github.com/griffnb/core-apidoc/internal/orchestrator"
	"gopkg.in/yaml.v3"
)

// Output file names.
const (
	JSONFile = "openapi.json"
	YAMLFile = "openapi.yaml"
)

type genTypeEncoder func(tree *yaml.Node) (string, []byte, error)

// Gen presents a generate tool for apidoc.
type Gen struct {
	tree          func(doc *domain.Document) (*yaml.Node, error)
	jsonIndent    func(tree *yaml.Node) ([]byte, error)
	toYAML        func(tree *yaml.Node) ([]byte, error)
	outputTypeMap map[string]genTypeEncoder
	log           orchestrator.Logger
}

// New creates a new Gen.
func New() *Gen {
	gen := Gen{
		tree: func(doc *domain.Document) (*yaml.Node, error) {
			return doc.Tree()
		},
		jsonIndent: func(tree *yaml.Node) ([]byte, error) {
			return domain.EncodeJSON(tree, "    ")
		},
		toYAML: domain.EncodeYAML,
		log:    console.Logger,
	}

	gen.outputTypeMap = map[string]genTypeEncoder{
		"json": gen.encodeJSON,
		"yaml": gen.encodeYAML,
		"yml":  gen.encodeYAML,
	}

	return &gen
}

// Config presents Gen configurations.
type Config struct {
	// Log replaces the process logger.
	Log orchestrator.Logger

	// SearchDir is the root of the module to document.
	SearchDir string

	// Excludes dirs and files in SearchDir, comma separated.
	Excludes string

	// OutputDir represents the output directory for all the generated files.
	OutputDir string

	// OutputTypes define types of files which should be generated.
	OutputTypes []string

	// MainAPIFile the Go file path in which the general API info is written.
	MainAPIFile string

	// MarkdownFilesDir used to find markdown files, which can be used for tag descriptions.
	MarkdownFilesDir string

	// ConfigFile is the settings file. Empty looks for config.DefaultFile.
	ConfigFile string

	// Strict turns uninferable computed fields into errors.
	Strict bool

	// PropNamingStrategy overrides the naming strategy of the settings file.
	PropNamingStrategy string

	// ParseVendor whether apidoc should parse the vendor folder.
	ParseVendor bool

	// PackagePrefix parses only packages whose import path match the given prefix, comma separated.
	PackagePrefix string
}

// Build generates the document for cfg.SearchDir and writes one file per
// output type. Nothing is written unless every stage and every encoding
// succeeds.
func (g *Gen) Build(ctx context.Context, cfg *Config) error {
	if cfg.Log != nil {
		g.log = cfg.Log
	}

	if _, err := os.Stat(cfg.SearchDir); os.IsNotExist(err) {
		return fmt.Errorf("dir: %s does not exist", cfg.SearchDir)
	}

	app, err := g.loadSettings(cfg)
	if err != nil {
		return err
	}

	g.log.Debug("generate openapi docs....")

	orc := orchestrator.New(&orchestrator.Config{
		Dir:             cfg.SearchDir,
		MainAPIFile:     cfg.MainAPIFile,
		MarkdownFileDir: cfg.MarkdownFilesDir,
		Excludes:        parseExcludes(cfg.Excludes),
		PackagePrefix:   parsePackagePrefix(cfg.PackagePrefix),
		ParseVendor:     cfg.ParseVendor,
		App:             app,
		Log:             g.log,
	})

	doc, err := orc.Parse(ctx)
	if err != nil {
		return err
	}

	files, err := g.encode(cfg.OutputTypes, doc)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.OutputDir, os.ModePerm); err != nil {
		return err
	}
	if err := writeFiles(cfg.OutputDir, files); err != nil {
		return err
	}

	for _, name := range sortedNames(files) {
		g.log.Info("create %s", filepath.Join(cfg.OutputDir, name))
	}
	return nil
}

// loadSettings reads the settings file and applies the flag overrides.
func (g *Gen) loadSettings(cfg *Config) (*config.Config, error) {
	app, err := config.Load(cfg.ConfigFile)
	if err != nil {
		return nil, err
	}

	return app.With(func(c *config.Config) {
		if cfg.Strict {
			c.Schema.StrictMode = true
		}
		if cfg.PropNamingStrategy != "" {
			c.Schema.NamingStrategy = cfg.PropNamingStrategy
		}
	})
}

// encode produces the bytes of every requested output, keyed by file name.
// Every output is encoded from the same ordered tree.
func (g *Gen) encode(outputTypes []string, doc *domain.Document) (map[string][]byte, error) {
	if len(outputTypes) == 0 {
		return nil, errors.New("no output types given")
	}

	encoders := make([]genTypeEncoder, 0, len(outputTypes))
	for _, outputType := range outputTypes {
		outputType = strings.ToLower(strings.TrimSpace(outputType))
		encoder, ok := g.outputTypeMap[outputType]
		if !ok {
			return nil, fmt.Errorf("output type '%s' not supported", outputType)
		}
		encoders = append(encoders, encoder)
	}

	tree, err := g.tree(doc)
	if err != nil {
		return nil, err
	}

	files := make(map[string][]byte, len(encoders))
	for _, encoder := range encoders {
		name, b, err := encoder(tree)
		if err != nil {
			return nil, err
		}
		files[name] = b
	}
	return files, nil
}

func (g *Gen) encodeJSON(tree *yaml.Node) (string, []byte, error) {
	b, err := g.jsonIndent(tree)
	if err != nil {
		return "", nil, fmt.Errorf("cannot encode json: %w", err)
	}
	return JSONFile, append(b, '\n'), nil
}

func (g *Gen) encodeYAML(tree *yaml.Node) (string, []byte, error) {
	b, err := g.toYAML(tree)
	if err != nil {
		return "", nil, fmt.Errorf("cannot encode yaml: %w", err)
	}
	return YAMLFile, b, nil
}

// writeFiles stages every file in a temp file next to its target before
// renaming any of them. Staged files are removed when a step fails.
func writeFiles(dir string, files map[string][]byte) error {
	staged := make(map[string]string, len(files))
	cleanup := func() {
		for _, tmp := range staged {
			_ = os.Remove(tmp)
		}
	}

	for _, name := range sortedNames(files) {
		tmp, err := writeTemp(dir, name, files[name])
		if err != nil {
			cleanup()
			return err
		}
		staged[name] = tmp
	}

	for _, name := range sortedNames(files) {
		if err := os.Rename(staged[name], filepath.Join(dir, name)); err != nil {
			cleanup()
			return err
		}
		delete(staged, name)
	}
	return nil
}

func writeTemp(dir, name string, b []byte) (string, error) {
	f, err := os.CreateTemp(dir, "."+name+".*")
	if err != nil {
		return "", err
	}

	if _, err := f.Write(b); err != nil {
		f.Close()
		_ = os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", err
	}
	if err := os.Chmod(f.Name(), 0o644); err != nil {
		_ = os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

func sortedNames(files map[string][]byte) []string {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// parseExcludes converts comma-separated exclude string to map.
func parseExcludes(excludes string) map[string]struct{} {
	result := make(map[string]struct{})
	if excludes == "" {
		return result
	}

	for _, exclude := range strings.Split(excludes, ",") {
		exclude = strings.TrimSpace(exclude)
		if exclude != "" {
			result[exclude] = struct{}{}
		}
	}
	return result
}

// parsePackagePrefix converts comma-separated prefix string to slice.
func parsePackagePrefix(packagePrefix string) []string {
	if packagePrefix == "" {
		return []string{}
	}

	result := []string{}
	for _, prefix := range strings.Split(packagePrefix, ",") {
		prefix = strings.TrimSpace(prefix)
		if prefix != "" {
			result = append(result, prefix)
		}
	}
	return result
}
