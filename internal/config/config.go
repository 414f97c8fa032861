// Package config loads the read-only settings of a generation run.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFile is looked up in the working directory when no file is given.
const DefaultFile = ".apidoc.yaml"

// Semantic date types.
const (
	DateType     = "date"
	TimeType     = "time"
	DateTimeType = "datetime"
)

// Required policies.
const (
	RequiredAll         = "all"
	RequiredNonNullable = "non-nullable"
)

// Config is immutable once loaded; accessors never mutate it.
type Config struct {
	Info       InfoConfig      `yaml:"info"`
	Servers    []ServerConfig  `yaml:"servers"`
	Schema     SchemaConfig    `yaml:"schema"`
	Routes     RoutesConfig    `yaml:"routes"`
	Responses  ResponsesConfig `yaml:"responses"`
	excludeRes []*regexp.Regexp
}

// InfoConfig fills the document info object.
type InfoConfig struct {
	Title       string `yaml:"title"`
	Version     string `yaml:"version"`
	Description string `yaml:"description"`
}

// ServerConfig is one server entry of the document.
type ServerConfig struct {
	URL         string `yaml:"url"`
	Description string `yaml:"description"`
}

// SchemaConfig drives schema compilation.
type SchemaConfig struct {
	StrictMode      bool              `yaml:"strict_mode"`
	DateFormats     map[string]string `yaml:"date_formats"`
	SerializeMethod string            `yaml:"serialize_method"`
	NamingStrategy  string            `yaml:"naming_strategy"`
	RequiredPolicy  string            `yaml:"required_policy"`
}

// RoutesConfig filters the route catalog.
type RoutesConfig struct {
	Files              []string `yaml:"files"`
	ExcludePaths       []string `yaml:"exclude_paths"`
	SkipControllerLess bool     `yaml:"skip_controller_less"`
}

// ResponsesConfig holds success envelope and error response settings.
type ResponsesConfig struct {
	// Success maps a response kind to a component schema replacing its envelope.
	Success map[string]string `yaml:"success"`
	Errors  ErrorsConfig      `yaml:"errors"`
}

// ErrorsConfig drives error response generation.
type ErrorsConfig struct {
	// Defaults maps an upper-case HTTP verb to its status codes.
	Defaults map[string][]int `yaml:"defaults"`
	// Schema replaces the default error envelope for every status.
	Schema string `yaml:"schema"`
	// StatusSchemas replaces the envelope for a single status.
	StatusSchemas map[int]string `yaml:"status_schemas"`
	Descriptions  map[int]string `yaml:"descriptions"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	c := &Config{
		Info: InfoConfig{
			Title:   "API Documentation",
			Version: "1.0.0",
		},
		Schema: SchemaConfig{
			DateFormats: map[string]string{
				DateType:     "YYYY-MM-DD",
				TimeType:     "HH:mm:ss",
				DateTimeType: "YYYY-MM-DD HH:mm:ss",
			},
			SerializeMethod: "ToMap",
			NamingStrategy:  "camelcase",
			RequiredPolicy:  RequiredAll,
		},
		Responses: ResponsesConfig{
			Success: map[string]string{},
			Errors: ErrorsConfig{
				Defaults:      DefaultErrorStatuses(),
				StatusSchemas: map[int]string{},
				Descriptions:  map[int]string{},
			},
		},
	}
	return c
}

// DefaultErrorStatuses returns the error statuses documented per verb.
func DefaultErrorStatuses() map[string][]int {
	return map[string][]int{
		"GET":    {401, 403, 404, 429, 500},
		"POST":   {400, 401, 403, 422, 429, 500},
		"PUT":    {400, 401, 403, 404, 422, 429, 500},
		"PATCH":  {400, 401, 403, 404, 422, 429, 500},
		"DELETE": {401, 403, 404, 429, 500},
	}
}

// fallbackErrorStatuses applies to verbs without an entry.
var fallbackErrorStatuses = []int{400, 401, 403, 404, 405, 422, 429, 500}

// Load reads path. An empty path loads DefaultFile if it exists and the
// defaults otherwise; an explicit path must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	f, err := os.Open(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Default().finish()
		}
		return nil, fmt.Errorf("could not open config file %s: %w", path, err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse decodes YAML on top of the defaults.
func Parse(r io.Reader) (*Config, error) {
	c := Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("could not parse config: %w", err)
	}

	return c.finish()
}

func (c *Config) finish() (*Config, error) {
	defaults := Default()

	// A null key decodes to a nil map.
	if c.Schema.DateFormats == nil {
		c.Schema.DateFormats = map[string]string{}
	}
	if c.Responses.Success == nil {
		c.Responses.Success = map[string]string{}
	}
	if c.Responses.Errors.StatusSchemas == nil {
		c.Responses.Errors.StatusSchemas = map[int]string{}
	}
	if c.Responses.Errors.Descriptions == nil {
		c.Responses.Errors.Descriptions = map[int]string{}
	}
	if c.Responses.Errors.Defaults == nil {
		c.Responses.Errors.Defaults = defaults.Responses.Errors.Defaults
	}

	for k, v := range defaults.Schema.DateFormats {
		if _, ok := c.Schema.DateFormats[k]; !ok {
			c.Schema.DateFormats[k] = v
		}
	}
	if c.Schema.SerializeMethod == "" {
		c.Schema.SerializeMethod = defaults.Schema.SerializeMethod
	}
	if c.Schema.NamingStrategy == "" {
		c.Schema.NamingStrategy = defaults.Schema.NamingStrategy
	}

	switch c.Schema.RequiredPolicy {
	case "":
		c.Schema.RequiredPolicy = RequiredAll
	case RequiredAll, RequiredNonNullable:
	default:
		return nil, fmt.Errorf("unknown required_policy %q", c.Schema.RequiredPolicy)
	}

	normalized := make(map[string][]int, len(c.Responses.Errors.Defaults))
	for verb, codes := range c.Responses.Errors.Defaults {
		normalized[strings.ToUpper(verb)] = codes
	}
	c.Responses.Errors.Defaults = normalized

	c.excludeRes = c.excludeRes[:0]
	for _, pattern := range c.Routes.ExcludePaths {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude path pattern %q: %w", pattern, err)
		}
		c.excludeRes = append(c.excludeRes, re)
	}

	return c, nil
}

// With returns a copy with fn applied. CLI flags use it to override file values.
func (c *Config) With(fn func(*Config)) (*Config, error) {
	cp := *c
	cp.Schema.DateFormats = copyMap(c.Schema.DateFormats)
	cp.Responses.Success = copyMap(c.Responses.Success)
	cp.Responses.Errors.StatusSchemas = copyMap(c.Responses.Errors.StatusSchemas)
	cp.Responses.Errors.Descriptions = copyMap(c.Responses.Errors.Descriptions)
	cp.Responses.Errors.Defaults = make(map[string][]int, len(c.Responses.Errors.Defaults))
	for k, v := range c.Responses.Errors.Defaults {
		cp.Responses.Errors.Defaults[k] = append([]int(nil), v...)
	}
	cp.excludeRes = nil
	fn(&cp)
	return cp.finish()
}

// DateFormat returns the literal pattern for a semantic date type.
func (c *Config) DateFormat(semanticType string) string {
	if f, ok := c.Schema.DateFormats[semanticType]; ok && f != "" {
		return f
	}
	return Default().Schema.DateFormats[DateTimeType]
}

// ErrorStatuses returns the documented error statuses for an HTTP verb, sorted.
func (c *Config) ErrorStatuses(verb string) []int {
	codes, ok := c.Responses.Errors.Defaults[strings.ToUpper(verb)]
	if !ok {
		codes = fallbackErrorStatuses
	}
	out := append([]int(nil), codes...)
	sort.Ints(out)
	return out
}

// SuccessOverride returns the schema replacing the envelope of kind.
func (c *Config) SuccessOverride(kind string) (string, bool) {
	s, ok := c.Responses.Success[kind]
	return s, ok && s != ""
}

// ErrorSchema returns the schema override for status, per status first.
func (c *Config) ErrorSchema(status int) (string, bool) {
	if s, ok := c.Responses.Errors.StatusSchemas[status]; ok && s != "" {
		return s, true
	}
	if c.Responses.Errors.Schema != "" {
		return c.Responses.Errors.Schema, true
	}
	return "", false
}

// ErrorDescription returns the configured description for status.
func (c *Config) ErrorDescription(status int) (string, bool) {
	s, ok := c.Responses.Errors.Descriptions[status]
	return s, ok && s != ""
}

// IsExcludedPath reports whether a route path matches an exclusion pattern.
func (c *Config) IsExcludedPath(path string) bool {
	for _, re := range c.excludeRes {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

// IsAllowedFile reports whether routes declared in file are documented.
// An empty allow list admits every file.
func (c *Config) IsAllowedFile(file string) bool {
	if len(c.Routes.Files) == 0 {
		return true
	}
	slashed := strings.ReplaceAll(file, "\\", "/")
	for _, allowed := range c.Routes.Files {
		if strings.HasSuffix(slashed, strings.TrimPrefix(allowed, "./")) {
			return true
		}
	}
	return false
}

func copyMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
