package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("should keep defaults for an empty document", func(t *testing.T) {
		c, err := Parse(strings.NewReader(""))
		require.NoError(t, err)

		assert.False(t, c.Schema.StrictMode)
		assert.Equal(t, "YYYY-MM-DD HH:mm:ss", c.DateFormat(DateTimeType))
		assert.Equal(t, "YYYY-MM-DD", c.DateFormat(DateType))
		assert.Equal(t, "HH:mm:ss", c.DateFormat(TimeType))
		assert.Equal(t, "ToMap", c.Schema.SerializeMethod)
		assert.Equal(t, RequiredAll, c.Schema.RequiredPolicy)
	})

	t.Run("should merge file values over defaults", func(t *testing.T) {
		src := `
schema:
  strict_mode: true
  date_formats:
    date: DD/MM/YYYY
responses:
  success:
    paginated: CustomPage
  errors:
    defaults:
      get: [404, 500]
    schema: ApiError
    status_schemas:
      422: ValidationError
    descriptions:
      404: Resource missing
routes:
  exclude_paths: ["^/internal"]
`
		c, err := Parse(strings.NewReader(src))
		require.NoError(t, err)

		assert.True(t, c.Schema.StrictMode)
		assert.Equal(t, "DD/MM/YYYY", c.DateFormat(DateType))
		assert.Equal(t, "HH:mm:ss", c.DateFormat(TimeType))
		assert.Equal(t, []int{404, 500}, c.ErrorStatuses("get"))
		assert.Equal(t, []int{400, 401, 403, 422, 429, 500}, c.ErrorStatuses("POST"))

		s, ok := c.SuccessOverride("paginated")
		assert.True(t, ok)
		assert.Equal(t, "CustomPage", s)
		_, ok = c.SuccessOverride("single")
		assert.False(t, ok)

		s, _ = c.ErrorSchema(422)
		assert.Equal(t, "ValidationError", s)
		s, _ = c.ErrorSchema(500)
		assert.Equal(t, "ApiError", s)

		d, ok := c.ErrorDescription(404)
		assert.True(t, ok)
		assert.Equal(t, "Resource missing", d)

		assert.True(t, c.IsExcludedPath("/internal/health"))
		assert.False(t, c.IsExcludedPath("/orders"))
	})

	t.Run("should keep defaults for null maps", func(t *testing.T) {
		src := `
schema:
  date_formats:
responses:
  success:
  errors:
    defaults:
    status_schemas:
    descriptions:
`
		c, err := Parse(strings.NewReader(src))
		require.NoError(t, err)

		assert.Equal(t, "YYYY-MM-DD", c.DateFormat(DateType))
		assert.Equal(t, "YYYY-MM-DD HH:mm:ss", c.DateFormat(DateTimeType))
		assert.Equal(t, []int{401, 403, 404, 429, 500}, c.ErrorStatuses("GET"))
		_, ok := c.SuccessOverride("single")
		assert.False(t, ok)
		_, ok = c.ErrorSchema(404)
		assert.False(t, ok)
		_, ok = c.ErrorDescription(404)
		assert.False(t, ok)

		cp, err := c.With(func(c *Config) { c.Schema.StrictMode = true })
		require.NoError(t, err)
		assert.True(t, cp.Schema.StrictMode)
	})

	t.Run("should reject unknown keys", func(t *testing.T) {
		_, err := Parse(strings.NewReader("schema:\n  strict: true\n"))
		assert.Error(t, err)
	})

	t.Run("should reject bad exclusion patterns", func(t *testing.T) {
		_, err := Parse(strings.NewReader("routes:\n  exclude_paths: ['(']\n"))
		assert.ErrorContains(t, err, "invalid exclude path pattern")
	})

	t.Run("should reject unknown required policies", func(t *testing.T) {
		_, err := Parse(strings.NewReader("schema:\n  required_policy: some\n"))
		assert.ErrorContains(t, err, "required_policy")
	})
}

func TestErrorStatuses(t *testing.T) {
	c := Default()

	tests := []struct {
		verb string
		want []int
	}{
		{"GET", []int{401, 403, 404, 429, 500}},
		{"POST", []int{400, 401, 403, 422, 429, 500}},
		{"PUT", []int{400, 401, 403, 404, 422, 429, 500}},
		{"PATCH", []int{400, 401, 403, 404, 422, 429, 500}},
		{"DELETE", []int{401, 403, 404, 429, 500}},
		{"OPTIONS", []int{400, 401, 403, 404, 405, 422, 429, 500}},
	}

	for _, tt := range tests {
		t.Run(tt.verb, func(t *testing.T) {
			assert.Equal(t, tt.want, c.ErrorStatuses(tt.verb))
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("should error on a missing explicit file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("should read an explicit file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "apidoc.yaml")
		require.NoError(t, os.WriteFile(path, []byte("info:\n  title: Orders API\n"), 0o644))

		c, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "Orders API", c.Info.Title)
		assert.Equal(t, "1.0.0", c.Info.Version)
	})
}

func TestWith(t *testing.T) {
	base := Default()

	strict, err := base.With(func(c *Config) {
		c.Schema.StrictMode = true
		c.Schema.DateFormats[DateType] = "YYYY"
	})
	require.NoError(t, err)

	assert.True(t, strict.Schema.StrictMode)
	assert.False(t, base.Schema.StrictMode)
	assert.Equal(t, "YYYY-MM-DD", base.DateFormat(DateType))
}

func TestIsAllowedFile(t *testing.T) {
	c := Default()
	assert.True(t, c.IsAllowedFile("/app/handlers/orders.go"))

	c, err := c.With(func(c *Config) { c.Routes.Files = []string{"handlers/orders.go"} })
	require.NoError(t, err)
	assert.True(t, c.IsAllowedFile("/app/handlers/orders.go"))
	assert.False(t, c.IsAllowedFile("/app/handlers/users.go"))
}
