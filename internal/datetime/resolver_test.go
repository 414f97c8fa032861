package datetime

import (
	"testing"

	"github.com/griffnb/core-apidoc/internal/config"
	"github.com/griffnb/core-apidoc/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_Resolve(t *testing.T) {
	r := NewResolver(config.Default())

	t.Run("should use the literal property level format", func(t *testing.T) {
		spec := r.Resolve("createdAt", &Override{Format: "YYYY-MM-DD"}, nil)

		assert.Equal(t, domain.FormatSpec{
			OpenAPIFormat: FormatDate,
			LiteralFormat: "YYYY-MM-DD",
			Example:       "2024-01-15",
		}, spec)
	})

	t.Run("should look up the semantic type default", func(t *testing.T) {
		spec := r.Resolve("opensAt", &Override{Type: config.TimeType}, nil)

		assert.Equal(t, FormatTime, spec.OpenAPIFormat)
		assert.Equal(t, "HH:mm:ss", spec.LiteralFormat)
		assert.Equal(t, "14:30:00", spec.Example)
	})

	t.Run("should prefer property level over class level", func(t *testing.T) {
		spec := r.Resolve("createdAt",
			&Override{Type: config.DateType},
			[]Override{{Property: "createdAt", Format: "HH:mm"}},
		)

		assert.Equal(t, FormatDate, spec.OpenAPIFormat)
	})

	t.Run("should match class level overrides by snake_case name", func(t *testing.T) {
		spec := r.Resolve("createdAt", nil, []Override{
			{Property: "updated_at", Type: config.TimeType},
			{Property: "created_at", Format: "DD/MM/YYYY HH:mm"},
		})

		assert.Equal(t, FormatDateTime, spec.OpenAPIFormat)
		assert.Equal(t, "DD/MM/YYYY HH:mm", spec.LiteralFormat)
		assert.Equal(t, "15/01/2024 14:30", spec.Example)
	})

	t.Run("should use the global default", func(t *testing.T) {
		spec := r.Resolve("createdAt", &Override{}, nil)

		assert.Equal(t, domain.FormatSpec{
			OpenAPIFormat: FormatDateTime,
			LiteralFormat: "YYYY-MM-DD HH:mm:ss",
			Example:       "2024-01-15 14:30:00",
		}, spec)
	})

	t.Run("should ignore date like property names", func(t *testing.T) {
		for _, name := range []string{"birth_date", "startTime", "date"} {
			assert.Equal(t, FormatDateTime, r.Resolve(name, nil, nil).OpenAPIFormat, name)
		}
	})

	t.Run("should follow the configured global default", func(t *testing.T) {
		cfg, err := config.Default().With(func(c *config.Config) {
			c.Schema.DateFormats[config.DateTimeType] = "YYYY-MM-DD[T]HH:mm"
		})
		require.NoError(t, err)

		spec := NewResolver(cfg).Resolve("at", nil, nil)
		assert.Equal(t, "2024-01-15T14:30", spec.Example)
		assert.Equal(t, FormatDateTime, spec.OpenAPIFormat)
	})

	t.Run("should not fail on unrenderable formats", func(t *testing.T) {
		spec := r.Resolve("at", &Override{Format: "YYYY-QQ"}, nil)
		assert.Equal(t, FallbackExample, spec.Example)
		assert.Equal(t, "YYYY-QQ", spec.LiteralFormat)
	})
}
