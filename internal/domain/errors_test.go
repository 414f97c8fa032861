package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors(t *testing.T) {
	t.Run("should name enum, class and property", func(t *testing.T) {
		err := &MissingEnumOptInError{Enum: "Status", Class: "OrderDto", Property: "status"}

		assert.Contains(t, err.Error(), "Status")
		assert.Contains(t, err.Error(), "OrderDto.status")
	})

	t.Run("should name computed field and class", func(t *testing.T) {
		err := &UndefinedComputedFieldError{Field: "formatted_total", Class: "OrderDto"}

		assert.Contains(t, err.Error(), `"formatted_total"`)
		assert.Contains(t, err.Error(), "OrderDto")
	})

	t.Run("should unwrap reflection failures", func(t *testing.T) {
		cause := errors.New("not a struct")
		err := fmt.Errorf("compile: %w", &ReflectionFailureError{Class: "pkg.Thing", Err: cause})

		var reflErr *ReflectionFailureError
		require.ErrorAs(t, err, &reflErr)
		assert.Equal(t, "pkg.Thing", reflErr.Class)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("should name both colliding packages", func(t *testing.T) {
		err := &NameCollisionError{Name: "User", Existing: "a/models", Incoming: "b/models"}

		assert.Equal(t, `schema name "User" is used by both a/models and b/models`, err.Error())
	})
}

func TestClassSchema_Property(t *testing.T) {
	cs := &ClassSchema{
		Name: "OrderDto",
		Properties: []PropertySchema{
			{Name: "id", Type: TypeString},
			{Name: "total", Type: TypeInteger},
		},
	}

	p, ok := cs.Property("total")
	require.True(t, ok)
	assert.Equal(t, TypeInteger, p.Type)

	_, ok = cs.Property("missing")
	assert.False(t, ok)
	assert.Equal(t, []string{"id", "total"}, cs.PropertyNames())
}

func TestPropertySchema_Clone(t *testing.T) {
	original := PropertySchema{
		Name:       "tags",
		Type:       TypeArray,
		Items:      &PropertySchema{Type: TypeString},
		Extensions: map[string]any{"x-a": 1},
	}

	clone := original.Clone()
	clone.Items.Type = TypeInteger
	clone.Extensions["x-a"] = 2

	assert.Equal(t, TypeString, original.Items.Type)
	assert.Equal(t, 1, original.Extensions["x-a"])
}

func TestEnumSchema_OpenAPIType(t *testing.T) {
	assert.Equal(t, TypeInteger, (&EnumSchema{Backing: BackingInteger}).OpenAPIType())
	assert.Equal(t, TypeString, (&EnumSchema{Backing: BackingString}).OpenAPIType())
	assert.Equal(t, TypeString, (&EnumSchema{Backing: BackingNone}).OpenAPIType())
}
