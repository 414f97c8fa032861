package registry

import (
	"go/types"
	"testing"

	"github.com/griffnb/core-apidoc/internal/domain"
	"github.com/griffnb/core-apidoc/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_Collect(t *testing.T) {
	result := testutil.LoadModule(t, map[string]string{
		"dto/order.go": `package dto

// OrderDto is an order.
//
//apidoc:schema title="Order"
//apidoc:property formatted_total type=string
type OrderDto struct {
	ID string
}

type (
	// Status of an order.
	//apidoc:enum
	Status string

	// Internal is not documented.
	Internal int
)

//apidoc:enum unbacked
type Color int
`,
	})

	s := NewService()
	require.NoError(t, s.Collect(result.Files))

	t.Run("should find schemas with their directives", func(t *testing.T) {
		schemas := s.Schemas()
		require.Len(t, schemas, 1)

		order := schemas[0]
		assert.Equal(t, "OrderDto", order.Name)
		assert.Equal(t, "example.com/app/dto", order.PkgPath)
		assert.Equal(t, "example.com/app/dto.OrderDto", order.FullName())
		assert.Equal(t, "Order", order.Marker().Options["title"])
		require.Len(t, order.DirectivesNamed("property"), 1)
		assert.Equal(t, []string{"formatted_total"}, order.DirectivesNamed("property")[0].Args)
	})

	t.Run("should find enums inside grouped declarations", func(t *testing.T) {
		enums := s.Enums()
		require.Len(t, enums, 2)
		assert.Equal(t, "Color", enums[0].Name)
		assert.True(t, enums[0].Marker().HasFlag("unbacked"))
		assert.Equal(t, "Status", enums[1].Name)
	})

	t.Run("should look up by type object", func(t *testing.T) {
		d, ok := s.Lookup(s.Enums()[1].Obj)
		require.True(t, ok)
		assert.Equal(t, domain.KindEnum, d.Kind)

		internal, ok := result.Files[0].Package.Types.Scope().Lookup("Internal").(*types.TypeName)
		require.True(t, ok)
		_, ok = s.Lookup(internal)
		assert.False(t, ok)

		_, ok = s.Lookup(nil)
		assert.False(t, ok)
	})

	t.Run("should find by short name", func(t *testing.T) {
		assert.Len(t, s.FindByName("OrderDto"), 1)
		assert.Empty(t, s.FindByName("Missing"))
	})
}

func TestService_CollectRejectsBadDirectives(t *testing.T) {
	result := testutil.LoadModule(t, map[string]string{
		"dto/bad.go": "package dto\n\n//apidoc:schema title=\"open\ntype Bad struct{}\n",
	})

	err := NewService().Collect(result.Files)
	assert.Error(t, err)
}
