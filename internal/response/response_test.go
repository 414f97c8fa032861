package response

import (
	"testing"

	"github.com/go-openapi/spec"
	"github.com/griffnb/core-apidoc/internal/config"
	route "github.com/griffnb/core-apidoc/internal/parser/route/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const orderRef = "#/components/schemas/OrderDto"

func TestWrap(t *testing.T) {
	b := NewShapeBuilder(nil)

	t.Run("should reference single, created and updated payloads directly", func(t *testing.T) {
		for kind, status := range map[string]int{
			route.KindSingle:  200,
			route.KindCreated: 201,
			route.KindUpdated: 200,
		} {
			resp, err := b.Wrap("OrderDto", kind, "")
			require.NoError(t, err)
			assert.Equal(t, status, resp.Status, kind)
			require.NotNil(t, resp.Schema)
			assert.Equal(t, orderRef, resp.Schema.Ref.String(), kind)
		}
	})

	t.Run("should wrap collections in an array", func(t *testing.T) {
		resp, err := b.Wrap("OrderDto", route.KindCollection, "")
		require.NoError(t, err)
		assert.Equal(t, 200, resp.Status)
		assert.Equal(t, spec.StringOrArray{"array"}, resp.Schema.Type)
		assert.Equal(t, orderRef, resp.Schema.Items.Schema.Ref.String())
	})

	t.Run("should wrap paginated payloads with pagination", func(t *testing.T) {
		resp, err := b.Wrap("OrderDto", route.KindPaginated, "")
		require.NoError(t, err)
		assert.Equal(t, 200, resp.Status)

		s := resp.Schema
		assert.Equal(t, []string{"data", "pagination"}, s.Required)

		data := s.Properties["data"]
		assert.Equal(t, spec.StringOrArray{"array"}, data.Type)
		assert.Equal(t, orderRef, data.Items.Schema.Ref.String())

		page := s.Properties["pagination"]
		assert.Equal(t, []string{"total", "count", "perPage", "currentPage", "totalPages"}, page.Required)
		assert.Len(t, page.Properties, 5)
		for name, p := range page.Properties {
			assert.Equal(t, spec.StringOrArray{"integer"}, p.Type, name)
		}
	})

	t.Run("should document empty responses without a body", func(t *testing.T) {
		resp, err := b.Wrap("", route.KindEmpty, "")
		require.NoError(t, err)
		assert.Equal(t, 204, resp.Status)
		assert.Nil(t, resp.Schema)
	})

	t.Run("should document untyped payloads as objects", func(t *testing.T) {
		resp, err := b.Wrap("", route.KindSingle, "")
		require.NoError(t, err)
		assert.Equal(t, spec.StringOrArray{"object"}, resp.Schema.Type)
	})

	t.Run("should replace the envelope and keep the status", func(t *testing.T) {
		resp, err := b.Wrap("OrderDto", route.KindCreated, "ApiEnvelope")
		require.NoError(t, err)
		assert.Equal(t, 201, resp.Status)
		assert.Equal(t, "#/components/schemas/ApiEnvelope", resp.Schema.Ref.String())
	})

	t.Run("should apply configured envelope overrides", func(t *testing.T) {
		cfg, err := config.Default().With(func(c *config.Config) {
			c.Responses.Success["paginated"] = "PageEnvelope"
		})
		require.NoError(t, err)

		resp, err := NewShapeBuilder(cfg).Wrap("OrderDto", route.KindPaginated, "")
		require.NoError(t, err)
		assert.Equal(t, "#/components/schemas/PageEnvelope", resp.Schema.Ref.String())

		resp, err = NewShapeBuilder(cfg).Wrap("OrderDto", route.KindPaginated, "RouteEnvelope")
		require.NoError(t, err)
		assert.Equal(t, "#/components/schemas/RouteEnvelope", resp.Schema.Ref.String())
	})

	t.Run("should reject unknown kinds", func(t *testing.T) {
		_, err := b.Wrap("OrderDto", "many", "")
		assert.Error(t, err)
	})
}

func TestErrorBuilder(t *testing.T) {
	b := NewErrorBuilder(nil)

	t.Run("should use per verb defaults", func(t *testing.T) {
		assert.Equal(t, []int{401, 403, 404, 429, 500}, b.Statuses("GET", route.ErrorFilter{}))
		assert.Equal(t, []int{400, 401, 403, 422, 429, 500}, b.Statuses("post", route.ErrorFilter{}))
		assert.Equal(t, []int{400, 401, 403, 404, 405, 422, 429, 500}, b.Statuses("OPTIONS", route.ErrorFilter{}))
	})

	t.Run("should filter with only and except", func(t *testing.T) {
		assert.Equal(t, []int{404, 418}, b.Statuses("GET", route.ErrorFilter{Only: []int{418, 404, 404}}))
		assert.Equal(t, []int{401, 403, 404, 500}, b.Statuses("GET", route.ErrorFilter{Except: []int{429}}))
		assert.Equal(t, []int{401}, b.Statuses("GET", route.ErrorFilter{Only: []int{401}, Except: []int{401}}))
	})

	t.Run("should describe statuses", func(t *testing.T) {
		responses := b.Build("DELETE", route.ErrorFilter{Only: []int{404, 418}})
		require.Len(t, responses, 2)
		assert.Equal(t, "Not found", responses[0].Description)
		assert.Equal(t, "Error 418", responses[1].Description)
		assert.Equal(t, "#/components/schemas/Error", responses[0].Schema.Ref.String())
	})

	t.Run("should apply configured overrides", func(t *testing.T) {
		cfg, err := config.Default().With(func(c *config.Config) {
			c.Responses.Errors.Defaults["GET"] = []int{500, 404}
			c.Responses.Errors.Schema = "ApiError"
			c.Responses.Errors.StatusSchemas[422] = "ValidationError"
			c.Responses.Errors.Descriptions[404] = "Missing"
		})
		require.NoError(t, err)
		eb := NewErrorBuilder(cfg)

		assert.Equal(t, []int{404, 500}, eb.Statuses("GET", route.ErrorFilter{}))

		notFound := eb.Response(404)
		assert.Equal(t, "Missing", notFound.Description)
		assert.Equal(t, "#/components/schemas/ApiError", notFound.Schema.Ref.String())
		assert.Equal(t, "#/components/schemas/ValidationError", eb.Response(422).Schema.Ref.String())
		assert.False(t, eb.UsesDefaultEnvelope([]int{404, 422}))
	})

	t.Run("should need the default envelope without overrides", func(t *testing.T) {
		assert.True(t, b.UsesDefaultEnvelope([]int{500}))
		assert.False(t, b.UsesDefaultEnvelope(nil))
	})
}

func TestEnvelope(t *testing.T) {
	env := Envelope()
	assert.Equal(t, []string{"statusCode", "messages"}, env.Required)
	assert.Equal(t, spec.StringOrArray{"integer"}, env.Properties["statusCode"].Type)
	messages := env.Properties["messages"]
	assert.Equal(t, spec.StringOrArray{"string"}, messages.Items.Schema.Type)
	assert.Equal(t, spec.StringOrArray{"object"}, env.Properties["exception"].Type)
}
