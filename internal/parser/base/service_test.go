package base

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/griffnb/core-apidoc/internal/config"
	"github.com/griffnb/core-apidoc/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGeneralInfo(t *testing.T) {
	t.Parallel()

	t.Run("should parse title, version and description", func(t *testing.T) {
		doc := domain.NewDocument()
		service := NewService(doc)

		comments := []string{
			"@title Test API",
			"@version 1.0.0",
			"@description This is a test API",
		}

		err := service.ParseGeneralInfo(comments)
		assert.NoError(t, err)
		assert.Equal(t, "Test API", doc.Info.Title)
		assert.Equal(t, "1.0.0", doc.Info.Version)
		assert.Equal(t, "This is a test API", doc.Info.Description)
	})

	t.Run("should parse a multiline description", func(t *testing.T) {
		doc := domain.NewDocument()
		service := NewService(doc)

		comments := []string{
			"@description Line 1",
			"@description Line 2",
			"@description Line 3",
		}

		err := service.ParseGeneralInfo(comments)
		assert.NoError(t, err)
		assert.Equal(t, "Line 1\nLine 2\nLine 3", doc.Info.Description)
	})

	t.Run("should parse contact, license and termsOfService", func(t *testing.T) {
		doc := domain.NewDocument()
		service := NewService(doc)

		comments := []string{
			"@termsOfService http://example.com/terms",
			"@contact.name API Support",
			"@contact.email support@example.com",
			"@license.name Apache 2.0",
			"@license.url http://www.apache.org/licenses/LICENSE-2.0.html",
		}

		err := service.ParseGeneralInfo(comments)
		assert.NoError(t, err)
		assert.Equal(t, "http://example.com/terms", doc.Info.TermsOfService)
		require.NotNil(t, doc.Info.Contact)
		assert.Equal(t, "API Support", doc.Info.Contact.Name)
		assert.Equal(t, "support@example.com", doc.Info.Contact.Email)
		require.NotNil(t, doc.Info.License)
		assert.Equal(t, "Apache 2.0", doc.Info.License.Name)
	})
}

func TestParseServerInfo(t *testing.T) {
	t.Parallel()

	doc := domain.NewDocument()
	err := NewService(doc).ParseGeneralInfo([]string{
		"@server https://api.example.com Production API",
		"@server http://localhost:8080",
	})
	require.NoError(t, err)
	assert.Equal(t, []domain.Server{
		{URL: "https://api.example.com", Description: "Production API"},
		{URL: "http://localhost:8080"},
	}, doc.Servers)
}

func TestParseTagInfo(t *testing.T) {
	t.Parallel()

	t.Run("should parse tags with external docs", func(t *testing.T) {
		doc := domain.NewDocument()
		err := NewService(doc).ParseGeneralInfo([]string{
			"@tag.name orders",
			"@tag.description Order management",
			"@tag.docs.url https://example.com/orders",
			"@tag.docs.description Order docs",
			"@tag.name users",
		})
		require.NoError(t, err)
		require.Len(t, doc.Tags, 2)
		assert.Equal(t, "orders", doc.Tags[0].Name)
		assert.Equal(t, "Order management", doc.Tags[0].Description)
		require.NotNil(t, doc.Tags[0].ExternalDocs)
		assert.Equal(t, "Order docs", doc.Tags[0].ExternalDocs.Description)
		assert.Equal(t, "users", doc.Tags[1].Name)
	})

	t.Run("should reject a docs description before the url", func(t *testing.T) {
		err := NewService(domain.NewDocument()).ParseGeneralInfo([]string{
			"@tag.name orders",
			"@tag.docs.description Order docs",
		})
		assert.Error(t, err)
	})

	t.Run("should read the tag description from markdown", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "orders.md"), []byte("# Orders"), 0o644))

		doc := domain.NewDocument()
		service := NewService(doc)
		service.SetMarkdownFileDir(dir)
		require.NoError(t, service.ParseGeneralInfo([]string{
			"@tag.name orders",
			"@tag.description.markdown",
		}))
		assert.Equal(t, "# Orders", doc.Tags[0].Description)
	})
}

func TestParseExternalDocsAndExtensions(t *testing.T) {
	t.Parallel()

	doc := domain.NewDocument()
	err := NewService(doc).ParseGeneralInfo([]string{
		"@externalDocs.description OpenAPI",
		"@externalDocs.url https://swagger.io/resources/open-api/",
		`@x-logo {"url": "https://example.com/logo.png"}`,
	})
	require.NoError(t, err)
	require.NotNil(t, doc.ExternalDocs)
	assert.Equal(t, "https://swagger.io/resources/open-api/", doc.ExternalDocs.URL)
	assert.Equal(t, map[string]interface{}{"url": "https://example.com/logo.png"}, doc.Extensions["x-logo"])

	err = NewService(domain.NewDocument()).ParseGeneralInfo([]string{"@x-broken {not json"})
	assert.Error(t, err)
}

func TestParseSecurityDefinitions(t *testing.T) {
	t.Parallel()

	t.Run("should parse basic and bearer auth", func(t *testing.T) {
		doc := domain.NewDocument()
		err := NewService(doc).ParseGeneralInfo([]string{
			"@securityDefinitions.basic BasicAuth",
			"@securityDefinitions.bearer BearerAuth",
			"@bearerFormat JWT",
			"@security BearerAuth",
		})
		require.NoError(t, err)

		basic := doc.Components.SecuritySchemes["BasicAuth"]
		require.NotNil(t, basic)
		assert.Equal(t, domain.SecurityHTTP, basic.Type)
		assert.Equal(t, "basic", basic.Scheme)

		bearer := doc.Components.SecuritySchemes["BearerAuth"]
		require.NotNil(t, bearer)
		assert.Equal(t, "bearer", bearer.Scheme)
		assert.Equal(t, "JWT", bearer.BearerFormat)

		assert.Equal(t, []domain.SecurityRequirement{{"BearerAuth": {}}}, doc.Security)
	})

	t.Run("should parse apikey security", func(t *testing.T) {
		doc := domain.NewDocument()
		err := NewService(doc).ParseGeneralInfo([]string{
			"@securityDefinitions.apikey ApiKeyAuth",
			"@in header",
			"@name X-API-Key",
			"@description Key issued by the dashboard",
		})
		require.NoError(t, err)

		scheme := doc.Components.SecuritySchemes["ApiKeyAuth"]
		require.NotNil(t, scheme)
		assert.Equal(t, domain.SecurityAPIKey, scheme.Type)
		assert.Equal(t, "header", scheme.In)
		assert.Equal(t, "X-API-Key", scheme.Name)
		assert.Equal(t, "Key issued by the dashboard", scheme.Description)
	})

	t.Run("should parse oauth2 access code with scopes", func(t *testing.T) {
		doc := domain.NewDocument()
		err := NewService(doc).ParseGeneralInfo([]string{
			"@securityDefinitions.oauth2.accessCode OAuth2",
			"@tokenUrl https://example.com/oauth/token",
			"@authorizationUrl https://example.com/oauth/authorize",
			"@scope.admin Grants read and write access",
			"@security OAuth2[admin, read]",
		})
		require.NoError(t, err)

		scheme := doc.Components.SecuritySchemes["OAuth2"]
		require.NotNil(t, scheme)
		require.NotNil(t, scheme.Flows)
		require.NotNil(t, scheme.Flows.AuthorizationCode)
		assert.Equal(t, "https://example.com/oauth/token", scheme.Flows.AuthorizationCode.TokenURL)
		assert.Equal(t, map[string]string{"admin": "Grants read and write access"}, scheme.Flows.AuthorizationCode.Scopes)
		assert.Equal(t, []string{"admin", "read"}, doc.Security[0]["OAuth2"])
	})

	t.Run("should require the attributes of a scheme", func(t *testing.T) {
		err := NewService(domain.NewDocument()).ParseGeneralInfo([]string{
			"@securityDefinitions.apikey ApiKeyAuth",
			"@in header",
		})
		assert.Error(t, err)

		err = NewService(domain.NewDocument()).ParseGeneralInfo([]string{"@securityDefinitions.basic"})
		assert.Error(t, err)
	})
}

func TestParseGeneralAPIInfo(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	mainFile := filepath.Join(dir, "main.go")
	src := `package main

// @title Orders API
// @version 2.0
// @server https://api.example.com
func main() {}

// @summary not general info
// @router /orders [get]
func handler() {}
`
	require.NoError(t, os.WriteFile(mainFile, []byte(src), 0o644))

	doc := domain.NewDocument()
	require.NoError(t, NewService(doc).ParseGeneralAPIInfo(mainFile))
	assert.Equal(t, "Orders API", doc.Info.Title)
	assert.Equal(t, "2.0", doc.Info.Version)
	assert.Len(t, doc.Servers, 1)

	assert.Error(t, NewService(doc).ParseGeneralAPIInfo(filepath.Join(dir, "missing.go")))
}

func TestApplyConfig(t *testing.T) {
	t.Parallel()

	t.Run("should let config values win over annotations", func(t *testing.T) {
		cfg, err := config.Default().With(func(c *config.Config) {
			c.Info.Title = "Configured"
			c.Servers = []config.ServerConfig{{URL: "https://configured.example.com"}}
		})
		require.NoError(t, err)

		doc := domain.NewDocument()
		service := NewService(doc)
		require.NoError(t, service.ParseGeneralInfo([]string{
			"@title Annotated",
			"@version 3.1",
			"@server https://annotated.example.com",
		}))
		service.ApplyConfig(cfg)

		assert.Equal(t, "Configured", doc.Info.Title)
		assert.Equal(t, "3.1", doc.Info.Version)
		assert.Equal(t, []domain.Server{{URL: "https://configured.example.com"}}, doc.Servers)
	})

	t.Run("should fill missing values with defaults", func(t *testing.T) {
		doc := domain.NewDocument()
		NewService(doc).ApplyConfig(config.Default())
		assert.Equal(t, "API Documentation", doc.Info.Title)
		assert.Equal(t, "1.0.0", doc.Info.Version)
	})
}
