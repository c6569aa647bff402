package docs

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readDoc(t *testing.T) map[string]interface{} {
	t.Helper()
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(SwaggerInfo.ReadDoc()), &doc), "rendered swagger doc must be JSON")
	return doc
}

func TestSwaggerInfo(t *testing.T) {
	assert.Equal(t, "Feed Service API", SwaggerInfo.Title)
	assert.Equal(t, "1.0", SwaggerInfo.Version)
	assert.Equal(t, "/", SwaggerInfo.BasePath)
	assert.Equal(t, "swagger", SwaggerInfo.InfoInstanceName)

	doc := readDoc(t)
	assert.Equal(t, "2.0", doc["swagger"])
	info := doc["info"].(map[string]interface{})
	assert.Equal(t, "Feed Service API", info["title"])
	assert.Equal(t, "Internal API for feed mapping, catalog aggregation and YML export.", info["description"])
}

func TestSwaggerRoutes(t *testing.T) {
	paths := readDoc(t)["paths"].(map[string]interface{})

	routes := []struct {
		path   string
		method string
	}{
		{"/health", "get"},
		{"/internal/feeds/sessions", "post"},
		{"/internal/feeds/sessions/{id}", "get"},
		{"/internal/feeds/sessions/{id}", "delete"},
		{"/internal/feeds/sessions/{id}/connections", "post"},
		{"/internal/feeds/sessions/{id}/complete", "post"},
		{"/internal/feeds/mappings", "get"},
		{"/internal/feeds/import/{mappingId}", "post"},
		{"/internal/feeds/imports", "get"},
		{"/internal/feeds/imports/{runId}", "get"},
		{"/internal/aggregate/stats", "post"},
		{"/internal/aggregate/filters", "post"},
		{"/internal/aggregate/stats.xlsx", "get"},
		{"/internal/aggregate/filters.xlsx", "get"},
		{"/internal/export/yml", "get"},
		{"/internal/export/yml", "post"},
		{"/internal/markup/transform", "post"},
	}
	for _, r := range routes {
		t.Run(strings.ToUpper(r.method)+" "+r.path, func(t *testing.T) {
			ops, ok := paths[r.path].(map[string]interface{})
			require.True(t, ok, "path missing")
			assert.Contains(t, ops, r.method)
		})
	}
}

func TestSwaggerRefsResolve(t *testing.T) {
	doc := readDoc(t)
	definitions := doc["definitions"].(map[string]interface{})

	var refs []string
	var walk func(v interface{})
	walk = func(v interface{}) {
		switch n := v.(type) {
		case map[string]interface{}:
			for k, child := range n {
				if s, ok := child.(string); ok && k == "$ref" {
					refs = append(refs, s)
					continue
				}
				walk(child)
			}
		case []interface{}:
			for _, child := range n {
				walk(child)
			}
		}
	}
	walk(doc["paths"])
	walk(definitions)

	require.NotEmpty(t, refs)
	for _, ref := range refs {
		name := strings.TrimPrefix(ref, "#/definitions/")
		assert.Contains(t, definitions, name, "dangling $ref %s", ref)
	}
}

func TestSwaggerSecurity(t *testing.T) {
	security := readDoc(t)["securityDefinitions"].(map[string]interface{})
	key, ok := security["InternalAPIKey"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "apiKey", key["type"])
	assert.Equal(t, "header", key["in"])
	assert.Equal(t, "X-Internal-API-Key", key["name"])
}
