package docs

import (
	"encoding/json"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type operation struct {
	Parameters []struct {
		In     string         `json:"in"`
		Schema map[string]any `json:"schema"`
	} `json:"parameters"`
	Responses map[string]json.RawMessage `json:"responses"`
}

type document struct {
	Paths       map[string]map[string]operation `json:"paths"`
	Definitions map[string]json.RawMessage      `json:"definitions"`
}

func readDoc(t *testing.T) (document, string) {
	t.Helper()
	raw := SwaggerInfo.ReadDoc()
	var doc document
	require.NoError(t, json.Unmarshal([]byte(raw), &doc), raw)
	return doc, raw
}

func TestCreatedResponses(t *testing.T) {
	doc, _ := readDoc(t)
	for _, path := range []string{"/api/outlets/{outletId}/queue", "/api/queue/entries/{id}/assign"} {
		op := doc.Paths[path]["post"]
		assert.Contains(t, op.Responses, "201", path)
		assert.NotContains(t, op.Responses, "200", path)
	}
}

func TestBodyParameters(t *testing.T) {
	doc, _ := readDoc(t)
	tests := []struct {
		path, method, ref string
	}{
		{"/api/outlets/{outletId}/queue", "post", "#/definitions/handlers.JoinRequest"},
		{"/api/queue/entries/{id}", "patch", "#/definitions/queue.UpdateEntryRequest"},
		{"/api/queue/entries/{id}/status", "post", "#/definitions/handlers.StatusRequest"},
		{"/api/queue/entries/{id}/cancel", "post", "#/definitions/handlers.CancelRequest"},
		{"/api/queue/entries/{id}/assign", "post", "#/definitions/handlers.AssignRequest"},
		{"/api/queue/codes/{code}/cancel", "post", "#/definitions/handlers.CancelRequest"},
	}
	for _, tt := range tests {
		var got string
		for _, p := range doc.Paths[tt.path][tt.method].Parameters {
			if p.In == "body" {
				got, _ = p.Schema["$ref"].(string)
			}
		}
		assert.Equal(t, tt.ref, got, "%s %s", tt.method, tt.path)
	}
}

func TestReferencesResolve(t *testing.T) {
	doc, raw := readDoc(t)
	refs := regexp.MustCompile(`"#/definitions/([^"]+)"`).FindAllStringSubmatch(raw, -1)
	require.NotEmpty(t, refs)
	for _, m := range refs {
		assert.Contains(t, doc.Definitions, m[1])
	}
}
