package swaggerkit

import (
	_ "embed"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/swaggo/swag/v2"

	"eventcatalog/internal/core/version"
	"eventcatalog/internal/platform/config"
)

//go:embed openapi.json
var openapiTemplate string

// Doc is the registered OpenAPI document; title and version fill the template
var Doc = &swag.Spec{
	Title:            "Events Catalog API",
	Version:          version.Info().Version,
	InfoInstanceName: "api",
	SwaggerTemplate:  openapiTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() { swag.Register(Doc.InstanceName(), Doc) }

// docReader is a seam so tests can serve a broken document
var docReader = func() []byte {
	doc, err := swag.ReadDoc(Doc.InstanceName())
	if err != nil {
		return nil
	}
	return []byte(doc)
}

// serveDocJSON parses the embedded document and fills in the shared bits
// every operation has: the api base, the error envelope and default errors
func serveDocJSON() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		var doc map[string]any
		if err := json.Unmarshal(docReader(), &doc); err != nil {
			http.Error(w, "spec parse error", http.StatusInternalServerError)
			return
		}

		ensureServers(doc, "/api/v1")

		if v := config.New().Prefix("CORE_API_").MayString("DOCS_TITLE_SUFFIX", ""); v != "" {
			if info, ok := doc["info"].(map[string]any); ok {
				if title, ok := info["title"].(string); ok {
					info["title"] = title + " " + v
				}
			}
		}

		ensureErrorSchema(doc)
		addDefaultResponse(doc, "500", errorResponse("Internal Server Error", 500, "panic recovered"), nil)
		addDefaultResponse(doc, "400", errorResponse("Bad Request", 400, "json: unknown field \"filter_colour\""), func(method string) bool {
			return method == "post"
		})

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(doc)
	}
}

// ensureServers pins the document to OAS 3.0.3, which the swagger ui renders
func ensureServers(doc map[string]any, url string) {
	if _, ok := doc["swagger"]; ok {
		delete(doc, "swagger")
		doc["openapi"] = "3.0.3"
	}
	if v, ok := doc["openapi"].(string); !ok || strings.HasPrefix(v, "3.1") {
		doc["openapi"] = "3.0.3"
	}
	if _, ok := doc["servers"]; !ok {
		doc["servers"] = []any{map[string]any{"url": url}}
	}
}

// ensureErrorSchema mirrors the runtime error envelope
func ensureErrorSchema(doc map[string]any) {
	comps, ok := doc["components"].(map[string]any)
	if !ok {
		comps = map[string]any{}
		doc["components"] = comps
	}
	schemas, ok := comps["schemas"].(map[string]any)
	if !ok {
		schemas = map[string]any{}
		comps["schemas"] = schemas
	}
	if _, ok := schemas["ErrorResponse"]; ok {
		return
	}
	schemas["ErrorResponse"] = map[string]any{
		"type": "object",
		"properties": map[string]any{
			"status_code": map[string]any{"type": "integer", "format": "int32"},
			"status":      map[string]any{"type": "string"},
			"code":        map[string]any{"type": "integer", "format": "int32"},
			"error":       map[string]any{"type": "string"},
			"field":       map[string]any{"type": "string"},
			"request_id":  map[string]any{"type": "string"},
		},
		"required": []any{"status_code", "status"},
	}
}

func errorResponse(status string, code int, msg string) map[string]any {
	return map[string]any{
		"description": status,
		"content": map[string]any{
			"application/json": map[string]any{
				"schema": map[string]any{"$ref": "#/components/schemas/ErrorResponse"},
				"example": map[string]any{
					"status_code": code,
					"status":      status,
					"error":       msg,
				},
			},
		},
	}
}

// addDefaultResponse sets resp under status on every operation that has none
// match narrows the operations by http method; nil means all
func addDefaultResponse(doc map[string]any, status string, resp map[string]any, match func(method string) bool) {
	paths, ok := doc["paths"].(map[string]any)
	if !ok {
		return
	}
	for _, p := range paths {
		node, ok := p.(map[string]any)
		if !ok {
			continue
		}
		for method, opAny := range node {
			op, ok := opAny.(map[string]any)
			if !ok || (match != nil && !match(method)) {
				continue
			}
			resps, ok := op["responses"].(map[string]any)
			if !ok {
				resps = map[string]any{}
				op["responses"] = resps
			}
			if _, exists := resps[status]; !exists {
				resps[status] = resp
			}
		}
	}
}
