// Package docs holds the OpenAPI document served at /swagger/.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/shorten": {
            "post": {
                "tags": ["Links"],
                "summary": "Create a short link",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {
                    "201": {"description": "Short link created"},
                    "400": {"description": "Validation failed (violations listed)"}
                }
            }
        },
        "/shorten/batch": {
            "post": {
                "tags": ["Links"],
                "summary": "Create several short links at once",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {
                    "201": {"description": "Short links created"},
                    "400": {"description": "Validation failed (violations listed)"}
                }
            }
        },
        "/{shortcode}": {
            "get": {
                "tags": ["Links"],
                "summary": "Resolve a short link (simulated redirect, records a click)",
                "produces": ["text/html", "application/json"],
                "parameters": [
                    {"name": "shortcode", "in": "path", "required": true, "type": "string"},
                    {"name": "countdown", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Simulated redirect page"},
                    "404": {"description": "Unknown or expired shortcode"}
                }
            }
        },
        "/qr/{shortcode}": {
            "get": {
                "tags": ["Links"],
                "summary": "QR code for a short link",
                "produces": ["image/png"],
                "parameters": [
                    {"name": "shortcode", "in": "path", "required": true, "type": "string"},
                    {"name": "size", "in": "query", "type": "integer"},
                    {"name": "level", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "PNG image"},
                    "404": {"description": "Unknown shortcode"}
                }
            }
        },
        "/api/links": {
            "get": {
                "tags": ["Statistics"],
                "summary": "Registry-wide click statistics (expired links included)",
                "produces": ["application/json"],
                "responses": {"200": {"description": "Statistics"}}
            }
        },
        "/api/links/{shortcode}": {
            "get": {
                "tags": ["Statistics"],
                "summary": "One short link with its click trail",
                "produces": ["application/json"],
                "parameters": [
                    {"name": "shortcode", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Link detail"},
                    "404": {"description": "Unknown shortcode"}
                }
            }
        },
        "/api/activity": {
            "get": {
                "tags": ["Activity"],
                "summary": "Paginated activity log, most recent first",
                "produces": ["application/json"],
                "parameters": [
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "level", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "Activity entries"}}
            }
        },
        "/health": {
            "get": {
                "tags": ["System"],
                "summary": "Health check",
                "produces": ["application/json"],
                "responses": {"200": {"description": "Service is healthy"}}
            }
        },
        "/cache/metrics": {
            "get": {
                "tags": ["System"],
                "summary": "Resolve cache metrics",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "Cache metrics"},
                    "503": {"description": "Cache is disabled"}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "Short-Link Registry API",
	Description:      "In-memory URL shortening service with click statistics, an activity log, and simulated redirects.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
