// Package docs registers the OpenAPI document served at /docs/doc.json.
// Regenerate with: swag init -g cmd/api/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "Immoxperts"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/": {
            "get": {
                "description": "Returns API name, version, status, the place source and the number of indexed places.",
                "produces": ["application/json"],
                "tags": ["meta"],
                "summary": "API root info",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/health": {
            "get": {
                "description": "Returns basic health status and timestamp.",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/health/db": {
            "get": {
                "description": "Verifies Postgres connectivity. Reports \"not_configured\" when the API runs without a database.",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Database health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/health/cache": {
            "get": {
                "description": "Returns in-memory cache statistics (active keys, hits, misses, flushes).",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Cache health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/departments": {
            "get": {
                "description": "Returns the department-type records of the dataset, sorted by name.",
                "produces": ["application/json"],
                "tags": ["places"],
                "summary": "List departments",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.PlaceList"}}
                }
            }
        },
        "/dataset": {
            "get": {
                "description": "Returns the complete sorted place list exactly as the frontend consumes it. Supports If-None-Match.",
                "produces": ["application/json"],
                "tags": ["places"],
                "summary": "Full dataset",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/place.Record"}}}
                }
            }
        },
        "/places": {
            "get": {
                "description": "Prefix search on place names (case-insensitive) or on postcodes when q is numeric. Exact name matches come first.",
                "produces": ["application/json"],
                "tags": ["places"],
                "summary": "Search places",
                "parameters": [
                    {"type": "string", "description": "Name or postcode prefix", "name": "q", "in": "query", "required": true},
                    {"type": "integer", "default": 10, "description": "Maximum results (1-50)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.PlaceList"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}}
                }
            }
        },
        "/places/nearest": {
            "get": {
                "description": "Returns the closest place with coordinates within 50km of lat/lon.",
                "produces": ["application/json"],
                "tags": ["places"],
                "summary": "Nearest place",
                "parameters": [
                    {"type": "number", "description": "Latitude", "name": "lat", "in": "query", "required": true},
                    {"type": "number", "description": "Longitude", "name": "lon", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.NearestPlace"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}}
                }
            }
        },
        "/places/postcode/{postcode}": {
            "get": {
                "description": "Returns all places (cities, arrondissements, departments) with the given 5-character postcode.",
                "produces": ["application/json"],
                "tags": ["places"],
                "summary": "Places by postcode",
                "parameters": [
                    {"type": "string", "description": "5-character postcode", "name": "postcode", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.PlaceList"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handler.NearestPlace": {
            "type": "object",
            "properties": {
                "distance_m": {"type": "number"},
                "geohash": {"type": "string"},
                "place": {"$ref": "#/definitions/place.Record"}
            }
        },
        "handler.PlaceList": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "places": {"type": "array", "items": {"$ref": "#/definitions/place.Record"}}
            }
        },
        "place.Record": {
            "type": "object",
            "properties": {
                "department": {"type": "string"},
                "lat": {"type": "number"},
                "lon": {"type": "number"},
                "name": {"type": "string"},
                "postcode": {"type": "string"},
                "type": {"type": "string", "enum": ["city", "arrondissement", "department"]}
            }
        },
        "respond.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "object",
                    "properties": {
                        "code": {"type": "string"},
                        "detail": {"type": "string"},
                        "message": {"type": "string"}
                    }
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "French Places API",
	Description:      "Read-only lookup over the French cities, arrondissements and departments dataset: autocomplete, postcode lookup, nearest place and full dataset download.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
