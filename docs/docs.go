// Package docs registers the OpenAPI document served at /swagger/*.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/track": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tracking"],
                "summary": "Look up a shipment on the carrier portal",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Tracking number (e.g. ABC98211000001)",
                        "name": "tracking",
                        "in": "query",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.TrackingResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/track/{tracking_number}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tracking"],
                "summary": "Look up a shipment on the carrier portal",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Tracking number",
                        "name": "tracking_number",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.TrackingResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/lookups/{tracking_number}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["lookups"],
                "summary": "List recent lookups of a tracking number",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Tracking number",
                        "name": "tracking_number",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "integer",
                        "description": "Max records (1-100, default 20)",
                        "name": "limit",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.lookupListResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.Event": {
            "type": "object",
            "properties": {
                "timestamp": {"type": "string"},
                "status": {"type": "string"},
                "detail": {"type": "string"}
            }
        },
        "domain.TrackingResult": {
            "type": "object",
            "properties": {
                "shipping": {"type": "string"},
                "last_status": {"$ref": "#/definitions/domain.Event"},
                "events": {"type": "array", "items": {"$ref": "#/definitions/domain.Event"}}
            }
        },
        "handler.errorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
            }
        },
        "handler.lookupResponse": {
            "type": "object",
            "properties": {
                "tracking_number": {"type": "string"},
                "source": {"type": "string"},
                "event_count": {"type": "integer"},
                "last_status": {"$ref": "#/definitions/domain.Event"},
                "events": {"type": "array", "items": {"$ref": "#/definitions/domain.Event"}},
                "looked_up_at": {"type": "string"}
            }
        },
        "handler.lookupListResponse": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/handler.lookupResponse"}},
                "count": {"type": "integer"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Carrier Tracking API",
	Description:      "Scrapes the carrier tracking portal and returns normalised shipment activity.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
