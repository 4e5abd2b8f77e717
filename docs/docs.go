// Package docs holds the OpenAPI description served at /swagger.
// Regenerate with: swag init -g cmd/panel/main.go
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
        "/auth/sign-up": {"post": {"tags": ["auth"], "summary": "Register an operator", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}}},
        "/auth/sign-in": {"post": {"tags": ["auth"], "summary": "Sign in and obtain a JWT", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/api/v1/me": {"get": {"security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "Current operator", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/api/v1/zones": {"get": {"security": [{"BearerAuth": []}], "tags": ["zones"], "summary": "Manual page", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ManualPage"}}, "502": {"description": "Bad Gateway"}}}},
        "/api/v1/zones/{id}/start": {"post": {"security": [{"BearerAuth": []}], "tags": ["zones"], "summary": "Start zone", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}, {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.StartZoneRequest"}}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}, "422": {"description": "Unprocessable Entity"}, "502": {"description": "Bad Gateway"}}}},
        "/api/v1/zones/{id}/stop": {"post": {"security": [{"BearerAuth": []}], "tags": ["zones"], "summary": "Stop zone", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}, "502": {"description": "Bad Gateway"}}}},
        "/api/v1/zones/{id}/duration": {"put": {"security": [{"BearerAuth": []}], "tags": ["zones"], "summary": "Set zone duration input", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}, {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.DurationRequest"}}], "responses": {"200": {"description": "OK"}}}},
        "/api/v1/programs": {"get": {"security": [{"BearerAuth": []}], "tags": ["programs"], "summary": "Program list", "responses": {"200": {"description": "OK"}, "502": {"description": "Bad Gateway"}}}},
        "/api/v1/programs/stop": {"post": {"security": [{"BearerAuth": []}], "tags": ["programs"], "summary": "Stop program", "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}}},
        "/api/v1/programs/{id}/start": {"post": {"security": [{"BearerAuth": []}], "tags": ["programs"], "summary": "Start program", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}, "409": {"description": "Conflict"}}}},
        "/api/v1/programs/{id}/delete": {"post": {"security": [{"BearerAuth": []}], "tags": ["programs"], "summary": "Delete program", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/api/v1/programs/{id}/automatic": {"post": {"security": [{"BearerAuth": []}], "tags": ["programs"], "summary": "Toggle automatic activation", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.AutomaticRequest"}}], "responses": {"200": {"description": "OK"}}}},
        "/api/v1/programs/{id}/edit": {"post": {"security": [{"BearerAuth": []}], "tags": ["pages"], "summary": "Edit program", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/api/v1/stop-all": {"post": {"security": [{"BearerAuth": []}], "tags": ["programs"], "summary": "Stop everything", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/pages/current": {"get": {"security": [{"BearerAuth": []}], "tags": ["pages"], "summary": "Current page", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/pages/{name}": {"post": {"security": [{"BearerAuth": []}], "tags": ["pages"], "summary": "Load page", "parameters": [{"type": "string", "name": "name", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}, "409": {"description": "Conflict"}}}},
        "/api/v1/visibility": {"post": {"security": [{"BearerAuth": []}], "tags": ["pages"], "summary": "Page visibility", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/connection": {"get": {"security": [{"BearerAuth": []}], "tags": ["settings"], "summary": "Connection status", "responses": {"200": {"description": "OK"}, "502": {"description": "Bad Gateway"}}}},
        "/api/v1/snapshot": {"get": {"security": [{"BearerAuth": []}], "tags": ["settings"], "summary": "Last device snapshot", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/toasts": {"get": {"security": [{"BearerAuth": []}], "tags": ["toasts"], "summary": "Visible toasts", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/toasts/{id}": {"delete": {"security": [{"BearerAuth": []}], "tags": ["toasts"], "summary": "Dismiss toast", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}}},
        "/api/v1/logs/": {"get": {"security": [{"BearerAuth": []}], "tags": ["logs"], "summary": "Panel event log", "parameters": [{"type": "string", "name": "from", "in": "query"}, {"type": "string", "name": "to", "in": "query"}, {"type": "string", "name": "type", "in": "query"}, {"type": "string", "description": "Operator username, or 'me'", "name": "operator", "in": "query"}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/events": {"get": {"tags": ["toasts"], "summary": "Toast stream", "produces": ["text/event-stream"], "responses": {"200": {"description": "OK"}}}}
    },
    "definitions": {
        "handlers.StartZoneRequest": {"type": "object", "properties": {"duration": {"type": "integer", "example": 10}}},
        "handlers.DurationRequest": {"type": "object", "properties": {"duration": {"type": "integer", "example": 15}}},
        "handlers.AutomaticRequest": {"type": "object", "required": ["enable"], "properties": {"enable": {"type": "boolean", "example": true}}},
        "models.ManualPage": {"type": "object", "properties": {"zones": {"type": "array", "items": {"type": "object"}}, "max_zone_duration": {"type": "integer"}, "max_active_zones": {"type": "integer"}, "manual_disabled": {"type": "boolean"}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Irrigation panel API",
	Description:      "Control panel for a single irrigation controller.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
