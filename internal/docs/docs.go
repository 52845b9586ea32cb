// Package docs registers the sandbox's OpenAPI document with swag so that
// http-swagger can serve it under /swagger/.
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
        "/": {
            "get": {
                "produces": ["application/json"],
                "tags": ["home"],
                "summary": "Welcome endpoint",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["home"],
                "summary": "Health check",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/send-message": {
            "post": {
                "security": [{"ApiKeyID": []}, {"ApiSecret": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["messages"],
                "summary": "Send a message",
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/request.SendMessageRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.APIError"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.APIError"}}
                }
            }
        },
        "/api/send-group-message": {
            "post": {
                "security": [{"ApiKeyID": []}, {"ApiSecret": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["messages"],
                "summary": "Send a group message",
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/request.SendGroupMessageRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.APIError"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.APIError"}}
                }
            }
        },
        "/api/accounts/messages": {
            "get": {
                "security": [{"ApiKeyID": []}, {"ApiSecret": []}],
                "produces": ["application/json"],
                "tags": ["messages"],
                "summary": "List messages",
                "parameters": [
                    {"type": "string", "name": "cid", "in": "query"},
                    {"type": "string", "name": "number", "in": "query"},
                    {"type": "integer", "default": 100, "name": "limit", "in": "query"},
                    {"type": "integer", "default": 0, "name": "offset", "in": "query"},
                    {"type": "string", "name": "from_date", "in": "query"},
                    {"type": "string", "name": "to_date", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.APIError"}}
                }
            }
        },
        "/api/evaluate-service": {
            "get": {
                "security": [{"ApiKeyID": []}, {"ApiSecret": []}],
                "produces": ["application/json"],
                "tags": ["numbers"],
                "summary": "Evaluate service",
                "parameters": [
                    {"type": "string", "name": "number", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.APIError"}}
                }
            }
        },
        "/api/send-typing-indicator": {
            "post": {
                "security": [{"ApiKeyID": []}, {"ApiSecret": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["messages"],
                "summary": "Send typing indicator",
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/request.TypingIndicatorRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.APIError"}}
                }
            }
        },
        "/scheduler": {
            "get": {
                "produces": ["application/json"],
                "tags": ["scheduler"],
                "summary": "Scheduler status",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["scheduler"],
                "summary": "Control scheduler",
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/request.SchedulerRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"}
                }
            }
        }
    },
    "definitions": {
        "request.SchedulerRequest": {
            "type": "object",
            "properties": {"action": {"type": "string"}}
        },
        "request.SendMessageRequest": {
            "type": "object",
            "properties": {
                "number": {"type": "string"},
                "content": {"type": "string"},
                "media_url": {"type": "string"},
                "status_callback": {"type": "string"},
                "send_style": {"type": "string"}
            }
        },
        "request.SendGroupMessageRequest": {
            "type": "object",
            "properties": {
                "numbers": {"type": "array", "items": {"type": "string"}},
                "group_id": {"type": "string"},
                "content": {"type": "string"},
                "media_url": {"type": "string"},
                "status_callback": {"type": "string"},
                "send_style": {"type": "string"}
            }
        },
        "request.TypingIndicatorRequest": {
            "type": "object",
            "properties": {"number": {"type": "string"}}
        },
        "response.APIError": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "error_code": {"type": "integer"},
                "error_message": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyID": {"type": "apiKey", "name": "sb-api-key-id", "in": "header"},
        "ApiSecret": {"type": "apiKey", "name": "sb-api-secret-key", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Sendblue Sandbox API",
	Description:      "Local emulation of the Sendblue messaging API.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
