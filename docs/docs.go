// Package docs registers the OpenAPI document served at /swagger. Regenerate with `swag init -g cmd/server/main.go`.
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
        "/users/signup": {
            "post": {
                "tags": ["users"],
                "summary": "Sign up",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/handler.SignupRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.MessageResponse"}}}
            }
        },
        "/users/signup/confirm_account": {
            "get": {
                "tags": ["users"],
                "summary": "Confirm account",
                "parameters": [{"type": "string", "in": "query", "name": "confirmation_token", "required": true}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.MessageResponse"}}}
            }
        },
        "/users/login": {
            "post": {
                "tags": ["users"],
                "summary": "Log in",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/handler.LoginRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.SessionResponse"}}}
            }
        },
        "/users/logout": {
            "get": {
                "tags": ["users"],
                "summary": "Log out",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.MessageResponse"}}}
            }
        },
        "/users/forgotPassword": {
            "post": {
                "tags": ["users"],
                "summary": "Request a password reset",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/handler.ForgotPasswordRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.MessageResponse"}}}
            }
        },
        "/users/resetPassword": {
            "patch": {
                "tags": ["users"],
                "summary": "Reset password",
                "parameters": [
                    {"type": "string", "in": "query", "name": "reset_token", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/handler.ResetPasswordRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.MessageResponse"}}}
            }
        },
        "/users/updateMyPassword": {
            "patch": {
                "security": [{"CookieAuth": []}],
                "tags": ["users"],
                "summary": "Change password",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/handler.UpdatePasswordRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.SessionResponse"}}}
            }
        },
        "/tours": {
            "get": {
                "tags": ["tours"],
                "summary": "List tours",
                "parameters": [
                    {"type": "string", "in": "query", "name": "sort"},
                    {"type": "string", "in": "query", "name": "fields"},
                    {"type": "integer", "in": "query", "name": "page"},
                    {"type": "integer", "in": "query", "name": "limit"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.ListResponse"}}}
            }
        },
        "/tours/tour-stats": {
            "get": {
                "tags": ["tours"],
                "summary": "Tour statistics by difficulty",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.StatsResponse"}}}
            }
        },
        "/tours/monthly-plan/{year}": {
            "get": {
                "security": [{"CookieAuth": []}],
                "tags": ["tours"],
                "summary": "Tour starts per month",
                "parameters": [{"type": "integer", "in": "path", "name": "year", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.PlanResponse"}}}
            }
        },
        "/bookings/my-tours": {
            "get": {
                "security": [{"CookieAuth": []}],
                "tags": ["bookings"],
                "summary": "Tours booked by the current user",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.ListResponse"}}}
            }
        }
    },
    "definitions": {
        "errors.ErrorResponse": {
            "type": "object",
            "properties": {"status": {"type": "string"}, "message": {"type": "string"}}
        },
        "handler.MessageResponse": {
            "type": "object",
            "properties": {"status": {"type": "string"}, "message": {"type": "string"}}
        },
        "handler.SignupRequest": {
            "type": "object",
            "properties": {"name": {"type": "string"}, "email": {"type": "string"}, "password": {"type": "string"}, "passwordConfirm": {"type": "string"}}
        },
        "handler.LoginRequest": {
            "type": "object",
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "handler.ForgotPasswordRequest": {
            "type": "object",
            "properties": {"email": {"type": "string"}}
        },
        "handler.ResetPasswordRequest": {
            "type": "object",
            "properties": {"password": {"type": "string"}, "passwordConfirm": {"type": "string"}}
        },
        "handler.UpdatePasswordRequest": {
            "type": "object",
            "properties": {"passwordCurrent": {"type": "string"}, "passwordNew": {"type": "string"}, "passwordNewConfirm": {"type": "string"}}
        },
        "handler.SessionResponse": {
            "type": "object",
            "properties": {"status": {"type": "string"}, "message": {"type": "string"}, "data": {"type": "object"}}
        },
        "handler.ListResponse": {
            "type": "object",
            "properties": {"status": {"type": "string"}, "results": {"type": "integer"}, "data": {"type": "object"}}
        },
        "handler.StatsResponse": {
            "type": "object",
            "properties": {"status": {"type": "string"}, "data": {"type": "object"}}
        },
        "handler.PlanResponse": {
            "type": "object",
            "properties": {"status": {"type": "string"}, "results": {"type": "integer"}, "data": {"type": "object"}}
        }
    },
    "securityDefinitions": {
        "CookieAuth": {"type": "apiKey", "name": "jwt", "in": "cookie"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "Natours API",
	Description:      "Tours marketplace API: tours, reviews, bookings and cookie based JWT sessions.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
