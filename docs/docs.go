// Package docs registers the OpenAPI document served at /swagger.
// Regenerate with: swag init -g src/main.go -o docs
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
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/courses": {
            "get": {
                "tags": ["courses"],
                "summary": "List published courses",
                "parameters": [
                    {"type": "string", "name": "category", "in": "query"},
                    {"type": "string", "enum": ["beginner", "intermediate", "advanced"], "name": "level", "in": "query"},
                    {"type": "string", "name": "search", "in": "query"},
                    {"type": "number", "name": "minPrice", "in": "query"},
                    {"type": "number", "name": "maxPrice", "in": "query"},
                    {"type": "string", "enum": ["-createdAt", "createdAt", "price", "-price", "-averageRating", "title"], "name": "sort", "in": "query"},
                    {"type": "integer", "default": 1, "name": "page", "in": "query"},
                    {"type": "integer", "default": 10, "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.SuccessResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ValidationErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["courses"],
                "summary": "Create a new course",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.CreateCourseRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.SuccessResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ValidationErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/courses/{id}": {
            "get": {
                "tags": ["courses"],
                "summary": "Get a course with mentor, category, students and ratings populated",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.SuccessResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "tags": ["courses"],
                "summary": "Update a course",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.UpdateCourseRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.SuccessResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["courses"],
                "summary": "Delete a course",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.SuccessResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/courses/{id}/enroll": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["courses"],
                "summary": "Enroll the requester in a published course",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.SuccessResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/courses/{id}/rate": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["courses"],
                "summary": "Rate a course the requester is enrolled in",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.RatingRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.SuccessResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/courses/{id}/publish": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "tags": ["courses"],
                "summary": "Publish a course",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.SuccessResponse"}}}
            }
        },
        "/courses/{id}/unpublish": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "tags": ["courses"],
                "summary": "Unpublish a course",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.SuccessResponse"}}}
            }
        },
        "/courses/enrolled": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["courses"],
                "summary": "List courses the requester is enrolled in",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.SuccessResponse"}}}
            }
        },
        "/courses/mentor/courses": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["courses"],
                "summary": "List the requester's own courses",
                "parameters": [{"type": "boolean", "name": "isPublished", "in": "query"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.SuccessResponse"}}}
            }
        },
        "/admin/jobs/courses/{id}/refresh-rating": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["admin"],
                "summary": "Enqueue a rating refresh for a course",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "default": 0, "name": "delaySec", "in": "query"}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/models.SuccessResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ValidationErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/categories": {
            "get": {
                "tags": ["categories"],
                "summary": "List categories",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.SuccessResponse"}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["categories"],
                "summary": "Create a category",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.CreateCategoryRequest"}}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/models.SuccessResponse"}}}
            }
        },
        "/categories/{id}": {
            "get": {
                "tags": ["categories"],
                "summary": "Get a category",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.SuccessResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "models.ErrorResponse": {
            "type": "object",
            "properties": {"status": {"type": "integer"}, "message": {"type": "string"}}
        },
        "models.FieldError": {
            "type": "object",
            "properties": {"field": {"type": "string"}, "message": {"type": "string"}}
        },
        "models.ValidationErrorResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "fail"},
                "errors": {"type": "array", "items": {"$ref": "#/definitions/models.FieldError"}}
            }
        },
        "models.SuccessResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "success"},
                "message": {"type": "string"},
                "data": {}
            }
        },
        "models.ContentItemInput": {
            "type": "object",
            "required": ["title"],
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "videoUrl": {"type": "string"},
                "duration": {"type": "integer"}
            }
        },
        "models.CreateCourseRequest": {
            "type": "object",
            "required": ["title", "description", "thumbnail", "price", "category", "level", "duration", "content"],
            "properties": {
                "title": {"type": "string", "example": "Go for Backend Engineers"},
                "description": {"type": "string"},
                "thumbnail": {"type": "string", "example": "https://cdn.example.com/go.png"},
                "price": {"type": "number", "example": 49.99},
                "category": {"type": "string", "example": "507f1f77bcf86cd799439011"},
                "level": {"type": "string", "enum": ["beginner", "intermediate", "advanced"]},
                "duration": {"type": "integer", "example": 120},
                "content": {"type": "array", "items": {"$ref": "#/definitions/models.ContentItemInput"}},
                "isPublished": {"type": "boolean"},
                "status": {"type": "string", "enum": ["draft", "published", "archived"]},
                "mentor": {"type": "string"}
            }
        },
        "models.UpdateCourseRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "thumbnail": {"type": "string"},
                "price": {"type": "number"},
                "category": {"type": "string"},
                "level": {"type": "string", "enum": ["beginner", "intermediate", "advanced"]},
                "duration": {"type": "integer"},
                "content": {"type": "array", "items": {"$ref": "#/definitions/models.ContentItemInput"}},
                "isPublished": {"type": "boolean"},
                "status": {"type": "string", "enum": ["draft", "published", "archived"]}
            }
        },
        "models.RatingRequest": {
            "type": "object",
            "required": ["rating"],
            "properties": {
                "rating": {"type": "number", "example": 5},
                "review": {"type": "string", "example": "Clear and practical."}
            }
        },
        "models.CreateCategoryRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {"name": {"type": "string"}, "description": {"type": "string"}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "LearnHub Course API",
	Description:      "Course catalogue, enrollment and rating service.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
