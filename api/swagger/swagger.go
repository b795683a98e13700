package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Baila Kids Registration API",
        "description": "Class registration, section availability and studio administration",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http",
        "https"
    ],
    "securityDefinitions": {
        "Bearer": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Registration", "description": "Parent-facing sign up"},
        {"name": "Catalog", "description": "Sections, seat counts and availability"},
        {"name": "Waitlist", "description": "Sold-out class requests"},
        {"name": "Admin", "description": "Studio administration"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "A dependency is unavailable"}
                }
            }
        },
        "/api/register": {
            "post": {
                "tags": ["Registration"],
                "summary": "Register a student by section ids or by location and weekdays",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegistrationPayload"}}
                ],
                "responses": {
                    "200": {"description": "Registered", "schema": {"$ref": "#/definitions/PublicResult"}},
                    "400": {"description": "Missing or invalid fields", "schema": {"$ref": "#/definitions/PublicResult"}},
                    "409": {"description": "Section or class full", "schema": {"$ref": "#/definitions/PublicResult"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/PublicResult"}}
                }
            }
        },
        "/api/send-confirmation": {
            "post": {
                "tags": ["Registration"],
                "summary": "Send parent and studio confirmation emails",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ConfirmationRequest"}}
                ],
                "responses": {
                    "200": {"description": "Sent", "schema": {"$ref": "#/definitions/PublicResult"}},
                    "500": {"description": "Delivery failed", "schema": {"$ref": "#/definitions/PublicResult"}}
                }
            }
        },
        "/api/sections": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Active sections of the current session with seats remaining",
                "parameters": [
                    {"name": "location", "in": "query", "type": "string", "enum": ["KATY", "SUGARLAND"]}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/SectionsResponse"}}}
            }
        },
        "/api/class-counts": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Enrolled students per location and class day",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/availability": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Per-location day availability, bundle pricing and sold-out messages",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/waitlist": {
            "post": {
                "tags": ["Waitlist"],
                "summary": "Join the waiting list for a sold-out class",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/WaitlistRequest"}}
                ],
                "responses": {
                    "200": {"description": "Added", "schema": {"$ref": "#/definitions/PublicResult"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/PublicResult"}}
                }
            }
        },
        "/api/admin/login": {
            "post": {
                "tags": ["Admin"],
                "summary": "Issue an administrator access token",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/api/admin/students": {
            "get": {
                "tags": ["Admin"],
                "summary": "List students",
                "security": [{"Bearer": []}],
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "location", "in": "query", "type": "string"},
                    {"name": "paymentStatus", "in": "query", "type": "string"},
                    {"name": "session", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"},
                    {"name": "sortBy", "in": "query", "type": "string"},
                    {"name": "sortOrder", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/admin/students/export": {
            "get": {
                "tags": ["Admin"],
                "summary": "Download the roster as CSV or PDF",
                "security": [{"Bearer": []}],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "paid", "in": "query", "type": "boolean"}
                ],
                "responses": {"200": {"description": "File attachment"}}
            }
        },
        "/api/admin/students/{id}": {
            "get": {
                "tags": ["Admin"],
                "summary": "Get a student",
                "security": [{"Bearer": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "tags": ["Admin"],
                "summary": "Update a student",
                "security": [{"Bearer": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateStudentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/api/admin/sections/{id}/enrollments": {
            "get": {
                "tags": ["Admin"],
                "summary": "Section roster",
                "security": [{"Bearer": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/admin/enrollments/{id}/status": {
            "put": {
                "tags": ["Admin"],
                "summary": "Change an enrollment status",
                "security": [{"Bearer": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateEnrollmentStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Section is full"}
                }
            }
        },
        "/api/admin/calendar": {
            "get": {
                "tags": ["Admin"],
                "summary": "Month view of starts, class meetings and events",
                "security": [{"Bearer": []}],
                "parameters": [{"name": "month", "in": "query", "type": "string", "description": "YYYY-MM"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/admin/calendar/events": {
            "post": {
                "tags": ["Admin"],
                "summary": "Add a calendar note",
                "security": [{"Bearer": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateCalendarEventRequest"}}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/admin/calendar/events/{id}": {
            "delete": {
                "tags": ["Admin"],
                "summary": "Remove a calendar note",
                "security": [{"Bearer": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/admin/config": {
            "get": {
                "tags": ["Admin"],
                "summary": "List settings",
                "security": [{"Bearer": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/admin/config/{key}": {
            "get": {
                "tags": ["Admin"],
                "summary": "Get a setting",
                "security": [{"Bearer": []}],
                "parameters": [{"name": "key", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "put": {
                "tags": ["Admin"],
                "summary": "Update a setting; readers observe it once their cached copy expires",
                "security": [{"Bearer": []}],
                "parameters": [{"name": "key", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/admin/waitlist": {
            "get": {
                "tags": ["Admin"],
                "summary": "List waiting list entries",
                "security": [{"Bearer": []}],
                "parameters": [{"name": "location", "in": "query", "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        }
    },
    "definitions": {
        "WaiverSignature": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "address": {"type": "string"}
            }
        },
        "RegistrationPayload": {
            "type": "object",
            "required": ["studentName", "age", "parentName", "phone", "email", "liabilityAccepted"],
            "properties": {
                "studentName": {"type": "string"},
                "age": {"type": "integer"},
                "parentName": {"type": "string"},
                "phone": {"type": "string"},
                "email": {"type": "string"},
                "paymentMethod": {"type": "string", "enum": ["Cash", "Zelle", "Check"]},
                "liabilityAccepted": {"type": "boolean"},
                "waiverSignature": {"$ref": "#/definitions/WaiverSignature"},
                "sectionIds": {"type": "array", "items": {"type": "string"}},
                "location": {"type": "string"},
                "frequency": {"type": "string"},
                "selectedDays": {"type": "array", "items": {"type": "string"}},
                "startDate": {"type": "string"}
            }
        },
        "ConfirmationRequest": {
            "type": "object",
            "required": ["email"],
            "properties": {
                "email": {"type": "string"},
                "studentName": {"type": "string"},
                "parentName": {"type": "string"},
                "phone": {"type": "string"},
                "location": {"type": "string"},
                "frequency": {"type": "string"},
                "selectedDays": {"type": "array", "items": {"type": "string"}},
                "startDate": {"type": "string"},
                "paymentMethod": {"type": "string"},
                "sectionIds": {"type": "array", "items": {"type": "string"}}
            }
        },
        "WaitlistRequest": {
            "type": "object",
            "required": ["studentName", "parentName", "phone", "email", "location", "requestedDay"],
            "properties": {
                "studentName": {"type": "string"},
                "age": {"type": "integer"},
                "parentName": {"type": "string"},
                "phone": {"type": "string"},
                "email": {"type": "string"},
                "location": {"type": "string"},
                "requestedDay": {"type": "string"},
                "notes": {"type": "string"}
            }
        },
        "SectionView": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "location": {"type": "string"},
                "day": {"type": "string"},
                "label": {"type": "string"},
                "startDate": {"type": "string"},
                "startTime": {"type": "string"},
                "endTime": {"type": "string"},
                "priceCents": {"type": "integer"},
                "capacity": {"type": "integer"},
                "activeCount": {"type": "integer"},
                "seatsRemaining": {"type": "integer"}
            }
        },
        "SectionsResponse": {
            "type": "object",
            "properties": {
                "registrationOpen": {"type": "boolean"},
                "sections": {"type": "array", "items": {"$ref": "#/definitions/SectionView"}}
            }
        },
        "UpdateStudentRequest": {
            "type": "object",
            "properties": {
                "studentName": {"type": "string"},
                "age": {"type": "integer"},
                "parentName": {"type": "string"},
                "phone": {"type": "string"},
                "email": {"type": "string"},
                "location": {"type": "string"},
                "frequency": {"type": "string"},
                "selectedDays": {"type": "array", "items": {"type": "string"}},
                "startDate": {"type": "string"},
                "paymentStatus": {"type": "string"},
                "paymentMethod": {"type": "string"}
            }
        },
        "UpdateEnrollmentStatusRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"type": "string"}
            }
        },
        "CreateCalendarEventRequest": {
            "type": "object",
            "required": ["date", "note"],
            "properties": {
                "date": {"type": "string"},
                "note": {"type": "string"}
            }
        },
        "PublicResult": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "error": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "pageSize": {"type": "integer"},
                "totalCount": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "field": {"type": "string", "description": "Input field the error refers to, when one applies"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
