package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Timetable API",
        "description": "Generates weekly timetables from faculty workload sheets",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Timetables", "description": "Workload upload and timetable generation"},
        {"name": "Operations", "description": "Health, readiness and metrics"}
    ],
    "paths": {
        "/health": {
            "get": {
                "tags": ["Operations"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "tags": ["Operations"],
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Upload storage unavailable"}
                }
            }
        },
        "/metrics": {
            "get": {
                "tags": ["Operations"],
                "summary": "Prometheus metrics",
                "produces": ["text/plain"],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/upload": {
            "post": {
                "tags": ["Timetables"],
                "summary": "Generate a timetable from a workload sheet (legacy endpoint)",
                "description": "Original upload path. Prefer /api/v1/timetables/generate for new integrations.",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json", "text/csv", "application/pdf"],
                "parameters": [
                    {"name": "file", "in": "formData", "type": "file", "required": true, "description": "Faculty workload (.xlsx or .csv)"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["json", "csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/TimetableEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "413": {"description": "Payload Too Large", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/timetables/generate": {
            "post": {
                "tags": ["Timetables"],
                "summary": "Generate a timetable from a workload sheet (canonical alias)",
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "produces": ["application/json", "text/csv", "application/pdf"],
                "parameters": [
                    {"name": "file", "in": "formData", "type": "file", "required": true, "description": "Faculty workload (.xlsx or .csv)"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["json", "csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/TimetableEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "413": {"description": "Payload Too Large", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "Session": {
            "type": "object",
            "properties": {
                "subject": {"type": "string"},
                "faculty": {"type": "string"},
                "code": {"type": "string"},
                "section": {"type": "string"},
                "room": {"type": "string"}
            }
        },
        "SubjectSummary": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "name": {"type": "string"},
                "faculty": {"type": "string"},
                "section": {"type": "string"},
                "type": {"type": "string", "enum": ["Lab", "Theory"]}
            }
        },
        "Timetable": {
            "type": "object",
            "properties": {
                "schedule": {
                    "type": "object",
                    "description": "Keyed by Mon, Tue, Wed, Thurs, Fri; each day holds 9 cells (null when empty)",
                    "additionalProperties": {
                        "type": "array",
                        "items": {"$ref": "#/definitions/Session"}
                    }
                },
                "subjects": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/SubjectSummary"}
                }
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        },
        "TimetableEnvelope": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/Timetable"},
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
