package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Timetable Optimizer API",
        "description": "Finds the best weekly timetable for a set of subjects.",
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
        {"name": "Optimizations", "description": "Timetable search and stored runs"},
        {"name": "Catalog", "description": "Stored activity catalog"},
        {"name": "Observability", "description": "Health and metrics"}
    ],
    "paths": {
        "/health": {
            "get": {
                "tags": ["Observability"],
                "summary": "Health check",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/ready": {
            "get": {
                "tags": ["Observability"],
                "summary": "Readiness check of Postgres and Redis",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "A dependency is unreachable"}
                }
            }
        },
        "/metrics": {
            "get": {
                "tags": ["Observability"],
                "summary": "Prometheus metrics",
                "produces": ["text/plain"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/metrics/summary": {
            "get": {
                "tags": ["Observability"],
                "summary": "JSON snapshot of search and cache counters",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/optimizations": {
            "get": {
                "tags": ["Optimizations"],
                "summary": "List stored optimization runs",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "status", "in": "query", "type": "string", "enum": ["QUEUED", "RUNNING", "COMPLETED", "FAILED"]},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Run persistence not configured", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Optimizations"],
                "summary": "Find the best timetable for an inline catalog",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/OptimizeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/OptimizeEnvelope"}},
                    "400": {"description": "Invalid catalog or preferences", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/optimizations/stored": {
            "post": {
                "tags": ["Optimizations"],
                "summary": "Find the best timetable for stored subjects",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StoredOptimizeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/OptimizeEnvelope"}},
                    "404": {"description": "Unknown subject", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/optimizations/async": {
            "post": {
                "tags": ["Optimizations"],
                "summary": "Queue an optimization for background execution",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/OptimizeRequest"}}
                ],
                "responses": {
                    "202": {"description": "Queued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Queue full or not configured", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/optimizations/cache": {
            "delete": {
                "tags": ["Optimizations"],
                "summary": "Drop cached optimization results",
                "security": [{"BearerAuth": []}],
                "responses": {"204": {"description": "Purged"}}
            }
        },
        "/api/v1/optimizations/{id}": {
            "get": {
                "tags": ["Optimizations"],
                "summary": "Get a stored optimization run",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string", "format": "uuid"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/optimizations/{id}/export": {
            "get": {
                "tags": ["Optimizations"],
                "summary": "Download the schedule of a completed run",
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string", "format": "uuid"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "Schedule file"},
                    "409": {"description": "Run not completed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/catalog": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Read stored subjects",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "subjects", "in": "query", "required": true, "type": "string", "description": "Comma separated subject codes"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "put": {
                "tags": ["Catalog"],
                "summary": "Replace stored subjects with an uploaded catalog",
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json", "application/x-yaml", "text/csv"],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/Catalog"}}
                ],
                "responses": {
                    "200": {"description": "Imported", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid catalog", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "Activity": {
            "type": "object",
            "required": ["groupCode", "activityCode", "day", "start", "duration"],
            "properties": {
                "subjectCode": {"type": "string"},
                "groupCode": {"type": "string", "example": "Lecture"},
                "activityCode": {"type": "string", "example": "01"},
                "day": {"type": "string", "enum": ["Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"]},
                "start": {"type": "string", "example": "09:00"},
                "duration": {"type": "integer", "example": 120},
                "activityType": {"type": "string"},
                "description": {"type": "string"},
                "location": {"type": "string"},
                "campus": {"type": "string"}
            }
        },
        "Subject": {
            "type": "object",
            "properties": {
                "subjectCode": {"type": "string"},
                "description": {"type": "string"},
                "activities": {"type": "array", "items": {"$ref": "#/definitions/Activity"}},
                "requiredGroups": {"type": "array", "items": {"type": "string"}}
            }
        },
        "Catalog": {
            "type": "object",
            "properties": {
                "subjects": {"type": "array", "items": {"$ref": "#/definitions/Subject"}}
            }
        },
        "Preferences": {
            "type": "object",
            "properties": {
                "avoidDays": {"type": "array", "items": {"type": "string"}},
                "timeWindow": {
                    "type": "object",
                    "properties": {
                        "start": {"type": "string", "example": "06:00"},
                        "end": {"type": "string", "example": "18:00"}
                    }
                },
                "minimizeClashes": {"type": "boolean"},
                "clashLectures": {"type": "boolean"},
                "crampClasses": {"type": "boolean"},
                "allocateBreaks": {"type": "boolean"},
                "spreadClasses": {"type": "boolean"}
            }
        },
        "SearchBudget": {
            "type": "object",
            "properties": {
                "maxEvaluations": {"type": "integer"},
                "timeoutMs": {"type": "integer"}
            }
        },
        "OptimizeRequest": {
            "type": "object",
            "required": ["catalog"],
            "properties": {
                "catalog": {"$ref": "#/definitions/Catalog"},
                "preferences": {"$ref": "#/definitions/Preferences"},
                "budget": {"$ref": "#/definitions/SearchBudget"}
            }
        },
        "StoredOptimizeRequest": {
            "type": "object",
            "required": ["subjectCodes"],
            "properties": {
                "subjectCodes": {"type": "array", "items": {"type": "string"}},
                "preferences": {"$ref": "#/definitions/Preferences"},
                "budget": {"$ref": "#/definitions/SearchBudget"}
            }
        },
        "OptimizeResponse": {
            "type": "object",
            "properties": {
                "runId": {"type": "string"},
                "lines": {"type": "array", "items": {"type": "string"}, "example": ["COMP1 | Lecture | Activity 01 | Tue 10:00 (120 mins)"]},
                "schedule": {"type": "array", "items": {"$ref": "#/definitions/Activity"}},
                "score": {"type": "number", "x-nullable": true},
                "breakdown": {
                    "type": "object",
                    "properties": {
                        "dayAvoidance": {"type": "number"},
                        "timeWindow": {"type": "number"},
                        "clash": {"type": "number"}
                    }
                },
                "evaluated": {"type": "integer"},
                "combinations": {"type": "integer"},
                "exhaustive": {"type": "boolean"},
                "cached": {"type": "boolean"},
                "durationMs": {"type": "integer"}
            }
        },
        "OptimizeEnvelope": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/OptimizeResponse"},
                "error": {"$ref": "#/definitions/APIError"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
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
