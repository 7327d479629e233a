package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Appkademy API",
        "description": "Tutoring marketplace: teacher search and validated profile writes.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Auth", "description": "Login and caller identity"},
        {"name": "Teachers", "description": "Teacher search and profile management"},
        {"name": "Students", "description": "Student profile management"},
        {"name": "Exports", "description": "Background teacher exports"}
    ],
    "paths": {
        "/exports/jobs": {
            "post": {
                "tags": ["Exports"],
                "summary": "Queue a teacher search export",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExportJobRequest"}}
                ],
                "responses": {
                    "202": {"description": "Queued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exports/jobs/{id}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Get export job status",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exports/download/{token}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download a finished export",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File", "schema": {"type": "file"}},
                    "403": {"description": "Invalid or expired token", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Not ready", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Issue an access token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Describe the authenticated caller",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/teachers/search": {
            "get": {
                "tags": ["Teachers"],
                "summary": "Search teachers",
                "description": "Every parameter is optional. Subject and masteryLevel may be satisfied by different proficiencies of the same teacher.",
                "parameters": [
                    {"name": "teacherIds", "in": "query", "type": "array", "items": {"type": "string"}, "collectionFormat": "csv"},
                    {"name": "country", "in": "query", "type": "string"},
                    {"name": "province", "in": "query", "type": "string"},
                    {"name": "city", "in": "query", "type": "string"},
                    {"name": "subject", "in": "query", "type": "string"},
                    {"name": "masteryLevel", "in": "query", "type": "string", "enum": ["BEGINNER", "INTERMEDIATE", "ADVANCED", "EXPERT"]},
                    {"name": "pageNumber", "in": "query", "type": "integer", "default": 1},
                    {"name": "pageSize", "in": "query", "type": "integer", "default": 10}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/TeacherSearchEnvelope"}},
                    "400": {"description": "Invalid page request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Teachers"],
                "summary": "Search teachers with a JSON filter",
                "parameters": [
                    {"name": "payload", "in": "body", "required": false, "schema": {"$ref": "#/definitions/TeacherFilter"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/TeacherSearchEnvelope"}},
                    "400": {"description": "Invalid filter", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/teachers/export": {
            "get": {
                "tags": ["Teachers"],
                "summary": "Export a page of teacher search results",
                "produces": ["text/csv", "application/pdf"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "country", "in": "query", "type": "string"},
                    {"name": "province", "in": "query", "type": "string"},
                    {"name": "city", "in": "query", "type": "string"},
                    {"name": "subject", "in": "query", "type": "string"},
                    {"name": "masteryLevel", "in": "query", "type": "string"},
                    {"name": "pageNumber", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "File", "schema": {"type": "file"}},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Admins only", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/teachers/me": {
            "get": {
                "tags": ["Teachers"],
                "summary": "Get the caller's own teacher profile",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/teachers": {
            "post": {
                "tags": ["Teachers"],
                "summary": "Register a teacher profile",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TeacherCreateRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown user, proficiency or characteristic", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "User already linked to a profile", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/teachers/{id}": {
            "get": {
                "tags": ["Teachers"],
                "summary": "Get teacher detail",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Teachers"],
                "summary": "Replace a teacher profile",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TeacherUpdateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Teachers"],
                "summary": "Delete a teacher profile",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List students",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "enabled", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Students"],
                "summary": "Register a student profile",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StudentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "User already linked to a profile", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/{id}": {
            "get": {
                "tags": ["Students"],
                "summary": "Get student detail",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Students"],
                "summary": "Replace a student profile",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StudentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Students"],
                "summary": "Delete a student profile",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"}
                }
            }
        }
    },
    "definitions": {
        "ExportJobRequest": {
            "type": "object",
            "properties": {
                "filter": {"$ref": "#/definitions/TeacherFilter"},
                "format": {"type": "string", "enum": ["csv", "pdf"]}
            }
        },
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "Address": {
            "type": "object",
            "required": ["country", "province", "city"],
            "properties": {
                "country": {"type": "string"},
                "province": {"type": "string"},
                "city": {"type": "string"},
                "streetAddress": {"type": "string"}
            }
        },
        "WorkingHours": {
            "type": "object",
            "properties": {
                "start": {"type": "string", "example": "09:00"},
                "end": {"type": "string", "example": "13:00"}
            }
        },
        "WeeklyWorkingSchedule": {
            "type": "object",
            "properties": {
                "monday": {"type": "array", "items": {"$ref": "#/definitions/WorkingHours"}},
                "tuesday": {"type": "array", "items": {"$ref": "#/definitions/WorkingHours"}},
                "wednesday": {"type": "array", "items": {"$ref": "#/definitions/WorkingHours"}},
                "thursday": {"type": "array", "items": {"$ref": "#/definitions/WorkingHours"}},
                "friday": {"type": "array", "items": {"$ref": "#/definitions/WorkingHours"}},
                "saturday": {"type": "array", "items": {"$ref": "#/definitions/WorkingHours"}},
                "sunday": {"type": "array", "items": {"$ref": "#/definitions/WorkingHours"}}
            }
        },
        "TeacherFilter": {
            "type": "object",
            "properties": {
                "teacherIds": {"type": "array", "items": {"type": "string"}},
                "country": {"type": "string"},
                "province": {"type": "string"},
                "city": {"type": "string"},
                "teachingProficiency": {
                    "type": "object",
                    "properties": {
                        "subject": {"type": "object", "properties": {"name": {"type": "string"}}},
                        "masteryLevel": {"type": "string", "enum": ["BEGINNER", "INTERMEDIATE", "ADVANCED", "EXPERT"]}
                    }
                },
                "pageNumber": {"type": "integer"},
                "pageSize": {"type": "integer"}
            }
        },
        "TeacherCreateRequest": {
            "type": "object",
            "required": ["userId", "firstName", "lastName", "hourlyRates", "modalities", "proficiencyIds", "address"],
            "properties": {
                "userId": {"type": "string"},
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "hourlyRates": {"type": "object", "additionalProperties": {"type": "string"}, "example": {"USD": "25.00"}},
                "modalities": {"type": "array", "items": {"type": "string", "enum": ["REMOTE", "FACE_TO_FACE"]}},
                "proficiencyIds": {"type": "array", "items": {"type": "string"}},
                "characteristicIds": {"type": "array", "items": {"type": "string"}},
                "weeklyWorkingSchedule": {"$ref": "#/definitions/WeeklyWorkingSchedule"},
                "profilePictureUrl": {"type": "string"},
                "shortDescription": {"type": "string"},
                "fullDescription": {"type": "string"},
                "address": {"$ref": "#/definitions/Address"}
            }
        },
        "TeacherUpdateRequest": {
            "type": "object",
            "required": ["firstName", "lastName", "hourlyRates", "modalities", "proficiencyIds", "address"],
            "properties": {
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "hourlyRates": {"type": "object", "additionalProperties": {"type": "string"}},
                "modalities": {"type": "array", "items": {"type": "string", "enum": ["REMOTE", "FACE_TO_FACE"]}},
                "proficiencyIds": {"type": "array", "items": {"type": "string"}},
                "characteristicIds": {"type": "array", "items": {"type": "string"}},
                "weeklyWorkingSchedule": {"$ref": "#/definitions/WeeklyWorkingSchedule"},
                "profilePictureUrl": {"type": "string"},
                "shortDescription": {"type": "string"},
                "fullDescription": {"type": "string"},
                "address": {"$ref": "#/definitions/Address"},
                "enabled": {"type": "boolean"},
                "totalLikes": {"type": "integer"}
            }
        },
        "StudentRequest": {
            "type": "object",
            "required": ["firstName", "lastName", "email"],
            "properties": {
                "userId": {"type": "string"},
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "email": {"type": "string"},
                "profilePictureUrl": {"type": "string"},
                "address": {"$ref": "#/definitions/Address"},
                "enabled": {"type": "boolean"}
            }
        },
        "TeacherCompact": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "providerCategoryId": {"type": "integer"},
                "identityVerified": {"type": "boolean"},
                "address": {"$ref": "#/definitions/Address"},
                "profilePictureUrl": {"type": "string"},
                "shortDescription": {"type": "string"},
                "totalLikes": {"type": "integer"},
                "proficiencies": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "id": {"type": "string"},
                            "subject": {"type": "object", "properties": {"id": {"type": "string"}, "name": {"type": "string"}}},
                            "masteryLevel": {"type": "string"}
                        }
                    }
                }
            }
        },
        "TeacherSearchResult": {
            "type": "object",
            "properties": {
                "pageNumberSelected": {"type": "integer"},
                "pageSizeSelected": {"type": "integer"},
                "totalPagesFound": {"type": "integer"},
                "totalItemsFound": {"type": "integer"},
                "searchResults": {"type": "array", "items": {"$ref": "#/definitions/TeacherCompact"}}
            }
        },
        "TeacherSearchEnvelope": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/TeacherSearchResult"}
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
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"}
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
