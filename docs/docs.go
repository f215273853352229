// Package docs holds the generated OpenAPI description served under /swagger/.
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
        "/events": {
            "get": {
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "List events",
                "responses": {
                    "200": {"description": "data contains the events", "schema": {"$ref": "#/definitions/controllers.ListEventsSuccessResponse"}},
                    "500": {"description": "error.code: store_error or internal_error", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Create a new event",
                "parameters": [
                    {"description": "Event data", "name": "event", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.EventRequest"}}
                ],
                "responses": {
                    "201": {"description": "data contains the created event", "schema": {"$ref": "#/definitions/controllers.EventSuccessResponse"}},
                    "400": {"description": "error.code: bad_request", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "500": {"description": "error.code: store_error or internal_error", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/events/{eventID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Get an event by ID",
                "parameters": [{"type": "string", "description": "Event ID", "name": "eventID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "data contains the event", "schema": {"$ref": "#/definitions/controllers.EventSuccessResponse"}},
                    "404": {"description": "error.code: not_found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Update an event",
                "parameters": [
                    {"type": "string", "description": "Event ID", "name": "eventID", "in": "path", "required": true},
                    {"description": "Fields to update", "name": "event", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.EventRequest"}}
                ],
                "responses": {
                    "200": {"description": "data contains a message and the updated event", "schema": {"$ref": "#/definitions/controllers.UpdateEventSuccessResponse"}},
                    "400": {"description": "error.code: bad_request", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "404": {"description": "error.code: not_found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Delete an event",
                "parameters": [{"type": "string", "description": "Event ID", "name": "eventID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "data.message: Evento eliminado correctamente", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "404": {"description": "error.code: not_found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/events/{eventID}/calendar.ics": {
            "get": {
                "produces": ["text/calendar"],
                "tags": ["events"],
                "summary": "Export an event as iCalendar",
                "parameters": [{"type": "string", "description": "Event ID", "name": "eventID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "text/calendar document", "schema": {"type": "string"}},
                    "404": {"description": "error.code: not_found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/events/{eventID}/confirmar/{email}": {
            "patch": {
                "produces": ["application/json"],
                "tags": ["attendance"],
                "summary": "Confirm a participant's attendance",
                "parameters": [
                    {"type": "string", "description": "Event ID", "name": "eventID", "in": "path", "required": true},
                    {"type": "string", "description": "Participant email (exact match)", "name": "email", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "data contains a message and the participant", "schema": {"$ref": "#/definitions/controllers.ConfirmAttendanceSuccessResponse"}},
                    "400": {"description": "error.code: bad_request", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "404": {"description": "error.code: not_found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/events/{eventID}/recordatorio": {
            "post": {
                "produces": ["application/json"],
                "tags": ["reminders"],
                "summary": "Send reminders to the event participants",
                "parameters": [{"type": "string", "description": "Event ID", "name": "eventID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "data contains the reminder plan", "schema": {"$ref": "#/definitions/controllers.ReminderSuccessResponse"}},
                    "400": {"description": "error.code: bad_request", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "404": {"description": "error.code: not_found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "data.message: ok", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "503": {"description": "error.code: store_error", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "controllers.ConfirmAttendanceResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "participante": {"$ref": "#/definitions/domain.Participant"}
            }
        },
        "controllers.ConfirmAttendanceSuccessResponse": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/controllers.ConfirmAttendanceResponse"},
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        },
        "controllers.EventRequest": {
            "type": "object",
            "properties": {
                "titulo": {"type": "string"},
                "fechaInicio": {"type": "string", "example": "2025-03-10T18:00:00Z"},
                "fechaFin": {"type": "string", "example": "2025-03-10T20:00:00Z"},
                "capacidadMaxima": {"type": "integer"},
                "lugaresDisponibles": {"type": "integer"},
                "participantes": {"type": "array", "items": {"$ref": "#/definitions/domain.Participant"}}
            }
        },
        "controllers.EventSuccessResponse": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/domain.Event"},
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        },
        "controllers.ListEventsSuccessResponse": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/domain.Event"}},
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        },
        "controllers.ReminderSuccessResponse": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/domain.ReminderPlan"},
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        },
        "controllers.UpdateEventResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "event": {"$ref": "#/definitions/domain.Event"}
            }
        },
        "controllers.UpdateEventSuccessResponse": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/controllers.UpdateEventResponse"},
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        },
        "domain.Event": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "titulo": {"type": "string"},
                "fechaInicio": {"type": "string"},
                "fechaFin": {"type": "string"},
                "capacidadMaxima": {"type": "integer"},
                "lugaresDisponibles": {"type": "integer"},
                "participantes": {"type": "array", "items": {"$ref": "#/definitions/domain.Participant"}}
            }
        },
        "domain.Participant": {
            "type": "object",
            "properties": {
                "correo": {"type": "string"},
                "asistenciaConfirmada": {"type": "boolean"}
            }
        },
        "domain.ReminderMessage": {
            "type": "object",
            "properties": {
                "correo": {"type": "string"},
                "mensaje": {"type": "string"}
            }
        },
        "domain.ReminderPlan": {
            "type": "object",
            "properties": {
                "eventId": {"type": "string"},
                "message": {"type": "string"},
                "participantes": {"type": "array", "items": {"$ref": "#/definitions/domain.ReminderMessage"}},
                "fallidos": {"type": "array", "items": {"type": "string"}}
            }
        },
        "helpers.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "helpers.APIResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Eventos API",
	Description:      "Events with capacity, attendance confirmation and reminders.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
