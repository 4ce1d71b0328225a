// Package docs registra la documentación OpenAPI (swagger 2.0) servida en /swagger.
// Se mantiene a mano junto con las anotaciones godoc de los handlers.
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
        "/api/consultations": {
            "get": {
                "produces": ["application/json"],
                "tags": ["consultations"],
                "summary": "Listar consultas",
                "parameters": [
                    {"type": "string", "description": "ID de sesión", "name": "X-Session-ID", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/consultations.consultationResponse"}}}
                }
            },
            "post": {
                "consumes": ["multipart/form-data", "application/json"],
                "produces": ["application/json"],
                "tags": ["consultations"],
                "summary": "Procesar consulta",
                "description": "Transcribe el audio, lee la imagen o toma el texto (en ese orden de prioridad), resume la consulta e identifica términos médicos.",
                "parameters": [
                    {"type": "string", "description": "ID de sesión", "name": "X-Session-ID", "in": "header"},
                    {"type": "file", "description": "Grabación de la consulta", "name": "audio", "in": "formData"},
                    {"type": "file", "description": "Foto de las notas", "name": "image", "in": "formData"},
                    {"type": "string", "description": "Texto de la consulta", "name": "text", "in": "formData"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/consultations.consultationResponse"}},
                    "400": {"description": "sin audio, imagen ni texto", "schema": {"type": "string"}},
                    "502": {"description": "falló un servicio externo", "schema": {"type": "string"}}
                }
            }
        },
        "/api/consultations/{consultationID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["consultations"],
                "summary": "Ver consulta",
                "parameters": [
                    {"type": "string", "description": "ID de sesión", "name": "X-Session-ID", "in": "header"},
                    {"type": "string", "description": "Consultation ID", "name": "consultationID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/consultations.consultationResponse"}},
                    "404": {"description": "not found", "schema": {"type": "string"}}
                }
            }
        },
        "/api/terms": {
            "get": {
                "produces": ["application/json"],
                "tags": ["terms"],
                "summary": "Listar explicaciones",
                "parameters": [
                    {"type": "string", "description": "ID de sesión", "name": "X-Session-ID", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/terms.explanationResponse"}}}
                }
            }
        },
        "/api/terms/explain": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["terms"],
                "summary": "Explicar término médico",
                "parameters": [
                    {"type": "string", "description": "ID de sesión", "name": "X-Session-ID", "in": "header"},
                    {"description": "Término y contexto", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/terms.explainRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/terms.explanationResponse"}},
                    "400": {"description": "term required", "schema": {"type": "string"}},
                    "502": {"description": "falló un servicio externo", "schema": {"type": "string"}}
                }
            }
        },
        "/api/medications/schedule": {
            "get": {
                "produces": ["application/json"],
                "tags": ["medications"],
                "summary": "Plan de medicación vigente",
                "parameters": [
                    {"type": "string", "description": "ID de sesión", "name": "X-Session-ID", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/medication.scheduleResponse"}},
                    "404": {"description": "no schedule yet", "schema": {"type": "string"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["medications"],
                "summary": "Generar plan de medicación",
                "parameters": [
                    {"type": "string", "description": "ID de sesión", "name": "X-Session-ID", "in": "header"},
                    {"description": "Texto libre o medicamentos estructurados", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/medication.generateScheduleRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/medication.scheduleResponse"}},
                    "400": {"description": "invalid json / medicamento sin nombre", "schema": {"type": "string"}}
                }
            }
        },
        "/api/medications/reminders": {
            "get": {
                "produces": ["application/json"],
                "tags": ["medications"],
                "summary": "Próximas tomas",
                "parameters": [
                    {"type": "string", "description": "ID de sesión", "name": "X-Session-ID", "in": "header"},
                    {"type": "string", "description": "Ventana en minutos (60) o duración (90m)", "name": "window", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/medication.remindersResponse"}},
                    "400": {"description": "invalid window", "schema": {"type": "string"}}
                }
            }
        },
        "/api/me/history": {
            "get": {
                "produces": ["application/json"],
                "tags": ["history"],
                "summary": "Historial de la sesión",
                "parameters": [
                    {"type": "string", "description": "ID de sesión", "name": "X-Session-ID", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/history.historyResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["text/plain"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {"200": {"description": "ok", "schema": {"type": "string"}}}
            }
        }
    },
    "definitions": {
        "ai.Term": {
            "type": "object",
            "properties": {"term": {"type": "string"}, "context": {"type": "string"}}
        },
        "consultations.consultationResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "source": {"type": "string", "enum": ["audio", "image", "text"]},
                "transcription": {"type": "string"},
                "summary": {"type": "string"},
                "terms": {"type": "array", "items": {"$ref": "#/definitions/ai.Term"}},
                "created_at": {"type": "string", "format": "date-time"}
            }
        },
        "terms.explainRequest": {
            "type": "object",
            "properties": {
                "term": {"type": "string", "example": "hypertension"},
                "context": {"type": "string", "example": "diagnosed with hypertension"}
            }
        },
        "terms.explanationResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "term": {"type": "string"},
                "context": {"type": "string"},
                "explanation": {"type": "string"},
                "sources": {"type": "array", "items": {"type": "string"}},
                "cached": {"type": "boolean"},
                "created_at": {"type": "string", "format": "date-time"}
            }
        },
        "medication.MedicationEntry": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "dosage": {"type": "string"},
                "frequency": {"type": "string"},
                "timing": {"type": "string"},
                "instructions": {"type": "string"}
            }
        },
        "medication.DoseEvent": {
            "type": "object",
            "properties": {
                "entry": {"type": "integer"},
                "medication": {"type": "string"},
                "dosage": {"type": "string"},
                "time": {"type": "string", "example": "08:00"},
                "bucket": {"type": "string", "enum": ["morning", "afternoon", "evening", "night"]},
                "note": {"type": "string"},
                "fallback": {"type": "boolean"}
            }
        },
        "medication.Warning": {
            "type": "object",
            "properties": {"entry": {"type": "integer"}, "medication": {"type": "string"}, "message": {"type": "string"}}
        },
        "medication.BucketGroup": {
            "type": "object",
            "properties": {
                "bucket": {"type": "string"},
                "events": {"type": "array", "items": {"$ref": "#/definitions/medication.DoseEvent"}}
            }
        },
        "medication.Reminder": {
            "type": "object",
            "properties": {
                "medication": {"type": "string"},
                "dosage": {"type": "string"},
                "time": {"type": "string"},
                "bucket": {"type": "string"},
                "note": {"type": "string"},
                "due_at": {"type": "string", "format": "date-time"},
                "due_in_minutes": {"type": "integer"}
            }
        },
        "medication.generateScheduleRequest": {
            "type": "object",
            "properties": {
                "text": {"type": "string", "example": "Metformin 500mg twice daily with meals"},
                "medications": {"type": "array", "items": {"$ref": "#/definitions/medication.MedicationEntry"}}
            }
        },
        "medication.scheduleResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "medications": {"type": "array", "items": {"$ref": "#/definitions/medication.MedicationEntry"}},
                "events": {"type": "array", "items": {"$ref": "#/definitions/medication.DoseEvent"}},
                "groups": {"type": "array", "items": {"$ref": "#/definitions/medication.BucketGroup"}},
                "warnings": {"type": "array", "items": {"$ref": "#/definitions/medication.Warning"}},
                "created_at": {"type": "string", "format": "date-time"}
            }
        },
        "medication.remindersResponse": {
            "type": "object",
            "properties": {
                "window_minutes": {"type": "integer"},
                "reminders": {"type": "array", "items": {"$ref": "#/definitions/medication.Reminder"}}
            }
        },
        "history.historyResponse": {
            "type": "object",
            "properties": {
                "user_id": {"type": "string"},
                "consultations": {"type": "array", "items": {"$ref": "#/definitions/consultations.consultationResponse"}},
                "medication_schedules": {"type": "array", "items": {"$ref": "#/definitions/medication.scheduleResponse"}},
                "explanations": {"type": "array", "items": {"$ref": "#/definitions/terms.explanationResponse"}}
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
	Title:            "PatientPal API",
	Description:      "Resumen de consultas médicas, explicación de términos y plan diario de medicación.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
