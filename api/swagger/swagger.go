package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Clinic Booking API",
        "description": "Campus health clinic appointment booking and reschedule service",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Appointments", "description": "Appointment booking and lifecycle"},
        {"name": "Campuses", "description": "Campus lookup and day availability"},
        {"name": "Reschedule", "description": "Batch reschedule, triage and reminders"},
        {"name": "Settings", "description": "Capacity and business-day configuration"},
        {"name": "Reports", "description": "Downloadable day reports"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/appointments": {
            "get": {
                "tags": ["Appointments"],
                "summary": "List appointments",
                "parameters": [
                    {"name": "campus_id", "in": "query", "type": "string"},
                    {"name": "from", "in": "query", "type": "string"},
                    {"name": "to", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Appointments"],
                "summary": "Book an appointment",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateAppointmentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Day closed or at capacity", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/appointments/{id}": {
            "get": {
                "tags": ["Appointments"],
                "summary": "Get appointment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Appointments"],
                "summary": "Delete appointment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/appointments/{id}/status": {
            "patch": {
                "tags": ["Appointments"],
                "summary": "Transition appointment status",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/campuses": {
            "get": {
                "tags": ["Campuses"],
                "summary": "List campuses",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/campuses/{id}": {
            "get": {
                "tags": ["Campuses"],
                "summary": "Get campus",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/campuses/{id}/availability": {
            "get": {
                "tags": ["Campuses"],
                "summary": "Day summaries for a date range",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "from", "in": "query", "required": true, "type": "string"},
                    {"name": "to", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/campuses/{id}/availability/{date}": {
            "get": {
                "tags": ["Campuses"],
                "summary": "Summary for a single day",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "date", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/campuses/{id}/reschedule/auto": {
            "post": {
                "tags": ["Reschedule"],
                "summary": "Auto-spread a day's appointments onto future days",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AutoRescheduleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Placement not found or partial batch", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/campuses/{id}/reschedule/manual": {
            "post": {
                "tags": ["Reschedule"],
                "summary": "Apply caller-chosen reschedule targets",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ManualRescheduleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Capacity exceeded or day not bookable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/campuses/{id}/reschedule/triage": {
            "post": {
                "tags": ["Reschedule"],
                "summary": "Save the completion checklist for a day",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TriageRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/campuses/{id}/reminders": {
            "post": {
                "tags": ["Reschedule"],
                "summary": "Send bulk reminders for a day",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BulkReminderRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/campuses/{id}/booking-setting": {
            "get": {
                "tags": ["Settings"],
                "summary": "Get campus booking setting",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Settings"],
                "summary": "Set campus booking setting",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpsertBookingSettingRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/campuses/{id}/overrides": {
            "get": {
                "tags": ["Settings"],
                "summary": "List day overrides in a range",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "from", "in": "query", "required": true, "type": "string"},
                    {"name": "to", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/campuses/{id}/overrides/{date}": {
            "get": {
                "tags": ["Settings"],
                "summary": "Get a day override",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "date", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Settings"],
                "summary": "Create or update a day override",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "date", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpsertDayOverrideRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Settings"],
                "summary": "Delete a day override",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "date", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/campuses/{id}/schedule-config": {
            "get": {
                "tags": ["Settings"],
                "summary": "Get campus business-day rules",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Settings"],
                "summary": "Set campus business-day rules",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpsertScheduleConfigRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/campuses/{id}/reports/daily": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download the appointment list for a day",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "date", "in": "query", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File download"}
                }
            }
        }
    },
    "definitions": {
        "Appointment": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "campus_id": {"type": "string"},
                "appointment_date": {"type": "string"},
                "start_time": {"type": "string"},
                "end_time": {"type": "string"},
                "appointment_type": {"type": "string"},
                "status": {"type": "string"},
                "patient_name": {"type": "string"},
                "patient_email": {"type": "string"},
                "patient_phone": {"type": "string"},
                "walk_in": {"type": "boolean"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "DaySummary": {
            "type": "object",
            "properties": {
                "campus_id": {"type": "string"},
                "date": {"type": "string"},
                "capacity": {"type": "integer"},
                "booked": {"type": "integer"},
                "bookable": {"type": "boolean"},
                "closed": {"type": "boolean"}
            }
        },
        "CreateAppointmentRequest": {
            "type": "object",
            "properties": {
                "campus_id": {"type": "string"},
                "appointment_date": {"type": "string"},
                "start_time": {"type": "string"},
                "end_time": {"type": "string"},
                "appointment_type": {"type": "string", "enum": ["physical_exam", "consultation", "dental"]},
                "patient_name": {"type": "string"},
                "patient_email": {"type": "string"},
                "patient_phone": {"type": "string"},
                "walk_in": {"type": "boolean"}
            },
            "required": ["campus_id", "appointment_date", "appointment_type", "patient_name"]
        },
        "UpdateStatusRequest": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["scheduled", "completed", "cancelled", "no_show"]}
            },
            "required": ["status"]
        },
        "AutoRescheduleRequest": {
            "type": "object",
            "properties": {
                "source_date": {"type": "string"},
                "appointment_ids": {"type": "array", "items": {"type": "string"}}
            },
            "required": ["source_date", "appointment_ids"]
        },
        "ManualAssignment": {
            "type": "object",
            "properties": {
                "appointment_id": {"type": "string"},
                "target_date": {"type": "string"}
            },
            "required": ["appointment_id", "target_date"]
        },
        "ManualRescheduleRequest": {
            "type": "object",
            "properties": {
                "source_date": {"type": "string"},
                "assignments": {"type": "array", "items": {"$ref": "#/definitions/ManualAssignment"}}
            },
            "required": ["source_date", "assignments"]
        },
        "TriageRequest": {
            "type": "object",
            "properties": {
                "appointment_date": {"type": "string"},
                "completed_ids": {"type": "array", "items": {"type": "string"}}
            },
            "required": ["appointment_date"]
        },
        "BulkReminderRequest": {
            "type": "object",
            "properties": {
                "date": {"type": "string"},
                "template_override": {"type": "string"}
            },
            "required": ["date"]
        },
        "UpsertBookingSettingRequest": {
            "type": "object",
            "properties": {
                "max_bookings_per_day": {"type": "integer", "minimum": 1}
            },
            "required": ["max_bookings_per_day"]
        },
        "UpsertDayOverrideRequest": {
            "type": "object",
            "properties": {
                "date": {"type": "string"},
                "max_bookings": {"type": "integer"},
                "is_closed": {"type": "boolean"},
                "notes": {"type": "string"}
            }
        },
        "UpsertScheduleConfigRequest": {
            "type": "object",
            "properties": {
                "include_saturday": {"type": "boolean"},
                "include_sunday": {"type": "boolean"},
                "holiday_dates": {"type": "array", "items": {"type": "string"}}
            }
        },
        "RescheduleResult": {
            "type": "object",
            "properties": {
                "moves": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "appointment_id": {"type": "string"},
                            "from_date": {"type": "string"},
                            "to_date": {"type": "string"}
                        }
                    }
                },
                "warnings": {"type": "array", "items": {"type": "string"}}
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
