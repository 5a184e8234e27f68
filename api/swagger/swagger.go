package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "PitCrew API",
        "description": "Team operations backend: attendance hours, permissions, scouting, sponsors",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Login, token refresh and session management"},
        {"name": "Members", "description": "Team member accounts and direct permission grants"},
        {"name": "Groups", "description": "Groups and group permission grants"},
        {"name": "Seasons", "description": "Competition seasons"},
        {"name": "Meetings", "description": "Team meetings and the end-meeting workflow"},
        {"name": "Attendance", "description": "Attendance records"},
        {"name": "Reports", "description": "Hours accounting and report export"},
        {"name": "Sponsors", "description": "Sponsor roster and totals"},
        {"name": "Scouting", "description": "Competition events and scouting forms"},
        {"name": "Dashboard", "description": "Season overview"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate member",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Tokens issued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Rotate refresh token",
                "responses": {
                    "200": {"description": "New token pair", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Expired or revoked token"}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Revoke refresh token",
                "responses": {"204": {"description": "Logged out"}}
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current member info",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/users": {
            "get": {
                "tags": ["Members"],
                "summary": "List members",
                "parameters": [
                    {"name": "active", "in": "query", "type": "boolean"},
                    {"name": "groupId", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Members"],
                "summary": "Create member",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/users/{id}/permissions": {
            "get": {
                "tags": ["Members"],
                "summary": "Effective permission codes",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/groups": {
            "get": {"tags": ["Groups"], "summary": "List groups", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Groups"], "summary": "Create group", "responses": {"201": {"description": "Created"}}}
        },
        "/seasons": {
            "get": {"tags": ["Seasons"], "summary": "List seasons", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Seasons"], "summary": "Create season", "responses": {"201": {"description": "Created"}}}
        },
        "/seasons/current": {
            "get": {"tags": ["Seasons"], "summary": "Current season", "responses": {"200": {"description": "OK"}}}
        },
        "/seasons/{id}/set-current": {
            "post": {
                "tags": ["Seasons"],
                "summary": "Mark season as current",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/meetings": {
            "get": {
                "tags": ["Meetings"],
                "summary": "List meetings",
                "parameters": [
                    {"name": "seasonId", "in": "query", "type": "string"},
                    {"name": "type", "in": "query", "type": "string", "enum": ["reg", "bns", "evnt"]},
                    {"name": "ended", "in": "query", "type": "boolean"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {"tags": ["Meetings"], "summary": "Create meeting", "responses": {"201": {"description": "Created"}}}
        },
        "/meetings/{id}/end": {
            "post": {
                "tags": ["Meetings"],
                "summary": "End meeting and record absences",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "Meeting concluded"},
                    "403": {"description": "Not permitted"},
                    "409": {"description": "Already ended"}
                }
            }
        },
        "/attendance": {
            "get": {
                "tags": ["Attendance"],
                "summary": "List attendance records",
                "parameters": [
                    {"name": "seasonId", "in": "query", "type": "string"},
                    {"name": "userId", "in": "query", "type": "string"},
                    {"name": "meetingId", "in": "query", "type": "string"},
                    {"name": "approval", "in": "query", "type": "string", "enum": ["unapp", "app", "rej"]}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Attendance"],
                "summary": "Create or update an attendance record",
                "responses": {
                    "200": {"description": "Saved"},
                    "400": {"description": "Approved record missing time out"}
                }
            }
        },
        "/reports/meeting-hours": {
            "get": {
                "tags": ["Reports"],
                "summary": "Season meeting hour totals per bucket",
                "parameters": [{"name": "seasonId", "in": "query", "type": "string"}],
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "A meeting has no end time"}
                }
            }
        },
        "/reports/attendance": {
            "get": {
                "tags": ["Reports"],
                "summary": "Per-member earned vs required hours",
                "parameters": [
                    {"name": "seasonId", "in": "query", "type": "string"},
                    {"name": "userId", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/reports/attendance/export": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download attendance report as CSV or PDF",
                "parameters": [
                    {"name": "seasonId", "in": "query", "type": "string"},
                    {"name": "format", "in": "query", "required": true, "type": "string", "enum": ["csv", "pdf"]}
                ],
                "produces": ["text/csv", "application/pdf"],
                "responses": {"200": {"description": "File download"}}
            }
        },
        "/sponsors": {
            "get": {"tags": ["Sponsors"], "summary": "List sponsors", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Sponsors"], "summary": "Create sponsor", "responses": {"201": {"description": "Created"}}}
        },
        "/sponsors/totals": {
            "get": {"tags": ["Sponsors"], "summary": "Season sponsorship totals", "responses": {"200": {"description": "OK"}}}
        },
        "/scouting/events": {
            "get": {"tags": ["Scouting"], "summary": "List season events", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Scouting"], "summary": "Create competition event", "responses": {"201": {"description": "Created"}}}
        },
        "/scouting/match-forms": {
            "get": {"tags": ["Scouting"], "summary": "List field scouting forms", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Scouting"], "summary": "Submit field scouting form", "responses": {"201": {"description": "Created"}}}
        },
        "/scouting/pit-forms": {
            "get": {"tags": ["Scouting"], "summary": "List pit scouting forms", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Scouting"], "summary": "Submit pit scouting form (one per team per event)", "responses": {"200": {"description": "Saved"}}}
        },
        "/scouting/coverage": {
            "get": {"tags": ["Scouting"], "summary": "Season scouting coverage", "responses": {"200": {"description": "OK"}}}
        },
        "/dashboard": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Season overview snapshot",
                "parameters": [{"name": "seasonId", "in": "query", "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
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
