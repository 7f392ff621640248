package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SCI CRM API",
        "description": "Lead lifecycle, enrollment and reporting API for coaching institute staff",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": ["http", "https"],
    "securityDefinitions": {"BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}},
    "tags": [
        {
            "name": "Authentication",
            "description": "Sign-in through the identity provider and the employee gate"
        },
        {"name": "Inquiries", "description": "New leads"},
        {"name": "Potentials", "description": "Qualified leads"},
        {"name": "Students", "description": "Enrolled students"},
        {"name": "Exports", "description": "Asynchronous CSV and PDF exports"}
    ],
    "paths": {
        "/auth/sign-in": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Sign in with email and password",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/SignInRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {
                        "description": "Invalid credential",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "403": {
                        "description": "Not an approved employee",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    }
                }
            }
        },
        "/auth/sign-in/federated": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Sign in with a federated ID token",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/FederatedSignInRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {
                        "description": "Sign-in cancelled",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "409": {
                        "description": "Account exists with a different credential",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    }
                }
            }
        },
        "/auth/sign-up": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register a credential for a listed employee",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/SignUpRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {
                        "description": "Not a registered employee",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "409": {"description": "Email in use", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/sign-out": {
            "post": {
                "tags": ["Authentication"],
                "summary": "End the current session",
                "responses": {"204": {"description": "No Content"}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Describe the current session",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List students",
                "parameters": [
                    {"name": "batchId", "in": "query", "type": "string"},
                    {"name": "q", "in": "query", "type": "string"},
                    {"name": "enrollmentId", "in": "query", "type": "string"},
                    {"name": "email", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            },
            "post": {
                "tags": ["Students"],
                "summary": "Create student",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/StudentRequest"}
                    }
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/students/{id}": {
            "put": {
                "tags": ["Students"],
                "summary": "Update student",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/StudentRequest"}
                    }
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            },
            "delete": {
                "tags": ["Students"],
                "summary": "Delete student",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "No Content"}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/students/bulk-delete": {
            "post": {
                "tags": ["Students"],
                "summary": "Delete several students",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/BulkDeleteRequest"}
                    }
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/students/reassign-batch": {
            "post": {
                "tags": ["Students"],
                "summary": "Move students into a batch",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/ReassignBatchRequest"}
                    }
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/inquiries": {
            "get": {
                "tags": ["Inquiries"],
                "summary": "List inquiries",
                "parameters": [{"name": "q", "in": "query", "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            },
            "post": {
                "tags": ["Inquiries"],
                "summary": "Create inquiry",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/CreateInquiryRequest"}
                    }
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/inquiries/{id}": {
            "patch": {
                "tags": ["Inquiries"],
                "summary": "Edit inquiry",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/UpdateInquiryRequest"}
                    }
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            }
        },
        "/inquiries/bulk-delete": {
            "post": {
                "tags": ["Inquiries"],
                "summary": "Delete several inquiries",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/BulkDeleteRequest"}
                    }
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/inquiries/{id}/move-to-potential": {
            "post": {
                "tags": ["Inquiries"],
                "summary": "Promote an inquiry to a potential",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/MoveToPotentialRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            }
        },
        "/inquiries/move-to-potential": {
            "post": {
                "tags": ["Inquiries"],
                "summary": "Promote several inquiries to potentials",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/MoveManyToPotentialsRequest"}
                    }
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/potentials": {
            "get": {
                "tags": ["Potentials"],
                "summary": "List potentials",
                "parameters": [{"name": "q", "in": "query", "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/potentials/{id}": {
            "put": {
                "tags": ["Potentials"],
                "summary": "Replace potential",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/PotentialRequest"}
                    }
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            }
        },
        "/potentials/{id}/enroll": {
            "post": {
                "tags": ["Potentials"],
                "summary": "Enroll a potential as a student",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {
                        "name": "payload",
                        "in": "body",
                        "required": false,
                        "schema": {"$ref": "#/definitions/EnrollPotentialRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            }
        },
        "/programs": {
            "get": {
                "tags": ["Programs"],
                "summary": "List programs",
                "parameters": [{"name": "q", "in": "query", "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            },
            "post": {
                "tags": ["Programs"],
                "summary": "Create program",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/ProgramRequest"}
                    }
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/programs/{id}": {
            "put": {
                "tags": ["Programs"],
                "summary": "Update program",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/ProgramRequest"}
                    }
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            }
        },
        "/batches": {
            "get": {
                "tags": ["Batches"],
                "summary": "List batches",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            },
            "post": {
                "tags": ["Batches"],
                "summary": "Create batch",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/BatchRequest"}
                    }
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/batches/{id}": {
            "put": {
                "tags": ["Batches"],
                "summary": "Update batch",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/BatchRequest"}
                    }
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            }
        },
        "/results": {
            "get": {
                "tags": ["Results"],
                "summary": "List exam results",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/results/{exam}/{year}": {
            "post": {
                "tags": ["Results"],
                "summary": "Add an exam result",
                "parameters": [
                    {"name": "exam", "in": "path", "required": true, "type": "string"},
                    {"name": "year", "in": "path", "required": true, "type": "string"},
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/ExamRecordRequest"}
                    }
                ],
                "responses": {"204": {"description": "No Content"}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/results/{exam}/{year}/{index}": {
            "put": {
                "tags": ["Results"],
                "summary": "Replace an exam result",
                "parameters": [
                    {"name": "exam", "in": "path", "required": true, "type": "string"},
                    {"name": "year", "in": "path", "required": true, "type": "string"},
                    {"name": "index", "in": "path", "required": true, "type": "integer"},
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/ExamRecordRequest"}
                    }
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            },
            "delete": {
                "tags": ["Results"],
                "summary": "Remove an exam result",
                "parameters": [
                    {"name": "exam", "in": "path", "required": true, "type": "string"},
                    {"name": "year", "in": "path", "required": true, "type": "string"},
                    {"name": "index", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            }
        },
        "/employees": {
            "get": {
                "tags": ["Employees"],
                "summary": "List employees",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/dashboard": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Dashboard summary",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/exports": {
            "post": {
                "tags": ["Exports"],
                "summary": "Request an export",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/ExportRequest"}
                    }
                ],
                "responses": {"202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/exports/{id}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Export job status",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            }
        },
        "/exports/download/{token}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download a finished export",
                "parameters": [{"name": "token", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "File"},
                    "403": {"description": "Link expired", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "SignInRequest": {
            "type": "object",
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}},
            "required": ["email", "password"]
        },
        "SignUpRequest": {
            "type": "object",
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}},
            "required": ["email", "password"]
        },
        "FederatedSignInRequest": {"type": "object", "properties": {"idToken": {"type": "string"}}},
        "StudentRequest": {
            "type": "object",
            "properties": {
                "fullName": {"type": "string"},
                "enrollmentId": {"type": "string"},
                "dob": {"type": "string"},
                "className": {"type": "string"},
                "school": {"type": "string"},
                "programId": {"type": "string"},
                "batchId": {"type": "string"},
                "medium": {"type": "string"},
                "board": {"type": "string"},
                "phone": {"type": "string"},
                "email": {"type": "string"},
                "address": {"type": "string"},
                "employeeId": {"type": "string"},
                "status": {"type": "string", "enum": ["active", "inactive", "completed"]}
            },
            "required": ["fullName", "enrollmentId", "status"]
        },
        "EnrollPotentialRequest": {
            "type": "object",
            "properties": {
                "fullName": {"type": "string"},
                "enrollmentId": {"type": "string"},
                "dob": {"type": "string"},
                "className": {"type": "string"},
                "school": {"type": "string"},
                "programId": {"type": "string"},
                "batchId": {"type": "string"},
                "medium": {"type": "string"},
                "board": {"type": "string"},
                "phone": {"type": "string"},
                "email": {"type": "string"},
                "address": {"type": "string"},
                "status": {"type": "string", "enum": ["active", "inactive", "completed"]}
            }
        },
        "BulkDeleteRequest": {
            "type": "object",
            "properties": {"ids": {"type": "array", "items": {"type": "string"}}},
            "required": ["ids"]
        },
        "ReassignBatchRequest": {
            "type": "object",
            "properties": {"ids": {"type": "array", "items": {"type": "string"}}, "batchId": {"type": "string"}},
            "required": ["ids", "batchId"]
        },
        "CreateInquiryRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "phone": {"type": "string"},
                "email": {"type": "string"},
                "address": {"type": "string"},
                "programOfInterestId": {"type": "string"},
                "employeeId": {"type": "string"},
                "status": {"type": "string", "enum": ["New", "Follow-up", "Enrolled", "Dropped"]},
                "source": {"type": "string", "enum": ["Walk-in", "Website", "Referral", "Social Media", "Other"]},
                "notes": {"type": "string"},
                "inquiryDate": {"type": "string"},
                "followUpDate": {"type": "string"}
            },
            "required": ["name", "phone", "inquiryDate"]
        },
        "UpdateInquiryRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "phone": {"type": "string"},
                "email": {"type": "string"},
                "address": {"type": "string"},
                "programOfInterestId": {"type": "string"},
                "employeeId": {"type": "string"},
                "status": {"type": "string", "enum": ["New", "Follow-up", "Enrolled", "Dropped"]},
                "source": {"type": "string", "enum": ["Walk-in", "Website", "Referral", "Social Media", "Other"]},
                "notes": {"type": "string"},
                "inquiryDate": {"type": "string"},
                "followUpDate": {"type": "string"}
            }
        },
        "MoveToPotentialRequest": {"type": "object", "properties": {"remark": {"type": "string"}}, "required": ["remark"]},
        "MoveManyToPotentialsRequest": {
            "type": "object",
            "properties": {"ids": {"type": "array", "items": {"type": "string"}}, "remark": {"type": "string"}},
            "required": ["ids", "remark"]
        },
        "PotentialRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "phone": {"type": "string"},
                "email": {"type": "string"},
                "address": {"type": "string"},
                "programOfInterestId": {"type": "string"},
                "employeeId": {"type": "string"},
                "status": {"type": "string", "enum": ["New", "Follow-up", "Enrolled", "Dropped"]},
                "source": {"type": "string", "enum": ["Walk-in", "Website", "Referral", "Social Media", "Other"]},
                "notes": {"type": "string"},
                "inquiryDate": {"type": "string"},
                "followUpDate": {"type": "string"},
                "remark": {"type": "string"}
            },
            "required": ["name", "phone", "remark"]
        },
        "ProgramRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "category": {"type": "string"},
                "code": {"type": "string"},
                "description": {"type": "string"},
                "duration": {"type": "string"},
                "fee": {"type": "number"},
                "status": {"type": "string", "enum": ["active", "inactive"]},
                "targetAudience": {"type": "string"}
            },
            "required": ["name", "status"]
        },
        "BatchRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "code": {"type": "string"},
                "remarks": {"type": "string"},
                "status": {"type": "string", "enum": ["active", "inactive"]}
            },
            "required": ["name", "status"]
        },
        "ExamRecordRequest": {
            "type": "object",
            "properties": {
                "air": {"type": "string"},
                "name": {"type": "string"},
                "program": {"type": "string"},
                "score": {"type": "string"},
                "url": {"type": "string"}
            },
            "required": ["name"]
        },
        "ExportRequest": {
            "type": "object",
            "properties": {
                "dataset": {"type": "string", "enum": ["students", "inquiries", "potentials"]},
                "format": {"type": "string", "enum": ["csv", "pdf"]},
                "query": {"type": "string"},
                "batchId": {"type": "string"}
            },
            "required": ["dataset", "format"]
        },
        "APIError": {
            "type": "object",
            "properties": {"code": {"type": "string"}, "message": {"type": "string"}, "status": {"type": "integer"}}
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
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
