// Package docs registers the OpenAPI description served under /swagger.
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
        "/upload": {
            "post": {
                "description": "Classify a PDF, extract its fields, add it to a semantic index and store the record",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["documents"],
                "summary": "Upload and process a document",
                "parameters": [
                    {"type": "file", "description": "PDF document", "name": "file", "in": "formData", "required": true},
                    {"type": "string", "default": "default", "description": "Target index", "name": "index_name", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Processed record", "schema": {"$ref": "#/definitions/handler.ProcessedDocument"}},
                    "400": {"description": "Missing file, unsupported type or no extractable text", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "413": {"description": "File too large", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "500": {"description": "Processing failed", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        },
        "/search": {
            "post": {
                "description": "Rank the documents of an index by similarity to a query",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["search"],
                "summary": "Semantic search",
                "parameters": [
                    {"description": "Search query", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.SearchRequestBody"}}
                ],
                "responses": {
                    "200": {"description": "Ranked results", "schema": {"$ref": "#/definitions/handler.SearchResponseBody"}},
                    "400": {"description": "Invalid request or top_k out of range", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        },
        "/indexes": {
            "get": {
                "description": "List the loaded, non-empty semantic indexes",
                "produces": ["application/json"],
                "tags": ["search"],
                "summary": "List indexes",
                "responses": {
                    "200": {"description": "Indexes", "schema": {"$ref": "#/definitions/handler.Response"}}
                }
            }
        },
        "/results": {
            "get": {
                "produces": ["application/json"],
                "tags": ["results"],
                "summary": "List processed records",
                "responses": {
                    "200": {"description": "Records sorted by filename", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "500": {"description": "Results store failure", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        },
        "/results/export": {
            "get": {
                "description": "Download every record as CSV (UTF-8 with BOM) or XLSX",
                "produces": ["application/octet-stream"],
                "tags": ["results"],
                "summary": "Export processed records",
                "parameters": [
                    {"type": "string", "default": "csv", "description": "csv or xlsx", "name": "format", "in": "query"},
                    {"type": "string", "default": "results", "description": "Download file name", "name": "name", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Export file", "schema": {"type": "file"}},
                    "400": {"description": "Unsupported format", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        },
        "/results/{filename}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["results"],
                "summary": "Get a processed record",
                "parameters": [
                    {"type": "string", "description": "Document filename", "name": "filename", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Record", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        }
    },
    "definitions": {
        "handler.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "handler.ErrorResponseBody": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/handler.APIError"},
                "success": {"type": "boolean", "example": false}
            }
        },
        "handler.ListMeta": {
            "type": "object",
            "properties": {
                "total": {"type": "integer"}
            }
        },
        "handler.ProcessedDocument": {
            "type": "object",
            "properties": {
                "class": {"type": "string", "example": "Invoice"},
                "company": {"type": "string", "example": "Acme Corp Inc."},
                "date": {"type": "string", "example": "2024-01-15"},
                "filename": {"type": "string", "example": "invoice.pdf"},
                "index_name": {"type": "string", "example": "default"},
                "invoice_number": {"type": "string", "example": "12345"},
                "total_amount": {"type": "number", "example": 250}
            }
        },
        "handler.Response": {
            "type": "object",
            "properties": {
                "data": {},
                "meta": {"$ref": "#/definitions/handler.ListMeta"},
                "success": {"type": "boolean", "example": true}
            }
        },
        "handler.SearchHitBody": {
            "type": "object",
            "properties": {
                "filename": {"type": "string", "example": "invoice.pdf"},
                "rank": {"type": "integer", "example": 1},
                "similarity_score": {"type": "number", "example": 0.8123},
                "text_snippet": {"type": "string", "example": "INVOICE #12345 Date: 2024-01-15..."}
            }
        },
        "handler.SearchRequestBody": {
            "type": "object",
            "required": ["query"],
            "properties": {
                "index_name": {"type": "string", "example": "default"},
                "query": {"type": "string", "example": "acme invoice total"},
                "top_k": {"type": "integer", "example": 5}
            }
        },
        "handler.SearchResponseBody": {
            "type": "object",
            "properties": {
                "query": {"type": "string", "example": "acme invoice total"},
                "results": {"type": "array", "items": {"$ref": "#/definitions/handler.SearchHitBody"}},
                "total_results": {"type": "integer", "example": 1}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Document Intelligence API",
	Description:      "Classify PDFs, extract structured fields and search them semantically.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
