package handler

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// --- Request Types ---

// SearchRequestBody represents the search request body.
type SearchRequestBody struct {
	IndexName string `json:"index_name" example:"default"`
	Query     string `json:"query" binding:"required" example:"acme invoice total"`
	TopK      *int   `json:"top_k" example:"5"`
}

// --- Response Types ---

// ProcessedDocument is the flattened record returned by an upload.
type ProcessedDocument struct {
	Filename      string  `json:"filename" example:"invoice.pdf"`
	IndexName     string  `json:"index_name" example:"default"`
	Class         string  `json:"class" example:"Invoice"`
	InvoiceNumber string  `json:"invoice_number,omitempty" example:"12345"`
	Date          string  `json:"date,omitempty" example:"2024-01-15"`
	Company       string  `json:"company,omitempty" example:"Acme Corp Inc."`
	TotalAmount   float64 `json:"total_amount,omitempty" example:"250"`
}

// SearchHitBody is one ranked search result.
type SearchHitBody struct {
	Rank            int     `json:"rank" example:"1"`
	Filename        string  `json:"filename" example:"invoice.pdf"`
	SimilarityScore float64 `json:"similarity_score" example:"0.8123"`
	TextSnippet     string  `json:"text_snippet" example:"INVOICE #12345 Date: 2024-01-15..."`
}

// SearchResponseBody represents the search response.
type SearchResponseBody struct {
	Query        string          `json:"query" example:"acme invoice total"`
	Results      []SearchHitBody `json:"results"`
	TotalResults int             `json:"total_results" example:"1"`
}

// IndexInfo summarizes a loaded index.
type IndexInfo struct {
	Name       string `json:"name" example:"default"`
	Entries    int    `json:"entries" example:"12"`
	Dimensions int    `json:"dimensions" example:"384"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty" example:"results store not reachable"`
}

// --- Generic Response Wrappers ---

// Response wraps a successful response with data.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *ListMeta   `json:"meta,omitempty"`
}

// ErrorResponseBody wraps an error response.
type ErrorResponseBody struct {
	Success bool      `json:"success" example:"false"`
	Error   *APIError `json:"error"`
}
