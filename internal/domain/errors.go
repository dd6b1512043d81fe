package domain

import "errors"

var (
	ErrNotFound                = errors.New("resource not found")
	ErrUnsupportedFileType     = errors.New("unsupported file type")
	ErrFileTooLarge            = errors.New("file exceeds maximum allowed size")
	ErrTextExtractionFailed    = errors.New("failed to extract text from document")
	ErrInvalidCollectionName   = errors.New("invalid collection name")
	ErrEmptyQuery              = errors.New("search query is empty")
	ErrInvalidTopK             = errors.New("top_k out of range")
	ErrDimensionMismatch       = errors.New("embedding dimension does not match collection")
	ErrInvalidRecord           = errors.New("record does not match schema")
	ErrUnsupportedExportFormat = errors.New("unsupported export format")
)
