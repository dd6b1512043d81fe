package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"docintel/internal/domain"
	"docintel/internal/service"
)

// UploadHandler handles document upload and processing.
type UploadHandler struct {
	pipeline service.PipelineService
	maxBytes int64
}

// NewUploadHandler creates a new UploadHandler. maxBytes <= 0 disables the size check.
func NewUploadHandler(pipeline service.PipelineService, maxBytes int64) *UploadHandler {
	return &UploadHandler{pipeline: pipeline, maxBytes: maxBytes}
}

// Upload handles POST /api/v1/upload
// @Summary Upload and process a document
// @Description Classify a PDF, extract its fields, add it to a semantic index and store the record
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "PDF document"
// @Param index_name query string false "Target index" default(default)
// @Success 200 {object} ProcessedDocument "Processed record"
// @Failure 400 {object} ErrorResponseBody "Missing file, unsupported type or no extractable text"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Failure 500 {object} ErrorResponseBody "Processing failed"
// @Router /upload [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	if h.maxBytes > 0 && header.Size > h.maxBytes {
		HandleError(c, domain.ErrFileTooLarge)
		return
	}

	indexName := c.Query("index_name")
	if indexName == "" {
		indexName = c.PostForm("index_name")
	}

	rec, err := h.pipeline.Upload(c.Request.Context(), service.UploadInput{
		Filename:  header.Filename,
		IndexName: indexName,
		Body:      file,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, rec)
}
