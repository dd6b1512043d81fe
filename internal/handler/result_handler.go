package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"docintel/internal/csvexport"
	"docintel/internal/domain"
	"docintel/internal/service"
)

var exportContentTypes = map[domain.ExportFormat]string{
	domain.ExportFormatCSV:  "text/csv; charset=utf-8",
	domain.ExportFormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// ResultHandler exposes the cumulative results store.
type ResultHandler struct {
	results service.ResultService
}

// NewResultHandler creates a new ResultHandler.
func NewResultHandler(results service.ResultService) *ResultHandler {
	return &ResultHandler{results: results}
}

// List handles GET /api/v1/results
// @Summary List processed records
// @Tags results
// @Produce json
// @Success 200 {object} Response{data=[]ProcessedDocument,meta=ListMeta} "Records sorted by filename"
// @Failure 500 {object} ErrorResponseBody "Results store failure"
// @Router /results [get]
func (h *ResultHandler) List(c *gin.Context) {
	recs, err := h.results.List(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondList(c, recs, len(recs))
}

// GetByFilename handles GET /api/v1/results/:filename
// @Summary Get a processed record
// @Tags results
// @Produce json
// @Param filename path string true "Document filename"
// @Success 200 {object} Response{data=ProcessedDocument} "Record"
// @Failure 404 {object} ErrorResponseBody "Not found"
// @Router /results/{filename} [get]
func (h *ResultHandler) GetByFilename(c *gin.Context) {
	rec, err := h.results.Get(c.Request.Context(), c.Param("filename"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, rec)
}

// Export handles GET /api/v1/results/export
// @Summary Export processed records
// @Description Download every record as CSV (UTF-8 with BOM) or XLSX
// @Tags results
// @Produce octet-stream
// @Param format query string false "csv or xlsx" default(csv)
// @Param name query string false "Download file name" default(results)
// @Success 200 {file} file "Export file"
// @Failure 400 {object} ErrorResponseBody "Unsupported format"
// @Router /results/export [get]
func (h *ResultHandler) Export(c *gin.Context) {
	format := domain.ExportFormat(strings.ToLower(c.DefaultQuery("format", string(domain.ExportFormatCSV))))

	var buf bytes.Buffer
	if err := h.results.Export(c.Request.Context(), format, &buf); err != nil {
		HandleError(c, err)
		return
	}

	filename := csvexport.BuildFilename(c.DefaultQuery("name", "results"), format)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, exportContentTypes[format], buf.Bytes())
}
