package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"docintel/internal/service"
)

// SearchHandler handles semantic search and index listing.
type SearchHandler struct {
	search service.SearchService
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(search service.SearchService) *SearchHandler {
	return &SearchHandler{search: search}
}

// Search handles POST /api/v1/search
// @Summary Semantic search
// @Description Rank the documents of an index by similarity to a query
// @Tags search
// @Accept json
// @Produce json
// @Param request body SearchRequestBody true "Search query"
// @Success 200 {object} SearchResponseBody "Ranked results"
// @Failure 400 {object} ErrorResponseBody "Invalid request or top_k out of range"
// @Router /search [post]
func (h *SearchHandler) Search(c *gin.Context) {
	var req SearchRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	resp, err := h.search.Search(c.Request.Context(), service.SearchRequest{
		IndexName: req.IndexName,
		Query:     req.Query,
		TopK:      req.TopK,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Indexes handles GET /api/v1/indexes
// @Summary List indexes
// @Description List the loaded, non-empty semantic indexes
// @Tags search
// @Produce json
// @Success 200 {object} Response{data=[]IndexInfo,meta=ListMeta} "Indexes"
// @Router /indexes [get]
func (h *SearchHandler) Indexes(c *gin.Context) {
	cols := h.search.Collections()
	RespondList(c, cols, len(cols))
}
