package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kosarica/feed-service/internal/database"
)

// ListImportsRequest represents query parameters for listing import runs
type ListImportsRequest struct {
	MappingID string `form:"mappingId" json:"mappingId"`
	Limit     int    `form:"limit" json:"limit" binding:"omitempty,min=1,max=100" jsonschema:"minimum=1,maximum=100"`
	Offset    int    `form:"offset" json:"offset" binding:"min=0" jsonschema:"minimum=0"`
}

// ListImportsResponse represents a page of import runs
type ListImportsResponse struct {
	Runs  []database.ImportRun `json:"runs" jsonschema:"required"`
	Total int                  `json:"total" jsonschema:"required"`
}

// ListImports returns a paginated list of recorded import runs
// @Summary List import runs
// @Description Returns recorded feed imports, newest first, optionally filtered by mapping
// @Tags feeds
// @Produce json
// @Param mappingId query string false "Filter by mapping ID"
// @Param limit query int false "Number of items to return" default(20) minimum(1) maximum(100)
// @Param offset query int false "Number of items to skip" default(0) minimum(0)
// @Success 200 {object} ListImportsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /internal/feeds/imports [get]
func (h *Handler) ListImports(c *gin.Context) {
	var req ListImportsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Limit == 0 {
		req.Limit = 20
	}
	if h.Runs == nil {
		respondError(c, ErrCatalogUnavailable)
		return
	}

	runs, total, err := h.Runs.ListImportRuns(c.Request.Context(), database.ImportRunFilter{
		MappingID: req.MappingID,
		Limit:     req.Limit,
		Offset:    req.Offset,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ListImportsResponse{Runs: runs, Total: total})
}

// GetImport returns one recorded import run
// @Summary Get an import run
// @Tags feeds
// @Produce json
// @Param runId path string true "Import run ID"
// @Success 200 {object} database.ImportRun
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /internal/feeds/imports/{runId} [get]
func (h *Handler) GetImport(c *gin.Context) {
	if h.Runs == nil {
		respondError(c, ErrCatalogUnavailable)
		return
	}
	run, err := h.Runs.GetImportRun(c.Request.Context(), c.Param("runId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}
