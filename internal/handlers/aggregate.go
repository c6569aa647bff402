package handlers

import (
	"bytes"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kosarica/feed-service/internal/aggregator"
	"github.com/kosarica/feed-service/internal/report"
	"github.com/kosarica/feed-service/internal/types"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// StatsResponse carries category summaries and dropped chunks
type StatsResponse struct {
	Summaries []types.CategorySummary   `json:"summaries" jsonschema:"required"`
	Failures  []aggregator.ChunkFailure `json:"failures" jsonschema:"required"`
}

// FiltersResponse carries the parameter histogram and dropped chunks
type FiltersResponse struct {
	Histogram types.CategoryParamHistogram `json:"histogram" jsonschema:"required"`
	Failures  []aggregator.ChunkFailure    `json:"failures" jsonschema:"required"`
}

func (h *Handler) decodeCategories(c *gin.Context) ([]types.RawCategoryRecord, bool) {
	body, err := h.readBody(c)
	if err != nil {
		badRequest(c, err)
		return nil, false
	}
	cats, err := types.DecodeCategories(body)
	if err != nil {
		badRequest(c, err)
		return nil, false
	}
	return cats, true
}

func (h *Handler) stats(ctx context.Context, cats []types.RawCategoryRecord) (*StatsResponse, error) {
	ctx, release := h.statsRuns.Begin(ctx)
	defer release()

	summaries, failures, err := aggregator.ComputeStats(ctx, cats, h.aggregationOptions())
	if err != nil {
		return nil, err
	}
	if failures == nil {
		failures = []aggregator.ChunkFailure{}
	}
	return &StatsResponse{Summaries: summaries, Failures: failures}, nil
}

func (h *Handler) filters(ctx context.Context, cats []types.RawCategoryRecord) (*FiltersResponse, error) {
	ctx, release := h.filterRuns.Begin(ctx)
	defer release()

	hist, failures, err := aggregator.ComputeHistogram(ctx, cats, h.aggregationOptions())
	if err != nil {
		return nil, err
	}
	if failures == nil {
		failures = []aggregator.ChunkFailure{}
	}
	return &FiltersResponse{Histogram: hist, Failures: failures}, nil
}

// AggregateStats computes per-category statistics. A newer request cancels
// the one still in flight.
// @Summary Category statistics
// @Tags aggregate
// @Accept json
// @Produce json
// @Param request body []types.RawCategoryRecord true "Categories"
// @Success 200 {object} StatsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Superseded"
// @Router /internal/aggregate/stats [post]
func (h *Handler) AggregateStats(c *gin.Context) {
	cats, ok := h.decodeCategories(c)
	if !ok {
		return
	}
	res, err := h.stats(c.Request.Context(), cats)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// AggregateFilters computes the per-category parameter histogram
// @Summary Category filter histogram
// @Tags aggregate
// @Accept json
// @Produce json
// @Param request body []types.RawCategoryRecord true "Categories"
// @Success 200 {object} FiltersResponse
// @Failure 400 {object} ErrorResponse
// @Router /internal/aggregate/filters [post]
func (h *Handler) AggregateFilters(c *gin.Context) {
	cats, ok := h.decodeCategories(c)
	if !ok {
		return
	}
	res, err := h.filters(c.Request.Context(), cats)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// StatsWorkbook renders statistics of the stored catalog as XLSX
// @Summary Category statistics workbook
// @Tags aggregate
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Failure 503 {object} ErrorResponse
// @Router /internal/aggregate/stats.xlsx [get]
func (h *Handler) StatsWorkbook(c *gin.Context) {
	cats, err := h.loadCatalog(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	res, err := h.stats(c.Request.Context(), cats)
	if err != nil {
		respondError(c, err)
		return
	}
	var buf bytes.Buffer
	if err := report.WriteSummaries(&buf, res.Summaries, res.Failures); err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="category-stats.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// FiltersWorkbook renders the filter histogram of the stored catalog as XLSX
// @Summary Category filter histogram workbook
// @Tags aggregate
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Failure 503 {object} ErrorResponse
// @Router /internal/aggregate/filters.xlsx [get]
func (h *Handler) FiltersWorkbook(c *gin.Context) {
	cats, err := h.loadCatalog(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	res, err := h.filters(c.Request.Context(), cats)
	if err != nil {
		respondError(c, err)
		return
	}
	var buf bytes.Buffer
	if err := report.WriteHistogram(&buf, res.Histogram, res.Failures); err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="category-filters.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
