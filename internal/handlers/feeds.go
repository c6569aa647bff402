package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kosarica/feed-service/internal/pipeline"
)

// ListMappingsResponse lists saved mapping ids
type ListMappingsResponse struct {
	Mappings []string `json:"mappings" jsonschema:"required"`
}

// ListMappings returns the ids of all saved mappings
// @Summary List saved mappings
// @Tags feeds
// @Produce json
// @Success 200 {object} ListMappingsResponse
// @Router /internal/feeds/mappings [get]
func (h *Handler) ListMappings(c *gin.Context) {
	ids, err := h.Mappings.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ListMappingsResponse{Mappings: ids})
}

// GetMapping returns one saved mapping
// @Summary Get a saved mapping
// @Tags feeds
// @Produce json
// @Param id path string true "Mapping ID"
// @Success 200 {object} mapping.Configuration
// @Failure 404 {object} ErrorResponse
// @Router /internal/feeds/mappings/{id} [get]
func (h *Handler) GetMapping(c *gin.Context) {
	cfg, err := h.Mappings.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// Import applies a saved mapping to an uploaded feed
// @Summary Import a feed
// @Description Parses the uploaded feed with a saved mapping and persists the normalized catalog
// @Tags feeds
// @Accept xml
// @Produce json
// @Param mappingId path string true "Mapping ID"
// @Param url query string false "Fetch the feed from this URL instead of the body"
// @Success 200 {object} pipeline.IngestionResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /internal/feeds/import/{mappingId} [post]
func (h *Handler) Import(c *gin.Context) {
	if h.Importer == nil {
		respondError(c, errors.New("import pipeline not configured"))
		return
	}
	content, filename, err := h.readUpload(c)
	if err != nil {
		uploadError(c, err)
		return
	}

	res, err := h.Importer.Run(c.Request.Context(), pipeline.ImportInput{
		MappingID: c.Param("mappingId"),
		Filename:  filename,
		Content:   content,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
