package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kosarica/feed-service/internal/exporter"
	"github.com/kosarica/feed-service/internal/storage"
)

const ymlContentType = "application/xml; charset=utf-8"

func (h *Handler) ymlExporter() *exporter.Exporter {
	if h.Exporter != nil {
		return h.Exporter
	}
	return exporter.New(exporter.Options{})
}

func (h *Handler) sendFeed(c *gin.Context, doc []byte) {
	c.Header("Content-Disposition", `attachment; filename="catalog.xml"`)
	c.Data(http.StatusOK, ymlContentType, doc)
}

// ExportCatalog renders the stored catalog as a YML feed. The document is
// archived when an archive store is configured.
// @Summary Export the catalog as YML
// @Tags export
// @Produce xml
// @Success 200 {file} file
// @Failure 503 {object} ErrorResponse
// @Router /internal/export/yml [get]
func (h *Handler) ExportCatalog(c *gin.Context) {
	ctx := c.Request.Context()
	cats, err := h.loadCatalog(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	categories, products, err := exporter.FromCatalog(cats, h.CatalogOptions)
	if err != nil {
		respondError(c, err)
		return
	}

	now := h.now()
	doc, err := h.ymlExporter().Export(h.Shop, categories, products, now)
	if err != nil {
		respondError(c, err)
		return
	}

	if h.Archive != nil {
		meta := &storage.Metadata{ContentType: ymlContentType, StoredAt: now}
		if err := h.Archive.Put(ctx, storage.BuildExportKey(now), doc, meta); err != nil {
			h.Logger.Warn().Err(err).Str("component", "exporter").Msg("Failed to archive export")
		}
	}
	h.sendFeed(c, doc)
}

// ExportBody renders the shop, categories and products of the request body
// @Summary Export request data as YML
// @Tags export
// @Accept json
// @Produce xml
// @Param request body exporter.Input true "Export input"
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponse
// @Router /internal/export/yml [post]
func (h *Handler) ExportBody(c *gin.Context) {
	body, err := h.readBody(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	in, err := exporter.DecodeInput(body)
	if err != nil {
		respondError(c, err)
		return
	}
	shop := in.Shop
	if shop.Name == "" && shop.URL == "" {
		shop = h.Shop
	}
	doc, err := h.ymlExporter().Export(shop, in.Categories, in.Products, h.now())
	if err != nil {
		respondError(c, err)
		return
	}
	h.sendFeed(c, doc)
}
