package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/kosarica/feed-service/internal/aggregator"
	"github.com/kosarica/feed-service/internal/database"
	"github.com/kosarica/feed-service/internal/exporter"
	"github.com/kosarica/feed-service/internal/fetch"
	"github.com/kosarica/feed-service/internal/markup"
	"github.com/kosarica/feed-service/internal/pipeline"
	"github.com/kosarica/feed-service/internal/storage"
	"github.com/kosarica/feed-service/internal/types"
)

const (
	// DefaultMaxUploadSize caps feed uploads and request bodies
	DefaultMaxUploadSize = 64 << 20
	// DefaultSampleSize is the number of products previewed on completion
	DefaultSampleSize = 3
)

// CatalogReader lists the stored category documents
type CatalogReader interface {
	ListCategories(ctx context.Context) ([]types.RawCategoryRecord, error)
}

// ImportRunReader reads the history of recorded imports
type ImportRunReader interface {
	ListImportRuns(ctx context.Context, filter database.ImportRunFilter) ([]database.ImportRun, int, error)
	GetImportRun(ctx context.Context, id string) (*database.ImportRun, error)
}

// Importer applies a saved mapping to a feed upload
type Importer interface {
	Run(ctx context.Context, in pipeline.ImportInput) (*pipeline.IngestionResult, error)
}

// FeedFetcher downloads a feed published at a URL
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) (*fetch.Document, error)
}

// Handler serves the internal API. Catalog, Runs, Archive and Fetcher are
// optional.
type Handler struct {
	Sessions       *SessionStore
	Mappings       *storage.MappingRepository
	Importer       Importer
	Fetcher        FeedFetcher
	Catalog        CatalogReader
	Runs           ImportRunReader
	Archive        storage.Storage
	Exporter       *exporter.Exporter
	Shop           exporter.ShopData
	CatalogOptions exporter.CatalogOptions
	Aggregation    aggregator.Options
	Components     *markup.ComponentRegistry
	MaxUploadSize  int64
	SampleSize     int
	Logger         zerolog.Logger
	Now            func() time.Time

	statsRuns  aggregator.Superseder
	filterRuns aggregator.Superseder
}

// Register mounts all internal routes on rg
func (h *Handler) Register(rg *gin.RouterGroup) {
	aggregate := rg.Group("/aggregate")
	{
		aggregate.POST("/stats", h.AggregateStats)
		aggregate.POST("/filters", h.AggregateFilters)
		aggregate.GET("/stats.xlsx", h.StatsWorkbook)
		aggregate.GET("/filters.xlsx", h.FiltersWorkbook)
	}

	feeds := rg.Group("/feeds")
	{
		feeds.POST("/sessions", h.CreateSession)
		feeds.GET("/sessions/:id", h.GetSession)
		feeds.DELETE("/sessions/:id", h.DeleteSession)
		feeds.POST("/sessions/:id/connections", h.Connect)
		feeds.DELETE("/sessions/:id/connections/:start", h.Disconnect)
		feeds.POST("/sessions/:id/attributes", h.ToggleAttributes)
		feeds.POST("/sessions/:id/next", h.Next)
		feeds.POST("/sessions/:id/back", h.Back)
		feeds.POST("/sessions/:id/complete", h.Complete)
		feeds.GET("/mappings", h.ListMappings)
		feeds.GET("/mappings/:id", h.GetMapping)
		feeds.POST("/import/:mappingId", h.Import)
		feeds.GET("/imports", h.ListImports)
		feeds.GET("/imports/:runId", h.GetImport)
	}

	rg.POST("/markup/transform", h.TransformMarkup)

	export := rg.Group("/export")
	{
		export.GET("/yml", h.ExportCatalog)
		export.POST("/yml", h.ExportBody)
	}
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *Handler) maxUpload() int64 {
	if h.MaxUploadSize > 0 {
		return h.MaxUploadSize
	}
	return DefaultMaxUploadSize
}

func (h *Handler) aggregationOptions() aggregator.Options {
	opts := h.Aggregation
	if opts.Logger == nil {
		logger := h.Logger
		opts.Logger = &logger
	}
	return opts
}

func (h *Handler) loadCatalog(ctx context.Context) ([]types.RawCategoryRecord, error) {
	if h.Catalog == nil {
		return nil, ErrCatalogUnavailable
	}
	return h.Catalog.ListCategories(ctx)
}

// readBody reads the request body up to the upload limit
func (h *Handler) readBody(c *gin.Context) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload()))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	return body, nil
}

// readUpload returns the uploaded feed from a multipart "file" field, the
// raw request body, or the document at the "url" query parameter, plus its
// file name
func (h *Handler) readUpload(c *gin.Context) ([]byte, string, error) {
	if feedURL := c.Query("url"); feedURL != "" {
		if h.Fetcher == nil {
			return nil, "", errors.New("fetching feeds by url is not enabled")
		}
		doc, err := h.Fetcher.Fetch(c.Request.Context(), feedURL)
		if err != nil {
			return nil, "", err
		}
		return doc.Content, doc.Filename, nil
	}

	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		body, err := h.readBody(c)
		return body, c.Query("filename"), err
	}

	header, err := c.FormFile("file")
	if err != nil {
		return nil, "", fmt.Errorf("missing file field: %w", err)
	}
	if header.Size > h.maxUpload() {
		return nil, "", fmt.Errorf("file %s exceeds %d bytes", header.Filename, h.maxUpload())
	}
	f, err := header.Open()
	if err != nil {
		return nil, "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read upload: %w", err)
	}
	return content, header.Filename, nil
}
