package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/kosarica/feed-service/internal/configurator"
	"github.com/kosarica/feed-service/internal/database"
	"github.com/kosarica/feed-service/internal/exporter"
	"github.com/kosarica/feed-service/internal/fetch"
	"github.com/kosarica/feed-service/internal/mapping"
	"github.com/kosarica/feed-service/internal/markup"
	"github.com/kosarica/feed-service/internal/pipeline"
	"github.com/kosarica/feed-service/internal/storage"
	"github.com/kosarica/feed-service/internal/types"
)

var (
	// ErrCatalogUnavailable is returned when no catalog store is configured
	ErrCatalogUnavailable = errors.New("catalog store not configured")
	// ErrSuperseded is returned when a newer aggregation replaced the request
	ErrSuperseded = errors.New("superseded by a newer request")
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrSessionNotFound),
		errors.Is(err, storage.ErrNotFound),
		errors.Is(err, database.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, storage.ErrMappingExists),
		errors.Is(err, configurator.ErrIncompleteStage),
		errors.Is(err, configurator.ErrNoNextStage),
		errors.Is(err, configurator.ErrNoPreviousStage),
		errors.Is(err, configurator.ErrNotFinalStage),
		errors.Is(err, ErrSuperseded):
		return http.StatusConflict

	case errors.Is(err, configurator.ErrUnknownElement),
		errors.Is(err, mapping.ErrInvalidConfiguration),
		errors.Is(err, exporter.ErrInvalidProducts),
		errors.Is(err, exporter.ErrMultipleParents),
		errors.Is(err, types.ErrNotArray),
		errors.Is(err, markup.ErrNoRootElement),
		errors.Is(err, pipeline.ErrEmptyFeed):
		return http.StatusBadRequest

	case errors.Is(err, ErrCatalogUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// respondError writes err with its mapped status. Server errors are logged.
func respondError(c *gin.Context, err error) {
	if errors.Is(err, context.Canceled) && c.Request.Context().Err() == nil {
		err = ErrSuperseded
	}
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Request failed")
	}
	c.JSON(status, ErrorResponse{Error: err.Error()})
}

// badRequest writes a 400 for malformed input
func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
}

// uploadError writes a 502 for failed feed downloads and a 400 otherwise
func uploadError(c *gin.Context, err error) {
	var retryErr *fetch.RetryError
	if errors.As(err, &retryErr) {
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: err.Error()})
		return
	}
	badRequest(c, err)
}
