// Package pipeline runs a saved mapping over a full feed upload:
// archive, parse and apply, persist.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kosarica/feed-service/internal/database"
	"github.com/kosarica/feed-service/internal/mapping"
	"github.com/kosarica/feed-service/internal/storage"
	"github.com/kosarica/feed-service/internal/types"
)

// ErrEmptyFeed is returned when an upload has no content
var ErrEmptyFeed = errors.New("feed is empty")

// MappingSource loads saved mapping configurations
type MappingSource interface {
	Get(ctx context.Context, id string) (*mapping.Configuration, error)
}

// CatalogWriter persists the outcome of an import
type CatalogWriter interface {
	SaveImport(ctx context.Context, run *database.ImportRun, result *types.ImportResult) error
}

// Pipeline applies saved mappings to uploaded feeds. Archive and Catalog
// are optional; without them the corresponding phase is skipped.
type Pipeline struct {
	Mappings MappingSource
	Archive  storage.Storage
	Catalog  CatalogWriter
	Logger   zerolog.Logger
	Now      func() time.Time
}

// ImportInput is one feed upload to import
type ImportInput struct {
	MappingID string
	Filename  string
	Content   []byte
}

// IngestionResult represents the result of an import run
type IngestionResult struct {
	RunID     string              `json:"runId"`
	MappingID string              `json:"mappingId"`
	SourceKey string              `json:"sourceKey,omitempty"`
	Checksum  string              `json:"checksum"`
	Persisted bool                `json:"persisted"`
	Result    *types.ImportResult `json:"result"`
}

var tracer = otel.Tracer("github.com/kosarica/feed-service/internal/pipeline")

// Run executes the full import pipeline for one upload
func (p *Pipeline) Run(ctx context.Context, in ImportInput) (*IngestionResult, error) {
	ctx, span := tracer.Start(ctx, "pipeline.Run", trace.WithAttributes(
		attribute.String("feed.mapping_id", in.MappingID),
		attribute.Int("feed.bytes", len(in.Content)),
	))
	defer span.End()

	res, err := p.run(ctx, in)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.String("feed.run_id", res.RunID),
		attribute.Int("feed.valid_products", res.Result.ValidProducts),
		attribute.Bool("feed.persisted", res.Persisted),
	)
	return res, nil
}

func (p *Pipeline) run(ctx context.Context, in ImportInput) (*IngestionResult, error) {
	if len(in.Content) == 0 {
		return nil, ErrEmptyFeed
	}
	cfg, err := p.Mappings.Get(ctx, in.MappingID)
	if err != nil {
		importsTotal.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("failed to load mapping %s: %w", in.MappingID, err)
	}

	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	logger := p.Logger.With().Str("component", "pipeline").Str("mapping_id", cfg.ID).Logger()

	res := &IngestionResult{
		RunID:     uuid.NewString(),
		MappingID: cfg.ID,
		Checksum:  storage.ComputeChecksum(in.Content),
	}
	startedAt := now()
	logger.Info().Str("run_id", res.RunID).Str("filename", in.Filename).Int("bytes", len(in.Content)).Msg("Starting import run")

	// Phase 1: Archive
	if p.Archive != nil {
		key, err := ArchivePhase(ctx, p.Archive, cfg.ID, in, startedAt)
		if err != nil {
			importsTotal.WithLabelValues("failed").Inc()
			return nil, err
		}
		res.SourceKey = key
	}

	// Phase 2: Parse and apply
	result, err := ParsePhase(cfg, in, logger)
	if err != nil {
		importsTotal.WithLabelValues("failed").Inc()
		return nil, err
	}
	res.Result = result

	// Phase 3: Persist
	if p.Catalog != nil && result.ValidProducts > 0 {
		run := &database.ImportRun{
			ID:            res.RunID,
			MappingID:     cfg.ID,
			Checksum:      &res.Checksum,
			TotalRows:     result.TotalRows,
			ValidProducts: result.ValidProducts,
			ErrorCount:    len(result.Errors),
			WarningCount:  len(result.Warnings),
			ImportedAt:    startedAt,
		}
		if res.SourceKey != "" {
			run.SourceKey = &res.SourceKey
		}
		if err := PersistPhase(ctx, p.Catalog, run, result); err != nil {
			importsTotal.WithLabelValues("failed").Inc()
			return nil, err
		}
		res.Persisted = true
	}

	importsTotal.WithLabelValues("completed").Inc()
	importedProducts.Add(float64(result.ValidProducts))
	logger.Info().
		Str("run_id", res.RunID).
		Int("total_rows", result.TotalRows).
		Int("valid_products", result.ValidProducts).
		Bool("persisted", res.Persisted).
		Dur("duration", now().Sub(startedAt)).
		Msg("Import run complete")
	return res, nil
}
