package pipeline

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/kosarica/feed-service/internal/mapping"
	"github.com/kosarica/feed-service/internal/parsers/xml"
	"github.com/kosarica/feed-service/internal/sampler"
	"github.com/kosarica/feed-service/internal/types"
)

const maxLoggedErrors = 5

// ParsePhase decodes the upload and applies the mapping to every row
func ParsePhase(cfg *mapping.Configuration, in ImportInput, logger zerolog.Logger) (*types.ImportResult, error) {
	opts := xml.DefaultOptions()
	opts.AttributePrefix = cfg.Prefix()

	feed, err := xml.NewParser(opts).Parse(in.Content)
	if err != nil {
		return nil, fmt.Errorf("parse failed for %s: %w", in.Filename, err)
	}
	if feed.Root != cfg.Root {
		return nil, fmt.Errorf("%w: feed root %q does not match mapping root %q", mapping.ErrInvalidConfiguration, feed.Root, cfg.Root)
	}

	result, err := sampler.Apply(cfg, feed.Document)
	if err != nil {
		return nil, fmt.Errorf("failed to apply mapping: %w", err)
	}

	logger.Info().
		Int("total_rows", result.TotalRows).
		Int("valid_products", result.ValidProducts).
		Int("categories", len(result.Categories)).
		Str("filename", in.Filename).
		Msg("Applied mapping")

	if len(result.Errors) > 0 {
		logger.Warn().Int("error_count", len(result.Errors)).Msg("Row errors found")
		for _, e := range result.Errors[:min(len(result.Errors), maxLoggedErrors)] {
			event := logger.Warn().Str("error", e.Message)
			if e.RowNumber != nil {
				event = event.Int("row_number", *e.RowNumber)
			}
			if e.Field != nil {
				event = event.Str("field", *e.Field)
			}
			event.Msg("Row error")
		}
		if len(result.Errors) > maxLoggedErrors {
			logger.Warn().
				Int("additional_error_count", len(result.Errors)-maxLoggedErrors).
				Msg("Additional row errors not shown")
		}
	}
	return result, nil
}
