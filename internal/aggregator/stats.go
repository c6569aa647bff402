package aggregator

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/kosarica/feed-service/internal/types"
)

// ComputeStats returns one summary per category in input order. Categories of
// failed chunks are missing from the result and reported in the failure list.
func ComputeStats(ctx context.Context, cats []types.RawCategoryRecord, opts Options) ([]types.CategorySummary, []ChunkFailure, error) {
	if opts.Name == "" {
		opts.Name = "category_stats"
	}
	res, err := Run(ctx, cats, SummarizeChunk, opts)
	if err != nil {
		return nil, nil, err
	}

	summaries := make([]types.CategorySummary, 0, len(cats))
	for _, part := range res.Parts {
		summaries = append(summaries, part...)
	}
	return summaries, res.Failures, nil
}

// SummarizeChunk maps each category of a chunk to its summary
func SummarizeChunk(ctx context.Context, chunk []types.RawCategoryRecord) ([]types.CategorySummary, error) {
	out := make([]types.CategorySummary, 0, len(chunk))
	for _, cat := range chunk {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		summary, err := Summarize(cat)
		if err != nil {
			return nil, err
		}
		out = append(out, summary)
	}
	return out, nil
}

// Summarize computes the statistics of a single category
func Summarize(cat types.RawCategoryRecord) (types.CategorySummary, error) {
	products := cat.Products
	if products == nil {
		products = []types.RawProductRecord{}
	}
	serialized, err := json.Marshal(products)
	if err != nil {
		return types.CategorySummary{}, fmt.Errorf("failed to serialize products of category %s: %w", cat.ID, err)
	}

	total := len(products)
	totalValue := float64(cat.TotalValue)

	return types.CategorySummary{
		Category: types.CategoryRef{Name: cat.Name, ID: cat.ID.String()},
		Values: types.SummaryValues{
			TotalProducts:       total,
			TotalValue:          totalValue,
			AverageProductPrice: averagePrice(totalValue, total),
			SerializedProducts:  string(serialized),
		},
	}, nil
}

// averagePrice is totalValue/totalProducts rounded to 2 decimals, 0 for empty categories
func averagePrice(totalValue float64, totalProducts int) float64 {
	if totalProducts == 0 {
		return 0
	}
	return math.Round(totalValue/float64(totalProducts)*100) / 100
}
