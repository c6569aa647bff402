package aggregator

import (
	"context"
	"maps"

	"github.com/kosarica/feed-service/internal/types"
)

// ComputeHistogram tallies parameter names per category. The merged result
// is keyed by category id, so chunk order does not matter.
func ComputeHistogram(ctx context.Context, cats []types.RawCategoryRecord, opts Options) (types.CategoryParamHistogram, []ChunkFailure, error) {
	if opts.Name == "" {
		opts.Name = "category_filters"
	}
	res, err := Run(ctx, cats, HistogramChunk, opts)
	if err != nil {
		return nil, nil, err
	}

	merged := make(types.CategoryParamHistogram, len(cats))
	for _, part := range res.Parts {
		maps.Copy(merged, part)
	}
	return merged, res.Failures, nil
}

// HistogramChunk builds the partial histogram of one chunk
func HistogramChunk(ctx context.Context, chunk []types.RawCategoryRecord) (types.CategoryParamHistogram, error) {
	out := make(types.CategoryParamHistogram, len(chunk))
	for _, cat := range chunk {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[cat.ID.String()] = TallyParams(cat)
	}
	return out, nil
}

// TallyParams counts every parameter occurrence of every product in a
// category. Repeated names on one product are counted once per occurrence.
// Type is left empty for a later classification step.
func TallyParams(cat types.RawCategoryRecord) types.CategoryParams {
	entry := types.CategoryParams{
		Name:          cat.Name,
		TotalProducts: len(cat.Products),
		Params:        []types.ParamCount{},
	}

	index := make(map[string]int)
	for _, product := range cat.Products {
		for _, param := range product.Params {
			if i, ok := index[param.Name]; ok {
				entry.Params[i].TotalProducts++
				continue
			}
			index[param.Name] = len(entry.Params)
			entry.Params = append(entry.Params, types.ParamCount{Name: param.Name, TotalProducts: 1})
		}
	}
	return entry
}
