package exporter

import (
	"fmt"

	"github.com/kosarica/feed-service/internal/types"
)

// CatalogOptions controls how stored categories are flattened for export
type CatalogOptions struct {
	// StrictParents rejects categories listed under more than one parent
	// instead of keeping the last parent seen
	StrictParents bool
}

// FromCatalog flattens stored category records into export categories and
// products. A category's parent is the category whose subCategories list
// names it; when several do, the last one scanned wins. Each product takes
// the id of the category listing it. A product listed by several categories
// is exported once, under the first.
func FromCatalog(cats []types.RawCategoryRecord, opts CatalogOptions) ([]CategoryData, []ProductData, error) {
	parents := make(map[types.FlexString]types.FlexString)
	for _, cat := range cats {
		for _, child := range cat.SubCategories {
			if prev, ok := parents[child]; ok && prev != cat.ID && opts.StrictParents {
				return nil, nil, fmt.Errorf("%w: %s under %s and %s", ErrMultipleParents, child, prev, cat.ID)
			}
			parents[child] = cat.ID
		}
	}

	categories := make([]CategoryData, 0, len(cats))
	products := make([]ProductData, 0)
	seen := make(map[types.FlexString]bool)
	for _, cat := range cats {
		categories = append(categories, CategoryData{
			ID:       cat.ID,
			Name:     cat.Name,
			ParentID: parents[cat.ID],
		})
		for _, p := range cat.Products {
			if p.ID != "" && seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			products = append(products, productFromRecord(p, cat.ID))
		}
	}
	return categories, products, nil
}

func productFromRecord(p types.RawProductRecord, categoryID types.FlexString) ProductData {
	return ProductData{
		ID:              p.ID,
		Name:            p.Name,
		Price:           p.Price,
		PriceToShow:     p.PriceToShow,
		CategoryID:      categoryID,
		Images:          p.Images,
		Vendor:          p.Vendor,
		URL:             p.URL,
		CountryOfOrigin: p.CountryOfOrigin,
		Quantity:        p.Quantity,
		Available:       p.IsAvailable,
		Description:     p.Description,
		Params:          p.Params,
	}
}
