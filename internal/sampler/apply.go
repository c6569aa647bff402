package sampler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kosarica/feed-service/internal/mapping"
	"github.com/kosarica/feed-service/internal/parsers/xml"
	"github.com/kosarica/feed-service/internal/types"
)

// Apply materializes every category and product of doc. Rows missing an id
// or name, or with an unparseable price, are reported in Errors and skipped.
// Row numbers are 1-based positions within each entity list.
func Apply(cfg *mapping.Configuration, doc xml.Document) (*types.ImportResult, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil configuration", mapping.ErrInvalidConfiguration)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := newExtractor(cfg)
	result := &types.ImportResult{
		Categories: []types.NormalizedCategory{},
		Products:   []types.NormalizedProduct{},
		Errors:     []types.ParseError{},
		Warnings:   []types.ParseWarning{},
	}

	categories, err := e.categories(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to locate categories at %s: %w", cfg.Categories.Path, err)
	}
	products, err := e.products(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to locate products at %s: %w", cfg.Products.Path, err)
	}

	known := make(map[string]bool, len(categories))
	for i, item := range categories {
		row := i + 1
		id, _ := e.field(item, cfg.Categories, mapping.FieldCategoryID)
		if id == nil {
			result.Errors = append(result.Errors, rowError(row, mapping.FieldCategoryID, "category id is required", nil))
			continue
		}
		name, _ := e.field(item, cfg.Categories, mapping.FieldCategoryName)
		if name == nil {
			result.Errors = append(result.Errors, rowError(row, mapping.FieldCategoryName, "category name is required", id))
			continue
		}
		if known[*id] {
			result.Warnings = append(result.Warnings, rowWarning(row, mapping.FieldCategoryID, fmt.Sprintf("duplicate category id %s", *id)))
			continue
		}
		known[*id] = true
		result.Categories = append(result.Categories, types.NormalizedCategory{ID: *id, Name: *name, RowNumber: row})
	}

	result.TotalRows = len(products)
	for i, item := range products {
		product, perr := e.normalizeProduct(item, i+1)
		if perr != nil {
			result.Errors = append(result.Errors, *perr)
			continue
		}
		if product.CategoryID != "" && !known[product.CategoryID] {
			result.Warnings = append(result.Warnings, rowWarning(product.RowNumber, mapping.FieldCategory,
				fmt.Sprintf("category %s is not declared in the feed", product.CategoryID)))
		}
		result.Products = append(result.Products, *product)
	}
	result.ValidProducts = len(result.Products)

	return result, nil
}

func (e extractor) normalizeProduct(item map[string]interface{}, row int) (*types.NormalizedProduct, *types.ParseError) {
	pm := e.cfg.Products

	id, _ := e.field(item, pm, mapping.FieldProductID)
	if id == nil {
		err := rowError(row, mapping.FieldProductID, "product id is required", nil)
		return nil, &err
	}
	name, _ := e.field(item, pm, mapping.FieldName)
	if name == nil {
		err := rowError(row, mapping.FieldName, "product name is required", id)
		return nil, &err
	}

	product := &types.NormalizedProduct{
		ID:        *id,
		Name:      *name,
		Pictures:  e.pictures(item),
		Params:    e.params(item),
		RowNumber: row,
	}
	if product.Pictures == nil {
		product.Pictures = []string{}
	}
	if product.Params == nil {
		product.Params = []types.Param{}
	}

	if raw, _ := e.field(item, pm, mapping.FieldPrice); raw != nil {
		price, err := ParsePrice(*raw)
		if err != nil {
			perr := rowError(row, mapping.FieldPrice, fmt.Sprintf("invalid price: %v", err), raw)
			return nil, &perr
		}
		product.Price = price
	}
	if v, _ := e.field(item, pm, mapping.FieldCategory); v != nil {
		product.CategoryID = *v
	}
	if v, _ := e.field(item, pm, fieldURL); v != nil {
		product.URL = *v
	}
	if v, _ := e.field(item, pm, fieldVendor); v != nil {
		product.Vendor = *v
	}
	if v, _ := e.field(item, pm, fieldDescription); v != nil {
		product.Description = *v
	}
	if v, _ := e.field(item, pm, fieldAvailable); v != nil {
		if b, err := strconv.ParseBool(strings.ToLower(*v)); err == nil {
			product.Available = &b
		}
	}

	for field, path := range pm.Fields {
		if isKnownProductField(field) {
			continue
		}
		if v := mapping.Lookup(item, path, e.prefix); v != nil {
			if product.Extra == nil {
				product.Extra = make(map[string]string)
			}
			product.Extra[field] = *v
		}
	}

	return product, nil
}

func isKnownProductField(field string) bool {
	switch field {
	case mapping.FieldProductID, mapping.FieldName, mapping.FieldPrice, mapping.FieldCategory,
		mapping.FieldPicture, mapping.FieldParams, fieldURL, fieldVendor, fieldDescription, fieldAvailable:
		return true
	}
	return false
}

func rowError(row int, field, message string, original *string) types.ParseError {
	return types.ParseError{
		RowNumber:     types.IntPtr(row),
		Field:         types.StringPtr(field),
		Message:       message,
		OriginalValue: original,
	}
}

func rowWarning(row int, field, message string) types.ParseWarning {
	return types.ParseWarning{
		RowNumber: types.IntPtr(row),
		Field:     types.StringPtr(field),
		Message:   message,
	}
}
