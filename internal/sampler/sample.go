package sampler

import (
	"fmt"

	"github.com/kosarica/feed-service/internal/mapping"
	"github.com/kosarica/feed-service/internal/parsers/xml"
	"github.com/kosarica/feed-service/internal/types"
)

// SampleCategory is one previewed category
type SampleCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SampleProduct is one previewed product. Price is the raw feed text so the
// operator sees exactly what was matched.
type SampleProduct struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Price      string        `json:"price"`
	CategoryID string        `json:"categoryId"`
	Pictures   []string      `json:"pictures"`
	Params     []types.Param `json:"params"`
}

// FeedSample is a preview of what an import with a configuration would produce
type FeedSample struct {
	MappingID       string           `json:"mappingId"`
	Categories      []SampleCategory `json:"categories"`
	Products        []SampleProduct  `json:"products"`
	TotalCategories int              `json:"totalCategories"`
	TotalProducts   int              `json:"totalProducts"`
	Warnings        []string         `json:"warnings"`
}

// Sample extracts up to n representatives of each entity (at least one).
// Missing tags are reported as warnings; only an unusable configuration is
// an error.
func Sample(cfg *mapping.Configuration, doc xml.Document, n int) (*FeedSample, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil configuration", mapping.ErrInvalidConfiguration)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if n < 1 {
		n = 1
	}

	e := newExtractor(cfg)
	sample := &FeedSample{
		MappingID:  cfg.ID,
		Categories: []SampleCategory{},
		Products:   []SampleProduct{},
		Warnings:   []string{},
	}
	warn := func(format string, args ...interface{}) {
		sample.Warnings = append(sample.Warnings, fmt.Sprintf(format, args...))
	}

	categories, err := e.categories(doc)
	if err != nil {
		warn("categories at %s: %v", cfg.Categories.Path, err)
	}
	sample.TotalCategories = len(categories)
	for i, item := range categories {
		if i >= n {
			break
		}
		c := SampleCategory{}
		for _, f := range []struct {
			name string
			dst  *string
		}{
			{mapping.FieldCategoryID, &c.ID},
			{mapping.FieldCategoryName, &c.Name},
		} {
			value, _ := e.field(item, cfg.Categories, f.name)
			if value == nil {
				warn("category %d: %s (%s) not found", i+1, f.name, cfg.Categories.Fields[f.name])
				continue
			}
			*f.dst = *value
		}
		sample.Categories = append(sample.Categories, c)
	}

	products, err := e.products(doc)
	if err != nil {
		warn("products at %s: %v", cfg.Products.Path, err)
	}
	sample.TotalProducts = len(products)
	for i, item := range products {
		if i >= n {
			break
		}
		p := SampleProduct{Pictures: e.pictures(item), Params: e.params(item)}
		for _, f := range []struct {
			name string
			dst  *string
		}{
			{mapping.FieldProductID, &p.ID},
			{mapping.FieldName, &p.Name},
			{mapping.FieldPrice, &p.Price},
			{mapping.FieldCategory, &p.CategoryID},
		} {
			value, _ := e.field(item, cfg.Products, f.name)
			if value == nil {
				warn("product %d: %s (%s) not found", i+1, f.name, cfg.Products.Fields[f.name])
				continue
			}
			*f.dst = *value
		}
		if p.Price != "" {
			if _, err := ParsePrice(p.Price); err != nil {
				warn("product %d: price %q is not a number", i+1, p.Price)
			}
		}
		if len(p.Pictures) == 0 {
			p.Pictures = []string{}
			warn("product %d: no pictures found", i+1)
		}
		if p.Params == nil {
			p.Params = []types.Param{}
			if cfg.Params.Tag != "" {
				warn("product %d: no params found at %s", i+1, cfg.Params.Tag)
			}
		}
		sample.Products = append(sample.Products, p)
	}

	return sample, nil
}
