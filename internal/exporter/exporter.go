// Package exporter serializes catalog categories and products into a YML
// (Yandex Market Language) feed for outbound syndication.
package exporter

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/kosarica/feed-service/internal/types"
)

const (
	// DateLayout is the format of the yml_catalog date attribute
	DateLayout = "2006-01-02 15:04"
	// DefaultPlaceholderImage is emitted for products without images
	DefaultPlaceholderImage = "https://placehold.co/600x400?text=No+Image"
	// DefaultCurrency is used when a product or shop names none
	DefaultCurrency = "UAH"
)

var (
	// ErrInvalidProducts is returned when the products input is not a list
	ErrInvalidProducts = errors.New("products must be an array")
	// ErrMultipleParents is returned in strict mode when a category is listed
	// as a subcategory of more than one parent
	ErrMultipleParents = errors.New("category has multiple parents")
)

// Options configures an Exporter
type Options struct {
	PlaceholderImage string
	DefaultCurrency  string
}

// Exporter renders YML documents
type Exporter struct {
	opts Options
}

// New creates an Exporter, filling unset options with defaults
func New(opts Options) *Exporter {
	if opts.PlaceholderImage == "" {
		opts.PlaceholderImage = DefaultPlaceholderImage
	}
	if opts.DefaultCurrency == "" {
		opts.DefaultCurrency = DefaultCurrency
	}
	return &Exporter{opts: opts}
}

// Export renders a feed with default options
func Export(shop ShopData, categories []CategoryData, products []ProductData, now time.Time) ([]byte, error) {
	return New(Options{}).Export(shop, categories, products, now)
}

// Export renders shop, categories and products into a pretty-printed YML
// document. now is formatted in its own location.
func (e *Exporter) Export(shop ShopData, categories []CategoryData, products []ProductData, now time.Time) ([]byte, error) {
	doc := ymlCatalog{
		Date: now.Format(DateLayout),
		Shop: ymlShop{
			Name:              shop.Name,
			Company:           shop.Company,
			URL:               shop.URL,
			Currencies:        ymlCurrencies{Items: e.currencies(shop.Currencies)},
			LocalDeliveryCost: formatNumber(float64(shop.LocalDeliveryCost)),
		},
	}

	for _, c := range categories {
		doc.Shop.Categories.Items = append(doc.Shop.Categories.Items, ymlCategory{
			ID:       string(c.ID),
			ParentID: string(c.ParentID),
			Name:     c.Name,
		})
	}
	for _, p := range products {
		doc.Shop.Offers.Items = append(doc.Shop.Offers.Items, e.offer(p))
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "    ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode feed: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode feed: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func (e *Exporter) currencies(in []Currency) []ymlCurrency {
	if len(in) == 0 {
		return []ymlCurrency{{ID: e.opts.DefaultCurrency, Rate: "1"}}
	}
	out := make([]ymlCurrency, 0, len(in))
	for _, c := range in {
		rate := c.Rate
		if rate == "" {
			rate = "1"
		}
		out = append(out, ymlCurrency{ID: c.ID, Rate: rate})
	}
	return out
}

func (e *Exporter) offer(p ProductData) ymlOffer {
	price := float64(p.PriceToShow)
	if price == 0 {
		price = float64(p.Price)
	}
	currency := p.CurrencyID
	if currency == "" {
		currency = e.opts.DefaultCurrency
	}
	pictures := p.Images
	if len(pictures) == 0 {
		pictures = []string{e.opts.PlaceholderImage}
	}

	o := ymlOffer{
		ID:              string(p.ID),
		URL:             p.URL,
		Price:           formatNumber(price),
		CurrencyID:      currency,
		CategoryID:      string(p.CategoryID),
		Pictures:        pictures,
		Vendor:          p.Vendor,
		CountryOfOrigin: p.CountryOfOrigin,
		Name:            p.Name,
	}
	if p.Available != nil {
		o.Available = strconv.FormatBool(bool(*p.Available))
	}
	if p.Quantity != nil {
		o.StockQuantity = formatNumber(float64(*p.Quantity))
	}
	if p.Description != "" {
		o.Description = &ymlCDATA{Text: p.Description}
	}
	for _, param := range p.Params {
		o.Params = append(o.Params, ymlParam{Name: param.Name, Unit: param.Unit, Value: string(param.Value)})
	}
	return o
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Input is an export request body
type Input struct {
	Shop       ShopData       `json:"shop"`
	Categories []CategoryData `json:"categories"`
	Products   []ProductData  `json:"products"`
}

// DecodeInput parses an export request body. A products value that is not
// a JSON array aborts with ErrInvalidProducts.
func DecodeInput(data []byte) (*Input, error) {
	var shape map[string]json.RawMessage
	if err := json.Unmarshal(data, &shape); err != nil {
		return nil, fmt.Errorf("failed to decode export input: %w", err)
	}
	raw, ok := shape["products"]
	if !ok || !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
		return nil, ErrInvalidProducts
	}
	if c, ok := shape["categories"]; ok && !types.IsJSONArrayOrNull(c) {
		return nil, fmt.Errorf("categories: %w", types.ErrNotArray)
	}

	var in Input
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("failed to decode export input: %w", err)
	}
	return &in, nil
}
