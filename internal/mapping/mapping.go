// Package mapping defines the saved import recipe that binds a foreign feed's
// tags to the store's categories, products and params.
package mapping

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kosarica/feed-service/internal/parsers/xml"
)

// ErrInvalidConfiguration is returned when a configuration cannot be applied
var ErrInvalidConfiguration = errors.New("invalid mapping configuration")

// Internal field names bound by the configurator
const (
	FieldCategoryID   = "categoryId"
	FieldCategoryName = "categoryName"

	FieldProductID  = "productId"
	FieldName       = "name"
	FieldPrice      = "price"
	FieldCategory   = "categoryId"
	FieldPicture    = "picture"
	FieldParams     = "params"
	FieldParamName  = "paramName"
	FieldParamValue = "paramValue"
)

// FieldPath locates a value relative to an item element. An empty Tag means
// the item element itself; a non-empty Attribute selects an attribute
// instead of text.
type FieldPath struct {
	Tag       string `json:"tag,omitempty"`
	Attribute string `json:"attribute,omitempty"`
}

// IsAttribute reports whether the path selects an attribute
func (f FieldPath) IsAttribute() bool {
	return f.Attribute != ""
}

func (f FieldPath) String() string {
	switch {
	case f.Tag == "" && f.Attribute == "":
		return "."
	case f.Attribute == "":
		return f.Tag
	case f.Tag == "":
		return "@" + f.Attribute
	default:
		return f.Tag + "@" + f.Attribute
	}
}

// EntityMapping binds one repeated feed element to an internal entity
type EntityMapping struct {
	// Path is the dot-notation path from the document root to the item tag
	Path   string               `json:"path"`
	Item   string               `json:"item"`
	Fields map[string]FieldPath `json:"fields"`
}

// ParamMapping binds a product's parameter elements
type ParamMapping struct {
	// Tag is the parameter element name relative to the product item
	Tag   string    `json:"tag"`
	Name  FieldPath `json:"name"`
	Value FieldPath `json:"value"`
}

// Connection joins an internal field (Start) to a source tag descriptor (End)
type Connection struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Color string `json:"color"`
}

// Configuration is the reusable import recipe produced by a completed
// configurator session. It is never modified after creation.
type Configuration struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Root      string    `json:"root"`
	// AttributePrefix is the key prefix attributes carry in the parsed document
	AttributePrefix string                  `json:"attributePrefix,omitempty"`
	Categories      EntityMapping           `json:"categories"`
	Products        EntityMapping           `json:"products"`
	Params          ParamMapping            `json:"params"`
	Connections     map[string][]Connection `json:"connections"`
}

// Validate checks that a configuration can be applied to a feed
func (c *Configuration) Validate() error {
	if c.Root == "" {
		return fmt.Errorf("%w: missing root", ErrInvalidConfiguration)
	}
	for name, e := range map[string]EntityMapping{"categories": c.Categories, "products": c.Products} {
		if e.Path == "" || e.Item == "" {
			return fmt.Errorf("%w: %s path not set", ErrInvalidConfiguration, name)
		}
	}
	if _, ok := c.Categories.Fields[FieldCategoryID]; !ok {
		return fmt.Errorf("%w: category id not mapped", ErrInvalidConfiguration)
	}
	if _, ok := c.Products.Fields[FieldProductID]; !ok {
		return fmt.Errorf("%w: product id not mapped", ErrInvalidConfiguration)
	}
	return nil
}

// Prefix returns the attribute key prefix, defaulting to the parser's
func (c *Configuration) Prefix() string {
	if c.AttributePrefix == "" {
		return xml.DefaultOptions().AttributePrefix
	}
	return c.AttributePrefix
}

// Decode parses and validates a stored configuration
func Decode(data []byte) (*Configuration, error) {
	var cfg Configuration
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode mapping: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Lookup reads a single field of item, returning nil when absent or empty
func Lookup(item map[string]interface{}, f FieldPath, attrPrefix string) *string {
	if f.IsAttribute() {
		owner := xml.ValueAt(item, f.Tag)
		m, ok := owner.(map[string]interface{})
		if !ok {
			if arr, isArr := owner.([]interface{}); isArr && len(arr) > 0 {
				m, ok = arr[0].(map[string]interface{})
			}
		}
		if !ok {
			return nil
		}
		return xml.StringValue(m[attrPrefix+f.Attribute])
	}
	return xml.StringValue(xml.ValueAt(item, f.Tag))
}

// LookupAll reads every occurrence of a repeated field
func LookupAll(item map[string]interface{}, f FieldPath, attrPrefix string) []string {
	if !f.IsAttribute() {
		if f.Tag == "" {
			if s := xml.StringValue(item); s != nil {
				return []string{*s}
			}
			return nil
		}
		return xml.StringsAt(item, f.Tag)
	}

	owners := xml.ValueAt(item, f.Tag)
	arr, ok := owners.([]interface{})
	if !ok {
		arr = []interface{}{owners}
	}
	out := make([]string, 0, len(arr))
	for _, o := range arr {
		if m, ok := o.(map[string]interface{}); ok {
			if s := xml.StringValue(m[attrPrefix+f.Attribute]); s != nil {
				out = append(out, *s)
			}
		}
	}
	return out
}
