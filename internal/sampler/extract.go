// Package sampler applies a mapping configuration to a parsed feed, either as
// a small preview for the operator or as a full import.
package sampler

import (
	"github.com/kosarica/feed-service/internal/mapping"
	"github.com/kosarica/feed-service/internal/parsers/xml"
	"github.com/kosarica/feed-service/internal/types"
)

// Product fields the wizard does not ask for. They are read from the
// standard YML locations unless the configuration maps them.
const (
	fieldURL         = "url"
	fieldVendor      = "vendor"
	fieldDescription = "description"
	fieldAvailable   = "available"
)

var conventionalFields = map[string]mapping.FieldPath{
	fieldURL:         {Tag: "url"},
	fieldVendor:      {Tag: "vendor"},
	fieldDescription: {Tag: "description"},
	fieldAvailable:   {Attribute: "available"},
}

// extractor reads mapped values out of document items
type extractor struct {
	cfg    *mapping.Configuration
	prefix string
}

func newExtractor(cfg *mapping.Configuration) extractor {
	return extractor{cfg: cfg, prefix: cfg.Prefix()}
}

func (e extractor) categories(doc xml.Document) ([]map[string]interface{}, error) {
	return xml.ItemsAt(doc, e.cfg.Categories.Path)
}

func (e extractor) products(doc xml.Document) ([]map[string]interface{}, error) {
	return xml.ItemsAt(doc, e.cfg.Products.Path)
}

// field returns a mapped field of item; ok is false when the field is not
// mapped at all
func (e extractor) field(item map[string]interface{}, em mapping.EntityMapping, name string) (value *string, ok bool) {
	path, ok := em.Fields[name]
	if !ok {
		path, ok = conventionalFields[name]
		if !ok {
			return nil, false
		}
	}
	return mapping.Lookup(item, path, e.prefix), true
}

func (e extractor) pictures(item map[string]interface{}) []string {
	path, ok := e.cfg.Products.Fields[mapping.FieldPicture]
	if !ok {
		return nil
	}
	return mapping.LookupAll(item, path, e.prefix)
}

// params reads every parameter element of a product. Elements without a
// name are skipped.
func (e extractor) params(item map[string]interface{}) []types.Param {
	pm := e.cfg.Params
	if pm.Tag == "" {
		return nil
	}
	raw := xml.ValueAt(item, pm.Tag)
	if raw == nil {
		return nil
	}
	elems, ok := raw.([]interface{})
	if !ok {
		elems = []interface{}{raw}
	}

	out := make([]types.Param, 0, len(elems))
	for _, el := range elems {
		m, ok := el.(map[string]interface{})
		if !ok {
			// Text-only element decoded without attributes
			m = map[string]interface{}{xml.TextKey: el}
		}
		name := mapping.Lookup(m, pm.Name, e.prefix)
		if name == nil {
			continue
		}
		p := types.Param{Name: *name}
		if value := mapping.Lookup(m, pm.Value, e.prefix); value != nil {
			p.Value = types.FlexString(*value)
		}
		if unit := xml.StringValue(m[e.prefix+"unit"]); unit != nil {
			p.Unit = *unit
		}
		out = append(out, p)
	}
	return out
}
