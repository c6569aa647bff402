package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfiguration() Configuration {
	return Configuration{
		ID:   "m-1",
		Root: "yml_catalog",
		Categories: EntityMapping{
			Path: "yml_catalog.shop.categories.category",
			Item: "category",
			Fields: map[string]FieldPath{
				FieldCategoryID:   {Attribute: "id"},
				FieldCategoryName: {},
			},
		},
		Products: EntityMapping{
			Path: "yml_catalog.shop.offers.offer",
			Item: "offer",
			Fields: map[string]FieldPath{
				FieldProductID: {Attribute: "id"},
				FieldName:      {Tag: "name"},
			},
		},
	}
}

func TestFieldPathString(t *testing.T) {
	tests := []struct {
		path FieldPath
		want string
	}{
		{FieldPath{}, "."},
		{FieldPath{Tag: "name"}, "name"},
		{FieldPath{Attribute: "id"}, "@id"},
		{FieldPath{Tag: "param", Attribute: "name"}, "param@name"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.path.String())
			assert.Equal(t, tt.path.Attribute != "", tt.path.IsAttribute())
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Configuration)
	}{
		{"missing root", func(c *Configuration) { c.Root = "" }},
		{"missing category path", func(c *Configuration) { c.Categories.Path = "" }},
		{"missing product item", func(c *Configuration) { c.Products.Item = "" }},
		{"category id not mapped", func(c *Configuration) { delete(c.Categories.Fields, FieldCategoryID) }},
		{"product id not mapped", func(c *Configuration) { delete(c.Products.Fields, FieldProductID) }},
	}

	valid := validConfiguration()
	require.NoError(t, valid.Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfiguration()
			tt.modify(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfiguration)
		})
	}
}

func TestDecode(t *testing.T) {
	cfg, err := Decode([]byte(`{
		"id": "m-1",
		"root": "yml_catalog",
		"categories": {"path": "a.b", "item": "category", "fields": {"categoryId": {"attribute": "id"}}},
		"products": {"path": "a.c", "item": "offer", "fields": {"productId": {"attribute": "id"}}}
	}`))
	require.NoError(t, err)
	assert.Equal(t, "m-1", cfg.ID)
	assert.Equal(t, FieldPath{Attribute: "id"}, cfg.Products.Fields[FieldProductID])

	_, err = Decode([]byte(`{"id": "m-1"}`))
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = Decode([]byte(`not json`))
	assert.Error(t, err)
}

func TestPrefix(t *testing.T) {
	cfg := validConfiguration()
	assert.Equal(t, "@_", cfg.Prefix())

	cfg.AttributePrefix = "-"
	assert.Equal(t, "-", cfg.Prefix())
}

func TestLookup(t *testing.T) {
	item := map[string]interface{}{
		"@_id":    "100",
		"name":    " Runner ",
		"empty":   "",
		"picture": []interface{}{"a.jpg", "b.jpg"},
		"param": []interface{}{
			map[string]interface{}{"@_name": "Color", "#text": "Red"},
			map[string]interface{}{"@_name": "Size", "#text": "42"},
		},
	}

	t.Run("single values", func(t *testing.T) {
		require.NotNil(t, Lookup(item, FieldPath{Attribute: "id"}, "@_"))
		assert.Equal(t, "100", *Lookup(item, FieldPath{Attribute: "id"}, "@_"))
		assert.Equal(t, "Runner", *Lookup(item, FieldPath{Tag: "name"}, "@_"))
		assert.Equal(t, "Color", *Lookup(item, FieldPath{Tag: "param", Attribute: "name"}, "@_"))
		assert.Nil(t, Lookup(item, FieldPath{Tag: "empty"}, "@_"))
		assert.Nil(t, Lookup(item, FieldPath{Tag: "missing"}, "@_"))
		assert.Nil(t, Lookup(item, FieldPath{Tag: "name", Attribute: "lang"}, "@_"))
	})

	t.Run("repeated values", func(t *testing.T) {
		assert.Equal(t, []string{"a.jpg", "b.jpg"}, LookupAll(item, FieldPath{Tag: "picture"}, "@_"))
		assert.Equal(t, []string{"Color", "Size"}, LookupAll(item, FieldPath{Tag: "param", Attribute: "name"}, "@_"))
		assert.Equal(t, []string{"Red", "42"}, LookupAll(item, FieldPath{Tag: "param"}, "@_"))
		assert.Empty(t, LookupAll(item, FieldPath{Tag: "missing"}, "@_"))
	})

	t.Run("item text", func(t *testing.T) {
		category := map[string]interface{}{"@_id": "1", "#text": "Phones"}
		assert.Equal(t, []string{"Phones"}, LookupAll(category, FieldPath{}, "@_"))
		assert.Equal(t, "Phones", *Lookup(category, FieldPath{}, "@_"))
	})
}
