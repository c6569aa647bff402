package exporter

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kosarica/feed-service/internal/types"
)

var exportTime = time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)

const expectedFeed = `<?xml version="1.0" encoding="UTF-8"?>
<yml_catalog date="2024-05-01 10:30">
    <shop>
        <name>Demo</name>
        <company>Demo LLC</company>
        <url>https://demo.example.com</url>
        <currencies>
            <currency id="UAH" rate="1"></currency>
        </currencies>
        <categories>
            <category id="1">Shoes</category>
            <category id="2" parentId="1">Sneakers</category>
        </categories>
        <local_delivery_cost>50</local_delivery_cost>
        <offers>
            <offer id="100" available="true">
                <url>https://demo.example.com/p/100</url>
                <price>1199</price>
                <currencyId>UAH</currencyId>
                <categoryId>2</categoryId>
                <picture>https://cdn.example.com/a.jpg</picture>
                <vendor>Acme</vendor>
                <country_of_origin>Ukraine</country_of_origin>
                <stock_quantity>5</stock_quantity>
                <name>Runner</name>
                <description><![CDATA[<p>Light & fast</p>]]></description>
                <param name="Color">Red</param>
                <param name="Size" unit="EU">42</param>
            </offer>
            <offer id="101">
                <price>799</price>
                <currencyId>UAH</currencyId>
                <categoryId>1</categoryId>
                <picture>https://placehold.co/600x400?text=No+Image</picture>
                <name>Walker</name>
            </offer>
        </offers>
    </shop>
</yml_catalog>
`

func testShop() ShopData {
	return ShopData{
		Name:              "Demo",
		Company:           "Demo LLC",
		URL:               "https://demo.example.com",
		LocalDeliveryCost: 50,
	}
}

func TestExportLayout(t *testing.T) {
	categories := []CategoryData{
		{ID: "1", Name: "Shoes"},
		{ID: "2", Name: "Sneakers", ParentID: "1"},
	}
	products := []ProductData{
		{
			ID:              "100",
			Name:            "Runner",
			Price:           1299.5,
			PriceToShow:     1199,
			CategoryID:      "2",
			Images:          []string{"https://cdn.example.com/a.jpg"},
			Vendor:          "Acme",
			URL:             "https://demo.example.com/p/100",
			CountryOfOrigin: "Ukraine",
			Quantity:        types.FloatPtr(5),
			Available:       types.BoolPtr(true),
			Description:     "<p>Light & fast</p>",
			Params: []types.Param{
				{Name: "Color", Value: "Red"},
				{Name: "Size", Value: "42", Unit: "EU"},
			},
		},
		{ID: "101", Name: "Walker", Price: 799, CategoryID: "1"},
	}

	out, err := Export(testShop(), categories, products, exportTime)
	require.NoError(t, err)
	assert.Equal(t, expectedFeed, string(out))

	again, err := Export(testShop(), categories, products, exportTime)
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestExportOmitsEmptyOptionalFields(t *testing.T) {
	out, err := Export(testShop(), nil, []ProductData{{ID: "7", Name: "Bare", CategoryID: "3"}}, exportTime)
	require.NoError(t, err)
	feed := string(out)

	for _, tag := range []string{"<vendor>", "<url>https://demo.example.com/p", "<country_of_origin>", "<stock_quantity>", "<description>", "available="} {
		assert.NotContains(t, feed, tag)
	}
	for _, tag := range []string{
		"<price>0</price>",
		"<currencyId>UAH</currencyId>",
		"<categoryId>3</categoryId>",
		"<picture>" + DefaultPlaceholderImage + "</picture>",
		"<name>Bare</name>",
		"<categories></categories>",
	} {
		assert.Contains(t, feed, tag)
	}
}

func TestExportEscaping(t *testing.T) {
	categories := []CategoryData{{ID: "1", Name: `Men's "Pro" shoes`}}
	products := []ProductData{{
		ID:         "1",
		Name:       "Runner <X> & Co",
		CategoryID: "1",
		Params:     []types.Param{{Name: `Size "EU"`, Value: "42\t43\n44"}},
	}}

	out, err := Export(testShop(), categories, products, exportTime)
	require.NoError(t, err)
	feed := string(out)

	assert.Contains(t, feed, `<category id="1">Men&#39;s &#34;Pro&#34; shoes</category>`)
	assert.Contains(t, feed, `<name>Runner &lt;X&gt; &amp; Co</name>`)
	assert.Contains(t, feed, `<param name="Size &#34;EU&#34;">42&#x9;43&#xA;44</param>`)
}

func TestExportOptions(t *testing.T) {
	shop := testShop()
	shop.Currencies = []Currency{{ID: "EUR"}, {ID: "USD", Rate: "0.92"}}
	exp := New(Options{PlaceholderImage: "https://cdn.example.com/none.png", DefaultCurrency: "EUR"})

	out, err := exp.Export(shop, nil, []ProductData{{ID: "1", Name: "X", Price: 3.5}}, exportTime)
	require.NoError(t, err)
	feed := string(out)

	assert.Contains(t, feed, `<currency id="EUR" rate="1"></currency>`)
	assert.Contains(t, feed, `<currency id="USD" rate="0.92"></currency>`)
	assert.Contains(t, feed, "<picture>https://cdn.example.com/none.png</picture>")
	assert.Contains(t, feed, "<currencyId>EUR</currencyId>")
	assert.Contains(t, feed, "<price>3.5</price>")
}

func TestFromCatalogParentResolution(t *testing.T) {
	cats := []types.RawCategoryRecord{
		{ID: "A", Name: "Alpha", SubCategories: []types.FlexString{"B"}},
		{ID: "B", Name: "Beta", Products: []types.RawProductRecord{{ID: "p1", Name: "One", Price: 10}}},
	}

	categories, products, err := FromCatalog(cats, CatalogOptions{})
	require.NoError(t, err)

	assert.Equal(t, []CategoryData{
		{ID: "A", Name: "Alpha"},
		{ID: "B", Name: "Beta", ParentID: "A"},
	}, categories)
	require.Len(t, products, 1)
	assert.Equal(t, types.FlexString("B"), products[0].CategoryID)

	out, err := Export(testShop(), categories, products, exportTime)
	require.NoError(t, err)
	assert.Contains(t, string(out), `<category id="A">Alpha</category>`)
	assert.Contains(t, string(out), `<category id="B" parentId="A">Beta</category>`)
}

func TestFromCatalogMultipleParents(t *testing.T) {
	cats := []types.RawCategoryRecord{
		{ID: "A", Name: "Alpha", SubCategories: []types.FlexString{"C"}},
		{ID: "B", Name: "Beta", SubCategories: []types.FlexString{"C"}},
		{ID: "C", Name: "Gamma"},
	}

	categories, _, err := FromCatalog(cats, CatalogOptions{})
	require.NoError(t, err)
	assert.Equal(t, types.FlexString("B"), categories[2].ParentID)

	_, _, err = FromCatalog(cats, CatalogOptions{StrictParents: true})
	assert.ErrorIs(t, err, ErrMultipleParents)
}

func TestFromCatalogDeduplicatesProducts(t *testing.T) {
	shared := types.RawProductRecord{ID: "p1", Name: "Shared"}
	cats := []types.RawCategoryRecord{
		{ID: "A", Products: []types.RawProductRecord{shared}},
		{ID: "B", Products: []types.RawProductRecord{shared, {ID: "p2"}}},
	}

	_, products, err := FromCatalog(cats, CatalogOptions{})
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, types.FlexString("A"), products[0].CategoryID)
	assert.Equal(t, types.FlexString("p2"), products[1].ID)
}

func TestDecodeInput(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{"products object", `{"shop":{},"products":{"id":1}}`, ErrInvalidProducts},
		{"products null", `{"products":null}`, ErrInvalidProducts},
		{"products missing", `{"shop":{"name":"x"}}`, ErrInvalidProducts},
		{"categories not array", `{"products":[],"categories":"x"}`, types.ErrNotArray},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeInput([]byte(tt.body))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	in, err := DecodeInput([]byte(`{
		"shop": {"name": "Demo", "localDeliveryCost": "25"},
		"categories": [{"id": 1, "name": "Shoes"}],
		"products": [{"id": 10, "name": "Runner", "price": "12.50", "categoryId": 1, "isAvailable": "true"}]
	}`))
	require.NoError(t, err)
	assert.Equal(t, types.FlexFloat(25), in.Shop.LocalDeliveryCost)
	require.Len(t, in.Products, 1)
	assert.Equal(t, types.FlexString("10"), in.Products[0].ID)
	assert.Equal(t, types.FlexFloat(12.5), in.Products[0].Price)
	require.NotNil(t, in.Products[0].Available)
	assert.True(t, bool(*in.Products[0].Available))

	out, err := Export(in.Shop, in.Categories, in.Products, exportTime)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, string(out), "<price>12.5</price>")

	_, err = DecodeInput([]byte(`not json`))
	assert.Error(t, err)

	_, err = DecodeInput([]byte(`{"products": [{"id": 1, "price": "Infinity"}]}`))
	assert.Error(t, err)
}
