package exporter

import (
	"encoding/xml"

	"github.com/kosarica/feed-service/internal/types"
)

// Currency is one entry of the shop's currency list
type Currency struct {
	ID   string `json:"id"`
	Rate string `json:"rate"`
}

// ShopData describes the store publishing the feed
type ShopData struct {
	Name              string          `json:"name"`
	Company           string          `json:"company"`
	URL               string          `json:"url"`
	Currencies        []Currency      `json:"currencies"`
	LocalDeliveryCost types.FlexFloat `json:"localDeliveryCost"`
}

// CategoryData is one exported category
type CategoryData struct {
	ID       types.FlexString `json:"id"`
	Name     string           `json:"name"`
	ParentID types.FlexString `json:"parentId,omitempty"`
}

// ProductData is one exported product
type ProductData struct {
	ID              types.FlexString `json:"id"`
	Name            string           `json:"name"`
	Price           types.FlexFloat  `json:"price"`
	PriceToShow     types.FlexFloat  `json:"priceToShow"`
	CurrencyID      string           `json:"currencyId,omitempty"`
	CategoryID      types.FlexString `json:"categoryId"`
	Images          []string         `json:"images"`
	Vendor          string           `json:"vendor,omitempty"`
	URL             string           `json:"url,omitempty"`
	CountryOfOrigin string           `json:"country_of_origin,omitempty"`
	Quantity        *types.FlexFloat `json:"quantity,omitempty"`
	Available       *types.FlexBool  `json:"isAvailable,omitempty"`
	Description     string           `json:"description,omitempty"`
	Params          []types.Param    `json:"params"`
}

// YML document shape. Field order is the element order on the wire.

type ymlCatalog struct {
	XMLName xml.Name `xml:"yml_catalog"`
	Date    string   `xml:"date,attr"`
	Shop    ymlShop  `xml:"shop"`
}

type ymlShop struct {
	Name              string        `xml:"name"`
	Company           string        `xml:"company"`
	URL               string        `xml:"url"`
	Currencies        ymlCurrencies `xml:"currencies"`
	Categories        ymlCategories `xml:"categories"`
	LocalDeliveryCost string        `xml:"local_delivery_cost"`
	Offers            ymlOffers     `xml:"offers"`
}

// List wrappers are emitted even when empty

type ymlCurrencies struct {
	Items []ymlCurrency `xml:"currency"`
}

type ymlCategories struct {
	Items []ymlCategory `xml:"category"`
}

type ymlOffers struct {
	Items []ymlOffer `xml:"offer"`
}

type ymlCurrency struct {
	ID   string `xml:"id,attr"`
	Rate string `xml:"rate,attr"`
}

type ymlCategory struct {
	ID       string `xml:"id,attr"`
	ParentID string `xml:"parentId,attr,omitempty"`
	Name     string `xml:",chardata"`
}

type ymlOffer struct {
	ID              string     `xml:"id,attr"`
	Available       string     `xml:"available,attr,omitempty"`
	URL             string     `xml:"url,omitempty"`
	Price           string     `xml:"price"`
	CurrencyID      string     `xml:"currencyId"`
	CategoryID      string     `xml:"categoryId"`
	Pictures        []string   `xml:"picture"`
	Vendor          string     `xml:"vendor,omitempty"`
	CountryOfOrigin string     `xml:"country_of_origin,omitempty"`
	StockQuantity   string     `xml:"stock_quantity,omitempty"`
	Name            string     `xml:"name"`
	Description     *ymlCDATA  `xml:"description,omitempty"`
	Params          []ymlParam `xml:"param"`
}

type ymlCDATA struct {
	Text string `xml:",cdata"`
}

type ymlParam struct {
	Name  string `xml:"name,attr"`
	Unit  string `xml:"unit,attr,omitempty"`
	Value string `xml:",chardata"`
}
