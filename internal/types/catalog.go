package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrNotArray is returned when a field that must hold a list holds something else
var ErrNotArray = errors.New("expected an array")

// RawCategoryRecord is a category document as stored by the back-office,
// including its embedded products.
type RawCategoryRecord struct {
	ID            FlexString         `json:"id"`
	Name          string             `json:"name"`
	Products      []RawProductRecord `json:"products"`
	TotalValue    FlexFloat          `json:"totalValue"`
	SubCategories []FlexString       `json:"subCategories"`
}

// RawProductRecord is a product document embedded in a category
type RawProductRecord struct {
	ID              FlexString   `json:"id"`
	Name            string       `json:"name"`
	Params          []Param      `json:"params"`
	Price           FlexFloat    `json:"price"`
	PriceToShow     FlexFloat    `json:"priceToShow"`
	Images          []string     `json:"images"`
	Category        []FlexString `json:"category"`
	Vendor          string       `json:"vendor"`
	ArticleNumber   FlexString   `json:"articleNumber"`
	Quantity        *FlexFloat   `json:"quantity,omitempty"`
	IsAvailable     *FlexBool    `json:"isAvailable,omitempty"`
	Description     string       `json:"description"`
	URL             string       `json:"url"`
	CountryOfOrigin string       `json:"country_of_origin"`
}

// Param is a single filterable product parameter
type Param struct {
	Name  string     `json:"name"`
	Value FlexString `json:"value"`
	Unit  string     `json:"unit,omitempty"`
}

// CategoryRef identifies a category in aggregation output
type CategoryRef struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// SummaryValues holds the computed statistics of one category
type SummaryValues struct {
	TotalProducts       int     `json:"totalProducts"`
	TotalValue          float64 `json:"totalValue"`
	AverageProductPrice float64 `json:"averageProductPrice"`
	SerializedProducts  string  `json:"serializedProducts"`
}

// CategorySummary is the per-category statistics row shown in the admin
type CategorySummary struct {
	Category CategoryRef   `json:"category"`
	Values   SummaryValues `json:"values"`
}

// ParamCount counts how often a parameter name occurs within a category
type ParamCount struct {
	Name          string `json:"name"`
	TotalProducts int    `json:"totalProducts"`
	Type          string `json:"type"`
}

// CategoryParams is one entry of a CategoryParamHistogram
type CategoryParams struct {
	Name          string       `json:"name"`
	TotalProducts int          `json:"totalProducts"`
	Params        []ParamCount `json:"params"`
}

// CategoryParamHistogram maps category id to its parameter tallies
type CategoryParamHistogram map[string]CategoryParams

// DecodeCategories decodes a JSON array of category documents, rejecting
// documents whose list fields are not arrays.
func DecodeCategories(data []byte) ([]RawCategoryRecord, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}

	cats := make([]RawCategoryRecord, 0, len(raw))
	for i, doc := range raw {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(doc, &fields); err != nil {
			return nil, fmt.Errorf("category %d: %w", i, err)
		}
		for _, key := range []string{"products", "subCategories"} {
			if v, ok := fields[key]; ok && !IsJSONArrayOrNull(v) {
				return nil, fmt.Errorf("category %d: field %q: %w", i, key, ErrNotArray)
			}
		}

		var cat RawCategoryRecord
		if err := json.Unmarshal(doc, &cat); err != nil {
			return nil, fmt.Errorf("category %d: %w", i, err)
		}
		cats = append(cats, cat)
	}
	return cats, nil
}

// IsJSONArrayOrNull reports whether raw holds a JSON array or null
func IsJSONArrayOrNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return false
	}
	return trimmed[0] == '[' || bytes.Equal(trimmed, []byte("null"))
}

// FlexString accepts JSON strings, numbers and null
type FlexString string

func (s *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = FlexString(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", string(b))
	}
	*s = FlexString(n.String())
	return nil
}

func (s FlexString) String() string {
	return string(s)
}

// FlexFloat accepts JSON numbers, numeric strings and null
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		str = strings.TrimSpace(strings.ReplaceAll(str, ",", "."))
		if str == "" {
			*f = 0
			return nil
		}
		v, err := strconv.ParseFloat(str, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("invalid number %q", str)
		}
		*f = FlexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("expected number, got %s", string(b))
	}
	*f = FlexFloat(v)
	return nil
}

// FlexBool accepts JSON booleans and the strings "true"/"false"/"1"/"0"
type FlexBool bool

func (v *FlexBool) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch strings.Trim(strings.ToLower(string(b)), `"`) {
	case "true", "1", "yes":
		*v = true
	case "false", "0", "no", "null", "":
		*v = false
	default:
		return fmt.Errorf("expected boolean, got %s", string(b))
	}
	return nil
}

// FloatPtr returns a pointer to the given value as FlexFloat
func FloatPtr(f float64) *FlexFloat {
	v := FlexFloat(f)
	return &v
}

// BoolPtr returns a pointer to the given value as FlexBool
func BoolPtr(b bool) *FlexBool {
	v := FlexBool(b)
	return &v
}
