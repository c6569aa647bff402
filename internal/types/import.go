package types

// NormalizedCategory is a category extracted from a foreign feed
type NormalizedCategory struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	RowNumber int    `json:"rowNumber"`
}

// NormalizedProduct is a product extracted from a foreign feed
type NormalizedProduct struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Price       float64           `json:"price"`
	URL         string            `json:"url,omitempty"`
	Pictures    []string          `json:"pictures"`
	Vendor      string            `json:"vendor,omitempty"`
	Description string            `json:"description,omitempty"`
	CategoryID  string            `json:"categoryId,omitempty"`
	Available   *bool             `json:"available,omitempty"`
	Params      []Param           `json:"params"`
	Extra       map[string]string `json:"extra,omitempty"`
	RowNumber   int               `json:"rowNumber"`
}

// ParseError represents a row that could not be imported
type ParseError struct {
	RowNumber     *int    `json:"rowNumber,omitempty"`
	Field         *string `json:"field,omitempty"`
	Message       string  `json:"message"`
	OriginalValue *string `json:"originalValue,omitempty"`
}

// ParseWarning represents a non-fatal import problem
type ParseWarning struct {
	RowNumber *int    `json:"rowNumber,omitempty"`
	Field     *string `json:"field,omitempty"`
	Message   string  `json:"message"`
}

// ImportResult is the outcome of applying a mapping to a full feed
type ImportResult struct {
	Categories    []NormalizedCategory `json:"categories"`
	Products      []NormalizedProduct  `json:"products"`
	Errors        []ParseError         `json:"errors,omitempty"`
	Warnings      []ParseWarning       `json:"warnings,omitempty"`
	TotalRows     int                  `json:"totalRows"`
	ValidProducts int                  `json:"validProducts"`
}

// StringPtr returns a pointer to the given string
func StringPtr(s string) *string {
	return &s
}

// IntPtr returns a pointer to the given int
func IntPtr(i int) *int {
	return &i
}
