package xml

// Document is a feed decoded into nested maps. Attributes are stored under
// AttributePrefix+name, element text under TextKey, and repeated child
// elements as []interface{} in document order.
type Document map[string]interface{}

// TextKey is the map key holding an element's text content
const TextKey = "#text"

// TagInfo lists the distinct child tags and attributes seen on one tag name
type TagInfo struct {
	Tags       []string `json:"tags"`
	Attributes []string `json:"attributes"`
}

// Inventory maps every tag name in a feed to its child tags and attributes
type Inventory map[string]TagInfo

// Feed is a parsed feed document together with its tag inventory
type Feed struct {
	Root      string    `json:"root"`
	Inventory Inventory `json:"inventory"`
	Document  Document  `json:"-"`
}

// ParserOptions represents XML parser options
type ParserOptions struct {
	Encoding        string `json:"encoding,omitempty"`        // "auto" detects from declaration/content
	AttributePrefix string `json:"attributePrefix,omitempty"` // Default: "@_"
}

// DefaultOptions returns default XML parser options
func DefaultOptions() ParserOptions {
	return ParserOptions{
		AttributePrefix: "@_",
		Encoding:        "auto",
	}
}
