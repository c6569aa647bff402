package xml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/kosarica/feed-service/internal/parsers/charset"
)

// Parser decodes foreign feed documents into a generic tag tree
type Parser struct {
	options ParserOptions
}

// NewParser creates a new XML parser with the given options
func NewParser(options ParserOptions) *Parser {
	if options.AttributePrefix == "" {
		options.AttributePrefix = "@_"
	}
	if options.Encoding == "" {
		options.Encoding = "auto"
	}
	return &Parser{options: options}
}

// AttributePrefix returns the key prefix used for attributes in a Document
func (p *Parser) AttributePrefix() string {
	return p.options.AttributePrefix
}

// Parse decodes content into a Feed: the document tree and the tag inventory
func (p *Parser) Parse(content []byte) (*Feed, error) {
	decoded, err := p.decodeContent(content)
	if err != nil {
		return nil, fmt.Errorf("failed to decode content: %w", err)
	}

	doc, err := p.parseXMLToMap(decoded)
	if err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}

	root, inventory, err := p.inspect(decoded)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect XML: %w", err)
	}
	if root == "" {
		return nil, fmt.Errorf("document has no root element")
	}

	return &Feed{Root: root, Inventory: inventory, Document: doc}, nil
}

// decodeContent handles encoding detection and conversion to UTF-8
func (p *Parser) decodeContent(content []byte) (string, error) {
	enc := charset.Encoding(p.options.Encoding)
	if p.options.Encoding == "auto" {
		enc = charset.DetectEncoding(content)
	}
	return charset.Decode(content, enc)
}

func (p *Parser) newDecoder(content string) *xml.Decoder {
	decoder := xml.NewDecoder(strings.NewReader(content))
	decoder.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		return input, nil // Already handled encoding
	}
	decoder.Strict = false
	decoder.Entity = xml.HTMLEntity
	return decoder
}

// parseXMLToMap parses XML content into a nested map structure
func (p *Parser) parseXMLToMap(content string) (Document, error) {
	return p.decodeElement(p.newDecoder(content), nil)
}

// decodeElement recursively decodes XML elements into maps
func (p *Parser) decodeElement(decoder *xml.Decoder, start *xml.StartElement) (map[string]interface{}, error) {
	result := make(map[string]interface{})

	if start != nil {
		for _, attr := range start.Attr {
			result[p.options.AttributePrefix+attr.Name.Local] = attr.Value
		}
	}

	var text strings.Builder
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			child, err := p.decodeElement(decoder, &t)
			if err != nil {
				return nil, err
			}

			name := t.Name.Local
			if existing, exists := result[name]; exists {
				switch v := existing.(type) {
				case []interface{}:
					result[name] = append(v, child)
				default:
					result[name] = []interface{}{v, child}
				}
			} else {
				result[name] = child
			}

		case xml.CharData:
			if trimmed := bytes.TrimSpace(t); len(trimmed) > 0 {
				text.Write(trimmed)
			}

		case xml.EndElement:
			if s := text.String(); s != "" {
				result[TextKey] = s
			}
			return result, nil
		}
	}

	if s := text.String(); s != "" {
		result[TextKey] = s
	}
	return result, nil
}

// inspect walks the token stream and records, per tag name, the distinct
// child tags and attribute names in first-seen order
func (p *Parser) inspect(content string) (string, Inventory, error) {
	decoder := p.newDecoder(content)
	inventory := make(Inventory)
	seenTags := make(map[string]map[string]bool)
	seenAttrs := make(map[string]map[string]bool)

	var root string
	var stack []string
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", nil, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			name := t.Name.Local
			if root == "" {
				root = name
			}
			info, ok := inventory[name]
			if !ok {
				info = TagInfo{Tags: []string{}, Attributes: []string{}}
				seenTags[name] = make(map[string]bool)
				seenAttrs[name] = make(map[string]bool)
			}
			for _, attr := range t.Attr {
				if !seenAttrs[name][attr.Name.Local] {
					seenAttrs[name][attr.Name.Local] = true
					info.Attributes = append(info.Attributes, attr.Name.Local)
				}
			}
			inventory[name] = info

			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				if !seenTags[parent][name] {
					seenTags[parent][name] = true
					parentInfo := inventory[parent]
					parentInfo.Tags = append(parentInfo.Tags, name)
					inventory[parent] = parentInfo
				}
			}
			stack = append(stack, name)

		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	return root, inventory, nil
}
