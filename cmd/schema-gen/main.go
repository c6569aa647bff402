// Schema Generator
//
// Generates JSON Schema files from Go types for the back-office admin, which
// builds its request validators from them. Go is the source of truth for the
// feed, catalog and export API types.
//
// Usage:
//
//	go run cmd/schema-gen/main.go [output-dir]
//
// Output:
//
//	schemas/feeds.json
//	schemas/catalog.json
//	schemas/export.json
//	schemas/markup.json
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/invopop/jsonschema"

	"github.com/kosarica/feed-service/internal/exporter"
	"github.com/kosarica/feed-service/internal/handlers"
	"github.com/kosarica/feed-service/internal/mapping"
	"github.com/kosarica/feed-service/internal/markup"
	"github.com/kosarica/feed-service/internal/pipeline"
	"github.com/kosarica/feed-service/internal/sampler"
	"github.com/kosarica/feed-service/internal/types"
)

// SchemaGroup represents a group of related schemas
type SchemaGroup struct {
	Name   string
	Types  []any
	Output string
}

func main() {
	outputDir := "schemas"
	if len(os.Args) > 1 {
		outputDir = os.Args[1]
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	groups := []SchemaGroup{
		{
			Name: "feeds",
			Types: []any{
				// Request types
				handlers.ConnectRequest{},
				handlers.ToggleAttributesRequest{},
				// Response types
				handlers.SessionView{},
				handlers.CreateSessionResponse{},
				handlers.ConnectResponse{},
				handlers.ToggleAttributesResponse{},
				handlers.DisconnectResponse{},
				handlers.CompleteResponse{},
				handlers.ListMappingsResponse{},
				handlers.ListImportsResponse{},
				mapping.Configuration{},
				sampler.FeedSample{},
				pipeline.IngestionResult{},
			},
			Output: "feeds.json",
		},
		{
			Name: "catalog",
			Types: []any{
				types.RawCategoryRecord{},
				handlers.StatsResponse{},
				handlers.FiltersResponse{},
			},
			Output: "catalog.json",
		},
		{
			Name: "export",
			Types: []any{
				exporter.Input{},
			},
			Output: "export.json",
		},
		{
			Name: "markup",
			Types: []any{
				markup.ModelNode{},
			},
			Output: "markup.json",
		},
	}

	for _, group := range groups {
		schema := generateGroupSchema(group)
		outputPath := filepath.Join(outputDir, group.Output)

		if err := writeSchema(schema, outputPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", group.Output, err)
			os.Exit(1)
		}

		fmt.Printf("Generated %s\n", outputPath)
	}

	fmt.Println("Schema generation complete!")
}

// generateGroupSchema creates a combined schema with all types in a group
func generateGroupSchema(group SchemaGroup) map[string]any {
	reflector := &jsonschema.Reflector{
		DoNotReference: false,
		ExpandedStruct: false,
	}

	// Create combined definitions
	definitions := make(map[string]any)

	for _, t := range group.Types {
		schema := reflector.Reflect(t)

		// Get the type name from the schema
		typeName := ""
		if schema.Ref != "" {
			// Extract type name from $ref like "#/$defs/SessionView"
			typeName = filepath.Base(schema.Ref)
		}

		// Definitions are keyed by bare type name
		for name, def := range schema.Definitions {
			definitions[name] = def
		}

		// If there's a main type, add it to definitions too
		if typeName != "" && schema.Definitions[typeName] != nil {
			definitions[typeName] = schema.Definitions[typeName]
		}
	}

	return map[string]any{
		"$schema":     "https://json-schema.org/draft/2020-12/schema",
		"$id":         fmt.Sprintf("https://kosarica.hr/schemas/feed-service/%s.json", group.Name),
		"title":       fmt.Sprintf("%s API Types", capitalize(group.Name)),
		"description": fmt.Sprintf("JSON Schema for %s API types generated from Go structs", group.Name),
		"$defs":       definitions,
	}
}

// writeSchema writes a schema to a JSON file
func writeSchema(schema map[string]any, path string) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal schema: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

func capitalize(s string) string {
	if len(s) == 0 {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
