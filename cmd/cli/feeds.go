package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kosarica/feed-service/internal/fetch"
	"github.com/kosarica/feed-service/internal/mapping"
	"github.com/kosarica/feed-service/internal/parsers/xml"
	"github.com/kosarica/feed-service/internal/pipeline"
	"github.com/kosarica/feed-service/internal/sampler"
	"github.com/kosarica/feed-service/internal/storage"
	"github.com/kosarica/feed-service/internal/types"
)

var (
	feedEncoding string
	feedOutput   string
	feedMapping  string
	sampleSize   int
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file|url>",
	Short: "Show the root element and tag inventory of a feed",
	Long: `Parse an XML feed (file or http(s) URL) and print every tag it contains together with its
child tags and attributes. This is the inventory the mapping wizard offers as
right-hand candidates.

Supported encodings: auto (default), utf-8, windows-1250, windows-1251, iso-8859-2, koi8-r`,
	Example: `  feed-service inspect ./feeds/shop.xml
  feed-service inspect ./feeds/legacy.xml --encoding windows-1251 --output json`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

var sampleCmd = &cobra.Command{
	Use:   "sample <file|url>",
	Short: "Preview a saved mapping on a feed",
	Long: `Apply a mapping to a feed and print up to --count categories and products
with the warnings found. --mapping is either a saved mapping id or a path to a
mapping JSON file.`,
	Example: `  feed-service sample ./feeds/shop.xml --mapping 3f0c6a9e-...
  feed-service sample https://shop.example.com/yml.xml --mapping ./mapping.json -n 10`,
	Args: cobra.ExactArgs(1),
	RunE: runSample,
}

var importCmd = &cobra.Command{
	Use:   "import <file|url>",
	Short: "Import a feed with a saved mapping",
	Long: `Run the import pipeline (archive, parse, persist) for a feed file or URL.
The normalized catalog is persisted when DATABASE_URL is set.`,
	Example: `  feed-service import ./feeds/shop.xml --mapping 3f0c6a9e-...
  feed-service import https://shop.example.com/yml.xml --mapping ./mapping.json --output json`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var mappingsCmd = &cobra.Command{
	Use:   "mappings",
	Short: "List saved mappings",
	Args:  cobra.NoArgs,
	RunE:  runMappings,
}

func init() {
	rootCmd.AddCommand(inspectCmd, sampleCmd, importCmd, mappingsCmd)

	inspectCmd.Flags().StringVar(&feedEncoding, "encoding", "auto", "Feed encoding")
	inspectCmd.Flags().StringVar(&feedOutput, "output", "table", "Output format: table or json")

	sampleCmd.Flags().StringVar(&feedMapping, "mapping", "", "Mapping ID or mapping JSON file (required)")
	sampleCmd.Flags().IntVarP(&sampleSize, "count", "n", 3, "Products to preview")
	sampleCmd.MarkFlagRequired("mapping")

	importCmd.Flags().StringVar(&feedMapping, "mapping", "", "Mapping ID or mapping JSON file (required)")
	importCmd.Flags().StringVar(&feedOutput, "output", "table", "Output format: table or json")
	importCmd.MarkFlagRequired("mapping")
}

// readFeed loads a feed from a local path or an http(s) URL
func readFeed(ctx context.Context, src string) ([]byte, string, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		fc := fetch.DefaultConfig()
		if cfg != nil {
			fc = cfg.Fetch.ClientConfig()
		}
		doc, err := fetch.NewClient(fc, *logger).Fetch(ctx, src)
		if err != nil {
			return nil, "", err
		}
		return doc.Content, doc.Filename, nil
	}

	content, err := os.ReadFile(src)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read file: %w", err)
	}
	return content, filepath.Base(src), nil
}

// mappingSource resolves --mapping: a path to a mapping JSON file, or the id
// of a mapping saved in storage
func mappingSource(ref string) (pipeline.MappingSource, error) {
	if strings.HasSuffix(ref, ".json") {
		if data, err := os.ReadFile(ref); err == nil {
			m, err := mapping.Decode(data)
			if err != nil {
				return nil, fmt.Errorf("failed to load mapping %s: %w", ref, err)
			}
			return fileMapping{m}, nil
		}
	}
	store, err := openStorage()
	if err != nil {
		return nil, err
	}
	return storage.NewMappingRepository(store), nil
}

// fileMapping serves a single mapping loaded from disk, whatever id is asked
type fileMapping struct {
	cfg *mapping.Configuration
}

func (f fileMapping) Get(ctx context.Context, id string) (*mapping.Configuration, error) {
	return f.cfg, nil
}

func runInspect(cmd *cobra.Command, args []string) error {
	content, _, err := readFeed(context.Background(), args[0])
	if err != nil {
		return err
	}

	opts := xml.DefaultOptions()
	opts.Encoding = feedEncoding
	feed, err := xml.NewParser(opts).Parse(content)
	if err != nil {
		return err
	}

	switch strings.ToLower(feedOutput) {
	case "json":
		return outputJSON(feed)
	case "table":
		outputInventoryTable(feed)
		return nil
	default:
		return fmt.Errorf("invalid output format: %s (use 'table' or 'json')", feedOutput)
	}
}

func outputInventoryTable(feed *xml.Feed) {
	fmt.Printf("\nRoot: %s\n", feed.Root)
	fmt.Println(strings.Repeat("-", 60))

	tags := make([]string, 0, len(feed.Inventory))
	for tag := range feed.Inventory {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintf(w, "Tag\tChildren\tAttributes\n")
	fmt.Fprintf(w, "---\t--------\t----------\n")
	for _, tag := range tags {
		info := feed.Inventory[tag]
		fmt.Fprintf(w, "%s\t%s\t%s\n", tag, strings.Join(info.Tags, ", "), strings.Join(info.Attributes, ", "))
	}
	w.Flush()
}

func runSample(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	source, err := mappingSource(feedMapping)
	if err != nil {
		return err
	}
	m, err := source.Get(ctx, feedMapping)
	if err != nil {
		return fmt.Errorf("failed to load mapping %s: %w", feedMapping, err)
	}

	content, _, err := readFeed(ctx, args[0])
	if err != nil {
		return err
	}
	opts := xml.DefaultOptions()
	opts.AttributePrefix = m.Prefix()
	feed, err := xml.NewParser(opts).Parse(content)
	if err != nil {
		return err
	}

	sample, err := sampler.Sample(m, feed.Document, sampleSize)
	if err != nil {
		return err
	}
	for _, w := range sample.Warnings {
		logger.Warn().Str("mapping_id", m.ID).Msg(w)
	}
	return outputJSON(sample)
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	source, err := mappingSource(feedMapping)
	if err != nil {
		return err
	}
	content, filename, err := readFeed(ctx, args[0])
	if err != nil {
		return err
	}

	p := &pipeline.Pipeline{
		Mappings: source,
		Logger:   *logger,
	}
	if store, err := openStorage(); err == nil {
		p.Archive = store
	}
	catalog, err := openCatalog(ctx)
	if err != nil {
		return err
	}
	if catalog != nil {
		p.Catalog = catalog
	}

	res, err := p.Run(ctx, pipeline.ImportInput{
		MappingID: feedMapping,
		Filename:  filename,
		Content:   content,
	})
	if err != nil {
		return err
	}

	switch strings.ToLower(feedOutput) {
	case "json":
		return outputJSON(res)
	case "table":
		outputImportTable(res)
		return nil
	default:
		return fmt.Errorf("invalid output format: %s (use 'table' or 'json')", feedOutput)
	}
}

func outputImportTable(res *pipeline.IngestionResult) {
	r := res.Result
	fmt.Printf("\nImport Results for mapping %s\n", res.MappingID)
	fmt.Println(strings.Repeat("-", 60))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintf(w, "Metric\tValue\n")
	fmt.Fprintf(w, "------\t-----\n")
	fmt.Fprintf(w, "Run ID\t%s\n", res.RunID)
	fmt.Fprintf(w, "Archived As\t%s\n", res.SourceKey)
	fmt.Fprintf(w, "Categories\t%d\n", len(r.Categories))
	fmt.Fprintf(w, "Total Rows\t%d\n", r.TotalRows)
	fmt.Fprintf(w, "Valid Products\t%d\n", r.ValidProducts)
	fmt.Fprintf(w, "Errors\t%d\n", len(r.Errors))
	fmt.Fprintf(w, "Warnings\t%d\n", len(r.Warnings))
	fmt.Fprintf(w, "Persisted\t%t\n", res.Persisted)
	w.Flush()

	printErrors(r.Errors, 10)

	if len(r.Products) > 0 {
		fmt.Printf("\nSample Products (first %d):\n", min(len(r.Products), 5))
		fmt.Println(strings.Repeat("-", 60))
		for i, p := range r.Products[:min(len(r.Products), 5)] {
			fmt.Printf("%d. %s - %s (Price: %.2f)\n", i+1, p.ID, p.Name, p.Price)
		}
	}
}

func printErrors(errs []types.ParseError, limit int) {
	if len(errs) == 0 {
		return
	}
	fmt.Printf("\nFirst %d Errors:\n", min(len(errs), limit))
	fmt.Println(strings.Repeat("-", 60))
	for _, e := range errs[:min(len(errs), limit)] {
		rowNum := "-"
		if e.RowNumber != nil {
			rowNum = fmt.Sprintf("%d", *e.RowNumber)
		}
		field := "-"
		if e.Field != nil {
			field = *e.Field
		}
		fmt.Printf("Row %s, Field '%s': %s\n", rowNum, field, e.Message)
	}
	if len(errs) > limit {
		fmt.Printf("... and %d more errors\n", len(errs)-limit)
	}
}

func runMappings(cmd *cobra.Command, args []string) error {
	store, err := openStorage()
	if err != nil {
		return err
	}
	ids, err := storage.NewMappingRepository(store).List(context.Background())
	if err != nil {
		return err
	}
	for _, id := range ids {
		fmt.Println(id)
	}
	return nil
}
