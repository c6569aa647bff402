package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kosarica/feed-service/internal/aggregator"
	"github.com/kosarica/feed-service/internal/exporter"
	"github.com/kosarica/feed-service/internal/markup"
	"github.com/kosarica/feed-service/internal/report"
	"github.com/kosarica/feed-service/internal/types"
)

var (
	aggregateKind string
	outputFile    string
	xlsxOutput    bool
	strictParents bool
	shopFile      string
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate [categories.json]",
	Short: "Compute category statistics or the filter histogram",
	Long: `Aggregate a JSON array of category documents. Without a file argument the
categories are read from the catalog database.`,
	Example: `  feed-service aggregate ./categories.json --kind stats
  feed-service aggregate --kind filters --xlsx -o filters.xlsx`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAggregate,
}

var exportCmd = &cobra.Command{
	Use:   "export [input.json]",
	Short: "Render a YML catalog feed",
	Long: `Render a YML feed from an export input document ({shop, categories, products}).
Without a file argument the stored catalog is exported with the configured shop data.`,
	Example: `  feed-service export ./export.json -o catalog.xml
  feed-service export --shop ./shop.json --strict-parents -o catalog.xml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

var transformCmd = &cobra.Command{
	Use:     "transform <ast.json>",
	Short:   "Transform a component AST into the page model",
	Example: `  feed-service transform ./component.ast.json`,
	Args:    cobra.ExactArgs(1),
	RunE:    runTransform,
}

func init() {
	rootCmd.AddCommand(aggregateCmd, exportCmd, transformCmd)

	aggregateCmd.Flags().StringVar(&aggregateKind, "kind", "stats", "Aggregation: stats or filters")
	aggregateCmd.Flags().BoolVar(&xlsxOutput, "xlsx", false, "Write an XLSX workbook instead of JSON")
	aggregateCmd.Flags().StringVarP(&outputFile, "out", "o", "", "Output file (default stdout)")

	exportCmd.Flags().StringVarP(&outputFile, "out", "o", "", "Output file (default stdout)")
	exportCmd.Flags().StringVar(&shopFile, "shop", "", "Shop data JSON file (overrides config and input)")
	exportCmd.Flags().BoolVar(&strictParents, "strict-parents", false, "Fail when a category has several parents")
}

// loadCategories reads categories from a file, or from the catalog database
// when path is empty
func loadCategories(ctx context.Context, path string) ([]types.RawCategoryRecord, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
		return types.DecodeCategories(data)
	}

	catalog, err := openCatalog(ctx)
	if err != nil {
		return nil, err
	}
	if catalog == nil {
		return nil, fmt.Errorf("no input file given and DATABASE_URL not set")
	}
	return catalog.ListCategories(ctx)
}

func aggregationOptions() aggregator.Options {
	opts := aggregator.Options{Logger: logger}
	if cfg != nil {
		opts.ChunkSize = cfg.Aggregation.ChunkSize
		opts.MaxWorkers = cfg.Aggregation.MaxWorkers
	}
	return opts
}

func runAggregate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	var path string
	if len(args) > 0 {
		path = args[0]
	}
	cats, err := loadCategories(ctx, path)
	if err != nil {
		return err
	}
	logger.Info().Int("categories", len(cats)).Str("kind", aggregateKind).Msg("Aggregating")

	var buf bytes.Buffer
	switch strings.ToLower(aggregateKind) {
	case "stats":
		summaries, failures, err := aggregator.ComputeStats(ctx, cats, aggregationOptions())
		if err != nil {
			return err
		}
		reportFailures(failures)
		if !xlsxOutput {
			return outputJSON(summaries)
		}
		if err := report.WriteSummaries(&buf, summaries, failures); err != nil {
			return err
		}
	case "filters":
		hist, failures, err := aggregator.ComputeHistogram(ctx, cats, aggregationOptions())
		if err != nil {
			return err
		}
		reportFailures(failures)
		if !xlsxOutput {
			return outputJSON(hist)
		}
		if err := report.WriteHistogram(&buf, hist, failures); err != nil {
			return err
		}
	default:
		return fmt.Errorf("invalid kind: %s (use 'stats' or 'filters')", aggregateKind)
	}
	return writeOutput(outputFile, buf.Bytes())
}

func reportFailures(failures []aggregator.ChunkFailure) {
	for _, f := range failures {
		logger.Warn().Int("chunk", f.Index).Int("size", f.Size).Err(f.Err).Msg("Chunk dropped")
	}
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	opts := exporter.Options{}
	shop := exporter.ShopData{}
	if cfg != nil {
		opts.PlaceholderImage = cfg.Export.PlaceholderImage
		opts.DefaultCurrency = cfg.Export.DefaultCurrency
		shop = exporter.ShopData{
			Name:              cfg.Export.ShopName,
			Company:           cfg.Export.ShopCompany,
			URL:               cfg.Export.ShopURL,
			LocalDeliveryCost: types.FlexFloat(cfg.Export.DeliveryCost),
		}
		strictParents = strictParents || cfg.Export.StrictParents
	}

	if shopFile != "" {
		data, err := os.ReadFile(shopFile)
		if err != nil {
			return fmt.Errorf("failed to read shop file: %w", err)
		}
		if err := json.Unmarshal(data, &shop); err != nil {
			return fmt.Errorf("invalid shop file: %w", err)
		}
	}

	var categories []exporter.CategoryData
	var products []exporter.ProductData
	if len(args) > 0 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		in, err := exporter.DecodeInput(data)
		if err != nil {
			return err
		}
		if shopFile == "" && (in.Shop.Name != "" || in.Shop.URL != "") {
			shop = in.Shop
		}
		categories, products = in.Categories, in.Products
	} else {
		cats, err := loadCategories(ctx, "")
		if err != nil {
			return err
		}
		categories, products, err = exporter.FromCatalog(cats, exporter.CatalogOptions{StrictParents: strictParents})
		if err != nil {
			return err
		}
	}

	doc, err := exporter.New(opts).Export(shop, categories, products, time.Now())
	if err != nil {
		return err
	}
	logger.Info().Int("categories", len(categories)).Int("offers", len(products)).Msg("Rendered YML feed")
	return writeOutput(outputFile, doc)
}

func runTransform(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	prog, err := markup.DecodeProgram(data)
	if err != nil {
		return err
	}
	model, err := markup.NewTransformer(markup.NewComponentRegistry()).Transform(prog)
	if err != nil {
		return err
	}
	return outputJSON(model)
}
