// Package report renders aggregation output as XLSX workbooks for the
// back-office.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/kosarica/feed-service/internal/aggregator"
	"github.com/kosarica/feed-service/internal/types"
)

const (
	SummarySheet  = "Summary"
	FiltersSheet  = "Filters"
	FailuresSheet = "Failures"
)

var (
	summaryHeaders  = []string{"Category ID", "Category", "Total products", "Total value", "Average price"}
	filtersHeaders  = []string{"Category ID", "Category", "Total products", "Param", "Products with param"}
	failuresHeaders = []string{"Chunk", "Records", "Error"}
)

// WriteSummaries writes category statistics as an XLSX workbook
func WriteSummaries(w io.Writer, summaries []types.CategorySummary, failures []aggregator.ChunkFailure) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	rows := make([][]interface{}, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []interface{}{
			s.Category.ID,
			s.Category.Name,
			s.Values.TotalProducts,
			s.Values.TotalValue,
			s.Values.AverageProductPrice,
		})
	}
	if err := writeTable(f, SummarySheet, summaryHeaders, rows); err != nil {
		return err
	}
	return finish(f, w, failures)
}

// WriteHistogram writes the per-category parameter histogram, one row per
// category and parameter, categories ordered by id
func WriteHistogram(w io.Writer, hist types.CategoryParamHistogram, failures []aggregator.ChunkFailure) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", FiltersSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	ids := make([]string, 0, len(hist))
	for id := range hist {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var rows [][]interface{}
	for _, id := range ids {
		cat := hist[id]
		if len(cat.Params) == 0 {
			rows = append(rows, []interface{}{id, cat.Name, cat.TotalProducts, "", 0})
			continue
		}
		for _, p := range cat.Params {
			rows = append(rows, []interface{}{id, cat.Name, cat.TotalProducts, p.Name, p.TotalProducts})
		}
	}
	if err := writeTable(f, FiltersSheet, filtersHeaders, rows); err != nil {
		return err
	}
	return finish(f, w, failures)
}

func finish(f *excelize.File, w io.Writer, failures []aggregator.ChunkFailure) error {
	if len(failures) > 0 {
		if _, err := f.NewSheet(FailuresSheet); err != nil {
			return fmt.Errorf("failed to create sheet: %w", err)
		}
		rows := make([][]interface{}, 0, len(failures))
		for _, fail := range failures {
			rows = append(rows, []interface{}{fail.Index, fail.Size, fail.Err.Error()})
		}
		if err := writeTable(f, FailuresSheet, failuresHeaders, rows); err != nil {
			return err
		}
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeTable(f *excelize.File, sheet string, headers []string, rows [][]interface{}) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("failed to write header %s: %w", h, err)
		}
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, colName, colName, 20)
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	return nil
}
