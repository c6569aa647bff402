package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kosarica/feed-service/internal/types"
)

// ErrNotFound is returned when a record does not exist
var ErrNotFound = errors.New("record not found")

// UncategorizedID holds imported products whose category is not in the feed
const UncategorizedID = "uncategorized"

// ImportRun records one application of a mapping to a feed
type ImportRun struct {
	ID            string    `json:"id"`
	MappingID     string    `json:"mapping_id"`
	SourceKey     *string   `json:"source_key"`
	Checksum      *string   `json:"checksum"`
	TotalRows     int       `json:"total_rows"`
	ValidProducts int       `json:"valid_products"`
	ErrorCount    int       `json:"error_count"`
	WarningCount  int       `json:"warning_count"`
	ImportedAt    time.Time `json:"imported_at"`
}

// CatalogStore reads and writes category documents in Postgres
type CatalogStore struct {
	pool *pgxpool.Pool
}

// NewCatalogStore creates a store on top of pool
func NewCatalogStore(pool *pgxpool.Pool) *CatalogStore {
	return &CatalogStore{pool: pool}
}

// ListCategories returns all category documents in stored order
func (s *CatalogStore) ListCategories(ctx context.Context) ([]types.RawCategoryRecord, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, document FROM catalog_categories ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	cats := []types.RawCategoryRecord{}
	for rows.Next() {
		var id string
		var doc []byte
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		var cat types.RawCategoryRecord
		if err := json.Unmarshal(doc, &cat); err != nil {
			return nil, fmt.Errorf("failed to decode category %s: %w", id, err)
		}
		cats = append(cats, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}
	return cats, nil
}

// SaveImport upserts the categories of an import result and records the run.
// Everything happens in one transaction.
func (s *CatalogStore) SaveImport(ctx context.Context, run *ImportRun, result *types.ImportResult) error {
	docs := CategoryDocuments(result)

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		var offset int
		err := tx.QueryRow(ctx, `SELECT COALESCE(MAX(position) + 1, 0) FROM catalog_categories`).Scan(&offset)
		if err != nil {
			return fmt.Errorf("failed to read category position: %w", err)
		}

		batch := &pgx.Batch{}
		for i, doc := range docs {
			data, err := json.Marshal(doc)
			if err != nil {
				return fmt.Errorf("failed to encode category %s: %w", doc.ID, err)
			}
			batch.Queue(`
				INSERT INTO catalog_categories (id, position, document, updated_at)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT (id) DO UPDATE SET
					document = EXCLUDED.document,
					updated_at = EXCLUDED.updated_at
			`, string(doc.ID), offset+i, data, run.ImportedAt)
		}
		batch.Queue(`
			INSERT INTO feed_imports (
				id, mapping_id, source_key, checksum, total_rows,
				valid_products, error_count, warning_count, imported_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, run.ID, run.MappingID, run.SourceKey, run.Checksum, run.TotalRows,
			run.ValidProducts, run.ErrorCount, run.WarningCount, run.ImportedAt)

		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to save import %s: %w", run.ID, err)
		}
		return nil
	})
}

// GetImportRun retrieves a recorded import run by id
func (s *CatalogStore) GetImportRun(ctx context.Context, id string) (*ImportRun, error) {
	var run ImportRun
	err := s.pool.QueryRow(ctx, `
		SELECT id, mapping_id, source_key, checksum, total_rows,
			valid_products, error_count, warning_count, imported_at
		FROM feed_imports
		WHERE id = $1
	`, id).Scan(
		&run.ID, &run.MappingID, &run.SourceKey, &run.Checksum, &run.TotalRows,
		&run.ValidProducts, &run.ErrorCount, &run.WarningCount, &run.ImportedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("import run %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get import run %s: %w", id, err)
	}
	return &run, nil
}

// ImportRunFilter narrows ListImportRuns. An empty MappingID matches all runs.
type ImportRunFilter struct {
	MappingID string
	Limit     int
	Offset    int
}

// ListImportRuns returns recorded runs, newest first, and the total number of
// runs matching the filter
func (s *CatalogStore) ListImportRuns(ctx context.Context, filter ImportRunFilter) ([]ImportRun, int, error) {
	where := ""
	args := []any{}
	if filter.MappingID != "" {
		where = " WHERE mapping_id = $1"
		args = append(args, filter.MappingID)
	}

	var total int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM feed_imports"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count import runs: %w", err)
	}

	query := `
		SELECT id, mapping_id, source_key, checksum, total_rows,
			valid_products, error_count, warning_count, imported_at
		FROM feed_imports` + where +
		fmt.Sprintf(" ORDER BY imported_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query import runs: %w", err)
	}
	defer rows.Close()

	runs := []ImportRun{}
	for rows.Next() {
		var run ImportRun
		if err := rows.Scan(
			&run.ID, &run.MappingID, &run.SourceKey, &run.Checksum, &run.TotalRows,
			&run.ValidProducts, &run.ErrorCount, &run.WarningCount, &run.ImportedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan import run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate import runs: %w", err)
	}
	return runs, total, nil
}

// CategoryDocuments groups normalized products under their categories.
// Products referencing a category missing from the feed go to
// UncategorizedID. TotalValue is the sum of the grouped prices.
func CategoryDocuments(result *types.ImportResult) []types.RawCategoryRecord {
	docs := make([]types.RawCategoryRecord, 0, len(result.Categories)+1)
	index := make(map[string]int, len(result.Categories))
	for _, c := range result.Categories {
		if _, dup := index[c.ID]; dup {
			continue
		}
		index[c.ID] = len(docs)
		docs = append(docs, types.RawCategoryRecord{
			ID:            types.FlexString(c.ID),
			Name:          c.Name,
			Products:      []types.RawProductRecord{},
			SubCategories: []types.FlexString{},
		})
	}

	for _, p := range result.Products {
		i, ok := index[p.CategoryID]
		if !ok {
			i, ok = index[UncategorizedID]
			if !ok {
				i = len(docs)
				index[UncategorizedID] = i
				docs = append(docs, types.RawCategoryRecord{
					ID:            UncategorizedID,
					Name:          "Uncategorized",
					Products:      []types.RawProductRecord{},
					SubCategories: []types.FlexString{},
				})
			}
		}
		docs[i].Products = append(docs[i].Products, productDocument(p, string(docs[i].ID)))
		docs[i].TotalValue += types.FlexFloat(p.Price)
	}
	return docs
}

func productDocument(p types.NormalizedProduct, categoryID string) types.RawProductRecord {
	rec := types.RawProductRecord{
		ID:          types.FlexString(p.ID),
		Name:        p.Name,
		Params:      p.Params,
		Price:       types.FlexFloat(p.Price),
		PriceToShow: types.FlexFloat(p.Price),
		Images:      p.Pictures,
		Category:    []types.FlexString{types.FlexString(categoryID)},
		Vendor:      p.Vendor,
		Description: p.Description,
		URL:         p.URL,
	}
	if rec.Params == nil {
		rec.Params = []types.Param{}
	}
	if rec.Images == nil {
		rec.Images = []string{}
	}
	if p.Available != nil {
		rec.IsAvailable = types.BoolPtr(*p.Available)
	}
	if v, ok := p.Extra["articleNumber"]; ok {
		rec.ArticleNumber = types.FlexString(v)
	}
	if v, ok := p.Extra["country_of_origin"]; ok {
		rec.CountryOfOrigin = v
	}
	return rec
}
