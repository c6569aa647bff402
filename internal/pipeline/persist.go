package pipeline

import (
	"context"
	"fmt"

	"github.com/kosarica/feed-service/internal/database"
	"github.com/kosarica/feed-service/internal/types"
)

// PersistPhase writes the normalized catalog and the run record
func PersistPhase(ctx context.Context, catalog CatalogWriter, run *database.ImportRun, result *types.ImportResult) error {
	if err := catalog.SaveImport(ctx, run, result); err != nil {
		return fmt.Errorf("persist failed for run %s: %w", run.ID, err)
	}
	return nil
}
