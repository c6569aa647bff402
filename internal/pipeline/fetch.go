package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/kosarica/feed-service/internal/storage"
)

// ArchivePhase stores the raw upload so an import can be replayed or audited.
// Returns the storage key.
func ArchivePhase(ctx context.Context, store storage.Storage, mappingID string, in ImportInput, at time.Time) (string, error) {
	filename := in.Filename
	if filename == "" {
		filename = "feed.xml"
	}
	key := storage.BuildFeedKey(mappingID, at, filename)
	meta := &storage.Metadata{
		ContentType:  "application/xml",
		OriginalName: filename,
		MappingID:    mappingID,
		StoredAt:     at,
	}
	if err := store.Put(ctx, key, in.Content, meta); err != nil {
		return "", fmt.Errorf("failed to archive feed: %w", err)
	}
	return key, nil
}
