package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/kosarica/feed-service/internal/mapping"
)

// ErrMappingExists is returned when saving over an existing mapping id
var ErrMappingExists = errors.New("mapping already exists")

const mappingPrefix = "mappings/"

// BuildMappingKey builds the storage key of a mapping configuration
func BuildMappingKey(id string) string {
	return mappingPrefix + path.Base(id) + ".json"
}

// MappingRepository persists completed mapping configurations. Saved
// configurations are immutable: a second Save with the same id fails.
type MappingRepository struct {
	store Storage
}

// NewMappingRepository creates a repository on top of store
func NewMappingRepository(store Storage) *MappingRepository {
	return &MappingRepository{store: store}
}

// Save stores cfg under its id
func (r *MappingRepository) Save(ctx context.Context, cfg *mapping.Configuration) error {
	if cfg.ID == "" {
		return fmt.Errorf("%w: missing id", mapping.ErrInvalidConfiguration)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode mapping: %w", err)
	}

	meta := &Metadata{
		ContentType: "application/json",
		MappingID:   cfg.ID,
		StoredAt:    cfg.CreatedAt,
	}
	if err := r.store.Create(ctx, BuildMappingKey(cfg.ID), data, meta); err != nil {
		if errors.Is(err, ErrExists) {
			return fmt.Errorf("%w: %s", ErrMappingExists, cfg.ID)
		}
		return fmt.Errorf("failed to save mapping %s: %w", cfg.ID, err)
	}
	return nil
}

// Get loads the mapping with the given id
func (r *MappingRepository) Get(ctx context.Context, id string) (*mapping.Configuration, error) {
	data, err := r.store.Get(ctx, BuildMappingKey(id))
	if err != nil {
		return nil, err
	}
	return mapping.Decode(data)
}

// List returns the ids of all stored mappings
func (r *MappingRepository) List(ctx context.Context) ([]string, error) {
	keys, err := r.store.List(ctx, mappingPrefix)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		ids = append(ids, strings.TrimSuffix(strings.TrimPrefix(k, mappingPrefix), ".json"))
	}
	return ids, nil
}
