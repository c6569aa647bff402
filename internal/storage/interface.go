package storage

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when no object exists at a key
	ErrNotFound = errors.New("object not found")
	// ErrExists is returned by Create when the key is already taken
	ErrExists = errors.New("object already exists")
)

// Metadata contains object metadata for storage
type Metadata struct {
	ContentType  string            `json:"contentType,omitempty"`
	OriginalName string            `json:"originalName,omitempty"`
	MappingID    string            `json:"mappingId,omitempty"`
	StoredAt     time.Time         `json:"storedAt,omitempty"`
	Custom       map[string]string `json:"custom,omitempty"`
}

// FileInfo contains information about a stored object
type FileInfo struct {
	Key         string    `json:"key"`
	Size        int64     `json:"size"`
	Checksum    string    `json:"checksum"`
	ContentType string    `json:"contentType,omitempty"`
	ModifiedAt  time.Time `json:"modifiedAt"`
	Metadata    *Metadata `json:"metadata,omitempty"`
}

// Storage defines the interface for object storage operations.
// Implementations are the local filesystem and an in-memory store.
type Storage interface {
	// Put stores content at the given key, replacing any previous object
	Put(ctx context.Context, key string, content []byte, metadata *Metadata) error

	// Create stores content only if the key is free, else ErrExists
	Create(ctx context.Context, key string, content []byte, metadata *Metadata) error

	// Get retrieves content from the given key
	Get(ctx context.Context, key string) ([]byte, error)

	// GetInfo retrieves object information without content
	GetInfo(ctx context.Context, key string) (*FileInfo, error)

	// Exists checks if an object exists at the given key
	Exists(ctx context.Context, key string) (bool, error)

	// Delete removes the object at the given key
	Delete(ctx context.Context, key string) error

	// List returns all keys matching the given prefix, sorted
	List(ctx context.Context, prefix string) ([]string, error)
}

// StorageType represents the type of storage backend
type StorageType string

const (
	StorageTypeLocal  StorageType = "local"
	StorageTypeMemory StorageType = "memory"
)

// Open creates the storage backend of the given type. basePath is only used
// by local storage.
func Open(typ StorageType, basePath string) (Storage, error) {
	switch typ {
	case StorageTypeLocal, "":
		return NewLocalStorage(basePath)
	case StorageTypeMemory:
		return NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("unknown storage type %q", typ)
	}
}
