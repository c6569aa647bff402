package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	metaSuffix = ".meta"
	tmpSuffix  = ".tmp-"
)

// LocalStorage keeps objects as files below basePath, with metadata in a
// sibling "<file>.meta" JSON document
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a new local filesystem storage
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	return &LocalStorage{basePath: basePath}, nil
}

// Put replaces the object at key. The content is written to a temporary file
// and renamed into place so readers never see a partial object.
func (s *LocalStorage) Put(ctx context.Context, key string, content []byte, metadata *Metadata) error {
	target := s.keyToPath(key)
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", key, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+tmpSuffix)
	if err != nil {
		return fmt.Errorf("failed to stage %s: %w", key, err)
	}
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return s.writeMetadata(target, metadata)
}

// Create stores content only when nothing exists at key
func (s *LocalStorage) Create(ctx context.Context, key string, content []byte, metadata *Metadata) error {
	target := s.keyToPath(key)
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", key, err)
	}

	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", ErrExists, key)
		}
		return fmt.Errorf("failed to create %s: %w", key, err)
	}
	if _, err := f.Write(content); err != nil {
		f.Close()
		os.Remove(target)
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return s.writeMetadata(target, metadata)
}

func (s *LocalStorage) writeMetadata(target string, metadata *Metadata) error {
	if metadata == nil {
		return nil
	}
	data, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	if err := os.WriteFile(target+metaSuffix, data, 0644); err != nil {
		return fmt.Errorf("failed to write metadata for %s: %w", s.pathToKey(target), err)
	}
	return nil
}

// Get retrieves content from the given key
func (s *LocalStorage) Get(ctx context.Context, key string) ([]byte, error) {
	content, err := os.ReadFile(s.keyToPath(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return content, nil
}

// GetInfo describes the object at key; the checksum is computed by streaming
// the file
func (s *LocalStorage) GetInfo(ctx context.Context, key string) (*FileInfo, error) {
	target := s.keyToPath(key)

	f, err := os.Open(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to open %s: %w", key, err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", key, err)
	}
	hash := sha256.New()
	if _, err := io.Copy(hash, f); err != nil {
		return nil, fmt.Errorf("failed to hash %s: %w", key, err)
	}

	info := &FileInfo{
		Key:        key,
		Size:       stat.Size(),
		Checksum:   hex.EncodeToString(hash.Sum(nil)),
		ModifiedAt: stat.ModTime(),
	}
	if data, err := os.ReadFile(target + metaSuffix); err == nil {
		var metadata Metadata
		if json.Unmarshal(data, &metadata) == nil {
			info.Metadata = &metadata
			info.ContentType = metadata.ContentType
		}
	}
	return info, nil
}

// Exists checks if a file exists at the given key
func (s *LocalStorage) Exists(ctx context.Context, key string) (bool, error) {
	fullPath := s.keyToPath(key)
	if _, err := os.Stat(fullPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat file %s: %w", fullPath, err)
	}
	return true, nil
}

// Delete removes a file and its metadata
func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	fullPath := s.keyToPath(key)
	if err := os.Remove(fullPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	_ = os.Remove(fullPath + metaSuffix)
	return nil
}

// List returns all keys starting with prefix
func (s *LocalStorage) List(ctx context.Context, prefix string) ([]string, error) {
	keys := []string{}
	err := filepath.WalkDir(s.basePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasSuffix(path, metaSuffix) || strings.Contains(d.Name(), tmpSuffix) {
			return nil
		}
		if key := s.pathToKey(path); strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	sort.Strings(keys)
	return keys, nil
}

// keyToPath converts a storage key to a filesystem path inside basePath
func (s *LocalStorage) keyToPath(key string) string {
	// Rooting the key before cleaning strips any ../ segments
	cleanKey := filepath.Clean("/" + filepath.FromSlash(key))
	return filepath.Join(s.basePath, cleanKey)
}

// pathToKey converts a filesystem path to a storage key
func (s *LocalStorage) pathToKey(path string) string {
	relPath, err := filepath.Rel(s.basePath, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(relPath)
}

// ComputeChecksum computes the SHA256 checksum of content
func ComputeChecksum(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// BuildFeedKey builds the key under which an imported feed upload is archived
func BuildFeedKey(mappingID string, at time.Time, filename string) string {
	return fmt.Sprintf("feeds/%s/%s/%s", mappingID, at.Format("2006-01-02T150405"), filepath.Base(filename))
}

// BuildExportKey builds the key of an archived export document
func BuildExportKey(at time.Time) string {
	return fmt.Sprintf("exports/%s/catalog-%s.xml", at.Format("2006-01-02"), at.Format("150405"))
}
