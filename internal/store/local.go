package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/WipeGod/supermall-catalog/internal/errs"
)

// LocalStore is the fallback backend: one JSON file per collection under
// a data directory, holding the collection's records in creation order.
// It exists so the catalog stays usable when Postgres is unreachable.
type LocalStore struct {
	mu          sync.Mutex
	dir         string
	collections map[string][]Record
}

// NewLocalStore opens (creating if needed) a file-backed store rooted at dir.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	return &LocalStore{
		dir:         dir,
		collections: make(map[string][]Record),
	}, nil
}

// Close flushes nothing; every mutation is persisted synchronously.
func (s *LocalStore) Close() error {
	return nil
}

// Create appends a new record and persists the collection file.
func (s *LocalStore) Create(ctx context.Context, collection string, data Record) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.loadLocked(collection)
	if err != nil {
		return "", err
	}

	id := newLocalID()

	rec := Record{}
	for k, v := range data {
		rec[k] = v
	}
	rec["id"] = id
	rec["createdAt"] = time.Now().UTC()

	rec, err = normalize(rec)
	if err != nil {
		return "", fmt.Errorf("failed to encode record: %w", err)
	}

	s.collections[collection] = append(records, rec)
	if err := s.persistLocked(collection); err != nil {
		return "", err
	}
	return id, nil
}

// Get returns a copy of the record with the given id.
func (s *LocalStore) Get(ctx context.Context, collection, id string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.loadLocked(collection)
	if err != nil {
		return nil, err
	}

	for _, rec := range records {
		if rec["id"] == id {
			return normalize(rec)
		}
	}
	return nil, &errs.NotFoundError{Collection: collection, ID: id}
}

// GetAll returns copies of every record in the collection.
func (s *LocalStore) GetAll(ctx context.Context, collection string) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.loadLocked(collection)
	if err != nil {
		return nil, err
	}

	out := make([]Record, 0, len(records))
	for _, rec := range records {
		copied, err := normalize(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, copied)
	}
	return out, nil
}

// Update merges a patch onto the stored record. Last write wins.
func (s *LocalStore) Update(ctx context.Context, collection, id string, patch Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.loadLocked(collection)
	if err != nil {
		return err
	}

	for i, rec := range records {
		if rec["id"] != id {
			continue
		}

		applyPatch(rec, patch)
		rec["updatedAt"] = time.Now().UTC()

		merged, err := normalize(rec)
		if err != nil {
			return fmt.Errorf("failed to encode record: %w", err)
		}
		records[i] = merged
		s.collections[collection] = records
		return s.persistLocked(collection)
	}
	return &errs.NotFoundError{Collection: collection, ID: id}
}

// Query reads the full collection then filters in memory.
func (s *LocalStore) Query(ctx context.Context, collection string, filters Filters) ([]Record, error) {
	records, err := s.GetAll(ctx, collection)
	if err != nil {
		return nil, err
	}

	matched := make([]Record, 0, len(records))
	for _, rec := range records {
		if matchFilters(rec, filters) {
			matched = append(matched, rec)
		}
	}
	return matched, nil
}

func (s *LocalStore) loadLocked(collection string) ([]Record, error) {
	if records, ok := s.collections[collection]; ok {
		return records, nil
	}

	raw, err := os.ReadFile(s.path(collection))
	if os.IsNotExist(err) {
		s.collections[collection] = []Record{}
		return s.collections[collection], nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read collection %s: %w", collection, err)
	}

	var records []Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("failed to decode collection %s: %w", collection, err)
	}
	s.collections[collection] = records
	return records, nil
}

// persistLocked writes the collection file atomically via rename.
func (s *LocalStore) persistLocked(collection string) error {
	raw, err := json.MarshalIndent(s.collections[collection], "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode collection %s: %w", collection, err)
	}

	tmp := s.path(collection) + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write collection %s: %w", collection, err)
	}
	return os.Rename(tmp, s.path(collection))
}

func (s *LocalStore) path(collection string) string {
	return filepath.Join(s.dir, collection+".json")
}

// newLocalID builds a time-prefixed id with a random suffix, unique with
// overwhelming probability within a session.
func newLocalID() string {
	buf := make([]byte, 6)
	_, _ = rand.Read(buf)
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), hex.EncodeToString(buf))
}
