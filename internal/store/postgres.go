package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/WipeGod/supermall-catalog/internal/errs"
)

// PostgresStore is the remote document backend: one JSONB row per
// record, keyed by (collection, id).
type PostgresStore struct {
	db *sqlx.DB
}

const documentsSchema = `
	CREATE TABLE IF NOT EXISTS catalog_documents (
		collection TEXT        NOT NULL,
		id         TEXT        NOT NULL,
		data       JSONB       NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (collection, id)
	)`

// NewPostgresStore connects to Postgres and ensures the documents table.
func NewPostgresStore(databaseURL string) (*PostgresStore, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(documentsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure documents table: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// Create inserts a new document and returns its generated id.
func (s *PostgresStore) Create(ctx context.Context, collection string, data Record) (string, error) {
	id := uuid.New().String()

	rec := Record{}
	for k, v := range data {
		rec[k] = v
	}
	rec["id"] = id
	rec["createdAt"] = time.Now().UTC()

	rec, err := normalize(rec)
	if err != nil {
		return "", fmt.Errorf("failed to encode record: %w", err)
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("failed to encode record: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO catalog_documents (collection, id, data) VALUES ($1, $2, $3)",
		collection, id, raw)
	if err != nil {
		return "", fmt.Errorf("failed to insert document: %w", err)
	}

	return id, nil
}

// Get retrieves a single document by id.
func (s *PostgresStore) Get(ctx context.Context, collection, id string) (Record, error) {
	var raw []byte
	err := s.db.GetContext(ctx, &raw,
		"SELECT data FROM catalog_documents WHERE collection = $1 AND id = $2",
		collection, id)
	if err == sql.ErrNoRows {
		return nil, &errs.NotFoundError{Collection: collection, ID: id}
	}
	if err != nil {
		return nil, err
	}

	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return rec, nil
}

// GetAll retrieves every document in a collection in creation order.
func (s *PostgresStore) GetAll(ctx context.Context, collection string) ([]Record, error) {
	var raws [][]byte
	err := s.db.SelectContext(ctx, &raws,
		"SELECT data FROM catalog_documents WHERE collection = $1 ORDER BY created_at",
		collection)
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(raws))
	for _, raw := range raws {
		var rec Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("failed to decode document: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Update merges a patch onto a document inside a row-locking transaction.
// Last write wins; there is no version check.
func (s *PostgresStore) Update(ctx context.Context, collection, id string, patch Record) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var raw []byte
	err = tx.GetContext(ctx, &raw,
		"SELECT data FROM catalog_documents WHERE collection = $1 AND id = $2 FOR UPDATE",
		collection, id)
	if err == sql.ErrNoRows {
		return &errs.NotFoundError{Collection: collection, ID: id}
	}
	if err != nil {
		return fmt.Errorf("failed to lock document: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}

	applyPatch(rec, patch)
	rec["updatedAt"] = time.Now().UTC()

	rec, err = normalize(rec)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	merged, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE catalog_documents SET data = $1, updated_at = NOW() WHERE collection = $2 AND id = $3",
		merged, collection, id)
	if err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}

	return tx.Commit()
}

// Query reads the full collection then filters in memory, keeping the
// semantics identical across both backends.
func (s *PostgresStore) Query(ctx context.Context, collection string, filters Filters) ([]Record, error) {
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
