package store

import (
	"context"

	"go.uber.org/zap"

	"github.com/WipeGod/supermall-catalog/internal/util"
)

// Record is one schemaless document. The record's identifier is kept
// in-record under the "id" key in addition to the backend's own keying.
type Record = map[string]interface{}

// PriceRange is the one non-equality filter the gateway understands.
// Nil bounds are open ends; set bounds are inclusive.
type PriceRange struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// Filters is an AND-conjunction of per-field constraints. Values are
// compared for equality, except the "priceRange" key which must hold a
// PriceRange tested against the record's "price" field. Nil and
// empty-string values mean "no constraint" and are skipped.
type Filters map[string]interface{}

// Gateway is the uniform persistence contract over a named collection.
// Exactly one implementation is active per process: the Postgres-backed
// document store, or the local file store when Postgres is unreachable
// at startup. There is no per-call override and no mid-session failover.
type Gateway interface {
	// Create assigns a new unique id, stamps createdAt, persists the
	// record and returns the id. No field of data is ever dropped.
	Create(ctx context.Context, collection string, data Record) (string, error)

	// Get returns the record with the given id, or *errs.NotFoundError.
	Get(ctx context.Context, collection, id string) (Record, error)

	// GetAll returns every record in the collection, inactive ones
	// included. Filtering inactive records is a service-layer concern.
	GetAll(ctx context.Context, collection string) ([]Record, error)

	// Update merges patch onto the existing record (shallow at the top
	// level, with dotted-path support such as "stats.views") and stamps
	// updatedAt. Returns *errs.NotFoundError if the id does not exist.
	Update(ctx context.Context, collection, id string, patch Record) error

	// Query reads the full collection and applies filters in memory.
	Query(ctx context.Context, collection string, filters Filters) ([]Record, error)

	Close() error
}

// Open selects the backend for the process lifetime: Postgres when
// reachable, otherwise the local file store. The choice is made exactly
// once; callers hold the returned Gateway for the whole session.
func Open(databaseURL, dataDir string) (Gateway, error) {
	logger := util.GetLogger()

	pg, err := NewPostgresStore(databaseURL)
	if err == nil {
		logger.Info("Using Postgres document store")
		return pg, nil
	}

	logger.Warn("Postgres unreachable, falling back to local store",
		zap.String("data_dir", dataDir),
		zap.Error(err))

	local, err := NewLocalStore(dataDir)
	if err != nil {
		return nil, err
	}
	return local, nil
}
