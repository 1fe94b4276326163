package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/WipeGod/supermall-catalog/internal/store"
)

// toRecord converts a typed value into a gateway record by round-tripping
// through JSON, so omitempty pointer fields drop out of partial patches.
func toRecord(v interface{}) (store.Record, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode input: %w", err)
	}
	var rec store.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("failed to encode input: %w", err)
	}
	return rec, nil
}

// decodeRecord materializes a gateway record into a typed model.
func decodeRecord(rec store.Record, out interface{}) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to decode record: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode record: %w", err)
	}
	return nil
}
