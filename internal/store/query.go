package store

import (
	"encoding/json"
	"reflect"
	"strings"
)

// matchFilters reports whether a record satisfies every constraint in
// filters. Nil and empty-string constraint values are skipped.
func matchFilters(rec Record, filters Filters) bool {
	for field, want := range filters {
		if want == nil {
			continue
		}
		if s, ok := want.(string); ok && s == "" {
			continue
		}

		if field == "priceRange" {
			if !matchPriceRange(rec, want) {
				return false
			}
			continue
		}

		if !looseEqual(rec[field], want) {
			return false
		}
	}
	return true
}

func matchPriceRange(rec Record, want interface{}) bool {
	var pr PriceRange
	switch v := want.(type) {
	case PriceRange:
		pr = v
	case *PriceRange:
		if v == nil {
			return true
		}
		pr = *v
	default:
		return true
	}

	price, ok := toFloat(rec["price"])
	if !ok {
		return false
	}
	if pr.Min != nil && price < *pr.Min {
		return false
	}
	if pr.Max != nil && price > *pr.Max {
		return false
	}
	return true
}

// looseEqual compares a record value against a filter value. Numeric
// values are compared as float64 so that JSON-decoded records (where
// every number is a float64) match int-typed filters.
func looseEqual(have, want interface{}) bool {
	hf, hok := toFloat(have)
	wf, wok := toFloat(want)
	if hok && wok {
		return hf == wf
	}
	return reflect.DeepEqual(have, want)
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// applyPatch merges patch onto rec: shallow at the top level, with
// dotted-path keys ("stats.views") descending into nested maps.
func applyPatch(rec Record, patch Record) {
	for key, value := range patch {
		if !strings.Contains(key, ".") {
			rec[key] = value
			continue
		}

		parts := strings.Split(key, ".")
		node := rec
		for _, part := range parts[:len(parts)-1] {
			child, ok := node[part].(map[string]interface{})
			if !ok {
				child = map[string]interface{}{}
				node[part] = child
			}
			node = child
		}
		node[parts[len(parts)-1]] = value
	}
}

// normalize round-trips a record through JSON so both backends hand out
// the same value types (all numbers as float64, no aliased maps).
func normalize(rec Record) (Record, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	var out Record
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
