package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WipeGod/supermall-catalog/internal/errs"
)

func newTestStore(t *testing.T) *LocalStore {
	t.Helper()
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestCreateAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.Create(ctx, "shops", Record{
		"name":  "Tech Corner",
		"floor": 3,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	rec, err := s.Get(ctx, "shops", id)
	require.NoError(t, err)
	assert.Equal(t, "Tech Corner", rec["name"])
	assert.Equal(t, float64(3), rec["floor"])
	assert.Equal(t, id, rec["id"])
	assert.NotEmpty(t, rec["createdAt"])
}

func TestGetMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get(context.Background(), "shops", "nope")

	var nf *errs.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "shops", nf.Collection)
}

func TestUpdateMergesAndStamps(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.Create(ctx, "products", Record{
		"name":  "Mug",
		"price": 9.5,
		"stats": map[string]interface{}{"views": 0},
	})
	require.NoError(t, err)

	err = s.Update(ctx, "products", id, Record{"price": 12.0})
	require.NoError(t, err)

	rec, err := s.Get(ctx, "products", id)
	require.NoError(t, err)
	assert.Equal(t, 12.0, rec["price"])
	assert.Equal(t, "Mug", rec["name"])
	assert.NotEmpty(t, rec["updatedAt"])
}

func TestUpdateMissing(t *testing.T) {
	s := newTestStore(t)

	err := s.Update(context.Background(), "products", "nope", Record{"price": 1.0})

	var nf *errs.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestUpdateDottedPath(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.Create(ctx, "products", Record{
		"name":  "Mug",
		"stats": map[string]interface{}{"views": 1, "rating": 4.5},
	})
	require.NoError(t, err)

	err = s.Update(ctx, "products", id, Record{"stats.views": 2})
	require.NoError(t, err)

	rec, err := s.Get(ctx, "products", id)
	require.NoError(t, err)

	stats, ok := rec["stats"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(2), stats["views"])
	assert.Equal(t, 4.5, stats["rating"], "sibling stat fields survive a dotted update")
}

func TestQueryFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreate := func(data Record) {
		_, err := s.Create(ctx, "products", data)
		require.NoError(t, err)
	}

	mustCreate(Record{"name": "Laptop", "category": "electronics", "price": 900.0, "status": "active"})
	mustCreate(Record{"name": "Mouse", "category": "electronics", "price": 25.0, "status": "active"})
	mustCreate(Record{"name": "Chair", "category": "furniture", "price": 120.0, "status": "inactive"})

	t.Run("equality conjunction", func(t *testing.T) {
		recs, err := s.Query(ctx, "products", Filters{
			"category": "electronics",
			"status":   "active",
		})
		require.NoError(t, err)
		assert.Len(t, recs, 2)
	})

	t.Run("price range", func(t *testing.T) {
		min, max := 20.0, 200.0
		recs, err := s.Query(ctx, "products", Filters{
			"priceRange": PriceRange{Min: &min, Max: &max},
		})
		require.NoError(t, err)
		require.Len(t, recs, 2)
		for _, rec := range recs {
			price := rec["price"].(float64)
			assert.GreaterOrEqual(t, price, min)
			assert.LessOrEqual(t, price, max)
		}
	})

	t.Run("open-ended price range", func(t *testing.T) {
		min := 100.0
		recs, err := s.Query(ctx, "products", Filters{
			"priceRange": PriceRange{Min: &min},
		})
		require.NoError(t, err)
		assert.Len(t, recs, 2)
	})

	t.Run("nil and empty filters are skipped", func(t *testing.T) {
		recs, err := s.Query(ctx, "products", Filters{
			"category": "",
			"status":   nil,
		})
		require.NoError(t, err)
		assert.Len(t, recs, 3)
	})
}

func TestReopenPersists(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := NewLocalStore(dir)
	require.NoError(t, err)

	id, err := first.Create(ctx, "shops", Record{"name": "Bookstore"})
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := NewLocalStore(dir)
	require.NoError(t, err)

	rec, err := second.Get(ctx, "shops", id)
	require.NoError(t, err)
	assert.Equal(t, "Bookstore", rec["name"])
}

func TestGetReturnsCopy(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.Create(ctx, "shops", Record{"name": "Original"})
	require.NoError(t, err)

	rec, err := s.Get(ctx, "shops", id)
	require.NoError(t, err)
	rec["name"] = "Mutated"

	again, err := s.Get(ctx, "shops", id)
	require.NoError(t, err)
	assert.Equal(t, "Original", again["name"])
}
