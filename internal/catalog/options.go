package catalog

import (
	"github.com/WipeGod/supermall-catalog/internal/models"
	"github.com/WipeGod/supermall-catalog/internal/store"
)

// ListOptions narrows and orders list and search results. Zero values
// mean "no constraint".
type ListOptions struct {
	Category   string
	ShopID     string
	Floor      int
	PriceRange *store.PriceRange

	// IncludeInactive keeps soft-deleted records in the result set.
	IncludeInactive bool

	// IncludeExpired keeps offers whose validity window has closed.
	// Ignored for other entity kinds.
	IncludeExpired bool

	SortBy string
}

// filters translates the options into gateway filters. Sorting and the
// offer expiry window are applied in memory after the query.
func (o ListOptions) filters() store.Filters {
	f := store.Filters{}
	if !o.IncludeInactive {
		f["status"] = models.StatusActive
	}
	if o.Category != "" {
		f["category"] = o.Category
	}
	if o.ShopID != "" {
		f["shopId"] = o.ShopID
	}
	if o.Floor > 0 {
		f["floor"] = o.Floor
	}
	if o.PriceRange != nil {
		f["priceRange"] = o.PriceRange
	}
	return f
}
