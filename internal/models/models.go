package models

import "time"

// Collection names used by the persistence gateway.
const (
	CollectionShops      = "shops"
	CollectionProducts   = "products"
	CollectionCategories = "categories"
	CollectionOffers     = "offers"
	CollectionLogs       = "logs"
)

// Lifecycle statuses. Inactive is terminal through the service API:
// soft-deleted records are never physically removed and never reactivated.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Audit carries attribution for every mutation of a record.
type Audit struct {
	CreatedBy string     `json:"createdBy,omitempty"`
	CreatedAt time.Time  `json:"createdAt,omitempty"`
	UpdatedBy string     `json:"updatedBy,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
	DeletedBy string     `json:"deletedBy,omitempty"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

// Location is a shop's physical placement inside the mall.
type Location struct {
	Address string  `json:"address,omitempty"`
	Lat     float64 `json:"lat,omitempty"`
	Lng     float64 `json:"lng,omitempty"`
}

// Contact holds a shop's contact details.
type Contact struct {
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// ShopStats are shop-level telemetry counters. Views only ever grow.
type ShopStats struct {
	Views   int64   `json:"views"`
	Rating  float64 `json:"rating"`
	Reviews int64   `json:"reviews"`
}

// Shop represents a merchant shop in the mall catalog.
type Shop struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category,omitempty"`
	Floor       int       `json:"floor"`
	Location    *Location `json:"location,omitempty"`
	Contact     *Contact  `json:"contact,omitempty"`
	Images      []string  `json:"images,omitempty"`
	Status      string    `json:"status"`
	Stats       ShopStats `json:"stats"`
	Audit
}

// ProductStats are product-level telemetry counters.
type ProductStats struct {
	Views     int64   `json:"views"`
	Purchases int64   `json:"purchases"`
	Rating    float64 `json:"rating"`
	Reviews   int64   `json:"reviews"`
}

// Product represents a sellable item listed under a shop.
type Product struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	Price          float64           `json:"price"`
	Category       string            `json:"category,omitempty"`
	ShopID         string            `json:"shopId"`
	Images         []string          `json:"images,omitempty"`
	Specifications map[string]string `json:"specifications,omitempty"`
	Stock          int               `json:"stock"`
	Status         string            `json:"status"`
	Stats          ProductStats      `json:"stats"`
	Audit
}

// OfferStats are offer-level telemetry counters.
type OfferStats struct {
	Views       int64      `json:"views"`
	Clicks      int64      `json:"clicks"`
	Conversions int64      `json:"conversions"`
	LastViewed  *time.Time `json:"lastViewed,omitempty"`
	LastClicked *time.Time `json:"lastClicked,omitempty"`
}

// Offer represents a time-bounded discount on a set of products.
type Offer struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Discount    float64    `json:"discount"`
	ShopID      string     `json:"shopId"`
	ProductIDs  []string   `json:"productIds,omitempty"`
	ValidFrom   time.Time  `json:"validFrom"`
	ValidTo     time.Time  `json:"validTo"`
	Status      string     `json:"status"`
	Stats       OfferStats `json:"stats"`
	Audit
}

// Category groups shops and products for browsing.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Floor       int    `json:"floor,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Status      string `json:"status"`
	Audit
}

// ActionLog is one materialized audit record in the logs collection.
type ActionLog struct {
	ID         string    `json:"id"`
	Level      string    `json:"level"`
	Action     string    `json:"action"`
	Collection string    `json:"collection"`
	EntityID   string    `json:"entityId"`
	Actor      string    `json:"actor"`
	Timestamp  time.Time `json:"timestamp"`
}

// ShopInput is the write shape for shops. Pointer fields distinguish
// "absent" from "zero" so the same shape serves creates and partial updates.
type ShopInput struct {
	Name        *string   `json:"name,omitempty"`
	Description *string   `json:"description,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Floor       *int      `json:"floor,omitempty"`
	Location    *Location `json:"location,omitempty"`
	Contact     *Contact  `json:"contact,omitempty"`
	Images      []string  `json:"images,omitempty"`
}

// ProductInput is the write shape for products.
type ProductInput struct {
	Name           *string           `json:"name,omitempty"`
	Description    *string           `json:"description,omitempty"`
	Price          *float64          `json:"price,omitempty"`
	Category       *string           `json:"category,omitempty"`
	ShopID         *string           `json:"shopId,omitempty"`
	Images         []string          `json:"images,omitempty"`
	Specifications map[string]string `json:"specifications,omitempty"`
	Stock          *int              `json:"stock,omitempty"`
}

// OfferInput is the write shape for offers.
type OfferInput struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Discount    *float64   `json:"discount,omitempty"`
	ShopID      *string    `json:"shopId,omitempty"`
	ProductIDs  []string   `json:"productIds,omitempty"`
	ValidFrom   *time.Time `json:"validFrom,omitempty"`
	ValidTo     *time.Time `json:"validTo,omitempty"`
}

// CategoryInput is the write shape for categories.
type CategoryInput struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Floor       *int    `json:"floor,omitempty"`
	Icon        *string `json:"icon,omitempty"`
}
