package models

import "time"

// Event types
const (
	EventTypeEntityCreated = "ENTITY_CREATED"
	EventTypeEntityUpdated = "ENTITY_UPDATED"
	EventTypeEntityDeleted = "ENTITY_DELETED"
	EventTypeOfferClicked  = "OFFER_CLICKED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// EntityEvent is published on every catalog mutation. The audit worker
// consumes it and materializes the logs collection.
type EntityEvent struct {
	BaseEvent
	Collection string `json:"collection"`
	EntityID   string `json:"entity_id"`
	Actor      string `json:"actor"`
}

// OfferClickedEvent is published when a shopper follows an offer.
type OfferClickedEvent struct {
	BaseEvent
	OfferID string `json:"offer_id"`
	Actor   string `json:"actor"`
}
