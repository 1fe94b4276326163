package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/WipeGod/supermall-catalog/internal/models"
	"github.com/WipeGod/supermall-catalog/internal/util"
)

// EventPublisher handles publishing catalog domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

func baseEvent(eventType string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now(),
	}
}

// PublishEntityMutation publishes a created/updated/deleted event for a
// catalog record. Callers treat failures as non-critical.
func (ep *EventPublisher) PublishEntityMutation(ctx context.Context, eventType, collection, entityID, actor string) error {
	event := &models.EntityEvent{
		BaseEvent:  baseEvent(eventType),
		Collection: collection,
		EntityID:   entityID,
		Actor:      actor,
	}
	key := fmt.Sprintf("%s-%s", collection, entityID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishOfferClicked publishes an OfferClicked event
func (ep *EventPublisher) PublishOfferClicked(ctx context.Context, offerID, actor string) error {
	event := &models.OfferClickedEvent{
		BaseEvent: baseEvent(models.EventTypeOfferClicked),
		OfferID:   offerID,
		Actor:     actor,
	}
	key := fmt.Sprintf("offer-%s", offerID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// EventHandler handles incoming catalog events
type EventHandler struct {
	onEntityMutation func(context.Context, *models.EntityEvent) error
	onOfferClicked   func(context.Context, *models.OfferClickedEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnEntityMutation registers a handler for entity mutation events
func (eh *EventHandler) OnEntityMutation(handler func(context.Context, *models.EntityEvent) error) {
	eh.onEntityMutation = handler
}

// OnOfferClicked registers a handler for OfferClicked events
func (eh *EventHandler) OnOfferClicked(handler func(context.Context, *models.OfferClickedEvent) error) {
	eh.onOfferClicked = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var base models.BaseEvent
	if err := json.Unmarshal(msg.Value, &base); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	switch base.EventType {
	case models.EventTypeEntityCreated, models.EventTypeEntityUpdated, models.EventTypeEntityDeleted:
		if eh.onEntityMutation != nil {
			var event models.EntityEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal entity event: %w", err)
			}
			return eh.onEntityMutation(ctx, &event)
		}

	case models.EventTypeOfferClicked:
		if eh.onOfferClicked != nil {
			var event models.OfferClickedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal OfferClicked event: %w", err)
			}
			return eh.onOfferClicked(ctx, &event)
		}

	default:
		util.GetLogger().Debug("Unhandled event type", zap.String("type", base.EventType))
	}

	return nil
}
