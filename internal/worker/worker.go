package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/WipeGod/supermall-catalog/internal/broker"
	"github.com/WipeGod/supermall-catalog/internal/models"
	"github.com/WipeGod/supermall-catalog/internal/store"
	"github.com/WipeGod/supermall-catalog/internal/util"
)

// AuditWorker consumes catalog events from Kafka and materializes them
// into the logs collection. Log delivery is fire-and-forget from the
// services' point of view: a failure here never affects the original
// operation's outcome.
type AuditWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	gateway      store.Gateway
	logger       *zap.Logger
}

// NewAuditWorker creates a new audit worker
func NewAuditWorker(consumer *broker.Consumer, gateway store.Gateway) *AuditWorker {
	w := &AuditWorker{
		consumer: consumer,
		gateway:  gateway,
		logger:   util.NamedLogger("audit"),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnEntityMutation(w.handleEntityMutation)
	eventHandler.OnOfferClicked(w.handleOfferClicked)
	w.eventHandler = eventHandler

	return w
}

// Start starts the worker
func (w *AuditWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting audit worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *AuditWorker) Stop() error {
	w.logger.Info("Stopping audit worker")
	return w.consumer.Close()
}

func (w *AuditWorker) handleEntityMutation(ctx context.Context, event *models.EntityEvent) error {
	return w.appendLog(ctx, models.ActionLog{
		Level:      "info",
		Action:     event.EventType,
		Collection: event.Collection,
		EntityID:   event.EntityID,
		Actor:      event.Actor,
		Timestamp:  event.Timestamp,
	})
}

func (w *AuditWorker) handleOfferClicked(ctx context.Context, event *models.OfferClickedEvent) error {
	return w.appendLog(ctx, models.ActionLog{
		Level:      "info",
		Action:     event.EventType,
		Collection: models.CollectionOffers,
		EntityID:   event.OfferID,
		Actor:      event.Actor,
		Timestamp:  event.Timestamp,
	})
}

func (w *AuditWorker) appendLog(ctx context.Context, entry models.ActionLog) error {
	rec := store.Record{
		"level":      entry.Level,
		"action":     entry.Action,
		"collection": entry.Collection,
		"entityId":   entry.EntityID,
		"actor":      entry.Actor,
		"timestamp":  entry.Timestamp,
	}

	if _, err := w.gateway.Create(ctx, models.CollectionLogs, rec); err != nil {
		w.logger.Warn("Failed to append action log",
			zap.String("action", entry.Action),
			zap.String("entity_id", entry.EntityID),
			zap.Error(err))
		return err
	}
	return nil
}
