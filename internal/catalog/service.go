// Package catalog implements the marketplace catalog services: shop,
// product, offer and category CRUD with validation, soft deletes,
// search, sorting and derived aggregates, all on top of the persistence
// gateway.
package catalog

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/WipeGod/supermall-catalog/internal/broker"
	"github.com/WipeGod/supermall-catalog/internal/models"
	"github.com/WipeGod/supermall-catalog/internal/session"
	"github.com/WipeGod/supermall-catalog/internal/store"
	"github.com/WipeGod/supermall-catalog/internal/util"
)

// base carries the collaborators every catalog service composes. The
// event publisher is optional; a nil publisher disables event fan-out.
type base struct {
	store   store.Gateway
	session *session.Context
	events  *broker.EventPublisher
	logger  *zap.Logger
}

// publishMutation emits a lifecycle event. Event delivery is a side
// channel: failures are logged and never surfaced to the caller.
func (b *base) publishMutation(ctx context.Context, eventType, collection, id string) {
	if b.events == nil {
		return
	}
	actor := b.session.Actor(ctx)
	if err := b.events.PublishEntityMutation(ctx, eventType, collection, id, actor); err != nil {
		b.logger.Warn("Failed to publish mutation event",
			zap.String("collection", collection),
			zap.String("entity_id", id),
			zap.Error(err))
	}
}

// softDeletePatch is the only delete state reachable from the services.
func (b *base) softDeletePatch(ctx context.Context) store.Record {
	now := time.Now().UTC()
	return store.Record{
		"status":    models.StatusInactive,
		"deletedAt": now,
		"deletedBy": b.session.Actor(ctx),
	}
}

func (b *base) observeQuery(collection, operation string, start time.Time) {
	util.QueryDuration.WithLabelValues(collection, operation).
		Observe(time.Since(start).Seconds())
}

// containsFold reports a case-insensitive substring match.
func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}
