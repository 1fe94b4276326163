package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/WipeGod/supermall-catalog/internal/broker"
	"github.com/WipeGod/supermall-catalog/internal/models"
	"github.com/WipeGod/supermall-catalog/internal/session"
	"github.com/WipeGod/supermall-catalog/internal/store"
	"github.com/WipeGod/supermall-catalog/internal/util"
)

// OfferService handles offer catalog business logic
type OfferService struct {
	base
}

// NewOfferService creates a new offer service
func NewOfferService(gw store.Gateway, sess *session.Context, events *broker.EventPublisher) *OfferService {
	return &OfferService{base{
		store:   gw,
		session: sess,
		events:  events,
		logger:  util.NamedLogger("offers"),
	}}
}

// Create validates and persists a new offer, returning its id. The
// validity window ordering and the future-expiry rule are enforced here;
// updates only recheck ordering when both bounds appear in the patch.
func (s *OfferService) Create(ctx context.Context, in *models.OfferInput) (string, error) {
	ctx, span := util.StartSpan(ctx, "OfferService.Create")
	defer span.End()

	if err := ValidateOffer(in, false); err != nil {
		util.ValidationFailuresTotal.WithLabelValues(models.CollectionOffers).Inc()
		return "", err
	}

	rec, err := toRecord(in)
	if err != nil {
		return "", err
	}
	rec["status"] = models.StatusActive
	rec["stats"] = models.OfferStats{}
	rec["createdBy"] = s.session.Actor(ctx)

	id, err := s.store.Create(ctx, models.CollectionOffers, rec)
	if err != nil {
		return "", fmt.Errorf("failed to create offer: %w", err)
	}

	util.EntitiesCreatedTotal.WithLabelValues(models.CollectionOffers).Inc()
	s.logger.Info("Offer created", zap.String("offer_id", id))
	s.publishMutation(ctx, models.EventTypeEntityCreated, models.CollectionOffers, id)
	return id, nil
}

// GetAll lists offers, hiding inactive ones unless IncludeInactive and
// expired ones unless IncludeExpired. Only the closed end of the window
// is filtered: an offer whose validFrom is still in the future is
// already listed, so upcoming promotions are browsable before they start.
func (s *OfferService) GetAll(ctx context.Context, opts ListOptions) ([]models.Offer, error) {
	ctx, span := util.StartSpan(ctx, "OfferService.GetAll")
	defer span.End()
	defer s.observeQuery(models.CollectionOffers, "list", time.Now())

	recs, err := s.store.Query(ctx, models.CollectionOffers, opts.filters())
	if err != nil {
		return nil, err
	}

	now := time.Now()
	offers := make([]models.Offer, 0, len(recs))
	for _, rec := range recs {
		var offer models.Offer
		if err := decodeRecord(rec, &offer); err != nil {
			return nil, err
		}
		if !opts.IncludeExpired && offer.ValidTo.Before(now) {
			continue
		}
		offers = append(offers, offer)
	}

	sortOffers(offers, opts.SortBy)
	return offers, nil
}

// GetByID returns one offer and bumps its view telemetry, best-effort.
func (s *OfferService) GetByID(ctx context.Context, id string) (*models.Offer, error) {
	ctx, span := util.StartSpan(ctx, "OfferService.GetByID")
	defer span.End()

	rec, err := s.store.Get(ctx, models.CollectionOffers, id)
	if err != nil {
		return nil, err
	}

	var offer models.Offer
	if err := decodeRecord(rec, &offer); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	patch := store.Record{
		"stats.views":      offer.Stats.Views + 1,
		"stats.lastViewed": now,
	}
	if err := s.store.Update(ctx, models.CollectionOffers, id, patch); err != nil {
		util.ViewIncrementFailures.WithLabelValues(models.CollectionOffers).Inc()
		s.logger.Warn("Failed to increment offer views", zap.String("offer_id", id), zap.Error(err))
	} else {
		offer.Stats.Views++
		offer.Stats.LastViewed = &now
	}
	return &offer, nil
}

// Update applies a partial patch after re-validation.
func (s *OfferService) Update(ctx context.Context, id string, in *models.OfferInput) error {
	ctx, span := util.StartSpan(ctx, "OfferService.Update")
	defer span.End()

	if err := ValidateOffer(in, true); err != nil {
		util.ValidationFailuresTotal.WithLabelValues(models.CollectionOffers).Inc()
		return err
	}

	patch, err := toRecord(in)
	if err != nil {
		return err
	}
	patch["updatedBy"] = s.session.Actor(ctx)

	if err := s.store.Update(ctx, models.CollectionOffers, id, patch); err != nil {
		return err
	}

	util.EntitiesUpdatedTotal.WithLabelValues(models.CollectionOffers).Inc()
	s.publishMutation(ctx, models.EventTypeEntityUpdated, models.CollectionOffers, id)
	return nil
}

// Delete soft-deletes an offer.
func (s *OfferService) Delete(ctx context.Context, id string) error {
	ctx, span := util.StartSpan(ctx, "OfferService.Delete")
	defer span.End()

	if err := s.store.Update(ctx, models.CollectionOffers, id, s.softDeletePatch(ctx)); err != nil {
		return err
	}

	util.EntitiesDeletedTotal.WithLabelValues(models.CollectionOffers).Inc()
	s.logger.Info("Offer deleted", zap.String("offer_id", id))
	s.publishMutation(ctx, models.EventTypeEntityDeleted, models.CollectionOffers, id)
	return nil
}

// Search matches a case-insensitive substring against offer title and
// description.
func (s *OfferService) Search(ctx context.Context, query string, opts ListOptions) ([]models.Offer, error) {
	ctx, span := util.StartSpan(ctx, "OfferService.Search")
	defer span.End()
	defer s.observeQuery(models.CollectionOffers, "search", time.Now())
	util.SearchesTotal.WithLabelValues(models.CollectionOffers).Inc()

	offers, err := s.GetAll(ctx, opts)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return offers, nil
	}

	matched := make([]models.Offer, 0, len(offers))
	for _, offer := range offers {
		if containsFold(offer.Title, q) || containsFold(offer.Description, q) {
			matched = append(matched, offer)
		}
	}
	return matched, nil
}

// ExpiringWithin returns active, unexpired offers whose validity ends
// inside the next withinDays days, soonest first.
func (s *OfferService) ExpiringWithin(ctx context.Context, withinDays int) ([]models.Offer, error) {
	ctx, span := util.StartSpan(ctx, "OfferService.ExpiringWithin")
	defer span.End()

	offers, err := s.GetAll(ctx, ListOptions{SortBy: SortExpiry})
	if err != nil {
		return nil, err
	}

	cutoff := time.Now().AddDate(0, 0, withinDays)
	expiring := make([]models.Offer, 0, len(offers))
	for _, offer := range offers {
		if !offer.ValidTo.After(cutoff) {
			expiring = append(expiring, offer)
		}
	}
	return expiring, nil
}

// Expired returns active offers whose validity window has closed.
func (s *OfferService) Expired(ctx context.Context) ([]models.Offer, error) {
	ctx, span := util.StartSpan(ctx, "OfferService.Expired")
	defer span.End()

	offers, err := s.GetAll(ctx, ListOptions{IncludeExpired: true, SortBy: SortExpiry})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	expired := make([]models.Offer, 0, len(offers))
	for _, offer := range offers {
		if offer.ValidTo.Before(now) {
			expired = append(expired, offer)
		}
	}
	return expired, nil
}

// RecordClick bumps the offer's click telemetry and fans out an
// OfferClicked event. The caller still gets an error when the offer does
// not exist; only the event fan-out is best-effort.
func (s *OfferService) RecordClick(ctx context.Context, id string) error {
	ctx, span := util.StartSpan(ctx, "OfferService.RecordClick")
	defer span.End()

	rec, err := s.store.Get(ctx, models.CollectionOffers, id)
	if err != nil {
		return err
	}
	var offer models.Offer
	if err := decodeRecord(rec, &offer); err != nil {
		return err
	}

	patch := store.Record{
		"stats.clicks":      offer.Stats.Clicks + 1,
		"stats.lastClicked": time.Now().UTC(),
	}
	if err := s.store.Update(ctx, models.CollectionOffers, id, patch); err != nil {
		return err
	}

	if s.events != nil {
		if err := s.events.PublishOfferClicked(ctx, id, s.session.Actor(ctx)); err != nil {
			s.logger.Warn("Failed to publish OfferClicked event", zap.String("offer_id", id), zap.Error(err))
		}
	}
	return nil
}

// RecordConversion bumps the offer's conversion counter.
func (s *OfferService) RecordConversion(ctx context.Context, id string) error {
	ctx, span := util.StartSpan(ctx, "OfferService.RecordConversion")
	defer span.End()

	rec, err := s.store.Get(ctx, models.CollectionOffers, id)
	if err != nil {
		return err
	}
	var offer models.Offer
	if err := decodeRecord(rec, &offer); err != nil {
		return err
	}

	return s.store.Update(ctx, models.CollectionOffers, id,
		store.Record{"stats.conversions": offer.Stats.Conversions + 1})
}
