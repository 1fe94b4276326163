package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/WipeGod/supermall-catalog/internal/broker"
	"github.com/WipeGod/supermall-catalog/internal/errs"
	"github.com/WipeGod/supermall-catalog/internal/models"
	"github.com/WipeGod/supermall-catalog/internal/session"
	"github.com/WipeGod/supermall-catalog/internal/store"
	"github.com/WipeGod/supermall-catalog/internal/util"
)

// ShopService handles shop catalog business logic
type ShopService struct {
	base
}

// NewShopService creates a new shop service
func NewShopService(gw store.Gateway, sess *session.Context, events *broker.EventPublisher) *ShopService {
	return &ShopService{base{
		store:   gw,
		session: sess,
		events:  events,
		logger:  util.NamedLogger("shops"),
	}}
}

// Create validates and persists a new shop, returning its id.
func (s *ShopService) Create(ctx context.Context, in *models.ShopInput) (string, error) {
	ctx, span := util.StartSpan(ctx, "ShopService.Create")
	defer span.End()

	if err := ValidateShop(in, false); err != nil {
		util.ValidationFailuresTotal.WithLabelValues(models.CollectionShops).Inc()
		return "", err
	}

	rec, err := toRecord(in)
	if err != nil {
		return "", err
	}
	rec["status"] = models.StatusActive
	rec["stats"] = models.ShopStats{}
	rec["createdBy"] = s.session.Actor(ctx)

	id, err := s.store.Create(ctx, models.CollectionShops, rec)
	if err != nil {
		return "", fmt.Errorf("failed to create shop: %w", err)
	}

	util.EntitiesCreatedTotal.WithLabelValues(models.CollectionShops).Inc()
	s.logger.Info("Shop created", zap.String("shop_id", id))
	s.publishMutation(ctx, models.EventTypeEntityCreated, models.CollectionShops, id)
	return id, nil
}

// GetAll lists shops, hiding inactive ones unless asked otherwise.
func (s *ShopService) GetAll(ctx context.Context, opts ListOptions) ([]models.Shop, error) {
	ctx, span := util.StartSpan(ctx, "ShopService.GetAll")
	defer span.End()
	defer s.observeQuery(models.CollectionShops, "list", time.Now())

	recs, err := s.store.Query(ctx, models.CollectionShops, opts.filters())
	if err != nil {
		return nil, err
	}

	shops := make([]models.Shop, 0, len(recs))
	for _, rec := range recs {
		var shop models.Shop
		if err := decodeRecord(rec, &shop); err != nil {
			return nil, err
		}
		shops = append(shops, shop)
	}

	sortShops(shops, opts.SortBy)
	return shops, nil
}

// GetByID returns one shop and bumps its view counter. The increment is
// best-effort: a failure is logged, never returned.
func (s *ShopService) GetByID(ctx context.Context, id string) (*models.Shop, error) {
	ctx, span := util.StartSpan(ctx, "ShopService.GetByID")
	defer span.End()

	rec, err := s.store.Get(ctx, models.CollectionShops, id)
	if err != nil {
		return nil, err
	}

	var shop models.Shop
	if err := decodeRecord(rec, &shop); err != nil {
		return nil, err
	}

	patch := store.Record{"stats.views": shop.Stats.Views + 1}
	if err := s.store.Update(ctx, models.CollectionShops, id, patch); err != nil {
		util.ViewIncrementFailures.WithLabelValues(models.CollectionShops).Inc()
		s.logger.Warn("Failed to increment shop views", zap.String("shop_id", id), zap.Error(err))
	} else {
		shop.Stats.Views++
	}
	return &shop, nil
}

// Update applies a partial patch after re-validation.
func (s *ShopService) Update(ctx context.Context, id string, in *models.ShopInput) error {
	ctx, span := util.StartSpan(ctx, "ShopService.Update")
	defer span.End()

	if err := ValidateShop(in, true); err != nil {
		util.ValidationFailuresTotal.WithLabelValues(models.CollectionShops).Inc()
		return err
	}

	patch, err := toRecord(in)
	if err != nil {
		return err
	}
	patch["updatedBy"] = s.session.Actor(ctx)

	if err := s.store.Update(ctx, models.CollectionShops, id, patch); err != nil {
		return err
	}

	util.EntitiesUpdatedTotal.WithLabelValues(models.CollectionShops).Inc()
	s.publishMutation(ctx, models.EventTypeEntityUpdated, models.CollectionShops, id)
	return nil
}

// Delete soft-deletes a shop. It refuses while any active product still
// references the shop; soft-deleted products do not block, since soft
// deletion never removes rows and would otherwise pin the shop forever.
func (s *ShopService) Delete(ctx context.Context, id string) error {
	ctx, span := util.StartSpan(ctx, "ShopService.Delete")
	defer span.End()

	products, err := s.store.Query(ctx, models.CollectionProducts,
		store.Filters{"shopId": id, "status": models.StatusActive})
	if err != nil {
		return fmt.Errorf("failed to check shop products: %w", err)
	}
	if len(products) > 0 {
		util.ConflictsTotal.WithLabelValues(models.CollectionShops).Inc()
		return errs.NewConflict("cannot delete shop with %d product(s); delete the products first", len(products))
	}

	if err := s.store.Update(ctx, models.CollectionShops, id, s.softDeletePatch(ctx)); err != nil {
		return err
	}

	util.EntitiesDeletedTotal.WithLabelValues(models.CollectionShops).Inc()
	s.logger.Info("Shop deleted", zap.String("shop_id", id))
	s.publishMutation(ctx, models.EventTypeEntityDeleted, models.CollectionShops, id)
	return nil
}

// Search matches a case-insensitive substring against shop name,
// description, category and contact email. A blank query returns the
// filter-applied set unchanged.
func (s *ShopService) Search(ctx context.Context, query string, opts ListOptions) ([]models.Shop, error) {
	ctx, span := util.StartSpan(ctx, "ShopService.Search")
	defer span.End()
	defer s.observeQuery(models.CollectionShops, "search", time.Now())
	util.SearchesTotal.WithLabelValues(models.CollectionShops).Inc()

	shops, err := s.GetAll(ctx, opts)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return shops, nil
	}

	matched := make([]models.Shop, 0, len(shops))
	for _, shop := range shops {
		if containsFold(shop.Name, q) ||
			containsFold(shop.Description, q) ||
			containsFold(shop.Category, q) ||
			(shop.Contact != nil && containsFold(shop.Contact.Email, q)) {
			matched = append(matched, shop)
		}
	}
	return matched, nil
}

// ShopAggregate is a live roll-up of one shop's products and offers.
type ShopAggregate struct {
	ShopID        string  `json:"shopId"`
	ProductCount  int     `json:"productCount"`
	OfferCount    int     `json:"offerCount"`
	TotalStock    int     `json:"totalStock"`
	AveragePrice  float64 `json:"averagePrice"`
	AverageRating float64 `json:"averageRating"`
	Views         int64   `json:"views"`
}

// Stats recomputes the shop aggregate on every call; nothing is cached.
func (s *ShopService) Stats(ctx context.Context, id string) (*ShopAggregate, error) {
	ctx, span := util.StartSpan(ctx, "ShopService.Stats")
	defer span.End()
	defer s.observeQuery(models.CollectionShops, "stats", time.Now())

	rec, err := s.store.Get(ctx, models.CollectionShops, id)
	if err != nil {
		return nil, err
	}
	var shop models.Shop
	if err := decodeRecord(rec, &shop); err != nil {
		return nil, err
	}

	productRecs, err := s.store.Query(ctx, models.CollectionProducts,
		store.Filters{"shopId": id, "status": models.StatusActive})
	if err != nil {
		return nil, err
	}
	offerRecs, err := s.store.Query(ctx, models.CollectionOffers,
		store.Filters{"shopId": id, "status": models.StatusActive})
	if err != nil {
		return nil, err
	}

	agg := &ShopAggregate{
		ShopID:     id,
		OfferCount: len(offerRecs),
		Views:      shop.Stats.Views,
	}

	var priceSum, ratingSum float64
	var rated int
	for _, pr := range productRecs {
		var product models.Product
		if err := decodeRecord(pr, &product); err != nil {
			return nil, err
		}
		agg.ProductCount++
		agg.TotalStock += product.Stock
		priceSum += product.Price
		if product.Stats.Rating > 0 {
			ratingSum += product.Stats.Rating
			rated++
		}
	}
	if agg.ProductCount > 0 {
		agg.AveragePrice = priceSum / float64(agg.ProductCount)
	}
	if rated > 0 {
		agg.AverageRating = ratingSum / float64(rated)
	}
	return agg, nil
}
