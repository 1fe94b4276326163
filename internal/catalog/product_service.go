package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/WipeGod/supermall-catalog/internal/broker"
	"github.com/WipeGod/supermall-catalog/internal/errs"
	"github.com/WipeGod/supermall-catalog/internal/models"
	"github.com/WipeGod/supermall-catalog/internal/redisclient"
	"github.com/WipeGod/supermall-catalog/internal/session"
	"github.com/WipeGod/supermall-catalog/internal/store"
	"github.com/WipeGod/supermall-catalog/internal/util"
)

// Bounds on how many products one comparison may cover.
const (
	compareMin = 2
	compareMax = 4
)

// ProductService handles product catalog business logic
type ProductService struct {
	base
	trending *redisclient.Client
}

// NewProductService creates a new product service. The Redis client is
// optional; without it trending telemetry is disabled.
func NewProductService(gw store.Gateway, sess *session.Context, events *broker.EventPublisher, trending *redisclient.Client) *ProductService {
	return &ProductService{
		base: base{
			store:   gw,
			session: sess,
			events:  events,
			logger:  util.NamedLogger("products"),
		},
		trending: trending,
	}
}

// Create validates and persists a new product, returning its id.
func (s *ProductService) Create(ctx context.Context, in *models.ProductInput) (string, error) {
	ctx, span := util.StartSpan(ctx, "ProductService.Create")
	defer span.End()

	if err := ValidateProduct(in, false); err != nil {
		util.ValidationFailuresTotal.WithLabelValues(models.CollectionProducts).Inc()
		return "", err
	}

	rec, err := toRecord(in)
	if err != nil {
		return "", err
	}
	rec["status"] = models.StatusActive
	rec["stats"] = models.ProductStats{}
	rec["createdBy"] = s.session.Actor(ctx)
	if in.Stock == nil {
		rec["stock"] = 0
	}

	id, err := s.store.Create(ctx, models.CollectionProducts, rec)
	if err != nil {
		return "", fmt.Errorf("failed to create product: %w", err)
	}

	util.EntitiesCreatedTotal.WithLabelValues(models.CollectionProducts).Inc()
	s.logger.Info("Product created", zap.String("product_id", id))
	s.publishMutation(ctx, models.EventTypeEntityCreated, models.CollectionProducts, id)
	return id, nil
}

// GetAll lists products, hiding inactive ones unless asked otherwise.
func (s *ProductService) GetAll(ctx context.Context, opts ListOptions) ([]models.Product, error) {
	ctx, span := util.StartSpan(ctx, "ProductService.GetAll")
	defer span.End()
	defer s.observeQuery(models.CollectionProducts, "list", time.Now())

	recs, err := s.store.Query(ctx, models.CollectionProducts, opts.filters())
	if err != nil {
		return nil, err
	}

	products := make([]models.Product, 0, len(recs))
	for _, rec := range recs {
		var product models.Product
		if err := decodeRecord(rec, &product); err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	sortProducts(products, opts.SortBy)
	return products, nil
}

// GetByID returns one product, bumps its view counter and feeds the
// trending score. Both increments are best-effort.
func (s *ProductService) GetByID(ctx context.Context, id string) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "ProductService.GetByID")
	defer span.End()

	rec, err := s.store.Get(ctx, models.CollectionProducts, id)
	if err != nil {
		return nil, err
	}

	var product models.Product
	if err := decodeRecord(rec, &product); err != nil {
		return nil, err
	}

	patch := store.Record{"stats.views": product.Stats.Views + 1}
	if err := s.store.Update(ctx, models.CollectionProducts, id, patch); err != nil {
		util.ViewIncrementFailures.WithLabelValues(models.CollectionProducts).Inc()
		s.logger.Warn("Failed to increment product views", zap.String("product_id", id), zap.Error(err))
	} else {
		product.Stats.Views++
	}

	if s.trending != nil {
		if err := s.trending.RecordProductView(ctx, id, s.session.Actor(ctx)); err != nil {
			s.logger.Warn("Failed to record trending view", zap.String("product_id", id), zap.Error(err))
		}
	}
	return &product, nil
}

// Update applies a partial patch after re-validation.
func (s *ProductService) Update(ctx context.Context, id string, in *models.ProductInput) error {
	ctx, span := util.StartSpan(ctx, "ProductService.Update")
	defer span.End()

	if err := ValidateProduct(in, true); err != nil {
		util.ValidationFailuresTotal.WithLabelValues(models.CollectionProducts).Inc()
		return err
	}

	patch, err := toRecord(in)
	if err != nil {
		return err
	}
	patch["updatedBy"] = s.session.Actor(ctx)

	if err := s.store.Update(ctx, models.CollectionProducts, id, patch); err != nil {
		return err
	}

	util.EntitiesUpdatedTotal.WithLabelValues(models.CollectionProducts).Inc()
	s.publishMutation(ctx, models.EventTypeEntityUpdated, models.CollectionProducts, id)
	return nil
}

// Delete soft-deletes a product.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	ctx, span := util.StartSpan(ctx, "ProductService.Delete")
	defer span.End()

	if err := s.store.Update(ctx, models.CollectionProducts, id, s.softDeletePatch(ctx)); err != nil {
		return err
	}

	util.EntitiesDeletedTotal.WithLabelValues(models.CollectionProducts).Inc()
	s.logger.Info("Product deleted", zap.String("product_id", id))
	s.publishMutation(ctx, models.EventTypeEntityDeleted, models.CollectionProducts, id)
	return nil
}

// Search matches a case-insensitive substring against product name,
// description, category and specification values.
func (s *ProductService) Search(ctx context.Context, query string, opts ListOptions) ([]models.Product, error) {
	ctx, span := util.StartSpan(ctx, "ProductService.Search")
	defer span.End()
	defer s.observeQuery(models.CollectionProducts, "search", time.Now())
	util.SearchesTotal.WithLabelValues(models.CollectionProducts).Inc()

	products, err := s.GetAll(ctx, opts)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return products, nil
	}

	matched := make([]models.Product, 0, len(products))
	for _, product := range products {
		if s.productMatches(product, q) {
			matched = append(matched, product)
		}
	}
	return matched, nil
}

func (s *ProductService) productMatches(product models.Product, q string) bool {
	if containsFold(product.Name, q) ||
		containsFold(product.Description, q) ||
		containsFold(product.Category, q) {
		return true
	}
	for _, value := range product.Specifications {
		if containsFold(value, q) {
			return true
		}
	}
	return false
}

// PriceSummary summarizes prices across compared products.
type PriceSummary struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Average float64 `json:"average"`
}

// FeatureValue is one product's value for a shared specification key.
type FeatureValue struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Value       string `json:"value"`
}

// Comparison is the side-by-side view of 2-4 products.
type Comparison struct {
	Products       []models.Product          `json:"products"`
	Price          PriceSummary              `json:"price"`
	Categories     []string                  `json:"categories"`
	ShopIDs        []string                  `json:"shopIds"`
	InStock        int                       `json:"inStock"`
	OutOfStock     int                       `json:"outOfStock"`
	CommonFeatures map[string][]FeatureValue `json:"commonFeatures"`
}

// Compare builds a comparison over 2 to 4 distinct product ids.
// Duplicates are collapsed first; ids that do not resolve are dropped;
// fewer than two survivors is an argument error.
func (s *ProductService) Compare(ctx context.Context, ids []string) (*Comparison, error) {
	ctx, span := util.StartSpan(ctx, "ProductService.Compare")
	defer span.End()

	// Duplicate ids would let one product count twice in the summary.
	seen := make(map[string]bool, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	if len(unique) < compareMin || len(unique) > compareMax {
		return nil, errs.NewInvalidArgument("comparison requires between %d and %d distinct product ids, got %d",
			compareMin, compareMax, len(unique))
	}

	products := make([]models.Product, 0, len(unique))
	for _, id := range unique {
		rec, err := s.store.Get(ctx, models.CollectionProducts, id)
		if err != nil {
			var nf *errs.NotFoundError
			if errors.As(err, &nf) {
				continue
			}
			return nil, err
		}
		var product models.Product
		if err := decodeRecord(rec, &product); err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	if len(products) < compareMin {
		return nil, errs.NewInvalidArgument("comparison requires at least %d existing products, found %d",
			compareMin, len(products))
	}

	cmp := &Comparison{
		Products:       products,
		CommonFeatures: map[string][]FeatureValue{},
	}

	categories := map[string]bool{}
	shops := map[string]bool{}
	var priceSum float64
	cmp.Price.Min = products[0].Price
	cmp.Price.Max = products[0].Price

	for _, product := range products {
		priceSum += product.Price
		if product.Price < cmp.Price.Min {
			cmp.Price.Min = product.Price
		}
		if product.Price > cmp.Price.Max {
			cmp.Price.Max = product.Price
		}
		if product.Category != "" {
			categories[product.Category] = true
		}
		if product.ShopID != "" {
			shops[product.ShopID] = true
		}
		if product.Stock > 0 {
			cmp.InStock++
		} else {
			cmp.OutOfStock++
		}
	}
	cmp.Price.Average = priceSum / float64(len(products))
	cmp.Categories = sortedKeys(categories)
	cmp.ShopIDs = sortedKeys(shops)

	// Common features: specification keys present on at least two of
	// the compared products.
	keyCounts := map[string]int{}
	for _, product := range products {
		for key := range product.Specifications {
			keyCounts[key]++
		}
	}
	for key, count := range keyCounts {
		if count < 2 {
			continue
		}
		for _, product := range products {
			if value, ok := product.Specifications[key]; ok {
				cmp.CommonFeatures[key] = append(cmp.CommonFeatures[key], FeatureValue{
					ProductID:   product.ID,
					ProductName: product.Name,
					Value:       value,
				})
			}
		}
	}
	return cmp, nil
}

// Trending resolves the Redis trending scores into product records,
// skipping ids that no longer resolve or are inactive. Without a Redis
// client it returns an empty list.
func (s *ProductService) Trending(ctx context.Context, limit int) ([]models.Product, error) {
	ctx, span := util.StartSpan(ctx, "ProductService.Trending")
	defer span.End()

	if s.trending == nil {
		return []models.Product{}, nil
	}

	ids, err := s.trending.TopProducts(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read trending scores: %w", err)
	}

	products := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		rec, err := s.store.Get(ctx, models.CollectionProducts, id)
		if err != nil {
			continue
		}
		var product models.Product
		if err := decodeRecord(rec, &product); err != nil {
			continue
		}
		if product.Status == models.StatusActive {
			products = append(products, product)
		}
	}
	return products, nil
}

// RecentlyViewed resolves the actor's recently-viewed list into product
// records, newest first. Without a Redis client it returns an empty list.
func (s *ProductService) RecentlyViewed(ctx context.Context) ([]models.Product, error) {
	ctx, span := util.StartSpan(ctx, "ProductService.RecentlyViewed")
	defer span.End()

	if s.trending == nil {
		return []models.Product{}, nil
	}

	ids, err := s.trending.RecentlyViewed(ctx, s.session.Actor(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to read recently viewed list: %w", err)
	}

	products := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		rec, err := s.store.Get(ctx, models.CollectionProducts, id)
		if err != nil {
			continue
		}
		var product models.Product
		if err := decodeRecord(rec, &product); err != nil {
			continue
		}
		if product.Status == models.StatusActive {
			products = append(products, product)
		}
	}
	return products, nil
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
