package catalog

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/WipeGod/supermall-catalog/internal/broker"
	"github.com/WipeGod/supermall-catalog/internal/models"
	"github.com/WipeGod/supermall-catalog/internal/session"
	"github.com/WipeGod/supermall-catalog/internal/store"
	"github.com/WipeGod/supermall-catalog/internal/util"
)

// CategoryService handles browse-category business logic. Categories
// carry no view telemetry, so reads have no side effects.
type CategoryService struct {
	base
}

// NewCategoryService creates a new category service
func NewCategoryService(gw store.Gateway, sess *session.Context, events *broker.EventPublisher) *CategoryService {
	return &CategoryService{base{
		store:   gw,
		session: sess,
		events:  events,
		logger:  util.NamedLogger("categories"),
	}}
}

// Create validates and persists a new category, returning its id.
func (s *CategoryService) Create(ctx context.Context, in *models.CategoryInput) (string, error) {
	ctx, span := util.StartSpan(ctx, "CategoryService.Create")
	defer span.End()

	if err := ValidateCategory(in, false); err != nil {
		util.ValidationFailuresTotal.WithLabelValues(models.CollectionCategories).Inc()
		return "", err
	}

	rec, err := toRecord(in)
	if err != nil {
		return "", err
	}
	rec["status"] = models.StatusActive
	rec["createdBy"] = s.session.Actor(ctx)

	id, err := s.store.Create(ctx, models.CollectionCategories, rec)
	if err != nil {
		return "", fmt.Errorf("failed to create category: %w", err)
	}

	util.EntitiesCreatedTotal.WithLabelValues(models.CollectionCategories).Inc()
	s.logger.Info("Category created", zap.String("category_id", id))
	s.publishMutation(ctx, models.EventTypeEntityCreated, models.CollectionCategories, id)
	return id, nil
}

// GetAll lists categories, hiding inactive ones unless asked otherwise.
func (s *CategoryService) GetAll(ctx context.Context, opts ListOptions) ([]models.Category, error) {
	ctx, span := util.StartSpan(ctx, "CategoryService.GetAll")
	defer span.End()
	defer s.observeQuery(models.CollectionCategories, "list", time.Now())

	filters := store.Filters{}
	if !opts.IncludeInactive {
		filters["status"] = models.StatusActive
	}
	if opts.Floor > 0 {
		filters["floor"] = opts.Floor
	}

	recs, err := s.store.Query(ctx, models.CollectionCategories, filters)
	if err != nil {
		return nil, err
	}

	categories := make([]models.Category, 0, len(recs))
	for _, rec := range recs {
		var category models.Category
		if err := decodeRecord(rec, &category); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}

	sortCategories(categories, opts.SortBy)
	return categories, nil
}

// GetByID returns one category.
func (s *CategoryService) GetByID(ctx context.Context, id string) (*models.Category, error) {
	ctx, span := util.StartSpan(ctx, "CategoryService.GetByID")
	defer span.End()

	rec, err := s.store.Get(ctx, models.CollectionCategories, id)
	if err != nil {
		return nil, err
	}

	var category models.Category
	if err := decodeRecord(rec, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// Update applies a partial patch after re-validation.
func (s *CategoryService) Update(ctx context.Context, id string, in *models.CategoryInput) error {
	ctx, span := util.StartSpan(ctx, "CategoryService.Update")
	defer span.End()

	if err := ValidateCategory(in, true); err != nil {
		util.ValidationFailuresTotal.WithLabelValues(models.CollectionCategories).Inc()
		return err
	}

	patch, err := toRecord(in)
	if err != nil {
		return err
	}
	patch["updatedBy"] = s.session.Actor(ctx)

	if err := s.store.Update(ctx, models.CollectionCategories, id, patch); err != nil {
		return err
	}

	util.EntitiesUpdatedTotal.WithLabelValues(models.CollectionCategories).Inc()
	s.publishMutation(ctx, models.EventTypeEntityUpdated, models.CollectionCategories, id)
	return nil
}

// Delete soft-deletes a category. Shops keep their category string;
// browse surfaces simply stop listing the category.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	ctx, span := util.StartSpan(ctx, "CategoryService.Delete")
	defer span.End()

	if err := s.store.Update(ctx, models.CollectionCategories, id, s.softDeletePatch(ctx)); err != nil {
		return err
	}

	util.EntitiesDeletedTotal.WithLabelValues(models.CollectionCategories).Inc()
	s.logger.Info("Category deleted", zap.String("category_id", id))
	s.publishMutation(ctx, models.EventTypeEntityDeleted, models.CollectionCategories, id)
	return nil
}
