package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/WipeGod/supermall-catalog/internal/models"
	"github.com/WipeGod/supermall-catalog/internal/session"
	"github.com/WipeGod/supermall-catalog/internal/store"
)

// services bundles one isolated catalog over a file-backed store.
type services struct {
	shops      *ShopService
	products   *ProductService
	offers     *OfferService
	categories *CategoryService
	gateway    store.Gateway
}

func newTestServices(t *testing.T) *services {
	t.Helper()

	gw, err := store.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	sess := session.New("tester", "admin")
	return &services{
		shops:      NewShopService(gw, sess, nil),
		products:   NewProductService(gw, sess, nil, nil),
		offers:     NewOfferService(gw, sess, nil),
		categories: NewCategoryService(gw, sess, nil),
		gateway:    gw,
	}
}

func strPtr(s string) *string        { return &s }
func intPtr(i int) *int              { return &i }
func floatPtr(f float64) *float64    { return &f }
func timePtr(t time.Time) *time.Time { return &t }

func mustCreateShop(t *testing.T, svc *ShopService, name string) string {
	t.Helper()
	id, err := svc.Create(context.Background(), &models.ShopInput{
		Name:        strPtr(name),
		Description: strPtr("A perfectly described shop"),
		Category:    strPtr("general"),
		Floor:       intPtr(1),
	})
	require.NoError(t, err)
	return id
}

func mustCreateProduct(t *testing.T, svc *ProductService, in models.ProductInput) string {
	t.Helper()
	if in.Name == nil {
		in.Name = strPtr("Test Product")
	}
	if in.Description == nil {
		in.Description = strPtr("A perfectly described product")
	}
	if in.Price == nil {
		in.Price = floatPtr(10)
	}
	if in.ShopID == nil {
		in.ShopID = strPtr("shop-1")
	}
	id, err := svc.Create(context.Background(), &in)
	require.NoError(t, err)
	return id
}

func mustCreateOffer(t *testing.T, svc *OfferService, in models.OfferInput) string {
	t.Helper()
	if in.Title == nil {
		in.Title = strPtr("Test Offer")
	}
	if in.Description == nil {
		in.Description = strPtr("A perfectly described offer")
	}
	if in.Discount == nil {
		in.Discount = floatPtr(10)
	}
	if in.ShopID == nil {
		in.ShopID = strPtr("shop-1")
	}
	if in.ValidFrom == nil {
		in.ValidFrom = timePtr(time.Now().Add(-time.Hour))
	}
	if in.ValidTo == nil {
		in.ValidTo = timePtr(time.Now().Add(24 * time.Hour))
	}
	id, err := svc.Create(context.Background(), &in)
	require.NoError(t, err)
	return id
}
