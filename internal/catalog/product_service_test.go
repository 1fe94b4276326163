package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WipeGod/supermall-catalog/internal/errs"
	"github.com/WipeGod/supermall-catalog/internal/models"
	"github.com/WipeGod/supermall-catalog/internal/store"
)

func TestProductRoundTrip(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	id, err := svc.products.Create(ctx, &models.ProductInput{
		Name:        strPtr("Organic Smartphone Case"),
		Description: strPtr("Biodegradable case for most phones"),
		Price:       floatPtr(19.9),
		Category:    strPtr("electronics"),
		ShopID:      strPtr("shop-1"),
		Specifications: map[string]string{
			"material": "bamboo fiber",
		},
	})
	require.NoError(t, err)

	product, err := svc.products.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Organic Smartphone Case", product.Name)
	assert.Equal(t, 19.9, product.Price)
	assert.Equal(t, "bamboo fiber", product.Specifications["material"])
	assert.Equal(t, 0, product.Stock, "stock defaults to zero")
	assert.Equal(t, models.StatusActive, product.Status)
}

func TestProductSortPriceLow(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	mustCreateProduct(t, svc.products, models.ProductInput{Name: strPtr("Mid"), Price: floatPtr(20)})
	mustCreateProduct(t, svc.products, models.ProductInput{Name: strPtr("Cheap"), Price: floatPtr(5)})
	mustCreateProduct(t, svc.products, models.ProductInput{Name: strPtr("Pricey"), Price: floatPtr(99)})

	products, err := svc.products.GetAll(ctx, ListOptions{SortBy: SortPriceLow})
	require.NoError(t, err)
	require.Len(t, products, 3)
	for i := 1; i < len(products); i++ {
		assert.LessOrEqual(t, products[i-1].Price, products[i].Price)
	}
}

func TestProductSortNewest(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	mustCreateProduct(t, svc.products, models.ProductInput{Name: strPtr("First")})
	time.Sleep(5 * time.Millisecond)
	mustCreateProduct(t, svc.products, models.ProductInput{Name: strPtr("Second")})
	time.Sleep(5 * time.Millisecond)
	mustCreateProduct(t, svc.products, models.ProductInput{Name: strPtr("Third")})

	products, err := svc.products.GetAll(ctx, ListOptions{SortBy: SortNewest})
	require.NoError(t, err)
	require.Len(t, products, 3)
	for i := 1; i < len(products); i++ {
		assert.False(t, products[i-1].CreatedAt.Before(products[i].CreatedAt),
			"creation times must be non-increasing")
	}
	assert.Equal(t, "Third", products[0].Name)
}

func TestProductSearch(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	mustCreateProduct(t, svc.products, models.ProductInput{Name: strPtr("Organic Smartphone Case")})
	mustCreateProduct(t, svc.products, models.ProductInput{
		Name:           strPtr("Desk Lamp"),
		Specifications: map[string]string{"finish": "brushed titanium"},
	})
	mustCreateProduct(t, svc.products, models.ProductInput{Name: strPtr("Plain Notebook")})

	t.Run("case-insensitive name match", func(t *testing.T) {
		products, err := svc.products.Search(ctx, "ORGANIC", ListOptions{})
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "Organic Smartphone Case", products[0].Name)
	})

	t.Run("specification values match", func(t *testing.T) {
		products, err := svc.products.Search(ctx, "titanium", ListOptions{})
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "Desk Lamp", products[0].Name)
	})

	t.Run("no match", func(t *testing.T) {
		products, err := svc.products.Search(ctx, "quantum", ListOptions{})
		require.NoError(t, err)
		assert.Empty(t, products)
	})
}

func TestProductFilterByPriceRange(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	mustCreateProduct(t, svc.products, models.ProductInput{Name: strPtr("Cheap"), Price: floatPtr(5)})
	mustCreateProduct(t, svc.products, models.ProductInput{Name: strPtr("Mid"), Price: floatPtr(50)})
	mustCreateProduct(t, svc.products, models.ProductInput{Name: strPtr("Pricey"), Price: floatPtr(500)})

	min, max := 10.0, 100.0
	pr := store.PriceRange{Min: &min, Max: &max}
	products, err := svc.products.GetAll(ctx, ListOptions{PriceRange: &pr})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Mid", products[0].Name)
}

func TestCompareBounds(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	a := mustCreateProduct(t, svc.products, models.ProductInput{Name: strPtr("A")})

	var invalid *errs.InvalidArgumentError

	_, err := svc.products.Compare(ctx, []string{a})
	assert.ErrorAs(t, err, &invalid, "one id is too few")

	_, err = svc.products.Compare(ctx, []string{"1", "2", "3", "4", "5"})
	assert.ErrorAs(t, err, &invalid, "five ids are too many")

	_, err = svc.products.Compare(ctx, []string{a, "missing"})
	assert.ErrorAs(t, err, &invalid, "fewer than two ids resolve")
}

func TestCompareDeduplicatesIDs(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	a := mustCreateProduct(t, svc.products, models.ProductInput{Name: strPtr("A"), Price: floatPtr(10)})
	b := mustCreateProduct(t, svc.products, models.ProductInput{Name: strPtr("B"), Price: floatPtr(30)})

	var invalid *errs.InvalidArgumentError
	_, err := svc.products.Compare(ctx, []string{a, a})
	assert.ErrorAs(t, err, &invalid, "a repeated id is still just one product")

	cmp, err := svc.products.Compare(ctx, []string{a, a, b})
	require.NoError(t, err)
	require.Len(t, cmp.Products, 2)
	assert.InDelta(t, 20.0, cmp.Price.Average, 1e-9, "the duplicate must not skew the average")
}

func TestCompareProducts(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	a := mustCreateProduct(t, svc.products, models.ProductInput{
		Name:     strPtr("Case A"),
		Price:    floatPtr(10),
		Category: strPtr("electronics"),
		ShopID:   strPtr("shop-1"),
		Stock:    intPtr(4),
		Specifications: map[string]string{
			"material": "bamboo",
			"weight":   "30g",
		},
	})
	b := mustCreateProduct(t, svc.products, models.ProductInput{
		Name:     strPtr("Case B"),
		Price:    floatPtr(30),
		Category: strPtr("accessories"),
		ShopID:   strPtr("shop-2"),
		Stock:    intPtr(0),
		Specifications: map[string]string{
			"material": "silicone",
			"grip":     "textured",
		},
	})

	cmp, err := svc.products.Compare(ctx, []string{a, b})
	require.NoError(t, err)

	assert.Equal(t, 10.0, cmp.Price.Min)
	assert.Equal(t, 30.0, cmp.Price.Max)
	assert.InDelta(t, 20.0, cmp.Price.Average, 1e-9)
	assert.Equal(t, []string{"accessories", "electronics"}, cmp.Categories)
	assert.Equal(t, []string{"shop-1", "shop-2"}, cmp.ShopIDs)
	assert.Equal(t, 1, cmp.InStock)
	assert.Equal(t, 1, cmp.OutOfStock)

	// material is on both products; weight and grip only on one each.
	require.Contains(t, cmp.CommonFeatures, "material")
	assert.Len(t, cmp.CommonFeatures["material"], 2)
	assert.NotContains(t, cmp.CommonFeatures, "weight")
	assert.NotContains(t, cmp.CommonFeatures, "grip")
}

func TestTrendingWithoutRedis(t *testing.T) {
	svc := newTestServices(t)

	products, err := svc.products.Trending(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestRecentlyViewedWithoutRedis(t *testing.T) {
	svc := newTestServices(t)

	products, err := svc.products.RecentlyViewed(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products)
}
