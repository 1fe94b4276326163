package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WipeGod/supermall-catalog/internal/models"
)

func TestCategoryLifecycle(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	id, err := svc.categories.Create(ctx, &models.CategoryInput{
		Name:  strPtr("Electronics"),
		Floor: intPtr(2),
		Icon:  strPtr("devices"),
	})
	require.NoError(t, err)

	category, err := svc.categories.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Electronics", category.Name)
	assert.Equal(t, models.StatusActive, category.Status)

	require.NoError(t, svc.categories.Update(ctx, id, &models.CategoryInput{
		Description: strPtr("Phones and laptops"),
	}))

	category, err = svc.categories.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Phones and laptops", category.Description)
	assert.Equal(t, "Electronics", category.Name)

	require.NoError(t, svc.categories.Delete(ctx, id))

	listed, err := svc.categories.GetAll(ctx, ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, listed)

	listed, err = svc.categories.GetAll(ctx, ListOptions{IncludeInactive: true})
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestCategorySortedByName(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	for _, name := range []string{"Home", "Apparel", "Food"} {
		_, err := svc.categories.Create(ctx, &models.CategoryInput{Name: strPtr(name)})
		require.NoError(t, err)
	}

	listed, err := svc.categories.GetAll(ctx, ListOptions{})
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, "Apparel", listed[0].Name)
	assert.Equal(t, "Food", listed[1].Name)
	assert.Equal(t, "Home", listed[2].Name)
}
