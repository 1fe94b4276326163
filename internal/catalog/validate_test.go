package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WipeGod/supermall-catalog/internal/errs"
	"github.com/WipeGod/supermall-catalog/internal/models"
)

func assertValidationField(t *testing.T, err error, field string) {
	t.Helper()
	var ve *errs.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, field, ve.Field)
}

func TestValidateShop(t *testing.T) {
	valid := func() *models.ShopInput {
		return &models.ShopInput{
			Name:        strPtr("Tech Corner"),
			Description: strPtr("Gadgets for everyone"),
			Floor:       intPtr(3),
		}
	}

	t.Run("valid create", func(t *testing.T) {
		assert.NoError(t, ValidateShop(valid(), false))
	})

	t.Run("missing name on create", func(t *testing.T) {
		in := valid()
		in.Name = nil
		assertValidationField(t, ValidateShop(in, false), "name")
	})

	t.Run("missing name allowed on update", func(t *testing.T) {
		assert.NoError(t, ValidateShop(&models.ShopInput{Floor: intPtr(5)}, true))
	})

	t.Run("short name", func(t *testing.T) {
		in := valid()
		in.Name = strPtr(" a ")
		assertValidationField(t, ValidateShop(in, false), "name")
	})

	t.Run("short description", func(t *testing.T) {
		in := valid()
		in.Description = strPtr("too short")
		assertValidationField(t, ValidateShop(in, false), "description")
	})

	t.Run("floor bounds", func(t *testing.T) {
		for _, floor := range []int{0, 11, -2} {
			in := valid()
			in.Floor = intPtr(floor)
			assertValidationField(t, ValidateShop(in, false), "floor")
		}
		for _, floor := range []int{1, 10} {
			in := valid()
			in.Floor = intPtr(floor)
			assert.NoError(t, ValidateShop(in, false))
		}
	})

	t.Run("contact email", func(t *testing.T) {
		in := valid()
		in.Contact = &models.Contact{Email: "not-an-email"}
		assertValidationField(t, ValidateShop(in, false), "contact.email")

		in.Contact = &models.Contact{Email: "owner@mall.example"}
		assert.NoError(t, ValidateShop(in, false))
	})

	t.Run("contact phone", func(t *testing.T) {
		in := valid()
		in.Contact = &models.Contact{Phone: "+1 (555) 010-2030"}
		assert.NoError(t, ValidateShop(in, false))

		in.Contact = &models.Contact{Phone: "call me"}
		assertValidationField(t, ValidateShop(in, true), "contact.phone")
	})
}

func TestValidateProduct(t *testing.T) {
	valid := func() *models.ProductInput {
		return &models.ProductInput{
			Name:        strPtr("Mug"),
			Description: strPtr("A ceramic mug, 330ml"),
			Price:       floatPtr(9.5),
			ShopID:      strPtr("shop-1"),
		}
	}

	t.Run("valid create", func(t *testing.T) {
		assert.NoError(t, ValidateProduct(valid(), false))
	})

	t.Run("negative price", func(t *testing.T) {
		in := valid()
		in.Price = floatPtr(-0.01)
		assertValidationField(t, ValidateProduct(in, false), "price")
	})

	t.Run("zero price is allowed", func(t *testing.T) {
		in := valid()
		in.Price = floatPtr(0)
		assert.NoError(t, ValidateProduct(in, false))
	})

	t.Run("missing shop on create", func(t *testing.T) {
		in := valid()
		in.ShopID = nil
		assertValidationField(t, ValidateProduct(in, false), "shopId")
	})

	t.Run("negative stock", func(t *testing.T) {
		in := valid()
		in.Stock = intPtr(-1)
		assertValidationField(t, ValidateProduct(in, true), "stock")
	})
}

func TestValidateOffer(t *testing.T) {
	valid := func() *models.OfferInput {
		return &models.OfferInput{
			Title:       strPtr("Sale"),
			Description: strPtr("Everything must go"),
			Discount:    floatPtr(25),
			ShopID:      strPtr("shop-1"),
			ValidFrom:   timePtr(time.Now()),
			ValidTo:     timePtr(time.Now().Add(48 * time.Hour)),
		}
	}

	t.Run("discount boundaries", func(t *testing.T) {
		in := valid()
		in.Discount = floatPtr(100)
		assert.NoError(t, ValidateOffer(in, false))

		in.Discount = floatPtr(0)
		assert.NoError(t, ValidateOffer(in, false))

		in.Discount = floatPtr(101)
		assertValidationField(t, ValidateOffer(in, false), "discount")

		in.Discount = floatPtr(-1)
		assertValidationField(t, ValidateOffer(in, false), "discount")
	})

	t.Run("window ordering", func(t *testing.T) {
		in := valid()
		in.ValidFrom = timePtr(time.Now().Add(72 * time.Hour))
		assertValidationField(t, ValidateOffer(in, false), "validFrom")
	})

	t.Run("past expiry rejected on create", func(t *testing.T) {
		in := valid()
		in.ValidFrom = timePtr(time.Now().Add(-48 * time.Hour))
		in.ValidTo = timePtr(time.Now().Add(-24 * time.Hour))
		assertValidationField(t, ValidateOffer(in, false), "validTo")
	})

	// Pins the update semantics: a patch touching only validTo is not
	// rechecked against the stored validFrom, and past expiries are
	// allowed when updating.
	t.Run("partial update skips window checks", func(t *testing.T) {
		in := &models.OfferInput{ValidTo: timePtr(time.Now().Add(-time.Hour))}
		assert.NoError(t, ValidateOffer(in, true))
	})

	t.Run("update with both bounds still checks ordering", func(t *testing.T) {
		in := &models.OfferInput{
			ValidFrom: timePtr(time.Now().Add(time.Hour)),
			ValidTo:   timePtr(time.Now()),
		}
		assertValidationField(t, ValidateOffer(in, true), "validFrom")
	})

	t.Run("short title", func(t *testing.T) {
		in := valid()
		in.Title = strPtr("ab")
		assertValidationField(t, ValidateOffer(in, false), "title")
	})
}

func TestValidateCategory(t *testing.T) {
	assert.NoError(t, ValidateCategory(&models.CategoryInput{Name: strPtr("Food")}, false))
	assertValidationField(t, ValidateCategory(&models.CategoryInput{}, false), "name")
	assertValidationField(t, ValidateCategory(&models.CategoryInput{
		Name:  strPtr("Food"),
		Floor: intPtr(12),
	}, false), "floor")
}
