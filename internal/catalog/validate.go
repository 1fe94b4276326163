package catalog

import (
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/WipeGod/supermall-catalog/internal/errs"
	"github.com/WipeGod/supermall-catalog/internal/models"
)

// Validators are pure functions, one per entity kind. Required fields
// are enforced only on create; updates may be partial. Validation fails
// fast: the first violated rule wins.

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9]{1,16}$`)
)

const (
	minShopNameLen     = 2
	minProductNameLen  = 2
	minOfferTitleLen   = 3
	minDescriptionLen  = 10
	minFloor, maxFloor = 1, 10
)

// ValidateShop checks a shop write. Contact fields are format-checked
// whenever present, on create and update alike.
func ValidateShop(in *models.ShopInput, isUpdate bool) error {
	if !isUpdate {
		if in.Name == nil {
			return errs.NewValidation("name", "name is required")
		}
		if in.Description == nil {
			return errs.NewValidation("description", "description is required")
		}
		if in.Floor == nil {
			return errs.NewValidation("floor", "floor is required")
		}
	}

	if in.Name != nil && len(strings.TrimSpace(*in.Name)) < minShopNameLen {
		return errs.NewValidation("name", "name must be at least %d characters", minShopNameLen)
	}
	if in.Description != nil && len(strings.TrimSpace(*in.Description)) < minDescriptionLen {
		return errs.NewValidation("description", "description must be at least %d characters", minDescriptionLen)
	}
	if in.Floor != nil && (*in.Floor < minFloor || *in.Floor > maxFloor) {
		return errs.NewValidation("floor", "floor must be between %d and %d", minFloor, maxFloor)
	}

	if in.Contact != nil {
		if in.Contact.Email != "" && !emailPattern.MatchString(in.Contact.Email) {
			return errs.NewValidation("contact.email", "invalid email address")
		}
		if in.Contact.Phone != "" && !validPhone(in.Contact.Phone) {
			return errs.NewValidation("contact.phone", "invalid phone number")
		}
	}
	return nil
}

// ValidateProduct checks a product write.
func ValidateProduct(in *models.ProductInput, isUpdate bool) error {
	if !isUpdate {
		if in.Name == nil {
			return errs.NewValidation("name", "name is required")
		}
		if in.Description == nil {
			return errs.NewValidation("description", "description is required")
		}
		if in.Price == nil {
			return errs.NewValidation("price", "price is required")
		}
		if in.ShopID == nil || *in.ShopID == "" {
			return errs.NewValidation("shopId", "shopId is required")
		}
	}

	if in.Name != nil && len(strings.TrimSpace(*in.Name)) < minProductNameLen {
		return errs.NewValidation("name", "name must be at least %d characters", minProductNameLen)
	}
	if in.Description != nil && len(strings.TrimSpace(*in.Description)) < minDescriptionLen {
		return errs.NewValidation("description", "description must be at least %d characters", minDescriptionLen)
	}
	if in.Price != nil && (math.IsNaN(*in.Price) || *in.Price < 0) {
		return errs.NewValidation("price", "price must be a non-negative number")
	}
	if in.Stock != nil && *in.Stock < 0 {
		return errs.NewValidation("stock", "stock must be a non-negative integer")
	}
	return nil
}

// ValidateOffer checks an offer write. The validity window ordering is
// checked only when both bounds are present in the input, and the
// future-expiry rule applies only on create; a partial update touching
// just validTo is accepted without rechecking the stored validFrom.
func ValidateOffer(in *models.OfferInput, isUpdate bool) error {
	if !isUpdate {
		if in.Title == nil {
			return errs.NewValidation("title", "title is required")
		}
		if in.Description == nil {
			return errs.NewValidation("description", "description is required")
		}
		if in.Discount == nil {
			return errs.NewValidation("discount", "discount is required")
		}
		if in.ShopID == nil || *in.ShopID == "" {
			return errs.NewValidation("shopId", "shopId is required")
		}
		if in.ValidFrom == nil {
			return errs.NewValidation("validFrom", "validFrom is required")
		}
		if in.ValidTo == nil {
			return errs.NewValidation("validTo", "validTo is required")
		}
	}

	if in.Title != nil && len(strings.TrimSpace(*in.Title)) < minOfferTitleLen {
		return errs.NewValidation("title", "title must be at least %d characters", minOfferTitleLen)
	}
	if in.Description != nil && len(strings.TrimSpace(*in.Description)) < minDescriptionLen {
		return errs.NewValidation("description", "description must be at least %d characters", minDescriptionLen)
	}
	if in.Discount != nil && (math.IsNaN(*in.Discount) || *in.Discount < 0 || *in.Discount > 100) {
		return errs.NewValidation("discount", "discount must be between 0 and 100")
	}

	if in.ValidFrom != nil && in.ValidTo != nil && !in.ValidFrom.Before(*in.ValidTo) {
		return errs.NewValidation("validFrom", "validFrom must be before validTo")
	}
	if !isUpdate && in.ValidTo != nil && !in.ValidTo.After(time.Now()) {
		return errs.NewValidation("validTo", "validTo must be in the future")
	}
	return nil
}

// ValidateCategory checks a category write.
func ValidateCategory(in *models.CategoryInput, isUpdate bool) error {
	if !isUpdate && in.Name == nil {
		return errs.NewValidation("name", "name is required")
	}
	if in.Name != nil && len(strings.TrimSpace(*in.Name)) < minShopNameLen {
		return errs.NewValidation("name", "name must be at least %d characters", minShopNameLen)
	}
	if in.Floor != nil && (*in.Floor < minFloor || *in.Floor > maxFloor) {
		return errs.NewValidation("floor", "floor must be between %d and %d", minFloor, maxFloor)
	}
	return nil
}

// validPhone accepts an optional leading + followed by 1-16 digits,
// ignoring spaces, hyphens and parentheses.
func validPhone(phone string) bool {
	stripped := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(phone)
	return phonePattern.MatchString(stripped)
}
