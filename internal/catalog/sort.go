package catalog

import (
	"sort"
	"strings"

	"github.com/WipeGod/supermall-catalog/internal/models"
)

// Sort keys accepted by the list and search operations. Unknown keys
// fall back to the entity's default ordering.
const (
	SortName         = "name"
	SortCategory     = "category"
	SortFloor        = "floor"
	SortNewest       = "newest"
	SortOldest       = "oldest"
	SortPriceLow     = "price_low"
	SortPriceHigh    = "price_high"
	SortDiscountHigh = "discount_high"
	SortDiscountLow  = "discount_low"
	SortStock        = "stock"
	SortViews        = "views"
	SortClicks       = "clicks"
	SortRating       = "rating"
	SortExpiry       = "expiry"
)

func lessFold(a, b string) bool {
	return strings.ToLower(a) < strings.ToLower(b)
}

func sortShops(shops []models.Shop, key string) {
	sort.SliceStable(shops, func(i, j int) bool {
		a, b := shops[i], shops[j]
		switch key {
		case SortCategory:
			return lessFold(a.Category, b.Category)
		case SortFloor:
			return a.Floor < b.Floor
		case SortNewest:
			return a.CreatedAt.After(b.CreatedAt)
		case SortOldest:
			return a.CreatedAt.Before(b.CreatedAt)
		case SortRating:
			return a.Stats.Rating > b.Stats.Rating
		case SortViews:
			return a.Stats.Views > b.Stats.Views
		default:
			return lessFold(a.Name, b.Name)
		}
	})
}

func sortProducts(products []models.Product, key string) {
	sort.SliceStable(products, func(i, j int) bool {
		a, b := products[i], products[j]
		switch key {
		case SortPriceLow:
			return a.Price < b.Price
		case SortPriceHigh:
			return a.Price > b.Price
		case SortCategory:
			return lessFold(a.Category, b.Category)
		case SortNewest:
			return a.CreatedAt.After(b.CreatedAt)
		case SortOldest:
			return a.CreatedAt.Before(b.CreatedAt)
		case SortStock:
			return a.Stock > b.Stock
		case SortViews:
			return a.Stats.Views > b.Stats.Views
		case SortRating:
			return a.Stats.Rating > b.Stats.Rating
		default:
			return lessFold(a.Name, b.Name)
		}
	})
}

func sortOffers(offers []models.Offer, key string) {
	sort.SliceStable(offers, func(i, j int) bool {
		a, b := offers[i], offers[j]
		switch key {
		case SortName:
			return lessFold(a.Title, b.Title)
		case SortDiscountHigh:
			return a.Discount > b.Discount
		case SortDiscountLow:
			return a.Discount < b.Discount
		case SortOldest:
			return a.CreatedAt.Before(b.CreatedAt)
		case SortExpiry:
			return a.ValidTo.Before(b.ValidTo)
		case SortViews:
			return a.Stats.Views > b.Stats.Views
		case SortClicks:
			return a.Stats.Clicks > b.Stats.Clicks
		default:
			return a.CreatedAt.After(b.CreatedAt)
		}
	})
}

func sortCategories(categories []models.Category, key string) {
	sort.SliceStable(categories, func(i, j int) bool {
		a, b := categories[i], categories[j]
		switch key {
		case SortFloor:
			return a.Floor < b.Floor
		default:
			return lessFold(a.Name, b.Name)
		}
	})
}
