// Command seed loads a small demo data set through the catalog services
// so a fresh instance has something to browse.
package main

import (
	"context"
	"log"
	"time"

	"github.com/WipeGod/supermall-catalog/config"
	"github.com/WipeGod/supermall-catalog/internal/catalog"
	"github.com/WipeGod/supermall-catalog/internal/models"
	"github.com/WipeGod/supermall-catalog/internal/session"
	"github.com/WipeGod/supermall-catalog/internal/store"
	"github.com/WipeGod/supermall-catalog/internal/util"
)

func strPtr(s string) *string        { return &s }
func intPtr(i int) *int              { return &i }
func floatPtr(f float64) *float64    { return &f }
func timePtr(t time.Time) *time.Time { return &t }

func main() {
	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	gateway, err := store.Open(cfg.Database.URL, cfg.Storage.DataDir)
	if err != nil {
		log.Fatalf("Failed to open document store: %v", err)
	}
	defer gateway.Close()

	sess := session.New("seeder", "admin")
	shops := catalog.NewShopService(gateway, sess, nil)
	products := catalog.NewProductService(gateway, sess, nil, nil)
	offers := catalog.NewOfferService(gateway, sess, nil)
	categories := catalog.NewCategoryService(gateway, sess, nil)

	ctx := context.Background()

	if _, err := categories.Create(ctx, &models.CategoryInput{
		Name:        strPtr("Electronics"),
		Description: strPtr("Phones, laptops and accessories"),
		Floor:       intPtr(2),
		Icon:        strPtr("devices"),
	}); err != nil {
		log.Fatalf("Failed to seed category: %v", err)
	}

	shopID, err := shops.Create(ctx, &models.ShopInput{
		Name:        strPtr("Tech Corner"),
		Description: strPtr("Gadgets and accessories for everyone"),
		Category:    strPtr("electronics"),
		Floor:       intPtr(2),
		Contact:     &models.Contact{Email: "hello@techcorner.example", Phone: "+1 (555) 010-2030"},
	})
	if err != nil {
		log.Fatalf("Failed to seed shop: %v", err)
	}

	productID, err := products.Create(ctx, &models.ProductInput{
		Name:        strPtr("Organic Smartphone Case"),
		Description: strPtr("Biodegradable case for most phone models"),
		Price:       floatPtr(19.9),
		Category:    strPtr("electronics"),
		ShopID:      strPtr(shopID),
		Stock:       intPtr(40),
		Specifications: map[string]string{
			"material": "bamboo fiber",
			"color":    "sand",
		},
	})
	if err != nil {
		log.Fatalf("Failed to seed product: %v", err)
	}

	if _, err := offers.Create(ctx, &models.OfferInput{
		Title:       strPtr("Grand opening discount"),
		Description: strPtr("Launch week savings on accessories"),
		Discount:    floatPtr(25),
		ShopID:      strPtr(shopID),
		ProductIDs:  []string{productID},
		ValidFrom:   timePtr(time.Now()),
		ValidTo:     timePtr(time.Now().AddDate(0, 0, 14)),
	}); err != nil {
		log.Fatalf("Failed to seed offer: %v", err)
	}

	log.Printf("Seeded demo catalog: shop=%s product=%s", shopID, productID)
}
