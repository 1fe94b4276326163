package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/WipeGod/supermall-catalog/internal/catalog"
	"github.com/WipeGod/supermall-catalog/internal/errs"
	"github.com/WipeGod/supermall-catalog/internal/models"
	"github.com/WipeGod/supermall-catalog/internal/session"
	"github.com/WipeGod/supermall-catalog/internal/store"
	"github.com/WipeGod/supermall-catalog/internal/util"
)

// Handler contains HTTP handlers
type Handler struct {
	shops      *catalog.ShopService
	products   *catalog.ProductService
	offers     *catalog.OfferService
	categories *catalog.CategoryService
}

// NewHandler creates a new HTTP handler
func NewHandler(
	shops *catalog.ShopService,
	products *catalog.ProductService,
	offers *catalog.OfferService,
	categories *catalog.CategoryService,
) *Handler {
	return &Handler{
		shops:      shops,
		products:   products,
		offers:     offers,
		categories: categories,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(actorMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/shops", h.createShop)
		v1.GET("/shops", h.listShops)
		v1.GET("/shops/search", h.searchShops)
		v1.GET("/shops/:id", h.getShop)
		v1.PUT("/shops/:id", h.updateShop)
		v1.DELETE("/shops/:id", h.deleteShop)
		v1.GET("/shops/:id/stats", h.shopStats)

		v1.POST("/products", h.createProduct)
		v1.GET("/products", h.listProducts)
		v1.GET("/products/search", h.searchProducts)
		v1.GET("/products/trending", h.trendingProducts)
		v1.GET("/products/recently-viewed", h.recentlyViewedProducts)
		v1.POST("/products/compare", h.compareProducts)
		v1.GET("/products/:id", h.getProduct)
		v1.PUT("/products/:id", h.updateProduct)
		v1.DELETE("/products/:id", h.deleteProduct)

		v1.POST("/offers", h.createOffer)
		v1.GET("/offers", h.listOffers)
		v1.GET("/offers/search", h.searchOffers)
		v1.GET("/offers/expiring", h.expiringOffers)
		v1.GET("/offers/expired", h.expiredOffers)
		v1.GET("/offers/:id", h.getOffer)
		v1.PUT("/offers/:id", h.updateOffer)
		v1.DELETE("/offers/:id", h.deleteOffer)
		v1.POST("/offers/:id/click", h.clickOffer)
		v1.POST("/offers/:id/conversion", h.convertOffer)

		v1.POST("/categories", h.createCategory)
		v1.GET("/categories", h.listCategories)
		v1.GET("/categories/:id", h.getCategory)
		v1.PUT("/categories/:id", h.updateCategory)
		v1.DELETE("/categories/:id", h.deleteCategory)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// listOptions reads the shared filter/sort query parameters.
func listOptions(c *gin.Context) catalog.ListOptions {
	opts := catalog.ListOptions{
		Category:        c.Query("category"),
		ShopID:          c.Query("shopId"),
		SortBy:          c.Query("sortBy"),
		IncludeInactive: c.Query("includeInactive") == "true",
		IncludeExpired:  c.Query("includeExpired") == "true",
	}
	if floor, err := strconv.Atoi(c.Query("floor")); err == nil {
		opts.Floor = floor
	}

	var pr store.PriceRange
	if min, err := strconv.ParseFloat(c.Query("minPrice"), 64); err == nil {
		pr.Min = &min
	}
	if max, err := strconv.ParseFloat(c.Query("maxPrice"), 64); err == nil {
		pr.Max = &max
	}
	if pr.Min != nil || pr.Max != nil {
		opts.PriceRange = &pr
	}
	return opts
}

// writeError maps the error taxonomy onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	var (
		validation *errs.ValidationError
		notFound   *errs.NotFoundError
		conflict   *errs.ConflictError
		invalidArg *errs.InvalidArgumentError
	)

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Message, "field": validation.Field})
	case errors.As(err, &invalidArg):
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidArg.Message})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{"error": conflict.Message})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error", "details": err.Error()})
	}
}

// --- shops ---

func (h *Handler) createShop(c *gin.Context) {
	var in models.ShopInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	id, err := h.shops.Create(c.Request.Context(), &in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *Handler) listShops(c *gin.Context) {
	shops, err := h.shops.GetAll(c.Request.Context(), listOptions(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shops": shops})
}

func (h *Handler) searchShops(c *gin.Context) {
	shops, err := h.shops.Search(c.Request.Context(), c.Query("q"), listOptions(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shops": shops})
}

func (h *Handler) getShop(c *gin.Context) {
	shop, err := h.shops.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, shop)
}

func (h *Handler) updateShop(c *gin.Context) {
	var in models.ShopInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if err := h.shops.Update(c.Request.Context(), c.Param("id"), &in); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) deleteShop(c *gin.Context) {
	if err := h.shops.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) shopStats(c *gin.Context) {
	stats, err := h.shops.Stats(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// --- products ---

func (h *Handler) createProduct(c *gin.Context) {
	var in models.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	id, err := h.products.Create(c.Request.Context(), &in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *Handler) listProducts(c *gin.Context) {
	products, err := h.products.GetAll(c.Request.Context(), listOptions(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *Handler) searchProducts(c *gin.Context) {
	products, err := h.products.Search(c.Request.Context(), c.Query("q"), listOptions(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *Handler) trendingProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	products, err := h.products.Trending(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *Handler) recentlyViewedProducts(c *gin.Context) {
	products, err := h.products.RecentlyViewed(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *Handler) compareProducts(c *gin.Context) {
	var req struct {
		IDs []string `json:"ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	cmp, err := h.products.Compare(c.Request.Context(), req.IDs)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cmp)
}

func (h *Handler) getProduct(c *gin.Context) {
	product, err := h.products.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) updateProduct(c *gin.Context) {
	var in models.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if err := h.products.Update(c.Request.Context(), c.Param("id"), &in); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) deleteProduct(c *gin.Context) {
	if err := h.products.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- offers ---

func (h *Handler) createOffer(c *gin.Context) {
	var in models.OfferInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	id, err := h.offers.Create(c.Request.Context(), &in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *Handler) listOffers(c *gin.Context) {
	offers, err := h.offers.GetAll(c.Request.Context(), listOptions(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"offers": offers})
}

func (h *Handler) searchOffers(c *gin.Context) {
	offers, err := h.offers.Search(c.Request.Context(), c.Query("q"), listOptions(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"offers": offers})
}

func (h *Handler) expiringOffers(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
	if err != nil || days < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid days parameter"})
		return
	}

	offers, svcErr := h.offers.ExpiringWithin(c.Request.Context(), days)
	if svcErr != nil {
		writeError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"offers": offers})
}

func (h *Handler) expiredOffers(c *gin.Context) {
	offers, err := h.offers.Expired(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"offers": offers})
}

func (h *Handler) getOffer(c *gin.Context) {
	offer, err := h.offers.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, offer)
}

func (h *Handler) updateOffer(c *gin.Context) {
	var in models.OfferInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if err := h.offers.Update(c.Request.Context(), c.Param("id"), &in); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) deleteOffer(c *gin.Context) {
	if err := h.offers.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) clickOffer(c *gin.Context) {
	if err := h.offers.RecordClick(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) convertOffer(c *gin.Context) {
	if err := h.offers.RecordConversion(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- categories ---

func (h *Handler) createCategory(c *gin.Context) {
	var in models.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	id, err := h.categories.Create(c.Request.Context(), &in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *Handler) listCategories(c *gin.Context) {
	categories, err := h.categories.GetAll(c.Request.Context(), listOptions(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *Handler) getCategory(c *gin.Context) {
	category, err := h.categories.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *Handler) updateCategory(c *gin.Context) {
	var in models.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if err := h.categories.Update(c.Request.Context(), c.Param("id"), &in); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) deleteCategory(c *gin.Context) {
	if err := h.categories.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// actorMiddleware lifts the caller identity headers onto the request
// context for audit attribution.
func actorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := c.GetHeader("X-Actor-ID")
		role := c.GetHeader("X-Actor-Role")
		if actor != "" || role != "" {
			ctx := session.WithActor(c.Request.Context(), actor, role)
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
