package api

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/itemforge/catalog-api/internal/api/handlers"
	"github.com/itemforge/catalog-api/internal/metrics"
	"github.com/itemforge/catalog-api/internal/services"
)

func SetupRouter(db *gorm.DB, itemQuery *services.ItemQuery, priceTracker *services.PriceTracker) *gin.Engine {
	router := gin.Default()

	// CORS configuration - allow origins from environment or use defaults
	config := cors.DefaultConfig()
	if corsOrigins := os.Getenv("CORS_ALLOWED_ORIGINS"); corsOrigins != "" {
		config.AllowOrigins = strings.Split(corsOrigins, ",")
	} else {
		config.AllowAllOrigins = true
	}
	config.AllowMethods = []string{"GET", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	router.Use(cors.New(config))

	router.Use(requestMetrics())

	// Initialize handlers
	itemHandler := handlers.NewItemHandler(itemQuery)
	skinHandler := handlers.NewSkinHandler(db)
	priceHandler := handlers.NewPriceHandler(priceTracker)

	// Item routes
	items := router.Group("/items")
	{
		items.GET("", itemHandler.Query)
		items.GET("/all", itemHandler.All)
		items.GET("/all-prices", itemHandler.AllPrices)
		items.GET("/categories", itemHandler.Categories)
		items.GET("/autocomplete", itemHandler.Autocomplete)
		items.GET("/by-name", itemHandler.ByName)
		items.GET("/by-skin", itemHandler.BySkin)
		items.GET("/:ids", itemHandler.ByIDs)
	}
	router.GET("/item/:id", itemHandler.ByID)

	// Skin routes
	skins := router.Group("/skins")
	{
		skins.GET("/resolve", skinHandler.Resolve)
		skins.GET("/prices", skinHandler.Prices)
	}

	// Price routes
	router.GET("/prices/status", priceHandler.GetStatus)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Prometheus scrape endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

// requestMetrics records request counts and latency per route.
func requestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		metrics.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method, path, strconv.Itoa(c.Writer.Status()),
		).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(
			c.Request.Method, path,
		).Observe(time.Since(start).Seconds())
	}
}
