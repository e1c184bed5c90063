package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/itemforge/catalog-api/internal/api"
	"github.com/itemforge/catalog-api/internal/database"
	"github.com/itemforge/catalog-api/internal/services"
)

func main() {
	// Optional .env for local development
	_ = godotenv.Load()

	// Database path
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./catalog.db"
	}

	// Initialize database
	if err := database.Initialize(dbPath); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	db := database.GetDB()

	// Initialize services
	upstream := services.NewUpstreamClient(os.Getenv("UPSTREAM_BASE_URL"))
	reducedMemory := os.Getenv("REDUCED_MEMORY_SYNC") == "true"
	catalogSync := services.NewCatalogSync(upstream, db, reducedMemory)
	priceTracker := services.NewPriceTracker(upstream, db)
	skinResolver := services.NewSkinResolver(upstream, db)
	itemQuery := services.NewItemQuery(db)

	// Create a cancellable context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Job cadence: catalog refresh nightly, prices on the upstream cache
	// interval, skin index nightly after the catalog refresh
	itemSchedule := envOrDefault("ITEM_SYNC_SCHEDULE", "0 0 2 * * *")
	priceSchedule := envOrDefault("PRICE_SYNC_SCHEDULE", "0 */5 * * * *")
	skinSchedule := envOrDefault("SKIN_SYNC_SCHEDULE", "0 0 4 * * *")

	scheduler := services.NewCronScheduler(ctx, time.Hour)

	// Worker initialization runs in the background: the first full sync of
	// an empty store takes minutes and reads should not wait for it
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("PANIC during worker initialization: %v", r)
			}
		}()

		if err := catalogSync.Initialize(ctx, scheduler, priceTracker, itemSchedule, priceSchedule); err != nil {
			log.Printf("Catalog sync initialization failed: %v", err)
		}
		if err := skinResolver.Initialize(ctx, scheduler, skinSchedule); err != nil {
			log.Printf("Skin resolver initialization failed: %v", err)
		}

		scheduler.Start()
	}()

	// Setup router
	router := api.SetupRouter(db, itemQuery, priceTracker)

	// Get port from environment
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Create HTTP server for graceful shutdown
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Cancel the context and stop dispatching jobs
	cancel()
	scheduler.Stop()

	// Give outstanding requests a deadline to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
