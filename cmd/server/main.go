package main

import (
	"fmt"
	"log"
	"os"

	"github.com/nutrilens/backend/config"
	httpDelivery "github.com/nutrilens/backend/internal/delivery/http"
	"github.com/nutrilens/backend/internal/infrastructure/cache"
	"github.com/nutrilens/backend/internal/infrastructure/store"
	"github.com/nutrilens/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting NutriLens Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)

	// Open the food database
	foodStore, err := store.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open food database at %s: %v", cfg.Database.Path, err)
	}
	defer foodStore.Close()
	log.Printf("Food database: %s", cfg.Database.Path)

	memoryCache := cache.NewMemoryCache()
	log.Printf("Cache TTL: %s", cfg.Cache.TTL)

	debug := cfg.Server.Environment == "development"

	// Initialize usecase layer
	resolver := usecase.NewResolver(
		foodStore.Generic(),
		foodStore.Branded(),
		foodStore.Aliases(),
		foodStore.LabelMap(),
		memoryCache,
		usecase.ResolverConfig{
			MinScore:           cfg.Search.MinScore,
			MaxLimit:           cfg.Search.MaxLimit,
			CacheTTL:           cfg.Cache.TTL,
			EnableDebugLogging: debug,
		},
	)

	scoring := usecase.NewScoringEngine(
		foodStore.Generic(),
		foodStore.Branded(),
		usecase.ScoringConfig{
			Weights: usecase.ScoreWeights{
				ProteinDensity: cfg.Scoring.ProteinWeight,
				CarbQuality:    cfg.Scoring.CarbWeight,
				FatQuality:     cfg.Scoring.FatWeight,
				Processing:     cfg.Scoring.ProcessingWeight,
				Transparency:   cfg.Scoring.TransparencyWeight,
			},
			EnableDebugLogging: debug,
		},
	)

	log.Printf("Search: min score=%.0f, max limit=%d", cfg.Search.MinScore, cfg.Search.MaxLimit)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(resolver, scoring)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
