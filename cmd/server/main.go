package main

import (
	"fmt"
	"log"
	"os"

	"github.com/shopspring/decimal"

	"github.com/supplymatch/backend/config"
	httpDelivery "github.com/supplymatch/backend/internal/delivery/http"
	"github.com/supplymatch/backend/internal/domain"
	"github.com/supplymatch/backend/internal/infrastructure/cache"
	"github.com/supplymatch/backend/internal/infrastructure/catalog"
	"github.com/supplymatch/backend/internal/infrastructure/orders"
	"github.com/supplymatch/backend/internal/lexicon"
	"github.com/supplymatch/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting SupplyMatch Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Catalog driver: %s", cfg.Catalog.Driver)

	// Initialize infrastructure dependencies
	classificationCache := cache.NewMemoryCache()
	log.Printf("Classification cache TTL: %s", cfg.Matching.CacheTTL)

	var catalogRepo domain.CatalogRepository
	switch cfg.Catalog.Driver {
	case "sqlite":
		sqliteRepo, err := catalog.NewSQLiteRepository(cfg.Catalog.SQLitePath)
		if err != nil {
			log.Fatalf("Failed to open catalog db: %v", err)
		}
		defer sqliteRepo.Close()
		catalogRepo = sqliteRepo
		log.Printf("Catalog: sqlite at %s", cfg.Catalog.SQLitePath)
	default:
		catalogRepo = catalog.NewMemoryRepository()
		log.Printf("Catalog: in-memory (empty until offers are loaded)")
	}

	orderRepo := orders.NewMemoryRepository()

	// Enable trace logging in development environment
	debugTrace := cfg.Matching.DebugTrace
	if cfg.Server.Environment == "development" {
		debugTrace = true
		log.Printf("Match trace logging enabled")
	}

	// Initialize usecase layer
	matchService := usecase.NewMatchService(
		catalogRepo,
		classificationCache,
		lexicon.Default(),
		usecase.MatchConfig{
			CandidateCap:  cfg.Matching.CandidateCap,
			CacheTTL:      cfg.Matching.CacheTTL,
			MinSimilarity: cfg.Matching.MinSimilarity,
			DebugTrace:    debugTrace,
		},
	)

	cartService := usecase.NewCartService(matchService, orderRepo, usecase.CartConfig{
		TopupBound:       cfg.Cart.TopupBoundPct,
		LineTopupCap:     cfg.Cart.LineTopupCapPct,
		DefaultMinimum:   parseMinimum("default", cfg.Cart.DefaultMinimum),
		SupplierMinimums: parseMinimums(cfg.Cart.SupplierMinimums),
		DebugTrace:       debugTrace,
	})

	auditService := usecase.NewAuditService(matchService, catalogRepo, debugTrace)

	log.Printf("Matching: cap=%d, trace=%v", cfg.Matching.CandidateCap, debugTrace)
	log.Printf("Cart: topup_bound=%.0f%%, line_cap=%.0f%%",
		cfg.Cart.TopupBoundPct*100, cfg.Cart.LineTopupCapPct*100)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(matchService, cartService, auditService)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// parseMinimum converts a configured threshold to decimal, refusing to start
// on garbage instead of silently treating it as zero.
func parseMinimum(supplier, raw string) decimal.Decimal {
	if raw == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		log.Fatalf("Invalid minimum for %s: %q", supplier, raw)
	}
	return d
}

func parseMinimums(raw map[string]string) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(raw))
	for supplier, v := range raw {
		out[supplier] = parseMinimum(supplier, v)
	}
	return out
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
