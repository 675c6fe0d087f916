package http

import (
	"github.com/gin-gonic/gin"

	"github.com/supplymatch/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.POST("/match", handler.Match)

		carts := v1.Group("/carts")
		{
			carts.POST("/:id/items", handler.AddItem)
			carts.DELETE("/:id/items/:line", handler.RemoveItem)
			carts.GET("/:id/plan", handler.GetPlan)
			carts.POST("/:id/checkout", handler.Checkout)
		}

		audit := v1.Group("/audit")
		{
			audit.POST("/run", handler.RunAudit)
		}
	}

	return router
}
