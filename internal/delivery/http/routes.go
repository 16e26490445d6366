package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/macrolens/platescan/config"
)

// SetupRouter creates and configures the Gin router. Closing stop releases
// background middleware state.
func SetupRouter(cfg *config.Config, handler *Handler, logger *zap.Logger, stop <-chan struct{}) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RequestIDMiddleware())
	router.Use(RecoveryMiddleware(logger))
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(RateLimitMiddleware(cfg.RateLimit.PerIP, stop))

	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", handler.Metrics)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		foods := v1.Group("/foods")
		{
			foods.POST("/enrich", handler.EnrichFoods)
		}

		nutrition := v1.Group("/nutrition")
		{
			nutrition.POST("/search", handler.SearchNutrition)
		}
	}

	return router
}
