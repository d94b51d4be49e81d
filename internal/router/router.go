package router

import (
	"github.com/gin-gonic/gin"

	"github.com/nimmigupta/bus25-FridgeVision/internal/api"
	"github.com/nimmigupta/bus25-FridgeVision/internal/middleware"
)

// SetupRouter configures the application routes
func SetupRouter(
	recognizeHandler *api.RecognizeHandler,
	recipesHandler *api.RecipesHandler,
	favoritesHandler *api.FavoritesHandler,
	healthHandler *api.HealthHandler,
	recognizeLimiter *middleware.RateLimiter,
	generateLimiter *middleware.RateLimiter,
) *gin.Engine {
	router := gin.Default()

	// CORS middleware
	router.Use(middleware.CORS())

	// API v1 routes
	v1 := router.Group("/api/v1")

	healthHandler.RegisterRoutes(v1)
	recognizeHandler.RegisterRoutes(v1, limiterFunc(recognizeLimiter))
	recipesHandler.RegisterRoutes(v1, limiterFunc(generateLimiter))
	favoritesHandler.RegisterRoutes(v1)

	return router
}

func limiterFunc(rl *middleware.RateLimiter) gin.HandlerFunc {
	if rl == nil {
		return nil
	}
	return rl.RateLimitMiddleware()
}
