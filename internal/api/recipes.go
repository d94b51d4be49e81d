package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nimmigupta/bus25-FridgeVision/internal/model"
	"github.com/nimmigupta/bus25-FridgeVision/internal/service"
)

// RecipesHandler handles recipe generation requests
type RecipesHandler struct {
	pipeline *service.Pipeline
}

// NewRecipesHandler creates a new RecipesHandler instance
func NewRecipesHandler(pipeline *service.Pipeline) *RecipesHandler {
	return &RecipesHandler{pipeline: pipeline}
}

// RegisterRoutes registers the recipe generation routes
func (h *RecipesHandler) RegisterRoutes(router *gin.RouterGroup, limiter gin.HandlerFunc) {
	if limiter != nil {
		router.POST("/recipes/generate", limiter, h.Generate)
	} else {
		router.POST("/recipes/generate", h.Generate)
	}
}

// Generate produces recipe suggestions for the accepted item list. A
// count shortfall is reported alongside the recipes, never as an error.
func (h *RecipesHandler) Generate(c *gin.Context) {
	var req struct {
		Items       []string                `json:"items" binding:"required"`
		Preferences model.RecipePreferences `json:"preferences"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "items must not be empty"})
		return
	}

	result, err := h.pipeline.GenerateRecipes(c.Request.Context(), req.Items, req.Preferences)
	if err != nil {
		h.writeGenerateError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recipes":   result.Recipes,
		"count":     len(result.Recipes),
		"shortfall": result.Shortfall,
	})
}

func (h *RecipesHandler) writeGenerateError(c *gin.Context, err error) {
	var svcErr *service.GenerationServiceError
	switch {
	case errors.Is(err, service.ErrNotConfigured):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "recipe generation is not configured"})
	case errors.As(err, &svcErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": "recipe generation is temporarily unavailable"})
	default:
		// Preference validation failures land here.
		log.Printf("[RecipesHandler] generate rejected: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
