package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nimmigupta/bus25-FridgeVision/internal/service"
)

// FavoritesHandler handles favorites requests
type FavoritesHandler struct {
	pipeline *service.Pipeline
}

// NewFavoritesHandler creates a new FavoritesHandler instance
func NewFavoritesHandler(pipeline *service.Pipeline) *FavoritesHandler {
	return &FavoritesHandler{pipeline: pipeline}
}

// RegisterRoutes registers the favorites routes
func (h *FavoritesHandler) RegisterRoutes(router *gin.RouterGroup) {
	favorites := router.Group("/favorites")
	{
		favorites.POST("", h.Save)
		favorites.GET("", h.List)
		favorites.DELETE("/:id", h.Delete)
	}
}

// Save persists a recipe the user picked. The recipe passes schema
// validation again on the way in, so only complete recipes are stored.
func (h *FavoritesHandler) Save(c *gin.Context) {
	var req struct {
		Recipe    json.RawMessage `json:"recipe" binding:"required"`
		ItemsUsed []string        `json:"items_used"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, err := service.ValidateRecipe(req.Recipe)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fav, err := h.pipeline.SaveFavorite(c.Request.Context(), recipe, req.ItemsUsed)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save favorite"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"favorite": fav})
}

// List returns saved favorites, most recent first, optionally filtered
// by tag and cuisine.
func (h *FavoritesHandler) List(c *gin.Context) {
	filter := service.FavoriteFilter{
		Tag:     c.Query("tag"),
		Cuisine: c.Query("cuisine"),
	}

	favorites, err := h.pipeline.ListFavorites(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list favorites"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"favorites": favorites})
}

// Delete removes a favorite. A second delete of the same id is a 404.
func (h *FavoritesHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid favorite id"})
		return
	}

	if err := h.pipeline.DeleteFavorite(c.Request.Context(), uint(id)); err != nil {
		if errors.Is(err, service.ErrFavoriteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "favorite not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete favorite"})
		return
	}

	c.Status(http.StatusNoContent)
}
