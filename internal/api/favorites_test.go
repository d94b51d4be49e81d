package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/nimmigupta/bus25-FridgeVision/internal/model"
	"github.com/nimmigupta/bus25-FridgeVision/internal/service"
)

func newFavoritesRouter(t *testing.T) *gin.Engine {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Favorite{}))

	pipeline := service.NewPipeline(
		service.NewImageIntake(10<<20),
		nil,
		service.NewConfidenceGate(0.6),
		nil,
		service.NewFavoritesStore(db),
		nil,
		nil,
	)
	router := gin.New()
	v1 := router.Group("/api/v1")
	NewFavoritesHandler(pipeline).RegisterRoutes(v1)
	return router
}

func favoriteBody(title string, calories int) string {
	return fmt.Sprintf(`{
		"recipe": {
			"title": %q,
			"description": "A dish",
			"ingredients": [{"item": "yogurt", "qty": "1 cup"}],
			"steps": ["one", "two", "three", "four", "five"],
			"calories_per_serving": %d,
			"macros": {"protein_g": 20, "fat_g": 5, "carbs_g": 30},
			"why_healthy": "protein rich",
			"tags": ["breakfast", "greek"]
		},
		"items_used": ["yogurt", "honey"]
	}`, title, calories)
}

func TestFavoritesEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("save then list round-trips the record", func(t *testing.T) {
		router := newFavoritesRouter(t)

		w := postJSON(router, "/api/v1/favorites", favoriteBody("Greek Yogurt Bowl", 350))
		require.Equal(t, http.StatusCreated, w.Code)

		var saved struct {
			Favorite model.Favorite `json:"favorite"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))
		assert.NotZero(t, saved.Favorite.ID)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/favorites", nil)
		lw := httptest.NewRecorder()
		router.ServeHTTP(lw, req)
		require.Equal(t, http.StatusOK, lw.Code)

		var listed struct {
			Favorites []model.Favorite `json:"favorites"`
		}
		require.NoError(t, json.Unmarshal(lw.Body.Bytes(), &listed))
		require.Len(t, listed.Favorites, 1)
		assert.Equal(t, "Greek Yogurt Bowl", listed.Favorites[0].Title)
		assert.Equal(t, 350, listed.Favorites[0].Calories)
		assert.Equal(t, model.JSONBStringArray{"breakfast", "greek"}, listed.Favorites[0].Tags)
	})

	t.Run("most recent favorite listed first", func(t *testing.T) {
		router := newFavoritesRouter(t)

		require.Equal(t, http.StatusCreated, postJSON(router, "/api/v1/favorites", favoriteBody("First", 100)).Code)
		require.Equal(t, http.StatusCreated, postJSON(router, "/api/v1/favorites", favoriteBody("Second", 200)).Code)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/favorites", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		var listed struct {
			Favorites []model.Favorite `json:"favorites"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
		require.Len(t, listed.Favorites, 2)
		assert.Equal(t, "Second", listed.Favorites[0].Title)
	})

	t.Run("list filters by tag", func(t *testing.T) {
		router := newFavoritesRouter(t)
		require.Equal(t, http.StatusCreated, postJSON(router, "/api/v1/favorites", favoriteBody("Bowl", 350)).Code)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/favorites?tag=dinner", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		var listed struct {
			Favorites []model.Favorite `json:"favorites"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
		assert.Empty(t, listed.Favorites)
	})

	t.Run("incomplete recipe is rejected on save", func(t *testing.T) {
		router := newFavoritesRouter(t)

		w := postJSON(router, "/api/v1/favorites", `{"recipe":{"title":"Only a title"}}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("delete is not idempotent", func(t *testing.T) {
		router := newFavoritesRouter(t)

		w := postJSON(router, "/api/v1/favorites", favoriteBody("Ephemeral", 300))
		require.Equal(t, http.StatusCreated, w.Code)
		var saved struct {
			Favorite model.Favorite `json:"favorite"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))

		del := func() *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodDelete,
				fmt.Sprintf("/api/v1/favorites/%d", saved.Favorite.ID), nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			return rec
		}

		assert.Equal(t, http.StatusNoContent, del().Code)
		assert.Equal(t, http.StatusNotFound, del().Code)
	})

	t.Run("deleting an unknown id is a 404", func(t *testing.T) {
		router := newFavoritesRouter(t)

		req := httptest.NewRequest(http.MethodDelete, "/api/v1/favorites/424242", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("non-numeric id is a 400", func(t *testing.T) {
		router := newFavoritesRouter(t)

		req := httptest.NewRequest(http.MethodDelete, "/api/v1/favorites/abc", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
