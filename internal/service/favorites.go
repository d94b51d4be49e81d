package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/nimmigupta/bus25-FridgeVision/internal/model"
)

// FavoriteFilter narrows a favorites listing. Both fields are
// exact-match against the stored tag set; empty fields match everything.
type FavoriteFilter struct {
	Tag     string
	Cuisine string
}

// FavoritesStore handles the durable favorites records. Records are
// immutable once saved: the store exposes no update operation, and a
// re-save of the same recipe creates a new record.
type FavoritesStore struct {
	db *gorm.DB
}

// NewFavoritesStore creates a new FavoritesStore instance
func NewFavoritesStore(db *gorm.DB) *FavoritesStore {
	return &FavoritesStore{db: db}
}

// Save persists a new favorite snapshot of the recipe. The id is
// assigned by the database sequence; each save is a single transaction
// so concurrent saves never interleave partial writes.
func (s *FavoritesStore) Save(ctx context.Context, recipe *model.Recipe, itemsUsed []string) (*model.Favorite, error) {
	fav := &model.Favorite{
		Title:     recipe.Title,
		ItemsUsed: model.JSONBStringArray(itemsUsed),
		Tags:      model.JSONBStringArray(recipe.Tags),
		Calories:  recipe.CaloriesPerServing,
		Macros:    model.JSONBMacros(recipe.Macros),
		Recipe:    model.JSONBRecipe(*recipe),
	}

	if err := s.db.WithContext(ctx).Create(fav).Error; err != nil {
		return nil, err
	}
	return fav, nil
}

// List returns favorites most recent first, optionally narrowed by tag
// and cuisine membership. Matching runs on the deserialized tag sets so
// postgres and sqlite behave identically.
func (s *FavoritesStore) List(ctx context.Context, filter FavoriteFilter) ([]*model.Favorite, error) {
	var favorites []model.Favorite
	if err := s.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&favorites).Error; err != nil {
		return nil, err
	}

	result := make([]*model.Favorite, 0, len(favorites))
	for i := range favorites {
		if filter.Tag != "" && !containsTag(favorites[i].Tags, filter.Tag) {
			continue
		}
		if filter.Cuisine != "" && !containsTag(favorites[i].Tags, filter.Cuisine) {
			continue
		}
		result = append(result, &favorites[i])
	}
	return result, nil
}

// Delete removes a favorite by id. Deleting an unknown id fails with
// ErrFavoriteNotFound; the operation is deliberately not idempotent.
func (s *FavoritesStore) Delete(ctx context.Context, id uint) error {
	tx := s.db.WithContext(ctx).Delete(&model.Favorite{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrFavoriteNotFound
	}
	return nil
}

func containsTag(tags model.JSONBStringArray, want string) bool {
	for _, t := range tags {
		if t == want {
			return true
		}
	}
	return false
}
