package service

import (
	"context"

	"github.com/nimmigupta/bus25-FridgeVision/internal/model"
)

// FoodRecognizer is the boundary to the external vision capability.
type FoodRecognizer interface {
	Recognize(ctx context.Context, img *ValidatedImage) (*model.RecognitionResult, error)
}

// RecipeGenerator is the boundary to the external text-generation
// capability, including its bounded retry policy.
type RecipeGenerator interface {
	Generate(ctx context.Context, items []string, prefs model.RecipePreferences) (*GenerationResult, error)
}
