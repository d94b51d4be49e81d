package service

import (
	"encoding/json"
	"log"
	"strings"

	"github.com/nimmigupta/bus25-FridgeVision/internal/model"
)

const (
	minSteps = 5
	maxSteps = 10
)

// ValidateRecipe parses one candidate recipe object from the generator
// output and enforces the full schema. The first offending field is
// reported via SchemaViolation.
func ValidateRecipe(raw json.RawMessage) (*model.Recipe, error) {
	var candidate struct {
		Title              string             `json:"title"`
		Description        string             `json:"description"`
		Ingredients        []model.Ingredient `json:"ingredients"`
		Steps              []string           `json:"steps"`
		CaloriesPerServing *int               `json:"calories_per_serving"`
		Macros             *model.Macros      `json:"macros"`
		WhyHealthy         string             `json:"why_healthy"`
		Tags               []string           `json:"tags"`
	}
	if err := json.Unmarshal(raw, &candidate); err != nil {
		return nil, &SchemaViolation{Field: "recipe", Detail: "not a JSON object: " + err.Error()}
	}

	if strings.TrimSpace(candidate.Title) == "" {
		return nil, &SchemaViolation{Field: "title", Detail: "missing or empty"}
	}
	if strings.TrimSpace(candidate.Description) == "" {
		return nil, &SchemaViolation{Field: "description", Detail: "missing or empty"}
	}
	if len(candidate.Ingredients) == 0 {
		return nil, &SchemaViolation{Field: "ingredients", Detail: "must be non-empty"}
	}
	for _, ing := range candidate.Ingredients {
		if strings.TrimSpace(ing.Item) == "" || strings.TrimSpace(ing.Qty) == "" {
			return nil, &SchemaViolation{Field: "ingredients", Detail: "every ingredient needs item and qty"}
		}
	}
	if n := len(candidate.Steps); n < minSteps || n > maxSteps {
		return nil, &SchemaViolation{Field: "steps", Detail: "must have between 5 and 10 entries"}
	}
	for _, step := range candidate.Steps {
		if strings.TrimSpace(step) == "" {
			return nil, &SchemaViolation{Field: "steps", Detail: "steps must be non-empty"}
		}
	}
	if candidate.CaloriesPerServing == nil {
		return nil, &SchemaViolation{Field: "calories_per_serving", Detail: "missing"}
	}
	if *candidate.CaloriesPerServing < 0 {
		return nil, &SchemaViolation{Field: "calories_per_serving", Detail: "must be non-negative"}
	}
	if candidate.Macros == nil {
		return nil, &SchemaViolation{Field: "macros", Detail: "missing"}
	}
	if candidate.Macros.ProteinG < 0 || candidate.Macros.FatG < 0 || candidate.Macros.CarbsG < 0 {
		return nil, &SchemaViolation{Field: "macros", Detail: "values must be non-negative"}
	}
	if strings.TrimSpace(candidate.WhyHealthy) == "" {
		return nil, &SchemaViolation{Field: "why_healthy", Detail: "missing or empty"}
	}
	if len(candidate.Tags) == 0 {
		return nil, &SchemaViolation{Field: "tags", Detail: "must be non-empty"}
	}

	return &model.Recipe{
		Title:              candidate.Title,
		Description:        candidate.Description,
		Ingredients:        candidate.Ingredients,
		Steps:              candidate.Steps,
		CaloriesPerServing: *candidate.CaloriesPerServing,
		Macros:             *candidate.Macros,
		WhyHealthy:         candidate.WhyHealthy,
		Tags:               candidate.Tags,
	}, nil
}

// ValidateBatch validates every candidate independently and filters out
// the invalid ones. One malformed candidate never aborts the rest of
// the batch.
func ValidateBatch(candidates []json.RawMessage) []*model.Recipe {
	recipes := make([]*model.Recipe, 0, len(candidates))
	for i, raw := range candidates {
		recipe, err := ValidateRecipe(raw)
		if err != nil {
			log.Printf("[RecipeValidator] dropping candidate %d: %v", i, err)
			continue
		}
		recipes = append(recipes, recipe)
	}
	return recipes
}
