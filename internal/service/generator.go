package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/nimmigupta/bus25-FridgeVision/config"
	"github.com/nimmigupta/bus25-FridgeVision/internal/model"
)

const (
	// MinRecipeCount is the minimum number of distinct valid recipes a
	// generation request tries to produce before reporting a shortfall.
	MinRecipeCount = 5

	baseTemperature  = 0.7
	temperatureDelta = 0.2
	maxTemperature   = 1.0
)

const generatorSystemPrompt = `You are a professional chef and nutritionist. Respond only with JSON of the form:
{
    "recipes": [
        {
            "title": "Recipe title",
            "description": "Brief description of the dish",
            "ingredients": [
                {"item": "eggs", "qty": "3"},
                {"item": "milk", "qty": "1 cup"}
            ],
            "steps": [
                "Step one",
                "Step two",
                "Step three",
                "Step four",
                "Step five"
            ],
            "calories_per_serving": 350,
            "macros": {"protein_g": 15, "fat_g": 12, "carbs_g": 45},
            "why_healthy": "One sentence on the nutritional upside",
            "tags": ["breakfast", "vegetarian"]
        }
    ]
}

Every recipe must have between 5 and 10 steps, at least one ingredient, at least one tag, and numeric nutrition fields. Generate at least 5 distinct recipes.`

// GenerationResult carries the generated recipes plus the shortfall
// notice the caller must surface when fewer than MinRecipeCount could
// be produced even after the retry.
type GenerationResult struct {
	Recipes   []model.Recipe
	Shortfall bool
}

// GeneratorService produces recipe suggestions from a list of detected
// items via the external text-generation capability. The minimum-count
// guarantee is an explicit two-attempt state machine: one call at the
// base temperature, then at most one retry at a raised temperature.
type GeneratorService struct {
	apiKey string
	apiURL string
	model  string
	client *http.Client
}

// NewGeneratorService creates a GeneratorService. A missing credential
// is reported as ErrNotConfigured before any external call is attempted.
func NewGeneratorService(cfg *config.Config) (*GeneratorService, error) {
	if cfg.LLMAPIKey == "" {
		return nil, fmt.Errorf("generator: %w", ErrNotConfigured)
	}

	return &GeneratorService{
		apiKey: cfg.LLMAPIKey,
		apiURL: cfg.LLMAPIURL,
		model:  cfg.LLMModel,
		client: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
	}, nil
}

// Generate runs the two-attempt generation policy. A count shortfall
// after the retry is reported via GenerationResult.Shortfall, never as
// an error; GenerationServiceError is returned only when no attempt
// yielded a parseable response.
func (s *GeneratorService) Generate(ctx context.Context, items []string, prefs model.RecipePreferences) (*GenerationResult, error) {
	byTitle := make(map[string]model.Recipe)
	var order []string

	merge := func(recipes []*model.Recipe) {
		for _, r := range recipes {
			key := normalizeTitle(r.Title)
			if _, seen := byTitle[key]; seen {
				continue
			}
			byTitle[key] = *r
			order = append(order, key)
		}
	}

	candidates, firstErr := s.attempt(ctx, items, prefs, baseTemperature)
	if firstErr != nil {
		log.Printf("[GeneratorService] first attempt failed: %v", firstErr)
	} else {
		merge(ValidateBatch(candidates))
	}

	if len(byTitle) < MinRecipeCount {
		// Exactly one retry, at a raised temperature for diversity.
		retryTemp := baseTemperature + temperatureDelta
		if retryTemp > maxTemperature {
			retryTemp = maxTemperature
		}
		candidates, retryErr := s.attempt(ctx, items, prefs, retryTemp)
		if retryErr != nil {
			log.Printf("[GeneratorService] retry attempt failed: %v", retryErr)
			if firstErr != nil {
				return nil, &GenerationServiceError{Err: fmt.Errorf("both attempts failed: %v; retry: %w", firstErr, retryErr)}
			}
		} else {
			merge(ValidateBatch(candidates))
		}
	}

	recipes := make([]model.Recipe, 0, len(byTitle))
	for _, key := range order {
		recipes = append(recipes, byTitle[key])
	}

	return &GenerationResult{
		Recipes:   recipes,
		Shortfall: len(recipes) < MinRecipeCount,
	}, nil
}

// attempt performs a single generation call and returns the raw
// candidate objects for validation.
func (s *GeneratorService) attempt(ctx context.Context, items []string, prefs model.RecipePreferences, temperature float64) ([]json.RawMessage, error) {
	reqBody := struct {
		Model          string            `json:"model"`
		Messages       []chatMessage     `json:"messages"`
		ResponseFormat map[string]string `json:"response_format"`
		Temperature    float64           `json:"temperature"`
	}{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: generatorSystemPrompt},
			{Role: "user", Content: buildGenerationPrompt(items, prefs)},
		},
		ResponseFormat: map[string]string{"type": "json_object"},
		Temperature:    temperature,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("no response from API")
	}

	return parseCandidates(result.Choices[0].Message.Content)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// parseCandidates accepts either the documented {"recipes": [...]}
// wrapper or a bare top-level array.
func parseCandidates(content string) ([]json.RawMessage, error) {
	var wrapper struct {
		Recipes []json.RawMessage `json:"recipes"`
	}
	if err := json.Unmarshal([]byte(content), &wrapper); err == nil && wrapper.Recipes != nil {
		return wrapper.Recipes, nil
	}

	var arr []json.RawMessage
	if err := json.Unmarshal([]byte(content), &arr); err == nil {
		return arr, nil
	}

	return nil, fmt.Errorf("unparseable recipes payload")
}

func buildGenerationPrompt(items []string, prefs model.RecipePreferences) string {
	var b strings.Builder
	b.WriteString("Create recipes using these available ingredients: ")
	b.WriteString(strings.Join(items, ", "))
	if len(prefs.Dietary) > 0 {
		b.WriteString(". The recipes should be suitable for: ")
		b.WriteString(strings.Join(prefs.Dietary, ", "))
	}
	if len(prefs.CuisineTags) > 0 {
		b.WriteString(". Preferred cuisines: ")
		b.WriteString(strings.Join(prefs.CuisineTags, ", "))
	}
	if prefs.CalorieTarget != nil {
		b.WriteString(". Aim for about ")
		b.WriteString(strconv.Itoa(*prefs.CalorieTarget))
		b.WriteString(" calories per serving")
	}
	return b.String()
}

// normalizeTitle is the distinctness key: recipes are distinct by
// case-insensitive trimmed title.
func normalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}
