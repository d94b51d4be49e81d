package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/nimmigupta/bus25-FridgeVision/config"
	"github.com/nimmigupta/bus25-FridgeVision/internal/model"
)

const visionSystemPrompt = `You are a food recognition assistant. Look at the photo and respond only with JSON of the form:
{
    "is_food": true,
    "items": [
        {"name": "egg", "confidence": 0.95},
        {"name": "milk", "confidence": 0.87}
    ],
    "notes": "short remarks about what is visible"
}

Set is_food to false and items to [] if the photo does not show food or food ingredients. Confidence values must be numbers between 0 and 1.`

// VisionService wraps exactly one call per request to the external
// vision capability and normalizes its response.
type VisionService struct {
	apiKey string
	apiURL string
	model  string
	client *http.Client
}

// NewVisionService creates a VisionService. A missing credential is
// reported as ErrNotConfigured so callers can surface the distinct
// not-configured condition before any network call is attempted.
func NewVisionService(cfg *config.Config) (*VisionService, error) {
	if cfg.VisionAPIKey == "" {
		return nil, fmt.Errorf("vision: %w", ErrNotConfigured)
	}

	return &VisionService{
		apiKey: cfg.VisionAPIKey,
		apiURL: cfg.VisionAPIURL,
		model:  cfg.VisionModel,
		client: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
	}, nil
}

// visionContentPart is one element of a multimodal chat message.
type visionContentPart struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL *struct {
		URL string `json:"url"`
	} `json:"image_url,omitempty"`
}

type visionMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type visionRequest struct {
	Model          string            `json:"model"`
	Messages       []visionMessage   `json:"messages"`
	ResponseFormat map[string]string `json:"response_format"`
	Temperature    float64           `json:"temperature"`
}

// visionPayload is the JSON shape the model is asked to produce.
// Missing fields default to empty/false rather than failing the parse.
type visionPayload struct {
	IsFood bool                 `json:"is_food"`
	Items  []model.DetectedItem `json:"items"`
	Notes  string               `json:"notes"`
}

// Recognize sends the validated image to the vision capability and
// returns a normalized RecognitionResult. Transport failures, timeouts
// and malformed responses surface as RecognitionServiceError, never as
// a crash.
func (s *VisionService) Recognize(ctx context.Context, img *ValidatedImage) (*model.RecognitionResult, error) {
	dataURL := fmt.Sprintf("data:%s;base64,%s", img.MIME, base64.StdEncoding.EncodeToString(img.Data))

	imagePart := visionContentPart{Type: "image_url"}
	imagePart.ImageURL = &struct {
		URL string `json:"url"`
	}{URL: dataURL}

	reqBody := visionRequest{
		Model: s.model,
		Messages: []visionMessage{
			{Role: "system", Content: visionSystemPrompt},
			{Role: "user", Content: []visionContentPart{
				{Type: "text", Text: "What food items are in this photo?"},
				imagePart,
			}},
		},
		ResponseFormat: map[string]string{"type": "json_object"},
		Temperature:    0,
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

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		// Timeouts and connection failures are worth a user-initiated retry.
		return nil, &RecognitionServiceError{Retryable: true, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RecognitionServiceError{Retryable: true, Err: err}
	}

	log.Printf("[VisionService] recognition call took %v, status %d", time.Since(start), resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		retryable := resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
		return nil, &RecognitionServiceError{
			Retryable: retryable,
			Err:       fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body)),
		}
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &RecognitionServiceError{Retryable: true, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	if len(result.Choices) == 0 {
		return nil, &RecognitionServiceError{Retryable: true, Err: fmt.Errorf("no response from API")}
	}

	var payload visionPayload
	if err := json.Unmarshal([]byte(result.Choices[0].Message.Content), &payload); err != nil {
		return nil, &RecognitionServiceError{Retryable: true, Err: fmt.Errorf("malformed recognition payload: %w", err)}
	}

	return &model.RecognitionResult{
		IsFood:            payload.IsFood,
		Items:             payload.Items,
		Notes:             payload.Notes,
		OverallConfidence: overallConfidence(payload.Items),
	}, nil
}

// overallConfidence is the arithmetic mean of the item confidences, or
// 0 when no items were detected.
func overallConfidence(items []model.DetectedItem) float64 {
	if len(items) == 0 {
		return 0
	}
	var sum float64
	for _, it := range items {
		sum += it.Confidence
	}
	return sum / float64(len(items))
}
