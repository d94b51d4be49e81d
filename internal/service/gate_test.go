package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nimmigupta/bus25-FridgeVision/internal/model"
)

func TestConfidenceGate_Decide(t *testing.T) {
	gate := NewConfidenceGate(0.6)

	t.Run("accepts confident food result", func(t *testing.T) {
		decision := gate.Decide(&model.RecognitionResult{
			IsFood: true,
			Items: []model.DetectedItem{
				{Name: "egg", Confidence: 0.9},
				{Name: "milk", Confidence: 0.85},
			},
			Notes:             "dairy and eggs",
			OverallConfidence: 0.875,
		})

		assert.True(t, decision.Accepted)
		assert.Equal(t, []string{"egg", "milk"}, decision.Items)
		assert.Equal(t, "dairy and eggs", decision.Notes)
		assert.Empty(t, decision.Reason)
	})

	t.Run("rejects non-food regardless of confidence", func(t *testing.T) {
		decision := gate.Decide(&model.RecognitionResult{
			IsFood: false,
			Items: []model.DetectedItem{
				{Name: "shoe", Confidence: 0.99},
			},
			Notes:             "a running shoe",
			OverallConfidence: 0.99,
		})

		assert.False(t, decision.Accepted)
		assert.Equal(t, reasonNotFood, decision.Reason)
		assert.Equal(t, "a running shoe", decision.Notes)
		assert.Empty(t, decision.Items)
	})

	t.Run("rejects below threshold", func(t *testing.T) {
		decision := gate.Decide(&model.RecognitionResult{
			IsFood: true,
			Items: []model.DetectedItem{
				{Name: "something", Confidence: 0.5},
			},
			OverallConfidence: 0.5,
		})

		assert.False(t, decision.Accepted)
		assert.Equal(t, reasonLowConfidence, decision.Reason)
	})

	t.Run("accepts exactly at threshold", func(t *testing.T) {
		decision := gate.Decide(&model.RecognitionResult{
			IsFood:            true,
			Items:             []model.DetectedItem{{Name: "rice", Confidence: 0.6}},
			OverallConfidence: 0.6,
		})

		assert.True(t, decision.Accepted)
	})

	t.Run("rejects empty items", func(t *testing.T) {
		decision := gate.Decide(&model.RecognitionResult{
			IsFood:            true,
			Items:             nil,
			OverallConfidence: 0,
		})

		assert.False(t, decision.Accepted)
		assert.Equal(t, reasonNoItems, decision.Reason)
	})

	t.Run("reason never echoes model notes", func(t *testing.T) {
		decision := gate.Decide(&model.RecognitionResult{
			IsFood: false,
			Notes:  "raw model ramble that should not become the reason",
		})

		assert.NotContains(t, decision.Reason, "raw model ramble")
		assert.Equal(t, "raw model ramble that should not become the reason", decision.Notes)
	})
}
