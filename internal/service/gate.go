package service

import (
	"github.com/nimmigupta/bus25-FridgeVision/internal/model"
)

// Rejection reasons are fixed friendly messages. Raw model text goes
// into Notes, never into Reason.
const (
	reasonNotFood       = "This doesn't look like food. Try a photo of your fridge or ingredients."
	reasonLowConfidence = "We couldn't identify the food in this photo with enough certainty. Try a clearer, closer shot."
	reasonNoItems       = "We couldn't pick out any individual food items in this photo."
)

// ConfidenceGate decides whether a recognition result is trustworthy
// enough to spend a generation call on. It is a pure function of its
// input: no external calls, no retries.
type ConfidenceGate struct {
	Threshold float64
}

// NewConfidenceGate creates a gate with the given minimum overall confidence.
func NewConfidenceGate(threshold float64) *ConfidenceGate {
	return &ConfidenceGate{Threshold: threshold}
}

// Decide rejects when the result is not food, when the overall
// confidence is below the threshold, or when no items were detected.
func (g *ConfidenceGate) Decide(res *model.RecognitionResult) model.GateDecision {
	switch {
	case !res.IsFood:
		return model.GateDecision{Reason: reasonNotFood, Notes: res.Notes}
	case len(res.Items) == 0:
		return model.GateDecision{Reason: reasonNoItems, Notes: res.Notes}
	case res.OverallConfidence < g.Threshold:
		return model.GateDecision{Reason: reasonLowConfidence, Notes: res.Notes}
	}

	items := make([]string, 0, len(res.Items))
	for _, it := range res.Items {
		items = append(items, it.Name)
	}
	return model.GateDecision{Accepted: true, Items: items, Notes: res.Notes}
}
