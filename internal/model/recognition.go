package model

// DetectedItem is a single food item the vision model found in a photo.
type DetectedItem struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// RecognitionResult is the normalized outcome of one vision call.
// OverallConfidence is always derived from the item confidences, never
// taken from the model response. Results live for one request only.
type RecognitionResult struct {
	IsFood            bool           `json:"is_food"`
	Items             []DetectedItem `json:"items"`
	Notes             string         `json:"notes"`
	OverallConfidence float64        `json:"overall_confidence"`
}

// GateDecision is the confidence gate's verdict on a RecognitionResult.
// A rejection is a normal outcome, not an error: Reason is a fixed
// friendly message, Notes carries the model's supplementary text.
type GateDecision struct {
	Accepted bool     `json:"accepted"`
	Items    []string `json:"items,omitempty"`
	Reason   string   `json:"reason,omitempty"`
	Notes    string   `json:"notes,omitempty"`
}
