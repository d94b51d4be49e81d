package model

import (
	"database/sql/driver"
	"encoding/json"
)

// JSONBStringArray is a custom type for handling string arrays in JSONB
type JSONBStringArray []string

// Value implements the driver.Valuer interface
func (a JSONBStringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements the sql.Scanner interface
func (a *JSONBStringArray) Scan(value interface{}) error {
	if value == nil {
		*a = JSONBStringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, a)
}

// Ingredient is a single recipe ingredient with a human-style quantity.
type Ingredient struct {
	Item string `json:"item"`
	Qty  string `json:"qty"`
}

// Macros represents per-serving macronutrients in grams.
type Macros struct {
	ProteinG float64 `json:"protein_g"`
	FatG     float64 `json:"fat_g"`
	CarbsG   float64 `json:"carbs_g"`
}

// Recipe is a fully validated recipe suggestion. Recipes are ephemeral:
// they only reach durable storage as part of a Favorite snapshot.
type Recipe struct {
	Title              string       `json:"title"`
	Description        string       `json:"description"`
	Ingredients        []Ingredient `json:"ingredients"`
	Steps              []string     `json:"steps"`
	CaloriesPerServing int          `json:"calories_per_serving"`
	Macros             Macros       `json:"macros"`
	WhyHealthy         string       `json:"why_healthy"`
	Tags               []string     `json:"tags"`
}
