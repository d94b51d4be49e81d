package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// JSONBMacros stores a Macros value in a JSONB column.
type JSONBMacros Macros

// Value implements the driver.Valuer interface
func (m JSONBMacros) Value() (driver.Value, error) {
	return json.Marshal(m)
}

// Scan implements the sql.Scanner interface
func (m *JSONBMacros) Scan(value interface{}) error {
	if value == nil {
		*m = JSONBMacros{}
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

	return json.Unmarshal(bytes, m)
}

// JSONBRecipe stores the full serialized Recipe snapshot in a JSONB column.
type JSONBRecipe Recipe

// Value implements the driver.Valuer interface
func (r JSONBRecipe) Value() (driver.Value, error) {
	return json.Marshal(r)
}

// Scan implements the sql.Scanner interface
func (r *JSONBRecipe) Scan(value interface{}) error {
	if value == nil {
		*r = JSONBRecipe{}
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

	return json.Unmarshal(bytes, r)
}

// Favorite is an immutable snapshot of a saved recipe. Favorites are
// never updated in place; re-saving the same recipe creates a new row.
type Favorite struct {
	ID        uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time        `json:"created_at"`
	Title     string           `gorm:"size:255;not null" json:"title"`
	ItemsUsed JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"items_used"`
	Tags      JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"tags"`
	Calories  int              `gorm:"not null" json:"calories"`
	Macros    JSONBMacros      `gorm:"type:jsonb;not null;default:'{}'" json:"macros"`
	Recipe    JSONBRecipe      `gorm:"type:jsonb;not null;default:'{}'" json:"recipe"`
}

func (Favorite) TableName() string {
	return "favorites"
}
