package model

import "fmt"

const (
	// CalorieTargetMin and CalorieTargetMax bound the accepted
	// per-serving calorie target.
	CalorieTargetMin = 50
	CalorieTargetMax = 5000
)

var validDietary = map[string]bool{
	"healthy":        true,
	"vegetarian":     true,
	"non-vegetarian": true,
}

// RecipePreferences are the caller-supplied generation constraints.
type RecipePreferences struct {
	Dietary       []string `json:"dietary"`
	CuisineTags   []string `json:"cuisine_tags"`
	CalorieTarget *int     `json:"calorie_target,omitempty"`
}

// Validate checks the preference values before any external call is made.
func (p *RecipePreferences) Validate() error {
	for _, d := range p.Dietary {
		if !validDietary[d] {
			return fmt.Errorf("invalid dietary preference %q: must be one of healthy, vegetarian, non-vegetarian", d)
		}
	}
	if p.CalorieTarget != nil {
		if *p.CalorieTarget < CalorieTargetMin || *p.CalorieTarget > CalorieTargetMax {
			return fmt.Errorf("calorie_target must be between %d and %d", CalorieTargetMin, CalorieTargetMax)
		}
	}
	return nil
}
