package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Generation kinds, shared by the normalizer, history rows and metrics labels.
const (
	KindRecipe  = "recipe"
	KindGrocery = "grocery"
)

// FlexString is free text the model may emit either as a JSON string or as a bare number.
// Numbers keep their literal spelling ("450", "12.5").
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = FlexString(v)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*s = FlexString(n.String())
	return nil
}

// RecipeIngredient is one line of a generated recipe.
type RecipeIngredient struct {
	Item     string     `json:"item"`
	Calories FlexString `json:"calories"`
}

// Recipe is the typed form of a recipe reply.
type Recipe struct {
	Name          string             `json:"name"`
	Ingredients   []RecipeIngredient `json:"ingredients"`
	Steps         []string           `json:"steps"`
	TotalCalories FlexString         `json:"total_calories"`
	Protein       FlexString         `json:"protein"`
}

// GroceryItem is one entry of a generated shopping list.
type GroceryItem struct {
	Name     string     `json:"name"`
	Quantity FlexString `json:"quantity"`
}

// GroceryList is the typed form of a grocery reply.
type GroceryList struct {
	Items []GroceryItem `json:"items"`
}

// Generation is a persisted record of one generate-recipe or generate-grocery call.
type Generation struct {
	ID             string    `gorm:"type:uuid;primaryKey" json:"id"`
	Kind           string    `gorm:"size:16;not null;index" json:"kind"`
	Ingredients    string    `gorm:"type:text" json:"ingredients"`
	Diet           string    `gorm:"size:255" json:"diet,omitempty"`
	Model          string    `gorm:"size:255" json:"model"`
	Response       string    `gorm:"type:text" json:"-"` // normalized JSON body as returned to the caller
	Fallback       bool      `gorm:"not null;default:false" json:"fallback"`
	FallbackReason string    `gorm:"type:text" json:"fallback_reason,omitempty"`
	Strict         bool      `gorm:"not null;default:false" json:"strict"`
	LatencyMs      int64     `json:"latency_ms"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
}

// BeforeCreate assigns a random ID when the caller did not set one.
func (g *Generation) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}
