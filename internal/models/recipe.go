package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Nutrient codes used for macro filtering. The totalNutrients map is
// open-ended; unrecognized codes are carried through untouched for display.
const (
	NutrientProtein = "PROCNT"
	NutrientFat     = "FAT"
	NutrientCarbs   = "CHOCDF"
)

// Nutrient is a single totalNutrients entry.
type Nutrient struct {
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// TotalNutrients maps a nutrient code (PROCNT, FAT, CHOCDF, ...) to its
// quantity and unit. Stored as jsonb.
type TotalNutrients map[string]Nutrient

// Quantity returns the quantity for a nutrient code, or 0 when the code is
// absent.
func (t TotalNutrients) Quantity(code string) float64 {
	n, ok := t[code]
	if !ok {
		return 0
	}
	return n.Quantity
}

// Value implements driver.Valuer for jsonb storage.
func (t TotalNutrients) Value() (driver.Value, error) {
	if t == nil {
		return nil, nil
	}
	return json.Marshal(t)
}

// Scan implements sql.Scanner for jsonb storage.
func (t *TotalNutrients) Scan(value interface{}) error {
	if value == nil {
		*t = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("unsupported type for TotalNutrients")
	}
	return json.Unmarshal(data, t)
}

// Recipe is the model for a user-uploaded recipe document. Ingredients and
// diet/health labels are stored lower-cased and trimmed so search terms
// compare case-insensitively against them.
type Recipe struct {
	gorm.Model
	Label          string `gorm:"not null"`
	ImageURL       string
	Source         string
	URL            string
	Directions     string
	Ingredients    pq.StringArray `gorm:"type:text[]"`
	Calories       float64
	TotalNutrients TotalNutrients `gorm:"type:jsonb"`
	DietLabels     pq.StringArray `gorm:"type:text[]"`
	HealthLabels   pq.StringArray `gorm:"type:text[]"`
	CreatedByID    uint           `gorm:"index"`
	CreatedBy      *User          `gorm:"foreignKey:CreatedByID"`
}

// NormalizedRecipe is the common, source-agnostic recipe shape produced by
// both search adapters and consumed by the aggregator. It is constructed
// fresh per search request and never persisted.
type NormalizedRecipe struct {
	ID             string         `json:"id"`
	Label          string         `json:"label"`
	Image          string         `json:"image"`
	Source         string         `json:"source"`
	URL            string         `json:"url"`
	Ingredients    []string       `json:"ingredients"`
	Calories       float64        `json:"calories"`
	TotalNutrients TotalNutrients `json:"totalNutrients"`
	DietLabels     []string       `json:"dietLabels"`
	HealthLabels   []string       `json:"healthLabels"`
	IsExternal     bool           `json:"isExternal"`
}
