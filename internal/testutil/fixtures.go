package testutil

import (
	"github.com/lib/pq"
	"github.com/platewise/platewise-api/internal/models"
	"gorm.io/gorm"
)

// TestUser creates a test user with auth populated.
func TestUser() *models.User {
	return &models.User{
		Model:    gorm.Model{ID: 1},
		Username: "testuser",
		Email:    "test@example.com",
		Auth: &models.UserAuth{
			Model:          gorm.Model{ID: 1},
			UserID:         1,
			HashedPassword: "$2a$10$abcdefghijklmnopqrstuuABCDEFGHIJKLMNOPQRSTUVWXYZ012",
			AuthType:       models.AuthStandard,
		},
	}
}

// TestStoredRecipe creates an uploaded recipe document with realistic fields.
// Ingredients and labels are lower-cased the way the upload path stores them.
func TestStoredRecipe() *models.Recipe {
	return &models.Recipe{
		Model:       gorm.Model{ID: 1},
		Label:       "Chicken Rice Bowl",
		ImageURL:    "/uploads/chicken-rice-bowl.jpg",
		Directions:  "Cook the rice. Grill the chicken. Steam the broccoli. Assemble.",
		Ingredients: pq.StringArray{"chicken", "rice", "broccoli"},
		Calories:    520,
		TotalNutrients: models.TotalNutrients{
			models.NutrientProtein: {Quantity: 42, Unit: "g"},
			models.NutrientFat:     {Quantity: 9, Unit: "g"},
			models.NutrientCarbs:   {Quantity: 61, Unit: "g"},
		},
		DietLabels:   pq.StringArray{"high-protein"},
		HealthLabels: pq.StringArray{"peanut-free", "dairy-free"},
		CreatedByID:  1,
	}
}

// TestExternalRecipe creates a normalized recipe as the external adapter
// would produce it.
func TestExternalRecipe(uri, label string, protein float64) models.NormalizedRecipe {
	return models.NormalizedRecipe{
		ID:          uri,
		Label:       label,
		Image:       "https://images.example.com/recipe.jpg",
		Source:      "Example Kitchen",
		URL:         "https://example.com/recipe",
		Ingredients: []string{"2 chicken breasts", "1 cup rice"},
		Calories:    640,
		TotalNutrients: models.TotalNutrients{
			models.NutrientProtein: {Quantity: protein, Unit: "g"},
			models.NutrientFat:     {Quantity: 15, Unit: "g"},
			models.NutrientCarbs:   {Quantity: 70, Unit: "g"},
		},
		DietLabels:   []string{"high-protein"},
		HealthLabels: []string{"peanut-free"},
		IsExternal:   true,
	}
}
