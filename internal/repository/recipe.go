package repository

import (
	"errors"

	"github.com/lib/pq"
	"github.com/platewise/platewise-api/internal/logger"
	"github.com/platewise/platewise-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RecipeRepository is a repository for interacting with recipes.
type RecipeRepository struct {
	DB *gorm.DB
}

// NewRecipeRepository creates a new RecipeRepository.
func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{DB: db}
}

// CreateRecipe creates a new recipe document.
func (r *RecipeRepository) CreateRecipe(recipe *models.Recipe) error {
	tx := r.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	if err := tx.Create(recipe).Error; err != nil {
		tx.Rollback()
		logger.Get().Error("failed to create recipe", zap.Error(err))
		return err
	}

	return tx.Commit().Error
}

// GetRecipeByID retrieves a recipe by its ID.
func (r *RecipeRepository) GetRecipeByID(recipeID uint) (*models.Recipe, error) {
	var recipe models.Recipe

	err := r.DB.Preload("CreatedBy", func(db *gorm.DB) *gorm.DB {
		return db.Select("ID", "Username")
	}).
		Where("id = ?", recipeID).
		First(&recipe).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError{message: "Recipe not found"}
		}
		return nil, err
	}

	return &recipe, nil
}

// GetUserRecipes retrieves the recipes uploaded by a user, newest first.
func (r *RecipeRepository) GetUserRecipes(userID uint) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := r.DB.Where("created_by_id = ?", userID).
		Order("created_at DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	return recipes, nil
}

// SearchRecipes queries stored recipes with the given filter. Ingredient
// containment uses the Postgres array operator: the stored ingredient list
// must be a superset of the query terms. Diet/health filters use array
// membership. All values are stored lower-cased, so comparison is
// case-insensitive as long as callers lower-case the filter.
func (r *RecipeRepository) SearchRecipes(filter RecipeSearchFilter) ([]models.Recipe, error) {
	q := r.DB.Model(&models.Recipe{})

	if len(filter.Ingredients) > 0 {
		q = q.Where("ingredients @> ?", pq.Array(filter.Ingredients))
	}
	if filter.Diet != "" {
		q = q.Where("? = ANY (diet_labels)", filter.Diet)
	}
	if filter.Health != "" {
		q = q.Where("? = ANY (health_labels)", filter.Health)
	}

	var recipes []models.Recipe
	if err := q.Order("created_at DESC").Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// UpdateRecipeImageURL updates the image URL of a recipe.
func (r *RecipeRepository) UpdateRecipeImageURL(recipeID uint, imageURL string) error {
	err := r.DB.Model(&models.Recipe{}).
		Where("id = ?", recipeID).
		Update("ImageURL", imageURL).Error
	if err != nil {
		logger.Get().Error("failed to update recipe image URL", zap.Uint("recipe_id", recipeID), zap.Error(err))
	}
	return err
}
