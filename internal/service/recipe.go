package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/platewise/platewise-api/internal/config"
	"github.com/platewise/platewise-api/internal/logger"
	"github.com/platewise/platewise-api/internal/models"
	"github.com/platewise/platewise-api/internal/repository"
	"github.com/platewise/platewise-api/internal/s3"
	"go.uber.org/zap"
)

// ActivityPublisher fans out activity events to connected friends. The feed
// hub implements it; a nil publisher disables the feed.
type ActivityPublisher interface {
	PublishRecipeUpload(actor *models.User, recipe *models.Recipe, recipients []uint)
}

// ImageStore holds uploaded recipe images. The S3 store implements it; a nil
// store disables image handling.
type ImageStore interface {
	Upload(ctx context.Context, imgBytes []byte, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// RecipeService is the business logic layer for recipe-related operations.
type RecipeService struct {
	Cfg       *config.Config
	Repo      repository.RecipeRepo
	Social    repository.SocialRepo
	Images    ImageStore
	Publisher ActivityPublisher
}

// NewRecipeService is the constructor function for initializing a new RecipeService.
func NewRecipeService(cfg *config.Config, repo repository.RecipeRepo, social repository.SocialRepo, images ImageStore, publisher ActivityPublisher) *RecipeService {
	return &RecipeService{
		Cfg:       cfg,
		Repo:      repo,
		Social:    social,
		Images:    images,
		Publisher: publisher,
	}
}

// UploadRecipeInput carries the fields of a recipe upload. Ingredients are
// comma-separated; TotalNutrients is an optional JSON object keyed by
// nutrient code.
type UploadRecipeInput struct {
	Label          string
	Directions     string
	Source         string
	URL            string
	Ingredients    string
	DietLabels     []string
	HealthLabels   []string
	Calories       float64
	TotalNutrients string
}

// UploadRecipe validates and persists a new recipe document, uploads the
// optional image to S3, and notifies the uploader's friends through the
// activity feed. Ingredients and labels are lower-cased and trimmed before
// storage so search comparisons stay case-insensitive.
func (s *RecipeService) UploadRecipe(ctx context.Context, user *models.User, input UploadRecipeInput, imageBytes []byte, imageExt string) (*models.Recipe, error) {
	if strings.TrimSpace(input.Label) == "" {
		return nil, fmt.Errorf("recipe label is required")
	}

	ingredients := SplitTerms(input.Ingredients)
	if len(ingredients) == 0 {
		return nil, fmt.Errorf("at least one ingredient is required")
	}

	dietLabels, err := s.normalizeLabels(input.DietLabels, s.Cfg.Labels.IsKnownDietLabel, "diet")
	if err != nil {
		return nil, err
	}
	healthLabels, err := s.normalizeLabels(input.HealthLabels, s.Cfg.Labels.IsKnownHealthLabel, "health")
	if err != nil {
		return nil, err
	}

	var nutrients models.TotalNutrients
	if strings.TrimSpace(input.TotalNutrients) != "" {
		if err := json.Unmarshal([]byte(input.TotalNutrients), &nutrients); err != nil {
			return nil, fmt.Errorf("totalNutrients must be a valid JSON object: %w", err)
		}
	}

	recipe := &models.Recipe{
		Label:          strings.TrimSpace(input.Label),
		Directions:     input.Directions,
		Source:         strings.TrimSpace(input.Source),
		URL:            strings.TrimSpace(input.URL),
		Ingredients:    ingredients,
		Calories:       input.Calories,
		TotalNutrients: nutrients,
		DietLabels:     dietLabels,
		HealthLabels:   healthLabels,
		CreatedByID:    user.ID,
	}

	if err := s.Repo.CreateRecipe(recipe); err != nil {
		return nil, err
	}

	if len(imageBytes) > 0 && s.Images != nil {
		s3Key := s3.GenerateRecipeImageKey(recipe.ID, imageExt)
		imageURL, err := s.Images.Upload(ctx, imageBytes, s3Key)
		if err != nil {
			// The document is already stored; an image failure should not
			// lose the upload.
			logger.Get().Error("failed to upload recipe image",
				zap.Uint("recipe_id", recipe.ID), zap.Error(err))
		} else {
			recipe.ImageURL = imageURL
			if err := s.Repo.UpdateRecipeImageURL(recipe.ID, imageURL); err != nil {
				// Drop the orphaned object; nothing references the key now.
				if delErr := s.Images.Delete(ctx, s3Key); delErr != nil {
					logger.Get().Warn("failed to delete orphaned recipe image",
						zap.String("s3_key", s3Key), zap.Error(delErr))
				}
				return nil, err
			}
		}
	}

	s.notifyFriends(user, recipe)

	return recipe, nil
}

// GetRecipe retrieves a recipe by its ID.
func (s *RecipeService) GetRecipe(recipeID uint) (*models.Recipe, error) {
	return s.Repo.GetRecipeByID(recipeID)
}

// ListUserRecipes lists the recipes a user has uploaded.
func (s *RecipeService) ListUserRecipes(userID uint) ([]models.Recipe, error) {
	return s.Repo.GetUserRecipes(userID)
}

// RecipeResponse is the response object for recipe detail endpoints.
type RecipeResponse struct {
	ID             string                `json:"id"`
	Label          string                `json:"label"`
	Image          string                `json:"image"`
	Source         string                `json:"source"`
	URL            string                `json:"url"`
	Directions     string                `json:"directions,omitempty"`
	Ingredients    []string              `json:"ingredients"`
	Calories       float64               `json:"calories"`
	TotalNutrients models.TotalNutrients `json:"totalNutrients"`
	DietLabels     []string              `json:"dietLabels"`
	HealthLabels   []string              `json:"healthLabels"`
	UploadedBy     string                `json:"uploadedBy,omitempty"`
	CreatedAt      string                `json:"createdAt"`
}

// ToRecipeResponse converts a stored recipe to its response shape.
func ToRecipeResponse(recipe *models.Recipe) *RecipeResponse {
	resp := &RecipeResponse{
		ID:             strconv.FormatUint(uint64(recipe.ID), 10),
		Label:          recipe.Label,
		Image:          recipe.ImageURL,
		Source:         recipe.Source,
		URL:            recipe.URL,
		Directions:     recipe.Directions,
		Ingredients:    recipe.Ingredients,
		Calories:       recipe.Calories,
		TotalNutrients: recipe.TotalNutrients,
		DietLabels:     recipe.DietLabels,
		HealthLabels:   recipe.HealthLabels,
		CreatedAt:      recipe.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if resp.Source == "" {
		resp.Source = localRecipeSource
	}
	if recipe.CreatedBy != nil {
		resp.UploadedBy = recipe.CreatedBy.Username
	}
	return resp
}

// normalizeLabels lower-cases and trims labels and checks them against the
// taxonomy so uploads stay searchable with the shared filter vocabulary.
func (s *RecipeService) normalizeLabels(labels []string, isKnown func(string) bool, kind string) ([]string, error) {
	normalized := make([]string, 0, len(labels))
	for _, label := range labels {
		term := normalizeTerm(label)
		if term == "" {
			continue
		}
		if s.Cfg.Labels != nil && !isKnown(term) {
			return nil, fmt.Errorf("unknown %s label: %s", kind, term)
		}
		normalized = append(normalized, term)
	}
	return normalized, nil
}

// notifyFriends publishes an upload event to the uploader's friends.
func (s *RecipeService) notifyFriends(user *models.User, recipe *models.Recipe) {
	if s.Publisher == nil || s.Social == nil {
		return
	}
	friendIDs, err := s.Social.GetFriendIDs(user.ID)
	if err != nil {
		logger.Get().Warn("failed to load friend ids for activity feed",
			zap.Uint("user_id", user.ID), zap.Error(err))
		return
	}
	if len(friendIDs) == 0 {
		return
	}
	s.Publisher.PublishRecipeUpload(user, recipe, friendIDs)
}
