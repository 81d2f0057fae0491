package handlers

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/platewise/platewise-api/internal/logger"
	"github.com/platewise/platewise-api/internal/repository"
	"github.com/platewise/platewise-api/internal/service"
	"github.com/platewise/platewise-api/internal/util"
	"go.uber.org/zap"
)

// RecipeHandler is the handler for recipe-related requests.
type RecipeHandler struct {
	Service *service.RecipeService
}

// NewRecipeHandler is the constructor function for initializing a new RecipeHandler.
func NewRecipeHandler(recipeService *service.RecipeService) *RecipeHandler {
	return &RecipeHandler{Service: recipeService}
}

// allowedImageTypes is the set of accepted image file extensions.
var allowedImageTypes = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// UploadRecipe handles POST /api/recipes. The request is multipart form
// data; the image part is optional.
func (h *RecipeHandler) UploadRecipe(c *gin.Context) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	input := service.UploadRecipeInput{
		Label:          c.PostForm("label"),
		Directions:     c.PostForm("directions"),
		Source:         c.PostForm("source"),
		URL:            c.PostForm("url"),
		Ingredients:    c.PostForm("ingredients"),
		DietLabels:     c.PostFormArray("diet_labels"),
		HealthLabels:   c.PostFormArray("health_labels"),
		TotalNutrients: c.PostForm("total_nutrients"),
	}
	if caloriesStr := c.PostForm("calories"); caloriesStr != "" {
		calories, err := strconv.ParseFloat(caloriesStr, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "calories must be a number"})
			return
		}
		input.Calories = calories
	}

	var imgBytes []byte
	var imageExt string
	file, header, err := c.Request.FormFile("image")
	if err == nil {
		defer file.Close()

		imageExt = strings.ToLower(filepath.Ext(header.Filename))
		if !allowedImageTypes[imageExt] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported image type. Allowed: jpg, png, webp"})
			return
		}

		const maxSize = 10 << 20
		if header.Size > maxSize {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Image exceeds maximum size of 10MB"})
			return
		}

		imgBytes, err = io.ReadAll(file)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read image"})
			return
		}
	}

	recipe, err := h.Service.UploadRecipe(c.Request.Context(), user, input, imgBytes, imageExt)
	if err != nil {
		logger.Get().Error("failed to upload recipe", zap.Uint("user_id", user.ID), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"recipe": service.ToRecipeResponse(recipe)})
}

// GetRecipe handles GET /api/recipes/:recipe_id
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	recipeID, err := parseUintParam(c.Param("recipe_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid recipe ID"})
		return
	}

	recipe, err := h.Service.GetRecipe(recipeID)
	if err != nil {
		var notFound repository.NotFoundError
		if errors.As(err, &notFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
			return
		}
		logger.Get().Error("failed to fetch recipe", zap.Uint("recipe_id", recipeID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recipe"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipe": service.ToRecipeResponse(recipe)})
}

// ListMyRecipes handles GET /api/users/me/recipes
func (h *RecipeHandler) ListMyRecipes(c *gin.Context) {
	userID, err := util.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	recipes, err := h.Service.ListUserRecipes(userID)
	if err != nil {
		logger.Get().Error("failed to list user recipes", zap.Uint("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list recipes"})
		return
	}

	responses := make([]*service.RecipeResponse, 0, len(recipes))
	for i := range recipes {
		responses = append(responses, service.ToRecipeResponse(&recipes[i]))
	}

	c.JSON(http.StatusOK, gin.H{"recipes": responses})
}
