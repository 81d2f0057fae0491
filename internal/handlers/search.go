package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/platewise/platewise-api/internal/logger"
	"github.com/platewise/platewise-api/internal/service"
	"go.uber.org/zap"
)

// SearchHandler handles recipe search requests.
type SearchHandler struct {
	Service *service.SearchService
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(searchService *service.SearchService) *SearchHandler {
	return &SearchHandler{Service: searchService}
}

// SearchRecipes handles GET /api/recipes/search. All query parameters are
// optional; range parameters use "min-max" strings.
func (h *SearchHandler) SearchRecipes(c *gin.Context) {
	req := service.SearchRequest{
		Ingredients: c.Query("ingredients"),
		Diet:        c.Query("diet"),
		Health:      c.Query("health"),
		Calories:    c.Query("calories"),
		Protein:     c.Query("protein"),
		Fat:         c.Query("fat"),
		Carbs:       c.Query("carbs"),
	}

	result, err := h.Service.Search(c.Request.Context(), req)
	if err != nil {
		logger.Get().Error("recipe search failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search recipes"})
		return
	}

	c.JSON(http.StatusOK, result)
}
