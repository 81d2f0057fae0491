package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/platewise/platewise-api/internal/config"
	"github.com/platewise/platewise-api/internal/edamam"
	"github.com/platewise/platewise-api/internal/logger"
	"github.com/platewise/platewise-api/internal/models"
	"github.com/platewise/platewise-api/internal/repository"
	"go.uber.org/zap"
)

// maxSearchResults is the page size of a search response. The reported total
// counts all matches before truncation.
const maxSearchResults = 20

// localRecipeSource is the provenance label for uploaded recipes that carry
// no explicit source.
const localRecipeSource = "User Uploaded"

// ExternalSource is the third-party recipe search collaborator. Errors from
// it are absorbed by the aggregator: a degraded external service must never
// block local results from reaching the user.
type ExternalSource interface {
	Search(ctx context.Context, q edamam.Query) ([]models.NormalizedRecipe, error)
}

// SearchService merges external and local recipe search results, normalizes
// their shapes, and applies macro-nutrient range filters.
type SearchService struct {
	Cfg      *config.Config
	External ExternalSource
	Repo     repository.RecipeRepo
}

// NewSearchService creates a new SearchService.
func NewSearchService(cfg *config.Config, external ExternalSource, repo repository.RecipeRepo) *SearchService {
	return &SearchService{
		Cfg:      cfg,
		External: external,
		Repo:     repo,
	}
}

// SearchRequest carries the raw query parameters of a search. Range fields
// hold "min-max" strings; malformed values degrade to "no constraint".
type SearchRequest struct {
	Ingredients string
	Diet        string
	Health      string
	Calories    string
	Protein     string
	Fat         string
	Carbs       string
}

// SearchResult is the search response payload: at most maxSearchResults
// recipes plus the pre-truncation match count.
type SearchResult struct {
	Recipes []models.NormalizedRecipe `json:"recipes"`
	Total   int                       `json:"total"`
}

// Search runs both source adapters concurrently, merges external results
// ahead of local ones (order-preserving, no de-duplication across sources),
// filters on protein/fat/carbs ranges when supplied, and truncates the page.
// An external failure is logged and treated as zero external results; a
// local store failure fails the whole search.
func (s *SearchService) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	terms := SplitTerms(req.Ingredients)

	var (
		wg       sync.WaitGroup
		external []models.NormalizedRecipe
		local    []models.NormalizedRecipe
		localErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		results, err := s.External.Search(ctx, edamam.Query{
			Ingredients: req.Ingredients,
			Diet:        req.Diet,
			Health:      req.Health,
			Calories:    req.Calories,
		})
		if err != nil {
			logger.Get().Warn("external recipe search failed, continuing with local results only",
				zap.Error(err))
			return
		}
		external = results
	}()
	go func() {
		defer wg.Done()
		stored, err := s.Repo.SearchRecipes(repository.RecipeSearchFilter{
			Ingredients: terms,
			Diet:        normalizeTerm(req.Diet),
			Health:      normalizeTerm(req.Health),
		})
		if err != nil {
			localErr = err
			return
		}
		local = make([]models.NormalizedRecipe, 0, len(stored))
		for i := range stored {
			local = append(local, NormalizeStoredRecipe(&stored[i]))
		}
	}()
	wg.Wait()

	if localErr != nil {
		return nil, fmt.Errorf("local recipe search failed: %w", localErr)
	}

	merged := append(external, local...)

	if req.Protein != "" || req.Fat != "" || req.Carbs != "" {
		merged = filterByMacros(merged, req.Protein, req.Fat, req.Carbs)
	}

	total := len(merged)
	if len(merged) > maxSearchResults {
		merged = merged[:maxSearchResults]
	}

	return &SearchResult{Recipes: merged, Total: total}, nil
}

// ParseRange parses a "min-max" string into an inclusive interval. Missing
// or malformed input yields [0, +Inf] ("no constraint"); an unparseable min
// degrades to 0 and an unparseable max to +Inf. It never fails. No min<=max
// validation is performed: an inverted range simply matches nothing.
func ParseRange(rangeStr string) (min, max float64) {
	min, max = 0, math.Inf(1)
	if rangeStr == "" || !strings.Contains(rangeStr, "-") {
		return min, max
	}

	parts := strings.SplitN(rangeStr, "-", 2)
	if v, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64); err == nil {
		min = v
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64); err == nil {
		max = v
	}
	return min, max
}

// filterByMacros retains recipes whose protein, fat, and carb quantities all
// fall inside their respective ranges. A nutrient missing from a recipe
// counts as 0; a range that was not supplied is always satisfied.
func filterByMacros(recipes []models.NormalizedRecipe, protein, fat, carbs string) []models.NormalizedRecipe {
	minProtein, maxProtein := ParseRange(protein)
	minFat, maxFat := ParseRange(fat)
	minCarbs, maxCarbs := ParseRange(carbs)

	filtered := make([]models.NormalizedRecipe, 0, len(recipes))
	for _, recipe := range recipes {
		p := recipe.TotalNutrients.Quantity(models.NutrientProtein)
		f := recipe.TotalNutrients.Quantity(models.NutrientFat)
		c := recipe.TotalNutrients.Quantity(models.NutrientCarbs)

		if p >= minProtein && p <= maxProtein &&
			f >= minFat && f <= maxFat &&
			c >= minCarbs && c <= maxCarbs {
			filtered = append(filtered, recipe)
		}
	}
	return filtered
}

// NormalizeStoredRecipe maps an uploaded recipe document into the common
// search result shape. The id is the decimal document id, the source
// defaults to "User Uploaded", and the url defaults to empty.
func NormalizeStoredRecipe(recipe *models.Recipe) models.NormalizedRecipe {
	source := recipe.Source
	if source == "" {
		source = localRecipeSource
	}

	return models.NormalizedRecipe{
		ID:             strconv.FormatUint(uint64(recipe.ID), 10),
		Label:          recipe.Label,
		Image:          recipe.ImageURL,
		Source:         source,
		URL:            recipe.URL,
		Ingredients:    recipe.Ingredients,
		Calories:       recipe.Calories,
		TotalNutrients: recipe.TotalNutrients,
		DietLabels:     recipe.DietLabels,
		HealthLabels:   recipe.HealthLabels,
		IsExternal:     false,
	}
}

// SplitTerms splits comma-separated search terms, lower-casing and trimming
// each and dropping empties.
func SplitTerms(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	terms := make([]string, 0, len(parts))
	for _, part := range parts {
		term := normalizeTerm(part)
		if term != "" {
			terms = append(terms, term)
		}
	}
	return terms
}

func normalizeTerm(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}
