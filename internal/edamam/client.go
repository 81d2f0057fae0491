package edamam

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/platewise/platewise-api/internal/models"
)

const searchEndpoint = "https://api.edamam.com/search"

// resultWindow is the pagination window requested from the external service.
const resultWindow = 20

// Query holds the search terms forwarded to the external recipe service.
// Empty fields are omitted from the request entirely; the service rejects
// malformed empty filters.
type Query struct {
	Ingredients string
	Diet        string
	Health      string
	Calories    string
}

// Client calls the Edamam recipe search API and maps hits into the
// normalized recipe shape. Credentials are injected at construction so tests
// can substitute the endpoint and keys deterministically.
type Client struct {
	appID      string
	appKey     string
	endpoint   string
	httpClient *http.Client
}

// NewClient creates an Edamam search client.
func NewClient(appID, appKey string) *Client {
	return &Client{
		appID:    appID,
		appKey:   appKey,
		endpoint: searchEndpoint,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NewClientWithEndpoint creates a client against a custom endpoint. Used in
// tests to point the adapter at a local HTTP server.
func NewClientWithEndpoint(appID, appKey, endpoint string) *Client {
	c := NewClient(appID, appKey)
	c.endpoint = endpoint
	return c
}

type searchResponse struct {
	Count int   `json:"count"`
	Hits  []hit `json:"hits"`
}

type hit struct {
	Recipe rawRecipe `json:"recipe"`
}

// rawRecipe is the shape of a single external hit.
type rawRecipe struct {
	URI             string                `json:"uri"`
	Label           string                `json:"label"`
	Image           string                `json:"image"`
	Source          string                `json:"source"`
	URL             string                `json:"url"`
	IngredientLines []string              `json:"ingredientLines"`
	Calories        float64               `json:"calories"`
	TotalNutrients  models.TotalNutrients `json:"totalNutrients"`
	DietLabels      []string              `json:"dietLabels"`
	HealthLabels    []string              `json:"healthLabels"`
}

// Search issues one GET against the recipe search API and returns the hits
// mapped to NormalizedRecipe with IsExternal set. The caller decides how to
// handle errors; this client only reports them.
func (c *Client) Search(ctx context.Context, q Query) ([]models.NormalizedRecipe, error) {
	params := url.Values{}
	params.Set("app_id", c.appID)
	params.Set("app_key", c.appKey)
	params.Set("from", "0")
	params.Set("to", fmt.Sprintf("%d", resultWindow))
	if q.Ingredients != "" {
		params.Set("q", q.Ingredients)
	}
	if q.Diet != "" {
		params.Set("diet", q.Diet)
	}
	if q.Health != "" {
		params.Set("health", q.Health)
	}
	if q.Calories != "" {
		params.Set("calories", q.Calories)
	}

	reqURL := fmt.Sprintf("%s?%s", c.endpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create edamam request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("edamam search request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read edamam response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("edamam API returned status %d: %s", resp.StatusCode, string(body))
	}

	var sResp searchResponse
	if err := json.Unmarshal(body, &sResp); err != nil {
		return nil, fmt.Errorf("failed to parse edamam response: %w", err)
	}

	recipes := make([]models.NormalizedRecipe, 0, len(sResp.Hits))
	for _, h := range sResp.Hits {
		recipes = append(recipes, models.NormalizedRecipe{
			ID:             h.Recipe.URI,
			Label:          h.Recipe.Label,
			Image:          h.Recipe.Image,
			Source:         h.Recipe.Source,
			URL:            h.Recipe.URL,
			Ingredients:    lowerAll(h.Recipe.IngredientLines),
			Calories:       h.Recipe.Calories,
			TotalNutrients: h.Recipe.TotalNutrients,
			DietLabels:     lowerAll(h.Recipe.DietLabels),
			HealthLabels:   lowerAll(h.Recipe.HealthLabels),
			IsExternal:     true,
		})
	}
	return recipes, nil
}

// lowerAll lower-cases and trims every entry so external labels compare
// case-insensitively with search terms and stored data.
func lowerAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, strings.ToLower(strings.TrimSpace(v)))
	}
	return out
}
