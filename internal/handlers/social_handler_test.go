package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/platewise/platewise-api/internal/config"
	"github.com/platewise/platewise-api/internal/models"
	"github.com/platewise/platewise-api/internal/service"
	"github.com/platewise/platewise-api/internal/testutil"
)

func newTestSocialHandler() *SocialHandler {
	users := testutil.NewMockUserRepo()
	recipes := testutil.NewMockRecipeRepo()
	social := testutil.NewMockSocialRepo(users)
	svc := service.NewSocialService(&config.Config{}, social, users, recipes)
	return NewSocialHandler(svc)
}

// newSocialRouter wires the favorites routes behind a stub auth middleware
// that injects the given user ID.
func newSocialRouter(handler *SocialHandler, userID uint) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
	})
	r.POST("/favorites", handler.AddFavorite)
	r.DELETE("/favorites/:favorite_id", handler.RemoveFavorite)
	r.GET("/favorites", handler.ListFavorites)
	return r
}

func postFavorite(t *testing.T, r *gin.Engine, recipe models.NormalizedRecipe) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(recipe)
	if err != nil {
		t.Fatalf("failed to marshal favorite body: %v", err)
	}
	req := httptest.NewRequest("POST", "/favorites", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAddFavorite_Handler_DuplicateReturnsBadRequest(t *testing.T) {
	r := newSocialRouter(newTestSocialHandler(), 1)
	recipe := testutil.TestExternalRecipe("http://recipes.example/a", "Bowl", 30)

	if w := postFavorite(t, r, recipe); w.Code != http.StatusCreated {
		t.Fatalf("first add status = %d, want %d. body: %s", w.Code, http.StatusCreated, w.Body.String())
	}

	w := postFavorite(t, r, recipe)
	if w.Code != http.StatusBadRequest {
		t.Errorf("duplicate add status = %d, want %d. body: %s", w.Code, http.StatusBadRequest, w.Body.String())
	}
}

func TestFavorites_Handler_RemoveThenReAdd(t *testing.T) {
	r := newSocialRouter(newTestSocialHandler(), 1)
	recipe := testutil.TestExternalRecipe("http://recipes.example/a", "Bowl", 30)

	w := postFavorite(t, r, recipe)
	if w.Code != http.StatusCreated {
		t.Fatalf("add status = %d, want %d. body: %s", w.Code, http.StatusCreated, w.Body.String())
	}

	var created struct {
		Favorite struct {
			ID uint `json:"ID"`
		} `json:"favorite"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode add response: %v", err)
	}
	if created.Favorite.ID == 0 {
		t.Fatal("created favorite should carry an id")
	}

	req := httptest.NewRequest("DELETE", fmt.Sprintf("/favorites/%d", created.Favorite.ID), nil)
	del := httptest.NewRecorder()
	r.ServeHTTP(del, req)
	if del.Code != http.StatusOK {
		t.Fatalf("remove status = %d, want %d. body: %s", del.Code, http.StatusOK, del.Body.String())
	}

	if w := postFavorite(t, r, recipe); w.Code != http.StatusCreated {
		t.Errorf("re-add status = %d, want %d. body: %s", w.Code, http.StatusCreated, w.Body.String())
	}
}
