package service

import (
	"fmt"
	"strconv"

	"github.com/platewise/platewise-api/internal/config"
	"github.com/platewise/platewise-api/internal/models"
	"github.com/platewise/platewise-api/internal/repository"
)

// SocialService is the business logic layer for favorites and the friends
// graph.
type SocialService struct {
	Cfg    *config.Config
	Repo   repository.SocialRepo
	Users  repository.UserRepo
	Recipe repository.RecipeRepo
}

// NewSocialService is the constructor function for initializing a new SocialService.
func NewSocialService(cfg *config.Config, repo repository.SocialRepo, users repository.UserRepo, recipes repository.RecipeRepo) *SocialService {
	return &SocialService{
		Cfg:    cfg,
		Repo:   repo,
		Users:  users,
		Recipe: recipes,
	}
}

// AddFavorite stores a snapshot of a recipe in the user's favorites. The
// recipe is keyed by its id: the external URI, or the local document id.
func (s *SocialService) AddFavorite(userID uint, recipe models.NormalizedRecipe) (*models.Favorite, error) {
	if recipe.ID == "" {
		return nil, fmt.Errorf("recipe id is required")
	}

	favorite := &models.Favorite{
		UserID:         userID,
		RecipeURI:      recipe.ID,
		Label:          recipe.Label,
		Image:          recipe.Image,
		Source:         recipe.Source,
		URL:            recipe.URL,
		Ingredients:    recipe.Ingredients,
		Calories:       recipe.Calories,
		TotalNutrients: recipe.TotalNutrients,
		DietLabels:     recipe.DietLabels,
		HealthLabels:   recipe.HealthLabels,
		IsExternal:     recipe.IsExternal,
	}

	if err := s.Repo.CreateFavorite(favorite); err != nil {
		return nil, err
	}
	return favorite, nil
}

// RemoveFavorite deletes one of the user's favorites.
func (s *SocialService) RemoveFavorite(userID, favoriteID uint) error {
	return s.Repo.DeleteFavorite(userID, favoriteID)
}

// ListFavorites lists the user's favorites.
func (s *SocialService) ListFavorites(userID uint) ([]models.Favorite, error) {
	return s.Repo.GetUserFavorites(userID)
}

// AddFriend adds another user to the caller's friends.
func (s *SocialService) AddFriend(userID, friendID uint) error {
	if userID == friendID {
		return fmt.Errorf("cannot add yourself as a friend")
	}
	if _, err := s.Users.GetUserByID(friendID); err != nil {
		return err
	}
	return s.Repo.CreateFriendship(userID, friendID)
}

// RemoveFriend removes a user from the caller's friends.
func (s *SocialService) RemoveFriend(userID, friendID uint) error {
	return s.Repo.DeleteFriendship(userID, friendID)
}

// FriendResponse is the response object for a friends-list entry.
type FriendResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
}

// ListFriends lists the caller's friends.
func (s *SocialService) ListFriends(userID uint) ([]FriendResponse, error) {
	friends, err := s.Repo.GetFriends(userID)
	if err != nil {
		return nil, err
	}

	responses := make([]FriendResponse, 0, len(friends))
	for _, friend := range friends {
		responses = append(responses, FriendResponse{
			ID:       strconv.FormatUint(uint64(friend.ID), 10),
			Username: friend.Username,
			Avatar:   friend.Avatar,
		})
	}
	return responses, nil
}

// FriendProfileResponse is a friend's public profile with their uploads.
type FriendProfileResponse struct {
	User    FriendResponse    `json:"user"`
	Recipes []*RecipeResponse `json:"recipes"`
}

// GetFriendProfile returns a friend's profile and uploaded recipes. The
// caller must have added the user as a friend.
func (s *SocialService) GetFriendProfile(userID, friendID uint) (*FriendProfileResponse, error) {
	ok, err := s.Repo.AreFriends(userID, friendID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFriends
	}

	friend, err := s.Users.GetUserByID(friendID)
	if err != nil {
		return nil, err
	}

	recipes, err := s.Recipe.GetUserRecipes(friendID)
	if err != nil {
		return nil, err
	}

	profile := &FriendProfileResponse{
		User: FriendResponse{
			ID:       strconv.FormatUint(uint64(friend.ID), 10),
			Username: friend.Username,
			Avatar:   friend.Avatar,
		},
		Recipes: make([]*RecipeResponse, 0, len(recipes)),
	}
	for i := range recipes {
		profile.Recipes = append(profile.Recipes, ToRecipeResponse(&recipes[i]))
	}
	return profile, nil
}

// ErrNotFriends is returned when a caller requests a profile of a user they
// have not added as a friend.
var ErrNotFriends = fmt.Errorf("not friends with this user")
