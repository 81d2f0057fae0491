package repository

import "github.com/platewise/platewise-api/internal/models"

// RecipeSearchFilter holds the local-store query built from a search
// request. Ingredients are conjunctive: every term must appear in a stored
// recipe's ingredient list for the recipe to match. All fields are expected
// to be lower-cased and trimmed by the caller.
type RecipeSearchFilter struct {
	Ingredients []string
	Diet        string
	Health      string
}

// RecipeRepo is the interface for recipe repository operations.
type RecipeRepo interface {
	CreateRecipe(recipe *models.Recipe) error
	GetRecipeByID(recipeID uint) (*models.Recipe, error)
	GetUserRecipes(userID uint) ([]models.Recipe, error)
	SearchRecipes(filter RecipeSearchFilter) ([]models.Recipe, error)
	UpdateRecipeImageURL(recipeID uint, imageURL string) error
}

// UserRepo is the interface for user repository operations.
type UserRepo interface {
	CreateUser(user *models.User) (*models.User, error)
	GetUserByID(userID uint) (*models.User, error)
	GetUserAuthByEmail(email string) (*models.User, error)
	GetUserByGoogleID(googleID string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	LinkGoogleID(userID uint, googleID string) error
	UsernameExists(username string) (bool, error)
}

// SocialRepo is the interface for favorites and friends-graph operations.
type SocialRepo interface {
	CreateFavorite(favorite *models.Favorite) error
	DeleteFavorite(userID, favoriteID uint) error
	GetUserFavorites(userID uint) ([]models.Favorite, error)
	CreateFriendship(userID, friendID uint) error
	DeleteFriendship(userID, friendID uint) error
	GetFriends(userID uint) ([]models.User, error)
	GetFriendIDs(userID uint) ([]uint, error)
	AreFriends(userID, otherID uint) (bool, error)
}
