package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/platewise/platewise-api/internal/edamam"
	"github.com/platewise/platewise-api/internal/models"
	"github.com/platewise/platewise-api/internal/repository"
)

// --- MockExternalSource ---

// MockExternalSource is a mock implementation of service.ExternalSource.
type MockExternalSource struct {
	SearchFunc func(ctx context.Context, q edamam.Query) ([]models.NormalizedRecipe, error)
}

func (m *MockExternalSource) Search(ctx context.Context, q edamam.Query) ([]models.NormalizedRecipe, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, q)
	}
	return nil, fmt.Errorf("Search not configured")
}

// --- MockRecipeRepo ---

// MockRecipeRepo is an in-memory implementation of repository.RecipeRepo.
// SearchRecipes mirrors the store's documented matching semantics:
// conjunctive ingredient containment plus diet/health label membership.
type MockRecipeRepo struct {
	mu      sync.Mutex
	Recipes map[uint]*models.Recipe
	NextID  uint

	// SearchErr, when set, is returned by SearchRecipes to simulate a
	// store failure.
	SearchErr error

	// UpdateImageErr, when set, is returned by UpdateRecipeImageURL.
	UpdateImageErr error
}

// NewMockRecipeRepo creates an empty MockRecipeRepo.
func NewMockRecipeRepo() *MockRecipeRepo {
	return &MockRecipeRepo{
		Recipes: make(map[uint]*models.Recipe),
		NextID:  1,
	}
}

func (m *MockRecipeRepo) CreateRecipe(recipe *models.Recipe) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	recipe.ID = m.NextID
	m.NextID++
	m.Recipes[recipe.ID] = recipe
	return nil
}

func (m *MockRecipeRepo) GetRecipeByID(recipeID uint) (*models.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	recipe, ok := m.Recipes[recipeID]
	if !ok {
		return nil, repository.NotFoundError{}
	}
	return recipe, nil
}

func (m *MockRecipeRepo) GetUserRecipes(userID uint) ([]models.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var recipes []models.Recipe
	for _, recipe := range m.Recipes {
		if recipe.CreatedByID == userID {
			recipes = append(recipes, *recipe)
		}
	}
	sortRecipesByID(recipes)
	return recipes, nil
}

func (m *MockRecipeRepo) SearchRecipes(filter repository.RecipeSearchFilter) ([]models.Recipe, error) {
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	var matches []models.Recipe
	for _, recipe := range m.Recipes {
		if !containsAll(recipe.Ingredients, filter.Ingredients) {
			continue
		}
		if filter.Diet != "" && !contains(recipe.DietLabels, filter.Diet) {
			continue
		}
		if filter.Health != "" && !contains(recipe.HealthLabels, filter.Health) {
			continue
		}
		matches = append(matches, *recipe)
	}
	sortRecipesByID(matches)
	return matches, nil
}

func (m *MockRecipeRepo) UpdateRecipeImageURL(recipeID uint, imageURL string) error {
	if m.UpdateImageErr != nil {
		return m.UpdateImageErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	recipe, ok := m.Recipes[recipeID]
	if !ok {
		return repository.NotFoundError{}
	}
	recipe.ImageURL = imageURL
	return nil
}

// containsAll reports whether every want entry appears in have.
func containsAll(have []string, want []string) bool {
	for _, w := range want {
		if !contains(have, w) {
			return false
		}
	}
	return true
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

func sortRecipesByID(recipes []models.Recipe) {
	sort.Slice(recipes, func(i, j int) bool { return recipes[i].ID < recipes[j].ID })
}

// --- MockImageStore ---

// MockImageStore is a mock implementation of service.ImageStore. It records
// uploaded and deleted keys so tests can assert on the cleanup flow.
type MockImageStore struct {
	mu         sync.Mutex
	UploadFunc func(ctx context.Context, imgBytes []byte, key string) (string, error)
	Uploaded   []string
	Deleted    []string
}

func (m *MockImageStore) Upload(ctx context.Context, imgBytes []byte, key string) (string, error) {
	m.mu.Lock()
	m.Uploaded = append(m.Uploaded, key)
	m.mu.Unlock()
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, imgBytes, key)
	}
	return "https://images.test/" + key, nil
}

func (m *MockImageStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deleted = append(m.Deleted, key)
	return nil
}

// --- MockUserRepo ---

// MockUserRepo is an in-memory implementation of repository.UserRepo.
type MockUserRepo struct {
	mu     sync.Mutex
	Users  map[uint]*models.User
	NextID uint
}

// NewMockUserRepo creates an empty MockUserRepo.
func NewMockUserRepo() *MockUserRepo {
	return &MockUserRepo{
		Users:  make(map[uint]*models.User),
		NextID: 1,
	}
}

func (m *MockUserRepo) CreateUser(user *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.Users {
		if existing.Username == user.Username {
			return nil, repository.DuplicateError{}
		}
		if user.Email != "" && existing.Email == user.Email {
			return nil, repository.DuplicateError{}
		}
	}
	user.ID = m.NextID
	m.NextID++
	m.Users[user.ID] = user
	return user, nil
}

func (m *MockUserRepo) GetUserByID(userID uint) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.Users[userID]
	if !ok {
		return nil, repository.NotFoundError{}
	}
	return user, nil
}

func (m *MockUserRepo) GetUserAuthByEmail(email string) (*models.User, error) {
	return m.GetUserByEmail(email)
}

func (m *MockUserRepo) GetUserByEmail(email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.Users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, repository.NotFoundError{}
}

func (m *MockUserRepo) GetUserByGoogleID(googleID string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.Users {
		if user.Auth != nil && user.Auth.GoogleID == googleID {
			return user, nil
		}
	}
	return nil, repository.NotFoundError{}
}

func (m *MockUserRepo) LinkGoogleID(userID uint, googleID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.Users[userID]
	if !ok {
		return repository.NotFoundError{}
	}
	if user.Auth == nil {
		user.Auth = &models.UserAuth{UserID: userID, AuthType: models.AuthGoogle}
	}
	user.Auth.GoogleID = googleID
	return nil
}

func (m *MockUserRepo) UsernameExists(username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.Users {
		if user.Username == username {
			return true, nil
		}
	}
	return false, nil
}

// --- MockSocialRepo ---

// MockSocialRepo is an in-memory implementation of repository.SocialRepo.
type MockSocialRepo struct {
	mu          sync.Mutex
	Favorites   map[uint]*models.Favorite
	Friendships map[uint]map[uint]bool // userID -> set of friendIDs
	Users       *MockUserRepo
	NextID      uint
}

// NewMockSocialRepo creates an empty MockSocialRepo backed by the given
// user repo for friend lookups.
func NewMockSocialRepo(users *MockUserRepo) *MockSocialRepo {
	return &MockSocialRepo{
		Favorites:   make(map[uint]*models.Favorite),
		Friendships: make(map[uint]map[uint]bool),
		Users:       users,
		NextID:      1,
	}
}

func (m *MockSocialRepo) CreateFavorite(favorite *models.Favorite) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.Favorites {
		if existing.UserID == favorite.UserID && existing.RecipeURI == favorite.RecipeURI {
			return repository.DuplicateError{}
		}
	}
	favorite.ID = m.NextID
	m.NextID++
	m.Favorites[favorite.ID] = favorite
	return nil
}

func (m *MockSocialRepo) DeleteFavorite(userID, favoriteID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	favorite, ok := m.Favorites[favoriteID]
	if !ok || favorite.UserID != userID {
		return repository.NotFoundError{}
	}
	delete(m.Favorites, favoriteID)
	return nil
}

func (m *MockSocialRepo) GetUserFavorites(userID uint) ([]models.Favorite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var favorites []models.Favorite
	for _, favorite := range m.Favorites {
		if favorite.UserID == userID {
			favorites = append(favorites, *favorite)
		}
	}
	sort.Slice(favorites, func(i, j int) bool { return favorites[i].ID < favorites[j].ID })
	return favorites, nil
}

func (m *MockSocialRepo) CreateFriendship(userID, friendID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Friendships[userID] == nil {
		m.Friendships[userID] = make(map[uint]bool)
	}
	if m.Friendships[userID][friendID] {
		return repository.DuplicateError{}
	}
	m.Friendships[userID][friendID] = true
	return nil
}

func (m *MockSocialRepo) DeleteFriendship(userID, friendID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.Friendships[userID][friendID] {
		return repository.NotFoundError{}
	}
	delete(m.Friendships[userID], friendID)
	return nil
}

func (m *MockSocialRepo) GetFriends(userID uint) ([]models.User, error) {
	ids, err := m.GetFriendIDs(userID)
	if err != nil {
		return nil, err
	}
	var friends []models.User
	for _, id := range ids {
		if user, err := m.Users.GetUserByID(id); err == nil {
			friends = append(friends, *user)
		}
	}
	return friends, nil
}

func (m *MockSocialRepo) GetFriendIDs(userID uint) ([]uint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []uint
	for id := range m.Friendships[userID] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (m *MockSocialRepo) AreFriends(userID, otherID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Friendships[userID][otherID], nil
}
