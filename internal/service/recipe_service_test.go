package service

import (
	"context"
	"errors"
	"testing"

	"github.com/platewise/platewise-api/internal/config"
	"github.com/platewise/platewise-api/internal/models"
	"github.com/platewise/platewise-api/internal/testutil"
)

func newTestRecipeService(repo *testutil.MockRecipeRepo) *RecipeService {
	cfg := &config.Config{
		Labels: config.NewLabels(
			[]string{"balanced", "high-protein", "low-carb"},
			[]string{"vegan", "vegetarian", "gluten-free", "peanut-free"},
		),
	}
	return &RecipeService{Cfg: cfg, Repo: repo}
}

func TestUploadRecipe_Success(t *testing.T) {
	repo := testutil.NewMockRecipeRepo()
	svc := newTestRecipeService(repo)
	user := testutil.TestUser()

	recipe, err := svc.UploadRecipe(context.Background(), user, UploadRecipeInput{
		Label:          "Veggie Stir Fry",
		Directions:     "Chop. Fry. Serve.",
		Ingredients:    "Tofu, Broccoli , rice",
		DietLabels:     []string{"Balanced"},
		HealthLabels:   []string{"VEGAN"},
		Calories:       430,
		TotalNutrients: `{"PROCNT": {"quantity": 21, "unit": "g"}}`,
	}, nil, "")
	if err != nil {
		t.Fatalf("UploadRecipe error: %v", err)
	}
	if recipe.ID == 0 {
		t.Error("recipe should be assigned an id")
	}
	if recipe.CreatedByID != user.ID {
		t.Errorf("CreatedByID = %d, want %d", recipe.CreatedByID, user.ID)
	}

	// Ingredients and labels are stored lower-cased and trimmed
	want := []string{"tofu", "broccoli", "rice"}
	if len(recipe.Ingredients) != len(want) {
		t.Fatalf("len(Ingredients) = %d, want %d", len(recipe.Ingredients), len(want))
	}
	for i, ing := range want {
		if recipe.Ingredients[i] != ing {
			t.Errorf("Ingredients[%d] = %q, want %q", i, recipe.Ingredients[i], ing)
		}
	}
	if len(recipe.DietLabels) != 1 || recipe.DietLabels[0] != "balanced" {
		t.Errorf("DietLabels = %v, want [balanced]", recipe.DietLabels)
	}
	if len(recipe.HealthLabels) != 1 || recipe.HealthLabels[0] != "vegan" {
		t.Errorf("HealthLabels = %v, want [vegan]", recipe.HealthLabels)
	}
	if got := recipe.TotalNutrients.Quantity(models.NutrientProtein); got != 21 {
		t.Errorf("protein quantity = %v, want 21", got)
	}
}

func TestUploadRecipe_MissingLabel(t *testing.T) {
	svc := newTestRecipeService(testutil.NewMockRecipeRepo())

	_, err := svc.UploadRecipe(context.Background(), testutil.TestUser(), UploadRecipeInput{
		Ingredients: "tofu",
	}, nil, "")
	if err == nil {
		t.Fatal("UploadRecipe without a label should return error")
	}
}

func TestUploadRecipe_NoIngredients(t *testing.T) {
	svc := newTestRecipeService(testutil.NewMockRecipeRepo())

	_, err := svc.UploadRecipe(context.Background(), testutil.TestUser(), UploadRecipeInput{
		Label:       "Empty Bowl",
		Ingredients: " , ,",
	}, nil, "")
	if err == nil {
		t.Fatal("UploadRecipe without ingredients should return error")
	}
}

func TestUploadRecipe_UnknownDietLabel(t *testing.T) {
	svc := newTestRecipeService(testutil.NewMockRecipeRepo())

	_, err := svc.UploadRecipe(context.Background(), testutil.TestUser(), UploadRecipeInput{
		Label:       "Keto Bomb",
		Ingredients: "butter",
		DietLabels:  []string{"keto"},
	}, nil, "")
	if err == nil {
		t.Fatal("UploadRecipe with an unknown diet label should return error")
	}
}

func TestUploadRecipe_MalformedNutrients(t *testing.T) {
	svc := newTestRecipeService(testutil.NewMockRecipeRepo())

	_, err := svc.UploadRecipe(context.Background(), testutil.TestUser(), UploadRecipeInput{
		Label:          "Broken",
		Ingredients:    "rice",
		TotalNutrients: "{not json",
	}, nil, "")
	if err == nil {
		t.Fatal("UploadRecipe with malformed totalNutrients should return error")
	}
}

func TestUploadRecipe_StoresImage(t *testing.T) {
	repo := testutil.NewMockRecipeRepo()
	images := &testutil.MockImageStore{}
	svc := newTestRecipeService(repo)
	svc.Images = images

	recipe, err := svc.UploadRecipe(context.Background(), testutil.TestUser(), UploadRecipeInput{
		Label:       "Pictured Bowl",
		Ingredients: "rice",
	}, []byte("fake image bytes"), ".jpg")
	if err != nil {
		t.Fatalf("UploadRecipe error: %v", err)
	}

	if len(images.Uploaded) != 1 {
		t.Fatalf("len(Uploaded) = %d, want 1", len(images.Uploaded))
	}
	if recipe.ImageURL != "https://images.test/"+images.Uploaded[0] {
		t.Errorf("ImageURL = %q, want the stored location", recipe.ImageURL)
	}
	stored, _ := repo.GetRecipeByID(recipe.ID)
	if stored.ImageURL != recipe.ImageURL {
		t.Errorf("persisted ImageURL = %q, want %q", stored.ImageURL, recipe.ImageURL)
	}
	if len(images.Deleted) != 0 {
		t.Errorf("Deleted = %v, want no deletions on success", images.Deleted)
	}
}

func TestUploadRecipe_ImageUploadFailureKeepsRecipe(t *testing.T) {
	repo := testutil.NewMockRecipeRepo()
	images := &testutil.MockImageStore{
		UploadFunc: func(ctx context.Context, imgBytes []byte, key string) (string, error) {
			return "", errors.New("bucket unavailable")
		},
	}
	svc := newTestRecipeService(repo)
	svc.Images = images

	recipe, err := svc.UploadRecipe(context.Background(), testutil.TestUser(), UploadRecipeInput{
		Label:       "Unpictured Bowl",
		Ingredients: "rice",
	}, []byte("fake image bytes"), ".jpg")
	if err != nil {
		t.Fatalf("UploadRecipe should survive an image upload failure, got: %v", err)
	}
	if recipe.ImageURL != "" {
		t.Errorf("ImageURL = %q, want empty after upload failure", recipe.ImageURL)
	}
}

func TestUploadRecipe_ImagePersistFailureDeletesObject(t *testing.T) {
	repo := testutil.NewMockRecipeRepo()
	repo.UpdateImageErr = errors.New("connection reset")
	images := &testutil.MockImageStore{}
	svc := newTestRecipeService(repo)
	svc.Images = images

	_, err := svc.UploadRecipe(context.Background(), testutil.TestUser(), UploadRecipeInput{
		Label:       "Orphaned Bowl",
		Ingredients: "rice",
	}, []byte("fake image bytes"), ".jpg")
	if err == nil {
		t.Fatal("UploadRecipe should return the persistence error")
	}

	if len(images.Uploaded) != 1 {
		t.Fatalf("len(Uploaded) = %d, want 1", len(images.Uploaded))
	}
	if len(images.Deleted) != 1 || images.Deleted[0] != images.Uploaded[0] {
		t.Errorf("Deleted = %v, want the uploaded key %q", images.Deleted, images.Uploaded[0])
	}
}

func TestUploadRecipe_NotifiesFriends(t *testing.T) {
	repo := testutil.NewMockRecipeRepo()
	users := testutil.NewMockUserRepo()
	social := testutil.NewMockSocialRepo(users)
	social.CreateFriendship(2, 1)

	var published []uint
	svc := newTestRecipeService(repo)
	svc.Social = social
	svc.Publisher = publisherFunc(func(actor *models.User, recipe *models.Recipe, recipients []uint) {
		published = recipients
	})

	user := testutil.TestUser()
	social.CreateFriendship(user.ID, 2)

	_, err := svc.UploadRecipe(context.Background(), user, UploadRecipeInput{
		Label:       "Shared Bowl",
		Ingredients: "rice",
	}, nil, "")
	if err != nil {
		t.Fatalf("UploadRecipe error: %v", err)
	}
	if len(published) != 1 || published[0] != 2 {
		t.Errorf("published recipients = %v, want [2]", published)
	}
}

// publisherFunc adapts a function to the ActivityPublisher interface.
type publisherFunc func(actor *models.User, recipe *models.Recipe, recipients []uint)

func (f publisherFunc) PublishRecipeUpload(actor *models.User, recipe *models.Recipe, recipients []uint) {
	f(actor, recipe, recipients)
}

func TestGetRecipe_NotFound(t *testing.T) {
	svc := newTestRecipeService(testutil.NewMockRecipeRepo())

	if _, err := svc.GetRecipe(404); err == nil {
		t.Fatal("GetRecipe for a missing id should return error")
	}
}

func TestListUserRecipes_OnlyOwn(t *testing.T) {
	repo := testutil.NewMockRecipeRepo()
	svc := newTestRecipeService(repo)

	mine := testutil.TestStoredRecipe()
	mine.CreatedByID = 1
	theirs := testutil.TestStoredRecipe()
	theirs.CreatedByID = 2
	repo.CreateRecipe(mine)
	repo.CreateRecipe(theirs)

	recipes, err := svc.ListUserRecipes(1)
	if err != nil {
		t.Fatalf("ListUserRecipes error: %v", err)
	}
	if len(recipes) != 1 {
		t.Fatalf("len(recipes) = %d, want 1", len(recipes))
	}
	if recipes[0].CreatedByID != 1 {
		t.Errorf("CreatedByID = %d, want 1", recipes[0].CreatedByID)
	}
}

func TestToRecipeResponse_Defaults(t *testing.T) {
	recipe := testutil.TestStoredRecipe()
	recipe.Source = ""

	resp := ToRecipeResponse(recipe)
	if resp.Source != "User Uploaded" {
		t.Errorf("Source = %q, want 'User Uploaded'", resp.Source)
	}
	if resp.ID != "1" {
		t.Errorf("ID = %q, want '1'", resp.ID)
	}
}
