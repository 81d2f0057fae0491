package service

import (
	"errors"
	"testing"

	"github.com/platewise/platewise-api/internal/config"
	"github.com/platewise/platewise-api/internal/models"
	"github.com/platewise/platewise-api/internal/repository"
	"github.com/platewise/platewise-api/internal/testutil"
)

func newTestSocialService() (*SocialService, *testutil.MockUserRepo, *testutil.MockRecipeRepo) {
	users := testutil.NewMockUserRepo()
	recipes := testutil.NewMockRecipeRepo()
	social := testutil.NewMockSocialRepo(users)
	svc := NewSocialService(&config.Config{}, social, users, recipes)
	return svc, users, recipes
}

func TestAddFavorite_SnapshotsRecipe(t *testing.T) {
	svc, _, _ := newTestSocialService()

	external := testutil.TestExternalRecipe("http://recipes.example/a", "Bowl", 30)
	favorite, err := svc.AddFavorite(1, external)
	if err != nil {
		t.Fatalf("AddFavorite error: %v", err)
	}
	if favorite.RecipeURI != "http://recipes.example/a" {
		t.Errorf("RecipeURI = %q", favorite.RecipeURI)
	}
	if favorite.Label != "Bowl" {
		t.Errorf("Label = %q, want 'Bowl'", favorite.Label)
	}
	if !favorite.IsExternal {
		t.Error("favorite of an external recipe should keep IsExternal")
	}
}

func TestAddFavorite_MissingID(t *testing.T) {
	svc, _, _ := newTestSocialService()

	if _, err := svc.AddFavorite(1, models.NormalizedRecipe{Label: "No ID"}); err == nil {
		t.Fatal("AddFavorite without a recipe id should return error")
	}
}

func TestAddFavorite_DuplicateRejected(t *testing.T) {
	svc, _, _ := newTestSocialService()

	external := testutil.TestExternalRecipe("http://recipes.example/a", "Bowl", 30)
	if _, err := svc.AddFavorite(1, external); err != nil {
		t.Fatalf("first AddFavorite error: %v", err)
	}
	_, err := svc.AddFavorite(1, external)
	var dup repository.DuplicateError
	if !errors.As(err, &dup) {
		t.Fatalf("second AddFavorite error = %v, want DuplicateError", err)
	}

	// A different user may favorite the same recipe
	if _, err := svc.AddFavorite(2, external); err != nil {
		t.Errorf("AddFavorite by another user error: %v", err)
	}
}

func TestRemoveFavorite_NotFound(t *testing.T) {
	svc, _, _ := newTestSocialService()

	err := svc.RemoveFavorite(1, 404)
	var notFound repository.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("RemoveFavorite error = %v, want NotFoundError", err)
	}
}

func TestRemoveFavorite_OtherUsersFavorite(t *testing.T) {
	svc, _, _ := newTestSocialService()

	external := testutil.TestExternalRecipe("http://recipes.example/a", "Bowl", 30)
	favorite, _ := svc.AddFavorite(1, external)

	if err := svc.RemoveFavorite(2, favorite.ID); err == nil {
		t.Fatal("RemoveFavorite should not delete another user's favorite")
	}
}

func TestAddFriend_SelfRejected(t *testing.T) {
	svc, _, _ := newTestSocialService()

	if err := svc.AddFriend(1, 1); err == nil {
		t.Fatal("AddFriend with own id should return error")
	}
}

func TestAddFriend_UnknownUser(t *testing.T) {
	svc, _, _ := newTestSocialService()

	err := svc.AddFriend(1, 404)
	var notFound repository.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("AddFriend error = %v, want NotFoundError", err)
	}
}

func TestListFriends(t *testing.T) {
	svc, users, _ := newTestSocialService()

	alice, _ := users.CreateUser(&models.User{Username: "alice", Email: "alice@example.com"})
	bob, _ := users.CreateUser(&models.User{Username: "bobby", Email: "bob@example.com"})

	if err := svc.AddFriend(alice.ID, bob.ID); err != nil {
		t.Fatalf("AddFriend error: %v", err)
	}

	friends, err := svc.ListFriends(alice.ID)
	if err != nil {
		t.Fatalf("ListFriends error: %v", err)
	}
	if len(friends) != 1 {
		t.Fatalf("len(friends) = %d, want 1", len(friends))
	}
	if friends[0].Username != "bobby" {
		t.Errorf("friend = %q, want 'bobby'", friends[0].Username)
	}

	// The edge is directed: bob has not added alice
	bobFriends, _ := svc.ListFriends(bob.ID)
	if len(bobFriends) != 0 {
		t.Errorf("len(bob's friends) = %d, want 0", len(bobFriends))
	}
}

func TestGetFriendProfile_RequiresFriendship(t *testing.T) {
	svc, users, _ := newTestSocialService()

	alice, _ := users.CreateUser(&models.User{Username: "alice", Email: "alice@example.com"})
	bob, _ := users.CreateUser(&models.User{Username: "bobby", Email: "bob@example.com"})

	if _, err := svc.GetFriendProfile(alice.ID, bob.ID); !errors.Is(err, ErrNotFriends) {
		t.Fatalf("GetFriendProfile error = %v, want ErrNotFriends", err)
	}
}

func TestGetFriendProfile_IncludesRecipes(t *testing.T) {
	svc, users, recipes := newTestSocialService()

	alice, _ := users.CreateUser(&models.User{Username: "alice", Email: "alice@example.com"})
	bob, _ := users.CreateUser(&models.User{Username: "bobby", Email: "bob@example.com"})
	svc.AddFriend(alice.ID, bob.ID)

	recipe := testutil.TestStoredRecipe()
	recipe.CreatedByID = bob.ID
	recipes.CreateRecipe(recipe)

	profile, err := svc.GetFriendProfile(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("GetFriendProfile error: %v", err)
	}
	if profile.User.Username != "bobby" {
		t.Errorf("profile user = %q, want 'bobby'", profile.User.Username)
	}
	if len(profile.Recipes) != 1 {
		t.Fatalf("len(profile.Recipes) = %d, want 1", len(profile.Recipes))
	}
	if profile.Recipes[0].Label != recipe.Label {
		t.Errorf("recipe label = %q, want %q", profile.Recipes[0].Label, recipe.Label)
	}
}

func TestAddFavorite_AfterRemoveSucceeds(t *testing.T) {
	svc, _, _ := newTestSocialService()

	external := testutil.TestExternalRecipe("http://recipes.example/a", "Bowl", 30)
	favorite, err := svc.AddFavorite(1, external)
	if err != nil {
		t.Fatalf("AddFavorite error: %v", err)
	}
	if err := svc.RemoveFavorite(1, favorite.ID); err != nil {
		t.Fatalf("RemoveFavorite error: %v", err)
	}

	if _, err := svc.AddFavorite(1, external); err != nil {
		t.Errorf("re-favoriting a removed recipe should succeed, got: %v", err)
	}
}

func TestAddFriend_AfterRemoveSucceeds(t *testing.T) {
	svc, users, _ := newTestSocialService()

	alice, _ := users.CreateUser(&models.User{Username: "alice", Email: "alice@example.com"})
	bob, _ := users.CreateUser(&models.User{Username: "bobby", Email: "bob@example.com"})

	if err := svc.AddFriend(alice.ID, bob.ID); err != nil {
		t.Fatalf("AddFriend error: %v", err)
	}
	if err := svc.RemoveFriend(alice.ID, bob.ID); err != nil {
		t.Fatalf("RemoveFriend error: %v", err)
	}

	if err := svc.AddFriend(alice.ID, bob.ID); err != nil {
		t.Errorf("re-adding a removed friend should succeed, got: %v", err)
	}
}
