package service

import (
	"testing"

	"github.com/platewise/platewise-api/internal/config"
	"github.com/platewise/platewise-api/internal/models"
	"github.com/platewise/platewise-api/internal/oauth"
	"github.com/platewise/platewise-api/internal/testutil"
	"golang.org/x/crypto/bcrypt"
)

func newTestUserService(repo *testutil.MockUserRepo) *UserService {
	return &UserService{
		Cfg:  &config.Config{},
		Repo: repo,
	}
}

func TestCreateUser_Success(t *testing.T) {
	repo := testutil.NewMockUserRepo()
	svc := newTestUserService(repo)

	user, err := svc.CreateUser("chefbob42", "Bob@Example.com", "Password1!")
	if err != nil {
		t.Fatalf("CreateUser error: %v", err)
	}
	if user == nil {
		t.Fatal("CreateUser returned nil user")
	}
	if user.Username != "chefbob42" {
		t.Errorf("Username = %q, want 'chefbob42'", user.Username)
	}
	if user.Email != "bob@example.com" {
		t.Errorf("Email = %q, want lower-cased 'bob@example.com'", user.Email)
	}
	if user.Auth == nil {
		t.Fatal("Auth should not be nil")
	}
	if user.Auth.AuthType != models.AuthStandard {
		t.Errorf("AuthType = %q, want 'standard'", user.Auth.AuthType)
	}
	// Verify password was hashed
	err = bcrypt.CompareHashAndPassword([]byte(user.Auth.HashedPassword), []byte("Password1!"))
	if err != nil {
		t.Error("Password was not correctly hashed")
	}
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	repo := testutil.NewMockUserRepo()
	svc := newTestUserService(repo)

	if _, err := svc.CreateUser("chefbob42", "bob@example.com", "Password1!"); err != nil {
		t.Fatalf("first CreateUser error: %v", err)
	}
	if _, err := svc.CreateUser("chefbob42", "other@example.com", "Password1!"); err == nil {
		t.Fatal("CreateUser with taken username should return error")
	}
}

func TestLoginUser_Success(t *testing.T) {
	repo := testutil.NewMockUserRepo()
	svc := newTestUserService(repo)

	hashedPwd, _ := bcrypt.GenerateFromPassword([]byte("Password1!"), 10)
	repo.CreateUser(&models.User{
		Username: "chefbob42",
		Email:    "bob@example.com",
		Auth: &models.UserAuth{
			HashedPassword: string(hashedPwd),
			AuthType:       models.AuthStandard,
		},
	})

	loggedIn, err := svc.LoginUser("bob@example.com", "Password1!")
	if err != nil {
		t.Fatalf("LoginUser error: %v", err)
	}
	if loggedIn.Username != "chefbob42" {
		t.Errorf("Username = %q, want 'chefbob42'", loggedIn.Username)
	}
}

func TestLoginUser_WrongPassword(t *testing.T) {
	repo := testutil.NewMockUserRepo()
	svc := newTestUserService(repo)

	hashedPwd, _ := bcrypt.GenerateFromPassword([]byte("Password1!"), 10)
	repo.CreateUser(&models.User{
		Username: "chefbob42",
		Email:    "bob@example.com",
		Auth: &models.UserAuth{
			HashedPassword: string(hashedPwd),
			AuthType:       models.AuthStandard,
		},
	})

	if _, err := svc.LoginUser("bob@example.com", "wrong"); err == nil {
		t.Fatal("LoginUser with wrong password should return error")
	}
}

func TestLoginUser_UnknownEmail(t *testing.T) {
	repo := testutil.NewMockUserRepo()
	svc := newTestUserService(repo)

	if _, err := svc.LoginUser("nobody@example.com", "Password1!"); err == nil {
		t.Fatal("LoginUser with unknown email should return error")
	}
}

func TestLoginUser_FederatedAccountHasNoPassword(t *testing.T) {
	repo := testutil.NewMockUserRepo()
	svc := newTestUserService(repo)

	repo.CreateUser(&models.User{
		Username: "googleonly",
		Email:    "federated@example.com",
		Auth: &models.UserAuth{
			GoogleID: "google-sub-123",
			AuthType: models.AuthGoogle,
		},
	})

	if _, err := svc.LoginUser("federated@example.com", "anything"); err == nil {
		t.Fatal("LoginUser against a federated account should return error")
	}
}

func TestLoginWithGoogle_ExistingGoogleUser(t *testing.T) {
	repo := testutil.NewMockUserRepo()
	svc := newTestUserService(repo)

	repo.CreateUser(&models.User{
		Username: "existinguser1",
		Email:    "existing@example.com",
		Auth: &models.UserAuth{
			GoogleID: "sub-existing",
			AuthType: models.AuthGoogle,
		},
	})

	user, err := svc.LoginWithGoogle(&oauth.GoogleClaims{
		Subject: "sub-existing",
		Email:   "existing@example.com",
	})
	if err != nil {
		t.Fatalf("LoginWithGoogle error: %v", err)
	}
	if user.Username != "existinguser1" {
		t.Errorf("Username = %q, want 'existinguser1'", user.Username)
	}
}

func TestLoginWithGoogle_LinksExistingEmailAccount(t *testing.T) {
	repo := testutil.NewMockUserRepo()
	svc := newTestUserService(repo)

	hashedPwd, _ := bcrypt.GenerateFromPassword([]byte("Password1!"), 10)
	created, _ := repo.CreateUser(&models.User{
		Username: "chefbob42",
		Email:    "bob@example.com",
		Auth: &models.UserAuth{
			HashedPassword: string(hashedPwd),
			AuthType:       models.AuthStandard,
		},
	})

	user, err := svc.LoginWithGoogle(&oauth.GoogleClaims{
		Subject: "sub-linkme",
		Email:   "Bob@Example.com",
	})
	if err != nil {
		t.Fatalf("LoginWithGoogle error: %v", err)
	}
	if user.ID != created.ID {
		t.Errorf("linked user ID = %d, want %d", user.ID, created.ID)
	}
	if user.Auth.GoogleID != "sub-linkme" {
		t.Errorf("GoogleID = %q, want 'sub-linkme'", user.Auth.GoogleID)
	}
}

func TestLoginWithGoogle_CreatesNewAccount(t *testing.T) {
	repo := testutil.NewMockUserRepo()
	svc := newTestUserService(repo)

	user, err := svc.LoginWithGoogle(&oauth.GoogleClaims{
		Subject: "sub-new-user-1",
		Email:   "new@example.com",
		Name:    "New Chef",
		Picture: "https://lh3.example.com/avatar.jpg",
	})
	if err != nil {
		t.Fatalf("LoginWithGoogle error: %v", err)
	}
	if user.Username != "newchef" {
		t.Errorf("Username = %q, want 'newchef'", user.Username)
	}
	if user.Email != "new@example.com" {
		t.Errorf("Email = %q", user.Email)
	}
	if user.Avatar == "" {
		t.Error("Avatar should be taken from the Google profile")
	}
	if user.Auth == nil || user.Auth.AuthType != models.AuthGoogle {
		t.Error("new account should be a federated account")
	}
}

func TestLoginWithGoogle_UsernameCollisionGetsSuffix(t *testing.T) {
	repo := testutil.NewMockUserRepo()
	svc := newTestUserService(repo)

	repo.CreateUser(&models.User{
		Username: "newchef",
		Email:    "taken@example.com",
		Auth:     &models.UserAuth{AuthType: models.AuthStandard, HashedPassword: "x"},
	})

	user, err := svc.LoginWithGoogle(&oauth.GoogleClaims{
		Subject: "1234567890",
		Email:   "new@example.com",
		Name:    "New Chef",
	})
	if err != nil {
		t.Fatalf("LoginWithGoogle error: %v", err)
	}
	if user.Username != "newchef567890" {
		t.Errorf("Username = %q, want 'newchef567890'", user.Username)
	}
}

func TestValidateUsername_Rules(t *testing.T) {
	repo := testutil.NewMockUserRepo()
	svc := newTestUserService(repo)

	if err := svc.ValidateUsername("chefbob42"); err != nil {
		t.Errorf("ValidateUsername('chefbob42') error: %v", err)
	}
	if err := svc.ValidateUsername("ab"); err == nil {
		t.Error("ValidateUsername should reject usernames under 3 characters")
	}
	if err := svc.ValidateUsername("bad name!"); err == nil {
		t.Error("ValidateUsername should reject non-alphanumeric usernames")
	}
	if err := svc.ValidateUsername("admin"); err == nil {
		t.Error("ValidateUsername should reject reserved usernames")
	}
	if err := svc.ValidateUsername("platewise"); err == nil {
		t.Error("ValidateUsername should reject the product name")
	}
}

func TestValidateUsername_Taken(t *testing.T) {
	repo := testutil.NewMockUserRepo()
	svc := newTestUserService(repo)

	repo.CreateUser(&models.User{Username: "chefbob42", Email: "bob@example.com"})

	if err := svc.ValidateUsername("chefbob42"); err == nil {
		t.Error("ValidateUsername should reject a taken username")
	}
}

func TestValidateEmail(t *testing.T) {
	svc := newTestUserService(testutil.NewMockUserRepo())

	if err := svc.ValidateEmail("good@example.com"); err != nil {
		t.Errorf("ValidateEmail('good@example.com') error: %v", err)
	}
	if err := svc.ValidateEmail("not-an-email"); err == nil {
		t.Error("ValidateEmail should reject malformed addresses")
	}
}

func TestValidatePassword(t *testing.T) {
	svc := newTestUserService(testutil.NewMockUserRepo())

	if err := svc.ValidatePassword("longenough"); err != nil {
		t.Errorf("ValidatePassword('longenough') error: %v", err)
	}
	if err := svc.ValidatePassword("short"); err == nil {
		t.Error("ValidatePassword should reject passwords under 6 characters")
	}
}
