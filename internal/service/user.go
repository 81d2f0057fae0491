package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	goaway "github.com/TwiN/go-away"
	"github.com/asaskevich/govalidator"
	"github.com/platewise/platewise-api/internal/config"
	"github.com/platewise/platewise-api/internal/models"
	"github.com/platewise/platewise-api/internal/oauth"
	"github.com/platewise/platewise-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// UserService is the business logic layer for user-related operations.
type UserService struct {
	Cfg      *config.Config
	Repo     repository.UserRepo
	Verifier oauth.IDTokenVerifier
}

// NewUserService is the constructor function for initializing a new UserService.
func NewUserService(cfg *config.Config, repo repository.UserRepo, verifier oauth.IDTokenVerifier) *UserService {
	return &UserService{
		Cfg:      cfg,
		Repo:     repo,
		Verifier: verifier,
	}
}

// UserResponse is the response object for user-related operations.
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateUser creates a new user with a bcrypt-hashed password.
func (s *UserService) CreateUser(username, email, password string) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %v", err)
	}

	user := &models.User{
		Username: username,
		Email:    strings.ToLower(email),
		Auth: &models.UserAuth{
			HashedPassword: string(hashedPassword),
			AuthType:       models.AuthStandard,
		},
	}

	user, err = s.Repo.CreateUser(user)
	if err != nil {
		return nil, err
	}

	return user, nil
}

// LoginUser logs in a user by email and password.
func (s *UserService) LoginUser(email, password string) (*models.User, error) {
	user, err := s.Repo.GetUserAuthByEmail(email)
	if err != nil {
		return nil, errors.New("invalid credentials")
	}

	if user.Auth == nil || user.Auth.HashedPassword == "" {
		// Federated account without a password.
		return nil, errors.New("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Auth.HashedPassword), []byte(password)); err != nil {
		return nil, errors.New("invalid credentials")
	}

	return user, nil
}

// LoginWithGoogle verifies a Google ID token and finds or creates the
// matching user: first by Google id, then by email (linking the Google id),
// otherwise a new federated account.
func (s *UserService) LoginWithGoogle(claims *oauth.GoogleClaims) (*models.User, error) {
	user, err := s.Repo.GetUserByGoogleID(claims.Subject)
	if err == nil {
		return user, nil
	}
	var notFound repository.NotFoundError
	if !errors.As(err, &notFound) {
		return nil, err
	}

	email := strings.ToLower(claims.Email)
	user, err = s.Repo.GetUserByEmail(email)
	if err == nil {
		if err := s.Repo.LinkGoogleID(user.ID, claims.Subject); err != nil {
			return nil, err
		}
		return user, nil
	}
	if !errors.As(err, &notFound) {
		return nil, err
	}

	newUser := &models.User{
		Username: usernameFromClaims(claims),
		Email:    email,
		Avatar:   claims.Picture,
		Auth: &models.UserAuth{
			GoogleID: claims.Subject,
			AuthType: models.AuthGoogle,
		},
	}
	created, err := s.Repo.CreateUser(newUser)
	if err != nil {
		var dup repository.DuplicateError
		if errors.As(err, &dup) {
			// Username collision with an existing account; disambiguate
			// with the tail of the Google subject.
			suffix := claims.Subject
			if len(suffix) > 6 {
				suffix = suffix[len(suffix)-6:]
			}
			newUser.Username = newUser.Username + suffix
			return s.Repo.CreateUser(newUser)
		}
		return nil, err
	}
	return created, nil
}

// GetUserByID gets a user by their ID.
func (s *UserService) GetUserByID(userID uint) (*models.User, error) {
	return s.Repo.GetUserByID(userID)
}

// ToUserResponse converts a User to a UserResponse.
func ToUserResponse(user *models.User) *UserResponse {
	return &UserResponse{
		ID:        strconv.FormatUint(uint64(user.ID), 10),
		Username:  user.Username,
		Email:     user.Email,
		Avatar:    user.Avatar,
		CreatedAt: user.CreatedAt,
	}
}

// ValidateUsername validates a username against a set of rules.
func (s *UserService) ValidateUsername(username string) error {
	exists, err := s.Repo.UsernameExists(username)
	if err != nil {
		return fmt.Errorf("error checking username: %v", err)
	}
	if exists {
		return fmt.Errorf("username is already taken")
	}

	minLength := 3
	if len(username) < minLength {
		return fmt.Errorf("username must be at least %d characters", minLength)
	}

	if !govalidator.IsAlphanumeric(username) {
		return fmt.Errorf("username can only contain alphanumeric characters")
	}

	var forbiddenUsernames = []string{
		"admin",
		"administrator",
		"root",
		"sys",
		"sysadmin",
		"system",
		"test",
		"testuser",
		"login",
		"logout",
		"register",
		"password",
		"user",
		"newuser",
		"support",
		"help",
		"faq",
		"platewise",
		"platewiseadmin",
		"platewise_admin",
		"platewise-admin",
	}

	lowercaseUsername := strings.ToLower(username)
	for _, forbiddenUsername := range forbiddenUsernames {
		if strings.EqualFold(lowercaseUsername, forbiddenUsername) {
			return fmt.Errorf("username '%s' is not allowed", username)
		}
	}

	// Profanity check
	profanityDetector := goaway.NewProfanityDetector().WithSanitizeLeetSpeak(true).WithSanitizeSpecialCharacters(true).WithSanitizeAccents(false)
	if profanityDetector.IsProfane(username) {
		return fmt.Errorf("username contains inappropriate language")
	}

	return nil
}

// ValidateEmail validates an email address.
func (s *UserService) ValidateEmail(email string) error {
	if !govalidator.IsEmail(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidatePassword validates a password against a set of rules.
func (s *UserService) ValidatePassword(password string) error {
	if len(password) < 6 {
		return fmt.Errorf("password must be 6 or more characters")
	}
	return nil
}

// usernameFromClaims derives an available username from a Google profile.
func usernameFromClaims(claims *oauth.GoogleClaims) string {
	base := strings.ToLower(strings.ReplaceAll(claims.Name, " ", ""))
	if base == "" {
		base = strings.SplitN(strings.ToLower(claims.Email), "@", 2)[0]
	}
	// Strip anything non-alphanumeric so later validation holds.
	var b strings.Builder
	for _, r := range base {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
