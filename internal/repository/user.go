package repository

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	"github.com/platewise/platewise-api/internal/models"
	"gorm.io/gorm"
)

// UserRepository is a repository for interacting with users.
type UserRepository struct {
	DB *gorm.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// CreateUser creates a new user. Postgres raises unique violations on the
// INSERT itself, so the Create error is the one carrying the pq code.
func (r *UserRepository) CreateUser(user *models.User) (*models.User, error) {
	if err := r.DB.Create(user).Error; err != nil {
		return nil, mapUserUniqueViolation(err)
	}
	return user, nil
}

// mapUserUniqueViolation converts Postgres unique violations on the users
// table into typed duplicate errors, keyed off the constraint name.
func mapUserUniqueViolation(err error) error {
	var pgErr *pq.Error
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch {
		case strings.Contains(pgErr.Error(), "username"):
			return DuplicateError{message: "username already in use"}
		case strings.Contains(pgErr.Error(), "email"):
			return DuplicateError{message: "email already in use"}
		default:
			return DuplicateError{message: "User already exists"}
		}
	}
	return err
}

// GetUserByID retrieves a user by their ID.
func (r *UserRepository) GetUserByID(userID uint) (*models.User, error) {
	var user models.User
	if err := r.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError{message: "User not found"}
		}
		return nil, err
	}

	return &user, nil
}

// GetUserAuthByEmail retrieves a user with their authentication information
// by email. Emails are stored lower-cased.
func (r *UserRepository) GetUserAuthByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.DB.Preload("Auth").
		Where("email = ?", strings.ToLower(email)).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError{message: "User not found"}
		}
		return nil, err
	}

	return &user, nil
}

// GetUserByEmail retrieves a user by email without auth information.
func (r *UserRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.DB.Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError{message: "User not found"}
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByGoogleID retrieves a user by their federated Google identifier.
func (r *UserRepository) GetUserByGoogleID(googleID string) (*models.User, error) {
	var auth models.UserAuth
	if err := r.DB.Where("google_id = ?", googleID).First(&auth).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError{message: "User not found"}
		}
		return nil, err
	}
	return r.GetUserByID(auth.UserID)
}

// LinkGoogleID attaches a Google identifier to an existing user's auth record.
func (r *UserRepository) LinkGoogleID(userID uint, googleID string) error {
	return r.DB.Model(&models.UserAuth{}).
		Where("user_id = ?", userID).
		Update("google_id", googleID).Error
}

// UsernameExists checks if a username is already taken.
func (r *UserRepository) UsernameExists(username string) (bool, error) {
	var count int64
	err := r.DB.Model(&models.User{}).
		Where("username = ?", username).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
