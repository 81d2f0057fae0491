package models

import (
	"errors"

	"gorm.io/gorm"
)

// User is the model for a user.
type User struct {
	gorm.Model
	Username string `gorm:"unique;index"`
	Email    string `gorm:"unique;default:null"`
	Avatar   string

	Auth      *UserAuth  `gorm:"foreignKey:UserID"`
	Recipes   []*Recipe  `gorm:"foreignKey:CreatedByID"`
	Favorites []Favorite `gorm:"foreignKey:UserID"`
}

// UserAuth is the model for a user's authentication information. A standard
// user has a bcrypt-hashed password; a Google-federated user has a GoogleID
// and no password.
type UserAuth struct {
	gorm.Model
	UserID         uint `gorm:"unique;index"`
	HashedPassword string
	GoogleID       string       `gorm:"index;default:null"`
	AuthType       UserAuthType `gorm:"type:text"`
}

// UserAuthType is the type for the UserAuthType enum.
type UserAuthType string

// UserAuthType enum values.
const (
	AuthStandard UserAuthType = "standard"
	AuthGoogle   UserAuthType = "google"
)

// IsValidAuthType checks if the AuthType is valid.
func (ua *UserAuth) IsValidAuthType() bool {
	switch ua.AuthType {
	case AuthStandard, AuthGoogle:
		return true
	default:
		return false
	}
}

// BeforeCreate is a GORM hook that runs before creating a new UserAuth.
func (ua *UserAuth) BeforeCreate(tx *gorm.DB) (err error) {
	if !ua.IsValidAuthType() {
		// Cancel transaction
		return errors.New("invalid AuthType provided")
	}
	return nil
}

// BeforeUpdate is a GORM hook that runs before updating a UserAuth.
func (ua *UserAuth) BeforeUpdate(tx *gorm.DB) (err error) {
	if !ua.IsValidAuthType() {
		// Cancel transaction
		return errors.New("invalid AuthType provided")
	}
	return nil
}
