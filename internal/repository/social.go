package repository

import (
	"errors"

	"github.com/lib/pq"
	"github.com/platewise/platewise-api/internal/models"
	"gorm.io/gorm"
)

// SocialRepository is a repository for favorites and the friends graph.
type SocialRepository struct {
	DB *gorm.DB
}

// NewSocialRepository creates a new SocialRepository.
func NewSocialRepository(db *gorm.DB) *SocialRepository {
	return &SocialRepository{DB: db}
}

// CreateFavorite stores a favorite snapshot for a user. Favoriting the same
// recipe URI twice yields a DuplicateError.
func (r *SocialRepository) CreateFavorite(favorite *models.Favorite) error {
	if err := r.DB.Create(favorite).Error; err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return DuplicateError{message: "recipe already in favorites"}
		}
		return err
	}
	return nil
}

// DeleteFavorite removes one of the user's favorites. The delete is unscoped:
// a soft-deleted row would stay in the (user_id, recipe_uri) unique index and
// block re-favoriting the same recipe.
func (r *SocialRepository) DeleteFavorite(userID, favoriteID uint) error {
	result := r.DB.Unscoped().Where("user_id = ?", userID).Delete(&models.Favorite{}, favoriteID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return NotFoundError{message: "Favorite not found"}
	}
	return nil
}

// GetUserFavorites lists a user's favorites, newest first.
func (r *SocialRepository) GetUserFavorites(userID uint) ([]models.Favorite, error) {
	var favorites []models.Favorite
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&favorites).Error
	if err != nil {
		return nil, err
	}
	return favorites, nil
}

// CreateFriendship adds a directed friend edge.
func (r *SocialRepository) CreateFriendship(userID, friendID uint) error {
	err := r.DB.Create(&models.Friendship{UserID: userID, FriendID: friendID}).Error
	if err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return DuplicateError{message: "already friends"}
		}
		return err
	}
	return nil
}

// DeleteFriendship removes a friend edge. Unscoped for the same reason as
// DeleteFavorite: the (user_id, friend_id) unique index must not retain a
// soft-deleted edge, or the friend could never be re-added.
func (r *SocialRepository) DeleteFriendship(userID, friendID uint) error {
	result := r.DB.Unscoped().
		Where("user_id = ? AND friend_id = ?", userID, friendID).
		Delete(&models.Friendship{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return NotFoundError{message: "Friendship not found"}
	}
	return nil
}

// GetFriends lists the users a user has added as friends.
func (r *SocialRepository) GetFriends(userID uint) ([]models.User, error) {
	var friends []models.User
	err := r.DB.
		Joins("JOIN friendships ON friendships.friend_id = users.id").
		Where("friendships.user_id = ? AND friendships.deleted_at IS NULL", userID).
		Find(&friends).Error
	if err != nil {
		return nil, err
	}
	return friends, nil
}

// GetFriendIDs lists the IDs of a user's friends. Used by the activity feed
// to fan out upload events.
func (r *SocialRepository) GetFriendIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&models.Friendship{}).
		Where("user_id = ?", userID).
		Pluck("friend_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// AreFriends reports whether userID has added otherID as a friend.
func (r *SocialRepository) AreFriends(userID, otherID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&models.Friendship{}).
		Where("user_id = ? AND friend_id = ?", userID, otherID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
