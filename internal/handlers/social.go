package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/platewise/platewise-api/internal/logger"
	"github.com/platewise/platewise-api/internal/models"
	"github.com/platewise/platewise-api/internal/repository"
	"github.com/platewise/platewise-api/internal/service"
	"github.com/platewise/platewise-api/internal/util"
	"go.uber.org/zap"
)

// SocialHandler is the handler for favorites and friends requests.
type SocialHandler struct {
	Service *service.SocialService
}

// NewSocialHandler is the constructor function for initializing a new SocialHandler.
func NewSocialHandler(socialService *service.SocialService) *SocialHandler {
	return &SocialHandler{Service: socialService}
}

// AddFavorite handles POST /api/favorites. The body is a normalized recipe
// snapshot, external or local.
func (h *SocialHandler) AddFavorite(c *gin.Context) {
	userID, err := util.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var recipe models.NormalizedRecipe
	if err := c.ShouldBindJSON(&recipe); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	favorite, err := h.Service.AddFavorite(userID, recipe)
	if err != nil {
		// Duplicates share the 400 path with validation failures.
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"favorite": favorite})
}

// RemoveFavorite handles DELETE /api/favorites/:favorite_id
func (h *SocialHandler) RemoveFavorite(c *gin.Context) {
	userID, err := util.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	favoriteID, err := parseUintParam(c.Param("favorite_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid favorite ID"})
		return
	}

	if err := h.Service.RemoveFavorite(userID, favoriteID); err != nil {
		var notFound repository.NotFoundError
		if errors.As(err, &notFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Favorite not found"})
			return
		}
		logger.Get().Error("failed to remove favorite", zap.Uint("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove favorite"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Favorite removed"})
}

// ListFavorites handles GET /api/favorites
func (h *SocialHandler) ListFavorites(c *gin.Context) {
	userID, err := util.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	favorites, err := h.Service.ListFavorites(userID)
	if err != nil {
		logger.Get().Error("failed to list favorites", zap.Uint("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list favorites"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"favorites": favorites})
}

// AddFriend handles POST /api/friends/:user_id
func (h *SocialHandler) AddFriend(c *gin.Context) {
	userID, err := util.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	friendID, err := parseUintParam(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	if err := h.Service.AddFriend(userID, friendID); err != nil {
		var notFound repository.NotFoundError
		var duplicate repository.DuplicateError
		switch {
		case errors.As(err, &notFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case errors.As(err, &duplicate):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Friend added"})
}

// RemoveFriend handles DELETE /api/friends/:user_id
func (h *SocialHandler) RemoveFriend(c *gin.Context) {
	userID, err := util.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	friendID, err := parseUintParam(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	if err := h.Service.RemoveFriend(userID, friendID); err != nil {
		var notFound repository.NotFoundError
		if errors.As(err, &notFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Friend not found"})
			return
		}
		logger.Get().Error("failed to remove friend", zap.Uint("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove friend"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Friend removed"})
}

// ListFriends handles GET /api/friends
func (h *SocialHandler) ListFriends(c *gin.Context) {
	userID, err := util.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	friends, err := h.Service.ListFriends(userID)
	if err != nil {
		logger.Get().Error("failed to list friends", zap.Uint("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list friends"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"friends": friends})
}

// GetFriendProfile handles GET /api/friends/:user_id/profile
func (h *SocialHandler) GetFriendProfile(c *gin.Context) {
	userID, err := util.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	friendID, err := parseUintParam(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	profile, err := h.Service.GetFriendProfile(userID, friendID)
	if err != nil {
		if errors.Is(err, service.ErrNotFriends) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		var notFound repository.NotFoundError
		if errors.As(err, &notFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		logger.Get().Error("failed to fetch friend profile",
			zap.Uint("user_id", userID), zap.Uint("friend_id", friendID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profile"})
		return
	}

	c.JSON(http.StatusOK, profile)
}
