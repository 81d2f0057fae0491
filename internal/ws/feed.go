package ws

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/platewise/platewise-api/internal/logger"
	"github.com/platewise/platewise-api/internal/models"
	"go.uber.org/zap"
)

// WebSocket message types for the activity feed protocol.
const (
	MsgTypeConnected    = "connected"     // Connection confirmed
	MsgTypeRecipeUpload = "recipe_upload" // A friend uploaded a recipe
	MsgTypeError        = "error"         // Error message
)

// WSMessage is the envelope for all messages sent over the feed WebSocket.
type WSMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ConnectedPayload confirms a successful connection.
type ConnectedPayload struct {
	UserID uint `json:"user_id"`
}

// RecipeUploadPayload announces a friend's new recipe.
type RecipeUploadPayload struct {
	Username   string `json:"username"`
	RecipeID   string `json:"recipe_id"`
	Label      string `json:"label"`
	Image      string `json:"image,omitempty"`
	UploadedAt string `json:"uploaded_at"`
}

// FeedHandler manages WebSocket connections for the friends activity feed.
type FeedHandler struct {
	Hub       *Hub
	JwtSecret string
}

// NewFeedHandler returns a new FeedHandler.
func NewFeedHandler(hub *Hub, jwtSecret string) *FeedHandler {
	return &FeedHandler{
		Hub:       hub,
		JwtSecret: jwtSecret,
	}
}

// upgrader is configured for feed WebSocket upgrades.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		switch origin {
		case "https://platewise.app",
			"https://www.platewise.app",
			"https://api.platewise.app":
			return true
		}
		// Allow localhost for development
		if strings.HasPrefix(origin, "http://localhost:") || origin == "http://localhost" {
			return true
		}
		return false
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// ServeFeed upgrades an HTTP request to a WebSocket connection for the
// activity feed. Authentication is done via a "token" query parameter
// because WebSocket connections cannot easily use Authorization headers.
func (fh *FeedHandler) ServeFeed(c *gin.Context) {
	log := logger.Get()

	tokenString := c.Query("token")
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "token query parameter is required"})
		return
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(fh.JwtSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid or expired token"})
		return
	}

	// Ensure this is an access token
	tokenType, ok := claims["type"].(string)
	if !ok || tokenType != "access" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid token type"})
		return
	}

	idFloat, ok := claims["user_id"].(float64)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid user_id in token"})
		return
	}
	userID := uint(idFloat)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("websocket upgrade failed", zap.Uint("user_id", userID), zap.Error(err))
		return
	}

	client := &Client{
		Hub:    fh.Hub,
		Conn:   conn,
		Send:   make(chan []byte, 256),
		UserID: userID,
	}
	fh.Hub.Register <- client

	// Send connected confirmation
	connectedPayload, _ := json.Marshal(ConnectedPayload{UserID: userID})
	connectedMsg, _ := json.Marshal(WSMessage{
		Type:    MsgTypeConnected,
		Payload: connectedPayload,
	})
	client.Send <- connectedMsg

	log.Info("feed session started", zap.Uint("user_id", userID))

	// The feed is push-only; the read pump exists to process control frames
	// and detect disconnects.
	go client.WritePump()
	go client.ReadPump(func(*Client, []byte) {})
}

// PublishRecipeUpload delivers a recipe upload event to the given users.
// It satisfies the activity publisher collaborator of the recipe service.
func (fh *FeedHandler) PublishRecipeUpload(actor *models.User, recipe *models.Recipe, recipients []uint) {
	payload, err := json.Marshal(RecipeUploadPayload{
		Username:   actor.Username,
		RecipeID:   strconv.FormatUint(uint64(recipe.ID), 10),
		Label:      recipe.Label,
		Image:      recipe.ImageURL,
		UploadedAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		logger.Get().Error("failed to encode feed event", zap.Error(err))
		return
	}
	msg, err := json.Marshal(WSMessage{
		Type:    MsgTypeRecipeUpload,
		Payload: payload,
	})
	if err != nil {
		logger.Get().Error("failed to encode feed envelope", zap.Error(err))
		return
	}

	fh.Hub.Deliver <- &UserMessage{UserIDs: recipients, Message: msg}
}
