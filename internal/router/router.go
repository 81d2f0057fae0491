package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/platewise/platewise-api/internal/config"
	"github.com/platewise/platewise-api/internal/edamam"
	"github.com/platewise/platewise-api/internal/handlers"
	"github.com/platewise/platewise-api/internal/logger"
	"github.com/platewise/platewise-api/internal/middleware"
	"github.com/platewise/platewise-api/internal/oauth"
	"github.com/platewise/platewise-api/internal/repository"
	"github.com/platewise/platewise-api/internal/s3"
	"github.com/platewise/platewise-api/internal/service"
	"github.com/platewise/platewise-api/internal/ws"
	"gorm.io/gorm"
)

// SetupRouter sets up the Gin router.
func SetupRouter(cfg *config.Config, database *gorm.DB) *gin.Engine {
	// Create default Gin router
	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowCredentials = true
	corsConfig.AllowOrigins = []string{
		"https://api.platewise.app",
		"https://www.platewise.app",
		"https://platewise.app",
	}
	r.Use(cors.New(corsConfig))

	// Add request ID middleware for request correlation
	r.Use(logger.RequestIDMiddleware())

	// Ping route for testing
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Repositories
	userRepo := repository.NewUserRepository(database)
	recipeRepo := repository.NewRecipeRepository(database)
	socialRepo := repository.NewSocialRepository(database)

	// Activity feed hub (authenticated via query param token)
	hub := ws.NewHub()
	go hub.Run()
	feedHandler := ws.NewFeedHandler(hub, cfg.EnvVars.JwtSecretKey)

	// User-related routes setup
	verifier := oauth.NewGoogleVerifier(cfg.EnvVars.GoogleClientID)
	userService := service.NewUserService(cfg, userRepo, verifier)
	userHandler := handlers.NewUserHandler(userService)

	// Recipe-related routes setup
	imageStore := s3.NewStore(cfg)
	recipeService := service.NewRecipeService(cfg, recipeRepo, socialRepo, imageStore, feedHandler)
	recipeHandler := handlers.NewRecipeHandler(recipeService)

	// Search routes setup
	externalSource := edamam.NewClient(cfg.EnvVars.EdamamAppID, cfg.EnvVars.EdamamAppKey)
	searchService := service.NewSearchService(cfg, externalSource, recipeRepo)
	searchHandler := handlers.NewSearchHandler(searchService)

	// Favorites and friends routes setup
	socialService := service.NewSocialService(cfg, socialRepo, userRepo, recipeRepo)
	socialHandler := handlers.NewSocialHandler(socialService)

	// Group for API routes that don't require token verification
	apiPublic := r.Group("/api")
	{
		apiPublic.Use(middleware.RateLimitByIP(10, 5*time.Minute, 10*time.Minute))
		apiPublic.Use(middleware.CheckIDHeader(cfg.EnvVars.IDHeader))

		// Create a new user
		apiPublic.POST("/users/signup", userHandler.CreateUser)
		// Login a user
		apiPublic.POST("/users/login", userHandler.LoginUser)
		// Refresh an access token
		apiPublic.POST("/auth/refresh", userHandler.RefreshToken)
		// Sign in with a Google ID token
		apiPublic.POST("/auth/google", userHandler.GoogleLogin)
	}

	// Group for API routes that require token verification
	apiProtected := r.Group("/api")
	{
		apiProtected.Use(middleware.VerifyTokenMiddleware(cfg))

		// User-related routes

		// Verify a user's token
		apiProtected.GET("/users/verify", middleware.AttachUserToContext(userService), userHandler.VerifyToken)
		// Get the authenticated user
		apiProtected.GET("/users/me", middleware.AttachUserToContext(userService), userHandler.GetCurrentUser)
		// List the authenticated user's recipes
		apiProtected.GET("/users/me/recipes", recipeHandler.ListMyRecipes)

		// Recipe-related routes

		// Search recipes across the external catalog and local uploads
		apiProtected.GET("/recipes/search", searchHandler.SearchRecipes)
		// Upload a new recipe
		apiProtected.POST("/recipes", middleware.AttachUserToContext(userService), recipeHandler.UploadRecipe)
		// Get a single recipe by its ID
		apiProtected.GET("/recipes/:recipe_id", recipeHandler.GetRecipe)

		// Favorites routes

		apiProtected.POST("/favorites", socialHandler.AddFavorite)
		apiProtected.GET("/favorites", socialHandler.ListFavorites)
		apiProtected.DELETE("/favorites/:favorite_id", socialHandler.RemoveFavorite)

		// Friends routes

		apiProtected.POST("/friends/:user_id", socialHandler.AddFriend)
		apiProtected.DELETE("/friends/:user_id", socialHandler.RemoveFriend)
		apiProtected.GET("/friends", socialHandler.ListFriends)
		apiProtected.GET("/friends/:user_id/profile", socialHandler.GetFriendProfile)
	}

	// WebSocket routes (authenticated via query param token)
	r.GET("/api/ws/feed", feedHandler.ServeFeed)

	return r
}
