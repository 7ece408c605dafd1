package routes

import (
	"log"
	"net/http"
	"strconv"

	"beerpong/handlers"
	"beerpong/middleware"
	"beerpong/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

func SetupRoutes(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	teamHandler *handlers.TeamHandler,
	gameHandler *handlers.GameHandler,
	gameUpdateHandler *handlers.GameUpdateHandler,
	hub *services.Hub,
	gameService *services.GameService,
	jwtSecret string,
) {
	// API routes
	api := router.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware(jwtSecret))
		{
			protected.GET("/auth/profile", authHandler.GetProfile)

			// Game routes
			games := protected.Group("/games")
			{
				games.POST("", gameHandler.CreateGame)
				games.POST("/:id/updates", gameUpdateHandler.Store)
				games.DELETE("/:id/updates/latest", gameUpdateHandler.DeleteLatest)
			}

			// Team routes
			teams := protected.Group("/teams")
			{
				teams.POST("", teamHandler.Create)
				teams.PUT("/:id", teamHandler.Update)
				teams.DELETE("/:id", teamHandler.Delete)
			}
		}

		// Public game routes
		games := api.Group("/games")
		{
			games.GET("/:id/live", gameHandler.Live)
			games.GET("/:id/updates/latest", gameUpdateHandler.Latest)
			games.GET("/:id/stats/:userID", gameHandler.ThrowStatistics)
		}

		// Public team routes
		teams := api.Group("/teams")
		{
			teams.GET("", teamHandler.Index)
			teams.GET("/:id", teamHandler.Show)
		}

		// Public user routes
		users := api.Group("/users")
		{
			users.GET("/:id/match-history", gameHandler.MatchHistory)
			users.GET("/:id/teams", teamHandler.UserTeams)
		}
	}

	// WebSocket endpoint for the per-game live channel
	router.GET("/ws/games/:id", func(c *gin.Context) {
		gameID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid game id"})
			return
		}

		// The channel only exists for games that do
		if _, err := gameService.GetLiveGameState(uint(gameID)); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
			return
		}

		var userID uint
		if raw := c.Query("userID"); raw != "" {
			parsed, err := strconv.ParseUint(raw, 10, 32)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
				return
			}
			userID = uint(parsed)
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("WebSocket upgrade failed for game %d: %v", gameID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade connection"})
			return
		}

		// Register client with hub - this will handle all message processing
		hub.RegisterClient(conn, uint(gameID), userID)
	})

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
