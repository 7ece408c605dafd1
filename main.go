package main

import (
	"log"

	"beerpong/config"
	"beerpong/fixtures"
	"beerpong/handlers"
	"beerpong/middleware"
	"beerpong/models"
	"beerpong/routes"
	"beerpong/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database models
	err = db.AutoMigrate(
		&models.User{},
		&models.Team{},
		&models.Game{},
		&models.GameUser{},
		&models.GameTeam{},
		&models.GameUpdate{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Seed demo data when requested
	if cfg.SeedDemo {
		if err := fixtures.Seed(db); err != nil {
			log.Fatal("Failed to seed demo data:", err)
		}
	}

	// Initialize Redis
	redisClient := config.InitRedis(cfg)

	// Initialize services
	authService := services.NewAuthService(db, cfg.JWTSecret)
	teamService := services.NewTeamService(db)
	gameService := services.NewGameService(db, redisClient)
	gameUpdateService := services.NewGameUpdateService(db, redisClient)

	// Initialize WebSocket hub
	hub := services.NewHub(gameService)
	go hub.Run()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	teamHandler := handlers.NewTeamHandler(teamService)
	gameHandler := handlers.NewGameHandler(gameService, hub)
	gameUpdateHandler := handlers.NewGameUpdateHandler(gameUpdateService, gameService, hub)

	// Setup Gin router
	router := gin.Default()

	// Add CORS middleware
	router.Use(middleware.CORS())

	// Setup routes
	routes.SetupRoutes(router, authHandler, teamHandler, gameHandler, gameUpdateHandler, hub, gameService, cfg.JWTSecret)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
