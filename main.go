package main

import (
	"log"
	"net/http"

	"github.com/FTCService/JSJREWARD/config"
	"github.com/FTCService/JSJREWARD/database"
	"github.com/FTCService/JSJREWARD/handlers"
	"github.com/FTCService/JSJREWARD/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

func main() {
	// Load configuration
	if err := config.Load(); err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Connect to database
	db, err := database.Connect(config.AppConfig.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	// Initialize tables
	if err := db.InitializeTables(); err != nil {
		log.Fatal("Failed to initialize tables:", err)
	}

	// External collaborators
	authServer := services.NewAuthServerClient(config.AppConfig.AuthServerURL)
	notifier := services.NewNotificationService(
		config.AppConfig.SMSAPIURL,
		config.AppConfig.SMSPassKey,
		config.AppConfig.EmailAPIURL,
		config.AppConfig.EmailSender,
		authServer,
	)
	ledger := services.NewLedgerService(db, notifier)

	handlers.InitializeHandlers(db, ledger, authServer, notifier)

	// Set Gin mode
	if config.AppConfig.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	router := gin.Default()

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	router.Use(func(c *gin.Context) {
		corsHandler.HandlerFunc(c.Writer, c.Request)
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "JSJ Reward server is running",
		})
	})

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes
	handlers.RegisterRoutes(router)

	// Start server
	log.Printf("Starting server on port %s", config.AppConfig.ServerPort)
	if err := router.Run(":" + config.AppConfig.ServerPort); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
