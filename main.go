package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campus-food-api/config"
	"campus-food-api/logger"
	"campus-food-api/routes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatal("Failed to load configuration: ", err)
	}

	logger.Init(cfg.LogLevel)
	gin.SetMode(cfg.GinMode)

	db, err := config.OpenDB(cfg.DBPath)
	if err != nil {
		logger.Log.Fatal("Failed to open database: ", err)
	}
	logger.Log.Info("Database connected and migrated")

	r := gin.Default()

	// CORS middleware for frontend integration
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "Campus Food Ordering API",
		})
	})

	// Welcome
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Campus Food Ordering API running",
			"docs":    "/api/state-machine",
			"health":  "/health",
			"roles":   []string{"student", "vendor", "delivery", "admin"},
		})
	})

	routes.SetupRoutes(r, cfg, db)

	logger.Log.Infof("Server running on http://localhost:%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Log.Fatal("Failed to start server: ", err)
	}
}
