package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sparetrack/backend/database"
	"github.com/sparetrack/backend/handlers"
	"github.com/sparetrack/backend/natsserver"
	"github.com/sparetrack/backend/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Connect to database
	if err := database.Connect(); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
	defer database.Close()

	// Ensure the default admin account exists
	handlers.SeedAdminUser()

	// Start embedded NATS server for the ledger event bus
	natsPort := 4222
	if p := os.Getenv("NATS_PORT"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil {
			natsPort = parsed
		}
	}

	cfg := natsserver.DefaultConfig()
	cfg.Port = natsPort
	natsServer, err := natsserver.New(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to start NATS server: %v", err)
	}
	defer natsServer.Shutdown()

	// Initialize ledger hub for WebSocket streaming
	ledgerHub, err := services.NewLedgerHub(natsServer.Conn())
	if err != nil {
		log.Fatalf("❌ Failed to start ledger hub: %v", err)
	}
	go ledgerHub.Run()
	handlers.SetLedgerHub(ledgerHub, natsServer)
	log.Println("📒 Ledger hub initialized")

	// Wire business services into the handlers
	inventoryService := services.NewInventoryService(database.DB, natsServer.Conn())
	ledgerService := services.NewLedgerService(database.DB)
	handlers.SetServices(inventoryService, ledgerService)

	// Setup Gin router
	if os.Getenv("ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// CORS middleware
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(config))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	// WebSocket route for the live ledger feed (outside /api group)
	router.GET("/ws/ledger", handlers.HandleLedgerWebSocket)

	// API Routes
	api := router.Group("/api")
	{
		// Auth
		api.POST("/auth/login", handlers.Login)

		// Inventory routes
		inventory := api.Group("/inventory", handlers.AuthMiddleware())
		{
			inventory.GET("", handlers.GetInventory)
			inventory.GET("/search", handlers.SearchInventory)
			inventory.PUT("/:name/take", handlers.TakeItem)

			// Admin-gated inventory mutations
			inventory.POST("", handlers.AdminMiddleware(), handlers.CreateItem)
			inventory.PUT("/:name/restock", handlers.AdminMiddleware(), handlers.RestockItem)
			inventory.DELETE("/:name", handlers.AdminMiddleware(), handlers.DeleteItem)
			inventory.GET("/export", handlers.AdminMiddleware(), handlers.ExportInventoryCSV)
		}

		// Transaction history routes (admin)
		transactions := api.Group("/transactions", handlers.AuthMiddleware(), handlers.AdminMiddleware())
		{
			transactions.GET("", handlers.GetTransactions)
			transactions.GET("/report", handlers.GetMonthlyReport)
			transactions.DELETE("", handlers.ClearTransactions)
		}

		// User management routes (admin)
		users := api.Group("/users", handlers.AuthMiddleware(), handlers.AdminMiddleware())
		{
			users.GET("", handlers.GetUsers)
			users.POST("", handlers.CreateUser)
			users.PUT("/:username/password", handlers.ChangePassword)
			users.DELETE("/:username", handlers.DeleteUser)
		}

		// Ledger hub stats (admin)
		api.GET("/ledger/stats", handlers.AuthMiddleware(), handlers.AdminMiddleware(), handlers.GetLedgerHubStats)
	}

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}

	log.Printf("🚀 Server running on http://localhost:%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
