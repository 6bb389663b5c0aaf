package main

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/sparetrack/backend/database"
	"github.com/sparetrack/backend/models"
	"gorm.io/gorm"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Connect to database
	if err := database.Connect(); err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer database.Close()

	fmt.Println("Start cleanup...")

	// Delete all Transactions
	if err := database.DB.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Transaction{}).Error; err != nil {
		log.Fatalf("Failed to delete transactions: %v", err)
	}
	fmt.Println("✅ Deleted all transactions")

	// Delete all InventoryItems
	if err := database.DB.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.InventoryItem{}).Error; err != nil {
		log.Fatalf("Failed to delete inventory items: %v", err)
	}
	fmt.Println("✅ Deleted all inventory items")

	fmt.Println("✅ Cleanup complete")
}
