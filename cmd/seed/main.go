package main

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/sparetrack/backend/database"
	"github.com/sparetrack/backend/models"
	"github.com/sparetrack/backend/services"
)

var sampleItems = []services.NewItemInput{
	{Name: "bearing 6204", Make: "SKF", Model: "6204-2RS", Specification: "20x47x14mm sealed", Rack: "A1", Bin: "03", Available: 40},
	{Name: "v-belt b42", Make: "Gates", Model: "B42", Specification: "17x1067mm classical", Rack: "A2", Bin: "11", Available: 25},
	{Name: "contactor 9a", Make: "Schneider", Model: "LC1D09", Specification: "9A 3P 24VDC coil", Rack: "B1", Bin: "02", Available: 12},
	{Name: "proximity sensor", Make: "Omron", Model: "E2E-X5ME1", Specification: "M12 5mm NPN NO", Rack: "B3", Bin: "07", Available: 18},
	{Name: "hydraulic filter", Make: "Parker", Model: "925023", Specification: "10 micron spin-on", Rack: "C2", Bin: "05", Available: 8},
	{Name: "gear oil 220", Make: "Mobil", Model: "Mobilgear 600 XP", Specification: "ISO VG 220, 5L can", Rack: "C4", Bin: "01", Available: 15},
	{Name: "solenoid valve", Make: "Festo", Model: "MFH-5-1/4", Specification: "5/2-way 1/4in", Rack: "D1", Bin: "09", Available: 10},
	{Name: "limit switch", Make: "Honeywell", Model: "SZL-WL-D-A01H", Specification: "roller lever SPDT", Rack: "D2", Bin: "04", Available: 20},
}

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

	fmt.Println("🌱 Starting inventory seed...")

	// No NATS connection: seeding should not emit live ledger events
	inventory := services.NewInventoryService(database.DB, nil)

	created := 0
	for _, input := range sampleItems {
		var count int64
		if err := database.DB.Model(&models.InventoryItem{}).Where("name = ?", input.Name).Count(&count).Error; err != nil {
			log.Fatalf("Failed to check item %s: %v", input.Name, err)
		}
		if count > 0 {
			fmt.Printf("⏭️  Skipping %s (already exists)\n", input.Name)
			continue
		}

		if _, err := inventory.Create(input, "seed"); err != nil {
			log.Fatalf("Failed to create item %s: %v", input.Name, err)
		}
		created++
	}

	fmt.Printf("✅ Seed complete: %d items created\n", created)
}
