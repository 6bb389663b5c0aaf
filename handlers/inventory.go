package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocarina/gocsv"
	"github.com/sparetrack/backend/models"
	"github.com/sparetrack/backend/services"
)

// CreateItemRequest - Request to add a new inventory item (admin)
type CreateItemRequest struct {
	Name          string `json:"name" binding:"required"`
	Make          string `json:"make"`
	Model         string `json:"model"`
	Specification string `json:"specification"`
	Rack          string `json:"rack"`
	Bin           string `json:"bin"`
	Available     int    `json:"available" binding:"min=0"`
}

// TakeRequest - Request to withdraw stock (any authenticated user)
type TakeRequest struct {
	QuantityTaken int `json:"quantityTaken" binding:"required,min=1"`
}

// RestockRequest - Request to provision additional stock (admin).
// Quantity is the amount to add, not the new absolute value.
type RestockRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// GetInventory lists all items sorted by name
// GET /api/inventory
func GetInventory(c *gin.Context) {
	items, err := inventoryService.List()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// SearchInventory searches items by name, make, model or specification.
// An empty query returns an empty list.
// GET /api/inventory/search?q=term
func SearchInventory(c *gin.Context) {
	items, err := inventoryService.Search(c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// CreateItem adds a new item (admin)
// POST /api/inventory
func CreateItem(c *gin.Context) {
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := inventoryService.Create(services.NewItemInput{
		Name:          req.Name,
		Make:          req.Make,
		Model:         req.Model,
		Specification: req.Specification,
		Rack:          req.Rack,
		Bin:           req.Bin,
		Available:     req.Available,
	}, currentUsername(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

// TakeItem withdraws stock from an item
// PUT /api/inventory/:name/take
func TakeItem(c *gin.Context) {
	var req TakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := inventoryService.Take(c.Param("name"), req.QuantityTaken, currentUsername(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// RestockItem adds provisioned stock to an item (admin)
// PUT /api/inventory/:name/restock
func RestockItem(c *gin.Context) {
	var req RestockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := inventoryService.Restock(c.Param("name"), req.Quantity, currentUsername(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// DeleteItem removes an item (admin)
// DELETE /api/inventory/:name
func DeleteItem(c *gin.Context) {
	if err := inventoryService.Delete(c.Param("name"), currentUsername(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item deleted successfully"})
}

// inventoryCSVRow is one row of the CSV export
type inventoryCSVRow struct {
	Name          string `csv:"Name"`
	Make          string `csv:"Make"`
	Model         string `csv:"Model"`
	Specification string `csv:"Specification"`
	Rack          string `csv:"Rack"`
	Bin           string `csv:"Bin"`
	Available     int    `csv:"Available"`
	QuantityTaken int    `csv:"Quantity Taken"`
	CurrentStock  int    `csv:"Current Stock"`
	UpdatedAt     string `csv:"Updated"`
	UpdatedBy     string `csv:"Updated By"`
}

// ExportInventoryCSV downloads the full inventory as CSV (admin)
// GET /api/inventory/export
func ExportInventoryCSV(c *gin.Context) {
	items, err := inventoryService.List()
	if err != nil {
		respondError(c, err)
		return
	}

	rows := make([]inventoryCSVRow, len(items))
	for i, item := range items {
		rows[i] = csvRow(item)
	}

	filename := fmt.Sprintf("inventory_%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := gocsv.Marshal(&rows, c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write CSV"})
	}
}

func csvRow(item models.InventoryItem) inventoryCSVRow {
	return inventoryCSVRow{
		Name:          item.Name,
		Make:          item.Make,
		Model:         item.Model,
		Specification: item.Specification,
		Rack:          item.Rack,
		Bin:           item.Bin,
		Available:     item.Available,
		QuantityTaken: item.QuantityTaken,
		CurrentStock:  item.CurrentStock(),
		UpdatedAt:     item.UpdatedAt.Format(time.RFC3339),
		UpdatedBy:     item.UpdatedBy,
	}
}
