package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sparetrack/backend/services"
)

var (
	inventoryService *services.InventoryService
	ledgerService    *services.LedgerService
)

// SetServices wires the business services into the handlers
func SetServices(inv *services.InventoryService, ledger *services.LedgerService) {
	inventoryService = inv
	ledgerService = ledger
}

// respondError maps service errors to HTTP status codes
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
	case errors.Is(err, services.ErrDuplicateName):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Item already exists"})
	case errors.Is(err, services.ErrInsufficientStock):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient quantity available"})
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("⚠️ Internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
	}
}
