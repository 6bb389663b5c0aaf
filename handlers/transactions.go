package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sparetrack/backend/models"
	"github.com/sparetrack/backend/services"
)

// GetTransactions lists ledger entries, newest first (admin)
// GET /api/transactions?itemName=&type=&user=&limit=&offset=
func GetTransactions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	txType := models.TransactionType(c.Query("type"))
	if txType != "" && !txType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown transaction type"})
		return
	}

	page, err := ledgerService.Query(services.LedgerFilter{
		ItemName: c.Query("itemName"),
		Type:     txType,
		User:     c.Query("user"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetMonthlyReport builds the monthly history report (admin)
// GET /api/transactions/report?month=1-12&year=YYYY
func GetMonthlyReport(c *gin.Context) {
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month is required"})
		return
	}
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year is required"})
		return
	}

	transactions, err := ledgerService.QueryMonth(time.Month(month), year)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, services.Summarize(transactions))
}

// ClearTransactions wipes the whole ledger (admin, irreversible)
// DELETE /api/transactions
func ClearTransactions(c *gin.Context) {
	if err := ledgerService.Clear(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All transactions cleared"})
}
