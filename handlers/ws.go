package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sparetrack/backend/natsserver"
	"github.com/sparetrack/backend/services"
)

var (
	ledgerHub  *services.LedgerHub
	natsServer *natsserver.EmbeddedNATS
	upgrader   = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			return true // Allow all origins for now
		},
	}
)

// SetLedgerHub sets the ledger hub and its backing NATS server for the
// handlers
func SetLedgerHub(hub *services.LedgerHub, nats *natsserver.EmbeddedNATS) {
	ledgerHub = hub
	natsServer = nats
}

// HandleLedgerWebSocket handles WebSocket connections for the live
// transaction feed
// GET /ws/ledger
func HandleLedgerWebSocket(c *gin.Context) {
	if ledgerHub == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Ledger hub not initialized"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("⚠️ WebSocket upgrade failed: %v", err)
		return
	}

	username := c.GetString("username")
	if username == "" {
		username = "anonymous"
	}

	client := services.NewLedgerClient(ledgerHub, conn, username, c.ClientIP())

	ledgerHub.Register(client)

	// Start goroutines for reading and writing
	go client.WritePump()
	go client.ReadPump()
}

// GetLedgerHubStats returns ledger hub statistics (admin)
// GET /api/ledger/stats
func GetLedgerHubStats(c *gin.Context) {
	if ledgerHub == nil {
		c.JSON(http.StatusOK, gin.H{"enabled": false})
		return
	}

	stats := ledgerHub.Stats()
	resp := gin.H{
		"enabled":    true,
		"clients":    stats.Clients,
		"eventsSent": stats.EventsSent,
	}
	if natsServer != nil {
		resp["nats"] = natsServer.GetStats()
	}
	c.JSON(http.StatusOK, resp)
}
