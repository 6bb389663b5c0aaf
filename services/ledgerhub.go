package services

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/nats-io/nats.go"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 64
)

// LedgerHub fans committed inventory transactions out to WebSocket
// clients. A single NATS subscription on the ledger subject feeds every
// connected client, so dashboards see stock movements as they happen.
type LedgerHub struct {
	natsConn *nats.Conn
	natsSub  *nats.Subscription

	clients   map[*LedgerClient]bool
	clientsMu sync.RWMutex

	register   chan *LedgerClient
	unregister chan *LedgerClient

	eventsSent uint64
	eventsMu   sync.Mutex
}

// LedgerClient represents one WebSocket client watching the ledger feed.
type LedgerClient struct {
	hub        *LedgerHub
	conn       *websocket.Conn
	send       chan []byte
	username   string
	remoteAddr string
}

// LedgerEvent is the message pushed to clients for each transaction.
type LedgerEvent struct {
	Type string          `json:"type"` // always "transaction"
	Data json.RawMessage `json:"data"`
}

// NewLedgerHub creates the hub and subscribes to the ledger subject.
func NewLedgerHub(natsConn *nats.Conn) (*LedgerHub, error) {
	h := &LedgerHub{
		natsConn:   natsConn,
		clients:    make(map[*LedgerClient]bool),
		register:   make(chan *LedgerClient),
		unregister: make(chan *LedgerClient),
	}

	sub, err := natsConn.Subscribe(LedgerSubject, func(msg *nats.Msg) {
		h.broadcast(msg.Data)
	})
	if err != nil {
		return nil, err
	}
	h.natsSub = sub

	return h, nil
}

// Run starts the hub's main loop
func (h *LedgerHub) Run() {
	log.Println("📒 Ledger hub started")

	for {
		select {
		case client := <-h.register:
			h.clientsMu.Lock()
			h.clients[client] = true
			h.clientsMu.Unlock()
			log.Printf("📒 Ledger client connected: %s", client.remoteAddr)

		case client := <-h.unregister:
			h.clientsMu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.clientsMu.Unlock()
			log.Printf("📒 Ledger client disconnected: %s", client.remoteAddr)
		}
	}
}

// Register adds a client to the hub
func (h *LedgerHub) Register(client *LedgerClient) {
	h.register <- client
}

// broadcast sends one ledger event to every connected client. Slow
// clients skip events instead of blocking the hub.
func (h *LedgerHub) broadcast(data []byte) {
	event := LedgerEvent{Type: "transaction", Data: data}
	msg, err := json.Marshal(event)
	if err != nil {
		return
	}

	h.clientsMu.RLock()
	for client := range h.clients {
		select {
		case client.send <- msg:
		default:
			// Client buffer full, skip event
		}
	}
	clientCount := len(h.clients)
	h.clientsMu.RUnlock()

	if clientCount > 0 {
		h.eventsMu.Lock()
		h.eventsSent++
		h.eventsMu.Unlock()
	}
}

// HubStats reports hub statistics
type HubStats struct {
	Clients    int    `json:"clients"`
	EventsSent uint64 `json:"eventsSent"`
}

func (h *LedgerHub) Stats() HubStats {
	h.clientsMu.RLock()
	clientCount := len(h.clients)
	h.clientsMu.RUnlock()

	h.eventsMu.Lock()
	sent := h.eventsSent
	h.eventsMu.Unlock()

	return HubStats{Clients: clientCount, EventsSent: sent}
}

// NewLedgerClient creates a new ledger feed client
func NewLedgerClient(hub *LedgerHub, conn *websocket.Conn, username, remoteAddr string) *LedgerClient {
	return &LedgerClient{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBufferSize),
		username:   username,
		remoteAddr: remoteAddr,
	}
}

// ReadPump pumps control messages from the WebSocket connection. The feed
// is one-way; inbound traffic only keeps the connection alive.
func (c *LedgerClient) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("⚠️ WebSocket error: %v", err)
			}
			break
		}
	}
}

// WritePump pumps ledger events from the hub to the WebSocket connection
func (c *LedgerClient) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
