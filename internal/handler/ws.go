package handler

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/nats-io/nats.go"

	"fieldtrack/internal/service"
)

var (
	upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			// Token auth happens before the upgrade; origin is not the gate.
			return true
		},
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}

	pingInterval = 30 * time.Second
	writeTimeout = 10 * time.Second
)

// Client is one connected dashboard.
type Client struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte
	Hub  *WSHub
}

// WSHub relays visit and import events from NATS to connected admin
// dashboards. Events are fan-out only; clients never publish.
type WSHub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	natsConn   *nats.Conn
	visitSub   *nats.Subscription
	importSub  *nats.Subscription
	mu         sync.RWMutex
}

// NewWSHub creates a new hub
func NewWSHub(nc *nats.Conn) *WSHub {
	return &WSHub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		natsConn:   nc,
	}
}

// Run starts the hub's event loop. Without NATS the hub still serves
// connections; there is just nothing to relay.
func (h *WSHub) Run() {
	if h.natsConn != nil {
		h.subscribe()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			log.Printf("[WS] Client connected: %s, total clients: %d", client.ID, total)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			log.Printf("[WS] Client disconnected: %s, total clients: %d", client.ID, total)

		case message := <-h.broadcast:
			h.mu.RLock()
			clients := make([]*Client, 0, len(h.clients))
			for client := range h.clients {
				clients = append(clients, client)
			}
			h.mu.RUnlock()

			for _, client := range clients {
				select {
				case client.Send <- message:
				default:
					// Slow consumer. Drop it inline; sending to
					// h.unregister from this goroutine would deadlock
					// the loop.
					h.mu.Lock()
					if _, ok := h.clients[client]; ok {
						delete(h.clients, client)
						close(client.Send)
					}
					h.mu.Unlock()
					log.Printf("[WS] Client dropped (slow consumer): %s", client.ID)
				}
			}
		}
	}
}

func (h *WSHub) subscribe() {
	relay := func(kind string) nats.MsgHandler {
		return func(msg *nats.Msg) {
			data, err := json.Marshal(map[string]interface{}{
				"type": kind,
				"data": json.RawMessage(msg.Data),
			})
			if err != nil {
				log.Printf("[WS] Failed to wrap %s event: %v", kind, err)
				return
			}
			h.broadcast <- data
		}
	}

	var err error
	h.visitSub, err = h.natsConn.Subscribe(service.SubjectVisitRecorded, relay("visit"))
	if err != nil {
		log.Printf("[WS] Failed to subscribe to visit events: %v", err)
	}
	h.importSub, err = h.natsConn.Subscribe(service.SubjectImportCompleted, relay("import"))
	if err != nil {
		log.Printf("[WS] Failed to subscribe to import events: %v", err)
	}
	log.Println("[WS] Hub started, relaying visit and import events")
}

// Stop unsubscribes and drops all clients.
func (h *WSHub) Stop() {
	if h.visitSub != nil {
		h.visitSub.Unsubscribe()
	}
	if h.importSub != nil {
		h.importSub.Unsubscribe()
	}
	h.mu.Lock()
	for client := range h.clients {
		close(client.Send)
		client.Conn.Close()
		delete(h.clients, client)
	}
	h.mu.Unlock()
}

// ClientCount returns the number of connected clients.
func (h *WSHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ReadPump drains the client connection; incoming frames only keep the
// read deadline alive.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(4 * 1024)
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] Client %s read error: %v", c.ID, err)
			}
			break
		}
	}
}

// WritePump pushes broadcast messages and heartbeats to the client.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// WSHandler upgrades dashboard connections onto the hub.
type WSHandler struct {
	hub     *WSHub
	counter uint64
}

// NewWSHandler creates a WebSocket handler
func NewWSHandler(hub *WSHub) *WSHandler {
	return &WSHandler{hub: hub}
}

// HandleEvents upgrades the connection and joins the event stream.
func (h *WSHandler) HandleEvents(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] Failed to upgrade connection: %v", err)
		return
	}

	client := &Client{
		ID:   fmt.Sprintf("%d-%d", currentUserID(c), atomic.AddUint64(&h.counter, 1)),
		Conn: conn,
		Send: make(chan []byte, 256),
		Hub:  h.hub,
	}
	client.Hub.register <- client

	go client.WritePump()
	go client.ReadPump()
}

// GetStats returns hub statistics.
func (h *WSHandler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"connected_clients": h.hub.ClientCount()})
}
