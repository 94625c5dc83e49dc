package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"mining-miniapp-backend/internal/models"
	"mining-miniapp-backend/internal/services"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHandler streams live mining-status projections to connected
// clients and implements services.StatusNotifier so committed state changes
// are pushed immediately.
type WebSocketHandler struct {
	engine *services.MiningEngine
	hub    *statusHub
}

type statusHub struct {
	clients    map[int64]*websocket.Conn
	register   chan *wsClient
	unregister chan *wsClient
	statuses   chan *statusMessage
}

type wsClient struct {
	UserID int64
	Conn   *websocket.Conn
}

type statusMessage struct {
	UserID int64
	Status *models.MiningStatus
}

type wsMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

func NewWebSocketHandler(engine *services.MiningEngine) *WebSocketHandler {
	hub := &statusHub{
		clients:    make(map[int64]*websocket.Conn),
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
		statuses:   make(chan *statusMessage, 100),
	}

	go hub.run()

	return &WebSocketHandler{
		engine: engine,
		hub:    hub,
	}
}

// NotifyStatus implements services.StatusNotifier.
func (h *WebSocketHandler) NotifyStatus(userID int64, status *models.MiningStatus) {
	select {
	case h.hub.statuses <- &statusMessage{UserID: userID, Status: status}:
	default:
		// Drop the update rather than block an engine operation.
	}
}

func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	userID := c.GetInt64("user_id")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade to WebSocket: %v", err)
		return
	}

	client := &wsClient{
		UserID: userID,
		Conn:   conn,
	}

	h.hub.register <- client

	done := make(chan struct{})
	defer func() {
		close(done)
		h.hub.unregister <- client
		conn.Close()
	}()

	h.pushStatus(userID)

	go h.pollStatus(userID, done)

	for {
		var msg wsMessage
		err := conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		switch msg.Type {
		case "PING":
			conn.WriteJSON(wsMessage{
				Type: "PONG",
				Data: gin.H{"timestamp": time.Now().Unix()},
			})
		case "STATUS":
			h.pushStatus(userID)
		}
	}
}

// pollStatus refreshes the projection every few seconds while the socket is
// open so a running session's elapsed time keeps ticking client-side.
func (h *WebSocketHandler) pollStatus(userID int64, done <-chan struct{}) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			h.pushStatus(userID)
		case <-done:
			return
		}
	}
}

func (h *WebSocketHandler) pushStatus(userID int64) {
	status, err := h.engine.Status(userID)
	if err != nil {
		log.Printf("Failed to load status for WS: %v", err)
		return
	}
	h.NotifyStatus(userID, status)
}

func (hub *statusHub) run() {
	for {
		select {
		case client := <-hub.register:
			hub.clients[client.UserID] = client.Conn
			log.Printf("WS client registered: %d", client.UserID)

		case client := <-hub.unregister:
			if _, ok := hub.clients[client.UserID]; ok {
				delete(hub.clients, client.UserID)
				log.Printf("WS client unregistered: %d", client.UserID)
			}

		case msg := <-hub.statuses:
			if msg == nil {
				continue
			}
			if conn, ok := hub.clients[msg.UserID]; ok {
				conn.WriteJSON(wsMessage{
					Type: "STATUS_UPDATE",
					Data: statusJSON(msg.Status),
				})
			}
		}
	}
}
