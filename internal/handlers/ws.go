package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/campfire-dev/campfire/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Hub fans project activity events out to connected WebSocket clients,
// keyed by project id. It is the only cross-request in-memory state in
// the process and holds nothing durable.
type Hub struct {
	mu             sync.RWMutex
	projects       map[uint]map[*websocket.Conn]bool
	allowedOrigins []string
}

func NewHub(allowedOrigins []string) *Hub {
	return &Hub{
		projects:       make(map[uint]map[*websocket.Conn]bool),
		allowedOrigins: allowedOrigins,
	}
}

type hubEvent struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	ProjectID uint   `json:"project_id"`
}

// Broadcast sends an event to every client watching the project.
func (h *Hub) Broadcast(projectID uint, eventType, message string) {
	h.mu.RLock()
	clients, exists := h.projects[projectID]
	if !exists || len(clients) == 0 {
		h.mu.RUnlock()
		return
	}

	conns := make([]*websocket.Conn, 0, len(clients))
	for conn := range clients {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	event := hubEvent{Type: eventType, Message: message, ProjectID: projectID}

	for _, conn := range conns {
		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			continue
		}

		if err := conn.WriteJSON(event); err != nil {
			log.Warn().Err(err).Uint("project_id", projectID).Msg("dropping websocket client")
			h.remove(projectID, conn)
			conn.Close()
		}
	}
}

func (h *Hub) add(projectID uint, conn *websocket.Conn) {
	h.mu.Lock()
	if h.projects[projectID] == nil {
		h.projects[projectID] = make(map[*websocket.Conn]bool)
	}
	h.projects[projectID][conn] = true
	h.mu.Unlock()
}

func (h *Hub) remove(projectID uint, conn *websocket.Conn) {
	h.mu.Lock()
	if clients, exists := h.projects[projectID]; exists {
		delete(clients, conn)
		if len(clients) == 0 {
			delete(h.projects, projectID)
		}
	}
	h.mu.Unlock()
}

// Serve upgrades the request and keeps the connection registered until
// the client goes away. Clients only listen; inbound text is ignored.
func (h *Hub) Serve(ctx *gin.Context) {
	projectID, err := utils.ParamID(ctx, "project_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				// Non-browser clients send no Origin header.
				return true
			}
			for _, allowed := range h.allowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		conn.Close()
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	h.add(projectID, conn)

	defer func() {
		h.remove(projectID, conn)
		conn.Close()
	}()

	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return
	}
	if err := conn.WriteJSON(hubEvent{Type: "connected", Message: "connected", ProjectID: projectID}); err != nil {
		return
	}

	ticker := time.NewTicker(pingPeriod)
	done := make(chan struct{})
	defer func() {
		ticker.Stop()
		close(done)
	}()

	go func() {
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	for {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			break
		}

		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Uint("project_id", projectID).Msg("websocket closed")
			}
			break
		}
	}
}
