package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/statusdeck/statusdeck/internal/realtime"
	"github.com/statusdeck/statusdeck/internal/types"
	"github.com/statusdeck/statusdeck/internal/utils"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// ClientMessage is the client-to-server room control message.
type ClientMessage struct {
	Type           string `json:"type"`
	OrganizationID string `json:"organizationId"`
}

type WSHandler struct {
	hub *realtime.Hub
}

// pinger is the slice of *websocket.Conn the keepalive loop needs.
type pinger interface {
	SetWriteDeadline(t time.Time) error
	WriteMessage(messageType int, data []byte) error
}

// runPingLoop sends keepalive pings until the connection's handler exits or
// a write fails. Closing done releases the goroutine even though the ticker
// channel never closes.
func runPingLoop(conn pinger, ticks <-chan time.Time, done <-chan struct{}, userID string) {
	for {
		select {
		case <-done:
			return
		case <-ticks:
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Printf("Failed to set write deadline for user %s: %v", userID, err)
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("Ping failed for user %s: %v", userID, err)
				return
			}
		}
	}
}

func NewWSHandler(hub *realtime.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

// Connect upgrades the request and runs the room-control loop. The
// connection is authenticated by the same middleware as HTTP; joins are
// refused for any organization other than the caller's, so a client cannot
// subscribe itself into a foreign tenant's feed.
func (h *WSHandler) Connect(c *gin.Context) {
	currentUser, err := utils.GetCurrentUser(c)

	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			for _, allowed := range types.AllowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	done := make(chan struct{})

	defer func() {
		close(done)
		h.hub.Drop(conn)
		conn.Close()

		log.Printf("WebSocket connection closed for user %s", currentUser.ID)
	}()

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("Failed to set initial read deadline: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Failed to set read deadline in pong handler: %v", err)
		}
		return nil
	})

	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		log.Printf("Failed to set write deadline for welcome message: %v", err)
		return
	}

	err = conn.WriteJSON(map[string]string{
		"type":    "connected",
		"message": "WebSocket connection established",
	})

	if err != nil {
		log.Printf("Failed to send welcome message: %v", err)
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	go runPingLoop(conn, ticker.C, done, currentUser.ID)

	for {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Failed to set read deadline for user %s: %v", currentUser.ID, err)
			break
		}

		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error for user %s: %v", currentUser.ID, err)
			}
			break
		}

		var clientMessage ClientMessage

		if err := json.Unmarshal(message, &clientMessage); err != nil {
			log.Printf("Discarding malformed message from user %s: %v", currentUser.ID, err)
			continue
		}

		switch clientMessage.Type {
		case "join-organization":
			if clientMessage.OrganizationID != currentUser.OrganizationID {
				log.Printf("User %s refused join for organization %s", currentUser.ID, clientMessage.OrganizationID)
				continue
			}
			h.hub.Join(clientMessage.OrganizationID, conn)
			log.Printf("User %s joined organization room %s", currentUser.ID, clientMessage.OrganizationID)
		case "leave-organization":
			h.hub.Leave(clientMessage.OrganizationID, conn)
			log.Printf("User %s left organization room %s", currentUser.ID, clientMessage.OrganizationID)
		default:
			log.Printf("Unknown message type %q from user %s", clientMessage.Type, currentUser.ID)
		}
	}
}
