package realtime

import (
	"log"
	"sync"
	"time"

	"github.com/statusdeck/statusdeck/internal/models"
)

const writeWait = 10 * time.Second

// Subscriber is the slice of *websocket.Conn the hub needs. Narrow on
// purpose so tests can swap in fakes.
type Subscriber interface {
	WriteJSON(v interface{}) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// ActionMessage is the server-to-client envelope for recorded actions.
type ActionMessage struct {
	Type string             `json:"type"`
	Data *models.UserAction `json:"data"`
}

// RoomKey names the subscriber group for one organization.
func RoomKey(organizationID string) string {
	return "org:" + organizationID
}

// Hub tracks which connections joined which organization rooms and fans
// recorded actions out to them. Delivery is best-effort, at-most-once: a
// failed write drops the connection, nothing is replayed. Constructed once
// in main and passed to everything that emits.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[Subscriber]bool
	relay Relay
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[Subscriber]bool),
	}
}

// UseRelay routes broadcasts through an external pub/sub layer so multiple
// instances share one feed. Deliveries then arrive via Deliver on every
// instance, including the originating one.
func (h *Hub) UseRelay(relay Relay) {
	h.relay = relay
}

func (h *Hub) Join(organizationID string, sub Subscriber) {
	room := RoomKey(organizationID)

	h.mu.Lock()
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[Subscriber]bool)
	}
	h.rooms[room][sub] = true
	h.mu.Unlock()
}

func (h *Hub) Leave(organizationID string, sub Subscriber) {
	room := RoomKey(organizationID)

	h.mu.Lock()
	if subs, exists := h.rooms[room]; exists {
		delete(subs, sub)

		if len(subs) == 0 {
			delete(h.rooms, room)
		}
	}
	h.mu.Unlock()
}

// Drop removes a disconnected subscriber from every room it joined.
func (h *Hub) Drop(sub Subscriber) {
	h.mu.Lock()
	for room, subs := range h.rooms {
		delete(subs, sub)

		if len(subs) == 0 {
			delete(h.rooms, room)
		}
	}
	h.mu.Unlock()
}

// BroadcastAction pushes a recorded action to the originating organization's
// room. Fire-and-forget: errors are logged, never returned to the mutation
// path.
func (h *Hub) BroadcastAction(action *models.UserAction) {
	if action == nil || action.OrganizationID == "" {
		return
	}

	if h.relay != nil {
		if err := h.relay.Publish(action); err != nil {
			log.Printf("Failed to publish action %s to relay: %v", action.ID, err)
		}
		return
	}

	h.Deliver(action)
}

// Deliver writes the action to local members of its organization's room.
func (h *Hub) Deliver(action *models.UserAction) {
	room := RoomKey(action.OrganizationID)

	h.mu.RLock()
	subs, exists := h.rooms[room]
	if !exists || len(subs) == 0 {
		h.mu.RUnlock()
		return
	}

	// Copy the member set to avoid holding the lock during writes
	subsCopy := make([]Subscriber, 0, len(subs))
	for sub := range subs {
		subsCopy = append(subsCopy, sub)
	}
	h.mu.RUnlock()

	message := ActionMessage{Type: "action", Data: action}

	for _, sub := range subsCopy {
		if err := sub.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			log.Printf("Failed to set write deadline for broadcast: %v", err)
			continue
		}

		if err := sub.WriteJSON(message); err != nil {
			log.Printf("Failed to broadcast action to client: %v", err)
			h.Drop(sub)
			sub.Close()
		}
	}
}
