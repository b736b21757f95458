package realtime

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Event types pushed to subscribed browsers. Clients treat any of these as a
// hint to refetch the matching REST resource instead of trusting the payload
// as full state.
const (
	EventTimerUpdated    = "TIMER_UPDATED"
	EventLocationUpdated = "LOCATION_UPDATED"
	EventLocationsReset  = "LOCATIONS_RESET"
	EventCheckinRecorded = "CHECKIN_RECORDED"
	EventScoreAdjusted   = "SCORE_ADJUSTED"
)

// Message is the wire envelope for change notifications.
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Hub fans change notifications out to every connected client. The event has
// a single shared channel: all displays (team maps, admin dashboard, timer
// screens) watch the same stream, so there are no rooms.
type Hub struct {
	clients    map[*Client]bool
	Broadcast  chan []byte
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		Broadcast:  make(chan []byte, 64),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.clients[client] = true
			log.Printf("realtime: client registered, %d connected", len(h.clients))
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				client.closeSend()
				delete(h.clients, client)
				log.Printf("realtime: client unregistered, %d connected", len(h.clients))
			}
			h.mu.Unlock()

		case message := <-h.Broadcast:
			h.mu.RLock()
			for client := range h.clients {
				client.trySend(message)
			}
			h.mu.RUnlock()
		}
	}
}

// Publish marshals a notification and queues it for every connected client.
// A marshal failure is logged and dropped; notifications are best effort and
// the REST surface remains the source of truth.
func (h *Hub) Publish(eventType string, payload interface{}) {
	messageBytes, err := json.Marshal(Message{Type: eventType, Payload: payload})
	if err != nil {
		log.Printf("realtime: failed to marshal %s event: %v", eventType, err)
		return
	}
	select {
	case h.Broadcast <- messageBytes:
	default:
		log.Printf("realtime: broadcast queue full, dropping %s event", eventType)
	}
}
