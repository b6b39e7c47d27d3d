package events

import (
	"log/slog"
	"sync"
)

const (
	TypeBracketGenerated   = "BRACKET_GENERATED"
	TypeMatchUpdated       = "MATCH_UPDATED"
	TypeTournamentFinished = "TOURNAMENT_FINISHED"
)

// Message is a bracket or match update addressed to one tournament room.
type Message struct {
	Type    string      `json:"type"`
	RoomID  string      `json:"room_id,omitempty"`
	Payload interface{} `json:"payload"`
}

// Broadcaster is the publishing side of the hub, accepted by the services.
type Broadcaster interface {
	BroadcastToRoom(roomID string, msg Message)
}

const sendBuffer = 16

// Hub fans tournament update messages out to in-process subscribers, one
// room per tournament. Delivery over an external transport is the host
// system's concern; the engine only publishes here.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[string]map[chan Message]struct{}
	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		rooms:  make(map[string]map[chan Message]struct{}),
		logger: logger,
	}
}

// Subscribe registers a listener for the room and returns its channel.
func (h *Hub) Subscribe(roomID string) <-chan Message {
	ch := make(chan Message, sendBuffer)
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.rooms[roomID]; !ok {
		h.rooms[roomID] = make(map[chan Message]struct{})
	}
	h.rooms[roomID][ch] = struct{}{}
	return ch
}

// Unsubscribe removes the listener and closes its channel. Empty rooms are
// dropped.
func (h *Hub) Unsubscribe(roomID string, sub <-chan Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients, ok := h.rooms[roomID]
	if !ok {
		return
	}
	for ch := range clients {
		if ch == sub {
			delete(clients, ch)
			close(ch)
			break
		}
	}
	if len(clients) == 0 {
		delete(h.rooms, roomID)
	}
}

// BroadcastToRoom sends the message to every subscriber of the room. A
// subscriber with a full buffer is skipped rather than blocking the engine.
func (h *Hub) BroadcastToRoom(roomID string, msg Message) {
	msg.RoomID = roomID

	h.mu.RLock()
	defer h.mu.RUnlock()
	clients, ok := h.rooms[roomID]
	if !ok {
		return
	}
	for ch := range clients {
		select {
		case ch <- msg:
		default:
			h.logger.Warn("subscriber buffer full, dropping message",
				slog.String("room", roomID), slog.String("type", msg.Type))
		}
	}
}
