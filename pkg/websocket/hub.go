package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Hub fans server events out to every connected client. The current
// SOS alert is additionally kept in a single last-value slot so a
// client that connects after the trigger still receives it; a new
// alert or a resolution overwrites the slot (last writer wins).
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	rooms      map[string]map[*Client]bool
	mutex      sync.RWMutex

	lastAlert  *Message
	alertMutex sync.RWMutex
}

type Message struct {
	Type      string                 `json:"type"`
	RoomID    string                 `json:"room_id,omitempty"`
	Sender    string                 `json:"sender,omitempty"`
	Timestamp int64                  `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

const (
	MessageTypeSOSAlert    = "sos_alert"
	MessageTypeSOSResolved = "sos_resolved"
	MessageTypePostCreated = "post_created"
	MessageTypeChallenge   = "challenge_update"
	MessageTypeWelcome     = "welcome"
)

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mutex.Lock()
	h.clients[client] = true

	// Personal room for targeted notifications.
	personalRoom := "user_" + client.Email
	h.joinRoom(client, personalRoom)
	h.mutex.Unlock()

	log.Printf("Client registered: %s", client.Email)

	welcomeMsg := Message{
		Type:      MessageTypeWelcome,
		Timestamp: getCurrentTimestamp(),
		Data: map[string]interface{}{
			"message": "Connected successfully",
		},
	}
	h.sendToClient(client, welcomeMsg)

	// Replay the pending alert so late subscribers see the banner.
	if last := h.LastAlert(); last != nil && last.Type == MessageTypeSOSAlert {
		h.sendToClient(client, *last)
	}
}

func (h *Hub) unregisterClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if _, ok := h.clients[client]; ok {
		h.dropClient(client)
		log.Printf("Client unregistered: %s", client.Email)
	}
}

// dropClient removes the client from the hub and from every room, then
// closes its send channel. Requires h.mutex to be held; once it returns
// no delivery path can reach the closed channel.
func (h *Hub) dropClient(client *Client) {
	delete(h.clients, client)
	for roomID := range client.rooms {
		if room, ok := h.rooms[roomID]; ok {
			delete(room, client)
			if len(room) == 0 {
				delete(h.rooms, roomID)
			}
		}
	}
	close(client.send)
}

func (h *Hub) broadcastMessage(message []byte) {
	var msg Message
	if err := json.Unmarshal(message, &msg); err != nil {
		log.Printf("Error unmarshaling message: %v", err)
		return
	}

	if msg.RoomID != "" {
		h.sendToRoom(msg.RoomID, msg)
	} else {
		h.sendToAll(msg)
	}
}

// Broadcast delivers a message to all clients (or to its room) and,
// for SOS messages, updates the last-value slot first so replay and
// live delivery can never disagree on the latest state.
func (h *Hub) Broadcast(message Message) {
	switch message.Type {
	case MessageTypeSOSAlert, MessageTypeSOSResolved:
		h.setLastAlert(message)
	}

	if message.RoomID != "" {
		h.sendToRoom(message.RoomID, message)
		return
	}
	h.sendToAll(message)
}

func (h *Hub) SendToUser(email string, message Message) {
	h.sendToRoom("user_"+email, message)
}

func (h *Hub) LastAlert() *Message {
	h.alertMutex.RLock()
	defer h.alertMutex.RUnlock()

	if h.lastAlert == nil {
		return nil
	}
	copied := *h.lastAlert
	return &copied
}

func (h *Hub) setLastAlert(message Message) {
	h.alertMutex.Lock()
	defer h.alertMutex.Unlock()
	h.lastAlert = &message
}

func (h *Hub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

func (h *Hub) sendToAll(message Message) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	data, _ := json.Marshal(message)
	for client := range h.clients {
		select {
		case client.send <- data:
		default:
			h.dropClient(client)
		}
	}
}

func (h *Hub) sendToRoom(roomID string, message Message) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	room, exists := h.rooms[roomID]
	if !exists {
		return
	}

	data, _ := json.Marshal(message)
	for client := range room {
		select {
		case client.send <- data:
		default:
			h.dropClient(client)
		}
	}
}

func (h *Hub) sendToClient(client *Client, message Message) {
	data, _ := json.Marshal(message)
	select {
	case client.send <- data:
	default:
	}
}

// joinRoom requires h.mutex to be held.
func (h *Hub) joinRoom(client *Client, roomID string) {
	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[*Client]bool)
	}
	h.rooms[roomID][client] = true
	client.rooms[roomID] = true
}

func getCurrentTimestamp() int64 {
	return time.Now().Unix()
}
