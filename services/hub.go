package services

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"beerpong/models"

	"github.com/gorilla/websocket"
)

// Hub fans game-update events out to websocket subscribers. Every
// client is subscribed to exactly one game channel, named
// "game-updates.<gameId>". Delivery is fire-and-forget: a client
// whose send buffer is full is dropped.
type Hub struct {
	clients     map[*Client]bool
	register    chan *Client
	unregister  chan *Client
	mutex       sync.RWMutex
	gameService *GameService
}

type Client struct {
	hub    *Hub
	id     string
	socket *websocket.Conn
	send   chan []byte
	gameID uint
	userID uint
}

type Message struct {
	Type    string      `json:"type"`
	Channel string      `json:"channel"`
	Payload interface{} `json:"payload"`
}

// GameUpdatePayload is the wire contract of the "game-update" event.
// Created is true for appends and false for removals.
type GameUpdatePayload struct {
	UserID               *uint                 `json:"user_id"`
	GameID               uint                  `json:"game_id"`
	Type                 models.GameUpdateType `json:"type"`
	SelfCupPositions     []int                 `json:"self_cup_positions"`
	OpponentCupPositions []int                 `json:"opponent_cup_positions"`
	AffectedCup          *int                  `json:"affected_cup"`
	SelfCupsLeft         int                   `json:"self_cups_left"`
	OpponentCupsLeft     int                   `json:"opponent_cups_left"`
	CreatedAt            time.Time             `json:"created_at"`
	Created              bool                  `json:"created"`
}

func NewHub(gameService *GameService) *Hub {
	return &Hub{
		clients:     make(map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		gameService: gameService,
	}
}

func GameChannel(gameID uint) string {
	return fmt.Sprintf("game-updates.%d", gameID)
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			log.Printf("Client %s subscribed to %s (user %d) - total clients: %d", client.id, GameChannel(client.gameID), client.userID, h.clientCount())

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				log.Printf("Client %s left %s (user %d) - total clients: %d", client.id, GameChannel(client.gameID), client.userID, len(h.clients))
			}
			h.mutex.Unlock()
		}
	}
}

func (h *Hub) clientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// BroadcastGameUpdate notifies every subscriber of the game's channel
// about a ledger change.
func (h *Hub) BroadcastGameUpdate(update *models.GameUpdate, created bool) {
	payload := GameUpdatePayload{
		UserID:               update.UserID,
		GameID:               update.GameID,
		Type:                 update.Type,
		SelfCupPositions:     update.SelfCupPositions,
		OpponentCupPositions: update.OpponentCupPositions,
		AffectedCup:          update.AffectedCup,
		SelfCupsLeft:         update.SelfCupsLeft,
		OpponentCupsLeft:     update.OpponentCupsLeft,
		CreatedAt:            update.CreatedAt,
		Created:              created,
	}

	h.BroadcastToGame(update.GameID, "game-update", payload)
}

func (h *Hub) BroadcastToGame(gameID uint, messageType string, payload interface{}) {
	message := Message{
		Type:    messageType,
		Channel: GameChannel(gameID),
		Payload: payload,
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling %s message: %v", messageType, err)
		return
	}

	h.mutex.Lock()
	sent := 0
	for client := range h.clients {
		if client.gameID != gameID {
			continue
		}
		select {
		case client.send <- data:
			sent++
		default:
			close(client.send)
			delete(h.clients, client)
		}
	}
	h.mutex.Unlock()

	log.Printf("Broadcast %s to %d clients on %s", messageType, sent, GameChannel(gameID))
}

// SendGameStateSync pushes the current live snapshot to one client,
// used when a client joins or explicitly asks for a resync.
func (h *Hub) SendGameStateSync(client *Client) {
	if h.gameService == nil {
		return
	}

	state, err := h.gameService.GetLiveGameState(client.gameID)
	if err != nil {
		log.Printf("Error getting live state for client %s: %v", client.id, err)
		return
	}

	message := Message{
		Type:    "game_state_sync",
		Channel: GameChannel(client.gameID),
		Payload: state,
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling game state sync message: %v", err)
		return
	}

	select {
	case client.send <- data:
	default:
		h.mutex.Lock()
		close(client.send)
		delete(h.clients, client)
		h.mutex.Unlock()
	}
}

// SubscriberCount returns the number of clients on a game's channel.
func (h *Hub) SubscriberCount(gameID uint) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	count := 0
	for client := range h.clients {
		if client.gameID == gameID {
			count++
		}
	}
	return count
}

func (h *Hub) RegisterClient(conn *websocket.Conn, gameID uint, userID uint) *Client {
	client := &Client{
		hub:    h,
		id:     generateClientID(),
		socket: conn,
		send:   make(chan []byte, 256),
		gameID: gameID,
		userID: userID,
	}

	h.register <- client

	go client.writePump()
	go client.readPump()

	return client
}

func (h *Hub) UnregisterClient(client *Client) {
	h.unregister <- client
}

func (c *Client) readPump() {
	defer func() {
		c.hub.UnregisterClient(c)
		c.socket.Close()
	}()

	for {
		_, message, err := c.socket.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			break
		}

		var msg Message
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("Error unmarshaling message: %v", err)
			continue
		}

		c.handleMessage(msg)
	}
}

func (c *Client) writePump() {
	defer func() {
		c.socket.Close()
	}()

	for message := range c.send {
		w, err := c.socket.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}

		w.Write(message)

		if err := w.Close(); err != nil {
			return
		}
	}
	c.socket.WriteMessage(websocket.CloseMessage, []byte{})
}

func (c *Client) handleMessage(msg Message) {
	switch msg.Type {
	case "ping":
		response := Message{
			Type:    "pong",
			Channel: GameChannel(c.gameID),
			Payload: "pong",
		}
		data, _ := json.Marshal(response)
		c.send <- data

	case "request_game_state":
		c.hub.SendGameStateSync(c)

	default:
		log.Printf("Unknown message type: %s from user %d on %s", msg.Type, c.userID, GameChannel(c.gameID))
	}
}

func generateClientID() string {
	return fmt.Sprintf("client_%d", time.Now().UnixNano())
}
