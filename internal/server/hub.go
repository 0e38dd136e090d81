package server

import (
	"encoding/json"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"tressette-engine/internal/database"
	"tressette-engine/internal/protocol"

	"github.com/google/uuid"
)

// clientMessage pairs an incoming message with the client it came from.
type clientMessage struct {
	client  *Client
	message protocol.Message
}

const gameCodeLength = 5 // Length of the unique game code

// lobby collects clients waiting for a match of a given mode.
type lobby struct {
	mode    string // "1v1" or "2v2"
	clients []*Client
}

func (l *lobby) capacity() int {
	if l.mode == "2v2" {
		return 4
	}
	return 2
}

// Hub manages active WebSocket connections, lobbies and running tables.
type Hub struct {
	clients        map[*Client]bool
	lobbies        map[string]*lobby // game code -> waiting clients
	tables         map[string]*table // game code -> running match
	clientToGame   map[*Client]string
	processMessage chan clientMessage
	register       chan *Client
	unregister     chan *Client
	clientMu       sync.RWMutex
	lobbyMu        sync.RWMutex
	tableMu        sync.RWMutex
	rng            *rand.Rand
	db             *database.Service
}

// NewHub creates a new Hub instance. db may be nil when statistics are
// not recorded.
func NewHub(db *database.Service) *Hub {
	return &Hub{
		clients:        make(map[*Client]bool),
		lobbies:        make(map[string]*lobby),
		tables:         make(map[string]*table),
		clientToGame:   make(map[*Client]string),
		processMessage: make(chan clientMessage),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		rng:            rand.New(rand.NewSource(time.Now().UnixNano())),
		db:             db,
	}
}

// generateGameCode creates a unique alphanumeric game code.
func (h *Hub) generateGameCode() string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	for {
		var sb strings.Builder
		for i := 0; i < gameCodeLength; i++ {
			sb.WriteByte(letters[h.rng.Intn(len(letters))])
		}
		code := sb.String()

		h.lobbyMu.RLock()
		_, lobbyExists := h.lobbies[code]
		h.lobbyMu.RUnlock()

		h.tableMu.RLock()
		_, tableExists := h.tables[code]
		h.tableMu.RUnlock()

		if !lobbyExists && !tableExists {
			return code
		}
		log.Printf("Generated game code %s collided, retrying...", code)
	}
}

// Run starts the Hub's main loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			client.ID = uuid.NewString()
			log.Printf("Client %s (%s) connected", client.ID, client.conn.RemoteAddr())
			h.clientMu.Lock()
			h.clients[client] = true
			h.clientMu.Unlock()

		case client := <-h.unregister:
			h.clientMu.Lock()
			gameCode, inGameOrLobby := h.clientToGame[client]
			_, clientExists := h.clients[client]
			if clientExists {
				delete(h.clients, client)
				delete(h.clientToGame, client)
				close(client.send)
				log.Printf("Client %s (%s) disconnected", client.ID, client.Name)
			}
			h.clientMu.Unlock()

			if inGameOrLobby {
				h.dropFromGame(client, gameCode)
			} else if clientExists {
				log.Printf("Client %s disconnected before joining/creating a game.", client.ID)
			}

		case clientMsg := <-h.processMessage:
			h.handleMessage(clientMsg.client, clientMsg.message)
		}
	}
}

// dropFromGame removes a disconnected client from its lobby, or
// forfeits its running table.
func (h *Hub) dropFromGame(client *Client, gameCode string) {
	h.lobbyMu.Lock()
	l, lobbyExists := h.lobbies[gameCode]
	if lobbyExists {
		remaining := make([]*Client, 0, len(l.clients))
		for _, c := range l.clients {
			if c != client {
				remaining = append(remaining, c)
			}
		}
		if len(remaining) > 0 {
			l.clients = remaining
			h.lobbyMu.Unlock()
			log.Printf("Client %s removed from lobby %s.", client.ID, gameCode)
			h.broadcastLobbyUpdate(gameCode, remaining)
		} else {
			delete(h.lobbies, gameCode)
			h.lobbyMu.Unlock()
			log.Printf("Client %s left lobby %s. Lobby deleted.", client.ID, gameCode)
		}
		return
	}
	h.lobbyMu.Unlock()

	h.tableMu.RLock()
	tbl, tableExists := h.tables[gameCode]
	h.tableMu.RUnlock()
	if tableExists {
		log.Printf("Client %s was at table %s. Notifying match.", client.ID, gameCode)
		// Run outside the hub loop so a slow broadcast cannot block it.
		go tbl.HandleDisconnect(client.ID)
	} else {
		log.Printf("Client %s disconnected but was mapped to non-existent game/lobby code %s", client.ID, gameCode)
	}
}

// handleMessage processes a message received from a client.
func (h *Hub) handleMessage(client *Client, msg protocol.Message) {
	switch msg.Type {
	case "create_game":
		h.handleCreateGame(client, msg)
	case "join_game":
		h.handleJoinGame(client, msg)
	case "start_game":
		h.handleStartGame(client)
	case "play_card":
		h.handlePlayCard(client, msg)
	case "ping":
		pongMsg, _ := protocol.NewMessage("pong", nil)
		client.send <- pongMsg
	default:
		log.Printf("Received unknown message type '%s' from client %s (%s)", msg.Type, client.ID, client.Name)
		h.sendErrorToClient(client, "Unknown message type.")
	}
}

// handleCreateGame opens a new lobby for the requested mode.
func (h *Hub) handleCreateGame(client *Client, msg protocol.Message) {
	h.clientMu.RLock()
	_, alreadyInGame := h.clientToGame[client]
	h.clientMu.RUnlock()
	if alreadyInGame {
		h.sendErrorToClient(client, "Already in a game or lobby.")
		return
	}

	var payload protocol.CreateGamePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("Error unmarshalling create_game payload from client %s: %v", client.ID, err)
		h.sendErrorToClient(client, "Invalid create_game message format.")
		return
	}
	if payload.Name == "" {
		h.sendErrorToClient(client, "Name cannot be empty.")
		return
	}
	if payload.Mode != "1v1" && payload.Mode != "2v2" {
		h.sendErrorToClient(client, "Mode must be 1v1 or 2v2.")
		return
	}

	gameCode := h.generateGameCode()

	h.clientMu.Lock()
	client.Name = payload.Name
	h.clientToGame[client] = gameCode
	h.clientMu.Unlock()

	h.lobbyMu.Lock()
	h.lobbies[gameCode] = &lobby{mode: payload.Mode, clients: []*Client{client}}
	h.lobbyMu.Unlock()

	log.Printf("Client %s (%s) created %s lobby %s", client.ID, client.Name, payload.Mode, gameCode)

	createdMsg, _ := protocol.NewMessage("game_created", protocol.GameCreatedPayload{GameCode: gameCode})
	h.sendMessageToClient(client.ID, createdMsg)
	h.broadcastLobbyUpdate(gameCode, []*Client{client})
}

// handleJoinGame seats a client in an existing lobby, starting the
// match when the lobby fills up.
func (h *Hub) handleJoinGame(client *Client, msg protocol.Message) {
	h.clientMu.RLock()
	_, alreadyInGame := h.clientToGame[client]
	h.clientMu.RUnlock()
	if alreadyInGame {
		h.sendJoinError(client, "Already in a game or lobby.")
		return
	}

	var payload protocol.JoinGamePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("Error unmarshalling join_game payload from client %s: %v", client.ID, err)
		h.sendJoinError(client, "Invalid join_game message format.")
		return
	}
	if payload.Name == "" {
		h.sendJoinError(client, "Name cannot be empty.")
		return
	}
	if payload.GameCode == "" {
		h.sendJoinError(client, "Game code cannot be empty.")
		return
	}
	gameCode := strings.ToUpper(payload.GameCode)

	h.lobbyMu.Lock()
	l, lobbyExists := h.lobbies[gameCode]
	if !lobbyExists {
		h.lobbyMu.Unlock()
		h.sendJoinError(client, "Game code not found.")
		return
	}
	if len(l.clients) >= l.capacity() {
		h.lobbyMu.Unlock()
		h.sendJoinError(client, "Game lobby is full.")
		return
	}
	for _, existing := range l.clients {
		if existing.Name == payload.Name {
			h.lobbyMu.Unlock()
			h.sendJoinError(client, "Name already taken in this lobby.")
			return
		}
	}

	client.Name = payload.Name
	l.clients = append(l.clients, client)
	members := append([]*Client(nil), l.clients...)
	full := len(l.clients) == l.capacity()
	h.lobbyMu.Unlock()

	h.clientMu.Lock()
	h.clientToGame[client] = gameCode
	h.clientMu.Unlock()

	log.Printf("Client %s (%s) joined lobby %s. Lobby size: %d", client.ID, client.Name, gameCode, len(members))
	h.broadcastLobbyUpdate(gameCode, members)

	if full {
		h.startTable(gameCode)
	}
}

// handleStartGame starts a lobby before it is full, filling the empty
// seats with bots. Any lobby member may request it.
func (h *Hub) handleStartGame(client *Client) {
	h.clientMu.RLock()
	gameCode, inGame := h.clientToGame[client]
	h.clientMu.RUnlock()
	if !inGame {
		h.sendErrorToClient(client, "You are not in a lobby.")
		return
	}

	h.lobbyMu.RLock()
	_, lobbyExists := h.lobbies[gameCode]
	h.lobbyMu.RUnlock()
	if !lobbyExists {
		h.sendErrorToClient(client, "Game already started.")
		return
	}
	h.startTable(gameCode)
}

// startTable promotes a lobby into a running table.
func (h *Hub) startTable(gameCode string) {
	h.tableMu.Lock()
	h.lobbyMu.Lock()

	l, lobbyExists := h.lobbies[gameCode]
	if !lobbyExists {
		h.lobbyMu.Unlock()
		h.tableMu.Unlock()
		return
	}
	members := append([]*Client(nil), l.clients...)

	tbl, err := newTable(gameCode, l.mode, members, h.sendMessageToClient, h.db)
	if err != nil {
		h.lobbyMu.Unlock()
		h.tableMu.Unlock()
		log.Printf("Failed to create table for lobby %s: %v", gameCode, err)
		errorMsg, _ := protocol.NewMessage("error", protocol.ErrorPayload{Message: "Failed to start game."})
		for _, c := range members {
			h.sendMessageToClient(c.ID, errorMsg)
		}
		return
	}

	h.tables[gameCode] = tbl
	delete(h.lobbies, gameCode)
	h.lobbyMu.Unlock()
	h.tableMu.Unlock()

	log.Printf("Table created for code %s (match %s). Players: %v", gameCode, tbl.match.ID, playerNames(members))

	// Deal the first round outside the hub loop; bot turns run inline.
	go func() {
		if err := tbl.Start(); err != nil {
			log.Printf("Table %s: failed to start: %v", gameCode, err)
		}
	}()
}

// handlePlayCard forwards a play intent to the client's table.
func (h *Hub) handlePlayCard(client *Client, msg protocol.Message) {
	h.clientMu.RLock()
	gameCode, inGame := h.clientToGame[client]
	h.clientMu.RUnlock()
	if !inGame {
		h.sendErrorToClient(client, "You are not in an active game.")
		return
	}

	h.tableMu.RLock()
	tbl, tableExists := h.tables[gameCode]
	h.tableMu.RUnlock()
	if !tableExists {
		h.sendErrorToClient(client, "Game not found or not active.")
		return
	}

	var payload protocol.PlayCardPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("Error unmarshalling play_card payload from client %s: %v", client.ID, err)
		h.sendErrorToClient(client, "Invalid play_card message.")
		return
	}

	// Run outside the hub loop: a play can cascade through bot turns
	// and a full round of broadcasts.
	go tbl.HandlePlayCard(client.ID, payload)
}

// playerNames is a logging helper.
func playerNames(clients []*Client) []string {
	names := make([]string, len(clients))
	for i, c := range clients {
		names[i] = c.Name
	}
	return names
}

// sendMessageToClient delivers a message to a client by ID. Passed to
// tables as their MessageSender.
func (h *Hub) sendMessageToClient(clientID string, message []byte) {
	if message == nil {
		return
	}
	h.clientMu.RLock()
	var targetClient *Client
	for client := range h.clients {
		if client.ID == clientID {
			targetClient = client
			break
		}
	}
	h.clientMu.RUnlock()

	if targetClient == nil {
		log.Printf("Could not find client %s to send message (already disconnected?).", clientID)
		return
	}

	select {
	case targetClient.send <- message:
	default:
		// Channel is blocked or closed, assume the client is gone.
		log.Printf("Failed to send message to client %s (channel full or closed), initiating cleanup.", clientID)
		go func() {
			h.clientMu.RLock()
			_, stillConnected := h.clients[targetClient]
			h.clientMu.RUnlock()
			if stillConnected {
				h.unregister <- targetClient
			}
		}()
	}
}

// broadcastLobbyUpdate sends the current list of players in the lobby.
func (h *Hub) broadcastLobbyUpdate(gameCode string, members []*Client) {
	playerInfos := make([]protocol.PlayerInfo, len(members))
	for i, c := range members {
		playerInfos[i] = protocol.PlayerInfo{ID: c.ID, Name: c.Name}
	}
	msgBytes, err := protocol.NewMessage("lobby_update", protocol.LobbyUpdatePayload{Players: playerInfos})
	if err != nil {
		log.Printf("Error creating lobby_update message for lobby %s: %v", gameCode, err)
		return
	}
	for _, c := range members {
		h.sendMessageToClient(c.ID, msgBytes)
	}
}

// sendErrorToClient sends a generic error message to a specific client.
func (h *Hub) sendErrorToClient(client *Client, errorMsg string) {
	msgBytes, err := protocol.NewMessage("error", protocol.ErrorPayload{Message: errorMsg})
	if err != nil {
		log.Printf("Error creating error message for client %s: %v", client.ID, err)
		return
	}
	h.sendMessageToClient(client.ID, msgBytes)
}

// sendJoinError sends a specific join error message to a client.
func (h *Hub) sendJoinError(client *Client, errorMsg string) {
	msgBytes, err := protocol.NewMessage("join_error", protocol.JoinErrorPayload{Message: errorMsg})
	if err != nil {
		log.Printf("Error creating join_error message for client %s: %v", client.ID, err)
		return
	}
	h.sendMessageToClient(client.ID, msgBytes)
}
