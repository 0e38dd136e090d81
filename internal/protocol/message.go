package protocol

import (
	"encoding/json"

	"tressette-engine/internal/shared"
)

// Message is the generic WebSocket envelope exchanged with clients.
type Message struct {
	Type    string          `json:"type"`              // e.g. "join_game", "play_card", "turn_start"
	Payload json.RawMessage `json:"payload,omitempty"` // raw JSON, decoded per type
}

// --- Client -> Server payloads ---

type CreateGamePayload struct {
	Name string `json:"name"`
	Mode string `json:"mode"` // "1v1" or "2v2"
}

type JoinGamePayload struct {
	Name     string `json:"name"`
	GameCode string `json:"game_code"`
}

// StartGamePayload asks the hub to fill the remaining lobby seats with
// bots and start the match.
type StartGamePayload struct {
	GameCode string `json:"game_code"`
}

type PlayCardPayload struct {
	Suit shared.Suit `json:"suit"`
	Rank string      `json:"rank"`
}

// --- Server -> Client payloads ---

type GameCreatedPayload struct {
	GameCode string `json:"game_code"`
}

type LobbyUpdatePayload struct {
	Players []PlayerInfo `json:"players"`
}

type JoinErrorPayload struct {
	Message string `json:"message"`
}

type PlayerInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Bot  bool   `json:"bot,omitempty"`
}

type TeamInfo struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Players []PlayerInfo `json:"players"`
}

type GameStartPayload struct {
	GameID  string       `json:"game_id"`
	Mode    string       `json:"mode"`
	Players []PlayerInfo `json:"players"`
	Teams   []TeamInfo   `json:"teams,omitempty"`
}

type DealHandPayload struct {
	Hand []shared.Card `json:"hand"`
}

type TurnStartPayload struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
}

type CardPlayedPayload struct {
	PlayerID string      `json:"player_id"`
	Card     shared.Card `json:"card"`
}

// CardDrawnPayload announces a draw from the 1v1 shared deck. The card
// itself is included only on the drawing player's own message or when
// the engine flags the draw as revealed (bot draws).
type CardDrawnPayload struct {
	PlayerID string       `json:"player_id"`
	Card     *shared.Card `json:"card,omitempty"`
	Revealed bool         `json:"revealed"`
}

type TrickEndPayload struct {
	WinnerID string `json:"winner_id"`
	Name     string `json:"name"`
	Points   int    `json:"points"`
}

type ScoreUpdatePlayersPayload struct {
	Scores map[string]int `json:"scores"` // player name -> match score
}

type ScoreUpdateTeamsPayload struct {
	Scores map[string]int `json:"scores"` // team name -> match score
}

type RoundEndPayload struct{}

type MatchEndPlayerPayload struct {
	WinnerID string `json:"winner_id"`
	Name     string `json:"name"`
}

type MatchEndTeamPayload struct {
	TeamID string `json:"team_id"`
	Name   string `json:"name"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

type PlayerLeftPayload struct {
	PlayerID string `json:"player_id"`
}

// NewMessage marshals a typed payload into the envelope.
func NewMessage(msgType string, payload interface{}) ([]byte, error) {
	if payload == nil {
		return json.Marshal(Message{Type: msgType})
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Message{Type: msgType, Payload: payloadBytes})
}
