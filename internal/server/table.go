package server

import (
	"fmt"
	"log"
	"sync"

	"tressette-engine/internal/database"
	"tressette-engine/internal/game"
	"tressette-engine/internal/protocol"
	"tressette-engine/internal/shared"
)

// MessageSender delivers an encoded message to a connected client.
type MessageSender func(clientID string, message []byte)

// table binds one running match to its connected clients. It is the
// sole caller into the match engine and serializes access with its
// mutex; registered as the match observer, it relays engine events to
// the clients as protocol messages. Statistics are recorded here, never
// by the engine.
type table struct {
	code  string
	match *game.Match
	seats map[string]*shared.Player // client ID -> seat, humans only
	send  MessageSender
	db    *database.Service

	mu           sync.Mutex
	closed       bool
	handsSent    bool
	roundPending bool // set by OnRoundEnd, consumed once the engine call returns
}

// newTable seats the connected clients, fills the remaining seats with
// bots and constructs the match for the requested mode ("1v1" or "2v2").
func newTable(code, mode string, clients []*Client, send MessageSender, db *database.Service) (*table, error) {
	capacity := 2
	if mode == "2v2" {
		capacity = 4
	}
	if len(clients) == 0 || len(clients) > capacity {
		return nil, fmt.Errorf("%d clients for mode %s: %w", len(clients), mode, shared.ErrInvalidArgument)
	}

	scoring := shared.TressetteScoring{}
	t := &table{
		code:  code,
		seats: make(map[string]*shared.Player, len(clients)),
		send:  send,
		db:    db,
	}

	players := make([]*shared.Player, 0, capacity)
	for _, c := range clients {
		seat := shared.NewHumanPlayer(c.ID, c.Name)
		t.seats[c.ID] = seat
		players = append(players, seat)
	}
	for i := len(players); i < capacity; i++ {
		players = append(players, shared.NewBotPlayer(fmt.Sprintf("Bot %d", i+1), game.BotChooser(scoring)))
	}

	var m *game.Match
	var err error
	if capacity == 2 {
		m, err = game.NewMatch(players, players[0], scoring)
		if err == nil {
			m.EnableDeck(shared.NewDeck())
		}
	} else {
		// Alternating seats form the two teams, as at a real table.
		var team1, team2 *shared.Team
		team1, err = shared.NewTeam("Team 1", players[0], players[2])
		if err == nil {
			team2, err = shared.NewTeam("Team 2", players[1], players[3])
		}
		if err == nil {
			m, err = game.NewTeamMatch(players, players[0], scoring, []*shared.Team{team1, team2})
		}
	}
	if err != nil {
		return nil, err
	}

	t.match = m
	m.AddObserver(t)
	return t, nil
}

// Start announces the match, records a played game for every human
// profile and deals the first round.
func (t *table) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.db != nil {
		for _, seat := range t.seats {
			if err := t.db.IncrementPlayed(seat.Name); err != nil {
				log.Printf("Table %s: failed to record played game for %s: %v", t.code, seat.Name, err)
			}
		}
	}

	t.broadcast(mustMessage("game_start", t.gameStartPayload()))

	err := t.match.StartNewRound()
	t.afterEngineCall()
	return err
}

// HandlePlayCard forwards a play intent from a client into the engine.
func (t *table) HandlePlayCard(clientID string, payload protocol.PlayCardPayload) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		t.sendError(clientID, "Game is already over.")
		return
	}
	seat, ok := t.seats[clientID]
	if !ok {
		t.sendError(clientID, "You are not seated at this table.")
		return
	}
	card, ok := seat.FindCard(payload.Suit, payload.Rank)
	if !ok {
		t.sendError(clientID, "Card not in your hand.")
		return
	}
	if err := t.match.PlayCard(seat, card); err != nil {
		log.Printf("Table %s: rejected play from %s: %v", t.code, seat.Name, err)
		t.sendError(clientID, err.Error())
		return
	}
	t.afterEngineCall()
}

// HandleDisconnect forfeits the match when a seated human leaves.
func (t *table) HandleDisconnect(clientID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return
	}
	if _, ok := t.seats[clientID]; !ok {
		return
	}
	log.Printf("Table %s: player %s disconnected, match abandoned.", t.code, clientID)
	t.closed = true
	t.broadcast(mustMessage("player_left", protocol.PlayerLeftPayload{PlayerID: clientID}))
}

// Closed reports whether the table no longer accepts plays.
func (t *table) Closed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

// afterEngineCall runs follow-up work the engine must not trigger from
// inside its own call stack: starting the next round after a round
// close and retiring the table when the match is over. Callers hold mu.
func (t *table) afterEngineCall() {
	for t.roundPending && !t.closed && !t.match.IsOver() {
		t.roundPending = false
		t.handsSent = false
		if err := t.match.StartNewRound(); err != nil {
			log.Printf("Table %s: failed to start next round: %v", t.code, err)
			t.closed = true
			return
		}
	}
	if t.match.IsOver() {
		t.closed = true
	}
}

func (t *table) gameStartPayload() protocol.GameStartPayload {
	payload := protocol.GameStartPayload{
		GameID: t.match.ID,
		Mode:   "1v1",
	}
	if t.match.TwoVsTwo() {
		payload.Mode = "2v2"
	}
	for _, p := range t.match.Players() {
		payload.Players = append(payload.Players, playerInfo(p))
	}
	for _, team := range t.match.Teams() {
		info := protocol.TeamInfo{ID: team.ID, Name: team.Name}
		for _, member := range team.Members {
			info.Players = append(info.Players, playerInfo(member))
		}
		payload.Teams = append(payload.Teams, info)
	}
	return payload
}

func playerInfo(p *shared.Player) protocol.PlayerInfo {
	return protocol.PlayerInfo{ID: p.ID, Name: p.Name, Bot: !p.Interactive}
}

// --- game.Observer ---
// Callbacks run while the table holds mu, on the goroutine that called
// into the engine.

func (t *table) OnTurnStart(player *shared.Player) {
	if !t.handsSent {
		t.handsSent = true
		for clientID, seat := range t.seats {
			hand := append([]shared.Card(nil), seat.Hand...)
			t.send(clientID, mustMessage("deal_hand", protocol.DealHandPayload{Hand: hand}))
		}
	}
	t.broadcast(mustMessage("turn_start", protocol.TurnStartPayload{PlayerID: player.ID, Name: player.Name}))
}

func (t *table) OnCardPlayed(player *shared.Player, card shared.Card) {
	t.broadcast(mustMessage("card_played", protocol.CardPlayedPayload{PlayerID: player.ID, Card: card}))
}

func (t *table) OnCardDrawn(player *shared.Player, card shared.Card, reveal bool) {
	// The drawing player always sees the card; everyone else only when
	// the engine reveals it (bot draws).
	for clientID, seat := range t.seats {
		payload := protocol.CardDrawnPayload{PlayerID: player.ID, Revealed: reveal}
		if seat == player || reveal {
			c := card
			payload.Card = &c
		}
		t.send(clientID, mustMessage("card_drawn", payload))
	}
}

func (t *table) OnTrickEnd(winner *shared.Player, points int) {
	t.broadcast(mustMessage("trick_end", protocol.TrickEndPayload{WinnerID: winner.ID, Name: winner.Name, Points: points}))
}

func (t *table) OnScoreUpdatePlayers(scores map[*shared.Player]int) {
	payload := protocol.ScoreUpdatePlayersPayload{Scores: make(map[string]int, len(scores))}
	for p, s := range scores {
		payload.Scores[p.Name] = s
	}
	t.broadcast(mustMessage("score_update_players", payload))
}

func (t *table) OnScoreUpdateTeams(scores map[*shared.Team]int) {
	payload := protocol.ScoreUpdateTeamsPayload{Scores: make(map[string]int, len(scores))}
	for team, s := range scores {
		payload.Scores[team.Name] = s
	}
	t.broadcast(mustMessage("score_update_teams", payload))
}

func (t *table) OnRoundEnd() {
	t.roundPending = true
	t.broadcast(mustMessage("round_end", protocol.RoundEndPayload{}))
}

func (t *table) OnMatchEndPlayer(winner *shared.Player) {
	t.broadcast(mustMessage("match_end_player", protocol.MatchEndPlayerPayload{WinnerID: winner.ID, Name: winner.Name}))
	t.recordWin(winner.Name, winner.Interactive)
}

func (t *table) OnMatchEndTeam(winner *shared.Team) {
	t.broadcast(mustMessage("match_end_team", protocol.MatchEndTeamPayload{TeamID: winner.ID, Name: winner.Name}))
	for _, member := range winner.Members {
		t.recordWin(member.Name, member.Interactive)
	}
}

func (t *table) recordWin(name string, human bool) {
	if t.db == nil || !human {
		return
	}
	if err := t.db.IncrementWon(name); err != nil {
		log.Printf("Table %s: failed to record win for %s: %v", t.code, name, err)
	}
}

// --- messaging helpers ---

func (t *table) broadcast(message []byte) {
	for clientID := range t.seats {
		t.send(clientID, message)
	}
}

func (t *table) sendError(clientID string, errorMsg string) {
	t.send(clientID, mustMessage("error", protocol.ErrorPayload{Message: errorMsg}))
}

// mustMessage builds an envelope for payloads that cannot fail to
// marshal.
func mustMessage(msgType string, payload interface{}) []byte {
	msg, err := protocol.NewMessage(msgType, payload)
	if err != nil {
		log.Printf("Error creating %s message: %v", msgType, err)
		return nil
	}
	return msg
}
