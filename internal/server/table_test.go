package server

import (
	"encoding/json"
	"errors"
	"testing"

	"tressette-engine/internal/protocol"
	"tressette-engine/internal/shared"
)

// messageRecorder collects the decoded envelopes sent to each client.
type messageRecorder struct {
	messages map[string][]protocol.Message
}

func newMessageRecorder() *messageRecorder {
	return &messageRecorder{messages: make(map[string][]protocol.Message)}
}

func (r *messageRecorder) sender() MessageSender {
	return func(clientID string, message []byte) {
		var msg protocol.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			panic(err)
		}
		r.messages[clientID] = append(r.messages[clientID], msg)
	}
}

func (r *messageRecorder) count(clientID, msgType string) int {
	n := 0
	for _, msg := range r.messages[clientID] {
		if msg.Type == msgType {
			n++
		}
	}
	return n
}

func (r *messageRecorder) last(t *testing.T, clientID, msgType string, payload interface{}) {
	t.Helper()
	for i := len(r.messages[clientID]) - 1; i >= 0; i-- {
		msg := r.messages[clientID][i]
		if msg.Type != msgType {
			continue
		}
		if err := json.Unmarshal(msg.Payload, payload); err != nil {
			t.Fatalf("decoding %s payload: %v", msgType, err)
		}
		return
	}
	t.Fatalf("no %s message sent to %s", msgType, clientID)
}

func TestNewTableRejectsBadSeatCounts(t *testing.T) {
	rec := newMessageRecorder()
	if _, err := newTable("X", "1v1", nil, rec.sender(), nil); !errors.Is(err, shared.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for an empty table, got %v", err)
	}
	clients := []*Client{{ID: "c1", Name: "Alice"}, {ID: "c2", Name: "Bob"}, {ID: "c3", Name: "Carol"}}
	if _, err := newTable("X", "1v1", clients, rec.sender(), nil); !errors.Is(err, shared.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for 3 clients in 1v1, got %v", err)
	}
}

func TestTableStartAgainstBot(t *testing.T) {
	rec := newMessageRecorder()
	tbl, err := newTable("TEST", "1v1", []*Client{{ID: "c1", Name: "Alice"}}, rec.sender(), nil)
	if err != nil {
		t.Fatalf("newTable failed: %v", err)
	}
	if err := tbl.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	var start protocol.GameStartPayload
	rec.last(t, "c1", "game_start", &start)
	if start.Mode != "1v1" {
		t.Fatalf("expected mode 1v1, got %s", start.Mode)
	}
	if len(start.Players) != 2 {
		t.Fatalf("expected 2 seated players, got %d", len(start.Players))
	}
	bots := 0
	for _, p := range start.Players {
		if p.Bot {
			bots++
		}
	}
	if bots != 1 {
		t.Fatalf("expected the empty seat filled by one bot, got %d", bots)
	}

	var hand protocol.DealHandPayload
	rec.last(t, "c1", "deal_hand", &hand)
	if len(hand.Hand) != 10 {
		t.Fatalf("expected a 10-card hand, got %d", len(hand.Hand))
	}
	if rec.count("c1", "turn_start") == 0 {
		t.Fatalf("expected a turn_start broadcast after the deal")
	}
}

func TestTableRejectsCardNotInHand(t *testing.T) {
	rec := newMessageRecorder()
	tbl, err := newTable("TEST", "1v1", []*Client{{ID: "c1", Name: "Alice"}}, rec.sender(), nil)
	if err != nil {
		t.Fatalf("newTable failed: %v", err)
	}
	if err := tbl.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Find a card the dealt hand does not hold.
	seat := tbl.seats["c1"]
	var missing shared.Card
	for _, suit := range shared.Suits {
		for _, rank := range shared.Ranks {
			if !seat.HasCard(shared.Card{Suit: suit, Rank: rank}) {
				missing = shared.Card{Suit: suit, Rank: rank}
			}
		}
	}
	tbl.HandlePlayCard("c1", protocol.PlayCardPayload{Suit: missing.Suit, Rank: missing.Rank})

	var errPayload protocol.ErrorPayload
	rec.last(t, "c1", "error", &errPayload)
	if errPayload.Message != "Card not in your hand." {
		t.Fatalf("unexpected error message: %q", errPayload.Message)
	}
	if rec.count("c1", "card_played") != 0 {
		t.Fatalf("a rejected play must not be broadcast")
	}
}

func TestTablePlayCardDrivesTrick(t *testing.T) {
	rec := newMessageRecorder()
	tbl, err := newTable("TEST", "1v1", []*Client{{ID: "c1", Name: "Alice"}}, rec.sender(), nil)
	if err != nil {
		t.Fatalf("newTable failed: %v", err)
	}
	if err := tbl.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// The human leads the first trick, the bot follows synchronously.
	lead := tbl.seats["c1"].Hand[0]
	tbl.HandlePlayCard("c1", protocol.PlayCardPayload{Suit: lead.Suit, Rank: lead.Rank})

	if rec.count("c1", "error") != 0 {
		t.Fatalf("legal play was rejected")
	}
	if got := rec.count("c1", "card_played"); got < 2 {
		t.Fatalf("expected both plays of the trick broadcast, got %d", got)
	}
	if rec.count("c1", "trick_end") != 1 {
		t.Fatalf("expected exactly one resolved trick, got %d", rec.count("c1", "trick_end"))
	}
	if rec.count("c1", "card_drawn") != 2 {
		t.Fatalf("expected both draw notifications, got %d", rec.count("c1", "card_drawn"))
	}
	if rec.count("c1", "score_update_players") != 1 {
		t.Fatalf("expected a score update after the trick")
	}
}

func TestTableHandlesDisconnect(t *testing.T) {
	rec := newMessageRecorder()
	tbl, err := newTable("TEST", "1v1", []*Client{{ID: "c1", Name: "Alice"}}, rec.sender(), nil)
	if err != nil {
		t.Fatalf("newTable failed: %v", err)
	}
	if err := tbl.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	tbl.HandleDisconnect("c1")
	if !tbl.Closed() {
		t.Fatalf("table must close when a seated human leaves")
	}
	if rec.count("c1", "player_left") != 1 {
		t.Fatalf("expected a player_left broadcast")
	}

	lead := tbl.seats["c1"].Hand[0]
	tbl.HandlePlayCard("c1", protocol.PlayCardPayload{Suit: lead.Suit, Rank: lead.Rank})
	var errPayload protocol.ErrorPayload
	rec.last(t, "c1", "error", &errPayload)
	if errPayload.Message != "Game is already over." {
		t.Fatalf("unexpected error message: %q", errPayload.Message)
	}
}

func TestTableIgnoresUnseatedClient(t *testing.T) {
	rec := newMessageRecorder()
	tbl, err := newTable("TEST", "1v1", []*Client{{ID: "c1", Name: "Alice"}}, rec.sender(), nil)
	if err != nil {
		t.Fatalf("newTable failed: %v", err)
	}
	if err := tbl.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	tbl.HandlePlayCard("ghost", protocol.PlayCardPayload{Suit: shared.Denari, Rank: "1"})
	var errPayload protocol.ErrorPayload
	rec.last(t, "ghost", "error", &errPayload)
	if errPayload.Message != "You are not seated at this table." {
		t.Fatalf("unexpected error message: %q", errPayload.Message)
	}
}

func TestTeamTableStart(t *testing.T) {
	rec := newMessageRecorder()
	clients := []*Client{{ID: "c1", Name: "Alice"}, {ID: "c2", Name: "Bob"}}
	tbl, err := newTable("TEAM", "2v2", clients, rec.sender(), nil)
	if err != nil {
		t.Fatalf("newTable failed: %v", err)
	}
	if err := tbl.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	var start protocol.GameStartPayload
	rec.last(t, "c2", "game_start", &start)
	if start.Mode != "2v2" {
		t.Fatalf("expected mode 2v2, got %s", start.Mode)
	}
	if len(start.Players) != 4 {
		t.Fatalf("expected 4 seated players, got %d", len(start.Players))
	}
	if len(start.Teams) != 2 {
		t.Fatalf("expected 2 teams, got %d", len(start.Teams))
	}
	for _, team := range start.Teams {
		if len(team.Players) != 2 {
			t.Fatalf("expected 2 members per team, got %d", len(team.Players))
		}
	}

	var hand protocol.DealHandPayload
	rec.last(t, "c1", "deal_hand", &hand)
	if len(hand.Hand) != 10 {
		t.Fatalf("expected a 10-card hand, got %d", len(hand.Hand))
	}
	rec.last(t, "c2", "deal_hand", &hand)
	if len(hand.Hand) != 10 {
		t.Fatalf("expected a 10-card hand, got %d", len(hand.Hand))
	}
}
