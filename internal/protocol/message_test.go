package protocol

import (
	"encoding/json"
	"testing"

	"tressette-engine/internal/shared"
)

func TestNewMessageEnvelope(t *testing.T) {
	raw, err := NewMessage("card_played", CardPlayedPayload{
		PlayerID: "p1",
		Card:     shared.Card{Suit: shared.Denari, Rank: "1"},
	})
	if err != nil {
		t.Fatalf("NewMessage failed: %v", err)
	}

	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		t.Fatalf("unmarshalling envelope: %v", err)
	}
	if msg.Type != "card_played" {
		t.Fatalf("expected type card_played, got %s", msg.Type)
	}
	var payload CardPlayedPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		t.Fatalf("unmarshalling payload: %v", err)
	}
	if payload.PlayerID != "p1" || payload.Card.Suit != shared.Denari || payload.Card.Rank != "1" {
		t.Fatalf("payload did not survive the round trip: %+v", payload)
	}
}

func TestNewMessageNilPayload(t *testing.T) {
	raw, err := NewMessage("ping", nil)
	if err != nil {
		t.Fatalf("NewMessage failed: %v", err)
	}
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		t.Fatalf("unmarshalling envelope: %v", err)
	}
	if msg.Type != "ping" || len(msg.Payload) != 0 {
		t.Fatalf("expected a bare ping envelope, got %+v", msg)
	}
}

func TestCardDrawnPayloadHidesCard(t *testing.T) {
	raw, err := NewMessage("card_drawn", CardDrawnPayload{PlayerID: "p2"})
	if err != nil {
		t.Fatalf("NewMessage failed: %v", err)
	}
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		t.Fatalf("unmarshalling envelope: %v", err)
	}
	var payload CardDrawnPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		t.Fatalf("unmarshalling payload: %v", err)
	}
	if payload.Card != nil {
		t.Fatalf("hidden draws must omit the card, got %v", payload.Card)
	}
}
