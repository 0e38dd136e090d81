package game

import (
	"testing"

	"tressette-engine/internal/shared"
)

func TestBotShedsLowCardWhenNoPointsOnTable(t *testing.T) {
	choose := BotChooser(shared.TressetteScoring{})

	// One worthless Denari on the table: no points at stake, so the bot
	// must not spend its winning 3 and instead sheds its lowest-point
	// playable card.
	table := []shared.Card{{Suit: shared.Denari, Rank: "4"}}
	playable := []shared.Card{
		{Suit: shared.Denari, Rank: "3"}, // would win, worth 1
		{Suit: shared.Denari, Rank: "5"}, // worth 0
	}
	got := choose(playable, shared.Denari, table)
	if got != (shared.Card{Suit: shared.Denari, Rank: "5"}) {
		t.Fatalf("expected the bot to shed 5 di Denari, got %s", got)
	}
}

func TestBotContestsTrickWithPointsAtStake(t *testing.T) {
	choose := BotChooser(shared.TressetteScoring{})

	table := []shared.Card{{Suit: shared.Denari, Rank: "13"}} // Re, 1 point on the table
	playable := []shared.Card{
		{Suit: shared.Denari, Rank: "3"},
		{Suit: shared.Denari, Rank: "4"},
	}
	got := choose(playable, shared.Denari, table)
	if got != (shared.Card{Suit: shared.Denari, Rank: "3"}) {
		t.Fatalf("expected the bot to beat the Re with the 3, got %s", got)
	}
}

func TestBotTakesFirstWinningCardNotBest(t *testing.T) {
	choose := BotChooser(shared.TressetteScoring{})

	table := []shared.Card{{Suit: shared.Coppe, Rank: "2"}} // 1 point at stake
	playable := []shared.Card{
		{Suit: shared.Coppe, Rank: "13"}, // first card that wins
		{Suit: shared.Coppe, Rank: "1"},  // stronger, but not first
	}
	got := choose(playable, shared.Coppe, table)
	if got != (shared.Card{Suit: shared.Coppe, Rank: "13"}) {
		t.Fatalf("expected the first winning card (Re), got %s", got)
	}
}

func TestBotLeadsLowestPointCardFirstOnTie(t *testing.T) {
	choose := BotChooser(shared.TressetteScoring{})

	playable := []shared.Card{
		{Suit: shared.Coppe, Rank: "5"},
		{Suit: shared.Spade, Rank: "7"},
		{Suit: shared.Denari, Rank: "1"},
	}
	got := choose(playable, "", nil)
	if got != (shared.Card{Suit: shared.Coppe, Rank: "5"}) {
		t.Fatalf("expected the first zero-point card, got %s", got)
	}
}
