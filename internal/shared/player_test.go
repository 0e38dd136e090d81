package shared

import "testing"

func TestPlayableCardsFollowSuit(t *testing.T) {
	p := NewHumanPlayer("p1", "Anna")
	denari2 := Card{Suit: Denari, Rank: "2"}
	denari13 := Card{Suit: Denari, Rank: "13"}
	spade1 := Card{Suit: Spade, Rank: "1"}
	p.Hand = []Card{denari2, spade1, denari13}

	playable := p.PlayableCards(Denari)
	if len(playable) != 2 {
		t.Fatalf("expected 2 playable Denari, got %d", len(playable))
	}
	for _, card := range playable {
		if card.Suit != Denari {
			t.Fatalf("unexpected off-suit card %s among playable", card)
		}
	}
}

func TestPlayableCardsFallBackToFullHand(t *testing.T) {
	p := NewHumanPlayer("p1", "Anna")
	p.Hand = []Card{{Suit: Spade, Rank: "1"}, {Suit: Coppe, Rank: "4"}}

	if playable := p.PlayableCards(Denari); len(playable) != 2 {
		t.Fatalf("a void player may play anything, got %d cards", len(playable))
	}
	if playable := p.PlayableCards(""); len(playable) != 2 {
		t.Fatalf("the leader may play anything, got %d cards", len(playable))
	}
}

func TestRemoveCard(t *testing.T) {
	p := NewHumanPlayer("p1", "Anna")
	card := Card{Suit: Bastoni, Rank: "7"}
	p.AddCard(card)

	if !p.RemoveCard(card) {
		t.Fatalf("expected RemoveCard to succeed")
	}
	if p.HasCard(card) {
		t.Fatalf("card still held after removal")
	}
	if p.RemoveCard(card) {
		t.Fatalf("removing an absent card must fail")
	}
}

func TestFindCard(t *testing.T) {
	p := NewHumanPlayer("p1", "Anna")
	p.AddCard(Card{Suit: Coppe, Rank: "12"})

	if _, ok := p.FindCard(Coppe, "12"); !ok {
		t.Fatalf("expected to find 12 di Coppe")
	}
	if _, ok := p.FindCard(Coppe, "11"); ok {
		t.Fatalf("found a card that is not held")
	}
}
