package shared

import "github.com/google/uuid"

// Chooser picks a card for an automatic player. playable is the legal
// subset of the player's hand, leading the suit to follow ("" when the
// player leads) and table the cards already played this trick, in play
// order. The returned card must come from playable; removing it from
// the hand stays the match engine's job.
type Chooser func(playable []Card, leading Suit, table []Card) Card

// Player is a participant handle: identity, hand and decision strategy.
// Scores are owned by the match engine, not by the player.
type Player struct {
	ID          string // Unique identifier for the player
	Name        string // Player's chosen name
	Hand        []Card // Cards currently held, in deal order
	Interactive bool   // True for human seats; the engine waits for an external PlayCard
	Choose      Chooser
}

// NewHumanPlayer creates an interactive player. The engine never asks
// it to choose a card; plays arrive through Match.PlayCard.
func NewHumanPlayer(id, name string) *Player {
	return &Player{ID: id, Name: name, Hand: []Card{}, Interactive: true}
}

// NewBotPlayer creates an automatic player driven by the given chooser.
func NewBotPlayer(name string, choose Chooser) *Player {
	return &Player{ID: uuid.NewString(), Name: name, Hand: []Card{}, Choose: choose}
}

// AddCard adds a card to the player's hand.
func (p *Player) AddCard(card Card) {
	p.Hand = append(p.Hand, card)
}

// RemoveCard removes a card from the player's hand. Returns false if
// the card is not held.
func (p *Player) RemoveCard(card Card) bool {
	for i, c := range p.Hand {
		if c == card {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return true
		}
	}
	return false
}

// HasCard reports whether the player holds the given card.
func (p *Player) HasCard(card Card) bool {
	for _, c := range p.Hand {
		if c == card {
			return true
		}
	}
	return false
}

// FindCard looks up a held card by suit and rank.
func (p *Player) FindCard(suit Suit, rank string) (Card, bool) {
	for _, card := range p.Hand {
		if card.Suit == suit && card.Rank == rank {
			return card, true
		}
	}
	return Card{}, false
}

// HasSuit reports whether the player holds at least one card of suit.
func (p *Player) HasSuit(suit Suit) bool {
	for _, card := range p.Hand {
		if card.Suit == suit {
			return true
		}
	}
	return false
}

// PlayableCards returns the cards the player may legally play against
// the leading suit: the hand filtered to that suit, or the whole hand
// when the player cannot follow (or leads the trick himself).
func (p *Player) PlayableCards(leading Suit) []Card {
	if leading == "" {
		return p.Hand
	}
	var playable []Card
	for _, card := range p.Hand {
		if card.Suit == leading {
			playable = append(playable, card)
		}
	}
	if len(playable) == 0 {
		return p.Hand
	}
	return playable
}

// HandEmpty reports whether the player has no cards left.
func (p *Player) HandEmpty() bool {
	return len(p.Hand) == 0
}

// ClearHand empties the player's hand for a new deal.
func (p *Player) ClearHand() {
	p.Hand = p.Hand[:0]
}
