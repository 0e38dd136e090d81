package shared

import (
	"fmt"
	"math/rand/v2"
)

// Deck is a mutable sequence of distinct cards. A freshly created or
// reset deck holds each of the 40 cards exactly once.
type Deck struct {
	cards []Card
}

// NewDeck creates a full, unshuffled 40-card Tressette deck.
func NewDeck() *Deck {
	d := &Deck{}
	d.Reset()
	return d
}

// Reset repopulates the deck with exactly one of each (suit, rank) pair.
func (d *Deck) Reset() {
	d.cards = d.cards[:0]
	for _, suit := range Suits {
		for _, rank := range Ranks {
			d.cards = append(d.cards, Card{Suit: suit, Rank: rank})
		}
	}
}

// Shuffle randomizes the order of the remaining cards.
func (d *Deck) Shuffle() {
	rand.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Draw removes and returns the top card.
func (d *Deck) Draw() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrEmptyDeck
	}
	card := d.cards[0]
	d.cards = d.cards[1:]
	return card, nil
}

// DrawN removes and returns n cards in draw order. The deck is left
// untouched when n is negative or exceeds the remaining size.
func (d *Deck) DrawN(n int) ([]Card, error) {
	if n < 0 || n > len(d.cards) {
		return nil, fmt.Errorf("draw %d of %d remaining: %w", n, len(d.cards), ErrInvalidArgument)
	}
	drawn := make([]Card, n)
	copy(drawn, d.cards[:n])
	d.cards = d.cards[n:]
	return drawn, nil
}

// Size returns the number of cards still in the deck.
func (d *Deck) Size() int {
	return len(d.cards)
}

// IsEmpty reports whether the deck has no cards left.
func (d *Deck) IsEmpty() bool {
	return len(d.cards) == 0
}
