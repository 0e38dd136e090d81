package shared

// Suit represents one of the four suits of the Italian 40-card deck.
type Suit string

const (
	Denari  Suit = "Denari"
	Coppe   Suit = "Coppe"
	Spade   Suit = "Spade"
	Bastoni Suit = "Bastoni"
)

// Suits lists the four suits in deck-building order.
var Suits = []Suit{Denari, Coppe, Spade, Bastoni}

// Ranks lists the ten ranks in deck-building order.
// "11", "12" and "13" are Fante, Cavallo and Re.
var Ranks = []string{"1", "2", "3", "4", "5", "6", "7", "11", "12", "13"}

// Card is an immutable (suit, rank) value. Two cards are equal exactly
// when both fields match, so Card works as a map key.
type Card struct {
	Suit Suit   `json:"suit"`
	Rank string `json:"rank"`
}

// cardOrder defines the trick-taking strength within a suit,
// low to high: 2, 4, 5, 6, 7, Fante, Cavallo, Re, 3, Asso.
var cardOrder = map[string]int{
	"1":  10, // Asso
	"3":  9,
	"13": 8, // Re
	"12": 7, // Cavallo
	"11": 6, // Fante
	"7":  5,
	"6":  4,
	"5":  3,
	"4":  2,
	"2":  1,
}

// RankValue returns the within-suit strength of the card (1..10,
// higher wins the trick). Independent of the card's point value.
func (c Card) RankValue() int {
	return cardOrder[c.Rank]
}

func (c Card) String() string {
	return c.Rank + " di " + string(c.Suit)
}
