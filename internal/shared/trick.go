package shared

// PlayedCard pairs a card with the player who played it.
type PlayedCard struct {
	Player *Player
	Card   Card
}

// Trick accumulates the plays of a single trick. The first recorded
// play fixes the leading suit, which constrains followers and decides
// the winner.
type Trick struct {
	Plays   []PlayedCard
	Leading Suit // "" until the first play is recorded
}

// NewTrick creates an empty trick.
func NewTrick() *Trick {
	return &Trick{}
}

// RecordPlay appends a play. The first play of the trick fixes the
// leading suit.
func (t *Trick) RecordPlay(player *Player, card Card) {
	if len(t.Plays) == 0 {
		t.Leading = card.Suit
	}
	t.Plays = append(t.Plays, PlayedCard{Player: player, Card: card})
}

// Winner returns the player holding the strongest card of the leading
// suit, or nil when nothing has been played yet. Once any play is
// recorded the leader's own card qualifies, so the result is non-nil.
func (t *Trick) Winner() *Player {
	var winner *Player
	best := -1
	for _, play := range t.Plays {
		if play.Card.Suit != t.Leading {
			continue
		}
		if v := play.Card.RankValue(); v > best {
			best = v
			winner = play.Player
		}
	}
	return winner
}

// Points sums the policy's point value over every card in the trick,
// regardless of suit.
func (t *Trick) Points(policy ScoringPolicy) int {
	total := 0
	for _, play := range t.Plays {
		total += policy.CardPoints(play.Card)
	}
	return total
}

// Cards returns the cards on the table in play order.
func (t *Trick) Cards() []Card {
	cards := make([]Card, len(t.Plays))
	for i, play := range t.Plays {
		cards[i] = play.Card
	}
	return cards
}

// Reset clears the plays and the leading suit for the next trick.
func (t *Trick) Reset() {
	t.Plays = t.Plays[:0]
	t.Leading = ""
}
