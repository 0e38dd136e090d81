package shared

import "fmt"

// TurnOrder is a cyclic sequencer over a player list fixed at
// construction. The match engine advances it one seat at a time or
// jumps it to the trick winner.
type TurnOrder struct {
	players []*Player
	current int
}

// NewTurnOrder creates a sequencer starting at the given player.
func NewTurnOrder(players []*Player, starting *Player) (*TurnOrder, error) {
	if len(players) == 0 {
		return nil, fmt.Errorf("turn order needs at least one player: %w", ErrInvalidArgument)
	}
	order := &TurnOrder{players: append([]*Player(nil), players...)}
	if err := order.SetCurrent(starting); err != nil {
		return nil, err
	}
	return order, nil
}

// Current returns the player whose turn it is.
func (o *TurnOrder) Current() *Player {
	return o.players[o.current]
}

// Advance moves to the next player in cyclic order.
func (o *TurnOrder) Advance() {
	o.current = (o.current + 1) % len(o.players)
}

// SetCurrent jumps the turn to the given player.
func (o *TurnOrder) SetCurrent(player *Player) error {
	for i, p := range o.players {
		if p == player {
			o.current = i
			return nil
		}
	}
	name := "<nil>"
	if player != nil {
		name = player.Name
	}
	return fmt.Errorf("player %s is not in the turn order: %w", name, ErrInvalidArgument)
}
