package shared

import (
	"fmt"

	"github.com/google/uuid"
)

// Team is an immutable-after-construction group of players, used only
// in 2-vs-2 mode. Scores are owned by the match engine.
type Team struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Members []*Player `json:"players"`
}

// NewTeam creates a team with a generated UUID. A team needs at least
// one member; in 2-vs-2 play it has exactly two.
func NewTeam(name string, members ...*Player) (*Team, error) {
	if len(members) == 0 {
		return nil, fmt.Errorf("team %q has no members: %w", name, ErrInvalidArgument)
	}
	if name == "" {
		name = "Team"
	}
	return &Team{
		ID:      uuid.NewString(),
		Name:    name,
		Members: append([]*Player(nil), members...),
	}, nil
}

// Contains reports whether the player is a member of the team.
func (t *Team) Contains(player *Player) bool {
	for _, member := range t.Members {
		if member == player {
			return true
		}
	}
	return false
}

// Equals compares two teams by member set, ignoring ID and name.
func (t *Team) Equals(other *Team) bool {
	if other == nil || len(t.Members) != len(other.Members) {
		return false
	}
	for _, member := range t.Members {
		if !other.Contains(member) {
			return false
		}
	}
	return true
}
