package shared

// ScoringPolicy maps a card to its raw point value. Raw points are
// accumulated per trick and converted to official points only at round
// close (integer division by 3 plus the last-trick bonus).
type ScoringPolicy interface {
	CardPoints(card Card) int
}

// TressetteScoring is the standard Tressette policy: 3 points for the
// ace, 1 for re, cavallo, fante, due and tre, 0 for everything else.
// A full deck carries 32 raw points.
type TressetteScoring struct{}

func (TressetteScoring) CardPoints(card Card) int {
	switch card.Rank {
	case "1":
		return 3
	case "2", "3", "11", "12", "13":
		return 1
	default:
		return 0
	}
}
