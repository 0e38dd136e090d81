package game

import "tressette-engine/internal/shared"

// BotChooser returns the automatic card-selection policy used for
// computer seats.
//
// The bot contests a trick only when points are already on the table:
// it then plays the first playable card that follows the leading suit
// and outranks the strongest leading-suit card played so far. In every
// other case it sheds the playable card worth the fewest points, first
// one found on a tie.
func BotChooser(scoring shared.ScoringPolicy) shared.Chooser {
	return func(playable []shared.Card, leading shared.Suit, table []shared.Card) shared.Card {
		tablePoints := 0
		bestRank := -1
		for _, card := range table {
			tablePoints += scoring.CardPoints(card)
			if card.Suit == leading && card.RankValue() > bestRank {
				bestRank = card.RankValue()
			}
		}

		if tablePoints > 0 {
			for _, card := range playable {
				if card.Suit == leading && card.RankValue() > bestRank {
					return card
				}
			}
		}

		lowest := playable[0]
		for _, card := range playable[1:] {
			if scoring.CardPoints(card) < scoring.CardPoints(lowest) {
				lowest = card
			}
		}
		return lowest
	}
}
