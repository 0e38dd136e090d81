package game

import "tressette-engine/internal/shared"

// Observer receives match events, pushed synchronously and in
// registration order from the goroutine that mutated the match. An
// observer must not call back into the match from a callback; the
// engine provides no reentrancy guard.
type Observer interface {
	// OnTurnStart fires when a player becomes the one to act.
	OnTurnStart(player *shared.Player)

	// OnCardPlayed fires after a legal play is applied.
	OnCardPlayed(player *shared.Player, card shared.Card)

	// OnCardDrawn fires for each card drawn in the 1-vs-1 post-trick
	// draw phase. reveal is true exactly when the drawing player is a
	// bot, so a UI may show the opponent's draw to the human.
	OnCardDrawn(player *shared.Player, card shared.Card, reveal bool)

	// OnTrickEnd fires once a trick is resolved, before the score
	// update for the same trick.
	OnTrickEnd(winner *shared.Player, points int)

	// OnScoreUpdatePlayers fires after each trick in 1-vs-1 mode with
	// a copy of the running match scores.
	OnScoreUpdatePlayers(scores map[*shared.Player]int)

	// OnScoreUpdateTeams fires after each trick in 2-vs-2 mode with a
	// copy of the running match scores.
	OnScoreUpdateTeams(scores map[*shared.Team]int)

	// OnRoundEnd fires when a round closes, before official points are
	// added to the match totals.
	OnRoundEnd()

	// OnMatchEndPlayer fires in 1-vs-1 mode when a unique leader ends
	// the match. It does not fire on a tie at the threshold.
	OnMatchEndPlayer(winner *shared.Player)

	// OnMatchEndTeam fires in 2-vs-2 mode when a unique leader ends
	// the match. It does not fire on a tie at the threshold.
	OnMatchEndTeam(winner *shared.Team)
}
