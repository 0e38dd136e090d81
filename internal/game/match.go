package game

import (
	"fmt"

	"tressette-engine/internal/shared"

	"github.com/google/uuid"
)

const (
	cardsPerPlayer = 10
	winningScore   = 31
)

// Match drives a Tressette match in 1-vs-1 or 2-vs-2 mode: dealing,
// turn order, trick resolution, the 1-vs-1 draw phase, round scoring
// and the 31-point termination check.
//
// All operations are synchronous and single-threaded: the caller must
// serialize access, and observers receive events on the calling
// goroutine. Bot seats act automatically inside StartNewRound and
// PlayCard; the match pauses whenever an interactive player is up.
type Match struct {
	ID       string
	players  []*shared.Player
	teams    []*shared.Team
	twoVsTwo bool

	scoring shared.ScoringPolicy
	trick   *shared.Trick
	turns   *shared.TurnOrder
	deck    *shared.Deck

	// Single source of truth for scores: running match totals and the
	// per-round raw accumulators, keyed by player (1v1) or team (2v2).
	matchScorePlayers map[*shared.Player]int
	matchScoreTeams   map[*shared.Team]int
	roundScorePlayers map[*shared.Player]int
	roundScoreTeams   map[*shared.Team]int

	observers       []Observer
	lastTrickWinner *shared.Player
	over            bool
}

// NewMatch creates a 1-vs-1 match. The deck is created lazily on the
// first round unless one is attached with EnableDeck; either way it is
// reused and reshuffled every round, and it keeps supplying cards
// through the post-trick draw phase.
func NewMatch(players []*shared.Player, starting *shared.Player, scoring shared.ScoringPolicy) (*Match, error) {
	if len(players) != 2 {
		return nil, fmt.Errorf("1vs1 needs exactly 2 players, got %d: %w", len(players), shared.ErrInvalidArgument)
	}
	m, err := newMatch(players, starting, scoring)
	if err != nil {
		return nil, err
	}
	m.matchScorePlayers = make(map[*shared.Player]int, len(players))
	m.roundScorePlayers = make(map[*shared.Player]int, len(players))
	for _, p := range players {
		m.matchScorePlayers[p] = 0
		m.roundScorePlayers[p] = 0
	}
	return m, nil
}

// NewTeamMatch creates a 2-vs-2 match. Each team must contain at least
// one of the four players. There is no persistent deck: each round
// deals all 40 cards and no draw phase exists.
func NewTeamMatch(players []*shared.Player, starting *shared.Player, scoring shared.ScoringPolicy, teams []*shared.Team) (*Match, error) {
	if len(players) != 4 {
		return nil, fmt.Errorf("2vs2 needs exactly 4 players, got %d: %w", len(players), shared.ErrInvalidArgument)
	}
	if len(teams) != 2 {
		return nil, fmt.Errorf("2vs2 needs exactly 2 teams, got %d: %w", len(teams), shared.ErrInvalidArgument)
	}
	for i, team := range teams {
		if team == nil {
			return nil, fmt.Errorf("team %d is nil: %w", i, shared.ErrInvalidArgument)
		}
		found := false
		for _, p := range players {
			if team.Contains(p) {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("team %s has no member among the players: %w", team.Name, shared.ErrInvalidArgument)
		}
	}
	m, err := newMatch(players, starting, scoring)
	if err != nil {
		return nil, err
	}
	m.twoVsTwo = true
	m.teams = append([]*shared.Team(nil), teams...)
	m.matchScoreTeams = make(map[*shared.Team]int, len(teams))
	m.roundScoreTeams = make(map[*shared.Team]int, len(teams))
	for _, t := range teams {
		m.matchScoreTeams[t] = 0
		m.roundScoreTeams[t] = 0
	}
	return m, nil
}

func newMatch(players []*shared.Player, starting *shared.Player, scoring shared.ScoringPolicy) (*Match, error) {
	if scoring == nil {
		return nil, fmt.Errorf("scoring policy is nil: %w", shared.ErrInvalidArgument)
	}
	turns, err := shared.NewTurnOrder(players, starting)
	if err != nil {
		return nil, err
	}
	return &Match{
		ID:      uuid.NewString(),
		players: append([]*shared.Player(nil), players...),
		scoring: scoring,
		trick:   shared.NewTrick(),
		turns:   turns,
	}, nil
}

// EnableDeck attaches a shared deck to a 1-vs-1 match before the first
// round. The deck identity is then the caller's; dealt-card semantics
// do not change.
func (m *Match) EnableDeck(deck *shared.Deck) {
	m.deck = deck
}

// AddObserver registers an observer. Delivery follows registration order.
func (m *Match) AddObserver(observer Observer) {
	m.observers = append(m.observers, observer)
}

// RemoveObserver deregisters a previously added observer.
func (m *Match) RemoveObserver(observer Observer) {
	for i, o := range m.observers {
		if o == observer {
			m.observers = append(m.observers[:i], m.observers[i+1:]...)
			return
		}
	}
}

// StartNewRound shuffles, deals 10 cards to each player round-robin one
// at a time, and notifies the first turn. Rounds are never started
// automatically; the caller triggers each one.
func (m *Match) StartNewRound() error {
	if m.over {
		return fmt.Errorf("match is over: %w", shared.ErrIllegalState)
	}
	m.lastTrickWinner = nil
	m.trick.Reset()
	if m.deck == nil {
		m.deck = shared.NewDeck()
	} else {
		m.deck.Reset()
	}
	m.deck.Shuffle()
	for _, p := range m.players {
		p.ClearHand()
	}
	for i := 0; i < cardsPerPlayer; i++ {
		for _, p := range m.players {
			card, err := m.deck.Draw()
			if err != nil {
				return err
			}
			p.AddCard(card)
		}
	}
	m.notifyTurnStart(m.turns.Current())
	m.runBots()
	return nil
}

// PlayCard applies a play intent for the given player, resolving the
// trick (and in 1-vs-1 the draw phase) when the trick completes. After
// a successful play any bot seats act until an interactive player is up
// again or the round closes.
func (m *Match) PlayCard(player *shared.Player, card shared.Card) error {
	if m.over {
		return fmt.Errorf("match is over: %w", shared.ErrIllegalState)
	}
	if err := m.applyPlay(player, card); err != nil {
		return err
	}
	m.runBots()
	return nil
}

// applyPlay validates and applies a single play without driving bots.
func (m *Match) applyPlay(player *shared.Player, card shared.Card) error {
	if player != m.turns.Current() {
		return fmt.Errorf("it is not %s's turn: %w", player.Name, shared.ErrIllegalState)
	}
	if !player.HasCard(card) {
		return fmt.Errorf("%s does not hold %s: %w", player.Name, card, shared.ErrIllegalState)
	}
	if m.trick.Leading != "" && !containsCard(player.PlayableCards(m.trick.Leading), card) {
		return fmt.Errorf("%s must follow %s: %w", player.Name, m.trick.Leading, shared.ErrIllegalState)
	}

	player.RemoveCard(card)
	m.trick.RecordPlay(player, card)
	m.notifyCardPlayed(player, card)

	if len(m.trick.Plays) == len(m.players) {
		m.closeTrick()
	} else {
		m.turns.Advance()
		m.notifyTurnStart(m.turns.Current())
	}
	return nil
}

// closeTrick resolves a completed trick: attributes points, hands the
// lead to the winner, runs the 1-vs-1 draw phase and either closes the
// round or announces the next turn.
func (m *Match) closeTrick() {
	winner := m.trick.Winner()
	points := m.trick.Points(m.scoring)
	if winner != nil {
		m.lastTrickWinner = winner
		if m.twoVsTwo {
			if team := m.teamOf(winner); team != nil {
				m.roundScoreTeams[team] += points
			}
		} else {
			m.roundScorePlayers[winner] += points
		}
		m.notifyTrickEnd(winner, points)
		m.notifyScoreUpdate()
		m.turns.SetCurrent(winner) // winner leads the next trick
		if !m.twoVsTwo && m.deck != nil && !m.deck.IsEmpty() {
			m.drawAfterTrick(winner)
		}
	}
	m.trick.Reset()

	if m.roundOver() {
		m.closeRound()
	} else {
		m.notifyTurnStart(m.turns.Current())
	}
}

// drawAfterTrick runs the 1-vs-1 draw phase: the trick winner draws
// first, then the opponent.
func (m *Match) drawAfterTrick(winner *shared.Player) {
	opponent := m.players[0]
	if opponent == winner {
		opponent = m.players[1]
	}
	for _, p := range []*shared.Player{winner, opponent} {
		card, err := m.deck.Draw()
		if err != nil {
			break
		}
		p.AddCard(card)
		m.notifyCardDrawn(p, card, !p.Interactive)
	}
}

// roundOver reports whether the round-end condition holds. In 2-vs-2
// the hands alone decide; in 1-vs-1 the deck must be drained too, since
// the draw phase keeps refilling hands while it has cards.
func (m *Match) roundOver() bool {
	for _, p := range m.players {
		if !p.HandEmpty() {
			return false
		}
	}
	if m.twoVsTwo {
		return true
	}
	return m.deck == nil || m.deck.IsEmpty()
}

// closeRound converts the raw round accumulators into official points
// (floor division by 3, plus one for the last trick), rolls them into
// the match totals and runs the 31-point termination check. On a tie at
// the top the match continues and no match-end event fires.
func (m *Match) closeRound() {
	m.notifyRoundEnd()

	if m.twoVsTwo {
		lastTrickTeam := m.teamOf(m.lastTrickWinner)
		for _, t := range m.teams {
			official := m.roundScoreTeams[t] / 3
			if t == lastTrickTeam {
				official++
			}
			m.matchScoreTeams[t] += official
			m.roundScoreTeams[t] = 0
		}
	} else {
		for _, p := range m.players {
			official := m.roundScorePlayers[p] / 3
			if p == m.lastTrickWinner {
				official++
			}
			m.matchScorePlayers[p] += official
			m.roundScorePlayers[p] = 0
		}
	}

	if !m.thresholdReached() {
		return
	}
	if m.twoVsTwo {
		if winner := m.uniqueLeadingTeam(); winner != nil {
			m.over = true
			m.notifyMatchEndTeam(winner)
		}
	} else {
		if winner := m.uniqueLeadingPlayer(); winner != nil {
			m.over = true
			m.notifyMatchEndPlayer(winner)
		}
	}
}

func (m *Match) thresholdReached() bool {
	if m.twoVsTwo {
		for _, score := range m.matchScoreTeams {
			if score >= winningScore {
				return true
			}
		}
		return false
	}
	for _, score := range m.matchScorePlayers {
		if score >= winningScore {
			return true
		}
	}
	return false
}

// uniqueLeadingPlayer returns the strict maximum scorer, or nil when
// the maximum is shared.
func (m *Match) uniqueLeadingPlayer() *shared.Player {
	var leader *shared.Player
	max, tied := 0, false
	for _, p := range m.players {
		score := m.matchScorePlayers[p]
		switch {
		case leader == nil || score > max:
			leader, max, tied = p, score, false
		case score == max:
			tied = true
		}
	}
	if tied {
		return nil
	}
	return leader
}

// uniqueLeadingTeam returns the strict maximum scorer, or nil when the
// maximum is shared.
func (m *Match) uniqueLeadingTeam() *shared.Team {
	var leader *shared.Team
	max, tied := 0, false
	for _, t := range m.teams {
		score := m.matchScoreTeams[t]
		switch {
		case leader == nil || score > max:
			leader, max, tied = t, score, false
		case score == max:
			tied = true
		}
	}
	if tied {
		return nil
	}
	return leader
}

// runBots lets bot seats act until an interactive player is up, the
// round closes or the match ends. Bot choices run synchronously on the
// caller's goroutine.
func (m *Match) runBots() {
	for !m.over {
		current := m.turns.Current()
		if current.Interactive || current.Choose == nil || current.HandEmpty() {
			return
		}
		playable := current.PlayableCards(m.trick.Leading)
		card := current.Choose(playable, m.trick.Leading, m.trick.Cards())
		if err := m.applyPlay(current, card); err != nil {
			return
		}
	}
}

func (m *Match) teamOf(player *shared.Player) *shared.Team {
	if player == nil {
		return nil
	}
	for _, t := range m.teams {
		if t.Contains(player) {
			return t
		}
	}
	return nil
}

func containsCard(cards []shared.Card, card shared.Card) bool {
	for _, c := range cards {
		if c == card {
			return true
		}
	}
	return false
}

// --- Accessors ---

// Players returns the seats in turn order at construction.
func (m *Match) Players() []*shared.Player {
	return append([]*shared.Player(nil), m.players...)
}

// Teams returns the two teams in 2-vs-2 mode, nil otherwise.
func (m *Match) Teams() []*shared.Team {
	return append([]*shared.Team(nil), m.teams...)
}

// TwoVsTwo reports the match mode.
func (m *Match) TwoVsTwo() bool {
	return m.twoVsTwo
}

// CurrentPlayer returns the player whose turn it is.
func (m *Match) CurrentPlayer() *shared.Player {
	return m.turns.Current()
}

// IsOver reports whether the match reached a unique winner.
func (m *Match) IsOver() bool {
	return m.over
}

// PlayerScores returns a copy of the running match scores (1-vs-1).
func (m *Match) PlayerScores() map[*shared.Player]int {
	scores := make(map[*shared.Player]int, len(m.matchScorePlayers))
	for p, s := range m.matchScorePlayers {
		scores[p] = s
	}
	return scores
}

// TeamScores returns a copy of the running match scores (2-vs-2).
func (m *Match) TeamScores() map[*shared.Team]int {
	scores := make(map[*shared.Team]int, len(m.matchScoreTeams))
	for t, s := range m.matchScoreTeams {
		scores[t] = s
	}
	return scores
}

// --- Observer fan-out ---

func (m *Match) notifyTurnStart(player *shared.Player) {
	for _, o := range m.observers {
		o.OnTurnStart(player)
	}
}

func (m *Match) notifyCardPlayed(player *shared.Player, card shared.Card) {
	for _, o := range m.observers {
		o.OnCardPlayed(player, card)
	}
}

func (m *Match) notifyCardDrawn(player *shared.Player, card shared.Card, reveal bool) {
	for _, o := range m.observers {
		o.OnCardDrawn(player, card, reveal)
	}
}

func (m *Match) notifyTrickEnd(winner *shared.Player, points int) {
	for _, o := range m.observers {
		o.OnTrickEnd(winner, points)
	}
}

func (m *Match) notifyScoreUpdate() {
	if m.twoVsTwo {
		scores := m.TeamScores()
		for _, o := range m.observers {
			o.OnScoreUpdateTeams(scores)
		}
		return
	}
	scores := m.PlayerScores()
	for _, o := range m.observers {
		o.OnScoreUpdatePlayers(scores)
	}
}

func (m *Match) notifyRoundEnd() {
	for _, o := range m.observers {
		o.OnRoundEnd()
	}
}

func (m *Match) notifyMatchEndPlayer(winner *shared.Player) {
	for _, o := range m.observers {
		o.OnMatchEndPlayer(winner)
	}
}

func (m *Match) notifyMatchEndTeam(winner *shared.Team) {
	for _, o := range m.observers {
		o.OnMatchEndTeam(winner)
	}
}
