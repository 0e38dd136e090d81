package database

// Profile holds the persisted statistics of a named player.
type Profile struct {
	Name        string `json:"name"`
	GamesPlayed int    `json:"games_played"`
	GamesWon    int    `json:"games_won"`
}
