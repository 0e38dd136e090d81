package database

import (
	"database/sql"
	"os"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/joho/godotenv/autoload"
	_ "github.com/mattn/go-sqlite3"
)

// Service persists player statistics. It is the persistence
// collaborator the serving layer invokes around matches; the game
// engine itself never touches it.
type Service struct {
	db *sql.DB
	m  *sync.Mutex
}

// New opens the statistics store. TRESSETTE_DB_DRIVER and TRESSETTE_DB
// select the driver and data source; the default is a local sqlite3
// file.
func New() Service {
	driver := os.Getenv("TRESSETTE_DB_DRIVER")
	if driver == "" {
		driver = "sqlite3"
	}
	dsn := os.Getenv("TRESSETTE_DB")
	if dsn == "" {
		dsn = "./tressette.db"
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		panic(err)
	}

	sqlStmt := `
	create table if not exists profiles (
		name string not null primary key,
		games_played integer not null default 0,
		games_won integer not null default 0
	);
	`
	_, err = db.Exec(sqlStmt)
	if err != nil {
		panic(err)
	}

	return Service{
		db: db,
		m:  &sync.Mutex{},
	}
}

func (s *Service) Close() error {
	return s.db.Close()
}

// IncrementPlayed bumps the played-games counter for the named profile,
// creating the profile on first use.
func (s *Service) IncrementPlayed(name string) error {
	s.m.Lock()
	defer s.m.Unlock()
	_, err := s.db.Exec(
		"INSERT INTO profiles (name, games_played, games_won) VALUES (?, 1, 0)"+
			" ON CONFLICT(name) DO UPDATE SET games_played = games_played + 1",
		name)
	return err
}

// IncrementWon bumps the won-games counter for the named profile,
// creating the profile on first use.
func (s *Service) IncrementWon(name string) error {
	s.m.Lock()
	defer s.m.Unlock()
	_, err := s.db.Exec(
		"INSERT INTO profiles (name, games_played, games_won) VALUES (?, 0, 1)"+
			" ON CONFLICT(name) DO UPDATE SET games_won = games_won + 1",
		name)
	return err
}

// GetByName returns the profile for a player name.
func (s *Service) GetByName(name string) (Profile, error) {
	s.m.Lock()
	defer s.m.Unlock()
	var profile Profile
	err := s.db.QueryRow(
		"SELECT name, games_played, games_won FROM profiles WHERE name = ?",
		name).Scan(&profile.Name, &profile.GamesPlayed, &profile.GamesWon)
	if err != nil {
		return Profile{}, err
	}
	return profile, nil
}

// GetAll returns every stored profile.
func (s *Service) GetAll() ([]Profile, error) {
	s.m.Lock()
	defer s.m.Unlock()
	rows, err := s.db.Query("SELECT name, games_played, games_won FROM profiles")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []Profile
	for rows.Next() {
		var profile Profile
		if err := rows.Scan(&profile.Name, &profile.GamesPlayed, &profile.GamesWon); err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, rows.Err()
}
