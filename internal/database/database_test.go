package database

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	t.Setenv("TRESSETTE_DB_DRIVER", "sqlite3")
	t.Setenv("TRESSETTE_DB", filepath.Join(t.TempDir(), "test.db"))
	svc := New()
	t.Cleanup(func() { svc.Close() })
	return svc
}

func TestIncrementCounters(t *testing.T) {
	svc := newTestService(t)

	if err := svc.IncrementPlayed("alice"); err != nil {
		t.Fatalf("IncrementPlayed failed: %v", err)
	}
	if err := svc.IncrementPlayed("alice"); err != nil {
		t.Fatalf("IncrementPlayed failed: %v", err)
	}
	if err := svc.IncrementWon("alice"); err != nil {
		t.Fatalf("IncrementWon failed: %v", err)
	}

	profile, err := svc.GetByName("alice")
	if err != nil {
		t.Fatalf("GetByName failed: %v", err)
	}
	if profile.GamesPlayed != 2 || profile.GamesWon != 1 {
		t.Fatalf("expected 2 played / 1 won, got %d / %d", profile.GamesPlayed, profile.GamesWon)
	}
}

func TestIncrementWonCreatesProfile(t *testing.T) {
	svc := newTestService(t)

	if err := svc.IncrementWon("bob"); err != nil {
		t.Fatalf("IncrementWon failed: %v", err)
	}
	profile, err := svc.GetByName("bob")
	if err != nil {
		t.Fatalf("GetByName failed: %v", err)
	}
	if profile.GamesPlayed != 0 || profile.GamesWon != 1 {
		t.Fatalf("expected 0 played / 1 won, got %d / %d", profile.GamesPlayed, profile.GamesWon)
	}
}

func TestGetByNameUnknownProfile(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.GetByName("nobody"); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestGetAll(t *testing.T) {
	svc := newTestService(t)

	for _, name := range []string{"alice", "bob", "carol"} {
		if err := svc.IncrementPlayed(name); err != nil {
			t.Fatalf("IncrementPlayed failed: %v", err)
		}
	}
	profiles, err := svc.GetAll()
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(profiles) != 3 {
		t.Fatalf("expected 3 profiles, got %d", len(profiles))
	}
}
