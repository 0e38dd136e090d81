package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"tressette-engine/internal/database"
)

// HandleRoutes registers the REST endpoints exposing player statistics.
func HandleRoutes(db *database.Service) {
	http.HandleFunc("/api/profiles/{name}", func(w http.ResponseWriter, r *http.Request) {
		GetProfileHandler(db, w, r)
	})
	log.Println("Registered route: /api/profiles/{name}")

	http.HandleFunc("/api/profiles", func(w http.ResponseWriter, r *http.Request) {
		GetProfilesHandler(db, w, r)
	})
	log.Println("Registered route: /api/profiles")
}

// GetProfileHandler serves one player's statistics.
func GetProfileHandler(db *database.Service, w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" {
		http.Error(w, "Player name is required", http.StatusBadRequest)
		return
	}

	profile, err := db.GetByName(name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "No profile found for player", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to fetch profile", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profile)
}

// GetProfilesHandler serves every stored profile.
func GetProfilesHandler(db *database.Service, w http.ResponseWriter, r *http.Request) {
	profiles, err := db.GetAll()
	if err != nil {
		http.Error(w, "Failed to fetch profiles", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profiles)
}
