package handlers

import (
	"log"
	"net/http"

	"wordguess/utils"
)

const leaderboardSize = 10

// LeaderboardHandler shows the top players by wins, then by best score.
func (s *Server) LeaderboardHandler(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.Leaderboard(r.Context(), leaderboardSize)
	if err != nil {
		log.Println("Leaderboard error:", err)
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	s.render(w, r, "leaderboard.html", map[string]interface{}{
		"Entries": entries,
	})
}

// StatsHandler returns per-difficulty aggregates as JSON.
func (s *Server) StatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.Stats(r.Context())
	if err != nil {
		log.Println("Stats error:", err)
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, stats)
}

// HistoryHandler returns the logged-in player's recent rounds as JSON.
func (s *Server) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	user := s.currentUser(r)
	if user == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	rounds, err := s.store.PlayerRounds(r.Context(), user, leaderboardSize)
	if err != nil {
		log.Println("History error:", err)
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, rounds)
}
