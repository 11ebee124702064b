package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"

	"wordguess/models"
)

// RoundRecord is a finished round as stored.
type RoundRecord struct {
	ID         string            `json:"id"`
	Player     string            `json:"player"`
	Difficulty models.Difficulty `json:"difficulty"`
	Category   string            `json:"category"`
	Word       string            `json:"word"`
	Won        bool              `json:"won"`
	WrongCount int               `json:"wrong_count"`
	Guesses    []string          `json:"guesses"`
	FinishedAt time.Time         `json:"finished_at"`
}

// RecordRound stores a finished round for a registered player.
func (s *Store) RecordRound(ctx context.Context, rec RoundRecord) error {
	res, err := s.DB.ExecContext(ctx, `
		INSERT INTO rounds (id, player_id, difficulty, category, word, won, wrong_count, guessed_letters)
		SELECT ?, id, ?, ?, ?, ?, ?, ? FROM users WHERE username = ?`,
		rec.ID, rec.Difficulty.String(), rec.Category, rec.Word, rec.Won, rec.WrongCount,
		strings.Join(rec.Guesses, ","), rec.Player)
	if err != nil {
		return fmt.Errorf("insert round: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert round: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrUnknownUser, rec.Player)
	}
	return nil
}

// PlayerRounds returns a player's most recent rounds, newest first.
func (s *Store) PlayerRounds(ctx context.Context, player string, limit int) ([]RoundRecord, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT r.id, u.username, r.difficulty, r.category, r.word, r.won, r.wrong_count, r.guessed_letters, r.finished_at
		FROM rounds r
		JOIN users u ON r.player_id = u.id
		WHERE u.username = ?
		ORDER BY r.finished_at DESC, r.rowid DESC
		LIMIT ?`, player, limit)
	if err != nil {
		return nil, fmt.Errorf("query rounds: %w", err)
	}
	defer rows.Close()

	records := []RoundRecord{}
	for rows.Next() {
		var (
			rec        RoundRecord
			difficulty string
			guesses    string
		)
		if err := rows.Scan(&rec.ID, &rec.Player, &difficulty, &rec.Category, &rec.Word,
			&rec.Won, &rec.WrongCount, &guesses, &rec.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan round: %w", err)
		}
		if rec.Difficulty, err = models.ParseDifficulty(difficulty); err != nil {
			return nil, fmt.Errorf("scan round %s: %w", rec.ID, err)
		}
		rec.Guesses = []string{}
		if guesses != "" {
			rec.Guesses = strings.Split(guesses, ",")
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

type LeaderboardEntry struct {
	Player      string `json:"player"`
	Wins        int    `json:"wins"`
	BestScore   string `json:"best_score"` // fewest wrong guesses in a win, "N/A" without wins
	GamesPlayed int    `json:"games_played"`
}

// Leaderboard ranks players by wins, then by best score.
func (s *Store) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT u.username,
			SUM(r.won) AS wins,
			MIN(CASE WHEN r.won = 1 THEN r.wrong_count END) AS best,
			COUNT(*) AS played
		FROM rounds r
		JOIN users u ON r.player_id = u.id
		GROUP BY u.id
		ORDER BY wins DESC, best IS NULL, best ASC, u.username ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	entries := []LeaderboardEntry{}
	for rows.Next() {
		var (
			e    LeaderboardEntry
			best sql.NullInt64
		)
		if err := rows.Scan(&e.Player, &e.Wins, &best, &e.GamesPlayed); err != nil {
			return nil, fmt.Errorf("scan leaderboard: %w", err)
		}
		e.BestScore = "N/A"
		if best.Valid {
			e.BestScore = fmt.Sprintf("%d", best.Int64)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

type DifficultyStats struct {
	Difficulty  models.Difficulty `json:"difficulty"`
	Played      int               `json:"played"`
	Wins        int               `json:"wins"`
	WinRate     float64           `json:"win_rate"`
	MeanWrong   float64           `json:"mean_wrong"`
	StdDevWrong float64           `json:"stddev_wrong"`
}

// Stats summarizes the recorded rounds per difficulty, easiest first. Tiers
// with no rounds are included with zero values.
func (s *Store) Stats(ctx context.Context) ([]DifficultyStats, error) {
	rows, err := s.DB.QueryContext(ctx, "SELECT difficulty, won, wrong_count FROM rounds")
	if err != nil {
		return nil, fmt.Errorf("query stats: %w", err)
	}
	defer rows.Close()

	wrong := make(map[models.Difficulty][]float64)
	wins := make(map[models.Difficulty]int)
	for rows.Next() {
		var (
			name  string
			won   bool
			count int
		)
		if err := rows.Scan(&name, &won, &count); err != nil {
			return nil, fmt.Errorf("scan stats: %w", err)
		}
		d, err := models.ParseDifficulty(name)
		if err != nil {
			continue
		}
		wrong[d] = append(wrong[d], float64(count))
		if won {
			wins[d]++
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	summary := make([]DifficultyStats, 0, len(models.Difficulties()))
	for _, d := range models.Difficulties() {
		xs := wrong[d]
		st := DifficultyStats{Difficulty: d, Played: len(xs), Wins: wins[d]}
		if len(xs) > 0 {
			st.WinRate = float64(st.Wins) / float64(st.Played)
			st.MeanWrong = stat.Mean(xs, nil)
		}
		if len(xs) > 1 {
			st.StdDevWrong = stat.StdDev(xs, nil)
		}
		summary = append(summary, st)
	}
	return summary, nil
}
