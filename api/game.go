package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"wordguess/db"
	"wordguess/logic"
	"wordguess/models"
	"wordguess/utils"
)

var (
	errNoRound       = errors.New("no active round")
	errRoundFinished = errors.New("round is already finished")
)

// session is one round in play. Its mutex serializes guesses, since a Round
// is single-threaded.
type session struct {
	mu       sync.Mutex
	id       string
	player   string // empty for guests
	round    *logic.Round
	recorded bool

	// Guarded by the registry's mutex.
	touched    time.Time
	finishedAt time.Time
}

// GuessResponse is what /guess and the websocket return for a guess.
type GuessResponse struct {
	Outcome models.GuessOutcome `json:"outcome"`
	State   models.RoundView    `json:"state"`
	Cues    []logic.Cue         `json:"cues"`
}

// Helper: the logged-in user, or "" for a guest.
func (s *Server) currentUser(r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil {
		return s.logins.lookup(c.Value)
	}
	return ""
}

func (s *Server) currentSession(r *http.Request) (*session, bool) {
	c, err := r.Cookie("round_id")
	if err != nil || c.Value == "" {
		return nil, false
	}
	return s.rounds.get(c.Value)
}

func setErrorCookie(w http.ResponseWriter, msg string) {
	http.SetCookie(w, &http.Cookie{
		Name:  "error",
		Value: url.QueryEscape(msg),
		Path:  "/",
	})
}

// StartHandler draws a word for the posted difficulty and opens a round,
// discarding any round the browser was playing.
func (s *Server) StartHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad form data", http.StatusBadRequest)
		return
	}
	d, err := models.ParseDifficulty(r.FormValue("difficulty"))
	if err != nil {
		http.Error(w, "Please select a difficulty first.", http.StatusBadRequest)
		return
	}

	round, err := logic.Start(s.bank, d, s.rng)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if old, ok := s.currentSession(r); ok {
		s.rounds.drop(old.id)
	}

	sess := &session{
		id:     uuid.NewString(),
		player: s.currentUser(r),
		round:  round,
	}
	s.rounds.put(sess)

	http.SetCookie(w, &http.Cookie{Name: "round_id", Value: sess.id, Path: "/", HttpOnly: true})
	http.Redirect(w, r, "/gameplay", http.StatusSeeOther)
}

type alphabetKey struct {
	Letter string
	Upper  string
	Used   bool
}

// GameplayHandler renders the board of the current round.
func (s *Server) GameplayHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.currentSession(r)
	if !ok {
		setErrorCookie(w, "Pick a difficulty to start a round.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	sess.mu.Lock()
	view := sess.view()
	sess.mu.Unlock()

	used := make(map[string]bool, len(view.Guessed))
	for _, l := range view.Guessed {
		used[l] = true
	}
	keys := make([]alphabetKey, 0, 26)
	for c := 'a'; c <= 'z'; c++ {
		l := string(c)
		keys = append(keys, alphabetKey{Letter: l, Upper: strings.ToUpper(l), Used: used[l]})
	}

	s.render(w, r, "gameplay.html", map[string]interface{}{
		"View":       view,
		"Alphabet":   keys,
		"Finished":   view.Status.Finished(),
		"FrameImage": logic.FrameName(view.Frame),
	})
}

func (sess *session) view() models.RoundView {
	v := sess.round.View()
	v.ID = sess.id
	return v
}

// GuessHandler applies the posted letter to the current round.
func (s *Server) GuessHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.currentSession(r)
	if !ok {
		http.Error(w, errNoRound.Error(), http.StatusNotFound)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad form data", http.StatusBadRequest)
		return
	}
	resp, err := s.applyGuess(r.Context(), sess, r.FormValue("letter"))
	if errors.Is(err, errRoundFinished) {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	s.clients.broadcast(sess.id, wsMessage{RoundID: sess.id, Action: "state", Outcome: &resp.Outcome, State: resp.State, Cues: resp.Cues})
	utils.WriteJSON(w, http.StatusOK, resp)
}

// applyGuess runs one guess and records the round once it ends.
func (s *Server) applyGuess(ctx context.Context, sess *session, letter string) (GuessResponse, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.round.Status().Finished() {
		return GuessResponse{State: sess.view()}, errRoundFinished
	}

	outcome := sess.round.Guess(letter)
	view := sess.view()

	if view.Status.Finished() {
		s.rounds.finished(sess.id)
	}
	if view.Status.Finished() && !sess.recorded && sess.player != "" && s.store != nil {
		sess.recorded = true
		err := s.store.RecordRound(ctx, db.RoundRecord{
			ID:         sess.id,
			Player:     sess.player,
			Difficulty: sess.round.Difficulty(),
			Category:   sess.round.Category(),
			Word:       sess.round.Word(),
			Won:        view.Status == models.Won,
			WrongCount: sess.round.WrongCount(),
			Guesses:    sess.round.Guessed(),
		})
		if err != nil {
			log.Println("Leaderboard update error:", err)
		}
	}

	return GuessResponse{Outcome: outcome, State: view, Cues: logic.Cues(outcome)}, nil
}

// StateHandler returns the current round as JSON, or as the board fragment
// the gameplay page swaps in when called with ?format=html.
func (s *Server) StateHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.currentSession(r)
	if !ok {
		http.Error(w, errNoRound.Error(), http.StatusNotFound)
		return
	}
	sess.mu.Lock()
	view := sess.view()
	sess.mu.Unlock()

	if r.URL.Query().Get("format") == "html" {
		utils.RenderPartial(w, "state.html", map[string]interface{}{
			"View":       view,
			"Finished":   view.Status.Finished(),
			"FrameImage": logic.FrameName(view.Frame),
		})
		return
	}
	utils.WriteJSON(w, http.StatusOK, view)
}
