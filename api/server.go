package handlers

import (
	"math/rand"
	"net/http"
	"os"
	"sync"

	gorillahandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"wordguess/db"
	"wordguess/utils"
	"wordguess/words"
)

// Server serves the web front end of the game. Rounds live in memory; only
// finished rounds of logged-in players reach the store.
type Server struct {
	store     *db.Store
	bank      words.Bank
	rng       *lockedSource
	rounds    *registry
	logins    *logins
	clients   *hub
	staticDir string
}

func New(store *db.Store, bank words.Bank, rng *rand.Rand, staticDir string) *Server {
	return &Server{
		store:     store,
		bank:      bank,
		rng:       &lockedSource{r: rng},
		rounds:    newRegistry(),
		logins:    newLogins(),
		clients:   newHub(),
		staticDir: staticDir,
	}
}

// Router wires every route and wraps them with an access log.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()

	if s.staticDir != "" {
		fs := http.FileServer(http.Dir(s.staticDir))
		r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", fs))
	}

	r.HandleFunc("/", s.WelcomeHandler).Methods(http.MethodGet)

	r.HandleFunc("/register", s.RegisterPage).Methods(http.MethodGet)
	r.HandleFunc("/register", s.RegisterHandler).Methods(http.MethodPost)
	r.HandleFunc("/login", s.LoginPage).Methods(http.MethodGet)
	r.HandleFunc("/login", s.LoginHandler).Methods(http.MethodPost)
	r.HandleFunc("/logout", s.LogoutHandler)

	r.HandleFunc("/start", s.StartHandler).Methods(http.MethodPost)
	r.HandleFunc("/gameplay", s.GameplayHandler).Methods(http.MethodGet)
	r.HandleFunc("/guess", s.GuessHandler).Methods(http.MethodPost)
	r.HandleFunc("/state", s.StateHandler).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.WebSocketHandler)

	r.HandleFunc("/leaderboard", s.LeaderboardHandler).Methods(http.MethodGet)
	r.HandleFunc("/stats", s.StatsHandler).Methods(http.MethodGet)
	r.HandleFunc("/history", s.HistoryHandler).Methods(http.MethodGet)

	return gorillahandlers.LoggingHandler(os.Stdout, r)
}

// render draws a full page, filling in the signed-in player for the nav bar.
func (s *Server) render(w http.ResponseWriter, r *http.Request, file string, data map[string]interface{}) {
	if _, ok := data["User"]; !ok {
		data["User"] = s.currentUser(r)
	}
	utils.RenderPage(w, file, data)
}

// lockedSource shares one *rand.Rand between request goroutines.
type lockedSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedSource) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}
