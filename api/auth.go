package handlers

import (
	"errors"
	"log"
	"net/http"

	"wordguess/db"
)

// sessionCookie carries the login token; the player name stays server side.
const sessionCookie = "session"

// === LOGIN ===
func (s *Server) LoginPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "login.html", map[string]interface{}{})
}

func (s *Server) LoginHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad form data", http.StatusBadRequest)
		return
	}
	username := r.FormValue("username")
	password := r.FormValue("password")

	player, err := s.store.Authenticate(r.Context(), username, password)
	if err != nil {
		if !errors.Is(err, db.ErrInvalidCredentials) {
			log.Println("Login error:", err)
		}
		w.WriteHeader(http.StatusUnauthorized)
		s.render(w, r, "login.html", map[string]interface{}{
			"Error": "Invalid credentials",
		})
		return
	}

	if c, err := r.Cookie(sessionCookie); err == nil {
		s.logins.close(c.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    s.logins.open(player),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// === REGISTER ===
func (s *Server) RegisterPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "register.html", map[string]interface{}{})
}

func (s *Server) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad form data", http.StatusBadRequest)
		return
	}
	username := r.FormValue("username")
	password := r.FormValue("password")

	err := s.store.CreateUser(r.Context(), username, password)
	switch {
	case err == nil:
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	case errors.Is(err, db.ErrUserExists):
		w.WriteHeader(http.StatusConflict)
		s.render(w, r, "register.html", map[string]interface{}{
			"Error": "Username already taken",
		})
	case errors.Is(err, db.ErrInvalidCredentials):
		w.WriteHeader(http.StatusBadRequest)
		s.render(w, r, "register.html", map[string]interface{}{
			"Error": "Username and password are required",
		})
	default:
		log.Println("Register error:", err)
		http.Error(w, "Registration failed", http.StatusInternalServerError)
	}
}

// === LOGOUT ===
func (s *Server) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookie); err == nil {
		s.logins.close(c.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:   sessionCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
