package handlers

import (
	"net/http"
	"net/url"

	"wordguess/models"
)

// WelcomeHandler shows the difficulty picker, plus any error left behind by
// a redirect.
func (s *Server) WelcomeHandler(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{
		"User":         s.currentUser(r),
		"Difficulties": models.Difficulties(),
	}

	if errCookie, err := r.Cookie("error"); err == nil {
		if msg, decodeErr := url.QueryUnescape(errCookie.Value); decodeErr == nil {
			data["Error"] = msg
		}
		// Clear the error cookie so it's only shown once
		http.SetCookie(w, &http.Cookie{
			Name:   "error",
			Value:  "",
			Path:   "/",
			MaxAge: -1,
		})
	}

	s.render(w, r, "index.html", data)
}
