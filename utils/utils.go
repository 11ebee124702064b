package utils

import (
	"embed"
	"encoding/json"
	"html/template"
	"log"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

// RenderPage renders templates/<file> inside the base layout. data["User"]
// names the signed-in player for the nav bar.
func RenderPage(w http.ResponseWriter, file string, data map[string]interface{}) {
	tmpl, err := template.ParseFS(templateFS, "templates/base.html", "templates/"+file)
	if err != nil {
		http.Error(w, "Template error: "+err.Error(), http.StatusInternalServerError)
		log.Println("TEMPLATE PARSE ERROR:", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		http.Error(w, "Template error: "+err.Error(), http.StatusInternalServerError)
		log.Println("TEMPLATE EXEC ERROR:", err)
	}
}

// RenderPartial renders only the "content" block of templates/<file>, for
// fragment refreshes.
func RenderPartial(w http.ResponseWriter, file string, data map[string]interface{}) {
	tmpl, err := template.ParseFS(templateFS, "templates/"+file)
	if err != nil {
		http.Error(w, "Template error: "+err.Error(), http.StatusInternalServerError)
		log.Println("TEMPLATE PARSE ERROR:", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "content", data); err != nil {
		http.Error(w, "Template error: "+err.Error(), http.StatusInternalServerError)
		log.Println("TEMPLATE EXEC ERROR:", err)
	}
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Println("JSON encode error:", err)
	}
}
