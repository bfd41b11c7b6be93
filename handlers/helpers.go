package handlers

import (
	"encoding/json"
	"log"
	"net/http"
)

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// respondError sends a stable client-facing message. Driver and engine
// error text stays in the server log.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func logAndRespond500(w http.ResponseWriter, context string, err error) {
	log.Printf("%s: %v", context, err)
	respondError(w, http.StatusInternalServerError, "internal server error")
}

func logFileCleanupError(name string, err error) {
	log.Printf("could not remove stored file %s: %v", name, err)
}
