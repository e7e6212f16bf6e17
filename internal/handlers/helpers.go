package handlers

import (
	"encoding/json"
	"net/http"
)

// respondJSON сериализует ответ в JSON.
func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// respondError отвечает в формате {"detail": ...}, как ожидает клиент.
func respondError(w http.ResponseWriter, status int, detail string) {
	respondJSON(w, status, map[string]string{"detail": detail})
}
