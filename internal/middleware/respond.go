package middleware

import (
	"encoding/json"
	"net/http"
)

// writeError answers with the same JSON error shape the handlers use.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
