package middleware

import (
	"encoding/json"
	"net/http"
)

// writeJSONError writes {"message": message}, the error shape shared with
// the backend and the handlers.
func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"message": message,
	})
}
