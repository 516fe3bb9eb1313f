package utils

import (
	"encoding/json"
	"net/http"
	"regexp"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes a JSON error body with an optional detail error.
func WriteError(w http.ResponseWriter, status int, message string, err error) {
	body := map[string]string{"error": message}
	if err != nil {
		body["details"] = err.Error()
	}
	WriteJSON(w, status, body)
}

func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}
