package utils

import (
	"encoding/json"
	"net/http"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, resp APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// WriteRaw encodes v without the APIResponse envelope. Used where the response
// body is an upstream object returned verbatim (e.g. payment gateway orders).
func WriteRaw(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// GetStringValue returns the value of a nullable string pointer or empty string if nil
func GetStringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
