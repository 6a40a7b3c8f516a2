// Package api holds the JSON response helpers shared by every handler.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// WriteJSON writes any payload verbatim; list and detail endpoints that
// return bare objects or arrays go through here directly.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Warn("write json failed", "err", err)
	}
}

// Success writes a flat envelope: {"success": true, <fields...>}.
func Success(w http.ResponseWriter, status int, fields map[string]any) {
	payload := map[string]any{"success": true}
	for key, value := range fields {
		payload[key] = value
	}
	WriteJSON(w, status, payload)
}

// Fail writes {"success": false, "message": ...}.
func Fail(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]any{"success": false, "message": message})
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
