// Package respond writes the stub backend's response bodies. Successful
// responses are bare JSON (or plain text for the two text endpoints), the way
// the Clevo service answers; errors use the {code, message} envelope.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Envelope is the error body shared by every handler.
type Envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// JSON writes payload as the whole response body.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Default().Warn("respond: encode payload failed", slog.Any("err", err))
	}
}

// Text writes a plain-text body.
func Text(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(message))
}

// Error writes an error response with the shared envelope structure.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Envelope{Code: status, Message: message})
}
