package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
)

// Response is the envelope returned by every user endpoint
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// responder writes JSON replies and logs what the client does not see
type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return responder{logger: logger}
}

func (rs responder) json(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		rs.logger.Error("failed to encode response", "status", status, "error", err)
	}
}

func (rs responder) success(w http.ResponseWriter, status int, message string, data any) {
	rs.json(w, status, Response{Success: true, Message: message, Data: data})
}

// fail replies with message. err, when set, is logged with the status:
// internal errors at error level, everything else at warn.
func (rs responder) fail(w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		level := slog.LevelWarn
		if status == http.StatusInternalServerError {
			level = slog.LevelError
		}
		rs.logger.Log(context.Background(), level, message, "status", status, "error", err)
	}
	rs.json(w, status, Response{Success: false, Message: message})
}
