package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/fastfixai/tenantsite/internal/apperr"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError renders err as {"error": msg} with an optional "details" field.
func writeError(w http.ResponseWriter, err error) {
	status := apperr.Status(err)
	body := map[string]interface{}{"error": apperr.Message(err)}
	if d := apperr.Details(err); d != "" {
		body["details"] = d
	}
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, body)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return apperr.Validation("Invalid JSON body")
}

// Unavailable answers every request with a 500 naming the missing dependency.
func Unavailable(msg string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeError(w, &apperr.Error{Kind: apperr.ErrInternal, Message: msg})
	}
}
