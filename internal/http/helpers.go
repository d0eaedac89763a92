package http

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"fintrack/internal/core"
)

const userIDHeader = "X-User-ID"

// userID extracts the authenticated user from the request. An empty
// return means the request carries no identity; handlers surface that
// as 401 via core.ErrNotAuthenticated from the service layer.
func userID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(userIDHeader))
}

// clientIP extracts the client address, preferring proxy headers.
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already out; nothing left to do but note it.
		return
	}
}

// writeError maps domain sentinel errors onto HTTP status codes and
// writes a JSON error body.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusForError(err), errorResponse{Error: err.Error()})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, core.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrProtectedEntity):
		return http.StatusForbidden
	case errors.Is(err, core.ErrInvalidArgument),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrPercentageRange):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrStoreFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func errInvalidCount(v string) error {
	return fmt.Errorf("%w: count %q", core.ErrInvalidArgument, v)
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: malformed request body: %v", core.ErrInvalidArgument, err)
	}
	return nil
}
