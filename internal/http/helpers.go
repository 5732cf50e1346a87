package http

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pitaka/internal/core"
)

type requestIDKey struct{}

// userIDHeader carries the authenticated user. Authentication itself happens
// upstream; the API trusts the header the proxy sets.
const userIDHeader = "X-User-ID"

func userID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(userIDHeader))
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeServiceError maps domain errors onto HTTP statuses: missing user 401,
// missing resource 404, validation failures 422, everything else 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "no authenticated user")
	case errors.Is(err, core.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case isValidationError(err):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.ErrorContext(r.Context(), "Request failed", "error", err, "url", r.URL.Path)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		core.ErrInvalidAmount,
		core.ErrEmptyDescription,
		core.ErrEmptyCategory,
		core.ErrInvalidFrequency,
		core.ErrInvalidDayOfMonth,
		core.ErrInvalidDate,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// decodeJSON reads the request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// parseDate parses a date string in YYYY-MM-DD format.
func parseDate(dateStr string) (time.Time, error) {
	return time.Parse(time.DateOnly, dateStr)
}

// formatAmount renders cents as a plain decimal string (e.g. "12.34").
func formatAmount(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := strconv.FormatInt(cents/100, 10) + "." + fmt.Sprintf("%02d", cents%100)
	if neg {
		return "-" + s
	}
	return s
}

// sanitizeInput removes potentially dangerous characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return result
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
