package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"pitaka/internal/core"
)

type recurringJSON struct {
	ID               string `json:"id"`
	Amount           string `json:"amount"`
	Description      string `json:"description"`
	Category         string `json:"category"`
	Frequency        string `json:"frequency"`
	DayOfMonth       int    `json:"dayOfMonth,omitempty"`
	IsActive         bool   `json:"isActive"`
	CreatedAt        string `json:"createdAt,omitempty"`
	LastMaterialized string `json:"lastMaterialized,omitempty"`
}

func toRecurringJSON(def core.RecurringDefinition) recurringJSON {
	out := recurringJSON{
		ID:          def.ID,
		Amount:      formatAmount(def.Amount.Cents),
		Description: def.Description,
		Category:    def.Category,
		Frequency:   string(def.Frequency),
		DayOfMonth:  def.DayOfMonth,
		IsActive:    def.IsActive,
	}
	if !def.CreatedAt.IsZero() {
		out.CreatedAt = def.CreatedAt.UTC().Format(time.RFC3339)
	}
	if !def.LastMaterialized.IsZero() {
		out.LastMaterialized = def.LastMaterialized.UTC().Format(time.RFC3339)
	}
	return out
}

type createRecurringRequest struct {
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Frequency   string `json:"frequency"`
	DayOfMonth  int    `json:"dayOfMonth,omitempty"`
}

func (s *Server) handleRecurring(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listRecurring(w, r)
	case http.MethodPost:
		s.createRecurring(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) listRecurring(w http.ResponseWriter, r *http.Request) {
	defs, err := s.recurring.GetAll(r.Context(), userID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	out := make([]recurringJSON, len(defs))
	for i, def := range defs {
		out[i] = toRecurringJSON(def)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createRecurring(w http.ResponseWriter, r *http.Request) {
	var req createRecurringRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	cents, err := core.ParseDecimalToCents(strings.TrimSpace(req.Amount))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}

	def := core.RecurringDefinition{
		Amount:      core.Money{Cents: cents},
		Description: sanitizeInput(req.Description),
		Category:    sanitizeInput(req.Category),
		Frequency:   core.Frequency(req.Frequency),
		DayOfMonth:  req.DayOfMonth,
	}

	added, err := s.recurring.Add(r.Context(), userID(r), def)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "Recurring definition created",
		"id", added.ID,
		"description", added.Description,
		"frequency", added.Frequency)

	writeJSON(w, http.StatusCreated, toRecurringJSON(added))
}

func (s *Server) handleRecurringByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/recurring/")

	if id, ok := strings.CutSuffix(rest, "/toggle"); ok && id != "" && !strings.Contains(id, "/") {
		s.toggleRecurring(w, r, id)
		return
	}
	if rest == "" || strings.Contains(rest, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodDelete:
		if err := s.recurring.Remove(r.Context(), userID(r), rest); err != nil {
			writeServiceError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.Header().Set("Allow", "DELETE")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) toggleRecurring(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	def, err := s.recurring.Toggle(r.Context(), userID(r), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecurringJSON(def))
}

// handleRecurringProcess materializes every due definition for the caller.
func (s *Server) handleRecurringProcess(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	user := userID(r)
	if user == "" {
		writeError(w, http.StatusUnauthorized, "no authenticated user")
		return
	}

	n, err := s.processor.ProcessDue(r.Context(), user, time.Now())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"processed": n})
}
