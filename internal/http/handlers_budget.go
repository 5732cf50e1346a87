package http

import (
	"net/http"
	"strings"
	"time"

	"pitaka/internal/core"
)

type budgetJSON struct {
	MonthlyIncome string `json:"monthlyIncome"`
	UpdatedAt     string `json:"updatedAt,omitempty"`
}

type updateBudgetRequest struct {
	MonthlyIncome string `json:"monthlyIncome"`
}

func (s *Server) handleBudget(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.getBudget(w, r)
	case http.MethodPut:
		s.updateBudget(w, r)
	default:
		w.Header().Set("Allow", "GET, PUT")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) getBudget(w http.ResponseWriter, r *http.Request) {
	setting, err := s.settings.Get(r.Context(), userID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	out := budgetJSON{MonthlyIncome: formatAmount(setting.MonthlyIncome.Cents)}
	if !setting.UpdatedAt.IsZero() {
		out.UpdatedAt = setting.UpdatedAt.UTC().Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) updateBudget(w http.ResponseWriter, r *http.Request) {
	var req updateBudgetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	cents, err := core.ParseDecimalToCents(strings.TrimSpace(req.MonthlyIncome))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}

	setting := core.BudgetSetting{
		MonthlyIncome: core.Money{Cents: cents},
		UpdatedAt:     time.Now(),
	}
	if err := s.settings.Merge(r.Context(), userID(r), setting); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, budgetJSON{
		MonthlyIncome: formatAmount(cents),
		UpdatedAt:     setting.UpdatedAt.UTC().Format(time.RFC3339),
	})
}
