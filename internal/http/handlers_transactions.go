package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"pitaka/internal/core"
	"pitaka/internal/store"
)

type transactionJSON struct {
	ID          string `json:"id"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Type        string `json:"type"`
	Date        string `json:"date"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

func toTransactionJSON(tx core.Transaction) transactionJSON {
	out := transactionJSON{
		ID:          tx.ID,
		Amount:      formatAmount(tx.Amount.Cents),
		Description: tx.Description,
		Category:    tx.Category,
		Type:        tx.Type,
		Date:        tx.Date.Format(time.DateOnly),
	}
	if !tx.CreatedAt.IsZero() {
		out.CreatedAt = tx.CreatedAt.UTC().Format(time.RFC3339)
	}
	if !tx.UpdatedAt.IsZero() {
		out.UpdatedAt = tx.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return out
}

type createTransactionRequest struct {
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Date        string `json:"date,omitempty"`
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listTransactions(w, r)
	case http.MethodPost:
		s.createTransaction(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.transactions.List(r.Context(), userID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	out := make([]transactionJSON, len(txs))
	for i, tx := range txs {
		out[i] = toTransactionJSON(tx)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	cents, err := core.ParseDecimalToCents(strings.TrimSpace(req.Amount))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}

	date := time.Now()
	if req.Date != "" {
		date, err = parseDate(req.Date)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid date, expected YYYY-MM-DD")
			return
		}
	}

	tx := core.Transaction{
		Amount:      core.Money{Cents: cents},
		Description: sanitizeInput(req.Description),
		Category:    sanitizeInput(req.Category),
		Type:        core.TypeExpense,
		Date:        date,
		UserID:      userID(r),
	}
	if err := tx.Validate(); err != nil {
		writeServiceError(w, r, err)
		return
	}

	id, err := s.transactions.Create(r.Context(), tx)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "Transaction created",
		"id", id,
		"description", tx.Description,
		"amount_cents", tx.Amount.Cents,
		"category", tx.Category)

	tx.ID = id
	writeJSON(w, http.StatusCreated, toTransactionJSON(tx))
}

type updateTransactionRequest struct {
	Amount      *string `json:"amount,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	Date        *string `json:"date,omitempty"`
}

func (s *Server) handleTransactionByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/transactions/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodPatch, http.MethodPut:
		s.updateTransaction(w, r, id)
	case http.MethodDelete:
		s.deleteTransaction(w, r, id)
	default:
		w.Header().Set("Allow", "PATCH, PUT, DELETE")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) updateTransaction(w http.ResponseWriter, r *http.Request, id string) {
	var req updateTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	var patch store.TransactionPatch
	if req.Amount != nil {
		cents, err := core.ParseDecimalToCents(strings.TrimSpace(*req.Amount))
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid amount")
			return
		}
		patch.Amount = &core.Money{Cents: cents}
	}
	if req.Description != nil {
		desc := sanitizeInput(*req.Description)
		patch.Description = &desc
	}
	if req.Category != nil {
		cat := sanitizeInput(*req.Category)
		patch.Category = &cat
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid date, expected YYYY-MM-DD")
			return
		}
		patch.Date = &date
	}

	if err := s.transactions.Update(r.Context(), userID(r), id, patch); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteTransaction(w http.ResponseWriter, r *http.Request, id string) {
	if err := s.transactions.Delete(r.Context(), userID(r), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
