package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/knagata/plaid-ledger/internal/models"
	"github.com/knagata/plaid-ledger/internal/syncer"
	"github.com/knagata/plaid-ledger/pkg/plaid"
)

// Handler handles the façade endpoints.
type Handler struct {
	syncer *syncer.Syncer
}

// exchangeRequest is the body of POST /api/items.
type exchangeRequest struct {
	PublicToken     string `json:"publicToken"`
	InstitutionID   string `json:"institutionId"`
	InstitutionName string `json:"institutionName"`
}

// CreateLinkToken handles POST /api/link/token.
func (h *Handler) CreateLinkToken(w http.ResponseWriter, r *http.Request) {
	linkToken, err := h.syncer.CreateLinkToken()
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"linkToken": linkToken,
	})
}

// ExchangePublicToken handles POST /api/items.
func (h *Handler) ExchangePublicToken(w http.ResponseWriter, r *http.Request) {
	var req exchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Failed to parse request body")
		return
	}

	if req.PublicToken == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", "Missing publicToken")
		return
	}

	item, err := h.syncer.ExchangePublicToken(req.PublicToken, req.InstitutionID, req.InstitutionName)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"item": item,
	})
}

// ListItems handles GET /api/items.
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items": h.syncer.Items(),
	})
}

// GetAccounts handles GET /api/items/{itemID}/accounts.
func (h *Handler) GetAccounts(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")

	accounts := h.syncer.GetAccounts(itemID)
	if accounts == nil {
		accounts = []models.Account{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"accounts": accounts,
	})
}

// UpdateBalances handles POST /api/items/{itemID}/balances.
func (h *Handler) UpdateBalances(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")

	accounts, err := h.syncer.UpdateBalances(itemID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"accounts": accounts,
	})
}

// GetTransactions handles GET /api/items/{itemID}/transactions.
// Query parameters start_date and end_date (YYYY-MM-DD) are required.
func (h *Handler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")
	startDate := r.URL.Query().Get("start_date")
	endDate := r.URL.Query().Get("end_date")

	for _, date := range []string{startDate, endDate} {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid_parameter", "start_date and end_date must be YYYY-MM-DD")
			return
		}
	}

	transactions, err := h.syncer.GetTransactions(itemID, startDate, endDate)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": transactions,
	})
}

// RemoveItem handles DELETE /api/items/{itemID}.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")

	removed, err := h.syncer.RemoveItem(itemID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"removed": removed,
	})
}

// Stats handles GET /api/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.syncer.Stats()
	if err != nil {
		writeError(w, err)
		return
	}

	lastSync := ""
	if stats.LastSync.Valid {
		lastSync = stats.LastSync.String
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"totalTransactions": stats.TotalTransactions,
		"totalRuns":         stats.TotalRuns,
		"lastSync":          lastSync,
	})
}

// writeError maps a flow error to an HTTP response. Vault and token
// errors and aggregator failures reach the UI unchanged in meaning; no
// retry or translation happens here.
func writeError(w http.ResponseWriter, err error) {
	var apiErr *plaid.APIError

	switch {
	case errors.Is(err, syncer.ErrTokenNotFound):
		writeJSONError(w, http.StatusNotFound, "token_not_found", err.Error())
	case errors.As(err, &apiErr):
		writeJSONError(w, http.StatusBadGateway, "aggregator_error", apiErr.Error())
	default:
		writeJSONError(w, http.StatusInternalServerError, "server_error", err.Error())
	}
}

// errorResponse represents an API error response.
type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// writeJSONError writes a JSON error response.
func writeJSONError(w http.ResponseWriter, status int, code, description string) {
	writeJSON(w, status, errorResponse{
		Error:            code,
		ErrorDescription: description,
	})
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
