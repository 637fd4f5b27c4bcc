// Package api exposes the sync flows to the UI process as a JSON
// request/response API on a localhost listener. It is a thin façade:
// requests are decoded, handed to the syncer, and the result or error
// is written back; no flow logic lives here.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/knagata/plaid-ledger/internal/syncer"
)

// NewRouter builds the façade router.
func NewRouter(s *syncer.Syncer) http.Handler {
	h := &Handler{syncer: s}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger)

	r.Route("/api", func(r chi.Router) {
		r.Post("/link/token", h.CreateLinkToken)
		r.Get("/items", h.ListItems)
		r.Post("/items", h.ExchangePublicToken)
		r.Get("/items/{itemID}/accounts", h.GetAccounts)
		r.Post("/items/{itemID}/balances", h.UpdateBalances)
		r.Get("/items/{itemID}/transactions", h.GetTransactions)
		r.Delete("/items/{itemID}", h.RemoveItem)
		r.Get("/stats", h.Stats)
	})

	return r
}
