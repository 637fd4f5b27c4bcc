package sandbox

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/knagata/plaid-ledger/pkg/plaid"
)

const tokenLength = 24

// Server serves the sandbox endpoints.
type Server struct {
	store    *Store
	clientID string
	secret   string
}

// NewServer creates a sandbox server backed by a bbolt database at
// dbPath. Requests must carry the given client credentials.
func NewServer(dbPath, clientID, secret string) (*Server, error) {
	store, err := NewStore(dbPath)
	if err != nil {
		return nil, err
	}

	return &Server{
		store:    store,
		clientID: clientID,
		secret:   secret,
	}, nil
}

// Close closes the underlying store.
func (s *Server) Close() error {
	return s.store.Close()
}

// Handler builds the sandbox router. Paths and body shapes mirror the
// real aggregator API so that the regular client works unchanged.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Post("/link/token/create", s.handleLinkTokenCreate)
	r.Post("/sandbox/public_token/create", s.handlePublicTokenCreate)
	r.Post("/item/public_token/exchange", s.handleExchange)
	r.Post("/accounts/balance/get", s.handleAccounts)
	r.Post("/transactions/get", s.handleTransactions)
	r.Post("/item/remove", s.handleItemRemove)

	return r
}

// credentials is the part of every request body carrying the API keys.
type credentials struct {
	ClientID string `json:"client_id"`
	Secret   string `json:"secret"`
}

func (c credentials) valid(s *Server) bool {
	return c.ClientID == s.clientID && c.Secret == s.secret
}

// itemRecord is the stored state of a linked sandbox item.
type itemRecord struct {
	InstitutionID   string `json:"institution_id"`
	InstitutionName string `json:"institution_name"`
}

// publicTokenRecord is the stored state of an unexchanged public token.
type publicTokenRecord struct {
	InstitutionID string `json:"institution_id"`
}

func (s *Server) handleLinkTokenCreate(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if !s.decodeAndAuth(w, r, &req, &req) {
		return
	}

	token, err := randomToken("link-sandbox")
	if err != nil {
		writePlaidError(w, http.StatusInternalServerError, "API_ERROR", "INTERNAL_SERVER_ERROR", "failed to generate token")
		return
	}

	writeJSON(w, map[string]interface{}{
		"link_token": token,
		"request_id": requestID(),
	})
}

func (s *Server) handlePublicTokenCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		credentials
		InstitutionID string `json:"institution_id"`
	}
	if !s.decodeAndAuth(w, r, &req, &req.credentials) {
		return
	}

	if _, ok := institutions[req.InstitutionID]; !ok {
		writePlaidError(w, http.StatusBadRequest, "INVALID_INPUT", "INVALID_INSTITUTION", "unknown institution_id")
		return
	}

	token, err := randomToken("public-sandbox")
	if err != nil {
		writePlaidError(w, http.StatusInternalServerError, "API_ERROR", "INTERNAL_SERVER_ERROR", "failed to generate token")
		return
	}

	record := publicTokenRecord{InstitutionID: req.InstitutionID}
	if err := s.store.putJSON(bucketPublicTokens, token, record); err != nil {
		writePlaidError(w, http.StatusInternalServerError, "API_ERROR", "INTERNAL_SERVER_ERROR", "failed to store token")
		return
	}

	writeJSON(w, map[string]interface{}{
		"public_token": token,
		"request_id":   requestID(),
	})
}

func (s *Server) handleExchange(w http.ResponseWriter, r *http.Request) {
	var req struct {
		credentials
		PublicToken string `json:"public_token"`
	}
	if !s.decodeAndAuth(w, r, &req, &req.credentials) {
		return
	}

	var record publicTokenRecord
	if err := s.store.getJSON(bucketPublicTokens, req.PublicToken, &record); err != nil {
		writePlaidError(w, http.StatusBadRequest, "INVALID_INPUT", "INVALID_PUBLIC_TOKEN", "public token not found or already exchanged")
		return
	}

	// The exchange is one-shot: the public token is consumed.
	_ = s.store.delete(bucketPublicTokens, req.PublicToken)

	suffix, err := randomToken("")
	if err != nil {
		writePlaidError(w, http.StatusInternalServerError, "API_ERROR", "INTERNAL_SERVER_ERROR", "failed to generate item")
		return
	}
	itemID := "item-sandbox-" + suffix[:12]
	accessToken := "access-sandbox-" + suffix

	inst := institutions[record.InstitutionID]
	item := itemRecord{InstitutionID: inst.ID, InstitutionName: inst.Name}

	if err := s.seedItem(itemID, accessToken, item); err != nil {
		writePlaidError(w, http.StatusInternalServerError, "API_ERROR", "INTERNAL_SERVER_ERROR", "failed to store item")
		return
	}

	writeJSON(w, map[string]interface{}{
		"access_token": accessToken,
		"item_id":      itemID,
		"request_id":   requestID(),
	})
}

func (s *Server) handleAccounts(w http.ResponseWriter, r *http.Request) {
	var req struct {
		credentials
		AccessToken string `json:"access_token"`
	}
	if !s.decodeAndAuth(w, r, &req, &req.credentials) {
		return
	}

	itemID, ok := s.itemForToken(w, req.AccessToken)
	if !ok {
		return
	}

	var accounts []plaid.RawAccount
	if err := s.store.getJSON(bucketAccounts, itemID, &accounts); err != nil {
		writePlaidError(w, http.StatusInternalServerError, "API_ERROR", "INTERNAL_SERVER_ERROR", "failed to load accounts")
		return
	}

	writeJSON(w, map[string]interface{}{
		"accounts":   accounts,
		"request_id": requestID(),
	})
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	var req struct {
		credentials
		AccessToken string `json:"access_token"`
		StartDate   string `json:"start_date"`
		EndDate     string `json:"end_date"`
		Options     struct {
			Count  int `json:"count"`
			Offset int `json:"offset"`
		} `json:"options"`
	}
	if !s.decodeAndAuth(w, r, &req, &req.credentials) {
		return
	}

	itemID, ok := s.itemForToken(w, req.AccessToken)
	if !ok {
		return
	}

	var all []plaid.RawTransaction
	if err := s.store.getJSON(bucketTransactions, itemID, &all); err != nil {
		writePlaidError(w, http.StatusInternalServerError, "API_ERROR", "INTERNAL_SERVER_ERROR", "failed to load transactions")
		return
	}

	// YYYY-MM-DD strings compare correctly as dates.
	var inRange []plaid.RawTransaction
	for _, txn := range all {
		if txn.Date >= req.StartDate && txn.Date <= req.EndDate {
			inRange = append(inRange, txn)
		}
	}

	count := req.Options.Count
	if count <= 0 {
		count = 100
	}
	offset := req.Options.Offset

	page := []plaid.RawTransaction{}
	if offset < len(inRange) {
		end := offset + count
		if end > len(inRange) {
			end = len(inRange)
		}
		page = inRange[offset:end]
	}

	writeJSON(w, map[string]interface{}{
		"transactions":       page,
		"total_transactions": len(inRange),
		"request_id":         requestID(),
	})
}

func (s *Server) handleItemRemove(w http.ResponseWriter, r *http.Request) {
	var req struct {
		credentials
		AccessToken string `json:"access_token"`
	}
	if !s.decodeAndAuth(w, r, &req, &req.credentials) {
		return
	}

	itemID, ok := s.itemForToken(w, req.AccessToken)
	if !ok {
		return
	}

	_ = s.store.delete(bucketAccessTokens, req.AccessToken)
	_ = s.store.delete(bucketItems, itemID)
	_ = s.store.delete(bucketAccounts, itemID)
	_ = s.store.delete(bucketTransactions, itemID)

	writeJSON(w, map[string]interface{}{
		"request_id": requestID(),
	})
}

// seedItem stores a fresh item with its canned accounts and transactions.
func (s *Server) seedItem(itemID, accessToken string, item itemRecord) error {
	if err := s.store.putJSON(bucketItems, itemID, item); err != nil {
		return err
	}
	if err := s.store.putJSON(bucketAccessTokens, accessToken, itemID); err != nil {
		return err
	}
	if err := s.store.putJSON(bucketAccounts, itemID, seedAccounts(itemID)); err != nil {
		return err
	}
	return s.store.putJSON(bucketTransactions, itemID, seedTransactions(itemID))
}

// itemForToken resolves an access token, writing the error response on
// failure.
func (s *Server) itemForToken(w http.ResponseWriter, accessToken string) (string, bool) {
	var itemID string
	if err := s.store.getJSON(bucketAccessTokens, accessToken, &itemID); err != nil {
		if errors.Is(err, ErrNotFound) {
			writePlaidError(w, http.StatusBadRequest, "INVALID_INPUT", "INVALID_ACCESS_TOKEN", "access token not found")
		} else {
			writePlaidError(w, http.StatusInternalServerError, "API_ERROR", "INTERNAL_SERVER_ERROR", "failed to resolve token")
		}
		return "", false
	}
	return itemID, true
}

// decodeAndAuth decodes the request body and validates the client
// credentials, writing the error response on failure.
func (s *Server) decodeAndAuth(w http.ResponseWriter, r *http.Request, body interface{}, creds *credentials) bool {
	if err := json.NewDecoder(r.Body).Decode(body); err != nil {
		writePlaidError(w, http.StatusBadRequest, "INVALID_REQUEST", "MISSING_FIELDS", "failed to parse request body")
		return false
	}

	if !creds.valid(s) {
		writePlaidError(w, http.StatusUnauthorized, "INVALID_INPUT", "INVALID_API_KEYS", "invalid client_id or secret")
		return false
	}

	return true
}

// writePlaidError writes an error response in the aggregator's shape.
func writePlaidError(w http.ResponseWriter, status int, errorType, errorCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error_type":    errorType,
		"error_code":    errorCode,
		"error_message": message,
		"request_id":    requestID(),
	})
}

// writeJSON writes a success response.
func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(v)
}

// randomToken generates a URL-safe random token, optionally prefixed.
func randomToken(prefix string) (string, error) {
	b := make([]byte, tokenLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	token := base64.RawURLEncoding.EncodeToString(b)
	if prefix == "" {
		return token, nil
	}
	return fmt.Sprintf("%s-%s", prefix, token), nil
}

// requestID generates a short request identifier for responses.
func requestID() string {
	id, err := randomToken("")
	if err != nil {
		return "req-unknown"
	}
	return id[:12]
}
