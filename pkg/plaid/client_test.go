package plaid

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(url string) *Client {
	return NewClient(ClientConfig{
		APIURL:   url,
		ClientID: "test-client",
		Secret:   "test-secret",
	})
}

func TestExchangePublicToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/item/public_token/exchange" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req["client_id"] != "test-client" || req["secret"] != "test-secret" {
			t.Error("request is missing client credentials")
		}
		if req["public_token"] != "public-sandbox-xyz" {
			t.Errorf("public_token = %q", req["public_token"])
		}

		json.NewEncoder(w).Encode(map[string]string{
			"access_token": "access-sandbox-abc",
			"item_id":      "item_1",
			"request_id":   "req_1",
		})
	}))
	defer server.Close()

	accessToken, itemID, err := newTestClient(server.URL).ExchangePublicToken("public-sandbox-xyz")
	if err != nil {
		t.Fatalf("ExchangePublicToken() failed: %v", err)
	}
	if accessToken != "access-sandbox-abc" {
		t.Errorf("accessToken = %q", accessToken)
	}
	if itemID != "item_1" {
		t.Errorf("itemID = %q", itemID)
	}
}

func TestGetTransactionsPaginates(t *testing.T) {
	// 250 transactions forces three pages at the default page size.
	const total = 250

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			AccessToken string `json:"access_token"`
			Options     struct {
				Count  int `json:"count"`
				Offset int `json:"offset"`
			} `json:"options"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}

		page := []RawTransaction{}
		for i := req.Options.Offset; i < total && i < req.Options.Offset+req.Options.Count; i++ {
			page = append(page, RawTransaction{TransactionID: fmt.Sprintf("txn_%03d", i)})
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"transactions":       page,
			"total_transactions": total,
		})
	}))
	defer server.Close()

	transactions, err := newTestClient(server.URL).GetTransactions("access-sandbox-abc", "2024-01-01", "2024-12-31")
	if err != nil {
		t.Fatalf("GetTransactions() failed: %v", err)
	}
	if len(transactions) != total {
		t.Fatalf("got %d transactions, expected %d", len(transactions), total)
	}
	if transactions[0].TransactionID != "txn_000" || transactions[total-1].TransactionID != "txn_249" {
		t.Error("transactions are not in fetch order")
	}
}

func TestGetTransactionsEmptyPageStopsPagination(t *testing.T) {
	// A server reporting a total it never delivers must not loop.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"transactions":       []RawTransaction{},
			"total_transactions": 10,
		})
	}))
	defer server.Close()

	transactions, err := newTestClient(server.URL).GetTransactions("access-sandbox-abc", "2024-01-01", "2024-12-31")
	if err != nil {
		t.Fatalf("GetTransactions() failed: %v", err)
	}
	if len(transactions) != 0 {
		t.Errorf("got %d transactions, expected 0", len(transactions))
	}
}

func TestAPIErrorParsing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"error_type":    "INVALID_INPUT",
			"error_code":    "INVALID_ACCESS_TOKEN",
			"error_message": "could not find matching access token",
			"request_id":    "req_err",
		})
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GetAccounts("access-bogus")
	if err == nil {
		t.Fatal("GetAccounts() succeeded, expected an error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error is %T, expected *APIError", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("StatusCode = %d", apiErr.StatusCode)
	}
	if apiErr.ErrorCode != "INVALID_ACCESS_TOKEN" {
		t.Errorf("ErrorCode = %q", apiErr.ErrorCode)
	}
}

func TestCreateLinkToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			User struct {
				ClientUserID string `json:"client_user_id"`
			} `json:"user"`
			Products []string `json:"products"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.User.ClientUserID != "user-1" {
			t.Errorf("client_user_id = %q", req.User.ClientUserID)
		}
		if len(req.Products) != 1 || req.Products[0] != "transactions" {
			t.Errorf("products = %v", req.Products)
		}

		json.NewEncoder(w).Encode(map[string]string{
			"link_token": "link-sandbox-123",
		})
	}))
	defer server.Close()

	token, err := newTestClient(server.URL).CreateLinkToken("user-1")
	if err != nil {
		t.Fatalf("CreateLinkToken() failed: %v", err)
	}
	if token != "link-sandbox-123" {
		t.Errorf("token = %q", token)
	}
}
