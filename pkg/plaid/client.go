package plaid

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ClientConfig represents the configuration for the Plaid API client.
type ClientConfig struct {
	APIURL     string
	ClientID   string
	Secret     string
	ClientName string        // Shown in the Link widget
	Timeout    time.Duration // Default: 30 seconds
}

// Client is a Plaid API client. Every call carries the client
// credentials; the per-item access token is passed per call so that one
// client serves all linked items.
type Client struct {
	httpClient *http.Client
	baseURL    string
	clientID   string
	secret     string
	clientName string
}

// NewClient creates a new Plaid API client.
func NewClient(config ClientConfig) *Client {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	clientName := config.ClientName
	if clientName == "" {
		clientName = "plaid-ledger"
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:    config.APIURL,
		clientID:   config.ClientID,
		secret:     config.Secret,
		clientName: clientName,
	}
}

// CreateLinkToken creates a link token for the Link widget.
func (c *Client) CreateLinkToken(clientUserID string) (string, error) {
	req := linkTokenCreateRequest{
		ClientID:   c.clientID,
		Secret:     c.secret,
		ClientName: c.clientName,
		User: linkTokenUser{
			ClientUserID: clientUserID,
		},
		Products:     []string{"transactions"},
		CountryCodes: []string{"US"},
		Language:     "en",
	}

	var resp linkTokenCreateResponse
	if err := c.post("/link/token/create", req, &resp); err != nil {
		return "", err
	}

	return resp.LinkToken, nil
}

// ExchangePublicToken exchanges a public token issued by the Link
// widget for a permanent access token and the item identifier. The
// exchange is one-shot: the public token is consumed.
func (c *Client) ExchangePublicToken(publicToken string) (accessToken, itemID string, err error) {
	req := exchangeRequest{
		ClientID:    c.clientID,
		Secret:      c.secret,
		PublicToken: publicToken,
	}

	var resp exchangeResponse
	if err := c.post("/item/public_token/exchange", req, &resp); err != nil {
		return "", "", err
	}

	return resp.AccessToken, resp.ItemID, nil
}

// GetAccounts fetches the accounts and current balances for an item.
func (c *Client) GetAccounts(accessToken string) ([]RawAccount, error) {
	req := accountsGetRequest{
		ClientID:    c.clientID,
		Secret:      c.secret,
		AccessToken: accessToken,
	}

	var resp accountsGetResponse
	if err := c.post("/accounts/balance/get", req, &resp); err != nil {
		return nil, err
	}

	return resp.Accounts, nil
}

// GetTransactions fetches all transactions for an item in the date
// range [startDate, endDate], following count/offset pagination until
// the reported total is reached.
func (c *Client) GetTransactions(accessToken, startDate, endDate string) ([]RawTransaction, error) {
	var all []RawTransaction
	offset := 0
	count := 100

	for {
		req := transactionsGetRequest{
			ClientID:    c.clientID,
			Secret:      c.secret,
			AccessToken: accessToken,
			StartDate:   startDate,
			EndDate:     endDate,
			Options: transactionOptions{
				Count:  count,
				Offset: offset,
			},
		}

		var resp transactionsGetResponse
		if err := c.post("/transactions/get", req, &resp); err != nil {
			return nil, fmt.Errorf("failed to get transactions (offset=%d): %w", offset, err)
		}

		all = append(all, resp.Transactions...)

		if len(all) >= resp.TotalTransactions || len(resp.Transactions) == 0 {
			break
		}

		offset += len(resp.Transactions)
	}

	return all, nil
}

// RemoveItem revokes the item's access token on the aggregator side.
func (c *Client) RemoveItem(accessToken string) error {
	req := itemRemoveRequest{
		ClientID:    c.clientID,
		Secret:      c.secret,
		AccessToken: accessToken,
	}

	var resp itemRemoveResponse
	return c.post("/item/remove", req, &resp)
}

// CreateSandboxPublicToken creates a public token directly, bypassing
// the Link widget. Only available against sandbox environments.
func (c *Client) CreateSandboxPublicToken(institutionID string) (string, error) {
	req := sandboxPublicTokenRequest{
		ClientID:        c.clientID,
		Secret:          c.secret,
		InstitutionID:   institutionID,
		InitialProducts: []string{"transactions"},
	}

	var resp sandboxPublicTokenResponse
	if err := c.post("/sandbox/public_token/create", req, &resp); err != nil {
		return "", err
	}

	return resp.PublicToken, nil
}

// post sends a JSON POST request and decodes the response into out.
func (c *Client) post(path string, body, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest("POST", c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.parseError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// parseError parses an error response from the Plaid API.
func (c *Client) parseError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{StatusCode: resp.StatusCode}
	}

	apiErr := APIError{StatusCode: resp.StatusCode}
	if err := json.Unmarshal(body, &apiErr); err != nil {
		return fmt.Errorf("plaid API error (status %d): %s", resp.StatusCode, string(body))
	}

	return &apiErr
}
