// Package plaid provides a Plaid API client and wire types for the
// subset of endpoints the sync flows need.
package plaid

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RawAccount represents an account as returned by /accounts/balance/get.
type RawAccount struct {
	AccountID    string      `json:"account_id"`
	Balances     RawBalances `json:"balances"`
	Mask         string      `json:"mask"`
	Name         string      `json:"name"`
	OfficialName *string     `json:"official_name"`
	Type         string      `json:"type"`
	Subtype      string      `json:"subtype"`
}

// RawBalances represents the balances object of an account.
type RawBalances struct {
	Available              *decimal.Decimal `json:"available"`
	Current                *decimal.Decimal `json:"current"`
	Limit                  *decimal.Decimal `json:"limit"`
	ISOCurrencyCode        string           `json:"iso_currency_code"`
	UnofficialCurrencyCode string           `json:"unofficial_currency_code"`
}

// RawLocation represents the location object of a transaction.
type RawLocation struct {
	Address    *string  `json:"address"`
	City       *string  `json:"city"`
	Region     *string  `json:"region"`
	PostalCode *string  `json:"postal_code"`
	Country    *string  `json:"country"`
	Lat        *float64 `json:"lat"`
	Lon        *float64 `json:"lon"`
}

// RawTransaction represents a transaction as returned by /transactions/get.
type RawTransaction struct {
	TransactionID   string          `json:"transaction_id"`
	AccountID       string          `json:"account_id"`
	Amount          decimal.Decimal `json:"amount"`
	ISOCurrencyCode string          `json:"iso_currency_code"`
	Category        []string        `json:"category"`
	CategoryID      string          `json:"category_id"`
	Date            string          `json:"date"`            // YYYY-MM-DD
	AuthorizedDate  *string         `json:"authorized_date"` // YYYY-MM-DD
	Location        RawLocation     `json:"location"`
	Name            string          `json:"name"`
	MerchantName    *string         `json:"merchant_name"`
	PaymentChannel  string          `json:"payment_channel"`
	Pending         bool            `json:"pending"`
}

// linkTokenCreateRequest is the body of /link/token/create.
type linkTokenCreateRequest struct {
	ClientID     string        `json:"client_id"`
	Secret       string        `json:"secret"`
	ClientName   string        `json:"client_name"`
	User         linkTokenUser `json:"user"`
	Products     []string      `json:"products"`
	CountryCodes []string      `json:"country_codes"`
	Language     string        `json:"language"`
}

type linkTokenUser struct {
	ClientUserID string `json:"client_user_id"`
}

type linkTokenCreateResponse struct {
	LinkToken string `json:"link_token"`
	RequestID string `json:"request_id"`
}

// exchangeRequest is the body of /item/public_token/exchange.
type exchangeRequest struct {
	ClientID    string `json:"client_id"`
	Secret      string `json:"secret"`
	PublicToken string `json:"public_token"`
}

type exchangeResponse struct {
	AccessToken string `json:"access_token"`
	ItemID      string `json:"item_id"`
	RequestID   string `json:"request_id"`
}

// accountsGetRequest is the body of /accounts/balance/get.
type accountsGetRequest struct {
	ClientID    string `json:"client_id"`
	Secret      string `json:"secret"`
	AccessToken string `json:"access_token"`
}

type accountsGetResponse struct {
	Accounts  []RawAccount `json:"accounts"`
	RequestID string       `json:"request_id"`
}

// transactionsGetRequest is the body of /transactions/get.
type transactionsGetRequest struct {
	ClientID    string             `json:"client_id"`
	Secret      string             `json:"secret"`
	AccessToken string             `json:"access_token"`
	StartDate   string             `json:"start_date"` // YYYY-MM-DD
	EndDate     string             `json:"end_date"`   // YYYY-MM-DD
	Options     transactionOptions `json:"options"`
}

type transactionOptions struct {
	Count  int `json:"count"`
	Offset int `json:"offset"`
}

type transactionsGetResponse struct {
	Accounts          []RawAccount     `json:"accounts"`
	Transactions      []RawTransaction `json:"transactions"`
	TotalTransactions int              `json:"total_transactions"`
	RequestID         string           `json:"request_id"`
}

// itemRemoveRequest is the body of /item/remove.
type itemRemoveRequest struct {
	ClientID    string `json:"client_id"`
	Secret      string `json:"secret"`
	AccessToken string `json:"access_token"`
}

type itemRemoveResponse struct {
	RequestID string `json:"request_id"`
}

// sandboxPublicTokenRequest is the body of /sandbox/public_token/create.
type sandboxPublicTokenRequest struct {
	ClientID        string   `json:"client_id"`
	Secret          string   `json:"secret"`
	InstitutionID   string   `json:"institution_id"`
	InitialProducts []string `json:"initial_products"`
}

type sandboxPublicTokenResponse struct {
	PublicToken string `json:"public_token"`
	RequestID   string `json:"request_id"`
}

// APIError is a non-2xx response from the Plaid API.
type APIError struct {
	StatusCode     int    `json:"-"`
	ErrorType      string `json:"error_type"`
	ErrorCode      string `json:"error_code"`
	ErrorMessage   string `json:"error_message"`
	DisplayMessage string `json:"display_message"`
	RequestID      string `json:"request_id"`
}

func (e *APIError) Error() string {
	if e.ErrorCode != "" {
		return fmt.Sprintf("plaid API error (status %d): %s - %s", e.StatusCode, e.ErrorCode, e.ErrorMessage)
	}
	return fmt.Sprintf("plaid API error (status %d)", e.StatusCode)
}
