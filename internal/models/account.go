package models

import "github.com/shopspring/decimal"

// Balances holds the balance snapshot of an account at the time of the
// last refresh. Available and Limit are nil when the institution does
// not report them (e.g. no credit limit on a depository account).
type Balances struct {
	Available              *decimal.Decimal `json:"available"`
	Current                *decimal.Decimal `json:"current"`
	Limit                  *decimal.Decimal `json:"limit"`
	ISOCurrencyCode        string           `json:"isoCurrencyCode"`
	UnofficialCurrencyCode string           `json:"unofficialCurrencyCode,omitempty"`
}

// Account represents one financial account belonging to a linked item.
// The set of accounts for a given PlaidItemID is fully replaced on each
// balance refresh; accounts belonging to other items are untouched.
type Account struct {
	ID          string   `json:"id"`
	PlaidItemID string   `json:"plaidItemId"`
	Name        string   `json:"name"`
	Mask        string   `json:"mask"`
	Type        string   `json:"type"`
	Subtype     string   `json:"subtype"`
	Balance     Balances `json:"balance"`
	LastUpdated string   `json:"lastUpdated"` // RFC 3339
}
