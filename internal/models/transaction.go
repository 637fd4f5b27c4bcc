package models

import "github.com/shopspring/decimal"

// Location is the merchant location attached to a transaction. All
// fields are nullable; institutions rarely report the full set.
type Location struct {
	Address    *string  `json:"address"`
	City       *string  `json:"city"`
	Region     *string  `json:"region"`
	PostalCode *string  `json:"postalCode"`
	Country    *string  `json:"country"`
	Lat        *float64 `json:"lat"`
	Lon        *float64 `json:"lon"`
}

// Transaction represents one posted or pending ledger transaction.
// The transaction collection is append-only by ID: a fetch never
// overwrites an existing record, duplicates are dropped on merge, and
// no flow deletes transactions (history survives unlinking an item).
type Transaction struct {
	ID              string          `json:"id"`
	AccountID       string          `json:"accountId"`
	Amount          decimal.Decimal `json:"amount"`
	Date            string          `json:"date"`           // YYYY-MM-DD
	AuthorizedDate  string          `json:"authorizedDate"` // YYYY-MM-DD, may be empty
	Name            string          `json:"name"`
	MerchantName    string          `json:"merchantName"`
	Category        []string        `json:"category"`
	CategoryID      string          `json:"categoryId"`
	LocalCategory   string          `json:"localCategory,omitempty"`
	Pending         bool            `json:"pending"`
	PaymentChannel  string          `json:"paymentChannel"`
	Location        Location        `json:"location"`
	ISOCurrencyCode string          `json:"isoCurrencyCode"`
}
