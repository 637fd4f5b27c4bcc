package sandbox

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/knagata/plaid-ledger/pkg/plaid"
)

// institution is one canned institution the sandbox can link.
type institution struct {
	ID   string
	Name string
}

// Institutions available in the sandbox.
var institutions = map[string]institution{
	"ins_109508": {ID: "ins_109508", Name: "First Platypus Bank"},
	"ins_109509": {ID: "ins_109509", Name: "First Gingham Credit Union"},
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func strPtr(s string) *string {
	return &s
}

// seedAccounts builds the canned accounts for a freshly exchanged item.
// Account IDs are stamped per item so that linking the same institution
// twice never collides.
func seedAccounts(itemID string) []plaid.RawAccount {
	return []plaid.RawAccount{
		{
			AccountID: fmt.Sprintf("acc-%s-checking", itemID),
			Balances: plaid.RawBalances{
				Available:       decPtr("1204.56"),
				Current:         decPtr("1274.93"),
				ISOCurrencyCode: "USD",
			},
			Mask:    "0000",
			Name:    "Plaid Checking",
			Type:    "depository",
			Subtype: "checking",
		},
		{
			AccountID: fmt.Sprintf("acc-%s-credit", itemID),
			Balances: plaid.RawBalances{
				Current:         decPtr("410.00"),
				Limit:           decPtr("2000.00"),
				ISOCurrencyCode: "USD",
			},
			Mask:    "3333",
			Name:    "Plaid Credit Card",
			Type:    "credit",
			Subtype: "credit card",
		},
	}
}

// seedTransactions builds the canned transactions for a freshly
// exchanged item. Dates are fixed so that test windows are stable.
func seedTransactions(itemID string) []plaid.RawTransaction {
	checking := fmt.Sprintf("acc-%s-checking", itemID)
	credit := fmt.Sprintf("acc-%s-credit", itemID)

	return []plaid.RawTransaction{
		{
			TransactionID:   fmt.Sprintf("txn-%s-1", itemID),
			AccountID:       checking,
			Amount:          dec("12.74"),
			ISOCurrencyCode: "USD",
			Category:        []string{"Food and Drink", "Coffee Shop"},
			CategoryID:      "13005043",
			Date:            "2024-01-05",
			AuthorizedDate:  strPtr("2024-01-04"),
			Name:            "STARBUCKS STORE 12345",
			MerchantName:    strPtr("Starbucks"),
			PaymentChannel:  "in store",
			Location: plaid.RawLocation{
				City:   strPtr("San Francisco"),
				Region: strPtr("CA"),
			},
		},
		{
			TransactionID:   fmt.Sprintf("txn-%s-2", itemID),
			AccountID:       credit,
			Amount:          dec("89.40"),
			ISOCurrencyCode: "USD",
			Category:        []string{"Shops", "Supermarkets and Groceries"},
			CategoryID:      "19047000",
			Date:            "2024-01-12",
			Name:            "WHOLEFDS MKT 10203",
			MerchantName:    strPtr("Whole Foods Market"),
			PaymentChannel:  "in store",
		},
		{
			TransactionID:   fmt.Sprintf("txn-%s-3", itemID),
			AccountID:       checking,
			Amount:          dec("-1500.00"),
			ISOCurrencyCode: "USD",
			Category:        []string{"Transfer", "Payroll"},
			CategoryID:      "21009000",
			Date:            "2024-01-27",
			Name:            "ACME CORP PAYROLL",
			PaymentChannel:  "other",
		},
		{
			TransactionID:   fmt.Sprintf("txn-%s-4", itemID),
			AccountID:       credit,
			Amount:          dec("15.99"),
			ISOCurrencyCode: "USD",
			Category:        []string{"Service", "Subscription"},
			CategoryID:      "18061000",
			Date:            "2024-02-03",
			Name:            "Netflix.com",
			MerchantName:    strPtr("Netflix"),
			PaymentChannel:  "online",
			Pending:         true,
		},
	}
}
