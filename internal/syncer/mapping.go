package syncer

import (
	"github.com/knagata/plaid-ledger/internal/models"
	"github.com/knagata/plaid-ledger/pkg/plaid"
)

// mapAccount maps a raw aggregator account to the ledger shape.
func mapAccount(itemID string, raw plaid.RawAccount, timestamp string) models.Account {
	return models.Account{
		ID:          raw.AccountID,
		PlaidItemID: itemID,
		Name:        raw.Name,
		Mask:        raw.Mask,
		Type:        raw.Type,
		Subtype:     raw.Subtype,
		Balance: models.Balances{
			Available:              raw.Balances.Available,
			Current:                raw.Balances.Current,
			Limit:                  raw.Balances.Limit,
			ISOCurrencyCode:        raw.Balances.ISOCurrencyCode,
			UnofficialCurrencyCode: raw.Balances.UnofficialCurrencyCode,
		},
		LastUpdated: timestamp,
	}
}

// mapTransaction maps a raw aggregator transaction to the ledger shape,
// annotating it with the local category when a rule matches.
func (s *Syncer) mapTransaction(raw plaid.RawTransaction) models.Transaction {
	merchantName := ""
	if raw.MerchantName != nil {
		merchantName = *raw.MerchantName
	}

	authorizedDate := ""
	if raw.AuthorizedDate != nil {
		authorizedDate = *raw.AuthorizedDate
	}

	return models.Transaction{
		ID:             raw.TransactionID,
		AccountID:      raw.AccountID,
		Amount:         raw.Amount,
		Date:           raw.Date,
		AuthorizedDate: authorizedDate,
		Name:           raw.Name,
		MerchantName:   merchantName,
		Category:       raw.Category,
		CategoryID:     raw.CategoryID,
		LocalCategory:  s.rules.Categorize(merchantName, raw.Name, raw.CategoryID),
		Pending:        raw.Pending,
		PaymentChannel: raw.PaymentChannel,
		Location: models.Location{
			Address:    raw.Location.Address,
			City:       raw.Location.City,
			Region:     raw.Location.Region,
			PostalCode: raw.Location.PostalCode,
			Country:    raw.Location.Country,
			Lat:        raw.Location.Lat,
			Lon:        raw.Location.Lon,
		},
		ISOCurrencyCode: raw.ISOCurrencyCode,
	}
}
