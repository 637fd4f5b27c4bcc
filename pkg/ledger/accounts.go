package ledger

import "github.com/knagata/plaid-ledger/internal/models"

// Accounts returns all account records.
func (s *Store) Accounts() []models.Account {
	accounts := []models.Account{}
	s.load(accountsFile, &accounts)
	return accounts
}

// SaveAccounts rewrites the account collection.
func (s *Store) SaveAccounts(accounts []models.Account) error {
	return s.save(accountsFile, accounts)
}

// AccountsForItem returns the accounts belonging to one linked item.
func (s *Store) AccountsForItem(itemID string) []models.Account {
	var result []models.Account
	for _, account := range s.Accounts() {
		if account.PlaidItemID == itemID {
			result = append(result, account)
		}
	}
	return result
}

// ReplaceAccountsForItem drops every account belonging to itemID and
// appends fresh in their place. Accounts of other items are untouched,
// so a refresh can never leak stale records into the collection.
func (s *Store) ReplaceAccountsForItem(itemID string, fresh []models.Account) error {
	accounts := s.Accounts()

	kept := accounts[:0]
	for _, account := range accounts {
		if account.PlaidItemID != itemID {
			kept = append(kept, account)
		}
	}
	kept = append(kept, fresh...)

	return s.SaveAccounts(kept)
}

// RemoveAccountsForItem deletes every account belonging to itemID.
func (s *Store) RemoveAccountsForItem(itemID string) error {
	return s.ReplaceAccountsForItem(itemID, nil)
}
