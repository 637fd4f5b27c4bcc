package ledger

import "github.com/knagata/plaid-ledger/internal/models"

// Transactions returns all transaction records.
func (s *Store) Transactions() []models.Transaction {
	transactions := []models.Transaction{}
	s.load(transactionsFile, &transactions)
	return transactions
}

// SaveTransactions rewrites the transaction collection.
func (s *Store) SaveTransactions(transactions []models.Transaction) error {
	return s.save(transactionsFile, transactions)
}

// MergeTransactions appends the fetched transactions whose IDs are not
// already present. The collection is append-only by identity: existing
// records are never overwritten, duplicates are silently dropped, and
// the file is rewritten only when at least one new record was added.
// Returns the number of records added.
func (s *Store) MergeTransactions(fetched []models.Transaction) (int, error) {
	transactions := s.Transactions()

	known := make(map[string]bool, len(transactions))
	for _, txn := range transactions {
		known[txn.ID] = true
	}

	added := 0
	for _, txn := range fetched {
		if known[txn.ID] {
			continue
		}
		known[txn.ID] = true
		transactions = append(transactions, txn)
		added++
	}

	if added == 0 {
		return 0, nil
	}

	return added, s.SaveTransactions(transactions)
}
