// Package syncer orchestrates the four user-facing flows: linking an
// institution, refreshing balances, fetching transactions, and
// unlinking. It composes the Plaid client (network), the credential
// vault (secrets), and the ledger store (disk); it holds no collection
// state of its own.
//
// Error policy, by collaborator: Plaid and vault errors are fatal to
// the enclosing flow and propagate unchanged. Ledger write failures on
// the account and transaction collections are logged and swallowed (the
// in-memory result is still returned). The one exception is the item
// record written during linking: if that write fails the stored token
// is removed again, so a secret never outlives the record it belongs to.
package syncer

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/knagata/plaid-ledger/internal/models"
	"github.com/knagata/plaid-ledger/internal/vault"
	"github.com/knagata/plaid-ledger/pkg/categorize"
	"github.com/knagata/plaid-ledger/pkg/db"
	"github.com/knagata/plaid-ledger/pkg/ledger"
	"github.com/knagata/plaid-ledger/pkg/plaid"
)

// Config represents the collaborators of a Syncer. Client, Vault, and
// Store are required; History and Rules are optional.
type Config struct {
	Client       *plaid.Client
	Vault        vault.Vault
	Store        *ledger.Store
	History      *db.SyncHistory
	Rules        *categorize.Mapper
	ClientUserID string
}

// Syncer implements the sync flows. Mutating flows are serialized by a
// mutex: every flow is a load-modify-save cycle over whole-file
// collections, so two interleaved writers would silently drop the
// earlier writer's update.
type Syncer struct {
	mu           sync.Mutex
	client       *plaid.Client
	vault        vault.Vault
	store        *ledger.Store
	history      *db.SyncHistory
	rules        *categorize.Mapper
	clientUserID string
	now          func() time.Time
}

// New creates a new Syncer.
func New(cfg Config) *Syncer {
	rules := cfg.Rules
	if rules == nil {
		rules = categorize.NewEmptyMapper()
	}

	clientUserID := cfg.ClientUserID
	if clientUserID == "" {
		clientUserID = "plaid-ledger-user"
	}

	return &Syncer{
		client:       cfg.Client,
		vault:        cfg.Vault,
		store:        cfg.Store,
		history:      cfg.History,
		rules:        rules,
		clientUserID: clientUserID,
		now:          time.Now,
	}
}

// CreateLinkToken creates a link token for the institution-picker
// widget. Nothing is persisted.
func (s *Syncer) CreateLinkToken() (string, error) {
	return s.client.CreateLinkToken(s.clientUserID)
}

// Items returns all linked item records.
func (s *Syncer) Items() []models.Item {
	return s.store.Items()
}

// GetAccounts returns the locally stored accounts for an item.
func (s *Syncer) GetAccounts(itemID string) []models.Account {
	return s.store.AccountsForItem(itemID)
}

// ExchangePublicToken links a new institution: it exchanges the public
// token for an access token and item ID, stores the token in the vault,
// persists the item record, and fetches the item's accounts. The access
// token never leaves this package.
func (s *Syncer) ExchangePublicToken(publicToken, institutionID, institutionName string) (models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	accessToken, itemID, err := s.client.ExchangePublicToken(publicToken)
	if err != nil {
		return models.Item{}, err
	}

	if err := s.vault.Store(itemID, accessToken); err != nil {
		// Nothing persisted yet; the whole link fails.
		return models.Item{}, fmt.Errorf("failed to store access token: %w", err)
	}

	item := models.Item{
		ID:              itemID,
		InstitutionID:   institutionID,
		InstitutionName: institutionName,
		LastUpdated:     s.timestamp(),
		Status:          models.ItemStatusGood,
	}

	if err := s.store.AddItem(item); err != nil {
		// A token without a ledger record is unreachable by every other
		// flow, so take it back out of the vault.
		if rmErr := s.vault.Remove(itemID); rmErr != nil {
			slog.Error("failed to remove orphaned access token", "item_id", itemID, "error", rmErr)
		}
		return models.Item{}, fmt.Errorf("failed to persist item record: %w", err)
	}

	if _, err := s.fetchAndStoreAccounts(itemID, accessToken); err != nil {
		// Token and item record stay linked; the UI can retry with a
		// balance refresh.
		return models.Item{}, err
	}

	slog.Info("linked institution", "item_id", itemID, "institution", institutionName)
	return item, nil
}

// UpdateBalances fetches fresh balances for an item and fully replaces
// its stored accounts.
func (s *Syncer) UpdateBalances(itemID string) ([]models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	accessToken, err := s.token(itemID)
	if err != nil {
		return nil, err
	}

	accounts, err := s.fetchAndStoreAccounts(itemID, accessToken)
	if err != nil {
		return nil, err
	}

	s.touchItem(itemID)
	return accounts, nil
}

// GetTransactions fetches the item's transactions in [startDate,
// endDate] (dates as YYYY-MM-DD) and merges the new ones into the
// ledger. The return value is the full query result for the window,
// independent of what got persisted.
func (s *Syncer) GetTransactions(itemID, startDate, endDate string) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	accessToken, err := s.token(itemID)
	if err != nil {
		return nil, err
	}

	raw, err := s.client.GetTransactions(accessToken, startDate, endDate)
	if err != nil {
		return nil, err
	}

	fetched := make([]models.Transaction, 0, len(raw))
	for _, r := range raw {
		fetched = append(fetched, s.mapTransaction(r))
	}

	added, err := s.store.MergeTransactions(fetched)
	if err != nil {
		slog.Error("failed to persist transactions", "item_id", itemID, "error", err)
	}

	s.recordSync(itemID, startDate, endDate, fetched, added)
	s.touchItem(itemID)

	slog.Info("fetched transactions",
		"item_id", itemID,
		"from", startDate,
		"to", endDate,
		"fetched", len(fetched),
		"added", added,
	)

	return fetched, nil
}

// RemoveItem unlinks an institution: the connection is revoked
// remotely, the token is removed from the vault, and the item and its
// accounts are dropped from the ledger. Transactions are intentionally
// retained; historical data survives unlinking.
func (s *Syncer) RemoveItem(itemID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	accessToken, err := s.token(itemID)
	if err != nil {
		return false, err
	}

	if err := s.client.RemoveItem(accessToken); err != nil {
		return false, err
	}

	if err := s.vault.Remove(itemID); err != nil && !errors.Is(err, vault.ErrNotFound) {
		return false, fmt.Errorf("failed to remove access token: %w", err)
	}

	if _, err := s.store.RemoveItem(itemID); err != nil {
		slog.Error("failed to persist item removal", "item_id", itemID, "error", err)
	}
	if err := s.store.RemoveAccountsForItem(itemID); err != nil {
		slog.Error("failed to persist account removal", "item_id", itemID, "error", err)
	}

	slog.Info("unlinked institution", "item_id", itemID)
	return true, nil
}

// Stats returns sync statistics, or zero statistics when no history
// database is attached.
func (s *Syncer) Stats() (*db.Stats, error) {
	if s.history == nil {
		return &db.Stats{}, nil
	}
	return s.history.GetStats()
}

// fetchAndStoreAccounts fetches the item's accounts and fully replaces
// the stored set for that item. Returns the freshly fetched accounts,
// not the full collection. A persistence failure is logged, not
// surfaced: the fetch result is still valid for the caller.
func (s *Syncer) fetchAndStoreAccounts(itemID, accessToken string) ([]models.Account, error) {
	raw, err := s.client.GetAccounts(accessToken)
	if err != nil {
		return nil, err
	}

	ts := s.timestamp()
	fresh := make([]models.Account, 0, len(raw))
	for _, r := range raw {
		fresh = append(fresh, mapAccount(itemID, r, ts))
	}

	if err := s.store.ReplaceAccountsForItem(itemID, fresh); err != nil {
		slog.Error("failed to persist accounts", "item_id", itemID, "error", err)
	}

	return fresh, nil
}

// token retrieves the item's access token from the vault.
func (s *Syncer) token(itemID string) (string, error) {
	accessToken, err := s.vault.Retrieve(itemID)
	if err != nil {
		if errors.Is(err, vault.ErrNotFound) {
			return "", fmt.Errorf("%w: %s", ErrTokenNotFound, itemID)
		}
		return "", err
	}
	return accessToken, nil
}

// touchItem stamps the item's lastUpdated after a successful sync.
func (s *Syncer) touchItem(itemID string) {
	if err := s.store.TouchItem(itemID, s.timestamp()); err != nil {
		slog.Error("failed to persist item timestamp", "item_id", itemID, "error", err)
	}
}

// recordSync writes the fetch to the sync-history database. History is
// bookkeeping only; failures never affect the flow.
func (s *Syncer) recordSync(itemID, startDate, endDate string, fetched []models.Transaction, added int) {
	if s.history == nil {
		return
	}

	for _, txn := range fetched {
		err := s.history.RecordTransaction(db.SyncRecord{
			ItemID:        itemID,
			TransactionID: txn.ID,
			Date:          txn.Date,
			Amount:        txn.Amount.String(),
		})
		if err != nil {
			slog.Error("failed to record transaction sync", "transaction_id", txn.ID, "error", err)
		}
	}

	err := s.history.RecordRun(db.RunRecord{
		ItemID:    itemID,
		StartDate: startDate,
		EndDate:   endDate,
		Fetched:   len(fetched),
		Added:     added,
	})
	if err != nil {
		slog.Error("failed to record sync run", "item_id", itemID, "error", err)
	}
}

func (s *Syncer) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}
