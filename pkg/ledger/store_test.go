package ledger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/knagata/plaid-ledger/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	return store
}

func TestOpenInitializesEmptyCollections(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}

	for _, name := range []string{"items.json", "accounts.json", "transactions.json"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("expected %s to exist: %v", name, err)
		}
		if string(data) != "[]\n" {
			t.Errorf("%s = %q, expected empty array", name, string(data))
		}
	}

	if got := len(store.Items()); got != 0 {
		t.Errorf("Items() returned %d records on first run, expected 0", got)
	}
}

func TestLoadCorruptFileReturnsEmpty(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "items.json"), []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	if got := len(store.Items()); got != 0 {
		t.Errorf("Items() returned %d records from corrupt file, expected 0", got)
	}
}

func TestAddItemReplacesSameID(t *testing.T) {
	store := openTestStore(t)

	if err := store.AddItem(models.Item{ID: "item_1", InstitutionName: "Chase"}); err != nil {
		t.Fatalf("AddItem() failed: %v", err)
	}
	if err := store.AddItem(models.Item{ID: "item_1", InstitutionName: "Chase Bank"}); err != nil {
		t.Fatalf("AddItem() failed: %v", err)
	}

	items := store.Items()
	if len(items) != 1 {
		t.Fatalf("Items() returned %d records, expected 1", len(items))
	}
	if items[0].InstitutionName != "Chase Bank" {
		t.Errorf("InstitutionName = %q, expected replacement to win", items[0].InstitutionName)
	}
}

func TestRemoveItem(t *testing.T) {
	store := openTestStore(t)

	if err := store.AddItem(models.Item{ID: "item_1"}); err != nil {
		t.Fatal(err)
	}

	removed, err := store.RemoveItem("item_1")
	if err != nil {
		t.Fatalf("RemoveItem() failed: %v", err)
	}
	if !removed {
		t.Error("RemoveItem() = false, expected true")
	}

	removed, err = store.RemoveItem("item_1")
	if err != nil {
		t.Fatalf("RemoveItem() failed: %v", err)
	}
	if removed {
		t.Error("RemoveItem() on absent item = true, expected false")
	}
}

func TestTouchItem(t *testing.T) {
	store := openTestStore(t)

	if err := store.AddItem(models.Item{ID: "item_1", LastUpdated: "2024-01-01T00:00:00Z"}); err != nil {
		t.Fatal(err)
	}

	if err := store.TouchItem("item_1", "2024-02-01T00:00:00Z"); err != nil {
		t.Fatalf("TouchItem() failed: %v", err)
	}

	item, ok := store.FindItem("item_1")
	if !ok {
		t.Fatal("FindItem() did not find item_1")
	}
	if item.LastUpdated != "2024-02-01T00:00:00Z" {
		t.Errorf("LastUpdated = %q, expected stamp to be persisted", item.LastUpdated)
	}
}

func TestReplaceAccountsForItem(t *testing.T) {
	store := openTestStore(t)

	initial := []models.Account{
		{ID: "acc_1", PlaidItemID: "item_1"},
		{ID: "acc_2", PlaidItemID: "item_1"},
		{ID: "acc_3", PlaidItemID: "item_2"},
	}
	if err := store.SaveAccounts(initial); err != nil {
		t.Fatal(err)
	}

	fresh := []models.Account{
		{ID: "acc_4", PlaidItemID: "item_1"},
	}
	if err := store.ReplaceAccountsForItem("item_1", fresh); err != nil {
		t.Fatalf("ReplaceAccountsForItem() failed: %v", err)
	}

	accounts := store.Accounts()
	if len(accounts) != 2 {
		t.Fatalf("Accounts() returned %d records, expected 2", len(accounts))
	}

	// Stale item_1 accounts are gone, item_2 is untouched.
	for _, account := range accounts {
		if account.ID == "acc_1" || account.ID == "acc_2" {
			t.Errorf("stale account %s leaked through replacement", account.ID)
		}
	}
	if got := store.AccountsForItem("item_2"); len(got) != 1 || got[0].ID != "acc_3" {
		t.Errorf("AccountsForItem(item_2) = %v, expected acc_3 untouched", got)
	}
}

func TestMergeTransactionsIsAppendOnly(t *testing.T) {
	store := openTestStore(t)

	batch := []models.Transaction{
		{ID: "txn_1", AccountID: "acc_1", Amount: decimal.NewFromInt(10), Name: "first"},
		{ID: "txn_2", AccountID: "acc_1", Amount: decimal.NewFromInt(20), Name: "second"},
		{ID: "txn_3", AccountID: "acc_2", Amount: decimal.NewFromInt(30), Name: "third"},
	}

	added, err := store.MergeTransactions(batch)
	if err != nil {
		t.Fatalf("MergeTransactions() failed: %v", err)
	}
	if added != 3 {
		t.Errorf("first merge added %d, expected 3", added)
	}

	// Second merge of the same batch is a no-op: no duplicates, no
	// overwrites.
	batch[0].Name = "changed"
	added, err = store.MergeTransactions(batch)
	if err != nil {
		t.Fatalf("MergeTransactions() failed: %v", err)
	}
	if added != 0 {
		t.Errorf("second merge added %d, expected 0", added)
	}

	transactions := store.Transactions()
	if len(transactions) != 3 {
		t.Fatalf("Transactions() returned %d records, expected 3", len(transactions))
	}
	for _, txn := range transactions {
		if txn.ID == "txn_1" && txn.Name != "first" {
			t.Errorf("existing transaction was overwritten: Name = %q", txn.Name)
		}
	}
}

func TestMergeTransactionsDropsInBatchDuplicates(t *testing.T) {
	store := openTestStore(t)

	batch := []models.Transaction{
		{ID: "txn_1", Amount: decimal.NewFromInt(10)},
		{ID: "txn_1", Amount: decimal.NewFromInt(10)},
	}

	added, err := store.MergeTransactions(batch)
	if err != nil {
		t.Fatalf("MergeTransactions() failed: %v", err)
	}
	if added != 1 {
		t.Errorf("merge added %d, expected 1", added)
	}
}
