package db

import (
	"path/filepath"
	"testing"
)

func newTestHistory(t *testing.T) *SyncHistory {
	t.Helper()

	conn, err := Open(filepath.Join(t.TempDir(), "sync.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return NewSyncHistory(conn)
}

func TestRecordTransactionUpsert(t *testing.T) {
	history := newTestHistory(t)

	record := SyncRecord{
		ItemID:        "item_1",
		TransactionID: "txn_1",
		Date:          "2024-01-05",
		Amount:        "12.74",
	}

	if err := history.RecordTransaction(record); err != nil {
		t.Fatalf("RecordTransaction() failed: %v", err)
	}

	// Recording the same transaction again updates in place.
	record.Amount = "13.00"
	if err := history.RecordTransaction(record); err != nil {
		t.Fatalf("RecordTransaction() on existing record failed: %v", err)
	}

	synced, err := history.IsSynced("txn_1")
	if err != nil {
		t.Fatalf("IsSynced() failed: %v", err)
	}
	if !synced {
		t.Error("IsSynced() = false after recording")
	}

	stats, err := history.GetStats()
	if err != nil {
		t.Fatalf("GetStats() failed: %v", err)
	}
	if stats.TotalTransactions != 1 {
		t.Errorf("TotalTransactions = %d, expected 1 after upsert", stats.TotalTransactions)
	}
}

func TestIsSyncedUnknown(t *testing.T) {
	history := newTestHistory(t)

	synced, err := history.IsSynced("txn_unknown")
	if err != nil {
		t.Fatalf("IsSynced() failed: %v", err)
	}
	if synced {
		t.Error("IsSynced() = true for unknown transaction")
	}
}

func TestGetSyncedIDsFiltersByItem(t *testing.T) {
	history := newTestHistory(t)

	records := []SyncRecord{
		{ItemID: "item_1", TransactionID: "txn_1", Date: "2024-01-05", Amount: "12.74"},
		{ItemID: "item_1", TransactionID: "txn_2", Date: "2024-01-12", Amount: "89.40"},
		{ItemID: "item_2", TransactionID: "txn_3", Date: "2024-01-27", Amount: "5.00"},
	}
	for _, record := range records {
		if err := history.RecordTransaction(record); err != nil {
			t.Fatal(err)
		}
	}

	ids, err := history.GetSyncedIDs("item_1")
	if err != nil {
		t.Fatalf("GetSyncedIDs() failed: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("got %d IDs for item_1, expected 2", len(ids))
	}
}

func TestRecordRunAndStats(t *testing.T) {
	history := newTestHistory(t)

	runs := []RunRecord{
		{ItemID: "item_1", StartDate: "2024-01-01", EndDate: "2024-01-31", Fetched: 3, Added: 3},
		{ItemID: "item_1", StartDate: "2024-02-01", EndDate: "2024-02-29", Fetched: 5, Added: 2},
	}
	for _, run := range runs {
		if err := history.RecordRun(run); err != nil {
			t.Fatalf("RecordRun() failed: %v", err)
		}
	}

	got, err := history.GetRunsForItem("item_1")
	if err != nil {
		t.Fatalf("GetRunsForItem() failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d runs, expected 2", len(got))
	}
	for _, run := range got {
		if run.RanAt.IsZero() {
			t.Error("RanAt was not populated")
		}
	}

	stats, err := history.GetStats()
	if err != nil {
		t.Fatalf("GetStats() failed: %v", err)
	}
	if stats.TotalRuns != 2 {
		t.Errorf("TotalRuns = %d, expected 2", stats.TotalRuns)
	}
	if !stats.LastSync.Valid {
		t.Error("LastSync is not set after recording runs")
	}
}

func TestStatsEmptyDatabase(t *testing.T) {
	history := newTestHistory(t)

	stats, err := history.GetStats()
	if err != nil {
		t.Fatalf("GetStats() failed: %v", err)
	}
	if stats.TotalTransactions != 0 || stats.TotalRuns != 0 {
		t.Errorf("stats = %+v, expected zeros", stats)
	}
	if stats.LastSync.Valid {
		t.Errorf("LastSync = %q, expected unset", stats.LastSync.String)
	}
}

func TestMetadataRoundTrip(t *testing.T) {
	history := newTestHistory(t)

	value, err := history.GetMetadata("schema_note")
	if err != nil {
		t.Fatalf("GetMetadata() failed: %v", err)
	}
	if value != "" {
		t.Errorf("GetMetadata() = %q for unset key, expected empty", value)
	}

	if err := history.SetMetadata("schema_note", "v1"); err != nil {
		t.Fatalf("SetMetadata() failed: %v", err)
	}
	if err := history.SetMetadata("schema_note", "v2"); err != nil {
		t.Fatalf("SetMetadata() on existing key failed: %v", err)
	}

	value, err = history.GetMetadata("schema_note")
	if err != nil {
		t.Fatalf("GetMetadata() failed: %v", err)
	}
	if value != "v2" {
		t.Errorf("GetMetadata() = %q, expected %q", value, "v2")
	}
}
