package db

import (
	"database/sql"
	"fmt"
	"time"
)

// SyncRecord represents one synced transaction.
type SyncRecord struct {
	ID            int64
	ItemID        string
	TransactionID string
	Date          string // YYYY-MM-DD
	Amount        string // Decimal string
	SyncedAt      time.Time
}

// RunRecord represents one transaction-fetch run.
type RunRecord struct {
	ID        int64
	ItemID    string
	StartDate string
	EndDate   string
	Fetched   int
	Added     int
	RanAt     time.Time
}

// SyncHistory manages sync history operations.
type SyncHistory struct {
	conn *Connection
}

// NewSyncHistory creates a new SyncHistory instance.
func NewSyncHistory(conn *Connection) *SyncHistory {
	return &SyncHistory{conn: conn}
}

// RecordTransaction records one synced transaction.
// If the record already exists (same transaction_id), it updates it.
func (s *SyncHistory) RecordTransaction(record SyncRecord) error {
	query := `
		INSERT INTO sync_history (item_id, transaction_id, txn_date, amount)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(transaction_id) DO UPDATE SET
			item_id = excluded.item_id,
			txn_date = excluded.txn_date,
			amount = excluded.amount,
			synced_at = CURRENT_TIMESTAMP
	`

	_, err := s.conn.Exec(query,
		record.ItemID,
		record.TransactionID,
		record.Date,
		record.Amount,
	)

	if err != nil {
		return fmt.Errorf("failed to record transaction sync: %w", err)
	}

	return nil
}

// IsSynced checks if a transaction has been recorded.
func (s *SyncHistory) IsSynced(transactionID string) (bool, error) {
	query := `
		SELECT COUNT(*) as count FROM sync_history
		WHERE transaction_id = ?
	`

	var count int
	err := s.conn.QueryRow(query, transactionID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check if synced: %w", err)
	}

	return count > 0, nil
}

// GetSyncedIDs retrieves all recorded transaction IDs for an item.
// This is useful for bulk filtering.
func (s *SyncHistory) GetSyncedIDs(itemID string) ([]string, error) {
	query := `
		SELECT transaction_id FROM sync_history WHERE item_id = ?
	`

	rows, err := s.conn.Query(query, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get synced IDs: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan transaction ID: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// RecordRun records one transaction-fetch run.
func (s *SyncHistory) RecordRun(record RunRecord) error {
	query := `
		INSERT INTO sync_runs (item_id, start_date, end_date, fetched, added)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := s.conn.Exec(query,
		record.ItemID,
		record.StartDate,
		record.EndDate,
		record.Fetched,
		record.Added,
	)

	if err != nil {
		return fmt.Errorf("failed to record sync run: %w", err)
	}

	return nil
}

// GetRunsForItem retrieves the fetch runs for an item, newest first.
func (s *SyncHistory) GetRunsForItem(itemID string) ([]RunRecord, error) {
	query := `
		SELECT id, item_id, start_date, end_date, fetched, added, ran_at
		FROM sync_runs
		WHERE item_id = ?
		ORDER BY ran_at DESC
	`

	rows, err := s.conn.Query(query, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get sync runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var record RunRecord
		if err := rows.Scan(
			&record.ID,
			&record.ItemID,
			&record.StartDate,
			&record.EndDate,
			&record.Fetched,
			&record.Added,
			&record.RanAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan sync run: %w", err)
		}
		records = append(records, record)
	}

	return records, nil
}

// Stats represents sync statistics.
type Stats struct {
	TotalTransactions int
	TotalRuns         int
	LastSync          sql.NullString
}

// GetStats retrieves sync statistics.
func (s *SyncHistory) GetStats() (*Stats, error) {
	var stats Stats

	err := s.conn.QueryRow(`SELECT COUNT(*) FROM sync_history`).Scan(&stats.TotalTransactions)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction count: %w", err)
	}

	err = s.conn.QueryRow(`SELECT COUNT(*) FROM sync_runs`).Scan(&stats.TotalRuns)
	if err != nil {
		return nil, fmt.Errorf("failed to get run count: %w", err)
	}

	err = s.conn.QueryRow(`SELECT MAX(ran_at) FROM sync_runs`).Scan(&stats.LastSync)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get last sync time: %w", err)
	}

	return &stats, nil
}

// GetMetadata retrieves a metadata value.
func (s *SyncHistory) GetMetadata(key string) (string, error) {
	query := `SELECT value FROM sync_metadata WHERE key = ?`

	var value string
	err := s.conn.QueryRow(query, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get metadata: %w", err)
	}

	return value, nil
}

// SetMetadata sets a metadata value.
func (s *SyncHistory) SetMetadata(key, value string) error {
	query := `
		INSERT INTO sync_metadata (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`

	_, err := s.conn.Exec(query, key, value)
	if err != nil {
		return fmt.Errorf("failed to set metadata: %w", err)
	}

	return nil
}
