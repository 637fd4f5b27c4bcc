// Package db provides SQLite bookkeeping for sync operations: which
// transactions have been pulled from the aggregator, when each sync ran,
// and free-form metadata. The JSON ledger remains the source of truth;
// this database only answers "what happened when".
package db

// Schema defines the SQL statements to create database tables.
const Schema = `
-- Sync history table
-- One row per transaction pulled from the aggregator
CREATE TABLE IF NOT EXISTS sync_history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    item_id TEXT NOT NULL,             -- Linked item the transaction belongs to
    transaction_id TEXT NOT NULL,      -- Aggregator's transaction identifier
    txn_date TEXT NOT NULL,            -- YYYY-MM-DD
    amount TEXT NOT NULL,              -- Decimal string, sign as reported
    synced_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    UNIQUE(transaction_id)
);

CREATE INDEX IF NOT EXISTS idx_sync_history_item
    ON sync_history(item_id);

CREATE INDEX IF NOT EXISTS idx_sync_history_date
    ON sync_history(txn_date);

-- Sync runs table
-- One row per transaction-fetch run, with the requested window
CREATE TABLE IF NOT EXISTS sync_runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    item_id TEXT NOT NULL,
    start_date TEXT NOT NULL,          -- YYYY-MM-DD
    end_date TEXT NOT NULL,            -- YYYY-MM-DD
    fetched INTEGER NOT NULL,          -- Transactions returned by the aggregator
    added INTEGER NOT NULL,            -- New transactions merged into the ledger
    ran_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_sync_runs_item
    ON sync_runs(item_id);

-- Sync metadata table
-- Stores key-value metadata about sync operations
CREATE TABLE IF NOT EXISTS sync_metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

// InitializeSchema initializes the database schema.
// It creates all tables if they don't exist.
func InitializeSchema(conn *Connection) error {
	if _, err := conn.Exec(Schema); err != nil {
		return err
	}
	return nil
}
