// Package ledger persists linked items, accounts, and transactions as
// three JSON documents under the data directory. Each collection is a
// flat array, loaded and rewritten wholesale on every mutation. The
// store owns the on-disk layout; callers never hold a collection beyond
// a single operation.
package ledger

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// File names of the three collections.
const (
	itemsFile        = "items.json"
	accountsFile     = "accounts.json"
	transactionsFile = "transactions.json"
)

// Store is a JSON-file-backed ledger store rooted at a data directory.
type Store struct {
	dir string
}

// Open opens the ledger store at dir, creating the directory and
// initializing each collection with an empty array on first run.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &Store{dir: dir}

	for _, name := range []string{itemsFile, accountsFile, transactionsFile} {
		path := s.filePath(name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte("[]\n"), 0600); err != nil {
				return nil, fmt.Errorf("failed to initialize %s: %w", name, err)
			}
		}
	}

	return s, nil
}

func (s *Store) filePath(name string) string {
	return filepath.Join(s.dir, name)
}

// load reads a collection into v. A missing or corrupt file degrades to
// the empty collection: the error is logged, never surfaced, so a bad
// file cannot take the application down.
func (s *Store) load(name string, v interface{}) {
	data, err := os.ReadFile(s.filePath(name))
	if err != nil {
		slog.Warn("ledger read failed, using empty collection", "file", name, "error", err)
		return
	}

	if err := json.Unmarshal(data, v); err != nil {
		slog.Warn("ledger parse failed, using empty collection", "file", name, "error", err)
	}
}

// save rewrites a collection file in full. The caller decides whether a
// write failure is fatal to its flow.
func (s *Store) save(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}

	if err := os.WriteFile(s.filePath(name), append(data, '\n'), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}

	return nil
}
