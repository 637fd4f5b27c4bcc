// Package pathutil provides centralized path management for the data
// directory, sync database, vault file, and category rules.
package pathutil

import (
	"os"
	"path/filepath"
)

// defaultRootDir is the per-user application data directory, relative
// to the home directory.
const defaultRootDir = ".plaid-ledger"

// PathResolver manages paths for the ledger files, sync database, and
// file vault.
type PathResolver struct {
	dataDir      string
	databasePath string
	vaultPath    string
	rulesPath    string
}

// Config represents the configuration for PathResolver.
type Config struct {
	// DataDir is the directory holding the three ledger JSON files.
	DataDir string
	// DatabasePath is the path to the SQLite sync-history database.
	DatabasePath string
	// VaultPath is the path to the encrypted file vault (file backend only).
	VaultPath string
	// RulesPath is the path to the category rules YAML file.
	RulesPath string
}

// New creates a new PathResolver with the given configuration.
// Empty fields default to locations under DataDir; an empty DataDir
// defaults to ~/.plaid-ledger.
func New(config Config) *PathResolver {
	dataDir := config.DataDir
	if dataDir == "" {
		home, _ := os.UserHomeDir()
		dataDir = filepath.Join(home, defaultRootDir)
	}

	dbPath := config.DatabasePath
	if dbPath == "" {
		dbPath = filepath.Join(dataDir, "sync.db")
	}

	vaultPath := config.VaultPath
	if vaultPath == "" {
		vaultPath = filepath.Join(dataDir, "vault.json")
	}

	rulesPath := config.RulesPath
	if rulesPath == "" {
		rulesPath = filepath.Join(dataDir, "category-rules.yaml")
	}

	return &PathResolver{
		dataDir:      dataDir,
		databasePath: dbPath,
		vaultPath:    vaultPath,
		rulesPath:    rulesPath,
	}
}

// GetDataDir returns the ledger data directory.
func (p *PathResolver) GetDataDir() string {
	return p.dataDir
}

// GetDatabasePath returns the sync database file path.
func (p *PathResolver) GetDatabasePath() string {
	return p.databasePath
}

// GetVaultPath returns the file vault path.
func (p *PathResolver) GetVaultPath() string {
	return p.vaultPath
}

// GetRulesPath returns the category rules file path.
func (p *PathResolver) GetRulesPath() string {
	return p.rulesPath
}
