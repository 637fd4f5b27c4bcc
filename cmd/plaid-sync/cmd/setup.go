package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/knagata/plaid-ledger/internal/syncer"
	"github.com/knagata/plaid-ledger/internal/vault"
	"github.com/knagata/plaid-ledger/pkg/categorize"
	"github.com/knagata/plaid-ledger/pkg/config"
	"github.com/knagata/plaid-ledger/pkg/db"
	"github.com/knagata/plaid-ledger/pkg/ledger"
	"github.com/knagata/plaid-ledger/pkg/pathutil"
	"github.com/knagata/plaid-ledger/pkg/plaid"
)

// buildSyncer wires the full stack from configuration: path resolution,
// ledger store, vault backend, sync-history database, category rules,
// and the Plaid client. The returned cleanup closes the database.
func buildSyncer(cfg *config.Config) (*syncer.Syncer, func(), error) {
	resolver := pathutil.New(pathutil.Config{
		DataDir:      cfg.Ledger.DataDir,
		DatabasePath: cfg.Ledger.DBPath,
		VaultPath:    cfg.Vault.Path,
		RulesPath:    cfg.Ledger.RulesPath,
	})

	store, err := ledger.Open(resolver.GetDataDir())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open ledger store: %w", err)
	}

	v, err := buildVault(cfg, resolver)
	if err != nil {
		return nil, nil, err
	}

	conn, err := db.Open(resolver.GetDatabasePath())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open sync database: %w", err)
	}
	cleanup := func() {
		if err := conn.Close(); err != nil {
			slog.Error("failed to close sync database", "error", err)
		}
	}

	rules := loadRules(resolver.GetRulesPath())

	client := plaid.NewClient(plaid.ClientConfig{
		APIURL:     cfg.Plaid.APIURL,
		ClientID:   cfg.Plaid.ClientID,
		Secret:     cfg.Plaid.Secret,
		ClientName: cfg.Plaid.ClientName,
		Timeout:    30 * time.Second,
	})

	s := syncer.New(syncer.Config{
		Client:       client,
		Vault:        v,
		Store:        store,
		History:      db.NewSyncHistory(conn),
		Rules:        rules,
		ClientUserID: cfg.Plaid.ClientUserID,
	})

	return s, cleanup, nil
}

// buildVault selects the vault backend from configuration.
func buildVault(cfg *config.Config, resolver *pathutil.PathResolver) (vault.Vault, error) {
	switch cfg.Vault.Backend {
	case config.VaultBackendKeyring:
		return vault.NewKeyring(), nil
	case config.VaultBackendFile:
		return vault.NewFile(resolver.GetVaultPath(), cfg.Vault.Passphrase), nil
	default:
		return nil, fmt.Errorf("unknown vault backend: %s", cfg.Vault.Backend)
	}
}

// loadRules loads the category rules file when present. Rules are
// optional; a missing file means no categorization.
func loadRules(path string) *categorize.Mapper {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return categorize.NewEmptyMapper()
	}

	rules, err := categorize.NewMapper(path)
	if err != nil {
		slog.Warn("failed to load category rules, continuing without", "path", path, "error", err)
		return categorize.NewEmptyMapper()
	}

	return rules
}
