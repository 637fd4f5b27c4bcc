// Package config provides configuration management for plaid-ledger.
// It loads configuration from environment variables and .env files.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config represents the application configuration.
type Config struct {
	Plaid  PlaidConfig
	Ledger LedgerConfig
	Vault  VaultConfig
	Port   string
	Debug  bool
}

// PlaidConfig represents Plaid API configuration.
type PlaidConfig struct {
	ClientID     string
	Secret       string
	APIURL       string
	ClientName   string
	ClientUserID string
}

// LedgerConfig represents local persistence configuration.
type LedgerConfig struct {
	DataDir   string
	DBPath    string
	RulesPath string
}

// VaultConfig represents credential vault configuration.
type VaultConfig struct {
	Backend    string // "keyring" or "file"
	Path       string // file backend only
	Passphrase string // file backend only
}

// Vault backend names.
const (
	VaultBackendKeyring = "keyring"
	VaultBackendFile    = "file"
)

// Load loads configuration from environment variables.
// It automatically loads .env file from the current directory if available.
// You can optionally specify a custom .env file path.
func Load(envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		// Try to load .env from current directory (ignore error if not found)
		_ = godotenv.Load()
	}

	config := &Config{
		Plaid: PlaidConfig{
			ClientID:     os.Getenv("PLAID_CLIENT_ID"),
			Secret:       os.Getenv("PLAID_SECRET"),
			APIURL:       getEnvOrDefault("PLAID_API_URL", "https://sandbox.plaid.com"),
			ClientName:   getEnvOrDefault("PLAID_CLIENT_NAME", "plaid-ledger"),
			ClientUserID: getEnvOrDefault("PLAID_CLIENT_USER_ID", "plaid-ledger-user"),
		},
		Ledger: LedgerConfig{
			DataDir:   os.Getenv("PLAID_LEDGER_DATA_DIR"),
			DBPath:    os.Getenv("PLAID_LEDGER_DB_PATH"),
			RulesPath: os.Getenv("PLAID_LEDGER_RULES_PATH"),
		},
		Vault: VaultConfig{
			Backend:    getEnvOrDefault("VAULT_BACKEND", VaultBackendKeyring),
			Path:       os.Getenv("VAULT_PATH"),
			Passphrase: os.Getenv("VAULT_PASSPHRASE"),
		},
		Port:  getEnvOrDefault("PORT", "8484"),
		Debug: os.Getenv("DEBUG") == "true",
	}

	return config, nil
}

// Validate validates the configuration.
// It checks if all required fields are set.
func (c *Config) Validate(required ...[]string) error {
	var missing []string

	for _, path := range required {
		if len(path) < 2 {
			continue
		}

		var value string
		switch path[0] {
		case "plaid":
			switch path[1] {
			case "clientId":
				value = c.Plaid.ClientID
			case "secret":
				value = c.Plaid.Secret
			case "apiUrl":
				value = c.Plaid.APIURL
			}
		case "vault":
			switch path[1] {
			case "backend":
				value = c.Vault.Backend
			case "passphrase":
				value = c.Vault.Passphrase
			}
		case "ledger":
			switch path[1] {
			case "dataDir":
				value = c.Ledger.DataDir
			}
		}

		if value == "" {
			missing = append(missing, joinPath(path))
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %v\nPlease check your .env file or environment variables", missing)
	}

	// The file backend cannot seal anything without a passphrase.
	if c.Vault.Backend == VaultBackendFile && c.Vault.Passphrase == "" {
		return fmt.Errorf("VAULT_PASSPHRASE is required when VAULT_BACKEND=file")
	}
	if c.Vault.Backend != VaultBackendKeyring && c.Vault.Backend != VaultBackendFile {
		return fmt.Errorf("invalid VAULT_BACKEND: %s (expected %q or %q)", c.Vault.Backend, VaultBackendKeyring, VaultBackendFile)
	}

	return nil
}

// getEnvOrDefault returns the value of the environment variable or a default value if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// joinPath joins a path slice into a dot-separated string.
func joinPath(path []string) string {
	result := ""
	for i, p := range path {
		if i > 0 {
			result += "."
		}
		result += p
	}
	return result
}
