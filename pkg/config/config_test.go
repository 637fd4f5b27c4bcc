package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PLAID_CLIENT_ID", "PLAID_SECRET", "PLAID_API_URL", "PLAID_CLIENT_NAME",
		"VAULT_BACKEND", "PORT", "DEBUG",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	config, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if config.Plaid.APIURL != "https://sandbox.plaid.com" {
		t.Errorf("APIURL = %q", config.Plaid.APIURL)
	}
	if config.Plaid.ClientName != "plaid-ledger" {
		t.Errorf("ClientName = %q", config.Plaid.ClientName)
	}
	if config.Vault.Backend != VaultBackendKeyring {
		t.Errorf("Vault.Backend = %q", config.Vault.Backend)
	}
	if config.Port != "8484" {
		t.Errorf("Port = %q", config.Port)
	}
	if config.Debug {
		t.Error("Debug = true with no DEBUG variable")
	}
}

func TestLoadFromEnvFile(t *testing.T) {
	envPath := filepath.Join(t.TempDir(), "test.env")
	content := `PLAID_CLIENT_ID=env-file-client
PLAID_SECRET=env-file-secret
PORT=9000
DEBUG=true
`
	if err := os.WriteFile(envPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("PLAID_CLIENT_ID", "")
	os.Unsetenv("PLAID_CLIENT_ID")

	config, err := Load(envPath)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if config.Plaid.ClientID != "env-file-client" {
		t.Errorf("ClientID = %q", config.Plaid.ClientID)
	}
	if config.Port != "9000" {
		t.Errorf("Port = %q", config.Port)
	}
	if !config.Debug {
		t.Error("Debug = false, expected true")
	}
}

func TestLoadMissingEnvFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Error("Load() with missing .env path succeeded, expected an error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		config    Config
		required  [][]string
		expectErr bool
	}{
		{
			name: "all required present",
			config: Config{
				Plaid: PlaidConfig{ClientID: "id", Secret: "secret"},
				Vault: VaultConfig{Backend: VaultBackendKeyring},
			},
			required:  [][]string{{"plaid", "clientId"}, {"plaid", "secret"}},
			expectErr: false,
		},
		{
			name: "missing plaid secret",
			config: Config{
				Plaid: PlaidConfig{ClientID: "id"},
				Vault: VaultConfig{Backend: VaultBackendKeyring},
			},
			required:  [][]string{{"plaid", "clientId"}, {"plaid", "secret"}},
			expectErr: true,
		},
		{
			name: "file backend without passphrase",
			config: Config{
				Vault: VaultConfig{Backend: VaultBackendFile},
			},
			expectErr: true,
		},
		{
			name: "file backend with passphrase",
			config: Config{
				Vault: VaultConfig{Backend: VaultBackendFile, Passphrase: "secret"},
			},
			expectErr: false,
		},
		{
			name: "unknown backend",
			config: Config{
				Vault: VaultConfig{Backend: "kms"},
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate(tt.required...)
			if tt.expectErr && err == nil {
				t.Error("Validate() succeeded, expected an error")
			}
			if !tt.expectErr && err != nil {
				t.Errorf("Validate() failed: %v", err)
			}
		})
	}
}
