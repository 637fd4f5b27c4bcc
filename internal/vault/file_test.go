package vault

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileVaultRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.json")
	v := NewFile(path, "correct horse battery staple")

	if err := v.Store("item_1", "access-sandbox-abc"); err != nil {
		t.Fatalf("Store() failed: %v", err)
	}

	token, err := v.Retrieve("item_1")
	if err != nil {
		t.Fatalf("Retrieve() failed: %v", err)
	}
	if token != "access-sandbox-abc" {
		t.Errorf("Retrieve() = %q, expected stored token", token)
	}
}

func TestFileVaultRetrieveAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.json")
	v := NewFile(path, "passphrase")

	_, err := v.Retrieve("item_missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Retrieve() on absent item returned %v, expected ErrNotFound", err)
	}
}

func TestFileVaultRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.json")
	v := NewFile(path, "passphrase")

	if err := v.Store("item_1", "tok"); err != nil {
		t.Fatal(err)
	}
	if err := v.Remove("item_1"); err != nil {
		t.Fatalf("Remove() failed: %v", err)
	}

	if _, err := v.Retrieve("item_1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Retrieve() after Remove() returned %v, expected ErrNotFound", err)
	}

	if err := v.Remove("item_1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Remove() on absent item returned %v, expected ErrNotFound", err)
	}
}

func TestFileVaultPersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.json")

	v := NewFile(path, "passphrase")
	if err := v.Store("item_1", "tok"); err != nil {
		t.Fatal(err)
	}

	reopened := NewFile(path, "passphrase")
	token, err := reopened.Retrieve("item_1")
	if err != nil {
		t.Fatalf("Retrieve() after reopen failed: %v", err)
	}
	if token != "tok" {
		t.Errorf("Retrieve() = %q after reopen, expected %q", token, "tok")
	}
}

func TestFileVaultWrongPassphrase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.json")

	v := NewFile(path, "right")
	if err := v.Store("item_1", "tok"); err != nil {
		t.Fatal(err)
	}

	wrong := NewFile(path, "wrong")
	if _, err := wrong.Retrieve("item_1"); err == nil {
		t.Error("Retrieve() with wrong passphrase succeeded, expected an error")
	}
}

func TestFileVaultTokensAreNotPlaintext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.json")

	v := NewFile(path, "passphrase")
	if err := v.Store("item_1", "access-sandbox-secret-token"); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(data, []byte("access-sandbox-secret-token")) {
		t.Error("vault file contains the token in plaintext")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("vault file mode = %o, expected 0600", perm)
	}
}
