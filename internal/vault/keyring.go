package vault

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// Keyring is a Vault backed by the OS credential store (Keychain on
// macOS, Secret Service on Linux, Credential Manager on Windows).
type Keyring struct {
	service string
}

// NewKeyring creates a keyring-backed vault under the default service
// namespace.
func NewKeyring() *Keyring {
	return &Keyring{service: ServiceName}
}

// Store saves the token in the OS credential store.
func (k *Keyring) Store(itemID, token string) error {
	if err := keyring.Set(k.service, secretKey(itemID), token); err != nil {
		return fmt.Errorf("failed to store token in keyring: %w", err)
	}
	return nil
}

// Retrieve returns the token for the item, or ErrNotFound.
func (k *Keyring) Retrieve(itemID string) (string, error) {
	token, err := keyring.Get(k.service, secretKey(itemID))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to read token from keyring: %w", err)
	}
	return token, nil
}

// Remove deletes the token for the item.
func (k *Keyring) Remove(itemID string) error {
	if err := keyring.Delete(k.service, secretKey(itemID)); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete token from keyring: %w", err)
	}
	return nil
}
