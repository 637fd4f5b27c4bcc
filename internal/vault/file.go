package vault

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"
)

const (
	saltLength  = 16
	nonceLength = 24
	keyLength   = 32
)

// FileVault is a Vault backed by an encrypted JSON file. It exists for
// headless hosts without a usable OS credential store, and for tests.
// Tokens are sealed individually with a key derived from the
// passphrase; the file itself never contains plaintext secrets.
type FileVault struct {
	path       string
	passphrase string
}

// fileVaultDoc is the on-disk layout. Secrets map the per-item key to
// base64(nonce || ciphertext).
type fileVaultDoc struct {
	Salt    string            `json:"salt"`
	Secrets map[string]string `json:"secrets"`
}

// NewFile creates a file-backed vault at path. The file is created on
// first Store.
func NewFile(path, passphrase string) *FileVault {
	return &FileVault{path: path, passphrase: passphrase}
}

// Store seals the token and writes it to the vault file.
func (v *FileVault) Store(itemID, token string) error {
	doc, err := v.load()
	if err != nil {
		return err
	}

	key, err := v.deriveKey(doc.Salt)
	if err != nil {
		return err
	}

	var nonce [nonceLength]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := secretbox.Seal(nonce[:], []byte(token), &nonce, key)
	doc.Secrets[secretKey(itemID)] = base64.StdEncoding.EncodeToString(sealed)

	return v.save(doc)
}

// Retrieve opens the sealed token for the item, or returns ErrNotFound.
func (v *FileVault) Retrieve(itemID string) (string, error) {
	doc, err := v.load()
	if err != nil {
		return "", err
	}

	encoded, ok := doc.Secrets[secretKey(itemID)]
	if !ok {
		return "", ErrNotFound
	}

	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || len(sealed) < nonceLength {
		return "", fmt.Errorf("corrupt vault entry for item %s", itemID)
	}

	key, err := v.deriveKey(doc.Salt)
	if err != nil {
		return "", err
	}

	var nonce [nonceLength]byte
	copy(nonce[:], sealed[:nonceLength])

	token, ok := secretbox.Open(nil, sealed[nonceLength:], &nonce, key)
	if !ok {
		return "", fmt.Errorf("failed to open vault entry for item %s (wrong passphrase?)", itemID)
	}

	return string(token), nil
}

// Remove deletes the sealed token for the item.
func (v *FileVault) Remove(itemID string) error {
	doc, err := v.load()
	if err != nil {
		return err
	}

	if _, ok := doc.Secrets[secretKey(itemID)]; !ok {
		return ErrNotFound
	}

	delete(doc.Secrets, secretKey(itemID))
	return v.save(doc)
}

// load reads the vault file, initializing a fresh document with a new
// salt when the file does not exist yet.
func (v *FileVault) load() (*fileVaultDoc, error) {
	data, err := os.ReadFile(v.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			salt := make([]byte, saltLength)
			if _, err := rand.Read(salt); err != nil {
				return nil, fmt.Errorf("failed to generate salt: %w", err)
			}
			return &fileVaultDoc{
				Salt:    base64.StdEncoding.EncodeToString(salt),
				Secrets: make(map[string]string),
			}, nil
		}
		return nil, fmt.Errorf("failed to read vault file: %w", err)
	}

	var doc fileVaultDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse vault file: %w", err)
	}
	if doc.Secrets == nil {
		doc.Secrets = make(map[string]string)
	}

	return &doc, nil
}

// save writes the vault file with owner-only permissions.
func (v *FileVault) save(doc *fileVaultDoc) error {
	dir := filepath.Dir(v.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create vault directory: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal vault: %w", err)
	}

	if err := os.WriteFile(v.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write vault file: %w", err)
	}

	return nil
}

// deriveKey derives the sealing key from the passphrase and salt.
func (v *FileVault) deriveKey(encodedSalt string) (*[keyLength]byte, error) {
	salt, err := base64.StdEncoding.DecodeString(encodedSalt)
	if err != nil {
		return nil, fmt.Errorf("corrupt vault salt: %w", err)
	}

	raw, err := scrypt.Key([]byte(v.passphrase), salt, 1<<15, 8, 1, keyLength)
	if err != nil {
		return nil, fmt.Errorf("failed to derive vault key: %w", err)
	}

	var key [keyLength]byte
	copy(key[:], raw)
	return &key, nil
}
