// Package sandbox is a local stand-in for the Plaid API: the endpoints
// the sync flows use, served from a bbolt database with canned
// institution data. It exists for integration tests and for UI
// development without real credentials.
package sandbox

import (
	"encoding/json"
	"errors"
	"fmt"

	bolt "go.etcd.io/bbolt"
)

// ErrNotFound is returned when a record is not found.
var ErrNotFound = errors.New("record not found")

// Bucket names.
const (
	bucketPublicTokens = "public_tokens"
	bucketAccessTokens = "access_tokens"
	bucketItems        = "items"
	bucketAccounts     = "accounts"
	bucketTransactions = "transactions"
)

// Store represents the bbolt database wrapper.
type Store struct {
	db *bolt.DB
}

// NewStore opens the sandbox database and initializes buckets.
func NewStore(dbPath string) (*Store, error) {
	db, err := bolt.Open(dbPath, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		buckets := []string{bucketPublicTokens, bucketAccessTokens, bucketItems, bucketAccounts, bucketTransactions}
		for _, bucket := range buckets {
			if _, err := tx.CreateBucketIfNotExists([]byte(bucket)); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// putJSON stores a JSON-marshalled value under a string key.
func (s *Store) putJSON(bucketName, key string, value interface{}) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b == nil {
			return fmt.Errorf("bucket %s not found", bucketName)
		}

		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to marshal value: %w", err)
		}

		return b.Put([]byte(key), data)
	})
}

// getJSON retrieves a JSON-marshalled value by string key.
func (s *Store) getJSON(bucketName, key string, value interface{}) error {
	return s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b == nil {
			return fmt.Errorf("bucket %s not found", bucketName)
		}

		data := b.Get([]byte(key))
		if data == nil {
			return ErrNotFound
		}

		return json.Unmarshal(data, value)
	})
}

// delete removes a value by string key.
func (s *Store) delete(bucketName, key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b == nil {
			return fmt.Errorf("bucket %s not found", bucketName)
		}

		return b.Delete([]byte(key))
	})
}
