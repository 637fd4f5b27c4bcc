// Package vault stores the per-item Plaid access tokens. Secrets are
// kept out of the plaintext ledger files: the only copy of an access
// token lives here, keyed by the item identifier, with the same
// lifetime as the item's ledger record.
package vault

import "errors"

// ServiceName is the namespace under which secrets are stored.
const ServiceName = "plaid-ledger"

// accountLabel prefixes the per-item secret key.
const accountLabel = "plaid-access-token"

// ErrNotFound is returned by Retrieve and Remove when no secret exists
// for the item.
var ErrNotFound = errors.New("vault: no token stored for item")

// Vault stores one secret access token per linked item.
type Vault interface {
	// Store saves the token under the item identifier, replacing any
	// previous value.
	Store(itemID, token string) error

	// Retrieve returns the token for the item, or ErrNotFound.
	Retrieve(itemID string) (string, error)

	// Remove deletes the token for the item. Returns ErrNotFound when
	// no token was stored.
	Remove(itemID string) error
}

// secretKey builds the secondary key for an item. The service name and
// account label are fixed; the per-item distinction lives only here.
func secretKey(itemID string) string {
	return accountLabel + "_" + itemID
}
