// Package models defines the records persisted by the local ledger:
// linked items, accounts, and transactions. Field names follow the
// aggregator's identifiers so that records can be matched against API
// responses without translation.
package models

// Item status values. Only "good" is produced today; the field exists so
// that a degraded connection (expired credentials, institution outage)
// can be represented without a schema change.
const (
	ItemStatusGood = "good"
)

// Item represents one linked financial institution connection.
// The ID is the aggregator's item identifier. Exactly one access token
// is held in the credential vault per item, created and removed together
// with this record.
type Item struct {
	ID              string `json:"id"`
	InstitutionID   string `json:"institutionId"`
	InstitutionName string `json:"institutionName"`
	LastUpdated     string `json:"lastUpdated"` // RFC 3339
	Status          string `json:"status"`
}
