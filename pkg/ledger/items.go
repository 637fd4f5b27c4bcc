package ledger

import "github.com/knagata/plaid-ledger/internal/models"

// Items returns all linked item records.
func (s *Store) Items() []models.Item {
	items := []models.Item{}
	s.load(itemsFile, &items)
	return items
}

// SaveItems rewrites the item collection.
func (s *Store) SaveItems(items []models.Item) error {
	return s.save(itemsFile, items)
}

// FindItem returns the item with the given ID.
func (s *Store) FindItem(itemID string) (models.Item, bool) {
	for _, item := range s.Items() {
		if item.ID == itemID {
			return item, true
		}
	}
	return models.Item{}, false
}

// AddItem appends an item record. An existing record with the same ID
// is replaced, so re-linking an institution cannot produce duplicates.
func (s *Store) AddItem(item models.Item) error {
	items := s.Items()

	kept := items[:0]
	for _, existing := range items {
		if existing.ID != item.ID {
			kept = append(kept, existing)
		}
	}
	kept = append(kept, item)

	return s.SaveItems(kept)
}

// TouchItem stamps the lastUpdated of the item with the given ID.
// Unknown IDs are a no-op.
func (s *Store) TouchItem(itemID, timestamp string) error {
	items := s.Items()

	changed := false
	for i := range items {
		if items[i].ID == itemID {
			items[i].LastUpdated = timestamp
			changed = true
		}
	}

	if !changed {
		return nil
	}

	return s.SaveItems(items)
}

// RemoveItem deletes the item record with the given ID. Returns false
// when no such record existed.
func (s *Store) RemoveItem(itemID string) (bool, error) {
	items := s.Items()

	kept := items[:0]
	removed := false
	for _, item := range items {
		if item.ID == itemID {
			removed = true
			continue
		}
		kept = append(kept, item)
	}

	if !removed {
		return false, nil
	}

	return removed, s.SaveItems(kept)
}
