package memstore

import (
	"context"

	"github.com/koyo-dev/tableside/internal/domain/menu"
)

var _ menu.Repository = menuView{}

// menuView exposes the immutable catalog held by the Store.
type menuView struct {
	s *Store
}

// List returns every catalog entry in declaration order.
func (v menuView) List(_ context.Context) ([]menu.Item, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()

	items := make([]menu.Item, len(v.s.items))
	copy(items, v.s.items)
	return items, nil
}

// GetByIDs resolves a batch of item IDs; unknown IDs are skipped.
func (v menuView) GetByIDs(_ context.Context, ids []string) ([]menu.Item, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()

	items := make([]menu.Item, 0, len(ids))
	for _, id := range ids {
		if it, ok := v.s.itemsByID[id]; ok {
			items = append(items, it)
		}
	}
	return items, nil
}
