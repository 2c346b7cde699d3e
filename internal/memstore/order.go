package memstore

import (
	"context"
	"sort"

	"github.com/koyo-dev/tableside/internal/domain/order"
	"github.com/koyo-dev/tableside/internal/domain/table"
)

var _ order.Store = orderView{}

// orderView exposes the order store backed by the shared mutex.
type orderView struct {
	s *Store
}

// Create inserts the order and links its table in one critical section.
// The table link is last-writer-wins: a second order for an occupied
// table replaces the previous link.
func (v orderView) Create(_ context.Context, o *order.Order) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	tbl, ok := v.s.tables[o.TableNumber]
	if !ok {
		return table.ErrNotFound
	}

	v.s.orders[o.ID] = cloneOrder(o)
	tbl.Status = table.StatusOccupied
	tbl.CurrentOrderID = o.ID
	return nil
}

// SetStatus applies the transition check and, when the order completes
// while still linked, reverts its table to available. Both run under
// the write lock so readers never see half of the cascade.
func (v orderView) SetStatus(_ context.Context, id string, status order.Status) (*order.Order, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	o, ok := v.s.orders[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	if err := order.ValidateTransition(o.Status, status); err != nil {
		return nil, err
	}
	if o.Status == status {
		return cloneOrder(o), nil
	}

	o.Status = status
	if status.Terminal() {
		if tbl, ok := v.s.tables[o.TableNumber]; ok && tbl.CurrentOrderID == id {
			tbl.Status = table.StatusAvailable
			tbl.CurrentOrderID = ""
		}
	}
	return cloneOrder(o), nil
}

// GetByID returns a copy of the order, or order.ErrNotFound.
func (v orderView) GetByID(_ context.Context, id string) (*order.Order, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()

	o, ok := v.s.orders[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	return cloneOrder(o), nil
}

// List returns matching orders sorted newest first. Equal timestamps
// fall back to ID ordering so the result is deterministic.
func (v orderView) List(_ context.Context, filter order.ListFilter) ([]order.Order, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()

	orders := make([]order.Order, 0, len(v.s.orders))
	for _, o := range v.s.orders {
		if filter.Status != nil && o.Status != *filter.Status {
			continue
		}
		if filter.TableNumber != nil && o.TableNumber != *filter.TableNumber {
			continue
		}
		orders = append(orders, *cloneOrder(o))
	}

	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		}
		return orders[i].ID > orders[j].ID
	})
	return orders, nil
}
