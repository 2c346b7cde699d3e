// Package memstore is the default in-process backend. One store holds
// the menu catalog, the table registry, and the order history behind a
// single mutex: every mutation (order creation, status change, table
// override) runs in one critical section, so the order/table cascade is
// always observed as a unit. Reads take the shared lock and return
// independent copies.
package memstore

import (
	"sync"

	"github.com/koyo-dev/tableside/internal/domain/menu"
	"github.com/koyo-dev/tableside/internal/domain/order"
	"github.com/koyo-dev/tableside/internal/domain/table"
)

// Store is an in-memory implementation of the menu repository, the
// table registry, and the order store. Construct with New and access
// each interface through Menu, Tables, and Orders.
type Store struct {
	mu sync.RWMutex

	items     []menu.Item
	itemsByID map[string]menu.Item

	orders map[string]*order.Order
	tables map[int]*table.Table
}

// New creates a Store pre-provisioned with the given catalog and
// tables. The catalog keeps its declaration order; tables keep the
// state they are seeded with.
func New(items []menu.Item, tables []table.Table) *Store {
	s := &Store{
		items:     make([]menu.Item, len(items)),
		itemsByID: make(map[string]menu.Item, len(items)),
		orders:    make(map[string]*order.Order),
		tables:    make(map[int]*table.Table, len(tables)),
	}
	copy(s.items, items)
	for _, it := range s.items {
		s.itemsByID[it.ID] = it
	}
	for _, t := range tables {
		t := t
		s.tables[t.Number] = &t
	}
	return s
}

// Menu returns the catalog read view.
func (s *Store) Menu() menu.Repository { return menuView{s} }

// Tables returns the table registry view.
func (s *Store) Tables() table.Registry { return tableView{s} }

// Orders returns the order store view.
func (s *Store) Orders() order.Store { return orderView{s} }

// cloneOrder returns a deep copy so callers never share mutable state
// with the store.
func cloneOrder(o *order.Order) *order.Order {
	c := *o
	c.Lines = make([]order.Line, len(o.Lines))
	copy(c.Lines, o.Lines)
	return &c
}

func cloneTable(t *table.Table) *table.Table {
	c := *t
	return &c
}
