package memstore

import (
	"context"
	"sort"

	"github.com/koyo-dev/tableside/internal/domain/table"
)

var _ table.Registry = tableView{}

// tableView exposes the table registry backed by the shared mutex.
type tableView struct {
	s *Store
}

// List returns all tables ordered by table number.
func (v tableView) List(_ context.Context) ([]table.Table, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()

	tables := make([]table.Table, 0, len(v.s.tables))
	for _, t := range v.s.tables {
		tables = append(tables, *cloneTable(t))
	}
	sort.Slice(tables, func(i, j int) bool { return tables[i].Number < tables[j].Number })
	return tables, nil
}

// GetByNumber returns a copy of the table, or table.ErrNotFound.
func (v tableView) GetByNumber(_ context.Context, number int) (*table.Table, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()

	t, ok := v.s.tables[number]
	if !ok {
		return nil, table.ErrNotFound
	}
	return cloneTable(t), nil
}

// SetStatus is the operator override. It does not touch the order link;
// the next order-driven cascade on the table overwrites whatever is set
// here.
func (v tableView) SetStatus(_ context.Context, number int, status table.Status) (*table.Table, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	t, ok := v.s.tables[number]
	if !ok {
		return nil, table.ErrNotFound
	}
	t.Status = status
	return cloneTable(t), nil
}
