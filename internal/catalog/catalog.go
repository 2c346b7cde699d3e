// Package catalog holds the embedded menu data and the table fixtures
// the restaurant is provisioned with at startup.
package catalog

import (
	_ "embed"
	"encoding/json"

	"github.com/go-faster/errors"

	"github.com/koyo-dev/tableside/internal/domain/menu"
	"github.com/koyo-dev/tableside/internal/domain/table"
)

//go:embed menu.json
var menuJSON []byte

// Load parses the embedded menu catalog. The slice keeps the
// declaration order of the JSON file, which is the order the customer
// UI renders.
func Load() ([]menu.Item, error) {
	var items []menu.Item
	if err := json.Unmarshal(menuJSON, &items); err != nil {
		return nil, errors.Wrap(err, "parse menu catalog")
	}
	if len(items) == 0 {
		return nil, errors.New("menu catalog is empty")
	}
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if it.ID == "" {
			return nil, errors.New("menu item with empty id")
		}
		if _, dup := seen[it.ID]; dup {
			return nil, errors.Errorf("duplicate menu item id %q", it.ID)
		}
		seen[it.ID] = struct{}{}
		if it.Price <= 0 {
			return nil, errors.Errorf("menu item %s has non-positive price", it.ID)
		}
	}
	return items, nil
}

// Tables returns the pre-provisioned floor layout. Every table starts
// available with no linked order.
func Tables() []table.Table {
	capacities := []int{2, 4, 4, 6, 2, 4, 8, 2}
	tables := make([]table.Table, len(capacities))
	for i, c := range capacities {
		tables[i] = table.Table{
			Number:   i + 1,
			Status:   table.StatusAvailable,
			Capacity: c,
		}
	}
	return tables
}
