// Package table models the restaurant floor: a fixed set of
// pre-provisioned dining tables whose occupancy state follows the
// orders placed against them.
package table

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a table number does not exist.
var ErrNotFound = errors.New("table not found")

// Status is the occupancy state of a table.
type Status string

const (
	StatusAvailable      Status = "available"
	StatusOccupied       Status = "occupied"
	StatusNeedsAttention Status = "needsAttention"
)

// Valid reports whether s is one of the known table statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusOccupied, StatusNeedsAttention:
		return true
	}
	return false
}

// Table is one dining table. CurrentOrderID links the most recently
// placed order while the table is occupied; it is empty when the table
// is free. Tables are provisioned at startup and never deleted.
type Table struct {
	Number         int    `json:"number"`
	Status         Status `json:"status"`
	CurrentOrderID string `json:"currentOrderId,omitempty"`
	Capacity       int    `json:"capacity"`
}

// Registry provides access to the floor layout.
type Registry interface {
	// List returns all tables ordered by number.
	List(ctx context.Context) ([]Table, error)

	// GetByNumber returns the table with the given number, or
	// ErrNotFound.
	GetByNumber(ctx context.Context, number int) (*Table, error)

	// SetStatus is the operator override for a table's status, used for
	// flagging needsAttention or force-clearing a table. It does not
	// touch the order link; the next order-driven cascade overwrites
	// whatever is set here.
	SetStatus(ctx context.Context, number int, status Status) (*Table, error)
}
