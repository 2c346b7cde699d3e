package order

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
)

// Sentinel errors for order lookup and validation.
var (
	ErrNotFound   = errors.New("order not found")
	ErrEmptyItems = errors.New("items required")
)

// InvalidQuantityError indicates a line item with a quantity below 1.
type InvalidQuantityError struct {
	MenuItemID string
	Quantity   int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be at least 1 for item %s, got %d", e.MenuItemID, e.Quantity)
}

// MenuItemNotFoundError indicates a requested menu item that does not
// exist in the catalog or is currently unavailable.
type MenuItemNotFoundError struct {
	MenuItemID string
}

func (e *MenuItemNotFoundError) Error() string {
	return fmt.Sprintf("menu item %s not found or unavailable", e.MenuItemID)
}

// InvalidStatusError indicates a status value outside the known set.
type InvalidStatusError struct {
	Value string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid order status %q", e.Value)
}

// InvalidTransitionError indicates a status update that is not the next
// step of the preparation flow.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition order from %s to %s", e.From, e.To)
}

// Status is the preparation state of an order. Orders move strictly
// forward: pending -> inProgress -> ready -> complete.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "inProgress"
	StatusReady      Status = "ready"
	StatusComplete   Status = "complete"
)

// next maps each status to its single allowed successor. StatusComplete
// is terminal and has no entry.
var next = map[Status]Status{
	StatusPending:    StatusInProgress,
	StatusInProgress: StatusReady,
	StatusReady:      StatusComplete,
}

// Valid reports whether s is one of the known order statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusReady, StatusComplete:
		return true
	}
	return false
}

// Terminal reports whether s is the final state of the flow.
func (s Status) Terminal() bool { return s == StatusComplete }

// ValidateTransition checks that moving from one status to another is
// allowed. Re-asserting the current status is permitted so that status
// updates are idempotent; every other non-adjacent or backward move is
// rejected.
func ValidateTransition(from, to Status) error {
	if from == to {
		return nil
	}
	if next[from] == to {
		return nil
	}
	return &InvalidTransitionError{From: from, To: to}
}

// Line is one priced line of an order: a snapshot of the catalog entry
// taken at creation time, so later catalog changes never affect it.
type Line struct {
	MenuItemID string `json:"menuItemId"`
	ShortName  string `json:"shortName"`
	UnitPrice  int64  `json:"unitPrice"`
	Quantity   int    `json:"quantity"`
}

// Order is a confirmed set of menu selections for one table, tracked
// through its preparation status. Lines and Total are immutable after
// creation; only Status changes. Orders are never deleted and serve as
// history.
type Order struct {
	ID          string    `json:"id"`
	TableNumber int       `json:"tableNumber"`
	Lines       []Line    `json:"items"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	Total       int64     `json:"total"`
}

// ListFilter narrows List results. Nil fields match everything; set
// fields combine with AND.
type ListFilter struct {
	Status      *Status
	TableNumber *int
}

// Store defines persistence for orders together with the table-state
// cascades that must be applied atomically with them.
//
// Implementations serialize mutations against each other and against
// table mutations so readers never observe an order flip without its
// paired table flip.
type Store interface {
	// List returns orders matching the filter, newest first.
	List(ctx context.Context, filter ListFilter) ([]Order, error)

	// GetByID returns the order with the given id, or ErrNotFound.
	GetByID(ctx context.Context, id string) (*Order, error)

	// Create persists a new order and, in the same atomic step, marks
	// its table occupied and links it as the table's current order
	// (last writer wins). Returns table.ErrNotFound for an unknown
	// table number.
	Create(ctx context.Context, o *Order) error

	// SetStatus moves an order to the given status after checking
	// ValidateTransition under the store's mutation discipline. When
	// the order completes while still linked as its table's current
	// order, the table reverts to available and the link is cleared in
	// the same atomic step.
	SetStatus(ctx context.Context, id string, status Status) (*Order, error)
}
