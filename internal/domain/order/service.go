package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/koyo-dev/tableside/internal/domain/menu"
)

// ItemRequest is one requested line of a new order.
type ItemRequest struct {
	MenuItemID string
	Quantity   int
}

// PlaceOrderRequest holds the input for placing an order.
type PlaceOrderRequest struct {
	TableNumber int
	Items       []ItemRequest
}

// Service is the order lifecycle engine. It validates requests, prices
// them against the catalog, and delegates the atomic order/table
// mutations to the store.
type Service struct {
	catalog menu.Repository
	store   Store
}

// NewService creates a Service with the required dependencies.
func NewService(catalog menu.Repository, store Store) *Service {
	return &Service{
		catalog: catalog,
		store:   store,
	}
}

// PlaceOrder validates the request, snapshots the priced lines from the
// catalog, and persists the new pending order. Creating the order also
// marks its table occupied with the new order linked (see Store.Create).
func (s *Service) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyItems
	}

	ids := make([]string, len(req.Items))
	for i, item := range req.Items {
		if item.Quantity < 1 {
			return nil, &InvalidQuantityError{MenuItemID: item.MenuItemID, Quantity: item.Quantity}
		}
		ids[i] = item.MenuItemID
	}

	// Batch resolve all catalog entries, then verify each requested ID
	// matched an available item.
	fetched, err := s.catalog.GetByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "get menu items")
	}

	byID := make(map[string]menu.Item, len(fetched))
	for _, it := range fetched {
		byID[it.ID] = it
	}

	lines := make([]Line, len(req.Items))
	var total int64
	for i, item := range req.Items {
		it, ok := byID[item.MenuItemID]
		if !ok || !it.Available {
			return nil, &MenuItemNotFoundError{MenuItemID: item.MenuItemID}
		}
		lines[i] = Line{
			MenuItemID: it.ID,
			ShortName:  it.ShortName,
			UnitPrice:  it.Price,
			Quantity:   item.Quantity,
		}
		total += it.Price * int64(item.Quantity)
	}

	o := &Order{
		ID:          "order-" + uuid.New().String(),
		TableNumber: req.TableNumber,
		Lines:       lines,
		Status:      StatusPending,
		CreatedAt:   time.Now().UTC(),
		Total:       total,
	}
	if err := s.store.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	return o, nil
}

// UpdateStatus advances an order through the preparation flow. The
// store applies the transition check and the table cascade atomically;
// re-asserting the current status is an idempotent no-op.
func (s *Service) UpdateStatus(ctx context.Context, id string, status Status) (*Order, error) {
	if !status.Valid() {
		return nil, &InvalidStatusError{Value: string(status)}
	}
	return s.store.SetStatus(ctx, id, status)
}
