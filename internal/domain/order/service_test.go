package order

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koyo-dev/tableside/internal/domain/menu"
)

// --- Mock implementations ---

type mockCatalog struct {
	byID   map[string]menu.Item
	getErr error
}

func (m *mockCatalog) List(_ context.Context) ([]menu.Item, error) {
	return nil, nil
}

func (m *mockCatalog) GetByIDs(_ context.Context, ids []string) ([]menu.Item, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	items := make([]menu.Item, 0, len(ids))
	for _, id := range ids {
		if it, ok := m.byID[id]; ok {
			items = append(items, it)
		}
	}
	return items, nil
}

type mockStore struct {
	lastCreated *Order
	createErr   error

	setID     string
	setStatus Status
	setResult *Order
	setErr    error
}

func (m *mockStore) List(_ context.Context, _ ListFilter) ([]Order, error) { return nil, nil }
func (m *mockStore) GetByID(_ context.Context, _ string) (*Order, error) { return nil, ErrNotFound }

func (m *mockStore) Create(_ context.Context, o *Order) error {
	m.lastCreated = o
	return m.createErr
}

func (m *mockStore) SetStatus(_ context.Context, id string, status Status) (*Order, error) {
	m.setID = id
	m.setStatus = status
	return m.setResult, m.setErr
}

// --- Helpers ---

func newTestItem(id, shortName string, price int64) menu.Item {
	return menu.Item{
		ID:        id,
		NameJA:    shortName,
		NameEN:    shortName,
		NameZH:    shortName,
		Price:     price,
		Category:  menu.CategoryAppetizer,
		ShortName: shortName,
		Available: true,
	}
}

func newCatalog(items ...menu.Item) *mockCatalog {
	byID := make(map[string]menu.Item, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	return &mockCatalog{byID: byID}
}

// --- Tests ---

func TestPlaceOrder_EmptyItems(t *testing.T) {
	svc := NewService(newCatalog(), &mockStore{})

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{TableNumber: 1})
	require.ErrorIs(t, err, ErrEmptyItems)
}

func TestPlaceOrder_InvalidQuantity(t *testing.T) {
	svc := NewService(newCatalog(newTestItem("app-001", "春巻", 480)), &mockStore{})

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		TableNumber: 1,
		Items:       []ItemRequest{{MenuItemID: "app-001", Quantity: 0}},
	})

	var iqErr *InvalidQuantityError
	require.ErrorAs(t, err, &iqErr)
	assert.Equal(t, "app-001", iqErr.MenuItemID)
}

func TestPlaceOrder_UnknownMenuItem(t *testing.T) {
	svc := NewService(newCatalog(), &mockStore{})

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		TableNumber: 1,
		Items:       []ItemRequest{{MenuItemID: "missing", Quantity: 1}},
	})

	var nfErr *MenuItemNotFoundError
	require.ErrorAs(t, err, &nfErr)
	assert.Equal(t, "missing", nfErr.MenuItemID)
}

func TestPlaceOrder_UnavailableMenuItem(t *testing.T) {
	it := newTestItem("sea-002", "海老チリ", 1280)
	it.Available = false
	svc := NewService(newCatalog(it), &mockStore{})

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		TableNumber: 1,
		Items:       []ItemRequest{{MenuItemID: "sea-002", Quantity: 1}},
	})

	var nfErr *MenuItemNotFoundError
	require.ErrorAs(t, err, &nfErr)
}

func TestPlaceOrder_SnapshotsLinesAndTotal(t *testing.T) {
	catalog := newCatalog(
		newTestItem("mea-001", "回鍋肉", 600),
		newTestItem("veg-002", "青菜炒め", 400),
	)
	store := &mockStore{}
	svc := NewService(catalog, store)

	o, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		TableNumber: 3,
		Items: []ItemRequest{
			{MenuItemID: "mea-001", Quantity: 2},
			{MenuItemID: "veg-002", Quantity: 1},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1600), o.Total)
	assert.Equal(t, 3, o.TableNumber)
	assert.Equal(t, StatusPending, o.Status)
	assert.False(t, o.CreatedAt.IsZero())
	assert.Regexp(t, `^order-[0-9a-f-]{36}$`, o.ID)

	require.Len(t, o.Lines, 2)
	assert.Equal(t, Line{MenuItemID: "mea-001", ShortName: "回鍋肉", UnitPrice: 600, Quantity: 2}, o.Lines[0])
	assert.Equal(t, Line{MenuItemID: "veg-002", ShortName: "青菜炒め", UnitPrice: 400, Quantity: 1}, o.Lines[1])

	require.NotNil(t, store.lastCreated)
	assert.Equal(t, o.ID, store.lastCreated.ID)
}

func TestPlaceOrder_UniqueIDs(t *testing.T) {
	catalog := newCatalog(newTestItem("sta-001", "炒飯", 880))
	svc := NewService(catalog, &mockStore{})

	req := PlaceOrderRequest{
		TableNumber: 2,
		Items:       []ItemRequest{{MenuItemID: "sta-001", Quantity: 1}},
	}
	a, err := svc.PlaceOrder(context.Background(), req)
	require.NoError(t, err)
	b, err := svc.PlaceOrder(context.Background(), req)
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
}

func TestPlaceOrder_StoreError(t *testing.T) {
	catalog := newCatalog(newTestItem("app-001", "春巻", 480))
	svc := NewService(catalog, &mockStore{createErr: errors.New("store down")})

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		TableNumber: 1,
		Items:       []ItemRequest{{MenuItemID: "app-001", Quantity: 1}},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "create order")
}

func TestUpdateStatus_InvalidValue(t *testing.T) {
	svc := NewService(newCatalog(), &mockStore{})

	_, err := svc.UpdateStatus(context.Background(), "order-x", Status("cooked"))

	var isErr *InvalidStatusError
	require.ErrorAs(t, err, &isErr)
	assert.Equal(t, "cooked", isErr.Value)
}

func TestUpdateStatus_DelegatesToStore(t *testing.T) {
	want := &Order{ID: "order-x", Status: StatusReady}
	store := &mockStore{setResult: want}
	svc := NewService(newCatalog(), store)

	got, err := svc.UpdateStatus(context.Background(), "order-x", StatusReady)

	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, "order-x", store.setID)
	assert.Equal(t, StatusReady, store.setStatus)
}

func TestUpdateStatus_NotFound(t *testing.T) {
	store := &mockStore{setErr: ErrNotFound}
	svc := NewService(newCatalog(), store)

	_, err := svc.UpdateStatus(context.Background(), "order-unknown", StatusReady)
	require.ErrorIs(t, err, ErrNotFound)
}
