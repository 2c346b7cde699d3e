package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koyo-dev/tableside/internal/domain/menu"
	"github.com/koyo-dev/tableside/internal/domain/order"
	"github.com/koyo-dev/tableside/internal/domain/table"
	"github.com/koyo-dev/tableside/internal/memstore"
)

// --- Fixtures ---

func testItems() []menu.Item {
	return []menu.Item{
		{
			ID:        "app-001",
			NameJA:    "よだれ鶏",
			NameEN:    "Mouth-Watering Chicken",
			NameZH:    "口水鸡",
			Price:     780,
			Category:  menu.CategoryAppetizer,
			Allergens: []menu.Allergen{menu.AllergenSoy},
			ShortName: "口水鸡",
			ImageURL:  "/images/app-001.jpg",
			Available: true,
		},
		{
			ID:        "sta-001",
			NameJA:    "五目チャーハン",
			NameEN:    "Fried Rice",
			NameZH:    "什锦炒饭",
			Price:     880,
			Category:  menu.CategoryStaple,
			Allergens: []menu.Allergen{menu.AllergenEgg, menu.AllergenSoy},
			ShortName: "炒饭",
			Available: true,
		},
		{
			ID:        "mea-004",
			NameJA:    "北京ダック",
			NameEN:    "Peking Duck",
			NameZH:    "北京烤鸭",
			Price:     4800,
			Category:  menu.CategoryMeat,
			Allergens: []menu.Allergen{menu.AllergenGluten, menu.AllergenSoy},
			ShortName: "烤鸭",
			Available: false,
		},
	}
}

func testTables() []table.Table {
	return []table.Table{
		{Number: 1, Status: table.StatusAvailable, Capacity: 2},
		{Number: 2, Status: table.StatusAvailable, Capacity: 4},
		{Number: 3, Status: table.StatusAvailable, Capacity: 6},
	}
}

func newTestHandler(t *testing.T, cfg Config) *http.ServeMux {
	t.Helper()
	store := memstore.New(testItems(), testTables())
	svc := order.NewService(store.Menu(), store.Orders())
	h := NewHandler(cfg, store.Menu(), store.Tables(), store.Orders(), svc)
	return h.Routes()
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v))
	return v
}

func placeOrder(t *testing.T, mux *http.ServeMux, tableNumber int, items ...map[string]any) order.Order {
	t.Helper()
	w := doJSON(t, mux, http.MethodPost, "/api/orders", map[string]any{
		"tableNumber": tableNumber,
		"items":       items,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[order.Order](t, w)
}

func line(id string, qty int) map[string]any {
	return map[string]any{"menuItemId": id, "quantity": qty}
}

// --- Menu ---

func TestListMenu(t *testing.T) {
	mux := newTestHandler(t, Config{ImageBaseURL: "https://cdn.example.com"})

	w := doJSON(t, mux, http.MethodGet, "/api/menu", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	items := decode[[]menu.Item](t, w)
	require.Len(t, items, 2, "unavailable items must be hidden")
	assert.Equal(t, "app-001", items[0].ID)
	assert.Equal(t, "https://cdn.example.com/images/app-001.jpg", items[0].ImageURL)
	assert.Equal(t, "sta-001", items[1].ID)
	assert.Empty(t, items[1].ImageURL)
}

// --- Orders ---

func TestPlaceOrder(t *testing.T) {
	mux := newTestHandler(t, Config{})

	o := placeOrder(t, mux, 3, line("app-001", 2), line("sta-001", 1))

	assert.Regexp(t, `^order-[0-9a-f-]{36}$`, o.ID)
	assert.Equal(t, 3, o.TableNumber)
	assert.Equal(t, order.StatusPending, o.Status)
	assert.Equal(t, int64(780*2+880), o.Total)
	require.Len(t, o.Lines, 2)
	assert.Equal(t, "口水鸡", o.Lines[0].ShortName)
	assert.Equal(t, int64(780), o.Lines[0].UnitPrice)

	// The table flips to occupied with the order linked.
	w := doJSON(t, mux, http.MethodGet, "/api/tables/3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	tbl := decode[table.Table](t, w)
	assert.Equal(t, table.StatusOccupied, tbl.Status)
	assert.Equal(t, o.ID, tbl.CurrentOrderID)
}

func TestPlaceOrder_Validation(t *testing.T) {
	mux := newTestHandler(t, Config{})

	tests := []struct {
		name string
		body any
		code int
	}{
		{"missing table number", map[string]any{"items": []any{line("app-001", 1)}}, http.StatusBadRequest},
		{"empty items", map[string]any{"tableNumber": 1, "items": []any{}}, http.StatusBadRequest},
		{"missing items", map[string]any{"tableNumber": 1}, http.StatusBadRequest},
		{"zero quantity", map[string]any{"tableNumber": 1, "items": []any{line("app-001", 0)}}, http.StatusBadRequest},
		{"missing item id", map[string]any{"tableNumber": 1, "items": []any{map[string]any{"quantity": 1}}}, http.StatusBadRequest},
		{"unknown table", map[string]any{"tableNumber": 99, "items": []any{line("app-001", 1)}}, http.StatusNotFound},
		{"unknown item", map[string]any{"tableNumber": 1, "items": []any{line("nope", 1)}}, http.StatusUnprocessableEntity},
		{"unavailable item", map[string]any{"tableNumber": 1, "items": []any{line("mea-004", 1)}}, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, mux, http.MethodPost, "/api/orders", tt.body)
			assert.Equal(t, tt.code, w.Code, w.Body.String())

			resp := decode[errorResponse](t, w)
			assert.Equal(t, tt.code, resp.Code)
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestPlaceOrder_MalformedBody(t *testing.T) {
	mux := newTestHandler(t, Config{})

	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListOrders_Filters(t *testing.T) {
	mux := newTestHandler(t, Config{})

	o1 := placeOrder(t, mux, 1, line("app-001", 1))
	o2 := placeOrder(t, mux, 2, line("sta-001", 1))

	// Advance o1 to inProgress.
	w := doJSON(t, mux, http.MethodPatch, "/api/orders/"+o1.ID, map[string]any{"status": "inProgress"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, mux, http.MethodGet, "/api/orders", nil)
	require.Equal(t, http.StatusOK, w.Code)
	all := decode[[]order.Order](t, w)
	require.Len(t, all, 2)

	w = doJSON(t, mux, http.MethodGet, "/api/orders?status=pending", nil)
	pending := decode[[]order.Order](t, w)
	require.Len(t, pending, 1)
	assert.Equal(t, o2.ID, pending[0].ID)

	w = doJSON(t, mux, http.MethodGet, fmt.Sprintf("/api/orders?tableNumber=%d", 1), nil)
	byTable := decode[[]order.Order](t, w)
	require.Len(t, byTable, 1)
	assert.Equal(t, o1.ID, byTable[0].ID)

	w = doJSON(t, mux, http.MethodGet, "/api/orders?status=inProgress&tableNumber=2", nil)
	none := decode[[]order.Order](t, w)
	assert.Empty(t, none)
}

func TestListOrders_InvalidFilters(t *testing.T) {
	mux := newTestHandler(t, Config{})

	w := doJSON(t, mux, http.MethodGet, "/api/orders?status=cooking", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, mux, http.MethodGet, "/api/orders?tableNumber=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetOrder(t *testing.T) {
	mux := newTestHandler(t, Config{})

	o := placeOrder(t, mux, 1, line("app-001", 1))

	w := doJSON(t, mux, http.MethodGet, "/api/orders/"+o.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[order.Order](t, w)
	assert.Equal(t, o.ID, got.ID)

	w = doJSON(t, mux, http.MethodGet, "/api/orders/order-missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateOrderStatus_FullFlow(t *testing.T) {
	mux := newTestHandler(t, Config{})

	o := placeOrder(t, mux, 2, line("sta-001", 2))

	for _, status := range []order.Status{order.StatusInProgress, order.StatusReady, order.StatusComplete} {
		w := doJSON(t, mux, http.MethodPatch, "/api/orders/"+o.ID, map[string]any{"status": status})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		got := decode[order.Order](t, w)
		assert.Equal(t, status, got.Status)
	}

	// Completion frees the table.
	w := doJSON(t, mux, http.MethodGet, "/api/tables/2", nil)
	tbl := decode[table.Table](t, w)
	assert.Equal(t, table.StatusAvailable, tbl.Status)
	assert.Empty(t, tbl.CurrentOrderID)
}

func TestUpdateOrderStatus_Errors(t *testing.T) {
	mux := newTestHandler(t, Config{})

	o := placeOrder(t, mux, 1, line("app-001", 1))

	// Unknown status value.
	w := doJSON(t, mux, http.MethodPatch, "/api/orders/"+o.ID, map[string]any{"status": "cooking"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Missing status.
	w = doJSON(t, mux, http.MethodPatch, "/api/orders/"+o.ID, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown order.
	w = doJSON(t, mux, http.MethodPatch, "/api/orders/order-missing", map[string]any{"status": "inProgress"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Skipping a step conflicts and leaves the order untouched.
	w = doJSON(t, mux, http.MethodPatch, "/api/orders/"+o.ID, map[string]any{"status": "ready"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, mux, http.MethodGet, "/api/orders/"+o.ID, nil)
	got := decode[order.Order](t, w)
	assert.Equal(t, order.StatusPending, got.Status)
}

func TestUpdateOrderStatus_Idempotent(t *testing.T) {
	mux := newTestHandler(t, Config{})

	o := placeOrder(t, mux, 1, line("app-001", 1))

	w := doJSON(t, mux, http.MethodPatch, "/api/orders/"+o.ID, map[string]any{"status": "pending"})
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[order.Order](t, w)
	assert.Equal(t, order.StatusPending, got.Status)
}

// --- Tables ---

func TestListTables(t *testing.T) {
	mux := newTestHandler(t, Config{})

	w := doJSON(t, mux, http.MethodGet, "/api/tables", nil)
	require.Equal(t, http.StatusOK, w.Code)

	tables := decode[[]table.Table](t, w)
	require.Len(t, tables, 3)
	assert.Equal(t, 1, tables[0].Number)
	assert.Equal(t, table.StatusAvailable, tables[0].Status)
	assert.Equal(t, 2, tables[0].Capacity)
}

func TestGetTable(t *testing.T) {
	mux := newTestHandler(t, Config{})

	w := doJSON(t, mux, http.MethodGet, "/api/tables/2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	tbl := decode[table.Table](t, w)
	assert.Equal(t, 2, tbl.Number)

	w = doJSON(t, mux, http.MethodGet, "/api/tables/99", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, mux, http.MethodGet, "/api/tables/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateTableStatus(t *testing.T) {
	mux := newTestHandler(t, Config{})

	w := doJSON(t, mux, http.MethodPatch, "/api/tables/1", map[string]any{"status": "needsAttention"})
	require.Equal(t, http.StatusOK, w.Code)
	tbl := decode[table.Table](t, w)
	assert.Equal(t, table.StatusNeedsAttention, tbl.Status)

	w = doJSON(t, mux, http.MethodPatch, "/api/tables/1", map[string]any{"status": "busy"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, mux, http.MethodPatch, "/api/tables/99", map[string]any{"status": "available"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
