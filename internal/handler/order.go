package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-faster/errors"

	"github.com/koyo-dev/tableside/internal/domain/order"
	"github.com/koyo-dev/tableside/internal/domain/table"
)

// placeOrderRequest is the POST /api/orders body. TableNumber is a
// pointer so a missing field is distinguishable from table 0.
type placeOrderRequest struct {
	TableNumber *int             `json:"tableNumber"`
	Items       []placeOrderItem `json:"items"`
}

type placeOrderItem struct {
	MenuItemID string `json:"menuItemId"`
	Quantity   int    `json:"quantity"`
}

// placeOrder creates a pending order for a table. The table flips to
// occupied with the new order linked as part of the same operation.
func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.TableNumber == nil {
		writeError(w, http.StatusBadRequest, "tableNumber required")
		return
	}

	items := make([]order.ItemRequest, len(req.Items))
	for i, it := range req.Items {
		if it.MenuItemID == "" {
			writeError(w, http.StatusBadRequest, "menuItemId required for every item")
			return
		}
		items[i] = order.ItemRequest{MenuItemID: it.MenuItemID, Quantity: it.Quantity}
	}

	o, err := h.lifecycle.PlaceOrder(r.Context(), order.PlaceOrderRequest{
		TableNumber: *req.TableNumber,
		Items:       items,
	})
	if err != nil {
		var (
			qtyErr  *order.InvalidQuantityError
			itemErr *order.MenuItemNotFoundError
		)
		switch {
		case errors.Is(err, order.ErrEmptyItems):
			writeError(w, http.StatusBadRequest, "items required")
		case errors.As(err, &qtyErr):
			writeError(w, http.StatusBadRequest, qtyErr.Error())
		case errors.As(err, &itemErr):
			writeError(w, http.StatusUnprocessableEntity, itemErr.Error())
		case errors.Is(err, table.ErrNotFound):
			writeError(w, http.StatusNotFound, "table not found")
		default:
			internalError(w, r, err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, o)
}

// listOrders returns orders newest first, optionally filtered by
// ?status= and ?tableNumber=.
func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	var filter order.ListFilter

	if raw := r.URL.Query().Get("status"); raw != "" {
		status := order.Status(raw)
		if !status.Valid() {
			writeError(w, http.StatusBadRequest, "invalid status filter")
			return
		}
		filter.Status = &status
	}
	if raw := r.URL.Query().Get("tableNumber"); raw != "" {
		number, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid tableNumber filter")
			return
		}
		filter.TableNumber = &number
	}

	out, err := h.orders.List(r.Context(), filter)
	if err != nil {
		internalError(w, r, err)
		return
	}
	if out == nil {
		out = []order.Order{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// updateOrderStatus advances an order through the preparation flow.
// Completing an order frees its table in the same operation.
func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.Status == "" {
		writeError(w, http.StatusBadRequest, "status required")
		return
	}

	o, err := h.lifecycle.UpdateStatus(r.Context(), r.PathValue("id"), order.Status(req.Status))
	if err != nil {
		var (
			statusErr     *order.InvalidStatusError
			transitionErr *order.InvalidTransitionError
		)
		switch {
		case errors.As(err, &statusErr):
			writeError(w, http.StatusBadRequest, statusErr.Error())
		case errors.Is(err, order.ErrNotFound):
			writeError(w, http.StatusNotFound, "order not found")
		case errors.As(err, &transitionErr):
			writeError(w, http.StatusConflict, transitionErr.Error())
		default:
			internalError(w, r, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, o)
}
