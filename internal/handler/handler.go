// Package handler exposes the REST API: the menu catalog, order
// placement and lifecycle, and the table registry. Routing uses
// http.ServeMux method patterns; bodies are JSON.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/koyo-dev/tableside/internal/domain/menu"
	"github.com/koyo-dev/tableside/internal/domain/order"
	"github.com/koyo-dev/tableside/internal/domain/table"
)

// Config holds non-dependency configuration for the Handler.
type Config struct {
	// ImageBaseURL is prepended to relative image paths in menu
	// responses. When empty, paths are returned as stored.
	ImageBaseURL string
}

// Handler serves the API, delegating business logic to the injected
// domain components.
type Handler struct {
	catalog      menu.Repository
	registry     table.Registry
	orders       order.Store
	lifecycle    *order.Service
	imageBaseURL string
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	cfg Config,
	catalog menu.Repository,
	registry table.Registry,
	orders order.Store,
	lifecycle *order.Service,
) *Handler {
	return &Handler{
		catalog:      catalog,
		registry:     registry,
		orders:       orders,
		lifecycle:    lifecycle,
		imageBaseURL: cfg.ImageBaseURL,
	}
}

// Routes returns the API route table. Callers mount it under /api.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/menu", h.listMenu)
	mux.HandleFunc("POST /api/orders", h.placeOrder)
	mux.HandleFunc("GET /api/orders", h.listOrders)
	mux.HandleFunc("GET /api/orders/{id}", h.getOrder)
	mux.HandleFunc("PATCH /api/orders/{id}", h.updateOrderStatus)
	mux.HandleFunc("GET /api/tables", h.listTables)
	mux.HandleFunc("GET /api/tables/{number}", h.getTable)
	mux.HandleFunc("PATCH /api/tables/{number}", h.updateTableStatus)
	return mux
}

// errorResponse is the JSON error body for every non-2xx response.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, errorResponse{Code: code, Message: message})
}

// internalError logs err and responds with a generic 500 body so
// storage details never leak to clients.
func internalError(w http.ResponseWriter, r *http.Request, err error) {
	zctx.From(r.Context()).Error("request failed",
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	writeError(w, http.StatusInternalServerError, "internal server error")
}
