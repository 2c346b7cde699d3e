package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-faster/errors"

	"github.com/koyo-dev/tableside/internal/domain/table"
)

func (h *Handler) listTables(w http.ResponseWriter, r *http.Request) {
	tables, err := h.registry.List(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tables)
}

func (h *Handler) getTable(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(r.PathValue("number"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid table number")
		return
	}

	t, err := h.registry.GetByNumber(r.Context(), number)
	if err != nil {
		if errors.Is(err, table.ErrNotFound) {
			writeError(w, http.StatusNotFound, "table not found")
			return
		}
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// updateTableStatus is the operator override for a table's status,
// used to flag needsAttention or force-clear a table. It does not
// validate against the order link.
func (h *Handler) updateTableStatus(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(r.PathValue("number"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid table number")
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	status := table.Status(req.Status)
	if !status.Valid() {
		writeError(w, http.StatusBadRequest, "invalid table status")
		return
	}

	t, err := h.registry.SetStatus(r.Context(), number, status)
	if err != nil {
		if errors.Is(err, table.ErrNotFound) {
			writeError(w, http.StatusNotFound, "table not found")
			return
		}
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}
