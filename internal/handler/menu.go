package handler

import (
	"net/http"
	"strings"

	"github.com/koyo-dev/tableside/internal/domain/menu"
)

// listMenu returns every available catalog entry in menu order. Items
// flagged unavailable are hidden from customers entirely.
func (h *Handler) listMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalog.List(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}

	out := make([]menu.Item, 0, len(items))
	for _, it := range items {
		if !it.Available {
			continue
		}
		out = append(out, h.withImageBase(it))
	}
	writeJSON(w, http.StatusOK, out)
}

// withImageBase prefixes relative image paths with the configured base
// URL. Absolute URLs pass through untouched.
func (h *Handler) withImageBase(it menu.Item) menu.Item {
	if h.imageBaseURL == "" || it.ImageURL == "" {
		return it
	}
	if strings.HasPrefix(it.ImageURL, "http://") || strings.HasPrefix(it.ImageURL, "https://") {
		return it
	}
	it.ImageURL = h.imageBaseURL + it.ImageURL
	return it
}
