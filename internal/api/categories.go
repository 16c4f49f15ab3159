package api

import (
	"net/http"

	"github.com/wishkeep/wishkeep/internal/assistant"
	"github.com/wishkeep/wishkeep/internal/log"
	"github.com/wishkeep/wishkeep/internal/wishlist"
)

// categoriesResponse is the body of GET /api/categories.
type categoriesResponse struct {
	Categories []wishlist.Category `json:"categories"`
}

// categoriesHandler serves the category directory.
type categoriesHandler struct {
	categories assistant.CategoryLister
	logger     log.Logger
}

func (h *categoriesHandler) list(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.ListCategories(r.Context())
	if err != nil {
		h.logger.Error("failed to list categories", "error", err)
		writeError(w, http.StatusInternalServerError,
			"internal_error", "failed to list categories", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, categoriesResponse{Categories: categories}, h.logger)
}
