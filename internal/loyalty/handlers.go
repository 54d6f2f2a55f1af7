package loyalty

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/toko-loyalty/internal/common"
)

// Handler exposes customer registry endpoints.
type Handler struct {
	Registry *Registry
}

// List handles GET /api/v1/customers.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if h.Registry == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "customer registry not configured", nil)
		return
	}
	common.Data(w, http.StatusOK, h.Registry.List())
}

// Points handles GET /api/v1/customers/{id}/points.
func (h *Handler) Points(w http.ResponseWriter, r *http.Request) {
	if h.Registry == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "customer registry not configured", nil)
		return
	}
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeMalformedInput, "customer id must be a number", nil)
		return
	}
	points, err := h.Registry.Points(id)
	if err != nil {
		if errors.Is(err, ErrCustomerNotFound) {
			common.JSONError(w, http.StatusNotFound, common.CodeNotFound, "customer not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, err.Error(), nil)
		return
	}
	common.Data(w, http.StatusOK, map[string]any{
		"customerId":  id,
		"totalPoints": points,
	})
}
