package checkout

import (
	"encoding/json"
	"net/http"

	"github.com/noah-isme/toko-loyalty/internal/common"
	"github.com/noah-isme/toko-loyalty/internal/security"
)

// Handler exposes the transaction endpoints.
type Handler struct {
	Svc          *Service
	DefaultLimit int
}

// Checkout handles POST /api/v1/transactions.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "checkout service not configured", nil)
		return
	}
	var payload Input
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&payload); err != nil {
		if security.IsTooLarge(err) {
			security.TooLarge(w)
			return
		}
		common.JSONError(w, http.StatusBadRequest, common.CodeMalformedInput, "invalid payload", nil)
		return
	}
	if err := common.ValidateStruct(payload); err != nil {
		common.WriteError(w, err)
		return
	}
	out, err := h.Svc.Process(r.Context(), payload)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusCreated, out)
}

// Transactions handles GET /api/v1/transactions.
func (h *Handler) Transactions(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil || h.Svc.Journal == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "transaction journal not configured", nil)
		return
	}
	limit := h.DefaultLimit
	if limit <= 0 {
		limit = 20
	}
	page, perPage := common.ParsePagination(r, limit, 100)
	items, total := h.Svc.Journal.List(page, perPage)
	common.Page(w, items, common.Pagination{Page: page, PerPage: perPage, TotalItems: total})
}
