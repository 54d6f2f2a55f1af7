package catalog

import (
	"net/http"

	"github.com/noah-isme/toko-loyalty/internal/common"
)

// Handler exposes public catalog endpoints.
type Handler struct {
	service      *Service
	defaultLimit int
	maxLimit     int
}

// HandlerConfig configures the Handler dependencies.
type HandlerConfig struct {
	Service      *Service
	DefaultLimit int
	MaxLimit     int
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{service: cfg.Service, defaultLimit: cfg.DefaultLimit, maxLimit: cfg.MaxLimit}
}

// Products handles GET /api/v1/products with pagination.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "catalog service not configured", nil)
		return
	}
	defaultLimit := h.defaultLimit
	if defaultLimit <= 0 {
		defaultLimit = 20
	}
	page, limit := common.ParsePagination(r, defaultLimit, h.maxLimit)
	items, total := h.service.Page(page, limit)
	common.Page(w, items, common.Pagination{Page: page, PerPage: limit, TotalItems: total})
}
