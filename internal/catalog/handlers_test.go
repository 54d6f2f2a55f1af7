package catalog_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/toko-loyalty/internal/catalog"
	"github.com/noah-isme/toko-loyalty/internal/pricing"
)

type productsResponse struct {
	Data       []catalog.ProductView `json:"data"`
	Pagination struct {
		Page       int `json:"page"`
		PerPage    int `json:"per_page"`
		TotalItems int `json:"total_items"`
	} `json:"pagination"`
}

func newCatalog(t *testing.T) *catalog.Service {
	t.Helper()
	svc, err := catalog.NewService(catalog.ServiceConfig{Products: []*pricing.Product{
		pricing.MustProduct("Product 1", decimal.NewFromInt(10), false),
		pricing.MustProduct("Product 2", decimal.NewFromInt(20), true),
		pricing.MustProduct("Product 3", decimal.NewFromInt(30), true),
	}})
	require.NoError(t, err)
	return svc
}

func TestSelect(t *testing.T) {
	svc := newCatalog(t)

	p, err := svc.Select(2)
	require.NoError(t, err)
	require.Equal(t, "Product 2", p.Name())
	require.True(t, p.Luxury())

	for _, position := range []int{0, -3, 4} {
		_, err := svc.Select(position)
		require.ErrorIs(t, err, catalog.ErrInvalidSelection)
	}
}

func TestAddAppends(t *testing.T) {
	svc := newCatalog(t)
	position, err := svc.Add(pricing.MustProduct("Product 4", decimal.NewFromInt(40), false))
	require.NoError(t, err)
	require.Equal(t, 4, position)
	require.Equal(t, 4, svc.Len())

	_, err = svc.Add(nil)
	require.Error(t, err)

	_, err = catalog.NewService(catalog.ServiceConfig{Products: []*pricing.Product{nil}})
	require.Error(t, err)
}

func TestProductsHandler(t *testing.T) {
	handler := catalog.NewHandler(catalog.HandlerConfig{Service: newCatalog(t), DefaultLimit: 20, MaxLimit: 50})

	t.Run("full list", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.Products(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "3", rec.Header().Get("X-Total-Count"))

		var resp productsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 3)
		require.Equal(t, 1, resp.Data[0].Position)
		require.True(t, resp.Data[1].Price.Equal(decimal.NewFromInt(20)))
		require.Equal(t, 3, resp.Pagination.TotalItems)
	})

	t.Run("paged", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.Products(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products?page=2&limit=2", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp productsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 1)
		require.Equal(t, "Product 3", resp.Data[0].Name)
		require.Equal(t, 2, resp.Pagination.Page)
		require.Equal(t, 2, resp.Pagination.PerPage)
	})

	t.Run("past the end", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.Products(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products?page=9", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp productsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Empty(t, resp.Data)
	})

	t.Run("page that would overflow the offset", func(t *testing.T) {
		for _, limit := range []string{"3", "4"} {
			rec := httptest.NewRecorder()
			handler.Products(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products?page=4611686018427387905&limit="+limit, nil))
			require.Equal(t, http.StatusOK, rec.Code)

			var resp productsResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			require.Empty(t, resp.Data)
			require.Equal(t, 3, resp.Pagination.TotalItems)
		}
	})
}
