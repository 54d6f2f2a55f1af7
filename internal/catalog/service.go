package catalog

import (
	"errors"
	"fmt"
	"sync"

	"github.com/noah-isme/toko-loyalty/internal/common"
	"github.com/noah-isme/toko-loyalty/internal/pricing"
)

// ErrInvalidSelection is returned when a 1-based position falls outside the catalog.
var ErrInvalidSelection = errors.New("invalid product selection")

// ProductView is the read-only projection of a product shown to front ends.
type ProductView struct {
	Position int           `json:"position"`
	Name     string        `json:"name"`
	Price    pricing.Money `json:"price"`
	Luxury   bool          `json:"luxury"`
}

// Service holds the ordered product catalog for the lifetime of the process.
type Service struct {
	mu       sync.RWMutex
	products []*pricing.Product
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Products []*pricing.Product
}

// NewService constructs a catalog from the configured products.
func NewService(cfg ServiceConfig) (*Service, error) {
	s := &Service{products: make([]*pricing.Product, 0, len(cfg.Products))}
	for i, p := range cfg.Products {
		if p == nil {
			return nil, fmt.Errorf("catalog: product %d is nil", i+1)
		}
		s.products = append(s.products, p)
	}
	return s, nil
}

// Add appends a product to the end of the catalog and returns its position.
func (s *Service) Add(p *pricing.Product) (int, error) {
	if p == nil {
		return 0, errors.New("catalog: product is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = append(s.products, p)
	return len(s.products), nil
}

// Len reports the number of products in the catalog.
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}

// List returns every product in catalog order.
func (s *Service) List() []ProductView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ProductView, 0, len(s.products))
	for i, p := range s.products {
		out = append(out, ProductView{Position: i + 1, Name: p.Name(), Price: p.Price(), Luxury: p.Luxury()})
	}
	return out
}

// Page returns a window of List for the given 1-based page.
func (s *Service) Page(page, limit int) ([]ProductView, int) {
	all := s.List()
	start, end := common.Window(page, limit, len(all))
	return all[start:end], len(all)
}

// Select resolves a 1-based position as shown by List.
func (s *Service) Select(position int) (*pricing.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if position <= 0 || position > len(s.products) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSelection, position)
	}
	return s.products[position-1], nil
}
