// Package seed builds the starting catalog and customer registry.
package seed

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/toko-loyalty/internal/catalog"
	"github.com/noah-isme/toko-loyalty/internal/loyalty"
	"github.com/noah-isme/toko-loyalty/internal/pricing"
)

// Products returns the default catalog entries.
func Products() []*pricing.Product {
	return []*pricing.Product{
		pricing.MustProduct("Product 1", decimal.RequireFromString("10.0"), false),
		pricing.MustProduct("Product 2", decimal.RequireFromString("20.0"), true),
		pricing.MustProduct("Product 3", decimal.RequireFromString("30.0"), true),
		pricing.MustProduct("Product 4", decimal.RequireFromString("40.0"), false),
	}
}

// Customers returns the default customers: two regular and two gold.
func Customers() ([]loyalty.Customer, error) {
	dec := decimal.RequireFromString
	regular1, err := loyalty.NewRegularCustomer("Regular Customer 1", 1, dec("0.1"), dec("50.0"), dec("0.02"))
	if err != nil {
		return nil, fmt.Errorf("seed regular customer 1: %w", err)
	}
	regular2, err := loyalty.NewRegularCustomer("Regular Customer 2", 2, dec("0.05"), dec("60.0"), dec("0.03"))
	if err != nil {
		return nil, fmt.Errorf("seed regular customer 2: %w", err)
	}
	gold1, err := loyalty.NewGoldCustomer("Gold Customer 1", 3, dec("0.1"))
	if err != nil {
		return nil, fmt.Errorf("seed gold customer 1: %w", err)
	}
	gold2, err := loyalty.NewGoldCustomer("Gold Customer 2", 4, dec("0.2"))
	if err != nil {
		return nil, fmt.Errorf("seed gold customer 2: %w", err)
	}
	return []loyalty.Customer{regular1, regular2, gold1, gold2}, nil
}

// Load builds a fresh catalog and registry from the default data.
func Load() (*catalog.Service, *loyalty.Registry, error) {
	cat, err := catalog.NewService(catalog.ServiceConfig{Products: Products()})
	if err != nil {
		return nil, nil, err
	}
	customers, err := Customers()
	if err != nil {
		return nil, nil, err
	}
	reg, err := loyalty.NewRegistry(customers...)
	if err != nil {
		return nil, nil, err
	}
	return cat, reg, nil
}
