package pricing

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Money represents a monetary value with exact decimal arithmetic.
type Money = decimal.Decimal

const (
	// LuxuryBulkThreshold is the quantity at which a luxury line earns its bulk rebate.
	LuxuryBulkThreshold = 3
)

var (
	// LuxuryBulkRebate is the share of one unit price refunded on a qualifying luxury line.
	LuxuryBulkRebate = decimal.RequireFromString("0.1")

	// ErrNegativePrice is returned when a product price would drop below zero.
	ErrNegativePrice = errors.New("product price must not be negative")
	// ErrInvalidQuantity is returned for line quantities below one.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	// ErrMissingProduct is returned when a line has no product.
	ErrMissingProduct = errors.New("line product is required")
)

// Product is a catalog entry. Products are shared by reference between the
// catalog and basket lines and are not mutated during checkout.
type Product struct {
	name   string
	price  Money
	luxury bool
}

// NewProduct validates and constructs a Product.
func NewProduct(name string, price Money, luxury bool) (*Product, error) {
	if price.IsNegative() {
		return nil, ErrNegativePrice
	}
	return &Product{name: strings.TrimSpace(name), price: price, luxury: luxury}, nil
}

// MustProduct behaves like NewProduct but panics on error. Useful for seed data and tests.
func MustProduct(name string, price Money, luxury bool) *Product {
	p, err := NewProduct(name, price, luxury)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Product) Name() string { return p.name }
func (p *Product) Price() Money { return p.price }
func (p *Product) Luxury() bool { return p.luxury }

func (p *Product) SetName(name string) { p.name = strings.TrimSpace(name) }

// SetPrice updates the unit price, keeping the non-negative invariant.
func (p *Product) SetPrice(price Money) error {
	if price.IsNegative() {
		return ErrNegativePrice
	}
	p.price = price
	return nil
}

func (p *Product) SetLuxury(luxury bool) { p.luxury = luxury }

// Line pairs a product with the purchased quantity.
type Line struct {
	Product *Product
	Qty     int
}

// NewLine validates a basket line before it is added to a transaction.
func NewLine(product *Product, qty int) (Line, error) {
	if product == nil {
		return Line{}, ErrMissingProduct
	}
	if qty <= 0 {
		return Line{}, ErrInvalidQuantity
	}
	return Line{Product: product, Qty: qty}, nil
}

// LineTotal prices a single line. Luxury lines with at least LuxuryBulkThreshold
// units get a single rebate of LuxuryBulkRebate of one unit price; the rebate
// does not grow with quantity.
func LineTotal(line Line) Money {
	if line.Product == nil || line.Qty <= 0 {
		return decimal.Zero
	}
	unit := line.Product.Price()
	total := unit.Mul(decimal.NewFromInt(int64(line.Qty)))
	if line.Product.Luxury() && line.Qty >= LuxuryBulkThreshold {
		total = total.Sub(unit.Mul(LuxuryBulkRebate))
	}
	return total
}

// Subtotal sums line totals before any customer promotion.
func Subtotal(lines []Line) Money {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(LineTotal(line))
	}
	return subtotal
}
