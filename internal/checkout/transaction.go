package checkout

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/toko-loyalty/internal/loyalty"
	"github.com/noah-isme/toko-loyalty/internal/pricing"
)

var (
	// ErrAlreadyInvoiced is returned when a transaction is modified or invoiced after its invoice was produced.
	ErrAlreadyInvoiced = errors.New("transaction already invoiced")
	// ErrEmptyTransaction is returned when invoicing a transaction without lines.
	ErrEmptyTransaction = errors.New("transaction has no lines")
	// ErrMissingCustomer is returned when a transaction has no customer.
	ErrMissingCustomer = errors.New("transaction customer is required")
)

// InvoiceLine is the priced view of one basket line.
type InvoiceLine struct {
	Product   string        `json:"product"`
	UnitPrice pricing.Money `json:"unitPrice"`
	Quantity  int           `json:"quantity"`
	Luxury    bool          `json:"luxury"`
	Total     pricing.Money `json:"total"`
}

// Invoice is the result of a completed transaction.
type Invoice struct {
	TransactionID uuid.UUID     `json:"transactionId"`
	CustomerID    int           `json:"customerId"`
	CustomerName  string        `json:"customerName"`
	Tier          loyalty.Tier  `json:"tier"`
	Lines         []InvoiceLine `json:"lines"`
	Subtotal      pricing.Money `json:"subtotal"`
	Discount      pricing.Money `json:"discount"`
	Total         pricing.Money `json:"total"`
	PointsAccrued pricing.Money `json:"pointsAccrued"`
	TotalPoints   pricing.Money `json:"totalPoints"`
}

// Transaction collects basket lines for one customer. It is single-shot:
// once Invoice succeeds it rejects further lines and further invoicing, so
// points are never accrued twice.
type Transaction struct {
	id       uuid.UUID
	customer loyalty.Customer

	mu       sync.Mutex
	lines    []pricing.Line
	invoiced bool
}

// NewTransaction opens a transaction for customer.
func NewTransaction(customer loyalty.Customer) (*Transaction, error) {
	if customer == nil {
		return nil, ErrMissingCustomer
	}
	return &Transaction{id: uuid.New(), customer: customer}, nil
}

func (t *Transaction) ID() uuid.UUID { return t.id }
func (t *Transaction) Customer() loyalty.Customer { return t.customer }

// AddLine appends a product with the given quantity.
func (t *Transaction) AddLine(product *pricing.Product, qty int) error {
	line, err := pricing.NewLine(product, qty)
	if err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.invoiced {
		return ErrAlreadyInvoiced
	}
	t.lines = append(t.lines, line)
	return nil
}

// Lines returns a copy of the basket lines.
func (t *Transaction) Lines() []pricing.Line {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]pricing.Line(nil), t.lines...)
}

// Invoiced reports whether Invoice has already succeeded.
func (t *Transaction) Invoiced() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.invoiced
}

// Invoice prices the basket, applies the customer's tier promotion to the
// subtotal and accrues points on the final, post-promotion amount.
func (t *Transaction) Invoice() (Invoice, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.invoiced {
		return Invoice{}, ErrAlreadyInvoiced
	}
	if len(t.lines) == 0 {
		return Invoice{}, ErrEmptyTransaction
	}

	lines := make([]InvoiceLine, 0, len(t.lines))
	for _, line := range t.lines {
		lines = append(lines, InvoiceLine{
			Product:   line.Product.Name(),
			UnitPrice: line.Product.Price(),
			Quantity:  line.Qty,
			Luxury:    line.Product.Luxury(),
			Total:     pricing.LineTotal(line),
		})
	}
	subtotal := pricing.Subtotal(t.lines)
	discount := t.customer.Promotion(subtotal)
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	final := subtotal.Sub(discount)
	points := t.customer.AccruePoints(final)
	t.invoiced = true

	return Invoice{
		TransactionID: t.id,
		CustomerID:    t.customer.ID(),
		CustomerName:  t.customer.Name(),
		Tier:          t.customer.Tier(),
		Lines:         lines,
		Subtotal:      subtotal,
		Discount:      discount,
		Total:         final,
		PointsAccrued: points,
		TotalPoints:   t.customer.TotalPoints(),
	}, nil
}
