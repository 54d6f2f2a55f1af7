package loyalty

import (
	"errors"
	"fmt"
	"sync"

	"github.com/noah-isme/toko-loyalty/internal/pricing"
)

var (
	// ErrInvalidSelection is returned when a 1-based position falls outside the registry.
	ErrInvalidSelection = errors.New("invalid customer selection")
	// ErrCustomerNotFound is returned when no customer carries the requested id.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrDuplicateCustomer is returned when registering an id twice.
	ErrDuplicateCustomer = errors.New("customer id already registered")
)

// View is the read-only projection of a customer exposed to front ends.
type View struct {
	Position    int           `json:"position"`
	ID          int           `json:"id"`
	Name        string        `json:"name"`
	Tier        Tier          `json:"tier"`
	TotalPoints pricing.Money `json:"totalPoints"`
}

// Registry owns the customer set for the lifetime of the process.
type Registry struct {
	mu        sync.RWMutex
	customers []Customer
	byID      map[int]Customer
}

// NewRegistry registers the provided customers in order.
func NewRegistry(customers ...Customer) (*Registry, error) {
	r := &Registry{byID: make(map[int]Customer, len(customers))}
	for _, c := range customers {
		if err := r.Add(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Add appends a customer; ids must be unique.
func (r *Registry) Add(c Customer) error {
	if c == nil {
		return errors.New("loyalty: customer is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.byID == nil {
		r.byID = map[int]Customer{}
	}
	if _, exists := r.byID[c.ID()]; exists {
		return fmt.Errorf("%w: %d", ErrDuplicateCustomer, c.ID())
	}
	r.customers = append(r.customers, c)
	r.byID[c.ID()] = c
	return nil
}

// Len reports the number of registered customers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.customers)
}

// List returns views in registration order.
func (r *Registry) List() []View {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]View, 0, len(r.customers))
	for i, c := range r.customers {
		out = append(out, viewOf(i+1, c))
	}
	return out
}

// Select resolves a 1-based position as shown by List.
func (r *Registry) Select(position int) (Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if position <= 0 || position > len(r.customers) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSelection, position)
	}
	return r.customers[position-1], nil
}

// Get looks a customer up by id.
func (r *Registry) Get(id int) (Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrCustomerNotFound, id)
	}
	return c, nil
}

// Points returns the accumulated points of the customer with the given id.
func (r *Registry) Points(id int) (pricing.Money, error) {
	c, err := r.Get(id)
	if err != nil {
		return pricing.Money{}, err
	}
	return c.TotalPoints(), nil
}

func viewOf(position int, c Customer) View {
	return View{
		Position:    position,
		ID:          c.ID(),
		Name:        c.Name(),
		Tier:        c.Tier(),
		TotalPoints: c.TotalPoints(),
	}
}
