package checkout

import (
	"sync"

	"github.com/noah-isme/toko-loyalty/internal/common"
)

// Journal keeps completed invoices in the order they were produced. The
// zero value is ready to use.
type Journal struct {
	mu      sync.RWMutex
	entries []Invoice
}

// Record appends a completed invoice.
func (j *Journal) Record(inv Invoice) {
	j.mu.Lock()
	j.entries = append(j.entries, inv)
	j.mu.Unlock()
}

// Len reports the number of recorded invoices.
func (j *Journal) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.entries)
}

// List returns one page of invoices, newest last, plus the total count.
func (j *Journal) List(page, limit int) ([]Invoice, int) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	total := len(j.entries)
	start, end := common.Window(page, limit, total)
	return append([]Invoice{}, j.entries[start:end]...), total
}
