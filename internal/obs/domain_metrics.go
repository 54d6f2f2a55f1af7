package obs

import (
	"github.com/prometheus/client_golang/prometheus"
)

// DomainMetrics groups checkout and loyalty collectors.
type DomainMetrics struct {
	// Transactions counts checkout outcomes by tier and result.
	Transactions *prometheus.CounterVec
	// InvoiceTotal records final payment amounts.
	InvoiceTotal *prometheus.HistogramVec
	// Discounts sums promotion amounts granted.
	Discounts *prometheus.CounterVec
	// PointsAccrued sums loyalty points awarded.
	PointsAccrued *prometheus.CounterVec
}

// NewDomainMetrics registers domain collectors on reg (the default registerer when nil).
func NewDomainMetrics(namespace string, reg prometheus.Registerer) *DomainMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &DomainMetrics{
		Transactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_transactions_total",
			Help:      "Count of checkout transactions by customer tier and outcome.",
		}, []string{"tier", "result"}),
		InvoiceTotal: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "checkout_invoice_total",
			Help:      "Distribution of final payment amounts.",
			Buckets:   []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"tier"}),
		Discounts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loyalty_discount_total",
			Help:      "Sum of tier promotions granted.",
		}, []string{"tier"}),
		PointsAccrued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loyalty_points_accrued_total",
			Help:      "Sum of loyalty points awarded.",
		}, []string{"tier"}),
	}
	m.Transactions = register(reg, m.Transactions)
	m.InvoiceTotal = register(reg, m.InvoiceTotal)
	m.Discounts = register(reg, m.Discounts)
	m.PointsAccrued = register(reg, m.PointsAccrued)
	return m
}

// ObserveInvoice records a successful checkout.
func (m *DomainMetrics) ObserveInvoice(tier string, total, discount, points float64) {
	if m == nil {
		return
	}
	m.Transactions.WithLabelValues(tier, "ok").Inc()
	m.InvoiceTotal.WithLabelValues(tier).Observe(total)
	if discount > 0 {
		m.Discounts.WithLabelValues(tier).Add(discount)
	}
	if points > 0 {
		m.PointsAccrued.WithLabelValues(tier).Add(points)
	}
}

// ObserveRejected records a checkout rejected before any state changed.
func (m *DomainMetrics) ObserveRejected(tier, reason string) {
	if m == nil {
		return
	}
	if tier == "" {
		tier = "unknown"
	}
	m.Transactions.WithLabelValues(tier, reason).Inc()
}
