package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics counts order workflow outcomes.
type OrderMetrics struct {
	placed      *prometheus.CounterVec
	transitions *prometheus.CounterVec
	deductions  *prometheus.CounterVec
}

// NewOrderMetrics registers the order metrics on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	placed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_placed_total",
		Help:      "Orders placed, by payment method.",
	}, []string{"payment_method"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_status_transitions_total",
		Help:      "Committed order status transitions.",
	}, []string{"from", "to"})
	deductions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "inventory_deductions_total",
		Help:      "Inventory deduction attempts, by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(placed, transitions, deductions)
	return &OrderMetrics{
		placed:      placed,
		transitions: transitions,
		deductions:  deductions,
	}
}

// IncPlaced counts a newly placed order.
func (m *OrderMetrics) IncPlaced(paymentMethod string) {
	if m == nil || m.placed == nil {
		return
	}
	m.placed.WithLabelValues(normalizeLabel(paymentMethod)).Inc()
}

// IncTransition counts a committed status change.
func (m *OrderMetrics) IncTransition(from, to string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(from), normalizeLabel(to)).Inc()
}

// IncDeduction counts a deduction attempt; outcome is "ok", "insufficient", "missing" or "error".
func (m *OrderMetrics) IncDeduction(outcome string) {
	if m == nil || m.deductions == nil {
		return
	}
	m.deductions.WithLabelValues(normalizeLabel(outcome)).Inc()
}
