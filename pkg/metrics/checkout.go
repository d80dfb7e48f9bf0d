package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// CheckoutMetrics tracks placed orders and their amounts.
type CheckoutMetrics struct {
	orders prometheus.Counter
	totals prometheus.Histogram
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	orders := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_orders_created_total",
		Help: "Orders created by checkout.",
	})
	totals := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_order_total_amount",
		Help:    "Order total amount including shipping.",
		Buckets: []float64{10, 20, 30, 50, 75, 100, 150, 250, 500},
	})
	reg.MustRegister(orders, totals)
	return &CheckoutMetrics{
		orders: orders,
		totals: totals,
	}
}

// ObserveOrder records a placed order with its total amount.
func (c *CheckoutMetrics) ObserveOrder(total decimal.Decimal) {
	if c == nil || c.orders == nil {
		return
	}
	c.orders.Inc()
	c.totals.Observe(total.InexactFloat64())
}
