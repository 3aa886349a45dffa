// Package metrics defines the Prometheus collectors of the checkout service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "checkout"

type Metrics struct {
	OrdersPlaced    prometheus.Counter
	OrdersRejected  *prometheus.CounterVec
	StorageFailures *prometheus.CounterVec
	CartMutations   *prometheus.CounterVec
	HTTPRequests    *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// New registers all collectors on a fresh registry, so several instances
// can live in one process (tests start many apps).
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		OrdersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_placed_total",
			Help:      "Orders that passed validation.",
		}),
		OrdersRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_rejected_total",
			Help:      "Orders rejected by validation, by first failing field.",
		}, []string{"field"}),
		StorageFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_failures_total",
			Help:      "Storage reads and writes that failed and were ignored.",
		}, []string{"op", "key"}),
		CartMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_mutations_total",
			Help:      "Cart changes by kind.",
		}, []string{"kind"}),
		HTTPRequests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		gatherer: reg,
	}
	reg.MustRegister(
		m.OrdersPlaced,
		m.OrdersRejected,
		m.StorageFailures,
		m.CartMutations,
		m.HTTPRequests,
		collectors.NewGoCollector(),
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
