package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// OrderMetrics counts placement outcomes and tracks end-to-end placement
// latency, gateway call included.
type OrderMetrics struct {
	Placements *prometheus.CounterVec
	DurationMS prometheus.Histogram
}

func NewOrderMetrics(reg prometheus.Registerer, service string) *OrderMetrics {
	placements := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shop",
		Subsystem: service,
		Name:      "order_placements_total",
		Help:      "Order placement attempts by outcome.",
	}, []string{"outcome"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "shop",
		Subsystem: service,
		Name:      "order_placement_duration_ms",
		Help:      "Order placement latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	})

	reg.MustRegister(placements, duration)
	return &OrderMetrics{Placements: placements, DurationMS: duration}
}

func Handler() http.Handler {
	return promhttp.Handler()
}
