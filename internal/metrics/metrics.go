package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Orders counts order creation outcomes on the API.
type Orders struct {
	Created    prometheus.Counter
	Rejected   *prometheus.CounterVec
	DurationMS prometheus.Histogram
}

func NewOrders(reg prometheus.Registerer) *Orders {
	created := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "foodstore",
		Name:      "orders_created_total",
		Help:      "Total number of orders stored.",
	})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "foodstore",
		Name:      "orders_rejected_total",
		Help:      "Total number of order requests rejected by validation.",
	}, []string{"code"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "foodstore",
		Name:      "order_create_duration_ms",
		Help:      "Time spent storing an order in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	})

	reg.MustRegister(created, rejected, duration)
	return &Orders{Created: created, Rejected: rejected, DurationMS: duration}
}

// ObserveSince records the time elapsed since start.
func (o *Orders) ObserveSince(start time.Time) {
	o.DurationMS.Observe(float64(time.Since(start).Milliseconds()))
}

// Handler serves the collectors gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
