// Package metrics exposes Prometheus collectors for device
// operations. Nothing here starts a server: the embedding platform
// mounts Handler on its own /metrics endpoint.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds this module's collectors, kept off the global
// registry so embedding platforms control what they expose.
var Registry = prometheus.NewRegistry()

var (
	deviceOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "southbound_device_ops_total",
			Help: "Device operations by device family, operation and outcome.",
		},
		[]string{"device", "op", "status"},
	)

	deviceOpSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "southbound_device_op_seconds",
			Help: "Wall time of device operations.",
			// Shell sessions routinely take seconds; the default
			// buckets top out too early.
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"device", "op"},
	)
)

func init() {
	Registry.MustRegister(deviceOps, deviceOpSeconds)
}

// ObserveDeviceOp records one finished device operation.
func ObserveDeviceOp(device, op, status string, elapsed time.Duration) {
	deviceOps.WithLabelValues(device, op, status).Inc()
	deviceOpSeconds.WithLabelValues(device, op).Observe(elapsed.Seconds())
}

// Handler serves the module's registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
