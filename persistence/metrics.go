package persistence

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// operationsTotal counts persistence operations across all backends.
// Registered on the default registry; embedders scraping it get
// per-backend read/write traffic for free.
var operationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "rdfx",
	Subsystem: "persistence",
	Name:      "operations_total",
	Help:      "Total persistence operations by backend, operation and outcome.",
}, []string{"backend", "operation", "outcome"})

// Observe records one backend operation. Backend subpackages call this
// from their Read/Write/AssetExists paths.
func Observe(backend, operation string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	operationsTotal.WithLabelValues(backend, operation, outcome).Inc()
}
