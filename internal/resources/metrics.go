package resources

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK    = "ok"
	outcomeError = "error"
)

var storeOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "libgw_store_operations_total",
		Help: "Resource store operations by operation and outcome.",
	},
	[]string{"operation", "outcome"},
)

func recordStoreOperation(operation, outcome string) {
	storeOperationsTotal.WithLabelValues(operation, outcome).Inc()
}
