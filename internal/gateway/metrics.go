package gateway

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK          = "ok"
	outcomeUnreachable = "unreachable"
	outcomeRemoteFault = "remote_fault"
	outcomeMalformed   = "malformed"
)

var (
	callsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "libgw_rpc_calls_total",
			Help: "Legacy RPC calls by method and outcome.",
		},
		[]string{"method", "outcome"},
	)

	callDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "libgw_rpc_call_duration_seconds",
			Help:    "Legacy RPC call latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)
)

func observeCall(method Method, outcome string, started time.Time) {
	callsTotal.WithLabelValues(string(method), outcome).Inc()
	callDuration.WithLabelValues(string(method)).Observe(time.Since(started).Seconds())
}
