package reports

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK          = "ok"
	outcomeFetchFailed = "fetch_failed"
	outcomeMalformed   = "malformed"
)

var (
	fetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "libgw_report_fetches_total",
			Help: "Legacy report fetches by type and outcome.",
		},
		[]string{"type", "outcome"},
	)

	fetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "libgw_report_fetch_duration_seconds",
			Help:    "Legacy report fetch latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"type"},
	)
)

func observeFetch(reportType ReportType, outcome string, started time.Time) {
	fetchesTotal.WithLabelValues(reportType.String(), outcome).Inc()
	fetchDuration.WithLabelValues(reportType.String()).Observe(time.Since(started).Seconds())
}
