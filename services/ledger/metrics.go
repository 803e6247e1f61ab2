package ledger

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	prometheusLedgerAppend         prometheus.Counter
	prometheusLedgerAppendDuration prometheus.Histogram
	prometheusContractExecutions   prometheus.Counter
	prometheusChainVerifications   prometheus.Counter
	prometheusChainVerifyFailures  prometheus.Counter

	prometheusMetricsInitOnce sync.Once
)

func initPrometheusMetrics() {
	prometheusMetricsInitOnce.Do(_initPrometheusMetrics)
}

func _initPrometheusMetrics() {
	prometheusLedgerAppend = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "colchain",
			Subsystem: "ledger",
			Name:      "append",
			Help:      "Number of entries appended to the chain",
		},
	)

	prometheusLedgerAppendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "colchain",
			Subsystem: "ledger",
			Name:      "append_duration_seconds",
			Help:      "Time spent in the append critical section",
			Buckets:   prometheus.DefBuckets,
		},
	)

	prometheusContractExecutions = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "colchain",
			Subsystem: "ledger",
			Name:      "contract_executions",
			Help:      "Number of contract payments emitted",
		},
	)

	prometheusChainVerifications = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "colchain",
			Subsystem: "ledger",
			Name:      "verifications",
			Help:      "Number of chain verification runs",
		},
	)

	prometheusChainVerifyFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "colchain",
			Subsystem: "ledger",
			Name:      "verification_failures",
			Help:      "Number of chain verification runs that found a broken chain",
		},
	)
}
