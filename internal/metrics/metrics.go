package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsSubmittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "custody_requests_submitted_total",
		Help: "Total number of custody requests created by batch submissions.",
	})

	RequestTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "custody_request_transitions_total",
		Help: "Total number of committed request status transitions by target status.",
	},
		[]string{"status"},
	)

	ReturnsConfirmedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "custody_returns_confirmed_total",
		Help: "Total number of keeper orders returned, by who confirmed the return.",
	},
		[]string{"confirmer"},
	)

	ExtensionsRequestedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "custody_extensions_requested_total",
		Help: "Total number of extension requests created.",
	})

	OperationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "custody_operation_errors_total",
		Help: "Total number of errors encountered during specific operations.",
	},
		[]string{"operation"},
	)

	OutboxTasksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "custody_outbox_tasks_total",
		Help: "Total number of outbox tasks handled by the publisher, by outcome.",
	},
		[]string{"outcome"},
	)

	ChainCacheItems = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "custody_chain_cache_items",
		Help: "Current number of keeper chains in the cache.",
	})
)
