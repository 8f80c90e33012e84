package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ItemsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coldstore_items_created_total",
		Help: "Total number of inventory items successfully created.",
	})

	ItemsUpdatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coldstore_items_updated_total",
		Help: "Total number of inventory items successfully updated.",
	})

	ItemsDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coldstore_items_deleted_total",
		Help: "Total number of inventory items successfully deleted.",
	})

	OperationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coldstore_operation_errors_total",
		Help: "Total number of errors encountered during specific operations.",
	},
		[]string{"operation"},
	)

	AuditTasksPublishedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coldstore_audit_tasks_published_total",
		Help: "Total number of audit outbox tasks delivered to the broker.",
	})

	ItemCacheItems = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "coldstore_item_cache_items",
		Help: "Current number of items in the inventory cache.",
	})
)
