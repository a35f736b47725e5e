package mirror

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// refreshDuration tracks the time taken by a full refresh cycle.
	refreshDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "mirror_refresh_duration_seconds",
		Help:    "Time taken to refresh the mirrored snapshot",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	})

	// refreshFailures tracks failed refresh cycles by failing fetch.
	refreshFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mirror_refresh_failures_total",
		Help: "Total number of failed refresh cycles by collection",
	}, []string{"collection"})

	// refreshTotal tracks completed refresh cycles.
	refreshTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mirror_refresh_total",
		Help: "Total number of successful refresh cycles",
	})

	// snapshotAge tracks the age of the current snapshot.
	snapshotAge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mirror_snapshot_age_seconds",
		Help: "Age of the mirrored snapshot in seconds",
	})

	// orphanSales tracks sales excluded from revenue because their SKU
	// has no matching product.
	orphanSales = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mirror_orphan_sales_total",
		Help: "Total number of sales skipped in revenue for lack of a matching product",
	})
)

func observeRefresh(start time.Time) {
	refreshDuration.Observe(time.Since(start).Seconds())
	refreshTotal.Inc()
	snapshotAge.Set(0)
}
