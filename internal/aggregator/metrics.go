package aggregator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// chunkFailures counts chunks dropped from an aggregate.
	chunkFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feed_aggregator_chunk_failures_total",
		Help: "Total number of chunks whose worker failed",
	}, []string{"aggregation"})

	// aggregationsCancelled counts aggregations abandoned by their caller.
	aggregationsCancelled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feed_aggregator_cancelled_total",
		Help: "Total number of aggregations cancelled before completion",
	}, []string{"aggregation"})

	// aggregationDuration tracks wall time of completed aggregations.
	aggregationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "feed_aggregator_duration_seconds",
		Help:    "Time taken to aggregate a category list",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"aggregation"})
)
