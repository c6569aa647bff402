package workers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// workersCreated counts spawned workers per pool name.
	workersCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feed_workers_created_total",
		Help: "Total number of workers spawned by pool",
	}, []string{"pool"})

	// workersTerminated counts terminated workers per pool name.
	workersTerminated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feed_workers_terminated_total",
		Help: "Total number of workers terminated by pool",
	}, []string{"pool"})
)
