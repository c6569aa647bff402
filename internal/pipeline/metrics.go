package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	importsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feed_imports_total",
		Help: "Total number of feed import runs by outcome",
	}, []string{"status"})

	importedProducts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feed_imported_products_total",
		Help: "Total number of products imported from feeds",
	})
)
