package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Search Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "catalogsearch",
			Name:      "search_requests_total",
			Help:      "Total number of search requests",
		},
		[]string{"backend", "status"},
	)

	SearchRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "catalogsearch",
			Name:      "search_request_duration_seconds",
			Help:      "Search request duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"backend"},
	)

	SearchResultsReturned = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "catalogsearch",
			Name:      "search_results_returned",
			Help:      "Number of matches per search before pagination",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		},
		[]string{"backend"},
	)

	SuggestRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "catalogsearch",
			Name:      "suggest_requests_total",
			Help:      "Total number of suggestion requests",
		},
		[]string{"backend", "status"},
	)

	SuggestRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "catalogsearch",
			Name:      "suggest_request_duration_seconds",
			Help:      "Suggestion request duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		},
		[]string{"backend"},
	)

	CatalogProducts = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "catalogsearch",
			Name:      "catalog_products",
			Help:      "Number of products in the catalog at last count",
		},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchRequestDuration)
	prometheus.MustRegister(SearchResultsReturned)
	prometheus.MustRegister(SuggestRequestsTotal)
	prometheus.MustRegister(SuggestRequestDuration)
	prometheus.MustRegister(CatalogProducts)
	searchMetricsRegistered = true
}

// ObserveSearch records one search call outcome.
func ObserveSearch(backend string, duration time.Duration, results int, ok bool) {
	if !searchMetricsRegistered {
		return
	}
	status := "ok"
	if !ok {
		status = "error"
	}
	SearchRequestsTotal.WithLabelValues(backend, status).Inc()
	SearchRequestDuration.WithLabelValues(backend).Observe(duration.Seconds())
	if ok {
		SearchResultsReturned.WithLabelValues(backend).Observe(float64(results))
	}
}

// SetCatalogProducts records the current catalog size.
func SetCatalogProducts(n int) {
	if !searchMetricsRegistered {
		return
	}
	CatalogProducts.Set(float64(n))
}

// IncCatalogProducts bumps the catalog size gauge after a create.
func IncCatalogProducts() {
	if !searchMetricsRegistered {
		return
	}
	CatalogProducts.Inc()
}

// DecCatalogProducts drops the catalog size gauge after a delete.
func DecCatalogProducts() {
	if !searchMetricsRegistered {
		return
	}
	CatalogProducts.Dec()
}

// ObserveSuggest records one suggestion call outcome.
func ObserveSuggest(backend string, duration time.Duration, ok bool) {
	if !searchMetricsRegistered {
		return
	}
	status := "ok"
	if !ok {
		status = "error"
	}
	SuggestRequestsTotal.WithLabelValues(backend, status).Inc()
	SuggestRequestDuration.WithLabelValues(backend).Observe(duration.Seconds())
}
