package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
)

type Registry struct {
	reg                *prometheus.Registry
	Generations        prometheus.Counter
	GenerateLatencySec prometheus.Histogram
	OrdersGenerated    prometheus.Counter
	LineItemsGenerated prometheus.Counter
	InvalidRequests    prometheus.Counter
	CacheHits          prometheus.Counter
	CacheMisses        prometheus.Counter
	CacheEntries       prometheus.Gauge
	CacheRestored      prometheus.Counter
	LastSnapshotAgeSec prometheus.Gauge
	OrdersExported     prometheus.Counter
	ExportFailures     prometheus.Counter
	ExportTxLatencySec prometheus.Histogram
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	generations := prometheus.NewCounter(prometheus.CounterOpts{Name: "orderdash_generations_total"})
	genLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "orderdash_generate_latency_seconds",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
	})
	ordersGenerated := prometheus.NewCounter(prometheus.CounterOpts{Name: "orderdash_orders_generated_total"})
	lineItemsGenerated := prometheus.NewCounter(prometheus.CounterOpts{Name: "orderdash_line_items_generated_total"})
	invalid := prometheus.NewCounter(prometheus.CounterOpts{Name: "orderdash_invalid_requests_total"})
	hits := prometheus.NewCounter(prometheus.CounterOpts{Name: "orderdash_cache_hits_total"})
	misses := prometheus.NewCounter(prometheus.CounterOpts{Name: "orderdash_cache_misses_total"})
	entries := prometheus.NewGauge(prometheus.GaugeOpts{Name: "orderdash_cache_entries"})
	restored := prometheus.NewCounter(prometheus.CounterOpts{Name: "orderdash_cache_restored_entries_total"})
	snapAge := prometheus.NewGauge(prometheus.GaugeOpts{Name: "orderdash_last_snapshot_age_seconds"})
	exported := prometheus.NewCounter(prometheus.CounterOpts{Name: "orderdash_orders_exported_total"})
	exportFailures := prometheus.NewCounter(prometheus.CounterOpts{Name: "orderdash_export_failures_total"})
	txLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "orderdash_export_tx_latency_seconds",
		Buckets: prometheus.DefBuckets,
	})

	r.MustRegister(generations, genLatency, ordersGenerated, lineItemsGenerated, invalid,
		hits, misses, entries, restored, snapAge, exported, exportFailures, txLatency)
	return &Registry{
		reg:                r,
		Generations:        generations,
		GenerateLatencySec: genLatency,
		OrdersGenerated:    ordersGenerated,
		LineItemsGenerated: lineItemsGenerated,
		InvalidRequests:    invalid,
		CacheHits:          hits,
		CacheMisses:        misses,
		CacheEntries:       entries,
		CacheRestored:      restored,
		LastSnapshotAgeSec: snapAge,
		OrdersExported:     exported,
		ExportFailures:     exportFailures,
		ExportTxLatencySec: txLatency,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }

// Push sends every metric to a Pushgateway under job, replacing the job's
// previous group. Used by short-lived commands that cannot be scraped.
func (r *Registry) Push(ctx context.Context, gatewayURL, job string) error {
	if err := push.New(gatewayURL, job).Gatherer(r.reg).PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}
