// Package metrics provides the centralized Prometheus registry for the signal engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	SignalsPublishedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "truesignal",
		Name:      "signals_published_total",
		Help:      "Total number of signals published",
	})
	SignalsSettledTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "truesignal",
		Name:      "signals_settled_total",
		Help:      "Total number of signals settled, by outcome",
	}, []string{"outcome"})
	SignalsDeletedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "truesignal",
		Name:      "signals_deleted_total",
		Help:      "Total number of signals deleted",
	})
	FeedEventsBroadcastTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "truesignal",
		Name:      "feed_events_broadcast_total",
		Help:      "Total number of feed events broadcast to subscribers",
	})
)

// Gauge metrics
var (
	AssertivityPercent = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "truesignal",
		Name:      "assertivity_percent",
		Help:      "Current win rate over settled signals",
	})
	ROIPercent = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "truesignal",
		Name:      "roi_percent",
		Help:      "Current odds-based ROI over settled signals",
	})
	PendingSignals = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "truesignal",
		Name:      "pending_signals",
		Help:      "Number of unsettled signals",
	})
	UnitsBalance = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "truesignal",
		Name:      "units_balance",
		Help:      "Latest cumulative units balance from the units history",
	})
	ConnectedFeedClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "truesignal",
		Name:      "connected_feed_clients",
		Help:      "Number of websocket subscribers on the signal feed",
	})
)

// Histogram metrics
var (
	StatsRecomputeDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "truesignal",
		Name:      "stats_recompute_duration_seconds",
		Help:      "Duration of aggregated stats recomputation in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(SignalsPublishedTotal)
		registry.MustRegister(SignalsSettledTotal)
		registry.MustRegister(SignalsDeletedTotal)
		registry.MustRegister(FeedEventsBroadcastTotal)

		registry.MustRegister(AssertivityPercent)
		registry.MustRegister(ROIPercent)
		registry.MustRegister(PendingSignals)
		registry.MustRegister(UnitsBalance)
		registry.MustRegister(ConnectedFeedClients)

		registry.MustRegister(StatsRecomputeDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordSignalPublished records a signal publication event.
func RecordSignalPublished() {
	SignalsPublishedTotal.Inc()
}

// RecordSignalSettled records a settlement event with its outcome.
func RecordSignalSettled(outcome string) {
	SignalsSettledTotal.WithLabelValues(outcome).Inc()
}

// RecordSignalDeleted records a deletion event.
func RecordSignalDeleted() {
	SignalsDeletedTotal.Inc()
}

// RecordFeedEventBroadcast records one fan-out to feed subscribers.
func RecordFeedEventBroadcast() {
	FeedEventsBroadcastTotal.Inc()
}

// UpdateAggregates pushes the latest computed metrics to the gauges.
func UpdateAggregates(assertivity, roi float64, pending int) {
	AssertivityPercent.Set(assertivity)
	ROIPercent.Set(roi)
	PendingSignals.Set(float64(pending))
}

// UpdateUnitsBalance updates the cumulative units gauge.
func UpdateUnitsBalance(units float64) {
	UnitsBalance.Set(units)
}

// RecordStatsRecompute records a stats recomputation duration.
func RecordStatsRecompute(durationSeconds float64) {
	StatsRecomputeDuration.Observe(durationSeconds)
}
