package instrumentation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterRequests *prometheus.CounterVec
	CounterSyncs    *prometheus.CounterVec
	CounterEntries  *prometheus.CounterVec

	// gauges
	GaugeTrackedDays prometheus.Gauge

	// histograms
	HistRequestDuration *prometheus.HistogramVec
	HistSyncDuration    prometheus.Histogram
}

func NewTestManager() *Manager {
	return NewManager("vitals", "test", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("vitals", "test", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	return &Manager{
		CounterRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request",
			Help:      "The total number of incoming requests",
		}, []string{"method", "route", "status"}),
		CounterSyncs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "sync",
			Help:      "The total number of provider syncs by outcome",
		}, []string{"outcome"}),
		CounterEntries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "entries",
			Help:      "The total number of manual entries by kind",
		}, []string{"kind"}),
		GaugeTrackedDays: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "tracked_days",
			Help:      "Number of days present in the dataset after the last sync",
		}),
		HistRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request_duration_seconds",
			Help:      "Request duration by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		HistSyncDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "sync_duration_seconds",
			Help:      "Duration of provider syncs",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}),
	}
}

func (m *Manager) SyncFinished(outcome string, seconds float64, trackedDays int) {
	m.CounterSyncs.WithLabelValues(outcome).Inc()
	m.HistSyncDuration.Observe(seconds)
	if outcome == "success" {
		m.GaugeTrackedDays.Set(float64(trackedDays))
	}
}

func (m *Manager) EntryLogged(kind string) {
	m.CounterEntries.WithLabelValues(kind).Inc()
}
