package collector

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collector's prometheus instruments. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	// entries counts per-entry outcomes by strategy
	entries *prometheus.CounterVec

	// duration tracks whole-query latency by strategy
	duration *prometheus.HistogramVec

	// hashedBytes counts content bytes fed to the hasher
	hashedBytes prometheus.Counter
}

// NewMetrics creates the instruments and registers them with reg.
// A nil registerer creates unregistered instruments.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		entries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "filetools_collect_entries_total",
			Help: "Entries processed by collection strategies, by outcome",
		}, []string{"strategy", "outcome"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "filetools_collect_duration_seconds",
			Help:    "Collection query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10), // 1ms to ~4min
		}, []string{"strategy"}),
		hashedBytes: factory.NewCounter(prometheus.CounterOpts{
			Name: "filetools_hashed_bytes_total",
			Help: "Bytes read while hashing file content",
		}),
	}
}

func (m *Metrics) observeEntry(strategy string, o outcome) {
	if m == nil {
		return
	}
	m.entries.WithLabelValues(strategy, o.String()).Inc()
}

func (m *Metrics) observeDuration(strategy string, d time.Duration) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(strategy).Observe(d.Seconds())
}

func (m *Metrics) addHashed(n uint64) {
	if m == nil || n == 0 {
		return
	}
	m.hashedBytes.Add(float64(n))
}
