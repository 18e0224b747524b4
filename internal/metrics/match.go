package metrics

import "github.com/prometheus/client_golang/prometheus"

// Match Prometheus metrics.
var (
	MatchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "strokedex",
			Name:      "match_requests_total",
			Help:      "Total number of match requests",
		},
		[]string{"status"}, // "ok" / "empty" / "invalid"
	)

	MatchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "strokedex",
			Name:      "match_duration_seconds",
			Help:      "Match pipeline duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		},
	)

	MatchCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "strokedex",
			Name:      "match_cache_total",
			Help:      "Match result cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	CorpusEntries = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "strokedex",
			Name:      "corpus_entries",
			Help:      "Number of loaded corpus entries",
		},
	)
)

var matchMetricsRegistered bool

// RegisterMatchMetrics registers Prometheus match metrics. Must be called once from main.
func RegisterMatchMetrics() {
	if matchMetricsRegistered {
		return
	}
	prometheus.MustRegister(MatchRequestsTotal)
	prometheus.MustRegister(MatchDuration)
	prometheus.MustRegister(MatchCacheTotal)
	prometheus.MustRegister(CorpusEntries)
	matchMetricsRegistered = true
}
