package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the assessment service.
type Metrics struct {
	Assessments     *prometheus.CounterVec // labels: source={oracle,fallback}, status={safe,conditional,unsafe}
	OracleFailures  *prometheus.CounterVec // labels: reason={disabled,timeout,unavailable,validation}
	OracleDuration  prometheus.Histogram
	OracleEnabled   prometheus.Gauge
	NarrativeCache  *prometheus.CounterVec // labels: result={hit,miss,error}
	ProviderErrors  prometheus.Counter
	EventsPublished prometheus.Counter
	EventsFailed    prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith creates metrics registered with reg. The CLI passes a
// private registry since it never serves /metrics.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	m := newMetrics()

	reg.MustRegister(
		m.Assessments,
		m.OracleFailures,
		m.OracleDuration,
		m.OracleEnabled,
		m.NarrativeCache,
		m.ProviderErrors,
		m.EventsPublished,
		m.EventsFailed,
	)

	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Assessments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "water_safety",
			Name:      "assessments_total",
			Help:      "Completed assessments by verdict source and safety status.",
		}, []string{"source", "status"}),
		OracleFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "water_safety",
			Name:      "oracle_failures_total",
			Help:      "Oracle attempts that fell back to the rule evaluator, by reason.",
		}, []string{"reason"}),
		OracleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "water_safety",
			Name:      "oracle_request_duration_seconds",
			Help:      "Narrative generation latency in seconds, including failures.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		}),
		OracleEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "water_safety",
			Name:      "oracle_enabled",
			Help:      "1 when a narrative generator is configured, 0 otherwise.",
		}),
		NarrativeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "water_safety",
			Name:      "narrative_cache_total",
			Help:      "Narrative cache lookups by result.",
		}, []string{"result"}),
		ProviderErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "water_safety",
			Name:      "provider_errors_total",
			Help:      "Water data provider lookups that failed.",
		}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "water_safety",
			Name:      "events_published_total",
			Help:      "Assessment events delivered to the event sink.",
		}),
		EventsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "water_safety",
			Name:      "events_failed_total",
			Help:      "Assessment events the sink failed to deliver.",
		}),
	}
}
