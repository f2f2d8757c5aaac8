package usecase

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the cache and upstream counters. A nil Metrics is valid
// and records nothing, so tests can construct the use case without a
// registry.
type Metrics struct {
	cacheHits      prometheus.Counter
	cacheMisses    prometheus.Counter
	upstreamErrors prometheus.Counter
}

// NewMetrics creates and registers the release notes counters
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "relnote_cache_hits_total",
			Help: "Number of lookups served from the release notes cache",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "relnote_cache_misses_total",
			Help: "Number of lookups that required an upstream fetch",
		}),
		upstreamErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "relnote_upstream_errors_total",
			Help: "Number of failed GitHub release fetches",
		}),
	}

	reg.MustRegister(m.cacheHits, m.cacheMisses, m.upstreamErrors)
	return m
}

func (m *Metrics) hit() {
	if m != nil {
		m.cacheHits.Inc()
	}
}

func (m *Metrics) miss() {
	if m != nil {
		m.cacheMisses.Inc()
	}
}

func (m *Metrics) upstreamError() {
	if m != nil {
		m.upstreamErrors.Inc()
	}
}
