// Package telemetry exposes the SDK's operational counters (fetch, poll,
// and persistence events) through prometheus/client_golang, promoted here
// from an indirect, opencensus-exporter-only dependency in the teacher's
// go.mod (internal/metrics/prometheus.go exports via
// contrib.go.opencensus.io/exporter/prometheus) to a direct one: a
// client-side SDK embedded in a host application has no HTTP endpoint of
// its own to scrape from, so it registers plain client_golang collectors
// against the default registry (or a caller-supplied one) for the host's
// own exporter to serve, rather than running its own /metrics listener the
// way ld-relay's server deployment does.
package telemetry

import "github.com/prometheus/client_golang/prometheus"

// Metrics groups every counter the SDK emits during its lifecycle.
type Metrics struct {
	FetchAttempts     prometheus.Counter
	FetchSuccesses    prometheus.Counter
	FetchFailures     prometheus.Counter
	PollSuccesses     prometheus.Counter
	PollFailures      prometheus.Counter
	CacheHits         prometheus.Counter
	CacheMisses       prometheus.Counter
	PersistenceErrors prometheus.Counter
}

// New builds a Metrics set with the given namespace and registers it
// against registerer. Pass prometheus.DefaultRegisterer to use the global
// registry, or a fresh prometheus.NewRegistry() for test isolation.
func New(namespace string, registerer prometheus.Registerer) *Metrics {
	counter := func(name, help string) prometheus.Counter {
		c := prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "eppo",
			Name:      name,
			Help:      help,
		})
		if registerer != nil {
			registerer.MustRegister(c)
		}
		return c
	}

	return &Metrics{
		FetchAttempts:     counter("fetch_attempts_total", "Total configuration fetch attempts."),
		FetchSuccesses:    counter("fetch_successes_total", "Total successful configuration fetches."),
		FetchFailures:     counter("fetch_failures_total", "Total failed configuration fetch attempts."),
		PollSuccesses:     counter("poll_successes_total", "Total successful poll cycles."),
		PollFailures:      counter("poll_failures_total", "Total failed poll cycles."),
		CacheHits:         counter("cache_hits_total", "Total HTTP conditional-GET cache hits."),
		CacheMisses:       counter("cache_misses_total", "Total HTTP conditional-GET cache misses."),
		PersistenceErrors: counter("persistence_errors_total", "Total persistent-cache write/read failures."),
	}
}

// Noop returns a Metrics set backed by unregistered counters, for callers
// that don't want telemetry wired to any registry.
func Noop() *Metrics {
	return New("", nil)
}
