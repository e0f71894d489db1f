// Package metrics records bridge activity in a private Prometheus registry.
//
// A nil *Metrics is valid and records nothing, so components take one optionally.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "inkbridge"

// Metrics holds the bridge's counters.
type Metrics struct {
	registry *prometheus.Registry

	requests      *prometheus.CounterVec
	attempts      *prometheus.CounterVec
	cacheHits     *prometheus.CounterVec
	cacheMisses   *prometheus.CounterVec
	registrations *prometheus.CounterVec
}

// New creates the counters and registers them with a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Backend requests by endpoint and final outcome.",
		}, []string{"endpoint", "outcome"}),
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "request_attempts_total",
			Help:      "Individual HTTP attempts by endpoint, including retries.",
		}, []string{"endpoint"}),
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Resource cache reads served without a fetch.",
		}, []string{"kind"}),
		cacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Resource cache reads that triggered a fetch.",
		}, []string{"kind"}),
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "Registration handshakes by result (success, failed, rejected).",
		}, []string{"result"}),
	}

	m.registry.MustRegister(m.requests, m.attempts, m.cacheHits, m.cacheMisses, m.registrations)
	return m
}

// Registry exposes the underlying registry, e.g. for promhttp or testutil.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveRequest(endpoint, outcome string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(endpoint, outcome).Inc()
}

func (m *Metrics) ObserveAttempt(endpoint string) {
	if m == nil {
		return
	}
	m.attempts.WithLabelValues(endpoint).Inc()
}

func (m *Metrics) CacheHit(kind string) {
	if m == nil {
		return
	}
	m.cacheHits.WithLabelValues(kind).Inc()
}

func (m *Metrics) CacheMiss(kind string) {
	if m == nil {
		return
	}
	m.cacheMisses.WithLabelValues(kind).Inc()
}

func (m *Metrics) ObserveRegistration(result string) {
	if m == nil {
		return
	}
	m.registrations.WithLabelValues(result).Inc()
}

// WriteFile writes all metrics to path in the node_exporter textfile format.
func (m *Metrics) WriteFile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
