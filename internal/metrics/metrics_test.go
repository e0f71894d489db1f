package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters(t *testing.T) {
	m := New()

	m.ObserveRequest("/weather", "OK")
	m.ObserveRequest("/weather", "OK")
	m.ObserveRequest("/weather", "HTTP_ERROR_404")
	m.ObserveAttempt("/weather")
	m.CacheHit("weather")
	m.CacheMiss("weather")
	m.CacheMiss("stock")
	m.ObserveRegistration("success")

	if got := testutil.ToFloat64(m.requests.WithLabelValues("/weather", "OK")); got != 2 {
		t.Errorf("requests{OK} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues("/weather", "HTTP_ERROR_404")); got != 1 {
		t.Errorf("requests{404} = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(m.cacheMisses); got != 2 {
		t.Errorf("cache miss series = %d, want 2", got)
	}
	if got := testutil.ToFloat64(m.registrations.WithLabelValues("success")); got != 1 {
		t.Errorf("registrations{success} = %v, want 1", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	m.ObserveRequest("/x", "OK")
	m.ObserveAttempt("/x")
	m.CacheHit("weather")
	m.CacheMiss("weather")
	m.ObserveRegistration("failed")

	if m.Registry() != nil {
		t.Error("Registry() on nil metrics should be nil")
	}
	if err := m.WriteFile(filepath.Join(t.TempDir(), "x.prom")); err != nil {
		t.Errorf("WriteFile() on nil metrics error = %v", err)
	}
}

func TestWriteFile(t *testing.T) {
	m := New()
	m.ObserveRequest("/setup", "OK")

	path := filepath.Join(t.TempDir(), "inkbridge.prom")
	if err := m.WriteFile(path); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `inkbridge_requests_total{endpoint="/setup",outcome="OK"} 1`) {
		t.Errorf("textfile missing request counter:\n%s", data)
	}
}
