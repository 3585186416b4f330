package prometheus

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/MolParse/internal/infrastructure/monitoring/logging"
)

func newTestCollector(t *testing.T) MetricsCollector {
	t.Helper()
	c, err := NewMetricsCollector(CollectorConfig{
		Namespace: "molparse",
		Subsystem: "test",
	}, logging.NewNopLogger())
	require.NoError(t, err)
	return c
}

func TestNewMetricsCollectorRequiresNamespace(t *testing.T) {
	_, err := NewMetricsCollector(CollectorConfig{}, logging.NewNopLogger())
	assert.Error(t, err)
}

func TestCounterRegistrationAndExposition(t *testing.T) {
	c := newTestCollector(t)

	vec := c.RegisterCounter("parses_total", "help", "outcome")
	vec.WithLabelValues("ok").Inc()
	vec.WithLabelValues("ok").Add(2)

	body := scrape(t, c)
	assert.Contains(t, body, `molparse_test_parses_total{outcome="ok"} 3`)
}

func TestRegistrationIsIdempotent(t *testing.T) {
	c := newTestCollector(t)

	first := c.RegisterCounter("dup_total", "help", "l")
	second := c.RegisterCounter("dup_total", "help", "l")

	first.WithLabelValues("a").Inc()
	second.WithLabelValues("a").Inc()

	body := scrape(t, c)
	assert.Contains(t, body, `molparse_test_dup_total{l="a"} 2`)
}

func TestGaugeAndHistogram(t *testing.T) {
	c := newTestCollector(t)

	g := c.RegisterGauge("in_flight", "help", "transport")
	g.WithLabelValues("http").Inc()
	g.WithLabelValues("http").Inc()
	g.WithLabelValues("http").Dec()

	h := c.RegisterHistogram("latency_seconds", "help", nil, "route")
	h.WithLabelValues("/parse").Observe(0.01)

	body := scrape(t, c)
	assert.Contains(t, body, `molparse_test_in_flight{transport="http"} 1`)
	assert.Contains(t, body, `molparse_test_latency_seconds_count{route="/parse"} 1`)
}

func TestRegistrationFailureYieldsNoop(t *testing.T) {
	c := newTestCollector(t)

	c.RegisterCounter("clash_total", "help", "l")
	// Same name, different label set: registry rejects it, caller gets a noop.
	bad := c.RegisterGauge("clash_total", "help", "other")
	assert.NotPanics(t, func() {
		bad.WithLabelValues("x").Set(1)
	})
}

func TestTimer(t *testing.T) {
	c := newTestCollector(t)
	h := c.RegisterHistogram("timed_seconds", "help", nil, "op")

	timer := NewTimer(h.WithLabelValues("parse"))
	timer.ObserveDuration()

	body := scrape(t, c)
	assert.Contains(t, body, `molparse_test_timed_seconds_count{op="parse"} 1`)

	assert.NotPanics(t, func() {
		(&Timer{}).ObserveDuration()
	})
}

func TestAppMetrics(t *testing.T) {
	c := newTestCollector(t)
	m := NewAppMetrics(c)
	require.NotNil(t, m)

	m.ParsesTotal.WithLabelValues("ok").Inc()
	m.ParseErrors.WithLabelValues("SMI_204").Inc()
	m.CacheEvents.WithLabelValues("hit").Inc()
	m.HTTPRequests.WithLabelValues("POST", "/api/v1/molecules/parse", "2xx").Inc()

	body := scrape(t, c)
	assert.Contains(t, body, `molparse_test_parses_total{outcome="ok"} 1`)
	assert.Contains(t, body, `molparse_test_parse_errors_total{code="SMI_204"} 1`)
}

func scrape(t *testing.T, c MetricsCollector) string {
	t.Helper()
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}
