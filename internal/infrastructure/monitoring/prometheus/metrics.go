package prometheus

// AppMetrics bundles the parse-pipeline instruments so constructors can take
// one dependency instead of registering metrics ad hoc.
type AppMetrics struct {
	// ParsesTotal counts parse attempts by outcome ("ok" or the error kind:
	// "lex", "syntax", "semantic").
	ParsesTotal CounterVec

	// ParseDuration observes wall time of a full parse in seconds, by outcome.
	ParseDuration HistogramVec

	// ParseErrors counts failures by error code.
	ParseErrors CounterVec

	// CacheEvents counts parse-cache lookups by result ("hit", "miss", "error").
	CacheEvents CounterVec

	// MoleculesPersisted counts rows written to storage.
	MoleculesPersisted CounterVec

	// EventsPublished counts broker publishes by topic and outcome.
	EventsPublished CounterVec

	// HTTPRequests counts served requests by method, route, and status class.
	HTTPRequests CounterVec

	// HTTPDuration observes request latency in seconds by method and route.
	HTTPDuration HistogramVec

	// InFlight gauges concurrent parse operations.
	InFlight GaugeVec
}

// NewAppMetrics registers the pipeline instruments on the collector.
func NewAppMetrics(c MetricsCollector) *AppMetrics {
	return &AppMetrics{
		ParsesTotal: c.RegisterCounter("parses_total",
			"Parse attempts by outcome.", "outcome"),
		ParseDuration: c.RegisterHistogram("parse_duration_seconds",
			"Parse latency in seconds.", nil, "outcome"),
		ParseErrors: c.RegisterCounter("parse_errors_total",
			"Parse failures by error code.", "code"),
		CacheEvents: c.RegisterCounter("cache_events_total",
			"Parse cache lookups by result.", "result"),
		MoleculesPersisted: c.RegisterCounter("molecules_persisted_total",
			"Molecules written to storage.", "status"),
		EventsPublished: c.RegisterCounter("events_published_total",
			"Broker events by topic and outcome.", "topic", "outcome"),
		HTTPRequests: c.RegisterCounter("http_requests_total",
			"HTTP requests by method, route, and status.", "method", "route", "status"),
		HTTPDuration: c.RegisterHistogram("http_request_duration_seconds",
			"HTTP request latency in seconds.", nil, "method", "route"),
		InFlight: c.RegisterGauge("parses_in_flight",
			"Concurrent parse operations.", "transport"),
	}
}
