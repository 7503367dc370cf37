package prometheus

import (
	"strconv"
	"time"
)

// AppMetrics holds the service metrics.
type AppMetrics struct {
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec
	GRPCRequestsTotal   CounterVec
	GRPCRequestDuration HistogramVec

	AnalysesTotal      CounterVec
	FeasibilityScore   HistogramVec
	AnalysisDuration   HistogramVec
	LLMRequestsTotal   CounterVec
	LLMRequestDuration HistogramVec
	SearchRequests     CounterVec
	SearchDuration     HistogramVec

	DBQueryDuration  HistogramVec
	CacheHitsTotal   CounterVec
	CacheMissesTotal CounterVec
	EventsTotal      CounterVec
	ErrorsTotal      CounterVec
}

var (
	DefaultHTTPDurationBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultLLMDurationBuckets  = []float64{.5, 1, 2, 5, 10, 30, 60, 120}
	DefaultDBDurationBuckets   = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 5}
	FeasibilityBuckets         = []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}
)

// NewAppMetrics registers all metrics on collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "Active HTTP requests", "method")

	m.GRPCRequestsTotal = collector.RegisterCounter("grpc_requests_total", "Total gRPC requests", "service", "method", "code")
	m.GRPCRequestDuration = collector.RegisterHistogram("grpc_request_duration_seconds", "gRPC request duration", DefaultHTTPDurationBuckets, "service", "method")

	m.AnalysesTotal = collector.RegisterCounter("feasibility_analyses_total", "Feasibility analyses by recommended technology", "recommendation")
	m.FeasibilityScore = collector.RegisterHistogram("feasibility_score", "Distribution of feasibility percentages", FeasibilityBuckets, "state")
	m.AnalysisDuration = collector.RegisterHistogram("feasibility_analysis_duration_seconds", "Engine analysis duration", DefaultDBDurationBuckets, "transport")

	m.LLMRequestsTotal = collector.RegisterCounter("llm_requests_total", "LLM requests total", "model", "operation", "status")
	m.LLMRequestDuration = collector.RegisterHistogram("llm_request_duration_seconds", "LLM request duration", DefaultLLMDurationBuckets, "model", "operation")
	m.SearchRequests = collector.RegisterCounter("web_search_requests_total", "Web search requests", "status")
	m.SearchDuration = collector.RegisterHistogram("web_search_duration_seconds", "Web search duration", DefaultHTTPDurationBuckets)

	m.DBQueryDuration = collector.RegisterHistogram("db_query_duration_seconds", "Database query duration", DefaultDBDurationBuckets, "db", "operation")
	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Cache misses", "cache")
	m.EventsTotal = collector.RegisterCounter("events_published_total", "Domain events published", "event_type", "status")
	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Total errors", "component", "error_type")

	return m
}

func statusLabel(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

func (m *AppMetrics) RecordHTTPRequest(method, path string, statusCode int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordGRPCRequest records one unary call. code is the gRPC status code name.
func (m *AppMetrics) RecordGRPCRequest(service, method, code string, duration time.Duration) {
	m.GRPCRequestsTotal.WithLabelValues(service, method, code).Inc()
	m.GRPCRequestDuration.WithLabelValues(service, method).Observe(duration.Seconds())
}

// RecordAnalysis records one engine run. transport is "http", "grpc" or "cli".
func (m *AppMetrics) RecordAnalysis(transport, recommendation, state string, feasibility int, duration time.Duration) {
	m.AnalysesTotal.WithLabelValues(recommendation).Inc()
	m.FeasibilityScore.WithLabelValues(state).Observe(float64(feasibility))
	m.AnalysisDuration.WithLabelValues(transport).Observe(duration.Seconds())
}

func (m *AppMetrics) RecordLLMCall(model, operation string, err error, duration time.Duration) {
	m.LLMRequestsTotal.WithLabelValues(model, operation, statusLabel(err)).Inc()
	m.LLMRequestDuration.WithLabelValues(model, operation).Observe(duration.Seconds())
}

func (m *AppMetrics) RecordSearchCall(err error, duration time.Duration) {
	m.SearchRequests.WithLabelValues(statusLabel(err)).Inc()
	m.SearchDuration.WithLabelValues().Observe(duration.Seconds())
}

func (m *AppMetrics) RecordDBQuery(db, operation string, duration time.Duration, err error) {
	m.DBQueryDuration.WithLabelValues(db, operation).Observe(duration.Seconds())
	if err != nil {
		m.ErrorsTotal.WithLabelValues(db, "query_error").Inc()
	}
}

func (m *AppMetrics) RecordCacheAccess(cache string, hit bool) {
	if hit {
		m.CacheHitsTotal.WithLabelValues(cache).Inc()
	} else {
		m.CacheMissesTotal.WithLabelValues(cache).Inc()
	}
}

func (m *AppMetrics) RecordEvent(eventType string, err error) {
	m.EventsTotal.WithLabelValues(eventType, statusLabel(err)).Inc()
}

func (m *AppMetrics) RecordError(component, errorType string) {
	m.ErrorsTotal.WithLabelValues(component, errorType).Inc()
}

//Personal.AI order the ending
